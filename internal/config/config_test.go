package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every config source at empty temp directories.
func isolate(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("DOCS_RS_URL", "")
	for _, key := range []string{
		"DOCSRS_MCP_DOCS_RS_BASE_URL", "DOCSRS_MCP_HTTP_TIMEOUT", "DOCSRS_MCP_LOG_LEVEL",
		"DOCSRS_MCP_METRICS_LISTEN", "DOCSRS_MCP_CARGO_PATH",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	require.NoError(t, os.Unsetenv("DOCS_RS_URL"))
	return dir
}

func TestConfigDir_XDGSet(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	got := ConfigDir()
	want := filepath.Join("/custom/config", "docsrs-mcp")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestConfigDir_HomeDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home dir")
	}
	assert.Equal(t, filepath.Join(home, ".config", "docsrs-mcp"), ConfigDir())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://docs.rs", cfg.DocsRs.BaseURL)
	assert.Equal(t, "https://crates.io/api/v1", cfg.CratesIO.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "docsrs-mcp/"+Version, cfg.HTTP.UserAgent)
	assert.Equal(t, slog.LevelInfo, cfg.Log.Level)
	assert.Empty(t, cfg.Log.File)
	assert.Empty(t, cfg.Metrics.Listen)
	assert.Empty(t, cfg.Cargo.Path)
}

func TestLoad_File(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[docs_rs]
base_url = "http://mirror.local/"

[http]
timeout = "5s"

[log]
level = "debug"

[cargo]
path = "/opt/cargo/bin/cargo"
`), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://mirror.local", cfg.DocsRs.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.Equal(t, "/opt/cargo/bin/cargo", cfg.Cargo.Path)
}

func TestLoad_Env(t *testing.T) {
	isolate(t)
	t.Setenv("DOCSRS_MCP_HTTP_TIMEOUT", "90s")
	t.Setenv("DOCSRS_MCP_LOG_LEVEL", "warn")
	t.Setenv("DOCS_RS_URL", "http://localhost:3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, slog.LevelWarn, cfg.Log.Level)
	assert.Equal(t, "http://localhost:3000", cfg.DocsRs.BaseURL)
}

func TestLoad_PrefixedEnvWinsOverLegacy(t *testing.T) {
	isolate(t)
	t.Setenv("DOCS_RS_URL", "http://legacy")
	t.Setenv("DOCSRS_MCP_DOCS_RS_BASE_URL", "http://preferred")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://preferred", cfg.DocsRs.BaseURL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  string
		val  string
	}{
		{"bad level", "DOCSRS_MCP_LOG_LEVEL", "loud"},
		{"bad timeout", "DOCSRS_MCP_HTTP_TIMEOUT", "soon"},
		{"negative timeout", "DOCSRS_MCP_HTTP_TIMEOUT", "-1s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.env, tt.val)

			_, err := Load()
			require.Error(t, err)
		})
	}
}
