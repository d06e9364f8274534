package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type DocsRsConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type CratesIOConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type HTTPConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

type LogConfig struct {
	Level slog.Level `mapstructure:"level"`
	File  string     `mapstructure:"file"`
}

type MetricsConfig struct {
	Listen string `mapstructure:"listen"`
}

type CargoConfig struct {
	Path string `mapstructure:"path"`
}

type Config struct {
	DocsRs   DocsRsConfig   `mapstructure:"docs_rs"`
	CratesIO CratesIOConfig `mapstructure:"crates_io"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Cargo    CargoConfig    `mapstructure:"cargo"`
}

// Version is reported to docs.rs in the User-Agent and to MCP clients.
const Version = "0.1.0"

// ConfigDir returns the directory searched for config.toml after the
// working directory. Checks XDG_CONFIG_HOME, then ~/.config.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "docsrs-mcp")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "docsrs-mcp")
	}
	return ""
}

func InitializeViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.AddConfigPath(".")
	if dir := ConfigDir(); dir != "" {
		viper.AddConfigPath(dir)
	}

	viper.SetDefault("docs_rs.base_url", "https://docs.rs")
	viper.SetDefault("crates_io.base_url", "https://crates.io/api/v1")
	viper.SetDefault("http.timeout", "60s")
	viper.SetDefault("http.user_agent", "docsrs-mcp/"+Version)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "")
	viper.SetDefault("metrics.listen", "")
	viper.SetDefault("cargo.path", "")

	viper.SetEnvPrefix("DOCSRS_MCP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.BindEnv("docs_rs.base_url", "DOCSRS_MCP_DOCS_RS_BASE_URL", "DOCS_RS_URL"); err != nil {
		return fmt.Errorf("binding DOCS_RS_URL: %w", err)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

func stringToLevelHookFunc() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if t != reflect.TypeOf(slog.Level(0)) || f.Kind() != reflect.String {
			return data, nil
		}
		var level slog.Level
		if err := level.UnmarshalText([]byte(strings.TrimSpace(data.(string)))); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", data, err)
		}
		return level, nil
	}
}

func Load() (*Config, error) {
	if err := InitializeViper(); err != nil {
		return nil, err
	}

	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			stringToLevelHookFunc(),
		),
		Result: &config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(viper.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.HTTP.Timeout <= 0 {
		return nil, fmt.Errorf("http.timeout must be positive, got %s", config.HTTP.Timeout)
	}
	config.DocsRs.BaseURL = strings.TrimRight(strings.TrimSpace(config.DocsRs.BaseURL), "/")
	if config.DocsRs.BaseURL == "" {
		return nil, fmt.Errorf("docs_rs.base_url must not be empty")
	}

	return &config, nil
}
