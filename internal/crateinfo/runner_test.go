package crateinfo

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCargo writes a shell script standing in for cargo.
func fakeCargo(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	p := filepath.Join(t.TempDir(), "cargo")
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return p
}

func TestRunnerLookup(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(out, []byte(serdeInfo), 0o644))

	r := &Runner{CargoPath: fakeCargo(t, `[ "$1" = info ] && [ "$2" = serde ] || exit 2
cat '`+out+`'`)}

	info, err := r.Lookup(context.Background(), "serde")
	require.NoError(t, err)
	assert.Equal(t, "serde", info.Name)
	assert.Equal(t, "1.0.215", info.Version)
	assert.Len(t, info.Features, 5)
}

func TestRunnerCommandError(t *testing.T) {
	r := &Runner{CargoPath: fakeCargo(t, "echo \"error: could not find '$2' in registry\" >&2; exit 101")}

	_, err := r.Lookup(context.Background(), "no-such-crate")
	require.Error(t, err)

	var ce *CommandError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, err.Error(), "could not find 'no-such-crate' in registry")
}

func TestRunnerInvalidCrate(t *testing.T) {
	t.Parallel()

	r := &Runner{}
	for _, name := range []string{"", "--help", "a b", "../x"} {
		_, err := r.Output(context.Background(), name)
		assert.ErrorIs(t, err, ErrInvalidCrate, name)
	}
}
