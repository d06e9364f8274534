package crateinfo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"braces.dev/errtrace"
)

var crateNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ErrInvalidCrate is returned for names cargo could not accept.
var ErrInvalidCrate = errors.New("invalid crate name")

// ErrCargoNotFound is returned when no cargo executable could be started.
var ErrCargoNotFound = errors.New("cargo not found")

// CommandError reports a cargo invocation that ran and failed.
type CommandError struct {
	Path   string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s info: %s", e.Path, msg)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Runner runs `cargo info`. CargoPath, when set, is tried before PATH and
// the usual install locations.
type Runner struct {
	CargoPath string
}

func (r *Runner) candidates() []string {
	var paths []string
	if r.CargoPath != "" {
		paths = append(paths, r.CargoPath)
	}
	paths = append(paths, "cargo", "/usr/bin/cargo", "/usr/local/bin/cargo")
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".cargo", "bin", "cargo"))
	}
	return paths
}

// Output returns what `cargo info <crate>` prints on stdout.
func (r *Runner) Output(ctx context.Context, crate string) (string, error) {
	if !crateNameRe.MatchString(crate) {
		return "", errtrace.Wrap(fmt.Errorf("%w: %q", ErrInvalidCrate, crate))
	}

	var lastErr error
	for _, path := range r.candidates() {
		var stdout, stderr bytes.Buffer
		cmd := exec.CommandContext(ctx, path, "info", crate)
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		slog.Debug("running cargo info", "cargo", path, "crate", crate)
		err := cmd.Run()
		if err == nil {
			return stdout.String(), nil
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// cargo ran and failed.
			return "", errtrace.Wrap(&CommandError{Path: path, Stderr: stderr.String(), Err: err})
		}
		if ctx.Err() != nil {
			return "", errtrace.Wrap(ctx.Err())
		}
		lastErr = err
	}
	return "", errtrace.Wrap(fmt.Errorf("%w (last error: %v)", ErrCargoNotFound, lastErr))
}

// Lookup runs cargo and parses its output.
func (r *Runner) Lookup(ctx context.Context, crate string) (*Info, error) {
	out, err := r.Output(ctx, crate)
	if err != nil {
		return nil, err
	}
	info, err := Parse(out)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return info, nil
}
