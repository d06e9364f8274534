package cmd

import (
	"errors"
	"net/http"

	"github.com/jcdickinson/docsrs-mcp/internal/crateinfo"
	"github.com/jcdickinson/docsrs-mcp/internal/docs"
	"github.com/jcdickinson/docsrs-mcp/internal/harvest"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitError    = 1
	ExitNetwork  = 3
	ExitInput    = 4
	ExitNotFound = 6
)

// errReported marks a failure whose details were already printed.
var errReported = errors.New("errors reported")

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error  { return &exitError{code: ExitInput, err: err} }
func configError(err error) error { return &exitError{code: ExitError, err: err} }

// ExitCode maps a command failure to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	var fe *docs.FetchError
	isFetch := errors.As(err, &fe)
	switch {
	case errors.Is(err, harvest.ErrMalformedInput), errors.Is(err, crateinfo.ErrInvalidCrate):
		return ExitInput
	case errors.Is(err, harvest.ErrNotFound):
		return ExitNotFound
	case isFetch && fe.StatusCode == http.StatusNotFound:
		return ExitNotFound
	case isFetch, errors.Is(err, harvest.ErrFetch):
		return ExitNetwork
	default:
		return ExitError
	}
}
