package harvest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jcdickinson/docsrs-mcp/internal/docs"
)

// Code classifies a failed harvest for callers.
type Code string

const (
	CodeFetch          Code = "fetch"
	CodeNotFound       Code = "not_found"
	CodeMalformedInput Code = "malformed_input"
	CodeInternal       Code = "internal"
)

var (
	// ErrFetch matches failures to retrieve a page.
	ErrFetch = errors.New("fetch failed")

	// ErrNotFound matches type lookups that no page layout could resolve.
	ErrNotFound = errors.New("type not found")

	// ErrMalformedInput matches requests rejected before any fetch.
	ErrMalformedInput = errors.New("malformed input")

	// ErrInternal matches everything else.
	ErrInternal = errors.New("internal error")
)

var codeSentinels = map[Code]error{
	CodeFetch:          ErrFetch,
	CodeNotFound:       ErrNotFound,
	CodeMalformedInput: ErrMalformedInput,
	CodeInternal:       ErrInternal,
}

// Error is the single failure an operation returns. The context fields that
// apply to the failure are set.
type Error struct {
	Code    Code
	Crate   string
	Name    string
	Version string
	URL     string
	Err     error
}

func (e *Error) Error() string {
	var ctx []string
	if e.Crate != "" {
		ctx = append(ctx, "crate="+e.Crate)
	}
	if e.Name != "" {
		ctx = append(ctx, "type="+e.Name)
	}
	if e.Version != "" {
		ctx = append(ctx, "version="+e.Version)
	}
	if e.URL != "" {
		ctx = append(ctx, "url="+e.URL)
	}
	msg := fmt.Sprintf("%s: %v", e.Code, e.Err)
	if len(ctx) > 0 {
		msg += " (" + strings.Join(ctx, " ") + ")"
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's code.
func (e *Error) Is(target error) bool {
	return codeSentinels[e.Code] == target
}

// CodeOf returns the code of a harvest error, or CodeInternal.
func CodeOf(err error) Code {
	var he *Error
	if errors.As(err, &he) {
		return he.Code
	}
	return CodeInternal
}

func malformed(format string, args ...any) error {
	return MalformedInput(fmt.Errorf(format, args...))
}

// MalformedInput marks err as a request rejected before any fetch, such as
// a missing or wrongly typed argument.
func MalformedInput(err error) error {
	return &Error{Code: CodeMalformedInput, Err: err}
}

// classify turns an engine error into an Error carrying the request context.
func classify(err error, crate, name, version string) error {
	he := &Error{Crate: crate, Name: name, Version: version, Err: err}

	var fe *docs.FetchError
	var nf *docs.NotFoundError
	switch {
	case errors.As(err, &nf):
		he.Code = CodeNotFound
		he.Version = nf.Version
	case errors.As(err, &fe):
		he.Code = CodeFetch
		he.URL = fe.URL
	default:
		he.Code = CodeInternal
	}
	return he
}
