package rpc

import (
	"errors"

	"github.com/jcdickinson/docsrs-mcp/internal/crateinfo"
	"github.com/jcdickinson/docsrs-mcp/internal/docs"
	"github.com/jcdickinson/docsrs-mcp/internal/harvest"
)

// Error codes beyond the harvest ones.
const (
	CodeCargoUnavailable = "cargo_unavailable"
	CodeCargoFailed      = "cargo_failed"
)

// NewErrorResponse describes err for a client.
func NewErrorResponse(err error) ErrorResponse {
	resp := ErrorResponse{Code: string(harvest.CodeInternal), Message: err.Error()}

	var he *harvest.Error
	var ce *crateinfo.CommandError
	var fe *docs.FetchError
	switch {
	case errors.As(err, &he):
		resp.Code = string(he.Code)
		resp.Message = he.Err.Error()
		resp.Crate = he.Crate
		resp.TypeName = he.Name
		resp.Version = he.Version
		resp.URL = he.URL
	case errors.Is(err, crateinfo.ErrInvalidCrate):
		resp.Code = string(harvest.CodeMalformedInput)
	case errors.Is(err, crateinfo.ErrCargoNotFound):
		resp.Code = CodeCargoUnavailable
	case errors.As(err, &ce):
		resp.Code = CodeCargoFailed
	case errors.As(err, &fe):
		resp.Code = string(harvest.CodeFetch)
		resp.URL = fe.URL
	}
	return resp
}
