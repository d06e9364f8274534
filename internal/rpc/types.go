package rpc

import (
	"github.com/jcdickinson/docsrs-mcp/internal/docs"
)

// ListItemsRequest is the argument object of the list_items tool.
type ListItemsRequest struct {
	CrateName string `json:"crate_name"`
	Version   string `json:"version,omitempty"`
}

// ListItemsResponse is the result of list_items.
type ListItemsResponse struct {
	CrateName string       `json:"crate_name" yaml:"crate_name"`
	Version   string       `json:"version" yaml:"version"`
	Items     docs.Catalog `json:"items" yaml:"items"`
}

// GetTypeDocRequest is the argument object of the get_type_doc tool.
type GetTypeDocRequest struct {
	CrateName string `json:"crate_name"`
	TypeName  string `json:"type_name"`
	Version   string `json:"version,omitempty"`
	Kind      string `json:"kind,omitempty"`
}

// CrateInfoRequest is the argument object of the crate_info tool.
type CrateInfoRequest struct {
	CrateName string `json:"crate_name"`
}

// SearchCratesRequest is the argument object of the search_crates tool.
type SearchCratesRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// SearchCratesResponse is the result of search_crates.
type SearchCratesResponse struct {
	Results []docs.CrateSummary `json:"results" yaml:"results"`
}

// ErrorResponse is the body of a failed tool call.
type ErrorResponse struct {
	Code     string `json:"code" yaml:"code"`
	Message  string `json:"message" yaml:"message"`
	Crate    string `json:"crate_name,omitempty" yaml:"crate_name,omitempty"`
	TypeName string `json:"type_name,omitempty" yaml:"type_name,omitempty"`
	Version  string `json:"version,omitempty" yaml:"version,omitempty"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
}
