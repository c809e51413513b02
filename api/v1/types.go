package v1

import (
	"encoding/json"

	"github.com/kubev2v/search-query/pkg/searchquery"
)

// QueryOptions overrides the server defaults for a single request. Nil
// fields keep the default.
type QueryOptions struct {
	Keywords    *searchquery.FieldList `json:"keywords,omitempty"`
	Ranges      *searchquery.FieldList `json:"ranges,omitempty"`
	Offsets     *bool                  `json:"offsets,omitempty"`
	AlwaysQuote *bool                  `json:"alwaysQuote,omitempty"`
}

// ParseRequest defines model for ParseRequest.
type ParseRequest struct {
	Query   string        `json:"query"`
	Options *QueryOptions `json:"options,omitempty"`
}

// ParseResponse defines model for ParseResponse.
type ParseResponse struct {
	Query   string                   `json:"query"`
	Result  *searchquery.SearchQuery `json:"result"`
	Queries []searchquery.Clause     `json:"queries"`
}

// BatchParseRequest defines model for BatchParseRequest.
type BatchParseRequest struct {
	Queries []string      `json:"queries"`
	Options *QueryOptions `json:"options,omitempty"`
}

// BatchParseResponse defines model for BatchParseResponse.
type BatchParseResponse struct {
	Results []ParseResponse `json:"results"`
}

// CompileRequest defines model for CompileRequest. Phrases is a list of
// tuples: [value], [value, negate], [field, value], [field, value, operator]
// or [field, value, operator, negate].
type CompileRequest struct {
	Phrases json.RawMessage `json:"phrases"`
	Options *QueryOptions   `json:"options,omitempty"`
}

// CompileResponse defines model for CompileResponse.
type CompileResponse struct {
	Query string `json:"query"`
}

// HealthResponse defines model for HealthResponse.
type HealthResponse struct {
	Status string `json:"status"`
}
