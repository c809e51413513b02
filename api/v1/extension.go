package v1

import (
	"github.com/kubev2v/search-query/pkg/searchquery"
)

// Apply returns base with the overrides set in o.
func (o *QueryOptions) Apply(base searchquery.Options) searchquery.Options {
	if o == nil {
		return base
	}

	if o.Keywords != nil {
		base.Keywords = *o.Keywords
	}
	if o.Ranges != nil {
		base.Ranges = *o.Ranges
	}
	if o.Offsets != nil {
		base.Offsets = *o.Offsets
	}
	if o.AlwaysQuote != nil {
		base.AlwaysQuote = *o.AlwaysQuote
	}

	return base
}

func NewParseResponse(query string, q *searchquery.SearchQuery) ParseResponse {
	queries := q.Queries()
	if queries == nil {
		queries = []searchquery.Clause{}
	}

	return ParseResponse{
		Query:   query,
		Result:  q,
		Queries: queries,
	}
}

func NewBatchParseResponse(queries []string, results []*searchquery.SearchQuery) BatchParseResponse {
	resp := BatchParseResponse{Results: make([]ParseResponse, 0, len(results))}
	for i, r := range results {
		resp.Results = append(resp.Results, NewParseResponse(queries[i], r))
	}
	return resp
}
