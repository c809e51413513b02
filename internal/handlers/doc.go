// Package handlers implements the HTTP API layer of the search query server.
//
// Handlers decode requests, merge per-request options over the server
// defaults and delegate to the query service. They own the mapping from
// service errors to HTTP status codes.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Request decoding                                             │
//	│  - Option overrides                                             │
//	│  - Error mapping to HTTP status codes                           │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      QueryService                               │
//	│  Parse │ ParseBatch (scheduler workers) │ Compile               │
//	└─────────────────────────────────────────────────────────────────┘
//
// # API Endpoints
//
// All routes are mounted under /api/v1 by RegisterHandlers:
//
//	┌────────┬──────────────┬──────────────────────────────────────────┐
//	│ Method │ Endpoint     │ Description                              │
//	├────────┼──────────────┼──────────────────────────────────────────┤
//	│ GET    │ /health      │ Liveness check                           │
//	│ POST   │ /parse       │ Parse one query string                   │
//	│ POST   │ /parse/batch │ Parse several queries on the workers     │
//	│ POST   │ /compile     │ Build a query string from phrase tuples  │
//	└────────┴──────────────┴──────────────────────────────────────────┘
//
// Every request may carry an "options" object overriding keywords, ranges,
// offsets or alwaysQuote. Field lists accept either ["a","b"] or "a,b".
//
// # Error Handling
//
//	┌──────────────────────┬────────┐
//	│ Error                │ Status │
//	├──────────────────────┼────────┤
//	│ malformed JSON       │ 400    │
//	│ EmptyQueryError      │ 400    │
//	│ InvalidPhraseError   │ 400    │
//	│ BatchLimitError      │ 413    │
//	│ deadline exceeded    │ 504    │
//	│ anything else        │ 500    │
//	└──────────────────────┴────────┘
//
// Range errors found while parsing are not request errors: they are returned
// inside the result under "errors".
//
// Error responses use the shape:
//
//	{"error": "description"}
package handlers
