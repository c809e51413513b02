// Package errors provides custom error types for search-query.
//
// Each error type includes a constructor, Error() method, and a type-checking
// helper using errors.As for proper error unwrapping.
//
// # Error Types Overview
//
//	┌──────────────────────────┬────────┬─────────────────────────────────────┐
//	│ Error Type               │ HTTP   │ Description                         │
//	├──────────────────────────┼────────┼─────────────────────────────────────┤
//	│ InvalidRangeError        │ -      │ Range value with wrong part count   │
//	│ InvalidPhraseError       │ 400    │ Compiler phrase cannot be decoded   │
//	│ EmptyQueryError          │ 400    │ Nothing to parse or compile         │
//	│ BatchLimitError          │ 413    │ Batch larger than allowed           │
//	└──────────────────────────┴────────┴─────────────────────────────────────┘
//
// # InvalidRangeError
//
// Recorded by the parser in SearchQuery.Errors when a range field does not
// split into exactly two parts. It never aborts parsing. It serializes to
// JSON as a [message, context] pair:
//
//	["Invalid values for range 'price'.", {"value": ["10", "20", "30"]}]
//
// Constructor:
//   - NewInvalidRangeError(field string, values []string)
//
// # InvalidPhraseError
//
// Returned when a compiler phrase tuple cannot be decoded from JSON or YAML.
//
// Constructor:
//   - NewInvalidPhraseError(index int, reason string)
//
// # EmptyQueryError and BatchLimitError
//
// Returned by the query service for requests it refuses to run.
//
// # Type Checking Pattern
//
// All error types provide Is* helper functions that use errors.As
// for proper error chain unwrapping:
//
//	wrapped := fmt.Errorf("decode phrases: %w", errors.NewInvalidPhraseError(2, "unsupported arity"))
//	errors.IsInvalidPhraseError(wrapped) // returns true
//
// # Handler Error Mapping
//
//	switch {
//	case errors.IsInvalidPhraseError(err), errors.IsEmptyQueryError(err):
//	    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
//	case errors.IsBatchLimitError(err):
//	    c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
//	default:
//	    c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
//	}
package errors
