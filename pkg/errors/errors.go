package errors

import (
	"encoding/json"
	"errors"
	"fmt"
)

// InvalidRangeError indicates a range field whose value did not split into
// exactly two parts.
type InvalidRangeError struct {
	Field  string
	Values []string
}

func NewInvalidRangeError(field string, values []string) *InvalidRangeError {
	return &InvalidRangeError{Field: field, Values: values}
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("Invalid values for range '%s'.", e.Field)
}

// MarshalJSON encodes the error as a [message, context] pair.
func (e *InvalidRangeError) MarshalJSON() ([]byte, error) {
	values := e.Values
	if values == nil {
		values = []string{}
	}
	return json.Marshal([]any{
		e.Error(),
		map[string]any{"value": values},
	})
}

// IsInvalidRangeError checks if the error is an InvalidRangeError.
func IsInvalidRangeError(err error) bool {
	var e *InvalidRangeError
	return errors.As(err, &e)
}

// InvalidPhraseError indicates a compiler phrase that could not be decoded.
type InvalidPhraseError struct {
	Index  int
	Reason string
}

func NewInvalidPhraseError(index int, reason string) *InvalidPhraseError {
	return &InvalidPhraseError{Index: index, Reason: reason}
}

func (e *InvalidPhraseError) Error() string {
	return fmt.Sprintf("invalid phrase at index %d: %s", e.Index, e.Reason)
}

// IsInvalidPhraseError checks if the error is an InvalidPhraseError.
func IsInvalidPhraseError(err error) bool {
	var e *InvalidPhraseError
	return errors.As(err, &e)
}

// EmptyQueryError indicates a request without anything to parse or compile.
type EmptyQueryError struct{}

func NewEmptyQueryError() *EmptyQueryError {
	return &EmptyQueryError{}
}

func (e *EmptyQueryError) Error() string {
	return "query is empty"
}

func IsEmptyQueryError(err error) bool {
	var e *EmptyQueryError
	return errors.As(err, &e)
}

// BatchLimitError indicates a batch larger than the configured maximum.
type BatchLimitError struct {
	Size int
	Max  int
}

func NewBatchLimitError(size, max int) *BatchLimitError {
	return &BatchLimitError{Size: size, Max: max}
}

func (e *BatchLimitError) Error() string {
	return fmt.Sprintf("batch of %d queries exceeds the limit of %d", e.Size, e.Max)
}

// IsBatchLimitError checks if the error is a BatchLimitError.
func IsBatchLimitError(err error) bool {
	var e *BatchLimitError
	return errors.As(err, &e)
}
