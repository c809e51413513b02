package searchquery

import (
	"encoding/json"
)

// Span is the [Start, End) byte span of a recognized term in the parsed
// string. Keyword and Value are set for keyword and range terms, Text for
// free text.
type Span struct {
	Keyword string `json:"keyword,omitempty"`
	Value   string `json:"value,omitempty"`
	Text    string `json:"text,omitempty"`
	Start   int    `json:"offsetStart"`
	End     int    `json:"offsetEnd"`
}

// SearchQuery is the result of parsing a query string.
type SearchQuery struct {
	// Text holds free text clauses in input order. It is never nil once
	// returned by Parse.
	Text []Clause
	// Match holds keyword and range clauses by field.
	Match *Matches
	// Excluded holds negated keyword clauses by field.
	Excluded *Matches
	// ExcludedText holds negated free text clauses.
	ExcludedText []Clause
	// Errors holds recoverable parse errors.
	Errors []error
	// Offsets is nil when offsets were disabled.
	Offsets []Span
}

func newSearchQuery(offsets bool) *SearchQuery {
	q := &SearchQuery{
		Match:    newMatches(),
		Excluded: newMatches(),
	}
	if offsets {
		q.Offsets = []Span{}
	}
	return q
}

func (q *SearchQuery) addText(text string) {
	q.Text = append(q.Text, newTextClause(text, false))
}

func (q *SearchQuery) addExcludedText(text string) {
	q.ExcludedText = append(q.ExcludedText, newTextClause(text, true))
}

func (q *SearchQuery) addOffset(o Span) {
	if q.Offsets == nil {
		return
	}
	q.Offsets = append(q.Offsets, o)
}

func (q *SearchQuery) addError(err error) {
	q.Errors = append(q.Errors, err)
}

// Queries flattens the query into a single list of clauses: matched fields
// first, then excluded free text and excluded fields, then free text.
func (q *SearchQuery) Queries() []Clause {
	var queries []Clause

	for _, field := range q.Match.Fields() {
		m, _ := q.Match.Get(field)
		queries = append(queries, m.All()...)
	}

	queries = append(queries, q.ExcludedText...)
	for _, field := range q.Excluded.Fields() {
		m, _ := q.Excluded.Get(field)
		queries = append(queries, m.All()...)
	}

	return append(queries, q.Text...)
}

// HasErrors reports whether parsing recorded any error.
func (q *SearchQuery) HasErrors() bool {
	return len(q.Errors) > 0
}

type searchQueryJSON struct {
	Text     []Clause          `json:"text"`
	Match    json.RawMessage   `json:"match"`
	Excluded json.RawMessage   `json:"excluded"`
	Offsets  []Span            `json:"offsets"`
	Errors   []json.RawMessage `json:"errors,omitempty"`
}

func (q *SearchQuery) MarshalJSON() ([]byte, error) {
	match, err := marshalOrdered(q.Match, nil)
	if err != nil {
		return nil, err
	}
	excluded, err := marshalOrdered(q.Excluded, q.ExcludedText)
	if err != nil {
		return nil, err
	}

	out := searchQueryJSON{
		Text:     q.Text,
		Match:    match,
		Excluded: excluded,
		Offsets:  q.Offsets,
	}
	if out.Text == nil {
		out.Text = []Clause{}
	}

	for _, e := range q.Errors {
		b, err := marshalError(e)
		if err != nil {
			return nil, err
		}
		out.Errors = append(out.Errors, b)
	}

	return json.Marshal(out)
}

func marshalError(err error) ([]byte, error) {
	if m, ok := err.(json.Marshaler); ok {
		return m.MarshalJSON()
	}
	return json.Marshal([]any{err.Error(), map[string]any{}})
}
