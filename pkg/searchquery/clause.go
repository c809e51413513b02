package searchquery

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	textColumn = "text"

	opLike       = "like"
	opNotLike    = "not like"
	opBetween    = "between"
	opNotBetween = "not between"
)

// Range is the value of a range clause.
type Range struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Clause is a single condition to apply on a column.
type Clause struct {
	Column   string
	Operator string
	Negate   bool
	// Value is empty for range clauses.
	Value string
	Range *Range
}

func newTextClause(text string, negate bool) Clause {
	op := opLike
	if negate {
		op = opNotLike
	}
	return Clause{
		Column:   textColumn,
		Operator: op,
		Negate:   negate,
		Value:    "%" + text + "%",
	}
}

func (c Clause) IsRange() bool {
	return c.Range != nil
}

func (c Clause) String() string {
	if c.Range != nil {
		return fmt.Sprintf("(%s %s %s..%s)", c.Column, c.Operator, c.Range.From, c.Range.To)
	}
	return fmt.Sprintf("(%s %s %q)", c.Column, c.Operator, c.Value)
}

type clauseJSON struct {
	Column   string `json:"column"`
	Operator string `json:"operator"`
	Negate   bool   `json:"negate"`
	Value    any    `json:"value"`
}

func (c Clause) MarshalJSON() ([]byte, error) {
	out := clauseJSON{
		Column:   c.Column,
		Operator: c.Operator,
		Negate:   c.Negate,
		Value:    c.Value,
	}
	if c.Range != nil {
		out.Value = c.Range
	}
	return json.Marshal(out)
}

func (c *Clause) UnmarshalJSON(data []byte) error {
	var in struct {
		Column   string          `json:"column"`
		Operator string          `json:"operator"`
		Negate   bool            `json:"negate"`
		Value    json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*c = Clause{Column: in.Column, Operator: in.Operator, Negate: in.Negate}
	if len(in.Value) == 0 || bytes.Equal(in.Value, []byte("null")) {
		return nil
	}
	if in.Value[0] == '{' {
		c.Range = &Range{}
		return json.Unmarshal(in.Value, c.Range)
	}
	return json.Unmarshal(in.Value, &c.Value)
}

// MatchKind tells which shape a Match holds.
type MatchKind int

const (
	// SingleMatch is one clause: the field appeared once with one value.
	SingleMatch MatchKind = iota
	// ListMatch is a bare list of values: the field appeared once with
	// a comma separated value.
	ListMatch
	// MultipleMatch is a list of clauses: the field appeared several times.
	MultipleMatch
)

var matchKindNames = map[MatchKind]string{
	SingleMatch:   "single",
	ListMatch:     "list",
	MultipleMatch: "multiple",
}

func (k MatchKind) String() string {
	return matchKindNames[k]
}

// Match holds everything recorded for one field. Its shape depends on how
// many times the field occurred and how many values it carried.
type Match struct {
	Kind MatchKind
	// Clause is set for SingleMatch.
	Clause Clause
	// Values is set for ListMatch.
	Values []string
	// Clauses is set for MultipleMatch.
	Clauses []Clause

	// origin keeps the operator of the term a ListMatch came from so its
	// values can be turned back into clauses.
	origin Clause
}

func newMatch(c Clause, values []string) *Match {
	if len(values) > 1 {
		return &Match{Kind: ListMatch, Values: values, origin: c}
	}
	return &Match{Kind: SingleMatch, Clause: c}
}

// merge records another occurrence of the field.
//
//   - list or multiple + several values: values are concatenated
//   - list or multiple + one value: the clause is appended
//   - single + anything: becomes multiple [existing, new]
func (m *Match) merge(c Clause, values []string) {
	switch m.Kind {
	case ListMatch:
		if len(values) > 1 {
			m.Values = append(m.Values, values...)
			return
		}
		m.Clauses = append(m.lift(m.origin, m.Values), c)
		m.Values = nil
		m.Kind = MultipleMatch
	case MultipleMatch:
		if len(values) > 1 {
			m.Clauses = append(m.Clauses, m.lift(c, values)...)
			return
		}
		m.Clauses = append(m.Clauses, c)
	default:
		m.Clauses = []Clause{m.Clause, c}
		m.Clause = Clause{}
		m.Kind = MultipleMatch
	}
}

func (m *Match) lift(origin Clause, values []string) []Clause {
	clauses := make([]Clause, 0, len(values))
	for _, v := range values {
		c := origin
		c.Value = v
		clauses = append(clauses, c)
	}
	return clauses
}

// All returns the match as a list of clauses. List values are turned into
// one clause per value.
func (m *Match) All() []Clause {
	switch m.Kind {
	case ListMatch:
		return m.lift(m.origin, m.Values)
	case MultipleMatch:
		return append([]Clause(nil), m.Clauses...)
	default:
		return []Clause{m.Clause}
	}
}

func (m *Match) MarshalJSON() ([]byte, error) {
	switch m.Kind {
	case ListMatch:
		return json.Marshal(m.Values)
	case MultipleMatch:
		return json.Marshal(m.Clauses)
	default:
		return json.Marshal(m.Clause)
	}
}

// Matches maps field names to their match, keeping the order in which
// fields were first seen.
type Matches struct {
	fields  []string
	entries map[string]*Match
}

func newMatches() *Matches {
	return &Matches{entries: make(map[string]*Match)}
}

// Get returns the match recorded for field.
func (m *Matches) Get(field string) (*Match, bool) {
	if m == nil {
		return nil, false
	}
	e, ok := m.entries[field]
	return e, ok
}

func (m *Matches) Has(field string) bool {
	_, ok := m.Get(field)
	return ok
}

// Fields returns field names in first-seen order.
func (m *Matches) Fields() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.fields...)
}

func (m *Matches) Len() int {
	if m == nil {
		return 0
	}
	return len(m.fields)
}

// add records a term for field following the keyword merge policy.
func (m *Matches) add(field string, c Clause, values []string) {
	if e, ok := m.entries[field]; ok {
		e.merge(c, values)
		return
	}
	m.set(field, newMatch(c, values))
}

func (m *Matches) set(field string, match *Match) {
	if _, ok := m.entries[field]; !ok {
		m.fields = append(m.fields, field)
	}
	m.entries[field] = match
}

func (m *Matches) MarshalJSON() ([]byte, error) {
	return marshalOrdered(m, nil)
}

// marshalOrdered writes m as a JSON object in first-seen order. extra, when
// not nil, is written first under the "text" key.
func marshalOrdered(m *Matches, extra []Clause) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	n := 0
	if extra != nil {
		b, err := json.Marshal(extra)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`"` + textColumn + `":`)
		buf.Write(b)
		n++
	}

	for _, field := range m.Fields() {
		if extra != nil && field == textColumn {
			continue
		}
		key, err := json.Marshal(field)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.entries[field])
		if err != nil {
			return nil, err
		}
		if n > 0 {
			buf.WriteByte(',')
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
		n++
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
