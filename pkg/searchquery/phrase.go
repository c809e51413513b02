package searchquery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	srvErrors "github.com/kubev2v/search-query/pkg/errors"
)

// Value is a phrase value: a single scalar or an ordered list of scalars.
type Value struct {
	parts  []string
	isList bool
}

// Scalar builds a single value. Numbers and booleans are formatted the way
// they appear in a query string.
func Scalar(v any) Value {
	return Value{parts: []string{formatScalar(v)}}
}

// Values builds a list value.
func Values(vs ...any) Value {
	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		parts = append(parts, formatScalar(v))
	}
	return Value{parts: parts, isList: true}
}

func (v Value) IsList() bool {
	return v.isList
}

// Parts returns the scalars of the value.
func (v Value) Parts() []string {
	return append([]string(nil), v.parts...)
}

func (v Value) String() string {
	if v.isList {
		return "[" + strings.Join(v.parts, " ") + "]"
	}
	return v.scalar()
}

func (v Value) scalar() string {
	if len(v.parts) == 0 {
		return ""
	}
	return v.parts[0]
}

func (v Value) isEmpty() bool {
	if v.isList {
		return len(v.parts) == 0
	}
	return v.scalar() == ""
}

// toValue wraps anything accepted by the input constructors.
func toValue(v any) Value {
	switch t := v.(type) {
	case Value:
		return t
	case []string:
		return Value{parts: append([]string(nil), t...), isList: true}
	case []any:
		return Values(t...)
	case nil:
		return Scalar(nil)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		vs := make([]any, rv.Len())
		for i := range vs {
			vs[i] = rv.Index(i).Interface()
		}
		return Values(vs...)
	}
	return Scalar(v)
}

func formatScalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "1"
		}
		return ""
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// Input describes one phrase handed to the Compiler.
type Input struct {
	// Field is empty for free text.
	Field    string
	Value    Value
	Operator string
	Negate   bool

	// unsupported is set when the decoded field was neither a string nor
	// null. Such inputs are skipped by the compiler.
	unsupported bool
}

// Bare is free text: ["value"].
func Bare(value any) Input {
	return Input{Value: toValue(value), Operator: opEqual}
}

// BareNegated is free text that may be excluded: ["value", true].
func BareNegated(value any, negate bool) Input {
	return Input{Value: toValue(value), Operator: opEqual, Negate: negate}
}

// Keyword is a field match: ["field", "value"].
func Keyword(field string, value any) Input {
	return Input{Field: field, Value: toValue(value), Operator: opEqual}
}

// Comparison is a field match with an explicit operator:
// ["field", "value", ">=", true]. An empty operator means "=".
func Comparison(field string, value any, operator string, negate bool) Input {
	if operator == "" {
		operator = opEqual
	}
	return Input{Field: field, Value: toValue(value), Operator: operator, Negate: negate}
}

// Supported reports whether the compiler can use the input.
func (in Input) Supported() bool {
	return !in.unsupported
}

// InputFromTuple reads the loose tuple form:
//
//	[value]
//	[value, negate]            when the second element is a boolean
//	[field, value]
//	[field, value, operator]
//	[field, value, operator, negate]
func InputFromTuple(tuple []any) (Input, error) {
	if len(tuple) == 0 || len(tuple) > 4 {
		return Input{}, fmt.Errorf("expected 1 to 4 elements, got %d", len(tuple))
	}

	field := tuple[0]
	var value, negate any
	operator := any(opEqual)

	if len(tuple) > 1 {
		value = tuple[1]
	}
	if len(tuple) > 2 && tuple[2] != nil {
		operator = tuple[2]
	}
	if len(tuple) > 3 {
		negate = tuple[3]
	}

	switch len(tuple) {
	case 1:
		value, field = field, nil
	case 2:
		if b, ok := value.(bool); ok {
			negate, value, field = b, field, nil
		}
	}

	in := Input{
		Value:    toValue(value),
		Operator: formatScalar(operator),
	}

	switch n := negate.(type) {
	case nil:
	case bool:
		in.Negate = n
	default:
		return Input{}, fmt.Errorf("negate must be a boolean, got %T", negate)
	}

	switch f := field.(type) {
	case nil:
	case string:
		in.Field = f
	default:
		in.unsupported = true
	}

	return in, nil
}

func (in *Input) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var tuple []any
	if err := dec.Decode(&tuple); err != nil {
		return err
	}

	parsed, err := InputFromTuple(tuple)
	if err != nil {
		return err
	}
	*in = parsed
	return nil
}

// DecodeInputs decodes a JSON array of phrase tuples.
func DecodeInputs(data []byte) ([]Input, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode phrases: %w", err)
	}
	return decodeInputs(raw)
}

func decodeInputs(raw []json.RawMessage) ([]Input, error) {
	inputs := make([]Input, 0, len(raw))
	for i, r := range raw {
		var in Input
		if err := in.UnmarshalJSON(r); err != nil {
			return nil, srvErrors.NewInvalidPhraseError(i, err.Error())
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// InputsFromTuples converts already decoded tuples, for instance read from
// YAML.
func InputsFromTuples(tuples [][]any) ([]Input, error) {
	inputs := make([]Input, 0, len(tuples))
	for i, t := range tuples {
		in, err := InputFromTuple(t)
		if err != nil {
			return nil, srvErrors.NewInvalidPhraseError(i, err.Error())
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}
