package searchquery

import (
	"encoding/json"
	"slices"
	"strings"
)

// FieldList is a set of field names. It can be built from a list of names
// or from a single comma-joined string ("price,length").
type FieldList []string

// ParseFieldList splits a comma-joined list of field names.
func ParseFieldList(s string) FieldList {
	if s == "" {
		return FieldList{}
	}
	return FieldList(strings.Split(s, ","))
}

func (f FieldList) Contains(field string) bool {
	return slices.Contains(f, field)
}

func (f FieldList) String() string {
	return strings.Join(f, ",")
}

// UnmarshalJSON accepts either ["a","b"] or "a,b".
func (f *FieldList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = ParseFieldList(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*f = FieldList(list)
	return nil
}

// UnmarshalYAML accepts either a sequence of names or a comma-joined scalar.
func (f *FieldList) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		*f = ParseFieldList(s)
		return nil
	}

	var list []string
	if err := unmarshal(&list); err != nil {
		return err
	}
	*f = FieldList(list)
	return nil
}

// Options is shared by Parser and Compiler.
type Options struct {
	// Offsets records source offsets of every recognized term (Parser only).
	Offsets bool `json:"offsets" yaml:"offsets"`
	// Ranges are fields holding a "from-to" pair.
	Ranges FieldList `json:"ranges" yaml:"ranges"`
	// Keywords are fields holding comma separated values.
	Keywords FieldList `json:"keywords" yaml:"keywords"`
	// AlwaysQuote quotes every compiled value (Compiler only).
	AlwaysQuote bool `json:"alwaysQuote" yaml:"alwaysQuote"`
}

type Option func(*Options)

func WithOffsets(enabled bool) Option {
	return func(o *Options) {
		o.Offsets = enabled
	}
}

func WithRanges(fields ...string) Option {
	return func(o *Options) {
		o.Ranges = normalizeFields(fields)
	}
}

func WithKeywords(fields ...string) Option {
	return func(o *Options) {
		o.Keywords = normalizeFields(fields)
	}
}

func WithAlwaysQuote(enabled bool) Option {
	return func(o *Options) {
		o.AlwaysQuote = enabled
	}
}

// NewOptions returns the default options (offsets enabled, no ranges or
// keywords) with opts applied.
func NewOptions(opts ...Option) Options {
	o := Options{
		Offsets:  true,
		Ranges:   FieldList{},
		Keywords: FieldList{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// normalizeFields expands a single comma-joined entry into its names.
func normalizeFields(fields []string) FieldList {
	if len(fields) == 0 {
		return FieldList{}
	}
	if len(fields) == 1 {
		return ParseFieldList(fields[0])
	}
	return FieldList(slices.Clone(fields))
}
