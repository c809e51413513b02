package searchquery

import (
	"strings"
)

// phrase is an Input being formatted. prev and next index the neighbouring
// phrases in the compiler arena, -1 when there is none.
type phrase struct {
	operator string
	field    string
	value    Value
	negate   bool

	prev int
	next int
}

// Compiler turns a list of phrases into a canonical query string. A
// Compiler is not safe for concurrent use.
type Compiler struct {
	inputs  []Input
	options Options
}

func NewCompiler(inputs []Input, opts ...Option) *Compiler {
	return &Compiler{
		inputs:  inputs,
		options: NewOptions(opts...),
	}
}

func (c *Compiler) Inputs() []Input {
	return c.inputs
}

func (c *Compiler) SetInputs(inputs []Input) *Compiler {
	c.inputs = inputs
	return c
}

func (c *Compiler) Options() Options {
	return c.options
}

func (c *Compiler) SetOptions(options Options) *Compiler {
	c.options = options
	return c
}

// Compile formats every phrase and joins them with a space. Invalid ranges
// and unsupported inputs are dropped.
func (c *Compiler) Compile() string {
	arena := c.link()

	search := make([]string, 0, len(arena))
	for _, p := range arena {
		if p == nil {
			continue
		}
		if text, ok := c.format(arena, p); ok && text != "" {
			search = append(search, text)
		}
	}

	return strings.Join(search, " ")
}

// link builds the phrase arena. Unsupported inputs leave a nil slot so they
// are never used as neighbours.
func (c *Compiler) link() []*phrase {
	arena := make([]*phrase, len(c.inputs))
	for i, in := range c.inputs {
		if !in.Supported() {
			continue
		}
		arena[i] = &phrase{
			operator: in.Operator,
			field:    in.Field,
			value:    in.Value,
			negate:   in.Negate,
			prev:     -1,
			next:     -1,
		}
	}

	for i, p := range arena {
		if p == nil {
			continue
		}
		if i > 0 && arena[i-1] != nil {
			p.prev = i - 1
		}
		if i+1 < len(arena) && arena[i+1] != nil {
			p.next = i + 1
		}
	}

	return arena
}

// format renders p. It replaces p.value with its joined, possibly quoted
// form, which later phrases see when looking back at it.
func (c *Compiler) format(arena []*phrase, p *phrase) (string, bool) {
	hasCommas := strings.Contains(strings.Join(p.value.parts, ""), ",")

	if p.value.IsList() {
		glue := " "
		parts := p.value.parts

		switch {
		case c.isKeyword(p):
			glue = ","
		case c.isRange(p):
			glue = "-"
			if c.isInvalid(p) {
				return "", false
			}
			if len(parts) == 1 {
				parts = []string{parts[0], parts[0]}
			}
		}

		p.value = Scalar(strings.Join(parts, glue))
	}

	if c.canQuote(arena, p, hasCommas) {
		p.value = Scalar(`"` + p.value.scalar() + `"`)
	}

	var b strings.Builder
	if p.negate {
		b.WriteByte('-')
	}
	if p.field != "" {
		b.WriteString(p.field)
		b.WriteByte(':')
		if p.operator != opEqual {
			b.WriteString(p.operator)
		}
	}
	b.WriteString(p.value.scalar())

	return b.String(), true
}

// canQuote decides whether the value of p must be wrapped in quotes.
// Multi-word values next to a fielded phrase are quoted when they would
// otherwise read as part of that phrase.
func (c *Compiler) canQuote(arena []*phrase, p *phrase, hasCommas bool) bool {
	if c.options.AlwaysQuote {
		return true
	}

	v := p.value.scalar()
	if !c.isRange(p) && strings.Contains(v, "-") {
		return true
	}

	anchored := (p.prev >= 0 && c.isAnchor(arena[p.prev])) ||
		(p.next >= 0 && c.isAnchor(arena[p.next]))

	return anchored && !isDoubleQuoted(v) && hasSpace(v) && (hasCommas || p.field == "")
}

func (c *Compiler) isAnchor(p *phrase) bool {
	return p != nil && p.field != "" && !c.isInvalid(p)
}

func (c *Compiler) isInvalid(p *phrase) bool {
	if p.value.isEmpty() {
		return true
	}
	return p.value.IsList() && c.isRange(p) && len(p.value.parts) > 2
}

func (c *Compiler) isRange(p *phrase) bool {
	return p.field != "" && c.options.Ranges.Contains(p.field)
}

func (c *Compiler) isKeyword(p *phrase) bool {
	return p.field != "" && c.options.Keywords.Contains(p.field)
}

func isDoubleQuoted(s string) bool {
	return len(s) >= 3 && s[0] == '"' && s[len(s)-1] == '"'
}

func hasSpace(s string) bool {
	for i := 0; i < len(s); i++ {
		if isSpace(s[i]) {
			return true
		}
	}
	return false
}
