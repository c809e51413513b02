package searchquery

import (
	"strings"

	srvErrors "github.com/kubev2v/search-query/pkg/errors"
)

// trimCutset is the set of characters trimmed around the query and around
// keyword values.
const trimCutset = " \t\n\r\x00\x0b"

// term is a lexed unit waiting to be classified.
type term struct {
	isText bool
	text   string

	keyword  string
	value    string
	quoted   bool
	operator string
	negate   bool

	start int
	end   int
}

// Parser turns query strings into SearchQuery values. A Parser is not safe
// for concurrent use.
type Parser struct {
	options Options
}

func NewParser(opts ...Option) *Parser {
	return &Parser{options: NewOptions(opts...)}
}

func (p *Parser) Options() Options {
	return p.options
}

func (p *Parser) SetOptions(options Options) *Parser {
	p.options = options
	return p
}

// Parse never fails: malformed ranges are recorded in SearchQuery.Errors and
// everything else degrades to free text.
func (p *Parser) Parse(s string) *SearchQuery {
	s = strings.Trim(s, trimCutset)

	q := newSearchQuery(p.options.Offsets)
	terms := p.scan(q, s)

	for _, t := range terms {
		if t.isText {
			if t.text == "" {
				continue
			}
			q.addText(t.text)
			q.addOffset(Span{Text: t.text, Start: t.start, End: t.end})
			continue
		}
		p.classify(q, t)
	}

	if q.Text == nil {
		q.Text = []Clause{}
	}

	return q
}

// scan lexes s. Excluded free text goes straight to q; everything else is
// returned in input order.
func (p *Parser) scan(q *SearchQuery, s string) []term {
	var terms []term

	lx := newLexer(s)
	for {
		start, tok, val := lx.Scan()
		if tok == eol {
			break
		}
		end := start + len(val)
		excluded := isExcluded(val)

		if sep := strings.IndexByte(val, ':'); sep >= 0 {
			value := strings.Trim(val[sep+1:], trimCutset)
			quoted := isQuoted(value)
			operator, value := splitOperator(unescape(stripQuotes(value)))
			if excluded {
				operator = invertOperator(operator)
			}

			terms = append(terms, term{
				keyword:  val[:sep],
				value:    value,
				quoted:   quoted,
				operator: operator,
				negate:   excluded,
				start:    start,
				end:      end,
			})
			continue
		}

		text := val
		if excluded {
			text = text[1:]
		}
		_, text = splitOperator(unescape(stripQuotes(text)))

		if excluded {
			q.addExcludedText(text)
			continue
		}
		terms = append(terms, term{isText: true, text: text, start: start, end: end})
	}

	return terms
}

// classify files a keyword term under match, excluded or text.
func (p *Parser) classify(q *SearchQuery, t term) {
	field := cleanKeyword(t.keyword)
	isKeyword := p.options.Keywords.Contains(field)
	isRange := p.options.Ranges.Contains(field)

	if !isKeyword && !isRange {
		text := t.keyword + ":" + t.value
		q.addText(text)
		q.addOffset(Span{Text: text, Start: t.start, End: t.end})
		return
	}

	excluded := isExcluded(t.keyword)

	if isKeyword {
		start := t.start
		if excluded {
			start++
		}
		q.addOffset(Span{Keyword: field, Value: t.value, Start: start, End: t.end})

		if t.value == "" {
			return
		}
		target := q.Match
		if excluded {
			target = q.Excluded
		}
		processKeyword(target, field, t)
		return
	}

	q.addOffset(Span{Keyword: field, Value: t.value, Start: t.start, End: t.end})
	processRange(q, field, t)
}

func processKeyword(target *Matches, field string, t term) {
	values := []string{t.value}
	if !t.quoted {
		values = strings.Split(t.value, ",")
	}

	target.add(field, Clause{
		Column:   field,
		Operator: t.operator,
		Negate:   t.negate,
		Value:    t.value,
	}, values)
}

func processRange(q *SearchQuery, field string, t term) {
	parts := splitRange(t.value)
	if len(parts) != 2 {
		q.addError(srvErrors.NewInvalidRangeError(field, parts))
		return
	}

	op := opBetween
	if t.negate {
		op = opNotBetween
	}

	to := parts[1]
	if to == "" {
		to = parts[0]
	}

	q.Match.set(field, &Match{
		Kind: SingleMatch,
		Clause: Clause{
			Column:   field,
			Operator: op,
			Negate:   t.negate,
			Range:    &Range{From: parts[0], To: to},
		},
	})
}

// splitRange splits on every hyphen that directly follows a digit, so
// "-1000--2500" gives "-1000" and "-2500".
func splitRange(v string) []string {
	var parts []string
	last := 0
	for i := 1; i < len(v); i++ {
		if v[i] == '-' && isDigit(v[i-1]) {
			parts = append(parts, v[last:i])
			last = i + 1
		}
	}
	return append(parts, v[last:])
}

// splitOperator extracts a leading comparison operator. The operator is "="
// when the value has none.
func splitOperator(v string) (string, string) {
	for _, op := range []string{opLessEqual, opGreaterEqual, opLess, opGreater} {
		if strings.HasPrefix(v, op) {
			return op, v[len(op):]
		}
	}
	return opEqual, v
}

// stripQuotes drops one leading and one trailing quote character.
func stripQuotes(s string) string {
	if s != "" && isQuote(s[0]) {
		s = s[1:]
	}
	if s != "" && isQuote(s[len(s)-1]) {
		s = s[:len(s)-1]
	}
	return s
}

// unescape resolves backslash escapes: \x becomes x, a trailing backslash
// is dropped.
func unescape(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] != '\n' {
			b.WriteByte(s[i+1])
			i++
		}
	}
	return b.String()
}

// isQuoted reports whether s is wrapped in double quotes. Single quoted
// keyword values are still split on commas.
func isQuoted(s string) bool {
	return len(s) >= 3 && s[0] == '"' && s[len(s)-1] == '"'
}

func isExcluded(s string) bool {
	return strings.HasPrefix(s, "-")
}

func cleanKeyword(s string) string {
	if isExcluded(s) {
		return s[1:]
	}
	return s
}

func isQuote(ch byte) bool {
	return ch == '"' || ch == '\''
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
