package searchquery

type Token int

const (
	eol Token = iota
	// key:'value'
	keywordSingleQuoted
	// key:"value"
	keywordDoubleQuoted
	// key:value [more words]
	keyword
	// "phrase" or -"phrase"
	phraseDoubleQuoted
	// 'phrase' or -'phrase'
	phraseSingleQuoted
	// any other run of non-space characters
	word
)

var tokenNames = map[Token]string{
	eol:                 "eol",
	keywordSingleQuoted: "keywordSingleQuoted",
	keywordDoubleQuoted: "keywordDoubleQuoted",
	keyword:             "keyword",
	phraseDoubleQuoted:  "phraseDoubleQuoted",
	phraseSingleQuoted:  "phraseSingleQuoted",
	word:                "word",
}

func (t Token) String() string {
	return tokenNames[t]
}

// Comparison operators understood in keyword values.
const (
	opEqual        = "="
	opNotEqual     = "<>"
	opGreater      = ">"
	opGreaterEqual = ">="
	opLess         = "<"
	opLessEqual    = "<="
)

// invertedOperators mirrors an operator for an excluded term.
var invertedOperators = map[string]string{
	opEqual:        opNotEqual,
	opGreaterEqual: opLessEqual,
	opGreater:      opLess,
	opLessEqual:    opGreaterEqual,
	opLess:         opGreater,
}

func invertOperator(op string) string {
	if inv, ok := invertedOperators[op]; ok {
		return inv
	}
	return op
}
