package searchquery

// lexer splits a query string into terms. At every non-space position the
// alternatives below are tried in order and the first one that matches wins:
//
//	key:'...'                 single quoted keyword value
//	key:"..."                 double quoted keyword value
//	key:value [word ...]      unquoted keyword value, words up to the next key:
//	-?"..."                   double quoted phrase
//	-?'...'                   single quoted phrase
//	\S+                       anything else
//
// The key is the longest non-space prefix that still lets the value match,
// so "a:b:c" reads as key "a:b" and value "c".
type lexer struct {
	src    string
	offset int
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

// Scan returns the start offset, kind and text of the next term.
func (l *lexer) Scan() (int, Token, string) {
	for l.offset < len(l.src) && isSpace(l.src[l.offset]) {
		l.offset++
	}

	if l.offset >= len(l.src) {
		return l.offset, eol, ""
	}

	start := l.offset
	runEnd := start
	for runEnd < len(l.src) && !isSpace(l.src[runEnd]) {
		runEnd++
	}

	tok := word
	end := runEnd

	if e, ok := l.quotedKeyword(start, runEnd, '\''); ok {
		tok, end = keywordSingleQuoted, e
	} else if e, ok := l.quotedKeyword(start, runEnd, '"'); ok {
		tok, end = keywordDoubleQuoted, e
	} else if e, ok := l.unquotedKeyword(start, runEnd); ok {
		tok, end = keyword, e
	} else if e, ok := l.quotedPhrase(start, '"'); ok {
		tok, end = phraseDoubleQuoted, e
	} else if e, ok := l.quotedPhrase(start, '\''); ok {
		tok, end = phraseSingleQuoted, e
	}

	l.offset = end
	return start, tok, l.src[start:end]
}

// quotedKeyword matches key:<q>...<q> starting at start.
func (l *lexer) quotedKeyword(start, runEnd int, q byte) (int, bool) {
	for j := runEnd - 2; j > start; j-- {
		if l.src[j] != ':' || l.src[j+1] != q {
			continue
		}
		if closing, ok := l.quoteBody(j+2, q); ok {
			return closing + 1, true
		}
	}
	return 0, false
}

// quotedPhrase matches an optionally negated quoted phrase.
func (l *lexer) quotedPhrase(start int, q byte) (int, bool) {
	i := start
	if l.src[i] == '-' {
		i++
	}
	if i >= len(l.src) || l.src[i] != q {
		return 0, false
	}
	closing, ok := l.quoteBody(i+1, q)
	if !ok {
		return 0, false
	}
	return closing + 1, true
}

// quoteBody returns the offset of the first unescaped q at or after i.
func (l *lexer) quoteBody(i int, q byte) (int, bool) {
	for i < len(l.src) {
		switch c := l.src[i]; {
		case c == q:
			return i, true
		case c == '\\':
			if i+1 >= len(l.src) || l.src[i+1] == '\n' {
				return 0, false
			}
			i += 2
		default:
			i++
		}
	}
	return 0, false
}

// unquotedKeyword matches key:value with the right-most colon of the run
// that is followed by a usable value.
func (l *lexer) unquotedKeyword(start, runEnd int) (int, bool) {
	for j := runEnd - 1; j > start; j-- {
		if l.src[j] != ':' {
			continue
		}
		if end, ok := l.keywordValue(j + 1); ok {
			return end, true
		}
	}
	return 0, false
}

// keywordValue matches optional whitespace, the first value word and then
// as many following words as possible.
func (l *lexer) keywordValue(k int) (int, bool) {
	w := k
	for w < len(l.src) && isSpace(l.src[w]) {
		w++
	}

	// the leading whitespace is optional: give it back one byte at a time
	for m := w; m >= k; m-- {
		e := m
		for e < len(l.src) && l.src[e] != ':' && l.src[e] != ' ' {
			e++
		}
		if e > m {
			return l.moreWords(e), true
		}
	}
	return 0, false
}

func (l *lexer) moreWords(pos int) int {
	for {
		next, ok := l.nextWord(pos)
		if !ok {
			return pos
		}
		pos = next
	}
}

// nextWord matches whitespace followed by a word that ends on a word
// boundary, a space or the end of input, and is not followed by a colon.
func (l *lexer) nextWord(pos int) (int, bool) {
	w := pos
	for w < len(l.src) && isSpace(l.src[w]) {
		w++
	}
	if w == pos {
		return 0, false
	}

	for t := w; t > pos; t-- {
		we := t
		for we < len(l.src) && isValueWordChar(l.src[we]) {
			we++
		}
		for wl := we; wl > t; wl-- {
			if end, ok := l.wordEnd(wl); ok {
				return end, true
			}
		}
	}
	return 0, false
}

func (l *lexer) wordEnd(i int) (int, bool) {
	if l.isBoundary(i) && !l.colonAt(i) {
		return i, true
	}
	if i < len(l.src) && isSpace(l.src[i]) && !l.colonAt(i+1) {
		return i + 1, true
	}
	if i == len(l.src) {
		return i, true
	}
	return 0, false
}

func (l *lexer) colonAt(i int) bool {
	return i < len(l.src) && l.src[i] == ':'
}

func (l *lexer) isBoundary(i int) bool {
	before := i > 0 && isWordChar(l.src[i-1])
	after := i < len(l.src) && isWordChar(l.src[i])
	return before != after
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

func isWordChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '_'
}

// isValueWordChar reports whether ch can be part of a follow-up word of an
// unquoted keyword value.
func isValueWordChar(ch byte) bool {
	switch ch {
	case ':', '"', '-', ' ':
		return false
	default:
		return true
	}
}
