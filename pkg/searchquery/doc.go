// Package searchquery reads and writes search-engine style query strings.
//
// Syntax
//
//	query    : term* ;
//	term     : "-"? keyword ":" value
//	         | "-"? PHRASE
//	         | WORD ;
//	value    : QUOTED | operator? WORDS ;
//	operator : "<=" | ">=" | "<" | ">" ;
//
//	PHRASE   : '"' ( '\"' | . )*? '"' | "'" ( "\'" | . )*? "'" ;
//	WORDS    : [^: ]+ ( \s+ word )*       // a word followed by ":" starts a new term
//
// Fields are only recognized when listed in the options: keywords take comma
// separated values, ranges take a "from-to" pair. Any other "key:value" term is
// kept as free text. Only a double quoted keyword value keeps its commas:
// tag:"a,b" is one value, tag:'a,b' is two.
//
// Example
//
//	q := searchquery.NewParser(
//	    searchquery.WithKeywords("site", "title"),
//	    searchquery.WithRanges("price"),
//	).Parse(`site:example.org price:5-99 "cities and towns" -education`)
//
//	q.Match      // site (=), price (between 5 and 99)
//	q.Text       // text like %cities and towns%
//	q.ExcludedText // text not like %education%
//
// The Compiler does the reverse:
//
//	searchquery.NewCompiler([]searchquery.Input{
//	    searchquery.Keyword("title", "Slovakia"),
//	    searchquery.Bare("cities and towns"),
//	}).Compile() // title:Slovakia "cities and towns"
package searchquery
