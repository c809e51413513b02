package searchquery

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	srvErrors "github.com/kubev2v/search-query/pkg/errors"
)

func text(value string) Clause {
	return Clause{Column: textColumn, Operator: opLike, Value: "%" + value + "%"}
}

func notText(value string) Clause {
	return Clause{Column: textColumn, Operator: opNotLike, Negate: true, Value: "%" + value + "%"}
}

func mustGet(m *Matches, field string) *Match {
	match, ok := m.Get(field)
	ExpectWithOffset(1, ok).To(BeTrue(), "field %q not found", field)
	return match
}

var _ = Describe("Parser", func() {
	It("should parse free text", func() {
		q := NewParser().Parse("Slovakia")

		Expect(q.Text).To(Equal([]Clause{text("Slovakia")}))
		Expect(q.Match.Len()).To(BeZero())
		Expect(q.Excluded.Len()).To(BeZero())
	})

	It("should return an empty text list for a blank query", func() {
		q := NewParser().Parse("   \t ")

		Expect(q.Text).NotTo(BeNil())
		Expect(q.Text).To(BeEmpty())
		Expect(q.Offsets).To(BeEmpty())
	})

	It("should split keyword values on commas and keep quoted values whole", func() {
		q := NewParser(WithKeywords("author", "publisher")).
			Parse(`author:me,John Snow publisher:"Stan Smith, Jr"`)

		author := mustGet(q.Match, "author")
		Expect(author.Kind).To(Equal(ListMatch))
		Expect(author.Values).To(Equal([]string{"me", "John Snow"}))

		publisher := mustGet(q.Match, "publisher")
		Expect(publisher.Kind).To(Equal(SingleMatch))
		Expect(publisher.Clause).To(Equal(Clause{Column: "publisher", Operator: "=", Value: "Stan Smith, Jr"}))
	})

	It("should split single quoted keyword values on commas", func() {
		q := NewParser(WithKeywords("tag")).Parse(`tag:'a,b'`)

		tag := mustGet(q.Match, "tag")
		Expect(tag.Kind).To(Equal(ListMatch))
		Expect(tag.Values).To(Equal([]string{"a", "b"}))
	})

	It("should continue an unquoted keyword value over following words", func() {
		q := NewParser(WithKeywords("site")).Parse("site:example.org hello")

		site := mustGet(q.Match, "site")
		Expect(site.Kind).To(Equal(SingleMatch))
		Expect(site.Clause.Value).To(Equal("example.org hello"))
		Expect(q.Text).To(BeEmpty())

		q = NewParser(WithKeywords("site")).Parse("hello site:example.org")
		Expect(mustGet(q.Match, "site").Clause.Value).To(Equal("example.org"))
		Expect(q.Text).To(Equal([]Clause{text("hello")}))
	})

	It("should collect repeated keywords", func() {
		q := NewParser(WithKeywords("price")).Parse("price:>10 price:<100")

		price := mustGet(q.Match, "price")
		Expect(price.Kind).To(Equal(MultipleMatch))
		Expect(price.Clauses).To(Equal([]Clause{
			{Column: "price", Operator: ">", Value: "10"},
			{Column: "price", Operator: "<", Value: "100"},
		}))
	})

	It("should parse ranges", func() {
		q := NewParser(WithRanges("price", "minus", "length")).
			Parse("price:5-99 minus:-1000--2500 -length:100-600")

		Expect(mustGet(q.Match, "price").Clause).To(Equal(Clause{
			Column: "price", Operator: "between", Range: &Range{From: "5", To: "99"},
		}))
		Expect(mustGet(q.Match, "minus").Clause).To(Equal(Clause{
			Column: "minus", Operator: "between", Range: &Range{From: "-1000", To: "-2500"},
		}))
		Expect(mustGet(q.Match, "length").Clause).To(Equal(Clause{
			Column: "length", Operator: "not between", Negate: true, Range: &Range{From: "100", To: "600"},
		}))
		Expect(q.Excluded.Len()).To(BeZero())
	})

	It("should use the lower bound when the upper bound is empty", func() {
		q := NewParser(WithRanges("price")).Parse("price:5-")

		Expect(mustGet(q.Match, "price").Clause.Range).To(Equal(&Range{From: "5", To: "5"}))
	})

	It("should keep the last occurrence of a range", func() {
		q := NewParser(WithRanges("price")).Parse("price:1-2 price:3-4")

		price := mustGet(q.Match, "price")
		Expect(price.Kind).To(Equal(SingleMatch))
		Expect(price.Clause.Range).To(Equal(&Range{From: "3", To: "4"}))
	})

	It("should read operators", func() {
		q := NewParser(WithKeywords("price")).Parse("price:>=100")

		Expect(mustGet(q.Match, "price").Clause).To(Equal(Clause{Column: "price", Operator: ">=", Value: "100"}))
	})

	It("should parse a complex query", func() {
		q := NewParser(WithKeywords("site,title,inurl"), WithOffsets(false)).
			Parse(`site:en.wikipedia.org/ title:Slovakia "cities and towns" -education inurl:wiki/`)

		Expect(q.Text).To(Equal([]Clause{text("cities and towns")}))
		Expect(q.Match.Fields()).To(Equal([]string{"site", "title", "inurl"}))
		Expect(mustGet(q.Match, "site").Clause).To(Equal(Clause{Column: "site", Operator: "=", Value: "en.wikipedia.org/"}))
		Expect(mustGet(q.Match, "title").Clause).To(Equal(Clause{Column: "title", Operator: "=", Value: "Slovakia"}))
		Expect(mustGet(q.Match, "inurl").Clause).To(Equal(Clause{Column: "inurl", Operator: "=", Value: "wiki/"}))
		Expect(q.ExcludedText).To(Equal([]Clause{notText("education")}))
		Expect(q.Excluded.Len()).To(BeZero())
		Expect(q.Offsets).To(BeNil())
		Expect(q.Queries()).To(HaveLen(5))
	})

	It("should parse quoted phrases", func() {
		q := NewParser().
			Parse(`"Czechoslovakia" -"Slovak republic" -"Czech" -"Czechia" "Foreign trade"`)

		Expect(q.Text).To(Equal([]Clause{text("Czechoslovakia"), text("Foreign trade")}))
		Expect(q.ExcludedText).To(Equal([]Clause{
			notText("Slovak republic"),
			notText("Czech"),
			notText("Czechia"),
		}))
	})

	It("should record invalid ranges and fall back to text for unknown keywords", func() {
		q := NewParser(WithRanges("price"), WithOffsets(false)).
			Parse("Book: The Little Prince price:10-20-30")

		Expect(q.Match.Len()).To(BeZero())
		Expect(q.Text).To(Equal([]Clause{text("Book:The Little Prince")}))
		Expect(q.Errors).To(HaveLen(1))
		Expect(srvErrors.IsInvalidRangeError(q.Errors[0])).To(BeTrue())
		Expect(q.Errors[0].Error()).To(Equal("Invalid values for range 'price'."))

		b, err := json.Marshal(q.Errors[0])
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(MatchJSON(`["Invalid values for range 'price'.", {"value": ["10", "20", "30"]}]`))
	})

	It("should invert operators of excluded keywords", func() {
		q := NewParser(WithKeywords("product", "price", "category"), WithOffsets(false)).
			Parse("product:Apple -price: >=1000 -category: Computers")

		Expect(mustGet(q.Match, "product").Clause).To(Equal(Clause{Column: "product", Operator: "=", Value: "Apple"}))
		Expect(mustGet(q.Excluded, "price").Clause).To(Equal(Clause{Column: "price", Operator: "<=", Negate: true, Value: "1000"}))
		Expect(mustGet(q.Excluded, "category").Clause).To(Equal(Clause{Column: "category", Operator: "<>", Negate: true, Value: "Computers"}))
	})

	Context("Operator inversion", func() {
		type testCase struct {
			input    string
			operator string
		}

		tests := []testCase{
			{input: "-price:5", operator: "<>"},
			{input: "-price:>=5", operator: "<="},
			{input: "-price:>5", operator: "<"},
			{input: "-price:<=5", operator: ">="},
			{input: "-price:<5", operator: ">"},
		}

		for _, test := range tests {
			test := test
			It("should invert: "+test.input, func() {
				q := NewParser(WithKeywords("price")).Parse(test.input)

				price := mustGet(q.Excluded, "price")
				Expect(price.Clause.Operator).To(Equal(test.operator))
				Expect(price.Clause.Value).To(Equal("5"))
				Expect(price.Clause.Negate).To(BeTrue())
			})
		}
	})

	It("should keep unknown keywords as text", func() {
		q := NewParser().Parse("foo:bar -baz:qux")

		Expect(q.Text).To(Equal([]Clause{text("foo:bar"), text("-baz:qux")}))
		Expect(q.Match.Len()).To(BeZero())
		Expect(q.Excluded.Len()).To(BeZero())
	})

	It("should ignore keywords without a value", func() {
		q := NewParser(WithKeywords("title")).Parse("title: ")

		Expect(q.Match.Len()).To(BeZero())
		Expect(q.Text).To(BeEmpty())
	})

	It("should unescape quoted values", func() {
		q := NewParser(WithKeywords("say")).Parse(`say:"a \"b\" c"`)

		Expect(mustGet(q.Match, "say").Clause.Value).To(Equal(`a "b" c`))
	})

	Context("Offsets", func() {
		It("should record keyword and text spans", func() {
			q := NewParser(WithKeywords("title")).
				Parse(`title:Slovakia "cities and towns" -education`)

			Expect(q.Offsets).To(Equal([]Span{
				{Keyword: "title", Value: "Slovakia", Start: 0, End: 14},
				{Text: "cities and towns", Start: 15, End: 33},
			}))
		})

		It("should skip the minus sign of excluded keywords", func() {
			q := NewParser(WithKeywords("title")).Parse("-title:foo")

			Expect(q.Offsets).To(Equal([]Span{
				{Keyword: "title", Value: "foo", Start: 1, End: 10},
			}))
		})

		It("should record range spans", func() {
			q := NewParser(WithRanges("price")).Parse("price:5-99")

			Expect(q.Offsets).To(Equal([]Span{
				{Keyword: "price", Value: "5-99", Start: 0, End: 10},
			}))
		})

		It("should record unknown keywords as text", func() {
			q := NewParser().Parse("foo:bar")

			Expect(q.Offsets).To(Equal([]Span{
				{Text: "foo:bar", Start: 0, End: 7},
			}))
		})
	})

	It("should apply new options", func() {
		p := NewParser()
		Expect(p.Options().Offsets).To(BeTrue())

		p.SetOptions(NewOptions(WithKeywords("title"), WithOffsets(false)))
		q := p.Parse("title:x")

		Expect(q.Match.Has("title")).To(BeTrue())
		Expect(q.Offsets).To(BeNil())
	})
})
