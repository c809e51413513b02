package services_test

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/search-query/internal/services"
	srvErrors "github.com/kubev2v/search-query/pkg/errors"
	"github.com/kubev2v/search-query/pkg/scheduler"
	"github.com/kubev2v/search-query/pkg/searchquery"
)

var _ = Describe("QueryService", func() {
	var (
		sched *scheduler.Scheduler[*searchquery.SearchQuery]
		srv   *services.QueryService
		opts  searchquery.Options
	)

	BeforeEach(func() {
		sched = scheduler.NewScheduler[*searchquery.SearchQuery](2)
		opts = searchquery.NewOptions(searchquery.WithKeywords("site"), searchquery.WithRanges("price"))
		srv = services.NewQueryService(sched, opts, 5)
	})

	AfterEach(func() {
		sched.Close()
	})

	Context("Parse", func() {
		// Given a query with a keyword and free text
		// When we parse it
		// Then the keyword should be matched and the rest kept as text
		It("should parse with the given options", func() {
			// Act
			q, err := srv.Parse(context.Background(), "hello site:example.org", srv.Defaults())

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(q.Match.Has("site")).To(BeTrue())
			Expect(q.Text).To(HaveLen(1))
		})

		It("should reject a blank query", func() {
			_, err := srv.Parse(context.Background(), "  ", opts)

			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsEmptyQueryError(err)).To(BeTrue())
		})

		It("should keep range errors in the result", func() {
			q, err := srv.Parse(context.Background(), "price:1-2-3", opts)

			Expect(err).NotTo(HaveOccurred())
			Expect(q.HasErrors()).To(BeTrue())
			Expect(srvErrors.IsInvalidRangeError(q.Errors[0])).To(BeTrue())
		})
	})

	Context("ParseBatch", func() {
		// Given several queries
		// When we parse them as a batch
		// Then results should be returned in the same order
		It("should parse every query in order", func() {
			// Arrange
			queries := []string{"a", "site:b", "price:1-2", "d", "e"}

			// Act
			results, err := srv.ParseBatch(context.Background(), queries, opts)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(5))
			Expect(results[0].Text[0].Value).To(Equal("%a%"))
			Expect(results[1].Match.Has("site")).To(BeTrue())
			Expect(results[2].Match.Has("price")).To(BeTrue())
			Expect(results[4].Text[0].Value).To(Equal("%e%"))
		})

		It("should reject batches over the limit", func() {
			queries := make([]string, 6)
			for i := range queries {
				queries[i] = fmt.Sprintf("q%d", i)
			}

			_, err := srv.ParseBatch(context.Background(), queries, opts)

			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsBatchLimitError(err)).To(BeTrue())
		})

		It("should reject an empty batch", func() {
			_, err := srv.ParseBatch(context.Background(), nil, opts)

			Expect(srvErrors.IsEmptyQueryError(err)).To(BeTrue())
		})

		It("should fail when the scheduler is closed", func() {
			sched.Close()

			_, err := srv.ParseBatch(context.Background(), []string{"a"}, opts)

			Expect(err).To(MatchError(context.Canceled))
		})

		It("should stop when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := srv.ParseBatch(ctx, []string{"a", "b"}, opts)

			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Context("Compile", func() {
		It("should compile phrases", func() {
			query, err := srv.Compile(context.Background(), []searchquery.Input{
				searchquery.Keyword("site", "example.org"),
				searchquery.Bare("two words"),
			}, opts)

			Expect(err).NotTo(HaveOccurred())
			Expect(query).To(Equal(`site:example.org "two words"`))
		})

		It("should reject an empty phrase list", func() {
			_, err := srv.Compile(context.Background(), nil, opts)

			Expect(srvErrors.IsEmptyQueryError(err)).To(BeTrue())
		})
	})
})
