package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	srvErrors "github.com/kubev2v/search-query/pkg/errors"
	"github.com/kubev2v/search-query/pkg/scheduler"
	"github.com/kubev2v/search-query/pkg/searchquery"
)

type QueryService struct {
	scheduler    *scheduler.Scheduler[*searchquery.SearchQuery]
	defaults     searchquery.Options
	maxBatchSize int
}

// NewQueryService creates a QueryService running batches on s.
func NewQueryService(s *scheduler.Scheduler[*searchquery.SearchQuery], defaults searchquery.Options, maxBatchSize int) *QueryService {
	return &QueryService{
		scheduler:    s,
		defaults:     defaults,
		maxBatchSize: maxBatchSize,
	}
}

// Defaults returns the options used when a request does not override them.
func (q *QueryService) Defaults() searchquery.Options {
	return q.defaults
}

// Parse parses a single query.
func (q *QueryService) Parse(ctx context.Context, query string, opts searchquery.Options) (*searchquery.SearchQuery, error) {
	if strings.TrimSpace(query) == "" {
		return nil, srvErrors.NewEmptyQueryError()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := searchquery.NewParser().SetOptions(opts).Parse(query)
	if result.HasErrors() {
		zap.S().Named("query_service").Debugw("query parsed with errors", "query", query, "errors", len(result.Errors))
	}

	return result, nil
}

// ParseBatch parses every query on the scheduler workers. Results keep the
// order of queries.
func (q *QueryService) ParseBatch(ctx context.Context, queries []string, opts searchquery.Options) ([]*searchquery.SearchQuery, error) {
	if len(queries) == 0 {
		return nil, srvErrors.NewEmptyQueryError()
	}
	if q.maxBatchSize > 0 && len(queries) > q.maxBatchSize {
		return nil, srvErrors.NewBatchLimitError(len(queries), q.maxBatchSize)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	futures := make([]*scheduler.Future[*searchquery.SearchQuery], 0, len(queries))
	for _, query := range queries {
		futures = append(futures, q.scheduler.AddWork(func(ctx context.Context) (*searchquery.SearchQuery, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return searchquery.NewParser().SetOptions(opts).Parse(query), nil
		}))
	}

	results := make([]*searchquery.SearchQuery, 0, len(queries))
	for i, f := range futures {
		r := f.Wait(ctx)
		if r.Err != nil {
			for _, rest := range futures[i+1:] {
				rest.Stop()
			}
			zap.S().Named("query_service").Errorw("failed to parse batch", "index", i, "error", r.Err)
			return nil, fmt.Errorf("failed to parse query %d: %w", i, r.Err)
		}
		results = append(results, r.Data)
	}

	zap.S().Named("query_service").Debugw("batch parsed", "count", len(results))

	return results, nil
}

// Compile renders phrases as a query string.
func (q *QueryService) Compile(ctx context.Context, phrases []searchquery.Input, opts searchquery.Options) (string, error) {
	if len(phrases) == 0 {
		return "", srvErrors.NewEmptyQueryError()
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	return searchquery.NewCompiler(phrases).SetOptions(opts).Compile(), nil
}
