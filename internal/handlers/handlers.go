package handlers

import (
	"context"
	"time"

	"github.com/kubev2v/search-query/pkg/searchquery"
)

// QueryService parses and compiles queries.
type QueryService interface {
	Defaults() searchquery.Options
	Parse(ctx context.Context, query string, opts searchquery.Options) (*searchquery.SearchQuery, error)
	ParseBatch(ctx context.Context, queries []string, opts searchquery.Options) ([]*searchquery.SearchQuery, error)
	Compile(ctx context.Context, phrases []searchquery.Input, opts searchquery.Options) (string, error)
}

type Handler struct {
	querySrv QueryService
	timeout  time.Duration
}

// New creates a Handler. A zero timeout leaves request contexts untouched.
func New(querySrv QueryService, timeout time.Duration) *Handler {
	return &Handler{
		querySrv: querySrv,
		timeout:  timeout,
	}
}

func (h *Handler) context(parent context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, h.timeout)
}
