package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/search-query/api/v1"
	srvErrors "github.com/kubev2v/search-query/pkg/errors"
	"github.com/kubev2v/search-query/pkg/searchquery"
)

// Parse parses a single query
// (POST /parse)
func (h *Handler) Parse(c *gin.Context) {
	var req v1.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	ctx, cancel := h.context(c.Request.Context())
	defer cancel()

	result, err := h.querySrv.Parse(ctx, req.Query, req.Options.Apply(h.querySrv.Defaults()))
	if err != nil {
		h.fail(c, "failed to parse query", err)
		return
	}

	c.JSON(http.StatusOK, v1.NewParseResponse(req.Query, result))
}

// ParseBatch parses several queries with the same options
// (POST /parse/batch)
func (h *Handler) ParseBatch(c *gin.Context) {
	var req v1.BatchParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	ctx, cancel := h.context(c.Request.Context())
	defer cancel()

	results, err := h.querySrv.ParseBatch(ctx, req.Queries, req.Options.Apply(h.querySrv.Defaults()))
	if err != nil {
		h.fail(c, "failed to parse batch", err)
		return
	}

	c.JSON(http.StatusOK, v1.NewBatchParseResponse(req.Queries, results))
}

// Compile renders phrases as a query string
// (POST /compile)
func (h *Handler) Compile(c *gin.Context) {
	var req v1.CompileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	var phrases []searchquery.Input
	if len(req.Phrases) > 0 {
		var err error
		if phrases, err = searchquery.DecodeInputs(req.Phrases); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	ctx, cancel := h.context(c.Request.Context())
	defer cancel()

	query, err := h.querySrv.Compile(ctx, phrases, req.Options.Apply(h.querySrv.Defaults()))
	if err != nil {
		h.fail(c, "failed to compile phrases", err)
		return
	}

	c.JSON(http.StatusOK, v1.CompileResponse{Query: query})
}

// Health reports that the server is up
// (GET /health)
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, v1.HealthResponse{Status: "ok"})
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	switch {
	case srvErrors.IsEmptyQueryError(err), srvErrors.IsInvalidPhraseError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case srvErrors.IsBatchLimitError(err):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		zap.S().Named("query_handler").Warnw(msg, "error", err)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})
	default:
		zap.S().Named("query_handler").Errorw(msg, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

// RegisterHandlers mounts the query API on router.
func RegisterHandlers(router gin.IRouter, h *Handler) {
	router.GET("/health", h.Health)
	router.POST("/parse", h.Parse)
	router.POST("/parse/batch", h.ParseBatch)
	router.POST("/compile", h.Compile)
}
