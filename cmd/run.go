package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/kubev2v/search-query/internal/config"
	"github.com/kubev2v/search-query/internal/handlers"
	"github.com/kubev2v/search-query/internal/server"
	"github.com/kubev2v/search-query/internal/services"
	"github.com/kubev2v/search-query/pkg/scheduler"
	"github.com/kubev2v/search-query/pkg/searchquery"
)

func NewRunCommand(cfg *config.Configuration) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Serve the query API over HTTP",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cobraflags.PresetRequiredFlags(envPrefix, make(map[*pflag.Flag]bool), cmd)
			return validateConfiguration(cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&cfg.Server.HTTPPort, "server-http-port", cfg.Server.HTTPPort, "port to listen on")
	flags.StringVar(&cfg.Server.ServerMode, "server-mode", cfg.Server.ServerMode, "server mode: dev or prod")
	flags.DurationVar(&cfg.Server.ShutdownTimeout, "server-shutdown-timeout", cfg.Server.ShutdownTimeout, "time allowed for in-flight requests on shutdown")
	flags.IntVar(&cfg.Service.NumWorkers, "num-workers", cfg.Service.NumWorkers, "number of workers parsing batches")
	flags.IntVar(&cfg.Service.MaxBatchSize, "max-batch-size", cfg.Service.MaxBatchSize, "maximum number of queries in a batch")
	flags.DurationVar(&cfg.Service.RequestTimeout, "request-timeout", cfg.Service.RequestTimeout, "timeout of a single request, 0 to disable")
	registerQueryFlags(flags, cfg)

	return cmd
}

func validateConfiguration(cfg *config.Configuration) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func run(ctx context.Context, cfg *config.Configuration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler[*searchquery.SearchQuery](cfg.Service.NumWorkers)
	defer sched.Close()

	querySrv := services.NewQueryService(sched, cfg.QueryOptions(), cfg.Service.MaxBatchSize)
	h := handlers.New(querySrv, cfg.Service.RequestTimeout)

	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
		handlers.RegisterHandlers(router, h)
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	zap.S().Infow("search query server started",
		"port", cfg.Server.HTTPPort,
		"mode", cfg.Server.ServerMode,
		"workers", cfg.Service.NumWorkers,
		"keywords", cfg.Query.Keywords,
		"ranges", cfg.Query.Ranges,
	)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.S().Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	srv.Stop(shutdownCtx)

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
