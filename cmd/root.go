package cmd

import (
	"fmt"

	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/kubev2v/search-query/internal/config"
)

const envPrefix = "SEARCH_QUERY"

func NewRootCommand(cfg *config.Configuration) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "search-query",
		Short:         "Parse and build search engine style query strings",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cobrautil.SyncViperPreRunE(envPrefix)(cmd, args); err != nil {
				return err
			}
			return setupLogger(cfg.LogLevel, cfg.LogFormat)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.S().Sync()
		},
	}

	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: console or json")

	cmd.AddCommand(
		NewParseCommand(cfg),
		NewCompileCommand(cfg),
		NewRunCommand(cfg),
	)

	return cmd
}

// Execute runs the CLI.
func Execute() error {
	cfg := config.NewConfigurationWithOptionsAndDefaults()
	return NewRootCommand(cfg).Execute()
}

func setupLogger(level, format string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log-level %q: %w", level, err)
	}

	zcfg := zap.NewDevelopmentConfig()
	if format == "json" {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = lvl
	zcfg.Encoding = format

	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	zap.ReplaceGlobals(logger)
	return nil
}

// registerQueryFlags adds the parser and compiler options to fs.
func registerQueryFlags(fs *pflag.FlagSet, cfg *config.Configuration) {
	fs.StringSliceVar(&cfg.Query.Keywords, "keywords", cfg.Query.Keywords, "fields taking comma separated values")
	fs.StringSliceVar(&cfg.Query.Ranges, "ranges", cfg.Query.Ranges, "fields taking a from-to range")
	fs.BoolVar(&cfg.Query.Offsets, "offsets", cfg.Query.Offsets, "record term offsets when parsing")
	fs.BoolVar(&cfg.Query.AlwaysQuote, "always-quote", cfg.Query.AlwaysQuote, "quote every compiled value")
}
