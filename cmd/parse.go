package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	v1 "github.com/kubev2v/search-query/api/v1"
	"github.com/kubev2v/search-query/internal/config"
	"github.com/kubev2v/search-query/internal/services"
	"github.com/kubev2v/search-query/pkg/scheduler"
	"github.com/kubev2v/search-query/pkg/searchquery"
)

type parseOptions struct {
	output string
	file   string
	strict bool
}

func NewParseCommand(cfg *config.Configuration) *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [query...]",
		Short: "Parse a query string",
		Long: `Parse a query string into match, excluded and text clauses.

Arguments are joined with a space. With --file every non-empty line of the
file ("-" for stdin) is parsed as its own query.`,
		Example: `  search-query parse --keywords site,title 'site:example.org "cities and towns" -education'
  search-query parse --ranges price -o yaml 'price:5-99'
  search-query parse --file queries.txt -o json`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.output); err != nil {
				return err
			}
			if opts.file == "" && len(args) == 0 {
				return errors.New("a query or --file is required")
			}
			return validateConfiguration(cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, cfg, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", formatText, "output format: text, json or yaml")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "read one query per line from a file, - for stdin")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when a query has range errors")
	registerQueryFlags(cmd.Flags(), cfg)

	return cmd
}

func runParse(cmd *cobra.Command, cfg *config.Configuration, opts *parseOptions, args []string) error {
	queries := []string{joinArgs(args)}
	if opts.file != "" {
		var err error
		if queries, err = readQueries(cmd.InOrStdin(), opts.file); err != nil {
			return err
		}
	}

	sched := scheduler.NewScheduler[*searchquery.SearchQuery](cfg.Service.NumWorkers)
	defer sched.Close()

	srv := services.NewQueryService(sched, cfg.QueryOptions(), 0)
	results, err := srv.ParseBatch(cmd.Context(), queries, srv.Defaults())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case opts.output == formatText:
		for i, q := range results {
			writeSummary(out, queries[i], q)
		}
	case opts.file != "":
		err = write(out, opts.output, v1.NewBatchParseResponse(queries, results))
	default:
		err = write(out, opts.output, v1.NewParseResponse(queries[0], results[0]))
	}
	if err != nil {
		return err
	}

	if !opts.strict {
		return nil
	}

	failed := 0
	for _, q := range results {
		if q.HasErrors() {
			if opts.output != formatText {
				writeDiagnostics(cmd.ErrOrStderr(), q)
			}
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d queries have errors", failed, len(results))
	}
	return nil
}

func readQueries(stdin io.Reader, path string) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open queries: %w", err)
		}
		defer f.Close()
		r = f
	}

	var queries []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			queries = append(queries, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read queries: %w", err)
	}
	return queries, nil
}
