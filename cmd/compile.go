package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kubev2v/search-query/internal/config"
	srvErrors "github.com/kubev2v/search-query/pkg/errors"
	"github.com/kubev2v/search-query/pkg/searchquery"
)

type compileOptions struct {
	file    string
	phrases string
}

func NewCompileCommand(cfg *config.Configuration) *cobra.Command {
	opts := &compileOptions{}

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Build a query string from phrases",
		Long: `Build a query string from a list of phrase tuples:

  [value]                           free text
  [value, negate]                   free text, excluded when negate is true
  [field, value]                    field match, value may be a list
  [field, value, operator]          comparison
  [field, value, operator, negate]  excluded comparison

Phrases are read as JSON from --phrases, or from --file as JSON or YAML
(by extension, "-" reads JSON from stdin).`,
		Example: `  search-query compile --phrases '[["title","Slovakia"],["cities and towns"],["education",true]]'
  search-query compile --ranges price --file phrases.yaml`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if (opts.file == "") == (opts.phrases == "") {
				return errors.New("exactly one of --phrases or --file is required")
			}
			return validateConfiguration(cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := loadPhrases(cmd.InOrStdin(), opts)
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				return srvErrors.NewEmptyQueryError()
			}

			query := searchquery.NewCompiler(inputs).SetOptions(cfg.QueryOptions()).Compile()
			_, err = fmt.Fprintln(cmd.OutOrStdout(), query)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "JSON or YAML file holding the phrases, - for stdin")
	cmd.Flags().StringVarP(&opts.phrases, "phrases", "p", "", "phrases as a JSON array")
	registerQueryFlags(cmd.Flags(), cfg)

	return cmd
}

func loadPhrases(stdin io.Reader, opts *compileOptions) ([]searchquery.Input, error) {
	if opts.phrases != "" {
		return searchquery.DecodeInputs([]byte(opts.phrases))
	}

	var (
		data []byte
		err  error
	)
	if opts.file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(opts.file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read phrases: %w", err)
	}

	switch strings.ToLower(filepath.Ext(opts.file)) {
	case ".yaml", ".yml":
		var tuples [][]any
		if err := yaml.Unmarshal(data, &tuples); err != nil {
			return nil, fmt.Errorf("decode phrases: %w", err)
		}
		return searchquery.InputsFromTuples(tuples)
	default:
		return searchquery.DecodeInputs(data)
	}
}
