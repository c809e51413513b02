package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/kubev2v/search-query/pkg/searchquery"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	fieldStyle   = color.New(color.FgCyan, color.Bold)
	excludeStyle = color.New(color.FgYellow)
	headerStyle  = color.New(color.Bold)
)

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q: use text, json or yaml", format)
	}
}

// write encodes v as JSON or YAML. The YAML document keeps the JSON key
// order.
func write(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	if format == formatYAML {
		if data, err = jsonToYAML(data); err != nil {
			return err
		}
	} else {
		data = append(data, '\n')
	}

	_, err = w.Write(data)
	return err
}

func jsonToYAML(data []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	resetStyle(&node)
	return yaml.Marshal(&node)
}

func resetStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		resetStyle(c)
	}
}

// writeSummary prints a human readable view of q.
func writeSummary(w io.Writer, query string, q *searchquery.SearchQuery) {
	fmt.Fprintln(w, headerStyle.Sprint(query))

	for _, field := range q.Match.Fields() {
		m, _ := q.Match.Get(field)
		for _, c := range m.All() {
			fmt.Fprintf(w, "  %s %s\n", fieldStyle.Sprint(field), describe(c))
		}
	}
	for _, field := range q.Excluded.Fields() {
		m, _ := q.Excluded.Get(field)
		for _, c := range m.All() {
			fmt.Fprintf(w, "  %s %s\n", excludeStyle.Sprint("-"+field), describe(c))
		}
	}
	for _, c := range q.Text {
		fmt.Fprintf(w, "  %s %s\n", fieldStyle.Sprint(c.Column), describe(c))
	}
	for _, c := range q.ExcludedText {
		fmt.Fprintf(w, "  %s %s\n", excludeStyle.Sprint("-"+c.Column), describe(c))
	}
	writeDiagnostics(w, q)
}

func describe(c searchquery.Clause) string {
	if c.IsRange() {
		return fmt.Sprintf("%s %s and %s", c.Operator, c.Range.From, c.Range.To)
	}
	return fmt.Sprintf("%s %q", c.Operator, c.Value)
}

func writeDiagnostics(w io.Writer, q *searchquery.SearchQuery) {
	for _, err := range q.Errors {
		fmt.Fprintf(w, "  %s %s\n", errorStyle.Sprint("error:"), err)
	}
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
