package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kubev2v/search-query/internal/config"
	srvErrors "github.com/kubev2v/search-query/pkg/errors"
)

func execute(cmd *cobra.Command, stdin string, args ...string) (string, error) {
	var out bytes.Buffer
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return out.String(), err
}

var _ = Describe("Parse Command", func() {
	var cfg *config.Configuration

	BeforeEach(func() {
		color.NoColor = true
		cfg = config.NewConfigurationWithOptionsAndDefaults()
	})

	It("should print a summary of the joined arguments", func() {
		out, err := execute(NewParseCommand(cfg), "", "--keywords", "site", "hello", "site:example.org")
		Expect(err).ToNot(HaveOccurred())

		Expect(out).To(HavePrefix("hello site:example.org\n"))
		Expect(out).To(ContainSubstring(`site = "example.org"`))
		Expect(out).To(ContainSubstring(`text like "%hello%"`))
	})

	It("should print json", func() {
		out, err := execute(NewParseCommand(cfg), "", "--keywords", "site", "-o", "json", "site:a,b -hello")
		Expect(err).ToNot(HaveOccurred())

		var resp map[string]any
		Expect(json.Unmarshal([]byte(out), &resp)).To(Succeed())
		Expect(resp["query"]).To(Equal("site:a,b -hello"))

		result := resp["result"].(map[string]any)
		Expect(result["match"]).To(HaveKey("site"))
		Expect(result["excluded"]).To(HaveKey("text"))
	})

	It("should print yaml keeping the key order", func() {
		out, err := execute(NewParseCommand(cfg), "", "--ranges", "price", "-o", "yaml", "price:5-99")
		Expect(err).ToNot(HaveOccurred())

		var resp map[string]any
		Expect(yaml.Unmarshal([]byte(out), &resp)).To(Succeed())
		Expect(resp["query"]).To(Equal("price:5-99"))
		Expect(strings.Index(out, "query:")).To(BeNumerically("<", strings.Index(out, "result:")))
	})

	It("should parse one query per line of a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "queries.txt")
		Expect(os.WriteFile(path, []byte("hello\n\n  world  \n"), 0o600)).To(Succeed())

		out, err := execute(NewParseCommand(cfg), "", "-o", "json", "--file", path)
		Expect(err).ToNot(HaveOccurred())

		var resp struct {
			Results []map[string]any `json:"results"`
		}
		Expect(json.Unmarshal([]byte(out), &resp)).To(Succeed())
		Expect(resp.Results).To(HaveLen(2))
		Expect(resp.Results[0]["query"]).To(Equal("hello"))
		Expect(resp.Results[1]["query"]).To(Equal("world"))
	})

	It("should read queries from stdin", func() {
		out, err := execute(NewParseCommand(cfg), "one\ntwo\n", "--file", "-")
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(ContainSubstring(`"%one%"`))
		Expect(out).To(ContainSubstring(`"%two%"`))
	})

	It("should report range errors only in strict mode", func() {
		out, err := execute(NewParseCommand(cfg), "", "--ranges", "price", "price:1-2-3")
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(ContainSubstring("error:"))

		cfg = config.NewConfigurationWithOptionsAndDefaults()
		_, err = execute(NewParseCommand(cfg), "", "--ranges", "price", "--strict", "price:1-2-3")
		Expect(err).To(MatchError(ContainSubstring("1 of 1 queries have errors")))
	})

	It("should require a query", func() {
		_, err := execute(NewParseCommand(cfg), "")
		Expect(err).To(MatchError(ContainSubstring("a query or --file is required")))
	})

	It("should reject an unknown output format", func() {
		_, err := execute(NewParseCommand(cfg), "", "-o", "xml", "hello")
		Expect(err).To(MatchError(ContainSubstring("unknown output format")))
	})

	It("should reject an invalid field list", func() {
		_, err := execute(NewParseCommand(cfg), "", "--keywords", "a:b", "hello")
		Expect(err).To(MatchError(ContainSubstring("invalid keywords")))
	})
})

var _ = Describe("Compile Command", func() {
	var cfg *config.Configuration

	BeforeEach(func() {
		cfg = config.NewConfigurationWithOptionsAndDefaults()
	})

	It("should compile json phrases", func() {
		out, err := execute(NewCompileCommand(cfg), "",
			"--phrases", `[["title","Slovakia"],["cities and towns"],["education",true]]`)
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(Equal("title:Slovakia \"cities and towns\" -education\n"))
	})

	It("should compile yaml phrases from a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "phrases.yaml")
		Expect(os.WriteFile(path, []byte("- [title, Slovakia]\n- [price, [5, 99]]\n"), 0o600)).To(Succeed())

		out, err := execute(NewCompileCommand(cfg), "", "--ranges", "price", "--file", path)
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(Equal("title:Slovakia price:5-99\n"))
	})

	It("should compile json phrases from stdin", func() {
		out, err := execute(NewCompileCommand(cfg), `[["site",["a","b"]]]`, "--keywords", "site", "--file", "-")
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(Equal("site:a,b\n"))
	})

	It("should quote every value with always-quote", func() {
		out, err := execute(NewCompileCommand(cfg), "", "--always-quote", "--phrases", `[["title","x"]]`)
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(Equal("title:\"x\"\n"))
	})

	It("should report the index of a malformed phrase", func() {
		_, err := execute(NewCompileCommand(cfg), "", "--phrases", `[["a"],[]]`)
		Expect(err).To(HaveOccurred())
		Expect(srvErrors.IsInvalidPhraseError(err)).To(BeTrue())
	})

	It("should reject an empty phrase list", func() {
		_, err := execute(NewCompileCommand(cfg), "", "--phrases", `[]`)
		Expect(srvErrors.IsEmptyQueryError(err)).To(BeTrue())
	})

	It("should require exactly one source", func() {
		_, err := execute(NewCompileCommand(cfg), "")
		Expect(err).To(MatchError(ContainSubstring("exactly one of --phrases or --file")))
	})
})
