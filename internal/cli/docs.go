package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	builtindocs "github.com/stockscreen/screener/docs"
	"github.com/stockscreen/screener/internal/ui"
)

const docsRoot = "guide"

var (
	docsFS             fs.FS = builtindocs.FS
	docsMarkdownRender       = ui.RenderMarkdown
	docsSearchLimit    int
)

type docsTopic struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

type docsMatch struct {
	Topic   string `json:"topic"`
	Line    int    `json:"line"`
	Snippet string `json:"snippet"`
}

var docsCmd = &cobra.Command{
	Use:   "docs [topic]",
	Short: "Read the bundled guides",
	Long: `Read the long-form guides bundled into the screener binary.
For command usage, use 'screener help <command>'.

Examples:
  screener docs
  screener docs query-language
  screener docs search "missing values"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, err := listDocsTopics(docsFS)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		if len(args) == 0 {
			return outputDocsTopics(topics)
		}

		for _, t := range topics {
			if t.ID == strings.ToLower(strings.TrimSuffix(args[0], ".md")) {
				return outputDocsTopic(t)
			}
		}
		ids := make([]string, len(topics))
		for i, t := range topics {
			ids[i] = t.ID
		}
		return handleErrorMsg(ErrFileNotFound, fmt.Sprintf("no guide named %q", args[0]), "Available: "+strings.Join(ids, ", "))
	},
}

var docsSearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search the bundled guides",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		term := strings.TrimSpace(strings.Join(args, " "))
		if term == "" {
			return handleErrorMsg(ErrMissingArgument, "specify a search term", "Usage: screener docs search <term>")
		}
		if docsSearchLimit < 1 {
			return handleErrorMsg(ErrInvalidInput, "--limit must be >= 1", "")
		}

		matches, err := searchDocs(docsFS, term, docsSearchLimit)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"term": term, "matches": matches}, &Meta{Count: len(matches)})
			return nil
		}
		if len(matches) == 0 {
			fmt.Printf("No guides mention %q.\n", term)
			return nil
		}
		for _, m := range matches {
			fmt.Printf("%s %s\n", ui.Accent.Render(fmt.Sprintf("%s:%d", m.Topic, m.Line)), m.Snippet)
		}
		return nil
	},
}

// listDocsTopics returns the guides sorted by id. The title is the first
// level-one heading, or the id when there is none.
func listDocsTopics(fsys fs.FS) ([]docsTopic, error) {
	entries, err := fs.ReadDir(fsys, docsRoot)
	if err != nil {
		return nil, fmt.Errorf("read bundled docs: %w", err)
	}
	var topics []docsTopic
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".md" {
			continue
		}
		p := path.Join(docsRoot, e.Name())
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, err
		}
		id := strings.TrimSuffix(e.Name(), ".md")
		topics = append(topics, docsTopic{ID: id, Title: docsTitle(data, id), Path: p})
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].ID < topics[j].ID })
	return topics, nil
}

func docsTitle(data []byte, fallback string) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(data))
	title := ""
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level != 1 {
			return ast.WalkContinue, nil
		}
		var sb strings.Builder
		_ = ast.Walk(heading, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
			if t, ok := c.(*ast.Text); ok && entering {
				sb.Write(t.Segment.Value(data))
			}
			return ast.WalkContinue, nil
		})
		title = strings.TrimSpace(sb.String())
		return ast.WalkStop, nil
	})
	if title == "" {
		return fallback
	}
	return title
}

func searchDocs(fsys fs.FS, term string, limit int) ([]docsMatch, error) {
	topics, err := listDocsTopics(fsys)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(term)
	matches := []docsMatch{}
	for _, t := range topics {
		data, err := fs.ReadFile(fsys, t.Path)
		if err != nil {
			return nil, err
		}
		sc := bufio.NewScanner(bytes.NewReader(data))
		for line := 1; sc.Scan(); line++ {
			text := strings.TrimSpace(sc.Text())
			if !strings.Contains(strings.ToLower(text), needle) {
				continue
			}
			matches = append(matches, docsMatch{Topic: t.ID, Line: line, Snippet: text})
			if len(matches) == limit {
				return matches, nil
			}
		}
	}
	return matches, nil
}

func outputDocsTopics(topics []docsTopic) error {
	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"topics": topics}, &Meta{Count: len(topics)})
		return nil
	}
	tbl := ui.NewTable(2)
	for _, t := range topics {
		tbl.AddRow(ui.Accent.Render(t.ID), t.Title)
	}
	fmt.Print(tbl.String())
	fmt.Println(ui.Hint("Read one with 'screener docs <topic>'"))
	return nil
}

func outputDocsTopic(t docsTopic) error {
	data, err := fs.ReadFile(docsFS, t.Path)
	if err != nil {
		return handleError(ErrFileReadError, err, "")
	}
	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"topic": t, "content": string(data)}, nil)
		return nil
	}
	out, err := docsMarkdownRender(string(data), ui.NewDisplayContext().TermWidth)
	if err != nil {
		return handleError(ErrInternal, err, "")
	}
	fmt.Print(out)
	return nil
}

func init() {
	docsSearchCmd.Flags().IntVar(&docsSearchLimit, "limit", 20, "Maximum matches to show")
	docsCmd.AddCommand(docsSearchCmd)
	rootCmd.AddCommand(docsCmd)
}
