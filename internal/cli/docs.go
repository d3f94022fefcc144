package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/fmql/fmql/docs"
	"github.com/fmql/fmql/internal/ui"
)

var docsCmd = &cobra.Command{
	Use:   "docs [topic]",
	Short: "Browse the bundled documentation",
	Long: `Browse the documentation bundled with the binary.

Without arguments, lists the available topics. With a topic name, renders
that guide to the terminal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return listDocTopics()
		}
		return showDocTopic(args[0])
	},
}

// docTopic is one bundled guide.
type docTopic struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

func docTopics() ([]docTopic, error) {
	entries, err := docs.FS.ReadDir("guide")
	if err != nil {
		return nil, err
	}
	topics := make([]docTopic, 0, len(entries))
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".md")
		if !ok {
			continue
		}
		content, err := docs.FS.ReadFile("guide/" + e.Name())
		if err != nil {
			return nil, err
		}
		topics = append(topics, docTopic{Name: name, Title: docTitle(string(content), name)})
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Name < topics[j].Name })
	return topics, nil
}

// docTitle extracts the first H1 heading, falling back to the topic name.
func docTitle(content, fallback string) string {
	for _, line := range strings.Split(content, "\n") {
		if after, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(after)
		}
	}
	return fallback
}

func listDocTopics() error {
	topics, err := docTopics()
	if err != nil {
		return handleError(ErrFileReadError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(struct {
			Topics []docTopic `json:"topics"`
		}{topics}, &Meta{Count: len(topics)})
		return nil
	}

	fmt.Println(ui.Header("Topics"))
	list := ui.NewList()
	for _, t := range topics {
		list.Add(fmt.Sprintf("%s  %s", ui.FilePath(t.Name), ui.Hint(t.Title)))
	}
	fmt.Print(list.String())
	fmt.Println()
	fmt.Println(ui.Infof("fmql docs <topic> to read one"))
	return nil
}

func showDocTopic(name string) error {
	content, err := docs.FS.ReadFile("guide/" + name + ".md")
	if err != nil {
		return handleErrorMsg(ErrInvalidInput,
			fmt.Sprintf("unknown topic %q", name),
			"Run 'fmql docs' to list the available topics")
	}

	if isJSONOutput() {
		outputSuccess(struct {
			Name    string `json:"name"`
			Content string `json:"content"`
		}{name, string(content)}, nil)
		return nil
	}

	// Pretty-render only on a terminal; piped output stays raw Markdown.
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Print(string(content))
		return nil
	}

	display := ui.NewDisplayContext()
	rendered, err := ui.RenderMarkdown(string(content), display.TermWidth)
	if err != nil {
		fmt.Print(string(content))
		return nil
	}
	fmt.Print(rendered)
	return nil
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
