package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/hilite/internal/presentation"
)

func newTokensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the highlighted runs of a file as JSON",
		Long: `Print every line of a file as the sequence of runs the highlighter
produced: the text of each run and, for highlighted runs, its tag.

Examples:
  hilite tokens main.go
  echo 'fn main() {}' | hilite tokens --lang rust`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runTokens,
	}
}

func (a *app) runTokens(cmd *cobra.Command, args []string) error {
	doc, _, err := a.open(cmd, fileArg(args))
	if err != nil {
		return err
	}
	lines := make([]presentation.LineDTO, 0, doc.Len())
	for y := range doc.Len() {
		lines = append(lines, presentation.FromRuns(y, doc.Runs(y)))
	}
	return presentation.NewFormatter(cmd.OutOrStdout()).FormatLines(lines)
}
