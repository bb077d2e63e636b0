package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/hilite/internal/presentation"
)

func newLangsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "langs",
		Short: "List the available language tables",
		Long: `List every language table with the file extensions it handles and
where it was loaded from. Tables in languages.dir replace bundled tables of the
same name.

Examples:
  hilite langs
  hilite langs --tags
  hilite langs --json | jq '.[].name'`,
		Args: cobra.NoArgs,
		RunE: a.runLangs,
	}
	cmd.Flags().Bool("tags", false, "include the tags each table emits")
	cmd.Flags().Bool("json", false, "print JSON")
	return cmd
}

func (a *app) runLangs(cmd *cobra.Command, _ []string) error {
	p, err := a.languages()
	if err != nil {
		return err
	}
	withTags, _ := cmd.Flags().GetBool("tags")
	asJSON, _ := cmd.Flags().GetBool("json")

	names := p.Names()
	dtos := make([]presentation.LanguageDTO, 0, len(names))
	for _, name := range names {
		if t, ok := p.Table(name); ok {
			dtos = append(dtos, presentation.FromTable(t, withTags))
		}
	}

	formatter := presentation.NewFormatter(cmd.OutOrStdout())
	if asJSON {
		return formatter.FormatLanguages(dtos)
	}
	return formatter.FormatLanguagesTable(dtos)
}
