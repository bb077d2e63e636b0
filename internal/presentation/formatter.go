package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatLanguages formats a list of language tables as JSON
func (f *Formatter) FormatLanguages(langs []LanguageDTO) error {
	return f.encode(langs)
}

// FormatLanguagesTable formats a list of language tables as aligned columns
func (f *Formatter) FormatLanguagesTable(langs []LanguageDTO) error {
	tw := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	withTags := false
	for _, l := range langs {
		if l.Tags != nil {
			withTags = true
			break
		}
	}

	header := "NAME\tEXTENSIONS\tSOURCE"
	if withTags {
		header += "\tTAGS"
	}
	if _, err := fmt.Fprintln(tw, header); err != nil {
		return err
	}
	for _, l := range langs {
		row := l.Name + "\t" + strings.Join(l.Extensions, ",") + "\t" + l.Source
		if withTags {
			row += "\t" + strings.Join(l.Tags, ",")
		}
		if _, err := fmt.Fprintln(tw, row); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// FormatLines formats highlighted lines as JSON
func (f *Formatter) FormatLines(lines []LineDTO) error {
	return f.encode(lines)
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
