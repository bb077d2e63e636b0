package presentation

import (
	"github.com/zjrosen/hilite/internal/highlight"
	"github.com/zjrosen/hilite/internal/languages"
)

// LanguageDTO represents a language table for presentation
type LanguageDTO struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
	Source     string   `json:"source"`
	Rules      int      `json:"rules"`
	Tags       []string `json:"tags,omitempty"`
}

// LineDTO is one highlighted line. Line is 1-based.
type LineDTO struct {
	Line int      `json:"line"`
	Runs []RunDTO `json:"runs"`
}

// RunDTO is one run of a highlighted line; Kind is omitted for plain text.
type RunDTO struct {
	Text string `json:"text"`
	Kind string `json:"kind,omitempty"`
}

// FromTable converts a language table to a DTO. Tags are included when
// withTags is set.
func FromTable(t languages.Table, withTags bool) LanguageDTO {
	exts := t.Extensions
	if exts == nil {
		exts = []string{}
	}
	dto := LanguageDTO{
		Name:       t.Name,
		Extensions: exts,
		Source:     t.Source,
		Rules:      len(t.Rules),
	}
	if withTags {
		dto.Tags = t.Tags()
	}
	return dto
}

// FromRuns converts the runs of line y (0-based) to a DTO
func FromRuns(y int, runs []highlight.Run) LineDTO {
	out := make([]RunDTO, 0, len(runs))
	for _, r := range runs {
		out = append(out, RunDTO{Text: r.Text, Kind: r.Kind})
	}
	return LineDTO{Line: y + 1, Runs: out}
}
