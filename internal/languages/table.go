package languages

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/hilite/internal/highlight"
)

// Rule kinds accepted in a table.
const (
	KindKeyword      = "keyword"
	KindBounded      = "bounded"
	KindInterpolated = "interpolated"
)

// ErrInvalidTable is returned for a table that cannot describe a language.
var ErrInvalidTable = errors.New("invalid language table")

// Rule is one registration against a highlight.Registry. Which fields are
// read depends on Kind.
type Rule struct {
	Kind       string   `yaml:"kind"`
	Name       string   `yaml:"name"`
	Patterns   []string `yaml:"patterns,omitempty"`
	Start      string   `yaml:"start,omitempty"`
	End        string   `yaml:"end,omitempty"`
	InnerStart string   `yaml:"inner_start,omitempty"`
	InnerEnd   string   `yaml:"inner_end,omitempty"`
	Escapable  bool     `yaml:"escapable,omitempty"`
}

// Table describes a language. Rules are registered in order, which is also
// the order that breaks ties between atoms starting at the same position.
type Table struct {
	Name       string   `yaml:"name"`
	Extensions []string `yaml:"extensions"`
	Rules      []Rule   `yaml:"rules"`

	// Source is where the table was loaded from; it is not part of the file.
	Source string `yaml:"-"`
}

// ParseTable decodes a YAML table. Unknown fields are rejected so a typo in
// a rule does not silently drop it.
func ParseTable(data []byte) (Table, error) {
	var t Table
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return Table{}, fmt.Errorf("%w: %w", ErrInvalidTable, err)
	}
	t.Name = normalizeName(t.Name)
	for i, ext := range t.Extensions {
		t.Extensions[i] = normalizeExt(ext)
	}
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// Validate checks the shape of the table. Patterns are only checked by
// Compile.
func (t Table) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidTable)
	}
	if len(t.Rules) == 0 {
		return fmt.Errorf("%w: %s has no rules", ErrInvalidTable, t.Name)
	}
	for i, r := range t.Rules {
		if r.Name == "" {
			return fmt.Errorf("%w: %s rule %d has no name", ErrInvalidTable, t.Name, i)
		}
		switch r.Kind {
		case KindKeyword:
			if len(r.Patterns) == 0 {
				return fmt.Errorf("%w: %s rule %d (%s) has no patterns", ErrInvalidTable, t.Name, i, r.Name)
			}
		case KindBounded, KindInterpolated:
		default:
			return fmt.Errorf("%w: %s rule %d (%s) has unknown kind %q", ErrInvalidTable, t.Name, i, r.Name, r.Kind)
		}
	}
	return nil
}

// Compile builds a fresh registry from the table.
func (t Table) Compile() (*highlight.Registry, error) {
	reg := highlight.NewRegistry()
	for i, r := range t.Rules {
		var err error
		switch r.Kind {
		case KindKeyword:
			err = reg.AddKeywords(r.Name, r.Patterns...)
		case KindBounded:
			err = reg.AddBounded(r.Name, r.Start, r.End, r.Escapable)
		case KindInterpolated:
			err = reg.AddInterpolated(r.Name, r.Start, r.End, r.InnerStart, r.InnerEnd, r.Escapable)
		default:
			err = fmt.Errorf("%w: unknown kind %q", ErrInvalidTable, r.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("compiling %s rule %d (%s): %w", t.Name, i, r.Name, err)
		}
	}
	return reg, nil
}

// Tags returns the distinct tag names the table can produce, in first-use
// order.
func (t Table) Tags() []string {
	var tags []string
	seen := make(map[string]bool, len(t.Rules))
	for _, r := range t.Rules {
		if !seen[r.Name] {
			seen[r.Name] = true
			tags = append(tags, r.Name)
		}
	}
	return tags
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
