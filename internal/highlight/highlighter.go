package highlight

import (
	"context"
	"errors"
	"fmt"

	"github.com/zjrosen/hilite/internal/log"
)

// ErrOutOfRange is returned when an edit addresses a line past the end of
// the document.
var ErrOutOfRange = errors.New("line out of range")

// Highlighter holds the analysis of one document.
//
// It is not safe for concurrent use: callers serialize edits to a single
// Highlighter. Independent Highlighters share nothing but their (read-only)
// Registry and may be used from different goroutines.
type Highlighter struct {
	reg      *Registry
	regions  []RegionDef
	tabWidth int
	tab      string

	atoms   [][]Atom
	tokens  []Token
	refs    [][]int
	entries []entry
	traces  [][]decision
}

// New returns a Highlighter for reg. The registry is sealed. Tabs expand to
// tabWidth characters; values below 1 are treated as 1.
func New(reg *Registry, tabWidth int) *Highlighter {
	if tabWidth < 1 {
		tabWidth = 1
	}
	reg.Seal()
	h := &Highlighter{
		reg:      reg,
		regions:  reg.Regions(),
		tabWidth: tabWidth,
		tab:      tabSpaces(tabWidth),
	}
	h.reset(nil, newSweep(h.regions, 0))
	return h
}

// Registry returns the registry the highlighter was built on.
func (h *Highlighter) Registry() *Registry { return h.reg }

// TabWidth returns the number of characters a tab expands to.
func (h *Highlighter) TabWidth() int { return h.tabWidth }

// Len returns the number of lines in the document.
func (h *Highlighter) Len() int { return len(h.atoms) }

// Run analyses a whole document, discarding any previous state.
func (h *Highlighter) Run(lines []string) {
	// Background is never cancelled.
	_ = h.RunContext(context.Background(), lines)
}

// RunContext is Run with cooperative cancellation. If ctx is cancelled
// before the analysis completes, the previous state is kept and ctx's error
// is returned.
func (h *Highlighter) RunContext(ctx context.Context, lines []string) error {
	atoms := make([][]Atom, len(lines))
	for y, line := range lines {
		if y%256 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		atoms[y] = h.atomize(line)
	}

	s := newSweep(h.regions, len(atoms))
	if err := s.run(ctx, atoms); err != nil {
		return err
	}
	h.reset(atoms, s)
	log.Debug(log.CatEngine, "full run", "lines", len(lines), "tokens", len(s.tokens))
	return nil
}

// Append adds a line to the end of the document.
func (h *Highlighter) Append(line string) {
	// Inserting at Len() cannot be out of range.
	_ = h.InsertLine(len(h.atoms), line)
}

// ReplaceLine replaces the contents of line y.
//
// Only line y is re-atomized. When the new atoms match the old ones in
// everything but position, and the line assembles into the same tokens from
// the same entry state, nothing outside the line can change and the atoms are
// swapped in without a sweep. Otherwise the whole document is swept again.
func (h *Highlighter) ReplaceLine(y int, text string) error {
	if y < 0 || y >= len(h.atoms) {
		return fmt.Errorf("replace line %d of %d: %w", y, len(h.atoms), ErrOutOfRange)
	}

	next := h.atomize(text)
	if h.unchanged(y, next) {
		h.atoms[y] = next
		log.Debug(log.CatEngine, "incremental update", "line", y, "atoms", len(next))
		return nil
	}

	h.atoms[y] = next
	h.resweep("replace", y)
	return nil
}

// InsertLine inserts text as a new line at index y, shifting later lines
// down. y may equal Len() to append.
func (h *Highlighter) InsertLine(y int, text string) error {
	if y < 0 || y > len(h.atoms) {
		return fmt.Errorf("insert line %d of %d: %w", y, len(h.atoms), ErrOutOfRange)
	}
	h.atoms = append(h.atoms, nil)
	copy(h.atoms[y+1:], h.atoms[y:])
	h.atoms[y] = h.atomize(text)
	h.resweep("insert", y)
	return nil
}

// RemoveLine deletes line y, shifting later lines up.
func (h *Highlighter) RemoveLine(y int) error {
	if y < 0 || y >= len(h.atoms) {
		return fmt.Errorf("remove line %d of %d: %w", y, len(h.atoms), ErrOutOfRange)
	}
	h.atoms = append(h.atoms[:y], h.atoms[y+1:]...)
	h.resweep("remove", y)
	return nil
}

// Atoms returns a copy of the atoms of line y, or nil when y is out of range.
func (h *Highlighter) Atoms(y int) []Atom {
	if y < 0 || y >= len(h.atoms) {
		return nil
	}
	return append([]Atom(nil), h.atoms[y]...)
}

// Tokens returns copies of the tokens referenced by line y, in reference
// order, or nil when y is out of range.
func (h *Highlighter) Tokens(y int) []Token {
	if y < 0 || y >= len(h.refs) {
		return nil
	}
	out := make([]Token, 0, len(h.refs[y]))
	for _, idx := range h.refs[y] {
		out = append(out, h.tokens[idx])
	}
	return out
}

func (h *Highlighter) atomize(line string) []Atom {
	return h.reg.atomize(expandTabs(line, h.tab))
}

// unchanged reports whether next can replace the atoms of line y without a
// sweep.
func (h *Highlighter) unchanged(y int, next []Atom) bool {
	if !sameKinds(h.atoms[y], next) {
		return false
	}
	// Identical kinds can still assemble differently when a position shift
	// changes which overlapping atom wins, so replay the line.
	trace, out := replay(h.regions, next, h.entries[y])
	return sameTrace(trace, h.traces[y]) && out == h.entries[y+1]
}

func (h *Highlighter) resweep(reason string, y int) {
	s := newSweep(h.regions, len(h.atoms))
	// Background is never cancelled.
	_ = s.run(context.Background(), h.atoms)
	h.reset(h.atoms, s)
	log.Debug(log.CatEngine, "full sweep", "reason", reason, "line", y, "lines", len(h.atoms), "tokens", len(s.tokens))
}

func (h *Highlighter) reset(atoms [][]Atom, s *sweep) {
	h.atoms = atoms
	h.tokens = s.tokens
	h.refs = s.refs
	h.entries = s.entries
	h.traces = s.traces
}
