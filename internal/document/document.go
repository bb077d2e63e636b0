// Package document keeps the text of a file together with its highlighting
// and turns whole-text updates into the line edits the engine understands.
package document

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/hilite/internal/highlight"
	"github.com/zjrosen/hilite/internal/log"
)

// maxLineEdits is the number of inserted plus removed lines above which Sync
// re-runs the whole document instead of applying edits one by one. Each
// structural edit is a full sweep on its own.
const maxLineEdits = 8

// Stats describes what a Sync did.
type Stats struct {
	Replaced int
	Inserted int
	Removed  int
	// Rerun is set when the document was analysed from scratch.
	Rerun bool
}

// Changed reports whether any line changed.
func (s Stats) Changed() bool {
	return s.Rerun || s.Replaced+s.Inserted+s.Removed > 0
}

// Document is a sequence of lines and their highlighting. Not safe for
// concurrent use.
type Document struct {
	lines []string
	h     *highlight.Highlighter
	dmp   *diffmatchpatch.DiffMatchPatch
}

// New analyses text with reg.
func New(reg *highlight.Registry, tabWidth int, text string) *Document {
	d := &Document{
		lines: SplitLines(text),
		h:     highlight.New(reg, tabWidth),
		dmp:   diffmatchpatch.New(),
	}
	d.h.Run(d.lines)
	return d
}

// SplitLines splits text on newlines. A trailing newline does not start a
// new line and carriage returns before a newline are dropped.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Len returns the number of lines.
func (d *Document) Len() int { return len(d.lines) }

// Line returns line y, or "" when y is out of range.
func (d *Document) Line(y int) string {
	if y < 0 || y >= len(d.lines) {
		return ""
	}
	return d.lines[y]
}

// Lines returns a copy of the lines.
func (d *Document) Lines() []string {
	return append([]string(nil), d.lines...)
}

// Text joins the lines with newlines.
func (d *Document) Text() string {
	return strings.Join(d.lines, "\n")
}

// Highlighter exposes the engine backing the document.
func (d *Document) Highlighter() *highlight.Highlighter { return d.h }

// Runs returns the highlighted runs of line y, or nil past the end.
func (d *Document) Runs(y int) []highlight.Run {
	if y < 0 || y >= len(d.lines) {
		return nil
	}
	return d.h.Project(y, d.lines[y])
}

// Width returns the display width of the widest line.
func (d *Document) Width() int {
	w := 0
	for y := range d.lines {
		w = max(w, highlight.Width(d.Runs(y)))
	}
	return w
}

// SetLine replaces line y.
func (d *Document) SetLine(y int, text string) error {
	if err := d.h.ReplaceLine(y, text); err != nil {
		return err
	}
	d.lines[y] = text
	return nil
}

// InsertLine inserts text before line y; y may equal Len.
func (d *Document) InsertLine(y int, text string) error {
	if err := d.h.InsertLine(y, text); err != nil {
		return err
	}
	d.lines = append(d.lines, "")
	copy(d.lines[y+1:], d.lines[y:])
	d.lines[y] = text
	return nil
}

// DeleteLine removes line y.
func (d *Document) DeleteLine(y int) error {
	if err := d.h.RemoveLine(y); err != nil {
		return err
	}
	d.lines = append(d.lines[:y], d.lines[y+1:]...)
	return nil
}

// Sync brings the document to text. A line diff between the current and
// the new text is applied as line edits so that unchanged lines keep their
// analysis; large structural changes re-run the whole document instead.
func (d *Document) Sync(ctx context.Context, text string) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	next := SplitLines(text)
	ep := d.plan(next)

	if ep.inserted+ep.removed > maxLineEdits {
		if err := d.h.RunContext(ctx, next); err != nil {
			return Stats{}, err
		}
		d.lines = next
		stats := Stats{Rerun: true}
		log.Debug(log.CatEngine, "document rerun", "lines", len(next), "inserted", ep.inserted, "removed", ep.removed)
		return stats, nil
	}

	var stats Stats
	for _, e := range ep.edits {
		var err error
		switch e.op {
		case opReplace:
			if d.lines[e.y] == next[e.src] {
				continue
			}
			err = d.SetLine(e.y, next[e.src])
			stats.Replaced++
		case opInsert:
			err = d.InsertLine(e.y, next[e.src])
			stats.Inserted++
		case opRemove:
			err = d.DeleteLine(e.y)
			stats.Removed++
		}
		if err != nil {
			return stats, fmt.Errorf("applying line edit at %d: %w", e.y, err)
		}
	}
	log.Debug(log.CatEngine, "document synced",
		"replaced", stats.Replaced, "inserted", stats.Inserted, "removed", stats.Removed)
	return stats, nil
}

type editOp uint8

const (
	opReplace editOp = iota
	opInsert
	opRemove
)

// edit is one line operation. y is the line index at the time the edit is
// applied; src indexes the new lines.
type edit struct {
	op  editOp
	y   int
	src int
}

type editPlan struct {
	edits    []edit
	inserted int
	removed  int
}

// plan diffs the current lines against next. Each diff rune stands for one
// line, so rune counts are line counts.
func (d *Document) plan(next []string) editPlan {
	r1, r2, _ := d.dmp.DiffLinesToRunes(joinLines(d.lines), joinLines(next))
	diffs := d.dmp.DiffMainRunes(r1, r2, false)

	var (
		p        editPlan
		y, src   int
		del, ins int
	)
	flush := func() {
		n := min(del, ins)
		for i := 0; i < n; i++ {
			p.edits = append(p.edits, edit{op: opReplace, y: y, src: src})
			y++
			src++
		}
		for i := n; i < del; i++ {
			p.edits = append(p.edits, edit{op: opRemove, y: y})
			p.removed++
		}
		for i := n; i < ins; i++ {
			p.edits = append(p.edits, edit{op: opInsert, y: y, src: src})
			p.inserted++
			y++
			src++
		}
		del, ins = 0, 0
	}

	for _, diff := range diffs {
		n := utf8.RuneCountInString(diff.Text)
		switch diff.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			y += n
			src += n
		case diffmatchpatch.DiffDelete:
			del += n
		case diffmatchpatch.DiffInsert:
			ins += n
		}
	}
	flush()
	return p
}

// joinLines terminates every line so that the last line diffs like the
// others.
func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
