package highlight

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Window returns exactly length display columns of runs, starting at column
// start. Runs crossing either edge are split; a wide character cut by an
// edge is replaced by spaces (keeping its run's tag) so that everything to
// its right stays aligned. Past the end of the line the window is padded
// with plain spaces.
func Window(runs []Run, start, length int) []Run {
	if length <= 0 {
		return nil
	}
	start = max(start, 0)
	return clip(runs, start, start+length, true)
}

// Trim drops the first start display columns of runs and keeps the rest.
// It follows the same splitting rules as Window but never pads.
func Trim(runs []Run, start int) []Run {
	return clip(runs, max(start, 0), math.MaxInt, false)
}

// Width returns the total display width of runs.
func Width(runs []Run) int {
	w := 0
	for _, r := range runs {
		w += runewidth.StringWidth(r.Text)
	}
	return w
}

// Compact merges adjacent runs with the same tag and drops empty runs.
func Compact(runs []Run) []Run {
	var out []Run
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Kind == r.Kind {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}

// clip keeps the columns [start, end) of runs, walking grapheme clusters so
// a cluster is never split.
func clip(runs []Run, start, end int, pad bool) []Run {
	var (
		out []Run
		col int
	)

walk:
	for _, r := range runs {
		var b strings.Builder
		rest, state := r.Text, -1
		for len(rest) > 0 {
			var cluster string
			cluster, rest, _, state = uniseg.StepString(rest, state)
			w := runewidth.StringWidth(cluster)
			cs, ce := col, col+w
			col = ce

			switch {
			case cs >= end:
				if b.Len() > 0 {
					out = append(out, Run{Text: b.String(), Kind: r.Kind})
				}
				break walk
			case w == 0:
				// Zero-width clusters belong to the column they sit on.
				if cs >= start {
					b.WriteString(cluster)
				}
			case ce <= start:
				// Entirely left of the window.
			case cs >= start && ce <= end:
				b.WriteString(cluster)
			default:
				// Cut by an edge: keep the covered columns as spaces.
				b.WriteString(strings.Repeat(" ", min(ce, end)-max(cs, start)))
			}
		}
		if b.Len() > 0 {
			out = append(out, Run{Text: b.String(), Kind: r.Kind})
		}
	}

	if pad && col < end {
		fill := strings.Repeat(" ", end-max(col, start))
		if n := len(out); n > 0 && !out[n-1].Highlighted() {
			out[n-1].Text += fill
		} else {
			out = append(out, Run{Text: fill})
		}
	}
	return out
}
