package highlight

import "strings"

// Run is one span of a projected line. Kind names the tag of a highlighted
// run and is empty for plain text.
type Run struct {
	Text string
	Kind string
}

// Highlighted reports whether the run carries a tag.
func (r Run) Highlighted() bool { return r.Kind != "" }

// Project rebuilds line y as alternating tagged and plain runs, from the
// stored tokens and the line's literal text. Tabs in text are expanded the
// same way the atomizer expanded them. Ranges that fall outside text are
// clipped, so a renderer that is a step ahead of an edit still gets a
// consistent line. Returns nil when y is past the end of the document.
func (h *Highlighter) Project(y int, text string) []Run {
	if y < 0 || y >= len(h.refs) {
		return nil
	}

	chars := []rune(expandTabs(text, h.tab))
	type span struct {
		end  int
		name string
	}
	spans := make(map[int]span, len(h.refs[y]))
	for _, idx := range h.refs[y] {
		start, end, ok := h.visible(h.tokens[idx], y, len(chars))
		if !ok {
			continue
		}
		// Tokens never overlap on a line; if they did, the first one wins.
		if _, taken := spans[start]; !taken {
			spans[start] = span{end: end, name: h.tokens[idx].Name}
		}
	}

	var (
		runs  []Run
		plain strings.Builder
	)
	flush := func() {
		if plain.Len() > 0 {
			runs = append(runs, Run{Text: plain.String()})
			plain.Reset()
		}
	}
	for x := 0; x < len(chars); {
		if sp, ok := spans[x]; ok {
			flush()
			runs = append(runs, Run{Text: string(chars[x:sp.end]), Kind: sp.name})
			x = sp.end
			continue
		}
		plain.WriteRune(chars[x])
		x++
	}
	flush()
	return runs
}

// visible returns the part of tok that lies on line y, clipped to [0, n).
func (h *Highlighter) visible(tok Token, y, n int) (int, int, bool) {
	sa, ok := h.atomAt(tok.Start)
	if !ok {
		return 0, 0, false
	}

	var start, end int
	switch tok.Kind {
	case TokenKeyword:
		start, end = sa.Start, sa.End
	default:
		start, end = 0, n
		if tok.Start.Line == y {
			start = sa.Start
		}
		if !tok.Open && tok.End.Line == y {
			ea, ok := h.atomAt(tok.End)
			if !ok {
				return 0, 0, false
			}
			end = ea.End
		}
	}

	start, end = max(start, 0), min(end, n)
	if start >= end {
		return 0, 0, false
	}
	return start, end, true
}

func (h *Highlighter) atomAt(loc Location) (Atom, bool) {
	ok := loc.Line >= 0 && loc.Line < len(h.atoms) &&
		loc.Atom >= 0 && loc.Atom < len(h.atoms[loc.Line])
	if !invariant(ok, "token references a missing atom", "line", loc.Line, "atom", loc.Atom) {
		return Atom{}, false
	}
	return h.atoms[loc.Line][loc.Atom], true
}
