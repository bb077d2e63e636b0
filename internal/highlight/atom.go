package highlight

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"
)

// escapeChar is the character that escapes a delimiter of an escapable region.
const escapeChar = '\\'

// Atom is a single-line occurrence of one registered pattern.
// Start and End are character indices into the tab-expanded line (End is
// exclusive, like Go slices).
type Atom struct {
	Name    string
	Role    Role
	Region  int
	Start   int
	End     int
	Escaped bool
}

// sameKind reports whether a and b are equal ignoring their positions.
func (a Atom) sameKind(b Atom) bool {
	return a.Name == b.Name && a.Role == b.Role && a.Region == b.Region && a.Escaped == b.Escaped
}

// sameKinds compares two atom lists pairwise ignoring positions.
func sameKinds(a, b []Atom) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].sameKind(b[i]) {
			return false
		}
	}
	return true
}

// Atomize runs every pattern against line and returns the atoms sorted by
// start position, with registration order breaking ties. Tabs count as
// tabWidth characters. The result depends only on line, tabWidth and the
// registry, so repeated calls return identical lists.
func (r *Registry) Atomize(line string, tabWidth int) []Atom {
	return r.atomize(expandTabs(line, tabSpaces(tabWidth)))
}

// atomize works on an already tab-expanded line.
func (r *Registry) atomize(line string) []Atom {
	if line == "" || len(r.patterns) == 0 {
		return nil
	}

	chars := charIndex(line)
	var atoms []Atom
	for _, p := range r.patterns {
		for _, loc := range p.Expr.FindAllStringSubmatchIndex(line, -1) {
			bs, be := span(loc)
			if bs == be {
				continue
			}
			start, end := chars[bs], chars[be]
			atoms = append(atoms, Atom{
				Name:    p.Name,
				Role:    p.Role,
				Region:  p.Region,
				Start:   start,
				End:     end,
				Escaped: escapedAt(line, bs),
			})
		}
	}

	// Atoms were produced in registration order, so a stable sort keeps
	// registration order among atoms that start together.
	slices.SortStableFunc(atoms, func(a, b Atom) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return atoms
}

// span picks the byte range an occurrence contributes: the last capture
// group that participated, or the whole match when there is none.
func span(loc []int) (int, int) {
	for g := len(loc)/2 - 1; g > 0; g-- {
		if loc[2*g] >= 0 {
			return loc[2*g], loc[2*g+1]
		}
	}
	return loc[0], loc[1]
}

// escapedAt reports whether the byte offset at is preceded by an odd run of
// escape characters.
func escapedAt(line string, at int) bool {
	n := 0
	for i := at - 1; i >= 0 && line[i] == escapeChar; i-- {
		n++
	}
	return n%2 == 1
}

// charIndex maps every byte offset of s (including len(s)) to the index of
// the character containing it.
func charIndex(s string) []int {
	idx := make([]int, len(s)+1)
	c := 0
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		for j := 0; j < size; j++ {
			idx[i+j] = c
		}
		i += size
		c++
	}
	idx[len(s)] = c
	return idx
}

func tabSpaces(tabWidth int) string {
	if tabWidth < 1 {
		tabWidth = 1
	}
	return strings.Repeat(" ", tabWidth)
}

func expandTabs(line, spaces string) string {
	if !strings.Contains(line, "\t") {
		return line
	}
	return strings.ReplaceAll(line, "\t", spaces)
}
