package highlight

import (
	"context"
	"slices"
)

// Location addresses one atom: line index and atom index within that line.
// A Location is only meaningful against the atoms of the sweep that
// produced it.
type Location struct {
	Line int
	Atom int
}

// TokenKind distinguishes single-line keywords from bounded regions.
type TokenKind int

const (
	TokenKeyword TokenKind = iota
	TokenRegion
)

func (k TokenKind) String() string {
	if k == TokenRegion {
		return "region"
	}
	return "keyword"
}

// Token is a keyword occurrence or a possibly multi-line region.
// A region with Open set has no end yet (end of file, or still being typed)
// and End is meaningless.
type Token struct {
	Kind  TokenKind
	Name  string
	Start Location
	End   Location
	Open  bool
}

// mode is the sweep's position relative to bounded regions. Regions never
// nest, so at most one is open at a time.
type mode uint8

const (
	modeFree   mode = iota // outside every region
	modeOpen               // inside a region
	modeInterp             // inside a region's interpolated code
)

// state is the accumulator threaded through step. token is the index of the
// open region token and is only valid in modeOpen within the current sweep.
type state struct {
	mode   mode
	region int
	token  int
}

var freeState = state{mode: modeFree, region: NoRegion, token: -1}

// entry is the part of a state that may outlive its sweep: it carries no
// token reference.
type entry struct {
	mode   mode
	region int
}

func (s state) entry() entry { return entry{mode: s.mode, region: s.region} }

// action is what an accepted atom did.
type action uint8

const (
	actKeyword action = iota + 1
	actOpen
	actClose
	actInterpStart
	actInterpEnd
)

// decision records one accepted atom of a line.
type decision struct {
	atom int
	act  action
}

// sweep is the arena of one top-to-bottom pass. Everything in it is rebuilt
// from scratch on every full pass.
type sweep struct {
	regions []RegionDef
	tokens  []Token
	refs    [][]int
	entries []entry      // entries[y] is the state entering line y; one extra for end of file
	traces  [][]decision // accepted atoms per line
}

func newSweep(regions []RegionDef, lines int) *sweep {
	return &sweep{
		regions: regions,
		refs:    make([][]int, lines),
		entries: make([]entry, lines+1),
		traces:  make([][]decision, lines),
	}
}

// run sweeps every line. ctx is checked between lines; on cancellation the
// partial arena is discarded by the caller.
func (s *sweep) run(ctx context.Context, atoms [][]Atom) error {
	st := freeState
	for y, line := range atoms {
		if y%256 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		s.entries[y] = st.entry()
		st = s.step(y, line, st)
	}
	s.entries[len(atoms)] = st.entry()
	return nil
}

// step assembles one line's atoms, left to right, starting from st, and
// returns the state entering the next line.
func (s *sweep) step(y int, atoms []Atom, st state) state {
	if st.mode == modeOpen {
		// The region started on an earlier line and still covers this one.
		s.refs[y] = append(s.refs[y], st.token)
	}

	consumed := 0
	for i, a := range atoms {
		if a.Start < consumed {
			continue
		}
		if a.Escaped && a.Region != NoRegion && s.escapable(a.Region) {
			continue
		}
		next, act := s.apply(y, i, a, st)
		if act == 0 {
			continue
		}
		st = next
		consumed = a.End
		s.traces[y] = append(s.traces[y], decision{atom: i, act: act})
	}
	return st
}

// apply is the transition function. A zero action means the atom was not
// accepted and st is returned unchanged.
func (s *sweep) apply(y, i int, a Atom, st state) (state, action) {
	here := Location{Line: y, Atom: i}

	switch st.mode {
	case modeFree:
		switch a.Role {
		case RoleKeyword:
			s.emit(y, Token{Kind: TokenKeyword, Name: a.Name, Start: here})
			return st, actKeyword
		case RoleStart, RoleHybrid:
			idx := s.emit(y, Token{Kind: TokenRegion, Name: a.Name, Start: here, Open: true})
			return state{mode: modeOpen, region: a.Region, token: idx}, actOpen
		}

	case modeOpen:
		if a.Region != st.region {
			return st, 0
		}
		switch a.Role {
		case RoleEnd, RoleHybrid:
			if !s.close(st, here) {
				return st, 0
			}
			return freeState, actClose
		case RoleInterpStart:
			if !s.close(st, here) {
				return st, 0
			}
			return state{mode: modeInterp, region: st.region, token: -1}, actInterpStart
		}

	case modeInterp:
		switch {
		case a.Role == RoleKeyword:
			s.emit(y, Token{Kind: TokenKeyword, Name: a.Name, Start: here})
			return st, actKeyword
		case a.Role == RoleInterpEnd && a.Region == st.region:
			idx := s.emit(y, Token{Kind: TokenRegion, Name: a.Name, Start: here, Open: true})
			return state{mode: modeOpen, region: st.region, token: idx}, actInterpEnd
		}
	}
	return st, 0
}

// emit appends a token and references it from line y.
func (s *sweep) emit(y int, tok Token) int {
	idx := len(s.tokens)
	s.tokens = append(s.tokens, tok)
	s.refs[y] = append(s.refs[y], idx)
	return idx
}

// close ends the open region token of st at loc.
func (s *sweep) close(st state, loc Location) bool {
	ok := st.token >= 0 && st.token < len(s.tokens) &&
		s.tokens[st.token].Kind == TokenRegion && s.tokens[st.token].Open
	if !invariant(ok, "closing a region with no open token",
		"line", loc.Line, "atom", loc.Atom, "token", st.token) {
		return false
	}
	s.tokens[st.token].End = loc
	s.tokens[st.token].Open = false
	return true
}

func (s *sweep) escapable(region int) bool {
	if region < 0 || region >= len(s.regions) {
		return false
	}
	return s.regions[region].Escapable
}

// replay runs step for a single line from a recorded entry state in a
// scratch arena and reports the decisions taken and the exit state.
func replay(regions []RegionDef, atoms []Atom, in entry) ([]decision, entry) {
	s := newSweep(regions, 1)
	st := state{mode: in.mode, region: in.region, token: -1}
	if in.mode == modeOpen {
		// Stand-in for the region token opened on an earlier line.
		st.token = len(s.tokens)
		s.tokens = append(s.tokens, Token{Kind: TokenRegion, Open: true})
	}
	out := s.step(0, atoms, st)
	return s.traces[0], out.entry()
}

func sameTrace(a, b []decision) bool {
	return slices.Equal(a, b)
}
