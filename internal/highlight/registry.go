// Package highlight implements an incremental lexical highlighting engine.
//
// A Registry holds the pattern rules of one language: keywords, bounded
// regions (comments, strings) that may span lines, and bounded regions that
// allow interpolated code. A Highlighter owns one document's analysis: it
// turns each line into atoms, sweeps the atoms top to bottom into tokens, and
// keeps that result current as single lines are replaced, inserted or
// removed. Project and Window turn the stored tokens back into run sequences
// sized for a fixed-width viewport.
//
// Coordinates:
//
// Every position the engine stores is a character (rune) index into the line
// after tab expansion, so positions stay valid for the projected text. Window
// and Trim work in display columns (CJK and emoji occupy two).
package highlight

import (
	"errors"
	"fmt"
	"regexp"
	"sync/atomic"
)

var (
	// ErrInvalidPattern is returned when a matcher does not compile or an
	// interpolating region's inner markers are identical.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrRegistrySealed is returned when a rule is added to a registry that
	// already backs a Highlighter.
	ErrRegistrySealed = errors.New("registry is sealed")
)

// Role is the part a pattern plays in assembling tokens.
type Role int

const (
	RoleKeyword     Role = iota // single-line occurrence
	RoleStart                   // opens a bounded region
	RoleEnd                     // closes a bounded region
	RoleHybrid                  // opens or closes (start text equals end text)
	RoleInterpStart             // suspends a region for interpolated code
	RoleInterpEnd               // resumes a region after interpolated code
)

func (r Role) String() string {
	switch r {
	case RoleKeyword:
		return "keyword"
	case RoleStart:
		return "start"
	case RoleEnd:
		return "end"
	case RoleHybrid:
		return "hybrid"
	case RoleInterpStart:
		return "interp-start"
	case RoleInterpEnd:
		return "interp-end"
	default:
		return "unknown"
	}
}

// NoRegion marks patterns and atoms that do not belong to a bounded region.
const NoRegion = -1

// Pattern is one compiled matcher. Several patterns share a Region id.
type Pattern struct {
	Name   string
	Expr   *regexp.Regexp
	Role   Role
	Region int
}

// RegionDef describes a bounded region.
type RegionDef struct {
	Name      string
	Escapable bool
}

// PatternError reports a rule that could not be registered.
type PatternError struct {
	Name    string
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("%s: pattern %q for %q: %v", ErrInvalidPattern, e.Pattern, e.Name, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrInvalidPattern) match every PatternError.
func (e *PatternError) Is(target error) bool { return target == ErrInvalidPattern }

// Registry holds the pattern rules for one language.
//
// Registration order matters: when two atoms start at the same position the
// pattern registered first wins, so comment starts must be registered before
// generic operators that share a prefix.
//
// A registry is sealed the first time a Highlighter is built on it. After
// that it is read-only and may be shared by any number of highlighters,
// including ones used from different goroutines.
type Registry struct {
	patterns []Pattern
	regions  []RegionDef
	sealed   atomic.Bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// AddKeyword registers a single-line pattern tagged name.
func (r *Registry) AddKeyword(name, pattern string) error {
	if err := r.writable(); err != nil {
		return err
	}
	re, err := compile(name, pattern)
	if err != nil {
		return err
	}
	r.patterns = append(r.patterns, Pattern{Name: name, Expr: re, Role: RoleKeyword, Region: NoRegion})
	return nil
}

// AddKeywords registers several single-line patterns under one tag.
// Patterns registered before a failing one stay registered.
func (r *Registry) AddKeywords(name string, patterns ...string) error {
	for _, p := range patterns {
		if err := r.AddKeyword(name, p); err != nil {
			return err
		}
	}
	return nil
}

// AddBounded registers a region delimited by start and end, which may span
// lines. When escapable is set, a delimiter preceded by an odd number of
// backslashes is ignored.
func (r *Registry) AddBounded(name, start, end string, escapable bool) error {
	if err := r.writable(); err != nil {
		return err
	}
	pats, err := boundary(name, start, end, len(r.regions))
	if err != nil {
		return err
	}
	r.patterns = append(r.patterns, pats...)
	r.regions = append(r.regions, RegionDef{Name: name, Escapable: escapable})
	return nil
}

// AddInterpolated registers a bounded region whose content between
// innerStart and innerEnd is highlighted as ordinary code, for example
// "${" and "}" inside a template string.
func (r *Registry) AddInterpolated(name, start, end, innerStart, innerEnd string, escapable bool) error {
	if err := r.writable(); err != nil {
		return err
	}
	if innerStart == innerEnd {
		return &PatternError{Name: name, Pattern: innerStart, Err: errors.New("inner start and inner end are identical")}
	}
	region := len(r.regions)
	pats, err := boundary(name, start, end, region)
	if err != nil {
		return err
	}
	is, err := compile(name, innerStart)
	if err != nil {
		return err
	}
	ie, err := compile(name, innerEnd)
	if err != nil {
		return err
	}
	pats = append(pats,
		Pattern{Name: name, Expr: is, Role: RoleInterpStart, Region: region},
		Pattern{Name: name, Expr: ie, Role: RoleInterpEnd, Region: region},
	)
	r.patterns = append(r.patterns, pats...)
	r.regions = append(r.regions, RegionDef{Name: name, Escapable: escapable})
	return nil
}

// Patterns returns the registered patterns in registration order.
func (r *Registry) Patterns() []Pattern {
	return append([]Pattern(nil), r.patterns...)
}

// Regions returns the registered bounded regions, indexed by region id.
func (r *Registry) Regions() []RegionDef {
	return append([]RegionDef(nil), r.regions...)
}

// Seal makes the registry read-only. It is idempotent.
func (r *Registry) Seal() {
	r.sealed.Store(true)
}

// Sealed reports whether the registry is read-only.
func (r *Registry) Sealed() bool {
	return r.sealed.Load()
}

func (r *Registry) writable() error {
	if r.sealed.Load() {
		return ErrRegistrySealed
	}
	return nil
}

func (r *Registry) region(id int) (RegionDef, bool) {
	if id < 0 || id >= len(r.regions) {
		return RegionDef{}, false
	}
	return r.regions[id], true
}

func boundary(name, start, end string, region int) ([]Pattern, error) {
	sre, err := compile(name, start)
	if err != nil {
		return nil, err
	}
	if start == end {
		return []Pattern{{Name: name, Expr: sre, Role: RoleHybrid, Region: region}}, nil
	}
	ere, err := compile(name, end)
	if err != nil {
		return nil, err
	}
	return []Pattern{
		{Name: name, Expr: sre, Role: RoleStart, Region: region},
		{Name: name, Expr: ere, Role: RoleEnd, Region: region},
	}, nil
}

func compile(name, pattern string) (*regexp.Regexp, error) {
	if name == "" {
		return nil, &PatternError{Name: name, Pattern: pattern, Err: errors.New("empty name")}
	}
	if pattern == "" {
		return nil, &PatternError{Name: name, Pattern: pattern, Err: errors.New("empty pattern")}
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &PatternError{Name: name, Pattern: pattern, Err: err}
	}
	return re, nil
}
