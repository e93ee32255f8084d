package walkfs

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/unicode/norm"
)

// Predicate reports whether an entry is selected.
type Predicate func(Entry) bool

// Filter selects entries by glob patterns, by an arbitrary predicate, or
// neither. When Func is set it takes precedence over Patterns.
type Filter struct {
	// Patterns are doublestar globs resolved against the walk's workspace.
	Patterns []string
	// Func is evaluated per entry.
	Func Predicate
}

// PatternSet matches paths against a set of glob patterns resolved against a
// base directory. A pattern matches a path when the base-relative path
// matches it directly, or lies beneath a directory that matches it.
type PatternSet struct {
	base     string
	patterns []string
}

// NewPatternSet compiles patterns against base. Patterns and candidate paths
// are NFC-normalized before matching so that composed and decomposed forms
// of the same name compare equal.
func NewPatternSet(patterns []string, base string) *PatternSet {
	normalized := make([]string, 0, len(patterns))
	for _, p := range patterns {
		normalized = append(normalized, norm.NFC.String(filepath.ToSlash(p)))
	}
	return &PatternSet{base: base, patterns: normalized}
}

// Match reports whether path, taken relative to the base directory, matches
// any pattern in the set.
func (s *PatternSet) Match(path string) bool {
	rel := norm.NFC.String(relTo(s.base, path))
	for _, p := range s.patterns {
		if doublestar.MatchUnvalidated(p, rel) {
			return true
		}
		if doublestar.MatchUnvalidated(p+"/**", rel) {
			return true
		}
	}
	return false
}

// buildIgnore normalizes an ignore filter into a single predicate, built
// once per walk so pattern compilation is amortized. An empty filter
// ignores nothing.
func buildIgnore(f Filter, base string) Predicate {
	switch {
	case f.Func != nil:
		return f.Func
	case len(f.Patterns) > 0:
		set := NewPatternSet(f.Patterns, base)
		return func(e Entry) bool { return set.Match(e.View().EntryPath) }
	default:
		return func(Entry) bool { return false }
	}
}

// buildMatch normalizes a match filter into a single predicate. An empty
// filter matches everything.
func buildMatch(f Filter, base string) Predicate {
	switch {
	case f.Func != nil:
		return f.Func
	case len(f.Patterns) > 0:
		set := NewPatternSet(f.Patterns, base)
		return func(e Entry) bool { return set.Match(e.View().EntryPath) }
	default:
		return func(Entry) bool { return true }
	}
}
