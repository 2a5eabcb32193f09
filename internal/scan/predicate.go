package scan

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// Predicate decides whether a regular file is a candidate. The name criteria
// (Extensions, NamePatterns, PathContains) are alternatives: a file matches
// if any of them matches, or trivially if none are set. Size and age bounds
// are conjunctive on top of that. All thresholds are caller-supplied.
type Predicate struct {
	// Extensions is an allow-list of lowercase extensions including the
	// dot, e.g. ".tmp".
	Extensions []string

	// NamePatterns are globs matched against the base name, e.g. "~$*".
	NamePatterns []string

	// PathContains are lowercase substrings matched against the full
	// path, e.g. "cache". Used by the Adobe tool to catch files inside
	// temp directories regardless of name.
	PathContains []string

	// MinSize excludes files smaller than this many bytes. Zero = no bound.
	MinSize int64

	// MinAge excludes files modified more recently than this. Zero = no bound.
	MinAge time.Duration

	// Exclude are base-name globs that always reject, applied last.
	Exclude []string
}

// Match reports whether the file at path with the given info satisfies the
// predicate. Match is a pure function of its inputs: re-filtering a scan's
// output with the same predicate reproduces the same set.
func (p Predicate) Match(path string, info fs.FileInfo) bool {
	name := filepath.Base(path)

	if p.hasNameCriteria() && !p.nameMatch(path, name) {
		return false
	}
	if p.MinSize > 0 && info.Size() < p.MinSize {
		return false
	}
	if p.MinAge > 0 && time.Since(info.ModTime()) < p.MinAge {
		return false
	}
	for _, pat := range p.Exclude {
		if ok, _ := filepath.Match(strings.ToLower(pat), strings.ToLower(name)); ok {
			return false
		}
	}
	return true
}

func (p Predicate) hasNameCriteria() bool {
	return len(p.Extensions) > 0 || len(p.NamePatterns) > 0 || len(p.PathContains) > 0
}

func (p Predicate) nameMatch(path, name string) bool {
	lowerName := strings.ToLower(name)

	if len(p.Extensions) > 0 {
		ext := strings.ToLower(filepath.Ext(name))
		for _, e := range p.Extensions {
			if ext == e {
				return true
			}
		}
	}

	for _, pat := range p.NamePatterns {
		if ok, _ := filepath.Match(strings.ToLower(pat), lowerName); ok {
			return true
		}
	}

	if len(p.PathContains) > 0 {
		lowerPath := strings.ToLower(path)
		for _, sub := range p.PathContains {
			if strings.Contains(lowerPath, sub) {
				return true
			}
		}
	}

	return false
}
