package pathmatch

import "strings"

// Matcher decides whether a path element matches any of a fixed pattern set.
// Three pattern forms are supported:
//
//   - "*suffix"  matches names ending in suffix (e.g. "*.pyc")
//   - ".prefix"  matches names starting with the pattern (e.g. ".venv")
//   - anything else is an exact name match (e.g. "node_modules")
//
// Both the online and local scanners share this matcher so the skip policy
// cannot drift between them.
type Matcher struct {
	exact    map[string]struct{}
	prefixes []string
	suffixes []string
}

// New compiles patterns into a Matcher. Empty patterns are ignored.
func New(patterns []string) *Matcher {
	m := &Matcher{exact: make(map[string]struct{}, len(patterns))}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		switch {
		case p == "":
		case strings.HasPrefix(p, "*"):
			m.suffixes = append(m.suffixes, p[1:])
		case strings.HasPrefix(p, "."):
			m.prefixes = append(m.prefixes, p)
		default:
			m.exact[p] = struct{}{}
		}
	}
	return m
}

// Match reports whether name matches any compiled pattern.
func (m *Matcher) Match(name string) bool {
	if m == nil || name == "" {
		return false
	}
	if _, ok := m.exact[name]; ok {
		return true
	}
	for _, pre := range m.prefixes {
		if strings.HasPrefix(name, pre) {
			return true
		}
	}
	for _, suf := range m.suffixes {
		if suf != "" && strings.HasSuffix(name, suf) {
			return true
		}
	}
	return false
}

// DefaultSkipPatterns is the stock skip list applied to scanned trees:
// VCS internals, dependency and build output directories, editor droppings.
func DefaultSkipPatterns() []string {
	return []string{
		".git", ".gitignore", ".github", ".gitattributes",
		"node_modules", "__pycache__", "*.pyc",
		".venv", "venv", "dist", "build", ".tox",
		".mypy_cache", ".pytest_cache", "coverage",
		".idea", ".vscode", "*.swp", "*.swo", "~",
	}
}
