// Package classify holds the filename classification tables shared by the
// online and local scanners, so the two acquisition paths cannot drift.
package classify

import "strings"

// manifestLanguages maps dependency-manifest filenames to the language each
// one implies. The first manifest encountered decides the detected language.
var manifestLanguages = map[string]string{
	"requirements.txt": "Python",
	"package.json":     "Node.js",
	"go.mod":           "Go",
	"Cargo.toml":       "Rust",
	"pyproject.toml":   "Python",
	"setup.py":         "Python",
	"pom.xml":          "Java",
	"Gemfile":          "Ruby",
}

// entryPointNames lists entry-point filenames across the supported language
// families, lowercased.
var entryPointNames = map[string]struct{}{
	"main.py": {}, "__main__.py": {}, "app.py": {}, "cli.py": {}, "core.py": {},
	"index.js": {}, "main.js": {}, "app.js": {}, "server.js": {},
	"index.ts": {}, "main.ts": {}, "app.ts": {},
	"main.go": {}, "lib.rs": {}, "main.rs": {}, "mod.rs": {},
	"app.java": {}, "main.java": {},
	"application.rb": {}, "main.rb": {},
}

var sourceExtensions = map[string]struct{}{
	".py": {}, ".js": {}, ".ts": {}, ".go": {}, ".rs": {}, ".java": {},
	".c": {}, ".cpp": {}, ".h": {}, ".cs": {}, ".rb": {}, ".php": {}, ".sh": {},
}

var keyDocPrefixes = []string{"README", "LICENSE", "CONTRIBUTING"}

var excludedSegments = map[string]struct{}{
	"test": {}, "tests": {}, "doc": {}, "docs": {},
	"example": {}, "examples": {}, "vendor": {}, "site-packages": {},
}

// ManifestLanguage returns the language implied by a dependency-manifest
// filename, or false when the name is not a known manifest.
func ManifestLanguage(name string) (string, bool) {
	lang, ok := manifestLanguages[name]
	return lang, ok
}

// IsKeyDoc reports whether name is a key project document
// (case-insensitive README/LICENSE/CONTRIBUTING prefix).
func IsKeyDoc(name string) bool {
	upper := strings.ToUpper(name)
	for _, prefix := range keyDocPrefixes {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	return false
}

// IsEntryPoint reports whether name is a known program entry filename.
func IsEntryPoint(name string) bool {
	_, ok := entryPointNames[strings.ToLower(name)]
	return ok
}

// IsSourceFile reports whether name carries a recognized source extension.
func IsSourceFile(name string) bool {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return false
	}
	_, ok := sourceExtensions[strings.ToLower(name[idx:])]
	return ok
}

// HasExcludedSegment reports whether any path segment marks test, doc,
// example or vendored content that previews should not spend budget on.
func HasExcludedSegment(relPath string) bool {
	for _, seg := range strings.Split(strings.ToLower(relPath), "/") {
		if _, ok := excludedSegments[seg]; ok {
			return true
		}
	}
	return false
}
