package localscan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"skillforge/internal/classify"
	"skillforge/internal/pathmatch"
	"skillforge/internal/textutil"
	"skillforge/internal/types"
)

// TruncationMarker is appended once the tree-entry ceiling is hit.
const TruncationMarker = "... (truncated)"

// DocTruncationMarker is appended to documents cut at the size cap.
const DocTruncationMarker = "\n\n... (document truncated, see the source for the full text)"

// Options configures a local tree scan.
type Options struct {
	SkipPatterns []string
	Budget       types.ScanBudget
	// MaxDocBytes hard-caps each collected document.
	MaxDocBytes int
}

// Scan walks a cloned tree and builds the same artifact categories as the
// online scanner, reading local files instead of forge listings. Hidden
// directories and skip-pattern matches are pruned. Unreadable paths are
// skipped and logged at debug level.
func Scan(root string, opts Options) (*types.ScanResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("localscan: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("localscan: %s is not a directory", root)
	}

	matcher := pathmatch.New(opts.SkipPatterns)
	res := types.NewScanResult()
	treeFull := false

	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			logrus.Debugf("cannot visit %s: %v", p, err)
			return nil
		}
		if p == root {
			return nil
		}
		name := d.Name()
		if d.IsDir() && (strings.HasPrefix(name, ".") || matcher.Match(name)) {
			return filepath.SkipDir
		}
		if !d.IsDir() && matcher.Match(name) {
			return nil
		}

		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		depth := strings.Count(rel, "/")

		if !treeFull {
			if opts.Budget.MaxTreeEntries > 0 && len(res.TreeEntries) >= opts.Budget.MaxTreeEntries {
				res.TreeEntries = append(res.TreeEntries, TruncationMarker)
				treeFull = true
			} else {
				kind := "file"
				if d.IsDir() {
					kind = "dir"
				}
				res.TreeEntries = append(res.TreeEntries, fmt.Sprintf("[%s] %s", kind, rel))
			}
		}
		if d.IsDir() {
			return nil
		}

		collect(res, root, rel, name, depth, opts)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	if lang := DetectLanguage(root); lang != "" {
		res.Language = lang
	}
	return res, nil
}

func collect(res *types.ScanResult, root, rel, name string, depth int, opts Options) {
	if classify.IsKeyDoc(name) && len(res.KeyDocs) < opts.Budget.MaxKeyDocs {
		if content, ok := readFile(root, rel); ok {
			res.KeyDocs[rel] = textutil.TruncateBytes(content, opts.MaxDocBytes, DocTruncationMarker)
		}
	}

	if lang, ok := classify.ManifestLanguage(name); ok {
		if res.Language == "" {
			res.Language = lang
		}
		if _, have := res.Dependencies[name]; !have {
			if content, ok := readFile(root, rel); ok {
				res.Dependencies[name] = textutil.TruncateBytes(content, opts.MaxDocBytes, DocTruncationMarker)
			}
		}
	}

	if classify.HasExcludedSegment(rel) {
		return
	}
	switch {
	case classify.IsEntryPoint(name):
		if len(res.EntryFiles) < opts.Budget.MaxEntryFiles {
			if content, ok := readFile(root, rel); ok {
				res.EntryFiles[rel] = textutil.FirstLines(content, 100)
			}
		}
	case classify.IsSourceFile(name) && depth > 0:
		if len(res.CoreCode) < opts.Budget.MaxCoreCode {
			if content, ok := readFile(root, rel); ok {
				res.CoreCode[rel] = textutil.FirstLines(content, 100)
			}
		}
	}
}

func readFile(root, rel string) (string, bool) {
	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		logrus.Debugf("cannot read %s: %v", rel, err)
		return "", false
	}
	return string(b), true
}

// languageExtensions is broader than the source-extension set: detection
// counts everything recognizable, not only what the scanner previews.
var languageExtensions = map[string]string{
	".py": "Python", ".js": "JavaScript", ".ts": "TypeScript",
	".go": "Go", ".rs": "Rust", ".java": "Java",
	".c": "C", ".cpp": "C++", ".cs": "C#",
	".rb": "Ruby", ".php": "PHP", ".swift": "Swift",
	".kt": "Kotlin", ".scala": "Scala", ".r": "R", ".m": "Objective-C",
}

// DetectLanguage counts recognized extensions over the tree, hidden
// directories excluded, and returns the most frequent language. Ties break
// lexicographically by language name so runs are deterministic.
func DetectLanguage(root string) string {
	counts := map[string]int{}
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if lang, ok := languageExtensions[strings.ToLower(filepath.Ext(d.Name()))]; ok {
			counts[lang]++
		}
		return nil
	})
	if len(counts) == 0 {
		return ""
	}
	langs := make([]string, 0, len(counts))
	for l := range counts {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	best := langs[0]
	for _, l := range langs[1:] {
		if counts[l] > counts[best] {
			best = l
		}
	}
	return best
}
