package types

import "sort"

// ScanBudget caps how much content a single repository scan may pull in.
// Once a category hits its ceiling no further items of that category are
// fetched; traversal continues for the others.
type ScanBudget struct {
	MaxKeyDocs     int
	MaxEntryFiles  int
	MaxCoreCode    int
	MaxTreeEntries int
	MaxDepth       int
}

// DefaultBudget mirrors the ceilings used by the online scanner: a handful
// of documents and entry files, ten core-code previews, two directory levels.
func DefaultBudget() ScanBudget {
	return ScanBudget{
		MaxKeyDocs:     5,
		MaxEntryFiles:  5,
		MaxCoreCode:    10,
		MaxTreeEntries: 100,
		MaxDepth:       2,
	}
}

// ScanResult is the artifact set produced by one scan invocation (online or
// local). It is created empty, grows monotonically under the budget, and is
// treated as immutable once the walk terminates.
type ScanResult struct {
	// TreeEntries holds "[kind] path" lines in discovery order.
	TreeEntries []string
	// KeyDocs maps repo-relative path to full document content.
	KeyDocs map[string]string
	// Dependencies maps manifest filename to content, once per distinct name.
	Dependencies map[string]string
	// CoreCode maps repo-relative path to a first-100-lines preview.
	CoreCode map[string]string
	// EntryFiles maps repo-relative path to a first-100-lines preview.
	EntryFiles map[string]string
	// Language is the detected primary language, empty if unknown.
	Language string
}

// NewScanResult returns an empty result with all maps allocated.
func NewScanResult() *ScanResult {
	return &ScanResult{
		KeyDocs:      map[string]string{},
		Dependencies: map[string]string{},
		CoreCode:     map[string]string{},
		EntryFiles:   map[string]string{},
	}
}

// Empty reports whether the walk produced no tree entries at all. An empty
// tree is the explicit trigger for the clone fallback.
func (r *ScanResult) Empty() bool {
	return r == nil || len(r.TreeEntries) == 0
}

// FirstEntryFile returns the lexicographically first entry-file path, or ""
// when none were collected. Sorted so the choice is deterministic.
func (r *ScanResult) FirstEntryFile() string {
	if r == nil || len(r.EntryFiles) == 0 {
		return ""
	}
	paths := make([]string, 0, len(r.EntryFiles))
	for p := range r.EntryFiles {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths[0]
}

// RepoMetadata is the forge-reported description of a repository.
type RepoMetadata struct {
	Stars       int
	Forks       int
	LicenseID   string
	Description string
}

// SafetyReport is the safety gate verdict. The gate fails closed: any fetch
// error yields Safe=false with a diagnostic reason rather than an error.
type SafetyReport struct {
	Safe   bool
	Reason string
	Stats  string
}
