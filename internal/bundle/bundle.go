// Package bundle turns a ScanResult into the single context-bundle document.
// Assembly is pure: no I/O, and identical input always yields identical
// output, so the caller can compute everything in memory and write once.
package bundle

import (
	"fmt"
	"sort"
	"strings"

	"skillforge/internal/textutil"
	"skillforge/internal/types"
)

// DocTruncationMarker is appended to key documents cut at the size cap.
const DocTruncationMarker = "\n\n... (document truncated, see the source repository for the full text)"

// Limits bounds the assembled document.
type Limits struct {
	// MaxDocBytes caps each key document; <= 0 disables the cap.
	MaxDocBytes int
}

// Assemble renders the bundle with a fixed section order: project tree,
// detected language, key documents, dependency manifests, core-code preview,
// entry-file preview. Map iteration is sorted so the output is
// deterministic and assembly is idempotent.
func Assemble(res *types.ScanResult, limits Limits) string {
	var b strings.Builder

	b.WriteString("# Project Structure\n\n```\n")
	tree := append([]string(nil), res.TreeEntries...)
	sort.Strings(tree)
	b.WriteString(strings.Join(tree, "\n"))
	b.WriteString("\n```\n")

	lang := res.Language
	if lang == "" {
		lang = "Unknown"
	}
	fmt.Fprintf(&b, "\n# Primary Language\n\n%s\n", lang)

	b.WriteString("\n# Key Documents\n")
	for _, path := range sortedKeys(res.KeyDocs) {
		content := textutil.TruncateBytes(res.KeyDocs[path], limits.MaxDocBytes, DocTruncationMarker)
		fmt.Fprintf(&b, "\n## %s\n\n%s\n\n%s\n", path, content, strings.Repeat("-", 60))
	}

	b.WriteString("\n# Dependency Manifests\n")
	for _, name := range sortedKeys(res.Dependencies) {
		fmt.Fprintf(&b, "\n## %s\n\n```\n%s\n```\n", name, res.Dependencies[name])
	}

	writeCodeSection(&b, "Core Code Preview (first 100 lines)", res.CoreCode)
	writeCodeSection(&b, "Entry File Preview (first 100 lines)", res.EntryFiles)

	return b.String()
}

func writeCodeSection(b *strings.Builder, title string, files map[string]string) {
	fmt.Fprintf(b, "\n# %s\n", title)
	for _, path := range sortedKeys(files) {
		fmt.Fprintf(b, "\n## %s\n\n```%s\n%s\n```\n", path, fenceTag(path), files[path])
	}
}

func fenceTag(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx < 0 || idx == len(path)-1 {
		return ""
	}
	return path[idx+1:]
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
