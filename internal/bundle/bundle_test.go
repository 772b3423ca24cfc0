package bundle

import (
	"strings"
	"testing"

	"skillforge/internal/types"
)

func sampleResult() *types.ScanResult {
	res := types.NewScanResult()
	res.TreeEntries = []string{"[file] README.md", "[dir] src", "[file] src/main.py"}
	res.KeyDocs["README.md"] = "# Hello"
	res.Dependencies["requirements.txt"] = "requests"
	res.CoreCode["src/engine.py"] = "class Engine: pass"
	res.EntryFiles["src/main.py"] = "print('hi')"
	res.Language = "Python"
	return res
}

func TestAssembleSectionOrder(t *testing.T) {
	doc := Assemble(sampleResult(), Limits{})
	sections := []string{
		"# Project Structure",
		"# Primary Language",
		"# Key Documents",
		"# Dependency Manifests",
		"# Core Code Preview (first 100 lines)",
		"# Entry File Preview (first 100 lines)",
	}
	last := -1
	for _, s := range sections {
		idx := strings.Index(doc, s)
		if idx < 0 {
			t.Fatalf("missing section %q", s)
		}
		if idx < last {
			t.Fatalf("section %q out of order", s)
		}
		last = idx
	}
}

func TestAssembleDeterministic(t *testing.T) {
	res := sampleResult()
	res.CoreCode["src/api.py"] = "def api(): pass"
	res.CoreCode["src/z.py"] = "z = 1"

	first := Assemble(res, Limits{})
	for i := 0; i < 5; i++ {
		if got := Assemble(res, Limits{}); got != first {
			t.Fatal("assembly is not deterministic")
		}
	}
	if strings.Index(first, "src/api.py") > strings.Index(first, "src/z.py") {
		t.Fatal("core code paths not sorted")
	}
}

func TestAssembleContent(t *testing.T) {
	doc := Assemble(sampleResult(), Limits{})
	for _, want := range []string{
		"Python",
		"## README.md\n\n# Hello",
		"## requirements.txt\n\n```\nrequests\n```",
		"```py\nclass Engine: pass\n```",
		"```py\nprint('hi')\n```",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("document missing %q:\n%s", want, doc)
		}
	}
}

func TestAssembleUnknownLanguage(t *testing.T) {
	res := types.NewScanResult()
	res.TreeEntries = []string{"[file] data.bin"}
	doc := Assemble(res, Limits{})
	if !strings.Contains(doc, "# Primary Language\n\nUnknown") {
		t.Fatal("empty language not rendered as Unknown")
	}
}

func TestAssembleTruncatesDocs(t *testing.T) {
	res := types.NewScanResult()
	res.KeyDocs["README.md"] = strings.Repeat("a", 300)
	doc := Assemble(res, Limits{MaxDocBytes: 50})
	if !strings.Contains(doc, strings.Repeat("a", 50)+DocTruncationMarker) {
		t.Fatal("key document not truncated at the cap")
	}
	if strings.Contains(doc, strings.Repeat("a", 51)) {
		t.Fatal("document exceeded the cap")
	}
}
