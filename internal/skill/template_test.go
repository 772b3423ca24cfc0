package skill

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestSkillDocDefaultTemplate(t *testing.T) {
	g := Generator{}
	doc := g.SkillDoc(Input{
		SkillName:   "requests-skill",
		RepoURL:     "https://github.com/psf/requests",
		Language:    "Python",
		Description: "A simple HTTP library",
		EntryFile:   "src/main.py",
	})

	for _, want := range []string{
		"name: requests-skill",
		"description: A simple HTTP library",
		"# requests-skill",
		"https://github.com/psf/requests",
		"pip install -r requirements.txt",
		"python3 src/main.py --help",
		"context_bundle.md",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("document missing %q:\n%s", want, doc)
		}
	}
}

func TestSkillDocEmptyDescriptionFallback(t *testing.T) {
	g := Generator{}
	doc := g.SkillDoc(Input{SkillName: "x-skill", Language: "Go"})
	if !strings.Contains(doc, "An effective open-source tool") {
		t.Fatal("empty description did not fall back")
	}
}

func TestSkillDocCustomTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tmpl.md")
	tmpl := "NAME={{skill_name}} URL={{repo_url}} LANG={{language}} DESC={{description}}"
	if err := os.WriteFile(path, []byte(tmpl), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	g := Generator{CustomTemplatePath: path}
	doc := g.SkillDoc(Input{
		SkillName:   "x-skill",
		RepoURL:     "https://github.com/o/x",
		Language:    "Rust",
		Description: "desc",
	})
	want := "NAME=x-skill URL=https://github.com/o/x LANG=Rust DESC=desc"
	if doc != want {
		t.Fatalf("doc = %q, want %q", doc, want)
	}
}

func TestSkillDocUnreadableCustomTemplateFallsBack(t *testing.T) {
	g := Generator{CustomTemplatePath: filepath.Join(t.TempDir(), "missing.md")}
	doc := g.SkillDoc(Input{SkillName: "x-skill"})
	if !strings.Contains(doc, "# x-skill") {
		t.Fatal("missing template did not fall back to the default")
	}
}

func TestUsageGuidesPerLanguage(t *testing.T) {
	cases := []struct {
		language    string
		wantInstall string
	}{
		{"Python", "pip install -r requirements.txt"},
		{"Node.js", "npm install"},
		{"TypeScript", "npm install"},
		{"Go", "go mod download"},
		{"Rust", "cargo build"},
		{"COBOL", "# see context_bundle.md for install instructions"},
	}
	for _, c := range cases {
		install, run := usageGuides(c.language, "main")
		if install != c.wantInstall {
			t.Fatalf("usageGuides(%q) install = %q, want %q", c.language, install, c.wantInstall)
		}
		if run == "" {
			t.Fatalf("usageGuides(%q) returned empty run line", c.language)
		}
	}
}

func TestTags(t *testing.T) {
	got := Tags("ytdl-skill", "Python", "A video and audio download tool")
	want := []string{"ytdl", "Python", "downloader", "video", "audio", "tool"}
	if !slices.Equal(got, want) {
		t.Fatalf("Tags = %v, want %v", got, want)
	}
}

func TestTagsDeduplicates(t *testing.T) {
	got := Tags("web-skill", "", "web web web")
	want := []string{"web"}
	if !slices.Equal(got, want) {
		t.Fatalf("Tags = %v, want %v", got, want)
	}
}

func TestTranslatorPassesThroughCJK(t *testing.T) {
	in := "一个快速的下载工具"
	if got := (Translator{}).Apply(in); got != in {
		t.Fatalf("CJK input rewritten: %q", got)
	}
}

func TestTranslatorRewritesCommonShapes(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"A library for HTTP", "一个用于 HTTP 的 库"},
		{"Simple web framework", "简单的 web 框架"},
		{"Fast video downloader", "快速的 video 下载器"},
	}
	for _, c := range cases {
		if got := (Translator{}).Apply(c.in); got != c.want {
			t.Fatalf("Apply(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIdentityTransform(t *testing.T) {
	if got := (Identity{}).Apply("unchanged"); got != "unchanged" {
		t.Fatalf("Identity changed input: %q", got)
	}
}

func TestGitignoreAndReadmeDocs(t *testing.T) {
	gi := GitignoreDoc()
	for _, want := range []string{"__pycache__/", "node_modules/", ".DS_Store"} {
		if !strings.Contains(gi, want) {
			t.Fatalf(".gitignore missing %q", want)
		}
	}
	rd := ReadmeDoc("x-skill", "https://github.com/o/x")
	if !strings.Contains(rd, "x-skill") || !strings.Contains(rd, "https://github.com/o/x") {
		t.Fatalf("README missing fields:\n%s", rd)
	}
}
