package skill

import (
	"fmt"
	"os"
	"strings"
)

// Input carries everything the generated documents are derived from. The
// description arrives unsanitized from the forge and is only shaped by the
// configured Transform.
type Input struct {
	SkillName   string
	RepoURL     string
	Language    string
	Description string
	EntryFile   string
}

// Generator renders SKILL.md and the auxiliary files. Text enrichment is
// pluggable via Transform so template output never depends on the fidelity
// of any particular heuristic.
type Generator struct {
	Transform          Transform
	CustomTemplatePath string
}

// SkillDoc renders the skill template. A custom template file, when
// configured and readable, takes precedence; it may use the placeholders
// {{skill_name}}, {{repo_url}}, {{language}} and {{description}}.
func (g Generator) SkillDoc(in Input) string {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		desc = "An effective open-source tool"
	}
	if g.Transform != nil {
		desc = g.Transform.Apply(desc)
	}
	lang := in.Language
	if lang == "" {
		lang = "Unknown"
	}

	if g.CustomTemplatePath != "" {
		if raw, err := os.ReadFile(g.CustomTemplatePath); err == nil {
			repl := strings.NewReplacer(
				"{{skill_name}}", in.SkillName,
				"{{repo_url}}", in.RepoURL,
				"{{language}}", lang,
				"{{description}}", desc,
			)
			return repl.Replace(string(raw))
		}
	}

	install, run := usageGuides(lang, in.EntryFile)
	tags := Tags(in.SkillName, in.Language, desc)

	var b strings.Builder
	fmt.Fprintf(&b, "---\nname: %s\ndescription: %s\ntags: [%s]\n---\n\n", in.SkillName, desc, strings.Join(tags, ", "))
	fmt.Fprintf(&b, "# %s\n\n", in.SkillName)
	fmt.Fprintf(&b, "## Role\n\nYou are an expert agent for %s, built on %s.\nYour goal: %s.\n\n", in.SkillName, in.RepoURL, desc)
	b.WriteString("## When to use\n\n")
	fmt.Fprintf(&b, "- The user asks for anything covered by: %s.\n", desc)
	b.WriteString("- Batch or scripted automation through wrappers under `scripts/`.\n")
	b.WriteString("- Integration work that calls this project's API, library or CLI.\n\n")
	fmt.Fprintf(&b, "## Overview\n\nA mature %s project.\n\n", lang)
	b.WriteString("## Usage\n\n### Install\n\n```bash\n" + install + "\n```\n\n")
	b.WriteString("### Run\n\n```bash\n" + run + "\n```\n\n")
	b.WriteString("### Notes\n\nConsult `context_bundle.md` for project structure, key documents and entry points before diving in.\n")
	return b.String()
}

func usageGuides(language, entryFile string) (install, run string) {
	entry := entryFile
	if entry == "" {
		entry = "src/main.py"
	}
	switch {
	case containsFold(language, "python"):
		return "pip install -r requirements.txt", "python3 " + entry + " --help"
	case containsFold(language, "node"), containsFold(language, "javascript"), containsFold(language, "typescript"):
		return "npm install", "node " + entry + " --help"
	case containsFold(language, "go"):
		return "go mod download", "go run " + entry + " --help"
	case containsFold(language, "rust"):
		return "cargo build", "cargo run -- --help"
	default:
		return "# see context_bundle.md for install instructions", "./" + entry + " --help"
	}
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), sub)
}

// tagKeywords maps description keywords to additional tags.
var tagKeywords = []struct {
	keyword string
	tags    []string
}{
	{"download", []string{"downloader"}},
	{"video", []string{"video"}},
	{"audio", []string{"audio"}},
	{"music", []string{"music"}},
	{"web", []string{"web"}},
	{"framework", []string{"framework"}},
	{"api", []string{"api"}},
	{"cli", []string{"cli"}},
	{"tool", []string{"tool"}},
	{"gui", []string{"gui"}},
	{"library", []string{"library"}},
	{"client", []string{"client"}},
	{"server", []string{"server"}},
	{"docker", []string{"docker"}},
	{"cloud", []string{"cloud"}},
}

// Tags derives a tag list from the skill name, language and description.
// Order is stable: name, language, then keyword hits in table order.
func Tags(skillName, language, description string) []string {
	tags := []string{strings.TrimSuffix(skillName, "-skill")}
	if language != "" {
		tags = append(tags, language)
	}
	lower := strings.ToLower(description)
	for _, kw := range tagKeywords {
		if !strings.Contains(lower, kw.keyword) {
			continue
		}
		for _, t := range kw.tags {
			if !contains(tags, t) {
				tags = append(tags, t)
			}
		}
	}
	return tags
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// GitignoreDoc is the stock ignore file written next to each skill.
func GitignoreDoc() string {
	return `# Generated skill .gitignore

# Python
__pycache__/
*.py[cod]
*.egg-info/
build/
dist/
.venv/

# Node.js
node_modules/
*.log

# IDE
.idea/
.vscode/
*.swp
*~

# OS
.DS_Store
Thumbs.db
`
}

// ReadmeDoc renders the top-level skill index document.
func ReadmeDoc(skillName, repoURL string) string {
	return fmt.Sprintf(`# Skills

This directory contains the %s skill generated by skillforge.

## Skills

- **%s**: %s
`, skillName, skillName, repoURL)
}
