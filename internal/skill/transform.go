package skill

import "regexp"

// Transform reshapes free-form description text before it lands in the
// generated template. Implementations are best-effort enrichment; the
// template never depends on their fidelity.
type Transform interface {
	Apply(text string) string
}

// Identity returns text unchanged.
type Identity struct{}

func (Identity) Apply(text string) string { return text }

var cjkPattern = regexp.MustCompile(`[\x{4e00}-\x{9fa5}]`)

// rewriteRules is a small regex table that localizes common description
// shapes. Applied in order; patterns are case-insensitive.
var rewriteRules = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)^A (.*) for (.*)$`), "一个用于 $2 的 $1"},
	{regexp.MustCompile(`(?i)(.*) implementation of (.*)`), "$2 的 $1 实现"},
	{regexp.MustCompile(`(?i)^Simple (.*)`), "简单的 $1"},
	{regexp.MustCompile(`(?i)^Official (.*)`), "官方 $1"},
	{regexp.MustCompile(`(?i)^Modern (.*)`), "现代化的 $1"},
	{regexp.MustCompile(`(?i)^Fast (.*)`), "快速的 $1"},
	{regexp.MustCompile(`(?i)^Flexible (.*)`), "灵活的 $1"},
	{regexp.MustCompile(`(?i)^Lightweight (.*)`), "轻量级的 $1"},
	{regexp.MustCompile(`(?i)^Open source (.*)`), "开源的 $1"},
	{regexp.MustCompile(`(?i)^Powerful (.*)`), "功能强大的 $1"},
	{regexp.MustCompile(`(?i)Framework`), "框架"},
	{regexp.MustCompile(`(?i)Library`), "库"},
	{regexp.MustCompile(`(?i)Tool`), "工具"},
	{regexp.MustCompile(`(?i)Plugin`), "插件"},
	{regexp.MustCompile(`(?i)Client`), "客户端"},
	{regexp.MustCompile(`(?i)Server`), "服务端"},
	{regexp.MustCompile(`(?i)Downloader`), "下载器"},
}

// Translator is the stock best-effort localizer: text that already carries
// CJK characters passes through untouched, everything else runs the
// rewrite-rule table.
type Translator struct{}

func (Translator) Apply(text string) string {
	if cjkPattern.MatchString(text) {
		return text
	}
	out := text
	for _, rule := range rewriteRules {
		out = rule.re.ReplaceAllString(out, rule.repl)
	}
	return out
}
