package repourl

import (
	"fmt"
	"regexp"
	"strings"
)

// Accepted repository URL shapes: HTTPS with or without .git, and the two
// scp-style SSH forms. Anything else fails validation.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https://github\.com/[\w.-]+/[\w.-]+/?$`),
	regexp.MustCompile(`^https://github\.com/[\w.-]+/[\w.-]+\.git/?$`),
	regexp.MustCompile(`^git@github\.com:[\w.-]+/[\w.-]+\.git/?$`),
	regexp.MustCompile(`^git@github\.com:[\w.-]+/[\w.-]+/?$`),
}

var nameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9-_]`)

// Valid reports whether raw is a supported GitHub repository URL.
func Valid(raw string) bool {
	for _, re := range urlPatterns {
		if re.MatchString(raw) {
			return true
		}
	}
	return false
}

// Parse extracts owner and repo from a repository URL in any accepted form.
func Parse(raw string) (owner, repo string, err error) {
	s := strings.TrimRight(strings.TrimSpace(raw), "/")
	s = strings.TrimSuffix(s, ".git")

	if strings.HasPrefix(s, "git@") {
		_, after, ok := strings.Cut(s, ":")
		if !ok {
			return "", "", fmt.Errorf("repourl: cannot parse ssh url %q", raw)
		}
		s = after
	}
	parts := strings.Split(s, "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("repourl: cannot extract owner/repo from %q", raw)
	}
	owner = strings.TrimSpace(parts[len(parts)-2])
	repo = strings.TrimSpace(parts[len(parts)-1])
	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("repourl: cannot extract owner/repo from %q", raw)
	}
	return owner, repo, nil
}

// RepoName returns the repository name with anything outside
// [a-zA-Z0-9-_] stripped, suitable for use as a directory name.
func RepoName(raw string) string {
	_, repo, err := Parse(raw)
	if err != nil {
		s := strings.TrimSuffix(strings.TrimRight(raw, "/"), ".git")
		if i := strings.LastIndex(s, "/"); i >= 0 {
			s = s[i+1:]
		}
		repo = s
	}
	name := nameSanitizer.ReplaceAllString(repo, "")
	if name == "" {
		return "unknown-skill"
	}
	return name
}
