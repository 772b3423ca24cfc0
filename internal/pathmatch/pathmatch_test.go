package pathmatch

import "testing"

func TestMatchForms(t *testing.T) {
	m := New([]string{"node_modules", "*.pyc", ".venv", "", "  dist  "})

	cases := []struct {
		name string
		want bool
	}{
		{"node_modules", true},
		{"node_modules2", false},
		{"module.pyc", true},
		{"module.py", false},
		{".venv", true},
		{".venv-311", true},
		{"venv", false},
		{"dist", true},
		{"", false},
	}
	for _, c := range cases {
		if got := m.Match(c.name); got != c.want {
			t.Fatalf("Match(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestNilMatcherNeverMatches(t *testing.T) {
	var m *Matcher
	if m.Match("anything") {
		t.Fatal("nil matcher matched")
	}
}

func TestDefaultSkipPatternsCoverCommonNoise(t *testing.T) {
	m := New(DefaultSkipPatterns())
	for _, name := range []string{".git", "node_modules", "__pycache__", "cached.pyc", "dist", ".idea"} {
		if !m.Match(name) {
			t.Fatalf("default patterns did not match %q", name)
		}
	}
	for _, name := range []string{"src", "README.md", "main.py"} {
		if m.Match(name) {
			t.Fatalf("default patterns matched %q", name)
		}
	}
}
