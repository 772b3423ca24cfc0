package textutil

import (
	"strings"
	"testing"
)

func TestFirstLines(t *testing.T) {
	in := "a\nb\nc\nd"
	if got := FirstLines(in, 2); got != "a\nb" {
		t.Fatalf("FirstLines = %q", got)
	}
	if got := FirstLines(in, 10); got != in {
		t.Fatalf("short input changed: %q", got)
	}
	if got := FirstLines("a\nb\n", 10); got != "a\nb" {
		t.Fatalf("trailing newline kept: %q", got)
	}
}

func TestTruncateBytes(t *testing.T) {
	s := strings.Repeat("x", 100)
	got := TruncateBytes(s, 10, "...")
	if got != strings.Repeat("x", 10)+"..." {
		t.Fatalf("TruncateBytes = %q", got)
	}
	if got := TruncateBytes(s, 0, "..."); got != s {
		t.Fatalf("max=0 should disable truncation")
	}
	if got := TruncateBytes("short", 100, "..."); got != "short" {
		t.Fatalf("under-cap input changed: %q", got)
	}
}
