package gitclone

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func stubGit(t *testing.T, fn func(ctx context.Context, args ...string) error) {
	t.Helper()
	orig := runGit
	runGit = fn
	t.Cleanup(func() { runGit = orig })
}

func stubSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	orig := sleep
	var delays []time.Duration
	sleep = func(d time.Duration) { delays = append(delays, d) }
	t.Cleanup(func() { sleep = orig })
	return &delays
}

func TestCandidateURLsMirrorsThenOriginal(t *testing.T) {
	mirrors := []string{"https://github.com", "https://kkgithub.com", "https://gitclone.com/github.com"}
	got := CandidateURLs("https://github.com/psf/requests", mirrors)
	want := []string{
		"https://github.com/psf/requests",
		"https://kkgithub.com/psf/requests",
		"https://gitclone.com/github.com/psf/requests",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestCandidateURLsAppendsOriginalWhenMissing(t *testing.T) {
	got := CandidateURLs("https://github.com/psf/requests", []string{"https://kkgithub.com"})
	want := []string{
		"https://kkgithub.com/psf/requests",
		"https://github.com/psf/requests",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestCloneFirstCandidateSucceeds(t *testing.T) {
	var calls [][]string
	stubGit(t, func(ctx context.Context, args ...string) error {
		calls = append(calls, args)
		return nil
	})

	target := filepath.Join(t.TempDir(), "dst")
	err := Clone(context.Background(), "https://github.com/psf/requests", target, Options{
		Mirrors:    []string{"https://github.com"},
		Depth:      1,
		MaxRetries: 3,
	})
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("git invoked %d times, want 1", len(calls))
	}
	want := []string{"clone", "--depth", "1", "https://github.com/psf/requests", target}
	if !slices.Equal(calls[0], want) {
		t.Fatalf("git args = %v, want %v", calls[0], want)
	}
}

func TestCloneExhaustsAllRoundsAndCandidates(t *testing.T) {
	var attempts int
	stubGit(t, func(ctx context.Context, args ...string) error {
		attempts++
		return fmt.Errorf("boom")
	})
	delays := stubSleep(t)

	base := 2 * time.Second
	err := Clone(context.Background(), "https://github.com/psf/requests", filepath.Join(t.TempDir(), "dst"), Options{
		Mirrors:    []string{"https://kkgithub.com", "https://gitclone.com/github.com"},
		MaxRetries: 3,
		BaseDelay:  base,
	})

	var cloneErr *CloneError
	if !errors.As(err, &cloneErr) {
		t.Fatalf("got %v, want *CloneError", err)
	}
	// 2 mirrors plus the original URL, 3 rounds.
	if cloneErr.Attempts != 9 || attempts != 9 {
		t.Fatalf("attempts = %d/%d, want 9", cloneErr.Attempts, attempts)
	}
	// Linear backoff between rounds only, never after the last.
	want := []time.Duration{1 * base, 2 * base}
	if !slices.Equal(*delays, want) {
		t.Fatalf("delays = %v, want %v", *delays, want)
	}
}

func TestCloneFallsBackToLaterCandidate(t *testing.T) {
	var urls []string
	stubGit(t, func(ctx context.Context, args ...string) error {
		urls = append(urls, args[3])
		if len(urls) < 3 {
			return fmt.Errorf("unreachable")
		}
		return nil
	})

	err := Clone(context.Background(), "https://github.com/psf/requests", filepath.Join(t.TempDir(), "dst"), Options{
		Mirrors:    []string{"https://kkgithub.com", "https://gitclone.com/github.com"},
		MaxRetries: 2,
	})
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	if urls[len(urls)-1] != "https://github.com/psf/requests" {
		t.Fatalf("success came from %q, want the original URL last", urls[len(urls)-1])
	}
}

func TestCloneRefusesExistingTarget(t *testing.T) {
	stubGit(t, func(ctx context.Context, args ...string) error {
		t.Fatal("git should not run")
		return nil
	})

	target := t.TempDir()
	err := Clone(context.Background(), "https://github.com/psf/requests", target, Options{})
	if err == nil {
		t.Fatal("Clone into an existing directory succeeded")
	}
}

func TestCloneForceClearsExistingTarget(t *testing.T) {
	target := t.TempDir()
	stale := filepath.Join(target, "stale.txt")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	stubGit(t, func(ctx context.Context, args ...string) error {
		return nil
	})

	err := Clone(context.Background(), "https://github.com/psf/requests", target, Options{Force: true})
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("stale content survived a forced clone")
	}
}

func TestRemoveTreeClearsReadOnly(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "repo", ".git", "objects")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	obj := filepath.Join(dir, "pack")
	if err := os.WriteFile(obj, []byte("x"), 0o400); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := RemoveTree(filepath.Join(root, "repo")); err != nil {
		t.Fatalf("RemoveTree: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "repo")); !os.IsNotExist(err) {
		t.Fatal("tree still present")
	}
}
