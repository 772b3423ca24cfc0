package gitclone

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"skillforge/internal/repourl"
)

// CloneError reports that every mirror and retry round failed.
type CloneError struct {
	URL      string
	Attempts int
}

func (e *CloneError) Error() string {
	return fmt.Sprintf("gitclone: %q failed after %d attempts", e.URL, e.Attempts)
}

// Options controls the fallback clone. BaseDelay scales the linear backoff
// between retry rounds (attempt * BaseDelay); Timeout bounds one subprocess.
type Options struct {
	Mirrors    []string
	Depth      int
	MaxRetries int
	Timeout    time.Duration
	BaseDelay  time.Duration
	Force      bool
}

// runGit and sleep are injectable in tests.
var runGit = func(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

var sleep = time.Sleep

// CandidateURLs builds the clone URL list: one per mirror with the owner/repo
// path preserved, then the original URL as the last resort.
func CandidateURLs(rawURL string, mirrors []string) []string {
	var urls []string
	owner, repo, err := repourl.Parse(rawURL)
	for _, mirror := range mirrors {
		base := strings.TrimRight(mirror, "/")
		if err == nil {
			urls = append(urls, base+"/"+owner+"/"+repo)
		} else {
			host := strings.TrimPrefix(strings.TrimPrefix(base, "https://"), "http://")
			urls = append(urls, strings.Replace(rawURL, "github.com", host, 1))
		}
	}
	for _, u := range urls {
		if u == rawURL {
			return urls
		}
	}
	return append(urls, rawURL)
}

// Clone performs the shallow-clone fallback into targetDir. The directory
// must not pre-exist unless Force is set, in which case it is removed first.
// Individual attempt failures are logged only; the returned error is a
// *CloneError once everything has been exhausted.
func Clone(ctx context.Context, rawURL, targetDir string, opts Options) error {
	if opts.Depth <= 0 {
		opts.Depth = 1
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 2 * time.Second
	}

	if _, err := os.Stat(targetDir); err == nil {
		if !opts.Force {
			return fmt.Errorf("gitclone: target directory already exists: %s", targetDir)
		}
		if err := RemoveTree(targetDir); err != nil {
			return fmt.Errorf("gitclone: clear target: %w", err)
		}
	}

	candidates := CandidateURLs(rawURL, opts.Mirrors)
	attempts := 0
	for round := 1; round <= opts.MaxRetries; round++ {
		for _, cloneURL := range candidates {
			attempts++
			logrus.Infof("clone attempt (%d/%d): %s", round, opts.MaxRetries, cloneURL)

			attemptCtx := ctx
			cancel := context.CancelFunc(func() {})
			if opts.Timeout > 0 {
				attemptCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
			}
			err := runGit(attemptCtx, "clone", "--depth", strconv.Itoa(opts.Depth), cloneURL, targetDir)
			cancel()
			if err == nil {
				return nil
			}
			logrus.Debugf("clone failed: %v", err)
			// A killed clone can leave a partial checkout behind.
			_ = RemoveTree(targetDir)
		}
		if round < opts.MaxRetries {
			delay := time.Duration(round) * opts.BaseDelay
			logrus.Infof("waiting %s before retrying", delay)
			sleep(delay)
		}
	}
	return &CloneError{URL: rawURL, Attempts: attempts}
}

// RemoveTree deletes a directory tree, clearing read-only permission bits
// when the first pass fails (git object files are written read-only).
func RemoveTree(path string) error {
	if err := os.RemoveAll(path); err == nil {
		return nil
	}
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		_ = os.Chmod(p, 0o777)
		return nil
	})
	return os.RemoveAll(path)
}
