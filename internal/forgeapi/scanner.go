package forgeapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"skillforge/internal/classify"
	"skillforge/internal/textutil"
	"skillforge/internal/types"
)

// Directories worth descending into below the root level.
var interestingDirs = map[string]struct{}{
	"src": {}, "lib": {}, "app": {}, "bin": {},
	"include": {}, "pkg": {}, "internal": {}, "cmd": {},
}

// OnlineScanner walks a repository breadth-first over the forge contents
// API, classifying and downloading entries under independent per-category
// budgets. No clone, no filesystem traversal; symlink cycles cannot occur
// because only forge listings are followed.
type OnlineScanner struct {
	Client *Client
	Budget types.ScanBudget
}

type contentsEntry struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`
}

type queueItem struct {
	path  string
	depth int
}

// Scan runs the bounded BFS for owner/repo. Per-path fetch errors are
// skipped; the result is usable whenever the tree ended up non-empty.
func (s *OnlineScanner) Scan(ctx context.Context, owner, repo string) *types.ScanResult {
	res := types.NewScanResult()
	interesting := scanInterestingDirs(repo)

	queue := []queueItem{{path: "", depth: 0}}
	visited := map[string]struct{}{}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		if _, seen := visited[item.path]; seen || item.depth > s.Budget.MaxDepth {
			continue
		}
		visited[item.path] = struct{}{}

		listing, err := s.fetchContents(ctx, owner, repo, item.path)
		if err != nil {
			logrus.Debugf("cannot list %q: %v", item.path, err)
			continue
		}

		for _, entry := range listing {
			relPath := strings.TrimLeft(item.path+"/"+entry.Name, "/")
			if s.Budget.MaxTreeEntries <= 0 || len(res.TreeEntries) < s.Budget.MaxTreeEntries {
				res.TreeEntries = append(res.TreeEntries, fmt.Sprintf("[%s] %s", entry.Type, relPath))
			}

			if entry.Type == "dir" {
				if item.depth < s.Budget.MaxDepth {
					if _, ok := interesting[strings.ToLower(entry.Name)]; ok || item.depth == 0 {
						queue = append(queue, queueItem{path: relPath, depth: item.depth + 1})
					}
				}
				continue
			}
			if entry.Type != "file" {
				continue
			}

			if classify.IsKeyDoc(entry.Name) && len(res.KeyDocs) < s.Budget.MaxKeyDocs {
				if content, err := s.Client.Download(ctx, entry.DownloadURL); err == nil {
					logrus.Infof("fetched document %s", relPath)
					res.KeyDocs[relPath] = content
				} else {
					logrus.Debugf("skip document %s: %v", relPath, err)
				}
			}

			if lang, ok := classify.ManifestLanguage(entry.Name); ok {
				if res.Language == "" {
					res.Language = lang
					logrus.Infof("detected primary language: %s (%s)", lang, entry.Name)
				}
				if _, have := res.Dependencies[entry.Name]; !have {
					if content, err := s.Client.Download(ctx, entry.DownloadURL); err == nil {
						res.Dependencies[entry.Name] = content
					} else {
						logrus.Debugf("skip manifest %s: %v", relPath, err)
					}
				}
			}

			if classify.HasExcludedSegment(relPath) {
				continue
			}
			switch {
			case classify.IsEntryPoint(entry.Name):
				if len(res.EntryFiles) < s.Budget.MaxEntryFiles {
					if content, err := s.Client.Download(ctx, entry.DownloadURL); err == nil {
						logrus.Infof("fetched entry file %s", relPath)
						res.EntryFiles[relPath] = textutil.FirstLines(content, 100)
					} else {
						logrus.Debugf("skip entry file %s: %v", relPath, err)
					}
				}
			case classify.IsSourceFile(entry.Name) && item.depth > 0:
				if len(res.CoreCode) < s.Budget.MaxCoreCode {
					if content, err := s.Client.Download(ctx, entry.DownloadURL); err == nil {
						logrus.Infof("fetched core code %s", relPath)
						res.CoreCode[relPath] = textutil.FirstLines(content, 100)
					} else {
						logrus.Debugf("skip core code %s: %v", relPath, err)
					}
				}
			}
		}
	}
	return res
}

func (s *OnlineScanner) fetchContents(ctx context.Context, owner, repo, path string) ([]contentsEntry, error) {
	apiPath := fmt.Sprintf("repos/%s/%s/contents/%s", owner, repo, path)
	var listing []contentsEntry
	if err := s.Client.GetJSON(ctx, strings.TrimRight(apiPath, "/"), &listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func scanInterestingDirs(repo string) map[string]struct{} {
	out := make(map[string]struct{}, len(interestingDirs)+2)
	for k := range interestingDirs {
		out[k] = struct{}{}
	}
	lower := strings.ToLower(repo)
	out[lower] = struct{}{}
	out[strings.ReplaceAll(lower, "-", "_")] = struct{}{}
	return out
}

