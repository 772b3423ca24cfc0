// Package forge drives the end-to-end pipeline for one repository: validate,
// safety-gate, scan, assemble the context bundle and emit the skill documents.
package forge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"skillforge/internal/artifact"
	"skillforge/internal/bundle"
	"skillforge/internal/config"
	"skillforge/internal/forgeapi"
	"skillforge/internal/gitclone"
	"skillforge/internal/localscan"
	"skillforge/internal/repourl"
	"skillforge/internal/skill"
	"skillforge/internal/types"
)

// BundleFilename is the context document written into each skill directory.
const BundleFilename = "context_bundle.md"

// ValidationError reports a repository URL that no accepted shape matched.
type ValidationError struct {
	URL string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("forge: invalid repository url %q", e.URL)
}

// SafetyError reports that the popularity gate rejected the repository and
// no override was requested.
type SafetyError struct {
	Reason string
}

func (e *SafetyError) Error() string {
	return fmt.Sprintf("forge: safety check failed: %s", e.Reason)
}

// Forge holds the per-run collaborators. One Forge may process many
// repositories sequentially; each Process call builds its own API client so
// endpoint affinity never leaks between repositories, while the response
// cache is shared so batch entries naming the same repository do not
// re-fetch.
type Forge struct {
	cfg   *config.Config
	gen   skill.Generator
	store *artifact.Store
	cache *forgeapi.ResponseCache
}

// cloneRepo is injectable in tests.
var cloneRepo = gitclone.Clone

// New builds a Forge from the effective configuration. Artifact upload is
// wired only when an endpoint is configured; a broken artifact configuration
// is an error because the operator asked for it explicitly.
func New(cfg *config.Config) (*Forge, error) {
	cache, err := forgeapi.NewResponseCache()
	if err != nil {
		return nil, err
	}
	f := &Forge{
		cfg: cfg,
		gen: skill.Generator{
			Transform:          skill.Translator{},
			CustomTemplatePath: cfg.CustomTemplatePath,
		},
		cache: cache,
	}
	if cfg.Artifact.Enabled() {
		store, err := artifact.New(artifact.Config{
			Endpoint:  cfg.Artifact.Endpoint,
			Region:    cfg.Artifact.Region,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			UseSSL:    cfg.Artifact.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		f.store = store
	}
	return f, nil
}

// Process runs the full pipeline for one repository URL. skillName may be
// empty, in which case it is derived from the repository name. Nothing is
// written to disk before the safety gate passes.
func (f *Forge) Process(ctx context.Context, rawURL, skillName string) error {
	if !repourl.Valid(rawURL) {
		return &ValidationError{URL: rawURL}
	}
	owner, repo, err := repourl.Parse(rawURL)
	if err != nil {
		return &ValidationError{URL: rawURL}
	}
	if skillName == "" {
		skillName = repourl.RepoName(rawURL) + "-skill"
	}
	logrus.Infof("processing %s/%s as %q", owner, repo, skillName)

	client, err := forgeapi.NewClient(f.cfg.APIMirrors, f.cfg.RequestTimeout, config.Token(), f.cache)
	if err != nil {
		return err
	}

	var meta types.RepoMetadata
	if f.cfg.NoSafetyCheck {
		logrus.Warn("safety check disabled")
	} else {
		report, m := forgeapi.CheckSafety(ctx, client, owner, repo, f.cfg.MinStars)
		meta = m
		if report.Stats != "" {
			logrus.Info(report.Stats)
		}
		if !report.Safe {
			if !f.cfg.Force {
				return &SafetyError{Reason: report.Reason}
			}
			logrus.Warnf("safety check overridden: %s", report.Reason)
		}
	}

	if f.cfg.DryRun {
		logrus.Infof("dry run: would generate %s", filepath.Join(f.cfg.OutputDir, skillName))
		return nil
	}

	skillDir := filepath.Join(f.cfg.OutputDir, skillName)
	if err := scaffold(skillDir); err != nil {
		return err
	}

	res, cloned, err := f.acquire(ctx, client, rawURL, owner, repo, skillDir)
	if err != nil {
		return err
	}

	doc := bundle.Assemble(res, bundle.Limits{MaxDocBytes: f.cfg.MaxDocBytes})
	bundlePath := filepath.Join(skillDir, BundleFilename)
	if err := os.WriteFile(bundlePath, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("forge: write bundle: %w", err)
	}
	logrus.Infof("wrote %s (%d bytes)", bundlePath, len(doc))

	if err := f.writeSkillDocs(skillDir, skillName, rawURL, res, meta); err != nil {
		return err
	}
	if !cloned {
		// The src placeholder holds wrapper code on the clone path only;
		// online runs clear anything stale left from an earlier run.
		if err := clearDir(filepath.Join(skillDir, "src")); err != nil {
			logrus.Warnf("cannot clear src placeholder: %v", err)
		}
	}
	f.upload(ctx, skillName, doc)
	return nil
}

// acquire produces the scan result, preferring the online scanner and
// falling back to a shallow clone plus local scan when the online walk comes
// back empty. The second return reports whether the clone path was taken.
func (f *Forge) acquire(ctx context.Context, client *forgeapi.Client, rawURL, owner, repo, skillDir string) (*types.ScanResult, bool, error) {
	scanner := forgeapi.OnlineScanner{Client: client, Budget: f.cfg.Budget}
	res := scanner.Scan(ctx, owner, repo)
	if !res.Empty() {
		return res, false, nil
	}

	logrus.Info("online scan empty, falling back to shallow clone")
	cloneDir := filepath.Join(skillDir, "repo_src")
	err := cloneRepo(ctx, rawURL, cloneDir, gitclone.Options{
		Mirrors:    f.cfg.CloneMirrors,
		Depth:      f.cfg.CloneDepth,
		MaxRetries: f.cfg.MaxRetries,
		Timeout:    f.cfg.CloneTimeout,
		Force:      true,
	})
	if err != nil {
		return nil, true, err
	}
	defer func() {
		if rmErr := gitclone.RemoveTree(cloneDir); rmErr != nil {
			logrus.Warnf("cannot remove clone at %s: %v", cloneDir, rmErr)
		}
	}()

	res, err = localscan.Scan(cloneDir, localscan.Options{
		SkipPatterns: f.cfg.SkipPatterns,
		Budget:       f.cfg.Budget,
		MaxDocBytes:  f.cfg.MaxDocBytes,
	})
	return res, true, err
}

// clearDir removes the contents of dir, keeping dir itself. A missing dir is
// not an error.
func clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if err := gitclone.RemoveTree(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (f *Forge) writeSkillDocs(skillDir, skillName, rawURL string, res *types.ScanResult, meta types.RepoMetadata) error {
	in := skill.Input{
		SkillName:   skillName,
		RepoURL:     rawURL,
		Language:    res.Language,
		Description: meta.Description,
		EntryFile:   res.FirstEntryFile(),
	}
	if err := os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte(f.gen.SkillDoc(in)), 0o644); err != nil {
		return fmt.Errorf("forge: write SKILL.md: %w", err)
	}
	if err := os.WriteFile(filepath.Join(skillDir, ".gitignore"), []byte(skill.GitignoreDoc()), 0o644); err != nil {
		return fmt.Errorf("forge: write .gitignore: %w", err)
	}

	// The top-level README indexes the output directory; never clobber one
	// the operator already edited.
	readmePath := filepath.Join(f.cfg.OutputDir, "README.md")
	if _, err := os.Stat(readmePath); os.IsNotExist(err) {
		if err := os.WriteFile(readmePath, []byte(skill.ReadmeDoc(skillName, rawURL)), 0o644); err != nil {
			return fmt.Errorf("forge: write README.md: %w", err)
		}
	}
	return nil
}

// upload pushes the bundle to the artifact store when one is configured.
// Upload failures are logged and swallowed; the on-disk output already
// succeeded.
func (f *Forge) upload(ctx context.Context, skillName string, doc string) {
	if f.store == nil {
		return
	}
	if err := f.store.Put(ctx, skillName, BundleFilename, []byte(doc)); err != nil {
		logrus.Warnf("artifact upload failed: %v", err)
		return
	}
	logrus.Infof("uploaded %s/%s to artifact store", skillName, BundleFilename)
}

func scaffold(skillDir string) error {
	for _, sub := range []string{"", "src", "scripts"} {
		if err := os.MkdirAll(filepath.Join(skillDir, sub), 0o755); err != nil {
			return fmt.Errorf("forge: scaffold %s: %w", skillDir, err)
		}
	}
	return nil
}
