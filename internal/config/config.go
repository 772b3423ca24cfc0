package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"skillforge/internal/pathmatch"
	"skillforge/internal/types"
)

// Config carries every knob the forge pipeline reads. Zero values are never
// used directly; construct with Default and layer file/flag overrides on top.
type Config struct {
	// Acquisition
	APIMirrors   []string `yaml:"api_mirrors"`
	CloneMirrors []string `yaml:"clone_mirrors"`
	CloneDepth   int      `yaml:"clone_depth"`
	MaxRetries   int      `yaml:"max_retries"`
	// CloneTimeout bounds one git subprocess; RequestTimeout bounds one API call.
	CloneTimeout   time.Duration `yaml:"clone_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Scanning
	SkipPatterns []string         `yaml:"skip_patterns"`
	Budget       types.ScanBudget `yaml:"-"`
	MaxDocBytes  int              `yaml:"max_doc_size"`

	// Safety gate
	MinStars      int  `yaml:"min_stars"`
	NoSafetyCheck bool `yaml:"no_safety_check"`

	// Run behavior
	Verbose bool `yaml:"verbose"`
	Quiet   bool `yaml:"quiet"`
	DryRun  bool `yaml:"dry_run"`
	Force   bool `yaml:"force"`

	// Output
	OutputDir          string `yaml:"output_dir"`
	CustomTemplatePath string `yaml:"custom_template_path"`

	Artifact ArtifactConfig `yaml:"artifact"`
}

// ArtifactConfig enables optional upload of generated bundles to an
// S3-compatible store. Disabled unless an endpoint is configured.
type ArtifactConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Enabled reports whether artifact upload is configured at all.
func (a ArtifactConfig) Enabled() bool { return strings.TrimSpace(a.Endpoint) != "" }

// Default returns the stock configuration: github.com first with public
// mirror fallbacks, shallow clones, conservative budgets.
func Default() *Config {
	return &Config{
		APIMirrors: []string{
			"https://api.github.com",
			"https://gh-api.vps.sc",
			"https://api.gitmirror.com",
			"https://ghproxy.net/https://api.github.com",
			"https://gh.api.99988866.xyz",
		},
		CloneMirrors: []string{
			"https://github.com",
			"https://kkgithub.com",
			"https://gitclone.com/github.com",
		},
		CloneDepth:     1,
		MaxRetries:     3,
		CloneTimeout:   60 * time.Second,
		RequestTimeout: 15 * time.Second,
		SkipPatterns:   pathmatch.DefaultSkipPatterns(),
		Budget:         types.DefaultBudget(),
		MaxDocBytes:    20000,
		MinStars:       100,
		OutputDir:      ".trae/skills",
	}
}

// Load builds the effective configuration: .env, then defaults, then the
// optional YAML file, then environment variables for artifact credentials.
// configPath may be empty.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if configPath != "" {
		if err := cfg.mergeFile(configPath); err != nil {
			return nil, err
		}
	}
	cfg.mergeArtifactEnv()
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeArtifactEnv() {
	set := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}
	set(&c.Artifact.Endpoint, "ARTIFACT_S3_ENDPOINT")
	set(&c.Artifact.Region, "ARTIFACT_S3_REGION")
	set(&c.Artifact.AccessKey, "ARTIFACT_S3_ACCESS_KEY", "MINIO_ROOT_USER")
	set(&c.Artifact.SecretKey, "ARTIFACT_S3_SECRET_KEY", "MINIO_ROOT_PASSWORD")
	set(&c.Artifact.Bucket, "ARTIFACT_S3_BUCKET")
	if c.Artifact.Enabled() && c.Artifact.Region == "" {
		c.Artifact.Region = "us-east-1"
	}
}

// Token returns the optional bearer token for authenticated forge calls.
func Token() string {
	return strings.TrimSpace(os.Getenv("GITHUB_TOKEN"))
}
