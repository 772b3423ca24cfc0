package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"

	"skillforge/internal/config"
	"skillforge/internal/forge"
	"skillforge/internal/logging"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

func main() {
	var (
		batchFile     = flag.String("batch", "", "process repositories listed in a batch file, one 'URL [name]' per line")
		configPath    = flag.String("config", "", "path to a YAML config file")
		outputDir     = flag.String("output", "", "output directory for generated skills")
		template      = flag.String("template", "", "path to a custom SKILL.md template")
		depth         = flag.Int("depth", 0, "git clone depth")
		maxRetries    = flag.Int("max-retries", 0, "retry rounds across all clone mirrors")
		timeout       = flag.Duration("timeout", 0, "timeout for one clone attempt (e.g. 90s)")
		minStars      = flag.Int("min-stars", 0, "minimum star count for the safety check")
		dryRun        = flag.Bool("dry-run", false, "validate and report without writing anything")
		force         = flag.Bool("force", false, "proceed past a failed safety check")
		noSafetyCheck = flag.Bool("no-safety-check", false, "skip the safety check entirely")
		verbose       = flag.Bool("verbose", false, "debug-level logging")
		quiet         = flag.Bool("quiet", false, "warnings and errors only")
	)
	flag.Usage = usage
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail(err)
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *template != "" {
		cfg.CustomTemplatePath = *template
	}
	if *depth > 0 {
		cfg.CloneDepth = *depth
	}
	if *maxRetries > 0 {
		cfg.MaxRetries = *maxRetries
	}
	if *timeout > 0 {
		cfg.CloneTimeout = *timeout
	}
	if *minStars > 0 {
		cfg.MinStars = *minStars
	}
	cfg.DryRun = cfg.DryRun || *dryRun
	cfg.Force = cfg.Force || *force
	cfg.NoSafetyCheck = cfg.NoSafetyCheck || *noSafetyCheck
	cfg.Verbose = cfg.Verbose || *verbose
	cfg.Quiet = cfg.Quiet || *quiet

	logging.Setup(cfg.Verbose, cfg.Quiet)

	if *batchFile == "" && flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f, err := forge.New(cfg)
	if err != nil {
		fail(err)
	}

	if !cfg.Quiet {
		fmt.Println(headerStyle.Render("skillforge"))
	}
	start := time.Now()

	if *batchFile != "" {
		res, err := f.ProcessBatch(ctx, *batchFile)
		if err != nil {
			fail(err)
		}
		msg := fmt.Sprintf("batch done in %s: %d succeeded, %d failed", time.Since(start).Round(time.Millisecond), res.Succeeded, res.Failed)
		if res.Failed > 0 {
			fmt.Println(errorStyle.Render(msg))
			os.Exit(1)
		}
		fmt.Println(successStyle.Render(msg))
		return
	}

	url := flag.Arg(0)
	name := flag.Arg(1)
	if err := f.Process(ctx, url, name); err != nil {
		fail(err)
	}
	if !cfg.Quiet {
		fmt.Println(successStyle.Render(fmt.Sprintf("done in %s", time.Since(start).Round(time.Millisecond))))
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  skillforge [flags] <repository-url> [skill-name]
  skillforge [flags] --batch <file>

Flags:
`)
	flag.PrintDefaults()
}
