// Package main provides the fileattr command. It records attribute and
// identity expectations for files into a TOML manifest, or prints them,
// so a later policy-checked open can detect the file being replaced.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/isseis/go-secure-file/internal/cmdcommon"
	"github.com/isseis/go-secure-file/internal/policy"
	"github.com/isseis/go-secure-file/securefile"
)

var (
	errNoFilesProvided = errors.New("at least one file path must be provided")
)

type recordConfig struct {
	files    []string
	manifest string
	force    bool
	verbose  bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, fs, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cmdcommon.ExitOK
		}
		fs.SetOutput(stderr)
		fs.Usage()
		cmdcommon.Errorf(stderr, "%v", err)
		return cmdcommon.ExitUsage
	}

	level := slog.LevelWarn
	if cfg.verbose {
		level = slog.LevelDebug
	}
	runID := cmdcommon.Bootstrap(stderr, level, false)
	slog.Debug("fileattr starting", "run_id", runID, "files", len(cfg.files))

	manifest, err := recordFiles(cfg.files)
	if err != nil {
		slog.Error("recording failed", "error", err)
		return cmdcommon.ExitError
	}

	if cfg.manifest == "" {
		return printManifest(stdout, stderr, manifest)
	}
	return saveManifest(stderr, cfg, manifest)
}

func parseArgs(args []string, stderr io.Writer) (*recordConfig, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("fileattr", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfg := &recordConfig{}
	fs.StringVar(&cfg.manifest, "manifest", "", "write expectations to this TOML manifest instead of stdout")
	fs.BoolVar(&cfg.force, "force", false, "replace an existing manifest")
	fs.BoolVar(&cfg.verbose, "verbose", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	cfg.files = fs.Args()
	if len(cfg.files) == 0 {
		return nil, fs, errNoFilesProvided
	}
	return cfg, fs, nil
}

// recordFiles opens each file through the full validation chain and
// collects its attribute/identity expectation.
func recordFiles(files []string) (*policy.Policy, error) {
	manifest := &policy.Policy{}
	for _, name := range files {
		f := securefile.Open(name, "rb")
		if !f.Valid() {
			err := f.Err()
			f.Free()
			return nil, fmt.Errorf("failed to open %s: %w", name, err)
		}

		expect := policy.NewExpectation(f.Path(), f.Attributes(), f.Identity())
		manifest.Expectations = append(manifest.Expectations, expect)
		slog.Debug("recorded expectation",
			"path", f.Path(),
			"device", expect.Device,
			"inode", expect.Inode)
		f.Free()
	}
	return manifest, nil
}

func printManifest(stdout, stderr io.Writer, manifest *policy.Policy) int {
	content, err := toml.Marshal(manifest)
	if err != nil {
		cmdcommon.Errorf(stderr, "%v", err)
		return cmdcommon.ExitError
	}
	_, _ = stdout.Write(content)
	return cmdcommon.ExitOK
}

func saveManifest(stderr io.Writer, cfg *recordConfig, manifest *policy.Policy) int {
	if cfg.force {
		if err := os.Remove(cfg.manifest); err != nil && !os.IsNotExist(err) {
			cmdcommon.Errorf(stderr, "failed to remove existing manifest: %v", err)
			return cmdcommon.ExitError
		}
	}

	loader := policy.NewLoader()
	if err := loader.Save(cfg.manifest, manifest); err != nil {
		slog.Error("failed to save manifest", "path", cfg.manifest, "error", err)
		return cmdcommon.ExitError
	}
	slog.Info("manifest written", "path", cfg.manifest, "entries", len(manifest.Expectations))
	return cmdcommon.ExitOK
}
