// Package main provides the safecat command. It opens files through the
// secure file chain, optionally pinned to a policy manifest's extension
// allow-list and recorded expectations, and streams their contents to
// stdout.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/isseis/go-secure-file/internal/cmdcommon"
	"github.com/isseis/go-secure-file/internal/policy"
	"github.com/isseis/go-secure-file/securefile"
)

const copyChunkSize = 64 * 1024

var (
	errNoFilesProvided = errors.New("at least one file path must be provided")
)

type catConfig struct {
	files      []string
	policyPath string
	verbose    bool
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
	cmdcommon.Bootstrap(stderr, level, false)

	var pol *policy.Policy
	if cfg.policyPath != "" {
		pol, err = policy.NewLoader().Load(cfg.policyPath)
		if err != nil {
			slog.Error("failed to load policy", "path", cfg.policyPath, "error", err)
			return cmdcommon.ExitError
		}
	}

	for _, name := range cfg.files {
		if err := catFile(stdout, name, pol); err != nil {
			slog.Error("failed to read file", "path", name, "error", err,
				"code", securefile.CodeOf(err).String())
			return cmdcommon.ExitError
		}
	}
	return cmdcommon.ExitOK
}

func parseArgs(args []string, stderr io.Writer) (*catConfig, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("safecat", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfg := &catConfig{}
	fs.StringVar(&cfg.policyPath, "policy", "", "TOML policy manifest with allowed extensions and expectations")
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

// openOptions maps the policy onto open options for one file.
func openOptions(name string, pol *policy.Policy) ([]securefile.OpenOption, error) {
	if pol == nil {
		return nil, nil
	}

	opts := []securefile.OpenOption{
		securefile.WithAllowedExtensions(pol.Rules()...),
	}
	if expect, ok := pol.ExpectationFor(name); ok {
		opts = append(opts, securefile.WithExpectedAttributes(expect.Attributes()))
		id, err := expect.Identity()
		if err != nil {
			return nil, err
		}
		if id.Valid() {
			opts = append(opts, securefile.WithExpectedIdentity(id))
		}
	}
	return opts, nil
}

func catFile(stdout io.Writer, name string, pol *policy.Policy) error {
	opts, err := openOptions(name, pol)
	if err != nil {
		return err
	}

	f := securefile.Open(name, "rb", opts...)
	defer f.Free()
	if !f.Valid() {
		return f.Err()
	}

	if pol != nil && pol.Limits.MaxFileSize > 0 && f.Size() > pol.Limits.MaxFileSize {
		return fmt.Errorf("%w: %s (%d bytes)", securefile.ErrFileTooLarge, f.Path(), f.Size())
	}

	buf := make([]byte, copyChunkSize)
	remaining := f.Size()
	for remaining > 0 {
		want := int64(len(buf))
		if remaining < want {
			want = remaining
		}
		n, err := f.ReadElements(buf, 1, int(want))
		if n > 0 {
			if _, werr := stdout.Write(buf[:n]); werr != nil {
				return fmt.Errorf("failed to write output: %w", werr)
			}
			remaining -= int64(n)
		}
		switch f.ErrorCode() {
		case securefile.CodeSuccess:
			continue
		case securefile.CodeEndOfFile:
			// File shrank since open; emit what exists.
			return nil
		default:
			return err
		}
	}
	return nil
}
