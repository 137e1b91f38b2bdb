package main

import (
	"bytes"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isseis/go-secure-file/internal/cmdcommon"
	"github.com/isseis/go-secure-file/internal/policy"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    *recordConfig
		wantErr error
	}{
		{
			name: "files only",
			args: []string{"a.bin", "b.bin"},
			want: &recordConfig{files: []string{"a.bin", "b.bin"}},
		},
		{
			name: "manifest and force",
			args: []string{"-manifest", "expect.toml", "-force", "a.bin"},
			want: &recordConfig{
				files:    []string{"a.bin"},
				manifest: "expect.toml",
				force:    true,
			},
		},
		{
			name: "verbose",
			args: []string{"-verbose", "a.bin"},
			want: &recordConfig{files: []string{"a.bin"}, verbose: true},
		},
		{
			name:    "no files",
			args:    []string{"-manifest", "expect.toml"},
			wantErr: errNoFilesProvided,
		},
		{
			name:    "help",
			args:    []string{"-h"},
			wantErr: flag.ErrHelp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			cfg, _, err := parseArgs(tt.args, &stderr)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestParseArgsUnknownFlag(t *testing.T) {
	var stderr bytes.Buffer
	_, _, err := parseArgs([]string{"-bogus"}, &stderr)
	assert.Error(t, err)
}

func TestRunUsageError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, &stdout, &stderr)
	assert.Equal(t, cmdcommon.ExitUsage, code)
	assert.Contains(t, stderr.String(), errNoFilesProvided.Error())
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-h"}, &stdout, &stderr)
	assert.Equal(t, cmdcommon.ExitOK, code)
}

func TestPrintManifest(t *testing.T) {
	manifest := &policy.Policy{
		Expectations: []policy.Expectation{
			{Path: "/data/file.bin", Platform: "unix", Device: 1, Inode: 2},
		},
	}

	var stdout, stderr bytes.Buffer
	code := printManifest(&stdout, &stderr, manifest)
	assert.Equal(t, cmdcommon.ExitOK, code)
	assert.Contains(t, stdout.String(), "/data/file.bin")
	assert.Contains(t, stdout.String(), "inode = 2")
}
