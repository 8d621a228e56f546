package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/yaklabco/rsfmt/internal/cli"
	"github.com/yaklabco/rsfmt/pkg/runner"
)

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	info := cli.BuildInfo{
		Version: "test-version",
		Commit:  "test-commit",
		Date:    "test-date",
	}

	cmd := cli.NewRootCommand(info)

	if cmd == nil {
		t.Fatal("NewRootCommand returned nil")
	}

	if cmd.Use != "rsfmt" {
		t.Errorf("expected Use to be 'rsfmt', got %q", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if cmd.Long == "" {
		t.Error("expected Long description to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test", Commit: "test", Date: "test"})

	expectedSubcommands := []string{"fmt", "check", "init", "config", "version"}

	for _, name := range expectedSubcommands {
		subCmd, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Errorf("expected subcommand %q to exist, got error: %v", name, err)
			continue
		}

		if subCmd.Name() != name {
			t.Errorf("expected subcommand name %q, got %q", name, subCmd.Name())
		}
	}
}

func TestCommandFlags(t *testing.T) {
	t.Parallel()

	shared := []string{
		"max-width",
		"tab-spaces",
		"newline-style",
		"reorder-imports",
		"jobs",
		"ignore",
		"extensions",
		"include",
		"include-vendored",
		"follow-symlinks",
		"verbose",
	}

	tests := map[string][]string{
		"fmt":   append([]string{"write-mode", "ext"}, shared...),
		"check": append([]string{"format", "compact"}, shared...),
		"init":  {"force", "full", "format", "output"},
	}

	for name, expectedFlags := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cmd := cli.NewRootCommand(cli.BuildInfo{})
			subCmd, _, err := cmd.Find([]string{name})
			if err != nil {
				t.Fatalf("%s command not found: %v", name, err)
			}

			for _, flagName := range expectedFlags {
				if subCmd.Flags().Lookup(flagName) == nil {
					t.Errorf("expected flag %q to exist on %s command", flagName, name)
				}
			}
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test", Commit: "test", Date: "test"})

	expectedFlags := []string{"debug", "config", "color"}

	for _, flagName := range expectedFlags {
		flag := cmd.PersistentFlags().Lookup(flagName)
		if flag == nil {
			t.Errorf("expected global flag %q to exist", flagName)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	info := cli.BuildInfo{
		Version: "1.2.3",
		Commit:  "abc123",
		Date:    "2024-01-01",
	}

	cmd := cli.NewRootCommand(info)
	cmd.SetArgs([]string{"version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	for _, want := range []string{"1.2.3", "abc123", "2024-01-01"} {
		if !bytes.Contains(out.Bytes(), []byte(want)) {
			t.Errorf("expected version output to contain %q, got %q", want, out.String())
		}
	}
}

func TestFmtCommandAcceptsArbitraryArgs(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test", Commit: "test", Date: "test"})
	fmtCmd, _, err := cmd.Find([]string{"fmt"})
	if err != nil {
		t.Fatalf("fmt command not found: %v", err)
	}

	err = fmtCmd.Args(fmtCmd, []string{"src/lib.rs", "src/main.rs", "tests/"})
	if err != nil {
		t.Errorf("fmt command should accept arbitrary args, got error: %v", err)
	}
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	changed := &runner.Result{Stats: runner.Stats{FilesDiscovered: 1, FilesFormatted: 1, FilesChanged: 1}}
	failed := &runner.Result{Stats: runner.Stats{FilesDiscovered: 2, FilesFormatted: 1, FilesChanged: 1, FilesErrored: 1}}
	clean := &runner.Result{Stats: runner.Stats{FilesDiscovered: 1, FilesFormatted: 1}}

	tests := []struct {
		name   string
		result *runner.Result
		check  bool
		want   int
	}{
		{name: "nil", result: nil, check: true, want: cli.ExitSuccess},
		{name: "clean check", result: clean, check: true, want: cli.ExitSuccess},
		{name: "changed check", result: changed, check: true, want: cli.ExitUnformatted},
		{name: "changed fmt", result: changed, check: false, want: cli.ExitSuccess},
		{name: "errors win", result: failed, check: true, want: cli.ExitFormatErrors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := cli.ExitCodeFromResult(tt.result, tt.check); got != tt.want {
				t.Errorf("ExitCodeFromResult() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{err: nil, want: cli.ExitSuccess},
		{err: cli.ErrUnformatted, want: cli.ExitUnformatted},
		{err: fmt.Errorf("wrapped: %w", cli.ErrFormatFailed), want: cli.ExitFormatErrors},
		{err: errors.Join(cli.ErrConfig, errors.New("bad key")), want: cli.ExitConfigError},
		{err: fmt.Errorf("%w: --write-mode", cli.ErrUsage), want: cli.ExitInvalidUsage},
		{err: errors.New("disk full"), want: cli.ExitInternalError},
	}

	for _, tt := range tests {
		if got := cli.ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestHelpOutput(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test"})
	cmd.SetArgs([]string{"fmt", "--help", "--color", "never"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help failed: %v", err)
	}

	for _, want := range []string{"Format Rust source files.", "Usage:", "rsfmt fmt [paths...]", "--write-mode string", "Global Flags:", "--debug"} {
		if !bytes.Contains(out.Bytes(), []byte(want)) {
			t.Errorf("expected help to contain %q, got:\n%s", want, out.String())
		}
	}
}
