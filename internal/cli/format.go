package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rsfmt/internal/logging"
	"github.com/yaklabco/rsfmt/pkg/changes"
	"github.com/yaklabco/rsfmt/pkg/reporter"
	"github.com/yaklabco/rsfmt/pkg/runner"
)

// writeModeDiff prints a diff instead of finalizing files.
const writeModeDiff = "diff"

type fmtFlags struct {
	style           styleFlags
	writeMode       string
	ext             string
	extensions      []string
	include         []string
	includeVendored bool
	followSymlinks  bool
	verbose         bool
	version         string
}

func newFmtCommand(info BuildInfo) *cobra.Command {
	flags := &fmtFlags{version: info.Version}

	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Format Rust source files",
		Long:  fmtLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, args, flags)
		},
	}

	addStyleFlags(cmd, &flags.style)
	addDiscoveryFlags(cmd, &flags.extensions, &flags.include, &flags.includeVendored, &flags.followSymlinks)
	cmd.Flags().StringVar(&flags.writeMode, "write-mode", "overwrite",
		"where output goes: overwrite, new-file, display, diff")
	cmd.Flags().StringVar(&flags.ext, "ext", changes.DefaultExtension, "extension appended by --write-mode new-file")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "list every file and print a summary")

	return cmd
}

const fmtLongDescription = `Format Rust source files.

By default, formats every .rs file under the current directory in place and
keeps the previous content in a .bk file next to each changed file. Hidden
and vendored directories are skipped.

Examples:
  rsfmt fmt                            # Format the current directory
  rsfmt fmt src/lib.rs                 # Format one file
  rsfmt fmt --write-mode display       # Print formatted files to stdout
  rsfmt fmt --write-mode new-file      # Write src/lib.rs.out beside src/lib.rs
  rsfmt fmt --write-mode diff          # Show what would change
  rsfmt fmt --max-width 80 --tab-spaces 2`

func addDiscoveryFlags(cmd *cobra.Command, extensions, include *[]string, vendored, symlinks *bool) {
	cmd.Flags().StringSliceVar(extensions, "extensions", runner.DefaultExtensions(), "file extensions to format")
	cmd.Flags().StringSliceVar(include, "include", nil, "only format files matching these glob patterns")
	cmd.Flags().BoolVar(vendored, "include-vendored", false, "also format vendored and generated files")
	cmd.Flags().BoolVar(symlinks, "follow-symlinks", false, "follow symbolic links to directories")
}

func runFmt(cmd *cobra.Command, args []string, flags *fmtFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	diffOnly := flags.writeMode == writeModeDiff
	mode := changes.WriteMode{Kind: changes.Return}
	if !diffOnly {
		var err error
		mode, err = changes.ParseWriteMode(flags.writeMode, flags.ext)
		if err != nil || mode.Kind == changes.Return {
			return fmt.Errorf("%w: --write-mode %q; must be overwrite, new-file, display or diff", ErrUsage, flags.writeMode)
		}
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := loadConfig(ctx, cmd, workDir, flags.style.overrides(cmd))
	if err != nil {
		return err
	}
	cfg := loadResult.Config

	runOpts := runner.Options{
		Paths:           args,
		WorkingDir:      workDir,
		Extensions:      flags.extensions,
		IncludeGlobs:    flags.include,
		ExcludeGlobs:    cfg.Ignore,
		FollowSymlinks:  flags.followSymlinks,
		IncludeVendored: flags.includeVendored,
		Jobs:            cfg.Jobs,
		Mode:            mode,
		Config:          cfg,
	}

	logger.Debug("starting format run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldMode, mode,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, runErr := runner.New(runner.WithStdout(cmd.OutOrStdout())).Run(ctx, runOpts)
	if result == nil {
		return fmt.Errorf("format run failed: %w", runErr)
	}

	// Display mode owns stdout; the file report goes to stderr.
	var out io.Writer = cmd.OutOrStdout()
	format := reporter.FormatText
	switch {
	case diffOnly:
		format = reporter.FormatDiff
	case mode.Kind == changes.Display:
		out = cmd.ErrOrStderr()
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      out,
		Format:      format,
		Color:       colorMode,
		ShowSummary: flags.verbose || diffOnly,
		Verbose:     flags.verbose,
		WorkingDir:  workDir,
		Version:     flags.version,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}
	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if runErr != nil {
		return fmt.Errorf("format run failed: %w", runErr)
	}
	return errorForResult(result, false)
}
