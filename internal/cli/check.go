package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rsfmt/internal/logging"
	"github.com/yaklabco/rsfmt/pkg/changes"
	"github.com/yaklabco/rsfmt/pkg/reporter"
	"github.com/yaklabco/rsfmt/pkg/runner"
)

type checkFlags struct {
	style           styleFlags
	format          string
	extensions      []string
	include         []string
	includeVendored bool
	followSymlinks  bool
	compact         bool
	verbose         bool
	version         string
}

func newCheckCommand(info BuildInfo) *cobra.Command {
	flags := &checkFlags{version: info.Version}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report files that are not formatted",
		Long: `Check whether Rust source files are formatted without changing them.

Exits with status 1 when any file would be reformatted and 2 when a file
could not be parsed. Use --format to produce output for CI tooling.

Examples:
  rsfmt check                          # Check the current directory
  rsfmt check --format diff            # Show the changes formatting would make
  rsfmt check --format json            # Machine-readable mismatches
  rsfmt check --format sarif > out.sarif`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, flags)
		},
	}

	addStyleFlags(cmd, &flags.style)
	addDiscoveryFlags(cmd, &flags.extensions, &flags.include, &flags.includeVendored, &flags.followSymlinks)
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, sarif, diff, summary")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "also list formatted files")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, flags *checkFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
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
		Mode:            changes.WriteMode{Kind: changes.Return},
		Config:          cfg,
	}

	logger.Debug("starting check run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New().Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("check run failed: %w", err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       colorMode,
		ShowSummary: true,
		Verbose:     flags.verbose,
		Compact:     flags.compact,
		WorkingDir:  workDir,
		Version:     flags.version,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}
	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	return errorForResult(result, true)
}
