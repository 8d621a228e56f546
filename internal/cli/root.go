// Package cli provides the Cobra command structure for rsfmt.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rsfmt/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root rsfmt command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "rsfmt",
		Short: "A fast formatter for Rust source code",
		Long: `rsfmt rewrites Rust source files into a canonical layout.

It reformats imports, items, statements and expressions it understands and
copies everything else verbatim, so comments and unusual constructs survive
unchanged. Output can replace files in place (with a .bk backup), go to
sibling files, be printed, or be compared against the source in CI.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newFmtCommand(info))
	rootCmd.AddCommand(newCheckCommand(info))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
