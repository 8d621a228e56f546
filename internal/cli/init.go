package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/rsfmt/internal/configloader"
	"github.com/yaklabco/rsfmt/internal/logging"
	"github.com/yaklabco/rsfmt/pkg/config"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new rsfmt configuration file",
		Long: `Create a new rsfmt.toml configuration file in the current directory.
The minimal template lists every option commented out with its default
value; the full template sets them all.

Examples:
  rsfmt init                      Create a minimal rsfmt.toml
  rsfmt init --full               Create a config with every option set
  rsfmt init --format yaml        Create .rsfmt.yml instead
  rsfmt init --output ci/rsfmt.toml  Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate template with every option set")
	cmd.Flags().StringVar(&flags.format, "format", config.TemplateTOML, "Output format: toml or yaml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: rsfmt.toml or .rsfmt.yml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()

	if flags.format != config.TemplateTOML && flags.format != config.TemplateYAML {
		return fmt.Errorf("%w: invalid format %q: must be toml or yaml", ErrUsage, flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		if flags.format == config.TemplateYAML {
			outputPath = ".rsfmt.yml"
		} else {
			outputPath = "rsfmt.toml"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	force := flags.force
	if _, err := os.Stat(absPath); err == nil && !force && isInteractive() {
		force, err = confirm(cmd.InOrStdin(), cmd.ErrOrStderr(),
			fmt.Sprintf("%s already exists. Overwrite? [y/N] ", outputPath))
		if err != nil {
			return err
		}
		if !force {
			logger.Info("keeping existing configuration file", logging.FieldPath, outputPath)
			return nil
		}
	}
	if force {
		logger.Debug("overwriting existing file", logging.FieldPath, outputPath)
	}

	opts := config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	}
	if err := configloader.WriteTemplate(absPath, opts, force); err != nil {
		return err
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'rsfmt config' to see the effective configuration")

	return nil
}

// isInteractive returns true if stdin is a terminal.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// confirm asks a yes/no question. Anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read response: %w", err)
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
