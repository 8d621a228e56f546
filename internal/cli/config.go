package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rsfmt/internal/configloader"
	"github.com/yaklabco/rsfmt/internal/logging"
	"github.com/yaklabco/rsfmt/pkg/config"
)

// styleFlags holds the formatting options that can be given on the command
// line. They take precedence over every configuration file.
type styleFlags struct {
	maxWidth       int
	tabSpaces      int
	newlineStyle   string
	reorderImports bool
	jobs           int
	ignore         []string
}

func addStyleFlags(cmd *cobra.Command, flags *styleFlags) {
	cmd.Flags().IntVar(&flags.maxWidth, "max-width", 0, "maximum line width")
	cmd.Flags().IntVar(&flags.tabSpaces, "tab-spaces", 0, "spaces per indentation level")
	cmd.Flags().StringVar(&flags.newlineStyle, "newline-style", "", "line endings: unix, windows, native")
	cmd.Flags().BoolVar(&flags.reorderImports, "reorder-imports", false, "sort the names in list imports")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
}

// overrides builds the CLI configuration layer from the flags that were set.
func (f *styleFlags) overrides(cmd *cobra.Command) *config.Config {
	cfg := configloader.Overrides()
	if cmd.Flags().Changed("max-width") {
		cfg.MaxWidth = f.maxWidth
	}
	if cmd.Flags().Changed("tab-spaces") {
		cfg.TabSpaces = f.tabSpaces
	}
	if cmd.Flags().Changed("newline-style") {
		cfg.NewlineStyle = config.NewlineStyle(f.newlineStyle)
	}
	cfg.ReorderImportedNames = f.reorderImports
	cfg.Jobs = f.jobs
	if cmd.Flags().Changed("ignore") {
		cfg.Ignore = f.ignore
	}
	return cfg
}

// loadConfig resolves the layered configuration for a command run from workDir.
func loadConfig(ctx context.Context, cmd *cobra.Command, workDir string, cli *config.Config) (*configloader.LoadResult, error) {
	logger := logging.FromContext(ctx)

	// Get the explicit config path from the root command's persistent flag.
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cli,
	})
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration resolved",
		logging.FieldMaxWidth, cfg.MaxWidth,
		logging.FieldTabSpaces, cfg.TabSpaces,
		logging.FieldNewline, cfg.NewlineStyle,
		logging.FieldJobs, cfg.Jobs,
	)
	return loadResult, nil
}

// commandContext returns the command's context with the default logger attached.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithLogger(ctx, logging.Default())
}

type configFlags struct {
	format string
	env    bool
}

func newConfigCommand() *cobra.Command {
	flags := &configFlags{}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long: `Print the configuration rsfmt would use in the current directory after
layering system, user and project files, the --config file and RSFMT_*
environment variables.

Examples:
  rsfmt config                  Print the effective configuration as TOML
  rsfmt config --format yaml    Print it as YAML
  rsfmt config --env            List the supported environment variables`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfig(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", config.TemplateTOML, "output format: toml or yaml")
	cmd.Flags().BoolVar(&flags.env, "env", false, "list supported environment variables")

	return cmd
}

func runConfig(cmd *cobra.Command, flags *configFlags) error {
	out := cmd.OutOrStdout()

	if flags.env {
		vars := configloader.ListEnvVars()
		names := make([]string, 0, len(vars))
		for name := range vars {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "%-30s %s\n", name, vars[name])
		}
		return nil
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := loadConfig(commandContext(cmd), cmd, workDir, nil)
	if err != nil {
		return err
	}

	var data []byte
	switch flags.format {
	case config.TemplateTOML:
		data, err = loadResult.Config.ToTOML()
	case config.TemplateYAML:
		data, err = loadResult.Config.ToYAML()
	default:
		return fmt.Errorf("%w: unknown config format %q; must be toml or yaml", ErrUsage, flags.format)
	}
	if err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}

	for _, path := range loadResult.LoadedFrom {
		fmt.Fprintf(out, "# loaded from %s\n", path)
	}
	_, err = out.Write(data)
	return err
}
