package commands

import (
	stderrors "errors"
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CerenB/miss-hit/compiler/parser"
	"github.com/CerenB/miss-hit/internal/batch"
	"github.com/CerenB/miss-hit/internal/cli/config"
	"github.com/CerenB/miss-hit/internal/cli/ui"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	configPath string
	verbose    bool
	noColor    bool
	octave     bool
}

// settings is what a subcommand needs to parse files
type settings struct {
	config *config.Config
	logger *zap.Logger
	opts   []parser.Option
}

// driver returns a batch driver configured from the settings
func (s *settings) driver(progress func(*batch.Result)) *batch.Driver {
	return batch.New(batch.Options{
		Workers:  s.config.WorkerCount(),
		Octave:   s.config.Octave,
		Parser:   s.opts,
		Progress: progress,
		Logger:   s.logger,
	})
}

// load reads the configuration and builds the logger
func (o *rootOptions) load(cmd *cobra.Command) (*settings, error) {
	if o.noColor {
		color.NoColor = true
	}

	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		var unknown *parser.UnknownRuleError
		if stderrors.As(err, &unknown) {
			fmt.Fprint(cmd.ErrOrStderr(), ui.UnknownRuleError(unknown.Name,
				ui.FindSimilar(unknown.Name, parser.KnownRules(), nil), o.noColor))
		} else {
			fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err.Error(), nil, o.noColor))
		}
		return nil, err
	}
	if o.octave {
		cfg.Octave = true
	}

	opts, err := cfg.ParserOptions()
	if err != nil {
		return nil, err
	}

	logger := zap.NewNop()
	if o.verbose {
		devLogger, err := zap.NewDevelopment()
		if err == nil {
			logger = devLogger
		}
	}
	logger.Debug("configuration loaded",
		zap.String("file", cfg.File),
		zap.Strings("suppress_rule", cfg.SuppressRule),
		zap.Int("workers", cfg.WorkerCount()),
		zap.Bool("octave", cfg.Octave))

	return &settings{config: cfg, logger: logger, opts: opts}, nil
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "mh-parse",
		Short: "MATLAB and Octave parser",
		Long: color.CyanString(`mh-parse - MATLAB and Octave parser

Parses MATLAB (and optionally Octave) source files into a syntax tree,
reports syntax errors and parser diagnostics, dumps the tree and renders
it back to source.

Configuration is read from miss_hit.yml in the working directory and can
be overridden with MH_* environment variables.`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a configuration file (default: ./miss_hit.yml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log parser activity to stderr")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.BoolVar(&opts.octave, "octave", false, "Parse the Octave dialect")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewCheckCommand(opts))
	rootCmd.AddCommand(NewTreeCommand(opts))
	rootCmd.AddCommand(NewRenderCommand(opts))
	rootCmd.AddCommand(NewRulesCommand(opts))
	rootCmd.AddCommand(NewCompletionCommand())
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the mh-parse version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			// Set GoVersion to actual runtime if not set at build time
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			table := ui.NewKeyValueTable(cmd.OutOrStdout(), color.NoColor)
			table.AddRow("mh-parse version", Version)
			table.AddRow("Git commit", GitCommit)
			table.AddRow("Build date", BuildDate)
			table.AddRow("Go version", goVer)
			table.Render()
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
