package commands

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/CerenB/miss-hit/compiler/errors"
	"github.com/CerenB/miss-hit/internal/batch"
	"github.com/CerenB/miss-hit/internal/cli/ui"
)

// NewCheckCommand creates the check command
func NewCheckCommand(root *rootOptions) *cobra.Command {
	var (
		outputFormat string
		showStats    bool
		showProgress bool
	)

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Parse files and report diagnostics",
		Long: `Parse MATLAB source files (.m) and report syntax errors and parser
diagnostics. Exits with an error if any file fails to parse.

Examples:
  mh-parse check                    # Check all .m files below the current directory
  mh-parse check src/ test/foo.m    # Check specific directories and files
  mh-parse check --format json      # Machine readable diagnostics
  mh-parse check --stats            # Per-file summary table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputFormat != "text" && outputFormat != "json" {
				return fmt.Errorf("unknown output format %q (expected text or json)", outputFormat)
			}

			s, err := root.load(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.logger.Sync() }()

			files, err := findSourceFiles(args)
			if err != nil {
				return fmt.Errorf("failed to find files: %w", err)
			}
			if len(files) == 0 {
				return fmt.Errorf("no %s files found", sourceExt)
			}

			var progress func(*batch.Result)
			var bar *ui.ProgressBar
			if showProgress {
				bar = ui.NewProgressBar(cmd.ErrOrStderr(), ui.ProgressBarOptions{
					Total:   len(files),
					Message: "parsing",
					NoColor: color.NoColor,
				})
				progress = func(*batch.Result) { bar.Add(1) }
			}

			report, err := s.driver(progress).Run(cmd.Context(), files)
			if err != nil {
				return err
			}
			if bar != nil {
				bar.FinishWithMessage(fmt.Sprintf("%d files parsed", len(files)))
			}

			if outputFormat == "json" {
				if err := writeCheckJSON(cmd, report); err != nil {
					return err
				}
			} else {
				writeCheckText(cmd, report, showStats)
			}

			if failed := report.Failed(); failed > 0 {
				return fmt.Errorf("%d of %d files failed to parse", failed, len(report.Results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&showStats, "stats", false, "Print a per-file summary table")
	cmd.Flags().BoolVar(&showProgress, "progress", false, "Show a progress bar on stderr")

	return cmd
}

func writeCheckText(cmd *cobra.Command, report *batch.Report, showStats bool) {
	out := cmd.OutOrStdout()

	for _, res := range report.Results {
		if res.Diagnostics != nil {
			for _, d := range res.Diagnostics.All() {
				fmt.Fprintln(out, d.FormatForTerminal())
			}
		}
		writeUnreported(cmd, res)
	}

	if showStats {
		table := ui.NewTable(out, []string{"File", "Status", "Errors", "Warnings", "Time"}, &ui.TableOptions{NoColor: color.NoColor})
		for _, res := range report.Results {
			status, errorCount, warningCount := "ok", 0, 0
			if !res.OK() {
				status = "failed"
			}
			if res.Diagnostics != nil {
				errorCount = res.Diagnostics.ErrorCount()
				warningCount = res.Diagnostics.WarningCount()
			}
			table.AddRow(res.Path, status, strconv.Itoa(errorCount), strconv.Itoa(warningCount), res.Duration.String())
		}
		table.Render()
	}

	errorCount, warningCount := report.Counts()
	if errorCount == 0 && warningCount == 0 && report.Failed() == 0 {
		ui.WriteSuccess(out, fmt.Sprintf("%d files parsed, no diagnostics", len(report.Results)), color.NoColor)
		return
	}
	fmt.Fprint(out, errors.FormatSummary(errorCount, warningCount))
}

func writeCheckJSON(cmd *cobra.Command, report *batch.Report) error {
	var all []errors.CompilerError
	for _, res := range report.Results {
		all = append(all, res.AllDiagnostics()...)
	}
	data, err := errors.FormatErrorsAsJSON(all)
	if err != nil {
		return fmt.Errorf("failed to encode diagnostics: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), data)
	return nil
}

// writeUnreported prints what the diagnostics listing of a file misses: the
// error that stopped it when the collector does not hold it, and a note when
// warnings were dropped at the collector limit
func writeUnreported(cmd *cobra.Command, res *batch.Result) {
	if res.Diagnostics != nil && res.Diagnostics.Dropped() > 0 {
		fmt.Fprint(cmd.ErrOrStderr(), ui.Warning(
			fmt.Sprintf("%s: diagnostic limit of %d reached, %d more warnings not shown",
				res.Path, res.Diagnostics.Limit(), res.Diagnostics.Dropped()),
			nil, color.NoColor))
	}
	if err := res.Unreported(); err != nil {
		ui.WriteError(cmd.ErrOrStderr(), ui.ErrorOptions{
			Level:   ui.ErrorLevelError,
			Problem: err.Error(),
			NoColor: color.NoColor,
		})
	}
}
