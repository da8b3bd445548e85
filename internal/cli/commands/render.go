package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/CerenB/miss-hit/internal/cli/ui"
	"github.com/CerenB/miss-hit/internal/format"
)

// NewRenderCommand creates the render command
func NewRenderCommand(root *rootOptions) *cobra.Command {
	var (
		showDiff    bool
		unified     bool
		renderCheck bool
		renderWrite bool
	)

	cmd := &cobra.Command{
		Use:   "render <files...>",
		Short: "Render parsed files back to source",
		Long: `Parse MATLAB source files and print them rendered from the syntax tree.

Rendering is canonical: binary and unary operations are fully
parenthesised, comments are dropped and blocks are re-indented. The
indentation and statement terminators come from the 'format' section of
miss_hit.yml.

Examples:
  mh-parse render foo.m             # Print the rendered source
  mh-parse render --diff foo.m      # Show what rendering changes
  mh-parse render --check src/      # Exit with error if rendering changes a file
  mh-parse render --write foo.m     # Replace the file with its rendering`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.load(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.logger.Sync() }()

			files, err := findSourceFiles(args)
			if err != nil {
				return fmt.Errorf("failed to find files: %w", err)
			}

			report, err := s.driver(nil).Run(cmd.Context(), files)
			if err != nil {
				return err
			}
			if err := reportFailures(cmd, report); err != nil {
				return err
			}

			formatter := format.New(&s.config.Format)
			titleColor := color.New(color.FgCyan, color.Bold)
			successColor := color.New(color.FgGreen)
			errorColor := color.New(color.FgRed, color.Bold)
			out := cmd.OutOrStdout()

			changed := 0
			for _, res := range report.Results {
				rendered := formatter.FormatUnit(res.Unit)
				diff := format.Diff(res.Source, rendered)
				if diff.Changed {
					changed++
				}

				switch {
				case renderCheck:
					if diff.Changed {
						errorColor.Fprintf(cmd.ErrOrStderr(), "✗ %s changes when rendered\n", res.Path)
					}
				case renderWrite:
					if !diff.Changed {
						continue
					}
					if err := os.WriteFile(res.Path, []byte(rendered), 0644); err != nil {
						return fmt.Errorf("failed to write %s: %w", res.Path, err)
					}
					successColor.Fprintf(out, "✓ %s rendered\n", res.Path)
				case unified:
					fmt.Fprint(out, diff.UnifiedDiff(res.Path))
				case showDiff:
					titleColor.Fprintf(out, "=== %s ===\n", res.Path)
					fmt.Fprintln(out, diff.String())
					fmt.Fprintf(out, "%s\n", diff.Stats())
				default:
					if len(report.Results) > 1 {
						titleColor.Fprintf(out, "%% %s\n", res.Path)
					}
					fmt.Fprint(out, rendered)
				}
			}

			if renderWrite && changed == 0 {
				fmt.Fprint(out, ui.Info(fmt.Sprintf("%d files already rendered, nothing written", len(report.Results)), color.NoColor))
			}
			if renderCheck && changed > 0 {
				return fmt.Errorf("%d files change when rendered", changed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showDiff, "diff", "d", false, "Show a colored diff against the original source")
	cmd.Flags().BoolVarP(&unified, "unified", "u", false, "Show a unified diff against the original source")
	cmd.Flags().BoolVarP(&renderCheck, "check", "c", false, "Exit with error if rendering changes any file")
	cmd.Flags().BoolVarP(&renderWrite, "write", "w", false, "Write the rendered source back to the files")
	cmd.MarkFlagsMutuallyExclusive("diff", "unified", "check", "write")

	return cmd
}
