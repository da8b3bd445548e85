package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/CerenB/miss-hit/compiler/parser"
	"github.com/CerenB/miss-hit/internal/batch"
	"github.com/CerenB/miss-hit/internal/cli/ui"
)

// fileTree is the serialised tree of one file
type fileTree struct {
	File string           `json:"file" yaml:"file"`
	Tree *parser.TreeNode `json:"tree" yaml:"tree"`
}

// NewTreeCommand creates the tree command
func NewTreeCommand(root *rootOptions) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "tree <files...>",
		Short: "Dump the syntax tree of files",
		Long: `Parse MATLAB source files and print their syntax trees.

The text format is an indented outline with the relation of every node to
its parent. The json and yaml formats print a list of {file, tree} objects.

Examples:
  mh-parse tree foo.m
  mh-parse tree --format yaml src/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch outputFormat {
			case "text", "json", "yaml":
			default:
				return fmt.Errorf("unknown output format %q (expected text, json or yaml)", outputFormat)
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

			report, err := s.driver(nil).Run(cmd.Context(), files)
			if err != nil {
				return err
			}
			if err := reportFailures(cmd, report); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch outputFormat {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(fileTrees(report))
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(fileTrees(report)); err != nil {
					return err
				}
				return enc.Close()
			}
			return dumpTrees(out, report)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text, json or yaml")

	return cmd
}

func fileTrees(report *batch.Report) []fileTree {
	trees := make([]fileTree, 0, len(report.Results))
	for _, res := range report.Results {
		trees = append(trees, fileTree{File: res.Path, Tree: parser.BuildTree(res.Unit)})
	}
	return trees
}

func dumpTrees(w io.Writer, report *batch.Report) error {
	for i, res := range report.Results {
		if len(report.Results) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			ui.Header(w, res.Path, color.NoColor)
		}
		if err := parser.Dump(w, res.Unit); err != nil {
			return err
		}
	}
	return nil
}

// reportFailures prints the diagnostics of files that did not parse and
// returns an error if there are any
func reportFailures(cmd *cobra.Command, report *batch.Report) error {
	if report.Failed() == 0 {
		return nil
	}
	for _, res := range report.Results {
		if res.OK() {
			continue
		}
		if res.Diagnostics != nil && res.Diagnostics.HasErrors() {
			fmt.Fprint(cmd.ErrOrStderr(), res.Diagnostics.FormatForTerminal())
		}
		writeUnreported(cmd, res)
	}
	return fmt.Errorf("%d of %d files failed to parse", report.Failed(), len(report.Results))
}
