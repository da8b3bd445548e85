package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/CerenB/miss-hit/compiler/parser"
	"github.com/CerenB/miss-hit/internal/cli/ui"
)

var ruleDescriptions = map[string]string{
	parser.RuleBuiltinShadow:   "assignments that hide a builtin function",
	parser.RuleEndOfStatements: "statements without an explicit terminator",
}

// NewRulesCommand creates the rules command
func NewRulesCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the parser checks",
		Long:  "List the checks the parser runs while building the tree, and whether the configuration suppresses them.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.load(cmd)
			if err != nil {
				return err
			}
			rules, err := s.config.Rules()
			if err != nil {
				return err
			}

			table := ui.NewTable(cmd.OutOrStdout(), []string{"Rule", "Status", "Reports"}, &ui.TableOptions{NoColor: color.NoColor})
			for _, name := range parser.KnownRules() {
				status := "active"
				if !rules.Active(name) {
					status = "suppressed"
				}
				table.AddRow(name, status, ruleDescriptions[name])
			}
			table.Render()
			return nil
		},
	}
}
