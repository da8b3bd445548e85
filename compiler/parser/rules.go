package parser

import (
	"fmt"
	"sort"
)

// Names of the checks the parser performs while building the tree
const (
	RuleBuiltinShadow   = "builtin_shadow"
	RuleEndOfStatements = "end_of_statements"
)

var knownRules = []string{RuleBuiltinShadow, RuleEndOfStatements}

// RuleSet is the set of active parser checks
type RuleSet map[string]bool

// DefaultRules returns a RuleSet with every check enabled
func DefaultRules() RuleSet {
	rules := make(RuleSet, len(knownRules))
	for _, name := range knownRules {
		rules[name] = true
	}
	return rules
}

// UnknownRuleError reports a suppressed check the parser does not have
type UnknownRuleError struct {
	Name string
}

func (e *UnknownRuleError) Error() string {
	return fmt.Sprintf("unknown rule %q", e.Name)
}

// NewRuleSet enables every check except the suppressed ones
func NewRuleSet(suppressed []string) (RuleSet, error) {
	rules := DefaultRules()
	for _, name := range suppressed {
		if _, ok := rules[name]; !ok {
			return nil, &UnknownRuleError{Name: name}
		}
		rules[name] = false
	}
	return rules, nil
}

// Active reports whether the named check is enabled
func (r RuleSet) Active(name string) bool {
	return r[name]
}

// KnownRules returns the names of all parser checks, sorted
func KnownRules() []string {
	names := append([]string(nil), knownRules...)
	sort.Strings(names)
	return names
}
