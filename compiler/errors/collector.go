package errors

import (
	"fmt"
	"sort"
	"strings"
)

// MaxErrors is the maximum number of warnings a Collector keeps by default.
// Errors are always kept.
const MaxErrors = 100

// MessageHandler receives diagnostics while a file is parsed. Error reports
// a fatal problem; the caller stops processing the current file after it.
// Warning reports a soft problem unless fatal is set.
type MessageHandler interface {
	Error(loc SourceLocation, message string)
	Warning(loc SourceLocation, message string, fatal bool)
}

// Reporter is an optional extension of MessageHandler for handlers that
// want the full diagnostic, including its code and any fix suggestion.
type Reporter interface {
	Report(err CompilerError)
}

// Collector gathers the diagnostics of a single file. It implements both
// MessageHandler and Reporter.
type Collector struct {
	source   string
	errors   []CompilerError
	warnings []CompilerError
	maxCount int
	dropped  int
}

// NewCollector creates a Collector. When source is not empty, diagnostics
// are enriched with the surrounding lines of code.
func NewCollector(source string) *Collector {
	return &Collector{
		source:   source,
		errors:   make([]CompilerError, 0),
		warnings: make([]CompilerError, 0),
		maxCount: MaxErrors,
	}
}

// NewCollectorWithMax creates a Collector with a custom limit
func NewCollectorWithMax(source string, maxCount int) *Collector {
	c := NewCollector(source)
	c.maxCount = maxCount
	return c
}

// Error implements MessageHandler
func (c *Collector) Error(loc SourceLocation, message string) {
	c.Report(NewCompilerError("parser", ErrParserDiagnostic, message, loc, Fatal))
}

// Warning implements MessageHandler
func (c *Collector) Warning(loc SourceLocation, message string, fatal bool) {
	severity := Warning
	if fatal {
		severity = Error
	}
	c.Report(NewCompilerError("parser", ErrParserDiagnostic, message, loc, severity))
}

// Report implements Reporter
func (c *Collector) Report(err CompilerError) {
	if !err.IsError() && c.TotalCount() >= c.maxCount {
		c.dropped++
		return
	}

	if c.source != "" && len(err.Context.SourceLines) == 0 {
		err = EnrichError(err, c.source)
	}

	if err.IsError() {
		c.errors = append(c.errors, err)
	} else {
		c.warnings = append(c.warnings, err)
	}
}

// HasErrors returns true if there are any errors (not just warnings)
func (c *Collector) HasErrors() bool {
	return len(c.errors) > 0
}

// HasFatals returns true if there are any fatal errors
func (c *Collector) HasFatals() bool {
	for _, err := range c.errors {
		if err.IsFatal() {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of errors
func (c *Collector) ErrorCount() int {
	return len(c.errors)
}

// WarningCount returns the number of warnings
func (c *Collector) WarningCount() int {
	return len(c.warnings)
}

// TotalCount returns the total number of errors and warnings
func (c *Collector) TotalCount() int {
	return len(c.errors) + len(c.warnings)
}

// Dropped returns the number of warnings discarded after the limit was reached
func (c *Collector) Dropped() int {
	return c.dropped
}

// Limit returns the maximum number of diagnostics kept before warnings are dropped
func (c *Collector) Limit() int {
	return c.maxCount
}

// Errors returns all errors
func (c *Collector) Errors() []CompilerError {
	return c.errors
}

// Warnings returns all warnings
func (c *Collector) Warnings() []CompilerError {
	return c.warnings
}

// All returns all diagnostics ordered by location
func (c *Collector) All() []CompilerError {
	all := make([]CompilerError, 0, c.TotalCount())
	all = append(all, c.errors...)
	all = append(all, c.warnings...)
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i].Location, all[j].Location
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return all
}

// ByCode returns diagnostics with a specific error code
func (c *Collector) ByCode(code string) []CompilerError {
	var result []CompilerError
	for _, err := range c.All() {
		if err.Code == code {
			result = append(result, err)
		}
	}
	return result
}

// FormatForTerminal formats all diagnostics for terminal output
func (c *Collector) FormatForTerminal() string {
	var sb strings.Builder

	for i, err := range c.All() {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(err.FormatForTerminal())
	}

	if c.TotalCount() > 0 {
		sb.WriteString(FormatSummary(len(c.errors), len(c.warnings)))
	}

	if c.dropped > 0 {
		sb.WriteString(noteColor.Sprintf("\nNote: diagnostic limit reached (%d), %d more not shown\n",
			c.maxCount, c.dropped))
	}

	return sb.String()
}

// FormatAsJSON formats all diagnostics as JSON
func (c *Collector) FormatAsJSON() (string, error) {
	return FormatErrorsAsJSON(c.All())
}

// Summary returns a human-readable summary
func (c *Collector) Summary() string {
	if c.TotalCount() == 0 {
		return "No errors or warnings"
	}

	var parts []string
	if len(c.errors) > 0 {
		parts = append(parts, fmt.Sprintf("%d error(s)", len(c.errors)))
	}
	if len(c.warnings) > 0 {
		parts = append(parts, fmt.Sprintf("%d warning(s)", len(c.warnings)))
	}

	return "Found " + strings.Join(parts, " and ")
}
