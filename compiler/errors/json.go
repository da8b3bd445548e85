package errors

import (
	"encoding/json"
)

// JSONOutput represents the JSON structure for diagnostic output
type JSONOutput struct {
	File     string          `json:"file,omitempty"`
	Status   string          `json:"status"`
	Errors   []CompilerError `json:"errors"`
	Warnings []CompilerError `json:"warnings"`
	Summary  Summary         `json:"summary"`
}

// Summary contains error and warning counts
type Summary struct {
	ErrorCount   int `json:"error_count"`
	WarningCount int `json:"warning_count"`
	TotalCount   int `json:"total_count"`
}

// FormatAsJSON formats a CompilerError as JSON
func (e CompilerError) FormatAsJSON() (string, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewJSONOutput splits diagnostics into errors and warnings and computes
// the overall status
func NewJSONOutput(diagnostics []CompilerError) JSONOutput {
	output := JSONOutput{
		Status:   "success",
		Errors:   []CompilerError{},
		Warnings: []CompilerError{},
	}

	for _, d := range diagnostics {
		if d.IsError() {
			output.Errors = append(output.Errors, d)
		} else if d.IsWarning() {
			output.Warnings = append(output.Warnings, d)
		}
	}

	if len(output.Errors) > 0 {
		output.Status = "error"
	} else if len(output.Warnings) > 0 {
		output.Status = "warning"
	}

	output.Summary = Summary{
		ErrorCount:   len(output.Errors),
		WarningCount: len(output.Warnings),
		TotalCount:   len(diagnostics),
	}
	return output
}

// FormatErrorsAsJSON formats multiple diagnostics as indented JSON
func FormatErrorsAsJSON(diagnostics []CompilerError) (string, error) {
	data, err := json.MarshalIndent(NewJSONOutput(diagnostics), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatErrorsAsJSONCompact formats multiple diagnostics as compact JSON
func FormatErrorsAsJSONCompact(diagnostics []CompilerError) (string, error) {
	data, err := json.Marshal(NewJSONOutput(diagnostics))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
