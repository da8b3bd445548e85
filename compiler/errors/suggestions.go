package errors

import (
	"fmt"
	"strings"
)

// suggestFix generates auto-fix suggestions based on error code
func suggestFix(err CompilerError) *FixSuggestion {
	switch err.Code {
	case ErrUnterminatedCharArray:
		return suggestCloseQuote(err, "'")
	case ErrUnterminatedString:
		return suggestCloseQuote(err, `"`)
	case ErrVoidWithoutComma:
		return suggestInsertAfterHighlight(err, ",", "Separate '~' from the next output with a comma")
	case ErrMissingSemicolon:
		return suggestTerminator(err)
	case ErrCommaTerminator:
		return suggestReplaceComma(err)
	case ErrMissingFunctionEnd:
		return &FixSuggestion{
			Description: "Once one function in a file is closed with 'end', all of them must be",
			NewCode:     "end",
			Confidence:  0.9,
		}
	case ErrChainedComparison:
		return &FixSuggestion{
			Description: "Comparisons do not chain; combine them explicitly",
			OldCode:     "a < b < c",
			NewCode:     "a < b && b < c",
			Confidence:  0.8,
		}
	case ErrBuiltinShadow:
		return suggestRename(err)
	case ErrOutsideLoop:
		return &FixSuggestion{
			Description: "Use 'return' to leave a function early",
			Confidence:  0.6,
		}
	default:
		return nil
	}
}

// errorLine returns the highlighted source line, if context is available
func errorLine(err CompilerError) (string, bool) {
	if len(err.Context.SourceLines) == 0 {
		return "", false
	}
	idx := err.Context.Highlight.Line
	if idx < 0 || idx >= len(err.Context.SourceLines) {
		return "", false
	}
	return err.Context.SourceLines[idx], true
}

// suggestCloseQuote suggests terminating an unclosed literal at the end of the line
func suggestCloseQuote(err CompilerError, quote string) *FixSuggestion {
	line, ok := errorLine(err)
	if !ok {
		return nil
	}

	trimmed := strings.TrimRight(line, " \t")
	return &FixSuggestion{
		Description: fmt.Sprintf("Close the literal with %s", quote),
		OldCode:     strings.TrimSpace(line),
		NewCode:     strings.TrimSpace(trimmed + quote),
		Confidence:  0.7,
	}
}

// suggestInsertAfterHighlight inserts text right after the highlighted span
func suggestInsertAfterHighlight(err CompilerError, text, description string) *FixSuggestion {
	line, ok := errorLine(err)
	if !ok {
		return &FixSuggestion{Description: description, Confidence: 0.9}
	}

	end := err.Context.Highlight.End
	if end < 0 || end > len(line) {
		return &FixSuggestion{Description: description, Confidence: 0.9}
	}

	return &FixSuggestion{
		Description: description,
		OldCode:     strings.TrimSpace(line),
		NewCode:     strings.TrimSpace(line[:end] + text + line[end:]),
		Confidence:  0.95,
	}
}

// suggestTerminator suggests ending the statement with a semicolon
func suggestTerminator(err CompilerError) *FixSuggestion {
	line, ok := errorLine(err)
	if !ok {
		return &FixSuggestion{Description: "Add ';' to suppress output", Confidence: 0.9}
	}

	code, comment := splitComment(line)
	code = strings.TrimRight(code, " \t")
	return &FixSuggestion{
		Description: "Add ';' to suppress output",
		OldCode:     strings.TrimSpace(line),
		NewCode:     strings.TrimSpace(code + ";" + comment),
		Confidence:  0.9,
	}
}

// suggestReplaceComma suggests replacing a trailing comma with a semicolon
func suggestReplaceComma(err CompilerError) *FixSuggestion {
	line, ok := errorLine(err)
	if !ok {
		return &FixSuggestion{Description: "Replace ',' with ';'", Confidence: 0.9}
	}

	code, comment := splitComment(line)
	code = strings.TrimRight(code, " \t")
	if strings.HasSuffix(code, ",") {
		code = strings.TrimSuffix(code, ",") + ";"
	}
	return &FixSuggestion{
		Description: "Replace ',' with ';'",
		OldCode:     strings.TrimSpace(line),
		NewCode:     strings.TrimSpace(code + comment),
		Confidence:  0.9,
	}
}

// suggestRename suggests renaming a variable that hides a builtin
func suggestRename(err CompilerError) *FixSuggestion {
	name := ""
	if i := strings.Index(err.Message, "'"); i >= 0 {
		if j := strings.Index(err.Message[i+1:], "'"); j >= 0 {
			name = err.Message[i+1 : i+1+j]
		}
	}
	if name == "" {
		return &FixSuggestion{Description: "Rename the variable", Confidence: 0.5}
	}

	return &FixSuggestion{
		Description: fmt.Sprintf("Rename the variable so '%s' keeps its builtin meaning", name),
		OldCode:     name,
		NewCode:     name + "_value",
		Confidence:  0.5,
	}
}

// splitComment splits a line at the first % that is not inside a char
// array. This is a heuristic; it does not track transposes.
func splitComment(line string) (string, string) {
	inQuote := false
	for i, r := range line {
		switch r {
		case '\'':
			inQuote = !inQuote
		case '%':
			if !inQuote {
				return line[:i], " " + line[i:]
			}
		}
	}
	return line, ""
}
