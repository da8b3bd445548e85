package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	headerColors = map[Severity]*color.Color{
		Info:    color.New(color.FgBlue, color.Bold),
		Warning: color.New(color.FgYellow, color.Bold),
		Error:   color.New(color.FgRed, color.Bold),
		Fatal:   color.New(color.FgRed, color.Bold, color.Underline),
	}
	locationColor = color.New(color.FgCyan)
	gutterColor   = color.New(color.FgBlue)
	contextColor  = color.New(color.FgHiBlack)
	markerColor   = color.New(color.FgRed)
	helpColor     = color.New(color.FgCyan, color.Bold)
	noteColor     = color.New(color.FgYellow)
	summaryColor  = color.New(color.Bold)
)

// FormatForTerminal formats a CompilerError for terminal output. Colors
// follow the fatih/color global switch, so they are dropped automatically
// when output is not a terminal.
func (e CompilerError) FormatForTerminal() string {
	var sb strings.Builder

	header, ok := headerColors[e.Severity]
	if !ok {
		header = headerColors[Error]
	}
	header.Fprintf(&sb, "%s[%s]", e.Severity, e.Code)
	fmt.Fprintf(&sb, ": %s\n", e.Message)

	locationColor.Fprint(&sb, "  --> ")
	fmt.Fprintf(&sb, "%s\n", e.Location)

	if len(e.Context.SourceLines) > 0 {
		sb.WriteString(formatSourceContext(e.Context, e.Location.Line))
	}

	if e.Suggestion != nil {
		sb.WriteString(formatSuggestion(*e.Suggestion))
	}

	return sb.String()
}

// formatSourceContext formats the source code context with highlighting.
// errorLine is the 1-based line number of the highlighted line.
func formatSourceContext(ctx ErrorContext, errorLine int) string {
	var sb strings.Builder

	firstLine := errorLine - ctx.Highlight.Line
	width := len(fmt.Sprint(firstLine + len(ctx.SourceLines)))
	pad := strings.Repeat(" ", width)

	gutterColor.Fprintf(&sb, "%s |\n", pad)

	for i, line := range ctx.SourceLines {
		lineNum := fmt.Sprintf("%*d", width, firstLine+i)

		if i != ctx.Highlight.Line {
			contextColor.Fprint(&sb, lineNum)
			gutterColor.Fprint(&sb, " | ")
			sb.WriteString(line + "\n")
			continue
		}

		gutterColor.Fprint(&sb, lineNum+" | ")
		sb.WriteString(line + "\n")

		gutterColor.Fprintf(&sb, "%s | ", pad)
		sb.WriteString(strings.Repeat(" ", max(0, ctx.Highlight.Start)))
		markerColor.Fprint(&sb, strings.Repeat("^", max(1, ctx.Highlight.End-ctx.Highlight.Start)))
		sb.WriteString("\n")
	}

	gutterColor.Fprintf(&sb, "%s |\n", pad)

	return sb.String()
}

// formatSuggestion formats a fix suggestion
func formatSuggestion(suggestion FixSuggestion) string {
	var sb strings.Builder

	sb.WriteString("\n")
	helpColor.Fprint(&sb, "Help:")
	fmt.Fprintf(&sb, " %s\n", suggestion.Description)

	if suggestion.NewCode != "" {
		helpColor.Fprint(&sb, "Suggestion:")
		sb.WriteString("\n")
		for _, line := range strings.Split(suggestion.NewCode, "\n") {
			fmt.Fprintf(&sb, "    %s\n", line)
		}

		if suggestion.Confidence < 1.0 {
			contextColor.Fprintf(&sb, "(Confidence: %d%%)\n", int(suggestion.Confidence*100))
		}
	}

	return sb.String()
}

// FormatSummary formats a summary of errors and warnings
func FormatSummary(errorCount, warningCount int) string {
	var parts []string

	if errorCount > 0 {
		parts = append(parts, headerColors[Error].Sprintf("%d error(s)", errorCount))
	}
	if warningCount > 0 {
		parts = append(parts, headerColors[Warning].Sprintf("%d warning(s)", warningCount))
	}

	if len(parts) == 0 {
		return locationColor.Sprint("No errors or warnings") + "\n"
	}

	return "\n" + summaryColor.Sprint("Found ") + strings.Join(parts, " and ") + "\n"
}

// StripColors removes ANSI escape sequences from a string (useful for testing)
func StripColors(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			end := strings.IndexByte(s[i:], 'm')
			if end == -1 {
				break
			}
			i += end
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
