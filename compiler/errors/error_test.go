package errors

import (
	"encoding/json"
	"strings"
	"testing"
)

// TestError_Creation tests basic error creation
func TestError_Creation(t *testing.T) {
	loc := SourceLocation{File: "f.m", Line: 15, Column: 7, Length: 3}

	err := NewCompilerError("parser", ErrUnexpectedToken, "expected end, found EOF", loc, Fatal)

	if err.Phase != "parser" {
		t.Errorf("Expected phase 'parser', got '%s'", err.Phase)
	}
	if !err.IsError() || !err.IsFatal() {
		t.Errorf("Expected fatal error, got %v", err.Severity)
	}
	if got := err.Error(); got != "f.m:15:7: E100: expected end, found EOF" {
		t.Errorf("Unexpected error string %q", got)
	}
}

// TestICE tests internal compiler error formatting
func TestICE(t *testing.T) {
	ice := NewICE("pop from empty context stack")
	if got := ice.Error(); got != "internal compiler error: pop from empty context stack" {
		t.Errorf("Unexpected ICE string %q", got)
	}

	ice = NewICE("unknown node").At(SourceLocation{File: "f.m", Line: 2, Column: 1})
	if !strings.HasPrefix(ice.Error(), "f.m:2:1: ") {
		t.Errorf("Expected location prefix, got %q", ice.Error())
	}
}

// TestSeverity_JSON tests that severities are encoded by name
func TestSeverity_JSON(t *testing.T) {
	data, err := json.Marshal(Warning)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"warning"` {
		t.Errorf("Expected \"warning\", got %s", data)
	}

	var s Severity
	if err := json.Unmarshal([]byte(`"fatal"`), &s); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if s != Fatal {
		t.Errorf("Expected Fatal, got %v", s)
	}
}

// TestGetPhaseForCode tests the code ranges
func TestGetPhaseForCode(t *testing.T) {
	tests := []struct {
		code  string
		phase string
	}{
		{ErrUnterminatedCharArray, "lexer"},
		{ErrUnexpectedToken, "parser"},
		{ErrOutsideLoop, "parser"},
		{ErrFileUnreadable, "driver"},
		{"E500", "unknown"},
		{"X1", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := GetPhaseForCode(tt.code); got != tt.phase {
				t.Errorf("Expected %q, got %q", tt.phase, got)
			}
		})
	}

	for code := range ErrorMessages {
		if GetPhaseForCode(code) == "unknown" {
			t.Errorf("Code %s has no phase", code)
		}
	}
}

// TestExtractSourceContext tests context window extraction
func TestExtractSourceContext(t *testing.T) {
	source := "a = 1;\nb = 2;\nc = 3;\nd = 4;\ne = 5;\nf = 6;\ng = 7;\nh = 8;"

	ctx := extractSourceContext(SourceLocation{Line: 5, Column: 5, Length: 1}, source)

	if len(ctx.SourceLines) != 7 {
		t.Fatalf("Expected 7 context lines, got %d", len(ctx.SourceLines))
	}
	if ctx.SourceLines[ctx.Highlight.Line] != "e = 5;" {
		t.Errorf("Expected highlighted line 'e = 5;', got %q", ctx.SourceLines[ctx.Highlight.Line])
	}
	if ctx.Highlight.Start != 4 || ctx.Highlight.End != 5 {
		t.Errorf("Expected highlight 4-5, got %d-%d", ctx.Highlight.Start, ctx.Highlight.End)
	}

	ctx = extractSourceContext(SourceLocation{Line: 42}, source)
	if len(ctx.SourceLines) != 0 {
		t.Errorf("Expected empty context for out of range line")
	}
}

// TestSuggestions tests code specific fix suggestions
func TestSuggestions(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		code     string
		loc      SourceLocation
		expected string
	}{
		{
			name:     "void_comma",
			source:   "[~ x] = f();",
			code:     ErrVoidWithoutComma,
			loc:      SourceLocation{Line: 1, Column: 2, Length: 1},
			expected: "[~, x] = f();",
		},
		{
			name:     "missing_semicolon",
			source:   "x = 1 % count",
			code:     ErrMissingSemicolon,
			loc:      SourceLocation{Line: 1, Column: 1, Length: 5},
			expected: "x = 1; % count",
		},
		{
			name:     "comma_terminator",
			source:   "x = 1,",
			code:     ErrCommaTerminator,
			loc:      SourceLocation{Line: 1, Column: 6, Length: 1},
			expected: "x = 1;",
		},
		{
			name:     "unterminated_char_array",
			source:   "x = 'abc",
			code:     ErrUnterminatedCharArray,
			loc:      SourceLocation{Line: 1, Column: 5, Length: 1},
			expected: "x = 'abc'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCompilerError("parser", tt.code, GetErrorMessage(tt.code), tt.loc, Warning)
			err = EnrichError(err, tt.source)

			if err.Suggestion == nil {
				t.Fatal("Expected a suggestion")
			}
			if err.Suggestion.NewCode != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, err.Suggestion.NewCode)
			}
		})
	}
}

// TestCollector tests diagnostic collection through MessageHandler
func TestCollector(t *testing.T) {
	var handler MessageHandler = NewCollector("")
	handler.Warning(SourceLocation{File: "f.m", Line: 3, Column: 1}, "break must appear inside loop", false)
	handler.Warning(SourceLocation{File: "f.m", Line: 1, Column: 4}, "soft fatal", true)
	handler.Error(SourceLocation{File: "f.m", Line: 2, Column: 1}, "expected end")

	c := handler.(*Collector)
	if c.ErrorCount() != 2 {
		t.Errorf("Expected 2 errors, got %d", c.ErrorCount())
	}
	if c.WarningCount() != 1 {
		t.Errorf("Expected 1 warning, got %d", c.WarningCount())
	}
	if !c.HasFatals() {
		t.Error("Expected a fatal error")
	}

	all := c.All()
	for i, line := range []int{1, 2, 3} {
		if all[i].Location.Line != line {
			t.Errorf("Diagnostic %d: expected line %d, got %d", i, line, all[i].Location.Line)
		}
	}

	if got := c.Summary(); got != "Found 2 error(s) and 1 warning(s)" {
		t.Errorf("Unexpected summary %q", got)
	}
}

// TestCollector_Limit tests that the collector stops at its limit
func TestCollector_Limit(t *testing.T) {
	c := NewCollectorWithMax("", 2)
	for i := 0; i < 5; i++ {
		c.Report(NewCompilerError("parser", ErrOutsideLoop, "outside loop", SourceLocation{Line: i + 1}, Warning))
	}

	if c.TotalCount() != 2 {
		t.Errorf("Expected 2 diagnostics, got %d", c.TotalCount())
	}
	if !strings.Contains(StripColors(c.FormatForTerminal()), "3 more not shown") {
		t.Error("Expected truncation note")
	}
}

// TestCollector_LimitKeepsErrors tests that a full collector still records
// errors, so a syntax error after many warnings is not lost
func TestCollector_LimitKeepsErrors(t *testing.T) {
	c := NewCollectorWithMax("", 3)
	for i := 0; i < 5; i++ {
		c.Warning(SourceLocation{Line: i + 1}, "missing semicolon", false)
	}
	c.Error(SourceLocation{Line: 6, Column: 10}, "expected expression, found SEMICOLON instead")

	if !c.HasFatals() {
		t.Fatal("Expected the fatal error to be kept after the limit")
	}
	if c.WarningCount() != 3 || c.ErrorCount() != 1 {
		t.Errorf("Expected 3 warnings and 1 error, got %d and %d", c.WarningCount(), c.ErrorCount())
	}
	if c.Dropped() != 2 {
		t.Errorf("Expected 2 dropped warnings, got %d", c.Dropped())
	}
	all := c.All()
	if last := all[len(all)-1]; last.Location.Line != 6 || !last.IsFatal() {
		t.Errorf("Expected the fatal error last in location order, got %+v", last)
	}
}

// TestCollector_Enrichment tests that a collector with source adds context
func TestCollector_Enrichment(t *testing.T) {
	c := NewCollector("x = 1\ny = 2")
	c.Report(NewCompilerError("parser", ErrMissingSemicolon, "missing semicolon", SourceLocation{Line: 2, Column: 1, Length: 5}, Warning))

	w := c.Warnings()[0]
	if len(w.Context.SourceLines) != 2 {
		t.Errorf("Expected 2 context lines, got %d", len(w.Context.SourceLines))
	}
	if w.Suggestion == nil || w.Suggestion.NewCode != "y = 2;" {
		t.Errorf("Expected semicolon suggestion, got %+v", w.Suggestion)
	}
}

// TestJSONOutput tests the JSON report structure
func TestJSONOutput(t *testing.T) {
	diagnostics := []CompilerError{
		NewCompilerError("parser", ErrUnexpectedToken, "unexpected", SourceLocation{File: "f.m", Line: 1, Column: 1}, Fatal),
		NewCompilerError("parser", ErrOutsideLoop, "outside loop", SourceLocation{File: "f.m", Line: 2, Column: 1}, Warning),
	}

	out, err := FormatErrorsAsJSON(diagnostics)
	if err != nil {
		t.Fatalf("FormatErrorsAsJSON failed: %v", err)
	}

	var decoded struct {
		Status  string `json:"status"`
		Summary struct {
			ErrorCount   int `json:"error_count"`
			WarningCount int `json:"warning_count"`
		} `json:"summary"`
		Errors []struct {
			Code     string `json:"code"`
			Severity string `json:"severity"`
		} `json:"errors"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}

	if decoded.Status != "error" {
		t.Errorf("Expected status 'error', got %q", decoded.Status)
	}
	if decoded.Summary.ErrorCount != 1 || decoded.Summary.WarningCount != 1 {
		t.Errorf("Unexpected summary %+v", decoded.Summary)
	}
	if decoded.Errors[0].Code != ErrUnexpectedToken || decoded.Errors[0].Severity != "fatal" {
		t.Errorf("Unexpected error entry %+v", decoded.Errors[0])
	}

	if NewJSONOutput(nil).Status != "success" {
		t.Error("Expected success status for no diagnostics")
	}
}

// TestStripColors tests ANSI escape removal
func TestStripColors(t *testing.T) {
	in := "\033[31;1merror\033[0m: \033[36mx\033[0m"
	if got := StripColors(in); got != "error: x" {
		t.Errorf("Expected 'error: x', got %q", got)
	}
}
