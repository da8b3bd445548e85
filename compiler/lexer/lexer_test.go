package lexer

import (
	"testing"
)

// scanTypes lexes input and returns the token types without the final EOF
func scanTypes(t *testing.T, input string) ([]TokenType, []Token) {
	t.Helper()
	lexer := New(input, "test.m")
	tokens, errors := lexer.ScanTokens()
	if len(errors) > 0 {
		t.Fatalf("Unexpected errors: %v", errors)
	}
	if tokens[len(tokens)-1].Type != TOKEN_EOF {
		t.Fatalf("Expected EOF as final token, got %v", tokens[len(tokens)-1])
	}
	tokens = tokens[:len(tokens)-1]
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types, tokens
}

func assertTypes(t *testing.T, got, expected []TokenType) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("Expected %d tokens %v, got %d %v", len(expected), expected, len(got), got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Token %d: expected %v, got %v", i, expected[i], got[i])
		}
	}
}

// TestKeywords tests tokenization of all reserved words
func TestKeywords(t *testing.T) {
	for word := range keywords {
		t.Run(word, func(t *testing.T) {
			types, tokens := scanTypes(t, word)
			assertTypes(t, types, []TokenType{TOKEN_KEYWORD})
			if tokens[0].Value != word {
				t.Errorf("Expected keyword %q, got %q", word, tokens[0].Value)
			}
		})
	}

	for _, word := range []string{"properties", "methods", "events", "enumeration", "arguments"} {
		if IsKeyword(word) {
			t.Errorf("%q should be contextual, not reserved", word)
		}
	}
}

// TestStatements tests token classification of common statement shapes
func TestStatements(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{"assignment", "x = 1", []TokenType{TOKEN_IDENTIFIER, TOKEN_ASSIGNMENT, TOKEN_NUMBER}},
		{"index_assignment", "x(1) = 2", []TokenType{
			TOKEN_IDENTIFIER, TOKEN_BRA, TOKEN_NUMBER, TOKEN_KET, TOKEN_ASSIGNMENT, TOKEN_NUMBER,
		}},
		{"compound_assignment", "[a, b] = f()", []TokenType{
			TOKEN_A_BRA, TOKEN_IDENTIFIER, TOKEN_COMMA, TOKEN_IDENTIFIER, TOKEN_A_KET,
			TOKEN_ASSIGNMENT, TOKEN_IDENTIFIER, TOKEN_BRA, TOKEN_KET,
		}},
		{"void_target", "[~, b] = f", []TokenType{
			TOKEN_A_BRA, TOKEN_OPERATOR, TOKEN_COMMA, TOKEN_IDENTIFIER, TOKEN_A_KET,
			TOKEN_ASSIGNMENT, TOKEN_IDENTIFIER,
		}},
		{"quoted_bracket_in_target", "[a('x]'), b] = f", []TokenType{
			TOKEN_A_BRA, TOKEN_IDENTIFIER, TOKEN_BRA, TOKEN_CARRAY, TOKEN_KET, TOKEN_COMMA,
			TOKEN_IDENTIFIER, TOKEN_A_KET, TOKEN_ASSIGNMENT, TOKEN_IDENTIFIER,
		}},
		{"quoted_percent_in_target", "[a('%'), b] = f", []TokenType{
			TOKEN_A_BRA, TOKEN_IDENTIFIER, TOKEN_BRA, TOKEN_CARRAY, TOKEN_KET, TOKEN_COMMA,
			TOKEN_IDENTIFIER, TOKEN_A_KET, TOKEN_ASSIGNMENT, TOKEN_IDENTIFIER,
		}},
		{"escaped_quote_in_target", "[a('it''s]'), b] = f", []TokenType{
			TOKEN_A_BRA, TOKEN_IDENTIFIER, TOKEN_BRA, TOKEN_CARRAY, TOKEN_KET, TOKEN_COMMA,
			TOKEN_IDENTIFIER, TOKEN_A_KET, TOKEN_ASSIGNMENT, TOKEN_IDENTIFIER,
		}},
		{"transpose_in_target", "[a(x'), b] = f", []TokenType{
			TOKEN_A_BRA, TOKEN_IDENTIFIER, TOKEN_BRA, TOKEN_IDENTIFIER, TOKEN_OPERATOR, TOKEN_KET,
			TOKEN_COMMA, TOKEN_IDENTIFIER, TOKEN_A_KET, TOKEN_ASSIGNMENT, TOKEN_IDENTIFIER,
		}},
		{"quoted_assignment_in_matrix", "['a] = '] == b", []TokenType{
			TOKEN_M_BRA, TOKEN_CARRAY, TOKEN_M_KET, TOKEN_OPERATOR, TOKEN_IDENTIFIER,
		}},
		{"comparison_not_assignment", "[a] == b", []TokenType{
			TOKEN_M_BRA, TOKEN_IDENTIFIER, TOKEN_M_KET, TOKEN_OPERATOR, TOKEN_IDENTIFIER,
		}},
		{"selection", "x.y", []TokenType{TOKEN_IDENTIFIER, TOKEN_SELECTION, TOKEN_IDENTIFIER}},
		{"dynamic_selection", "a.(name)", []TokenType{
			TOKEN_IDENTIFIER, TOKEN_SELECTION, TOKEN_BRA, TOKEN_IDENTIFIER, TOKEN_KET,
		}},
		{"lambda", "f = @(x) x.^2", []TokenType{
			TOKEN_IDENTIFIER, TOKEN_ASSIGNMENT, TOKEN_AT, TOKEN_BRA, TOKEN_IDENTIFIER, TOKEN_KET,
			TOKEN_IDENTIFIER, TOKEN_OPERATOR, TOKEN_NUMBER,
		}},
		{"metaclass", "m = ?Foo", []TokenType{
			TOKEN_IDENTIFIER, TOKEN_ASSIGNMENT, TOKEN_METACLASS, TOKEN_IDENTIFIER,
		}},
		{"terminators", "a; b, c", []TokenType{
			TOKEN_IDENTIFIER, TOKEN_SEMICOLON, TOKEN_IDENTIFIER, TOKEN_COMMA, TOKEN_IDENTIFIER,
		}},
		{"function_outputs", "function [a, b] = f(x)", []TokenType{
			TOKEN_KEYWORD, TOKEN_A_BRA, TOKEN_IDENTIFIER, TOKEN_COMMA, TOKEN_IDENTIFIER, TOKEN_A_KET,
			TOKEN_ASSIGNMENT, TOKEN_IDENTIFIER, TOKEN_BRA, TOKEN_IDENTIFIER, TOKEN_KET,
		}},
		{"binary_expression_not_command", "x - 1", []TokenType{
			TOKEN_IDENTIFIER, TOKEN_OPERATOR, TOKEN_NUMBER,
		}},
		{"equality_not_command", "x == 1", []TokenType{
			TOKEN_IDENTIFIER, TOKEN_OPERATOR, TOKEN_NUMBER,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			types, _ := scanTypes(t, tt.input)
			assertTypes(t, types, tt.expected)
		})
	}
}

// TestOperators tests that each operator is scanned as a single token
func TestOperators(t *testing.T) {
	for _, op := range operators {
		if op == "'" || op == ".'" {
			continue
		}
		t.Run(op, func(t *testing.T) {
			input := "a " + op + " b"
			if op == "~" {
				input = "a = ~b"
			}
			_, tokens := scanTypes(t, input)
			found := false
			for _, tok := range tokens {
				if tok.Type == TOKEN_OPERATOR && tok.Value == op {
					found = true
				}
			}
			if !found {
				t.Errorf("Operator %q not found in %v", op, tokens)
			}
		})
	}
}

// TestTranspose tests the quote disambiguation between transpose and char arrays
func TestTranspose(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{"transpose", "x = a'", []TokenType{TOKEN_IDENTIFIER, TOKEN_ASSIGNMENT, TOKEN_IDENTIFIER, TOKEN_OPERATOR}},
		{"dot_transpose", "x = a.'", []TokenType{TOKEN_IDENTIFIER, TOKEN_ASSIGNMENT, TOKEN_IDENTIFIER, TOKEN_OPERATOR}},
		{"char_array", "x = 'abc'", []TokenType{TOKEN_IDENTIFIER, TOKEN_ASSIGNMENT, TOKEN_CARRAY}},
		{"call_argument", "f('abc')", []TokenType{TOKEN_IDENTIFIER, TOKEN_BRA, TOKEN_CARRAY, TOKEN_KET}},
		{"transpose_after_ket", "x = (a)'", []TokenType{
			TOKEN_IDENTIFIER, TOKEN_ASSIGNMENT, TOKEN_BRA, TOKEN_IDENTIFIER, TOKEN_KET, TOKEN_OPERATOR,
		}},
		{"matrix_of_transposes", "[a' b']", []TokenType{
			TOKEN_M_BRA, TOKEN_IDENTIFIER, TOKEN_OPERATOR, TOKEN_COMMA, TOKEN_IDENTIFIER, TOKEN_OPERATOR, TOKEN_M_KET,
		}},
		{"cell_of_char_arrays", "{'a' 'b'}", []TokenType{
			TOKEN_C_BRA, TOKEN_CARRAY, TOKEN_COMMA, TOKEN_CARRAY, TOKEN_C_KET,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			types, _ := scanTypes(t, tt.input)
			assertTypes(t, types, tt.expected)
		})
	}
}

// TestStrings tests char array and string literal values
func TestStrings(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		tokenType TokenType
		expected  string
	}{
		{"char_array", "x = 'hello'", TOKEN_CARRAY, "hello"},
		{"escaped_quote", "x = 'it''s'", TOKEN_CARRAY, "it's"},
		{"empty_char_array", "x = ''", TOKEN_CARRAY, ""},
		{"string", `x = "hello"`, TOKEN_STRING, "hello"},
		{"escaped_double_quote", `x = "say ""hi"""`, TOKEN_STRING, `say "hi"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, tokens := scanTypes(t, tt.input)
			last := tokens[len(tokens)-1]
			if last.Type != tt.tokenType {
				t.Fatalf("Expected %v, got %v", tt.tokenType, last.Type)
			}
			if last.Value != tt.expected {
				t.Errorf("Expected value %q, got %q", tt.expected, last.Value)
			}
		})
	}
}

// TestNumbers tests numeric literal tokenization
func TestNumbers(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"42", "42"},
		{"3.14", "3.14"},
		{".5", ".5"},
		{"1e10", "1e10"},
		{"1.5e-3", "1.5e-3"},
		{"2E+4", "2E+4"},
		{"3i", "3i"},
		{"2.5j", "2.5j"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, tokens := scanTypes(t, "x = "+tt.input)
			last := tokens[len(tokens)-1]
			if last.Type != TOKEN_NUMBER {
				t.Fatalf("Expected NUMBER, got %v", last.Type)
			}
			if last.Value != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, last.Value)
			}
		})
	}

	t.Run("elementwise_after_integer", func(t *testing.T) {
		types, tokens := scanTypes(t, "x = 1.*y")
		assertTypes(t, types, []TokenType{
			TOKEN_IDENTIFIER, TOKEN_ASSIGNMENT, TOKEN_NUMBER, TOKEN_OPERATOR, TOKEN_IDENTIFIER,
		})
		if tokens[2].Value != "1" || tokens[3].Value != ".*" {
			t.Errorf("Expected 1 and .*, got %q and %q", tokens[2].Value, tokens[3].Value)
		}
	})
}

// TestMatrixCommas tests synthetic commas between blank separated elements
func TestMatrixCommas(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{"numbers", "[1 2 3]", []TokenType{
			TOKEN_M_BRA, TOKEN_NUMBER, TOKEN_COMMA, TOKEN_NUMBER, TOKEN_COMMA, TOKEN_NUMBER, TOKEN_M_KET,
		}},
		{"unary_minus", "[a -b]", []TokenType{
			TOKEN_M_BRA, TOKEN_IDENTIFIER, TOKEN_COMMA, TOKEN_OPERATOR, TOKEN_IDENTIFIER, TOKEN_M_KET,
		}},
		{"binary_minus", "[a - b]", []TokenType{
			TOKEN_M_BRA, TOKEN_IDENTIFIER, TOKEN_OPERATOR, TOKEN_IDENTIFIER, TOKEN_M_KET,
		}},
		{"explicit_commas", "[1, 2]", []TokenType{
			TOKEN_M_BRA, TOKEN_NUMBER, TOKEN_COMMA, TOKEN_NUMBER, TOKEN_M_KET,
		}},
		{"rows", "[1 2; 3 4]", []TokenType{
			TOKEN_M_BRA, TOKEN_NUMBER, TOKEN_COMMA, TOKEN_NUMBER, TOKEN_SEMICOLON,
			TOKEN_NUMBER, TOKEN_COMMA, TOKEN_NUMBER, TOKEN_M_KET,
		}},
		{"no_comma_in_parens", "f(1 + 2)", []TokenType{
			TOKEN_IDENTIFIER, TOKEN_BRA, TOKEN_NUMBER, TOKEN_OPERATOR, TOKEN_NUMBER, TOKEN_KET,
		}},
		{"lambda_in_cell", "{@(x) x+1, @sin}", []TokenType{
			TOKEN_C_BRA, TOKEN_AT, TOKEN_BRA, TOKEN_IDENTIFIER, TOKEN_KET, TOKEN_IDENTIFIER,
			TOKEN_OPERATOR, TOKEN_NUMBER, TOKEN_COMMA, TOKEN_AT, TOKEN_IDENTIFIER, TOKEN_C_KET,
		}},
		{"call_then_element", "[f(1) x]", []TokenType{
			TOKEN_M_BRA, TOKEN_IDENTIFIER, TOKEN_BRA, TOKEN_NUMBER, TOKEN_KET, TOKEN_COMMA,
			TOKEN_IDENTIFIER, TOKEN_M_KET,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			types, _ := scanTypes(t, tt.input)
			assertTypes(t, types, tt.expected)
		})
	}

	t.Run("synthetic_flag", func(t *testing.T) {
		_, tokens := scanTypes(t, "[1 2]")
		if !tokens[2].Synthetic {
			t.Errorf("Expected inserted comma to be synthetic")
		}
		if !tokens[3].PrecededByWhitespace {
			t.Errorf("Expected element after synthetic comma to keep its whitespace flag")
		}
	})
}

// TestCommandSyntax tests detection of command form calls
func TestCommandSyntax(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"single_word", "hold on", []string{"on"}},
		{"two_words", "disp hello world", []string{"hello", "world"}},
		{"dash_argument", "format -long", []string{"-long"}},
		{"quoted_argument", "disp 'hello world'", []string{"hello world"}},
		{"dotted_name", "pkg.cmd arg", []string{"arg"}},
		{"terminated", "hold on;", []string{"on"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, tokens := scanTypes(t, tt.input)
			var args []string
			for _, tok := range tokens {
				if tok.Type == TOKEN_CARRAY {
					args = append(args, tok.Value)
				}
			}
			if len(args) != len(tt.expected) {
				t.Fatalf("Expected args %v, got %v", tt.expected, args)
			}
			for i := range args {
				if args[i] != tt.expected[i] {
					t.Errorf("Arg %d: expected %q, got %q", i, tt.expected[i], args[i])
				}
			}
		})
	}

	t.Run("ends_at_newline", func(t *testing.T) {
		types, _ := scanTypes(t, "hold on\nx = 1")
		assertTypes(t, types, []TokenType{
			TOKEN_IDENTIFIER, TOKEN_CARRAY, TOKEN_NEWLINE, TOKEN_IDENTIFIER, TOKEN_ASSIGNMENT, TOKEN_NUMBER,
		})
	})
}

// TestValidationBlocks tests that command syntax is disabled in
// properties and arguments blocks
func TestValidationBlocks(t *testing.T) {
	source := "classdef Foo\n  properties\n    x double\n  end\nend"
	_, tokens := scanTypes(t, source)
	for _, tok := range tokens {
		if tok.Type == TOKEN_CARRAY {
			t.Fatalf("Unexpected command syntax token %v", tok)
		}
	}

	source = "function f(x)\n  arguments\n    x double\n  end\n  disp x\nend"
	_, tokens = scanTypes(t, source)
	var carrays []string
	for _, tok := range tokens {
		if tok.Type == TOKEN_CARRAY {
			carrays = append(carrays, tok.Value)
		}
	}
	if len(carrays) != 1 || carrays[0] != "x" {
		t.Errorf("Expected only the disp argument as command syntax, got %v", carrays)
	}
}

// TestComments tests line comments, block comments and continuations
func TestComments(t *testing.T) {
	t.Run("line_comment", func(t *testing.T) {
		types, tokens := scanTypes(t, "x = 1 % note")
		assertTypes(t, types, []TokenType{TOKEN_IDENTIFIER, TOKEN_ASSIGNMENT, TOKEN_NUMBER, TOKEN_COMMENT})
		if tokens[3].Value != " note" {
			t.Errorf("Expected comment text %q, got %q", " note", tokens[3].Value)
		}
	})

	t.Run("block_comment", func(t *testing.T) {
		types, tokens := scanTypes(t, "%{\nhello\n%}\nx = 1")
		assertTypes(t, types, []TokenType{
			TOKEN_COMMENT, TOKEN_NEWLINE, TOKEN_IDENTIFIER, TOKEN_ASSIGNMENT, TOKEN_NUMBER,
		})
		if tokens[2].Line != 4 {
			t.Errorf("Expected x on line 4, got %d", tokens[2].Line)
		}
	})

	t.Run("continuation", func(t *testing.T) {
		types, _ := scanTypes(t, "x = 1 + ...\n    2")
		assertTypes(t, types, []TokenType{
			TOKEN_IDENTIFIER, TOKEN_ASSIGNMENT, TOKEN_NUMBER, TOKEN_OPERATOR, TOKEN_CONTINUATION, TOKEN_NUMBER,
		})
	})

	t.Run("shell_escape", func(t *testing.T) {
		types, tokens := scanTypes(t, "!ls -l")
		assertTypes(t, types, []TokenType{TOKEN_BANG})
		if tokens[0].Value != "ls -l" {
			t.Errorf("Expected %q, got %q", "ls -l", tokens[0].Value)
		}
	})
}

// TestPositionTracking tests line, column and index bookkeeping
func TestPositionTracking(t *testing.T) {
	_, tokens := scanTypes(t, "x = 10\n  y")

	expected := []struct {
		line, column, endColumn int
		first                   bool
	}{
		{1, 1, 1, true},  // x
		{1, 3, 3, false}, // =
		{1, 5, 6, false}, // 10
		{1, 7, 7, false}, // newline
		{2, 3, 3, true},  // y
	}

	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, exp := range expected {
		tok := tokens[i]
		if tok.Line != exp.line || tok.Column != exp.column || tok.EndColumn != exp.endColumn {
			t.Errorf("Token %d %v: expected %d:%d-%d, got %d:%d-%d",
				i, tok, exp.line, exp.column, exp.endColumn, tok.Line, tok.Column, tok.EndColumn)
		}
		if tok.FirstInLine != exp.first {
			t.Errorf("Token %d %v: expected FirstInLine=%v", i, tok, exp.first)
		}
		if tok.Index != i {
			t.Errorf("Token %d: expected index %d, got %d", i, i, tok.Index)
		}
	}
}

// TestErrorRecovery tests that lexing continues after an error
func TestErrorRecovery(t *testing.T) {
	lexer := New("x = $\ny = 2", "test.m")
	tokens, errors := lexer.ScanTokens()

	if len(errors) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(errors))
	}
	if errors[0].Line != 1 || errors[0].Column != 5 {
		t.Errorf("Expected error at 1:5, got %d:%d", errors[0].Line, errors[0].Column)
	}

	foundY := false
	for _, tok := range tokens {
		if tok.Type == TOKEN_IDENTIFIER && tok.Value == "y" {
			foundY = true
		}
	}
	if !foundY {
		t.Error("Expected lexing to continue after the error")
	}
}

// TestUnterminatedCharArray tests the error for an unclosed char array
func TestUnterminatedCharArray(t *testing.T) {
	lexer := New("x = 'abc\n", "test.m")
	tokens, errors := lexer.ScanTokens()

	if len(errors) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(errors))
	}
	if tokens[2].Type != TOKEN_ERROR {
		t.Errorf("Expected ERROR token, got %v", tokens[2].Type)
	}
}

// TestEOFRepeats tests that Next keeps returning EOF
func TestEOFRepeats(t *testing.T) {
	lexer := New("x", "test.m")
	lexer.Next()
	for i := 0; i < 3; i++ {
		if tok := lexer.Next(); tok.Type != TOKEN_EOF {
			t.Fatalf("Expected EOF, got %v", tok)
		}
	}
}

// TestTokenStream tests replaying a scanned slice
func TestTokenStream(t *testing.T) {
	tokens, _ := New("x = 1", "test.m").ScanTokens()
	stream := NewTokenStream(tokens)

	for i, want := range tokens {
		if got := stream.Next(); got.Type != want.Type || got.Index != i {
			t.Fatalf("Token %d: expected %v, got %v", i, want, got)
		}
	}
	if tok := stream.Next(); tok.Type != TOKEN_EOF {
		t.Errorf("Expected EOF after the slice is exhausted, got %v", tok)
	}

	if tok := NewTokenStream(nil).Next(); tok.Type != TOKEN_EOF {
		t.Errorf("Expected EOF from an empty stream, got %v", tok)
	}
}

// TestOctaveDialect tests the comment and negation forms only Octave accepts
func TestOctaveDialect(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenType
		values   []string
	}{
		{"x = 1 # note", []TokenType{TOKEN_IDENTIFIER, TOKEN_ASSIGNMENT, TOKEN_NUMBER, TOKEN_COMMENT}, []string{"x", "=", "1", " note"}},
		{"!x", []TokenType{TOKEN_OPERATOR, TOKEN_IDENTIFIER}, []string{"~", "x"}},
		{"a != b", []TokenType{TOKEN_IDENTIFIER, TOKEN_OPERATOR, TOKEN_IDENTIFIER}, []string{"a", "~=", "b"}},
		{"hold on # keep", []TokenType{TOKEN_IDENTIFIER, TOKEN_CARRAY, TOKEN_COMMENT}, []string{"hold", "on", " keep"}},
		{"#{\nblock\n#}\n", []TokenType{TOKEN_COMMENT, TOKEN_NEWLINE}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, errors := NewOctave(tt.input, "test.m").ScanTokens()
			if len(errors) > 0 {
				t.Fatalf("Unexpected errors: %v", errors)
			}
			tokens = tokens[:len(tokens)-1]
			types := make([]TokenType, len(tokens))
			for i, tok := range tokens {
				types[i] = tok.Type
			}
			assertTypes(t, types, tt.expected)
			for i, value := range tt.values {
				if tokens[i].Value != value {
					t.Errorf("Token %d: expected value %q, got %q", i, value, tokens[i].Value)
				}
			}
		})
	}

	if _, errors := New("x = 1 # note", "test.m").ScanTokens(); len(errors) != 1 {
		t.Errorf("Expected '#' to be rejected outside Octave, got %d errors", len(errors))
	}
}
