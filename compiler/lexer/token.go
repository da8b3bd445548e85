package lexer

import "fmt"

// TokenType represents the kind of a MATLAB token
type TokenType int

const (
	// Special tokens
	TOKEN_EOF TokenType = iota
	TOKEN_ERROR
	TOKEN_NEWLINE
	TOKEN_CONTINUATION // ... up to and including the end of the line
	TOKEN_COMMENT

	// Names and literals
	TOKEN_IDENTIFIER
	TOKEN_KEYWORD
	TOKEN_NUMBER
	TOKEN_CARRAY // 'single quoted' char arrays and command syntax words
	TOKEN_STRING // "double quoted" strings
	TOKEN_BANG   // !shell escape, up to the end of the line

	// Operators and punctuation
	TOKEN_OPERATOR
	TOKEN_ASSIGNMENT // =
	TOKEN_COMMA      // ,
	TOKEN_SEMICOLON  // ;
	TOKEN_COLON      // :
	TOKEN_SELECTION  // .
	TOKEN_AT         // @
	TOKEN_METACLASS  // ?

	// Delimiters
	TOKEN_BRA   // (
	TOKEN_KET   // )
	TOKEN_C_BRA // {
	TOKEN_C_KET // }
	TOKEN_M_BRA // [ opening a matrix
	TOKEN_M_KET // ] closing a matrix
	TOKEN_A_BRA // [ opening an assignment target list
	TOKEN_A_KET // ] closing an assignment target list
)

// String returns the string representation of the token type
func (t TokenType) String() string {
	switch t {
	case TOKEN_EOF:
		return "EOF"
	case TOKEN_ERROR:
		return "ERROR"
	case TOKEN_NEWLINE:
		return "NEWLINE"
	case TOKEN_CONTINUATION:
		return "CONTINUATION"
	case TOKEN_COMMENT:
		return "COMMENT"
	case TOKEN_IDENTIFIER:
		return "IDENTIFIER"
	case TOKEN_KEYWORD:
		return "KEYWORD"
	case TOKEN_NUMBER:
		return "NUMBER"
	case TOKEN_CARRAY:
		return "CARRAY"
	case TOKEN_STRING:
		return "STRING"
	case TOKEN_BANG:
		return "BANG"
	case TOKEN_OPERATOR:
		return "OPERATOR"
	case TOKEN_ASSIGNMENT:
		return "ASSIGNMENT"
	case TOKEN_COMMA:
		return "COMMA"
	case TOKEN_SEMICOLON:
		return "SEMICOLON"
	case TOKEN_COLON:
		return "COLON"
	case TOKEN_SELECTION:
		return "SELECTION"
	case TOKEN_AT:
		return "AT"
	case TOKEN_METACLASS:
		return "METACLASS"
	case TOKEN_BRA:
		return "BRA"
	case TOKEN_KET:
		return "KET"
	case TOKEN_C_BRA:
		return "C_BRA"
	case TOKEN_C_KET:
		return "C_KET"
	case TOKEN_M_BRA:
		return "M_BRA"
	case TOKEN_M_KET:
		return "M_KET"
	case TOKEN_A_BRA:
		return "A_BRA"
	case TOKEN_A_KET:
		return "A_KET"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(t))
	}
}

// Token represents a single lexical token.
//
// Tokens are plain values. Autofix annotations and links to the AST node
// that consumed a token live in side tables keyed by Index.
type Token struct {
	Type      TokenType
	Lexeme    string // Text exactly as written in the source
	Value     string // Interpreted value, e.g. char array contents without quotes
	File      string
	Line      int
	Column    int // 1-based column of the first character
	EndColumn int // 1-based column of the last character
	Index     int // Position in the token stream, unique per file

	// Synthetic is set for tokens the lexer inserts itself, such as the
	// implicit comma between whitespace separated matrix elements.
	Synthetic bool

	// FirstInLine is set when no other token precedes this one on its line.
	FirstInLine bool

	// PrecededByWhitespace is set when blanks separate this token from the
	// previous one.
	PrecededByWhitespace bool
}

// String returns a string representation of the token
func (t Token) String() string {
	if t.Lexeme == "" {
		return fmt.Sprintf("%s at %d:%d", t.Type, t.Line, t.Column)
	}
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, t.Lexeme, t.Line, t.Column)
}

// Is reports whether the token has the given type and, if value is not
// empty, the given value.
func (t Token) Is(tokenType TokenType, value string) bool {
	if t.Type != tokenType {
		return false
	}
	return value == "" || t.Value == value
}

// LexError represents a lexical error
type LexError struct {
	Message string
	Line    int
	Column  int
	File    string
}

// Error implements the error interface
func (e LexError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
}
