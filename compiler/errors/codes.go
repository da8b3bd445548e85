package errors

// Error code constants organized by phase
// E001-E099: Lexer errors
// E100-E149: Parser errors
// E150-E199: Parser warnings and style diagnostics
// E200-E249: Driver errors

const (
	// Lexer errors (E001-E099)
	ErrUnterminatedCharArray = "E001"
	ErrUnterminatedString    = "E002"
	ErrInvalidCharacter      = "E003"
	ErrInvalidNumber         = "E004"
	ErrUnterminatedComment   = "E005"

	// Parser errors (E100-E149)
	ErrUnexpectedToken       = "E100"
	ErrExpectedIdentifier    = "E101"
	ErrExpectedEnd           = "E102"
	ErrExpectedParen         = "E103"
	ErrExpectedBracket       = "E104"
	ErrExpectedBrace         = "E105"
	ErrInvalidAssignment     = "E106"
	ErrInvalidCommandSyntax  = "E107"
	ErrMissingFunctionEnd    = "E108"
	ErrInvalidClassBlock     = "E109"
	ErrInvalidSignature      = "E110"
	ErrUnexpectedEOF         = "E111"
	ErrMaxDepthExceeded      = "E112"
	ErrInvalidStatement      = "E113"
	ErrInvalidValidation     = "E114"
	ErrInvalidImport         = "E115"
	ErrNestedFunctionInBlock = "E116"

	// Parser warnings (E150-E199)
	ErrOutsideLoop           = "E150"
	ErrChainedComparison     = "E151"
	ErrSingleDimension       = "E152"
	ErrVoidWithoutComma      = "E153"
	ErrBuiltinShadow         = "E154"
	ErrMissingSemicolon      = "E155"
	ErrCommaTerminator       = "E156"
	ErrRedundantTerminator   = "E157"
	ErrParserDiagnostic      = "E199"

	// Driver errors (E200-E249)
	ErrFileUnreadable = "E200"
)

// ErrorMessages maps error codes to their default messages
var ErrorMessages = map[string]string{
	// Lexer errors
	ErrUnterminatedCharArray: "Unterminated char array",
	ErrUnterminatedString:    "Unterminated string",
	ErrInvalidCharacter:      "Invalid character",
	ErrInvalidNumber:         "Invalid number format",
	ErrUnterminatedComment:   "Unterminated block comment",

	// Parser errors
	ErrUnexpectedToken:       "Unexpected token",
	ErrExpectedIdentifier:    "Expected identifier",
	ErrExpectedEnd:           "Expected 'end'",
	ErrExpectedParen:         "Expected '(' or ')'",
	ErrExpectedBracket:       "Expected '[' or ']'",
	ErrExpectedBrace:         "Expected '{' or '}'",
	ErrInvalidAssignment:     "Invalid assignment target",
	ErrInvalidCommandSyntax:  "Invalid command syntax",
	ErrMissingFunctionEnd:    "Function must be terminated with 'end'",
	ErrInvalidClassBlock:     "Invalid block in class definition",
	ErrInvalidSignature:      "Invalid function signature",
	ErrUnexpectedEOF:         "Unexpected end of file",
	ErrMaxDepthExceeded:      "Maximum nesting depth exceeded",
	ErrInvalidStatement:      "Invalid statement",
	ErrInvalidValidation:     "Invalid validation entry",
	ErrInvalidImport:         "Invalid import",
	ErrNestedFunctionInBlock: "Function definitions cannot appear inside control blocks",

	// Parser warnings
	ErrOutsideLoop:         "Statement must appear inside a loop",
	ErrChainedComparison:   "Chained comparison is probably a mistake",
	ErrSingleDimension:     "Dimension constraint must have more than one entry",
	ErrVoidWithoutComma:    "Void output should be followed by a comma",
	ErrBuiltinShadow:       "Assignment shadows a builtin",
	ErrMissingSemicolon:    "Statement should be terminated with a semicolon",
	ErrCommaTerminator:     "Statement should be terminated with a semicolon, not a comma",
	ErrRedundantTerminator: "Redundant statement terminator",
	ErrParserDiagnostic:    "Parser diagnostic",

	// Driver errors
	ErrFileUnreadable: "File could not be read",
}

// GetErrorMessage returns the default message for an error code
func GetErrorMessage(code string) string {
	if msg, ok := ErrorMessages[code]; ok {
		return msg
	}
	return "Unknown error"
}

// GetPhaseForCode returns the phase name for an error code
func GetPhaseForCode(code string) string {
	if len(code) != 4 || code[0] != 'E' {
		return "unknown"
	}

	switch {
	case code >= "E001" && code <= "E099":
		return "lexer"
	case code >= "E100" && code <= "E199":
		return "parser"
	case code >= "E200" && code <= "E249":
		return "driver"
	default:
		return "unknown"
	}
}
