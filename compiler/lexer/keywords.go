package lexer

// keywords is the set of reserved words as of MATLAB 2019b. The class and
// validation block words (properties, methods, events, enumeration,
// arguments) are contextual and are lexed as identifiers; the parser
// recognises them by position.
var keywords = map[string]bool{
	"break":      true,
	"case":       true,
	"catch":      true,
	"classdef":   true,
	"continue":   true,
	"else":       true,
	"elseif":     true,
	"end":        true,
	"for":        true,
	"function":   true,
	"global":     true,
	"if":         true,
	"import":     true,
	"otherwise":  true,
	"parfor":     true,
	"persistent": true,
	"return":     true,
	"spmd":       true,
	"switch":     true,
	"try":        true,
	"while":      true,
}

// IsKeyword reports whether the given word is a reserved MATLAB keyword
func IsKeyword(word string) bool {
	return keywords[word]
}

// operators lists every multi and single character operator, longest first,
// so that a prefix scan finds the longest match.
var operators = []string{
	"&&", "||", "==", "~=", "<=", ">=",
	".*", "./", ".\\", ".^", ".'",
	"+", "-", "*", "/", "\\", "^", "'",
	"<", ">", "&", "|", "~",
}
