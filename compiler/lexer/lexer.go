package lexer

import (
	"strings"
	"unicode"
)

// bracketFrame records an open bracket and whether it was classified as
// the start of an assignment target list
type bracketFrame struct {
	open       rune
	assignment bool
	lambda     bool // parameter list of an anonymous function
}

// Lexer tokenizes MATLAB source code.
//
// The lexer is pull based: Next returns one token at a time so that context
// it has already seen (bracket nesting, statement starts, command syntax)
// can influence how the following characters are classified.
type Lexer struct {
	source      []rune // Source code as runes for Unicode support
	file        string // Source file path
	start       int    // Start position of current token
	current     int    // Current position in source
	line        int    // Current line number
	column      int    // Current column number
	startLine   int    // Line where current token started
	startColumn int    // Column where current token started

	index        int            // Index handed to the next token
	brackets     []bracketFrame // Open (, [ and {
	last         Token          // Last significant token
	hasLast      bool
	lineHasToken bool
	carryWS      bool
	afterLambda  bool // last token closed a lambda parameter list

	statementStart bool // Next token starts a statement
	commandAt      int  // Position after which command syntax begins, -1 if none
	inCommand      bool // Lexing command syntax arguments
	noCommand      bool // Inside a properties or arguments block
	sawClassdef    bool
	octave         bool // Octave dialect: '#' comments and '!' negation

	errors []LexError
}

// New creates a new Lexer for the given source code
func New(source, file string) *Lexer {
	return &Lexer{
		source:         []rune(source),
		file:           file,
		line:           1,
		column:         1,
		startLine:      1,
		startColumn:    1,
		commandAt:      -1,
		statementStart: true,
		errors:         make([]LexError, 0),
	}
}

// NewOctave creates a Lexer for the Octave dialect, where '#' also starts
// a comment and '!' is logical negation instead of a shell escape
func NewOctave(source, file string) *Lexer {
	l := New(source, file)
	l.octave = true
	return l
}

// Errors returns the lexical errors seen so far
func (l *Lexer) Errors() []LexError {
	return l.errors
}

// ScanTokens scans all tokens from the source and returns them with any errors.
// The final token is always TOKEN_EOF.
func (l *Lexer) ScanTokens() ([]Token, []LexError) {
	tokens := make([]Token, 0, len(l.source)/4)
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Type == TOKEN_EOF {
			break
		}
	}
	return tokens, l.errors
}

// Next returns the next token. Once the end of the input is reached it
// keeps returning TOKEN_EOF.
func (l *Lexer) Next() Token {
	if l.commandAt >= 0 && l.current >= l.commandAt {
		l.inCommand = true
		l.commandAt = -1
	}

	ws := l.carryWS
	l.carryWS = false
	for !l.isAtEnd() && isBlank(l.peek()) {
		l.advance()
		ws = true
	}

	l.start = l.current
	l.startLine = l.line
	l.startColumn = l.column

	if l.isAtEnd() {
		return l.makeToken(TOKEN_EOF, "", ws)
	}

	if l.inCommand {
		switch c := l.peek(); {
		case c == '\n' || c == ';' || c == ',' || l.isCommentStart(c):
			l.inCommand = false
		default:
			return l.scanCommandArgument(ws)
		}
	}

	if l.needsImplicitComma(ws) {
		l.carryWS = true
		tok := l.makeToken(TOKEN_COMMA, ",", ws)
		tok.Lexeme = ""
		tok.Synthetic = true
		return tok
	}

	r := l.advance()

	switch {
	case l.isCommentStart(r):
		return l.scanComment(ws)

	case r == '\n':
		return l.makeToken(TOKEN_NEWLINE, "\n", ws)

	case r == '.' && l.peek() == '.' && l.peekNext() == '.':
		for !l.isAtEnd() {
			if l.advance() == '\n' {
				break
			}
		}
		return l.makeToken(TOKEN_CONTINUATION, "...", ws)

	case isAlpha(r):
		return l.scanIdentifier(ws)

	case isDigit(r) || (r == '.' && isDigit(l.peek())):
		return l.scanNumber(r, ws)

	case r == '\'':
		if l.isTranspose(ws) {
			return l.makeToken(TOKEN_OPERATOR, "'", ws)
		}
		return l.scanQuoted('\'', TOKEN_CARRAY, ws)

	case r == '"':
		return l.scanQuoted('"', TOKEN_STRING, ws)
	}

	switch r {
	case '.':
		switch l.peek() {
		case '*', '/', '\\', '^', '\'':
			l.advance()
			return l.makeToken(TOKEN_OPERATOR, string(l.source[l.start:l.current]), ws)
		}
		return l.makeToken(TOKEN_SELECTION, ".", ws)

	case '=':
		if l.match('=') {
			return l.makeToken(TOKEN_OPERATOR, "==", ws)
		}
		return l.makeToken(TOKEN_ASSIGNMENT, "=", ws)

	case '~':
		if l.match('=') {
			return l.makeToken(TOKEN_OPERATOR, "~=", ws)
		}
		return l.makeToken(TOKEN_OPERATOR, "~", ws)

	case '<', '>':
		l.match('=')
		return l.makeToken(TOKEN_OPERATOR, string(l.source[l.start:l.current]), ws)

	case '&', '|':
		l.match(r)
		return l.makeToken(TOKEN_OPERATOR, string(l.source[l.start:l.current]), ws)

	case '+', '-', '*', '/', '\\', '^':
		return l.makeToken(TOKEN_OPERATOR, string(r), ws)

	case '!':
		if l.octave {
			if l.match('=') {
				return l.makeToken(TOKEN_OPERATOR, "~=", ws)
			}
			return l.makeToken(TOKEN_OPERATOR, "~", ws)
		}
		if l.statementStart && len(l.brackets) == 0 {
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
			return l.makeToken(TOKEN_BANG, string(l.source[l.start+1:l.current]), ws)
		}
		if l.match('=') {
			return l.makeToken(TOKEN_OPERATOR, "~=", ws)
		}
		return l.makeError("unexpected character '!'", ws)

	case ',':
		return l.makeToken(TOKEN_COMMA, ",", ws)
	case ';':
		return l.makeToken(TOKEN_SEMICOLON, ";", ws)
	case ':':
		return l.makeToken(TOKEN_COLON, ":", ws)
	case '@':
		return l.makeToken(TOKEN_AT, "@", ws)
	case '?':
		return l.makeToken(TOKEN_METACLASS, "?", ws)

	case '(':
		l.brackets = append(l.brackets, bracketFrame{open: '(', lambda: l.lastIs(TOKEN_AT, "")})
		return l.makeToken(TOKEN_BRA, "(", ws)
	case ')':
		frame := l.popBracket()
		tok := l.makeToken(TOKEN_KET, ")", ws)
		l.afterLambda = frame.lambda
		return tok
	case '{':
		l.brackets = append(l.brackets, bracketFrame{open: '{'})
		return l.makeToken(TOKEN_C_BRA, "{", ws)
	case '}':
		l.popBracket()
		return l.makeToken(TOKEN_C_KET, "}", ws)
	case '[':
		assignment := false
		if (l.statementStart && len(l.brackets) == 0) || l.lastIs(TOKEN_KEYWORD, "function") {
			assignment = l.closesIntoAssignment()
		}
		l.brackets = append(l.brackets, bracketFrame{open: '[', assignment: assignment})
		if assignment {
			return l.makeToken(TOKEN_A_BRA, "[", ws)
		}
		return l.makeToken(TOKEN_M_BRA, "[", ws)
	case ']':
		frame := l.popBracket()
		if frame.assignment {
			return l.makeToken(TOKEN_A_KET, "]", ws)
		}
		return l.makeToken(TOKEN_M_KET, "]", ws)
	}

	return l.makeError("unexpected character "+quoteRune(r), ws)
}

// scanIdentifier scans an identifier or keyword and decides whether the
// statement it starts uses command syntax
func (l *Lexer) scanIdentifier(ws bool) Token {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}
	word := string(l.source[l.start:l.current])
	atStatementStart := l.statementStart && len(l.brackets) == 0

	if keywords[word] {
		switch {
		case word == "classdef":
			l.sawClassdef = true
		case word == "end" && atStatementStart:
			l.noCommand = false
		}
		return l.makeToken(TOKEN_KEYWORD, word, ws)
	}

	if atStatementStart {
		if l.opensValidationBlock(word) {
			l.noCommand = true
		} else if !l.noCommand {
			if end, ok := l.commandSyntaxAfter(l.current); ok {
				l.commandAt = end
			}
		}
	}
	return l.makeToken(TOKEN_IDENTIFIER, word, ws)
}

// scanNumber scans a numeric literal. The first rune is already consumed.
func (l *Lexer) scanNumber(first rune, ws bool) Token {
	if first != '.' {
		for isDigit(l.peek()) {
			l.advance()
		}
		// 1.*x is 1 .* x, and 1... is a continuation
		if l.peek() == '.' && !isOperatorDot(l.peekNext()) && l.peekNext() != '.' {
			l.advance()
		}
	}
	for isDigit(l.peek()) {
		l.advance()
	}

	if p := l.peek(); p == 'e' || p == 'E' {
		n := l.peekNext()
		if isDigit(n) || ((n == '+' || n == '-') && isDigit(l.peekAt(l.current+2))) {
			l.advance()
			l.advance()
			for isDigit(l.peek()) {
				l.advance()
			}
		}
	}

	if p := l.peek(); (p == 'i' || p == 'j') && !isAlphaNumeric(l.peekNext()) {
		l.advance()
	}

	return l.makeToken(TOKEN_NUMBER, string(l.source[l.start:l.current]), ws)
}

// scanQuoted scans a char array or string whose opening quote has already
// been consumed. A doubled quote stands for one literal quote.
func (l *Lexer) scanQuoted(quote rune, tokenType TokenType, ws bool) Token {
	var sb strings.Builder
	for {
		if l.isAtEnd() || l.peek() == '\n' {
			if tokenType == TOKEN_STRING {
				return l.makeError("unterminated string", ws)
			}
			return l.makeError("unterminated char array", ws)
		}
		r := l.advance()
		if r == quote {
			if l.peek() == quote {
				l.advance()
				sb.WriteRune(quote)
				continue
			}
			break
		}
		sb.WriteRune(r)
	}
	return l.makeToken(tokenType, sb.String(), ws)
}

// scanComment scans a line comment or a %{ ... %} block comment. The
// percent sign has already been consumed.
func (l *Lexer) scanComment(ws bool) Token {
	if l.peek() == '{' && !l.lineHasToken && l.restOfLineBlank(l.current+1) {
		closing := string(l.source[l.start]) + "}"
		l.advance()
		for !l.isAtEnd() {
			if l.advance() != '\n' {
				continue
			}
			lineStart := l.current
			end := lineStart
			for end < len(l.source) && l.source[end] != '\n' {
				end++
			}
			if strings.TrimSpace(string(l.source[lineStart:end])) == closing {
				for l.current < end {
					l.advance()
				}
				break
			}
		}
		text := string(l.source[l.start:l.current])
		return l.makeToken(TOKEN_COMMENT, text, ws)
	}

	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
	return l.makeToken(TOKEN_COMMENT, string(l.source[l.start+1:l.current]), ws)
}

// scanCommandArgument scans one whitespace separated command syntax word.
// Quoted sections may contain blanks and are unquoted in the value.
func (l *Lexer) scanCommandArgument(ws bool) Token {
	var sb strings.Builder
	for !l.isAtEnd() {
		c := l.peek()
		if isBlank(c) || c == '\n' || c == ';' || c == ',' {
			break
		}
		l.advance()
		if c != '\'' {
			sb.WriteRune(c)
			continue
		}
		for {
			if l.isAtEnd() || l.peek() == '\n' {
				return l.makeError("unterminated char array in command syntax", ws)
			}
			r := l.advance()
			if r == '\'' {
				if l.peek() == '\'' {
					l.advance()
					sb.WriteRune('\'')
					continue
				}
				break
			}
			sb.WriteRune(r)
		}
	}
	return l.makeToken(TOKEN_CARRAY, sb.String(), ws)
}

// commandSyntaxAfter checks whether the identifier ending at pos (possibly
// continued by a dotted chain) is followed by command syntax arguments.
// It returns the position where the arguments begin.
func (l *Lexer) commandSyntaxAfter(pos int) (int, bool) {
	p := pos
	for l.peekAt(p) == '.' && isAlpha(l.peekAt(p+1)) {
		p++
		for isAlphaNumeric(l.peekAt(p)) {
			p++
		}
	}
	if !isBlank(l.peekAt(p)) {
		return 0, false
	}

	q := p
	for isBlank(l.peekAt(q)) {
		q++
	}
	if q >= len(l.source) {
		return 0, false
	}

	if l.isCommentStart(l.source[q]) {
		return 0, false
	}
	switch c := l.source[q]; c {
	case '\n', ';', ',', '(':
		return 0, false
	case '=':
		if l.peekAt(q+1) != '=' {
			return 0, false
		}
	case '.':
		if l.hasPrefixAt(q, "...") {
			return 0, false
		}
	}

	for _, op := range operators {
		if !l.hasPrefixAt(q, op) {
			continue
		}
		if op == "'" {
			return p, true
		}
		after := l.peekAt(q + len(op))
		// an operator followed by a blank reads as a binary expression
		if after == 0 || isBlank(after) || after == '\n' {
			return 0, false
		}
		return p, true
	}

	return p, true
}

// opensValidationBlock reports whether word at the start of a statement
// opens a properties or arguments block, where command syntax is disabled
func (l *Lexer) opensValidationBlock(word string) bool {
	if word != "arguments" && !(word == "properties" && l.sawClassdef) {
		return false
	}
	q := l.current
	for isBlank(l.peekAt(q)) {
		q++
	}
	switch l.peekAt(q) {
	case 0, '\n', '%', '(':
		return true
	}
	return false
}

// closesIntoAssignment scans ahead from just after an opening bracket and
// reports whether its matching bracket is followed by an assignment
func (l *Lexer) closesIntoAssignment() bool {
	depth := 1
	for i := l.current; i < len(l.source); i++ {
		c := l.source[i]
		if l.isCommentStart(c) {
			return false
		}
		switch c {
		case '\n':
			return false
		case '\'':
			if !l.quoteOpensCharArray(i, depth) {
				continue
			}
			for i++; i < len(l.source) && l.source[i] != '\n'; i++ {
				if l.source[i] != '\'' {
					continue
				}
				if l.peekAt(i+1) != '\'' {
					break
				}
				i++
			}
			if i >= len(l.source) || l.source[i] == '\n' {
				return false
			}
		case '.':
			if l.hasPrefixAt(i, "...") {
				for i < len(l.source) && l.source[i] != '\n' {
					i++
				}
			}
		case '"':
			for i++; i < len(l.source) && l.source[i] != '"' && l.source[i] != '\n'; i++ {
			}
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				j := i + 1
				for isBlank(l.peekAt(j)) {
					j++
				}
				return l.peekAt(j) == '=' && l.peekAt(j+1) != '='
			}
		}
	}
	return false
}

// quoteOpensCharArray decides from the raw source whether the quote at pos
// starts a char array, following the same rule as isTranspose. depth is the
// bracket nesting relative to the bracket being scanned.
func (l *Lexer) quoteOpensCharArray(pos, depth int) bool {
	j := pos - 1
	blank := false
	for j >= 0 && isBlank(l.source[j]) {
		blank = true
		j--
	}
	if j < 0 || (blank && depth == 1) {
		return true
	}
	switch c := l.source[j]; {
	case isAlphaNumeric(c), c == ')', c == ']', c == '}', c == '\'', c == '"', c == '.':
		return false
	}
	return true
}

// needsImplicitComma reports whether blanks inside a matrix separate two
// elements, in which case a synthetic comma is emitted
func (l *Lexer) needsImplicitComma(ws bool) bool {
	if !ws || !l.inMatrix() || !l.hasLast || !endsValue(l.last) || l.afterLambda {
		return false
	}
	r, n := l.peek(), l.peekNext()
	switch {
	case isAlpha(r), isDigit(r):
		return true
	case r == '"', r == '\'', r == '(', r == '[', r == '{', r == '@', r == '?':
		return true
	case r == '.':
		return isDigit(n)
	case r == '~':
		return n != '='
	case r == '+', r == '-':
		return !isBlank(n) && n != '\n' && n != '='
	}
	return false
}

// isTranspose decides whether a single quote is the transpose operator or
// the start of a char array
func (l *Lexer) isTranspose(ws bool) bool {
	if !l.hasLast || (ws && l.inMatrix()) {
		return false
	}
	return endsValue(l.last)
}

func (l *Lexer) inMatrix() bool {
	if len(l.brackets) == 0 {
		return false
	}
	open := l.brackets[len(l.brackets)-1].open
	return open == '[' || open == '{'
}

func (l *Lexer) popBracket() bracketFrame {
	if len(l.brackets) == 0 {
		return bracketFrame{}
	}
	frame := l.brackets[len(l.brackets)-1]
	l.brackets = l.brackets[:len(l.brackets)-1]
	return frame
}

func (l *Lexer) lastIs(tokenType TokenType, value string) bool {
	return l.hasLast && l.last.Is(tokenType, value)
}

// endsValue reports whether a token can end an operand
func endsValue(t Token) bool {
	switch t.Type {
	case TOKEN_IDENTIFIER, TOKEN_NUMBER, TOKEN_CARRAY, TOKEN_STRING,
		TOKEN_KET, TOKEN_C_KET, TOKEN_M_KET, TOKEN_A_KET:
		return true
	case TOKEN_KEYWORD:
		return t.Value == "end"
	case TOKEN_OPERATOR:
		return t.Value == "'" || t.Value == ".'"
	}
	return false
}

// makeToken builds a token from the current lexeme and updates the
// statement and line tracking state
func (l *Lexer) makeToken(tokenType TokenType, value string, ws bool) Token {
	endColumn := l.column - 1
	if l.line != l.startLine || endColumn < l.startColumn {
		endColumn = l.startColumn
	}

	tok := Token{
		Type:                 tokenType,
		Lexeme:               string(l.source[l.start:l.current]),
		Value:                value,
		File:                 l.file,
		Line:                 l.startLine,
		Column:               l.startColumn,
		EndColumn:            endColumn,
		Index:                l.index,
		FirstInLine:          !l.lineHasToken,
		PrecededByWhitespace: ws,
	}
	l.index++
	l.afterLambda = false

	switch tokenType {
	case TOKEN_NEWLINE, TOKEN_CONTINUATION:
		l.lineHasToken = false
	case TOKEN_COMMENT:
		l.lineHasToken = l.line == l.startLine
	default:
		l.lineHasToken = true
	}

	switch tokenType {
	case TOKEN_COMMENT, TOKEN_CONTINUATION:
		return tok
	case TOKEN_NEWLINE:
		l.statementStart = len(l.brackets) == 0
		l.inCommand = false
	case TOKEN_COMMA, TOKEN_SEMICOLON:
		if len(l.brackets) == 0 {
			l.statementStart = true
			l.inCommand = false
		}
	default:
		l.statementStart = false
	}

	l.last = tok
	l.hasLast = true
	return tok
}

// makeError records a lexical error and returns a TOKEN_ERROR carrying the
// message as its value
func (l *Lexer) makeError(message string, ws bool) Token {
	l.errors = append(l.errors, LexError{
		Message: message,
		Line:    l.startLine,
		Column:  l.startColumn,
		File:    l.file,
	})
	return l.makeToken(TOKEN_ERROR, message, ws)
}

func (l *Lexer) isCommentStart(r rune) bool {
	return r == '%' || (l.octave && r == '#')
}

// isAtEnd checks if we've reached the end of the source
func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

// advance consumes and returns the current character
func (l *Lexer) advance() rune {
	r := l.source[l.current]
	l.current++
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

// match consumes the current character if it is the expected one
func (l *Lexer) match(expected rune) bool {
	if l.isAtEnd() || l.source[l.current] != expected {
		return false
	}
	l.advance()
	return true
}

// peek returns the current character without consuming it
func (l *Lexer) peek() rune {
	return l.peekAt(l.current)
}

// peekNext returns the character after the current one
func (l *Lexer) peekNext() rune {
	return l.peekAt(l.current + 1)
}

// peekAt returns the character at pos, or 0 past the end of the source
func (l *Lexer) peekAt(pos int) rune {
	if pos < 0 || pos >= len(l.source) {
		return 0
	}
	return l.source[pos]
}

func (l *Lexer) hasPrefixAt(pos int, prefix string) bool {
	for i, r := range []rune(prefix) {
		if l.peekAt(pos+i) != r {
			return false
		}
	}
	return true
}

func (l *Lexer) restOfLineBlank(pos int) bool {
	for ; pos < len(l.source) && l.source[pos] != '\n'; pos++ {
		if !isBlank(l.source[pos]) {
			return false
		}
	}
	return true
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return unicode.IsLetter(r)
}

func isAlphaNumeric(r rune) bool {
	return unicode.IsLetter(r) || isDigit(r) || r == '_'
}

func isOperatorDot(r rune) bool {
	return r == '*' || r == '/' || r == '\\' || r == '^' || r == '\''
}

func quoteRune(r rune) string {
	return "'" + string(r) + "'"
}
