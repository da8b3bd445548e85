package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/CerenB/miss-hit/compiler/errors"
	"github.com/CerenB/miss-hit/compiler/lexer"
)

// DefaultMaxDepth bounds the nesting of expressions and statements
const DefaultMaxDepth = 256

// TokenSource produces tokens one at a time and keeps returning TOKEN_EOF
// once the input is exhausted. Both *lexer.Lexer and *lexer.TokenStream
// satisfy it.
type TokenSource interface {
	Next() lexer.Token
}

// Parser builds the AST of one MATLAB file. A Parser is single use and
// owns all of its state, so files can be parsed concurrently with one
// Parser each.
type Parser struct {
	src      TokenSource
	filename string
	lastType lexer.TokenType
	started  bool

	ct  lexer.Token // current, the last consumed token
	nt  lexer.Token // next
	nnt lexer.Token // next-next

	handler     errors.MessageHandler
	rules       RuleSet
	arena       *Arena
	annotations *Annotations
	ctx         ContextStack

	// functionsRequireEnd becomes true the first time a function is
	// closed with 'end', or up front for scripts and classes
	functionsRequireEnd bool

	depth    int
	maxDepth int
	inIndex  int // > 0 while parsing the arguments of a reference
}

// Option configures a Parser
type Option func(*Parser)

// WithMaxDepth sets the maximum nesting depth
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// WithMessageHandler sets the receiver of diagnostics
func WithMessageHandler(handler errors.MessageHandler) Option {
	return func(p *Parser) {
		if handler != nil {
			p.handler = handler
		}
	}
}

// WithRules sets the active parser checks
func WithRules(rules RuleSet) Option {
	return func(p *Parser) {
		if rules != nil {
			p.rules = rules
		}
	}
}

// WithFilename sets the file name used for locations at end of file and
// for the name of the compilation unit
func WithFilename(name string) Option {
	return func(p *Parser) {
		p.filename = name
	}
}

// New creates a new Parser reading from src
func New(src TokenSource, opts ...Option) *Parser {
	p := &Parser{
		src:         src,
		handler:     errors.NewCollector(""),
		rules:       DefaultRules(),
		arena:       NewArena(),
		annotations: NewAnnotations(),
		maxDepth:    DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseString lexes and parses source in one step
func ParseString(source, filename string, opts ...Option) (CompilationUnit, error) {
	opts = append([]Option{WithFilename(filename)}, opts...)
	return New(lexer.New(source, filename), opts...).ParseFile()
}

// ParseFile parses a whole compilation unit. On a syntax error the error
// is reported to the message handler and returned as a *SyntaxError, and
// no tree is returned. An internal compiler error is returned as an
// *errors.ICE; any other panic is not recovered.
func (p *Parser) ParseFile() (unit CompilationUnit, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case bailout:
				unit, err = nil, e.err
			case *errors.ICE:
				unit, err = nil, e
			default:
				panic(r)
			}
		}
	}()

	if p.started {
		panic(errors.NewICE("parser reused for a second file"))
	}
	p.started = true

	// fill the lookahead window
	p.nt = p.fetch()
	p.nnt = p.fetch()

	unit = p.parseFileInput()
	if depth := p.ctx.Depth(); depth != 0 {
		panic(errors.NewICE(fmt.Sprintf("%d contexts still open at end of file", depth)))
	}
	return unit, nil
}

// Arena returns the arena holding every node of the parse
func (p *Parser) Arena() *Arena {
	return p.arena
}

// Annotations returns the token side table of the parse
func (p *Parser) Annotations() *Annotations {
	return p.annotations
}

// FunctionsRequireEnd reports whether the file's functions are closed
// with 'end'
func (p *Parser) FunctionsRequireEnd() bool {
	return p.functionsRequireEnd
}

// Token window

// fetch reads the next significant token. Comments and continuations are
// dropped and runs of newlines collapse into one.
func (p *Parser) fetch() lexer.Token {
	for {
		tok := p.src.Next()
		switch tok.Type {
		case lexer.TOKEN_COMMENT, lexer.TOKEN_CONTINUATION:
			continue
		case lexer.TOKEN_NEWLINE:
			if p.lastType == lexer.TOKEN_NEWLINE {
				continue
			}
		}
		p.lastType = tok.Type
		return tok
	}
}

// next advances the window by one token
func (p *Parser) next() lexer.Token {
	p.ct = p.nt
	p.nt = p.nnt
	if p.nt.Type != lexer.TOKEN_EOF {
		p.nnt = p.fetch()
	}
	if p.ct.Type == lexer.TOKEN_ERROR {
		p.syntaxError(p.ct, lexErrorCode(p.ct.Value), p.ct.Value)
	}
	return p.ct
}

// peek reports whether the next token has the given type and, if value is
// not empty, the given value
func (p *Parser) peek(tokenType lexer.TokenType, value string) bool {
	return p.nt.Is(tokenType, value)
}

// peekKeyword reports whether the next token is the given keyword
func (p *Parser) peekKeyword(word string) bool {
	return p.nt.Is(lexer.TOKEN_KEYWORD, word)
}

// peekOperator reports whether the next token is one of the operators
func (p *Parser) peekOperator(ops ...string) bool {
	if p.nt.Type != lexer.TOKEN_OPERATOR {
		return false
	}
	for _, op := range ops {
		if p.nt.Value == op {
			return true
		}
	}
	return false
}

// peekNext is peek for the token after next
func (p *Parser) peekNext(tokenType lexer.TokenType, value string) bool {
	return p.nnt.Is(tokenType, value)
}

// match consumes the next token, which must have the given type and, if
// value is not empty, the given value
func (p *Parser) match(tokenType lexer.TokenType, value string) lexer.Token {
	if p.peek(lexer.TOKEN_EOF, "") && tokenType != lexer.TOKEN_EOF {
		p.syntaxError(p.nt, errors.ErrUnexpectedEOF,
			fmt.Sprintf("expected %s, reached EOF instead", describeExpected(tokenType, value)))
	}
	tok := p.next()
	if !tok.Is(tokenType, value) {
		p.syntaxError(tok, codeForExpected(tokenType, value),
			fmt.Sprintf("expected %s, found %s instead", describeExpected(tokenType, value), describeFound(tok)))
	}
	return tok
}

// matchEOF requires that the input is exhausted
func (p *Parser) matchEOF() {
	if !p.peek(lexer.TOKEN_EOF, "") {
		tok := p.next()
		p.syntaxError(tok, errors.ErrUnexpectedToken,
			fmt.Sprintf("expected end of file, found %s instead", describeFound(tok)))
	}
}

// unexpected consumes the next token and reports it as out of place
func (p *Parser) unexpected(what string) {
	tok := p.next()
	p.syntaxError(tok, errors.ErrUnexpectedToken,
		fmt.Sprintf("expected %s, found %s instead", what, describeFound(tok)))
}

func lexErrorCode(message string) string {
	switch {
	case strings.HasPrefix(message, "unterminated string"):
		return errors.ErrUnterminatedString
	case strings.HasPrefix(message, "unterminated char array"):
		return errors.ErrUnterminatedCharArray
	default:
		return errors.ErrInvalidCharacter
	}
}

func describeExpected(tokenType lexer.TokenType, value string) string {
	if value == "" {
		return tokenType.String()
	}
	return fmt.Sprintf("%s(%s)", tokenType, value)
}

func describeFound(tok lexer.Token) string {
	switch tok.Type {
	case lexer.TOKEN_KEYWORD, lexer.TOKEN_IDENTIFIER, lexer.TOKEN_OPERATOR:
		return fmt.Sprintf("%s(%s)", tok.Type, tok.Value)
	default:
		return tok.Type.String()
	}
}

func codeForExpected(tokenType lexer.TokenType, value string) string {
	switch tokenType {
	case lexer.TOKEN_IDENTIFIER:
		return errors.ErrExpectedIdentifier
	case lexer.TOKEN_BRA, lexer.TOKEN_KET:
		return errors.ErrExpectedParen
	case lexer.TOKEN_M_BRA, lexer.TOKEN_M_KET, lexer.TOKEN_A_BRA, lexer.TOKEN_A_KET:
		return errors.ErrExpectedBracket
	case lexer.TOKEN_C_BRA, lexer.TOKEN_C_KET:
		return errors.ErrExpectedBrace
	case lexer.TOKEN_KEYWORD:
		if value == "end" {
			return errors.ErrExpectedEnd
		}
	}
	return errors.ErrUnexpectedToken
}

// Diagnostics

// syntaxError reports a fatal error at tok and abandons the parse
func (p *Parser) syntaxError(tok lexer.Token, code, message string) {
	p.syntaxErrorAt(p.locationOf(tok), code, message)
}

func (p *Parser) syntaxErrorAt(loc SourceLocation, code, message string) {
	if r, ok := p.handler.(errors.Reporter); ok {
		r.Report(errors.NewCompilerError("parser", code, message, loc, errors.Fatal))
	} else {
		p.handler.Error(loc, message)
	}
	panic(bailout{err: &SyntaxError{Code: code, Message: message, Location: loc}})
}

// warn reports a soft diagnostic; parsing continues
func (p *Parser) warn(loc SourceLocation, code, message string) {
	if r, ok := p.handler.(errors.Reporter); ok {
		r.Report(errors.NewCompilerError("parser", code, message, loc, errors.Warning))
		return
	}
	p.handler.Warning(loc, message, false)
}

func (p *Parser) locationOf(tok lexer.Token) SourceLocation {
	loc := TokenToLocation(tok)
	if loc.File == "" {
		loc.File = p.filename
	}
	return loc
}

// nest guards recursion depth. Use as: defer p.nest()()
func (p *Parser) nest() func() {
	p.depth++
	if p.depth > p.maxDepth {
		p.syntaxError(p.nt, errors.ErrMaxDepthExceeded,
			fmt.Sprintf("maximum nesting depth of %d exceeded", p.maxDepth))
	}
	return func() { p.depth-- }
}

// own links tokens to the node that consumed them
func (p *Parser) own(n Node, toks ...lexer.Token) {
	for _, tok := range toks {
		p.annotations.SetOwner(tok, n.NodeID())
	}
}

// unitName derives the compilation unit name from the file name
func (p *Parser) unitName() string {
	base := filepath.Base(p.filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
