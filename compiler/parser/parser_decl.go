package parser

import (
	"fmt"

	"github.com/CerenB/miss-hit/compiler/errors"
	"github.com/CerenB/miss-hit/compiler/lexer"
)

// parseFileInput decides the kind of compilation unit from its first
// significant token
func (p *Parser) parseFileInput() CompilationUnit {
	for p.peek(lexer.TOKEN_NEWLINE, "") {
		p.next()
	}

	switch {
	case p.peekKeyword("function"):
		return p.parseFunctionFile()
	case p.peekKeyword("classdef"):
		return p.parseClassFile()
	default:
		return p.parseScriptFile()
	}
}

// parseScriptFile parses statements followed by local functions. Local
// functions in scripts always need 'end'.
func (p *Parser) parseScriptFile() *ScriptFile {
	unit := &ScriptFile{node: at(p.nt), Name: p.unitName()}
	unit.Statements = p.parseStatementList()

	if p.peekKeyword("function") {
		p.functionsRequireEnd = true
		unit.Functions = p.parseFunctionDefinitions()
	}
	p.matchEOF()
	return track(p.arena, unit)
}

// parseFunctionFile parses a file of functions
func (p *Parser) parseFunctionFile() *FunctionFile {
	unit := &FunctionFile{node: at(p.nt), Name: p.unitName()}
	unit.Functions = p.parseFunctionDefinitions()
	p.matchEOF()
	return track(p.arena, unit)
}

// parseClassFile parses a classdef and any local functions after it
func (p *Parser) parseClassFile() *ClassFile {
	unit := &ClassFile{node: at(p.nt), Name: p.unitName()}
	p.functionsRequireEnd = true
	unit.Class = p.parseClassDefinition()
	for p.peek(lexer.TOKEN_NEWLINE, "") {
		p.next()
	}
	if p.peekKeyword("function") {
		unit.Functions = p.parseFunctionDefinitions()
	}
	p.matchEOF()
	return track(p.arena, unit)
}

// parseFunctionDefinitions parses consecutive top level functions and
// undoes the provisional nesting of functions that were not closed with
// 'end'
func (p *Parser) parseFunctionDefinitions() []*FunctionDefinition {
	var functions []*FunctionDefinition
	for p.peekKeyword("function") {
		functions = append(functions, flatten(p.parseFunctionDefinition())...)
		for p.peek(lexer.TOKEN_NEWLINE, "") {
			p.next()
		}
	}
	return functions
}

// flatten turns an unterminated function and the functions it absorbed
// into a list of siblings, in source order. Only functions closed with
// 'end' can really have nested functions.
func flatten(fn *FunctionDefinition) []*FunctionDefinition {
	var result []*FunctionDefinition
	pending := []*FunctionDefinition{fn}
	for len(pending) > 0 {
		next := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		result = append(result, next)
		if next.Terminated {
			continue
		}
		absorbed := next.Nested
		next.Nested = nil
		for i := len(absorbed) - 1; i >= 0; i-- {
			pending = append(pending, absorbed[i])
		}
	}
	return result
}

// pendingFunction is a function whose body has been parsed but which is not
// closed yet
type pendingFunction struct {
	fn *FunctionDefinition
	kw lexer.Token
}

// parseFunctionDefinition parses a function with its body and any nested
// functions.
//
// Whether functions end with 'end' is only known once the first 'end'
// closing a function is seen. Until then, a function that meets the next
// 'function' keyword absorbs it as a nested function; parseFunctionDefinitions
// flattens those again if the file never uses 'end'. Open functions are
// kept on an explicit stack, since a file without 'end' chains every
// function into the one before it.
func (p *Parser) parseFunctionDefinition() *FunctionDefinition {
	open := []pendingFunction{p.openFunction()}
	for {
		if p.peekKeyword("function") {
			open = append(open, p.openFunction())
			continue
		}

		fn := p.closeFunction(open[len(open)-1])
		open = open[:len(open)-1]
		if len(open) == 0 {
			return fn
		}
		parent := open[len(open)-1].fn
		parent.Nested = append(parent.Nested, fn)
		for p.peek(lexer.TOKEN_NEWLINE, "") {
			p.next()
		}
	}
}

// openFunction parses a function header, its arguments blocks and its body
func (p *Parser) openFunction() pendingFunction {
	kw := p.nt
	fn := &FunctionDefinition{node: at(kw)}
	fn.Signature = p.parseFunctionSignature()

	p.ctx.Push(ContextFunction)
	for p.peekArgumentsBlock() {
		fn.Validation = append(fn.Validation, p.parseValidationBlock(BlockArguments))
		for p.peek(lexer.TOKEN_NEWLINE, "") {
			p.next()
		}
	}
	fn.Body = p.parseStatementList()
	return pendingFunction{fn: fn, kw: kw}
}

// closeFunction consumes the 'end' of a function, or reports its absence
// once the file is known to terminate functions
func (p *Parser) closeFunction(f pendingFunction) *FunctionDefinition {
	fn := f.fn
	p.ctx.Pop()

	var endTok lexer.Token
	switch {
	case p.peekKeyword("end"):
		endTok = p.match(lexer.TOKEN_KEYWORD, "end")
		fn.Terminated = true
		p.functionsRequireEnd = true
		p.parseHeaderEnd()
	case p.functionsRequireEnd:
		name, _ := DottedName(fn.Signature.Name)
		loc := p.locationOf(p.nt)
		if p.peek(lexer.TOKEN_EOF, "") {
			loc = p.locationOf(f.kw)
		}
		p.syntaxErrorAt(loc, errors.ErrMissingFunctionEnd,
			fmt.Sprintf("function %s must be terminated with end", name))
	}

	fn = track(p.arena, fn)
	if fn.Terminated {
		p.own(fn, endTok)
	}
	return fn
}

// parseFunctionSignature parses the function header up to and including
// the end of its line
func (p *Parser) parseFunctionSignature() *FunctionSignature {
	kw := p.nt
	keyword := p.peekKeyword("function")
	if keyword {
		p.next()
	}
	sig := &FunctionSignature{node: at(kw), Inputs: []*Identifier{}, Outputs: []*Identifier{}}

	if p.peek(lexer.TOKEN_A_BRA, "") {
		p.match(lexer.TOKEN_A_BRA, "")
		for !p.peek(lexer.TOKEN_A_KET, "") {
			sig.Outputs = append(sig.Outputs, p.parseIdentifierOrVoid())
			if !p.peek(lexer.TOKEN_COMMA, "") {
				break
			}
			p.match(lexer.TOKEN_COMMA, "")
		}
		p.match(lexer.TOKEN_A_KET, "")
		p.match(lexer.TOKEN_ASSIGNMENT, "")
		sig.Name = p.parseDottedName()
	} else {
		first := p.parseDottedName()
		if p.peek(lexer.TOKEN_ASSIGNMENT, "") {
			// 'function r = name(...)': the single unbracketed name was
			// the output
			out, ok := first.(*Identifier)
			if !ok {
				p.syntaxErrorAt(first.GetLocation(), errors.ErrInvalidSignature,
					"function output must be a plain identifier")
			}
			p.match(lexer.TOKEN_ASSIGNMENT, "")
			sig.Outputs = append(sig.Outputs, out)
			sig.Name = p.parseDottedName()
		} else {
			sig.Name = first
		}
	}

	if p.peek(lexer.TOKEN_BRA, "") {
		p.match(lexer.TOKEN_BRA, "")
		for !p.peek(lexer.TOKEN_KET, "") {
			sig.Inputs = append(sig.Inputs, p.parseIdentifierOrVoid())
			if !p.peek(lexer.TOKEN_COMMA, "") {
				break
			}
			p.match(lexer.TOKEN_COMMA, "")
		}
		p.match(lexer.TOKEN_KET, "")
	}

	switch {
	case p.peek(lexer.TOKEN_NEWLINE, ""), p.peek(lexer.TOKEN_SEMICOLON, ""),
		p.peek(lexer.TOKEN_COMMA, ""), p.peek(lexer.TOKEN_EOF, ""):
		p.parseHeaderEnd()
	default:
		p.unexpected("end of function signature")
	}

	sig = track(p.arena, sig)
	if keyword {
		p.own(sig, kw)
	}
	return sig
}

// peekArgumentsBlock reports whether an arguments block starts here.
// 'arguments' is an ordinary identifier everywhere else.
func (p *Parser) peekArgumentsBlock() bool {
	return p.peek(lexer.TOKEN_IDENTIFIER, "arguments") &&
		(p.peekNext(lexer.TOKEN_NEWLINE, "") || p.peekNext(lexer.TOKEN_BRA, "") ||
			p.peekNext(lexer.TOKEN_SEMICOLON, "") || p.peekNext(lexer.TOKEN_COMMA, ""))
}

// Class definitions

var classBlockKinds = map[string]BlockKind{
	"properties":  BlockProperties,
	"methods":     BlockMethods,
	"events":      BlockEvents,
	"enumeration": BlockEnumeration,
}

// parseClassDefinition parses 'classdef (attrs) Name < A & B ... end'
func (p *Parser) parseClassDefinition() *ClassDefinition {
	kw := p.match(lexer.TOKEN_KEYWORD, "classdef")
	class := &ClassDefinition{node: at(kw)}

	if p.peek(lexer.TOKEN_BRA, "") {
		class.Attributes = p.parseAttributes()
	}
	class.Name = p.parseIdentifier()

	if p.peekOperator("<") {
		p.next()
		for {
			class.Superclasses = append(class.Superclasses, p.parseDottedName())
			if !p.peekOperator("&") {
				break
			}
			p.next()
		}
	}
	p.parseHeaderEnd()

	p.ctx.Push(ContextClassdef)
	for !p.peekKeyword("end") {
		switch {
		case p.peek(lexer.TOKEN_NEWLINE, ""), p.peek(lexer.TOKEN_SEMICOLON, ""), p.peek(lexer.TOKEN_COMMA, ""):
			p.next()
			continue
		case p.peek(lexer.TOKEN_IDENTIFIER, ""):
			if kind, ok := classBlockKinds[p.nt.Value]; ok {
				class.Blocks = append(class.Blocks, p.parseClassBlock(kind))
				continue
			}
		}
		tok := p.next()
		p.syntaxError(tok, errors.ErrInvalidClassBlock,
			fmt.Sprintf("expected properties|methods|events|enumeration|end, found %s instead", describeFound(tok)))
	}
	p.ctx.Pop()

	endTok := p.match(lexer.TOKEN_KEYWORD, "end")
	p.parseHeaderEnd()

	class = track(p.arena, class)
	p.own(class, kw, endTok)
	return class
}

// parseClassBlock dispatches on the kind of a class member block
func (p *Parser) parseClassBlock(kind BlockKind) *SpecialBlock {
	switch kind {
	case BlockProperties:
		return p.parseValidationBlock(kind)
	case BlockMethods:
		return p.parseMethodsBlock()
	case BlockEvents, BlockEnumeration:
		return p.parseListBlock(kind)
	default:
		panic(errors.NewICE(fmt.Sprintf("unexpected class block kind %s", kind)).At(p.locationOf(p.nt)))
	}
}

// openBlock parses the keyword and attribute list of a special block
func (p *Parser) openBlock(kind BlockKind) *SpecialBlock {
	kw := p.match(lexer.TOKEN_IDENTIFIER, kind.String())
	block := &SpecialBlock{node: at(kw), Kind: kind, Items: []BlockItem{}}
	if p.peek(lexer.TOKEN_BRA, "") {
		block.Attributes = p.parseAttributes()
	}
	p.parseHeaderEnd()
	return block
}

// closeBlock consumes the 'end' of a special block
func (p *Parser) closeBlock(block *SpecialBlock) *SpecialBlock {
	endTok := p.match(lexer.TOKEN_KEYWORD, "end")
	p.parseHeaderEnd()
	block = track(p.arena, block)
	p.own(block, endTok)
	return block
}

// skipSeparators consumes blank lines and stray separators between items
func (p *Parser) skipSeparators() {
	for p.peek(lexer.TOKEN_NEWLINE, "") || p.peek(lexer.TOKEN_SEMICOLON, "") || p.peek(lexer.TOKEN_COMMA, "") {
		p.next()
	}
}

// parseAttributes parses '(Name, Name = value, ...)'
func (p *Parser) parseAttributes() []*ClassAttribute {
	p.match(lexer.TOKEN_BRA, "")
	attrs := []*ClassAttribute{}
	for !p.peek(lexer.TOKEN_KET, "") {
		name := p.parseIdentifier()
		attr := &ClassAttribute{node: at(name.Token), Name: name}
		if p.peek(lexer.TOKEN_ASSIGNMENT, "") {
			p.match(lexer.TOKEN_ASSIGNMENT, "")
			attr.Value = p.parseExpression()
		}
		attrs = append(attrs, track(p.arena, attr))
		if !p.peek(lexer.TOKEN_COMMA, "") {
			break
		}
		p.match(lexer.TOKEN_COMMA, "")
	}
	p.match(lexer.TOKEN_KET, "")
	return attrs
}

// parseMethodsBlock parses a methods block. Methods of an Abstract block
// are signatures without a body, with or without the function keyword.
func (p *Parser) parseMethodsBlock() *SpecialBlock {
	block := p.openBlock(BlockMethods)
	abstract := hasTrueAttribute(block.Attributes, "Abstract")

	p.skipSeparators()
	for !p.peekKeyword("end") {
		// a bare signature declares a method defined in its own file
		if abstract || !p.peekKeyword("function") {
			block.Items = append(block.Items, p.parseFunctionSignature())
		} else {
			block.Items = append(block.Items, p.parseFunctionDefinition())
		}
		p.skipSeparators()
	}
	return p.closeBlock(block)
}

// hasTrueAttribute reports whether name is set, either bare or '= true'
func hasTrueAttribute(attrs []*ClassAttribute, name string) bool {
	for _, attr := range attrs {
		if attr.Name.Name != name {
			continue
		}
		if attr.Value == nil {
			return true
		}
		if id, ok := attr.Value.(*Identifier); ok {
			return id.Name == "true"
		}
	}
	return false
}

// parseListBlock parses events (one name per entry) and enumeration
// blocks (a name with optional constructor arguments per entry)
func (p *Parser) parseListBlock(kind BlockKind) *SpecialBlock {
	block := p.openBlock(kind)

	p.skipSeparators()
	for !p.peekKeyword("end") {
		name := p.parseIdentifier()
		if kind == BlockEvents {
			block.Items = append(block.Items, name)
		} else {
			lit := &EnumerationLiteral{node: at(name.Token), Name: name}
			if p.peek(lexer.TOKEN_BRA, "") {
				lit.Args = p.parseArguments(lexer.TOKEN_BRA, lexer.TOKEN_KET)
			}
			block.Items = append(block.Items, track(p.arena, lit))
		}
		p.skipSeparators()
	}
	return p.closeBlock(block)
}

// parseValidationBlock parses a properties or arguments block
func (p *Parser) parseValidationBlock(kind BlockKind) *SpecialBlock {
	block := p.openBlock(kind)

	p.skipSeparators()
	for !p.peekKeyword("end") {
		block.Items = append(block.Items, p.parseValidationEntry(kind))
		p.skipSeparators()
	}
	return p.closeBlock(block)
}

// parseValidationEntry parses one line of a validation block:
//
//	name (dims) class {validators} = default
//
// where everything after the name is optional
func (p *Parser) parseValidationEntry(kind BlockKind) *ValidationEntry {
	entry := &ValidationEntry{node: at(p.nt)}
	if kind == BlockArguments {
		entry.Name = p.parseDottedName()
	} else {
		entry.Name = p.parseIdentifier()
	}

	if p.peek(lexer.TOKEN_BRA, "") {
		open := p.match(lexer.TOKEN_BRA, "")
		var dims []lexer.Token
		for {
			switch {
			case p.peek(lexer.TOKEN_NUMBER, ""), p.peek(lexer.TOKEN_COLON, ""):
				dims = append(dims, p.next())
			default:
				p.unexpected("NUMBER or ':' in dimension constraint")
			}
			if !p.peek(lexer.TOKEN_COMMA, "") {
				break
			}
			p.match(lexer.TOKEN_COMMA, "")
		}
		p.match(lexer.TOKEN_KET, "")

		if len(dims) == 1 && dims[0].Type != lexer.TOKEN_COLON {
			p.warn(p.locationOf(open), errors.ErrSingleDimension,
				"dimension constraint must contain at least two dimensions")
		} else {
			entry.Dimensions = dims
		}
	}

	if p.peek(lexer.TOKEN_IDENTIFIER, "") {
		entry.Class = p.parseDottedName()
	}

	if p.peek(lexer.TOKEN_C_BRA, "") {
		p.match(lexer.TOKEN_C_BRA, "")
		for !p.peek(lexer.TOKEN_C_KET, "") {
			entry.Validators = append(entry.Validators, p.parseReference())
			if !p.peek(lexer.TOKEN_COMMA, "") {
				break
			}
			p.match(lexer.TOKEN_COMMA, "")
		}
		p.match(lexer.TOKEN_C_KET, "")
	}

	if p.peek(lexer.TOKEN_ASSIGNMENT, "") {
		p.match(lexer.TOKEN_ASSIGNMENT, "")
		entry.Default = p.parseExpression()
	}

	switch {
	case p.peek(lexer.TOKEN_NEWLINE, ""), p.peek(lexer.TOKEN_SEMICOLON, ""),
		p.peek(lexer.TOKEN_COMMA, ""), p.peekKeyword("end"):
	default:
		p.unexpected("end of " + kind.String() + " entry")
	}

	return track(p.arena, entry)
}
