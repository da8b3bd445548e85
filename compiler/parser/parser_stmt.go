package parser

import (
	"fmt"

	"github.com/CerenB/miss-hit/compiler/errors"
	"github.com/CerenB/miss-hit/compiler/lexer"
)

// parseStatementList parses statements until a keyword that closes the
// enclosing construct, or the end of the file
func (p *Parser) parseStatementList() *StatementList {
	list := track(p.arena, &StatementList{node: at(p.nt), Statements: []Stmt{}})

	for {
		switch {
		case p.peek(lexer.TOKEN_EOF, ""):
			return list

		case p.peek(lexer.TOKEN_NEWLINE, ""):
			p.next()
			continue

		case p.peek(lexer.TOKEN_SEMICOLON, ""), p.peek(lexer.TOKEN_COMMA, ""):
			tok := p.next()
			if p.rules.Active(RuleEndOfStatements) {
				p.annotations.AddFix(tok, FixDelete)
				p.warn(p.locationOf(tok), errors.ErrRedundantTerminator,
					fmt.Sprintf("redundant '%s'", tok.Lexeme))
			}
			continue

		case p.peekBlockEnd():
			return list

		case p.peekKeyword("function"):
			// a nested function ends the body of its parent; anywhere
			// else parseStatement reports it
			if top, ok := p.ctx.Top(); !ok || top == ContextFunction {
				return list
			}
		}

		list.Statements = append(list.Statements, p.parseStatement())
	}
}

// parseStatement parses a single statement including its terminator
func (p *Parser) parseStatement() Stmt {
	defer p.nest()()

	if p.peek(lexer.TOKEN_KEYWORD, "") {
		switch p.nt.Value {
		case "for":
			return p.parseForStatement()
		case "parfor":
			return p.parseParforStatement()
		case "while":
			return p.parseWhileStatement()
		case "if":
			return p.parseIfStatement()
		case "switch":
			return p.parseSwitchStatement()
		case "try":
			return p.parseTryStatement()
		case "spmd":
			return p.parseSPMDStatement()
		case "return":
			kw := p.next()
			s := track(p.arena, &Return{node: at(kw)})
			p.own(s, kw)
			p.parseStatementEnd(s)
			return s
		case "break", "continue":
			return p.parseLoopControl()
		case "global", "persistent":
			return p.parseDeclaration()
		case "import":
			return p.parseImportStatement()
		case "function":
			tok := p.next()
			p.syntaxError(tok, errors.ErrNestedFunctionInBlock,
				"function definitions cannot appear inside control blocks")
		default:
			p.unexpected("statement")
		}
	}

	if p.peek(lexer.TOKEN_BANG, "") {
		return p.parseEscape()
	}
	return p.parseAssignmentOrCall()
}

// parseAssignmentOrCall resolves the three statements that start with an
// expression: assignment, command form call and naked expression
func (p *Parser) parseAssignmentOrCall() Stmt {
	if p.peek(lexer.TOKEN_A_BRA, "") {
		return p.parseCompoundAssignment()
	}

	start := p.nt
	expr := p.parseExpression()

	switch {
	case p.peek(lexer.TOKEN_ASSIGNMENT, ""):
		target, ok := expr.(Name)
		if !ok || !assignable(target) {
			p.syntaxErrorAt(expr.GetLocation(), errors.ErrInvalidAssignment,
				"left-hand side of an assignment must be a name")
		}
		eq := p.match(lexer.TOKEN_ASSIGNMENT, "")
		value := p.parseExpression()
		s := track(p.arena, &SimpleAssignment{node: at(eq), Target: target, Value: value})
		s.Location = p.locationOf(start)
		p.own(s, eq)
		p.checkShadow(target, false)
		p.parseStatementEnd(s)
		return s

	case p.peek(lexer.TOKEN_CARRAY, ""):
		name, ok := expr.(Name)
		if _, dotted := DottedName(name); !ok || !dotted {
			p.syntaxErrorAt(expr.GetLocation(), errors.ErrInvalidCommandSyntax,
				"command syntax requires a plain or dotted identifier")
		}
		call := track(p.arena, &FunctionCall{node: at(start), Name: name, Variant: CallCommand})
		for p.peek(lexer.TOKEN_CARRAY, "") {
			call.Args = append(call.Args, p.parseCharArray())
		}
		s := track(p.arena, &NakedExpression{node: at(start), Expr: call})
		p.parseStatementEnd(s)
		return s

	default:
		s := track(p.arena, &NakedExpression{node: at(start), Expr: expr})
		p.parseStatementEnd(s)
		return s
	}
}

// assignable reports whether a name can appear left of '='
func assignable(n Name) bool {
	switch n := n.(type) {
	case *Identifier:
		return !n.IsVoid() && n.Name != "end"
	case *SuperclassReference:
		return false
	default:
		return RootIdentifier(n) != nil
	}
}

// parseCompoundAssignment parses '[a, b] = value'
func (p *Parser) parseCompoundAssignment() Stmt {
	open := p.match(lexer.TOKEN_A_BRA, "")
	if p.peek(lexer.TOKEN_COMMA, "") {
		p.next()
	}

	targets := []Name{}
	for !p.peek(lexer.TOKEN_A_KET, "") {
		if p.peekOperator("~") {
			tilde := p.next()
			void := track(p.arena, &Identifier{node: at(tilde), Token: tilde, Name: "~"})
			p.own(void, tilde)
			targets = append(targets, void)

			if !p.peek(lexer.TOKEN_COMMA, "") && !p.peek(lexer.TOKEN_A_KET, "") {
				p.annotations.AddFix(tilde, FixInsertComma)
				p.warn(p.locationOf(tilde), errors.ErrVoidWithoutComma,
					"'~' output must be followed by a comma")
				continue
			}
		} else {
			target := p.parseReference()
			if !assignable(target) {
				p.syntaxErrorAt(target.GetLocation(), errors.ErrInvalidAssignment,
					"assignment target must be a name")
			}
			targets = append(targets, target)
		}

		if p.peek(lexer.TOKEN_COMMA, "") {
			p.next()
		} else if !p.peek(lexer.TOKEN_A_KET, "") {
			p.unexpected("',' or ']'")
		}
	}
	p.match(lexer.TOKEN_A_KET, "")

	if len(targets) == 0 {
		p.syntaxError(open, errors.ErrInvalidAssignment, "assignment needs at least one target")
	}

	eq := p.match(lexer.TOKEN_ASSIGNMENT, "")
	value := p.parseExpression()

	s := track(p.arena, &CompoundAssignment{node: at(open), Targets: targets, Value: value})
	p.own(s, open, eq)
	for _, t := range targets {
		p.checkShadow(t, false)
	}
	p.parseStatementEnd(s)
	return s
}

// parseEscape turns '!cmd' into a call to system
func (p *Parser) parseEscape() Stmt {
	bang := p.match(lexer.TOKEN_BANG, "")
	name := track(p.arena, &Identifier{node: at(bang), Token: bang, Name: "system"})
	arg := track(p.arena, &CharArrayLiteral{node: at(bang), Token: bang, Value: bang.Value})
	call := track(p.arena, &FunctionCall{
		node:    at(bang),
		Name:    name,
		Args:    []*CharArrayLiteral{arg},
		Variant: CallEscape,
	})
	p.own(call, bang)
	s := track(p.arena, &NakedExpression{node: at(bang), Expr: call})
	p.parseStatementEnd(s)
	return s
}

// parseStatementEnd consumes the terminator of a statement: any run of
// ',' and ';' followed by an optional newline. A statement may also end
// right before a keyword closing its block or at the end of the file.
func (p *Parser) parseStatementEnd(s Stmt) {
	last := p.ct
	var terms []lexer.Token
	for p.peek(lexer.TOKEN_COMMA, "") || p.peek(lexer.TOKEN_SEMICOLON, "") {
		terms = append(terms, p.next())
	}

	switch {
	case p.peek(lexer.TOKEN_NEWLINE, ""):
		p.next()
	case p.peek(lexer.TOKEN_EOF, ""), len(terms) > 0, p.peekBlockEnd():
	default:
		p.unexpected("end of statement")
	}

	if !p.rules.Active(RuleEndOfStatements) {
		return
	}

	if len(terms) == 0 {
		if producesOutput(s) {
			p.annotations.AddFix(last, FixAddSemicolon)
			p.warn(p.locationOf(last), errors.ErrMissingSemicolon,
				"end statement with a semicolon")
		}
		return
	}

	if terms[0].Type == lexer.TOKEN_COMMA && !terms[0].Synthetic {
		p.annotations.AddFix(terms[0], FixReplaceWithSemicolon)
		p.warn(p.locationOf(terms[0]), errors.ErrCommaTerminator,
			"end statement with a semicolon instead of a comma")
	}
	for _, extra := range terms[1:] {
		p.annotations.AddFix(extra, FixDelete)
		p.warn(p.locationOf(extra), errors.ErrRedundantTerminator,
			fmt.Sprintf("redundant '%s'", extra.Lexeme))
	}
}

// peekBlockEnd reports whether the next token closes a block or arm
func (p *Parser) peekBlockEnd() bool {
	if !p.peek(lexer.TOKEN_KEYWORD, "") {
		return false
	}
	switch p.nt.Value {
	case "end", "else", "elseif", "case", "otherwise", "catch":
		return true
	}
	return false
}

// producesOutput reports whether a statement without ';' echoes a value
func producesOutput(s Stmt) bool {
	switch s := s.(type) {
	case *SimpleAssignment, *CompoundAssignment:
		return true
	case *NakedExpression:
		_, isCall := s.Expr.(*FunctionCall)
		return !isCall
	default:
		return false
	}
}

// parseHeaderEnd consumes the optional ',' ';' or newline after the
// header of a compound statement
func (p *Parser) parseHeaderEnd() {
	for p.peek(lexer.TOKEN_COMMA, "") || p.peek(lexer.TOKEN_SEMICOLON, "") {
		p.next()
	}
	if p.peek(lexer.TOKEN_NEWLINE, "") {
		p.next()
	}
}

// parseBlockBody parses the statements of a construct inside kind
func (p *Parser) parseBlockBody(kind ContextKind) *StatementList {
	p.ctx.Push(kind)
	body := p.parseStatementList()
	p.ctx.Pop()
	return body
}

// parseForStatement parses 'for v = expr ... end' and 'for (v = expr) ... end'
func (p *Parser) parseForStatement() Stmt {
	kw := p.match(lexer.TOKEN_KEYWORD, "for")
	parens := p.peek(lexer.TOKEN_BRA, "")
	if parens {
		p.match(lexer.TOKEN_BRA, "")
	}
	variable := p.parseIdentifier()
	p.match(lexer.TOKEN_ASSIGNMENT, "")
	expr := p.parseExpression()
	if parens {
		p.match(lexer.TOKEN_KET, "")
	}
	p.checkShadow(variable, true)
	p.parseHeaderEnd()

	body := p.parseBlockBody(ContextLoop)
	endTok := p.match(lexer.TOKEN_KEYWORD, "end")

	var s Stmt
	if rng, ok := expr.(*RangeExpr); ok {
		s = track(p.arena, &SimpleFor{node: at(kw), Var: variable, Range: rng, Body: body})
	} else {
		s = track(p.arena, &GeneralFor{node: at(kw), Var: variable, Expr: expr, Body: body})
	}
	p.own(s, kw, endTok)
	p.parseStatementEnd(s)
	return s
}

// parseParforStatement parses 'parfor v = range' and
// 'parfor (v = range, workers)'
func (p *Parser) parseParforStatement() Stmt {
	kw := p.match(lexer.TOKEN_KEYWORD, "parfor")
	s := &ParallelFor{node: at(kw)}

	parens := p.peek(lexer.TOKEN_BRA, "")
	if parens {
		p.match(lexer.TOKEN_BRA, "")
	}
	s.Var = p.parseIdentifier()
	p.match(lexer.TOKEN_ASSIGNMENT, "")
	s.Range = p.parseExpression()
	if parens {
		if p.peek(lexer.TOKEN_COMMA, "") {
			p.match(lexer.TOKEN_COMMA, "")
			s.Workers = p.parseExpression()
		}
		p.match(lexer.TOKEN_KET, "")
	}
	p.checkShadow(s.Var, true)
	p.parseHeaderEnd()

	s.Body = p.parseBlockBody(ContextLoop)
	endTok := p.match(lexer.TOKEN_KEYWORD, "end")

	s = track(p.arena, s)
	p.own(s, kw, endTok)
	p.parseStatementEnd(s)
	return s
}

// parseWhileStatement parses 'while guard ... end'
func (p *Parser) parseWhileStatement() Stmt {
	kw := p.match(lexer.TOKEN_KEYWORD, "while")
	guard := p.parseExpression()
	p.parseHeaderEnd()

	body := p.parseBlockBody(ContextLoop)
	endTok := p.match(lexer.TOKEN_KEYWORD, "end")

	s := track(p.arena, &While{node: at(kw), Guard: guard, Body: body})
	p.own(s, kw, endTok)
	p.parseStatementEnd(s)
	return s
}

// parseAction parses one arm of an if or switch. Guarded arms (if,
// elseif, case) carry an expression after the keyword.
func (p *Parser) parseAction(word string, guarded bool) *Action {
	kw := p.match(lexer.TOKEN_KEYWORD, word)
	var guard Expr
	if guarded {
		guard = p.parseExpression()
	}
	p.parseHeaderEnd()
	body := p.parseStatementList()

	arm := track(p.arena, &Action{node: at(kw), Keyword: kw, Guard: guard, Body: body})
	p.own(arm, kw)
	return arm
}

// parseIfStatement parses if / elseif / else / end
func (p *Parser) parseIfStatement() Stmt {
	s := &If{node: at(p.nt)}

	p.ctx.Push(ContextIf)
	s.Actions = append(s.Actions, p.parseAction("if", true))
	for p.peekKeyword("elseif") {
		s.Actions = append(s.Actions, p.parseAction("elseif", true))
	}
	if p.peekKeyword("else") {
		s.Actions = append(s.Actions, p.parseAction("else", false))
	}
	p.ctx.Pop()
	endTok := p.match(lexer.TOKEN_KEYWORD, "end")

	s = track(p.arena, s)
	p.own(s, endTok)
	p.parseStatementEnd(s)
	return s
}

// parseSwitchStatement parses switch / case / otherwise / end
func (p *Parser) parseSwitchStatement() Stmt {
	kw := p.match(lexer.TOKEN_KEYWORD, "switch")
	s := &Switch{node: at(kw)}
	s.Expr = p.parseExpression()
	p.parseHeaderEnd()

	p.ctx.Push(ContextSwitch)
	for p.peekKeyword("case") {
		s.Actions = append(s.Actions, p.parseAction("case", true))
	}
	if p.peekKeyword("otherwise") {
		s.Actions = append(s.Actions, p.parseAction("otherwise", false))
	}
	p.ctx.Pop()
	endTok := p.match(lexer.TOKEN_KEYWORD, "end")

	s = track(p.arena, s)
	p.own(s, kw, endTok)
	p.parseStatementEnd(s)
	return s
}

// parseTryStatement parses try / catch [ident] / end
func (p *Parser) parseTryStatement() Stmt {
	kw := p.match(lexer.TOKEN_KEYWORD, "try")
	s := &Try{node: at(kw)}
	p.parseHeaderEnd()

	p.ctx.Push(ContextBlock)
	s.Body = p.parseStatementList()
	if p.peekKeyword("catch") {
		catchTok := p.match(lexer.TOKEN_KEYWORD, "catch")
		// 'catch err' names the exception only when the identifier is
		// alone on the catch line
		if p.peek(lexer.TOKEN_IDENTIFIER, "") && p.nt.Line == catchTok.Line &&
			(p.peekNext(lexer.TOKEN_NEWLINE, "") || p.peekNext(lexer.TOKEN_SEMICOLON, "") ||
				p.peekNext(lexer.TOKEN_COMMA, "") || p.peekNext(lexer.TOKEN_EOF, "")) {
			s.Ident = p.parseIdentifier()
		}
		p.parseHeaderEnd()
		s.Handler = p.parseStatementList()
	}
	p.ctx.Pop()
	endTok := p.match(lexer.TOKEN_KEYWORD, "end")

	s = track(p.arena, s)
	p.own(s, kw, endTok)
	p.parseStatementEnd(s)
	return s
}

// parseSPMDStatement parses 'spmd [(bounds)] ... end'
func (p *Parser) parseSPMDStatement() Stmt {
	kw := p.match(lexer.TOKEN_KEYWORD, "spmd")
	s := &SPMD{node: at(kw)}
	if p.peek(lexer.TOKEN_BRA, "") {
		s.Args = p.parseArguments(lexer.TOKEN_BRA, lexer.TOKEN_KET)
	}
	p.parseHeaderEnd()

	s.Body = p.parseBlockBody(ContextBlock)
	endTok := p.match(lexer.TOKEN_KEYWORD, "end")

	s = track(p.arena, s)
	p.own(s, kw, endTok)
	p.parseStatementEnd(s)
	return s
}

// parseLoopControl parses break and continue. Outside a loop they are
// reported but still accepted.
func (p *Parser) parseLoopControl() Stmt {
	kw := p.match(lexer.TOKEN_KEYWORD, "")

	var s Stmt
	if kw.Value == "break" {
		s = track(p.arena, &Break{node: at(kw)})
	} else {
		s = track(p.arena, &Continue{node: at(kw)})
	}
	p.own(s, kw)

	if !p.ctx.InContext(ContextLoop) {
		p.warn(p.locationOf(kw), errors.ErrOutsideLoop,
			fmt.Sprintf("%s must appear inside loop", kw.Value))
	}
	p.parseStatementEnd(s)
	return s
}

// parseDeclaration parses global and persistent
func (p *Parser) parseDeclaration() Stmt {
	kw := p.match(lexer.TOKEN_KEYWORD, "")

	var names []*Identifier
	for p.peek(lexer.TOKEN_IDENTIFIER, "") {
		names = append(names, p.parseIdentifier())
	}
	if len(names) == 0 {
		p.unexpected("IDENTIFIER")
	}

	var s Stmt
	if kw.Value == "global" {
		s = track(p.arena, &Global{node: at(kw), Names: names})
	} else {
		s = track(p.arena, &Persistent{node: at(kw), Names: names})
	}
	p.own(s, kw)
	p.parseStatementEnd(s)
	return s
}

// parseImportStatement parses 'import a.b.c' and 'import a.b.*'
func (p *Parser) parseImportStatement() Stmt {
	kw := p.match(lexer.TOKEN_KEYWORD, "import")
	s := &Import{node: at(kw)}

	s.Path = append(s.Path, p.match(lexer.TOKEN_IDENTIFIER, "").Value)
	for {
		if p.peek(lexer.TOKEN_SELECTION, "") {
			p.next()
			s.Path = append(s.Path, p.match(lexer.TOKEN_IDENTIFIER, "").Value)
			continue
		}
		if p.peekOperator(".*") {
			p.next()
			s.Wildcard = true
		}
		break
	}
	if !s.Wildcard && len(s.Path) < 2 {
		p.syntaxError(p.ct, errors.ErrInvalidImport,
			"import needs a package name, such as 'pkg.name' or 'pkg.*'")
	}

	s = track(p.arena, s)
	p.own(s, kw)
	p.parseStatementEnd(s)
	return s
}

// checkShadow reports assignments to names of builtin functions. Loop
// variables named i or j are too common to flag.
func (p *Parser) checkShadow(target Name, loopVariable bool) {
	if !p.rules.Active(RuleBuiltinShadow) {
		return
	}
	root := RootIdentifier(target)
	if root == nil || !IsBuiltin(root.Name) {
		return
	}
	if loopVariable && (root.Name == "i" || root.Name == "j") {
		return
	}
	p.warn(root.GetLocation(), errors.ErrBuiltinShadow,
		fmt.Sprintf("assignment to '%s' shadows a builtin function", root.Name))
}
