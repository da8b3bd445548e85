package parser

import (
	"github.com/CerenB/miss-hit/compiler/errors"
	"github.com/CerenB/miss-hit/compiler/lexer"
)

// Precedence levels, tightest first
const (
	PREC_PRIMARY     = 1  // literals, names, (), [] and {}
	PREC_POSTFIX     = 2  // ' .' ^ .^
	PREC_POWER_UNARY = 3  // unary operators right after ^ or .^
	PREC_UNARY       = 4  // + - ~
	PREC_MULTIPLY    = 5  // * / \ .* ./ .\
	PREC_ADD         = 6  // + -
	PREC_RANGE       = 7  // :
	PREC_RELATIONAL  = 8  // < <= > >= == ~=
	PREC_ELEMENT_AND = 9  // &
	PREC_ELEMENT_OR  = 10 // |
	PREC_SHORT_AND   = 11 // &&
	PREC_SHORT_OR    = 12 // ||
)

var (
	unaryOperators      = []string{"+", "-", "~"}
	transposeOperators  = []string{"'", ".'"}
	powerOperators      = []string{"^", ".^"}
	multiplyOperators   = []string{"*", "/", "\\", ".*", "./", ".\\"}
	addOperators        = []string{"+", "-"}
	relationalOperators = []string{"<", "<=", ">", ">=", "==", "~="}
)

// parseExpression parses an expression (entry point, lowest precedence)
func (p *Parser) parseExpression() Expr {
	defer p.nest()()
	return p.parseShortOr()
}

// binaryLevel parses one left associative level: operands from next,
// folded while the lookahead is one of ops
func (p *Parser) binaryLevel(prec int, next func() Expr, ops ...string) Expr {
	lhs := next()
	for p.peekOperator(ops...) {
		op := p.next()
		rhs := next()
		lhs = p.binary(prec, op, lhs, rhs)
	}
	return lhs
}

func (p *Parser) parseShortOr() Expr {
	return p.binaryLevel(PREC_SHORT_OR, p.parseShortAnd, "||")
}

func (p *Parser) parseShortAnd() Expr {
	return p.binaryLevel(PREC_SHORT_AND, p.parseElementOr, "&&")
}

func (p *Parser) parseElementOr() Expr {
	return p.binaryLevel(PREC_ELEMENT_OR, p.parseElementAnd, "|")
}

func (p *Parser) parseElementAnd() Expr {
	return p.binaryLevel(PREC_ELEMENT_AND, p.parseRelational, "&")
}

// parseRelational folds comparisons left to right. 'a < b < c' is legal
// but compares a boolean with c; chains of more than two operators get a
// warning.
func (p *Parser) parseRelational() Expr {
	lhs := p.parseRange()
	count := 0
	var first lexer.Token
	for p.peekOperator(relationalOperators...) {
		op := p.next()
		if count == 0 {
			first = op
		}
		count++
		rhs := p.parseRange()
		lhs = p.binary(PREC_RELATIONAL, op, lhs, rhs)
	}
	if count > 2 {
		p.warn(p.locationOf(first), errors.ErrChainedComparison,
			"chained relational operators are not associative, this is probably not what you meant")
	}
	return lhs
}

// parseRange parses a, a:b or a:step:b. No default stride is filled in.
func (p *Parser) parseRange() Expr {
	first := p.parseAdditive()
	if !p.peek(lexer.TOKEN_COLON, "") {
		return first
	}
	colon := p.match(lexer.TOKEN_COLON, "")
	second := p.parseAdditive()

	rng := &RangeExpr{node: at(colon), First: first, Last: second}
	if p.peek(lexer.TOKEN_COLON, "") {
		p.match(lexer.TOKEN_COLON, "")
		rng.Stride = second
		rng.Last = p.parseAdditive()
	}
	rng.Location = first.GetLocation()
	rng = track(p.arena, rng)
	p.own(rng, colon)
	return rng
}

func (p *Parser) parseAdditive() Expr {
	return p.binaryLevel(PREC_ADD, p.parseMultiplicative, addOperators...)
}

func (p *Parser) parseMultiplicative() Expr {
	return p.binaryLevel(PREC_MULTIPLY, p.parseUnary, multiplyOperators...)
}

// parseUnary parses prefix + - ~, which are right recursive
func (p *Parser) parseUnary() Expr {
	if p.peekOperator(unaryOperators...) {
		defer p.nest()()
		op := p.next()
		operand := p.parseUnary()
		return p.unary(PREC_UNARY, op, operand, false)
	}
	return p.parsePostfix()
}

// parsePostfix parses transposes and powers, left to right. The right
// operand of a power may start with a run of unary operators, which bind
// to that operand only: 2^-3^2 is (2^(-3))^2.
func (p *Parser) parsePostfix() Expr {
	lhs := p.parsePrimary()
	for {
		switch {
		case p.peekOperator(transposeOperators...):
			op := p.next()
			lhs = p.unary(PREC_POSTFIX, op, lhs, true)
		case p.peekOperator(powerOperators...):
			op := p.next()
			rhs := p.parsePowerOperand()
			lhs = p.binary(PREC_POSTFIX, op, lhs, rhs)
		default:
			return lhs
		}
	}
}

// parsePowerOperand parses the right operand of ^ or .^. The unary run is
// applied innermost first, so 2^-~3 is 2^(-(~3)).
func (p *Parser) parsePowerOperand() Expr {
	var ops []lexer.Token
	for p.peekOperator(unaryOperators...) {
		ops = append(ops, p.next())
	}
	operand := p.parsePrimary()
	for i := len(ops) - 1; i >= 0; i-- {
		operand = p.unary(PREC_POWER_UNARY, ops[i], operand, false)
	}
	return operand
}

// parsePrimary parses literals, names, bracketed expressions, matrices,
// cells, handles, lambdas and metaclass queries
func (p *Parser) parsePrimary() Expr {
	switch p.nt.Type {
	case lexer.TOKEN_NUMBER:
		tok := p.next()
		n := track(p.arena, &NumberLiteral{node: at(tok), Token: tok, Value: tok.Value})
		p.own(n, tok)
		return n

	case lexer.TOKEN_CARRAY:
		return p.parseCharArray()

	case lexer.TOKEN_STRING:
		tok := p.next()
		n := track(p.arena, &StringLiteral{node: at(tok), Token: tok, Value: tok.Value})
		p.own(n, tok)
		return n

	case lexer.TOKEN_BRA:
		p.match(lexer.TOKEN_BRA, "")
		expr := p.parseExpression()
		p.match(lexer.TOKEN_KET, "")
		return expr

	case lexer.TOKEN_M_BRA:
		open := p.nt
		rows := p.parseRows(lexer.TOKEN_M_BRA, lexer.TOKEN_M_KET)
		return track(p.arena, &MatrixExpr{node: at(open), Rows: rows})

	case lexer.TOKEN_C_BRA:
		open := p.nt
		rows := p.parseRows(lexer.TOKEN_C_BRA, lexer.TOKEN_C_KET)
		return track(p.arena, &CellExpr{node: at(open), Rows: rows})

	case lexer.TOKEN_AT:
		return p.parseHandleOrLambda()

	case lexer.TOKEN_METACLASS:
		tok := p.match(lexer.TOKEN_METACLASS, "")
		name := p.parseDottedName()
		n := track(p.arena, &Metaclass{node: at(tok), Name: name})
		p.own(n, tok)
		return n

	case lexer.TOKEN_IDENTIFIER:
		return p.parseReference()

	case lexer.TOKEN_KEYWORD:
		if p.nt.Value == "end" && p.inIndex > 0 {
			tok := p.next()
			n := track(p.arena, &Identifier{node: at(tok), Token: tok, Name: "end"})
			p.own(n, tok)
			return n
		}
	}

	p.unexpected("expression")
	return nil
}

func (p *Parser) parseCharArray() *CharArrayLiteral {
	tok := p.match(lexer.TOKEN_CARRAY, "")
	n := track(p.arena, &CharArrayLiteral{node: at(tok), Token: tok, Value: tok.Value})
	p.own(n, tok)
	return n
}

// parseIdentifier parses a plain identifier
func (p *Parser) parseIdentifier() *Identifier {
	tok := p.match(lexer.TOKEN_IDENTIFIER, "")
	n := track(p.arena, &Identifier{node: at(tok), Token: tok, Name: tok.Value})
	p.own(n, tok)
	return n
}

// parseIdentifierOrVoid parses an identifier, or '~' where an output or
// parameter is ignored
func (p *Parser) parseIdentifierOrVoid() *Identifier {
	if p.peekOperator("~") {
		tok := p.next()
		n := track(p.arena, &Identifier{node: at(tok), Token: tok, Name: "~"})
		p.own(n, tok)
		return n
	}
	return p.parseIdentifier()
}

// parseDottedName parses identifiers joined by '.', such as 'pkg.Class'
func (p *Parser) parseDottedName() Name {
	var name Name = p.parseIdentifier()
	for p.peek(lexer.TOKEN_SELECTION, "") {
		dot := p.next()
		field := p.parseIdentifier()
		sel := track(p.arena, &Selection{node: at(dot), Prefix: name, Field: field})
		p.own(sel, dot)
		name = sel
	}
	return name
}

// parseReference parses a name with any chain of field accesses,
// indexing, cell indexing and superclass calls after it
func (p *Parser) parseReference() Name {
	var name Name = p.parseIdentifier()
	for {
		switch {
		case p.peek(lexer.TOKEN_SELECTION, ""):
			dot := p.next()
			if p.peek(lexer.TOKEN_BRA, "") {
				p.match(lexer.TOKEN_BRA, "")
				field := p.parseExpression()
				p.match(lexer.TOKEN_KET, "")
				dyn := track(p.arena, &DynamicSelection{node: at(dot), Prefix: name, Field: field})
				p.own(dyn, dot)
				name = dyn
				continue
			}
			field := p.parseIdentifier()
			sel := track(p.arena, &Selection{node: at(dot), Prefix: name, Field: field})
			p.own(sel, dot)
			name = sel

		case p.peek(lexer.TOKEN_BRA, ""):
			open := p.nt
			args := p.parseArguments(lexer.TOKEN_BRA, lexer.TOKEN_KET)
			ref := track(p.arena, &Reference{node: at(open), Prefix: name, Args: args})
			p.own(ref, open)
			name = ref

		case p.peek(lexer.TOKEN_C_BRA, ""):
			open := p.nt
			args := p.parseArguments(lexer.TOKEN_C_BRA, lexer.TOKEN_C_KET)
			ref := track(p.arena, &CellReference{node: at(open), Prefix: name, Args: args})
			p.own(ref, open)
			name = ref

		case p.peek(lexer.TOKEN_AT, "") && !p.nt.PrecededByWhitespace:
			if _, ok := DottedName(name); !ok {
				return name
			}
			atTok := p.next()
			super := p.parseDottedName()
			ref := track(p.arena, &SuperclassReference{node: at(atTok), Method: name, Superclass: super})
			p.own(ref, atTok)
			name = ref

		default:
			return name
		}
	}
}

// parseArguments parses a bracketed argument list. A ':' standing alone
// as an argument is a Reshape.
func (p *Parser) parseArguments(open, close lexer.TokenType) []Expr {
	p.match(open, "")
	p.inIndex++
	defer func() { p.inIndex-- }()

	args := []Expr{}
	if p.peek(close, "") {
		p.match(close, "")
		return args
	}
	for {
		if p.peek(lexer.TOKEN_COLON, "") && (p.peekNext(lexer.TOKEN_COMMA, "") || p.peekNext(close, "")) {
			tok := p.match(lexer.TOKEN_COLON, "")
			r := track(p.arena, &Reshape{node: at(tok)})
			p.own(r, tok)
			args = append(args, r)
		} else {
			args = append(args, p.parseExpression())
		}
		if !p.peek(lexer.TOKEN_COMMA, "") {
			break
		}
		p.match(lexer.TOKEN_COMMA, "")
	}
	p.match(close, "")
	return args
}

// parseRows parses the rows of a matrix or cell literal. Rows end at ';'
// or a newline; empty rows are dropped.
func (p *Parser) parseRows(open, close lexer.TokenType) []*Row {
	p.match(open, "")
	defer p.nest()()

	rows := []*Row{}
	var row *Row
	for !p.peek(close, "") {
		switch {
		case p.peek(lexer.TOKEN_EOF, ""):
			p.match(close, "")
		case p.peek(lexer.TOKEN_SEMICOLON, ""), p.peek(lexer.TOKEN_NEWLINE, ""):
			p.next()
			row = nil
		case p.peek(lexer.TOKEN_COMMA, ""):
			p.next()
		default:
			if row == nil {
				row = track(p.arena, &Row{node: at(p.nt)})
				rows = append(rows, row)
			}
			row.Items = append(row.Items, p.parseExpression())
		}
	}
	p.match(close, "")
	return rows
}

// parseHandleOrLambda parses '@name' or '@(params) body'
func (p *Parser) parseHandleOrLambda() Expr {
	atTok := p.match(lexer.TOKEN_AT, "")
	if !p.peek(lexer.TOKEN_BRA, "") {
		name := p.parseDottedName()
		h := track(p.arena, &FunctionHandle{node: at(atTok), Name: name})
		p.own(h, atTok)
		return h
	}

	p.match(lexer.TOKEN_BRA, "")
	params := []*Identifier{}
	if !p.peek(lexer.TOKEN_KET, "") {
		for {
			params = append(params, p.parseIdentifierOrVoid())
			if !p.peek(lexer.TOKEN_COMMA, "") {
				break
			}
			p.match(lexer.TOKEN_COMMA, "")
		}
	}
	p.match(lexer.TOKEN_KET, "")

	saved := p.inIndex
	p.inIndex = 0
	body := p.parseExpression()
	p.inIndex = saved

	l := track(p.arena, &Lambda{node: at(atTok), Params: params, Body: body})
	p.own(l, atTok)
	return l
}

func (p *Parser) unary(prec int, op lexer.Token, operand Expr, postfix bool) *UnaryOp {
	n := &UnaryOp{node: at(op), Operator: op, Operand: operand, Precedence: prec, Postfix: postfix}
	if postfix {
		n.Location = operand.GetLocation()
	}
	n = track(p.arena, n)
	p.own(n, op)
	return n
}

func (p *Parser) binary(prec int, op lexer.Token, lhs, rhs Expr) *BinaryOp {
	n := track(p.arena, &BinaryOp{node: at(op), Operator: op, LHS: lhs, RHS: rhs, Precedence: prec})
	p.own(n, op)
	return n
}
