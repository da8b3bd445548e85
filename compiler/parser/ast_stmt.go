package parser

import (
	"strings"

	"github.com/CerenB/miss-hit/compiler/lexer"
)

// StatementList is an ordered sequence of statements
type StatementList struct {
	node
	Statements []Stmt
}

// SimpleAssignment is 'target = value'
type SimpleAssignment struct {
	node
	Target Name
	Value  Expr
}

// CompoundAssignment is '[a, b] = value'. Targets holds at least one name.
type CompoundAssignment struct {
	node
	Targets []Name
	Value   Expr
}

// NakedExpression is an expression used as a statement, including command
// form calls and shell escapes
type NakedExpression struct {
	node
	Expr Expr
}

// SimpleFor loops over a range expression
type SimpleFor struct {
	node
	Var   *Identifier
	Range *RangeExpr
	Body  *StatementList
}

// GeneralFor loops over the columns of any other expression
type GeneralFor struct {
	node
	Var  *Identifier
	Expr Expr
	Body *StatementList
}

// ParallelFor is a parfor loop. Workers is nil when not given.
type ParallelFor struct {
	node
	Var     *Identifier
	Range   Expr
	Workers Expr
	Body    *StatementList
}

// While is a while loop
type While struct {
	node
	Guard Expr
	Body  *StatementList
}

// Action is one arm of an if or switch statement. Keyword is the token
// that opened the arm; Guard is nil for else and otherwise.
type Action struct {
	node
	Keyword lexer.Token
	Guard   Expr
	Body    *StatementList
}

// If holds the if, elseif and else arms in source order
type If struct {
	node
	Actions []*Action
}

// HasElse reports whether the last arm is an else
func (s *If) HasElse() bool {
	return len(s.Actions) > 0 && s.Actions[len(s.Actions)-1].Guard == nil
}

// Switch holds the case arms and an optional trailing otherwise
type Switch struct {
	node
	Expr    Expr
	Actions []*Action
}

// HasOtherwise reports whether the last arm is an otherwise
func (s *Switch) HasOtherwise() bool {
	return len(s.Actions) > 0 && s.Actions[len(s.Actions)-1].Guard == nil
}

// Try is try/catch. Ident and Handler are nil when absent.
type Try struct {
	node
	Body    *StatementList
	Ident   *Identifier
	Handler *StatementList
}

// Return is a return statement
type Return struct {
	node
}

// Break is a break statement
type Break struct {
	node
}

// Continue is a continue statement
type Continue struct {
	node
}

// Global declares global variables
type Global struct {
	node
	Names []*Identifier
}

// Persistent declares persistent variables
type Persistent struct {
	node
	Names []*Identifier
}

// Import is 'import pkg.sub.name' or 'import pkg.sub.*'
type Import struct {
	node
	Path     []string
	Wildcard bool
}

// String returns the import path as written
func (s *Import) String() string {
	path := strings.Join(s.Path, ".")
	if s.Wildcard {
		path += ".*"
	}
	return path
}

// SPMD is an spmd block. Args holds the optional worker bounds.
type SPMD struct {
	node
	Args []Expr
	Body *StatementList
}

func (*SimpleAssignment) stmtNode()   {}
func (*CompoundAssignment) stmtNode() {}
func (*NakedExpression) stmtNode()    {}
func (*SimpleFor) stmtNode()          {}
func (*GeneralFor) stmtNode()         {}
func (*ParallelFor) stmtNode()        {}
func (*While) stmtNode()              {}
func (*If) stmtNode()                 {}
func (*Switch) stmtNode()             {}
func (*Try) stmtNode()                {}
func (*Return) stmtNode()             {}
func (*Break) stmtNode()              {}
func (*Continue) stmtNode()           {}
func (*Global) stmtNode()             {}
func (*Persistent) stmtNode()         {}
func (*Import) stmtNode()             {}
func (*SPMD) stmtNode()               {}
