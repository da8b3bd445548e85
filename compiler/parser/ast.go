package parser

import (
	"reflect"

	"github.com/CerenB/miss-hit/compiler/errors"
	"github.com/CerenB/miss-hit/compiler/lexer"
)

// SourceLocation represents a location in source code
type SourceLocation = errors.SourceLocation

// ID identifies a node within the Arena of a single parse
type ID int

// Node is implemented by every AST node
type Node interface {
	NodeID() ID
	GetLocation() SourceLocation
}

// Expr is an expression node
type Expr interface {
	Node
	exprNode()
}

// Name is the subset of expressions that can be assigned to or called:
// identifiers, selections and references
type Name interface {
	Expr
	nameNode()
}

// Stmt is a statement node
type Stmt interface {
	Node
	stmtNode()
}

// CompilationUnit is the root of a parsed file
type CompilationUnit interface {
	Node
	compilationUnit()
}

// BlockItem is anything that can appear inside a properties, arguments,
// methods, events or enumeration block
type BlockItem interface {
	Node
	blockItem()
}

// node carries the fields shared by every AST node
type node struct {
	id       ID
	Location SourceLocation
}

func (n *node) NodeID() ID                  { return n.id }
func (n *node) GetLocation() SourceLocation { return n.Location }
func (n *node) setID(id ID)                 { n.id = id }

// at returns a node positioned at tok. The ID is assigned by track.
func at(tok lexer.Token) node {
	return node{Location: TokenToLocation(tok)}
}

// ScriptFile is a file of statements, optionally followed by local functions
type ScriptFile struct {
	node
	Name       string
	Statements *StatementList
	Functions  []*FunctionDefinition
}

// FunctionFile is a file that starts with a function definition
type FunctionFile struct {
	node
	Name      string
	Functions []*FunctionDefinition
}

// ClassFile is a file holding a classdef and any local functions after it
type ClassFile struct {
	node
	Name      string
	Class     *ClassDefinition
	Functions []*FunctionDefinition
}

func (*ScriptFile) compilationUnit()   {}
func (*FunctionFile) compilationUnit() {}
func (*ClassFile) compilationUnit()    {}

// TokenToLocation converts a token to a source location
func TokenToLocation(tok lexer.Token) SourceLocation {
	length := tok.EndColumn - tok.Column + 1
	if length < 0 {
		length = 0
	}
	return SourceLocation{
		File:   tok.File,
		Line:   tok.Line,
		Column: tok.Column,
		Length: length,
	}
}

// isNilNode reports whether n is nil or a typed nil pointer, as left in
// optional fields such as RangeExpr.Stride
func isNilNode(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
