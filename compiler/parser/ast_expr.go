package parser

import "github.com/CerenB/miss-hit/compiler/lexer"

// Expression nodes

// NumberLiteral is a numeric literal, kept as written
type NumberLiteral struct {
	node
	Token lexer.Token
	Value string
}

// CharArrayLiteral is a single quoted char array. It is also used for the
// arguments of command form calls.
type CharArrayLiteral struct {
	node
	Token lexer.Token
	Value string
}

// StringLiteral is a double quoted string
type StringLiteral struct {
	node
	Token lexer.Token
	Value string
}

// Identifier is a plain name. It also stands for '~' in output lists and
// parameters, and for 'end' inside an index.
type Identifier struct {
	node
	Token lexer.Token
	Name  string
}

// IsVoid reports whether the identifier is the '~' placeholder
func (e *Identifier) IsVoid() bool { return e.Name == "~" }

// Selection is a static field access: Prefix.Field
type Selection struct {
	node
	Prefix Name
	Field  *Identifier
}

// DynamicSelection is a dynamic field access: Prefix.(Field)
type DynamicSelection struct {
	node
	Prefix Name
	Field  Expr
}

// Reference is an index or call: Prefix(Args)
type Reference struct {
	node
	Prefix Name
	Args   []Expr
}

// CellReference is a cell index: Prefix{Args}
type CellReference struct {
	node
	Prefix Name
	Args   []Expr
}

// SuperclassReference calls a superclass method or constructor: Method@Superclass
type SuperclassReference struct {
	node
	Method     Name
	Superclass Name
}

// UnaryOp is a prefix operator, or a postfix transpose when Postfix is set
type UnaryOp struct {
	node
	Operator   lexer.Token
	Operand    Expr
	Precedence int
	Postfix    bool
}

// BinaryOp is an infix operator
type BinaryOp struct {
	node
	Operator   lexer.Token
	LHS        Expr
	RHS        Expr
	Precedence int
}

// RangeExpr is first:last or first:stride:last
type RangeExpr struct {
	node
	First  Expr
	Stride Expr // nil when absent
	Last   Expr
}

// Reshape is the bare ':' used as an index
type Reshape struct {
	node
}

// Row is one row of a matrix or cell literal
type Row struct {
	node
	Items []Expr
}

// MatrixExpr is a [] literal
type MatrixExpr struct {
	node
	Rows []*Row
}

// CellExpr is a {} literal
type CellExpr struct {
	node
	Rows []*Row
}

// Lambda is an anonymous function: @(Params) Body
type Lambda struct {
	node
	Params []*Identifier
	Body   Expr
}

// FunctionHandle is a named handle: @Name
type FunctionHandle struct {
	node
	Name Name
}

// Metaclass is a class query: ?Name
type Metaclass struct {
	node
	Name Name
}

// CallVariant distinguishes how a FunctionCall was written
type CallVariant int

const (
	CallNormal CallVariant = iota
	CallCommand
	CallEscape
)

func (v CallVariant) String() string {
	switch v {
	case CallCommand:
		return "command"
	case CallEscape:
		return "escape"
	default:
		return "normal"
	}
}

// FunctionCall is a command form call ('hold on') or a shell escape
// ('!ls'). Escapes are calls to 'system' with the rest of the line as
// their single argument.
type FunctionCall struct {
	node
	Name    Name
	Args    []*CharArrayLiteral
	Variant CallVariant
}

// Marker methods

func (*NumberLiteral) exprNode()       {}
func (*CharArrayLiteral) exprNode()    {}
func (*StringLiteral) exprNode()       {}
func (*Identifier) exprNode()          {}
func (*Selection) exprNode()           {}
func (*DynamicSelection) exprNode()    {}
func (*Reference) exprNode()           {}
func (*CellReference) exprNode()       {}
func (*SuperclassReference) exprNode() {}
func (*UnaryOp) exprNode()             {}
func (*BinaryOp) exprNode()            {}
func (*RangeExpr) exprNode()           {}
func (*Reshape) exprNode()             {}
func (*MatrixExpr) exprNode()          {}
func (*CellExpr) exprNode()            {}
func (*Lambda) exprNode()              {}
func (*FunctionHandle) exprNode()      {}
func (*Metaclass) exprNode()           {}
func (*FunctionCall) exprNode()        {}

func (*Identifier) nameNode()          {}
func (*Selection) nameNode()           {}
func (*DynamicSelection) nameNode()    {}
func (*Reference) nameNode()           {}
func (*CellReference) nameNode()       {}
func (*SuperclassReference) nameNode() {}

func (*Identifier) blockItem() {}

// DottedName returns the text of a name built only from identifiers and
// static selections, such as 'pkg.sub.func'. ok is false for anything else.
func DottedName(n Name) (string, bool) {
	switch n := n.(type) {
	case *Identifier:
		return n.Name, true
	case *Selection:
		prefix, ok := DottedName(n.Prefix)
		if !ok {
			return "", false
		}
		return prefix + "." + n.Field.Name, true
	default:
		return "", false
	}
}

// RootIdentifier returns the identifier a name is built on, for example
// 'x' in 'x.y(3).z'
func RootIdentifier(n Name) *Identifier {
	for {
		switch v := n.(type) {
		case *Identifier:
			return v
		case *Selection:
			n = v.Prefix
		case *DynamicSelection:
			n = v.Prefix
		case *Reference:
			n = v.Prefix
		case *CellReference:
			n = v.Prefix
		case *SuperclassReference:
			n = v.Method
		default:
			return nil
		}
	}
}
