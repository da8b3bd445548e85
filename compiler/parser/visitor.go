package parser

import (
	"fmt"

	"github.com/CerenB/miss-hit/compiler/errors"
)

// Visitor receives every node of a tree. Enter is called before the
// children of a node are visited and Exit after. relation names the role
// of node in parent, such as "Guard", "Body" or "Arg 2"; the root has no
// parent and the relation "Root".
type Visitor interface {
	Enter(node, parent Node, relation string)
	Exit(node, parent Node, relation string)
}

// VisitorFuncs adapts plain functions to a Visitor. Nil functions are
// skipped.
type VisitorFuncs struct {
	EnterFunc func(node, parent Node, relation string)
	ExitFunc  func(node, parent Node, relation string)
}

func (v VisitorFuncs) Enter(node, parent Node, relation string) {
	if v.EnterFunc != nil {
		v.EnterFunc(node, parent, relation)
	}
}

func (v VisitorFuncs) Exit(node, parent Node, relation string) {
	if v.ExitFunc != nil {
		v.ExitFunc(node, parent, relation)
	}
}

// Walk traverses the tree rooted at root in source order
func Walk(v Visitor, root Node) {
	walk(v, root, nil, "Root")
}

// Inspect calls fn for every node in source order
func Inspect(root Node, fn func(node Node)) {
	Walk(VisitorFuncs{EnterFunc: func(n, _ Node, _ string) { fn(n) }}, root)
}

func walk(v Visitor, n, parent Node, relation string) {
	v.Enter(n, parent, relation)

	// child visits n's child c unless it is nil
	child := func(c Node, rel string) {
		if !isNilNode(c) {
			walk(v, c, n, rel)
		}
	}
	args := func(list []Expr, prefix string) {
		for i, e := range list {
			child(e, fmt.Sprintf("%s %d", prefix, i+1))
		}
	}

	switch n := n.(type) {
	// Compilation units
	case *ScriptFile:
		child(n.Statements, "Statements")
		for _, fn := range n.Functions {
			child(fn, "Function")
		}
	case *FunctionFile:
		for _, fn := range n.Functions {
			child(fn, "Function")
		}
	case *ClassFile:
		child(n.Class, "Class")
		for _, fn := range n.Functions {
			child(fn, "Function")
		}

	// Declarations
	case *FunctionDefinition:
		child(n.Signature, "Signature")
		for _, block := range n.Validation {
			child(block, "Validation")
		}
		child(n.Body, "Body")
		for _, fn := range n.Nested {
			child(fn, "Nested")
		}
	case *FunctionSignature:
		child(n.Name, "Name")
		for _, in := range n.Inputs {
			child(in, "Input")
		}
		for _, out := range n.Outputs {
			child(out, "Output")
		}
	case *ClassDefinition:
		for _, attr := range n.Attributes {
			child(attr, "Attribute")
		}
		child(n.Name, "Name")
		for _, super := range n.Superclasses {
			child(super, "Superclass")
		}
		for _, block := range n.Blocks {
			child(block, "Block")
		}
	case *ClassAttribute:
		child(n.Name, "Name")
		child(n.Value, "Value")
	case *SpecialBlock:
		for _, attr := range n.Attributes {
			child(attr, "Attribute")
		}
		for _, item := range n.Items {
			child(item, "Item")
		}
	case *ValidationEntry:
		child(n.Name, "Name")
		child(n.Class, "Class")
		for _, val := range n.Validators {
			child(val, "Validator")
		}
		child(n.Default, "Default")
	case *EnumerationLiteral:
		child(n.Name, "Name")
		args(n.Args, "Arg")

	// Statements
	case *StatementList:
		for _, s := range n.Statements {
			child(s, "Statement")
		}
	case *SimpleAssignment:
		child(n.Target, "Target")
		child(n.Value, "Expression")
	case *CompoundAssignment:
		for i, t := range n.Targets {
			child(t, fmt.Sprintf("Target %d", i+1))
		}
		child(n.Value, "Expression")
	case *NakedExpression:
		child(n.Expr, "Expression")
	case *SimpleFor:
		child(n.Var, "Variable")
		child(n.Range, "Range")
		child(n.Body, "Body")
	case *GeneralFor:
		child(n.Var, "Variable")
		child(n.Expr, "Expression")
		child(n.Body, "Body")
	case *ParallelFor:
		child(n.Var, "Variable")
		child(n.Range, "Range")
		child(n.Workers, "Workers")
		child(n.Body, "Body")
	case *While:
		child(n.Guard, "Guard")
		child(n.Body, "Body")
	case *If:
		for _, a := range n.Actions {
			child(a, "Action")
		}
	case *Switch:
		child(n.Expr, "Expression")
		for _, a := range n.Actions {
			child(a, "Action")
		}
	case *Action:
		child(n.Guard, "Guard")
		child(n.Body, "Body")
	case *Try:
		child(n.Body, "Body")
		child(n.Ident, "Identifier")
		child(n.Handler, "Handler")
	case *Global:
		for _, name := range n.Names {
			child(name, "Name")
		}
	case *Persistent:
		for _, name := range n.Names {
			child(name, "Name")
		}
	case *SPMD:
		args(n.Args, "Arg")
		child(n.Body, "Body")
	case *Return, *Break, *Continue, *Import:

	// Expressions
	case *NumberLiteral, *CharArrayLiteral, *StringLiteral, *Identifier, *Reshape:
	case *Selection:
		child(n.Prefix, "Prefix")
		child(n.Field, "Field")
	case *DynamicSelection:
		child(n.Prefix, "Prefix")
		child(n.Field, "Field")
	case *Reference:
		child(n.Prefix, "Prefix")
		args(n.Args, "Arg")
	case *CellReference:
		child(n.Prefix, "Prefix")
		args(n.Args, "Arg")
	case *SuperclassReference:
		child(n.Method, "Method")
		child(n.Superclass, "Superclass")
	case *UnaryOp:
		child(n.Operand, "Operand")
	case *BinaryOp:
		child(n.LHS, "LHS")
		child(n.RHS, "RHS")
	case *RangeExpr:
		child(n.First, "First")
		child(n.Stride, "Stride")
		child(n.Last, "Last")
	case *MatrixExpr:
		for _, row := range n.Rows {
			child(row, "Row")
		}
	case *CellExpr:
		for _, row := range n.Rows {
			child(row, "Row")
		}
	case *Row:
		for _, item := range n.Items {
			child(item, "Item")
		}
	case *Lambda:
		for _, param := range n.Params {
			child(param, "Parameter")
		}
		child(n.Body, "Body")
	case *FunctionHandle:
		child(n.Name, "Name")
	case *Metaclass:
		child(n.Name, "Name")
	case *FunctionCall:
		child(n.Name, "Name")
		for i, arg := range n.Args {
			child(arg, fmt.Sprintf("Arg %d", i+1))
		}

	default:
		panic(errors.NewICE(fmt.Sprintf("walk: unexpected node type %T", n)))
	}

	v.Exit(n, parent, relation)
}
