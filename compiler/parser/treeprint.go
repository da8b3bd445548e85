package parser

import (
	"fmt"
	"io"
	"strings"
)

// TreeNode is a serialisable view of one AST node
type TreeNode struct {
	Kind     string      `json:"kind" yaml:"kind"`
	Relation string      `json:"relation" yaml:"relation"`
	Text     string      `json:"text,omitempty" yaml:"text,omitempty"`
	Line     int         `json:"line" yaml:"line"`
	Column   int         `json:"column" yaml:"column"`
	Children []*TreeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// BuildTree converts an AST into TreeNodes
func BuildTree(root Node) *TreeNode {
	var (
		top   *TreeNode
		stack []*TreeNode
	)
	Walk(VisitorFuncs{
		EnterFunc: func(n, _ Node, relation string) {
			loc := n.GetLocation()
			tn := &TreeNode{
				Kind:     KindOf(n),
				Relation: relation,
				Text:     nodeText(n),
				Line:     loc.Line,
				Column:   loc.Column,
			}
			if len(stack) == 0 {
				top = tn
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, tn)
			}
			stack = append(stack, tn)
		},
		ExitFunc: func(Node, Node, string) {
			stack = stack[:len(stack)-1]
		},
	}, root)
	return top
}

// Dump writes an indented outline of the tree, one node per line
func Dump(w io.Writer, root Node) error {
	var err error
	depth := 0
	Walk(VisitorFuncs{
		EnterFunc: func(n, _ Node, relation string) {
			if err != nil {
				return
			}
			line := strings.Repeat("  ", depth) + relation + ": " + KindOf(n)
			if text := nodeText(n); text != "" {
				line += " " + text
			}
			_, err = fmt.Fprintln(w, line)
			depth++
		},
		ExitFunc: func(Node, Node, string) {
			depth--
		},
	}, root)
	return err
}

// DumpString returns the outline written by Dump
func DumpString(root Node) string {
	var sb strings.Builder
	_ = Dump(&sb, root)
	return sb.String()
}

// KindOf returns the type name of a node, such as "BinaryOp"
func KindOf(n Node) string {
	name := fmt.Sprintf("%T", n)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// nodeText returns the detail shown after the kind of a node
func nodeText(n Node) string {
	switch n := n.(type) {
	case *ScriptFile:
		return n.Name
	case *FunctionFile:
		return n.Name
	case *ClassFile:
		return n.Name
	case *NumberLiteral:
		return n.Value
	case *CharArrayLiteral:
		return fmt.Sprintf("'%s'", n.Value)
	case *StringLiteral:
		return fmt.Sprintf("%q", n.Value)
	case *Identifier:
		return n.Name
	case *UnaryOp:
		if n.Postfix {
			return fmt.Sprintf("%s postfix", n.Operator.Value)
		}
		return fmt.Sprintf("%s prec=%d", n.Operator.Value, n.Precedence)
	case *BinaryOp:
		return fmt.Sprintf("%s prec=%d", n.Operator.Value, n.Precedence)
	case *FunctionCall:
		return n.Variant.String()
	case *FunctionDefinition:
		if n.Terminated {
			return "end"
		}
	case *SpecialBlock:
		return n.Kind.String()
	case *ValidationEntry:
		return n.DimensionText()
	case *Action:
		return n.Keyword.Value
	case *Import:
		return n.String()
	}
	return ""
}
