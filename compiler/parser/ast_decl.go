package parser

import (
	"strings"

	"github.com/CerenB/miss-hit/compiler/lexer"
)

// FunctionSignature is the header of a function. Inputs and Outputs may
// contain '~' identifiers.
type FunctionSignature struct {
	node
	Name    Name
	Inputs  []*Identifier
	Outputs []*Identifier
}

// FunctionDefinition is a function with its body. Nested functions are
// only ever found in Nested, never in Body. Terminated records whether the
// function was closed with 'end'.
type FunctionDefinition struct {
	node
	Signature  *FunctionSignature
	Validation []*SpecialBlock
	Body       *StatementList
	Nested     []*FunctionDefinition
	Terminated bool
}

// ClassAttribute is one 'Name' or 'Name = value' entry of an attribute list
type ClassAttribute struct {
	node
	Name  *Identifier
	Value Expr // nil when only the name is given
}

// BlockKind identifies the kind of a SpecialBlock
type BlockKind int

const (
	BlockArguments BlockKind = iota
	BlockProperties
	BlockMethods
	BlockEvents
	BlockEnumeration
)

var blockKindNames = map[BlockKind]string{
	BlockArguments:   "arguments",
	BlockProperties:  "properties",
	BlockMethods:     "methods",
	BlockEvents:      "events",
	BlockEnumeration: "enumeration",
}

func (k BlockKind) String() string {
	if name, ok := blockKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// SpecialBlock is an arguments block of a function, or one of the
// properties, methods, events or enumeration blocks of a class. Items
// holds ValidationEntry, FunctionDefinition, FunctionSignature, Identifier
// or EnumerationLiteral nodes depending on Kind.
type SpecialBlock struct {
	node
	Kind       BlockKind
	Attributes []*ClassAttribute
	Items      []BlockItem
}

// ValidationEntry declares one property or argument with its optional
// size, class, validator functions and default value
type ValidationEntry struct {
	node
	Name       Name
	Dimensions []lexer.Token // NUMBER or COLON tokens
	Class      Name
	Validators []Name
	Default    Expr
}

// DimensionText renders the size constraint, such as '(1,:)'. It returns
// an empty string when there is none.
func (e *ValidationEntry) DimensionText() string {
	if len(e.Dimensions) == 0 {
		return ""
	}
	parts := make([]string, len(e.Dimensions))
	for i, d := range e.Dimensions {
		parts[i] = d.Lexeme
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// EnumerationLiteral is one member of an enumeration block
type EnumerationLiteral struct {
	node
	Name *Identifier
	Args []Expr
}

// ClassDefinition is a classdef with its attribute list, superclasses and
// member blocks in source order
type ClassDefinition struct {
	node
	Name         *Identifier
	Attributes   []*ClassAttribute
	Superclasses []Name
	Blocks       []*SpecialBlock
}

// BlocksOf returns the blocks of one kind, in source order
func (c *ClassDefinition) BlocksOf(kind BlockKind) []*SpecialBlock {
	var blocks []*SpecialBlock
	for _, b := range c.Blocks {
		if b.Kind == kind {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func (*ValidationEntry) blockItem()    {}
func (*FunctionDefinition) blockItem() {}
func (*FunctionSignature) blockItem()  {}
func (*EnumerationLiteral) blockItem() {}
