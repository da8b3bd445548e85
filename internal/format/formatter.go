package format

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/CerenB/miss-hit/compiler/errors"
	"github.com/CerenB/miss-hit/compiler/parser"
)

// Formatter renders MATLAB syntax trees back to source. Every binary
// operation is parenthesised, so the output reparses to the same tree.
type Formatter struct {
	config *Config
	buf    *bytes.Buffer
	indent int
}

// New creates a new Formatter with the given configuration
func New(config *Config) *Formatter {
	if config == nil {
		config = DefaultConfig()
	}
	return &Formatter{
		config: config,
		buf:    new(bytes.Buffer),
		indent: 0,
	}
}

// Format parses source and returns it re-rendered
func (f *Formatter) Format(source, filename string, opts ...parser.Option) (string, error) {
	unit, err := parser.ParseString(source, filename, opts...)
	if err != nil {
		return "", err
	}
	return f.FormatUnit(unit), nil
}

// FormatFile formats a MATLAB source file
func FormatFile(path string, config *Config, opts ...parser.Option) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return New(config).Format(string(content), path, opts...)
}

// FormatUnit renders a compilation unit
func (f *Formatter) FormatUnit(unit parser.CompilationUnit) string {
	f.buf.Reset()
	f.indent = 0

	switch u := unit.(type) {
	case *parser.ScriptFile:
		f.formatStatements(u.Statements)
		f.formatFunctions(u.Functions, len(u.Statements.Statements) > 0)
	case *parser.FunctionFile:
		f.formatFunctions(u.Functions, false)
	case *parser.ClassFile:
		f.formatClass(u.Class)
		f.formatFunctions(u.Functions, true)
	default:
		panic(errors.NewICE(fmt.Sprintf("format: unexpected compilation unit %T", unit)))
	}

	return f.buf.String()
}

// Render is a shorthand for rendering with the default configuration
func Render(unit parser.CompilationUnit) string {
	return New(nil).FormatUnit(unit)
}

func (f *Formatter) formatFunctions(fns []*parser.FunctionDefinition, separate bool) {
	for i, fn := range fns {
		if separate || i > 0 {
			f.writeLine("")
		}
		f.formatFunction(fn)
	}
}

// Declarations

func (f *Formatter) formatFunction(fn *parser.FunctionDefinition) {
	f.writeLine("function " + f.signature(fn.Signature))
	f.indent++
	for _, block := range fn.Validation {
		f.formatBlock(block)
	}
	f.formatStatements(fn.Body)
	for _, nested := range fn.Nested {
		f.writeLine("")
		f.formatFunction(nested)
	}
	f.indent--
	if fn.Terminated {
		f.writeLine("end")
	}
}

// signature renders a function header without the function keyword, the
// form used for method declarations
func (f *Formatter) signature(sig *parser.FunctionSignature) string {
	var sb strings.Builder
	switch len(sig.Outputs) {
	case 0:
	case 1:
		sb.WriteString(sig.Outputs[0].Name)
		sb.WriteString(" = ")
	default:
		sb.WriteString("[")
		sb.WriteString(identifierList(sig.Outputs))
		sb.WriteString("] = ")
	}
	sb.WriteString(f.expr(sig.Name))
	if len(sig.Inputs) > 0 {
		sb.WriteString("(")
		sb.WriteString(identifierList(sig.Inputs))
		sb.WriteString(")")
	}
	return sb.String()
}

func (f *Formatter) formatClass(class *parser.ClassDefinition) {
	var sb strings.Builder
	sb.WriteString("classdef ")
	if len(class.Attributes) > 0 {
		sb.WriteString(f.attributes(class.Attributes))
		sb.WriteString(" ")
	}
	sb.WriteString(class.Name.Name)
	if len(class.Superclasses) > 0 {
		supers := make([]string, len(class.Superclasses))
		for i, s := range class.Superclasses {
			supers[i] = f.expr(s)
		}
		sb.WriteString(" < ")
		sb.WriteString(strings.Join(supers, " & "))
	}
	f.writeLine(sb.String())

	f.indent++
	for _, block := range class.Blocks {
		f.formatBlock(block)
	}
	f.indent--
	f.writeLine("end")
}

func (f *Formatter) attributes(attrs []*parser.ClassAttribute) string {
	parts := make([]string, len(attrs))
	for i, attr := range attrs {
		parts[i] = attr.Name.Name
		if attr.Value != nil {
			parts[i] += " = " + f.expr(attr.Value)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (f *Formatter) formatBlock(block *parser.SpecialBlock) {
	header := block.Kind.String()
	if len(block.Attributes) > 0 {
		header += " " + f.attributes(block.Attributes)
	}
	f.writeLine(header)

	f.indent++
	for _, item := range block.Items {
		switch item := item.(type) {
		case *parser.ValidationEntry:
			f.writeLine(f.validationEntry(item))
		case *parser.FunctionDefinition:
			f.formatFunction(item)
		case *parser.FunctionSignature:
			f.writeLine(f.signature(item))
		case *parser.Identifier:
			f.writeLine(item.Name)
		case *parser.EnumerationLiteral:
			line := item.Name.Name
			if len(item.Args) > 0 {
				line += "(" + f.exprList(item.Args) + ")"
			}
			f.writeLine(line)
		default:
			panic(errors.NewICE(fmt.Sprintf("format: unexpected block item %T", item)))
		}
	}
	f.indent--
	f.writeLine("end")
}

func (f *Formatter) validationEntry(e *parser.ValidationEntry) string {
	parts := []string{f.expr(e.Name)}
	if dims := e.DimensionText(); dims != "" {
		parts = append(parts, dims)
	}
	if e.Class != nil {
		parts = append(parts, f.expr(e.Class))
	}
	if len(e.Validators) > 0 {
		vals := make([]string, len(e.Validators))
		for i, v := range e.Validators {
			vals[i] = f.expr(v)
		}
		parts = append(parts, "{"+strings.Join(vals, ", ")+"}")
	}
	if e.Default != nil {
		parts = append(parts, "= "+f.expr(e.Default))
	}
	return strings.Join(parts, " ")
}

// Statements

func (f *Formatter) formatStatements(list *parser.StatementList) {
	if list == nil {
		return
	}
	for _, s := range list.Statements {
		f.formatStatement(s)
	}
}

func (f *Formatter) formatStatement(s parser.Stmt) {
	switch s := s.(type) {
	case *parser.SimpleAssignment:
		f.writeLine(f.terminate(f.expr(s.Target) + " = " + f.expr(s.Value)))

	case *parser.CompoundAssignment:
		targets := make([]string, len(s.Targets))
		for i, t := range s.Targets {
			targets[i] = f.expr(t)
		}
		f.writeLine(f.terminate("[" + strings.Join(targets, ", ") + "] = " + f.expr(s.Value)))

	case *parser.NakedExpression:
		if call, ok := s.Expr.(*parser.FunctionCall); ok {
			f.writeLine(f.call(call))
			return
		}
		f.writeLine(f.terminate(f.expr(s.Expr)))

	case *parser.SimpleFor:
		f.formatBlockStatement("for "+s.Var.Name+" = "+f.bareRange(s.Range), s.Body)

	case *parser.GeneralFor:
		f.formatBlockStatement("for "+s.Var.Name+" = "+f.expr(s.Expr), s.Body)

	case *parser.ParallelFor:
		header := "parfor " + s.Var.Name + " = " + f.loopRange(s.Range)
		if s.Workers != nil {
			header = "parfor (" + s.Var.Name + " = " + f.loopRange(s.Range) + ", " + f.expr(s.Workers) + ")"
		}
		f.formatBlockStatement(header, s.Body)

	case *parser.While:
		f.formatBlockStatement("while "+f.expr(s.Guard), s.Body)

	case *parser.If:
		for i, a := range s.Actions {
			switch {
			case i == 0:
				f.writeLine("if " + f.expr(a.Guard))
			case a.Guard != nil:
				f.writeLine("elseif " + f.expr(a.Guard))
			default:
				f.writeLine("else")
			}
			f.formatBody(a.Body)
		}
		f.writeLine("end")

	case *parser.Switch:
		f.writeLine("switch " + f.expr(s.Expr))
		f.indent++
		for _, a := range s.Actions {
			if a.Guard != nil {
				f.writeLine("case " + f.expr(a.Guard))
			} else {
				f.writeLine("otherwise")
			}
			f.formatBody(a.Body)
		}
		f.indent--
		f.writeLine("end")

	case *parser.Try:
		f.writeLine("try")
		f.formatBody(s.Body)
		if s.Ident != nil || s.Handler != nil {
			if s.Ident != nil {
				f.writeLine("catch " + s.Ident.Name)
			} else {
				f.writeLine("catch")
			}
			f.formatBody(s.Handler)
		}
		f.writeLine("end")

	case *parser.Return:
		f.writeLine("return")
	case *parser.Break:
		f.writeLine("break")
	case *parser.Continue:
		f.writeLine("continue")

	case *parser.Global:
		f.writeLine("global " + names(s.Names))
	case *parser.Persistent:
		f.writeLine("persistent " + names(s.Names))
	case *parser.Import:
		f.writeLine("import " + s.String())

	case *parser.SPMD:
		header := "spmd"
		if len(s.Args) > 0 {
			header += " (" + f.exprList(s.Args) + ")"
		}
		f.formatBlockStatement(header, s.Body)

	default:
		panic(errors.NewICE(fmt.Sprintf("format: unexpected statement %T", s)))
	}
}

func (f *Formatter) formatBlockStatement(header string, body *parser.StatementList) {
	f.writeLine(header)
	f.formatBody(body)
	f.writeLine("end")
}

func (f *Formatter) formatBody(body *parser.StatementList) {
	f.indent++
	f.formatStatements(body)
	f.indent--
}

func (f *Formatter) terminate(line string) string {
	if f.config.Semicolons {
		return line + ";"
	}
	return line
}

// call renders command form and shell escape calls
func (f *Formatter) call(c *parser.FunctionCall) string {
	if c.Variant == parser.CallEscape {
		if len(c.Args) == 0 {
			return "!"
		}
		return "!" + c.Args[0].Value
	}
	parts := []string{f.expr(c.Name)}
	for _, arg := range c.Args {
		parts = append(parts, commandWord(arg.Value))
	}
	return strings.Join(parts, " ")
}

// commandWord quotes a command argument unless it is a plain word
func commandWord(value string) string {
	if value != "" && isPlainWord(value) {
		return value
	}
	return charArray(value)
}

func isPlainWord(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		case i > 0 && (r == '.' || r == '-' || r == '/'):
		default:
			return false
		}
	}
	return true
}

// Expressions

func (f *Formatter) expr(e parser.Expr) string {
	switch e := e.(type) {
	case *parser.NumberLiteral:
		return e.Value
	case *parser.CharArrayLiteral:
		return charArray(e.Value)
	case *parser.StringLiteral:
		return `"` + strings.ReplaceAll(e.Value, `"`, `""`) + `"`
	case *parser.Identifier:
		return e.Name

	case *parser.Selection:
		return f.expr(e.Prefix) + "." + e.Field.Name
	case *parser.DynamicSelection:
		return f.expr(e.Prefix) + ".(" + f.expr(e.Field) + ")"
	case *parser.Reference:
		return f.expr(e.Prefix) + "(" + f.argList(e.Args) + ")"
	case *parser.CellReference:
		return f.expr(e.Prefix) + "{" + f.argList(e.Args) + "}"
	case *parser.SuperclassReference:
		return f.expr(e.Method) + "@" + f.expr(e.Superclass)

	case *parser.UnaryOp:
		op := e.Operator.Value
		switch {
		case e.Postfix:
			switch e.Operand.(type) {
			case *parser.CharArrayLiteral, *parser.StringLiteral:
				// a quote after a quoted literal would continue the literal
				return "(" + f.expr(e.Operand) + ")" + op
			}
			return f.expr(e.Operand) + op
		case e.Precedence == parser.PREC_POWER_UNARY:
			// binds to the power operand without brackets
			return op + f.expr(e.Operand)
		default:
			return "(" + op + f.expr(e.Operand) + ")"
		}
	case *parser.BinaryOp:
		return "(" + f.expr(e.LHS) + " " + e.Operator.Value + " " + f.expr(e.RHS) + ")"

	case *parser.RangeExpr:
		return "(" + f.bareRange(e) + ")"
	case *parser.Reshape:
		return ":"

	case *parser.MatrixExpr:
		return "[" + f.rows(e.Rows) + "]"
	case *parser.CellExpr:
		return "{" + f.rows(e.Rows) + "}"

	case *parser.Lambda:
		return "(@(" + identifierList(e.Params) + ") " + f.expr(e.Body) + ")"
	case *parser.FunctionHandle:
		return "@" + f.expr(e.Name)
	case *parser.Metaclass:
		return "?" + f.expr(e.Name)

	case *parser.FunctionCall:
		return f.call(e)

	default:
		panic(errors.NewICE(fmt.Sprintf("format: unexpected expression %T", e)))
	}
}

// bareRange renders a range without the surrounding brackets, as in a
// for loop header
func (f *Formatter) bareRange(r *parser.RangeExpr) string {
	if r.Stride != nil {
		return f.expr(r.First) + ":" + f.expr(r.Stride) + ":" + f.expr(r.Last)
	}
	return f.expr(r.First) + ":" + f.expr(r.Last)
}

func (f *Formatter) loopRange(e parser.Expr) string {
	if r, ok := e.(*parser.RangeExpr); ok {
		return f.bareRange(r)
	}
	return f.expr(e)
}

// argList renders index arguments. Ranges are left bare so that 'end'
// keeps its meaning.
func (f *Formatter) argList(args []parser.Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = f.loopRange(a)
	}
	return strings.Join(parts, ", ")
}

func (f *Formatter) exprList(list []parser.Expr) string {
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = f.expr(e)
	}
	return strings.Join(parts, ", ")
}

func (f *Formatter) rows(rows []*parser.Row) string {
	parts := make([]string, len(rows))
	for i, row := range rows {
		parts[i] = f.exprList(row.Items)
	}
	return strings.Join(parts, "; ")
}

func charArray(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func identifierList(ids []*parser.Identifier) string {
	return strings.Join(identifierNames(ids), ", ")
}

func names(ids []*parser.Identifier) string {
	return strings.Join(identifierNames(ids), " ")
}

func identifierNames(ids []*parser.Identifier) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Name
	}
	return out
}

// writeIndent writes the current indentation level
func (f *Formatter) writeIndent() {
	spaces := f.indent * f.config.IndentSize
	f.buf.WriteString(strings.Repeat(" ", spaces))
}

// writeLine writes a line with indentation
func (f *Formatter) writeLine(text string) {
	if text != "" {
		f.writeIndent()
		f.buf.WriteString(text)
	}
	f.buf.WriteString("\n")
}
