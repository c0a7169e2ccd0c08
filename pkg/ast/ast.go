// Package ast defines the Lento expression tree.
package ast

import (
	"github.com/lento-lang/lento/pkg/atoms"
	"github.com/lento-lang/lento/pkg/source"
)

// Node is the interface implemented by all AST nodes.
type Node interface {
	Kind() string
	NodeSpan() source.Span
	// Pretty renders the node as Lento source, indenting nested lines
	// by indent.
	Pretty(indent string) string
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	exprNode() // sealed marker
}

// Program is a parsed source file: a sequence of top-level expressions.
type Program struct {
	Span  source.Span
	Exprs []Expr
}

func (n *Program) Kind() string          { return "Program" }
func (n *Program) NodeSpan() source.Span { return n.Span }

// --- Literals ---

// LiteralNode is implemented by every Literal instantiation.
type LiteralNode interface {
	Expr
	Atomic() atoms.Atomic
}

// Literal wraps a runtime value that appears verbatim in source: numbers,
// booleans, characters, strings, atoms, unit and identifiers.
type Literal[T atoms.Atomic] struct {
	Span  source.Span
	Value T
}

// NewLiteral creates a literal node.
func NewLiteral[T atoms.Atomic](span source.Span, value T) *Literal[T] {
	return &Literal[T]{Span: span, Value: value}
}

func (n *Literal[T]) Kind() string          { return "Literal" }
func (n *Literal[T]) NodeSpan() source.Span { return n.Span }
func (n *Literal[T]) exprNode()             {}

// Atomic returns the wrapped value.
func (n *Literal[T]) Atomic() atoms.Atomic { return n.Value }

func (n *Literal[T]) Pretty(string) string { return n.Value.String() }

// Identifier is a bare name reference.
type Identifier = Literal[atoms.Identifier]

// DottedIdentifier is a dotted name reference such as io.file.read.
type DottedIdentifier = Literal[atoms.IdentifierDotList]

// --- Operators ---

// Binary applies an infix operator.
type Binary struct {
	Span  source.Span
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (n *Binary) Kind() string          { return "Binary" }
func (n *Binary) NodeSpan() source.Span { return n.Span }
func (n *Binary) exprNode()             {}

// Prefix applies a prefix operator.
type Prefix struct {
	Span    source.Span
	Op      PrefixOp
	Operand Expr
}

func (n *Prefix) Kind() string          { return "Prefix" }
func (n *Prefix) NodeSpan() source.Span { return n.Span }
func (n *Prefix) exprNode()             {}

// --- Compound expressions ---

// Block evaluates its expressions in a child scope; its value is the value
// of the last expression, or Unit when empty.
type Block struct {
	Span  source.Span
	Exprs []Expr
}

func (n *Block) Kind() string          { return "Block" }
func (n *Block) NodeSpan() source.Span { return n.Span }
func (n *Block) exprNode()             {}

// List is a list literal.
type List struct {
	Span     source.Span
	Elements []Expr
}

func (n *List) Kind() string          { return "List" }
func (n *List) NodeSpan() source.Span { return n.Span }
func (n *List) exprNode()             {}

// Tuple is a tuple literal with at least one element.
type Tuple struct {
	Span     source.Span
	Elements []Expr
}

func (n *Tuple) Kind() string          { return "Tuple" }
func (n *Tuple) NodeSpan() source.Span { return n.Span }
func (n *Tuple) exprNode()             {}

// Call invokes the function bound to Name.
type Call struct {
	Span source.Span
	Name string
	Args []Expr
}

func (n *Call) Kind() string          { return "Call" }
func (n *Call) NodeSpan() source.Span { return n.Span }
func (n *Call) exprNode()             {}

// --- Declarations ---

// VarDecl binds Name to the value of Value in the current scope.
type VarDecl struct {
	Span  source.Span
	Name  string
	Value Expr
}

func (n *VarDecl) Kind() string          { return "VarDecl" }
func (n *VarDecl) NodeSpan() source.Span { return n.Span }
func (n *VarDecl) exprNode()             {}

// Param is a declared function parameter. An empty TypeName means any.
// TypeName keeps any textual generic suffix, e.g. "list<int>".
type Param struct {
	Span     source.Span
	TypeName string
	Name     string
}

// FuncDecl declares a function variation. Anonymous functions have an
// empty Name.
type FuncDecl struct {
	Span   source.Span
	Name   string
	Params []Param
	Body   Expr
}

func (n *FuncDecl) Kind() string          { return "FuncDecl" }
func (n *FuncDecl) NodeSpan() source.Span { return n.Span }
func (n *FuncDecl) exprNode()             {}

// Anonymous reports whether the declaration has no name.
func (n *FuncDecl) Anonymous() bool { return n.Name == "" }
