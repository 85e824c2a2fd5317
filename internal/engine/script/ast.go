// Package script implements the small language user models are written in:
// assignments, arithmetic, arrays, function calls and method chains.
package script

import "text/scanner"

// Pos is a 1-based source position.
type Pos struct {
	Line   int
	Column int
}

func posOf(p scanner.Position) Pos {
	return Pos{Line: p.Line, Column: p.Column}
}

// Node is an expression or statement of a parsed program.
type Node interface {
	Pos() Pos
}

type (
	// NumberLit is a numeric literal.
	NumberLit struct {
		At    Pos
		Value float64
	}

	// StringLit is a quoted string literal.
	StringLit struct {
		At    Pos
		Value string
	}

	// BoolLit is true or false.
	BoolLit struct {
		At    Pos
		Value bool
	}

	// ArrayLit is a bracketed list of expressions.
	ArrayLit struct {
		At    Pos
		Elems []Node
	}

	// Ident is a variable reference.
	Ident struct {
		At   Pos
		Name string
	}

	// Call invokes a global function.
	Call struct {
		At   Pos
		Name string
		Args []Node
	}

	// MethodCall invokes a method on the value of Recv.
	MethodCall struct {
		At   Pos
		Recv Node
		Name string
		Args []Node
	}

	// Unary is a prefix operation.
	Unary struct {
		At Pos
		Op rune
		X  Node
	}

	// Binary is an infix arithmetic operation.
	Binary struct {
		At   Pos
		Op   rune
		L, R Node
	}

	// Assign binds the value of an expression to a name.
	Assign struct {
		At    Pos
		Name  string
		Value Node
	}
)

// Pos implements Node.
func (n *NumberLit) Pos() Pos { return n.At }

// Pos implements Node.
func (n *StringLit) Pos() Pos { return n.At }

// Pos implements Node.
func (n *BoolLit) Pos() Pos { return n.At }

// Pos implements Node.
func (n *ArrayLit) Pos() Pos { return n.At }

// Pos implements Node.
func (n *Ident) Pos() Pos { return n.At }

// Pos implements Node.
func (n *Call) Pos() Pos { return n.At }

// Pos implements Node.
func (n *MethodCall) Pos() Pos { return n.At }

// Pos implements Node.
func (n *Unary) Pos() Pos { return n.At }

// Pos implements Node.
func (n *Binary) Pos() Pos { return n.At }

// Pos implements Node.
func (n *Assign) Pos() Pos { return n.At }

// Program is a parsed script.
type Program struct {
	Stmts []Node
}
