// Package ast defines the default syntax tree built by the parser.
//
// The parser is generic over its node handle; this package is the handle
// the command-line tool and the tests use. Nodes carry no positions because
// the builder interface does not pass them.
package ast

import "fmt"

// ============================================================
// Node interface
// ============================================================

// Node is the interface implemented by all AST nodes. Statement forms and
// expressions share it: a function declaration may appear as the operand
// of an assignment.
type Node interface {
	fmt.Stringer
	nodeNode()
}

// NodeBase is embedded by all nodes.
type NodeBase struct{}

func (NodeBase) nodeNode() {}

// ============================================================
// Containers
// ============================================================

// Toplevel is the root of a parsed script.
type Toplevel struct {
	NodeBase
	Body []Node
}

// Block is a braced statement list.
type Block struct {
	NodeBase
	Stmts []Node
}

// ============================================================
// Expressions
// ============================================================

// Ident is an identifier reference.
type Ident struct {
	NodeBase
	Name string
}

// StringLiteral holds the raw text between the quotes; escapes are not
// interpreted.
type StringLiteral struct {
	NodeBase
	Value string
}

// NumberLiteral is a decimal or hexadecimal number.
type NumberLiteral struct {
	NodeBase
	Value float64
}

// CallExpr represents a function call: f(a, b).
type CallExpr struct {
	NodeBase
	Callee Node
	Args   []Node
}

// IndexExpr represents indexing: a[i].
type IndexExpr struct {
	NodeBase
	Object Node
	Index  Node
}

// BinaryExpr represents a binary operation: a + b, x = y, a . b.
type BinaryExpr struct {
	NodeBase
	Op    string
	Left  Node
	Right Node
}

// PrefixExpr represents a prefix operation: -x, !x.
type PrefixExpr struct {
	NodeBase
	Op      string
	Operand Node
}

// CondExpr represents a conditional: cond ? then : else.
type CondExpr struct {
	NodeBase
	Cond Node
	Then Node
	Else Node
}

// ============================================================
// Statements
// ============================================================

// ExprStmt wraps an element terminated by ';'.
type ExprStmt struct {
	NodeBase
	Expr Node
}

// FuncDecl represents a function declaration: function name(params) { ... }.
type FuncDecl struct {
	NodeBase
	Name   string
	Params []string
	Body   []Node
}

// VarBinding is one name of a var statement.
type VarBinding struct {
	Name string
	Init Node // may be nil
}

// VarDecl represents var a = 1, b;
type VarDecl struct {
	NodeBase
	Bindings []VarBinding
}

// ReturnStmt represents a return statement.
type ReturnStmt struct {
	NodeBase
	Value Node // may be nil
}

// IfStmt represents an if statement. Then and Else are blocks or single
// elements.
type IfStmt struct {
	NodeBase
	Cond Node
	Then Node
	Else Node // may be nil
}

// WhileStmt represents a while loop.
type WhileStmt struct {
	NodeBase
	Cond Node
	Body Node
}

// DoWhileStmt represents do body while (cond).
type DoWhileStmt struct {
	NodeBase
	Body Node
	Cond Node
}

// BreakStmt represents a break statement.
type BreakStmt struct {
	NodeBase
	Label string // may be empty
}

// ContinueStmt represents a continue statement.
type ContinueStmt struct {
	NodeBase
	Label string // may be empty
}
