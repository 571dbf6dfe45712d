package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Stringify renders a node as an s-expression, e.g. (+ 1 (* 2 3)). The
// output is deterministic and is used for golden files and debug traces.
func Stringify(node Node) string {
	var sb strings.Builder
	write(&sb, node)
	return sb.String()
}

// StringifyLines renders each statement of a Toplevel on its own line.
// Other nodes render as Stringify.
func StringifyLines(node Node) string {
	top, ok := node.(*Toplevel)
	if !ok {
		return Stringify(node)
	}
	lines := make([]string, len(top.Body))
	for i, n := range top.Body {
		lines[i] = Stringify(n)
	}
	return strings.Join(lines, "\n")
}

// Format is Stringify for untyped values; it fits parser.WithFormatter.
func Format(v interface{}) string {
	if v == nil {
		return "nil"
	}
	if n, ok := v.(Node); ok {
		return Stringify(n)
	}
	return fmt.Sprint(v)
}

func write(sb *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		sb.WriteString("nil")
	case *Toplevel:
		list(sb, "toplevel", n.Body...)
	case *Block:
		list(sb, "block", n.Stmts...)
	case *ExprStmt:
		list(sb, "stmt", n.Expr)

	case *Ident:
		sb.WriteString(n.Name)
	case *StringLiteral:
		sb.WriteString(strconv.Quote(n.Value))
	case *NumberLiteral:
		sb.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *CallExpr:
		list(sb, "call", append([]Node{n.Callee}, n.Args...)...)
	case *IndexExpr:
		list(sb, "index", n.Object, n.Index)
	case *BinaryExpr:
		list(sb, n.Op, n.Left, n.Right)
	case *PrefixExpr:
		list(sb, n.Op, n.Operand)
	case *CondExpr:
		list(sb, "?:", n.Cond, n.Then, n.Else)

	case *FuncDecl:
		sb.WriteString("(function ")
		sb.WriteString(n.Name)
		sb.WriteString(" (")
		sb.WriteString(strings.Join(n.Params, " "))
		sb.WriteByte(')')
		for _, s := range n.Body {
			sb.WriteByte(' ')
			write(sb, s)
		}
		sb.WriteByte(')')
	case *VarDecl:
		sb.WriteString("(var")
		for _, b := range n.Bindings {
			sb.WriteString(" (")
			sb.WriteString(b.Name)
			if b.Init != nil {
				sb.WriteByte(' ')
				write(sb, b.Init)
			}
			sb.WriteByte(')')
		}
		sb.WriteByte(')')
	case *ReturnStmt:
		optional(sb, "return", n.Value)
	case *IfStmt:
		if n.Else == nil {
			list(sb, "if", n.Cond, n.Then)
		} else {
			list(sb, "if", n.Cond, n.Then, n.Else)
		}
	case *WhileStmt:
		list(sb, "while", n.Cond, n.Body)
	case *DoWhileStmt:
		list(sb, "do", n.Body, n.Cond)
	case *BreakStmt:
		label(sb, "break", n.Label)
	case *ContinueStmt:
		label(sb, "continue", n.Label)

	default:
		fmt.Fprintf(sb, "<%T>", node)
	}
}

func list(sb *strings.Builder, head string, nodes ...Node) {
	sb.WriteByte('(')
	sb.WriteString(head)
	for _, n := range nodes {
		sb.WriteByte(' ')
		write(sb, n)
	}
	sb.WriteByte(')')
}

func optional(sb *strings.Builder, head string, node Node) {
	if node == nil {
		list(sb, head)
		return
	}
	list(sb, head, node)
}

func label(sb *strings.Builder, head, name string) {
	sb.WriteByte('(')
	sb.WriteString(head)
	if name != "" {
		sb.WriteByte(' ')
		sb.WriteString(name)
	}
	sb.WriteByte(')')
}

// String renders nodes with Stringify, so %v and fmt.Sprint print
// s-expressions.
func (n *Toplevel) String() string      { return Stringify(n) }
func (n *Block) String() string         { return Stringify(n) }
func (n *ExprStmt) String() string      { return Stringify(n) }
func (n *Ident) String() string         { return Stringify(n) }
func (n *StringLiteral) String() string { return Stringify(n) }
func (n *NumberLiteral) String() string { return Stringify(n) }
func (n *CallExpr) String() string      { return Stringify(n) }
func (n *IndexExpr) String() string     { return Stringify(n) }
func (n *BinaryExpr) String() string    { return Stringify(n) }
func (n *PrefixExpr) String() string    { return Stringify(n) }
func (n *CondExpr) String() string      { return Stringify(n) }
func (n *FuncDecl) String() string      { return Stringify(n) }
func (n *VarDecl) String() string       { return Stringify(n) }
func (n *ReturnStmt) String() string    { return Stringify(n) }
func (n *IfStmt) String() string        { return Stringify(n) }
func (n *WhileStmt) String() string     { return Stringify(n) }
func (n *DoWhileStmt) String() string   { return Stringify(n) }
func (n *BreakStmt) String() string     { return Stringify(n) }
func (n *ContinueStmt) String() string  { return Stringify(n) }
