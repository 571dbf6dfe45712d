package ast

import (
	"github.com/pkg/errors"
)

// Builder builds *ast nodes for the parser. It is stateless; the zero value
// is ready to use.
type Builder struct{}

// NewBuilder returns a Builder.
func NewBuilder() Builder {
	return Builder{}
}

func (Builder) MakeToplevel() (Node, error) { return &Toplevel{}, nil }
func (Builder) MakeBlock() (Node, error)    { return &Block{}, nil }

// AppendToBlock appends element to a Toplevel, a Block or a FuncDecl body.
func (Builder) AppendToBlock(block, element Node) error {
	if element == nil {
		return errors.New("append of nil element")
	}
	switch b := block.(type) {
	case *Toplevel:
		b.Body = append(b.Body, element)
	case *Block:
		b.Stmts = append(b.Stmts, element)
	case *FuncDecl:
		b.Body = append(b.Body, element)
	default:
		return errors.Errorf("cannot append to %T", block)
	}
	return nil
}

func (Builder) MakeStatement(element Node) (Node, error) {
	if element == nil {
		return nil, errors.New("statement of nil element")
	}
	return &ExprStmt{Expr: element}, nil
}

func (Builder) MakeFunction(name string) (Node, error) {
	return &FuncDecl{Name: name}, nil
}

func (Builder) AppendArgumentToFunction(fn Node, arg string) error {
	f, ok := fn.(*FuncDecl)
	if !ok {
		return errors.Errorf("cannot add parameter to %T", fn)
	}
	f.Params = append(f.Params, arg)
	return nil
}

func (Builder) MakeVar() (Node, error) { return &VarDecl{}, nil }

func (Builder) AppendToVar(v Node, name string, value Node) error {
	d, ok := v.(*VarDecl)
	if !ok {
		return errors.Errorf("cannot add binding to %T", v)
	}
	d.Bindings = append(d.Bindings, VarBinding{Name: name, Init: value})
	return nil
}

func (Builder) MakeReturn(value Node) (Node, error) {
	return &ReturnStmt{Value: value}, nil
}

func (Builder) MakeIf(cond, ifTrue, ifFalse Node) (Node, error) {
	if cond == nil || ifTrue == nil {
		return nil, errors.New("if requires a condition and a body")
	}
	return &IfStmt{Cond: cond, Then: ifTrue, Else: ifFalse}, nil
}

func (Builder) MakeWhile(cond, body Node) (Node, error) {
	if cond == nil || body == nil {
		return nil, errors.New("while requires a condition and a body")
	}
	return &WhileStmt{Cond: cond, Body: body}, nil
}

func (Builder) MakeDo(body, cond Node) (Node, error) {
	if cond == nil || body == nil {
		return nil, errors.New("do requires a body and a condition")
	}
	return &DoWhileStmt{Body: body, Cond: cond}, nil
}

func (Builder) MakeBreak(label string) (Node, error)    { return &BreakStmt{Label: label}, nil }
func (Builder) MakeContinue(label string) (Node, error) { return &ContinueStmt{Label: label}, nil }

func (Builder) MakeName(name string) (Node, error) {
	if name == "" {
		return nil, errors.New("empty identifier")
	}
	return &Ident{Name: name}, nil
}

func (Builder) MakeString(value string) (Node, error) {
	return &StringLiteral{Value: value}, nil
}

func (Builder) MakeNumber(value float64) (Node, error) {
	return &NumberLiteral{Value: value}, nil
}

func (Builder) MakeCall(target Node) (Node, error) {
	if target == nil {
		return nil, errors.New("call of nil target")
	}
	return &CallExpr{Callee: target}, nil
}

func (Builder) AppendToCall(call, arg Node) error {
	c, ok := call.(*CallExpr)
	if !ok {
		return errors.Errorf("cannot add argument to %T", call)
	}
	c.Args = append(c.Args, arg)
	return nil
}

func (Builder) MakeIndexing(target, index Node) (Node, error) {
	if target == nil || index == nil {
		return nil, errors.New("indexing requires a target and an index")
	}
	return &IndexExpr{Object: target, Index: index}, nil
}

func (Builder) MakeBinary(left Node, op string, right Node) (Node, error) {
	if left == nil || right == nil {
		return nil, errors.Errorf("operator %q is missing an operand", op)
	}
	return &BinaryExpr{Op: op, Left: left, Right: right}, nil
}

func (Builder) MakePrefix(op string, operand Node) (Node, error) {
	if operand == nil {
		return nil, errors.Errorf("prefix %q is missing its operand", op)
	}
	return &PrefixExpr{Op: op, Operand: operand}, nil
}

func (Builder) MakeConditional(cond, ifTrue, ifFalse Node) (Node, error) {
	if cond == nil || ifTrue == nil || ifFalse == nil {
		return nil, errors.New("conditional requires three operands")
	}
	return &CondExpr{Cond: cond, Then: ifTrue, Else: ifFalse}, nil
}
