package parser

import (
	"asmparse/internal/diag"
	"asmparse/internal/grammar"
	"asmparse/internal/token"
	"strings"

	"go.uber.org/zap"
)

// element is one entry of a flat expression run: either a built node or a
// bare operator waiting for its tier.
type element[N any] struct {
	isNode bool
	node   N
	op     string
}

func nodeElem[N any](n N) element[N] {
	return element[N]{isNode: true, node: n}
}

func opElem[N any](op string) element[N] {
	return element[N]{op: op}
}

// level is the expression buffer of one nesting level. A new level opens
// for the toplevel, every parenthesized expression, every call argument
// list, every index and every statement form.
type level[N any] struct {
	parts []element[N]
}

func (p *Parser[N]) top() *level[N] {
	return p.levels[len(p.levels)-1]
}

// enter opens a nesting level. The returned func closes it and must run on
// every exit path:
//
//	defer p.enter()(&err)
//
// On a successful exit the level has to be empty; a failed parse discards
// whatever is still buffered.
func (p *Parser[N]) enter() func(*error) {
	p.levels = append(p.levels, &level[N]{})
	depth := len(p.levels)
	return func(errp *error) {
		lv := p.levels[depth-1]
		p.levels = p.levels[:depth-1]
		if *errp == nil && len(lv.parts) != 0 {
			*errp = diag.Internalf("E3003", p.pos, "nesting level closed with %d pending elements", len(lv.parts))
		}
	}
}

// resolve continues an expression whose first element has just been read.
//
// Elements are appended to the current level until a stop byte or the end
// of input. The call that found the level empty owns the run and collapses
// it; every other call returns the last element it saw, which the owner
// ignores. A node followed by '(' or '[' is first turned into a call or an
// index and resolution restarts with the result.
func (p *Parser[N]) resolve(initial element[N], stops string) (N, error) {
	var zero N
	lv := p.top()

	if err := p.skipSpace(); err != nil {
		return zero, err
	}
	if p.atStop(stops) {
		if !initial.isNode {
			return zero, diag.Syntaxf("E2003", p.pos, "expected operand after %q, got %s", initial.op, p.describe(p.pos))
		}
		if len(lv.parts) > 0 {
			// the final operand of a run
			lv.parts = append(lv.parts, initial)
		}
		return initial.node, nil
	}

	owner := len(lv.parts) == 0
	if initial.isNode {
		tok, err := p.scan.Scan(p.pos)
		if err != nil {
			return zero, err
		}
		switch {
		case tok.Kind == token.OPERATOR:
			p.pos += tok.Size()
			lv.parts = append(lv.parts, initial, opElem[N](tok.Text(p.src)))
		case tok.Is(p.src, token.SEPARATOR, "("):
			call, err := p.parseCall(initial.node)
			if err != nil {
				return zero, err
			}
			return p.resolve(nodeElem(call), stops)
		case tok.Is(p.src, token.SEPARATOR, "["):
			idx, err := p.parseIndexing(initial.node)
			if err != nil {
				return zero, err
			}
			return p.resolve(nodeElem(idx), stops)
		default:
			return zero, diag.Syntaxf("E2004", p.pos, "unexpected %s after operand", p.describe(p.pos))
		}
	} else {
		lv.parts = append(lv.parts, initial)
	}

	last, err := p.parseElement(stops)
	if err != nil {
		return zero, err
	}
	if !owner {
		return last, nil
	}
	return p.collapse(p.top())
}

// collapse reduces the run of lv to a single node by walking the precedence
// tiers in order. The level is left empty.
func (p *Parser[N]) collapse(lv *level[N]) (N, error) {
	var zero N
	parts := lv.parts
	ce := p.log.Check(zap.DebugLevel, "collapsed expression")
	var before string
	if ce != nil {
		before = p.formatParts(parts)
	}

	for _, tier := range p.g.Tiers {
		var err error
		if tier.Assoc == grammar.RightToLeft {
			parts, err = p.collapseRTL(tier, parts)
		} else {
			parts, err = p.collapseLTR(tier, parts)
		}
		if err != nil {
			return zero, err
		}
		if len(parts) == 1 {
			break
		}
	}

	if len(parts) != 1 || !parts[0].isNode {
		return zero, diag.Internalf("E3001", p.pos, "expression did not reduce to a single node: %s", p.formatParts(parts))
	}
	lv.parts = parts[:0]
	if ce != nil {
		ce.Write(
			zap.Int("level", len(p.levels)),
			zap.String("parts", before),
			zap.String("result", p.fmtN(parts[0].node)),
		)
	}
	return parts[0].node, nil
}

func (p *Parser[N]) collapseRTL(tier grammar.Tier, parts []element[N]) ([]element[N], error) {
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i].isNode || !tier.Has(parts[i].op) {
			continue
		}
		op := parts[i].op
		switch tier.Arity {
		case grammar.Binary:
			if i == 0 || i == len(parts)-1 {
				continue
			}
			n, err := p.binary(parts[i-1], op, parts[i+1])
			if err != nil {
				return nil, err
			}
			parts[i-1] = nodeElem(n)
			parts = splice(parts, i, 2)
		case grammar.Prefix:
			if i == len(parts)-1 || !parts[i+1].isNode || (i > 0 && parts[i-1].isNode) {
				continue
			}
			n, err := p.b.MakePrefix(op, parts[i+1].node)
			if err != nil {
				return nil, p.builderErr(err, "MakePrefix")
			}
			parts[i] = nodeElem(n)
			parts = splice(parts, i+1, 1)
		case grammar.Tertiary:
			// A '?' is consumed together with the ':' that closes it.
			if op != ":" {
				continue
			}
			if i < 3 || i == len(parts)-1 || parts[i-2].isNode || parts[i-2].op != "?" ||
				!parts[i-3].isNode || !parts[i-1].isNode || !parts[i+1].isNode {
				return nil, diag.Internalf("E3002", p.pos, "malformed conditional in %s", p.formatParts(parts))
			}
			n, err := p.b.MakeConditional(parts[i-3].node, parts[i-1].node, parts[i+1].node)
			if err != nil {
				return nil, p.builderErr(err, "MakeConditional")
			}
			parts[i-3] = nodeElem(n)
			parts = splice(parts, i-2, 4)
			i -= 2
		}
	}
	return parts, nil
}

func (p *Parser[N]) collapseLTR(tier grammar.Tier, parts []element[N]) ([]element[N], error) {
	for i := 0; i < len(parts); i++ {
		if parts[i].isNode || !tier.Has(parts[i].op) {
			continue
		}
		op := parts[i].op
		switch tier.Arity {
		case grammar.Binary:
			if i == 0 || i == len(parts)-1 {
				continue
			}
			n, err := p.binary(parts[i-1], op, parts[i+1])
			if err != nil {
				return nil, err
			}
			parts[i-1] = nodeElem(n)
			parts = splice(parts, i, 2)
			i--
		case grammar.Prefix:
			if i == len(parts)-1 || !parts[i+1].isNode || (i > 0 && parts[i-1].isNode) {
				continue
			}
			n, err := p.b.MakePrefix(op, parts[i+1].node)
			if err != nil {
				return nil, p.builderErr(err, "MakePrefix")
			}
			parts[i] = nodeElem(n)
			parts = splice(parts, i+1, 1)
			// revisit a prefix operator directly before the new node
			if i -= 2; i < -1 {
				i = -1
			}
		case grammar.Tertiary:
			return nil, diag.Internalf("E3002", p.pos, "conditional tier must be right-to-left")
		}
	}
	return parts, nil
}

func (p *Parser[N]) binary(left element[N], op string, right element[N]) (N, error) {
	var zero N
	if !left.isNode || !right.isNode {
		return zero, diag.Internalf("E3002", p.pos, "operator %q is missing an operand", op)
	}
	n, err := p.b.MakeBinary(left.node, op, right.node)
	if err != nil {
		return zero, p.builderErr(err, "MakeBinary")
	}
	return n, nil
}

// splice removes n elements starting at i.
func splice[N any](parts []element[N], i, n int) []element[N] {
	return append(parts[:i], parts[i+n:]...)
}

func (p *Parser[N]) formatParts(parts []element[N]) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range parts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if e.isNode {
			sb.WriteString(p.fmtN(e.node))
		} else {
			sb.WriteString(e.op)
		}
	}
	sb.WriteByte(']')
	return sb.String()
}
