// Package parser implements the syntax analysis for the asm.js subset.
//
// Statements are parsed by recursive descent. Expressions are not parsed
// with precedence climbing: each nesting level first accumulates a flat
// run of operands and operators, and the call that opened the run collapses
// it tier by tier according to the grammar's precedence table. Tokens are
// scanned on demand from a cursor into the read-only source.
//
// Parsing is fail-fast: the first problem aborts the parse with a
// *diag.Error and no partial tree is returned.
package parser

import (
	"asmparse/internal/diag"
	"asmparse/internal/grammar"
	"asmparse/internal/lexer"
	"asmparse/internal/token"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ============================================================
// Options
// ============================================================

type options struct {
	grammar   *grammar.Grammar
	logger    *zap.Logger
	formatter func(node interface{}) string
}

// Option configures a Parser.
type Option func(*options)

// WithGrammar sets the lexical sets and precedence table. The default is
// grammar.Default().
func WithGrammar(g *grammar.Grammar) Option {
	return func(o *options) { o.grammar = g }
}

// WithLogger enables debug tracing of expression collapsing.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithFormatter sets how nodes are rendered in trace output.
func WithFormatter(f func(node interface{}) string) Option {
	return func(o *options) { o.formatter = f }
}

// ============================================================
// Parser
// ============================================================

// Parser turns source text into nodes built by a Builder. A Parser is not
// safe for concurrent use; run independent parses on independent Parsers.
type Parser[N any] struct {
	b    Builder[N]
	g    *grammar.Grammar
	log  *zap.Logger
	fmtN func(node interface{}) string

	scan *lexer.Scanner
	src  string
	pos  int

	levels []*level[N]
}

// New creates a Parser that builds nodes with b.
func New[N any](b Builder[N], opts ...Option) *Parser[N] {
	o := options{
		grammar:   grammar.Default(),
		logger:    zap.NewNop(),
		formatter: func(node interface{}) string { return fmt.Sprintf("%v", node) },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Parser[N]{b: b, g: o.grammar, log: o.logger, fmtN: o.formatter}
}

// ParseToplevel parses a whole script and returns the toplevel node.
func ParseToplevel[N any](src string, b Builder[N], opts ...Option) (N, error) {
	return New(b, opts...).ParseToplevel(src)
}

// ParseToplevel parses src from start to end and returns the toplevel node.
// The Parser may be reused for another source afterwards.
func (p *Parser[N]) ParseToplevel(src string) (N, error) {
	var zero N
	p.src = src
	p.pos = 0
	p.scan = lexer.New(src, p.g)
	p.levels = p.levels[:0]

	top, err := p.parseToplevel()
	if err != nil {
		p.log.Debug("parse failed", zap.Error(err), zap.Int("offset", p.pos))
		return zero, err
	}
	return top, nil
}

func (p *Parser[N]) parseToplevel() (top N, err error) {
	defer p.enter()(&err)

	top, err = p.b.MakeToplevel()
	if err != nil {
		return top, p.builderErr(err, "MakeToplevel")
	}
	if err = p.parseBlock(top, ";"); err != nil {
		return top, err
	}
	if err = p.skipSpace(); err != nil {
		return top, err
	}
	if p.pos < len(p.src) {
		return top, diag.Syntaxf("E2001", p.pos, "unexpected %s at top level", p.describe(p.pos))
	}
	return top, nil
}

// ============================================================
// Cursor helpers
// ============================================================

func (p *Parser[N]) skipSpace() error {
	pos, err := p.scan.SkipSpace(p.pos)
	p.pos = pos
	return err
}

// cur returns the byte at the cursor, or 0 at end of input.
func (p *Parser[N]) cur() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

// atStop reports whether the cursor is at end of input or on a stop byte.
func (p *Parser[N]) atStop(stops string) bool {
	return p.pos >= len(p.src) || strings.IndexByte(stops, p.src[p.pos]) >= 0
}

// expect skips whitespace and consumes ch.
func (p *Parser[N]) expect(ch byte) error {
	if err := p.skipSpace(); err != nil {
		return err
	}
	if p.cur() != ch {
		return diag.Syntaxf("E2002", p.pos, "expected '%c', got %s", ch, p.describe(p.pos))
	}
	p.pos++
	return nil
}

// next scans the token at the cursor without consuming it.
func (p *Parser[N]) next() (token.Token, error) {
	if err := p.skipSpace(); err != nil {
		return token.Token{}, err
	}
	return p.scan.Scan(p.pos)
}

// expectIdent consumes an identifier and returns its text.
func (p *Parser[N]) expectIdent(what string) (string, error) {
	tok, err := p.next()
	if err != nil {
		return "", err
	}
	if tok.Kind != token.IDENT {
		return "", diag.Syntaxf("E2006", p.pos, "expected %s, got %s", what, p.describe(p.pos))
	}
	p.pos += tok.Size()
	return tok.Text(p.src), nil
}

func (p *Parser[N]) describe(pos int) string {
	if pos >= len(p.src) {
		return "end of input"
	}
	if tok, err := p.scan.Scan(pos); err == nil {
		return fmt.Sprintf("%q", tok.Span.Slice(p.src))
	}
	return fmt.Sprintf("%q", p.src[pos])
}

func (p *Parser[N]) builderErr(err error, op string) error {
	return diag.Builder(err, p.pos, op)
}
