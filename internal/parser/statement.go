package parser

import (
	"asmparse/internal/diag"
	"asmparse/internal/token"
)

// parseElement reads one element at the cursor and dispatches on its kind.
// Operands and operators continue into the expression resolver; keywords
// start a statement form.
func (p *Parser[N]) parseElement(stops string) (N, error) {
	var zero N
	if err := p.skipSpace(); err != nil {
		return zero, err
	}
	// a run may not end in a bare operator
	if lv := p.top(); len(lv.parts) > 0 && p.pos < len(p.src) && (p.atStop(stops) || isCloser(p.cur())) {
		if last := lv.parts[len(lv.parts)-1]; !last.isNode {
			return zero, diag.Syntaxf("E2003", p.pos, "expected operand after %q, got %s", last.op, p.describe(p.pos))
		}
	}
	tok, err := p.scan.Scan(p.pos)
	if err != nil {
		return zero, err
	}
	start := p.pos
	p.pos += tok.Size()

	switch tok.Kind {
	case token.KEYWORD:
		n, err := p.parseAfterKeyword(tok.Text(p.src), stops)
		if err != nil {
			return zero, err
		}
		// A statement form inside an open run, e.g. the function in
		// "f = function g() {}", is the run's final operand.
		if lv := p.top(); len(lv.parts) > 0 {
			lv.parts = append(lv.parts, nodeElem(n))
		}
		return n, nil
	case token.IDENT:
		n, err := p.b.MakeName(tok.Text(p.src))
		if err != nil {
			return zero, p.builderErr(err, "MakeName")
		}
		return p.resolve(nodeElem(n), stops)
	case token.STRING:
		n, err := p.b.MakeString(tok.Text(p.src))
		if err != nil {
			return zero, p.builderErr(err, "MakeString")
		}
		return p.resolve(nodeElem(n), stops)
	case token.NUMBER:
		n, err := p.b.MakeNumber(tok.Num)
		if err != nil {
			return zero, p.builderErr(err, "MakeNumber")
		}
		return p.resolve(nodeElem(n), stops)
	case token.OPERATOR:
		return p.resolve(opElem[N](tok.Text(p.src)), stops)
	case token.SEPARATOR:
		if tok.Is(p.src, token.SEPARATOR, "(") {
			n, err := p.parseAfterParen()
			if err != nil {
				return zero, err
			}
			return p.resolve(nodeElem(n), stops)
		}
	}
	return zero, diag.Syntaxf("E2005", start, "unexpected %s", p.describe(start))
}

func (p *Parser[N]) parseAfterKeyword(keyword string, stops string) (n N, err error) {
	defer p.enter()(&err)

	switch keyword {
	case "function":
		return p.parseFunction()
	case "var":
		return p.parseVar()
	case "return":
		return p.parseReturn()
	case "if":
		return p.parseIf(stops)
	case "while":
		return p.parseWhile(stops)
	case "do":
		return p.parseDo(stops)
	case "break", "continue":
		return p.parseJump(keyword)
	}
	return n, diag.Syntaxf("E2005", p.pos-len(keyword), "unexpected keyword %q", keyword)
}

// ============================================================
// Statement forms
// ============================================================

// function NAME ( [ IDENT { , IDENT } ] ) { BODY }
func (p *Parser[N]) parseFunction() (N, error) {
	var zero N
	name, err := p.expectIdent("function name")
	if err != nil {
		return zero, err
	}
	fn, err := p.b.MakeFunction(name)
	if err != nil {
		return zero, p.builderErr(err, "MakeFunction")
	}
	if err := p.expect('('); err != nil {
		return zero, err
	}
	if err := p.skipSpace(); err != nil {
		return zero, err
	}
	for p.cur() != ')' {
		arg, err := p.expectIdent("parameter name")
		if err != nil {
			return zero, err
		}
		if err := p.b.AppendArgumentToFunction(fn, arg); err != nil {
			return zero, p.builderErr(err, "AppendArgumentToFunction")
		}
		if err := p.skipSpace(); err != nil {
			return zero, err
		}
		if p.cur() == ',' {
			p.pos++
			continue
		}
		if p.cur() != ')' {
			return zero, diag.Syntaxf("E2002", p.pos, "expected ',' or ')', got %s", p.describe(p.pos))
		}
	}
	p.pos++
	if err := p.parseBracketedBlock(fn); err != nil {
		return zero, err
	}
	return fn, nil
}

// var NAME [ = EXPR ] { , NAME [ = EXPR ] } ;
func (p *Parser[N]) parseVar() (N, error) {
	var zero N
	v, err := p.b.MakeVar()
	if err != nil {
		return zero, p.builderErr(err, "MakeVar")
	}
	if err := p.skipSpace(); err != nil {
		return zero, err
	}
	for p.cur() != ';' {
		name, err := p.expectIdent("variable name")
		if err != nil {
			return zero, err
		}
		tok, err := p.next()
		if err != nil {
			return zero, err
		}
		var value N
		if tok.Is(p.src, token.OPERATOR, "=") {
			p.pos += tok.Size()
			if value, err = p.parseElement(";,"); err != nil {
				return zero, err
			}
		}
		if err := p.b.AppendToVar(v, name, value); err != nil {
			return zero, p.builderErr(err, "AppendToVar")
		}
		if err := p.skipSpace(); err != nil {
			return zero, err
		}
		if p.cur() == ',' {
			p.pos++
			continue
		}
		if p.cur() != ';' {
			return zero, diag.Syntaxf("E2002", p.pos, "expected ',' or ';', got %s", p.describe(p.pos))
		}
	}
	p.pos++
	return v, nil
}

// return [ EXPR ] ;
func (p *Parser[N]) parseReturn() (N, error) {
	var zero N
	if err := p.skipSpace(); err != nil {
		return zero, err
	}
	var value N
	if p.cur() != ';' {
		var err error
		if value, err = p.parseElement(";"); err != nil {
			return zero, err
		}
	}
	if err := p.expect(';'); err != nil {
		return zero, err
	}
	ret, err := p.b.MakeReturn(value)
	if err != nil {
		return zero, p.builderErr(err, "MakeReturn")
	}
	return ret, nil
}

// if ( EXPR ) BODY [ else BODY ]
func (p *Parser[N]) parseIf(stops string) (N, error) {
	var zero N
	cond, err := p.parseCondition()
	if err != nil {
		return zero, err
	}
	ifTrue, err := p.parseMaybeBracketedBlock(stops)
	if err != nil {
		return zero, err
	}
	var ifFalse N
	if err := p.skipSpace(); err != nil {
		return zero, err
	}
	// "if (c) a; else b": the ';' ends the branch, not the if.
	if p.cur() == ';' && p.elseFollows(p.pos+1) {
		p.pos++
		if err := p.skipSpace(); err != nil {
			return zero, err
		}
	}
	if !p.atStop(stops) {
		tok, err := p.scan.Scan(p.pos)
		if err != nil {
			return zero, err
		}
		if tok.Is(p.src, token.KEYWORD, "else") {
			p.pos += tok.Size()
			if ifFalse, err = p.parseMaybeBracketedBlock(stops); err != nil {
				return zero, err
			}
		}
	}
	n, err := p.b.MakeIf(cond, ifTrue, ifFalse)
	if err != nil {
		return zero, p.builderErr(err, "MakeIf")
	}
	return n, nil
}

func (p *Parser[N]) elseFollows(pos int) bool {
	pos, err := p.scan.SkipSpace(pos)
	if err != nil || pos >= len(p.src) {
		return false
	}
	tok, err := p.scan.Scan(pos)
	return err == nil && tok.Is(p.src, token.KEYWORD, "else")
}

// while ( EXPR ) BODY
func (p *Parser[N]) parseWhile(stops string) (N, error) {
	var zero N
	cond, err := p.parseCondition()
	if err != nil {
		return zero, err
	}
	body, err := p.parseMaybeBracketedBlock(stops)
	if err != nil {
		return zero, err
	}
	n, err := p.b.MakeWhile(cond, body)
	if err != nil {
		return zero, p.builderErr(err, "MakeWhile")
	}
	return n, nil
}

// do BODY while ( EXPR ) [ ; ]
func (p *Parser[N]) parseDo(stops string) (N, error) {
	var zero N
	body, err := p.parseMaybeBracketedBlock(stops)
	if err != nil {
		return zero, err
	}
	if err := p.skipSpace(); err != nil {
		return zero, err
	}
	if p.cur() == ';' {
		p.pos++
	}
	tok, err := p.next()
	if err != nil {
		return zero, err
	}
	if !tok.Is(p.src, token.KEYWORD, "while") {
		return zero, diag.Syntaxf("E2007", p.pos, "expected \"while\" after do body, got %s", p.describe(p.pos))
	}
	p.pos += tok.Size()
	cond, err := p.parseCondition()
	if err != nil {
		return zero, err
	}
	if err := p.skipSpace(); err != nil {
		return zero, err
	}
	if p.cur() == ';' {
		p.pos++
	}
	n, err := p.b.MakeDo(body, cond)
	if err != nil {
		return zero, p.builderErr(err, "MakeDo")
	}
	return n, nil
}

// break [ LABEL ] ;  and  continue [ LABEL ] ;
func (p *Parser[N]) parseJump(keyword string) (N, error) {
	var zero N
	if err := p.skipSpace(); err != nil {
		return zero, err
	}
	var label string
	if p.pos < len(p.src) {
		tok, err := p.scan.Scan(p.pos)
		if err != nil {
			return zero, err
		}
		if tok.Kind == token.IDENT {
			label = tok.Text(p.src)
			p.pos += tok.Size()
		}
	}
	if err := p.expect(';'); err != nil {
		return zero, err
	}
	if keyword == "break" {
		n, err := p.b.MakeBreak(label)
		if err != nil {
			return zero, p.builderErr(err, "MakeBreak")
		}
		return n, nil
	}
	n, err := p.b.MakeContinue(label)
	if err != nil {
		return zero, p.builderErr(err, "MakeContinue")
	}
	return n, nil
}

// parseCondition reads "( EXPR )".
func (p *Parser[N]) parseCondition() (N, error) {
	var zero N
	if err := p.expect('('); err != nil {
		return zero, err
	}
	cond, err := p.parseElement(")")
	if err != nil {
		return zero, err
	}
	if err := p.expect(')'); err != nil {
		return zero, err
	}
	return cond, nil
}

// ============================================================
// Suffixes and parentheses
// ============================================================

// parseCall reads an argument list; the cursor is on '('.
func (p *Parser[N]) parseCall(target N) (call N, err error) {
	defer p.enter()(&err)

	p.pos++
	call, err = p.b.MakeCall(target)
	if err != nil {
		return call, p.builderErr(err, "MakeCall")
	}
	if err = p.skipSpace(); err != nil {
		return call, err
	}
	for p.cur() != ')' {
		arg, err := p.parseElement(",)")
		if err != nil {
			return call, err
		}
		if err := p.b.AppendToCall(call, arg); err != nil {
			return call, p.builderErr(err, "AppendToCall")
		}
		if err := p.skipSpace(); err != nil {
			return call, err
		}
		if p.cur() == ',' {
			p.pos++
			continue
		}
		if p.cur() != ')' {
			return call, diag.Syntaxf("E2002", p.pos, "expected ',' or ')', got %s", p.describe(p.pos))
		}
	}
	p.pos++
	return call, nil
}

// parseIndexing reads "[ EXPR ]"; the cursor is on '['.
func (p *Parser[N]) parseIndexing(target N) (n N, err error) {
	defer p.enter()(&err)

	p.pos++
	index, err := p.parseElement("]")
	if err != nil {
		return n, err
	}
	if err = p.expect(']'); err != nil {
		return n, err
	}
	n, err = p.b.MakeIndexing(target, index)
	if err != nil {
		return n, p.builderErr(err, "MakeIndexing")
	}
	return n, nil
}

// parseAfterParen reads "EXPR )"; the '(' has been consumed.
func (p *Parser[N]) parseAfterParen() (n N, err error) {
	defer p.enter()(&err)

	n, err = p.parseElement(")")
	if err != nil {
		return n, err
	}
	return n, p.expect(')')
}

// ============================================================
// Blocks
// ============================================================

// parseBlock appends statements to block until a stop byte, a closing
// bracket or the end of input. An element followed by ';' is wrapped as a
// statement; a lone ';' is skipped.
func (p *Parser[N]) parseBlock(block N, stops string) error {
	for {
		if err := p.skipSpace(); err != nil {
			return err
		}
		if p.pos >= len(p.src) {
			return nil
		}
		if p.cur() == ';' {
			p.pos++
			continue
		}
		if p.atStop(stops) || isCloser(p.cur()) {
			return nil
		}

		element, err := p.parseElement(stops)
		if err != nil {
			return err
		}
		if err := p.skipSpace(); err != nil {
			return err
		}
		if p.cur() == ';' {
			if element, err = p.b.MakeStatement(element); err != nil {
				return p.builderErr(err, "MakeStatement")
			}
			p.pos++
		}
		if err := p.b.AppendToBlock(block, element); err != nil {
			return p.builderErr(err, "AppendToBlock")
		}
	}
}

// parseBracketedBlock reads "{ STATEMENTS }" into block.
func (p *Parser[N]) parseBracketedBlock(block N) (err error) {
	defer p.enter()(&err)

	if err = p.expect('{'); err != nil {
		return err
	}
	if err = p.parseBlock(block, ";}"); err != nil {
		return err
	}
	return p.expect('}')
}

// parseMaybeBracketedBlock reads a braced block or a single element.
func (p *Parser[N]) parseMaybeBracketedBlock(stops string) (N, error) {
	var zero N
	if err := p.skipSpace(); err != nil {
		return zero, err
	}
	if p.cur() != '{' {
		return p.parseElement(stops)
	}
	block, err := p.b.MakeBlock()
	if err != nil {
		return zero, p.builderErr(err, "MakeBlock")
	}
	if err := p.parseBracketedBlock(block); err != nil {
		return zero, err
	}
	return block, nil
}

func isCloser(ch byte) bool {
	return ch == '}' || ch == ')' || ch == ']'
}
