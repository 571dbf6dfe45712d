package lexer

import (
	"asmparse/internal/diag"
	"asmparse/internal/grammar"
	"asmparse/internal/token"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenize(t *testing.T, source string) ([]token.Token, *Scanner) {
	t.Helper()
	s := New(source, grammar.Default())
	tokens, err := s.Tokenize()
	require.NoError(t, err)
	return tokens, s
}

func TestTokenizeSimple(t *testing.T) {
	source := `var x = 1 + 2;`
	tokens, s := tokenize(t, source)

	expected := []struct {
		kind token.Kind
		text string
	}{
		{token.KEYWORD, "var"},
		{token.IDENT, "x"},
		{token.OPERATOR, "="},
		{token.NUMBER, "1"},
		{token.OPERATOR, "+"},
		{token.NUMBER, "2"},
		{token.SEPARATOR, ";"},
	}

	require.Len(t, tokens, len(expected))
	for i, exp := range expected {
		assert.Equal(t, exp.kind, tokens[i].Kind, "token[%d]", i)
		assert.Equal(t, exp.text, tokens[i].Text(s.Source()), "token[%d]", i)
	}
}

func TestTokenizeKeywords(t *testing.T) {
	tokens, s := tokenize(t, `function return if else while do break continue var iffy $x _y z9`)

	for i, tok := range tokens[:9] {
		assert.Equal(t, token.KEYWORD, tok.Kind, "token[%d] %q", i, tok.Text(s.Source()))
	}
	for i, tok := range tokens[9:] {
		assert.Equal(t, token.IDENT, tok.Kind, "token[%d] %q", i+9, tok.Text(s.Source()))
	}
}

func TestTokenizeOperatorsLongestMatch(t *testing.T) {
	tokens, s := tokenize(t, `>>> >> > >= == != ! = <<=`)

	var got []string
	for _, tok := range tokens {
		require.Equal(t, token.OPERATOR, tok.Kind)
		got = append(got, tok.Text(s.Source()))
	}
	// "<<=" is not an operator: the longest match is "<<", then "=".
	assert.Equal(t, []string{">>>", ">>", ">", ">=", "==", "!=", "!", "=", "<<", "="}, got)
}

func TestTokenizeAdjacentOperators(t *testing.T) {
	tokens, s := tokenize(t, `a=-b`)
	require.Len(t, tokens, 4)
	assert.Equal(t, "=", tokens[1].Text(s.Source()))
	assert.Equal(t, "-", tokens[2].Text(s.Source()))
}

func TestTokenizeSeparators(t *testing.T) {
	tokens, s := tokenize(t, `( ) [ ] { } ;`)
	require.Len(t, tokens, 7)
	for _, tok := range tokens {
		assert.Equal(t, token.SEPARATOR, tok.Kind)
		assert.Equal(t, 1, tok.Size())
	}
	assert.Equal(t, "]", tokens[3].Text(s.Source()))
}

func TestTokenizeStrings(t *testing.T) {
	tokens, s := tokenize(t, `"hello" 'it"s' "a\n" ''`)
	require.Len(t, tokens, 4)

	assert.Equal(t, token.STRING, tokens[0].Kind)
	assert.Equal(t, "hello", tokens[0].Text(s.Source()))
	assert.Equal(t, 7, tokens[0].Size())
	assert.Equal(t, `it"s`, tokens[1].Text(s.Source()))
	// no escape processing
	assert.Equal(t, `a\n`, tokens[2].Text(s.Source()))
	assert.Equal(t, "", tokens[3].Text(s.Source()))
}

func TestTokenizeNumbers(t *testing.T) {
	tests := []struct {
		src  string
		want float64
		size int
	}{
		{"123", 123, 3},
		{"3.14", 3.14, 4},
		{"1.", 1, 2},
		{"1e3", 1000, 3},
		{"2.5E-1", 0.25, 6},
		{"0x1F", 31, 4},
		{"0XfF", 255, 4},
		{"1e", 1, 1},
		{"0x", 0, 1},
		{"0x1.8", 1.5, 5},
		{"0x1.", 1, 4},
		{"0x1p4", 16, 5},
		{"0x1.8P-1", 0.75, 8},
		{"0x1p", 1, 3},
		{"7abc", 7, 1},
	}
	for _, tt := range tests {
		s := New(tt.src, grammar.Default())
		tok, err := s.Scan(0)
		require.NoError(t, err, tt.src)
		assert.Equal(t, token.NUMBER, tok.Kind, tt.src)
		assert.Equal(t, tt.want, tok.Num, tt.src)
		assert.Equal(t, tt.size, tok.Size(), tt.src)
	}

	tok, err := New("1e999", grammar.Default()).Scan(0)
	require.NoError(t, err)
	assert.True(t, math.IsInf(tok.Num, 1))
}

func TestHexFractionIsOneToken(t *testing.T) {
	tokens, s := tokenize(t, `x = 0x1.8;`)
	require.Len(t, tokens, 4)
	assert.Equal(t, token.NUMBER, tokens[2].Kind)
	assert.Equal(t, "0x1.8", tokens[2].Text(s.Source()))
	assert.Equal(t, 1.5, tokens[2].Num)
}

func TestSkipSpaceAndComments(t *testing.T) {
	source := "  // line comment\n\t/* block\n comment */ x /**/y// tail"
	tokens, s := tokenize(t, source)
	require.Len(t, tokens, 2)
	assert.Equal(t, "x", tokens[0].Text(s.Source()))
	assert.Equal(t, "y", tokens[1].Text(s.Source()))

	pos, err := s.SkipSpace(0)
	require.NoError(t, err)
	assert.Equal(t, tokens[0].Span.Offset, pos)
}

func TestDivisionIsNotComment(t *testing.T) {
	tokens, s := tokenize(t, "a / b")
	require.Len(t, tokens, 3)
	assert.Equal(t, "/", tokens[1].Text(s.Source()))
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		src  string
		kind diag.Kind
		code string
		off  int
	}{
		{`x = "open`, diag.ScanError, "E1001", 4},
		{"x /* open", diag.ScanError, "E1002", 2},
		{"x @ y", diag.ScanError, "E1003", 2},
		{"x # y", diag.ScanError, "E1003", 2},
	}
	for _, tt := range tests {
		_, err := New(tt.src, grammar.Default()).Tokenize()
		require.Error(t, err, tt.src)
		e, ok := err.(*diag.Error)
		require.True(t, ok, tt.src)
		assert.Equal(t, tt.kind, e.Kind, tt.src)
		assert.Equal(t, tt.code, e.Code, tt.src)
		assert.Equal(t, tt.off, e.Offset, tt.src)
	}
}

func TestScanAtEnd(t *testing.T) {
	_, err := New("", grammar.Default()).Scan(0)
	require.Error(t, err)
	assert.Equal(t, diag.SyntaxError, diag.KindOf(err))
}

func TestUnknownOperatorPrefix(t *testing.T) {
	def := grammar.Definition{
		Operators:  []string{"=="},
		Separators: ";",
		Tiers:      []grammar.TierDef{{Operators: []string{"=="}, Arity: grammar.Binary}},
	}
	g, err := def.Compile()
	require.NoError(t, err)

	_, err = New("=", g).Scan(0)
	require.Error(t, err)
	assert.Equal(t, "E1005", err.(*diag.Error).Code)

	tok, err := New("==", g).Scan(0)
	require.NoError(t, err)
	assert.Equal(t, token.OPERATOR, tok.Kind)
}
