// Package lexer implements the on-demand token scanner. The scanner holds no
// cursor of its own: callers pass the position to scan from and advance past
// the returned token's span, so lexing interleaves freely with parsing.
package lexer

import (
	"asmparse/internal/diag"
	"asmparse/internal/grammar"
	"asmparse/internal/span"
	"asmparse/internal/token"
	"strconv"
	"strings"
)

// Scanner produces tokens from a read-only source buffer.
type Scanner struct {
	source string
	g      *grammar.Grammar
}

// New creates a Scanner over source using the lexical sets of g.
func New(source string, g *grammar.Grammar) *Scanner {
	return &Scanner{source: source, g: g}
}

// Source returns the scanned text.
func (s *Scanner) Source() string {
	return s.source
}

// Tokenize scans the whole source. The parser never calls it; it exists for
// token listings.
func (s *Scanner) Tokenize() ([]token.Token, error) {
	var tokens []token.Token
	pos := 0
	for {
		var err error
		pos, err = s.SkipSpace(pos)
		if err != nil {
			return tokens, err
		}
		if pos >= len(s.source) {
			return tokens, nil
		}
		tok, err := s.Scan(pos)
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		pos += tok.Size()
	}
}

// ---- whitespace and comments ----

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

// SkipSpace returns the first position at or after pos that is not
// whitespace or inside a comment.
func (s *Scanner) SkipSpace(pos int) (int, error) {
	src := s.source
	for pos < len(src) {
		ch := src[pos]
		if isSpace(ch) {
			pos++
			continue
		}
		if ch == '/' && pos+1 < len(src) {
			switch src[pos+1] {
			case '/':
				end := strings.IndexByte(src[pos+2:], '\n')
				if end < 0 {
					return len(src), nil
				}
				pos += 2 + end + 1
				continue
			case '*':
				end := strings.Index(src[pos+2:], "*/")
				if end < 0 {
					return pos, diag.Scanf("E1002", pos, "unterminated block comment")
				}
				pos += 2 + end + 2
				continue
			}
		}
		break
	}
	return pos, nil
}

// ---- token reading ----

// Scan reads exactly one token starting at pos, which must not be
// whitespace.
func (s *Scanner) Scan(pos int) (token.Token, error) {
	if pos >= len(s.source) {
		return token.Token{}, diag.Syntaxf("E2000", pos, "unexpected end of input")
	}
	ch := s.source[pos]

	switch {
	case isIdentStart(ch):
		return s.readIdentifier(pos), nil
	case ch == '"' || ch == '\'':
		return s.readString(pos)
	case isDigit(ch):
		return s.readNumber(pos)
	case s.g.IsOperatorInit(ch):
		return s.readOperator(pos)
	case s.g.IsSeparator(ch):
		return token.Token{Kind: token.SEPARATOR, Span: span.Span{Offset: pos, Len: 1}}, nil
	default:
		return token.Token{}, diag.Scanf("E1003", pos, "unexpected character %q", ch)
	}
}

// readIdentifier reads an identifier or keyword.
func (s *Scanner) readIdentifier(start int) token.Token {
	end := start + 1
	for end < len(s.source) && isIdentPart(s.source[end]) {
		end++
	}
	kind := token.IDENT
	if s.g.IsKeyword(s.source[start:end]) {
		kind = token.KEYWORD
	}
	return token.Token{Kind: kind, Span: span.Span{Offset: start, Len: end - start}}
}

// readString reads a quoted string. The closing quote is the next byte equal
// to the opening one; backslashes have no special meaning.
func (s *Scanner) readString(start int) (token.Token, error) {
	quote := s.source[start]
	end := strings.IndexByte(s.source[start+1:], quote)
	if end < 0 {
		return token.Token{}, diag.Scanf("E1001", start, "unterminated string literal")
	}
	return token.Token{Kind: token.STRING, Span: span.Span{Offset: start, Len: end + 2}}, nil
}

// readNumber reads the longest numeric prefix: decimal with optional fraction
// and exponent, or 0x hexadecimal with optional fraction and p exponent.
func (s *Scanner) readNumber(start int) (token.Token, error) {
	src := s.source
	end := start

	if src[end] == '0' && end+2 < len(src) && (src[end+1] == 'x' || src[end+1] == 'X') && isHexDigit(src[end+2]) {
		end += 2
		for end < len(src) && isHexDigit(src[end]) {
			end++
		}
		if end < len(src) && src[end] == '.' {
			end++
			for end < len(src) && isHexDigit(src[end]) {
				end++
			}
		}
		// hex floats need a binary exponent for ParseFloat
		lit := src[start:end] + "p0"
		if end < len(src) && (src[end] == 'p' || src[end] == 'P') {
			exp := end + 1
			if exp < len(src) && (src[exp] == '+' || src[exp] == '-') {
				exp++
			}
			if exp < len(src) && isDigit(src[exp]) {
				end = exp
				for end < len(src) && isDigit(src[end]) {
					end++
				}
				lit = src[start:end]
			}
		}
		v, err := strconv.ParseFloat(lit, 64)
		if err != nil && !isRangeErr(err) {
			return token.Token{}, diag.Scanf("E1004", start, "invalid number %q", src[start:end])
		}
		return token.Token{Kind: token.NUMBER, Span: span.Span{Offset: start, Len: end - start}, Num: v}, nil
	}

	for end < len(src) && isDigit(src[end]) {
		end++
	}
	if end < len(src) && src[end] == '.' {
		end++
		for end < len(src) && isDigit(src[end]) {
			end++
		}
	}
	if end < len(src) && (src[end] == 'e' || src[end] == 'E') {
		exp := end + 1
		if exp < len(src) && (src[exp] == '+' || src[exp] == '-') {
			exp++
		}
		if exp < len(src) && isDigit(src[exp]) {
			end = exp
			for end < len(src) && isDigit(src[end]) {
				end++
			}
		}
	}

	v, err := strconv.ParseFloat(src[start:end], 64)
	if err != nil && !isRangeErr(err) {
		return token.Token{}, diag.Scanf("E1004", start, "invalid number %q", src[start:end])
	}
	return token.Token{Kind: token.NUMBER, Span: span.Span{Offset: start, Len: end - start}, Num: v}, nil
}

// readOperator keeps the longest prefix, up to MaxOperatorSize bytes, that is
// exactly an operator.
func (s *Scanner) readOperator(start int) (token.Token, error) {
	best := 0
	for n := 1; n <= s.g.MaxOperatorSize && start+n <= len(s.source); n++ {
		if s.g.IsOperator(s.source[start : start+n]) {
			best = n
		}
	}
	if best == 0 {
		return token.Token{}, diag.Scanf("E1005", start, "unknown operator starting with %q", s.source[start])
	}
	return token.Token{Kind: token.OPERATOR, Span: span.Span{Offset: start, Len: best}}, nil
}

// ---- character classification ----

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ch == '$' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

// Overflowing literals saturate to ±Inf like strtod.
func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}
