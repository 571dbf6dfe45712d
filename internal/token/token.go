// Package token defines the token values produced by the scanner.
package token

import (
	"asmparse/internal/span"
	"fmt"
)

// Kind represents the type of a token.
type Kind int

const (
	KEYWORD Kind = iota
	OPERATOR
	IDENT
	STRING // content without quotes
	NUMBER
	SEPARATOR
)

var kindNames = map[Kind]string{
	KEYWORD:   "KEYWORD",
	OPERATOR:  "OPERATOR",
	IDENT:     "IDENT",
	STRING:    "STRING",
	NUMBER:    "NUMBER",
	SEPARATOR: "SEPARATOR",
}

// String returns the human-readable name for a token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is an atomic fragment of the source. Tokens only reference the
// source through their span; text is materialized on demand.
type Token struct {
	Kind Kind      `json:"kind"`
	Span span.Span `json:"span"` // whole token, quotes included
	Num  float64   `json:"num,omitempty"`
}

// Size returns the number of bytes the token consumed.
func (t Token) Size() int {
	return t.Span.Len
}

// Text returns the token's text. For strings it is the content between the
// quotes, taken verbatim.
func (t Token) Text(src string) string {
	if t.Kind == STRING {
		return src[t.Span.Offset+1 : t.Span.End()-1]
	}
	return t.Span.Slice(src)
}

// Is reports whether the token has the given kind and text.
func (t Token) Is(src string, kind Kind, text string) bool {
	return t.Kind == kind && t.Text(src) == text
}
