// Package span provides byte spans into a read-only source buffer and the
// lazy position lookups used when reporting diagnostics.
package span

import (
	"fmt"
	"strings"
)

// Span is a range [Offset, Offset+Len) in the source buffer.
type Span struct {
	Offset int `json:"offset"`
	Len    int `json:"len"`
}

// End returns the offset just past the span.
func (s Span) End() int {
	return s.Offset + s.Len
}

// Slice returns the bytes of src covered by the span.
func (s Span) Slice(src string) string {
	return src[s.Offset:s.End()]
}

func (s Span) String() string {
	return fmt.Sprintf("%d+%d", s.Offset, s.Len)
}

// Position represents a position in source code.
type Position struct {
	Offset int `json:"offset"` // byte offset from beginning of source
	Line   int `json:"line"`   // 1-based line number
	Column int `json:"column"` // 1-based column number
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// PositionFor computes the line and column of offset in src. Positions are
// not tracked while scanning; they are only recovered for diagnostics.
func PositionFor(src string, offset int) Position {
	if offset > len(src) {
		offset = len(src)
	}
	if offset < 0 {
		offset = 0
	}
	line := 1 + strings.Count(src[:offset], "\n")
	lineStart := strings.LastIndexByte(src[:offset], '\n') + 1
	return Position{Offset: offset, Line: line, Column: offset - lineStart + 1}
}

// Context renders the source line containing offset followed by a caret
// line pointing at it. Tabs are kept so the caret stays aligned.
func Context(src string, offset int) string {
	pos := PositionFor(src, offset)
	start := pos.Offset - (pos.Column - 1)
	end := strings.IndexByte(src[start:], '\n')
	if end < 0 {
		end = len(src)
	} else {
		end += start
	}
	line := strings.TrimRight(src[start:end], "\r")

	var caret strings.Builder
	for i := start; i < pos.Offset && i-start < len(line); i++ {
		if line[i-start] == '\t' {
			caret.WriteByte('\t')
		} else {
			caret.WriteByte(' ')
		}
	}
	caret.WriteByte('^')
	return line + "\n" + caret.String()
}
