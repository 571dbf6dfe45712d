package span

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpanSlice(t *testing.T) {
	src := "var x = 1;"
	s := Span{Offset: 4, Len: 1}
	assert.Equal(t, "x", s.Slice(src))
	assert.Equal(t, 5, s.End())
	assert.Equal(t, "4+1", s.String())
}

func TestPositionFor(t *testing.T) {
	src := "a\nbc\n\nd"

	tests := []struct {
		offset int
		want   Position
	}{
		{0, Position{Offset: 0, Line: 1, Column: 1}},
		{2, Position{Offset: 2, Line: 2, Column: 1}},
		{3, Position{Offset: 3, Line: 2, Column: 2}},
		{5, Position{Offset: 5, Line: 3, Column: 1}},
		{6, Position{Offset: 6, Line: 4, Column: 1}},
		{100, Position{Offset: 7, Line: 4, Column: 2}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PositionFor(src, tt.offset), "offset %d", tt.offset)
	}
	assert.Equal(t, "4:2", PositionFor(src, 7).String())
}

func TestContext(t *testing.T) {
	src := "var a = 1;\nvar x = ;\nreturn;"
	got := Context(src, 19)
	assert.Equal(t, "var x = ;\n        ^", got)
}

func TestContextKeepsTabs(t *testing.T) {
	src := "\tif (a) {"
	got := Context(src, 5)
	assert.Equal(t, "\tif (a) {\n\t    ^", got)
}
