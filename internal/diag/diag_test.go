package diag

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	err := Syntaxf("E2002", 7, "expected '%c'", ')')
	assert.Equal(t, "[E2002] syntax error at offset 7: expected ')'", err.Error())
	assert.Equal(t, SyntaxError, err.Kind)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, ScanError, KindOf(Scanf("E1003", 0, "bad byte")))
	assert.Equal(t, InternalInvariantError, KindOf(Internalf("E3001", 0, "leftover")))
	assert.Equal(t, Unknown, KindOf(errors.New("plain")))
	assert.Equal(t, Unknown, KindOf(nil))

	wrapped := errors.Wrap(Syntaxf("E2001", 3, "unexpected"), "parse foo.js")
	assert.Equal(t, SyntaxError, KindOf(wrapped))
	off, ok := OffsetOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, 3, off)

	_, ok = OffsetOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestBuilderWrap(t *testing.T) {
	assert.Nil(t, Builder(nil, 0, "MakeName"))

	root := errors.New("no room")
	err := Builder(root, 12, "AppendToBlock")
	require.Error(t, err)
	assert.Equal(t, BuilderError, KindOf(err))
	assert.Equal(t, root, errors.Cause(err))
	assert.Contains(t, err.Error(), "AppendToBlock: no room")

	// Wrapping the builder failure again still finds the parse failure first.
	outer := errors.Wrap(err, "parse")
	assert.Equal(t, BuilderError, KindOf(outer))
	assert.ErrorIs(t, outer, root)
}
