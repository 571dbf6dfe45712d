package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"asmparse/internal/grammar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpAndDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, Defaults()))
	assert.Contains(t, buf.String(), "[Log]")
	assert.Contains(t, buf.String(), "Tiers")

	var cfg Config
	require.NoError(t, Decode(&buf, &cfg))
	assert.Equal(t, Defaults(), cfg)

	_, err := cfg.Grammar.Compile()
	require.NoError(t, err)
}

func TestDecodeKeepsUnsetSections(t *testing.T) {
	cfg := Defaults()
	src := `
[Log]
Level = "debug"
Encoding = "json"

[Cache]
Size = 8
`
	require.NoError(t, Decode(strings.NewReader(src), &cfg))
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Cache.Size)
	assert.Equal(t, grammar.DefaultDefinition(), cfg.Grammar)
}

func TestDecodeReplacesGrammar(t *testing.T) {
	cfg := Defaults()
	src := `
[Grammar]
Operators = ["+", "*"]
Separators = "();"

[[Grammar.Tiers]]
Operators = ["+"]
Assoc = "ltr"
Arity = "binary"

[[Grammar.Tiers]]
Operators = ["*"]
Assoc = "ltr"
Arity = "binary"
`
	require.NoError(t, Decode(strings.NewReader(src), &cfg))
	assert.Empty(t, cfg.Grammar.Keywords)
	require.Len(t, cfg.Grammar.Tiers, 2)

	g, err := cfg.Grammar.Compile()
	require.NoError(t, err)
	assert.False(t, g.IsOperator("-"))
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	cfg := Defaults()
	assert.Error(t, Load(filepath.Join(dir, "missing.toml"), &cfg))

	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[Log]\nVerbose = true\n"), 0644))
	err := Load(path, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.toml")
	assert.Contains(t, err.Error(), "Verbose")
}
