package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"asmparse/internal/ast"
	"asmparse/internal/diag"
	"asmparse/internal/parsecache"
	"asmparse/internal/parser"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/urfave/cli.v1"
)

// run executes the CLI with captured output. Exit codes are reported
// through the returned error instead of terminating the test binary.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true
	cli.OsExiter = func(int) {}

	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.Run(append([]string{"asmparse"}, args...))
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.js", "var x = 1 + 2 * 3;\n")
	b := writeFile(t, dir, "b.js", "f(x)[0];\n")

	out, _, err := run(t, "parse", "-j", "2", a, b)
	require.NoError(t, err)
	assert.Equal(t, "// "+a+"\n(var (x (+ 1 (* 2 3))))\n// "+b+"\n(stmt (index (call f x) 0))\n", out)
}

func TestParseCommandJSON(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.js", "return;")

	out, _, err := run(t, "parse", "--format", "json", a)
	require.NoError(t, err)

	var tree map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	assert.Equal(t, "Toplevel", tree["kind"])
}

func TestParseCommandSpew(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.js", "x;")

	out, _, err := run(t, "parse", "--format", "spew", a)
	require.NoError(t, err)
	assert.Contains(t, out, "ast.Toplevel")
	assert.Contains(t, out, `Name: (string) (len=1) "x"`)
}

func TestParseCommandFailure(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.js", "var a = 1;\nif (a) {\n")

	_, stderr, err := run(t, "parse", bad)
	require.Error(t, err)
	assert.Contains(t, stderr, bad+":3:1: syntax error [E2002]")

	_, _, err = run(t, "parse", "--format", "xml", bad)
	assert.Error(t, err)

	_, _, err = run(t, "parse", filepath.Join(dir, "missing.js"))
	assert.Error(t, err)
}

func TestTokensCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.js", "x = 0x10;")

	out, _, err := run(t, "tokens", a)
	require.NoError(t, err)
	assert.Contains(t, out, "IDENT")
	assert.Contains(t, out, "0x10 = 16")

	out, _, err = run(t, "tokens", "--json", a)
	require.NoError(t, err)
	var listing struct {
		Tokens []struct {
			Kind string `json:"kind"`
			Text string `json:"text"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &listing))
	require.Len(t, listing.Tokens, 4)
	assert.Equal(t, "=", listing.Tokens[1].Text)
}

func TestDumpConfigAndLoad(t *testing.T) {
	out, _, err := run(t, "dumpconfig")
	require.NoError(t, err)
	assert.Contains(t, out, "[Cache]")

	dir := t.TempDir()
	cfg := writeFile(t, dir, "asmparse.toml", `
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
`)
	src := writeFile(t, dir, "a.js", "1 + 2 * 3;")
	out, _, err = run(t, "--config", cfg, "parse", src)
	require.NoError(t, err)
	assert.Equal(t, "(stmt (* (+ 1 2) 3))\n", out)

	_, _, err = run(t, "--loglevel", "loud", "parse", src)
	assert.Error(t, err)
}

func TestParseFilesSharesCache(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"a.js", "b.js", "c.js"} {
		files = append(files, writeFile(t, dir, name, "a = b;"))
	}

	parse := func(src string) (ast.Node, error) {
		return parser.ParseToplevel[ast.Node](src, ast.NewBuilder())
	}
	cache, err := parsecache.New(parsecache.DefaultConfig, parse, nil)
	require.NoError(t, err)

	results, err := parseFiles(context.Background(), cache, files, 1)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, files[i], r.filename)
		assert.Equal(t, "(stmt (= a b))", ast.StringifyLines(r.node))
	}
	assert.Equal(t, uint64(2), cache.Stats().Hits)
}

func TestParseFilesReportsFile(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.js", "a +;")

	cache, err := parsecache.New(parsecache.DefaultConfig, func(src string) (ast.Node, error) {
		return parser.ParseToplevel[ast.Node](src, ast.NewBuilder())
	}, nil)
	require.NoError(t, err)

	_, err = parseFiles(context.Background(), cache, []string{bad}, 4)
	require.Error(t, err)
	var fe *fileError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, bad, fe.filename)
	assert.Equal(t, diag.SyntaxError, diag.KindOf(err))
}

func TestParseFilesLimitsJobs(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i := 0; i < 8; i++ {
		files = append(files, writeFile(t, dir, "f"+strconv.Itoa(i)+".js", "x = "+strconv.Itoa(i)+";"))
	}

	var inFlight, peak int32
	parse := func(src string) (ast.Node, error) {
		n := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return parser.ParseToplevel[ast.Node](src, ast.NewBuilder())
	}
	cache, err := parsecache.New(parsecache.DefaultConfig, parse, nil)
	require.NoError(t, err)

	results, err := parseFiles(context.Background(), cache, files, 2)
	require.NoError(t, err)
	require.Len(t, results, len(files))
	assert.Equal(t, "(stmt (= x 7))", ast.StringifyLines(results[7].node))
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestParseFilesCanceled(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "a.js", "a;")
	cache, err := parsecache.New(parsecache.DefaultConfig, func(src string) (ast.Node, error) {
		return parser.ParseToplevel[ast.Node](src, ast.NewBuilder())
	}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = parseFiles(ctx, cache, []string{file}, 1)
	assert.Equal(t, context.Canceled, err)
}
