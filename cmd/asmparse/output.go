package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"asmparse/internal/ast"
	"asmparse/internal/diag"
	"asmparse/internal/span"
	"asmparse/internal/token"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
)

func init() {
	// Diagnostics go to stderr; color only when it is a terminal.
	fd := os.Stderr.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		color.NoColor = true
	}
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	contextColor = color.New(color.FgHiBlack)
	caretColor   = color.New(color.FgGreen, color.Bold)
)

// ---- output helpers ----

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printDiagnostic prints a parse failure with its position and the source
// line it points at.
func printDiagnostic(w io.Writer, filename, source string, err error) {
	off, ok := diag.OffsetOf(err)
	if !ok {
		errorColor.Fprintf(w, "%s: %v\n", filename, err)
		return
	}
	pos := span.PositionFor(source, off)
	msg := err.Error()
	if e := diagError(err); e != nil {
		msg = fmt.Sprintf("%s [%s]: %s", e.Kind, e.Code, e.Message)
	}
	errorColor.Fprintf(w, "%s:%s: %s\n", filename, pos, msg)

	lines := span.Context(source, off)
	for i, line := range strings.Split(lines, "\n") {
		if i == 0 {
			contextColor.Fprintf(w, "    %s\n", line)
		} else {
			caretColor.Fprintf(w, "    %s\n", line)
		}
	}
}

func diagError(err error) *diag.Error {
	var e *diag.Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

func diagToMap(err error) map[string]interface{} {
	if e := diagError(err); e != nil {
		return map[string]interface{}{
			"kind":    e.Kind.String(),
			"code":    e.Code,
			"offset":  e.Offset,
			"message": e.Message,
		}
	}
	return map[string]interface{}{"message": err.Error()}
}

// ---- token output helpers ----

func printTokensTable(w io.Writer, source string, tokens []token.Token) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Kind", "Text", "Offset", "Pos"})
	table.SetAutoWrapText(false)
	for _, tok := range tokens {
		text := tok.Span.Slice(source)
		if tok.Kind == token.NUMBER {
			text += " = " + strconv.FormatFloat(tok.Num, 'g', -1, 64)
		}
		table.Append([]string{
			tok.Kind.String(),
			text,
			strconv.Itoa(tok.Span.Offset),
			span.PositionFor(source, tok.Span.Offset).String(),
		})
	}
	table.Render()
}

func printTokensJSON(w io.Writer, source string, tokens []token.Token, err error) {
	type tokenJSON struct {
		Kind   string  `json:"kind"`
		Text   string  `json:"text"`
		Offset int     `json:"offset"`
		Line   int     `json:"line"`
		Column int     `json:"column"`
		Value  float64 `json:"value,omitempty"`
	}

	toks := make([]tokenJSON, 0, len(tokens))
	for _, tok := range tokens {
		pos := span.PositionFor(source, tok.Span.Offset)
		toks = append(toks, tokenJSON{
			Kind:   tok.Kind.String(),
			Text:   tok.Text(source),
			Offset: tok.Span.Offset,
			Line:   pos.Line,
			Column: pos.Column,
			Value:  tok.Num,
		})
	}

	output := map[string]interface{}{"tokens": toks}
	if err != nil {
		output["error"] = diagToMap(err)
	}
	if encErr := printJSON(w, output); encErr != nil {
		fmt.Fprintf(os.Stderr, "error: JSON encoding failed: %v\n", encErr)
	}
}

// ---- AST output helpers ----

var formats = map[string]bool{"sexpr": true, "json": true, "spew": true}

func validFormat(format string) bool {
	return formats[format]
}

var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisableMethods:          true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func printAST(w io.Writer, format string, node ast.Node) error {
	switch format {
	case "json":
		return printJSON(w, ast.NodeToMap(node))
	case "spew":
		spewConfig.Fdump(w, node)
		return nil
	default:
		_, err := fmt.Fprintln(w, ast.StringifyLines(node))
		return err
	}
}
