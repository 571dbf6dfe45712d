package parser_test

import (
	"asmparse/internal/ast"
	"asmparse/internal/parser"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// goldenTest parses a .js file and compares one s-expression per toplevel
// statement to a .expected file.
func goldenTest(t *testing.T, name string) {
	t.Helper()

	jsPath := filepath.Join("..", "..", "testdata", name+".js")
	expectedPath := filepath.Join("..", "..", "testdata", name+".expected")

	source, err := os.ReadFile(jsPath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", jsPath, err)
	}

	expected, err := os.ReadFile(expectedPath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", expectedPath, err)
	}

	top, err := parser.ParseToplevel[ast.Node](string(source), ast.NewBuilder())
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	expectedStr := strings.TrimRight(string(expected), "\n")
	gotStr := ast.StringifyLines(top)

	if gotStr != expectedStr {
		expectedLines := strings.Split(expectedStr, "\n")
		gotLines := strings.Split(gotStr, "\n")

		t.Errorf("output mismatch for %s", name)
		maxLines := len(expectedLines)
		if len(gotLines) > maxLines {
			maxLines = len(gotLines)
		}
		for i := 0; i < maxLines; i++ {
			exp, g := "<missing>", "<missing>"
			if i < len(expectedLines) {
				exp = expectedLines[i]
			}
			if i < len(gotLines) {
				g = gotLines[i]
			}
			prefix := "  "
			if exp != g {
				prefix = "! "
			}
			t.Logf("%sline %d: expected=%q got=%q", prefix, i+1, exp, g)
		}
	}
}

func TestGoldenExpressions(t *testing.T) {
	goldenTest(t, "expressions")
}

func TestGoldenStatements(t *testing.T) {
	goldenTest(t, "statements")
}

func TestGoldenAsmModule(t *testing.T) {
	goldenTest(t, "asm_module")
}
