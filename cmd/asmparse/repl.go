package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"asmparse/internal/ast"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"gopkg.in/urfave/cli.v1"
)

var (
	promptText   = color.GreenString("asm> ")
	continueText = color.HiBlackString("...  ")
	hintColor    = color.New(color.FgHiBlack)
)

// ---- repl command ----

func cmdRepl(ctx *cli.Context) error {
	env, err := makeEnv(ctx)
	if err != nil {
		return err
	}
	cache, err := env.newCache()
	if err != nil {
		return err
	}

	// Determine history file path (~/.asmparse_history)
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".asmparse_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            promptText,
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("readline init failed: %v", err), 1)
	}
	defer rl.Close()

	// Welcome banner
	color.New(color.FgCyan, color.Bold).Fprint(rl.Stdout(), "asmparse REPL ")
	hintColor.Fprintln(rl.Stdout(), "(type 'exit' or Ctrl+D to quit, ':stats' for cache statistics)")
	fmt.Fprintln(rl.Stdout())

	var accumulated strings.Builder
	braceDepth := 0

	for {
		// Update prompt based on multi-line state
		if braceDepth > 0 {
			rl.SetPrompt(continueText)
		} else {
			rl.SetPrompt(promptText)
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if braceDepth > 0 {
					// Cancel multi-line input
					accumulated.Reset()
					braceDepth = 0
					continue
				}
				hintColor.Fprintln(rl.Stdout(), "\n(use 'exit' or Ctrl+D to quit)")
				continue
			}
			// EOF (Ctrl+D) or other error → exit
			if err == io.EOF {
				fmt.Fprintln(rl.Stdout())
			}
			break
		}

		if braceDepth == 0 {
			switch strings.TrimSpace(line) {
			case "exit":
				return nil
			case ":stats":
				s := cache.Stats()
				fmt.Fprintf(rl.Stdout(), "hits=%d misses=%d evictions=%d entries=%d\n", s.Hits, s.Misses, s.Evictions, s.Len)
				continue
			case ":purge":
				cache.Purge()
				continue
			}
		}

		// Count braces for multi-line input
		braceDepth += strings.Count(line, "{") - strings.Count(line, "}")
		accumulated.WriteString(line)
		accumulated.WriteString("\n")

		// If braces are unbalanced, keep reading
		if braceDepth > 0 {
			continue
		}
		braceDepth = 0

		source := accumulated.String()
		accumulated.Reset()

		// Skip empty input
		if strings.TrimSpace(source) == "" {
			continue
		}

		top, err := cache.Parse(source)
		if err != nil {
			printDiagnostic(rl.Stderr(), "<repl>", source, err)
			continue
		}
		fmt.Fprintln(rl.Stdout(), ast.StringifyLines(top))
	}
	return nil
}
