// Command asmparse is the CLI entry point for the asm.js subset parser.
//
// Usage:
//
//	asmparse tokens <file> [--json]                 Print tokens
//	asmparse parse [--format F] [-j N] <files...>   Print the AST of each file
//	asmparse repl                                   Start interactive REPL
//	asmparse dumpconfig                             Show configuration values
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"asmparse/internal/ast"
	"asmparse/internal/config"
	"asmparse/internal/grammar"
	"asmparse/internal/lexer"
	"asmparse/internal/logging"
	"asmparse/internal/parsecache"
	"asmparse/internal/parser"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/urfave/cli.v1"
)

var (
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	logLevelFlag = cli.StringFlag{
		Name:  "loglevel",
		Usage: "log level: debug, info, warn or error (overrides the config file)",
	}
	jsonFlag = cli.BoolFlag{
		Name:  "json",
		Usage: "print JSON instead of a table",
	}
	formatFlag = cli.StringFlag{
		Name:  "format",
		Value: "sexpr",
		Usage: "AST output format: sexpr, json or spew",
	}
	jobsFlag = cli.IntFlag{
		Name:  "j",
		Value: runtime.NumCPU(),
		Usage: "number of files parsed concurrently",
	}
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "asmparse"
	app.Usage = "parse the asm.js subset of JavaScript"
	app.HideVersion = true
	app.ErrWriter = os.Stderr
	app.Flags = []cli.Flag{configFileFlag, logLevelFlag}
	app.Commands = []cli.Command{
		{
			Name:      "tokens",
			Usage:     "Tokenize a file and print the tokens",
			ArgsUsage: "<file>",
			Flags:     []cli.Flag{jsonFlag},
			Action:    cmdTokens,
		},
		{
			Name:      "parse",
			Usage:     "Parse files and print their AST",
			ArgsUsage: "<files...>",
			Flags:     []cli.Flag{formatFlag, jobsFlag},
			Action:    cmdParse,
		},
		{
			Name:   "repl",
			Usage:  "Start an interactive parse loop",
			Action: cmdRepl,
		},
		{
			Name:        "dumpconfig",
			Usage:       "Show configuration values",
			Description: "The dumpconfig command shows the effective configuration as TOML.",
			Action:      cmdDumpConfig,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// toolEnv is the state shared by all commands: configuration, the compiled
// grammar and the logger.
type toolEnv struct {
	cfg     config.Config
	grammar *grammar.Grammar
	log     *zap.Logger
}

// makeEnv loads defaults, then the config file, then applies flags.
func makeEnv(ctx *cli.Context) (*toolEnv, error) {
	cfg := config.Defaults()
	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := config.Load(file, &cfg); err != nil {
			return nil, err
		}
	}
	if lvl := ctx.GlobalString(logLevelFlag.Name); lvl != "" {
		cfg.Log.Level = lvl
	}

	g, err := cfg.Grammar.Compile()
	if err != nil {
		return nil, errors.Wrap(err, "invalid grammar")
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	return &toolEnv{cfg: cfg, grammar: g, log: logger}, nil
}

// parse runs a fresh Parser over src; it is safe for concurrent use.
func (e *toolEnv) parse(src string) (ast.Node, error) {
	return parser.ParseToplevel[ast.Node](src, ast.NewBuilder(),
		parser.WithGrammar(e.grammar),
		parser.WithLogger(e.log),
		parser.WithFormatter(ast.Format),
	)
}

func (e *toolEnv) newCache() (*parsecache.Cache[ast.Node], error) {
	return parsecache.New(e.cfg.Cache, e.parse, e.log)
}

func readFile(filename string) (string, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return "", errors.Wrapf(err, "cannot read file %s", filename)
	}
	return string(source), nil
}

// ---- dumpconfig command ----

func cmdDumpConfig(ctx *cli.Context) error {
	env, err := makeEnv(ctx)
	if err != nil {
		return err
	}
	return config.Dump(ctx.App.Writer, env.cfg)
}

// ---- tokens command ----

func cmdTokens(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return cli.NewExitError("error: missing file argument", 1)
	}
	env, err := makeEnv(ctx)
	if err != nil {
		return err
	}
	filename := ctx.Args().First()
	source, err := readFile(filename)
	if err != nil {
		return err
	}

	tokens, err := lexer.New(source, env.grammar).Tokenize()
	if ctx.Bool(jsonFlag.Name) {
		printTokensJSON(ctx.App.Writer, source, tokens, err)
	} else {
		printTokensTable(ctx.App.Writer, source, tokens)
		if err != nil {
			printDiagnostic(ctx.App.ErrWriter, filename, source, err)
		}
	}
	if err != nil {
		return cli.NewExitError("", 1)
	}
	return nil
}

// ---- parse command ----

type parsed struct {
	filename string
	source   string
	node     ast.Node
}

// fileError carries what printDiagnostic needs to show a failure.
type fileError struct {
	filename string
	source   string
	err      error
}

func (e *fileError) Error() string { return e.filename + ": " + e.err.Error() }
func (e *fileError) Cause() error  { return e.err }

func cmdParse(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return cli.NewExitError("error: missing file argument", 1)
	}
	format := ctx.String(formatFlag.Name)
	if !validFormat(format) {
		return cli.NewExitError(fmt.Sprintf("error: unknown format %q", format), 1)
	}
	env, err := makeEnv(ctx)
	if err != nil {
		return err
	}
	cache, err := env.newCache()
	if err != nil {
		return err
	}

	results, err := parseFiles(context.Background(), cache, ctx.Args(), ctx.Int(jobsFlag.Name))
	if err != nil {
		var fe *fileError
		if errors.As(err, &fe) && fe.source != "" {
			printDiagnostic(ctx.App.ErrWriter, fe.filename, fe.source, fe.err)
			return cli.NewExitError("", 1)
		}
		return err
	}
	for _, r := range results {
		if len(results) > 1 {
			fmt.Fprintf(ctx.App.Writer, "// %s\n", r.filename)
		}
		if err := printAST(ctx.App.Writer, format, r.node); err != nil {
			return err
		}
	}

	stats := cache.Stats()
	env.log.Debug("parse finished",
		zap.Int("files", len(results)),
		zap.Uint64("cacheHits", stats.Hits),
		zap.Uint64("cacheMisses", stats.Misses))
	return nil
}

// parseFiles parses every file with at most jobs parses in flight. Results
// keep the order of filenames; identical sources are parsed once.
func parseFiles(ctx context.Context, cache *parsecache.Cache[ast.Node], filenames []string, jobs int) ([]parsed, error) {
	if jobs < 1 {
		jobs = 1
	}
	results := make([]parsed, len(filenames))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, filename := range filenames {
		i, filename := i, filename

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			source, err := readFile(filename)
			if err != nil {
				return &fileError{filename: filename, err: err}
			}
			node, err := cache.Parse(source)
			if err != nil {
				return &fileError{filename: filename, source: source, err: err}
			}
			results[i] = parsed{filename: filename, source: source, node: node}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
