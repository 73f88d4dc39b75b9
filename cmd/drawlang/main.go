// Command drawlang runs, lexes and parses DrawLang programs, and offers an
// interactive REPL.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/metaphox/drawlang/ast"
	"github.com/metaphox/drawlang/canvas"
	"github.com/metaphox/drawlang/interp"
	"github.com/metaphox/drawlang/lexer"
	"github.com/metaphox/drawlang/logger"
)

const (
	appName = "drawlang"

	exitOK    = 0
	exitError = 1
	exitUsage = 2

	defaultWidth  = 800
	defaultHeight = 600
)

const usage = `usage: drawlang <command> [flags] [file]

commands:
  run    interpret a program and optionally write the picture (-o out.png|out.svg)
  lex    print the token stream of a program
  parse  print the syntax tree of a program
  repl   read statements interactively

Run "drawlang <command> -h" for the flags of a command.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return exitUsage
	}
	switch args[0] {
	case "run":
		return runCommand(args[1:], stdout, stderr)
	case "lex":
		return lexCommand(args[1:], stdout, stderr)
	case "parse":
		return parseCommand(args[1:], stdout, stderr)
	case "repl":
		return replCommand(args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return exitOK
	default:
		fmt.Fprintf(stderr, "%s: unknown command %q\n\n%s", appName, args[0], usage)
		return exitUsage
	}
}

// common holds the flags every subcommand accepts.
type common struct {
	engine   string
	logLevel string
	debug    bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.engine, "engine", "table", "lexer engine: table or coded")
	fs.StringVar(&c.logLevel, "log", "info", "log level: debug, info, warn, error, off")
	fs.BoolVar(&c.debug, "d", false, "debug logging (same as -log debug)")
}

func (c *common) logger(stderr io.Writer) (*logger.Logger, error) {
	level, err := logger.ParseLevel(c.logLevel)
	if err != nil {
		return nil, err
	}
	if c.debug {
		level = logger.LevelDebug
	}
	return logger.New(stderr, level, appName), nil
}

func (c *common) config(stderr io.Writer) (interp.Config, error) {
	kind, err := lexer.ParseEngineKind(c.engine)
	if err != nil {
		return interp.Config{}, err
	}
	log, err := c.logger(stderr)
	if err != nil {
		return interp.Config{}, err
	}
	return interp.Config{Engine: kind, Logger: log}, nil
}

// parseFlags parses args into fs and returns the single positional file,
// or an exit code when parsing stops the command.
func parseFlags(fs *flag.FlagSet, args []string, wantFile bool) (string, int, bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return "", exitOK, false
		}
		return "", exitUsage, false
	}
	if !wantFile {
		if fs.NArg() != 0 {
			fmt.Fprintf(fs.Output(), "%s %s: unexpected arguments %v\n", appName, fs.Name(), fs.Args())
			return "", exitUsage, false
		}
		return "", exitOK, true
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(fs.Output(), "%s %s: expected exactly one file\n", appName, fs.Name())
		fs.Usage()
		return "", exitUsage, false
	}
	return fs.Arg(0), exitOK, true
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func runCommand(args []string, stdout, stderr io.Writer) int {
	var (
		c       common
		out     string
		width   int
		height  int
		trace   bool
		counted bool
		limit   int
	)
	fs := newFlagSet("run", stderr)
	c.register(fs)
	fs.StringVar(&out, "o", "", "write the picture to `file` (.png or .svg)")
	fs.IntVar(&width, "w", defaultWidth, "canvas width")
	fs.IntVar(&height, "h", defaultHeight, "canvas height")
	fs.BoolVar(&trace, "t", false, "trace parser productions (needs -d)")
	fs.BoolVar(&counted, "counted", false, "run FOR loops a fixed number of times")
	fs.IntVar(&limit, "max-points", 0, "stop after this many points (0 = unlimited)")
	path, code, ok := parseFlags(fs, args, true)
	if !ok {
		return code
	}

	cfg, err := c.config(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "%s run: %v\n", appName, err)
		return exitUsage
	}
	if width <= 0 || height <= 0 {
		fmt.Fprintf(stderr, "%s run: invalid canvas size %dx%d\n", appName, width, height)
		return exitUsage
	}
	writer, err := pictureWriter(out)
	if err != nil {
		fmt.Fprintf(stderr, "%s run: %v\n", appName, err)
		return exitUsage
	}
	cfg.Trace = trace
	cfg.CountedLoop = counted
	cfg.MaxPoints = limit

	cv := canvas.New(width, height)
	cv.SetRecording(strings.EqualFold(filepath.Ext(out), ".svg"))
	res, err := interp.RunFile(path, cfg, cv.Plot)
	if err != nil {
		cfg.Logger.Errorf("%v", err)
		return exitError
	}
	for _, d := range res.Diagnostics {
		cfg.Logger.Diagnostic(d)
	}
	fmt.Fprintf(stdout, "%s: %d points drawn\n", res.Program.File, res.Points)

	if writer != nil {
		if err := saveCanvas(cv, out, writer); err != nil {
			cfg.Logger.Errorf("%v", err)
			return exitError
		}
		cfg.Logger.Infof("wrote %s", out)
	}
	if !res.OK() {
		return exitError
	}
	return exitOK
}

type encodeFunc func(*canvas.Canvas, io.Writer) error

// pictureWriter picks the encoder for path by extension. An empty path
// means no output.
func pictureWriter(path string) (encodeFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case "":
		if path == "" {
			return nil, nil
		}
	case ".png":
		return (*canvas.Canvas).WritePNG, nil
	case ".svg":
		return (*canvas.Canvas).WriteSVG, nil
	}
	return nil, fmt.Errorf("unsupported output format %q (want .png or .svg)", path)
}

func saveCanvas(cv *canvas.Canvas, path string, encode encodeFunc) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := encode(cv, f); err != nil {
		f.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func lexCommand(args []string, stdout, stderr io.Writer) int {
	var (
		c        common
		comments bool
	)
	fs := newFlagSet("lex", stderr)
	c.register(fs)
	fs.BoolVar(&comments, "c", false, "include comment tokens")
	path, code, ok := parseFlags(fs, args, true)
	if !ok {
		return code
	}
	kind, err := lexer.ParseEngineKind(c.engine)
	if err != nil {
		fmt.Fprintf(stderr, "%s lex: %v\n", appName, err)
		return exitUsage
	}
	log, err := c.logger(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "%s lex: %v\n", appName, err)
		return exitUsage
	}
	src, err := lexer.OpenFile(path)
	if err != nil {
		log.Errorf("%v", err)
		return exitError
	}

	l := lexer.NewLexer(src, lexer.NewEngine(kind), nil)
	l.KeepComments = comments
	status := exitOK
	for _, tok := range l.Tokens() {
		fmt.Fprintln(stdout, formatToken(tok, l.Symbols()))
		if tok.Kind == ast.Invalid {
			log.Diagnostic(ast.Diagnostic{
				Severity: ast.SeverityError,
				Phase:    ast.PhaseLexical,
				Message:  tok.Message,
				Loc:      tok.Loc,
			})
			status = exitError
		}
	}
	return status
}

func formatToken(tok ast.Token, symbols *lexer.SymbolTable) string {
	detail := ""
	switch tok.Kind {
	case ast.Keyword, ast.Operator, ast.Punctuation:
		detail = tok.Tag.String()
	case ast.Literal:
		detail = tok.Literal.String()
		if v, ok := symbols.Constant(tok.Lexeme); ok {
			detail += fmt.Sprintf(" %g", v)
		}
	case ast.Invalid:
		detail = tok.Message
	}
	return fmt.Sprintf("%-10s %-12s %-10q %s", tok.Loc, tok.Kind, tok.Lexeme, detail)
}

func parseCommand(args []string, stdout, stderr io.Writer) int {
	var (
		c     common
		trace bool
	)
	fs := newFlagSet("parse", stderr)
	c.register(fs)
	fs.BoolVar(&trace, "t", false, "trace parser productions (needs -d)")
	path, code, ok := parseFlags(fs, args, true)
	if !ok {
		return code
	}
	cfg, err := c.config(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "%s parse: %v\n", appName, err)
		return exitUsage
	}
	cfg.Trace = trace

	data, err := os.ReadFile(path)
	if err != nil {
		cfg.Logger.Errorf("parse %s: %v", path, err)
		return exitError
	}
	prog, diags := interp.Parse(path, string(data), cfg)
	if err := ast.Dump(stdout, prog); err != nil {
		cfg.Logger.Errorf("%v", err)
		return exitError
	}
	for _, d := range diags {
		cfg.Logger.Diagnostic(d)
	}
	if ast.HasErrors(diags) {
		return exitError
	}
	return exitOK
}
