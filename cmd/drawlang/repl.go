package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/metaphox/drawlang/ast"
	"github.com/metaphox/drawlang/canvas"
	"github.com/metaphox/drawlang/interp"
	"github.com/metaphox/drawlang/lexer"
)

const (
	historyFile = ".drawlang_history"
	promptMain  = "draw> "
	promptCont  = "....> "
	replName    = "<repl>"
	banner      = "DrawLang REPL. Statements end with ';'. Ctrl+C cancels input, Ctrl+D exits. Type :help for commands."
	replHelp    = `
REPL commands:
  :help           Show this help
  :quit / :exit   Leave the REPL
  :list           Print the statements entered so far
  :reset          Forget all statements and clear the canvas
  :save <file>    Write the canvas to a .png or .svg file
`
)

// session is the state of one REPL: the accepted statements and the canvas
// they were last drawn on.
type session struct {
	cfg    interp.Config
	canvas *canvas.Canvas
	chunks []string
	lines  int
	out    io.Writer
}

// newSession returns an empty session. Its canvas records points so that
// :save can write SVG at any time.
func newSession(cfg interp.Config, width, height int, out io.Writer) *session {
	cv := canvas.New(width, height)
	cv.SetRecording(true)
	return &session{cfg: cfg, canvas: cv, out: out}
}

// eval adds the statements in chunk to the program and redraws it. A chunk
// with syntax errors is reported and discarded.
func (s *session) eval(chunk string) bool {
	quiet := s.cfg
	quiet.Trace = false
	prog, diags := interp.Parse(replName, chunk, quiet)
	if ast.HasErrors(diags) {
		for _, d := range diags {
			s.cfg.Logger.Diagnostic(d)
		}
		return false
	}
	if len(prog.Statements) == 0 {
		return true
	}

	first := s.lines
	s.chunks = append(s.chunks, chunk)
	s.lines += strings.Count(chunk, "\n") + 1

	s.canvas.Clear()
	res := interp.RunString(replName, strings.Join(s.chunks, "\n"), s.cfg, s.canvas.Plot)
	for _, d := range res.Diagnostics {
		if d.Loc.Line > first {
			s.cfg.Logger.Diagnostic(d)
		}
	}
	fmt.Fprintf(s.out, "%d points\n", res.Points)
	return true
}

func (s *session) reset() {
	s.chunks = nil
	s.lines = 0
	s.canvas.Clear()
}

// command runs a ':' command and reports whether the REPL should exit.
func (s *session) command(line string) (exit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToLower(fields[0]) {
	case ":help":
		fmt.Fprint(s.out, replHelp)
	case ":quit", ":exit":
		return true
	case ":list":
		for _, c := range s.chunks {
			fmt.Fprintln(s.out, c)
		}
	case ":reset":
		s.reset()
		fmt.Fprintln(s.out, "program cleared.")
	case ":save":
		if len(fields) != 2 {
			fmt.Fprintln(s.out, "usage: :save <file.png|file.svg>")
			return false
		}
		encode, err := pictureWriter(fields[1])
		if err == nil && encode == nil {
			err = errors.New("missing file name")
		}
		if err == nil {
			err = saveCanvas(s.canvas, fields[1], encode)
		}
		if err != nil {
			s.cfg.Logger.Errorf("%v", err)
			return false
		}
		fmt.Fprintf(s.out, "saved %s\n", fields[1])
	default:
		fmt.Fprintln(s.out, "unknown command. Type :help for help.")
	}
	return false
}

// complete reports whether buf holds whole statements: its last token is a
// ';' or it has no tokens at all.
func complete(buf string) bool {
	toks := lexer.New(buf).Tokens()
	if len(toks) < 2 {
		return true
	}
	return toks[len(toks)-2].Is(ast.Semi)
}

// readStatements prompts until the buffered input is complete. ok is false
// on EOF.
func readStatements(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the pending input.
			return "", true
		}
		if b.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			return line, true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if complete(b.String()) {
			return b.String(), true
		}
	}
}

func replCommand(args []string, stdout, stderr io.Writer) int {
	var (
		c      common
		width  int
		height int
		trace  bool
	)
	fs := newFlagSet("repl", stderr)
	c.register(fs)
	fs.IntVar(&width, "w", defaultWidth, "canvas width")
	fs.IntVar(&height, "h", defaultHeight, "canvas height")
	fs.BoolVar(&trace, "t", false, "trace parser productions (needs -d)")
	if _, code, ok := parseFlags(fs, args, false); !ok {
		return code
	}
	cfg, err := c.config(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "%s repl: %v\n", appName, err)
		return exitUsage
	}
	if width <= 0 || height <= 0 {
		fmt.Fprintf(stderr, "%s repl: invalid canvas size %dx%d\n", appName, width, height)
		return exitUsage
	}
	cfg.Trace = trace

	fmt.Fprintln(stdout, banner)
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	s := newSession(cfg, width, height, stdout)
	for {
		input, ok := readStatements(ln)
		if !ok {
			fmt.Fprintln(stdout)
			break
		}
		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(trimmed, "\n", " "))
		if strings.HasPrefix(trimmed, ":") {
			if s.command(trimmed) {
				break
			}
			continue
		}
		s.eval(input)
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return exitOK
}
