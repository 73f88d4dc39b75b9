package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/metaphox/drawlang/interp"
	"github.com/metaphox/drawlang/logger"
)

const lineProgram = `ORIGIN IS (10, 10);
FOR T FROM 0 TO 5 STEP 1 DRAW (T, T); // six points
`

func writeProgram(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no args", nil, exitUsage},
		{"unknown command", []string{"draw"}, exitUsage},
		{"help", []string{"help"}, exitOK},
		{"missing file", []string{"run"}, exitUsage},
		{"two files", []string{"lex", "a.dl", "b.dl"}, exitUsage},
		{"bad engine", []string{"run", "-engine", "fast", "a.dl"}, exitUsage},
		{"bad level", []string{"parse", "-log", "loud", "a.dl"}, exitUsage},
		{"bad format", []string{"run", "-o", "out.gif", "a.dl"}, exitUsage},
		{"bad size", []string{"run", "-w", "0", "a.dl"}, exitUsage},
		{"unknown flag", []string{"run", "-x", "a.dl"}, exitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _, _ := runCLI(t, tt.args...); code != tt.want {
				t.Errorf("exit = %d, want %d", code, tt.want)
			}
		})
	}
}

func TestRunCommand(t *testing.T) {
	path := writeProgram(t, "line.dl", lineProgram)
	for _, engine := range []string{"table", "coded"} {
		code, stdout, stderr := runCLI(t, "run", "-engine", engine, path)
		if code != exitOK {
			t.Fatalf("%s: exit = %d, stderr:\n%s", engine, code, stderr)
		}
		if !strings.Contains(stdout, "6 points drawn") {
			t.Errorf("%s: stdout = %q", engine, stdout)
		}
	}
}

func TestRunCommand_Output(t *testing.T) {
	path := writeProgram(t, "line.dl", lineProgram)
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "out.png")
	if code, _, stderr := runCLI(t, "run", "-w", "40", "-h", "30", "-o", pngPath, path); code != exitOK {
		t.Fatalf("exit = %d, stderr:\n%s", code, stderr)
	}
	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("bounds = %v", b)
	}
	if r, g, _, _ := img.At(12, 12).RGBA(); r != 0xffff || g != 0 {
		t.Errorf("point at (12, 12) is not red")
	}

	svgPath := filepath.Join(dir, "out.svg")
	if code, _, stderr := runCLI(t, "run", "-o", svgPath, path); code != exitOK {
		t.Fatalf("exit = %d, stderr:\n%s", code, stderr)
	}
	data, err := os.ReadFile(svgPath)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), `fill="#ff0000"`); n != 6 {
		t.Errorf("svg has %d red points, want 6", n)
	}
}

func TestRunCommand_Errors(t *testing.T) {
	path := writeProgram(t, "bad.dl", "banana;\nFOR T FROM 0 TO 1 STEP 0 DRAW (T, T);\n")
	code, _, stderr := runCLI(t, "run", path)
	if code != exitError {
		t.Errorf("exit = %d, want %d", code, exitError)
	}
	for _, want := range []string{"bad.dl:1:1: error: Syntax error", "bad.dl:2:1: error:"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}

	for _, args := range [][]string{{"run", "-t", path}, {"run", "-t", "-d", path}, {"parse", "-t", "-d", path}} {
		_, _, stderr := runCLI(t, args...)
		if n := strings.Count(stderr, "bad.dl:1:1: error: Syntax error"); n != 1 {
			t.Errorf("%v: syntax error logged %d times:\n%s", args, n, stderr)
		}
		if n := strings.Count(stderr, "bad.dl:2:1: error:"); args[0] == "run" && n != 1 {
			t.Errorf("%v: loop error logged %d times:\n%s", args, n, stderr)
		}
	}

	if code, _, _ := runCLI(t, "run", filepath.Join(t.TempDir(), "nope.dl")); code != exitError {
		t.Errorf("missing file: exit = %d", code)
	}
}

func TestRunCommand_Debug(t *testing.T) {
	path := writeProgram(t, "line.dl", lineProgram)
	_, _, stderr := runCLI(t, "run", "-d", "-t", path)
	for _, want := range []string{"DEBUG", "[drawlang/parser] enter", "[drawlang/eval] FOR loop"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q", want)
		}
	}
}

func TestLexCommand(t *testing.T) {
	path := writeProgram(t, "lex.dl", "rot is pi; // note\n@")
	code, stdout, stderr := runCLI(t, "lex", "-c", path)
	if code != exitError {
		t.Errorf("exit = %d, want %d", code, exitError)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d tokens:\n%s", len(lines), stdout)
	}
	for i, want := range []string{"ROT", "IS", "3.14159", ";", "Comment", "Invalid", "EOF"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("token %d = %q, want it to mention %q", i, lines[i], want)
		}
	}
	if !strings.Contains(stderr, "Unknown token: @") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestParseCommand(t *testing.T) {
	path := writeProgram(t, "p.dl", "ROT IS -1; SIZE IS")
	code, stdout, stderr := runCLI(t, "parse", path)
	if code != exitError {
		t.Errorf("exit = %d, want %d", code, exitError)
	}
	for _, want := range []string{"(1 statements)", "RotStmt @", "angle: Unary -"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
	if !strings.Contains(stderr, "Syntax error") {
		t.Errorf("stderr = %q", stderr)
	}
}

func newTestSession(t *testing.T) (*session, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, log bytes.Buffer
	cfg := interp.Config{Logger: logger.New(&log, logger.LevelInfo, appName)}
	return newSession(cfg, 50, 50, &out), &out, &log
}

func TestSession_Eval(t *testing.T) {
	s, out, log := newTestSession(t)

	if !s.eval("ORIGIN IS (5, zz);") {
		t.Fatal("first chunk rejected")
	}
	if !s.eval("FOR T FROM 0 TO 2 STEP 1\nDRAW (T, 0);") {
		t.Fatal("second chunk rejected")
	}
	if s.eval("ROT IS ;") {
		t.Error("chunk with a syntax error was accepted")
	}
	if len(s.chunks) != 2 || s.lines != 3 {
		t.Errorf("chunks = %d, lines = %d", len(s.chunks), s.lines)
	}
	if got := out.String(); got != "0 points\n3 points\n" {
		t.Errorf("output = %q", got)
	}
	if n := strings.Count(log.String(), "unknown constant 'zz'"); n != 1 {
		t.Errorf("warning reported %d times:\n%s", n, log.String())
	}
	if s.canvas.Count() != 3 || s.canvas.At(5, 0) == s.canvas.At(0, 40) {
		t.Errorf("canvas has %d points", s.canvas.Count())
	}
}

func TestSession_Commands(t *testing.T) {
	s, out, _ := newTestSession(t)
	s.eval("FOR T FROM 0 TO 4 STEP 1 DRAW (T, T);")

	out.Reset()
	s.command(":list")
	if !strings.Contains(out.String(), "FOR T FROM 0") {
		t.Errorf(":list = %q", out.String())
	}

	path := filepath.Join(t.TempDir(), "pic.svg")
	if s.command(":save " + path) {
		t.Error(":save asked to exit")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf(":save did not write the file: %v", err)
	}

	s.command(":reset")
	if len(s.chunks) != 0 || s.canvas.Count() != 0 {
		t.Error(":reset kept the program")
	}
	if !s.command(":quit") || !s.command(":EXIT") {
		t.Error(":quit did not exit")
	}
	if s.command(":bogus") {
		t.Error("unknown command exited")
	}
}

func TestComplete(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"   // just a comment", true},
		{"ROT IS 1;", true},
		{"ROT IS 1; // trailing", true},
		{"FOR T FROM 0 TO 1", false},
		{"ROT IS 1; ORIGIN IS (1,", false},
	}
	for _, tt := range tests {
		if got := complete(tt.in); got != tt.want {
			t.Errorf("complete(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
