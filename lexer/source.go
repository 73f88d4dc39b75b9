package lexer

import (
	"fmt"
	"os"

	"github.com/metaphox/drawlang/ast"
)

// Mark is a saved Source position, returned by [Source.Mark].
type Mark struct {
	pos  int
	line int
	col  int
}

// Source is a sequential byte reader over program text that tracks line,
// column and offset. It supports one byte of pushback with Unread and
// arbitrary rewinds to a Mark.
type Source struct {
	name string
	text string
	cur  Mark
	prev Mark // position before the last Read
	back bool // prev is valid for Unread
}

// NewSource returns a Source over text. name is used in locations.
func NewSource(name, text string) *Source {
	return &Source{name: name, text: text, cur: Mark{line: 1, col: 1}}
}

// OpenFile reads the file at path into a Source named after the path.
func OpenFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	return NewSource(path, string(data)), nil
}

// Name returns the source name given to NewSource.
func (s *Source) Name() string { return s.name }

// Read returns the next byte and advances. At end of input it returns
// (0, false) and does not move.
func (s *Source) Read() (byte, bool) {
	if s.cur.pos >= len(s.text) {
		s.back = false
		return 0, false
	}
	c := s.text[s.cur.pos]
	s.prev, s.back = s.cur, true
	s.cur.pos++
	if c == '\n' {
		s.cur.line++
		s.cur.col = 1
	} else {
		s.cur.col++
	}
	return c, true
}

// Unread pushes back the byte returned by the last successful Read. Only one
// byte of pushback is available; a second Unread does nothing.
func (s *Source) Unread() {
	if s.back {
		s.cur, s.back = s.prev, false
	}
}

// Peek returns the next byte without consuming it.
func (s *Source) Peek() (byte, bool) {
	if s.cur.pos >= len(s.text) {
		return 0, false
	}
	return s.text[s.cur.pos], true
}

// AtEOF reports whether every byte has been read.
func (s *Source) AtEOF() bool { return s.cur.pos >= len(s.text) }

// Mark returns the current position for a later Reset.
func (s *Source) Mark() Mark { return s.cur }

// Reset rewinds (or advances) the source to m.
func (s *Source) Reset(m Mark) {
	s.cur, s.back = m, false
}

// Location returns the location of the next byte to be read.
func (s *Source) Location() ast.Location {
	return ast.Location{File: s.name, Line: s.cur.line, Col: s.cur.col, Offset: s.cur.pos}
}
