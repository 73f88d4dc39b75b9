// Package semantic executes a parsed DrawLang program.
//
// An [Evaluator] walks the statements in order, keeps the drawing state
// (origin, scale, rotation, color, pixel size) and turns every iteration of
// a FOR-DRAW loop into a transformed point delivered to a [DrawFunc].
//
// Usage:
//
//	ev := semantic.New(func(e semantic.Event) { canvas.Plot(e) })
//	n := ev.Run(prog)
//	for _, d := range ev.Diagnostics() { ... }
package semantic

import (
	"fmt"
	"math"

	"github.com/metaphox/drawlang/ast"
	"github.com/metaphox/drawlang/logger"
)

// countedEpsilon absorbs rounding in (end-start)/step when counting loop
// iterations.
const countedEpsilon = 1e-9

// State is the drawing state. The zero value is not the default state; use
// [DefaultState].
type State struct {
	OriginX, OriginY float64
	ScaleX, ScaleY   float64
	Angle            float64 // radians, clockwise
	Color            ast.RGB
	Size             float64
}

// DefaultState returns origin (0,0), scale (1,1), no rotation, red, size 1.
func DefaultState() State {
	return State{ScaleX: 1, ScaleY: 1, Color: ast.DefaultColor, Size: 1}
}

// Transform maps a raw point to canvas coordinates: scale, then rotate
// clockwise by Angle, then translate by the origin.
func (s State) Transform(x, y float64) (float64, float64) {
	x *= s.ScaleX
	y *= s.ScaleY
	sin, cos := math.Sincos(s.Angle)
	x, y = x*cos+y*sin, y*cos-x*sin
	return x + s.OriginX, y + s.OriginY
}

// Event is one point to draw.
type Event struct {
	X, Y  float64
	Color ast.RGB
	Size  float64
}

// DrawFunc receives draw events synchronously, in order.
type DrawFunc func(Event)

// Evaluator runs programs. It is not safe for concurrent use.
type Evaluator struct {
	draw    DrawFunc
	colors  *ast.ColorTable
	log     *logger.Logger
	counted bool
	limit   int

	state State
	env   ast.Env
	diags []ast.Diagnostic
}

// New returns an Evaluator that sends points to draw. A nil draw only
// counts points.
func New(draw DrawFunc) *Evaluator {
	return &Evaluator{
		draw:   draw,
		colors: ast.NewColorTable(),
		log:    logger.Discard(),
		state:  DefaultState(),
	}
}

// SetLogger sets the logger for debug output. Diagnostics are not logged;
// read them with [Evaluator.Diagnostics].
func (ev *Evaluator) SetLogger(log *logger.Logger) {
	if log == nil {
		log = logger.Discard()
	}
	ev.log = log
}

// SetColors replaces the color-name table.
func (ev *Evaluator) SetColors(ct *ast.ColorTable) {
	if ct != nil {
		ev.colors = ct
	}
}

// SetCountedLoop selects how FOR-DRAW iterates. When false (the default) T
// starts at FROM and is advanced by STEP while T <= TO (T >= TO for a
// negative step), so float rounding can add or drop the last point. When
// true the loop runs floor((TO-FROM)/STEP + 1e-9) + 1 times with
// T = FROM + i*STEP.
func (ev *Evaluator) SetCountedLoop(on bool) { ev.counted = on }

// SetPointLimit caps the number of points one Run may draw. Drawing stops
// with an error diagnostic when the cap is reached. Zero means no cap.
func (ev *Evaluator) SetPointLimit(n int) { ev.limit = n }

// State returns the drawing state after the last Run.
func (ev *Evaluator) State() State { return ev.state }

// Diagnostics returns the runtime diagnostics of the last Run.
func (ev *Evaluator) Diagnostics() []ast.Diagnostic { return ev.diags }

// Run executes prog from the default state and returns the number of points
// drawn. State and diagnostics from earlier runs are discarded.
func (ev *Evaluator) Run(prog *ast.Program) int {
	ev.state = DefaultState()
	ev.env = ast.Env{}
	ev.diags = nil
	if prog == nil {
		return 0
	}

	n := 0
	for _, s := range prog.Statements {
		n += ev.exec(s, n)
	}
	return n
}

func (ev *Evaluator) eval(e ast.Expression) float64 {
	if e == nil {
		return 0
	}
	return ast.Eval(e, &ev.env)
}

func (ev *Evaluator) report(sev ast.Severity, loc ast.Location, format string, args ...any) {
	ev.diags = append(ev.diags, ast.Diagnostic{Severity: sev, Phase: ast.PhaseRuntime, Message: fmt.Sprintf(format, args...), Loc: loc})
}

// exec runs one statement and returns the number of points it drew. drawn
// is the number of points drawn so far in this run.
func (ev *Evaluator) exec(s ast.Statement, drawn int) int {
	switch s := s.(type) {
	case *ast.OriginStmt:
		ev.state.OriginX, ev.state.OriginY = ev.eval(s.X), ev.eval(s.Y)
		ev.log.Debugf("ORIGIN: (%g, %g)", ev.state.OriginX, ev.state.OriginY)
	case *ast.ScaleStmt:
		ev.state.ScaleX, ev.state.ScaleY = ev.eval(s.X), ev.eval(s.Y)
		ev.log.Debugf("SCALE: (%g, %g)", ev.state.ScaleX, ev.state.ScaleY)
	case *ast.RotStmt:
		ev.state.Angle = ev.eval(s.Angle)
		ev.log.Debugf("ROT: %g", ev.state.Angle)
	case *ast.ColorStmt:
		ev.execColor(s)
	case *ast.SizeStmt:
		ev.execSize(s)
	case *ast.ForDrawStmt:
		return ev.execFor(s, drawn)
	}
	return 0
}

func (ev *Evaluator) execColor(s *ast.ColorStmt) {
	if s.Name != nil {
		c, ok := ev.colors.Lookup(s.Name.Name)
		if !ok {
			ev.report(ast.SeverityWarning, s.Name.Pos(), "unknown color '%s', using default", s.Name.Name)
			c = ast.DefaultColor
		}
		ev.state.Color = c
	} else {
		ev.state.Color = ast.RGB{
			R: channel(ev.eval(s.R)),
			G: channel(ev.eval(s.G)),
			B: channel(ev.eval(s.B)),
		}
	}
	c := ev.state.Color
	ev.log.Debugf("COLOR: (%d, %d, %d)", c.R, c.G, c.B)
}

// channel clamps v to [0,255] and truncates it. NaN becomes 0.
func channel(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

func (ev *Evaluator) execSize(s *ast.SizeStmt) {
	size := ev.eval(s.Width)
	if s.Height != nil {
		ev.report(ast.SeverityWarning, s.Height.Pos(),
			"SIZE height is not supported; using width %g as the pixel size", size)
	}
	if size >= 1 {
		ev.state.Size = size
	}
	ev.log.Debugf("SIZE: %g", ev.state.Size)
}

func (ev *Evaluator) execFor(s *ast.ForDrawStmt, drawn int) int {
	start, end, step := ev.eval(s.From), ev.eval(s.To), ev.eval(s.Step)
	ev.log.Debugf("FOR loop: start=%g, end=%g, step=%g", start, end, step)

	switch {
	case step == 0:
		ev.report(ast.SeverityError, s.Pos(), "step value cannot be zero; loop skipped")
		return 0
	case !finite(start) || !finite(end) || !finite(step):
		ev.report(ast.SeverityError, s.Pos(), "loop bounds must be finite numbers; loop skipped")
		return 0
	case step > 0 && start > end, step < 0 && start < end:
		ev.report(ast.SeverityWarning, s.Pos(),
			"step direction mismatch (from %g to %g step %g); loop skipped", start, end, step)
		return 0
	}

	n := 0
	if ev.counted {
		count := math.Floor((end-start)/step+countedEpsilon) + 1
		for i := 0; float64(i) < count; i++ {
			if ev.limitReached(s, drawn+n) {
				break
			}
			ev.env.T = start + float64(i)*step
			ev.plot(s, n)
			n++
		}
	} else {
		for ev.env.T = start; inRange(ev.env.T, end, step); ev.env.T += step {
			if ev.limitReached(s, drawn+n) {
				break
			}
			ev.plot(s, n)
			n++
			if ev.env.T+step == ev.env.T {
				ev.report(ast.SeverityError, s.Pos(),
					"step %g no longer changes T at %g; loop stopped after %d points", step, ev.env.T, n)
				break
			}
		}
	}
	ev.log.Debugf("FOR loop completed: %d points drawn", n)
	return n
}

func (ev *Evaluator) limitReached(s *ast.ForDrawStmt, drawn int) bool {
	if ev.limit <= 0 || drawn < ev.limit {
		return false
	}
	ev.report(ast.SeverityError, s.Pos(), "point limit of %d reached; loop stopped", ev.limit)
	return true
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func inRange(t, end, step float64) bool {
	if step < 0 {
		return t >= end
	}
	return t <= end
}

// plot evaluates the draw expressions at the current T and emits the point.
// i is the index of the point within its loop, used to thin debug output.
func (ev *Evaluator) plot(s *ast.ForDrawStmt, i int) {
	rx, ry := ev.eval(s.X), ev.eval(s.Y)
	x, y := ev.state.Transform(rx, ry)
	if ev.log.Enabled(logger.LevelDebug) && (i < 5 || i%100 == 0) {
		ev.log.Debugf("T=%g -> raw(%g, %g) -> transformed(%g, %g)", ev.env.T, rx, ry, x, y)
	}
	e := Event{X: x, Y: y, Color: ev.state.Color, Size: ev.state.Size}
	if ev.draw != nil {
		ev.draw(e)
	}
}
