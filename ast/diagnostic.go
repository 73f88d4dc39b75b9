package ast

import "fmt"

// Severity says whether a diagnostic is an error or only a warning.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Phase is the pipeline stage that reported a diagnostic.
type Phase int

const (
	PhaseLexical Phase = iota
	PhaseSyntax
	PhaseRuntime
)

func (p Phase) String() string {
	switch p {
	case PhaseLexical:
		return "lexical"
	case PhaseSyntax:
		return "syntax"
	default:
		return "runtime"
	}
}

// Diagnostic is one problem found while lexing, parsing or evaluating.
// Diagnostics are values; nothing in the pipeline panics or returns an error
// for a bad program.
type Diagnostic struct {
	Severity Severity
	Phase    Phase
	Message  string
	Loc      Location
}

// String renders the diagnostic as "loc: severity: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Loc, d.Severity, d.Message)
}

// HasErrors reports whether any diagnostic in ds has error severity.
func HasErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
