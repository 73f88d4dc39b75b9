package lexer

// charClass is a column of the class transition table.
type charClass int

const (
	classLetter charClass = iota
	classDigit
	numClasses

	classExact charClass = -1 // edge matches edge.ch only
)

const noState State = -1

// edge is one row of the transition list the tables are built from.
type edge struct {
	from  State
	class charClass
	ch    byte
	to    State
}

// transitions lists every edge of the automaton. It must describe the same
// machine as codedNext.
var transitions = []edge{
	{StateStart, classLetter, 0, StateIdent},
	{StateStart, classDigit, 0, StateInt},
	{StateStart, classExact, '*', StateMul},
	{StateStart, classExact, '/', StateDiv},
	{StateStart, classExact, '-', StateMinus},
	{StateStart, classExact, '+', StatePlus},
	{StateStart, classExact, ',', StateComma},
	{StateStart, classExact, ';', StateSemi},
	{StateStart, classExact, '(', StateLParen},
	{StateStart, classExact, ')', StateRParen},

	{StateIdent, classLetter, 0, StateIdent},
	{StateIdent, classDigit, 0, StateIdent},

	{StateInt, classDigit, 0, StateInt},
	{StateInt, classExact, '.', StateFrac},
	{StateInt, classExact, 'e', StateExpMark},
	{StateInt, classExact, 'E', StateExpMark},

	{StateFrac, classDigit, 0, StateFrac},
	{StateFrac, classExact, 'e', StateExpMark},
	{StateFrac, classExact, 'E', StateExpMark},

	{StateExpMark, classDigit, 0, StateExpDigits},
	{StateExpMark, classExact, '+', StateExpSign},
	{StateExpMark, classExact, '-', StateExpSign},
	{StateExpSign, classDigit, 0, StateExpDigits},
	{StateExpDigits, classDigit, 0, StateExpDigits},

	{StateMul, classExact, '*', StatePower},
	{StateDiv, classExact, '/', StateComment},
	{StateMinus, classExact, '-', StateComment},
}

var (
	classTable [numStates][numClasses]State
	exactTable [numStates][128]State
)

func init() {
	for s := range classTable {
		for c := range classTable[s] {
			classTable[s][c] = noState
		}
		for c := range exactTable[s] {
			exactTable[s][c] = noState
		}
	}
	for _, e := range transitions {
		if e.class == classExact {
			exactTable[e.from][e.ch] = e.to
		} else {
			classTable[e.from][e.class] = e.to
		}
	}
}

// TableDrivenEngine looks transitions up in classTable, then exactTable.
type TableDrivenEngine struct {
	machine
}

// NewTableDriven returns a TableDrivenEngine in the start state.
func NewTableDriven() *TableDrivenEngine {
	return &TableDrivenEngine{machine{state: StateStart}}
}

// Feed implements Engine.
func (e *TableDrivenEngine) Feed(c byte) bool {
	next := noState
	switch {
	case isLetter(c):
		next = classTable[e.state][classLetter]
	case isDigit(c):
		next = classTable[e.state][classDigit]
	}
	if next == noState && c < 128 {
		next = exactTable[e.state][c]
	}
	if next == noState {
		return false
	}
	e.commit(next, c)
	return true
}
