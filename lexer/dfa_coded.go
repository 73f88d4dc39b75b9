package lexer

// HardCodedEngine is the switch-coded transition engine.
type HardCodedEngine struct {
	machine
}

// NewHardCoded returns a HardCodedEngine in the start state.
func NewHardCoded() *HardCodedEngine {
	return &HardCodedEngine{machine{state: StateStart}}
}

// Feed implements Engine.
func (e *HardCodedEngine) Feed(c byte) bool {
	next, ok := codedNext(e.state, c)
	if !ok {
		return false
	}
	e.commit(next, c)
	return true
}

// codedNext is the transition function. Letter and digit classes are tested
// before exact characters, so an 'e' after digits reaches the exponent case
// only because StateInt and StateFrac have no letter transition.
func codedNext(s State, c byte) (State, bool) {
	switch s {
	case StateStart:
		switch {
		case isLetter(c):
			return StateIdent, true
		case isDigit(c):
			return StateInt, true
		}
		switch c {
		case '*':
			return StateMul, true
		case '/':
			return StateDiv, true
		case '-':
			return StateMinus, true
		case '+':
			return StatePlus, true
		case ',':
			return StateComma, true
		case ';':
			return StateSemi, true
		case '(':
			return StateLParen, true
		case ')':
			return StateRParen, true
		}
	case StateIdent:
		if isLetter(c) || isDigit(c) {
			return StateIdent, true
		}
	case StateInt:
		if isDigit(c) {
			return StateInt, true
		}
		switch c {
		case '.':
			return StateFrac, true
		case 'e', 'E':
			return StateExpMark, true
		}
	case StateFrac:
		if isDigit(c) {
			return StateFrac, true
		}
		if c == 'e' || c == 'E' {
			return StateExpMark, true
		}
	case StateExpMark:
		if isDigit(c) {
			return StateExpDigits, true
		}
		if c == '+' || c == '-' {
			return StateExpSign, true
		}
	case StateExpSign, StateExpDigits:
		if isDigit(c) {
			return StateExpDigits, true
		}
	case StateMul:
		if c == '*' {
			return StatePower, true
		}
	case StateDiv:
		if c == '/' {
			return StateComment, true
		}
	case StateMinus:
		if c == '-' {
			return StateComment, true
		}
	}
	return s, false
}
