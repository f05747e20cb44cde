package domain

// InitialDisplay is the display text of a fresh or cleared calculator.
const InitialDisplay = "0"

// State is the calculator state machine for one page session.
// It is not safe for concurrent use; callers serialize access.
type State struct {
	display  string
	first    float64
	hasFirst bool
	waiting  bool
	operator Operator
	memory   float64
	errored  bool

	history      *History
	calculations int
}

// NewState returns a State with default values and an empty history
// bounded to historyLimit entries.
func NewState(historyLimit int) *State {
	return &State{
		display: InitialDisplay,
		history: NewHistory(historyLimit),
	}
}

// transition is one entry of the dispatch table.
type transition func(s *State, e Event)

var transitions = map[EventKind]transition{
	EventDigit:          func(s *State, e Event) { s.InputDigit(e.Digit) },
	EventDecimal:        func(s *State, _ Event) { s.InputDecimal() },
	EventOperator:       func(s *State, e Event) { s.InputOperator(e.Operator) },
	EventEquals:         func(s *State, _ Event) { s.Calculate() },
	EventClear:          func(s *State, _ Event) { s.Clear() },
	EventSquare:         func(s *State, _ Event) { s.Square() },
	EventMemoryAdd:      func(s *State, _ Event) { s.MemoryAdd() },
	EventMemorySubtract: func(s *State, _ Event) { s.MemorySubtract() },
	EventMemoryRecall:   func(s *State, _ Event) { s.MemoryRecall() },
	EventMemoryClear:    func(s *State, _ Event) { s.MemoryClear() },
}

// Apply runs the transition for e. It returns false if e has an unknown kind.
func (s *State) Apply(e Event) bool {
	t, ok := transitions[e.Kind]
	if !ok {
		return false
	}
	t(s, e)
	return true
}

// InputDigit appends d to the display, replacing a lone "0", or starts a new
// number if an operator was just chosen. A display in exponent form is a
// result, not an entry, and takes no more digits.
func (s *State) InputDigit(d byte) {
	if s.errored || d < '0' || d > '9' {
		return
	}
	if s.waiting {
		s.display = string(d)
		s.waiting = false
		return
	}
	if hasExponent(s.display) {
		return
	}
	if s.display == InitialDisplay {
		s.display = string(d)
		return
	}
	s.display += string(d)
}

// InputDecimal adds a decimal point unless the display already has one.
func (s *State) InputDecimal() {
	if s.errored {
		return
	}
	if s.waiting {
		s.display = "0."
		s.waiting = false
		return
	}
	if hasExponent(s.display) {
		return
	}
	for i := 0; i < len(s.display); i++ {
		if s.display[i] == '.' {
			return
		}
	}
	s.display += "."
}

// InputOperator selects op as the pending operator. Choosing an operator
// while another one is pending and no second operand has been typed only
// replaces it. Otherwise a pending calculation is carried out first. After
// equals the result stays the first operand, even if digits were typed.
func (s *State) InputOperator(op Operator) {
	if s.errored || op == OpNone {
		return
	}
	if s.operator != OpNone && s.waiting {
		s.operator = op
		return
	}

	input, ok := parseDisplay(s.display)
	if !ok {
		return
	}
	switch {
	case !s.hasFirst:
		s.first, s.hasFirst = input, true
	case s.operator != OpNone:
		if !s.evaluate(input) {
			return
		}
	}

	s.waiting = true
	s.operator = op
}

// Calculate applies the pending operator to the first operand and the
// display value and ends the chain. It does nothing unless both a first
// operand and an operator are set.
func (s *State) Calculate() {
	if s.errored || !s.hasFirst || s.operator == OpNone {
		return
	}
	second, ok := parseDisplay(s.display)
	if !ok {
		return
	}
	if !s.evaluate(second) {
		return
	}
	s.waiting = true
	s.operator = OpNone
}

// evaluate computes first <op> second, records it and stores the result as
// display and first operand. It returns false if the result is the error
// sentinel, leaving the state errored.
func (s *State) evaluate(second float64) bool {
	r := Evaluate(s.first, s.operator, second)
	s.record(FormatNumber(s.first)+" "+s.operator.Symbol()+" "+FormatNumber(second), r)
	v, ok := r.Value()
	if !ok {
		s.fail()
		return false
	}
	s.display = FormatNumber(v)
	s.first = v
	return true
}

// Square replaces the display value with its square, unrounded. A history
// entry is recorded only when the squared value was typed, not just carried
// over.
func (s *State) Square() {
	if s.errored {
		return
	}
	v, ok := parseDisplay(s.display)
	if !ok {
		return
	}
	r := finite(v * v)
	if !s.waiting {
		s.record(FormatNumber(v)+"²", r)
	}
	sq, ok := r.Value()
	if !ok {
		s.fail()
		return
	}
	s.display = FormatNumber(sq)
}

// Clear resets the display and drops the pending operand and operator.
// History and memory are kept.
func (s *State) Clear() {
	s.display = InitialDisplay
	s.first, s.hasFirst = 0, false
	s.operator = OpNone
	s.waiting = false
	s.errored = false
}

// MemoryAdd adds the display value to memory.
func (s *State) MemoryAdd() {
	if v, ok := s.displayNumber(); ok {
		s.memory = Round(s.memory + v)
	}
}

// MemorySubtract subtracts the display value from memory.
func (s *State) MemorySubtract() {
	if v, ok := s.displayNumber(); ok {
		s.memory = Round(s.memory - v)
	}
}

// MemoryRecall shows the memory value as the current input.
func (s *State) MemoryRecall() {
	if s.errored {
		return
	}
	s.display = FormatNumber(s.memory)
	s.waiting = false
}

// MemoryClear resets memory to zero.
func (s *State) MemoryClear() {
	if s.errored {
		return
	}
	s.memory = 0
}

func (s *State) displayNumber() (float64, bool) {
	if s.errored {
		return 0, false
	}
	return parseDisplay(s.display)
}

func (s *State) record(expression string, r Result) {
	s.history.Add(HistoryEntry{Expression: expression, Result: r})
	s.calculations++
}

// fail enters the error state. Only Clear leaves it.
func (s *State) fail() {
	s.display = ErrorText
	s.first, s.hasFirst = 0, false
	s.operator = OpNone
	s.waiting = true
	s.errored = true
}

// Display returns the main display text.
func (s *State) Display() string { return s.display }

// FirstOperand returns the pending left-hand operand, if any.
func (s *State) FirstOperand() (float64, bool) { return s.first, s.hasFirst }

// Operator returns the pending operator, OpNone if there is none.
func (s *State) Operator() Operator { return s.operator }

// WaitingForSecondOperand reports whether the next digit starts a new number.
func (s *State) WaitingForSecondOperand() bool { return s.waiting }

// Memory returns the memory register.
func (s *State) Memory() float64 { return s.memory }

// Errored reports whether the last calculation produced the error sentinel.
func (s *State) Errored() bool { return s.errored }

// History returns the history entries, most recent first.
func (s *State) History() []HistoryEntry { return s.history.Entries() }

// Calculations returns how many history entries have been recorded in total,
// including evicted ones.
func (s *State) Calculations() int { return s.calculations }
