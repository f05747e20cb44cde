package domain

import "fmt"

// EventKind identifies the transition an Event triggers.
type EventKind int

const (
	EventDigit EventKind = iota
	EventDecimal
	EventOperator
	EventEquals
	EventClear
	EventSquare
	EventMemoryAdd
	EventMemorySubtract
	EventMemoryRecall
	EventMemoryClear
)

// String returns a human-readable name, used in logs.
func (k EventKind) String() string {
	switch k {
	case EventDigit:
		return "digit"
	case EventDecimal:
		return "decimal"
	case EventOperator:
		return "operator"
	case EventEquals:
		return "equals"
	case EventClear:
		return "clear"
	case EventSquare:
		return "square"
	case EventMemoryAdd:
		return "memory-add"
	case EventMemorySubtract:
		return "memory-subtract"
	case EventMemoryRecall:
		return "memory-recall"
	case EventMemoryClear:
		return "memory-clear"
	default:
		return "unknown"
	}
}

// Event is one discrete input. Digit is set only for EventDigit and
// Operator only for EventOperator.
type Event struct {
	Kind     EventKind
	Digit    byte
	Operator Operator
}

// Digit builds a digit event for d in "0".."9".
func Digit(d string) (Event, error) {
	if len(d) != 1 || d[0] < '0' || d[0] > '9' {
		return Event{}, fmt.Errorf("%w: digit %q", ErrInvalidEvent, d)
	}
	return Event{Kind: EventDigit, Digit: d[0]}, nil
}

// OperatorEvent builds an operator event from an input symbol.
func OperatorEvent(symbol string) (Event, error) {
	op, err := ParseOperator(symbol)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	return Event{Kind: EventOperator, Operator: op}, nil
}

// Simple builds an event that carries no payload.
func Simple(kind EventKind) Event {
	return Event{Kind: kind}
}

// String returns a compact description, used in logs.
func (e Event) String() string {
	switch e.Kind {
	case EventDigit:
		return "digit(" + string(e.Digit) + ")"
	case EventOperator:
		return "operator(" + e.Operator.String() + ")"
	default:
		return e.Kind.String()
	}
}
