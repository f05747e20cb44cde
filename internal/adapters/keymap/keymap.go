// Package keymap translates browser input (keyboard keys and the
// data-action attributes of the calculator buttons) into domain events.
package keymap

import (
	"fmt"

	"github.com/bft-labs/calcpad/internal/domain"
)

// Button actions, as set in the page's data-action attributes.
const (
	ActionNumber         = "number"
	ActionDecimal        = "decimal"
	ActionOperator       = "operator"
	ActionClear          = "clear"
	ActionSquare         = "square"
	ActionCalculate      = "calculate"
	ActionMemoryAdd      = "memory-add"
	ActionMemorySubtract = "memory-subtract"
	ActionMemoryRecall   = "memory-recall"
	ActionMemoryClear    = "memory-clear"
)

var simpleActions = map[string]domain.EventKind{
	ActionDecimal:        domain.EventDecimal,
	ActionClear:          domain.EventClear,
	ActionSquare:         domain.EventSquare,
	ActionCalculate:      domain.EventEquals,
	ActionMemoryAdd:      domain.EventMemoryAdd,
	ActionMemorySubtract: domain.EventMemorySubtract,
	ActionMemoryRecall:   domain.EventMemoryRecall,
	ActionMemoryClear:    domain.EventMemoryClear,
}

// FromButton builds the event for a button click. value is the digit for
// "number" and the operator symbol for "operator"; it is ignored otherwise.
func FromButton(action, value string) (domain.Event, error) {
	switch action {
	case ActionNumber:
		return domain.Digit(value)
	case ActionOperator:
		return domain.OperatorEvent(value)
	}
	if kind, ok := simpleActions[action]; ok {
		return domain.Simple(kind), nil
	}
	return domain.Event{}, fmt.Errorf("%w: button action %q", domain.ErrInvalidEvent, action)
}

// FromKey builds the event for a keydown. It returns false for keys that
// have no binding. Modulo has no key; it is a button-only operator.
func FromKey(key string) (domain.Event, bool) {
	switch key {
	case "Enter":
		return domain.Simple(domain.EventEquals), true
	case "Escape":
		return domain.Simple(domain.EventClear), true
	case ".":
		return domain.Simple(domain.EventDecimal), true
	case "+", "-", "*", "/":
		e, err := domain.OperatorEvent(key)
		return e, err == nil
	}
	if e, err := domain.Digit(key); err == nil {
		return e, true
	}
	return domain.Event{}, false
}
