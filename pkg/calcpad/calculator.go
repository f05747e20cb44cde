package calcpad

import (
	"github.com/bft-labs/calcpad/internal/adapters/keymap"
	"github.com/bft-labs/calcpad/internal/app"
	"github.com/bft-labs/calcpad/internal/domain"
	"github.com/bft-labs/calcpad/internal/ports"
)

// DefaultHistoryLimit is the default number of history entries kept.
const DefaultHistoryLimit = domain.DefaultHistoryLimit

// ErrorText is shown on the main display after a failed calculation.
const ErrorText = domain.ErrorText

type (
	// Event is a single input to the calculator.
	Event = domain.Event

	// EventKind enumerates the inputs a calculator accepts.
	EventKind = domain.EventKind

	// RenderModel is the displayed state of a calculator.
	RenderModel = domain.RenderModel

	// RenderedEntry is one displayed history line.
	RenderedEntry = domain.RenderedEntry
)

// Input event kinds.
const (
	EventDigit          = domain.EventDigit
	EventDecimal        = domain.EventDecimal
	EventOperator       = domain.EventOperator
	EventEquals         = domain.EventEquals
	EventClear          = domain.EventClear
	EventSquare         = domain.EventSquare
	EventMemoryAdd      = domain.EventMemoryAdd
	EventMemorySubtract = domain.EventMemorySubtract
	EventMemoryRecall   = domain.EventMemoryRecall
	EventMemoryClear    = domain.EventMemoryClear
)

// Digit returns the event for digit d ("0" to "9").
func Digit(d string) (Event, error) { return domain.Digit(d) }

// Operator returns the event for an operator symbol (+ - * / %).
func Operator(symbol string) (Event, error) { return domain.OperatorEvent(symbol) }

// Simple returns the event of a kind that carries no value.
func Simple(kind EventKind) Event { return domain.Simple(kind) }

// Calculator is one calculator with its own display, memory and history.
type Calculator struct {
	ctrl *app.Controller
}

// NewCalculator creates a calculator whose history keeps at most
// historyLimit entries. A non-positive limit uses DefaultHistoryLimit.
func NewCalculator(historyLimit int, opts ...Option) *Calculator {
	o := applyOptions(opts)
	return &Calculator{ctrl: app.NewController(historyLimit, o.logger)}
}

// Dispatch applies e and returns the resulting render model.
func (c *Calculator) Dispatch(e Event) RenderModel {
	return c.ctrl.Dispatch(e)
}

// Press applies a button by its page action ("number", "operator",
// "calculate", ...). value is the digit or operator symbol where needed.
// An unknown action returns an error wrapping ErrInvalidEvent and leaves
// the state unchanged.
func (c *Calculator) Press(action, value string) (RenderModel, error) {
	e, err := keymap.FromButton(action, value)
	if err != nil {
		return c.ctrl.Render(), err
	}
	return c.ctrl.Dispatch(e), nil
}

// Key applies a keyboard key. It reports false, leaving the state
// unchanged, if the key has no binding.
func (c *Calculator) Key(key string) (RenderModel, bool) {
	e, ok := keymap.FromKey(key)
	if !ok {
		return c.ctrl.Render(), false
	}
	return c.ctrl.Dispatch(e), true
}

// Render returns the current render model.
func (c *Calculator) Render() RenderModel {
	return c.ctrl.Render()
}

// Subscribe registers fn to be called with the render model after every
// event. fn runs while the calculator is locked and must not call back
// into it.
func (c *Calculator) Subscribe(fn func(RenderModel)) {
	c.ctrl.Subscribe(ports.RenderListenerFunc(fn))
}
