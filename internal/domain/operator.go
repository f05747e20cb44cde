package domain

import "fmt"

// Operator is a pending binary operation.
type Operator int

const (
	// OpNone means no operator is pending.
	OpNone Operator = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
)

// ParseOperator maps an input symbol ("+", "-", "*", "/", "%") to an Operator.
func ParseOperator(symbol string) (Operator, error) {
	switch symbol {
	case "+":
		return OpAdd, nil
	case "-":
		return OpSubtract, nil
	case "*":
		return OpMultiply, nil
	case "/":
		return OpDivide, nil
	case "%":
		return OpModulo, nil
	default:
		return OpNone, fmt.Errorf("%w: %q", ErrUnknownOperator, symbol)
	}
}

// Symbol returns the presentation symbol shown in the secondary display
// and in history expressions.
func (o Operator) Symbol() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "−"
	case OpMultiply:
		return "×"
	case OpDivide:
		return "÷"
	case OpModulo:
		return "%"
	default:
		return ""
	}
}

// String returns a human-readable name, used in logs.
func (o Operator) String() string {
	switch o {
	case OpNone:
		return "none"
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	case OpMultiply:
		return "multiply"
	case OpDivide:
		return "divide"
	case OpModulo:
		return "modulo"
	default:
		return "unknown"
	}
}
