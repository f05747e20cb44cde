package domain

import "math"

// roundingScale suppresses binary floating-point artifacts at 9 decimals.
const roundingScale = 1e9

// Evaluate applies op to the operands. Division or modulo by zero, and any
// non-finite outcome, yield the error sentinel. OpNone returns b unchanged.
func Evaluate(a float64, op Operator, b float64) Result {
	var v float64
	switch op {
	case OpAdd:
		v = a + b
	case OpSubtract:
		v = a - b
	case OpMultiply:
		v = a * b
	case OpDivide:
		if b == 0 {
			return ErrorResult()
		}
		v = a / b
	case OpModulo:
		if b == 0 {
			return ErrorResult()
		}
		v = math.Mod(a, b)
	default:
		return Number(b)
	}
	return finite(Round(v))
}

// Round rounds v to 9 decimal places, halves toward positive infinity.
// Values too large to scale are returned unchanged.
func Round(v float64) float64 {
	scaled := v * roundingScale
	if math.IsInf(scaled, 0) || math.IsNaN(scaled) {
		return v
	}
	return math.Floor(scaled+0.5) / roundingScale
}

func finite(v float64) Result {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return ErrorResult()
	}
	return Number(v)
}
