package domain

import (
	"math"
	"strconv"
	"strings"
)

// ErrorText is the display text of the error sentinel.
const ErrorText = "Error"

// Result is the outcome of an arithmetic evaluation: either a number or the
// error sentinel. The zero value is the number 0.
type Result struct {
	value float64
	err   bool
}

// Number wraps v as a numeric result.
func Number(v float64) Result {
	return Result{value: v}
}

// ErrorResult returns the error sentinel.
func ErrorResult() Result {
	return Result{err: true}
}

// IsError reports whether r is the error sentinel.
func (r Result) IsError() bool {
	return r.err
}

// Value returns the numeric value and false if r is the error sentinel.
func (r Result) Value() (float64, bool) {
	if r.err {
		return 0, false
	}
	return r.value, true
}

// String formats r for display.
func (r Result) String() string {
	if r.err {
		return ErrorText
	}
	return FormatNumber(r.value)
}

// FormatNumber renders v as the shortest text that parses back to v.
// Very large and very small magnitudes use exponent form.
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		return trimExponent(strconv.FormatFloat(v, 'e', -1, 64))
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// trimExponent drops leading zeros of the exponent: "1e-07" becomes "1e-7".
func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 >= len(s) {
		return s
	}
	head, digits := s[:i+2], strings.TrimLeft(s[i+2:], "0")
	if digits == "" {
		digits = "0"
	}
	return head + digits
}

// hasExponent reports whether display text is in exponent form.
func hasExponent(s string) bool {
	return strings.IndexByte(s, 'e') >= 0
}

// parseDisplay parses display text. In-progress text such as "5." parses
// as 5. Unparseable or out-of-range text yields false.
func parseDisplay(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
