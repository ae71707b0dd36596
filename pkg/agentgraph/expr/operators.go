package expr

import (
	"errors"
	"fmt"
	"strings"
)

// Operator names accepted by Compare. They match the conditionType values
// a condition node can carry.
const (
	OpEquals      = "equals"
	OpContains    = "contains"
	OpGreaterThan = "greater_than"
	OpLessThan    = "less_than"
)

// ErrUnknownOperator is returned by Compare for an operator it cannot evaluate.
var ErrUnknownOperator = errors.New("unknown operator")

// BinaryOp compares two values.
type BinaryOp func(left, right any) bool

var builtinOps = map[string]BinaryOp{
	OpEquals:      compareEquals,
	OpContains:    compareContains,
	OpGreaterThan: compareGT,
	OpLessThan:    compareLT,
}

// Operators returns the names of the built-in operators.
func Operators() []string {
	return []string{OpEquals, OpContains, OpGreaterThan, OpLessThan}
}

// Compare applies op to left and right.
// Returns ErrUnknownOperator (wrapped) for anything not built in.
func Compare(left, right any, op string) (bool, error) {
	fn, ok := builtinOps[op]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownOperator, op)
	}
	return fn(left, right), nil
}

// compareEquals compares numerically when both sides are numbers and
// case-insensitively as text otherwise, since answers come from speech.
func compareEquals(left, right any) bool {
	l, lok := ToFloat64(left)
	r, rok := ToFloat64(right)
	if lok && rok {
		return l == r
	}
	return strings.EqualFold(Stringify(left), Stringify(right))
}

// compareContains reports whether left contains right, ignoring case.
func compareContains(left, right any) bool {
	return strings.Contains(
		strings.ToLower(Stringify(left)),
		strings.ToLower(Stringify(right)),
	)
}

// compareGT is false when either side is not numeric.
func compareGT(left, right any) bool {
	l, lok := ToFloat64(left)
	r, rok := ToFloat64(right)
	return lok && rok && l > r
}

// compareLT is false when either side is not numeric.
func compareLT(left, right any) bool {
	l, lok := ToFloat64(left)
	r, rok := ToFloat64(right)
	return lok && rok && l < r
}
