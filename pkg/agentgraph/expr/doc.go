/*
Package expr evaluates the comparisons a condition node describes.

A condition node stores a conditionType, a variable name and a value. The
editor uses this package to preview how a condition would branch for a
set of sample answers:

	left := expr.Resolve("age", map[string]any{"age": 42})
	ok, err := expr.Compare(left, "18", expr.OpGreaterThan) // true, nil

# Operators

  - equals: numeric equality when both sides are numbers, otherwise
    case-insensitive text equality
  - contains: case-insensitive substring match
  - greater_than, less_than: numeric only; false if either side is not a number

Any other operator name yields ErrUnknownOperator.
*/
package expr
