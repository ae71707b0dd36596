package schema

import (
	"fmt"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph/expr"
)

// EvaluateCondition previews a condition node's config against sample
// variables. The node's variable is read from vars and compared to its
// value with the node's conditionType.
//
// Sentiment and intent conditions need a live classifier and return
// ErrUnsupportedCondition.
func EvaluateCondition(cfg map[string]any, vars map[string]any) (bool, error) {
	op, _ := cfg["conditionType"].(string)
	name, _ := cfg["variable"].(string)
	switch op {
	case "sentiment", "intent":
		return false, fmt.Errorf("%w: %s", ErrUnsupportedCondition, op)
	case "":
		return false, fmt.Errorf("%w: no condition type", ErrIncompleteCondition)
	}
	if name == "" {
		return false, fmt.Errorf("%w: no variable", ErrIncompleteCondition)
	}

	left, ok := vars[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUndefinedVariable, name)
	}
	right := expr.Resolve(expr.Stringify(cfg["value"]), vars)
	return expr.Compare(left, right, op)
}
