package editor

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/catalog"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/schema"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/template"
)

// IssueKind classifies a lint finding.
type IssueKind string

const (
	// IssueUnreachable: no path leads to the node from the entry node.
	IssueUnreachable IssueKind = "unreachable"
	// IssuePending: the node was placed but never configured.
	IssuePending IssueKind = "pending"
	// IssueMissingField: a required field has no valid value.
	IssueMissingField IssueKind = "missing_field"
	// IssueUndefinedVariable: text or a condition uses a variable that no
	// question node collects.
	IssueUndefinedVariable IssueKind = "undefined_variable"
)

// Issue is one advisory lint finding. Issues never block a save.
type Issue struct {
	Kind   IssueKind
	NodeID string
	// Field is set for missing fields and undefined variables.
	Field   string
	Message string
}

// String implements fmt.Stringer.
func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.NodeID, i.Message)
}

// lintExpander finds {{name}} and ${name}. A bare $name is too often a price
// or a literal in spoken text to be reported.
var lintExpander = template.NewExpander(template.WithDollarStyle(false))

// Lint checks the graph for likely mistakes, node by node in insertion
// order. The entry node is the first greeting, or the first node when there
// is no greeting.
func (e *Editor) Lint() []Issue {
	nodes, _ := e.store.Snapshot()
	if len(nodes) == 0 {
		return nil
	}

	entry := nodes[0].ID
	for _, n := range nodes {
		if n.Kind == catalog.KindGreeting {
			entry = n.ID
			break
		}
	}
	reachable := e.store.Reachable(entry)
	defined := definedVariables(nodes)

	var issues []Issue
	for _, n := range nodes {
		if !reachable[n.ID] {
			issues = append(issues, Issue{
				Kind:    IssueUnreachable,
				NodeID:  n.ID,
				Message: fmt.Sprintf("not reachable from %s", entry),
			})
		}
		if n.Status == agentgraph.StatusPending {
			issues = append(issues, Issue{
				Kind:    IssuePending,
				NodeID:  n.ID,
				Message: "not configured yet",
			})
		}

		s := e.schemas.Resolve(n.Kind)
		if s.Generic {
			continue
		}
		for _, name := range s.Missing(n.Config) {
			issues = append(issues, Issue{
				Kind:    IssueMissingField,
				NodeID:  n.ID,
				Field:   name,
				Message: name + " is required",
			})
		}
		issues = append(issues, undefinedVariables(n, s, defined)...)
	}
	return issues
}

// definedVariables collects the variable names that question nodes store
// answers in.
func definedVariables(nodes []agentgraph.Node) map[string]bool {
	defined := make(map[string]bool)
	for _, n := range nodes {
		if n.Kind != catalog.KindQuestion {
			continue
		}
		if name, _ := n.Config["variableName"].(string); name != "" {
			defined[name] = true
		}
	}
	return defined
}

func undefinedVariables(n agentgraph.Node, s schema.Schema, defined map[string]bool) []Issue {
	var issues []Issue
	if n.Kind == catalog.KindCondition {
		if name, _ := n.Config["variable"].(string); name != "" && !defined[name] {
			issues = append(issues, Issue{
				Kind:    IssueUndefinedVariable,
				NodeID:  n.ID,
				Field:   "variable",
				Message: fmt.Sprintf("condition reads %s, which no question collects", name),
			})
		}
	}

	for _, f := range s.Fields {
		if f.Type != schema.Text {
			continue
		}
		text, _ := n.Config[f.Name].(string)
		var missing []string
		for _, name := range lintExpander.Variables(text) {
			if !defined[name] {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			issues = append(issues, Issue{
				Kind:    IssueUndefinedVariable,
				NodeID:  n.ID,
				Field:   f.Name,
				Message: fmt.Sprintf("%s uses undefined %s", f.Name, strings.Join(missing, ", ")),
			})
		}
	}
	return issues
}
