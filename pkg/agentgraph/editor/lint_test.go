package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/catalog"
)

type finding struct {
	Kind   IssueKind
	NodeID string
	Field  string
}

func findings(issues []Issue) []finding {
	out := make([]finding, len(issues))
	for i, is := range issues {
		out[i] = finding{is.Kind, is.NodeID, is.Field}
	}
	return out
}

func TestLint(t *testing.T) {
	ed := New("g")
	prompt := mustDrop(t, ed, catalog.KindPrompt, 0, 0)
	greet := mustDrop(t, ed, catalog.KindGreeting, 0, 0)
	question := mustDrop(t, ed, catalog.KindQuestion, 0, 0)
	cond := mustDrop(t, ed, catalog.KindCondition, 0, 0)
	transfer := mustDrop(t, ed, catalog.KindTransferCall, 0, 0)
	orphan := mustDrop(t, ed, catalog.KindEndCall, 0, 0)

	require.NoError(t, ed.Apply(prompt.ID, map[string]any{"instructions": "Address {{name}} from ${city}. Prices start at $5."}))
	require.NoError(t, ed.Apply(greet.ID, map[string]any{"message": "Hi there"}))
	require.NoError(t, ed.Apply(question.ID, map[string]any{"questionText": "Your name?", "variableName": "name"}))
	require.NoError(t, ed.Apply(cond.ID, map[string]any{"variable": "age", "value": "{{name}}"}))
	require.NoError(t, ed.Apply(transfer.ID, map[string]any{"message": "Connecting you, {{name}}"}))

	for _, pair := range [][2]string{
		{greet.ID, question.ID},
		{question.ID, cond.ID},
		{cond.ID, prompt.ID},
		{cond.ID, transfer.ID},
	} {
		_, ok := ed.Connect(pair[0], pair[1], agentgraph.Handles{})
		require.True(t, ok)
	}

	assert.Equal(t, []finding{
		{IssueUndefinedVariable, prompt.ID, "instructions"},
		{IssueUndefinedVariable, cond.ID, "variable"},
		{IssueMissingField, transfer.ID, "phoneNumber"},
		{IssueUnreachable, orphan.ID, ""},
		{IssuePending, orphan.ID, ""},
	}, findings(ed.Lint()))
}

func TestLint_EntryFallsBackToFirstNode(t *testing.T) {
	ed := New("g")
	a := mustDrop(t, ed, catalog.KindPrompt, 0, 0)
	b := mustDrop(t, ed, catalog.KindEndCall, 0, 0)
	c := mustDrop(t, ed, catalog.KindEndCall, 0, 0)
	_, ok := ed.Connect(a.ID, b.ID, agentgraph.Handles{})
	require.True(t, ok)
	for _, n := range []agentgraph.Node{a, b, c} {
		require.NoError(t, ed.Apply(n.ID, map[string]any{}))
	}

	issues := ed.Lint()
	require.Len(t, issues, 1)
	assert.Equal(t, IssueUnreachable, issues[0].Kind)
	assert.Equal(t, c.ID, issues[0].NodeID)
	assert.Contains(t, issues[0].String(), "not reachable from "+a.ID)
}

func TestLint_EmptyAndQuarantined(t *testing.T) {
	ed := New("g")
	assert.Empty(t, ed.Lint())

	ed.Store().Hydrate([]agentgraph.Node{
		{ID: "ivr", Kind: "legacy_ivr", Config: map[string]any{"prompt": "{{undefined}}"}, Status: agentgraph.StatusConfigured},
	}, nil)
	assert.Empty(t, ed.Lint(), "generic nodes are only checked for reachability and status")
}
