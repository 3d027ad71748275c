package cmd

import (
	"encoding/json"
	"testing"

	sw "github.com/filanov/stateswitch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsGraph(t *testing.T) {
	s := &sw.StateMachineJSON{
		TransitionRules: []sw.TransitionRuleJSON{
			{SourceStates: []string{"idle", "loading"}, DestinationState: "loading", Name: "started"},
			{SourceStates: []string{"idle", "loading"}, DestinationState: "idle", Name: "settled"},
		},
	}

	g := asGraph(s)

	assert.Len(t, g.FindNodes(), 2)
	assert.Len(t, g.FindEdges(g.Node("idle"), g.Node("loading")), 1)
	assert.Len(t, g.FindEdges(g.Node("loading"), g.Node("loading")), 1)
}

func TestOutcomeStatemachine(t *testing.T) {
	defer func(v bool) { exportFlagSet.json = v }(exportFlagSet.json)

	exportFlagSet.json = true

	out, err := outcomeStatemachine()
	require.Nil(t, err)

	described := &sw.StateMachineJSON{}
	require.Nil(t, json.Unmarshal([]byte(out), described))
	assert.Len(t, described.TransitionRules, 3)

	exportFlagSet.json = false

	out, err = outcomeStatemachine()
	require.Nil(t, err)
	assert.Contains(t, out, "idle")
	assert.Contains(t, out, "loading")
	assert.Contains(t, out, "Operation failed")
}
