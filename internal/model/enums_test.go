package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority_AcceptsAliases(t *testing.T) {
	p, err := ParsePriority("med")
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, p)

	p, err = ParsePriority("URGENT")
	require.NoError(t, err)
	assert.Equal(t, PriorityUrgent, p)
}

func TestParsePriority_Invalid(t *testing.T) {
	_, err := ParsePriority("whenever")
	assert.Error(t, err)
}

func TestParseTaskStatus_NormalizesPunctuation(t *testing.T) {
	s, err := ParseTaskStatus("in-progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, s)
}

func TestParseAssignee_AgentFreeform(t *testing.T) {
	a, err := ParseAssignee("agent: reviewer-bot")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, AssigneeAgent, a.Kind)
	assert.Equal(t, "reviewer-bot", a.Name)
}

func TestParseAssignee_Empty(t *testing.T) {
	a, err := ParseAssignee("  ")
	require.NoError(t, err)
	assert.Nil(t, a)
}
