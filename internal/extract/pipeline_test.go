package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_ParsesTaskAndIdea(t *testing.T) {
	msg := "Plan sprint <todozi>add user login; 2h; high; auth; todo</todozi> and <id>dark mode; private; medium</id>."
	bundle, warnings, err := Extract(msg, "user-1")
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, bundle.Tasks, 1)
	assert.Equal(t, "add user login", bundle.Tasks[0].Action)
	require.Len(t, bundle.Ideas, 1)
	assert.Equal(t, "dark mode", bundle.Ideas[0].Text)
}

func TestExtract_InvalidUTF8(t *testing.T) {
	_, _, err := Extract(string([]byte{0xff, 0xfe, 0xfd}), "user-1")
	require.Error(t, err)
	assert.IsType(t, &InvalidUTF8Error{}, err)
}

func TestExtract_TooFewFieldsBecomeWarningNotFatal(t *testing.T) {
	msg := "<todozi>too; few</todozi>"
	bundle, warnings, err := Extract(msg, "user-1")
	require.NoError(t, err)
	assert.Empty(t, bundle.Tasks)
	assert.Len(t, warnings, 1)
}

func TestTryJSONEnvelope_PlainTextIsNotEnvelope(t *testing.T) {
	_, _, ok := TryJSONEnvelope("just a normal message, not JSON")
	assert.False(t, ok)
}

func TestTryJSONEnvelope_ExtractsChoicesAndToolCalls(t *testing.T) {
	body, calls, ok := TryJSONEnvelope(`{"choices":[{"message":{"content":"hello"}}],"tool_calls":[{"function":{"name":"search","arguments":{"q":"x"}}}]}`)
	require.True(t, ok)
	assert.Equal(t, "hello", body)
	require.Len(t, calls, 1)
	assert.Equal(t, "search", calls[0].Name)
}
