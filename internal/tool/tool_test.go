package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_DispatchSuccess(t *testing.T) {
	r := NewRegistry()
	r.Register(NewContentProcessorTool())

	res := r.Dispatch(context.Background(), "tdz_content_processor", map[string]string{
		"content": "TODO: write tests\nsome prose",
	})
	assert.True(t, res.Success)
	assert.Contains(t, res.Output, "TODO")
}

func TestRegistry_DispatchUnknownTool(t *testing.T) {
	r := NewRegistry()
	res := r.Dispatch(context.Background(), "does_not_exist", nil)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "unknown tool")
}

func TestRegistry_DispatchMissingParameter(t *testing.T) {
	r := NewRegistry()
	r.Register(NewContentProcessorTool())
	res := r.Dispatch(context.Background(), "tdz_content_processor", map[string]string{})
	assert.False(t, res.Success)
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, "ok", Success("ok", 0).String())
	assert.Equal(t, "Error: boom", Failure("boom", 0).String())
}
