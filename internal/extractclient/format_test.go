package extractclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleResponse() *Response {
	return &Response{
		Tasks: []ExtractedTask{
			{Action: "add login", Time: "2h", Priority: "High", Project: "auth", Status: "Todo", Tags: []string{"auth", "backend"}},
		},
		Ideas: []ExtractedIdea{
			{Idea: "dark mode", Importance: "Medium"},
		},
	}
}

func TestFormatCSV(t *testing.T) {
	out := FormatCSV(sampleResponse())
	assert.Contains(t, out, "action,time,priority,project,status,assignee,tags")
	assert.Contains(t, out, "add login,2h,High,auth,Todo,,auth|backend")
}

func TestFormatMarkdown(t *testing.T) {
	out := FormatMarkdown(sampleResponse())
	assert.Contains(t, out, "## Tasks")
	assert.Contains(t, out, "add login")
	assert.Contains(t, out, "## Ideas")
	assert.Contains(t, out, "dark mode")
}

func TestFormatChecklist(t *testing.T) {
	out := FormatChecklist(sampleResponse())
	assert.Equal(t, "- [ ] add login (High)\n", out)
}

func TestCSVEscape(t *testing.T) {
	assert.Equal(t, `"a,b"`, csvEscape("a,b"))
	assert.Equal(t, "plain", csvEscape("plain"))
}
