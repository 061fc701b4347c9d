package clean

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"todozi/internal/extract"
	"todozi/internal/model"
)

func TestClean_StripsCanonicalAndShorthandTags(t *testing.T) {
	original := "Plan sprint <todozi>add user login; 2h; high; auth; todo</todozi> and remember <mm>launched v1; it worked; celebrate; High; Long</mm>."
	got := Clean(original)
	assert.NotContains(t, got, "<todozi>")
	assert.NotContains(t, got, "<mm>")
	assert.Equal(t, "Plan sprint and remember .", got)
}

func TestClean_NoTagsReturnsCollapsedOriginal(t *testing.T) {
	got := Clean("just   a   plain   message")
	assert.Equal(t, "just a plain message", got)
}

func TestCleanWithResponse_EmptyBundleOmitsAck(t *testing.T) {
	got := CleanWithResponse("hello there", extract.NewChatContent())
	assert.Equal(t, "hello there", got)
}

func TestCleanWithResponse_BuildsAckBlock(t *testing.T) {
	bundle := extract.NewChatContent()
	bundle.Tasks = append(bundle.Tasks, model.NewTask("add user login", "2h", model.PriorityHigh, "auth", "auth-id", model.StatusTodo))
	bundle.Ideas = append(bundle.Ideas, model.NewIdea("dark mode", model.SharePrivate, model.IdeaImportanceMedium))

	got := CleanWithResponse("Plan sprint <todozi>add user login; 2h; high; auth; todo</todozi>.", bundle)
	assert.True(t, strings.Contains(got, "<tdz_sys>"))
	assert.True(t, strings.Contains(got, "Task: add user login"))
	assert.True(t, strings.Contains(got, "Idea: dark mode"))
	assert.True(t, strings.HasSuffix(got, "</tdz_sys>"))
}
