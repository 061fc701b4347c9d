package extractclient

import (
	"testing"

	"github.com/stretchr/testify/require"

	"todozi/internal/embedding"
	"todozi/internal/store"
)

func TestFeed_PersistsEveryFamily(t *testing.T) {
	st, err := store.New(t.TempDir())
	require.NoError(t, err)
	engine, err := embedding.NewEngine(embedding.DefaultConfig())
	require.NoError(t, err)
	svc := embedding.NewService(embedding.DefaultConfig(), engine)

	resp := &Response{
		Tasks:    []ExtractedTask{{Action: "add login", Time: "2h", Priority: "High", Project: "auth", Status: "Todo"}},
		Memories: []ExtractedMemory{{Moment: "launch", Meaning: "it worked", Importance: "High", Term: "Long"}},
		Ideas:    []ExtractedIdea{{Idea: "dark mode", Share: "Private", Importance: "Medium"}},
		Errors:   []ExtractedError{{Title: "nil pointer", Description: "crashed on save", Severity: "High", Category: "bug"}},
	}

	result, err := Feed(t.Context(), st, svc, "user-1", resp)
	require.NoError(t, err)
	require.Equal(t, 1, result.Tasks)
	require.Equal(t, 1, result.Memories)
	require.Equal(t, 1, result.Ideas)
	require.Equal(t, 1, result.Errors)
}
