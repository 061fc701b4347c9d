package orchestrator

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"todozi/internal/embedding"
	"todozi/internal/session"
	"todozi/internal/store"
)

func newTestOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	root := filepath.Join(t.TempDir(), "todozi")
	st, err := store.New(root)
	require.NoError(t, err)
	engine, err := embedding.NewEngine(embedding.DefaultConfig())
	require.NoError(t, err)
	svc := embedding.NewService(embedding.DefaultConfig(), engine)
	return New(st, svc, session.NewMemoryState())
}

func TestProcess_BasicTask(t *testing.T) {
	o := newTestOrchestrator(t)
	resp := o.Process(context.Background(), "Plan sprint <todozi>add user login; 2h; high; auth; todo</todozi>.", "sess-1")

	assert.Equal(t, "success", resp.Process)
	assert.Equal(t, 1, resp.ProcessedItems)
	assert.Equal(t, "Plan sprint .", resp.Clean)
	assert.Contains(t, resp.ItemsDetail, "Task: add user login")
}

func TestProcess_EmptyInput(t *testing.T) {
	o := newTestOrchestrator(t)
	resp := o.Process(context.Background(), "", "")
	assert.Equal(t, "success", resp.Process)
	assert.Empty(t, resp.Clean)
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
