package migration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"todozi/internal/embedding"
	"todozi/internal/model"
	"todozi/internal/projecthash"
	"todozi/internal/store"
)

func seedLegacyTasks(t *testing.T, st *store.Store, status store.LegacyStatus, tasks []*model.Task) {
	t.Helper()
	path := filepath.Join(st.Root(), "tasks", string(status)+".json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	data, err := json.Marshal(tasks)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestMigrator_Run_GroupsByProjectAndEmbeds(t *testing.T) {
	root := t.TempDir()
	st, err := store.New(root)
	require.NoError(t, err)

	projectID := projecthash.Hash("auth")
	t1 := model.NewTask("add login", "2h", model.PriorityHigh, "auth", projectID, model.StatusTodo)
	t2 := model.NewTask("add logout", "1h", model.PriorityMedium, "auth", projectID, model.StatusTodo)
	seedLegacyTasks(t, st, store.LegacyActive, []*model.Task{t1, t2})

	engine, err := embedding.NewEngine(embedding.DefaultConfig())
	require.NoError(t, err)
	svc := embedding.NewService(embedding.DefaultConfig(), engine)

	m := New(st, svc)
	report, err := m.Run(context.Background(), Options{})
	require.NoError(t, err)

	require.Equal(t, 2, report.TotalTasks)
	require.Len(t, report.PerProject, 1)
	require.Equal(t, projectID, report.PerProject[0].ProjectID)
	require.Equal(t, 2, report.PerProject[0].Embedded)

	container, err := st.LoadProject(projectID)
	require.NoError(t, err)
	require.Len(t, container.Tasks, 2)
}

func TestMigrator_Run_DryRunWritesNothing(t *testing.T) {
	root := t.TempDir()
	st, err := store.New(root)
	require.NoError(t, err)

	projectID := projecthash.Hash("auth")
	t1 := model.NewTask("add login", "2h", model.PriorityHigh, "auth", projectID, model.StatusTodo)
	seedLegacyTasks(t, st, store.LegacyActive, []*model.Task{t1})

	m := New(st, nil)
	report, err := m.Run(context.Background(), Options{DryRun: true})
	require.NoError(t, err)
	require.Equal(t, 1, report.TotalTasks)

	_, err = st.LoadProject(projectID)
	require.Error(t, err)
}
