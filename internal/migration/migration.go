// Package migration implements the Migrator half of component I: moving
// legacy per-status task collections (active/completed/archived) forward
// into per-project containers.
package migration

import (
	"context"
	"fmt"

	"todozi/internal/embedding"
	"todozi/internal/model"
	"todozi/internal/projecthash"
	"todozi/internal/store"
)

// Options configures one migration run.
type Options struct {
	ForceOverwrite bool
	DryRun         bool
	CleanupEmpty   bool
}

// ProjectStats reports how many tasks moved into one project's container.
type ProjectStats struct {
	ProjectID  string
	TaskCount  int
	Embedded   int
}

// Report summarizes a full migration run.
type Report struct {
	PerProject []ProjectStats
	TotalTasks int
	DryRun     bool
}

// Migrator moves legacy tasks into per-project containers, embedding each
// task as it goes.
type Migrator struct {
	Store     *store.Store
	Embedding *embedding.Service
}

func New(st *store.Store, emb *embedding.Service) *Migrator {
	return &Migrator{Store: st, Embedding: emb}
}

// Run migrates every legacy status collection, grouping tasks by
// parent-project and writing (or, in dry-run mode, merely counting) each
// project's container. Already-migrated projects are skipped unless
// ForceOverwrite is set.
func (m *Migrator) Run(ctx context.Context, opts Options) (*Report, error) {
	report := &Report{DryRun: opts.DryRun}

	byProject := make(map[string][]*model.Task)
	var statusesWithData []store.LegacyStatus

	for _, status := range []store.LegacyStatus{store.LegacyActive, store.LegacyCompleted, store.LegacyArchived} {
		tasks, err := m.Store.LoadLegacyTasks(status)
		if err != nil {
			return nil, fmt.Errorf("load legacy tasks (%s): %w", status, err)
		}
		if len(tasks) > 0 {
			statusesWithData = append(statusesWithData, status)
		}
		for _, t := range tasks {
			key := t.ProjectID
			if key == "" {
				key = projecthash.Hash(t.ParentProject)
				t.ProjectID = key
			}
			byProject[key] = append(byProject[key], t)
		}
	}

	for projectID, tasks := range byProject {
		stats := ProjectStats{ProjectID: projectID, TaskCount: len(tasks)}
		if !opts.DryRun {
			existing, err := m.Store.LoadProject(projectID)
			alreadyMigrated := err == nil && existing != nil && len(existing.Tasks) > 0
			if alreadyMigrated && !opts.ForceOverwrite {
				report.PerProject = append(report.PerProject, stats)
				report.TotalTasks += len(tasks)
				continue
			}
			for _, t := range tasks {
				if err := m.Store.SaveTaskToProject(t); err != nil {
					return nil, fmt.Errorf("save task %s to project %s: %w", t.ID, projectID, err)
				}
				if m.Embedding != nil {
					if _, err := m.Embedding.EmbedEntity(ctx, embedding.EntityText{
						ID: t.ID, ContentType: embedding.ContentTypeTask, Text: t.Action, Tags: t.Tags,
					}); err == nil {
						stats.Embedded++
					}
				}
			}
		}
		report.PerProject = append(report.PerProject, stats)
		report.TotalTasks += len(tasks)
	}

	if opts.CleanupEmpty && !opts.DryRun {
		for _, status := range statusesWithData {
			if err := m.Store.ClearLegacyTasks(status); err != nil {
				return nil, fmt.Errorf("clear legacy tasks (%s): %w", status, err)
			}
		}
	}

	return report, nil
}
