package extractclient

import (
	"context"

	"todozi/internal/embedding"
	"todozi/internal/model"
	"todozi/internal/projecthash"
	"todozi/internal/store"
)

// FeedResult reports how many of each family were persisted from a remote
// Response.
type FeedResult struct {
	Tasks        int
	Memories     int
	Ideas        int
	Errors       int
	TrainingData int
}

// Feed persists every entity in resp through the store and embeds it,
// applying the same field-mapping conventions as direct tag extraction
// (project names hashed to IDs, enum fields parsed leniently).
func Feed(ctx context.Context, st *store.Store, emb *embedding.Service, ownerUser string, resp *Response) (FeedResult, error) {
	var out FeedResult

	for _, et := range resp.Tasks {
		priority, _ := model.ParsePriority(et.Priority)
		status, _ := model.ParseTaskStatus(et.Status)
		projectID := projecthash.Hash(et.Project)
		t := model.NewTask(et.Action, et.Time, priority, et.Project, projectID, status)
		if et.Assignee != "" {
			if assignee, err := model.ParseAssignee(et.Assignee); err == nil && assignee != nil {
				t.Assignee = assignee
			}
		}
		t.Tags = et.Tags
		if err := st.SaveTaskToProject(t); err != nil {
			return out, err
		}
		if emb != nil {
			_, _ = emb.EmbedEntity(ctx, embedding.EntityText{ID: t.ID, ContentType: embedding.ContentTypeTask, Text: t.Action, Tags: t.Tags})
		}
		out.Tasks++
	}

	for _, em := range resp.Memories {
		importance, _ := model.ParseMemoryImportance(em.Importance)
		term, _ := model.ParseMemoryTerm(em.Term)
		memType := model.ParseMemoryType("standard")
		m := model.NewMemory(memType, em.Moment, em.Meaning, em.Reason, importance, term, ownerUser)
		if err := st.SaveMemory(m); err != nil {
			return out, err
		}
		if emb != nil {
			_, _ = emb.EmbedEntity(ctx, embedding.EntityText{ID: m.ID, ContentType: embedding.ContentTypeMemory, Text: m.Moment + " " + m.Meaning})
		}
		out.Memories++
	}

	for _, ei := range resp.Ideas {
		share, _ := model.ParseShareLevel(ei.Share)
		importance, _ := model.ParseIdeaImportance(ei.Importance)
		idea := model.NewIdea(ei.Idea, share, importance)
		if err := st.SaveIdea(idea); err != nil {
			return out, err
		}
		if emb != nil {
			_, _ = emb.EmbedEntity(ctx, embedding.EntityText{ID: idea.ID, ContentType: embedding.ContentTypeIdea, Text: idea.Text})
		}
		out.Ideas++
	}

	for _, ee := range resp.Errors {
		rec := model.NewErrorRecord(ee.Title, ee.Description, ee.Severity, ee.Category, "extraction_client")
		if err := st.SaveError(rec); err != nil {
			return out, err
		}
		if emb != nil {
			_, _ = emb.EmbedEntity(ctx, embedding.EntityText{ID: rec.ID, ContentType: embedding.ContentTypeError, Text: rec.Title + " " + rec.Description})
		}
		out.Errors++
	}

	for _, et := range resp.TrainingData {
		sample := model.NewTrainingSample(et.DataType, et.Prompt, et.Completion, "extraction_client")
		if err := st.SaveTrainingSample(sample); err != nil {
			return out, err
		}
		if emb != nil {
			_, _ = emb.EmbedEntity(ctx, embedding.EntityText{ID: sample.ID, ContentType: embedding.ContentTypeTraining, Text: sample.Prompt + " " + sample.Completion})
		}
		out.TrainingData++
	}

	return out, nil
}
