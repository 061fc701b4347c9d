// Package orchestrator implements tdz_cnt (component H): the end-to-end
// pipeline from raw chat content to persisted entities, embeddings, a
// cleaned transcript, and the legacy traditional_processing field, all
// wrapped in the stable JSON response contract.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"todozi/internal/clean"
	"todozi/internal/embedding"
	"todozi/internal/extract"
	"todozi/internal/logging"
	"todozi/internal/session"
	"todozi/internal/store"
	"todozi/internal/todozierr"
	"todozi/internal/tool"

	"go.uber.org/zap"
)

// Response is the stable JSON shape returned by tdz_cnt (§6). Field names
// and types are part of the external contract — do not rename.
type Response struct {
	Process               string   `json:"process"`
	Original               string   `json:"original"`
	Clean                  string   `json:"clean"`
	CleanWithResponse      string   `json:"clean_with_response"`
	ProcessedItems         int      `json:"processed_items"`
	ItemsDetail            []string `json:"items_detail"`
	TraditionalProcessing  string   `json:"traditional_processing"`
}

// Orchestrator wires together every component the pipeline touches.
type Orchestrator struct {
	Store     *store.Store
	Embedding *embedding.Service
	Session   session.State
	Legacy    *tool.ContentProcessorTool
}

func New(st *store.Store, emb *embedding.Service, sess session.State) *Orchestrator {
	return &Orchestrator{Store: st, Embedding: emb, Session: sess, Legacy: tool.NewContentProcessorTool()}
}

// Process runs the full tdz_cnt pipeline for one message. It never panics
// on empty input (returns success with an empty clean) and only reports
// process="error" when extraction fails outright (invalid UTF-8) or every
// entity failed to persist.
func (o *Orchestrator) Process(ctx context.Context, content, sessionID string) *Response {
	resp := &Response{Process: "success", Original: content}

	if sessionID != "" && o.Session != nil {
		o.Session.EnsureSession(sessionID, 0)
	}

	bundle, warnings, err := extract.Extract(content, sessionID)
	if err != nil {
		resp.Process = "error"
		resp.TraditionalProcessing = fmt.Sprintf("extraction failed: %v", err)
		return resp
	}
	// Malformed tags are dropped rather than failing the request (§4.8), but
	// the drop itself is still surfaced to stderr so it isn't silent (§4.3).
	logWarnings(sessionID, warnings)

	var detail []string
	var persisted int
	var attempted int

	attempted, persisted, detail = o.persistAll(ctx, bundle, detail)

	resp.ProcessedItems = persisted
	resp.ItemsDetail = detail
	resp.Clean = clean.Clean(content)
	resp.CleanWithResponse = clean.CleanWithResponse(content, bundle)

	if attempted > 0 && persisted == 0 {
		resp.Process = "error"
	}

	if legacy, execErr := o.Legacy.Execute(ctx, map[string]string{"content": content}); execErr == nil {
		resp.TraditionalProcessing = legacy.String()
	}

	if sessionID != "" && o.Session != nil {
		o.Session.SaveProcessedContent(sessionID, content, resp.Clean)
		for _, item := range sessionChecklistItems(content) {
			o.Session.AddChecklistItem(session.ChecklistItem{SessionID: sessionID, Text: item, Priority: "medium", Source: "natural_language"})
		}
		o.Session.AddRecentAction(session.RecentAction{SessionID: sessionID, Action: "tdz_cnt"})
	}

	return resp
}

// persistAll saves every entity in bundle in the documented order
// {task, memory, idea, error, training, feeling, summary, reminder, chunk,
// agent_assignment}, embedding each as it's saved, and returns how many
// entities were attempted/succeeded plus their items_detail lines.
func (o *Orchestrator) persistAll(ctx context.Context, bundle *extract.ChatContent, detail []string) (attempted, persisted int, out []string) {
	out = detail

	for _, t := range bundle.Tasks {
		attempted++
		if err := o.Store.SaveTaskToProject(t); err != nil {
			continue
		}
		o.embed(ctx, t.ID, embedding.ContentTypeTask, t.Action, t.Tags)
		persisted++
		out = append(out, fmt.Sprintf("Task: %s", t.Action))
	}
	for _, m := range bundle.Memories {
		attempted++
		if err := o.Store.SaveMemory(m); err != nil {
			continue
		}
		o.embed(ctx, m.ID, embedding.ContentTypeMemory, m.Moment+" "+m.Meaning, m.Tags)
		persisted++
		out = append(out, fmt.Sprintf("Memory: %s", m.Moment))
	}
	for _, idea := range bundle.Ideas {
		attempted++
		if err := o.Store.SaveIdea(idea); err != nil {
			continue
		}
		o.embed(ctx, idea.ID, embedding.ContentTypeIdea, idea.Text, idea.Tags)
		persisted++
		out = append(out, fmt.Sprintf("Idea: %s", idea.Text))
	}
	for _, e := range bundle.Errors {
		attempted++
		if err := o.Store.SaveError(e); err != nil {
			continue
		}
		o.embed(ctx, e.ID, embedding.ContentTypeError, e.Title+" "+e.Description, e.Tags)
		persisted++
		out = append(out, fmt.Sprintf("Error: %s", e.Title))
	}
	for _, tr := range bundle.TrainingData {
		attempted++
		if err := o.Store.SaveTrainingSample(tr); err != nil {
			continue
		}
		o.embed(ctx, tr.ID, embedding.ContentTypeTraining, tr.Prompt+" "+tr.Completion, tr.Tags)
		persisted++
		out = append(out, fmt.Sprintf("Training: %s", tr.Prompt))
	}
	for _, f := range bundle.Feelings {
		attempted++
		if err := o.Store.SaveFeeling(f); err != nil {
			continue
		}
		o.embed(ctx, f.ID, embedding.ContentTypeFeeling, f.Emotion+" "+f.Description, f.Tags)
		persisted++
		out = append(out, fmt.Sprintf("Feeling: %s", f.Emotion))
	}
	for _, sm := range bundle.Summaries {
		attempted++
		if err := o.Store.SaveSummary(sm); err != nil {
			continue
		}
		o.embed(ctx, sm.ID, embedding.ContentTypeSummary, sm.Content, sm.Tags)
		persisted++
		out = append(out, fmt.Sprintf("Summary: %s", sm.Content))
	}
	for _, r := range bundle.Reminders {
		attempted++
		if err := o.Store.SaveReminder(r); err != nil {
			continue
		}
		o.embed(ctx, r.ID, embedding.ContentTypeReminder, r.Content, r.Tags)
		persisted++
		out = append(out, fmt.Sprintf("Reminder: %s", r.Content))
	}
	for _, c := range bundle.CodeChunks {
		attempted++
		if err := o.Store.SaveCodeChunk(c); err != nil {
			continue
		}
		o.embed(ctx, c.ChunkID, embedding.ContentTypeChunk, c.Description, nil)
		persisted++
		out = append(out, fmt.Sprintf("Chunk: %s", c.Description))
	}
	for _, a := range bundle.AgentAssignments {
		attempted++
		if err := o.Store.SaveAgentAssignment(a); err != nil {
			continue
		}
		o.embed(ctx, a.AgentID+"_"+a.TaskID, embedding.ContentTypeAgentAssignment, a.AgentID+" "+a.TaskID, nil)
		persisted++
		out = append(out, fmt.Sprintf("Agent Assignment: %s -> %s", a.AgentID, a.TaskID))
	}

	return attempted, persisted, out
}

func (o *Orchestrator) embed(ctx context.Context, id string, ct embedding.ContentType, text string, tags []string) {
	if o.Embedding == nil {
		return
	}
	_, _ = o.Embedding.EmbedEntity(ctx, embedding.EntityText{ID: id, ContentType: ct, Text: text, Tags: tags})
}

// logWarnings surfaces every extraction warning to the logger (stderr by
// default, per logging.Init's zap production config) instead of discarding
// them, so malformed tags remain diagnosable without failing the request.
func logWarnings(sessionID string, warnings []extract.Warning) {
	if len(warnings) == 0 {
		return
	}
	log := logging.Get()
	if log == nil {
		return
	}
	for _, w := range warnings {
		log.Warn("tdz_cnt: malformed tag dropped",
			zap.String("session_id", sessionID),
			zap.String("family", string(w.Family)),
			zap.String("body", w.Body),
			zap.Error(w.Err),
		)
	}
}

func sessionChecklistItems(content string) []string {
	return session.ExtractChecklistItems(content)
}

// MarshalResponse renders a Response as the stable external JSON shape.
func MarshalResponse(r *Response) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, todozierr.API(err, "marshal tdz_cnt response")
	}
	return data, nil
}
