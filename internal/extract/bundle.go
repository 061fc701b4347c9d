// Package extract implements the extraction pipeline (component C): running
// every registered tag-family parser over a message, collecting successful
// parses into a ChatContent bundle, and surfacing per-tag failures as
// warnings without aborting the whole message.
package extract

import "todozi/internal/model"

// ChatContent is the parallel-vectors bundle produced by one extraction
// pass: one slice per entity family, in source order within each family.
type ChatContent struct {
	Tasks            []*model.Task             `json:"tasks"`
	Memories         []*model.Memory           `json:"memories"`
	Ideas            []*model.Idea             `json:"ideas"`
	AgentAssignments []*model.AgentAssignment  `json:"agent_assignments"`
	CodeChunks       []*model.CodeChunk        `json:"code_chunks"`
	Errors           []*model.ErrorRecord      `json:"errors"`
	TrainingData     []*model.TrainingSample   `json:"training_data"`
	Feelings         []*model.Feeling          `json:"feelings"`
	Summaries        []*model.Summary          `json:"summaries"`
	Reminders        []*model.Reminder         `json:"reminders"`
}

func NewChatContent() *ChatContent { return &ChatContent{} }

// IsEmpty reports whether no entity of any family was extracted.
func (c *ChatContent) IsEmpty() bool {
	return len(c.Tasks) == 0 && len(c.Memories) == 0 && len(c.Ideas) == 0 &&
		len(c.AgentAssignments) == 0 && len(c.CodeChunks) == 0 && len(c.Errors) == 0 &&
		len(c.TrainingData) == 0 && len(c.Feelings) == 0 && len(c.Summaries) == 0 &&
		len(c.Reminders) == 0
}

// Count is the total number of entities extracted across every family.
func (c *ChatContent) Count() int {
	return len(c.Tasks) + len(c.Memories) + len(c.Ideas) + len(c.AgentAssignments) +
		len(c.CodeChunks) + len(c.Errors) + len(c.TrainingData) + len(c.Feelings) +
		len(c.Summaries) + len(c.Reminders)
}
