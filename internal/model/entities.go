package model

import (
	"time"

	"github.com/google/uuid"

	"todozi/internal/todozierr"
)

// NewID mints the 128-bit random identifier used uniformly across every
// entity family.
func NewID() string {
	return uuid.New().String()
}

// Task is the extraction pipeline's and direct API's primary work item.
type Task struct {
	ID             string    `json:"id"`
	Action         string    `json:"action"`
	TimeEstimate   string    `json:"time_estimate"`
	Priority       Priority  `json:"priority"`
	ParentProject  string    `json:"parent_project"`
	ProjectID      string    `json:"project_id"`
	Status         TaskStatus `json:"status"`
	Assignee       *Assignee `json:"assignee,omitempty"`
	Tags           []string  `json:"tags"`
	Dependencies   []string  `json:"dependencies"`
	ContextNotes   string    `json:"context_notes"`
	Progress       int       `json:"progress"`
	Embedding      []float32 `json:"embedding,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewTask validates and constructs a Task. ProjectID must already be the
// stable hash of ParentProject (see projecthash.Hash); computing the
// hash is the caller's job, not the model's, so callers pass it
// in explicitly.
func NewTask(action, timeEstimate string, priority Priority, parentProject, projectID string, status TaskStatus) *Task {
	now := time.Now().UTC()
	return &Task{
		ID:            NewID(),
		Action:        action,
		TimeEstimate:  timeEstimate,
		Priority:      priority,
		ParentProject: parentProject,
		ProjectID:     projectID,
		Status:        status,
		Tags:          []string{},
		Dependencies:  []string{},
		Progress:      0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// SetProgress enforces the progress invariant: progress=100 implies
// status=Done unless the task was explicitly cancelled.
func (t *Task) SetProgress(p int) error {
	if p < 0 || p > 100 {
		return todozierr.InvalidProgress(p)
	}
	t.Progress = p
	if p == 100 && t.Status != StatusCancelled {
		t.Status = StatusDone
	}
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// TaskUpdate is a builder of optional field changes; nil fields are left
// untouched. Every apply stamps UpdatedAt.
type TaskUpdate struct {
	Action       *string
	TimeEstimate *string
	Priority     *Priority
	Status       *TaskStatus
	Assignee     **Assignee
	Tags         *[]string
	Dependencies *[]string
	ContextNotes *string
	Progress     *int
}

func (t *Task) Apply(u TaskUpdate) error {
	if u.Action != nil {
		t.Action = *u.Action
	}
	if u.TimeEstimate != nil {
		t.TimeEstimate = *u.TimeEstimate
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.Assignee != nil {
		t.Assignee = *u.Assignee
	}
	if u.Tags != nil {
		t.Tags = *u.Tags
	}
	if u.Dependencies != nil {
		t.Dependencies = *u.Dependencies
	}
	if u.ContextNotes != nil {
		t.ContextNotes = *u.ContextNotes
	}
	if u.Progress != nil {
		if err := t.SetProgress(*u.Progress); err != nil {
			return err
		}
	}
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// Memory captures a moment worth remembering, with an emotional/standard
// classification and retention term.
type Memory struct {
	ID         string     `json:"id"`
	Type       MemoryType `json:"type"`
	Moment     string     `json:"moment"`
	Meaning    string     `json:"meaning"`
	Reason     string     `json:"reason"`
	Importance MemoryImportance `json:"importance"`
	Term       MemoryTerm `json:"term"`
	Tags       []string   `json:"tags"`
	OwnerUser  string     `json:"owner_user"`
	ProjectID  string     `json:"project_id,omitempty"`
	Embedding  []float32  `json:"embedding,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func NewMemory(typ MemoryType, moment, meaning, reason string, importance MemoryImportance, term MemoryTerm, ownerUser string) *Memory {
	now := time.Now().UTC()
	return &Memory{
		ID: NewID(), Type: typ, Moment: moment, Meaning: meaning, Reason: reason,
		Importance: importance, Term: term, Tags: []string{}, OwnerUser: ownerUser,
		CreatedAt: now, UpdatedAt: now,
	}
}

// Idea is a captured thought with a visibility level.
type Idea struct {
	ID         string         `json:"id"`
	Text       string         `json:"idea"`
	Share      ShareLevel     `json:"share"`
	Importance IdeaImportance `json:"importance"`
	Context    string         `json:"context,omitempty"`
	Tags       []string       `json:"tags"`
	Embedding  []float32      `json:"embedding,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func NewIdea(text string, share ShareLevel, importance IdeaImportance) *Idea {
	now := time.Now().UTC()
	return &Idea{ID: NewID(), Text: text, Share: share, Importance: importance, Tags: []string{}, CreatedAt: now, UpdatedAt: now}
}

// ErrorRecord is a captured defect/incident.
type ErrorRecord struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Severity     string    `json:"severity"`
	Category     string    `json:"category"`
	Source       string    `json:"source"`
	Context      string    `json:"context,omitempty"`
	Tags         []string  `json:"tags"`
	Resolved     bool      `json:"resolved"`
	Resolution   string    `json:"resolution,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	Embedding    []float32 `json:"embedding,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewErrorRecord(title, description, severity, category, source string) *ErrorRecord {
	now := time.Now().UTC()
	return &ErrorRecord{
		ID: NewID(), Title: title, Description: description, Severity: severity,
		Category: category, Source: source, Tags: []string{}, CreatedAt: now, UpdatedAt: now,
	}
}

func (e *ErrorRecord) Resolve(resolution string) {
	now := time.Now().UTC()
	e.Resolved = true
	e.Resolution = resolution
	e.ResolvedAt = &now
	e.UpdatedAt = now
}

// TrainingSample is a fine-tuning-ready (prompt, completion) pair.
type TrainingSample struct {
	ID           string    `json:"id"`
	DataType     string    `json:"data_type"`
	Prompt       string    `json:"prompt"`
	Completion   string    `json:"completion"`
	Context      string    `json:"context,omitempty"`
	Source       string    `json:"source"`
	QualityScore *float64  `json:"quality_score,omitempty"`
	Tags         []string  `json:"tags"`
	Embedding    []float32 `json:"embedding,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewTrainingSample(dataType, prompt, completion, source string) *TrainingSample {
	now := time.Now().UTC()
	return &TrainingSample{ID: NewID(), DataType: dataType, Prompt: prompt, Completion: completion, Source: source, Tags: []string{}, CreatedAt: now, UpdatedAt: now}
}

// Feeling is an affective annotation with an intensity on [1,10].
type Feeling struct {
	ID          string    `json:"id"`
	Emotion     string    `json:"emotion"`
	Intensity   int       `json:"intensity"`
	Description string    `json:"description"`
	Context     string    `json:"context,omitempty"`
	Tags        []string  `json:"tags"`
	Embedding   []float32 `json:"embedding,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewFeeling(emotion string, intensity int, description string) (*Feeling, error) {
	if intensity < 1 || intensity > 10 {
		return nil, todozierr.Validation("feeling intensity %d out of range [1,10]", intensity)
	}
	now := time.Now().UTC()
	return &Feeling{ID: NewID(), Emotion: emotion, Intensity: intensity, Description: description, Tags: []string{}, CreatedAt: now, UpdatedAt: now}, nil
}

// Reminder is a time-triggered note.
type Reminder struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	RemindAt  time.Time      `json:"remind_at"`
	Priority  Priority       `json:"priority"`
	Status    ReminderStatus `json:"status"`
	Tags      []string       `json:"tags"`
	Embedding []float32      `json:"embedding,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func NewReminder(content string, remindAt time.Time, priority Priority) *Reminder {
	now := time.Now().UTC()
	return &Reminder{ID: NewID(), Content: content, RemindAt: remindAt, Priority: priority, Status: ReminderPending, Tags: []string{}, CreatedAt: now, UpdatedAt: now}
}

// Summary is a condensed note, optionally scoped to a context.
type Summary struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Context   string    `json:"context,omitempty"`
	Priority  Priority  `json:"priority"`
	Tags      []string  `json:"tags"`
	Embedding []float32 `json:"embedding,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSummary(content string, priority Priority) *Summary {
	now := time.Now().UTC()
	return &Summary{ID: NewID(), Content: content, Priority: priority, Tags: []string{}, CreatedAt: now, UpdatedAt: now}
}

// CodeChunk is a unit of the code-generation DAG.
type CodeChunk struct {
	ChunkID         string      `json:"chunk_id"`
	Level           ChunkLevel  `json:"level"`
	Description     string      `json:"description"`
	Dependencies    []string    `json:"dependencies"`
	Code            string      `json:"code"`
	Tests           string      `json:"tests"`
	Validated       bool        `json:"validated"`
	Status          ChunkStatus `json:"status"`
	EstimatedTokens int         `json:"estimated_tokens"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func NewCodeChunk(chunkID string, level ChunkLevel, description string, dependencies []string) *CodeChunk {
	now := time.Now().UTC()
	return &CodeChunk{ChunkID: chunkID, Level: level, Description: description, Dependencies: dependencies, Status: ChunkPending, CreatedAt: now, UpdatedAt: now}
}

// SetCode stores source and recomputes the estimated token count as a
// whitespace-token count, matching the original's estimator.
func (c *CodeChunk) SetCode(code string) {
	c.Code = code
	c.EstimatedTokens = len(splitWhitespace(code))
	c.UpdatedAt = time.Now().UTC()
}

func splitWhitespace(s string) []string {
	var out []string
	start := -1
	for i, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

// AgentAssignment links an agent to a task within a project.
type AgentAssignment struct {
	AgentID    string                `json:"agent_id"`
	TaskID     string                `json:"task_id"`
	ProjectID  string                `json:"project_id"`
	AssignedAt time.Time             `json:"assigned_at"`
	Status     AgentAssignmentStatus `json:"status"`
}

func NewAgentAssignment(agentID, taskID, projectID string) *AgentAssignment {
	return &AgentAssignment{AgentID: agentID, TaskID: taskID, ProjectID: projectID, AssignedAt: time.Now().UTC(), Status: AssignmentAssigned}
}

// ProjectTaskContainer owns all tasks for a single project, stored as one
// file keyed by the stable hash of the project name.
type ProjectTaskContainer struct {
	ProjectID   string    `json:"project_id"`
	ProjectName string    `json:"project_name"`
	Tasks       []*Task   `json:"tasks"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewProjectTaskContainer(projectID, projectName string) *ProjectTaskContainer {
	now := time.Now().UTC()
	return &ProjectTaskContainer{ProjectID: projectID, ProjectName: projectName, Tasks: []*Task{}, CreatedAt: now, UpdatedAt: now}
}

func (c *ProjectTaskContainer) AddTask(t *Task) {
	c.Tasks = append(c.Tasks, t)
	c.UpdatedAt = time.Now().UTC()
}

// TagDef is the supplemented tag-taxonomy entity (distinct from the
// free-form `tags` field on every other entity): a curated, searchable
// vocabulary entry.
type TagDef struct {
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Color         string    `json:"color,omitempty"`
	Category      string    `json:"category,omitempty"`
	UsageCount    int       `json:"usage_count"`
	Relationships []string  `json:"relationships"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewTagDef(name, description string) *TagDef {
	now := time.Now().UTC()
	return &TagDef{Name: name, Description: description, Relationships: []string{}, CreatedAt: now, UpdatedAt: now}
}
