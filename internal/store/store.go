package store

import (
	"os"
	"path/filepath"
	"time"

	"todozi/internal/model"
	"todozi/internal/todozierr"
)

// Store is the persistence facade: a root path injected at startup (per the
// Design Notes' "avoid ambient singletons" guidance) plus the mutex
// registry guarding every file it touches.
type Store struct {
	root  string
	locks *mutexRegistry
}

// ResolveRoot computes $HOME/.todozi. HOME must be set; its absence is a
// ConfigError per §6.
func ResolveRoot() (string, error) {
	home, ok := os.LookupEnv("HOME")
	if !ok || home == "" {
		return "", todozierr.Config("HOME environment variable must be set")
	}
	return filepath.Join(home, ".todozi"), nil
}

// New constructs a Store rooted at root, creating the directory if absent.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, todozierr.Storage(err, "creating storage root %s", root)
	}
	return &Store{root: root, locks: newMutexRegistry()}, nil
}

func (s *Store) Root() string { return s.root }

func (s *Store) path(parts ...string) string {
	return filepath.Join(append([]string{s.root}, parts...)...)
}

// readModifyWrite locks path's mutex, loads the current value (or calls
// init if the file doesn't yet exist), applies mutate, and writes the
// result back atomically.
func readModifyWrite[T any](s *Store, path string, init func() *T, mutate func(*T) error) (*T, error) {
	lock := s.locks.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	var v T
	exists, err := readJSON(path, &v)
	if err != nil {
		return nil, err
	}
	var ptr *T
	if exists {
		ptr = &v
	} else {
		ptr = init()
	}
	if err := mutate(ptr); err != nil {
		return nil, err
	}
	if err := writeAtomic(path, ptr); err != nil {
		return nil, err
	}
	return ptr, nil
}

func (s *Store) load(path string, v any) (bool, error) {
	return readJSON(path, v)
}

// --- Memories ----------------------------------------------------------

func (s *Store) SaveMemory(m *model.Memory) error {
	path := s.path("memories", m.ID+".json")
	_, err := readModifyWrite(s, path, func() *model.Memory { return m }, func(cur *model.Memory) error {
		*cur = *m
		return nil
	})
	return err
}

func (s *Store) LoadMemory(id string) (*model.Memory, error) {
	var m model.Memory
	ok, err := s.load(s.path("memories", id+".json"), &m)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, todozierr.Validation("memory %q not found", id)
	}
	return &m, nil
}

func (s *Store) DeleteMemory(id string) error {
	return s.deleteFile(s.path("memories", id+".json"))
}

// --- Ideas ---------------------------------------------------------------

func (s *Store) SaveIdea(i *model.Idea) error {
	path := s.path("ideas", i.ID+".json")
	_, err := readModifyWrite(s, path, func() *model.Idea { return i }, func(cur *model.Idea) error {
		*cur = *i
		return nil
	})
	return err
}

func (s *Store) LoadIdea(id string) (*model.Idea, error) {
	var i model.Idea
	ok, err := s.load(s.path("ideas", id+".json"), &i)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, todozierr.Validation("idea %q not found", id)
	}
	return &i, nil
}

func (s *Store) DeleteIdea(id string) error {
	return s.deleteFile(s.path("ideas", id+".json"))
}

// --- Errors ----------------------------------------------------------------

func (s *Store) SaveError(e *model.ErrorRecord) error {
	path := s.path("errors", e.ID+".json")
	_, err := readModifyWrite(s, path, func() *model.ErrorRecord { return e }, func(cur *model.ErrorRecord) error {
		*cur = *e
		return nil
	})
	return err
}

func (s *Store) LoadError(id string) (*model.ErrorRecord, error) {
	var e model.ErrorRecord
	ok, err := s.load(s.path("errors", id+".json"), &e)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, todozierr.Validation("error record %q not found", id)
	}
	return &e, nil
}

// --- Training samples ------------------------------------------------------

func (s *Store) SaveTrainingSample(t *model.TrainingSample) error {
	path := s.path("training", t.ID+".json")
	_, err := readModifyWrite(s, path, func() *model.TrainingSample { return t }, func(cur *model.TrainingSample) error {
		*cur = *t
		return nil
	})
	return err
}

func (s *Store) LoadTrainingSample(id string) (*model.TrainingSample, error) {
	var t model.TrainingSample
	ok, err := s.load(s.path("training", id+".json"), &t)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, todozierr.Validation("training sample %q not found", id)
	}
	return &t, nil
}

// --- Feelings, reminders, summaries, chunks, agent assignments -------------
// These families are not named explicitly in the storage layout table but
// follow the same one-file-per-entity convention resolved for memories/
// ideas/errors/training (Open Question c).

func (s *Store) SaveFeeling(f *model.Feeling) error {
	path := s.path("feelings", f.ID+".json")
	_, err := readModifyWrite(s, path, func() *model.Feeling { return f }, func(cur *model.Feeling) error {
		*cur = *f
		return nil
	})
	return err
}

func (s *Store) SaveReminder(r *model.Reminder) error {
	path := s.path("reminders", r.ID+".json")
	_, err := readModifyWrite(s, path, func() *model.Reminder { return r }, func(cur *model.Reminder) error {
		*cur = *r
		return nil
	})
	return err
}

func (s *Store) LoadReminder(id string) (*model.Reminder, error) {
	var r model.Reminder
	ok, err := s.load(s.path("reminders", id+".json"), &r)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, todozierr.Validation("reminder %q not found", id)
	}
	return &r, nil
}

func (s *Store) SaveSummary(sm *model.Summary) error {
	path := s.path("summaries", sm.ID+".json")
	_, err := readModifyWrite(s, path, func() *model.Summary { return sm }, func(cur *model.Summary) error {
		*cur = *sm
		return nil
	})
	return err
}

func (s *Store) SaveCodeChunk(c *model.CodeChunk) error {
	path := s.path("chunks", c.ChunkID+".json")
	_, err := readModifyWrite(s, path, func() *model.CodeChunk { return c }, func(cur *model.CodeChunk) error {
		*cur = *c
		return nil
	})
	return err
}

func (s *Store) SaveAgentAssignment(a *model.AgentAssignment) error {
	key := a.AgentID + "_" + a.TaskID
	path := s.path("agent_assignments", key+".json")
	_, err := readModifyWrite(s, path, func() *model.AgentAssignment { return a }, func(cur *model.AgentAssignment) error {
		*cur = *a
		return nil
	})
	return err
}

// --- Project task containers ------------------------------------------------

func (s *Store) projectPath(projectID string) string {
	return s.path("projects", projectID+".json")
}

// SaveTaskToProject appends (or, if already present by id, replaces) t
// within its parent project's container, creating the container on first
// write.
func (s *Store) SaveTaskToProject(t *model.Task) error {
	path := s.projectPath(t.ProjectID)
	_, err := readModifyWrite(s, path,
		func() *model.ProjectTaskContainer { return model.NewProjectTaskContainer(t.ProjectID, t.ParentProject) },
		func(cur *model.ProjectTaskContainer) error {
			for i, existing := range cur.Tasks {
				if existing.ID == t.ID {
					cur.Tasks[i] = t
					cur.UpdatedAt = time.Now().UTC()
					return nil
				}
			}
			cur.AddTask(t)
			return nil
		})
	return err
}

func (s *Store) LoadProject(projectID string) (*model.ProjectTaskContainer, error) {
	var c model.ProjectTaskContainer
	ok, err := s.load(s.projectPath(projectID), &c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, todozierr.ProjectNotFound(projectID)
	}
	return &c, nil
}

// UpdateTaskInProject loads the project, applies mutate to the task
// matching taskID, and writes the container back.
func (s *Store) UpdateTaskInProject(projectID, taskID string, mutate func(*model.Task) error) (*model.Task, error) {
	path := s.projectPath(projectID)
	var found *model.Task
	_, err := readModifyWrite(s, path,
		func() *model.ProjectTaskContainer { return model.NewProjectTaskContainer(projectID, "") },
		func(cur *model.ProjectTaskContainer) error {
			for _, t := range cur.Tasks {
				if t.ID == taskID {
					if err := mutate(t); err != nil {
						return err
					}
					found = t
					return nil
				}
			}
			return todozierr.TaskNotFound(taskID)
		})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (s *Store) ListProjects() ([]string, error) {
	dir := s.path("projects")
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, todozierr.Storage(err, "listing projects")
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			ids = append(ids, e.Name()[:len(e.Name())-len(".json")])
		}
	}
	return ids, nil
}

// --- Legacy per-status task collections (§4.6, §4.9) ------------------------

// LegacyStatus names a legacy per-status collection file.
type LegacyStatus string

const (
	LegacyActive    LegacyStatus = "active"
	LegacyCompleted LegacyStatus = "completed"
	LegacyArchived  LegacyStatus = "archived"
)

func (s *Store) legacyPath(status LegacyStatus) string {
	return s.path("tasks", string(status)+".json")
}

func (s *Store) LoadLegacyTasks(status LegacyStatus) ([]*model.Task, error) {
	var tasks []*model.Task
	ok, err := s.load(s.legacyPath(status), &tasks)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return tasks, nil
}

func (s *Store) ClearLegacyTasks(status LegacyStatus) error {
	return s.deleteFile(s.legacyPath(status))
}

// --- History, wash, misc -----------------------------------------------------

// AppendHistory appends line to the append-only event log, creating it on
// first use.
func (s *Store) AppendHistory(line string) error {
	path := s.path("history", "core", "mega")
	lock := s.locks.lockFor(path)
	lock.Lock()
	defer lock.Unlock()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return todozierr.Storage(err, "creating history directory")
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return todozierr.Storage(err, "opening history log")
	}
	defer f.Close()
	if _, err := f.WriteString(line + "\n"); err != nil {
		return todozierr.Storage(err, "writing history log")
	}
	return nil
}

// SaveCleanedContent persists the last cleaned content, overwriting the
// previous value (wash/cleaned.json in the layout table).
func (s *Store) SaveCleanedContent(clean, cleanWithResponse string) error {
	type washRecord struct {
		Clean             string    `json:"clean"`
		CleanWithResponse string    `json:"clean_with_response"`
		SavedAt           time.Time `json:"saved_at"`
	}
	return writeAtomic(s.path("wash", "cleaned.json"), washRecord{clean, cleanWithResponse, time.Now().UTC()})
}

func (s *Store) deleteFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return todozierr.Storage(err, "deleting %s", path)
	}
	return nil
}

// Backup snapshots the given named blobs under backups/<timestamp>/.
func (s *Store) Backup(timestamp string, files map[string][]byte) (string, error) {
	dir := s.path("backups", timestamp)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", todozierr.Storage(err, "creating backup directory")
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return "", todozierr.Storage(err, "writing backup file %s", name)
		}
	}
	return dir, nil
}

// ApiKeyCollection is the typed contents of api/api_keys.json.
type ApiKeyCollection struct {
	Keys []ApiKey `json:"keys"`
}

type ApiKey struct {
	Key       string    `json:"key"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Store) LoadApiKeys() (*ApiKeyCollection, error) {
	var c ApiKeyCollection
	ok, err := s.load(s.path("api", "api_keys.json"), &c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &ApiKeyCollection{}, nil
	}
	return &c, nil
}

func (s *Store) AddApiKey(key, label string) error {
	path := s.path("api", "api_keys.json")
	_, err := readModifyWrite(s, path, func() *ApiKeyCollection { return &ApiKeyCollection{} }, func(cur *ApiKeyCollection) error {
		cur.Keys = append(cur.Keys, ApiKey{Key: key, Label: label, CreatedAt: time.Now().UTC()})
		return nil
	})
	return err
}

// TagTaxonomyPath returns the store-owned path reserved for a collection of
// internal/model.TagDef records. Nothing in this module reads or writes that
// file.
func (s *Store) TagTaxonomyPath() string {
	return s.path("tags", "taxonomy.json")
}
