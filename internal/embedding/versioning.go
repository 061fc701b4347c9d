package embedding

import (
	"encoding/json"
	"time"

	"todozi/internal/todozierr"
)

// BackupEmbeddings serializes the current index to a JSON blob the caller
// can hand to the store's Backup method.
func (s *Service) BackupEmbeddings() ([]byte, error) {
	all := s.index.All()
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return nil, todozierr.Embedding(err, "backup embeddings")
	}
	return data, nil
}

// CreateEmbeddingVersion explicitly checkpoints id's current vector under
// label, appending to its bounded history. EmbedEntity also records a
// version (label "auto:replaced") whenever it overwrites an existing id, so
// callers get both automatic and caller-requested checkpoints in one
// append-only history.
func (s *Service) CreateEmbeddingVersion(id, label string) {
	entry, ok := s.index.Get(id)
	if !ok {
		return
	}
	s.appendVersion(id, label, entry.Vector)
}

// appendVersion records one history entry for id, trimming the oldest
// entries once Config.VersionHistoryLength is exceeded.
func (s *Service) appendVersion(id, label string, vector []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.versions[id] = append(s.versions[id], EntityVersion{
		Label:     label,
		CreatedAt: time.Now().UTC(),
		Vector:    append([]float32(nil), vector...),
	})
	limit := s.cfg.VersionHistoryLength
	if limit <= 0 {
		limit = 10
	}
	if hist := s.versions[id]; len(hist) > limit {
		s.versions[id] = hist[len(hist)-limit:]
	}
}

// GetVersionHistory lists every retained version for id, oldest first.
func (s *Service) GetVersionHistory(id string) []EntityVersion {
	s.mu.Lock()
	defer s.mu.Unlock()

	hist := s.versions[id]
	out := make([]EntityVersion, len(hist))
	copy(out, hist)
	return out
}

// FineTuneExample is one (text, vector) training pair for downstream
// embedding fine-tuning pipelines.
type FineTuneExample struct {
	ID          string    `json:"id"`
	ContentType ContentType `json:"content_type"`
	Text        string    `json:"text"`
	Vector      []float32 `json:"vector"`
}

// ExportForFineTuning dumps every indexed entry as a (text, vector) pair
// suitable for training or evaluating a downstream embedding model.
func (s *Service) ExportForFineTuning() []FineTuneExample {
	all := s.index.All()
	out := make([]FineTuneExample, len(all))
	for i, e := range all {
		out[i] = FineTuneExample{ID: e.ID, ContentType: e.ContentType, Text: e.Text, Vector: e.Vector}
	}
	return out
}
