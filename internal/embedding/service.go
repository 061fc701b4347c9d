package embedding

import (
	"context"
	"sync"
	"time"

	"todozi/internal/todozierr"
)

// Service is the Embedding Service (component F): a cached, cluster- and
// drift-aware vector generator layered over a single in-memory Index. One
// Service is shared across the process; its Engine may be swapped (e.g. in
// tests) but its Index and Cache persist for the Service's lifetime.
type Service struct {
	cfg    Config
	engine EmbeddingEngine
	index  *Index
	cache  *Cache

	mu       sync.Mutex
	versions map[string][]EntityVersion

	ann *ANNStore
}

// EntityVersion is one retained prior vector for a single entity, oldest
// entries trimmed once Config.VersionHistoryLength is exceeded.
type EntityVersion struct {
	Label     string
	CreatedAt time.Time
	Vector    []float32
}

func NewService(cfg Config, engine EmbeddingEngine) *Service {
	return &Service{
		cfg:      cfg,
		engine:   engine,
		index:    NewIndex(),
		cache:    NewCache(cfg.CacheTTLSeconds, cfg.CacheMaxEntries),
		versions: make(map[string][]EntityVersion),
	}
}

func (s *Service) Index() *Index { return s.index }
func (s *Service) Config() Config { return s.cfg }

// EnableANN opens the sqlite-backed ANN store at Config.ANNDatabasePath when
// Config.PersistentANN is set, and backfills it with every entry currently
// in the in-memory index. Once enabled, EmbedEntity mirrors every upsert
// into the store and SemanticSearch routes through it once the index grows
// past Config.ANNThreshold (see ShouldAccelerate).
func (s *Service) EnableANN() error {
	if !s.cfg.PersistentANN {
		return nil
	}
	store, err := OpenANNStore(s.cfg.ANNDatabasePath, s.engine.Dimensions())
	if err != nil {
		return err
	}
	for _, e := range s.index.All() {
		if err := store.Upsert(e.ID, e.ContentType, e.Vector); err != nil {
			store.Close()
			return err
		}
	}
	s.ann = store
	return nil
}

// CloseANN releases the ANN store, if one was opened via EnableANN.
func (s *Service) CloseANN() error {
	if s.ann == nil {
		return nil
	}
	return s.ann.Close()
}

// Generate embeds a single piece of text, serving from cache when possible.
// The text is treated as a live search query for task-type selection; use
// generateForType to embed text belonging to a stored entity.
func (s *Service) Generate(ctx context.Context, text string) ([]float32, error) {
	return s.generateForType(ctx, text, ContentTypeQuery)
}

// generateForType embeds text, asking a TaskTypeAware backend to bias the
// embedding per SelectTaskType(ct).
func (s *Service) generateForType(ctx context.Context, text string, ct ContentType) ([]float32, error) {
	key := Fingerprint(s.engine.Name(), text)
	if v, ok := s.cache.Get(key); ok {
		return v, nil
	}
	v, err := s.embedOne(ctx, text, ct)
	if err != nil {
		return nil, todozierr.Embedding(err, "generate embedding")
	}
	s.cache.Put(key, v)
	return v, nil
}

func (s *Service) embedOne(ctx context.Context, text string, ct ContentType) ([]float32, error) {
	if tte, ok := s.engine.(TaskTypeAware); ok {
		return tte.EmbedWithTaskType(ctx, text, SelectTaskType(ct))
	}
	return s.engine.Embed(ctx, text)
}

func (s *Service) embedMany(ctx context.Context, texts []string, ct ContentType) ([][]float32, error) {
	if tte, ok := s.engine.(TaskTypeAware); ok {
		return tte.EmbedBatchWithTaskType(ctx, texts, SelectTaskType(ct))
	}
	return s.engine.EmbedBatch(ctx, texts)
}

// GenerateBatch embeds many texts of the given content type in one call,
// splitting out cache hits from texts that still need the backend.
func (s *Service) GenerateBatch(ctx context.Context, texts []string, ct ContentType) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string
	for i, t := range texts {
		key := Fingerprint(s.engine.Name(), t)
		if v, ok := s.cache.Get(key); ok {
			out[i] = v
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}
	if len(missTexts) == 0 {
		return out, nil
	}
	vectors, err := s.embedMany(ctx, missTexts, ct)
	if err != nil {
		return nil, todozierr.Embedding(err, "generate batch embeddings")
	}
	for j, i := range missIdx {
		out[i] = vectors[j]
		s.cache.Put(Fingerprint(s.engine.Name(), missTexts[j]), vectors[j])
	}
	return out, nil
}

// EntityText is the minimal shape EmbedEntity needs from a model entity:
// a stable ID, the content type it belongs to, the canonical text to
// embed, and any tags/metadata worth keeping alongside the vector.
type EntityText struct {
	ID          string
	ContentType ContentType
	Text        string
	Tags        []string
	Metadata    map[string]string
}

// EmbedEntity generates (or refreshes) the vector for one entity and
// upserts it into the index. On an existing id, the vector being replaced
// is first moved into the entity's bounded version history (see
// versioning.go) before the new one takes its place.
func (s *Service) EmbedEntity(ctx context.Context, ent EntityText) (*IndexEntry, error) {
	vec, err := s.generateForType(ctx, ent.Text, ent.ContentType)
	if err != nil {
		return nil, err
	}
	if existing, ok := s.index.Get(ent.ID); ok {
		s.appendVersion(ent.ID, "auto:replaced", existing.Vector)
	}
	entry := &IndexEntry{
		ID:          ent.ID,
		ContentType: ent.ContentType,
		Text:        ent.Text,
		Vector:      vec,
		Tags:        ent.Tags,
		Metadata:    ent.Metadata,
	}
	s.index.Upsert(entry)
	if s.ann != nil {
		if err := s.ann.Upsert(entry.ID, entry.ContentType, entry.Vector); err != nil {
			return nil, err
		}
	}
	return entry, nil
}
