package embedding

import (
	"sync"
	"time"
)

// IndexEntry is one embedded entity held in memory: its vector plus enough
// metadata to drive search, clustering, and drift operations without going
// back to the store.
type IndexEntry struct {
	ID          string
	ContentType ContentType
	Text        string
	Vector      []float32
	Metadata    map[string]string
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Index is the in-memory embedding index: one map keyed by entity ID plus a
// secondary map grouping IDs by content type, guarded by a single RWMutex
// per §5 (readers run concurrently, writers are exclusive).
type Index struct {
	mu       sync.RWMutex
	entries  map[string]*IndexEntry
	byFamily map[ContentType][]string
}

func NewIndex() *Index {
	return &Index{
		entries:  make(map[string]*IndexEntry),
		byFamily: make(map[ContentType][]string),
	}
}

// Upsert inserts or replaces the entry for id.
func (idx *Index) Upsert(e *IndexEntry) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if existing, ok := idx.entries[e.ID]; ok && existing.ContentType != e.ContentType {
		idx.removeFromFamily(existing.ContentType, e.ID)
	}
	if e.CreatedAt.IsZero() {
		if existing, ok := idx.entries[e.ID]; ok {
			e.CreatedAt = existing.CreatedAt
		} else {
			e.CreatedAt = time.Now().UTC()
		}
	}
	e.UpdatedAt = time.Now().UTC()
	idx.entries[e.ID] = e

	ids := idx.byFamily[e.ContentType]
	for _, id := range ids {
		if id == e.ID {
			return
		}
	}
	idx.byFamily[e.ContentType] = append(ids, e.ID)
}

func (idx *Index) removeFromFamily(ct ContentType, id string) {
	ids := idx.byFamily[ct]
	for i, existingID := range ids {
		if existingID == id {
			idx.byFamily[ct] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}

// Get returns the entry for id, if present.
func (idx *Index) Get(id string) (*IndexEntry, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	e, ok := idx.entries[id]
	return e, ok
}

// Delete removes id from the index.
func (idx *Index) Delete(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if e, ok := idx.entries[id]; ok {
		idx.removeFromFamily(e.ContentType, id)
		delete(idx.entries, id)
	}
}

// All returns a snapshot slice of every entry, stable-ordered by ID.
func (idx *Index) All() []*IndexEntry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]*IndexEntry, 0, len(idx.entries))
	for _, e := range idx.entries {
		out = append(out, e)
	}
	sortEntriesByID(out)
	return out
}

// ByContentType returns a snapshot of every entry with the given content
// type.
func (idx *Index) ByContentType(ct ContentType) []*IndexEntry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	ids := idx.byFamily[ct]
	out := make([]*IndexEntry, 0, len(ids))
	for _, id := range ids {
		if e, ok := idx.entries[id]; ok {
			out = append(out, e)
		}
	}
	sortEntriesByID(out)
	return out
}

// Len reports the number of indexed entries.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

func sortEntriesByID(entries []*IndexEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j-1].ID > entries[j].ID; j-- {
			entries[j-1], entries[j] = entries[j], entries[j-1]
		}
	}
}
