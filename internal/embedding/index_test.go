package embedding

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestIndex_UpsertAndGet(t *testing.T) {
	idx := NewIndex()
	entry := &IndexEntry{
		ID:          "task-1",
		ContentType: ContentTypeTask,
		Text:        "add user login",
		Vector:      []float32{0.1, 0.2, 0.3},
		Tags:        []string{"auth"},
		CreatedAt:   time.Unix(0, 0),
	}
	idx.Upsert(entry)

	snapshot := idx.All()
	if len(snapshot) != 1 {
		t.Fatalf("All() len = %d, want 1", len(snapshot))
	}

	got, ok := idx.Get("task-1")
	if !ok {
		t.Fatal("Get(task-1) not found")
	}
	want := &IndexEntry{
		ID:          "task-1",
		ContentType: ContentTypeTask,
		Text:        "add user login",
		Vector:      []float32{0.1, 0.2, 0.3},
		Tags:        []string{"auth"},
		CreatedAt:   time.Unix(0, 0),
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(IndexEntry{}, "Metadata", "UpdatedAt")); diff != "" {
		t.Errorf("index entry mismatch (-want +got):\n%s", diff)
	}
}

func TestIndex_ByContentType(t *testing.T) {
	idx := NewIndex()
	idx.Upsert(&IndexEntry{ID: "t1", ContentType: ContentTypeTask, Text: "task one"})
	idx.Upsert(&IndexEntry{ID: "m1", ContentType: ContentTypeMemory, Text: "memory one"})

	tasks := idx.ByContentType(ContentTypeTask)
	if len(tasks) != 1 || tasks[0].ID != "t1" {
		t.Fatalf("ByContentType(task) = %+v, want one entry t1", tasks)
	}
}
