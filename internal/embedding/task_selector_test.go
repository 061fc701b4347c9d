package embedding

import "testing"

func TestSelectTaskType(t *testing.T) {
	if got := SelectTaskType(ContentTypeQuery); got != "RETRIEVAL_QUERY" {
		t.Fatalf("SelectTaskType(query)=%q, want RETRIEVAL_QUERY", got)
	}
	if got := SelectTaskType(ContentTypeTask); got != "RETRIEVAL_DOCUMENT" {
		t.Fatalf("SelectTaskType(task)=%q, want RETRIEVAL_DOCUMENT", got)
	}
	if got := SelectTaskType(ContentTypeMemory); got != "RETRIEVAL_DOCUMENT" {
		t.Fatalf("SelectTaskType(memory)=%q, want RETRIEVAL_DOCUMENT", got)
	}
	if got := SelectTaskType(ContentType("unknown")); got != "SEMANTIC_SIMILARITY" {
		t.Fatalf("SelectTaskType(unknown)=%q, want SEMANTIC_SIMILARITY", got)
	}
}
