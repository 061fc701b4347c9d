package session

import "testing"

func TestExtractChecklistItems_Basic(t *testing.T) {
	text := "We need to add tests. Don't forget to update docs. Remember to run CI."
	items := ExtractChecklistItems(text)
	if len(items) < 3 {
		t.Fatalf("got %d items, want at least 3: %v", len(items), items)
	}
	seen := make(map[string]bool)
	for _, it := range items {
		key := normalizeKey(it)
		if seen[key] {
			t.Fatalf("duplicate checklist item: %q", it)
		}
		seen[key] = true
	}
}

func TestExtractChecklistItems_LengthFilter(t *testing.T) {
	text := "todo: ok." // span "todo: ok" is under 10 chars, should be dropped
	items := ExtractChecklistItems(text)
	for _, it := range items {
		if len(it) < minChecklistLen || len(it) >= maxChecklistLen {
			t.Fatalf("item %q violates length filter", it)
		}
	}
}

func TestExtractChecklistItems_NoAnchors(t *testing.T) {
	items := ExtractChecklistItems("Just a plain sentence with no anchors.")
	if len(items) != 0 {
		t.Fatalf("got %d items, want 0: %v", len(items), items)
	}
}
