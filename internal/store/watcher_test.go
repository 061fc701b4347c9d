package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchRoot_DetectsExternalWrite(t *testing.T) {
	root := t.TempDir()
	st, err := New(root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	w, err := st.WatchRoot(10 * time.Millisecond)
	if err != nil {
		t.Fatalf("WatchRoot: %v", err)
	}
	defer w.Close()

	target := filepath.Join(root, "external.json")
	if err := os.WriteFile(target, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case ev := <-w.Events():
		if ev.Path != target {
			t.Errorf("event path = %q, want %q", ev.Path, target)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for external edit notification")
	}
}
