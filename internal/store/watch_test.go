package store

import (
	"testing"
	"time"
)

func TestWatch_ReportsSaves(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	w, err := s.Watch(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if err := s.Save(sampleDB()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	select {
	case <-w.Changes():
	case err := <-w.Errors():
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for change notification")
	}
}
