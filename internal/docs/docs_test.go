package docs

import "testing"

func TestTopics(t *testing.T) {
	got := Topics()
	want := []string{"keys", "reorder", "selection"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestGet(t *testing.T) {
	body, ok := Get("  Reorder ")
	if !ok || body == "" {
		t.Fatalf("expected reorder topic")
	}
	for _, topic := range []string{"", "nope", "../docs", "content/keys"} {
		if _, ok := Get(topic); ok {
			t.Fatalf("expected %q to be unknown", topic)
		}
	}
}
