package message

import (
	"testing"
	"time"
)

func TestMailboxFIFO(t *testing.T) {
	box := NewMailbox()
	for _, id := range []string{"a", "b", "c"} {
		box.Enqueue(Message{ID: id, Kind: KindTask})
	}
	if box.Len() != 3 {
		t.Fatalf("expected 3 queued messages, got %d", box.Len())
	}
	for _, want := range []string{"a", "b", "c"} {
		msg, ok := box.Pop()
		if !ok {
			t.Fatalf("expected message %s, mailbox empty", want)
		}
		if msg.ID != want {
			t.Fatalf("expected %s, got %s", want, msg.ID)
		}
	}
	if _, ok := box.Pop(); ok {
		t.Fatalf("expected empty mailbox after draining")
	}
}

func TestNewMessageStampsIdentityAndClock(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	msg := New("Orchestrator", "Dream Weaver", KindTask, map[string]any{"task_name": "define_concept"}, "ctx-1", now)
	if msg.ID == "" {
		t.Fatalf("expected generated message id")
	}
	if !msg.Timestamp.Equal(now) {
		t.Fatalf("expected injected clock reading, got %v", msg.Timestamp)
	}
	if msg.ContextID != "ctx-1" {
		t.Fatalf("context id not preserved: %q", msg.ContextID)
	}
	other := New("Orchestrator", "Dream Weaver", KindTask, nil, "", now)
	if other.ID == msg.ID {
		t.Fatalf("expected unique message ids")
	}
}
