// Package message defines the envelope exchanged between agents and the
// orchestrator, and the per-agent mailbox that queues it.
package message

import (
	"time"

	"github.com/google/uuid"
)

// Kind classifies a message envelope.
type Kind string

const (
	// KindTask asks the recipient agent to perform one unit of work.
	KindTask Kind = "task"
	// KindResult carries a successful task outcome back to the orchestrator.
	KindResult Kind = "result"
	// KindStatusUpdate carries a non-result status, including task failures.
	KindStatusUpdate Kind = "status_update"
	// KindFeedback carries advisory information that requires no reply.
	KindFeedback Kind = "feedback"
)

// Message is the wire envelope between agents and the orchestrator. A message
// is immutable once sent: senders build a fresh envelope per send and
// recipients consume it exactly once from their mailbox.
type Message struct {
	ID        string
	Timestamp time.Time
	Sender    string
	Recipient string
	Kind      Kind
	Payload   map[string]any
	ContextID string
}

// New builds an envelope with a fresh id and the supplied clock reading.
func New(sender, recipient string, kind Kind, payload map[string]any, contextID string, now time.Time) Message {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return Message{
		ID:        uuid.NewString(),
		Timestamp: now,
		Sender:    sender,
		Recipient: recipient,
		Kind:      kind,
		Payload:   payload,
		ContextID: contextID,
	}
}
