package message

// Mailbox is an unbounded FIFO queue of messages owned by exactly one agent.
// Insertion order is processing order. The dispatch loop is single-threaded,
// so no locking is required here; any concurrent producer must go through the
// orchestrator's serialized intake instead of touching a mailbox directly.
type Mailbox struct {
	queue []Message
}

// NewMailbox returns an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{}
}

// Enqueue appends a message to the tail of the queue.
func (m *Mailbox) Enqueue(msg Message) {
	m.queue = append(m.queue, msg)
}

// Pop removes and returns the head of the queue. The second return value is
// false when the mailbox is empty.
func (m *Mailbox) Pop() (Message, bool) {
	if len(m.queue) == 0 {
		return Message{}, false
	}
	head := m.queue[0]
	m.queue = m.queue[1:]
	return head, true
}

// Len reports how many messages are waiting.
func (m *Mailbox) Len() int {
	return len(m.queue)
}
