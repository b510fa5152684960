package orchestrator

// ContextEntry records one delegation: which task went to which agent and
// with what payload. Entries are overwritten when a context is re-delegated
// and never deleted, so late results can always be correlated.
type ContextEntry struct {
	TaskName        string
	Agent           string
	OriginalPayload map[string]any
}

// Ledger maps context ids to their most recent delegation.
type Ledger struct {
	entries map[string]ContextEntry
}

func NewLedger() *Ledger {
	return &Ledger{entries: map[string]ContextEntry{}}
}

// Record stores or overwrites the entry for a context id.
func (l *Ledger) Record(contextID string, entry ContextEntry) {
	l.entries[contextID] = entry
}

// Lookup returns the entry recorded for a context id.
func (l *Ledger) Lookup(contextID string) (ContextEntry, bool) {
	entry, ok := l.entries[contextID]
	return entry, ok
}

// Len reports how many contexts have been delegated.
func (l *Ledger) Len() int {
	return len(l.entries)
}
