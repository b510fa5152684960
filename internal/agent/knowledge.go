package agent

// Knowledge is an agent's private note store. Writes are last-write-wins and
// entries never expire; only the owning agent reads or writes it, so no
// locking is needed under the cooperative activation model.
type Knowledge struct {
	notes map[string]any
}

// NewKnowledge returns an empty store.
func NewKnowledge() *Knowledge {
	return &Knowledge{notes: map[string]any{}}
}

// Remember stores a value under key, replacing any previous value.
func (k *Knowledge) Remember(key string, value any) {
	if k == nil || key == "" {
		return
	}
	k.notes[key] = value
}

// Recall returns the stored value and whether the key is known.
func (k *Knowledge) Recall(key string) (any, bool) {
	if k == nil {
		return nil, false
	}
	v, ok := k.notes[key]
	return v, ok
}

// RecallString returns the stored value when it is a string, else "".
func (k *Knowledge) RecallString(key string) string {
	v, _ := k.Recall(key)
	s, _ := v.(string)
	return s
}

// Len reports how many keys the agent has learned.
func (k *Knowledge) Len() int {
	if k == nil {
		return 0
	}
	return len(k.notes)
}
