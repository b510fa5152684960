package workflow

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConditionGroups guards a handler. Every declared group must match in full
// for the handler to fire; an empty group set always matches.
type ConditionGroups struct {
	// EventData maps dotted paths into the event payload to expected values.
	EventData map[string]any `yaml:"event_data"`
	// ProjectState maps dotted paths into the shared state to expected values.
	ProjectState map[string]any `yaml:"project_state"`
}

// HandlerRule is one condition-guarded action sequence bound to an event
// kind. Document order is significant: the first rule whose conditions hold
// wins and no later rule is evaluated.
type HandlerRule struct {
	Conditions ConditionGroups `yaml:"conditions"`
	Actions    []Action        `yaml:"actions"`
}

// Table is the declarative rule table: event kind to ordered handler list.
// It is loaded once at startup and read-only afterward.
type Table struct {
	events map[string][]HandlerRule
}

type tableDocument struct {
	Events map[string][]HandlerRule `yaml:"events"`
}

// NewTable builds a table directly from handler lists, primarily for tests.
func NewTable(events map[string][]HandlerRule) *Table {
	if events == nil {
		events = map[string][]HandlerRule{}
	}
	return &Table{events: events}
}

// HandlersFor returns the ordered handler list for an event kind, or nil.
func (t *Table) HandlersFor(kind string) []HandlerRule {
	if t == nil {
		return nil
	}
	return t.events[kind]
}

// Len reports how many event kinds carry handlers.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.events)
}

// ParseTable decodes a rule document from YAML or JSON bytes and validates
// it fully: unknown fields, unknown action types, and malformed actions are
// load errors rather than runtime surprises.
func ParseTable(data []byte) (*Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("workflow: rule document is empty")
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	var doc tableDocument
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("workflow: decode rule document: %w", err)
	}
	if doc.Events == nil {
		return nil, fmt.Errorf("workflow: rule document must contain an events mapping")
	}
	return &Table{events: doc.Events}, nil
}

// LoadTable reads the rule document at path. Any failure (missing file,
// malformed document) degrades to an empty table with a logged warning: the
// process keeps running and simply matches nothing.
func LoadTable(path string, logger Logger) *Table {
	data, err := os.ReadFile(path)
	if err != nil {
		logf(logger, "workflow: read %s: %v; continuing with empty rule table", path, err)
		return NewTable(nil)
	}
	table, err := ParseTable(data)
	if err != nil {
		logf(logger, "workflow: %s: %v; continuing with empty rule table", path, err)
		return NewTable(nil)
	}
	logf(logger, "workflow: loaded rule table from %s (%d event kinds)", path, table.Len())
	return table
}
