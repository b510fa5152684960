// Package workflow implements the declarative rule engine that maps incoming
// events to ordered action sequences, plus the template substitution used to
// reference live event and state data from rule documents.
package workflow

import (
	"reflect"
	"strings"
)

// Logger records engine diagnostics. It matches logging.Logger's signature
// and is always optional.
type Logger interface {
	Printf(format string, args ...any)
}

// ResolvedAction is one executable action paired with the event payload that
// triggered it, so templates can be resolved at execution time.
type ResolvedAction struct {
	Action Action
	Event  map[string]any
}

// Engine selects handlers from the rule table and expands the winning
// handler's action list. It holds no mutable state of its own, which makes
// ProcessEvent deterministic for a fixed table, event, and state snapshot.
type Engine struct {
	table      *Table
	conditions *ConditionRegistry
	logger     Logger
}

// NewEngine wires a rule table and condition registry into an engine.
func NewEngine(table *Table, conditions *ConditionRegistry, logger Logger) *Engine {
	if table == nil {
		table = NewTable(nil)
	}
	if conditions == nil {
		conditions = NewConditionRegistry(logger)
	}
	return &Engine{table: table, conditions: conditions, logger: logger}
}

// Conditions exposes the registry so plugins can extend the condition set.
func (e *Engine) Conditions() *ConditionRegistry {
	return e.conditions
}

// ProcessEvent evaluates the handlers registered for the event kind in
// document order and returns the action sequence of the first handler whose
// conditions all hold. A check_condition action inside the winning handler is
// evaluated inline: when false it aborts the remaining actions, with the
// already-collected prefix still returned. No match is not an error.
func (e *Engine) ProcessEvent(kind string, event, state map[string]any) []ResolvedAction {
	handlers := e.table.HandlersFor(kind)
	if len(handlers) == 0 {
		logf(e.logger, "workflow: no handlers registered for event kind %q", kind)
		return nil
	}
	for _, handler := range handlers {
		if !e.conditionsMatch(handler.Conditions, event, state) {
			continue
		}
		logf(e.logger, "workflow: matched handler for event kind %q", kind)
		var actions []ResolvedAction
		for _, action := range handler.Actions {
			if action.Type == ActionCheckCondition {
				if !e.conditions.Evaluate(action.ConditionType, state, action.Params) {
					logf(e.logger, "workflow: condition %q not met; stopping handler actions", action.ConditionType)
					return actions
				}
				continue
			}
			actions = append(actions, ResolvedAction{Action: action, Event: event})
		}
		return actions
	}
	logf(e.logger, "workflow: no matching handler for event kind %q", kind)
	return nil
}

// conditionsMatch evaluates the handler guard as a conjunction. Every
// declared key must resolve and equal its expected value; an absent key is a
// mismatch even when the expected value is null.
func (e *Engine) conditionsMatch(groups ConditionGroups, event, state map[string]any) bool {
	if !groupMatches(groups.EventData, event) {
		return false
	}
	return groupMatches(groups.ProjectState, state)
}

func groupMatches(expectations map[string]any, source map[string]any) bool {
	for path, expected := range expectations {
		actual, ok := lookupPath(source, path)
		if !ok {
			return false
		}
		if !equalValues(actual, expected) {
			return false
		}
	}
	return true
}

func lookupPath(root map[string]any, path string) (any, bool) {
	var current any = root
	for _, segment := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// equalValues compares a live value with an expected value from the rule
// document, normalizing numeric types so YAML integers match Go ints and
// floats alike.
func equalValues(actual, expected any) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}
	if a, ok := asFloat(actual); ok {
		if b, ok := asFloat(expected); ok {
			return a == b
		}
		return false
	}
	return reflect.DeepEqual(actual, expected)
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	default:
		return 0, false
	}
}

func logf(logger Logger, format string, args ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, args...)
}
