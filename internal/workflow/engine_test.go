package workflow

import (
	"reflect"
	"testing"
)

func newEngineHarness(t *testing.T, doc string) *Engine {
	t.Helper()
	table, err := ParseTable([]byte(doc))
	if err != nil {
		t.Fatalf("parse rule document: %v", err)
	}
	return NewEngine(table, NewConditionRegistry(nil), nil)
}

const firstMatchDoc = `
events:
  agent_result:
    - conditions:
        event_data:
          content.task_name: define_concept
      actions:
        - type: update_state
          path: current_phase
          value: first
    - conditions:
        event_data:
          content.task_name: define_concept
      actions:
        - type: update_state
          path: current_phase
          value: second
`

func TestFirstMatchWins(t *testing.T) {
	eng := newEngineHarness(t, firstMatchDoc)
	event := map[string]any{"content": map[string]any{"task_name": "define_concept"}}
	actions := eng.ProcessEvent("agent_result", event, map[string]any{})
	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(actions))
	}
	if actions[0].Action.Value != "first" {
		t.Fatalf("expected first handler in document order to win, got %v", actions[0].Action.Value)
	}
}

const conjunctionDoc = `
events:
  agent_result:
    - conditions:
        event_data:
          content.status: failed
        project_state:
          current_phase: qa
      actions:
        - type: update_state
          path: status
          value: escalating
`

func TestConjunctiveConditions(t *testing.T) {
	eng := newEngineHarness(t, conjunctionDoc)
	failed := map[string]any{"content": map[string]any{"status": "failed"}}
	passed := map[string]any{"content": map[string]any{"status": "passed"}}
	qa := map[string]any{"current_phase": "qa"}
	coding := map[string]any{"current_phase": "coding"}

	if got := eng.ProcessEvent("agent_result", failed, qa); len(got) != 1 {
		t.Fatalf("both conditions true: expected match, got %d actions", len(got))
	}
	if got := eng.ProcessEvent("agent_result", passed, qa); len(got) != 0 {
		t.Fatalf("event condition false: expected no match, got %d actions", len(got))
	}
	if got := eng.ProcessEvent("agent_result", failed, coding); len(got) != 0 {
		t.Fatalf("state condition false: expected no match, got %d actions", len(got))
	}
}

func TestAbsentKeyIsAMismatchEvenForNull(t *testing.T) {
	doc := `
events:
  agent_result:
    - conditions:
        event_data:
          content.missing: null
      actions:
        - type: update_state
          path: status
          value: matched
`
	eng := newEngineHarness(t, doc)
	event := map[string]any{"content": map[string]any{}}
	if got := eng.ProcessEvent("agent_result", event, map[string]any{}); len(got) != 0 {
		t.Fatalf("absent key must not satisfy a null expectation, got %d actions", len(got))
	}
	present := map[string]any{"content": map[string]any{"missing": nil}}
	if got := eng.ProcessEvent("agent_result", present, map[string]any{}); len(got) != 1 {
		t.Fatalf("present null key must satisfy a null expectation, got %d actions", len(got))
	}
}

const checkConditionDoc = `
events:
  agent_result:
    - conditions: {}
      actions:
        - type: update_state
          path: status
          value: before-gate
        - type: check_condition
          condition_type: all_modules_completed
        - type: update_state
          path: status
          value: after-gate
`

func TestCheckConditionShortCircuits(t *testing.T) {
	eng := newEngineHarness(t, checkConditionDoc)
	incomplete := map[string]any{
		"code_modules_status": map[string]any{"m1": "completed", "m2": "coding"},
	}
	actions := eng.ProcessEvent("agent_result", map[string]any{}, incomplete)
	if len(actions) != 1 {
		t.Fatalf("expected only the pre-gate action, got %d", len(actions))
	}
	if actions[0].Action.Value != "before-gate" {
		t.Fatalf("unexpected surviving action: %v", actions[0].Action.Value)
	}

	complete := map[string]any{
		"code_modules_status": map[string]any{"m1": "completed", "m2": "completed"},
	}
	actions = eng.ProcessEvent("agent_result", map[string]any{}, complete)
	if len(actions) != 2 {
		t.Fatalf("expected both actions when gate passes, got %d", len(actions))
	}
	for _, resolved := range actions {
		if resolved.Action.Type == ActionCheckCondition {
			t.Fatalf("check_condition must never appear in the output list")
		}
	}
}

func TestProcessEventDeterminism(t *testing.T) {
	eng := newEngineHarness(t, firstMatchDoc)
	event := map[string]any{"content": map[string]any{"task_name": "define_concept"}}
	state := map[string]any{}
	first := eng.ProcessEvent("agent_result", event, state)
	for i := 0; i < 5; i++ {
		if got := eng.ProcessEvent("agent_result", event, state); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: nondeterministic action sequence", i)
		}
	}
}

func TestNoHandlersIsNotAnError(t *testing.T) {
	eng := newEngineHarness(t, firstMatchDoc)
	if got := eng.ProcessEvent("unheard_of", map[string]any{}, map[string]any{}); got != nil {
		t.Fatalf("expected nil actions for unknown event kind, got %v", got)
	}
}

func TestResolvedActionCarriesEvent(t *testing.T) {
	eng := newEngineHarness(t, firstMatchDoc)
	event := map[string]any{"content": map[string]any{"task_name": "define_concept"}}
	actions := eng.ProcessEvent("agent_result", event, map[string]any{})
	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(actions))
	}
	if !reflect.DeepEqual(actions[0].Event, event) {
		t.Fatalf("resolved action must carry the triggering event payload")
	}
}
