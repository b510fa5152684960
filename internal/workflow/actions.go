package workflow

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ActionType discriminates the closed set of action variants a handler may
// prescribe.
type ActionType string

const (
	ActionUpdateState      ActionType = "update_state"
	ActionSendHumanMessage ActionType = "send_human_message"
	ActionDelegateTask     ActionType = "delegate_task"
	ActionCheckCondition   ActionType = "check_condition"
)

// Action is one entry of a handler's action list. Exactly the fields for its
// Type are populated; validation happens once at load, so the executor can
// trust the shape at run time.
type Action struct {
	Type ActionType

	// update_state
	Path  string
	Value any

	// send_human_message
	MessageType string
	Content     any
	Options     []any
	ContextID   string

	// delegate_task
	Agent           string
	Task            string
	TaskContent     any
	UseEventContext bool

	// check_condition
	ConditionType string
	Params        map[string]any
}

// UnmarshalYAML decodes one action mapping and fails fast on unknown action
// types or fields the variant does not define.
func (a *Action) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := parseAction(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

var actionFields = map[ActionType][]string{
	ActionUpdateState:      {"type", "path", "value"},
	ActionSendHumanMessage: {"type", "message_type", "content", "options", "context_id"},
	ActionDelegateTask:     {"type", "agent", "task", "content", "context_id", "use_event_context_id"},
	ActionCheckCondition:   {"type", "condition_type", "params"},
}

func parseAction(raw map[string]any) (Action, error) {
	kind, _ := raw["type"].(string)
	if kind == "" {
		return Action{}, fmt.Errorf("action: missing type")
	}
	actionType := ActionType(kind)
	allowed, ok := actionFields[actionType]
	if !ok {
		return Action{}, fmt.Errorf("action: unknown type %q", kind)
	}
	if err := rejectUnknownFields(raw, allowed, kind); err != nil {
		return Action{}, err
	}

	action := Action{Type: actionType}
	switch actionType {
	case ActionUpdateState:
		action.Path, _ = raw["path"].(string)
		if strings.TrimSpace(action.Path) == "" {
			return Action{}, fmt.Errorf("update_state: path is required")
		}
		value, ok := raw["value"]
		if !ok {
			return Action{}, fmt.Errorf("update_state: value is required")
		}
		action.Value = value
	case ActionSendHumanMessage:
		action.MessageType, _ = raw["message_type"].(string)
		if action.MessageType == "" {
			return Action{}, fmt.Errorf("send_human_message: message_type is required")
		}
		content, ok := raw["content"]
		if !ok {
			return Action{}, fmt.Errorf("send_human_message: content is required")
		}
		action.Content = content
		if options, ok := raw["options"]; ok {
			list, ok := options.([]any)
			if !ok {
				return Action{}, fmt.Errorf("send_human_message: options must be a list")
			}
			action.Options = list
		}
		action.ContextID, _ = raw["context_id"].(string)
	case ActionDelegateTask:
		action.Agent, _ = raw["agent"].(string)
		action.Task, _ = raw["task"].(string)
		if action.Agent == "" || action.Task == "" {
			return Action{}, fmt.Errorf("delegate_task: agent and task are required")
		}
		action.TaskContent = raw["content"]
		action.ContextID, _ = raw["context_id"].(string)
		action.UseEventContext, _ = raw["use_event_context_id"].(bool)
	case ActionCheckCondition:
		action.ConditionType, _ = raw["condition_type"].(string)
		if action.ConditionType == "" {
			return Action{}, fmt.Errorf("check_condition: condition_type is required")
		}
		if params, ok := raw["params"]; ok {
			paramMap, ok := params.(map[string]any)
			if !ok {
				return Action{}, fmt.Errorf("check_condition: params must be a mapping")
			}
			action.Params = paramMap
		}
	}
	return action, nil
}

func rejectUnknownFields(raw map[string]any, allowed []string, kind string) error {
	var unknown []string
	for key := range raw {
		found := false
		for _, name := range allowed {
			if key == name {
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("%s: unknown fields %s", kind, strings.Join(unknown, ", "))
}
