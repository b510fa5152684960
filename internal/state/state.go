// Package state holds the single process-wide project record. Only the
// orchestrator mutates it; the workflow engine and template resolution read
// it through snapshots of the underlying map.
package state

import (
	"errors"
	"fmt"
	"strings"
)

// Logger records state diagnostics. It matches logging.Logger's signature.
type Logger interface {
	Printf(format string, args ...any)
}

// Terminal status values that end the dispatch loop.
const (
	StatusIdle      = "Idle"
	StatusLive      = "App Live!"
	StatusCancelled = "Project Cancelled"
)

// ErrInvalidPath reports a write whose path does not resolve through existing
// map nodes. The write is skipped; it never crashes the loop.
var ErrInvalidPath = errors.New("state: invalid path")

// State is the shared project record. Writes go through Set so the
// no-op-on-invalid-path contract holds for every config-addressed update.
type State struct {
	data   map[string]any
	logger Logger
}

// New seeds a fresh project record with every field the workflow addresses.
// Seeding up front keeps Set honest: a rule document can only write paths
// that exist, so typos in configs surface as logged skips instead of silently
// growing the record.
func New(logger Logger) *State {
	return &State{
		logger: logger,
		data: map[string]any{
			"status":                         StatusIdle,
			"current_phase":                  "Initiation",
			"pending_human_approval_context": nil,
			"app_idea":                       nil,
			"concept_brief":                  nil,
			"technical_blueprint":            nil,
			"tech_stack_proposal":            nil,
			"ui_ux_prototype_url":            nil,
			"design_guidelines":              nil,
			"code_modules_status":            map[string]any{},
			"test_results":                   map[string]any{},
			"module_test_retries":            map[string]any{},
			"deployment_retries":             0,
			"final_app_url":                  nil,
			"selected_deployment_target":     nil,
			"current_task_contexts":          map[string]any{},
			"escalated_issues":               map[string]any{},
		},
	}
}

// Data returns the live record for read-only traversal by the engine and the
// template resolver. Callers must not mutate it.
func (s *State) Data() map[string]any {
	return s.data
}

// Get walks a dot-separated path through the record. The second return value
// is false when any segment is missing or a non-map node is indexed.
func (s *State) Get(path string) (any, bool) {
	return Lookup(s.data, path)
}

// Set writes a value at a dot-separated path. Every intermediate segment must
// already resolve to a map node; otherwise the write is skipped with
// ErrInvalidPath and a logged diagnostic.
func (s *State) Set(path string, value any) error {
	segments := strings.Split(path, ".")
	node := s.data
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node[segment]
		if !ok {
			s.logf("state: invalid path %q: missing segment %q, write skipped", path, segment)
			return fmt.Errorf("%w: %s", ErrInvalidPath, path)
		}
		childMap, ok := child.(map[string]any)
		if !ok {
			s.logf("state: invalid path %q: segment %q is not a map, write skipped", path, segment)
			return fmt.Errorf("%w: %s", ErrInvalidPath, path)
		}
		node = childMap
	}
	node[segments[len(segments)-1]] = value
	return nil
}

// Status returns the overall project status.
func (s *State) Status() string {
	return s.stringAt("status")
}

// Phase returns the current project phase.
func (s *State) Phase() string {
	return s.stringAt("current_phase")
}

// PendingApprovalContext returns the context id of the prompt currently
// awaiting a human response, or "" when none is pending.
func (s *State) PendingApprovalContext() string {
	return s.stringAt("pending_human_approval_context")
}

// SetPendingApprovalContext records (or clears, with "") the awaited prompt.
func (s *State) SetPendingApprovalContext(contextID string) {
	if contextID == "" {
		s.data["pending_human_approval_context"] = nil
		return
	}
	s.data["pending_human_approval_context"] = contextID
}

// ModuleStatuses returns the per-module build status map.
func (s *State) ModuleStatuses() map[string]any {
	statuses, _ := s.data["code_modules_status"].(map[string]any)
	return statuses
}

// ModuleRetries returns the retry counter recorded for a context id.
func (s *State) ModuleRetries(contextID string) int {
	retries, _ := s.data["module_test_retries"].(map[string]any)
	return asInt(retries[contextID])
}

// DeploymentRetries returns the global deployment retry counter.
func (s *State) DeploymentRetries() int {
	return asInt(s.data["deployment_retries"])
}

func (s *State) stringAt(key string) string {
	value, _ := s.data[key].(string)
	return value
}

func (s *State) logf(format string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Printf(format, args...)
}

// Lookup walks a dot-separated path through nested map[string]any nodes.
func Lookup(root map[string]any, path string) (any, bool) {
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

func asInt(value any) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
