package plugins

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/genesisforge/genesis/internal/workflow"
)

const conditionPluginSource = `package main

func WorkflowConditions() map[string]func(map[string]any, map[string]any) bool {
	return map[string]func(map[string]any, map[string]any) bool{
		"budget_approved": func(state map[string]any, params map[string]any) bool {
			return state["budget_status"] == "approved"
		},
	}
}`

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...any) {
	l.lines = append(l.lines, format)
}

func TestLoadConditionDirRegistersPredicates(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "budget.go"), []byte(conditionPluginSource), 0644); err != nil {
		t.Fatalf("write plugin: %v", err)
	}
	registry := workflow.NewConditionRegistry(nil)
	names := LoadConditionDir(dir, registry, nil)
	if len(names) != 1 || names[0] != "budget_approved" {
		t.Fatalf("expected budget_approved registered, got %v", names)
	}
	state := map[string]any{"budget_status": "approved"}
	if !registry.Evaluate("budget_approved", state, nil) {
		t.Fatalf("expected condition true for approved budget")
	}
	state["budget_status"] = "pending"
	if registry.Evaluate("budget_approved", state, nil) {
		t.Fatalf("expected condition false for pending budget")
	}
}

func TestLoadConditionDirSkipsBrokenPlugins(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.go"), []byte("package main\n"), 0644); err != nil {
		t.Fatalf("write broken plugin: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "good.go"), []byte(conditionPluginSource), 0644); err != nil {
		t.Fatalf("write plugin: %v", err)
	}
	logger := &recordingLogger{}
	registry := workflow.NewConditionRegistry(nil)
	names := LoadConditionDir(dir, registry, logger)
	if len(names) != 1 {
		t.Fatalf("expected the good plugin only, got %v", names)
	}
	var warned bool
	for _, line := range logger.lines {
		if strings.Contains(line, "skipping") {
			warned = true
		}
	}
	if !warned {
		t.Fatalf("expected a warning for the broken plugin, logs: %v", logger.lines)
	}
}

func TestLoadConditionDirMissingDir(t *testing.T) {
	registry := workflow.NewConditionRegistry(nil)
	if names := LoadConditionDir(filepath.Join(t.TempDir(), "absent"), registry, nil); names != nil {
		t.Fatalf("expected nil for missing directory, got %v", names)
	}
}
