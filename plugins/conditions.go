// Package plugins loads user-authored workflow conditions from interpreted
// Go source files. A plugin file lives under the project's conditions
// directory and declares a WorkflowConditions() function returning the named
// predicates to register; the files are evaluated with yaegi, so no
// recompilation of the binary is needed to extend a workflow's vocabulary.
package plugins

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/genesisforge/genesis/internal/workflow"
)

const conditionFuncName = "WorkflowConditions"

// Logger is the minimal logging dependency.
type Logger interface {
	Printf(format string, args ...any)
}

// LoadConditionDir evaluates every .go file in dir and registers the
// conditions each declares into the registry. A broken plugin file is
// skipped with a warning so one bad file cannot take down the workflow;
// the returned names list what was registered.
func LoadConditionDir(dir string, registry *workflow.ConditionRegistry, logger Logger) []string {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" || registry == nil {
		return nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if !os.IsNotExist(err) {
			logf(logger, "plugins: read %s: %v", trimmed, err)
		}
		return nil
	}
	var registered []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".go" {
			continue
		}
		path := filepath.Join(trimmed, entry.Name())
		conditions, err := loadConditionFile(path)
		if err != nil {
			logf(logger, "plugins: skipping %s: %v", path, err)
			continue
		}
		for name, fn := range conditions {
			registry.Register(name, fn)
			registered = append(registered, name)
			logf(logger, "plugins: registered condition %q from %s", name, filepath.Base(path))
		}
	}
	sort.Strings(registered)
	return registered
}

func loadConditionFile(path string) (map[string]workflow.ConditionFunc, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if len(strings.TrimSpace(string(code))) == 0 {
		return nil, fmt.Errorf("file is empty")
	}
	i := interp.New(interp.Options{})
	i.Use(stdlib.Symbols)
	if _, err := i.EvalPath(path); err != nil {
		return nil, fmt.Errorf("interpret: %w", err)
	}
	fnValue, err := i.Eval(conditionFuncName)
	if err != nil {
		return nil, fmt.Errorf("must define %s(): %w", conditionFuncName, err)
	}
	return invokeConditionFunc(fnValue)
}

func invokeConditionFunc(value reflect.Value) (map[string]workflow.ConditionFunc, error) {
	if !value.IsValid() {
		return nil, fmt.Errorf("missing %s function", conditionFuncName)
	}
	if value.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s is not a function", conditionFuncName)
	}
	results := value.Call(nil)
	if len(results) != 1 {
		return nil, fmt.Errorf("%s must return a single map", conditionFuncName)
	}
	raw := results[0]
	if raw.Kind() != reflect.Map {
		return nil, fmt.Errorf("%s must return a map of name to predicate", conditionFuncName)
	}
	conditions := make(map[string]workflow.ConditionFunc, raw.Len())
	iter := raw.MapRange()
	for iter.Next() {
		name, ok := iter.Key().Interface().(string)
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%s keys must be non-empty strings", conditionFuncName)
		}
		fn, err := asConditionFunc(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("condition %q: %w", name, err)
		}
		conditions[name] = fn
	}
	if len(conditions) == 0 {
		return nil, fmt.Errorf("%s returned no conditions", conditionFuncName)
	}
	return conditions, nil
}

// asConditionFunc adapts an interpreted predicate to a ConditionFunc. The
// plugin's function must accept (state, params map[string]any) and return a
// bool; the call goes through reflection because yaegi hands back its own
// function values.
func asConditionFunc(value reflect.Value) (workflow.ConditionFunc, error) {
	if value.Kind() == reflect.Interface {
		value = value.Elem()
	}
	if native, ok := value.Interface().(func(map[string]any, map[string]any) bool); ok {
		return native, nil
	}
	if value.Kind() != reflect.Func {
		return nil, fmt.Errorf("predicate is not a function")
	}
	t := value.Type()
	if t.NumIn() != 2 || t.NumOut() != 1 || t.Out(0).Kind() != reflect.Bool {
		return nil, fmt.Errorf("predicate must be func(map[string]any, map[string]any) bool")
	}
	fn := value
	return func(state map[string]any, params map[string]any) bool {
		out := fn.Call([]reflect.Value{reflect.ValueOf(ensureMap(state)), reflect.ValueOf(ensureMap(params))})
		return out[0].Bool()
	}, nil
}

func ensureMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func logf(logger Logger, format string, args ...any) {
	if logger != nil {
		logger.Printf(format, args...)
	}
}
