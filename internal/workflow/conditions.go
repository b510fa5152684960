package workflow

// ConditionFunc evaluates a named condition against the shared state. It must
// be pure: no state mutation, no side effects beyond logging by the caller.
type ConditionFunc func(state map[string]any, params map[string]any) bool

// ConditionRegistry resolves the condition names a rule document may
// reference from check_condition actions. The set is open: plugins can
// register additional names, and unknown names evaluate false.
type ConditionRegistry struct {
	funcs  map[string]ConditionFunc
	logger Logger
}

// NewConditionRegistry returns a registry preloaded with the built-ins.
func NewConditionRegistry(logger Logger) *ConditionRegistry {
	r := &ConditionRegistry{
		funcs:  map[string]ConditionFunc{},
		logger: logger,
	}
	r.Register("all_modules_completed", allModulesCompleted)
	return r
}

// Register binds a condition name to its evaluator, replacing any previous
// binding for the same name.
func (r *ConditionRegistry) Register(name string, fn ConditionFunc) {
	if name == "" || fn == nil {
		return
	}
	r.funcs[name] = fn
}

// Evaluate runs the named condition. Unknown names are logged and evaluate
// false, failing the remainder of the handler that referenced them.
func (r *ConditionRegistry) Evaluate(name string, state, params map[string]any) bool {
	fn, ok := r.funcs[name]
	if !ok {
		logf(r.logger, "workflow: unknown condition type %q evaluates false", name)
		return false
	}
	return fn(state, params)
}

// allModulesCompleted holds iff the module-status map is non-empty and every
// module reads "completed". Escalated modules count as not completed. The
// params may override which state key holds the map.
func allModulesCompleted(state, params map[string]any) bool {
	path := "code_modules_status"
	if override, ok := params["path"].(string); ok && override != "" {
		path = override
	}
	value, ok := lookupPath(state, path)
	if !ok {
		return false
	}
	statuses, ok := value.(map[string]any)
	if !ok || len(statuses) == 0 {
		return false
	}
	for _, status := range statuses {
		if status != "completed" {
			return false
		}
	}
	return true
}
