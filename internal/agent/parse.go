package agent

import "strings"

// lineValue matches a "Label: value" line case-insensitively and returns the
// trimmed value.
func lineValue(line, label string) (string, bool) {
	if len(line) < len(label) || !strings.EqualFold(line[:len(label)], label) {
		return "", false
	}
	return strings.TrimSpace(line[len(label):]), true
}

// splitList splits a comma-separated line into trimmed items, capped to keep
// parsing robust against rambling model output.
func splitList(value string) []string {
	const maxItems = 10
	var items []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		items = append(items, part)
		if len(items) == maxItems {
			break
		}
	}
	return items
}

// taskString reads a string field from a task payload.
func taskString(task map[string]any, key string) string {
	value, _ := task[key].(string)
	return strings.TrimSpace(value)
}

// taskInt reads an integer field from a task payload, tolerating the numeric
// types that survive YAML and JSON round trips.
func taskInt(task map[string]any, key string) int {
	switch v := task[key].(type) {
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
