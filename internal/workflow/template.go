package workflow

import (
	"fmt"
	"strings"
)

// Sentinels substituted when a template reference cannot be resolved.
// Resolution is total: missing data degrades to these markers, never to an
// error return or a panic.
const (
	MissingSentinel = "N/A"
	ErrorSentinel   = "ERROR_SUBSTITUTING"
)

type refSource int

const (
	sourceEvent refSource = iota
	sourceState
)

// reference is one parsed {{namespace.path}} token.
type reference struct {
	source   refSource
	segments []string
}

// parseReference validates the text between {{ and }}. The namespace aliases
// event/result both address the event payload; state/project_state both
// address the shared state. Path segments are word characters only, so
// malformed tokens are left untouched in the output.
func parseReference(token string) (reference, bool) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return reference{}, false
	}
	var source refSource
	switch parts[0] {
	case "event", "result":
		source = sourceEvent
	case "state", "project_state":
		source = sourceState
	default:
		return reference{}, false
	}
	segments := parts[1:]
	for _, segment := range segments {
		if !isWordToken(segment) {
			return reference{}, false
		}
	}
	return reference{source: source, segments: segments}, true
}

func isWordToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}

// Resolve substitutes every reference in the template against the event
// payload and the shared state. Strings are scanned for {{ns.path}} tokens;
// maps and slices are walked structurally; every other leaf passes through
// unchanged.
func Resolve(template any, event, state map[string]any) any {
	switch value := template.(type) {
	case string:
		return resolveString(value, event, state)
	case map[string]any:
		out := make(map[string]any, len(value))
		for key, item := range value {
			out[key] = Resolve(item, event, state)
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = Resolve(item, event, state)
		}
		return out
	default:
		return template
	}
}

// ResolveString is Resolve restricted to string templates, stringifying any
// non-string input first.
func ResolveString(template any, event, state map[string]any) string {
	resolved := Resolve(template, event, state)
	if s, ok := resolved.(string); ok {
		return s
	}
	return stringify(resolved)
}

func resolveString(template string, event, state map[string]any) string {
	var b strings.Builder
	rest := template
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			b.WriteString(rest)
			return b.String()
		}
		closing := strings.Index(rest[open:], "}}")
		if closing < 0 {
			b.WriteString(rest)
			return b.String()
		}
		closing += open
		token := rest[open+2 : closing]
		ref, ok := parseReference(token)
		if !ok {
			// Not a reference; emit through the opening braces and rescan.
			b.WriteString(rest[:open+2])
			rest = rest[open+2:]
			continue
		}
		b.WriteString(rest[:open])
		root := event
		if ref.source == sourceState {
			root = state
		}
		b.WriteString(resolveReference(root, ref.segments))
		rest = rest[closing+2:]
	}
}

func resolveReference(root map[string]any, segments []string) string {
	var current any = root
	for _, segment := range segments {
		if current == nil {
			return MissingSentinel
		}
		node, ok := current.(map[string]any)
		if !ok {
			return ErrorSentinel
		}
		current, ok = node[segment]
		if !ok {
			return MissingSentinel
		}
	}
	if current == nil {
		return MissingSentinel
	}
	return stringify(current)
}

func stringify(value any) string {
	if value == nil {
		return MissingSentinel
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
