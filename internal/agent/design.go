package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const aestheticArtistSystem = "You are the UI/UX Designer of an AI app-building team. " +
	"You design the app's look, feel, and user experience, creating wireframes and prototypes."

type aestheticArtist struct {
	responder Responder
	logger    Logger

	// remembers the last prototype handed out, read back when the human
	// requests a change
	memory *Knowledge
}

// NewAestheticArtist creates the UI/UX Designer. It handles both the initial
// design task and follow-up change requests.
func NewAestheticArtist(responder Responder, logger Logger, opts ...Option) *Agent {
	a := &aestheticArtist{responder: responder, logger: logger, memory: NewKnowledge()}
	return New("Aesthetic Artist", "UI/UX Designer", a.handle, logger, append(opts, WithKnowledge(a.memory))...)
}

func (a *aestheticArtist) handle(ctx context.Context, task map[string]any) (map[string]any, error) {
	if taskString(task, "task_name") == "change_ui" {
		return a.changeUI(ctx, task)
	}
	return a.designUIUX(ctx, task)
}

func (a *aestheticArtist) designUIUX(ctx context.Context, task map[string]any) (map[string]any, error) {
	purpose := taskString(task, "concept_purpose")
	features := taskString(task, "concept_features")

	prompt := fmt.Sprintf(`Design the UI/UX for an app with the following concept:
Purpose: %s
Features: %s

Provide:
- A mock URL for the prototype.
- Design guidelines including color palette, typography, layout style, and icon style.

Example:
UI/UX Prototype URL: https://mockup.example.com/app-prototype-v1-abcdef
Design Guidelines:
Color Palette: Professional Blue & Grey
Typography: Inter, sans-serif
Layout Style: Clean & Grid-based
Icon Style: Minimalist Line Icons`, purpose, features)

	response, err := a.responder.Respond(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("design ui/ux: %w", err)
	}

	prototypeURL := "https://mockup.example.com/app-prototype-v1-" + uuid.NewString()[:4]
	guidelines := map[string]any{
		"color_palette": "Professional Blue & Grey",
		"typography":    "Inter, sans-serif",
		"layout_style":  "Clean & Grid-based",
		"icon_style":    "Minimalist Line Icons",
	}

	inGuidelines := false
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if v, ok := lineValue(line, "UI/UX Prototype URL:"); ok {
			prototypeURL = v
		} else if strings.HasPrefix(line, "Design Guidelines:") {
			inGuidelines = true
		} else if inGuidelines {
			if v, ok := lineValue(line, "Color Palette:"); ok {
				guidelines["color_palette"] = v
			} else if v, ok := lineValue(line, "Typography:"); ok {
				guidelines["typography"] = v
			} else if v, ok := lineValue(line, "Layout Style:"); ok {
				guidelines["layout_style"] = v
			} else if v, ok := lineValue(line, "Icon Style:"); ok {
				guidelines["icon_style"] = v
			}
		}
	}

	a.memory.Remember("current_prototype_url", prototypeURL)
	return map[string]any{
		"status":              "completed",
		"ui_ux_prototype_url": prototypeURL,
		"design_guidelines":   guidelines,
	}, nil
}

func (a *aestheticArtist) changeUI(ctx context.Context, task map[string]any) (map[string]any, error) {
	refinement := taskString(task, "refinement_input")
	if refinement == "" {
		refinement = "no changes specified"
	}

	prompt := fmt.Sprintf(`The user wants to refine the UI/UX design. Current prototype URL is: %s.
User feedback: %q.

Generate a new mock URL for the updated prototype and describe the key changes made based on the feedback.
Example:
New Prototype URL: https://mockup.example.com/app-prototype-v2-abcde
Changes Made: Adjusted button sizes to be larger and changed their color to blue.`, a.memory.RecallString("current_prototype_url"), refinement)

	response, err := a.responder.Respond(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("change ui: %w", err)
	}

	newURL := "https://mockup.example.com/app-prototype-v2-" + uuid.NewString()[:4]
	changes := "Updated the design per feedback."
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if v, ok := lineValue(line, "New Prototype URL:"); ok {
			newURL = v
		} else if v, ok := lineValue(line, "Changes Made:"); ok {
			changes = v
		}
	}

	a.memory.Remember("current_prototype_url", newURL)
	return map[string]any{
		"status":              "completed",
		"ui_ux_prototype_url": newURL,
		"message":             "Thanks! " + changes,
	}, nil
}
