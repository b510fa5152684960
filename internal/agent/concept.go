package agent

import (
	"context"
	"fmt"
	"strings"
)

const dreamWeaverSystem = "You are the Ideator of an AI app-building team. " +
	"You brainstorm, refine app ideas, and define core features based on user input."

type dreamWeaver struct {
	responder Responder
	logger    Logger
	memory    *Knowledge
}

// NewDreamWeaver creates the Ideator. It turns a raw user idea (plus any
// refinement feedback) into a structured concept brief.
func NewDreamWeaver(responder Responder, logger Logger, opts ...Option) *Agent {
	d := &dreamWeaver{responder: responder, logger: logger, memory: NewKnowledge()}
	return New("Dream Weaver", "Ideator", d.handle, logger, append(opts, WithKnowledge(d.memory))...)
}

func (d *dreamWeaver) handle(ctx context.Context, task map[string]any) (map[string]any, error) {
	userIdea := taskString(task, "user_idea")
	if userIdea == "" {
		userIdea = "A general purpose application."
	}
	refinement := taskString(task, "refinement_input")

	prompt := fmt.Sprintf(`Based on the user's idea: %q and refinement input: %q, generate a detailed app concept brief.
The brief should include:
- A clear purpose for the app.
- The primary target users.
- A list of core features (at least 3, be specific).
- A suggested monetization strategy.

Example output format:
Purpose: An innovative app to enhance 'user idea'
Target Users: Tech-savvy individuals and general public
Features:
- User authentication
- Data visualization
- Collaboration tools
Monetization Strategy: Freemium model with premium features`, userIdea, refinement)

	response, err := d.responder.Respond(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("define concept: %w", err)
	}

	concept := parseConceptResponse(response, userIdea, d.logger)
	d.memory.Remember("current_concept", concept)
	return map[string]any{"concept_brief": concept, "status": "completed"}, nil
}

func parseConceptResponse(response, userIdeaFallback string, logger Logger) map[string]any {
	concept := map[string]any{
		"purpose":               strings.TrimRight(userIdeaFallback, "."),
		"target_users":          "Various users.",
		"features":              []string{},
		"monetization_strategy": "Undefined.",
	}

	var features []string
	inFeatures := false
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Purpose:"):
			if v := strings.TrimSpace(strings.TrimPrefix(line, "Purpose:")); v != "" {
				concept["purpose"] = v
			}
			inFeatures = false
		case strings.HasPrefix(line, "Target Users:"):
			concept["target_users"] = strings.TrimSpace(strings.TrimPrefix(line, "Target Users:"))
			inFeatures = false
		case strings.HasPrefix(line, "Features:"):
			inFeatures = true
		case inFeatures && strings.HasPrefix(line, "- "):
			if feature := strings.TrimSpace(strings.TrimPrefix(line, "- ")); feature != "" {
				features = append(features, feature)
			}
		case strings.HasPrefix(line, "Monetization Strategy:"):
			concept["monetization_strategy"] = strings.TrimSpace(strings.TrimPrefix(line, "Monetization Strategy:"))
			inFeatures = false
		}
	}

	if len(features) == 0 {
		features = []string{"Basic Functionality", "User Interface"}
		if logger != nil {
			logger.Printf("[Dream Weaver] no features parsed from model response, using fallback features")
		}
	}
	concept["features"] = features

	if purpose, _ := concept["purpose"].(string); strings.HasPrefix(strings.ToLower(purpose), "an innovative app to enhance") {
		concept["purpose"] = strings.TrimRight(userIdeaFallback, ".") + " App Concept"
	}
	return concept
}
