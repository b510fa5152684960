package llm

import (
	"context"
	"strings"
)

// MockClient returns deterministic fake responses in the line formats the
// builder agents parse, so a full pipeline run works without any model
// backend configured.
type MockClient struct{}

func (m *MockClient) Complete(_ context.Context, messages []ChatMessage) (string, error) {
	var prompt strings.Builder
	for _, msg := range messages {
		prompt.WriteString(msg.Content)
		prompt.WriteString(" ")
	}
	lower := strings.ToLower(prompt.String())

	// Order matters: several prompts mention "concept" or "code" in passing.
	switch {
	case strings.Contains(lower, "quality assurance"):
		return mockTests, nil
	case strings.Contains(lower, "deploy"):
		return mockDeploy, nil
	case strings.Contains(lower, "technical blueprint"):
		return mockArchitecture, nil
	case strings.Contains(lower, "code"):
		return mockCode, nil
	case strings.Contains(lower, "ui/ux"):
		return mockDesign, nil
	case strings.Contains(lower, "concept"):
		return mockConcept, nil
	default:
		return "ACKNOWLEDGED", nil
	}
}

const mockConcept = `Purpose: A focused app that solves the stated problem end to end
Target Users: Early adopters who need this workflow daily
Features:
- User onboarding
- Core workflow
- Progress dashboard
Monetization Strategy: Freemium model with a paid tier for teams`

const mockArchitecture = `Blueprint:
Architecture Type: Modular monolith
Modules: core_app
API Specs Summary: RESTful API with JSON payloads and token auth
Security Considerations: Token auth, input validation

Tech Stack:
Backend: Go, net/http, PostgreSQL
Frontend: TypeScript, React, TailwindCSS
Cloud Provider: AWS
CI/CD Tool: GitHub Actions`

const mockDesign = `UI/UX Prototype URL: https://mockup.example.com/app-prototype-v1-demo
Design Guidelines:
Color Palette: Professional Blue & Grey
Typography: Inter, sans-serif
Layout Style: Clean & Grid-based
Icon Style: Minimalist Line Icons`

const mockCode = `Generated Code Summary: Implemented the module with handlers, storage, and input validation.
Unit Tests Summary: Unit tests cover the happy path and malformed input (~80% coverage).`

const mockTests = `Status: passed
Bugs Found: []
Performance Notes: Initial performance looks good.
Security Notes: Basic security checks passed.`

const mockDeploy = `Deployment Status: success
App URL: https://app.example.com/live
Monitoring Dashboard URL: https://monitor.example.com/dashboard`
