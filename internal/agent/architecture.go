package agent

import (
	"context"
	"fmt"
	"strings"
)

const masterBuilderSystem = "You are the Architect of an AI app-building team. " +
	"You translate app concepts into a feasible technical blueprint and select technologies."

type masterBuilder struct {
	responder Responder
	logger    Logger
	memory    *Knowledge
}

// NewMasterBuilder creates the Architect. From a concept it produces a
// technical blueprint and a tech stack proposal.
func NewMasterBuilder(responder Responder, logger Logger, opts ...Option) *Agent {
	m := &masterBuilder{responder: responder, logger: logger, memory: NewKnowledge()}
	return New("Master Builder", "Architect", m.handle, logger, append(opts, WithKnowledge(m.memory))...)
}

func (m *masterBuilder) handle(ctx context.Context, task map[string]any) (map[string]any, error) {
	purpose := taskString(task, "concept_purpose")
	features := taskString(task, "concept_features")
	if purpose == "" && features == "" {
		return nil, fmt.Errorf("design architecture: missing concept brief")
	}

	prompt := fmt.Sprintf(`Based on the following app concept, generate a technical blueprint and propose a suitable tech stack.
Concept Purpose: %s
Features: %s

Technical Blueprint should include:
- Architecture Type (e.g., Microservices, Monolithic, Serverless)
- Key Modules/Services (e.g., AuthenticationService, DataService, UIService)
- API Specs Summary (e.g., RESTful APIs with OpenAPI documentation)
- Security Considerations (e.g., OAuth2, Data encryption)

Tech Stack Proposal should include:
- Backend (language, framework, database)
- Frontend (language, framework, styling)
- Cloud Provider
- CI/CD Tool

Example output format:
Blueprint:
Architecture Type: Microservices (scalable)
Modules: AuthenticationService, DataService, UIService, NotificationService
API Specs Summary: RESTful APIs with OpenAPI documentation
Security Considerations: OAuth2 for auth, Data encryption at rest/in transit

Tech Stack:
Backend: Python, FastAPI, PostgreSQL
Frontend: TypeScript, React, TailwindCSS
Cloud Provider: AWS (EC2, RDS, S3, Lambda)
CI/CD Tool: GitHub Actions`, purpose, features)

	response, err := m.responder.Respond(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("design architecture: %w", err)
	}

	blueprint, techStack := parseArchitectureResponse(response, m.logger)
	m.memory.Remember("current_blueprint", blueprint)
	m.memory.Remember("current_tech_stack", techStack)
	return map[string]any{
		"technical_blueprint": blueprint,
		"tech_stack_proposal": techStack,
		"status":              "completed",
	}, nil
}

func parseArchitectureResponse(response string, logger Logger) (map[string]any, map[string]any) {
	blueprint := map[string]any{
		"architecture_type":       "Undefined",
		"modules":                 []string{},
		"api_specs_summary":       "Undefined",
		"security_considerations": []string{},
	}
	techStack := map[string]any{
		"backend":        stackEntry("Undefined", "Undefined", "database", "Undefined"),
		"frontend":       stackEntry("Undefined", "Undefined", "styling", "Undefined"),
		"cloud_provider": "Undefined",
		"ci_cd_tool":     "Undefined",
	}

	section := ""
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "blueprint:"):
			section = "blueprint"
		case strings.HasPrefix(lower, "tech stack:"):
			section = "tech_stack"
		case section == "blueprint":
			if v, ok := lineValue(line, "Architecture Type:"); ok {
				blueprint["architecture_type"] = v
			} else if v, ok := lineValue(line, "Modules:"); ok {
				blueprint["modules"] = splitList(v)
			} else if v, ok := lineValue(line, "API Specs Summary:"); ok {
				blueprint["api_specs_summary"] = v
			} else if v, ok := lineValue(line, "Security Considerations:"); ok {
				blueprint["security_considerations"] = splitList(v)
			}
		case section == "tech_stack":
			if v, ok := lineValue(line, "Backend:"); ok {
				techStack["backend"] = parseStackLine(v, "database")
			} else if v, ok := lineValue(line, "Frontend:"); ok {
				techStack["frontend"] = parseStackLine(v, "styling")
			} else if v, ok := lineValue(line, "Cloud Provider:"); ok {
				techStack["cloud_provider"] = v
			} else if v, ok := lineValue(line, "CI/CD Tool:"); ok {
				techStack["ci_cd_tool"] = v
			}
		}
	}

	if modules, _ := blueprint["modules"].([]string); len(modules) == 0 {
		blueprint["modules"] = []string{"CoreService"}
		if logger != nil {
			logger.Printf("[Master Builder] no modules parsed from model response, using fallback module")
		}
	}
	backend, _ := techStack["backend"].(map[string]any)
	frontend, _ := techStack["frontend"].(map[string]any)
	if backend["language"] == "Undefined" && frontend["language"] == "Undefined" {
		techStack["backend"] = stackEntry("Python", "Flask", "database", "SQLite")
		techStack["frontend"] = stackEntry("HTML", "None", "styling", "CSS")
		if logger != nil {
			logger.Printf("[Master Builder] no tech stack parsed from model response, using fallback stack")
		}
	}
	return blueprint, techStack
}

func parseStackLine(value, thirdKey string) map[string]any {
	parts := splitList(value)
	entry := stackEntry("Undefined", "Undefined", thirdKey, "Undefined")
	if len(parts) > 0 {
		entry["language"] = parts[0]
	}
	if len(parts) > 1 {
		entry["framework"] = parts[1]
	}
	if len(parts) > 2 {
		entry[thirdKey] = parts[2]
	}
	return entry
}

func stackEntry(language, framework, thirdKey, third string) map[string]any {
	return map[string]any{"language": language, "framework": framework, thirdKey: third}
}
