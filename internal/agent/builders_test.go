package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/genesisforge/genesis/internal/message"
)

func runTask(t *testing.T, a *Agent, payload map[string]any) map[string]any {
	t.Helper()
	a.Mailbox().Enqueue(message.New(Orchestrator, a.Name(), message.KindTask, payload, "ctx", fixedClock()))
	out, ok := a.Activate(context.Background())
	if !ok {
		t.Fatalf("expected an outbound message")
	}
	if out.Kind != message.KindResult {
		t.Fatalf("Kind = %q, payload = %v", out.Kind, out.Payload)
	}
	return out.Payload
}

func TestDreamWeaverParsesConcept(t *testing.T) {
	response := `Purpose: A habit tracker with social accountability
Target Users: Busy professionals
Features:
- Habit streaks
- Accountability circles
- Weekly reports
Monetization Strategy: Subscription`

	a := NewDreamWeaver(scripted(response, nil), nil, WithClock(fixedClock))
	result := runTask(t, a, map[string]any{"task_name": "define_concept", "user_idea": "habit tracker"})

	brief, ok := result["concept_brief"].(map[string]any)
	if !ok {
		t.Fatalf("concept_brief missing: %v", result)
	}
	if brief["purpose"] != "A habit tracker with social accountability" {
		t.Fatalf("purpose = %v", brief["purpose"])
	}
	features, _ := brief["features"].([]string)
	if len(features) != 3 || features[1] != "Accountability circles" {
		t.Fatalf("features = %v", features)
	}
	if result["status"] != "completed" {
		t.Fatalf("status = %v", result["status"])
	}
}

func TestDreamWeaverFallsBackOnUnparseableResponse(t *testing.T) {
	a := NewDreamWeaver(scripted("total nonsense", nil), nil, WithClock(fixedClock))
	result := runTask(t, a, map[string]any{"task_name": "define_concept", "user_idea": "note app."})

	brief := result["concept_brief"].(map[string]any)
	if brief["purpose"] != "note app" {
		t.Fatalf("purpose fallback = %v", brief["purpose"])
	}
	features, _ := brief["features"].([]string)
	if len(features) == 0 {
		t.Fatalf("expected fallback features")
	}
}

func TestMasterBuilderParsesBlueprintAndStack(t *testing.T) {
	response := `Blueprint:
Architecture Type: Microservices
Modules: AuthService, DataService
API Specs Summary: REST with OpenAPI
Security Considerations: OAuth2, encryption at rest

Tech Stack:
Backend: Go, Echo, PostgreSQL
Frontend: TypeScript, React, TailwindCSS
Cloud Provider: AWS
CI/CD Tool: GitHub Actions`

	a := NewMasterBuilder(scripted(response, nil), nil, WithClock(fixedClock))
	result := runTask(t, a, map[string]any{
		"task_name":        "design_architecture",
		"concept_purpose":  "a thing",
		"concept_features": "one, two",
	})

	blueprint := result["technical_blueprint"].(map[string]any)
	if blueprint["architecture_type"] != "Microservices" {
		t.Fatalf("architecture_type = %v", blueprint["architecture_type"])
	}
	modules, _ := blueprint["modules"].([]string)
	if len(modules) != 2 || modules[0] != "AuthService" {
		t.Fatalf("modules = %v", modules)
	}

	stack := result["tech_stack_proposal"].(map[string]any)
	backend := stack["backend"].(map[string]any)
	if backend["language"] != "Go" || backend["database"] != "PostgreSQL" {
		t.Fatalf("backend = %v", backend)
	}
	frontend := stack["frontend"].(map[string]any)
	if frontend["styling"] != "TailwindCSS" {
		t.Fatalf("frontend = %v", frontend)
	}
}

func TestMasterBuilderRequiresConceptInput(t *testing.T) {
	a := NewMasterBuilder(scripted("anything", nil), nil, WithClock(fixedClock))
	a.Mailbox().Enqueue(message.New(Orchestrator, a.Name(), message.KindTask,
		map[string]any{"task_name": "design_architecture"}, "ctx", fixedClock()))

	out, ok := a.Activate(context.Background())
	if !ok || out.Kind != message.KindStatusUpdate {
		t.Fatalf("expected a failed status update, got %v", out)
	}
	if out.Payload["status"] != "failed" {
		t.Fatalf("status = %v", out.Payload["status"])
	}
}

func TestAestheticArtistDesignAndChange(t *testing.T) {
	design := `UI/UX Prototype URL: https://proto.example.com/v1
Design Guidelines:
Color Palette: Warm Earth Tones
Typography: Lato
Layout Style: Card-based
Icon Style: Duotone`

	responses := []string{design, "New Prototype URL: https://proto.example.com/v2\nChanges Made: Larger buttons."}
	i := 0
	responder := ResponderFunc(func(_ context.Context, prompt string) (string, error) {
		r := responses[i]
		if i == 1 && !strings.Contains(prompt, "https://proto.example.com/v1") {
			t.Errorf("change prompt should reference the previous prototype, got %q", prompt)
		}
		i++
		return r, nil
	})

	a := NewAestheticArtist(responder, nil, WithClock(fixedClock))
	result := runTask(t, a, map[string]any{"task_name": "design_ui_ux", "concept_purpose": "p", "concept_features": "f"})
	if result["ui_ux_prototype_url"] != "https://proto.example.com/v1" {
		t.Fatalf("prototype url = %v", result["ui_ux_prototype_url"])
	}
	guidelines := result["design_guidelines"].(map[string]any)
	if guidelines["color_palette"] != "Warm Earth Tones" {
		t.Fatalf("guidelines = %v", guidelines)
	}

	change := runTask(t, a, map[string]any{"task_name": "change_ui", "refinement_input": "bigger buttons"})
	if change["ui_ux_prototype_url"] != "https://proto.example.com/v2" {
		t.Fatalf("updated url = %v", change["ui_ux_prototype_url"])
	}
	msg, _ := change["message"].(string)
	if !strings.Contains(msg, "Larger buttons.") {
		t.Fatalf("message = %q", msg)
	}
}

func TestCodeSageGeneratesAndFixes(t *testing.T) {
	response := `Generated Code Summary: Implemented core_app handlers.
Unit Tests Summary: Added table-driven tests.`

	a := NewCodeSage(scripted(response, nil), nil, WithClock(fixedClock))
	result := runTask(t, a, map[string]any{
		"task_name":    "generate_code",
		"module_name":  "core_app",
		"requirements": "one, two",
	})
	if result["status"] != "ready_for_qa" {
		t.Fatalf("status = %v", result["status"])
	}
	if result["generated_code_summary"] != "Implemented core_app handlers." {
		t.Fatalf("summary = %v", result["generated_code_summary"])
	}

	var sawBugPrompt bool
	fixer := ResponderFunc(func(_ context.Context, prompt string) (string, error) {
		sawBugPrompt = strings.Contains(prompt, "Fix the following bug")
		return "unparseable", nil
	})
	a = NewCodeSage(fixer, nil, WithClock(fixedClock))
	result = runTask(t, a, map[string]any{
		"task_name":   "generate_code",
		"module_name": "core_app",
		"bug_report":  "login breaks on empty input",
	})
	if !sawBugPrompt {
		t.Fatalf("bug report should route to the fix prompt")
	}
	summary, _ := result["generated_code_summary"].(string)
	if !strings.Contains(summary, "Fixed") {
		t.Fatalf("fallback fix summary = %q", summary)
	}
}

func TestQualityGuardianParsesBugsAndCorrectsStatus(t *testing.T) {
	response := `Status: passed
Bugs Found:
- Description: Login fails on unicode names. Severity: high. Module: core_app.
- this line does not match and is skipped
Performance Notes: fine
Security Notes: fine`

	a := NewQualityGuardian(scripted(response, nil), nil, WithClock(fixedClock))
	result := runTask(t, a, map[string]any{
		"task_name":     "run_tests",
		"module_name":   "core_app",
		"retry_attempt": 1,
	})

	if result["retry_attempt"] != 1 {
		t.Fatalf("retry_attempt = %v", result["retry_attempt"])
	}
	report := result["test_report"].(map[string]any)
	// Bugs were found, so the claimed "passed" is overruled.
	if report["status"] != "failed_with_bugs" {
		t.Fatalf("status = %v", report["status"])
	}
	bugs, _ := report["bugs_found"].([]any)
	if len(bugs) != 1 {
		t.Fatalf("bugs_found = %v", bugs)
	}
	bug := bugs[0].(map[string]any)
	if bug["severity"] != "high" || bug["module"] != "core_app" {
		t.Fatalf("bug = %v", bug)
	}
}

func TestQualityGuardianCleanRun(t *testing.T) {
	response := `Status: failed_with_bugs
Bugs Found: []
Performance Notes: ok
Security Notes: ok`

	a := NewQualityGuardian(scripted(response, nil), nil, WithClock(fixedClock))
	result := runTask(t, a, map[string]any{"task_name": "run_tests", "module_name": "core_app"})

	report := result["test_report"].(map[string]any)
	// No bugs parsed, so the claimed failure is overruled.
	if report["status"] != "passed" {
		t.Fatalf("status = %v", report["status"])
	}
}

func TestDeploymentMasterParsesOutcome(t *testing.T) {
	success := `Deployment Status: success
App URL: https://live.example.com/app
Monitoring Dashboard URL: https://monitor.example.com/d/1`

	a := NewDeploymentMaster(scripted(success, nil), nil, WithClock(fixedClock))
	result := runTask(t, a, map[string]any{"task_name": "deploy_application", "deployment_target": "cloud"})
	if result["deployment_status"] != "success" {
		t.Fatalf("deployment_status = %v", result["deployment_status"])
	}
	if result["app_url"] != "https://live.example.com/app" {
		t.Fatalf("app_url = %v", result["app_url"])
	}

	failure := `Deployment Status: definitely-broken
Reason: disk full`
	a = NewDeploymentMaster(scripted(failure, nil), nil, WithClock(fixedClock))
	result = runTask(t, a, map[string]any{"task_name": "deploy_application", "retry_attempt": 2})
	if result["deployment_status"] != "failure" {
		t.Fatalf("unrecognized status must default to failure, got %v", result["deployment_status"])
	}
	if result["retry_attempt"] != 2 {
		t.Fatalf("retry_attempt = %v", result["retry_attempt"])
	}
	if result["error_details"] != "disk full" {
		t.Fatalf("error_details = %v", result["error_details"])
	}
}
