package agent

import (
	"context"
	"strings"
	"testing"
)

func TestKnowledgeLastWriteWins(t *testing.T) {
	k := NewKnowledge()
	if _, ok := k.Recall("current_concept"); ok {
		t.Fatalf("empty store must not recall anything")
	}
	k.Remember("current_concept", "v1")
	k.Remember("current_concept", "v2")
	v, ok := k.Recall("current_concept")
	if !ok || v != "v2" {
		t.Fatalf("expected last write to win, got %v (ok=%v)", v, ok)
	}
	if k.Len() != 1 {
		t.Fatalf("overwrite must not add keys, len=%d", k.Len())
	}
	k.Remember("", "dropped")
	if k.Len() != 1 {
		t.Fatalf("empty keys must be ignored, len=%d", k.Len())
	}

	var nilStore *Knowledge
	nilStore.Remember("x", 1)
	if _, ok := nilStore.Recall("x"); ok || nilStore.Len() != 0 {
		t.Fatalf("nil store must stay empty")
	}
}

func TestBuildersRememberTheirArtifacts(t *testing.T) {
	weaver := NewDreamWeaver(scripted("Purpose: A recipe box\nFeatures:\n- Search", nil), nil, WithClock(fixedClock))
	runTask(t, weaver, map[string]any{"task_name": "define_concept", "user_idea": "recipes"})
	concept, ok := weaver.Knowledge().Recall("current_concept")
	if !ok {
		t.Fatalf("ideator should remember the concept it produced")
	}
	if brief, _ := concept.(map[string]any); brief["purpose"] != "A recipe box" {
		t.Fatalf("remembered concept = %v", concept)
	}

	builder := NewMasterBuilder(scripted("Blueprint:\nModules: CoreService\nTech Stack:\nBackend: Go, Echo, Postgres", nil), nil, WithClock(fixedClock))
	runTask(t, builder, map[string]any{"task_name": "design_architecture", "concept_purpose": "recipes"})
	if _, ok := builder.Knowledge().Recall("current_blueprint"); !ok {
		t.Fatalf("architect should remember its blueprint")
	}
	stack, ok := builder.Knowledge().Recall("current_tech_stack")
	if !ok {
		t.Fatalf("architect should remember its tech stack")
	}
	if m, _ := stack.(map[string]any); m["cloud_provider"] == nil {
		t.Fatalf("remembered tech stack = %v", stack)
	}
}

func TestAestheticArtistRemembersPrototypeAcrossChanges(t *testing.T) {
	responder := scripted("UI/UX Prototype URL: https://mockup.example.com/first\nDesign Guidelines:\nColor Palette: Warm", nil)
	a := NewAestheticArtist(responder, nil, WithClock(fixedClock))
	runTask(t, a, map[string]any{"task_name": "design_ui_ux", "concept_purpose": "recipes"})
	if got := a.Knowledge().RecallString("current_prototype_url"); got != "https://mockup.example.com/first" {
		t.Fatalf("remembered prototype = %q", got)
	}

	var changePrompt string
	a2 := NewAestheticArtist(ResponderFunc(func(ctx context.Context, prompt string) (string, error) {
		changePrompt = prompt
		return "New Prototype URL: https://mockup.example.com/second\nChanges Made: Bigger buttons", nil
	}), nil, WithClock(fixedClock))
	runTask(t, a2, map[string]any{"task_name": "design_ui_ux", "concept_purpose": "recipes"})
	first := a2.Knowledge().RecallString("current_prototype_url")
	runTask(t, a2, map[string]any{"task_name": "change_ui", "refinement_input": "bigger buttons"})
	if !strings.Contains(changePrompt, first) {
		t.Fatalf("change prompt should reference the remembered prototype %q:\n%s", first, changePrompt)
	}
	if got := a2.Knowledge().RecallString("current_prototype_url"); got != "https://mockup.example.com/second" {
		t.Fatalf("change should overwrite the remembered prototype, got %q", got)
	}
}
