package router

import (
	"os"
	"path/filepath"
	"testing"
)

func testGetenv(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestDetailsForAgentOverride(t *testing.T) {
	settings := Settings{
		Provider: "lm_studio",
		Agents: map[string]Override{
			"Code Sage": {Provider: "lm_studio", Model: "qwen/qwen2.5-coder-14b", Host: "10.0.0.31", Port: 1234},
		},
	}
	r := NewRouter(settings, nil, WithGetenv(testGetenv(nil)))

	details := r.DetailsFor("Code Sage")
	if details.Provider != "lm_studio" {
		t.Fatalf("Provider = %q", details.Provider)
	}
	if details.APIBase != "http://10.0.0.31:1234/v1" {
		t.Fatalf("APIBase = %q", details.APIBase)
	}
	if details.ModelName != "qwen/qwen2.5-coder-14b" {
		t.Fatalf("ModelName = %q", details.ModelName)
	}
	if details.APIKey != "lm-studio" {
		t.Fatalf("APIKey = %q", details.APIKey)
	}
}

func TestDetailsForAPIProviderReadsEnvKey(t *testing.T) {
	settings := Settings{
		Agents: map[string]Override{
			"Quality Guardian": {Provider: "openrouter", Model: "deepseek-ai/deepseek-v3-0324"},
		},
	}
	env := map[string]string{"OPENROUTER_API_KEY": "test-key-123"}
	r := NewRouter(settings, nil, WithGetenv(testGetenv(env)))

	details := r.DetailsFor("Quality Guardian")
	if details.APIBase != "https://openrouter.ai/api/v1" {
		t.Fatalf("APIBase = %q", details.APIBase)
	}
	if details.APIKey != "test-key-123" {
		t.Fatalf("APIKey = %q", details.APIKey)
	}
}

func TestDetailsForUnknownAgentUsesDefault(t *testing.T) {
	settings := Settings{
		Provider: "openrouter",
		Default:  &Override{Provider: "openrouter", Model: "google/gemma-7b-it"},
	}
	env := map[string]string{"OPENROUTER_API_KEY": "k"}
	r := NewRouter(settings, nil, WithGetenv(testGetenv(env)))

	details := r.DetailsFor("Nobody In Particular")
	if details.Provider != "openrouter" || details.ModelName != "google/gemma-7b-it" {
		t.Fatalf("unexpected default resolution: %+v", details)
	}
}

func TestDetailsForUnknownProviderFallsBack(t *testing.T) {
	settings := Settings{
		Agents: map[string]Override{
			"Dream Weaver": {Provider: "made_up", Model: "m"},
		},
	}
	r := NewRouter(settings, nil, WithGetenv(testGetenv(nil)))

	details := r.DetailsFor("Dream Weaver")
	if details.Provider != "lm_studio" {
		t.Fatalf("Provider = %q, want lm_studio", details.Provider)
	}
	if details.APIBase != "http://localhost:1234/v1" {
		t.Fatalf("APIBase = %q", details.APIBase)
	}
}

func TestLoadDegradesToDefaultsOnMissingFile(t *testing.T) {
	r := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	details := r.DetailsFor("anyone")
	if details.Provider != "lm_studio" || details.ModelName != fallbackModel {
		t.Fatalf("unexpected fallback details: %+v", details)
	}
}

func TestLoadDegradesToDefaultsOnMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	if err := os.WriteFile(path, []byte("provider: [broken\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r := Load(path, nil)
	if got := r.DetailsFor("anyone").Provider; got != "lm_studio" {
		t.Fatalf("Provider = %q, want lm_studio", got)
	}
}

func TestEndpointMirrorsDetails(t *testing.T) {
	settings := Settings{
		Agents: map[string]Override{
			"Dream Weaver": {Provider: "lm_studio", Model: "mistralai/mistral-nemo-instruct-2407"},
		},
	}
	r := NewRouter(settings, nil, WithGetenv(testGetenv(nil)))
	ep := r.Endpoint("Dream Weaver")
	if ep.BaseURL != "http://localhost:1234/v1" || ep.Model != "mistralai/mistral-nemo-instruct-2407" {
		t.Fatalf("unexpected endpoint: %+v", ep)
	}
}
