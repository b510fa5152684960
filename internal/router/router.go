// Package router resolves which model backend serves each agent. Settings
// come from a YAML file with a global provider, an optional default override,
// and per-agent overrides; API keys come from environment variables only.
package router

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/genesisforge/genesis/internal/llm"
)

// Logger is the minimal logging dependency. A nil Logger is valid.
type Logger interface {
	Printf(format string, args ...any)
}

// Override adjusts routing for one agent (or the shared default).
type Override struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	// Host and Port rebuild the API base for local lm_studio backends.
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Settings models the model settings file.
type Settings struct {
	Provider string              `yaml:"provider"`
	Default  *Override           `yaml:"default"`
	Agents   map[string]Override `yaml:"agents"`
}

// Details is a fully resolved backend for one agent.
type Details struct {
	Provider  string
	APIBase   string
	ModelName string
	APIKey    string
}

type providerConfig struct {
	displayName string
	apiBase     string
	apiKey      string
	apiKeyEnv   string
}

var providerConfigs = map[string]providerConfig{
	"lm_studio": {
		displayName: "LM Studio (Local)",
		apiBase:     "http://localhost:1234/v1",
		apiKey:      "lm-studio",
	},
	"openrouter": {
		displayName: "OpenRouter",
		apiBase:     "https://openrouter.ai/api/v1",
		apiKeyEnv:   "OPENROUTER_API_KEY",
	},
	"openai": {
		displayName: "OpenAI",
		apiBase:     "https://api.openai.com/v1",
		apiKeyEnv:   "OPENAI_API_KEY",
	},
	"ollama": {
		displayName: "Ollama (Local)",
		apiBase:     "http://localhost:11434/api",
	},
	"lmdeploy": {
		displayName: "LMDeploy (Local)",
		apiBase:     "http://localhost:23333/v1",
	},
}

const (
	fallbackProvider = "lm_studio"
	fallbackModel    = "Mistral-Nemo-Instruct-12B"
)

// Router answers routing queries. It is read-only after construction.
type Router struct {
	settings Settings
	logger   Logger
	getenv   func(string) string
}

// Option customizes a Router.
type Option func(*Router)

// WithGetenv replaces the environment lookup, primarily for tests.
func WithGetenv(getenv func(string) string) Option {
	return func(r *Router) { r.getenv = getenv }
}

// NewRouter builds a router from already-parsed settings.
func NewRouter(settings Settings, logger Logger, opts ...Option) *Router {
	settings.applyDefaults()
	r := &Router{settings: settings, logger: logger, getenv: os.Getenv}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load reads the settings file at path. Any failure (missing file, malformed
// YAML, missing keys) degrades to built-in defaults with a logged warning;
// routing never stops the application.
func Load(path string, logger Logger) *Router {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logf(logger, "router: read %s: %v; using default settings", path, err)
		}
		return NewRouter(defaultSettings(), logger)
	}
	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		logf(logger, "router: parse %s: %v; using default settings", path, err)
		return NewRouter(defaultSettings(), logger)
	}
	return NewRouter(settings, logger)
}

// DetailsFor resolves the backend for the named agent, applying the agent's
// override, then the default override, then built-in fallbacks.
func (r *Router) DetailsFor(agentName string) Details {
	override, ok := r.settings.Agents[agentName]
	if !ok {
		override = *r.settings.Default
	}

	provider := strings.TrimSpace(override.Provider)
	if provider == "" {
		provider = r.settings.Provider
	}
	base, ok := providerConfigs[provider]
	if !ok {
		logf(r.logger, "router: unknown provider %q for agent %q; falling back to %s", provider, agentName, fallbackProvider)
		provider = fallbackProvider
		base = providerConfigs[fallbackProvider]
	}

	details := Details{
		Provider: provider,
		APIBase:  base.apiBase,
		APIKey:   base.apiKey,
	}

	details.ModelName = strings.TrimSpace(override.Model)
	if details.ModelName == "" {
		logf(r.logger, "router: no model configured for agent %q; using %s", agentName, fallbackModel)
		details.ModelName = fallbackModel
	}

	if provider == "lm_studio" && override.Port > 0 {
		host := strings.TrimSpace(override.Host)
		if host == "" {
			host = "localhost"
		}
		details.APIBase = fmt.Sprintf("http://%s:%d/v1", host, override.Port)
	}

	if base.apiKeyEnv != "" {
		details.APIKey = r.getenv(base.apiKeyEnv)
		if details.APIKey == "" {
			logf(r.logger, "router: %s is not set; calls to %s may fail", base.apiKeyEnv, provider)
		}
	}
	return details
}

// Endpoint adapts DetailsFor into the shape the llm client consumes.
func (r *Router) Endpoint(agentName string) llm.Endpoint {
	details := r.DetailsFor(agentName)
	return llm.Endpoint{
		BaseURL: details.APIBase,
		Model:   details.ModelName,
		APIKey:  details.APIKey,
	}
}

// Assignments summarizes which backend serves each configured agent, keyed by
// agent name, with the shared default listed under "default". Useful for
// status display.
func (r *Router) Assignments() map[string]Details {
	out := make(map[string]Details, len(r.settings.Agents)+1)
	for name := range r.settings.Agents {
		out[name] = r.DetailsFor(name)
	}
	out["default"] = r.DetailsFor("")
	return out
}

// DisplayName returns the user-facing name for a provider id.
func DisplayName(provider string) string {
	if cfg, ok := providerConfigs[provider]; ok {
		return cfg.displayName
	}
	return provider
}

func defaultSettings() Settings {
	s := Settings{}
	s.applyDefaults()
	return s
}

func (s *Settings) applyDefaults() {
	if strings.TrimSpace(s.Provider) == "" {
		s.Provider = fallbackProvider
	}
	if s.Default == nil {
		s.Default = &Override{Provider: fallbackProvider, Model: fallbackModel}
	}
	if s.Agents == nil {
		s.Agents = map[string]Override{}
	}
}

func logf(logger Logger, format string, args ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, args...)
}
