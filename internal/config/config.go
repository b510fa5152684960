// Package config handles runtime configuration and the .genesis directory
// structure. Every project that runs genesis gets a .genesis/ folder created
// in its root, holding logs, the workflow rule document, model settings, and
// optional condition plugins.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// GenesisDir is the name of the directory created in each project.
	GenesisDir = ".genesis"

	defaultWorkflowFile = "appbuilder.yaml"
	defaultModelsFile   = "models.yaml"
	defaultMaxSteps     = 100
)

// RunConfig bounds the dispatch loop.
type RunConfig struct {
	MaxSteps int `yaml:"max_steps"`
}

// ProjectConfig models .genesis/config.yaml.
type ProjectConfig struct {
	Version  int       `yaml:"version"`
	Workflow string    `yaml:"workflow"`
	Models   string    `yaml:"models"`
	Run      RunConfig `yaml:"run"`
}

// Config holds the runtime configuration for genesis.
type Config struct {
	// ProjectDir is the directory where the user ran `genesis` from.
	ProjectDir string

	// GenesisProjectDir is ProjectDir/.genesis.
	GenesisProjectDir string

	Project ProjectConfig
}

// InitGenesisDir creates the .genesis directory structure in the given
// project directory and seeds the default configuration files when missing.
//
// Structure created:
// .genesis/
// ├── logs/        <- orchestration activity log
// ├── workflows/   <- workflow rule documents
// ├── conditions/  <- optional .go condition plugins (yaegi-interpreted)
// └── models.yaml  <- model router settings
func InitGenesisDir(projectDir string) error {
	genesisDir := filepath.Join(projectDir, GenesisDir)
	dirs := []string{
		filepath.Join(genesisDir, "logs"),
		filepath.Join(genesisDir, "workflows"),
		filepath.Join(genesisDir, "conditions"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	seeds := []struct {
		path    string
		content string
	}{
		{filepath.Join(genesisDir, "config.yaml"), defaultProjectConfigYAML},
		{filepath.Join(genesisDir, "workflows", defaultWorkflowFile), DefaultWorkflowYAML},
		{filepath.Join(genesisDir, defaultModelsFile), DefaultModelSettingsYAML},
	}
	for _, seed := range seeds {
		if err := ensureFile(seed.path, seed.content); err != nil {
			return err
		}
	}
	return nil
}

// NewConfig creates a Config populated with project settings, falling back to
// defaults when .genesis/config.yaml is absent.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:        projectDir,
		GenesisProjectDir: filepath.Join(projectDir, GenesisDir),
		Project:           defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.GenesisProjectDir, "logs")
}

// WorkflowPath returns the on-disk location of the workflow rule document.
func (c *Config) WorkflowPath() string {
	return c.resolve(c.Project.Workflow)
}

// ModelSettingsPath returns the on-disk location of the model settings file.
func (c *Config) ModelSettingsPath() string {
	return c.resolve(c.Project.Models)
}

// ConditionPluginsDir returns the directory scanned for condition plugins.
func (c *Config) ConditionPluginsDir() string {
	return filepath.Join(c.GenesisProjectDir, "conditions")
}

// MaxSteps returns the dispatch-loop step bound.
func (c *Config) MaxSteps() int {
	return c.Project.Run.MaxSteps
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.GenesisProjectDir, "config.yaml")
}

func (c *Config) resolve(rel string) string {
	trimmed := strings.TrimSpace(rel)
	if trimmed == "" {
		return c.GenesisProjectDir
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Join(c.GenesisProjectDir, filepath.FromSlash(trimmed))
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	parsed.applyDefaults()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version:  1,
		Workflow: filepath.Join("workflows", defaultWorkflowFile),
		Models:   defaultModelsFile,
		Run:      RunConfig{MaxSteps: defaultMaxSteps},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Workflow) == "" {
		pc.Workflow = filepath.Join("workflows", defaultWorkflowFile)
	}
	if strings.TrimSpace(pc.Models) == "" {
		pc.Models = defaultModelsFile
	}
	if pc.Run.MaxSteps <= 0 {
		pc.Run.MaxSteps = defaultMaxSteps
	}
}

func (pc ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Run.MaxSteps < 1 {
		return fmt.Errorf("run.max_steps must be >= 1")
	}
	return nil
}

func ensureFile(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
