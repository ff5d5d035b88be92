package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RunSettings is the YAML-backed configuration of the engine and the poll
// loop. It is read once at startup; the settings tabs do not write it.
type RunSettings struct {
	// LLM configuration
	LLM LLMSettings `yaml:"llm"`

	// Browser configuration
	Browser BrowserSettings `yaml:"browser"`

	// Orchestrator timing
	Orchestrator OrchestratorSettings `yaml:"orchestrator"`

	// Web UI listen address, e.g. ":8080"
	Listen string `yaml:"listen"`
}

// LLMSettings selects the completion endpoint and model.
type LLMSettings struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// BrowserSettings configures the Chromium instance.
type BrowserSettings struct {
	Headless       bool    `yaml:"headless"`
	ViewportWidth  int     `yaml:"viewport_width"`
	ViewportHeight int     `yaml:"viewport_height"`
	MaxSteps       int     `yaml:"max_steps"`
	ActionTimeout  float64 `yaml:"action_timeout_ms"`
	PageTextLimit  int     `yaml:"page_text_limit"`
	RecordingDir   string  `yaml:"recording_dir"`
}

// OrchestratorSettings configures the poll loop and cancellation waits.
type OrchestratorSettings struct {
	PollInterval Duration `yaml:"poll_interval"`
	CancelWait   Duration `yaml:"cancel_wait"`
	ClearWait    Duration `yaml:"clear_wait"`
}

// Duration is a time.Duration that unmarshals from YAML scalars in
// time.ParseDuration form ("500ms", "2s") or as bare millisecond integers.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var asInt int64
	if err := value.Decode(&asInt); err == nil {
		*d = Duration(time.Duration(asInt) * time.Millisecond)
		return nil
	}

	var asString string
	if err := value.Decode(&asString); err != nil {
		return fmt.Errorf("invalid duration value %q", value.Value)
	}
	parsed, err := time.ParseDuration(asString)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", asString, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// DefaultRunSettings returns the settings used when no file is present.
func DefaultRunSettings() RunSettings {
	return RunSettings{
		LLM: LLMSettings{
			Model: "gpt-4o",
		},
		Browser: BrowserSettings{
			Headless:       true,
			ViewportWidth:  1280,
			ViewportHeight: 800,
			MaxSteps:       40,
			ActionTimeout:  15000,
			PageTextLimit:  8000,
		},
		Orchestrator: OrchestratorSettings{
			PollInterval: Duration(500 * time.Millisecond),
			CancelWait:   Duration(2 * time.Second),
			ClearWait:    Duration(time.Second),
		},
		Listen: ":8080",
	}
}

// LoadRunSettings reads settings from a YAML file, filling unset fields
// from the defaults. A missing file yields pure defaults; a malformed one
// is an error.
func LoadRunSettings(path string) (RunSettings, error) {
	settings := DefaultRunSettings()

	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse settings file: %w", err)
	}

	settings.fillDefaults()
	return settings, nil
}

// fillDefaults replaces zero values with defaults so a sparse file still
// yields a complete configuration.
func (s *RunSettings) fillDefaults() {
	defaults := DefaultRunSettings()

	if s.LLM.Model == "" {
		s.LLM.Model = defaults.LLM.Model
	}
	if s.Browser.ViewportWidth == 0 {
		s.Browser.ViewportWidth = defaults.Browser.ViewportWidth
	}
	if s.Browser.ViewportHeight == 0 {
		s.Browser.ViewportHeight = defaults.Browser.ViewportHeight
	}
	if s.Browser.MaxSteps == 0 {
		s.Browser.MaxSteps = defaults.Browser.MaxSteps
	}
	if s.Browser.ActionTimeout == 0 {
		s.Browser.ActionTimeout = defaults.Browser.ActionTimeout
	}
	if s.Browser.PageTextLimit == 0 {
		s.Browser.PageTextLimit = defaults.Browser.PageTextLimit
	}
	if s.Orchestrator.PollInterval == 0 {
		s.Orchestrator.PollInterval = defaults.Orchestrator.PollInterval
	}
	if s.Orchestrator.CancelWait == 0 {
		s.Orchestrator.CancelWait = defaults.Orchestrator.CancelWait
	}
	if s.Orchestrator.ClearWait == 0 {
		s.Orchestrator.ClearWait = defaults.Orchestrator.ClearWait
	}
	if s.Listen == "" {
		s.Listen = defaults.Listen
	}
}
