package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile describes a materialization run loaded from a YAML file, so that
// repeated runs against the same project do not need the full flag set.
type Profile struct {
	// Description is the natural-language request handed to synthesis
	Description string `yaml:"description" json:"description"`

	// WorkspaceDir is the project root to scan and materialize into
	WorkspaceDir string `yaml:"workspace_dir" json:"workspace_dir"`

	// Port is the preview server port; 0 means use the configured default
	Port int `yaml:"port" json:"port"`

	// Synthesize controls whether the LLM pass runs at all
	Synthesize bool `yaml:"synthesize" json:"synthesize"`

	// OpenBrowser controls whether a browser opens once the preview is up
	OpenBrowser bool `yaml:"open_browser" json:"open_browser"`

	// Session names the preview session; empty means the default session
	Session string `yaml:"session" json:"session"`
}

// DefaultProfile returns a profile with defaults suitable for most runs.
func DefaultProfile() *Profile {
	return &Profile{
		Synthesize:  true,
		OpenBrowser: true,
	}
}

// Validate validates the profile.
func (p *Profile) Validate() error {
	if p.WorkspaceDir == "" {
		return fmt.Errorf("workspace_dir is required")
	}
	if p.Synthesize && p.Description == "" {
		return fmt.Errorf("description is required when synthesize is enabled")
	}
	if p.Port < 0 || p.Port > 65535 {
		return fmt.Errorf("port %d is out of range", p.Port)
	}
	return nil
}

// LoadProfile loads a run profile from a YAML file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	profile := DefaultProfile()
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}

	return profile, nil
}
