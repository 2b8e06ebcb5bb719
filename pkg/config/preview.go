package config

import (
	"fmt"
	"sync"
)

const (
	// SectionIDPreview is the identifier for the preview server section
	SectionIDPreview = "preview"

	// DefaultPreviewPort is the port the preview server binds when none is configured
	DefaultPreviewPort = 9000
)

// PreviewSection manages preview server configuration settings.
type PreviewSection struct {
	Port        int
	OpenBrowser bool
	mu          sync.RWMutex
}

// NewPreviewSection creates a new preview section with default settings.
func NewPreviewSection() *PreviewSection {
	return &PreviewSection{
		Port:        DefaultPreviewPort,
		OpenBrowser: true,
	}
}

// ID returns the section identifier.
func (s *PreviewSection) ID() string {
	return SectionIDPreview
}

// Title returns the section title.
func (s *PreviewSection) Title() string {
	return "Preview Server"
}

// Description returns the section description.
func (s *PreviewSection) Description() string {
	return "Configure the local preview server port and whether a browser opens automatically."
}

// Data returns the current configuration data.
func (s *PreviewSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"port":         s.Port,
		"open_browser": s.OpenBrowser,
	}
}

// SetData updates the configuration from the provided data.
func (s *PreviewSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// JSON decodes numbers as float64
	switch port := data["port"].(type) {
	case float64:
		s.Port = int(port)
	case int:
		s.Port = port
	}

	if open, ok := data["open_browser"].(bool); ok {
		s.OpenBrowser = open
	}

	return nil
}

// Validate validates the current configuration.
func (s *PreviewSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("preview port %d is out of range", s.Port)
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *PreviewSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Port = DefaultPreviewPort
	s.OpenBrowser = true
}

// GetPort returns the configured preview port.
func (s *PreviewSection) GetPort() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Port
}

// SetPort sets the preview port.
func (s *PreviewSection) SetPort(port int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Port = port
}

// GetOpenBrowser reports whether a browser should open after a preview starts.
func (s *PreviewSection) GetOpenBrowser() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.OpenBrowser
}

// SetOpenBrowser sets whether a browser should open after a preview starts.
func (s *PreviewSection) SetOpenBrowser(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.OpenBrowser = open
}
