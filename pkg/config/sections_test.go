package config

import (
	"testing"
)

func TestLLMSection_SetData(t *testing.T) {
	section := NewLLMSection()

	err := section.SetData(map[string]interface{}{
		"model":    "gpt-4.1",
		"base_url": "https://llm.internal/v1",
		"api_key":  "sk-test",
	})
	if err != nil {
		t.Fatalf("SetData failed: %v", err)
	}

	if section.GetModel() != "gpt-4.1" {
		t.Errorf("Model = %q", section.GetModel())
	}
	if section.GetBaseURL() != "https://llm.internal/v1" {
		t.Errorf("BaseURL = %q", section.GetBaseURL())
	}
	if section.GetAPIKey() != "sk-test" {
		t.Errorf("APIKey = %q", section.GetAPIKey())
	}
}

func TestLLMSection_SetDataIgnoresWrongTypes(t *testing.T) {
	section := NewLLMSection()
	section.SetModel("keep-me")

	if err := section.SetData(map[string]interface{}{"model": 42}); err != nil {
		t.Fatalf("SetData failed: %v", err)
	}
	if section.GetModel() != "keep-me" {
		t.Errorf("Model overwritten by non-string value: %q", section.GetModel())
	}
}

func TestPreviewSection_Defaults(t *testing.T) {
	section := NewPreviewSection()

	if section.GetPort() != DefaultPreviewPort {
		t.Errorf("Default port = %d, want %d", section.GetPort(), DefaultPreviewPort)
	}
	if !section.GetOpenBrowser() {
		t.Error("OpenBrowser should default to true")
	}
}

func TestPreviewSection_SetDataHandlesJSONNumbers(t *testing.T) {
	section := NewPreviewSection()

	// encoding/json decodes numbers as float64
	if err := section.SetData(map[string]interface{}{"port": float64(8123), "open_browser": false}); err != nil {
		t.Fatalf("SetData failed: %v", err)
	}

	if section.GetPort() != 8123 {
		t.Errorf("Port = %d, want 8123", section.GetPort())
	}
	if section.GetOpenBrowser() {
		t.Error("OpenBrowser should be false")
	}
}

func TestPreviewSection_Validate(t *testing.T) {
	section := NewPreviewSection()

	if err := section.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}

	section.SetPort(70000)
	if err := section.Validate(); err == nil {
		t.Error("Expected error for out-of-range port")
	}
}

func TestPreviewSection_Reset(t *testing.T) {
	section := NewPreviewSection()
	section.SetPort(8000)
	section.SetOpenBrowser(false)

	section.Reset()

	if section.GetPort() != DefaultPreviewPort || !section.GetOpenBrowser() {
		t.Error("Reset did not restore defaults")
	}
}
