package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadProfile(t *testing.T) {
	path := writeProfile(t, `
description: build a landing page
workspace_dir: /tmp/project
port: 8123
session: demo
`)

	profile, err := LoadProfile(path)
	require.NoError(t, err)

	assert.Equal(t, "build a landing page", profile.Description)
	assert.Equal(t, "/tmp/project", profile.WorkspaceDir)
	assert.Equal(t, 8123, profile.Port)
	assert.Equal(t, "demo", profile.Session)

	// defaults survive when the file omits them
	assert.True(t, profile.Synthesize)
	assert.True(t, profile.OpenBrowser)
}

func TestLoadProfile_OverridesDefaults(t *testing.T) {
	path := writeProfile(t, `
workspace_dir: /tmp/project
synthesize: false
open_browser: false
`)

	profile, err := LoadProfile(path)
	require.NoError(t, err)

	assert.False(t, profile.Synthesize)
	assert.False(t, profile.OpenBrowser)
}

func TestLoadProfile_MissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadProfile_InvalidYAML(t *testing.T) {
	path := writeProfile(t, "description: [unclosed")

	_, err := LoadProfile(path)
	assert.Error(t, err)
}

func TestProfile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr bool
	}{
		{
			name:    "valid synthesis profile",
			profile: Profile{WorkspaceDir: "/tmp/p", Description: "site", Synthesize: true},
		},
		{
			name:    "scan-only profile needs no description",
			profile: Profile{WorkspaceDir: "/tmp/p"},
		},
		{
			name:    "missing workspace",
			profile: Profile{Description: "site", Synthesize: true},
			wantErr: true,
		},
		{
			name:    "synthesis without description",
			profile: Profile{WorkspaceDir: "/tmp/p", Synthesize: true},
			wantErr: true,
		},
		{
			name:    "port out of range",
			profile: Profile{WorkspaceDir: "/tmp/p", Port: 70000},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOpenBrowser_UsesPlatformLauncher(t *testing.T) {
	var gotName string
	var gotArgs []string

	original := launchCommand
	launchCommand = func(name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	}
	defer func() { launchCommand = original }()

	require.NoError(t, OpenBrowser("http://localhost:9000/index.html"))

	assert.NotEmpty(t, gotName)
	require.NotEmpty(t, gotArgs)
	assert.Equal(t, "http://localhost:9000/index.html", gotArgs[len(gotArgs)-1])
}
