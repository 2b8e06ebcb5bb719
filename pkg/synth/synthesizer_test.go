package synth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/stagehand/pkg/llm"
	"github.com/entrhq/stagehand/pkg/types"
)

// stubProvider returns a canned response or error for Complete.
type stubProvider struct {
	response string
	err      error
	prompts  []string
}

func (p *stubProvider) StreamCompletion(ctx context.Context, messages []*types.Message) (<-chan *llm.StreamChunk, error) {
	if p.err != nil {
		return nil, p.err
	}
	chunks := make(chan *llm.StreamChunk, 2)
	chunks <- &llm.StreamChunk{Role: "assistant", Content: p.response}
	chunks <- &llm.StreamChunk{Finished: true}
	close(chunks)
	return chunks, nil
}

func (p *stubProvider) Complete(ctx context.Context, messages []*types.Message) (*types.Message, error) {
	if p.err != nil {
		return nil, p.err
	}
	for _, m := range messages {
		p.prompts = append(p.prompts, m.Content)
	}
	return types.NewAssistantMessage(p.response), nil
}

func (p *stubProvider) GetModelInfo() *types.ModelInfo { return &types.ModelInfo{Name: "stub"} }
func (p *stubProvider) GetModel() string               { return "stub" }
func (p *stubProvider) GetBaseURL() string             { return "" }

func TestSynthesize_WritesParsedFiles(t *testing.T) {
	root := t.TempDir()
	provider := &stubProvider{
		response: "## File: run.sh\n```bash\necho hi\n```\n## File: docs/RUN.md\nOpen index.html",
	}

	s, err := New(provider, root)
	require.NoError(t, err)

	files, err := s.Synthesize(context.Background(), "a tiny site", "index.html")
	require.NoError(t, err)
	require.Len(t, files, 2)

	content, err := os.ReadFile(filepath.Join(root, "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, "echo hi", string(content))

	content, err = os.ReadFile(filepath.Join(root, "docs", "RUN.md"))
	require.NoError(t, err)
	assert.Equal(t, "Open index.html", string(content))
}

func TestSynthesize_MarksExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on Windows")
	}

	root := t.TempDir()
	provider := &stubProvider{response: "## File: run.sh\n```bash\necho hi\n```"}

	s, err := New(provider, root)
	require.NoError(t, err)

	_, err = s.Synthesize(context.Background(), "desc", "index.html")
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(root, "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestSynthesize_ProviderFailureReturnsZeroFiles(t *testing.T) {
	root := t.TempDir()
	provider := &stubProvider{err: errors.New("connection refused")}

	s, err := New(provider, root)
	require.NoError(t, err)

	files, err := s.Synthesize(context.Background(), "desc", "listing")
	assert.Error(t, err)
	assert.Empty(t, files)
}

func TestSynthesize_EmptyResponseIsNotAnError(t *testing.T) {
	root := t.TempDir()
	provider := &stubProvider{response: "sorry, nothing to add"}

	s, err := New(provider, root)
	require.NoError(t, err)

	files, err := s.Synthesize(context.Background(), "desc", "listing")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestSynthesize_RejectsEscapingPaths(t *testing.T) {
	root := t.TempDir()
	provider := &stubProvider{
		response: "## File: ../evil.sh\n```\nrm -rf /\n```\n## File: ok.sh\n```\necho ok\n```",
	}

	s, err := New(provider, root)
	require.NoError(t, err)

	files, err := s.Synthesize(context.Background(), "desc", "listing")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "ok.sh", files[0].Path)

	_, statErr := os.Stat(filepath.Join(filepath.Dir(root), "evil.sh"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSynthesize_OverwritesExistingFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "run.sh"), []byte("old"), 0644))

	provider := &stubProvider{response: "## File: run.sh\n```bash\necho new\n```"}

	s, err := New(provider, root)
	require.NoError(t, err)

	_, err = s.Synthesize(context.Background(), "desc", "listing")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(root, "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, "echo new", string(content))
}

func TestSynthesize_PromptCarriesDescriptionAndListing(t *testing.T) {
	root := t.TempDir()
	provider := &stubProvider{response: ""}

	s, err := New(provider, root)
	require.NoError(t, err)

	_, err = s.Synthesize(context.Background(), "a pomodoro timer", "index.html\napp.js")
	require.NoError(t, err)

	require.Len(t, provider.prompts, 2)
	assert.Contains(t, provider.prompts[1], "a pomodoro timer")
	assert.Contains(t, provider.prompts[1], "index.html\napp.js")
	assert.Contains(t, provider.prompts[1], "## File:")
}
