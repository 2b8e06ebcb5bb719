package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileBlocks_FencedAndPlain(t *testing.T) {
	response := "## File: run.sh\n```bash\necho hi\n```\n## File: notes.txt\nplain text"

	blocks := ParseFileBlocks(response)
	require.Len(t, blocks, 2)

	assert.Equal(t, "run.sh", blocks[0].Path)
	assert.Equal(t, "echo hi", blocks[0].Content)
	assert.Equal(t, "notes.txt", blocks[1].Path)
	assert.Equal(t, "plain text", blocks[1].Content)
}

func TestParseFileBlocks_NoHeadingsYieldsEmpty(t *testing.T) {
	blocks := ParseFileBlocks("The model decided to chat instead of producing files.")
	assert.Empty(t, blocks)
}

func TestParseFileBlocks_EmptyResponse(t *testing.T) {
	assert.Empty(t, ParseFileBlocks(""))
}

func TestParseFileBlocks_PreambleIgnored(t *testing.T) {
	response := "Here are your files:\n\n## File: start.sh\n```sh\nnpm start\n```"

	blocks := ParseFileBlocks(response)
	require.Len(t, blocks, 1)
	assert.Equal(t, "start.sh", blocks[0].Path)
	assert.Equal(t, "npm start", blocks[0].Content)
}

func TestParseFileBlocks_HeadingWhitespaceTrimmed(t *testing.T) {
	response := "## File:   scripts/run.sh  \n```\necho ok\n```"

	blocks := ParseFileBlocks(response)
	require.Len(t, blocks, 1)
	assert.Equal(t, "scripts/run.sh", blocks[0].Path)
}

func TestParseFileBlocks_FenceWithoutLanguageTag(t *testing.T) {
	response := "## File: Makefile\n```\nall:\n\techo build\n```"

	blocks := ParseFileBlocks(response)
	require.Len(t, blocks, 1)
	assert.Equal(t, "all:\n\techo build", blocks[0].Content)
}

func TestParseFileBlocks_UnterminatedFenceFallsBackToBody(t *testing.T) {
	// No closing fence: the whole body is used as content.
	response := "## File: run.sh\n```bash\necho hi"

	blocks := ParseFileBlocks(response)
	require.Len(t, blocks, 1)
	assert.Equal(t, "```bash\necho hi", blocks[0].Content)
}

func TestParseFileBlocks_EmptyNameSkipped(t *testing.T) {
	response := "## File:\norphan body\n## File: ok.sh\n```\necho ok\n```"

	blocks := ParseFileBlocks(response)
	require.Len(t, blocks, 1)
	assert.Equal(t, "ok.sh", blocks[0].Path)
}

func TestParseFileBlocks_CRLFResponse(t *testing.T) {
	response := "## File: run.bat\r\n```bat\r\necho hi\r\n```\r\n"

	blocks := ParseFileBlocks(response)
	require.Len(t, blocks, 1)
	assert.Equal(t, "run.bat", blocks[0].Path)
	assert.Equal(t, "echo hi", blocks[0].Content)
}
