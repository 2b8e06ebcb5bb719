// Package synth asks the generation collaborator for run-script artifacts and
// materializes the parsed response beneath the project root.
package synth

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkoukk/tiktoken-go"

	"github.com/entrhq/stagehand/pkg/llm"
	"github.com/entrhq/stagehand/pkg/logging"
	"github.com/entrhq/stagehand/pkg/serialize"
	"github.com/entrhq/stagehand/pkg/types"
	"github.com/entrhq/stagehand/pkg/workspace"
)

// promptEncoding is the tokenizer used for prompt size estimates in logs.
const promptEncoding = "cl100k_base"

// Synthesizer requests launch artifacts from an LLM provider and writes the
// parsed files into the project tree.
type Synthesizer struct {
	provider llm.Provider
	guard    *workspace.Guard
	logger   *logging.Logger
}

// New creates a synthesizer rooted at the given project directory.
func New(provider llm.Provider, root string) (*Synthesizer, error) {
	guard, err := workspace.NewGuard(root)
	if err != nil {
		return nil, err
	}

	logger, _ := logging.NewLogger("synth") // fallback logger is still usable

	return &Synthesizer{
		provider: provider,
		guard:    guard,
		logger:   logger,
	}, nil
}

// Synthesize asks the provider for run-script artifacts and writes every
// parsed file beneath the project root, overwriting existing files and
// creating parent directories as needed.
//
// A provider failure returns zero files and the error; the caller is expected
// to report it and continue the pass. A well-formed call that parses to zero
// files is not an error: the caller reports "0 executables created".
func (s *Synthesizer) Synthesize(ctx context.Context, description, listing string) ([]FileBlock, error) {
	prompt := buildPrompt(description, listing)
	s.logPromptSize(prompt)

	response, err := s.provider.Complete(ctx, []*types.Message{
		types.NewSystemMessage(synthesisSystemPrompt),
		types.NewUserMessage(prompt),
	})
	if err != nil {
		return nil, fmt.Errorf("generation call failed: %w", err)
	}
	s.logger.Debugf("provider response: %s", serialize.String(response))

	blocks := ParseFileBlocks(response.Content)
	s.logger.Infof("parsed %d file blocks from synthesis response", len(blocks))

	written := make([]FileBlock, 0, len(blocks))
	for _, block := range blocks {
		if err := s.writeFile(block); err != nil {
			s.logger.Warnf("skipping synthesized file %q: %v", block.Path, err)
			continue
		}
		written = append(written, block)
	}

	return written, nil
}

// writeFile materializes one synthesized file beneath the project root.
func (s *Synthesizer) writeFile(block FileBlock) error {
	if err := s.guard.ValidateRelPath(block.Path); err != nil {
		return err
	}

	absPath, err := s.guard.ResolvePath(block.Path)
	if err != nil {
		return err
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(absPath), 0755); mkdirErr != nil {
		return fmt.Errorf("failed to create directories: %w", mkdirErr)
	}

	if writeErr := os.WriteFile(absPath, []byte(block.Content), 0644); writeErr != nil {
		return fmt.Errorf("failed to write file: %w", writeErr)
	}

	s.markExecutable(absPath)
	return nil
}

// markExecutable grants owner/group/other execute permission on POSIX-like
// targets. The bit is advisory; failure to set it never fails the write.
func (s *Synthesizer) markExecutable(absPath string) {
	if runtime.GOOS == "windows" {
		return
	}
	if err := os.Chmod(absPath, 0755); err != nil {
		s.logger.Warnf("could not mark %s executable: %v", absPath, err)
	}
}

// logPromptSize records a token estimate for the outgoing prompt.
func (s *Synthesizer) logPromptSize(prompt string) {
	enc, err := tiktoken.GetEncoding(promptEncoding)
	if err != nil {
		s.logger.Debugf("token estimate unavailable: %v", err)
		return
	}
	s.logger.Debugf("synthesis prompt is ~%d tokens", len(enc.Encode(prompt, nil, nil)))
}
