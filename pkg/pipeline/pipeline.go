// Package pipeline orchestrates a materialization pass: scan the generated
// project, synthesize any requested run scripts, patch the HTML entry point
// for module scripts, and serve the result on a local preview server.
//
// A pass is deliberately forgiving. Only a failed scan aborts it; synthesis,
// patching, and preview failures are reported as events and the pass carries
// on, so a user always gets as much of a preview as the project allows.
package pipeline

import (
	"context"
	"fmt"

	"github.com/entrhq/stagehand/pkg/llm"
	"github.com/entrhq/stagehand/pkg/logging"
	"github.com/entrhq/stagehand/pkg/patch"
	"github.com/entrhq/stagehand/pkg/preview"
	"github.com/entrhq/stagehand/pkg/scanner"
	"github.com/entrhq/stagehand/pkg/serialize"
	"github.com/entrhq/stagehand/pkg/synth"
	"github.com/entrhq/stagehand/pkg/types"
)

// Request describes a single materialization pass.
type Request struct {
	// WorkspaceDir is the project root to materialize.
	WorkspaceDir string

	// Description is the natural-language request used to synthesize run
	// scripts. Ignored unless Synthesize is set.
	Description string

	// Session names the preview session the pass belongs to. Empty uses
	// the default session.
	Session string

	// Port is the preview server port. Zero binds an ephemeral port.
	Port int

	// Synthesize controls whether the LLM synthesis step runs.
	Synthesize bool
}

// Result carries the outcome of a materialization pass.
type Result struct {
	// Inventory is the final project inventory, rescanned after synthesis.
	Inventory *scanner.Inventory

	// Synthesized lists the files written by the synthesis step.
	Synthesized []synth.FileBlock

	// PreviewURL is the served entry point URL, empty if no server started.
	PreviewURL string

	// Events is the ordered milestone log of the pass.
	Events []*types.PipelineEvent
}

// Materializer runs materialization passes against a preview registry.
type Materializer struct {
	provider llm.Provider
	registry *preview.Registry
	logger   *logging.Logger
}

// New creates a materializer. The provider may be nil when synthesis is
// never requested. A nil registry uses the process-wide default registry.
func New(provider llm.Provider, registry *preview.Registry) *Materializer {
	// NewLogger falls back to stderr when file logging is unavailable
	logger, _ := logging.NewLogger("pipeline")
	if registry == nil {
		registry = preview.DefaultRegistry()
	}
	return &Materializer{
		provider: provider,
		registry: registry,
		logger:   logger,
	}
}

// Registry returns the preview registry the materializer serves through.
func (m *Materializer) Registry() *preview.Registry {
	return m.registry
}

// Run executes one materialization pass. The returned Result always carries
// the events emitted so far, including when the pass aborts on a scan error.
func (m *Materializer) Run(ctx context.Context, req Request) (*Result, error) {
	result := &Result{}

	inv, err := m.scan(req.WorkspaceDir, result)
	if err != nil {
		return result, err
	}
	result.Inventory = inv

	if req.Synthesize {
		m.synthesize(ctx, req, result)

		// Synthesis may have written new files, including the entry point
		if len(result.Synthesized) > 0 {
			if rescanned, rescanErr := m.rescan(req.WorkspaceDir); rescanErr == nil {
				result.Inventory = rescanned
			}
		}
	}

	m.patchEntry(result)
	m.serve(req, result)

	m.emit(result, types.NewPipelineEvent(types.EventTypePassComplete, m.passSummary(result)))
	return result, nil
}

// Shutdown stops every preview server the materializer has started.
func (m *Materializer) Shutdown() {
	m.registry.StopAll()
	m.logger.Infof("all preview sessions stopped")
}

func (m *Materializer) scan(root string, result *Result) (*scanner.Inventory, error) {
	m.emit(result, types.NewPipelineEvent(types.EventTypeScanStart,
		fmt.Sprintf("scanning %s", root)))

	inv, err := m.rescan(root)
	if err != nil {
		m.emit(result, types.NewPipelineEvent(types.EventTypeError,
			"project scan failed").WithError(err))
		return nil, fmt.Errorf("project scan failed: %w", err)
	}

	event := types.NewPipelineEvent(types.EventTypeScanComplete,
		fmt.Sprintf("found %d files (%s)", len(inv.Files), inv.Kind)).
		WithMetadata("kind", string(inv.Kind)).
		WithMetadata("files", len(inv.Files))
	if inv.Entry != nil {
		event = event.WithMetadata("entry", inv.Entry.File)
	}
	m.emit(result, event)

	return inv, nil
}

func (m *Materializer) rescan(root string) (*scanner.Inventory, error) {
	s, err := scanner.New(root)
	if err != nil {
		return nil, err
	}
	return s.Scan()
}

func (m *Materializer) synthesize(ctx context.Context, req Request, result *Result) {
	if m.provider == nil {
		m.emit(result, types.NewPipelineEvent(types.EventTypeError,
			"synthesis requested but no LLM provider is configured").
			WithError(fmt.Errorf("no provider")))
		return
	}

	m.emit(result, types.NewPipelineEvent(types.EventTypeSynthesisStart,
		"synthesizing run scripts"))

	synthesizer, err := synth.New(m.provider, req.WorkspaceDir)
	if err != nil {
		m.emit(result, types.NewPipelineEvent(types.EventTypeError,
			"synthesis setup failed").WithError(err))
		return
	}

	blocks, err := synthesizer.Synthesize(ctx, req.Description, result.Inventory.Listing())
	if err != nil {
		m.emit(result, types.NewPipelineEvent(types.EventTypeError,
			"synthesis failed").WithError(err))
		return
	}

	result.Synthesized = blocks
	m.emit(result, types.NewPipelineEvent(types.EventTypeSynthesisComplete,
		fmt.Sprintf("synthesized %d files", len(blocks))).
		WithMetadata("files", len(blocks)))
}

func (m *Materializer) patchEntry(result *Result) {
	entry := result.Inventory.Entry
	if entry == nil {
		m.emit(result, types.NewPipelineEvent(types.EventTypePatchSkipped,
			"no HTML entry point to patch"))
		return
	}

	changed, err := patch.Apply(entry.Path())
	if err != nil {
		m.emit(result, types.NewPipelineEvent(types.EventTypeError,
			fmt.Sprintf("failed to patch %s", entry.File)).WithError(err))
		return
	}

	if changed {
		m.emit(result, types.NewPipelineEvent(types.EventTypePatchApplied,
			fmt.Sprintf("marked app.js as a module in %s", entry.File)))
	} else {
		m.emit(result, types.NewPipelineEvent(types.EventTypePatchSkipped,
			fmt.Sprintf("%s needed no changes", entry.File)))
	}
}

func (m *Materializer) serve(req Request, result *Result) {
	entry := result.Inventory.Entry
	if entry == nil {
		return
	}

	session := req.Session
	if session == "" {
		session = preview.DefaultSession
	}
	server := m.registry.Get(session)

	// Start stops a prior instance itself; surface that as a milestone
	if server.Running() {
		m.emit(result, types.NewPipelineEvent(types.EventTypeServerStopped,
			fmt.Sprintf("stopping previous preview of %s", server.Directory())).
			WithMetadata("session", session))
	}

	if err := server.Start(entry.Dir, req.Port); err != nil {
		fallback := FileURL(entry.Path())
		m.emit(result, types.NewPipelineEvent(types.EventTypeServerBindFailed,
			fmt.Sprintf("could not bind port %d; open %s directly", req.Port, fallback)).
			WithError(err).
			WithMetadata("fallback_url", fallback))
		return
	}

	result.PreviewURL = server.URL(entry.File)
	m.emit(result, func() *types.PipelineEvent {
		e := types.NewPipelineEvent(types.EventTypeServerStarted,
			fmt.Sprintf("preview available at %s", result.PreviewURL))
		e.URL = result.PreviewURL
		return e.WithMetadata("session", session).WithMetadata("port", server.Port())
	}())
}

func (m *Materializer) passSummary(result *Result) string {
	if result.PreviewURL != "" {
		return fmt.Sprintf("materialization complete: %s", result.PreviewURL)
	}
	if result.Inventory != nil && result.Inventory.Entry == nil {
		return "materialization complete: no HTML entry point, nothing to preview"
	}
	return "materialization complete"
}

func (m *Materializer) emit(result *Result, event *types.PipelineEvent) {
	result.Events = append(result.Events, event)
	if event.IsError() {
		m.logger.Errorf("%s: %v", event.Message, event.Error)
	} else {
		m.logger.Infof("%s", event.Message)
	}
	if len(event.Metadata) > 0 {
		m.logger.Debugf("%s metadata: %s", event.Type, renderMetadata(event.Metadata))
	}
}

// renderMetadata stringifies event metadata for logs. Metadata values are
// arbitrary pipeline objects, so they go through the crash-proof serializer.
func renderMetadata(metadata map[string]interface{}) string {
	return serialize.String(metadata)
}
