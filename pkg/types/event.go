package types

// PipelineEventType defines the type of event emitted during a materialization pass.
type PipelineEventType string

const (
	EventTypeScanStart          PipelineEventType = "scan_start"           // EventTypeScanStart indicates the project scan has begun.
	EventTypeScanComplete       PipelineEventType = "scan_complete"        // EventTypeScanComplete indicates the project scan finished and the inventory is available.
	EventTypeSynthesisStart     PipelineEventType = "synthesis_start"      // EventTypeSynthesisStart indicates run-script synthesis has begun.
	EventTypeSynthesisComplete  PipelineEventType = "synthesis_complete"   // EventTypeSynthesisComplete indicates synthesis finished (possibly with zero files).
	EventTypePatchApplied       PipelineEventType = "patch_applied"        // EventTypePatchApplied indicates the HTML entry point was rewritten.
	EventTypePatchSkipped       PipelineEventType = "patch_skipped"        // EventTypePatchSkipped indicates the entry point was already correct or absent.
	EventTypeServerStarted      PipelineEventType = "server_started"       // EventTypeServerStarted indicates the preview server is accepting requests.
	EventTypeServerStopped      PipelineEventType = "server_stopped"       // EventTypeServerStopped indicates the preview server was torn down.
	EventTypeServerBindFailed   PipelineEventType = "server_bind_failed"   // EventTypeServerBindFailed indicates the preview port could not be bound.
	EventTypePassComplete       PipelineEventType = "pass_complete"        // EventTypePassComplete indicates the materialization pass finished.
	EventTypeError              PipelineEventType = "error"                // EventTypeError indicates a non-fatal error surfaced during the pass.
)

// PipelineEvent is a single milestone emitted while a materialization pass runs.
// Events form an ordered, human-readable progress log; they are not a
// structured protocol beyond the fields below.
type PipelineEvent struct {
	// Metadata holds optional additional information about the event.
	Metadata map[string]interface{}

	// Error contains error information for error and bind-failure events.
	Error error

	// Message is the human-readable milestone text.
	Message string

	// URL is the preview URL for server_started events.
	URL string

	// Type indicates the kind of event.
	Type PipelineEventType
}

// NewPipelineEvent creates an event of the given type with a message.
func NewPipelineEvent(eventType PipelineEventType, message string) *PipelineEvent {
	return &PipelineEvent{
		Type:     eventType,
		Message:  message,
		Metadata: make(map[string]interface{}),
	}
}

// WithMetadata adds metadata to the event and returns it for chaining.
func (e *PipelineEvent) WithMetadata(key string, value interface{}) *PipelineEvent {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithError attaches an error to the event and returns it for chaining.
func (e *PipelineEvent) WithError(err error) *PipelineEvent {
	e.Error = err
	return e
}

// IsError returns true for error and bind-failure events.
func (e *PipelineEvent) IsError() bool {
	return e.Type == EventTypeError || e.Type == EventTypeServerBindFailed
}
