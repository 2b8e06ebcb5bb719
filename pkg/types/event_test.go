package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPipelineEvent(t *testing.T) {
	event := NewPipelineEvent(EventTypeScanComplete, "scan complete: 3 files")

	assert.Equal(t, EventTypeScanComplete, event.Type)
	assert.Equal(t, "scan complete: 3 files", event.Message)
	assert.NotNil(t, event.Metadata)
	assert.False(t, event.IsError())
}

func TestPipelineEvent_WithMetadata(t *testing.T) {
	event := NewPipelineEvent(EventTypeSynthesisComplete, "2 executables created").
		WithMetadata("file_count", 2)

	assert.Equal(t, 2, event.Metadata["file_count"])
}

func TestPipelineEvent_WithError(t *testing.T) {
	bindErr := errors.New("address already in use")
	event := NewPipelineEvent(EventTypeServerBindFailed, "failed to start server").
		WithError(bindErr)

	assert.True(t, event.IsError())
	assert.Equal(t, bindErr, event.Error)
}

func TestPipelineEvent_IsError(t *testing.T) {
	tests := []struct {
		name      string
		eventType PipelineEventType
		want      bool
	}{
		{"scan complete is not an error", EventTypeScanComplete, false},
		{"patch skipped is not an error", EventTypePatchSkipped, false},
		{"error event", EventTypeError, true},
		{"bind failure", EventTypeServerBindFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := NewPipelineEvent(tt.eventType, "msg")
			assert.Equal(t, tt.want, event.IsError())
		})
	}
}

func TestMessageConstructors(t *testing.T) {
	assert.Equal(t, RoleSystem, NewSystemMessage("s").Role)
	assert.Equal(t, RoleUser, NewUserMessage("u").Role)
	assert.Equal(t, RoleAssistant, NewAssistantMessage("a").Role)
	assert.Equal(t, "u", NewUserMessage("u").Content)
}
