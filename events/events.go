// Package events defines the callback surface of a workflow run. A Hook
// receives every lifecycle event (user prompts, streaming chunks, tool
// calls and responses, errors) as the executor processes a conversation.
// Consumers range from the interactive console (rendering senders and
// markdown) to tests asserting on the exact event sequence.
package events

import (
	"context"
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/scoutrun/routescout/messages"
)

// Event is the union of everything a Hook can observe.
type Event interface {
	event()
}

// Delim marks stream boundaries ("start", "end").
type Delim struct {
	RunID  uuid.UUID `json:"run_id"`
	TurnID uuid.UUID `json:"turn_id"`
	Delim  string    `json:"delim"`
}

func (Delim) event() {}

// Request is an event flowing towards the model: a user prompt or a tool
// response.
type Request[T messages.Request] struct {
	RunID     uuid.UUID       `json:"run_id"`
	TurnID    uuid.UUID       `json:"turn_id"`
	Message   T               `json:"message"`
	Sender    string          `json:"sender,omitempty"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
	Meta      gjson.Result    `json:"meta,omitempty"`
}

func (Request[T]) event() {}

// Chunk is an incremental fragment of a streaming model response.
type Chunk[T messages.Response] struct {
	RunID     uuid.UUID       `json:"run_id"`
	TurnID    uuid.UUID       `json:"turn_id"`
	Chunk     T               `json:"chunk"`
	Sender    string          `json:"sender,omitempty"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
	Meta      gjson.Result    `json:"meta,omitempty"`
}

func (Chunk[T]) event() {}

// Response is a complete model response: an assistant message or a tool
// call request.
type Response[T messages.Response] struct {
	RunID     uuid.UUID       `json:"run_id"`
	TurnID    uuid.UUID       `json:"turn_id"`
	Response  T               `json:"response"`
	Sender    string          `json:"sender,omitempty"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
	Meta      gjson.Result    `json:"meta,omitempty"`
}

func (Response[T]) event() {}

// Result carries the typed final result of a run.
type Result[T any] struct {
	RunID     uuid.UUID       `json:"run_id"`
	TurnID    uuid.UUID       `json:"turn_id"`
	Result    T               `json:"result"`
	Sender    string          `json:"sender,omitempty"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
	Meta      gjson.Result    `json:"meta,omitempty"`
}

func (Result[T]) event() {}

// Error is an event and an error: it preserves the run context of the
// failure so hooks can report where a run went wrong.
type Error struct {
	RunID     uuid.UUID       `json:"run_id"`
	TurnID    uuid.UUID       `json:"turn_id"`
	Err       error           `json:"error"`
	Sender    string          `json:"sender,omitempty"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
	Meta      gjson.Result    `json:"meta,omitempty"`
}

func (Error) event() {}

func (e Error) Error() string {
	return fmt.Sprintf("run_id: %s, turn_id: %s, timestamp: %s, error: %v", e.RunID, e.TurnID, e.Timestamp, e.Err)
}

func (e Error) Unwrap() error {
	return e.Err
}

// Hook observes the lifecycle of a conversation run. Implementations must
// be safe for use from the executor goroutine.
type Hook interface {
	OnUserPrompt(context.Context, messages.Message[messages.UserMessage])
	OnAssistantChunk(context.Context, messages.Message[messages.AssistantMessage])
	OnToolCallChunk(context.Context, messages.Message[messages.ToolCallMessage])
	OnAssistantMessage(context.Context, messages.Message[messages.AssistantMessage])
	OnToolCallMessage(context.Context, messages.Message[messages.ToolCallMessage])
	OnToolCallResponse(context.Context, messages.Message[messages.ToolResponse])
	OnError(context.Context, error)
}

// NoopHook discards every event. Embed it to implement only the callbacks a
// consumer cares about.
type NoopHook struct{}

func (NoopHook) OnUserPrompt(context.Context, messages.Message[messages.UserMessage])            {}
func (NoopHook) OnAssistantChunk(context.Context, messages.Message[messages.AssistantMessage])   {}
func (NoopHook) OnToolCallChunk(context.Context, messages.Message[messages.ToolCallMessage])     {}
func (NoopHook) OnAssistantMessage(context.Context, messages.Message[messages.AssistantMessage]) {}
func (NoopHook) OnToolCallMessage(context.Context, messages.Message[messages.ToolCallMessage])   {}
func (NoopHook) OnToolCallResponse(context.Context, messages.Message[messages.ToolResponse])     {}
func (NoopHook) OnError(context.Context, error)                                                  {}
