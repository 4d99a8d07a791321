package provider

import (
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/scoutrun/routescout/internal/memory"
	"github.com/scoutrun/routescout/messages"
)

// StreamEvent is the union of events a provider can emit for one
// completion: stream delimiters, incremental chunks, complete responses,
// and errors.
type StreamEvent interface {
	streamEvent()
}

// Delim marks stream boundaries.
type Delim struct {
	RunID  uuid.UUID `json:"run_id"`
	TurnID uuid.UUID `json:"turn_id"`
	Delim  string    `json:"delim"`
}

func (Delim) streamEvent() {}

// Chunk is an incremental fragment of a streaming response.
type Chunk[T messages.Response] struct {
	RunID     uuid.UUID       `json:"run_id"`
	TurnID    uuid.UUID       `json:"turn_id"`
	Chunk     T               `json:"chunk"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
	Meta      gjson.Result    `json:"meta,omitempty"`
}

func (Chunk[T]) streamEvent() {}

// Response is a complete model response, paired with a checkpoint of the
// thread state the backend saw, so the executor can merge it into whichever
// thread survives a fork.
type Response[T messages.Response] struct {
	RunID      uuid.UUID         `json:"run_id"`
	TurnID     uuid.UUID         `json:"turn_id"`
	Checkpoint memory.Checkpoint `json:"checkpoint"`
	Response   T                 `json:"response"`
	Timestamp  strfmt.DateTime   `json:"timestamp,omitempty"`
	Meta       gjson.Result      `json:"meta,omitempty"`
}

func (Response[T]) streamEvent() {}

// Error is a provider-side failure with its run context preserved.
type Error struct {
	RunID     uuid.UUID       `json:"run_id"`
	TurnID    uuid.UUID       `json:"turn_id"`
	Err       error           `json:"error"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
	Meta      gjson.Result    `json:"meta,omitempty"`
}

func (Error) streamEvent() {}

func (e Error) Error() string {
	return fmt.Sprintf("run_id: %s, turn_id: %s, timestamp: %s, error: %v", e.RunID, e.TurnID, e.Timestamp, e.Err)
}

func (e Error) Unwrap() error {
	return e.Err
}
