// Package provider abstracts the model backends. A Provider turns a
// completion request into a stream of events; the openai and gemini
// subpackages implement it for their respective SDKs.
package provider

import (
	"context"

	"github.com/google/uuid"
	"github.com/invopop/jsonschema"

	"github.com/scoutrun/routescout/internal/memory"
	"github.com/scoutrun/routescout/tool"
)

// Provider is implemented by model backends.
type Provider interface {
	ChatCompletion(context.Context, CompletionParams) (<-chan StreamEvent, error)
}

// CompletionParams carries everything a backend needs for one completion.
type CompletionParams struct {
	// RunID identifies the workflow run for event correlation.
	RunID uuid.UUID

	// Instructions is the rendered system prompt.
	Instructions string

	// Thread is the conversation history.
	Thread *memory.Thread

	// Stream selects incremental chunk delivery over a single response.
	Stream bool

	// ResponseSchema, when set, requests structured output.
	ResponseSchema *StructuredOutput

	// Model names the model to use. The interface mirrors api.Model without
	// importing it (the api package imports provider).
	Model interface {
		Name() string
		Provider() Provider
	}

	// Tools lists the functions the model may call.
	Tools []tool.Definition

	_ struct{} // prevent unkeyed literals
}

// StructuredOutput describes a schema-constrained response format.
type StructuredOutput struct {
	Name        string
	Description string
	Schema      *jsonschema.Schema
}
