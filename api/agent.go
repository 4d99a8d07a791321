// Package api holds the interfaces that tie the framework together without
// forcing dependency cycles between the agent, provider, and executor
// packages.
package api

import (
	"github.com/scoutrun/routescout/tool"
	"github.com/scoutrun/routescout/types"
)

// Agent is an autonomous conversational unit: a name, a model, a set of
// tools, and instructions that may be templated over context variables.
type Agent interface {
	// Name returns the agent's unique identifier within a workflow.
	Name() string

	// Model returns the model configuration backing this agent.
	Model() Model

	// Tools returns the tool definitions this agent may invoke.
	Tools() []tool.Definition

	// ParallelToolCalls reports whether the agent allows the model to batch
	// independent tool calls in one turn.
	ParallelToolCalls() bool

	// RenderInstructions renders the agent's instruction template with the
	// provided context variables.
	RenderInstructions(types.ContextVars) (string, error)
}
