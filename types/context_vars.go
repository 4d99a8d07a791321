// Package types provides core type definitions shared across the framework.
package types

import json "github.com/goccy/go-json"

// ContextVars is a key-value store of variables available to agent
// instruction templates and tool functions. The scouting workflow uses it to
// carry each step's output (geocoded coordinates, route data, elevation
// analysis) into the instructions of downstream agents.
//
// ContextVars is a plain map and is not safe for concurrent mutation;
// callers that fan out work must copy it per branch.
type ContextVars map[string]any

// String returns the JSON representation, or "" when marshaling fails.
func (cv ContextVars) String() string {
	jsonData, err := json.Marshal(cv)
	if err != nil {
		return ""
	}
	return string(jsonData)
}
