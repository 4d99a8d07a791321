// Package messages defines the typed conversation messages exchanged between
// the user, agents, and tools: user prompts, assistant replies, tool call
// requests and tool responses. Every message travels in a Message envelope
// carrying run/turn identifiers, the sender, a timestamp, and optional
// provider metadata.
package messages
