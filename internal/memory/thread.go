// Package memory manages the short-term conversation state of a workflow
// run: the ordered message thread, fork/join for parallel scouting branches,
// and token usage accounting.
package memory

import (
	"fmt"
	"iter"
	"slices"

	"github.com/go-openapi/strfmt"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/scoutrun/routescout/messages"
	"github.com/scoutrun/routescout/pkg/uuidx"
)

// Thread holds the ordered messages of one conversation. A thread can be
// forked for a parallel branch and joined back; only messages added after
// the fork point travel on a join.
type Thread struct {
	id       uuid.UUID
	messages []messages.Message[messages.ModelMessage]
	initLen  int
	usage    Usage
}

// New creates an empty thread with a fresh identity.
func New() *Thread {
	return &Thread{
		id:       uuidx.New(),
		messages: make([]messages.Message[messages.ModelMessage], 0),
	}
}

// ID returns the thread identity. Forked threads get their own ID.
func (t *Thread) ID() uuid.UUID {
	return t.id
}

// Len returns the number of messages in the thread.
func (t *Thread) Len() int {
	return len(t.messages)
}

// TurnLen returns the number of messages added since the thread was forked.
func (t *Thread) TurnLen() int {
	return len(t.messages) - t.initLen
}

// Messages returns a copy of the thread's messages.
func (t *Thread) Messages() []messages.Message[messages.ModelMessage] {
	return slices.Clone(t.messages)
}

// MessagesIter iterates the thread's messages without copying.
func (t *Thread) MessagesIter() iter.Seq[messages.Message[messages.ModelMessage]] {
	return slices.Values(t.messages)
}

func eraseType[T messages.ModelMessage](m messages.Message[T]) messages.Message[messages.ModelMessage] {
	return messages.Message[messages.ModelMessage]{
		RunID:     m.RunID,
		TurnID:    m.TurnID,
		Payload:   m.Payload,
		Sender:    m.Sender,
		Timestamp: m.Timestamp,
		Meta:      m.Meta,
	}
}

// AddUserPrompt appends a user message.
func (t *Thread) AddUserPrompt(m messages.Message[messages.UserMessage]) {
	t.add(eraseType(m))
}

// AddAssistantMessage appends an assistant reply.
func (t *Thread) AddAssistantMessage(m messages.Message[messages.AssistantMessage]) {
	t.add(eraseType(m))
}

// AddToolCall appends a tool call request.
func (t *Thread) AddToolCall(m messages.Message[messages.ToolCallMessage]) {
	t.add(eraseType(m))
}

// AddToolResponse appends a tool result.
func (t *Thread) AddToolResponse(m messages.Message[messages.ToolResponse]) {
	t.add(eraseType(m))
}

func (t *Thread) add(m messages.Message[messages.ModelMessage]) {
	t.messages = append(t.messages, m)
}

// Usage returns accumulated token usage.
func (t *Thread) Usage() Usage {
	return t.usage
}

// AddUsage merges u into the thread's usage counters.
func (t *Thread) AddUsage(u *Usage) {
	t.usage.Add(u)
}

// Fork creates a new thread seeded with the current messages. The fork
// point is remembered so Join appends only what the branch added.
func (t *Thread) Fork() *Thread {
	return &Thread{
		id:       uuidx.New(),
		messages: slices.Clone(t.messages),
		initLen:  t.Len(),
	}
}

// Join appends the messages b added after its fork point, and merges its
// usage counters.
func (t *Thread) Join(b *Thread) {
	t.messages = append(t.messages, b.messages[b.initLen:]...)
	t.usage.Add(&b.usage)
}

// Checkpoint snapshots the thread state.
func (t *Thread) Checkpoint() Checkpoint {
	return Checkpoint{
		id:       t.id,
		messages: slices.Clone(t.messages),
		usage:    t.usage,
		initLen:  t.initLen,
	}
}

// Checkpoint is an immutable snapshot of a thread, taken by providers so a
// completed response can be merged into whichever thread survives.
type Checkpoint struct {
	id       uuid.UUID
	messages []messages.Message[messages.ModelMessage]
	usage    Usage
	initLen  int
}

// ID returns the snapshotted thread's identity.
func (c *Checkpoint) ID() uuid.UUID {
	return c.id
}

// Messages returns a copy of the snapshotted messages.
func (c *Checkpoint) Messages() []messages.Message[messages.ModelMessage] {
	return slices.Clone(c.messages)
}

// Usage returns the snapshotted usage counters.
func (c *Checkpoint) Usage() Usage {
	return c.usage
}

// MergeInto appends the checkpoint's post-fork messages into other and
// merges usage.
func (c *Checkpoint) MergeInto(other *Thread) {
	other.messages = append(other.messages, c.messages[c.initLen:]...)
	other.usage.Add(&c.usage)
	if other.id == uuid.Nil {
		other.id = c.id
	}
}

// envelope wraps a message with a kind tag so the interface payload can be
// decoded back into its concrete type.
type envelope struct {
	Kind      string          `json:"kind"`
	RunID     uuid.UUID       `json:"run_id"`
	TurnID    uuid.UUID       `json:"turn_id"`
	Sender    string          `json:"sender,omitempty"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
	Meta      json.RawMessage `json:"meta,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

const (
	kindInstructions = "instructions"
	kindUser         = "user"
	kindAssistant    = "assistant"
	kindToolCall     = "tool_call"
	kindToolResponse = "tool_response"
)

func sealMessage(m messages.Message[messages.ModelMessage]) (envelope, error) {
	var kind string
	switch m.Payload.(type) {
	case messages.InstructionsMessage:
		kind = kindInstructions
	case messages.UserMessage:
		kind = kindUser
	case messages.AssistantMessage:
		kind = kindAssistant
	case messages.ToolCallMessage:
		kind = kindToolCall
	case messages.ToolResponse:
		kind = kindToolResponse
	default:
		return envelope{}, fmt.Errorf("memory: cannot serialize message payload %T", m.Payload)
	}

	payload, err := json.Marshal(m.Payload)
	if err != nil {
		return envelope{}, err
	}

	e := envelope{
		Kind:      kind,
		RunID:     m.RunID,
		TurnID:    m.TurnID,
		Sender:    m.Sender,
		Timestamp: m.Timestamp,
		Payload:   payload,
	}
	if m.Meta.Raw != "" {
		e.Meta = json.RawMessage(m.Meta.Raw)
	}
	return e, nil
}

func openMessage(e envelope) (messages.Message[messages.ModelMessage], error) {
	decode := func(out messages.ModelMessage) (messages.Message[messages.ModelMessage], error) {
		m := messages.Message[messages.ModelMessage]{
			RunID:     e.RunID,
			TurnID:    e.TurnID,
			Payload:   out,
			Sender:    e.Sender,
			Timestamp: e.Timestamp,
		}
		if len(e.Meta) > 0 {
			m.Meta = gjson.ParseBytes(e.Meta)
		}
		return m, nil
	}

	switch e.Kind {
	case kindInstructions:
		var p messages.InstructionsMessage
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return messages.Message[messages.ModelMessage]{}, err
		}
		return decode(p)
	case kindUser:
		var p messages.UserMessage
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return messages.Message[messages.ModelMessage]{}, err
		}
		return decode(p)
	case kindAssistant:
		var p messages.AssistantMessage
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return messages.Message[messages.ModelMessage]{}, err
		}
		return decode(p)
	case kindToolCall:
		var p messages.ToolCallMessage
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return messages.Message[messages.ModelMessage]{}, err
		}
		return decode(p)
	case kindToolResponse:
		var p messages.ToolResponse
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return messages.Message[messages.ModelMessage]{}, err
		}
		return decode(p)
	default:
		return messages.Message[messages.ModelMessage]{}, fmt.Errorf("memory: unknown message kind %q", e.Kind)
	}
}

func (c Checkpoint) MarshalJSON() ([]byte, error) {
	envelopes := make([]envelope, len(c.messages))
	for i, m := range c.messages {
		e, err := sealMessage(m)
		if err != nil {
			return nil, err
		}
		envelopes[i] = e
	}

	return json.Marshal(struct {
		ID       string     `json:"id"`
		Messages []envelope `json:"messages"`
		Usage    Usage      `json:"usage"`
		InitLen  int        `json:"init_len"`
	}{
		ID:       c.id.String(),
		Messages: envelopes,
		Usage:    c.usage,
		InitLen:  c.initLen,
	})
}

func (c *Checkpoint) UnmarshalJSON(data []byte) error {
	var tmp struct {
		ID       string     `json:"id"`
		Messages []envelope `json:"messages"`
		Usage    Usage      `json:"usage"`
		InitLen  int        `json:"init_len"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	id, err := uuid.Parse(tmp.ID)
	if err != nil {
		return err
	}

	msgs := make([]messages.Message[messages.ModelMessage], len(tmp.Messages))
	for i, e := range tmp.Messages {
		m, err := openMessage(e)
		if err != nil {
			return err
		}
		msgs[i] = m
	}

	c.id = id
	c.messages = msgs
	c.usage = tmp.Usage
	c.initLen = tmp.InitLen
	return nil
}
