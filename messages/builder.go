package messages

import (
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/tidwall/gjson"
)

// New starts a message builder stamped with the current time.
func New() messageBuilder {
	return messageBuilder{timestamp: strfmt.DateTime(time.Now())}
}

type messageBuilder struct {
	sender    string
	timestamp strfmt.DateTime
	meta      gjson.Result
	_         struct{}
}

func (b messageBuilder) WithSender(sender string) messageBuilder {
	b.sender = sender
	return b
}

func (b messageBuilder) WithTimestamp(ts strfmt.DateTime) messageBuilder {
	b.timestamp = ts
	return b
}

func (b messageBuilder) WithMetadata(meta gjson.Result) messageBuilder {
	b.meta = meta
	return b
}

// Instructions builds a system instructions message.
func (b messageBuilder) Instructions(content string) Message[InstructionsMessage] {
	return Message[InstructionsMessage]{
		Payload:   InstructionsMessage{Content: content},
		Sender:    b.sender,
		Timestamp: b.timestamp,
		Meta:      b.meta,
	}
}

// UserPrompt builds a plain-text user message.
func (b messageBuilder) UserPrompt(content string) Message[UserMessage] {
	return Message[UserMessage]{
		Payload:   UserMessage{Content: ContentOrParts{Content: content}},
		Sender:    b.sender,
		Timestamp: b.timestamp,
		Meta:      b.meta,
	}
}

// AssistantMessage builds a plain-text assistant message.
func (b messageBuilder) AssistantMessage(content string) Message[AssistantMessage] {
	return Message[AssistantMessage]{
		Payload:   AssistantMessage{Content: AssistantContentOrParts{Content: content}},
		Sender:    b.sender,
		Timestamp: b.timestamp,
		Meta:      b.meta,
	}
}

// ToolCall builds a message requesting the given tool invocations.
func (b messageBuilder) ToolCall(calls []ToolCallData) Message[ToolCallMessage] {
	return Message[ToolCallMessage]{
		Payload:   ToolCallMessage{ToolCalls: calls},
		Sender:    b.sender,
		Timestamp: b.timestamp,
		Meta:      b.meta,
	}
}

// ToolResponse builds a message carrying a tool result back to the model.
func (b messageBuilder) ToolResponse(callID, toolName, content string) Message[ToolResponse] {
	return Message[ToolResponse]{
		Payload: ToolResponse{
			ToolCallID: callID,
			ToolName:   toolName,
			Content:    content,
		},
		Sender:    b.sender,
		Timestamp: b.timestamp,
		Meta:      b.meta,
	}
}
