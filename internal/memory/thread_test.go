package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutrun/routescout/messages"
)

func TestThreadForkJoin(t *testing.T) {
	thread := New()
	thread.AddUserPrompt(messages.New().WithSender("User").UserPrompt("find me a trail"))

	forked := thread.Fork()
	require.NotEqual(t, thread.ID(), forked.ID())
	assert.Equal(t, 1, forked.Len())
	assert.Equal(t, 0, forked.TurnLen())

	forked.AddAssistantMessage(messages.New().WithSender("scout").AssistantMessage("on it"))
	assert.Equal(t, 1, forked.TurnLen())
	assert.Equal(t, 1, thread.Len(), "fork must not touch the parent")

	thread.Join(forked)
	require.Equal(t, 2, thread.Len())

	last := thread.Messages()[1]
	assert.Equal(t, "scout", last.Sender)
}

func TestThreadJoinMergesUsage(t *testing.T) {
	thread := New()
	forked := thread.Fork()
	forked.AddUsage(&Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15})

	thread.Join(forked)
	assert.Equal(t, int64(15), thread.Usage().TotalTokens)
}

func TestCheckpointMergeInto(t *testing.T) {
	thread := New()
	thread.AddUserPrompt(messages.New().UserPrompt("hello"))

	forked := thread.Fork()
	forked.AddAssistantMessage(messages.New().WithSender("scout").AssistantMessage("hi"))

	checkpoint := forked.Checkpoint()
	checkpoint.MergeInto(thread)

	require.Equal(t, 2, thread.Len())
	assert.Equal(t, "scout", thread.Messages()[1].Sender)
}

func TestCheckpointJSONRoundTrip(t *testing.T) {
	thread := New()
	thread.AddUserPrompt(messages.New().WithSender("User").UserPrompt("hello"))
	thread.AddToolCall(messages.New().WithSender("scout").ToolCall([]messages.ToolCallData{
		{ID: "call-1", Name: "find_trailheads", Arguments: `{"param0":"galway"}`},
	}))
	thread.AddToolResponse(messages.New().ToolResponse("call-1", "find_trailheads", `{"status":"success"}`))
	thread.AddAssistantMessage(messages.New().WithSender("scout").AssistantMessage("two options"))
	thread.AddUsage(&Usage{TotalTokens: 7})

	checkpoint := thread.Checkpoint()
	data, err := checkpoint.MarshalJSON()
	require.NoError(t, err)

	var restored Checkpoint
	require.NoError(t, restored.UnmarshalJSON(data))
	assert.Equal(t, checkpoint.ID(), restored.ID())
	assert.Equal(t, int64(7), restored.Usage().TotalTokens)

	msgs := restored.Messages()
	require.Len(t, msgs, 4)

	user, ok := msgs[0].Payload.(messages.UserMessage)
	require.True(t, ok)
	assert.Equal(t, "hello", user.Content.Content)
	assert.Equal(t, "User", msgs[0].Sender)

	call, ok := msgs[1].Payload.(messages.ToolCallMessage)
	require.True(t, ok)
	require.Len(t, call.ToolCalls, 1)
	assert.Equal(t, "find_trailheads", call.ToolCalls[0].Name)
	assert.Equal(t, `{"param0":"galway"}`, call.ToolCalls[0].Arguments)

	response, ok := msgs[2].Payload.(messages.ToolResponse)
	require.True(t, ok)
	assert.Equal(t, "call-1", response.ToolCallID)

	answer, ok := msgs[3].Payload.(messages.AssistantMessage)
	require.True(t, ok)
	assert.Equal(t, "two options", answer.Content.Content)
}

func TestCheckpointJSONUnknownKind(t *testing.T) {
	var restored Checkpoint
	err := restored.UnmarshalJSON([]byte(`{
		"id": "018f3c80-0000-7000-8000-000000000000",
		"messages": [{"kind": "hologram", "payload": {}}],
		"usage": {},
		"init_len": 0
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hologram")
}
