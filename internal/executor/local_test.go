package executor

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutrun/routescout/agent"
	"github.com/scoutrun/routescout/api"
	"github.com/scoutrun/routescout/events"
	"github.com/scoutrun/routescout/internal/memory"
	"github.com/scoutrun/routescout/messages"
	"github.com/scoutrun/routescout/provider"
	"github.com/scoutrun/routescout/tool"
	"github.com/scoutrun/routescout/types"
)

// scriptProvider plays back one canned turn per completion call.
type scriptProvider struct {
	mu    sync.Mutex
	turns []func(provider.CompletionParams) []provider.StreamEvent
}

func (s *scriptProvider) ChatCompletion(_ context.Context, params provider.CompletionParams) (<-chan provider.StreamEvent, error) {
	s.mu.Lock()
	turn := s.turns[0]
	s.turns = s.turns[1:]
	s.mu.Unlock()

	ch := make(chan provider.StreamEvent, 4)
	go func() {
		defer close(ch)
		for _, ev := range turn(params) {
			ch <- ev
		}
	}()
	return ch, nil
}

type scriptModel struct {
	name string
	prov provider.Provider
}

func (m *scriptModel) Name() string                { return m.name }
func (m *scriptModel) Provider() provider.Provider { return m.prov }

var _ api.Model = (*scriptModel)(nil)

func assistantTurn(content string) func(provider.CompletionParams) []provider.StreamEvent {
	return func(params provider.CompletionParams) []provider.StreamEvent {
		return []provider.StreamEvent{
			provider.Response[messages.AssistantMessage]{
				RunID:      params.RunID,
				TurnID:     params.Thread.ID(),
				Checkpoint: params.Thread.Checkpoint(),
				Response: messages.AssistantMessage{
					Content: messages.AssistantContentOrParts{Content: content},
				},
			},
		}
	}
}

func toolCallTurn(name, arguments string) func(provider.CompletionParams) []provider.StreamEvent {
	return func(params provider.CompletionParams) []provider.StreamEvent {
		return []provider.StreamEvent{
			provider.Response[messages.ToolCallMessage]{
				RunID:      params.RunID,
				TurnID:     params.Thread.ID(),
				Checkpoint: params.Thread.Checkpoint(),
				Response: messages.ToolCallMessage{
					ToolCalls: []messages.ToolCallData{{ID: "call-1", Name: name, Arguments: arguments}},
				},
			},
		}
	}
}

func TestLocalRunCompletesPromise(t *testing.T) {
	prov := &scriptProvider{turns: []func(provider.CompletionParams) []provider.StreamEvent{
		assistantTurn("lake loop it is"),
	}}
	a := agent.New(
		agent.Name("scout"),
		agent.Model(&scriptModel{name: "scripted", prov: prov}),
		agent.Instructions("scout routes"),
	)

	thread := memory.New()
	thread.AddUserPrompt(messages.New().WithSender("User").UserPrompt("where to run?"))

	cmd, err := NewRunCommand(a, thread, events.NoopHook{})
	require.NoError(t, err)

	fut := NewFuture(DefaultUnmarshal[string]())
	require.NoError(t, NewLocal().Run(context.Background(), cmd, fut))

	result, err := fut.Get()
	require.NoError(t, err)
	assert.Equal(t, "lake loop it is", result)

	msgs := thread.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "scout", msgs[1].Sender)
}

func TestLocalRunDispatchesToolCall(t *testing.T) {
	prov := &scriptProvider{turns: []func(provider.CompletionParams) []provider.StreamEvent{
		toolCallTurn("lookup", `{"area":"golden gate park"}`),
		assistantTurn("found it"),
	}}

	var gotArea string
	lookup := tool.Must(func(area string) string {
		gotArea = area
		return "trailhead at stow lake"
	}, tool.Name("lookup"), tool.Parameters("area"))

	a := agent.New(
		agent.Name("scout"),
		agent.Model(&scriptModel{name: "scripted", prov: prov}),
		agent.Instructions("scout routes"),
		agent.Tools(lookup),
	)

	thread := memory.New()
	thread.AddUserPrompt(messages.New().WithSender("User").UserPrompt("find trails"))

	cmd, err := NewRunCommand(a, thread, events.NoopHook{})
	require.NoError(t, err)

	fut := NewFuture(DefaultUnmarshal[string]())
	require.NoError(t, NewLocal().Run(context.Background(), cmd, fut))

	result, err := fut.Get()
	require.NoError(t, err)
	assert.Equal(t, "found it", result)
	assert.Equal(t, "golden gate park", gotArea)

	// user prompt, tool call, tool response, assistant answer
	require.Len(t, thread.Messages(), 4)
	_, ok := thread.Messages()[2].Payload.(messages.ToolResponse)
	assert.True(t, ok)
}

func TestLocalRunAgentHandoff(t *testing.T) {
	prov := &scriptProvider{turns: []func(provider.CompletionParams) []provider.StreamEvent{
		toolCallTurn("transfer", `{}`),
		assistantTurn("analyst here"),
	}}
	model := &scriptModel{name: "scripted", prov: prov}

	analyst := agent.New(
		agent.Name("analyst"),
		agent.Model(model),
		agent.Instructions("analyze"),
	)
	transfer := tool.Must(func() api.Agent { return analyst }, tool.Name("transfer"))

	a := agent.New(
		agent.Name("scout"),
		agent.Model(model),
		agent.Instructions("scout"),
		agent.Tools(transfer),
	)

	thread := memory.New()
	thread.AddUserPrompt(messages.New().WithSender("User").UserPrompt("grade the route"))

	cmd, err := NewRunCommand(a, thread, events.NoopHook{})
	require.NoError(t, err)

	fut := NewFuture(DefaultUnmarshal[string]())
	require.NoError(t, NewLocal().Run(context.Background(), cmd, fut))

	result, err := fut.Get()
	require.NoError(t, err)
	assert.Equal(t, "analyst here", result)

	msgs := thread.Messages()
	assert.Equal(t, "analyst", msgs[len(msgs)-1].Sender)
}

func TestLocalRunMaxTurns(t *testing.T) {
	prov := &scriptProvider{turns: []func(provider.CompletionParams) []provider.StreamEvent{
		toolCallTurn("noop", `{}`),
		toolCallTurn("noop", `{}`),
	}}

	noop := tool.Must(func() string { return "ok" }, tool.Name("noop"))
	a := agent.New(
		agent.Name("scout"),
		agent.Model(&scriptModel{name: "scripted", prov: prov}),
		agent.Instructions("scout"),
		agent.Tools(noop),
	)

	thread := memory.New()
	thread.AddUserPrompt(messages.New().WithSender("User").UserPrompt("loop"))

	cmd, err := NewRunCommand(a, thread, events.NoopHook{})
	require.NoError(t, err)

	fut := NewFuture(DefaultUnmarshal[string]())
	err = NewLocal().Run(context.Background(), cmd.WithMaxTurns(2), fut)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max turns")
}

func TestBuildArgList(t *testing.T) {
	args := buildArgList(
		`{"area":"presidio","radius_km":5}`,
		map[string]string{"param0": "area", "param1": "radius_km"},
	)

	require.Len(t, args, 2)
	assert.Equal(t, "presidio", args[0].Interface())
	assert.InDelta(t, 5.0, args[1].Interface(), 0.001)
}

func TestBuildArgListHoldsOmittedSlots(t *testing.T) {
	args := buildArgList(
		`{"destination":"baker beach"}`,
		map[string]string{"param0": "origin", "param1": "destination"},
	)

	require.Len(t, args, 2)
	assert.False(t, args[0].IsValid(), "an omitted argument must not shift the ones after it")
	assert.Equal(t, "baker beach", args[1].Interface())
}

func TestCallFunctionZeroFillsOmittedArgs(t *testing.T) {
	var gotOrigin, gotDestination string
	_, err := callFunction(func(origin, destination string) string {
		gotOrigin, gotDestination = origin, destination
		return ""
	}, []reflect.Value{{}, reflect.ValueOf("baker beach")}, nil)

	require.NoError(t, err)
	assert.Empty(t, gotOrigin)
	assert.Equal(t, "baker beach", gotDestination)
}

func TestCallFunctionReturnKinds(t *testing.T) {
	res, err := callFunction(func() string { return "plain" }, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "plain", res.Value)

	res, err = callFunction(func() int { return 42 }, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "42", res.Value)

	res, err = callFunction(func() float64 { return 6.5 }, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "6.5", res.Value)

	type payload struct {
		Status string `json:"status"`
	}
	res, err = callFunction(func() payload { return payload{Status: "success"} }, nil, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success"}`, res.Value)

	res, err = callFunction(func() types.ContextVars {
		return types.ContextVars{"route_plan": "5k loop"}
	}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "5k loop", res.ContextVariables["route_plan"])

	_, err = callFunction(func() error { return assert.AnError }, nil, nil)
	require.Error(t, err)
}

func TestCallFunctionInjectsContextVars(t *testing.T) {
	cv := types.ContextVars{"location_report": "two parks"}
	var seen types.ContextVars

	_, err := callFunction(func(vars types.ContextVars) string {
		seen = vars
		return "ok"
	}, nil, cv)
	require.NoError(t, err)
	assert.Equal(t, "two parks", seen["location_report"])
}
