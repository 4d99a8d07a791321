// Package gemini implements the provider interface on top of the Gemini
// API via the google.golang.org/genai SDK.
package gemini

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"sync"
	"time"

	"github.com/go-openapi/strfmt"
	json "github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"google.golang.org/genai"

	"github.com/scoutrun/routescout/internal/memory"
	"github.com/scoutrun/routescout/messages"
	"github.com/scoutrun/routescout/provider"
)

type Provider struct {
	apiKey string

	mu     sync.Mutex
	client *genai.Client
}

// New creates a provider. An empty API key defers to the GEMINI_API_KEY
// environment variable, which the SDK reads on its own.
func New(apiKey string) *Provider {
	return &Provider{apiKey: apiKey}
}

func (p *Provider) conn(ctx context.Context) (*genai.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	p.client = client
	return client, nil
}

func (p *Provider) ChatCompletion(ctx context.Context, params provider.CompletionParams) (<-chan provider.StreamEvent, error) {
	client, err := p.conn(ctx)
	if err != nil {
		return nil, err
	}

	contents, config, err := buildRequest(&params)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	events := make(chan provider.StreamEvent, 10)
	go func() {
		defer close(events)
		if params.Stream {
			p.runStream(ctx, client, contents, config, &params, events)
		} else {
			p.runOnce(ctx, client, contents, config, &params, events)
		}
	}()
	return events, nil
}

func buildRequest(params *provider.CompletionParams) ([]*genai.Content, *genai.GenerateContentConfig, error) {
	contents, err := messagesToGenai(params.Thread.MessagesIter())
	if err != nil {
		return nil, nil, err
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.1),
	}
	if strings.TrimSpace(params.Instructions) != "" {
		config.SystemInstruction = genai.NewContentFromText(params.Instructions, genai.RoleUser)
	}

	if len(params.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, len(params.Tools))
		for i, tool := range params.Tools {
			if tool.Function == nil {
				return nil, nil, fmt.Errorf("tool %s has nil function", tool.Name)
			}
			name, schema := tool.ToNameAndSchema()
			decls[i] = &genai.FunctionDeclaration{
				Name:        name,
				Description: tool.Description,
				Parameters:  toGenaiSchema(schema),
			}
		}
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	} else if params.ResponseSchema != nil {
		// Gemini rejects requests that combine function declarations with a
		// constrained response schema, so structured output only applies to
		// tool-less agents.
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = toGenaiSchema(params.ResponseSchema.Schema)
	}

	return contents, config, nil
}

func (p *Provider) runOnce(ctx context.Context, client *genai.Client, contents []*genai.Content, config *genai.GenerateContentConfig, command *provider.CompletionParams, events chan<- provider.StreamEvent) {
	resp, err := client.Models.GenerateContent(ctx, command.Model.Name(), contents, config)
	if err != nil {
		events <- provider.Error{
			Err:       err,
			RunID:     command.RunID,
			TurnID:    command.Thread.ID(),
			Timestamp: strfmt.DateTime(time.Now()),
		}
		return
	}

	recordUsage(command.Thread, resp.UsageMetadata)
	events <- responseToStreamEvent(resp.FunctionCalls(), resp.Text(), command)
}

func (p *Provider) runStream(ctx context.Context, client *genai.Client, contents []*genai.Content, config *genai.GenerateContentConfig, command *provider.CompletionParams, events chan<- provider.StreamEvent) {
	var (
		text     strings.Builder
		calls    []*genai.FunctionCall
		usage    *genai.GenerateContentResponseUsageMetadata
		notFirst bool
	)

	for resp, err := range client.Models.GenerateContentStream(ctx, command.Model.Name(), contents, config) {
		if err != nil {
			events <- provider.Error{
				Err:       err,
				RunID:     command.RunID,
				TurnID:    command.Thread.ID(),
				Timestamp: strfmt.DateTime(time.Now()),
			}
			return
		}
		if ctx.Err() != nil {
			events <- provider.Error{
				Err:       ctx.Err(),
				RunID:     command.RunID,
				TurnID:    command.Thread.ID(),
				Timestamp: strfmt.DateTime(time.Now()),
			}
			return
		}

		if !notFirst {
			notFirst = true
			events <- provider.Delim{Delim: "start"}
		}

		if resp.UsageMetadata != nil {
			usage = resp.UsageMetadata
		}
		calls = append(calls, resp.FunctionCalls()...)

		if chunk := resp.Text(); chunk != "" {
			text.WriteString(chunk)
			events <- provider.Chunk[messages.AssistantMessage]{
				RunID:  command.RunID,
				TurnID: command.Thread.ID(),
				Chunk: messages.AssistantMessage{
					Content: messages.AssistantContentOrParts{Content: chunk},
				},
				Timestamp: strfmt.DateTime(time.Now()),
			}
		}
	}

	if notFirst {
		events <- provider.Delim{Delim: "end"}
	}
	recordUsage(command.Thread, usage)
	events <- responseToStreamEvent(calls, text.String(), command)
}

func recordUsage(thread *memory.Thread, usage *genai.GenerateContentResponseUsageMetadata) {
	if usage == nil {
		return
	}
	thread.AddUsage(&memory.Usage{
		PromptTokens:     int64(usage.PromptTokenCount),
		CompletionTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:      int64(usage.TotalTokenCount),
	})
}

func responseToStreamEvent(calls []*genai.FunctionCall, text string, command *provider.CompletionParams) provider.StreamEvent {
	if len(calls) > 0 {
		tcd := make([]messages.ToolCallData, len(calls))
		for i, call := range calls {
			args, err := json.Marshal(call.Args)
			if err != nil {
				return provider.Error{
					Err:       fmt.Errorf("failed to encode arguments for %s: %w", call.Name, err),
					RunID:     command.RunID,
					TurnID:    command.Thread.ID(),
					Timestamp: strfmt.DateTime(time.Now()),
				}
			}
			id := call.ID
			if id == "" {
				id = fmt.Sprintf("%s-%d", call.Name, i)
			}
			tcd[i] = messages.ToolCallData{
				ID:        id,
				Name:      call.Name,
				Arguments: string(args),
			}
		}

		return provider.Response[messages.ToolCallMessage]{
			RunID:      command.RunID,
			TurnID:     command.Thread.ID(),
			Checkpoint: command.Thread.Checkpoint(),
			Response:   messages.ToolCallMessage{ToolCalls: tcd},
			Timestamp:  strfmt.DateTime(time.Now()),
		}
	}

	return provider.Response[messages.AssistantMessage]{
		RunID:      command.RunID,
		TurnID:     command.Thread.ID(),
		Checkpoint: command.Thread.Checkpoint(),
		Response: messages.AssistantMessage{
			Content: messages.AssistantContentOrParts{Content: text},
		},
		Timestamp: strfmt.DateTime(time.Now()),
	}
}

func messagesToGenai(iter iter.Seq[messages.Message[messages.ModelMessage]]) ([]*genai.Content, error) {
	var result []*genai.Content
	for message := range iter {
		switch msg := message.Payload.(type) {
		case messages.UserMessage:
			var parts []*genai.Part
			if msg.Content.Content != "" {
				parts = append(parts, genai.NewPartFromText(msg.Content.Content))
			}
			for _, part := range msg.Content.Parts {
				if part, ok := part.(messages.TextContentPart); ok {
					parts = append(parts, genai.NewPartFromText(part.Text))
				}
			}
			result = append(result, &genai.Content{Role: genai.RoleUser, Parts: parts})
		case messages.AssistantMessage:
			var parts []*genai.Part
			if msg.Content.Content != "" {
				parts = append(parts, genai.NewPartFromText(msg.Content.Content))
			}
			for _, part := range msg.Content.Parts {
				if part, ok := part.(messages.TextContentPart); ok {
					parts = append(parts, genai.NewPartFromText(part.Text))
				}
			}
			result = append(result, &genai.Content{Role: genai.RoleModel, Parts: parts})
		case messages.ToolCallMessage:
			parts := make([]*genai.Part, len(msg.ToolCalls))
			for i, tc := range msg.ToolCalls {
				args := map[string]any{}
				if tc.Arguments != "" {
					if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
						return nil, fmt.Errorf("failed to decode arguments for %s: %w", tc.Name, err)
					}
				}
				parts[i] = &genai.Part{FunctionCall: &genai.FunctionCall{
					ID:   tc.ID,
					Name: tc.Name,
					Args: args,
				}}
			}
			result = append(result, &genai.Content{Role: genai.RoleModel, Parts: parts})
		case messages.ToolResponse:
			result = append(result, &genai.Content{
				Role: genai.RoleUser,
				Parts: []*genai.Part{{FunctionResponse: &genai.FunctionResponse{
					ID:       msg.ToolCallID,
					Name:     msg.ToolName,
					Response: map[string]any{"output": msg.Content},
				}}},
			})
		}
	}
	return result, nil
}

// toGenaiSchema converts the reflected jsonschema tree into the SDK's
// schema type. Only the vocabulary tool schemas produce is covered.
func toGenaiSchema(schema *jsonschema.Schema) *genai.Schema {
	if schema == nil {
		return nil
	}

	out := &genai.Schema{
		Description: schema.Description,
		Required:    schema.Required,
	}

	switch schema.Type {
	case "object":
		out.Type = genai.TypeObject
		if schema.Properties != nil {
			out.Properties = make(map[string]*genai.Schema, schema.Properties.Len())
			for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
				out.Properties[pair.Key] = toGenaiSchema(pair.Value)
			}
		}
	case "array":
		out.Type = genai.TypeArray
		out.Items = toGenaiSchema(schema.Items)
	case "string":
		out.Type = genai.TypeString
		for _, v := range schema.Enum {
			if s, ok := v.(string); ok {
				out.Enum = append(out.Enum, s)
			}
		}
	case "integer":
		out.Type = genai.TypeInteger
	case "number":
		out.Type = genai.TypeNumber
	case "boolean":
		out.Type = genai.TypeBoolean
	default:
		out.Type = genai.TypeString
	}

	return out
}
