package openai

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/casualjim/cfagui/pkg/jsonx"
	"github.com/casualjim/cfagui/pkg/slogx"
	"github.com/casualjim/cfagui/provider"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// Source streams chat completions from an OpenAI-compatible endpoint.
type Source struct {
	client *openai.Client
}

// New creates a source with the given request options. Use Account to point
// it at the Workers AI compatible endpoint of a Cloudflare account.
func New(options ...option.RequestOption) *Source {
	return &Source{
		client: openai.NewClient(options...),
	}
}

// Account returns the request options that target the OpenAI-compatible
// endpoint of a Cloudflare account: {baseURL}/accounts/{accountID}/ai/v1/.
func Account(baseURL, accountID, apiToken string) []option.RequestOption {
	return []option.RequestOption{
		option.WithBaseURL(strings.TrimRight(baseURL, "/") + "/accounts/" + accountID + "/ai/v1/"),
		option.WithAPIKey(apiToken),
	}
}

// StreamComplete implements provider.Source. Usage is requested through
// stream_options and reported on the chunk that carries it. Tool-call
// fragments that omit their id inherit the id first seen at their index.
func (p *Source) StreamComplete(ctx context.Context, req provider.Request) iter.Seq2[provider.Chunk, error] {
	return func(yield func(provider.Chunk, error) bool) {
		params, err := buildRequest(req)
		if err != nil {
			yield(provider.Chunk{}, fmt.Errorf("failed to build request: %w", err))
			return
		}

		strm := p.client.Chat.Completions.NewStreaming(ctx, params)
		defer strm.Close()

		ids := make(map[int64]string)
		for strm.Next() {
			chunk := strm.Current()
			if !yield(convertChunk(&chunk, ids), nil) {
				return
			}
		}
		if err := strm.Err(); err != nil {
			slog.DebugContext(ctx, "openai stream failed", slogx.LoggerName("openai"), slogx.Model(req.Model), slogx.Error(err))
			yield(provider.Chunk{}, err)
			return
		}
		yield(provider.Chunk{Done: true}, nil)
	}
}

func buildRequest(req provider.Request) (openai.ChatCompletionNewParams, error) {
	msgs, err := messagesToOpenAI(req.Messages)
	if err != nil {
		return openai.ChatCompletionNewParams{}, err
	}

	tools := make([]openai.ChatCompletionToolParam, len(req.Tools))
	for i, tool := range req.Tools {
		if tool.Name == "" {
			return openai.ChatCompletionNewParams{}, fmt.Errorf("tool %d has no name", i)
		}

		jv, err := jsonx.ToDynamicJSON(tool.Parameters)
		if err != nil {
			return openai.ChatCompletionNewParams{}, fmt.Errorf("failed to convert parameters of %s: %w", tool.Name, err)
		}
		if jv == nil {
			jv = map[string]any{"type": "object", "properties": map[string]any{}}
		}

		def := openai.FunctionDefinitionParam{
			Name:       openai.String(tool.Name),
			Parameters: openai.F(shared.FunctionParameters(jv)),
		}
		if strings.TrimSpace(tool.Description) != "" {
			def.Description = openai.String(tool.Description)
		}

		tools[i] = openai.ChatCompletionToolParam{
			Type:     openai.F(openai.ChatCompletionToolTypeFunction),
			Function: openai.F(def),
		}
	}

	params := openai.ChatCompletionNewParams{
		Messages: openai.F(msgs),
		Model:    openai.F(req.Model),
		StreamOptions: openai.F(openai.ChatCompletionStreamOptionsParam{
			IncludeUsage: openai.Bool(true),
		}),
	}
	if len(tools) > 0 {
		params.Tools = openai.F(tools)
	}
	if req.Options.Temperature > 0 {
		params.Temperature = openai.Float(req.Options.Temperature)
	}
	if req.Options.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.Options.MaxTokens))
	}
	return params, nil
}

func messagesToOpenAI(messages []provider.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case provider.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case provider.RoleUser:
			result = append(result, openai.UserMessageParts(openai.TextPart(msg.Content)))
		case provider.RoleAssistant:
			am := openai.ChatCompletionAssistantMessageParam{
				Role: openai.F(openai.ChatCompletionAssistantMessageParamRoleAssistant),
			}
			if msg.Content != "" {
				am.Content.Value = append(am.Content.Value, openai.TextPart(msg.Content))
			}
			result = append(result, am)
		case provider.RoleTool:
			result = append(result, openai.ToolMessage(msg.ToolCallID, msg.Content))
		default:
			return nil, fmt.Errorf("unsupported message role %q", msg.Role)
		}
	}
	return result, nil
}

func convertChunk(chunk *openai.ChatCompletionChunk, ids map[int64]string) provider.Chunk {
	var out provider.Chunk

	if len(chunk.Choices) > 0 {
		delta := chunk.Choices[0].Delta
		out.Response = delta.Content

		for _, tc := range delta.ToolCalls {
			id := tc.ID
			if id == "" {
				id = ids[tc.Index]
			} else if _, seen := ids[tc.Index]; !seen {
				ids[tc.Index] = id
			}
			out.ToolCalls = append(out.ToolCalls, provider.ToolCallDelta{
				Index:     int(tc.Index),
				ID:        id,
				Type:      string(tc.Type),
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
		}
	}

	if u := chunk.Usage; u.PromptTokens > 0 || u.CompletionTokens > 0 || u.TotalTokens > 0 {
		out.Usage = map[string]any{
			"prompt_tokens":     u.PromptTokens,
			"completion_tokens": u.CompletionTokens,
			"total_tokens":      u.TotalTokens,
		}
	}
	return out
}
