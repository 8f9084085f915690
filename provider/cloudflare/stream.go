package cloudflare

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strconv"

	"github.com/casualjim/cfagui/provider"
	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const doneMarker = "[DONE]"

// StreamComplete implements provider.Source. The request is sent when the
// sequence is first iterated; breaking out of the range closes the response.
func (c *Client) StreamComplete(ctx context.Context, req provider.Request) iter.Seq2[provider.Chunk, error] {
	return func(yield func(provider.Chunk, error) bool) {
		body, err := requestBody(req)
		if err != nil {
			yield(provider.Chunk{}, err)
			return
		}

		resp, err := c.do(ctx, http.MethodPost, "/ai/run/"+req.Model, "application/json", bytes.NewReader(body))
		if err != nil {
			yield(provider.Chunk{}, err)
			return
		}
		defer resp.Body.Close()

		reader := newSSEReader(resp.Body)
		for {
			data, err := reader.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(provider.Chunk{}, fmt.Errorf("cloudflare: read stream: %w", err))
				return
			}
			if data == doneMarker {
				yield(provider.Chunk{Done: true}, nil)
				return
			}

			chunk, err := ParseChunk([]byte(data))
			if err != nil {
				yield(provider.Chunk{}, err)
				return
			}
			if !yield(chunk, nil) || chunk.Done {
				return
			}
		}
	}
}

func requestBody(req provider.Request) ([]byte, error) {
	messages := req.Messages
	if messages == nil {
		messages = []provider.Message{}
	}
	msgBytes, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("cloudflare: marshal messages: %w", err)
	}

	body := []byte(`{"stream":true}`)
	body, err = sjson.SetRawBytes(body, "messages", msgBytes)
	if err != nil {
		return nil, err
	}

	if len(req.Tools) > 0 {
		toolBytes, err := json.Marshal(req.Tools)
		if err != nil {
			return nil, fmt.Errorf("cloudflare: marshal tools: %w", err)
		}
		body, err = sjson.SetRawBytes(body, "tools", toolBytes)
		if err != nil {
			return nil, err
		}
	}
	if req.Options.MaxTokens > 0 {
		body, err = sjson.SetBytes(body, "max_tokens", req.Options.MaxTokens)
		if err != nil {
			return nil, err
		}
	}
	if req.Options.Temperature > 0 {
		body, err = sjson.SetBytes(body, "temperature", req.Options.Temperature)
		if err != nil {
			return nil, err
		}
	}
	return body, nil
}

// ParseChunk decodes one data payload of the run stream. Tool calls are
// accepted in the OpenAI shape {id, type, function: {name, arguments}} and in
// the native shape {name, arguments} where arguments may be an object.
// Calls without an id get "call_<index>". Unknown fields are ignored.
func ParseChunk(data []byte) (provider.Chunk, error) {
	if !gjson.ValidBytes(data) {
		return provider.Chunk{}, fmt.Errorf("cloudflare: invalid chunk: %s", data)
	}
	root := gjson.ParseBytes(data)

	chunk := provider.Chunk{
		Response: root.Get("response").String(),
		Done:     root.Get("done").Bool(),
	}

	root.Get("tool_calls").ForEach(func(key, value gjson.Result) bool {
		chunk.ToolCalls = append(chunk.ToolCalls, parseToolCall(int(key.Int()), value))
		return true
	})

	if usage := root.Get("usage"); usage.IsObject() {
		var m map[string]any
		if err := json.Unmarshal([]byte(usage.Raw), &m); err != nil {
			return provider.Chunk{}, fmt.Errorf("cloudflare: invalid usage: %w", err)
		}
		chunk.Usage = m
	}
	return chunk, nil
}

func parseToolCall(position int, value gjson.Result) provider.ToolCallDelta {
	delta := provider.ToolCallDelta{Index: position}
	if idx := value.Get("index"); idx.Exists() {
		delta.Index = int(idx.Int())
	}

	fn := value
	if f := value.Get("function"); f.IsObject() {
		fn = f
	}

	delta.ID = value.Get("id").String()
	delta.Type = value.Get("type").String()
	delta.Name = fn.Get("name").String()

	switch args := fn.Get("arguments"); args.Type {
	case gjson.String:
		delta.Arguments = args.String()
	case gjson.Null:
	default:
		delta.Arguments = args.Raw
	}

	if delta.ID == "" {
		delta.ID = "call_" + strconv.Itoa(delta.Index)
	}
	if delta.Type == "" {
		delta.Type = "function"
	}
	return delta
}
