package provider

// Chunk is one unit of a completion stream. Any combination of fields may be
// set: the final chunk commonly carries usage and the done signal together.
type Chunk struct {
	// Response is a text delta, forwarded verbatim.
	Response string `json:"response,omitempty"`
	// ToolCalls are tool-call fragments in arrival order.
	ToolCalls []ToolCallDelta `json:"tool_calls,omitempty"`
	// Usage is the token accounting reported by the service. It is opaque.
	Usage map[string]any `json:"usage,omitempty"`
	// Done marks the end of the stream.
	Done bool `json:"done,omitempty"`
}

// ToolCallDelta is one fragment of a tool invocation.
type ToolCallDelta struct {
	// Index is the position of the call within the assistant turn.
	Index int `json:"index"`
	// ID identifies the call within a run.
	ID string `json:"id,omitempty"`
	// Type is the call kind, "function" in practice.
	Type string `json:"type,omitempty"`
	// Name is only present on the first fragment of an id.
	Name string `json:"name,omitempty"`
	// Arguments is a raw fragment of the JSON argument text.
	Arguments string `json:"arguments,omitempty"`
}

// Text returns a chunk carrying a text delta.
func Text(delta string) Chunk {
	return Chunk{Response: delta}
}

// Done returns the done-signal chunk, optionally carrying usage.
func Done(usage map[string]any) Chunk {
	return Chunk{Done: true, Usage: usage}
}

// IsEmpty reports whether the chunk carries nothing at all.
func (c Chunk) IsEmpty() bool {
	return c.Response == "" && len(c.ToolCalls) == 0 && c.Usage == nil && !c.Done
}
