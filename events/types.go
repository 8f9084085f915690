package events

import (
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
)

// Type discriminates the AG-UI event kinds.
type Type string

const (
	TypeRunStarted         Type = "RUN_STARTED"
	TypeTextMessageStart   Type = "TEXT_MESSAGE_START"
	TypeTextMessageContent Type = "TEXT_MESSAGE_CONTENT"
	TypeTextMessageEnd     Type = "TEXT_MESSAGE_END"
	TypeToolCallStart      Type = "TOOL_CALL_START"
	TypeToolCallArgs       Type = "TOOL_CALL_ARGS"
	TypeToolCallEnd        Type = "TOOL_CALL_END"
	TypeMetadata           Type = "METADATA"
	TypeProgress           Type = "PROGRESS"
	TypeRunFinished        Type = "RUN_FINISHED"
	TypeRunError           Type = "RUN_ERROR"
)

// IsTerminal reports whether t ends a run.
func (t Type) IsTerminal() bool {
	return t == TypeRunFinished || t == TypeRunError
}

// Event is implemented by every AG-UI event value.
type Event interface {
	EventType() Type
	At() strfmt.DateTime
	aguiEvent()
}

// Now returns the current time as an event timestamp.
func Now() strfmt.DateTime {
	return strfmt.DateTime(time.Now().UTC())
}

// RunStarted is always the first event of a run.
type RunStarted struct {
	RunID     uuid.UUID       `json:"runId"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (RunStarted) aguiEvent() {}
func (RunStarted) EventType() Type { return TypeRunStarted }
func (e RunStarted) At() strfmt.DateTime { return e.Timestamp }

// TextMessageStart opens an assistant text message.
type TextMessageStart struct {
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (TextMessageStart) aguiEvent() {}
func (TextMessageStart) EventType() Type { return TypeTextMessageStart }
func (e TextMessageStart) At() strfmt.DateTime { return e.Timestamp }

// TextMessageContent carries one text delta, verbatim.
type TextMessageContent struct {
	Delta     string          `json:"delta"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (TextMessageContent) aguiEvent() {}
func (TextMessageContent) EventType() Type { return TypeTextMessageContent }
func (e TextMessageContent) At() strfmt.DateTime { return e.Timestamp }

// TextMessageEnd closes the open assistant text message.
type TextMessageEnd struct {
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (TextMessageEnd) aguiEvent() {}
func (TextMessageEnd) EventType() Type { return TypeTextMessageEnd }
func (e TextMessageEnd) At() strfmt.DateTime { return e.Timestamp }

// ToolCallStart announces a tool invocation the first time its id is seen.
type ToolCallStart struct {
	ToolCallID string          `json:"toolCallId"`
	ToolName   string          `json:"toolName"`
	Timestamp  strfmt.DateTime `json:"timestamp,omitempty"`
}

func (ToolCallStart) aguiEvent() {}
func (ToolCallStart) EventType() Type { return TypeToolCallStart }
func (e ToolCallStart) At() strfmt.DateTime { return e.Timestamp }

// ToolCallArgs carries one fragment of a tool call's argument text.
type ToolCallArgs struct {
	ToolCallID string          `json:"toolCallId"`
	Delta      string          `json:"argsDelta"`
	Timestamp  strfmt.DateTime `json:"timestamp,omitempty"`
}

func (ToolCallArgs) aguiEvent() {}
func (ToolCallArgs) EventType() Type { return TypeToolCallArgs }
func (e ToolCallArgs) At() strfmt.DateTime { return e.Timestamp }

// ToolCallEnd marks a tool call's arguments as complete.
type ToolCallEnd struct {
	ToolCallID string          `json:"toolCallId"`
	Timestamp  strfmt.DateTime `json:"timestamp,omitempty"`
}

func (ToolCallEnd) aguiEvent() {}
func (ToolCallEnd) EventType() Type { return TypeToolCallEnd }
func (e ToolCallEnd) At() strfmt.DateTime { return e.Timestamp }

// Metadata reports token usage. The usage mapping is opaque and forwarded as
// the model service reported it.
type Metadata struct {
	Usage     map[string]any  `json:"usage"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (Metadata) aguiEvent() {}
func (Metadata) EventType() Type { return TypeMetadata }
func (e Metadata) At() strfmt.DateTime { return e.Timestamp }

// Progress reports the completed fraction (0-100) of a multi-stage run.
type Progress struct {
	Progress  float64         `json:"progress"`
	Message   string          `json:"message"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (Progress) aguiEvent() {}
func (Progress) EventType() Type { return TypeProgress }
func (e Progress) At() strfmt.DateTime { return e.Timestamp }

// RunFinished is the last event of a successful run.
type RunFinished struct {
	RunID     uuid.UUID       `json:"runId"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (RunFinished) aguiEvent() {}
func (RunFinished) EventType() Type { return TypeRunFinished }
func (e RunFinished) At() strfmt.DateTime { return e.Timestamp }

// RunError is the last event of a failed run. No RunFinished follows it.
type RunError struct {
	RunID     uuid.UUID       `json:"runId,omitempty"`
	Message   string          `json:"message"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (RunError) aguiEvent() {}
func (RunError) EventType() Type { return TypeRunError }
func (e RunError) At() strfmt.DateTime { return e.Timestamp }

func (e RunError) Error() string {
	return e.Message
}
