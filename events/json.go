package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrUnknownType is returned by FromJSON for a payload whose type is not an AG-UI event.
var ErrUnknownType = errors.New("unknown event type")

// ToJSON serializes an event to its AG-UI JSON representation.
func ToJSON(e Event) ([]byte, error) {
	if e == nil {
		return nil, errors.New("event is nil")
	}
	return json.Marshal(e)
}

// FromJSON decodes an AG-UI JSON payload into the concrete event value.
func FromJSON(data []byte) (Event, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid json: %s", data)
	}

	typ := gjson.GetBytes(data, "type")
	if !typ.Exists() {
		return nil, errors.New("missing required field 'type'")
	}

	switch Type(typ.String()) {
	case TypeRunStarted:
		return decode[RunStarted](data)
	case TypeTextMessageStart:
		return decode[TextMessageStart](data)
	case TypeTextMessageContent:
		return decode[TextMessageContent](data)
	case TypeTextMessageEnd:
		return decode[TextMessageEnd](data)
	case TypeToolCallStart:
		return decode[ToolCallStart](data)
	case TypeToolCallArgs:
		return decode[ToolCallArgs](data)
	case TypeToolCallEnd:
		return decode[ToolCallEnd](data)
	case TypeMetadata:
		return decode[Metadata](data)
	case TypeProgress:
		return decode[Progress](data)
	case TypeRunFinished:
		return decode[RunFinished](data)
	case TypeRunError:
		return decode[RunError](data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ.String())
	}
}

func decode[T Event, PT interface {
	*T
	json.Unmarshaler
}](data []byte) (Event, error) {
	var v T
	if err := PT(&v).UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return v, nil
}

// envelope writes the fields shared by every event: type, timestamp in unix
// milliseconds and, for run-scoped events, the run id.
func envelope(t Type, ts strfmt.DateTime, runID uuid.UUID) ([]byte, error) {
	result := []byte(`{"type":"` + string(t) + `","data":{}}`)

	var err error
	if !time.Time(ts).IsZero() {
		result, err = sjson.SetBytes(result, "timestamp", time.Time(ts).UnixMilli())
		if err != nil {
			return nil, err
		}
	}

	if runID != uuid.Nil {
		result, err = sjson.SetBytes(result, "runId", runID.String())
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

type header struct {
	Timestamp strfmt.DateTime
	RunID     uuid.UUID
	Data      gjson.Result
}

func readEnvelope(data []byte, want Type) (header, error) {
	var h header
	if !gjson.ValidBytes(data) {
		return h, fmt.Errorf("invalid json: %s", data)
	}

	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() || msgType.String() != string(want) {
		return h, fmt.Errorf("missing or invalid type, expected '%s'", want)
	}

	if ts := gjson.GetBytes(data, "timestamp"); ts.Exists() {
		h.Timestamp = strfmt.DateTime(time.UnixMilli(ts.Int()).UTC())
	}

	if runID := gjson.GetBytes(data, "runId"); runID.Exists() {
		if err := h.RunID.UnmarshalText([]byte(runID.String())); err != nil {
			return h, fmt.Errorf("invalid runId: %w", err)
		}
	}

	h.Data = gjson.GetBytes(data, "data")
	return h, nil
}

func requireRunID(h header) error {
	if h.RunID == uuid.Nil {
		return errors.New("missing required field 'runId'")
	}
	return nil
}

func requireData(h header, path string) (gjson.Result, error) {
	v := h.Data.Get(path)
	if !v.Exists() {
		return v, fmt.Errorf("missing required field 'data.%s'", path)
	}
	return v, nil
}

// MarshalJSON implements custom JSON marshaling for RunStarted
func (e RunStarted) MarshalJSON() ([]byte, error) {
	return envelope(TypeRunStarted, e.Timestamp, e.RunID)
}

// UnmarshalJSON implements custom JSON unmarshaling for RunStarted
func (e *RunStarted) UnmarshalJSON(data []byte) error {
	h, err := readEnvelope(data, TypeRunStarted)
	if err != nil {
		return err
	}
	if err := requireRunID(h); err != nil {
		return err
	}
	e.RunID, e.Timestamp = h.RunID, h.Timestamp
	return nil
}

// MarshalJSON implements custom JSON marshaling for TextMessageStart
func (e TextMessageStart) MarshalJSON() ([]byte, error) {
	return envelope(TypeTextMessageStart, e.Timestamp, uuid.Nil)
}

// UnmarshalJSON implements custom JSON unmarshaling for TextMessageStart
func (e *TextMessageStart) UnmarshalJSON(data []byte) error {
	h, err := readEnvelope(data, TypeTextMessageStart)
	if err != nil {
		return err
	}
	e.Timestamp = h.Timestamp
	return nil
}

// MarshalJSON implements custom JSON marshaling for TextMessageContent
func (e TextMessageContent) MarshalJSON() ([]byte, error) {
	result, err := envelope(TypeTextMessageContent, e.Timestamp, uuid.Nil)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(result, "data.delta", e.Delta)
}

// UnmarshalJSON implements custom JSON unmarshaling for TextMessageContent
func (e *TextMessageContent) UnmarshalJSON(data []byte) error {
	h, err := readEnvelope(data, TypeTextMessageContent)
	if err != nil {
		return err
	}
	delta, err := requireData(h, "delta")
	if err != nil {
		return err
	}
	e.Delta, e.Timestamp = delta.String(), h.Timestamp
	return nil
}

// MarshalJSON implements custom JSON marshaling for TextMessageEnd
func (e TextMessageEnd) MarshalJSON() ([]byte, error) {
	return envelope(TypeTextMessageEnd, e.Timestamp, uuid.Nil)
}

// UnmarshalJSON implements custom JSON unmarshaling for TextMessageEnd
func (e *TextMessageEnd) UnmarshalJSON(data []byte) error {
	h, err := readEnvelope(data, TypeTextMessageEnd)
	if err != nil {
		return err
	}
	e.Timestamp = h.Timestamp
	return nil
}

// MarshalJSON implements custom JSON marshaling for ToolCallStart
func (e ToolCallStart) MarshalJSON() ([]byte, error) {
	result, err := envelope(TypeToolCallStart, e.Timestamp, uuid.Nil)
	if err != nil {
		return nil, err
	}
	result, err = sjson.SetBytes(result, "data.toolCallId", e.ToolCallID)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(result, "data.toolName", e.ToolName)
}

// UnmarshalJSON implements custom JSON unmarshaling for ToolCallStart
func (e *ToolCallStart) UnmarshalJSON(data []byte) error {
	h, err := readEnvelope(data, TypeToolCallStart)
	if err != nil {
		return err
	}
	id, err := requireData(h, "toolCallId")
	if err != nil {
		return err
	}
	e.ToolCallID = id.String()
	e.ToolName = h.Data.Get("toolName").String()
	e.Timestamp = h.Timestamp
	return nil
}

// MarshalJSON implements custom JSON marshaling for ToolCallArgs
func (e ToolCallArgs) MarshalJSON() ([]byte, error) {
	result, err := envelope(TypeToolCallArgs, e.Timestamp, uuid.Nil)
	if err != nil {
		return nil, err
	}
	result, err = sjson.SetBytes(result, "data.toolCallId", e.ToolCallID)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(result, "data.argsDelta", e.Delta)
}

// UnmarshalJSON implements custom JSON unmarshaling for ToolCallArgs
func (e *ToolCallArgs) UnmarshalJSON(data []byte) error {
	h, err := readEnvelope(data, TypeToolCallArgs)
	if err != nil {
		return err
	}
	id, err := requireData(h, "toolCallId")
	if err != nil {
		return err
	}
	delta, err := requireData(h, "argsDelta")
	if err != nil {
		return err
	}
	e.ToolCallID, e.Delta, e.Timestamp = id.String(), delta.String(), h.Timestamp
	return nil
}

// MarshalJSON implements custom JSON marshaling for ToolCallEnd
func (e ToolCallEnd) MarshalJSON() ([]byte, error) {
	result, err := envelope(TypeToolCallEnd, e.Timestamp, uuid.Nil)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(result, "data.toolCallId", e.ToolCallID)
}

// UnmarshalJSON implements custom JSON unmarshaling for ToolCallEnd
func (e *ToolCallEnd) UnmarshalJSON(data []byte) error {
	h, err := readEnvelope(data, TypeToolCallEnd)
	if err != nil {
		return err
	}
	id, err := requireData(h, "toolCallId")
	if err != nil {
		return err
	}
	e.ToolCallID, e.Timestamp = id.String(), h.Timestamp
	return nil
}

// MarshalJSON implements custom JSON marshaling for Metadata
func (e Metadata) MarshalJSON() ([]byte, error) {
	result, err := envelope(TypeMetadata, e.Timestamp, uuid.Nil)
	if err != nil {
		return nil, err
	}

	usage := e.Usage
	if usage == nil {
		usage = map[string]any{}
	}
	usageBytes, err := json.Marshal(usage)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal usage: %w", err)
	}
	return sjson.SetRawBytes(result, "data.usage", usageBytes)
}

// UnmarshalJSON implements custom JSON unmarshaling for Metadata
func (e *Metadata) UnmarshalJSON(data []byte) error {
	h, err := readEnvelope(data, TypeMetadata)
	if err != nil {
		return err
	}
	usage, err := requireData(h, "usage")
	if err != nil {
		return err
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(usage.Raw), &m); err != nil {
		return fmt.Errorf("invalid usage: %w", err)
	}
	e.Usage, e.Timestamp = m, h.Timestamp
	return nil
}

// MarshalJSON implements custom JSON marshaling for Progress
func (e Progress) MarshalJSON() ([]byte, error) {
	result, err := envelope(TypeProgress, e.Timestamp, uuid.Nil)
	if err != nil {
		return nil, err
	}
	result, err = sjson.SetBytes(result, "data.progress", e.Progress)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(result, "data.message", e.Message)
}

// UnmarshalJSON implements custom JSON unmarshaling for Progress
func (e *Progress) UnmarshalJSON(data []byte) error {
	h, err := readEnvelope(data, TypeProgress)
	if err != nil {
		return err
	}
	progress, err := requireData(h, "progress")
	if err != nil {
		return err
	}
	e.Progress = progress.Float()
	e.Message = h.Data.Get("message").String()
	e.Timestamp = h.Timestamp
	return nil
}

// MarshalJSON implements custom JSON marshaling for RunFinished
func (e RunFinished) MarshalJSON() ([]byte, error) {
	return envelope(TypeRunFinished, e.Timestamp, e.RunID)
}

// UnmarshalJSON implements custom JSON unmarshaling for RunFinished
func (e *RunFinished) UnmarshalJSON(data []byte) error {
	h, err := readEnvelope(data, TypeRunFinished)
	if err != nil {
		return err
	}
	if err := requireRunID(h); err != nil {
		return err
	}
	e.RunID, e.Timestamp = h.RunID, h.Timestamp
	return nil
}

// MarshalJSON implements custom JSON marshaling for RunError
func (e RunError) MarshalJSON() ([]byte, error) {
	result, err := envelope(TypeRunError, e.Timestamp, e.RunID)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(result, "data.message", e.Message)
}

// UnmarshalJSON implements custom JSON unmarshaling for RunError
func (e *RunError) UnmarshalJSON(data []byte) error {
	h, err := readEnvelope(data, TypeRunError)
	if err != nil {
		return err
	}
	msg, err := requireData(h, "message")
	if err != nil {
		return err
	}
	e.RunID, e.Message, e.Timestamp = h.RunID, msg.String(), h.Timestamp
	return nil
}
