package shorttermmemory

import (
	"iter"
	"slices"

	"github.com/casualjim/cfagui/pkg/uuidx"
	"github.com/casualjim/cfagui/provider"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Aggregator holds a conversation and the usage it has accrued. It is not
// safe for concurrent use; fork it to branch work.
type Aggregator struct {
	id       uuid.UUID
	messages []provider.Message
	// initLen is the message count at fork time, used by Join.
	initLen int
	usage   Usage
}

// New creates an empty aggregator with a fresh id.
func New() *Aggregator {
	return &Aggregator{
		id:       uuidx.New(),
		messages: make([]provider.Message, 0),
	}
}

// ID returns the identifier of this aggregator. Forks get their own.
func (a *Aggregator) ID() uuid.UUID {
	return a.id
}

// Len returns the number of messages held.
func (a *Aggregator) Len() int {
	return len(a.messages)
}

// TurnLen returns the number of messages added since the fork.
func (a *Aggregator) TurnLen() int {
	return len(a.messages) - a.initLen
}

// Messages returns a copy of the conversation, ready to pass to a run.
func (a *Aggregator) Messages() []provider.Message {
	return slices.Clone(a.messages)
}

// MessagesIter iterates over the conversation without copying it.
func (a *Aggregator) MessagesIter() iter.Seq[provider.Message] {
	return slices.Values(a.messages)
}

// Add appends messages in order.
func (a *Aggregator) Add(msgs ...provider.Message) {
	a.messages = append(a.messages, msgs...)
}

// AddUserPrompt appends a user message.
func (a *Aggregator) AddUserPrompt(content string) {
	a.Add(provider.UserMessage(content))
}

// AddAssistantMessage appends an assistant message.
func (a *Aggregator) AddAssistantMessage(content string) {
	a.Add(provider.AssistantMessage(content))
}

// AddToolResponse appends the result of a tool call.
func (a *Aggregator) AddToolResponse(toolCallID, content string) {
	a.Add(provider.ToolMessage(toolCallID, content))
}

// Usage returns the accumulated token usage.
func (a *Aggregator) Usage() Usage {
	return a.usage
}

// AddUsage adds u to the accumulated usage.
func (a *Aggregator) AddUsage(u *Usage) {
	a.usage.AddUsage(u)
}

// Fork returns a copy that remembers where it branched off. Usage starts
// at zero so Join does not count it twice.
func (a *Aggregator) Fork() *Aggregator {
	return &Aggregator{
		id:       uuidx.New(),
		messages: slices.Clone(a.messages),
		initLen:  a.Len(),
	}
}

// Join appends the messages b gained after it was forked and adds its usage.
//
//	original := New()              // [1,2]
//	forked := original.Fork()      // [1,2], initLen=2
//	original.Add(msg3)             // [1,2,3]
//	forked.Add(msg4)               // [1,2,4]
//	original.Join(forked)          // [1,2,3,4]
func (a *Aggregator) Join(b *Aggregator) {
	a.messages = append(a.messages, b.messages[b.initLen:]...)
	a.usage.AddUsage(&b.usage)
}

// Checkpoint snapshots the current state.
func (a *Aggregator) Checkpoint() Checkpoint {
	return Checkpoint{
		id:       a.id,
		messages: slices.Clone(a.messages),
		usage:    a.usage,
		initLen:  a.initLen,
	}
}

// Checkpoint is an immutable snapshot of an aggregator.
type Checkpoint struct {
	id       uuid.UUID
	messages []provider.Message
	usage    Usage
	initLen  int
}

// ID returns the id of the aggregator the checkpoint was taken from.
func (c *Checkpoint) ID() uuid.UUID {
	return c.id
}

// Messages returns a copy of the messages at checkpoint time.
func (c *Checkpoint) Messages() []provider.Message {
	return slices.Clone(c.messages)
}

// Usage returns the usage at checkpoint time.
func (c *Checkpoint) Usage() Usage {
	return c.usage
}

// MergeInto applies the checkpoint to other: the messages after the fork
// point are appended and usage is added. An aggregator without an id adopts
// the checkpoint's.
func (c *Checkpoint) MergeInto(other *Aggregator) {
	other.messages = append(other.messages, c.messages[c.initLen:]...)
	other.usage.AddUsage(&c.usage)
	if other.id == uuid.Nil {
		other.id = c.id
	}
}

type checkpointJSON struct {
	ID       string             `json:"id"`
	Messages []provider.Message `json:"messages"`
	Usage    Usage              `json:"usage"`
	InitLen  int                `json:"init_len"`
}

func (c Checkpoint) MarshalJSON() ([]byte, error) {
	msgs := c.messages
	if msgs == nil {
		msgs = []provider.Message{}
	}
	return json.Marshal(checkpointJSON{
		ID:       c.id.String(),
		Messages: msgs,
		Usage:    c.usage,
		InitLen:  c.initLen,
	})
}

func (c *Checkpoint) UnmarshalJSON(data []byte) error {
	var tmp checkpointJSON
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	id, err := uuid.Parse(tmp.ID)
	if err != nil {
		return err
	}
	c.id = id
	c.messages = tmp.Messages
	c.usage = tmp.Usage
	c.initLen = tmp.InitLen
	return nil
}
