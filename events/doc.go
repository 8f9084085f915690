// Package events defines the AG-UI lifecycle events emitted while a model
// completion streams: run framing, text message framing, tool call framing,
// usage metadata and progress markers.
//
// Every event is an immutable value with a timestamp. Run-scoped events carry
// the run identifier. The order in which a producer emits events is part of the
// contract; see the sequencer for the run state machine.
//
// Event hierarchy:
//   - Event: base interface
//     ├── RunStarted / RunFinished / RunError: run framing
//     ├── TextMessageStart / TextMessageContent / TextMessageEnd: assistant text
//     ├── ToolCallStart / ToolCallArgs / ToolCallEnd: tool invocation fragments
//     ├── Metadata: token usage reported by the model
//     └── Progress: completion fraction between stages of a progressive run
//
// Events serialize to the JSON shape AG-UI clients expect:
//
//	{"type":"TEXT_MESSAGE_CONTENT","timestamp":1735689600000,"data":{"delta":"Hi"}}
//
// Use ToJSON and FromJSON to move events across process boundaries:
//
//	b, err := events.ToJSON(events.TextMessageContent{Delta: "Hi", Timestamp: events.Now()})
//	if err != nil {
//	    return err
//	}
//	ev, err := events.FromJSON(b)
//	switch e := ev.(type) {
//	case events.TextMessageContent:
//	    fmt.Print(e.Delta)
//	case events.RunError:
//	    return errors.New(e.Message)
//	}
package events
