// Package server exposes adapter runs over HTTP. Every run endpoint answers
// with a text/event-stream where each SSE message carries one AG-UI event in
// its JSON wire form, the event type doubling as the SSE event name.
//
//	POST /v1/agui/runs         {"messages":[...]}
//	POST /v1/agui/progressive  {"prompt":"...","stages":[...]}
//	GET  /v1/agui/events       live events of all runs, when a topic is set
//	GET  /v1/models
//	GET  /healthz
package server
