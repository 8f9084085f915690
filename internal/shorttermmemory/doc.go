// Package shorttermmemory keeps the conversation of an interactive session:
// the messages exchanged so far and the tokens they consumed.
//
// A run only reports events, so the assistant side of the conversation is
// rebuilt by Record, which watches a run's event sequence and appends the
// assistant text and usage to the aggregator once the run finishes
// successfully. Failed runs leave the history untouched apart from the
// prompt that caused them.
//
//	mem := shorttermmemory.New()
//	mem.AddUserPrompt("What is the capital of France?")
//	for e := range mem.Record(adapter.Execute(ctx, mem.Messages())) {
//		...
//	}
//
// Aggregators fork and join, so a speculative turn can run on a copy and be
// merged back only when it is kept. Checkpoints are plain snapshots that
// marshal to JSON for persisting a session between invocations.
package shorttermmemory
