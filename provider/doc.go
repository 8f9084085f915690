// Package provider defines the boundary between the event sequencer and the
// model service that produces completion chunks.
//
// A Source turns a Request into a lazy, finite sequence of chunks. Each chunk
// may carry a text delta, tool-call fragments, usage counters and the done
// signal, in any combination. A source reports a transport failure by
// yielding a non-nil error once, after which it stops:
//
//	for chunk, err := range src.StreamComplete(ctx, req) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Print(chunk.Response)
//	}
//
// Breaking out of the range releases the underlying connection; sources must
// not keep reading once the consumer stops asking.
//
// Implementations live in the cloudflare (native Workers AI REST API) and
// openai (Workers AI OpenAI-compatible endpoint) sub-packages.
package provider
