// Package cloudflare streams completions from the native Workers AI REST API.
//
// The client posts to {base}/accounts/{account}/ai/run/{model} with
// "stream": true and reads the server-sent events the service answers with.
// Every data line carries a JSON object with a "response" text delta and,
// for models that support function calling, a "tool_calls" list. The stream
// ends with "data: [DONE]".
//
//	client, err := cloudflare.New(
//	    cloudflare.AccountID(os.Getenv("CLOUDFLARE_ACCOUNT_ID")),
//	    cloudflare.APIToken(os.Getenv("CLOUDFLARE_API_TOKEN")),
//	)
//	for chunk, err := range client.StreamComplete(ctx, req) {
//	    ...
//	}
package cloudflare
