/*
Package openai streams completions through the OpenAI-compatible endpoint that
Workers AI exposes at /accounts/{account}/ai/v1/. It is an alternative to the
native cloudflare source for models and tooling that expect the chat
completions wire format.

	src := openai.New(openai.Account(cloudflare.DefaultBaseURL, accountID, apiToken)...)
	for chunk, err := range src.StreamComplete(ctx, req) {
		...
	}

Usage is requested through stream_options.include_usage and surfaces on the
chunk that carries it, usually the last one before the stream closes. The
source appends a done chunk once the server ends the stream.

Tool-call fragments follow the OpenAI streaming convention: the first fragment
of a call carries its id and function name, later fragments carry only the
call index and an argument fragment. The source fills in the id of those later
fragments from the index so every fragment names its call.
*/
package openai
