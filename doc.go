/*
Package cfagui streams Cloudflare Workers AI completions as AG-UI events.

An Adapter wraps a chunk source, the native Workers AI REST API by default,
and turns every call to Execute into one run: a lazy sequence that opens with
RUN_STARTED, frames text deltas and tool calls with start/content/end events,
reports token usage and ends with exactly one of RUN_FINISHED or RUN_ERROR.
Transport failures never escape as errors or panics; they become the
RUN_ERROR that ends the run.

# Basic Usage

	adapter, err := cfagui.New(
		cfagui.AccountID(os.Getenv("CLOUDFLARE_ACCOUNT_ID")),
		cfagui.APIToken(os.Getenv("CLOUDFLARE_API_TOKEN")),
		cfagui.SystemPrompt("You are a helpful assistant"),
	)
	if err != nil {
		return err
	}

	for ev := range adapter.Execute(ctx, []provider.Message{provider.UserMessage("Hello")}) {
		switch e := ev.(type) {
		case events.TextMessageContent:
			fmt.Print(e.Delta)
		case events.RunError:
			return e
		}
	}

Breaking out of the range stops reading from the model. A sequence can be
ranged over once; start a new run by calling Execute again.

# Progressive Generation

ProgressiveGeneration runs one prompt through several stages, one run per
stage, and emits a PROGRESS event after each stage:

	seq, err := adapter.ProgressiveGeneration(ctx, "Write a short story", []cfagui.Stage{
		{Name: "Outline", Instruction: "Create an outline"},
		{Name: "Draft", Instruction: "Write the draft"},
	})

A stage that fails ends with its own RUN_ERROR; the next stage still runs.

# Presets

Llama3_8B, Llama3_70B and Mistral7B create adapters bound to a model. Auto
picks Llama 3.3 70B when tools are configured and Llama 3.1 8B otherwise.
*/
package cfagui
