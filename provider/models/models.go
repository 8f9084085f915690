// Package models lists the Workers AI text generation models and what each
// of them supports.
package models

// Model identifiers as accepted by the Workers AI run endpoint.
const (
	Llama3_1_8B      = "@cf/meta/llama-3.1-8b-instruct"
	Llama3_1_70B     = "@cf/meta/llama-3.1-70b-instruct"
	Llama3_3_70B     = "@cf/meta/llama-3.3-70b-instruct-fp8-fast"
	Llama3_8B        = "@cf/meta/llama-3-8b-instruct"
	Mistral7B        = "@cf/mistral/mistral-7b-instruct-v0.2"
	Hermes2Pro7B     = "@hf/nousresearch/hermes-2-pro-mistral-7b"
	Gemma7B          = "@cf/google/gemma-7b-it-lora"
	Qwen1_5_14B      = "@cf/qwen/qwen1.5-14b-chat-awq"
	DeepSeekR1Qwen32 = "@cf/deepseek-ai/deepseek-r1-distill-qwen-32b"
)

// Default is used when no model is configured.
const Default = Llama3_1_8B

// Capabilities describes what a model supports.
type Capabilities struct {
	Streaming       bool `json:"streaming" yaml:"streaming"`
	FunctionCalling bool `json:"functionCalling" yaml:"functionCalling"`
	MaxTokens       int  `json:"maxTokens" yaml:"maxTokens"`
	ContextWindow   int  `json:"contextWindow" yaml:"contextWindow"`
}

// Unknown is reported for models missing from the table: streaming is
// assumed, function calling is not.
var Unknown = Capabilities{
	Streaming:     true,
	MaxTokens:     2048,
	ContextWindow: 4096,
}

var builtin = map[string]Capabilities{
	Llama3_1_8B:      {Streaming: true, FunctionCalling: true, MaxTokens: 8192, ContextWindow: 128000},
	Llama3_1_70B:     {Streaming: true, FunctionCalling: true, MaxTokens: 8192, ContextWindow: 128000},
	Llama3_3_70B:     {Streaming: true, FunctionCalling: true, MaxTokens: 8192, ContextWindow: 24000},
	Llama3_8B:        {Streaming: true, MaxTokens: 2048, ContextWindow: 8192},
	Mistral7B:        {Streaming: true, MaxTokens: 2048, ContextWindow: 32768},
	Hermes2Pro7B:     {Streaming: true, FunctionCalling: true, MaxTokens: 2048, ContextWindow: 24000},
	Gemma7B:          {Streaming: true, MaxTokens: 2048, ContextWindow: 8192},
	Qwen1_5_14B:      {Streaming: true, MaxTokens: 2048, ContextWindow: 7500},
	DeepSeekR1Qwen32: {Streaming: true, MaxTokens: 4096, ContextWindow: 80000},
}
