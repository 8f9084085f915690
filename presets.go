package cfagui

import (
	"slices"

	"github.com/casualjim/cfagui/provider/models"
	"github.com/fogfish/opts"
)

// Llama3_8B creates an adapter bound to Llama 3.1 8B Instruct.
func Llama3_8B(options ...Option) (*Adapter, error) {
	return New(append(slices.Clip(options), Model(models.Llama3_1_8B))...)
}

// Llama3_70B creates an adapter bound to Llama 3.1 70B Instruct.
func Llama3_70B(options ...Option) (*Adapter, error) {
	return New(append(slices.Clip(options), Model(models.Llama3_1_70B))...)
}

// Mistral7B creates an adapter bound to Mistral 7B Instruct.
func Mistral7B(options ...Option) (*Adapter, error) {
	return New(append(slices.Clip(options), Model(models.Mistral7B))...)
}

// Auto creates an adapter whose model is chosen from the configuration:
// Llama 3.3 70B when tools are configured, Llama 3.1 8B otherwise. An
// explicit Model option is overridden.
func Auto(options ...Option) (*Adapter, error) {
	var cfg Config
	if err := opts.Apply(&cfg, options); err != nil {
		return nil, err
	}
	cfg.Model = models.Select(len(cfg.Tools) > 0)
	return newAdapter(cfg)
}
