package cfagui

import (
	"net/http"

	"github.com/casualjim/cfagui/events"
	"github.com/casualjim/cfagui/provider"
	"github.com/casualjim/cfagui/tool"
	"github.com/fogfish/opts"
)

// Dialect selects the Workers AI endpoint the default source talks to.
type Dialect string

const (
	// DialectNative uses the /ai/run/{model} REST endpoint.
	DialectNative Dialect = "native"
	// DialectOpenAI uses the OpenAI-compatible /ai/v1 endpoint.
	DialectOpenAI Dialect = "openai"
)

// Config holds the adapter settings. It is filled in by options.
type Config struct {
	AccountID    string
	APIToken     string
	Model        string
	SystemPrompt string
	Tools        []tool.Definition
	Dialect      Dialect
	BaseURL      string
	Temperature  float64
	MaxTokens    int
	HTTPClient   *http.Client
	// Source replaces the default Workers AI source. Credentials are not
	// required when it is set.
	Source provider.Source
	Hooks  []events.Hook
}

// Option configures an Adapter.
type Option = opts.Option[Config]

var (
	// AccountID sets the Cloudflare account id.
	AccountID = opts.ForName[Config, string]("AccountID")
	// APIToken sets the Cloudflare API token.
	APIToken = opts.ForName[Config, string]("APIToken")
	// Model sets the model id, e.g. models.Llama3_1_8B.
	Model = opts.ForName[Config, string]("Model")
	// SystemPrompt sets a prompt prepended to every run as a system message.
	SystemPrompt = opts.ForName[Config, string]("SystemPrompt")
	// WithDialect selects the endpoint of the default source.
	WithDialect = opts.ForName[Config, Dialect]("Dialect")
	// BaseURL overrides the Cloudflare API root.
	BaseURL = opts.ForName[Config, string]("BaseURL")
	// Temperature sets the sampling temperature.
	Temperature = opts.ForName[Config, float64]("Temperature")
	// MaxTokens caps the number of generated tokens.
	MaxTokens = opts.ForName[Config, int]("MaxTokens")
	// HTTPClient sets the HTTP client of the default source.
	HTTPClient = opts.ForName[Config, *http.Client]("HTTPClient")
	// WithSource replaces the default source.
	WithSource = opts.ForName[Config, provider.Source]("Source")
)

// Tools adds tool definitions that are offered to the model on every run.
func Tools(def tool.Definition, extra ...tool.Definition) Option {
	return opts.Type[Config](func(o *Config) error {
		o.Tools = append(o.Tools, def)
		o.Tools = append(o.Tools, extra...)
		return nil
	})
}

// Hooks registers hooks that observe every event the adapter emits.
func Hooks(hook events.Hook, extra ...events.Hook) Option {
	return opts.Type[Config](func(o *Config) error {
		o.Hooks = append(o.Hooks, hook)
		o.Hooks = append(o.Hooks, extra...)
		return nil
	})
}

// WithConfig replaces the whole configuration. Later options still apply.
func WithConfig(cfg Config) Option {
	return opts.Type[Config](func(o *Config) error {
		*o = cfg
		o.Tools = append([]tool.Definition(nil), cfg.Tools...)
		o.Hooks = append([]events.Hook(nil), cfg.Hooks...)
		return nil
	})
}
