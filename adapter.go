package cfagui

import (
	"context"
	"errors"
	"iter"
	"slices"
	"sync"

	"github.com/casualjim/cfagui/events"
	"github.com/casualjim/cfagui/internal/progressive"
	"github.com/casualjim/cfagui/internal/sequencer"
	"github.com/casualjim/cfagui/provider"
	"github.com/casualjim/cfagui/provider/cloudflare"
	"github.com/casualjim/cfagui/provider/models"
	"github.com/casualjim/cfagui/provider/openai"
	"github.com/casualjim/cfagui/tool"
	"github.com/fogfish/opts"
	"github.com/openai/openai-go/option"
)

// ErrMissingCredentials is returned by New when neither credentials nor a
// source are configured.
var ErrMissingCredentials = cloudflare.ErrMissingCredentials

// ErrAlreadyConsumed is the panic value raised when the sequence returned by
// Execute is ranged over twice.
var ErrAlreadyConsumed = sequencer.ErrAlreadyConsumed

// ErrNoStages is returned by ProgressiveGeneration without stages.
var ErrNoStages = progressive.ErrNoStages

// Stage is one named step of a progressive generation.
type Stage = progressive.Stage

// Adapter runs conversations against Workers AI and reports them as AG-UI
// events. It is safe for concurrent use; every Execute call is an
// independent run.
type Adapter struct {
	cfg    Config
	source provider.Source

	mu    sync.RWMutex
	model string
}

// New creates an adapter. Unless a source is injected with WithSource, the
// account id and API token are required.
func New(options ...Option) (*Adapter, error) {
	var cfg Config
	if err := opts.Apply(&cfg, options); err != nil {
		return nil, err
	}
	return newAdapter(cfg)
}

func newAdapter(cfg Config) (*Adapter, error) {
	if cfg.Model == "" {
		cfg.Model = models.Default
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = cloudflare.DefaultBaseURL
	}
	if cfg.Dialect == "" {
		cfg.Dialect = DialectNative
	}

	src := cfg.Source
	if src == nil {
		var err error
		src, err = defaultSource(cfg)
		if err != nil {
			return nil, err
		}
	}

	return &Adapter{
		cfg:    cfg,
		source: src,
		model:  cfg.Model,
	}, nil
}

func defaultSource(cfg Config) (provider.Source, error) {
	if cfg.AccountID == "" || cfg.APIToken == "" {
		return nil, ErrMissingCredentials
	}

	switch cfg.Dialect {
	case DialectNative:
		options := []opts.Option[cloudflare.Client]{
			cloudflare.AccountID(cfg.AccountID),
			cloudflare.APIToken(cfg.APIToken),
			cloudflare.BaseURL(cfg.BaseURL),
		}
		if cfg.HTTPClient != nil {
			options = append(options, cloudflare.HTTPClient(cfg.HTTPClient))
		}
		return cloudflare.New(options...)
	case DialectOpenAI:
		options := openai.Account(cfg.BaseURL, cfg.AccountID, cfg.APIToken)
		if cfg.HTTPClient != nil {
			options = append(options, option.WithHTTPClient(cfg.HTTPClient))
		}
		return openai.New(options...), nil
	default:
		return nil, errors.New("cfagui: unknown dialect " + string(cfg.Dialect))
	}
}

// Execute starts a run for messages. The configured system prompt is
// prepended and the configured tools are offered to the model. The model is
// the one current when Execute is called.
func (a *Adapter) Execute(ctx context.Context, messages []provider.Message) iter.Seq[events.Event] {
	seq := sequencer.Execute(ctx, a.source, sequencer.Params{
		Messages:     messages,
		SystemPrompt: a.cfg.SystemPrompt,
		Model:        a.Model(),
		Tools:        a.cfg.Tools,
		Options: provider.Options{
			Temperature: a.cfg.Temperature,
			MaxTokens:   a.cfg.MaxTokens,
		},
	})
	return observe(ctx, seq, a.cfg.Hooks)
}

// ProgressiveGeneration runs prompt through stages in order and reports
// progress after each one. It fails with ErrNoStages before producing any
// event when stages is empty.
func (a *Adapter) ProgressiveGeneration(ctx context.Context, prompt string, stages []Stage) (iter.Seq[events.Event], error) {
	return progressive.Generate(ctx, a.Execute, prompt, stages)
}

// Tools returns the tool definitions offered on every run.
func (a *Adapter) Tools() []tool.Definition {
	return slices.Clone(a.cfg.Tools)
}

// Source returns the chunk source the adapter streams from.
func (a *Adapter) Source() provider.Source {
	return a.source
}
