package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/casualjim/cfagui"
	"github.com/casualjim/cfagui/pkg/slogx"
	_ "github.com/joho/godotenv/autoload"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout).Run(ctx, os.Args); err != nil {
		slog.Error("cfagui failed", slogx.Error(err))
		stop()
		os.Exit(1)
	}
}

func setupLogging(w io.Writer, level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Stamp}
	log := zerolog.New(output).With().Timestamp().Logger()
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: lvl}),
	))
	return nil
}

// newApp builds the command tree. Extra adapter options are applied after
// the ones derived from flags.
func newApp(out io.Writer, extra ...cfagui.Option) *cli.Command {
	return &cli.Command{
		Name:      "cfagui",
		Usage:     "Stream Cloudflare Workers AI runs as AG-UI events",
		Reader:    os.Stdin,
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "account-id",
				Usage:   "Cloudflare account id",
				Sources: cli.EnvVars("CLOUDFLARE_ACCOUNT_ID"),
			},
			&cli.StringFlag{
				Name:    "api-token",
				Usage:   "Cloudflare API token",
				Sources: cli.EnvVars("CLOUDFLARE_API_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "model",
				Aliases: []string{"m"},
				Usage:   "model id; chosen from the workload when empty",
				Sources: cli.EnvVars("CFAGUI_MODEL"),
			},
			&cli.StringFlag{
				Name:  "system-prompt",
				Usage: "system prompt prepended to every run",
			},
			&cli.StringFlag{
				Name:  "dialect",
				Value: string(cfagui.DialectNative),
				Usage: "Workers AI endpoint: native or openai",
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "Cloudflare API root",
				Sources: cli.EnvVars("CLOUDFLARE_API_BASE_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "debug, info, warn or error",
				Sources: cli.EnvVars("CFAGUI_LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, setupLogging(cmd.ErrWriter, cmd.String("log-level"))
		},
		Commands: []*cli.Command{
			chatCommand(extra),
			progressiveCommand(extra),
			serveCommand(extra),
			modelsCommand(extra),
		},
	}
}

// newAdapter builds an adapter from the global flags. Without --model the
// model is picked automatically.
func newAdapter(cmd *cli.Command, extra []cfagui.Option) (*cfagui.Adapter, error) {
	options := []cfagui.Option{
		cfagui.AccountID(cmd.String("account-id")),
		cfagui.APIToken(cmd.String("api-token")),
		cfagui.SystemPrompt(cmd.String("system-prompt")),
		cfagui.WithDialect(cfagui.Dialect(cmd.String("dialect"))),
	}
	if base := cmd.String("base-url"); base != "" {
		options = append(options, cfagui.BaseURL(base))
	}
	options = append(options, extra...)

	model := cmd.String("model")
	if model == "" {
		return cfagui.Auto(options...)
	}
	return cfagui.New(append(options, cfagui.Model(model))...)
}
