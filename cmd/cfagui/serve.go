package main

import (
	"context"
	"log/slog"

	"github.com/casualjim/cfagui"
	"github.com/casualjim/cfagui/internal/broker"
	"github.com/casualjim/cfagui/internal/server"
	"github.com/casualjim/cfagui/pkg/natsx"
	"github.com/urfave/cli/v3"
)

func serveCommand(extra []cfagui.Option) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve runs over HTTP as server-sent events",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Value:   ":8080",
				Usage:   "listen address",
				Sources: cli.EnvVars("CFAGUI_ADDR"),
			},
			&cli.StringFlag{
				Name:    "nats-url",
				Usage:   "publish run events on NATS instead of in process",
				Sources: cli.EnvVars("NATS_URL"),
			},
			&cli.BoolFlag{
				Name:  "embedded-nats",
				Usage: "start an in-process NATS server and publish on it",
			},
			&cli.StringFlag{
				Name:  "topic",
				Value: "agui.runs",
				Usage: "topic run events are published on",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			adapter, err := newAdapter(cmd, extra)
			if err != nil {
				return err
			}

			b, closeBroker, err := openBroker(cmd.String("nats-url"), cmd.Bool("embedded-nats"))
			if err != nil {
				return err
			}
			defer closeBroker()

			srv, err := server.New(adapter, server.WithTopic(b.Topic(ctx, cmd.String("topic"))))
			if err != nil {
				return err
			}
			return srv.ListenAndServe(ctx, cmd.String("addr"))
		},
	}
}

// openBroker picks the broker for the serve command: an embedded NATS
// server, a remote NATS server or the local broker, in that order.
func openBroker(natsURL string, embedded bool) (broker.Broker, func(), error) {
	if embedded {
		ns, err := broker.RunEmbeddedNATS(-1)
		if err != nil {
			return nil, nil, err
		}
		natsURL = ns.ClientURL()
		slog.Info("embedded nats server started", slog.String("url", natsURL))

		nc, err := natsx.NewClient(natsURL)
		if err != nil {
			ns.Shutdown()
			return nil, nil, err
		}
		return broker.NATS(nc), func() {
			nc.Close()
			ns.Shutdown()
		}, nil
	}

	if natsURL != "" {
		nc, err := natsx.NewClient(natsURL)
		if err != nil {
			return nil, nil, err
		}
		return broker.NATS(nc), nc.Close, nil
	}
	return broker.Local(), func() {}, nil
}
