package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/casualjim/cfagui"
	"github.com/casualjim/cfagui/internal/console"
	"github.com/casualjim/cfagui/internal/shorttermmemory"
	"github.com/casualjim/cfagui/provider"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
)

func chatCommand(extra []cfagui.Option) *cli.Command {
	return &cli.Command{
		Name:      "chat",
		Usage:     "Run a prompt and stream the answer, or hold a conversation with -i",
		ArgsUsage: "<prompt>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print the raw AG-UI events, one JSON document per line"},
			&cli.BoolFlag{Name: "render", Usage: "render answers as markdown"},
			&cli.BoolFlag{Name: "interactive", Aliases: []string{"i"}, Usage: "read prompts from stdin until exit"},
			&cli.StringFlag{Name: "history", Usage: "load and save the interactive conversation in this file"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			adapter, err := newAdapter(cmd, extra)
			if err != nil {
				return err
			}

			if cmd.Bool("interactive") {
				return interactive(ctx, cmd, adapter)
			}

			prompt := strings.Join(cmd.Args().Slice(), " ")
			if prompt == "" {
				return cli.Exit("a prompt is required", 1)
			}
			seq := adapter.Execute(ctx, []provider.Message{provider.UserMessage(prompt)})
			return printEvents(ctx, cmd, seq)
		},
	}
}

func interactive(ctx context.Context, cmd *cli.Command, adapter *cfagui.Adapter) error {
	path := cmd.String("history")
	mem, err := loadHistory(path)
	if err != nil {
		return err
	}

	var options []console.Option
	if cmd.Bool("render") {
		options = append(options, console.MarkdownStyle("auto"))
	}
	printer, err := console.New(cmd.Root().Writer, options...)
	if err != nil {
		return err
	}

	replErr := printer.REPL(ctx, cmd.Root().Reader, adapter.Execute, mem)
	if path == "" {
		return replErr
	}
	return errors.Join(replErr, saveHistory(path, mem))
}

func loadHistory(path string) (*shorttermmemory.Aggregator, error) {
	mem := shorttermmemory.New()
	if path == "" {
		return mem, nil
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return mem, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	var cp shorttermmemory.Checkpoint
	if err := json.Unmarshal(b, &cp); err != nil {
		return nil, fmt.Errorf("parse history %s: %w", path, err)
	}
	cp.MergeInto(mem)
	return mem, nil
}

func saveHistory(path string, mem *shorttermmemory.Aggregator) error {
	b, err := json.MarshalIndent(mem.Checkpoint(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
