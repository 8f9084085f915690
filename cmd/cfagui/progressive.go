package main

import (
	"context"
	"fmt"
	"iter"
	"os"
	"strings"

	"github.com/casualjim/cfagui"
	"github.com/casualjim/cfagui/events"
	"github.com/casualjim/cfagui/internal/console"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

func progressiveCommand(extra []cfagui.Option) *cli.Command {
	return &cli.Command{
		Name:      "progressive",
		Usage:     "Run a prompt through a list of stages",
		ArgsUsage: "<prompt>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "stages", Required: true, Usage: "YAML or JSON file with the stages"},
			&cli.BoolFlag{Name: "json", Usage: "print the raw AG-UI events, one JSON document per line"},
			&cli.BoolFlag{Name: "render", Usage: "render each stage's answer as markdown"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			prompt := strings.Join(cmd.Args().Slice(), " ")
			if prompt == "" {
				return cli.Exit("a prompt is required", 1)
			}

			stages, err := loadStages(cmd.String("stages"))
			if err != nil {
				return err
			}

			adapter, err := newAdapter(cmd, extra)
			if err != nil {
				return err
			}
			seq, err := adapter.ProgressiveGeneration(ctx, prompt, stages)
			if err != nil {
				return err
			}
			return printEvents(ctx, cmd, seq)
		},
	}
}

// loadStages reads a stage file. Both a bare list and a document with a
// top-level stages key are accepted; JSON parses as YAML.
func loadStages(path string) ([]cfagui.Stage, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stages: %w", err)
	}

	var doc struct {
		Stages []cfagui.Stage `yaml:"stages"`
	}
	var stages []cfagui.Stage
	if err := yaml.Unmarshal(b, &doc); err == nil {
		stages = doc.Stages
	} else if err := yaml.Unmarshal(b, &stages); err != nil {
		return nil, fmt.Errorf("parse stages %s: %w", path, err)
	}
	if len(stages) == 0 {
		return nil, fmt.Errorf("parse stages %s: %w", path, cfagui.ErrNoStages)
	}
	return stages, nil
}

// printEvents writes seq either as JSON lines or through the console printer.
func printEvents(ctx context.Context, cmd *cli.Command, seq iter.Seq[events.Event]) error {
	if cmd.Bool("json") {
		for e := range seq {
			b, err := events.ToJSON(e)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.Root().Writer, string(b))
		}
		return nil
	}

	var options []console.Option
	if cmd.Bool("render") {
		options = append(options, console.MarkdownStyle("auto"))
	}
	printer, err := console.New(cmd.Root().Writer, options...)
	if err != nil {
		return err
	}
	return printer.Print(ctx, seq)
}
