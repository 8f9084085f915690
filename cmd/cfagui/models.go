package main

import (
	"context"
	"fmt"

	"github.com/casualjim/cfagui"
	"github.com/casualjim/cfagui/provider/models"
	"github.com/fatih/color"
	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v3"
)

func modelsCommand(extra []cfagui.Option) *cli.Command {
	return &cli.Command{
		Name:  "models",
		Usage: "List text generation models and their capabilities",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "remote", Usage: "ask Workers AI instead of using the built-in table"},
			&cli.BoolFlag{Name: "raw", Usage: "dump the capabilities as Go values"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			names := models.Names()
			if cmd.Bool("remote") {
				adapter, err := newAdapter(cmd, extra)
				if err != nil {
					return err
				}
				if names, err = adapter.ListAvailableModels(ctx); err != nil {
					return err
				}
			}

			w := cmd.Root().Writer
			if cmd.Bool("raw") {
				printer := pp.New()
				printer.SetOutput(w)
				printer.SetColoringEnabled(false)
				caps := make(map[string]models.Capabilities, len(names))
				for _, name := range names {
					caps[name] = models.Get(name)
				}
				_, err := printer.Println(caps)
				return err
			}

			for _, name := range names {
				c := models.Get(name)
				tools := ""
				if c.FunctionCalling {
					tools = color.GreenString(" tools")
				}
				fmt.Fprintf(w, "%s%s (max %d tokens, context %d)\n", name, tools, c.MaxTokens, c.ContextWindow)
			}
			return nil
		},
	}
}
