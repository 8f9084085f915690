package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/casualjim/cfagui/events"
	"github.com/casualjim/cfagui/internal/shorttermmemory"
	"github.com/casualjim/cfagui/provider"
	"github.com/fatih/color"
)

// RunFunc starts a run over the whole conversation.
type RunFunc func(ctx context.Context, messages []provider.Message) iter.Seq[events.Event]

// REPL reads prompts from in, one per line, and prints each answer until in
// is exhausted or the user types exit. The conversation accumulates in mem
// so every run sees the earlier turns. A failed run is reported and the
// session continues.
func (p *Printer) REPL(ctx context.Context, in io.Reader, run RunFunc, mem *shorttermmemory.Aggregator) error {
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanLines)

	for {
		fmt.Fprintf(p.w, "%s: ", color.CyanString("User"))
		if !scanner.Scan() {
			fmt.Fprintln(p.w)
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") {
			return nil
		}

		mem.AddUserPrompt(input)
		seq := mem.Record(run(ctx, mem.Messages()))
		if err := p.Print(ctx, seq); err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
