// Package console renders event sequences for a terminal.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/casualjim/cfagui/events"
	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/fogfish/opts"
)

const progressWidth = 20

// Printer writes events to a terminal. Text is streamed as it arrives unless
// a markdown style is configured, in which case each message is rendered
// with glamour once it ends.
type Printer struct {
	w             io.Writer
	markdownStyle string
	wordWrap      int
	sender        string

	markdown *glamour.TermRenderer
}

// Option configures a Printer.
type Option = opts.Option[Printer]

var (
	// MarkdownStyle enables markdown rendering: "auto" detects the terminal
	// background, any other value names a glamour standard style.
	MarkdownStyle = opts.ForName[Printer, string]("markdownStyle")
	// WordWrap sets the markdown wrap width.
	WordWrap = opts.ForName[Printer, int]("wordWrap")
	// Sender labels assistant text.
	Sender = opts.ForName[Printer, string]("sender")
)

// New creates a printer writing to w.
func New(w io.Writer, options ...Option) (*Printer, error) {
	p := &Printer{
		w:        w,
		wordWrap: 100,
		sender:   "Assistant",
	}
	if err := opts.Apply(p, options); err != nil {
		return nil, err
	}
	if p.markdownStyle == "" {
		return p, nil
	}

	style := glamour.WithStandardStyle(p.markdownStyle)
	if p.markdownStyle == "auto" {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(p.wordWrap))
	if err != nil {
		return nil, fmt.Errorf("console: markdown renderer: %w", err)
	}
	p.markdown = r
	return p, nil
}

// Print consumes seq and writes it out. It returns the RUN_ERROR events seen,
// joined, or the context error when ctx ends first.
func (p *Printer) Print(ctx context.Context, seq iter.Seq[events.Event]) error {
	var (
		text    strings.Builder
		args    = map[string]*strings.Builder{}
		names   = map[string]string{}
		runErrs []error
	)

	for e := range seq {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch ev := e.(type) {
		case events.TextMessageStart:
			text.Reset()
			fmt.Fprint(p.w, color.MagentaString(p.sender)+": ")
			if p.markdown != nil {
				fmt.Fprintln(p.w)
			}
		case events.TextMessageContent:
			text.WriteString(ev.Delta)
			if p.markdown == nil {
				fmt.Fprint(p.w, ev.Delta)
			}
		case events.TextMessageEnd:
			if p.markdown == nil {
				fmt.Fprintln(p.w)
				continue
			}
			out, err := p.markdown.Render(text.String())
			if err != nil {
				out = text.String() + "\n"
			}
			fmt.Fprint(p.w, out)
		case events.ToolCallStart:
			names[ev.ToolCallID] = ev.ToolName
			args[ev.ToolCallID] = &strings.Builder{}
		case events.ToolCallArgs:
			if b, ok := args[ev.ToolCallID]; ok {
				b.WriteString(ev.Delta)
			}
		case events.ToolCallEnd:
			name := names[ev.ToolCallID]
			if name == "" {
				name = ev.ToolCallID
			}
			var a string
			if b, ok := args[ev.ToolCallID]; ok {
				a = strings.ReplaceAll(b.String(), ": ", "=")
			}
			fmt.Fprintf(p.w, "%s%s\n", color.YellowString(name), a)
			delete(names, ev.ToolCallID)
			delete(args, ev.ToolCallID)
		case events.Metadata:
			if total, ok := ev.Usage["total_tokens"]; ok {
				fmt.Fprintln(p.w, color.HiBlackString("tokens: %v", total))
			}
		case events.Progress:
			fmt.Fprintln(p.w, ProgressBar(ev.Progress, progressWidth)+" "+color.CyanString(ev.Message))
		case events.RunError:
			fmt.Fprintln(p.w, color.RedString("Error: %s", ev.Message))
			runErrs = append(runErrs, ev)
		}
	}
	return errors.Join(runErrs...)
}

// ProgressBar draws a bar of width cells filled to percent, followed by the
// rounded percentage. Out of range values are clamped.
func ProgressBar(percent float64, width int) string {
	percent = min(max(percent, 0), 100)
	filled := int(percent / 100 * float64(width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "] " + fmt.Sprintf("%3.0f%%", percent)
}
