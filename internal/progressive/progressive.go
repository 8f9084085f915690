// Package progressive runs a prompt through a list of named stages, one run
// per stage, and reports progress after each stage completes.
package progressive

import (
	"context"
	"errors"
	"iter"
	"log/slog"

	"github.com/casualjim/cfagui/events"
	"github.com/casualjim/cfagui/pkg/slogx"
	"github.com/casualjim/cfagui/provider"
)

var (
	// ErrNoStages is returned when Generate is called without stages.
	ErrNoStages = errors.New("progressive: at least one stage is required")
	// ErrNoRunner is returned when Generate is called without a run function.
	ErrNoRunner = errors.New("progressive: run function is required")
)

// Stage is one named step of a progressive generation.
type Stage struct {
	Name        string `json:"name" yaml:"name"`
	Instruction string `json:"instruction" yaml:"instruction"`
}

// RunFunc executes a single run and returns its event sequence.
type RunFunc func(ctx context.Context, messages []provider.Message) iter.Seq[events.Event]

// StageMessage builds the user message content sent for a stage.
func StageMessage(prompt string, stage Stage) string {
	return prompt + "\n\nStage: " + stage.Name + "\n" + stage.Instruction
}

// Generate returns a sequence that runs every stage in order. The events of
// each stage are relayed unchanged; once a stage has drained, a PROGRESS
// event carrying 100*i/N and the stage name follows. A stage that ends in
// RUN_ERROR does not stop the stages after it.
//
// Validation happens up front: an empty stage list or a nil run function
// fails before any event is produced.
func Generate(ctx context.Context, run RunFunc, prompt string, stages []Stage) (iter.Seq[events.Event], error) {
	if len(stages) == 0 {
		return nil, ErrNoStages
	}
	if run == nil {
		return nil, ErrNoRunner
	}
	stages = append([]Stage(nil), stages...)

	return func(yield func(events.Event) bool) {
		log := slog.Default().With(slogx.LoggerName("progressive"))
		total := len(stages)

		for i, stage := range stages {
			msgs := []provider.Message{provider.UserMessage(StageMessage(prompt, stage))}

			failed := false
			for e := range run(ctx, msgs) {
				if e.EventType() == events.TypeRunError {
					failed = true
				}
				if !yield(e) {
					return
				}
			}
			if failed {
				log.WarnContext(ctx, "stage failed", slog.String("stage", stage.Name), slog.Int("index", i+1))
			}

			progress := events.Progress{
				Progress:  100 * float64(i+1) / float64(total),
				Message:   stage.Name,
				Timestamp: events.Now(),
			}
			if !yield(progress) {
				return
			}
		}
	}, nil
}
