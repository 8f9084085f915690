package slogx

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

const (
	// KeyLoggerName is the attribute key that carries the logger name.
	KeyLoggerName = "logger"
	// KeyRunID is the attribute key for a run identifier.
	KeyRunID = "run_id"
	// KeyModel is the attribute key for a model identifier.
	KeyModel = "model"
)

// Error returns a slog.Attr with key "error" holding the error message.
// A nil error is rendered as an empty string.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Stringer creates a slog.Attr from the String() form of value.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}

// LoggerName returns an attribute naming the component that logs.
func LoggerName(name string) slog.Attr {
	return slog.String(KeyLoggerName, name)
}

// RunID returns the run identifier attribute.
func RunID(id uuid.UUID) slog.Attr {
	return slog.String(KeyRunID, id.String())
}

// Model returns the model identifier attribute.
func Model(name string) slog.Attr {
	return slog.String(KeyModel, name)
}
