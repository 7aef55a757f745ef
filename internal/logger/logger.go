package logger

import (
	"io"
	"log/slog"
	"os"
)

const serviceName = "quickmart"

// New creates the service JSON logger writing to stdout.
func New() *slog.Logger {
	return NewWithWriter(os.Stdout, slog.LevelInfo)
}

// NewWithWriter builds a JSON logger tagged with the service name.
func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("service", serviceName))
}
