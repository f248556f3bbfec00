package logging

import (
	"context"
	"log/slog"
)

// BlackholeHandler implements slog.Handler and discards all log records.
type BlackholeHandler struct{}

func (BlackholeHandler) Enabled(context.Context, slog.Level) bool {
	return false
}

func (BlackholeHandler) Handle(context.Context, slog.Record) error {
	return nil
}

func (h BlackholeHandler) WithAttrs([]slog.Attr) slog.Handler {
	return h
}

func (h BlackholeHandler) WithGroup(string) slog.Handler {
	return h
}
