package main

import (
	"context"
	"log/slog"

	"github.com/scoutrun/routescout/events"
	"github.com/scoutrun/routescout/pkg/slogx"
)

// resultHook stays quiet during the run and hands the final briefing to
// the result channel.
type resultHook struct {
	events.NoopHook
	result chan<- string
}

func (h *resultHook) OnResult(ctx context.Context, result string) {
	h.result <- result
}

func (h *resultHook) OnError(ctx context.Context, err error) {
	slog.ErrorContext(ctx, "scouting error", slogx.Error(err))
}

func (h *resultHook) OnClose(ctx context.Context) {}
