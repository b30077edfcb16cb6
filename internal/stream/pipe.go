package stream

import (
	"context"
	"log/slog"

	"github.com/rampart-ai/rampart/internal/guardrail"
	"github.com/rampart-ai/rampart/internal/llm"
)

// EventKind classifies pipe events.
type EventKind string

const (
	// EventSafeChunk carries verified-safe text for the consumer.
	EventSafeChunk EventKind = "safe_chunk"

	// EventBlocked carries the verdict that blocked the stream. Final.
	EventBlocked EventKind = "blocked"

	// EventError carries an upstream generation failure. Final.
	EventError EventKind = "error"

	// EventDone marks normal completion with all content verified. Final.
	EventDone EventKind = "done"
)

// Event is one output of the filtering pipe.
type Event struct {
	Kind    EventKind
	Text    string
	Verdict *guardrail.Verdict
	Err     error
}

// Run connects an upstream generation stream to a controller and returns the
// filtered downstream channel. Fragments pass through the controller in
// generation order; a fragment is emitted only after the buffer containing
// it has passed a guardrail check, so the ordering and suspension contract
// is structural, not conventional.
//
// cancelUpstream is invoked as soon as the stream blocks so generation cost
// stops promptly. The returned channel closes after a final Blocked, Error,
// or Done event.
func Run(ctx context.Context, ctrl *Controller, upstream <-chan llm.StreamChunk, cancelUpstream context.CancelFunc, logger *slog.Logger) <-chan Event {
	if logger == nil {
		logger = slog.Default()
	}
	if cancelUpstream != nil {
		ctrl.WithUpstreamCancel(cancelUpstream)
	}

	events := make(chan Event, 1)

	go func() {
		defer close(events)

		for chunk := range upstream {
			if chunk.Err != nil {
				logger.WarnContext(ctx, "upstream generation failed",
					"stream_id", ctrl.ID(),
					"error", chunk.Err,
				)
				events <- Event{Kind: EventError, Err: chunk.Err}
				return
			}

			if chunk.Content != "" {
				result, err := ctrl.Feed(ctx, chunk.Content)
				if err != nil {
					events <- Event{Kind: EventError, Err: err}
					return
				}
				if emitFinal(ctx, events, result) {
					drain(upstream)
					return
				}
			}

			if chunk.FinishReason != "" {
				break
			}
		}

		result, err := ctrl.Finish(ctx)
		if err != nil {
			events <- Event{Kind: EventError, Err: err}
			return
		}
		if emitFinal(ctx, events, result) {
			return
		}
		events <- Event{Kind: EventDone}
	}()

	return events
}

// emitFinal emits the events implied by a feed result. Returns true if the
// result was terminal and the pipe should stop.
func emitFinal(ctx context.Context, events chan<- Event, result FeedResult) bool {
	if result.Forward != "" {
		events <- Event{Kind: EventSafeChunk, Text: result.Forward, Verdict: result.Verdict}
	}

	if result.Terminal {
		if result.Verdict != nil && !result.Verdict.IsSafe() {
			events <- Event{Kind: EventBlocked, Verdict: result.Verdict}
		} else {
			events <- Event{Kind: EventDone}
		}
		return true
	}
	return false
}

// drain consumes the remainder of a canceled upstream so its producer
// goroutine can exit.
func drain(upstream <-chan llm.StreamChunk) {
	go func() {
		for range upstream {
		}
	}()
}
