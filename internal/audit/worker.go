package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from a channel and persists them. A failed
// append is logged and skipped so one bad write never stalls the trail.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run drains the inbox until ctx is done or the inbox is closed. Events still
// buffered when ctx ends are flushed with a background context.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			w.append(ctx, event)
		}
	}
}

func (w *Worker) drain() {
	for {
		select {
		case event, ok := <-w.inbox:
			if !ok {
				return
			}
			w.append(context.Background(), event)
		default:
			return
		}
	}
}

func (w *Worker) append(ctx context.Context, event Event) {
	if err := w.store.Append(ctx, event); err != nil {
		w.logger.ErrorContext(ctx, "failed to persist audit event",
			"action", event.Action,
			"beneficiary_id", event.BeneficiaryID.String(),
			"request_id", event.RequestID,
			"error", err,
		)
	}
}
