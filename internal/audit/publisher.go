package audit

import (
	"context"
	"errors"
	"time"

	id "cnr/pkg/domain"
)

// ErrQueueFull is returned by Emit when the async queue cannot take another
// event. The event is dropped.
var ErrQueueFull = errors.New("audit queue full")

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByBeneficiary(ctx context.Context, beneficiaryID id.BeneficiaryID) ([]Event, error)
}

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
	queue chan<- Event
}

type PublisherOption func(*Publisher)

// WithQueue makes Emit hand events to a Worker instead of writing inline.
func WithQueue(queue chan<- Event) PublisherOption {
	return func(p *Publisher) {
		p.queue = queue
	}
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	if base.ID == (id.EventID{}) {
		base.ID = id.NewEventID()
	}
	if p.queue == nil {
		return p.store.Append(ctx, base)
	}
	select {
	case p.queue <- base:
		return nil
	default:
		return ErrQueueFull
	}
}

// ListByBeneficiary returns the trail of one record, oldest first.
func (p *Publisher) ListByBeneficiary(ctx context.Context, beneficiaryID id.BeneficiaryID) ([]Event, error) {
	return p.store.ListByBeneficiary(ctx, beneficiaryID)
}
