package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "cnr/pkg/domain"
)

func TestPublisherEmitInline(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store)
	beneficiaryID := id.NewBeneficiaryID()

	require.NoError(t, pub.Emit(context.Background(), Event{
		Action:        ActionBeneficiaryAudited,
		BeneficiaryID: beneficiaryID,
		Decision:      "compliant",
	}))

	events, err := pub.ListByBeneficiary(context.Background(), beneficiaryID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.IsZero(), "timestamp is stamped on emit")
	assert.NotEqual(t, id.EventID{}, events[0].ID, "id is assigned on emit")
}

func TestListOrdersByTimestamp(t *testing.T) {
	store := NewInMemoryStore()
	beneficiaryID := id.NewBeneficiaryID()
	now := time.Now()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, Event{BeneficiaryID: beneficiaryID, Action: ActionBeneficiaryAudited, Timestamp: now}))
	require.NoError(t, store.Append(ctx, Event{BeneficiaryID: beneficiaryID, Action: ActionBeneficiaryEnrolled, Timestamp: now.Add(-time.Minute)}))
	require.NoError(t, store.Append(ctx, Event{BeneficiaryID: id.NewBeneficiaryID(), Action: ActionBeneficiaryEnrolled, Timestamp: now}))

	events, err := store.ListByBeneficiary(ctx, beneficiaryID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ActionBeneficiaryEnrolled, events[0].Action)
	assert.Equal(t, ActionBeneficiaryAudited, events[1].Action)
}

func TestPublisherWithQueue(t *testing.T) {
	store := NewInMemoryStore()
	queue := make(chan Event, 1)
	pub := NewPublisher(store, WithQueue(queue))
	beneficiaryID := id.NewBeneficiaryID()
	ctx := context.Background()

	require.NoError(t, pub.Emit(ctx, Event{BeneficiaryID: beneficiaryID, Action: ActionReversionCreated}))
	assert.ErrorIs(t, pub.Emit(ctx, Event{BeneficiaryID: beneficiaryID}), ErrQueueFull)

	events, _ := store.ListByBeneficiary(ctx, beneficiaryID)
	assert.Empty(t, events, "queued events are written by the worker")

	close(queue)
	worker := NewWorker(store, queue, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, worker.Run(ctx))

	events, _ = store.ListByBeneficiary(ctx, beneficiaryID)
	require.Len(t, events, 1)
	assert.Equal(t, ActionReversionCreated, events[0].Action)
}

type failingStore struct {
	InMemoryStore
	calls int
}

func (f *failingStore) Append(context.Context, Event) error {
	f.calls++
	return errors.New("disk full")
}

func TestWorkerSkipsFailedAppends(t *testing.T) {
	store := &failingStore{}
	inbox := make(chan Event, 2)
	inbox <- Event{Action: ActionBeneficiaryAudited}
	inbox <- Event{Action: ActionBeneficiaryAudited}
	close(inbox)

	require.NoError(t, NewWorker(store, inbox, nil).Run(context.Background()))
	assert.Equal(t, 2, store.calls)
}

func TestWorkerFlushesOnShutdown(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event, 2)
	beneficiaryID := id.NewBeneficiaryID()
	inbox <- Event{BeneficiaryID: beneficiaryID, Action: ActionBeneficiaryAudited}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewWorker(store, inbox, nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	events, _ := store.ListByBeneficiary(context.Background(), beneficiaryID)
	assert.Len(t, events, 1)
}
