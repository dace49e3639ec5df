package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextup/campus-queue/internal/model"
	"github.com/nextup/campus-queue/internal/repository"
)

func TestTransactUnknownService(t *testing.T) {
	store := repository.NewQueueStore(testCatalog(), 0)
	err := store.Transact(context.Background(), "barber", func(txn *repository.Txn) error { return nil })
	assert.ErrorIs(t, err, repository.ErrUnknownService)
}

func TestTransactSerializesPerService(t *testing.T) {
	store := repository.NewQueueStore(testCatalog(), 5*time.Second)

	// A plain int mutated only inside transactions. Without per-service
	// serialization this read-modify-write would lose updates.
	counter := 0
	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Transact(context.Background(), "cashier", func(txn *repository.Txn) error {
				v := counter
				counter = v + 1
				txn.Append(&model.Ticket{Status: model.StatusWaiting})
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, n, counter)
	err := store.View(context.Background(), "cashier", func(txn *repository.Txn) {
		assert.Len(t, txn.Tickets(), n)
	})
	require.NoError(t, err)
}

func TestTransactBusyAfterWaitBound(t *testing.T) {
	store := repository.NewQueueStore(testCatalog(), 50*time.Millisecond)

	entered := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = store.Transact(context.Background(), "cashier", func(txn *repository.Txn) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	err := store.Transact(context.Background(), "cashier", func(txn *repository.Txn) error { return nil })
	assert.ErrorIs(t, err, repository.ErrBusy)
	close(release)
}

func TestTransactOtherServicesUnblocked(t *testing.T) {
	store := repository.NewQueueStore(testCatalog(), 5*time.Second)

	entered := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = store.Transact(context.Background(), "cashier", func(txn *repository.Txn) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered
	defer close(release)

	// A registrar transaction must not wait on the cashier slot.
	done := make(chan error, 1)
	go func() {
		done <- store.Transact(context.Background(), "registrar", func(txn *repository.Txn) error { return nil })
	}()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("transaction on an independent service blocked")
	}
}

func TestTransactContextCancelled(t *testing.T) {
	store := repository.NewQueueStore(testCatalog(), 5*time.Second)

	entered := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = store.Transact(context.Background(), "cashier", func(txn *repository.Txn) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := store.Transact(ctx, "cashier", func(txn *repository.Txn) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTransactAbortLeavesNoPartialState(t *testing.T) {
	store := repository.NewQueueStore(testCatalog(), 0)

	err := store.Transact(context.Background(), "cashier", func(txn *repository.Txn) error {
		return repository.ErrEmptyQueue // abort before mutating
	})
	assert.ErrorIs(t, err, repository.ErrEmptyQueue)

	require.NoError(t, store.View(context.Background(), "cashier", func(txn *repository.Txn) {
		assert.Empty(t, txn.Tickets())
	}))
}

func TestWaitingFIFOOrdering(t *testing.T) {
	store := repository.NewQueueStore(testCatalog(), 0)
	base := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

	err := store.Transact(context.Background(), "cashier", func(txn *repository.Txn) error {
		// Inserted out of timestamp order on purpose.
		txn.Append(&model.Ticket{QueueNumber: "C0001", Sequence: 1, Status: model.StatusWaiting, Timestamp: base.Add(2 * time.Minute)})
		txn.Append(&model.Ticket{QueueNumber: "C0002", Sequence: 2, Status: model.StatusWaiting, Timestamp: base})
		txn.Append(&model.Ticket{QueueNumber: "C0003", Sequence: 3, Status: model.StatusWaiting, Timestamp: base.Add(time.Minute)})
		txn.Append(&model.Ticket{QueueNumber: "C0004", Sequence: 4, Status: model.StatusCompleted, Timestamp: base})
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, store.View(context.Background(), "cashier", func(txn *repository.Txn) {
		waiting := txn.WaitingFIFO()
		require.Len(t, waiting, 3)
		assert.Equal(t, "C0002", waiting[0].QueueNumber)
		assert.Equal(t, "C0003", waiting[1].QueueNumber)
		assert.Equal(t, "C0001", waiting[2].QueueNumber)
	}))
}

func TestWaitingFIFOTieBrokenBySequence(t *testing.T) {
	store := repository.NewQueueStore(testCatalog(), 0)
	ts := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

	err := store.Transact(context.Background(), "cashier", func(txn *repository.Txn) error {
		txn.Append(&model.Ticket{QueueNumber: "C0002", Sequence: 2, Status: model.StatusWaiting, Timestamp: ts})
		txn.Append(&model.Ticket{QueueNumber: "C0001", Sequence: 1, Status: model.StatusWaiting, Timestamp: ts})
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, store.View(context.Background(), "cashier", func(txn *repository.Txn) {
		waiting := txn.WaitingFIFO()
		require.Len(t, waiting, 2)
		assert.Equal(t, "C0001", waiting[0].QueueNumber)
	}))
}

func TestServingFindsSingleServingTicket(t *testing.T) {
	store := repository.NewQueueStore(testCatalog(), 0)

	err := store.Transact(context.Background(), "cashier", func(txn *repository.Txn) error {
		txn.Append(&model.Ticket{QueueNumber: "C0001", Status: model.StatusCompleted})
		txn.Append(&model.Ticket{QueueNumber: "C0002", Status: model.StatusServing})
		txn.Append(&model.Ticket{QueueNumber: "C0003", Status: model.StatusWaiting})
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, store.View(context.Background(), "cashier", func(txn *repository.Txn) {
		serving := txn.Serving()
		require.NotNil(t, serving)
		assert.Equal(t, "C0002", serving.QueueNumber)
	}))
}
