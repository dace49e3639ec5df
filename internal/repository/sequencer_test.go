package repository_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextup/campus-queue/internal/model"
	"github.com/nextup/campus-queue/internal/repository"
)

func testCatalog() map[string]model.Service {
	return map[string]model.Service{
		"cashier":   {ID: "cashier", DisplayName: "Cashier's Office", CodePrefix: "C", EstimatedMinutes: 5},
		"registrar": {ID: "registrar", DisplayName: "Registrar's Office", CodePrefix: "R", EstimatedMinutes: 15},
	}
}

func TestSequencerFormatsNumbers(t *testing.T) {
	seq := repository.NewSequencer(testCatalog())

	n, number, err := seq.NextNumber("cashier")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "C0001", number)

	n, number, err = seq.NextNumber("cashier")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "C0002", number)

	// Services count independently.
	n, number, err = seq.NextNumber("registrar")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "R0001", number)
}

func TestSequencerUnknownService(t *testing.T) {
	seq := repository.NewSequencer(testCatalog())

	_, _, err := seq.NextNumber("barber")
	assert.ErrorIs(t, err, repository.ErrUnknownService)

	_, err = seq.Peek("barber")
	assert.ErrorIs(t, err, repository.ErrUnknownService)

	assert.ErrorIs(t, seq.Reset("barber"), repository.ErrUnknownService)
}

func TestSequencerConcurrentIssueIsGapFree(t *testing.T) {
	seq := repository.NewSequencer(testCatalog())

	const n = 100
	results := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _, err := seq.NextNumber("cashier")
			assert.NoError(t, err)
			results <- v
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int]bool, n)
	for v := range results {
		assert.False(t, seen[v], "sequence %d issued twice", v)
		seen[v] = true
	}
	// All of 1..n issued, no gaps, no reuse.
	for i := 1; i <= n; i++ {
		assert.True(t, seen[i], "sequence %d missing", i)
	}

	next, err := seq.Peek("cashier")
	require.NoError(t, err)
	assert.Equal(t, n+1, next)
}

func TestSequencerReset(t *testing.T) {
	seq := repository.NewSequencer(testCatalog())

	for i := 0; i < 3; i++ {
		_, _, err := seq.NextNumber("cashier")
		require.NoError(t, err)
	}
	require.NoError(t, seq.Reset("cashier"))

	n, number, err := seq.NextNumber("cashier")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "C0001", number)
}

func TestFormatWidth(t *testing.T) {
	assert.Equal(t, "C0007", repository.Format("C", 7))
	assert.Equal(t, "IT0042", repository.Format("IT", 42))
	// Sequences beyond the pad width keep growing rather than wrapping.
	assert.Equal(t, "C12345", repository.Format("C", 12345))
}
