package pricestore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealcart/backend/internal/domain"
)

func testObservation(product, store, city string, observedAt time.Time) domain.PriceObservation {
	return domain.PriceObservation{
		ID:           fmt.Sprintf("%s-%s-%d", product, store, observedAt.UnixNano()),
		ProductName:  product,
		Store:        store,
		City:         city,
		Currency:     "EUR",
		RawPrice:     decimal.NewFromFloat(2.50),
		Quantity:     1000,
		Unit:         domain.UnitGram,
		PricePerBase: decimal.NewFromFloat(0.0025),
		SourceType:   domain.SourceSelector,
		Confidence:   0.95,
		ObservedAt:   observedAt,
	}
}

func TestAppendAndSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()

	require.NoError(t, store.Append(ctx, testObservation("rice", "spar", "vienna", now)))
	require.NoError(t, store.Append(ctx, testObservation("oats", "billa", "Vienna", now)))
	require.NoError(t, store.Append(ctx, testObservation("rice", "spar", "graz", now)))

	snapshot, err := store.SnapshotCity(ctx, "vienna")
	require.NoError(t, err)
	assert.Len(t, snapshot, 2, "city key is case-insensitive and city-scoped")

	graz, err := store.SnapshotCity(ctx, "graz")
	require.NoError(t, err)
	assert.Len(t, graz, 1)
}

func TestSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()
	require.NoError(t, store.Append(ctx, testObservation("rice", "spar", "vienna", now)))

	snapshot, err := store.SnapshotCity(ctx, "vienna")
	require.NoError(t, err)
	snapshot[0].ProductName = "mutated"

	again, err := store.SnapshotCity(ctx, "vienna")
	require.NoError(t, err)
	assert.Equal(t, "rice", again[0].ProductName, "snapshot mutation must not leak into the store")
}

func TestHistoryRetainsAllObservationsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Now()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Append(ctx, testObservation("rice", "spar", "vienna", base.Add(time.Duration(i)*time.Hour))))
	}

	history, err := store.History(ctx, "vienna", domain.PriceKey{ProductName: "rice", Store: "spar"})
	require.NoError(t, err)
	require.Len(t, history, 3, "history is retained for audit, nothing superseded")
	for i := 1; i < len(history); i++ {
		assert.True(t, history[i-1].ObservedAt.After(history[i].ObservedAt), "newest first")
	}
}

func TestConcurrentAppendAndSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = store.Append(ctx, testObservation(fmt.Sprintf("product-%d", i), "spar", "vienna", now))
		}(i)
		go func() {
			defer wg.Done()
			_, _ = store.SnapshotCity(ctx, "vienna")
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, store.Size())
}
