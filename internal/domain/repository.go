package domain

import (
	"context"
	"time"
)

// PriceRepository is the append-only store of price observations. Writers
// append new observations but never mutate existing ones; SnapshotCity hands
// back a consistent point-in-time copy.
type PriceRepository interface {
	Append(ctx context.Context, obs PriceObservation) error
	SnapshotCity(ctx context.Context, city string) ([]PriceObservation, error)
	// History returns every retained observation for a key, newest first.
	History(ctx context.Context, city string, key PriceKey) ([]PriceObservation, error)
}

// ProductCatalog resolves products and nutrition profiles. Static, seeded
// once; read-only to the optimizer.
type ProductCatalog interface {
	ProductByName(name string) (Product, bool)
	Nutrition(name string) (NutritionProfile, bool)
	ProductsByCategory(category Category) []Product
}

// Clock abstracts time for freshness computation in tests.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a func to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }
