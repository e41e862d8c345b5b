package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mealcart/backend/internal/domain"
)

// PriceViewConfig holds configuration for the price repository view.
type PriceViewConfig struct {
	// FreshnessWindow is the maximum age before an observation is flagged
	// stale. Staleness is informational, not exclusionary.
	FreshnessWindow time.Duration
}

// PriceView selects the current observation per (product, store) key from
// the append-only repository. It is the sole authority on which observation
// is "current" for a key.
type PriceView struct {
	repo   domain.PriceRepository
	clock  domain.Clock
	window time.Duration
}

// NewPriceView creates a price view over the given repository.
func NewPriceView(repo domain.PriceRepository, clock domain.Clock, config PriceViewConfig) *PriceView {
	window := config.FreshnessWindow
	if window == 0 {
		window = 7 * 24 * time.Hour
	}
	if clock == nil {
		clock = domain.ClockFunc(time.Now)
	}
	return &PriceView{repo: repo, clock: clock, window: window}
}

// Latest returns the most recent observation per (product, store) key for a
// city. Entries older than the freshness window are returned with Stale set
// rather than omitted. Ties in timestamp break by confidence, then by
// source type priority (selector > cached > llm).
func (v *PriceView) Latest(ctx context.Context, city string, window time.Duration) (map[domain.PriceKey]domain.PriceObservation, error) {
	if window <= 0 {
		window = v.window
	}

	observations, err := v.repo.SnapshotCity(ctx, strings.ToLower(strings.TrimSpace(city)))
	if err != nil {
		return nil, err
	}

	latest := make(map[domain.PriceKey]domain.PriceObservation)
	for _, obs := range observations {
		key := domain.PriceKey{ProductName: obs.ProductName, Store: obs.Store}
		current, exists := latest[key]
		if !exists || obs.Newer(current) {
			latest[key] = obs
		}
	}

	cutoff := v.clock.Now().Add(-window)
	for key, obs := range latest {
		if obs.ObservedAt.Before(cutoff) {
			obs.Stale = true
			latest[key] = obs
		}
	}

	return latest, nil
}

// RawPriceRecord is a price record as handed over by the ingestion
// collaborator, before unit normalization.
type RawPriceRecord struct {
	ProductName string    `json:"productName" binding:"required"`
	Store       string    `json:"store" binding:"required"`
	City        string    `json:"city" binding:"required"`
	Country     string    `json:"country"`
	Currency    string    `json:"currency" binding:"required"`
	Price       string    `json:"price" binding:"required"` // "8,99" or "8.99"
	Quantity    string    `json:"quantity" binding:"required"`
	SourceType  string    `json:"sourceType"`
	Confidence  float64   `json:"confidence"`
	ObservedAt  time.Time `json:"observedAt"`
	OnSale      bool      `json:"onSale"`
	SalePrice   string    `json:"salePrice"`
	URL         string    `json:"url"`
}

// Ingestor normalizes raw price records on the way into the repository.
// Normalization errors are recovered locally: the bad record is skipped and
// counted, never fatal for the batch.
type Ingestor struct {
	repo  domain.PriceRepository
	clock domain.Clock
}

// NewIngestor creates an ingestor writing to the given repository.
func NewIngestor(repo domain.PriceRepository, clock domain.Clock) *Ingestor {
	if clock == nil {
		clock = domain.ClockFunc(time.Now)
	}
	return &Ingestor{repo: repo, clock: clock}
}

// Ingest normalizes and appends a batch of raw records. Returns the number
// accepted and the number skipped due to parse failures.
func (i *Ingestor) Ingest(ctx context.Context, records []RawPriceRecord) (accepted, skipped int, err error) {
	for _, rec := range records {
		obs, convErr := i.convert(rec)
		if convErr != nil {
			log.Printf("[ingest] skipping %s@%s: %v", rec.ProductName, rec.Store, convErr)
			skipped++
			continue
		}
		if err := i.repo.Append(ctx, obs); err != nil {
			return accepted, skipped, err
		}
		accepted++
	}
	return accepted, skipped, nil
}

func (i *Ingestor) convert(rec RawPriceRecord) (domain.PriceObservation, error) {
	price, err := ParsePrice(rec.Price)
	if err != nil {
		return domain.PriceObservation{}, err
	}
	normalized, err := NormalizeQuantity(rec.Quantity)
	if err != nil {
		return domain.PriceObservation{}, err
	}
	perBase, err := PricePerBase(price, normalized.Quantity)
	if err != nil {
		return domain.PriceObservation{}, err
	}

	sourceType := domain.SourceType(rec.SourceType)
	if sourceType.Priority() == 0 {
		sourceType = domain.SourceSelector
	}
	confidence := rec.Confidence
	if confidence <= 0 || confidence > 1 {
		confidence = defaultConfidence(sourceType)
	}
	observedAt := rec.ObservedAt
	if observedAt.IsZero() {
		observedAt = i.clock.Now()
	}

	obs := domain.PriceObservation{
		ID:           uuid.NewString(),
		ProductName:  strings.ToLower(strings.TrimSpace(rec.ProductName)),
		Store:        strings.ToLower(strings.TrimSpace(rec.Store)),
		City:         strings.ToLower(strings.TrimSpace(rec.City)),
		Country:      rec.Country,
		Currency:     strings.ToUpper(rec.Currency),
		RawPrice:     price,
		RawQuantity:  rec.Quantity,
		Quantity:     normalized.Quantity,
		Unit:         normalized.Unit,
		PricePerBase: perBase,
		SourceType:   sourceType,
		Confidence:   confidence,
		ObservedAt:   observedAt,
		OnSale:       rec.OnSale,
		URL:          rec.URL,
	}
	if rec.OnSale && rec.SalePrice != "" {
		if sale, err := ParsePrice(rec.SalePrice); err == nil {
			obs.SalePrice = sale
		} else {
			obs.OnSale = false
		}
	}
	return obs, nil
}

// defaultConfidence documents the provenance-based confidence per source
// type when the collaborator supplies none.
func defaultConfidence(s domain.SourceType) float64 {
	switch s {
	case domain.SourceSelector:
		return 0.95
	case domain.SourceCached:
		return 0.85
	case domain.SourceLLM:
		return 0.70
	}
	return 0.5
}
