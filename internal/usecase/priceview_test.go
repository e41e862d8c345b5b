package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mealcart/backend/internal/domain"
)

// MockPriceRepository is an in-test implementation of domain.PriceRepository.
type MockPriceRepository struct {
	observations []domain.PriceObservation
	appendError  error
}

func NewMockPriceRepository() *MockPriceRepository {
	return &MockPriceRepository{}
}

func (m *MockPriceRepository) Append(ctx context.Context, obs domain.PriceObservation) error {
	if m.appendError != nil {
		return m.appendError
	}
	m.observations = append(m.observations, obs)
	return nil
}

func (m *MockPriceRepository) SnapshotCity(ctx context.Context, city string) ([]domain.PriceObservation, error) {
	var result []domain.PriceObservation
	for _, obs := range m.observations {
		if obs.City == city {
			result = append(result, obs)
		}
	}
	return result, nil
}

func (m *MockPriceRepository) History(ctx context.Context, city string, key domain.PriceKey) ([]domain.PriceObservation, error) {
	var result []domain.PriceObservation
	for _, obs := range m.observations {
		if obs.City == city && obs.ProductName == key.ProductName && obs.Store == key.Store {
			result = append(result, obs)
		}
	}
	return result, nil
}

var viewNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() domain.Clock {
	return domain.ClockFunc(func() time.Time { return viewNow })
}

func observation(product, store string, observedAt time.Time, confidence float64, source domain.SourceType) domain.PriceObservation {
	return domain.PriceObservation{
		ID:           product + "-" + store + observedAt.String(),
		ProductName:  product,
		Store:        store,
		City:         "vienna",
		Currency:     "EUR",
		RawPrice:     decimal.NewFromFloat(2.50),
		Quantity:     1000,
		Unit:         domain.UnitGram,
		PricePerBase: decimal.NewFromFloat(0.0025),
		SourceType:   source,
		Confidence:   confidence,
		ObservedAt:   observedAt,
	}
}

func TestLatestSelectsMostRecent(t *testing.T) {
	ctx := context.Background()
	repo := NewMockPriceRepository()
	old := observation("rice", "spar", viewNow.Add(-48*time.Hour), 0.9, domain.SourceSelector)
	recent := observation("rice", "spar", viewNow.Add(-1*time.Hour), 0.7, domain.SourceLLM)
	repo.observations = []domain.PriceObservation{old, recent}

	view := NewPriceView(repo, fixedClock(), PriceViewConfig{FreshnessWindow: 7 * 24 * time.Hour})
	latest, err := view.Latest(ctx, "vienna", 0)
	if err != nil {
		t.Fatalf("Latest error = %v", err)
	}

	got, ok := latest[domain.PriceKey{ProductName: "rice", Store: "spar"}]
	if !ok {
		t.Fatal("expected rice@spar in snapshot")
	}
	if !got.ObservedAt.Equal(recent.ObservedAt) {
		t.Errorf("selected observation at %v, want most recent %v", got.ObservedAt, recent.ObservedAt)
	}
}

func TestLatestTieBreaks(t *testing.T) {
	ctx := context.Background()
	at := viewNow.Add(-2 * time.Hour)

	t.Run("higher confidence wins timestamp tie", func(t *testing.T) {
		repo := NewMockPriceRepository()
		low := observation("oats", "billa", at, 0.6, domain.SourceSelector)
		high := observation("oats", "billa", at, 0.9, domain.SourceLLM)
		repo.observations = []domain.PriceObservation{low, high}

		view := NewPriceView(repo, fixedClock(), PriceViewConfig{})
		latest, _ := view.Latest(ctx, "vienna", 0)
		got := latest[domain.PriceKey{ProductName: "oats", Store: "billa"}]
		if got.Confidence != 0.9 {
			t.Errorf("confidence = %v, want tie broken toward 0.9", got.Confidence)
		}
	})

	t.Run("source priority breaks full tie", func(t *testing.T) {
		repo := NewMockPriceRepository()
		llm := observation("oats", "billa", at, 0.8, domain.SourceLLM)
		selector := observation("oats", "billa", at, 0.8, domain.SourceSelector)
		cached := observation("oats", "billa", at, 0.8, domain.SourceCached)
		repo.observations = []domain.PriceObservation{llm, selector, cached}

		view := NewPriceView(repo, fixedClock(), PriceViewConfig{})
		latest, _ := view.Latest(ctx, "vienna", 0)
		got := latest[domain.PriceKey{ProductName: "oats", Store: "billa"}]
		if got.SourceType != domain.SourceSelector {
			t.Errorf("sourceType = %v, want selector to win the tie", got.SourceType)
		}
	})
}

func TestLatestFlagsStaleButKeeps(t *testing.T) {
	ctx := context.Background()
	repo := NewMockPriceRepository()
	stale := observation("rice", "spar", viewNow.Add(-10*24*time.Hour), 0.9, domain.SourceSelector)
	fresh := observation("oats", "spar", viewNow.Add(-1*time.Hour), 0.9, domain.SourceSelector)
	repo.observations = []domain.PriceObservation{stale, fresh}

	view := NewPriceView(repo, fixedClock(), PriceViewConfig{FreshnessWindow: 7 * 24 * time.Hour})
	latest, err := view.Latest(ctx, "vienna", 0)
	if err != nil {
		t.Fatalf("Latest error = %v", err)
	}

	if len(latest) != 2 {
		t.Fatalf("snapshot size = %d, want 2 (stale entries are kept)", len(latest))
	}
	if !latest[domain.PriceKey{ProductName: "rice", Store: "spar"}].Stale {
		t.Error("expected stale flag on the 10-day-old observation")
	}
	if latest[domain.PriceKey{ProductName: "oats", Store: "spar"}].Stale {
		t.Error("fresh observation should not be flagged stale")
	}
}

func TestLatestReturnsAllStores(t *testing.T) {
	ctx := context.Background()
	repo := NewMockPriceRepository()
	repo.observations = []domain.PriceObservation{
		observation("rice", "spar", viewNow.Add(-time.Hour), 0.9, domain.SourceSelector),
		observation("rice", "billa", viewNow.Add(-time.Hour), 0.9, domain.SourceSelector),
	}

	view := NewPriceView(repo, fixedClock(), PriceViewConfig{})
	latest, _ := view.Latest(ctx, "vienna", 0)
	if len(latest) != 2 {
		t.Errorf("snapshot size = %d, want both stores returned", len(latest))
	}
}

func TestIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes and appends good records", func(t *testing.T) {
		repo := NewMockPriceRepository()
		ingestor := NewIngestor(repo, fixedClock())

		accepted, skipped, err := ingestor.Ingest(ctx, []RawPriceRecord{
			{ProductName: "Chicken Breast", Store: "Spar", City: "Vienna", Currency: "eur", Price: "8,99", Quantity: "1kg", SourceType: "selector", Confidence: 0.95},
		})
		if err != nil {
			t.Fatalf("Ingest error = %v", err)
		}
		if accepted != 1 || skipped != 0 {
			t.Fatalf("accepted=%d skipped=%d, want 1/0", accepted, skipped)
		}

		obs := repo.observations[0]
		if obs.ProductName != "chicken breast" || obs.Store != "spar" || obs.City != "vienna" {
			t.Errorf("identity not normalized: %+v", obs)
		}
		if obs.Currency != "EUR" {
			t.Errorf("currency = %q, want EUR", obs.Currency)
		}
		if obs.Quantity != 1000 || obs.Unit != domain.UnitGram {
			t.Errorf("quantity = %v %v, want 1000 g", obs.Quantity, obs.Unit)
		}
		if !obs.PricePerBase.Equal(decimal.NewFromFloat(0.009)) {
			t.Errorf("pricePerBase = %s, want 0.009", obs.PricePerBase)
		}
		if obs.ID == "" {
			t.Error("expected generated observation ID")
		}
	})

	t.Run("skips unparseable units without failing the batch", func(t *testing.T) {
		repo := NewMockPriceRepository()
		ingestor := NewIngestor(repo, fixedClock())

		accepted, skipped, err := ingestor.Ingest(ctx, []RawPriceRecord{
			{ProductName: "rice", Store: "spar", City: "vienna", Currency: "EUR", Price: "2,50", Quantity: "1 bushel"},
			{ProductName: "oats", Store: "spar", City: "vienna", Currency: "EUR", Price: "1,49", Quantity: "500g"},
		})
		if err != nil {
			t.Fatalf("Ingest error = %v", err)
		}
		if accepted != 1 || skipped != 1 {
			t.Errorf("accepted=%d skipped=%d, want 1/1", accepted, skipped)
		}
	})

	t.Run("sale price becomes effective price", func(t *testing.T) {
		repo := NewMockPriceRepository()
		ingestor := NewIngestor(repo, fixedClock())

		_, _, err := ingestor.Ingest(ctx, []RawPriceRecord{
			{ProductName: "tuna", Store: "spar", City: "vienna", Currency: "EUR", Price: "2,49", Quantity: "195g", OnSale: true, SalePrice: "1,99"},
		})
		if err != nil {
			t.Fatalf("Ingest error = %v", err)
		}
		obs := repo.observations[0]
		if !obs.EffectivePrice().Equal(decimal.NewFromFloat(1.99)) {
			t.Errorf("effective price = %s, want sale price 1.99", obs.EffectivePrice())
		}
	})
}
