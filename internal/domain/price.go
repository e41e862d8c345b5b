package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceType records how a price observation was extracted.
type SourceType string

const (
	SourceSelector SourceType = "selector" // parsed from a known page selector
	SourceCached   SourceType = "cached"   // replayed from an earlier run
	SourceLLM      SourceType = "llm"      // extracted by a language model
)

// Priority orders source types for tie-breaking when two observations share
// a timestamp and confidence: selector > cached > llm. Higher is better.
func (s SourceType) Priority() int {
	switch s {
	case SourceSelector:
		return 3
	case SourceCached:
		return 2
	case SourceLLM:
		return 1
	}
	return 0
}

// PriceObservation is a single immutable price record for a product at a
// store. New observations supersede old ones for freshness purposes; history
// is retained for audit.
type PriceObservation struct {
	ID             string          `json:"id"`
	ProductName    string          `json:"productName"` // normalized name
	Store          string          `json:"store"`
	City           string          `json:"city"`
	Country        string          `json:"country,omitempty"`
	Currency       string          `json:"currency"`
	RawPrice       decimal.Decimal `json:"rawPrice"`
	RawQuantity    string          `json:"rawQuantity"` // e.g. "1kg", "6 pcs"
	Quantity       float64         `json:"quantity"`    // normalized, in base units
	Unit           BaseUnit        `json:"unit"`
	PricePerBase   decimal.Decimal `json:"pricePerBase"` // RawPrice / Quantity, 4 dp
	SourceType     SourceType      `json:"sourceType"`
	Confidence     float64         `json:"confidence"` // [0,1]
	ObservedAt     time.Time       `json:"observedAt"`
	OnSale         bool            `json:"onSale,omitempty"`
	SalePrice      decimal.Decimal `json:"salePrice,omitempty"`
	URL            string          `json:"url,omitempty"`
	Stale          bool            `json:"stale"` // set by the repository view, not stored
}

// EffectivePrice returns the sale price when the observation is flagged on
// sale and the sale price is positive, otherwise the raw price.
func (o PriceObservation) EffectivePrice() decimal.Decimal {
	if o.OnSale && o.SalePrice.IsPositive() {
		return o.SalePrice
	}
	return o.RawPrice
}

// EffectivePricePerBase is the per-base-unit price derived from the
// effective (possibly sale) price.
func (o PriceObservation) EffectivePricePerBase() decimal.Decimal {
	if !o.OnSale || !o.SalePrice.IsPositive() || o.Quantity <= 0 {
		return o.PricePerBase
	}
	return o.SalePrice.Div(decimal.NewFromFloat(o.Quantity)).Round(4)
}

// PriceKey identifies the (product, store) pair a price belongs to within a
// city snapshot.
type PriceKey struct {
	ProductName string
	Store       string
}

// Newer reports whether o should supersede other for the same key.
// Most recent observation wins; ties break by confidence, then by source
// type priority.
func (o PriceObservation) Newer(other PriceObservation) bool {
	if !o.ObservedAt.Equal(other.ObservedAt) {
		return o.ObservedAt.After(other.ObservedAt)
	}
	if o.Confidence != other.Confidence {
		return o.Confidence > other.Confidence
	}
	return o.SourceType.Priority() > other.SourceType.Priority()
}
