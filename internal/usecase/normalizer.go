package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mealcart/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	quantityTokenRegex = regexp.MustCompile(`^([0-9]+(?:[.,][0-9]+)?)?\s*([a-zäöüß]+\.?)$`)
	multipackRegex     = regexp.MustCompile(`^([0-9]+)\s*[x×]\s*(.+)$`)
	priceCharRegex     = regexp.MustCompile(`[€$£\s]`)
)

// pricePerBasePrecision keeps optimizer coefficients stable across runs.
const pricePerBasePrecision = 4

// unitFactor maps a unit token to its base unit and the multiplier from one
// of that token to base units. German retail tokens included because the
// price sources carry them.
var unitFactor = map[string]struct {
	base   domain.BaseUnit
	factor float64
}{
	"g":       {domain.UnitGram, 1},
	"gram":    {domain.UnitGram, 1},
	"grams":   {domain.UnitGram, 1},
	"kg":      {domain.UnitGram, 1000},
	"mg":      {domain.UnitGram, 0.001},
	"ml":      {domain.UnitMilliliter, 1},
	"cl":      {domain.UnitMilliliter, 10},
	"l":       {domain.UnitMilliliter, 1000},
	"liter":   {domain.UnitMilliliter, 1000},
	"litre":   {domain.UnitMilliliter, 1000},
	"piece":   {domain.UnitPiece, 1},
	"pieces":  {domain.UnitPiece, 1},
	"pc":      {domain.UnitPiece, 1},
	"pcs":     {domain.UnitPiece, 1},
	"stk":     {domain.UnitPiece, 1},
	"stück":   {domain.UnitPiece, 1},
	"stueck":  {domain.UnitPiece, 1},
	"pack":    {domain.UnitPiece, 1},
	"packung": {domain.UnitPiece, 1},
	"dozen":   {domain.UnitPiece, 12},
}

// NormalizedQuantity is the result of unit normalization: a quantity
// expressed in one of the canonical base units.
type NormalizedQuantity struct {
	Quantity float64
	Unit     domain.BaseUnit
}

// NormalizeQuantity converts a raw package-size token (e.g. "1kg", "500 g",
// "6 pcs", "1 L", "pro kg", "6x100g", "dozen") into base units. Unrecognized
// tokens fail with *domain.UnitParseError; the caller decides whether to
// drop the observation or flag it as low-confidence.
func NormalizeQuantity(raw string) (NormalizedQuantity, error) {
	token := strings.ToLower(strings.TrimSpace(raw))
	if token == "" {
		return NormalizedQuantity{}, &domain.UnitParseError{Token: raw}
	}

	// "pro kg" / "per 100g" price-basis prefixes
	token = strings.TrimPrefix(token, "pro ")
	token = strings.TrimPrefix(token, "per ")
	token = strings.TrimSpace(token)

	// Multipacks like "6x100g" multiply out to a single quantity.
	if m := multipackRegex.FindStringSubmatch(token); m != nil {
		count, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return NormalizedQuantity{}, &domain.UnitParseError{Token: raw}
		}
		inner, err := NormalizeQuantity(m[2])
		if err != nil {
			return NormalizedQuantity{}, &domain.UnitParseError{Token: raw}
		}
		inner.Quantity *= count
		return inner, nil
	}

	m := quantityTokenRegex.FindStringSubmatch(token)
	if m == nil {
		return NormalizedQuantity{}, &domain.UnitParseError{Token: raw}
	}

	value := 1.0
	if m[1] != "" {
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err != nil || parsed <= 0 {
			return NormalizedQuantity{}, &domain.UnitParseError{Token: raw}
		}
		value = parsed
	}

	unit := strings.TrimSuffix(m[2], ".")
	entry, ok := unitFactor[unit]
	if !ok {
		return NormalizedQuantity{}, &domain.UnitParseError{Token: raw}
	}

	return NormalizedQuantity{Quantity: value * entry.factor, Unit: entry.base}, nil
}

// PricePerBase computes price / quantity rounded to a fixed precision so the
// optimizer's cost coefficients are stable.
func PricePerBase(price decimal.Decimal, quantity float64) (decimal.Decimal, error) {
	if quantity <= 0 {
		return decimal.Decimal{}, domain.ErrInvalidRequest
	}
	return price.Div(decimal.NewFromFloat(quantity)).Round(pricePerBasePrecision), nil
}

// ParsePrice parses a raw price string, handling European formats where the
// comma is the decimal separator ("8,99", "1.234,56") alongside plain
// dot-decimal input.
func ParsePrice(raw string) (decimal.Decimal, error) {
	cleaned := priceCharRegex.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned == "" {
		return decimal.Decimal{}, domain.ErrInvalidRequest
	}

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")

	switch {
	case hasComma && hasDot:
		// "1.234,56": dot is the thousands separator
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case hasComma:
		parts := strings.Split(cleaned, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case hasDot:
		parts := strings.Split(cleaned, ".")
		if !(len(parts) == 2 && len(parts[1]) <= 2) {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
	}

	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, domain.ErrInvalidRequest
	}
	return price, nil
}
