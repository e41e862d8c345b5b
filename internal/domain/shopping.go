package domain

import "github.com/shopspring/decimal"

// ShoppingListItem is a read-only projection of a basket line for display.
type ShoppingListItem struct {
	ProductName  string          `json:"productName"`
	Quantity     float64         `json:"quantity"`
	Unit         BaseUnit        `json:"unit"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"` // per base unit
	LineCost     decimal.Decimal `json:"lineCost"`
	URL          string          `json:"url,omitempty"`
}

// StoreGroup holds the items to buy at one store and their subtotal.
type StoreGroup struct {
	Store    string             `json:"store"`
	Items    []ShoppingListItem `json:"items"`
	Subtotal decimal.Decimal    `json:"subtotal"`
}

// ShoppingList groups a basket by store with cost breakdowns. Savings
// compares the multi-store total against buying everything at the single
// cheapest store (with substitutions where that store lacks an item); when
// no such baseline can be priced, SavingsComputable is false rather than a
// misleading zero.
type ShoppingList struct {
	Stores            []StoreGroup    `json:"stores"`
	GrandTotal        decimal.Decimal `json:"grandTotal"`
	Currency          string          `json:"currency"`
	BaselineStore     string          `json:"baselineStore,omitempty"`
	BaselineTotal     decimal.Decimal `json:"baselineTotal,omitempty"`
	Savings           decimal.Decimal `json:"savings,omitempty"`
	SavingsComputable bool            `json:"savingsComputable"`
}

// NutritionSummary projects a basket into daily and weekly macro totals
// against targets.
type NutritionSummary struct {
	Daily           NutrientTotals `json:"daily"`
	Weekly          NutrientTotals `json:"weekly"`
	Targets         NutrientTotals `json:"targets"`         // daily targets
	PercentOfTarget NutrientTotals `json:"percentOfTarget"` // daily actual / target, percent
}
