package domain

// Category groups products for constraint purposes. The optimizer applies
// per-category ceilings and the variety minimum on the protein category.
type Category string

const (
	CategoryProtein    Category = "protein"
	CategoryCarbs      Category = "carbs"
	CategoryVegetables Category = "vegetables"
	CategoryDairy      Category = "dairy"
	CategoryFats       Category = "fats"
	CategoryOther      Category = "other"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryProtein, CategoryCarbs, CategoryVegetables, CategoryDairy, CategoryFats, CategoryOther:
		return true
	}
	return false
}

// Product is an immutable catalog entry. NormalizedName is the lowercase
// canonical name used as the join key against price observations and the
// nutrition table.
type Product struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	NormalizedName string   `json:"normalizedName"`
	Category       Category `json:"category"`
}

// BaseUnit is the canonical unit all quantities are normalized to before any
// cost or nutrition math.
type BaseUnit string

const (
	UnitGram       BaseUnit = "g"
	UnitMilliliter BaseUnit = "ml"
	UnitPiece      BaseUnit = "piece"
)

// NutritionProfile holds macros per 100 base units of a product. Seeded once
// and read-only to the optimizer.
type NutritionProfile struct {
	ProductName string  `json:"productName"` // normalized name
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"` // grams
	Carbs       float64 `json:"carbs"`   // grams
	Fat         float64 `json:"fat"`     // grams
	Fiber       float64 `json:"fiber"`   // grams
}
