package domain

import "github.com/shopspring/decimal"

// ObjectiveWeights is the weight vector for the nutrition objective. The
// default favors protein; calorie and fiber terms are optional secondary
// pressure, all supplied by the request rather than hard-coded.
type ObjectiveWeights struct {
	Protein  float64 `json:"protein"`
	Calories float64 `json:"calories"`
	Fiber    float64 `json:"fiber"`
}

// DefaultObjectiveWeights is the documented fallback: protein only.
func DefaultObjectiveWeights() ObjectiveWeights {
	return ObjectiveWeights{Protein: 1.0}
}

// CalorieBounds is an optional lower/upper bound on daily average calories.
type CalorieBounds struct {
	MinPerDay float64 `json:"minPerDay"`
	MaxPerDay float64 `json:"maxPerDay"`
}

// PlanRequest is the full request configuration for one optimization run.
// Everything is explicit; zero values fall back to documented config
// defaults only.
type PlanRequest struct {
	Budget            decimal.Decimal   `json:"budget" binding:"required"`
	Currency          string            `json:"currency" binding:"required"`
	City              string            `json:"city" binding:"required"`
	ExcludeCategories []Category        `json:"excludeCategories,omitempty"`
	ExcludeProducts   []string          `json:"excludeProducts,omitempty"`
	Weights           *ObjectiveWeights `json:"weights,omitempty"`
	ProteinTargetG    float64           `json:"proteinTargetG,omitempty"` // daily grams
	BodyweightKg      float64           `json:"bodyweightKg,omitempty"`
	CalorieBounds     *CalorieBounds    `json:"calorieBounds,omitempty"`
	VarietyMin        int               `json:"varietyMin,omitempty"`
	BudgetTolerance   float64           `json:"budgetTolerance,omitempty"`
}

// PlanResult is the plain data structure handed to the reporting collaborator.
type PlanResult struct {
	Basket       Basket            `json:"basket"`
	ShoppingList *ShoppingList     `json:"shoppingList,omitempty"`
	Nutrition    *NutritionSummary `json:"nutrition,omitempty"`
}
