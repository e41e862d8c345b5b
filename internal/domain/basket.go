package domain

import "github.com/shopspring/decimal"

// Verdict classifies the outcome of an optimization run. It is attached to
// every Basket and never silently swallowed.
type Verdict string

const (
	VerdictOptimal       Verdict = "optimal"
	VerdictInfeasible    Verdict = "infeasible"
	VerdictBudgetTooLow  Verdict = "budget_too_low"
	VerdictNoData        Verdict = "no_data"
	VerdictSolverTimeout Verdict = "solver_timeout"
)

// BindingConstraint names the constraint class a diagnostic pass found to be
// binding when a solve comes back infeasible.
type BindingConstraint string

const (
	BindingBudget   BindingConstraint = "budget"
	BindingVariety  BindingConstraint = "variety"
	BindingCategory BindingConstraint = "category"
	BindingCalories BindingConstraint = "calories"
)

// Diagnostic explains an infeasible verdict: which constraint class is
// binding and, when computable, the smallest budget that would flip the
// result to feasible.
type Diagnostic struct {
	Binding         BindingConstraint `json:"binding"`
	Message         string            `json:"message"`
	SuggestedBudget decimal.Decimal   `json:"suggestedBudget,omitempty"`
}

// NutrientTotals accumulates macro totals over some scope (a line, a basket,
// a day, a week).
type NutrientTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

// Add returns the element-wise sum of t and other.
func (t NutrientTotals) Add(other NutrientTotals) NutrientTotals {
	return NutrientTotals{
		Calories: t.Calories + other.Calories,
		Protein:  t.Protein + other.Protein,
		Carbs:    t.Carbs + other.Carbs,
		Fat:      t.Fat + other.Fat,
		Fiber:    t.Fiber + other.Fiber,
	}
}

// Scale returns t multiplied by factor.
func (t NutrientTotals) Scale(factor float64) NutrientTotals {
	return NutrientTotals{
		Calories: t.Calories * factor,
		Protein:  t.Protein * factor,
		Carbs:    t.Carbs * factor,
		Fat:      t.Fat * factor,
		Fiber:    t.Fiber * factor,
	}
}

// BasketLine is one chosen (product, store) pair with its quantity in base
// units. Created only by the optimizer and scoped to one run.
type BasketLine struct {
	ProductName string          `json:"productName"`
	Category    Category        `json:"category"`
	Store       string          `json:"store"`
	Quantity    float64         `json:"quantity"` // base units
	Unit        BaseUnit        `json:"unit"`
	Cost        decimal.Decimal `json:"cost"`
	Nutrition   NutrientTotals  `json:"nutrition"`
	Confidence  float64         `json:"confidence"`
	URL         string          `json:"url,omitempty"`
}

// Basket is the optimizer's result. When the verdict is not optimal, Lines
// is empty and Diagnostic explains why; a basket never carries a
// best-effort constraint violation.
type Basket struct {
	Lines             []BasketLine    `json:"lines"`
	TotalCost         decimal.Decimal `json:"totalCost"`
	Currency          string          `json:"currency"`
	ObjectiveValue    float64         `json:"objectiveValue"`
	Verdict           Verdict         `json:"verdict"`
	Diagnostic        *Diagnostic     `json:"diagnostic,omitempty"`
	BudgetUtilization float64         `json:"budgetUtilization"` // percent of budget spent
}

// DistinctProteins counts distinct protein-category products with non-zero
// quantity, the value the variety invariant is stated over.
func (b Basket) DistinctProteins() int {
	seen := make(map[string]bool)
	for _, line := range b.Lines {
		if line.Category == CategoryProtein && line.Quantity > 0 {
			seen[line.ProductName] = true
		}
	}
	return len(seen)
}
