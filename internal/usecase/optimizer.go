package usecase

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/mealcart/backend/internal/domain"
)

// solveTolerance is the convergence tolerance handed to the simplex solver.
const solveTolerance = 1e-10

// minSelectedQuantity is the smallest quantity (in base units) a line must
// reach to appear in the basket; anything below is solver noise.
const minSelectedQuantity = 1.0

// OptimizerConfig carries the constraint defaults a request can override.
type OptimizerConfig struct {
	BudgetTolerance   float64                     // fraction, e.g. 0.02
	MaxPerItemBase    float64                     // per-(product,store) cap in base units
	CategoryMaxBase   map[domain.Category]float64 // per-category ceiling in base units
	MinProteinVariety int                         // distinct protein products required
	ProteinFloorBase  float64                     // minimum base units per required protein
}

// DefaultOptimizerConfig returns the documented defaults: 2% budget
// tolerance, 2 kg per item, a 3-protein variety minimum derived from the
// 7-day x 3-meal structure, and 300 base units per required protein.
func DefaultOptimizerConfig() OptimizerConfig {
	return OptimizerConfig{
		BudgetTolerance:   0.02,
		MaxPerItemBase:    2000,
		MinProteinVariety: 3,
		ProteinFloorBase:  300,
		CategoryMaxBase: map[domain.Category]float64{
			domain.CategoryProtein:    7000,
			domain.CategoryCarbs:      6000,
			domain.CategoryVegetables: 5000,
			domain.CategoryDairy:      5000,
			domain.CategoryFats:       1500,
			domain.CategoryOther:      3000,
		},
	}
}

// Optimizer solves the constrained basket selection. It is a pure, stateless
// function over its inputs; each call builds its own model and shares no
// state with concurrent calls.
type Optimizer struct {
	catalog domain.ProductCatalog
	config  OptimizerConfig
}

// NewOptimizer creates an optimizer over the given catalog.
func NewOptimizer(catalog domain.ProductCatalog, config OptimizerConfig) *Optimizer {
	defaults := DefaultOptimizerConfig()
	if config.BudgetTolerance <= 0 {
		config.BudgetTolerance = defaults.BudgetTolerance
	}
	if config.MaxPerItemBase <= 0 {
		config.MaxPerItemBase = defaults.MaxPerItemBase
	}
	if config.MinProteinVariety <= 0 {
		config.MinProteinVariety = defaults.MinProteinVariety
	}
	if config.ProteinFloorBase <= 0 {
		config.ProteinFloorBase = defaults.ProteinFloorBase
	}
	if config.CategoryMaxBase == nil {
		config.CategoryMaxBase = defaults.CategoryMaxBase
	}
	return &Optimizer{catalog: catalog, config: config}
}

// variable is one LP decision variable: the quantity of a product bought at
// a specific store, in base units.
type variable struct {
	key          domain.PriceKey
	obs          domain.PriceObservation
	product      domain.Product
	nutrition    domain.NutritionProfile
	pricePerBase float64 // currency units per base unit
	objCoeff     float64 // objective contribution per base unit
	calPerBase   float64
}

// model is a fully specified LP instance. Relaxed copies of the model drive
// the infeasibility diagnostics.
type model struct {
	vars           []variable
	budget         float64 // already includes tolerance
	withBudget     bool
	withCategory   bool
	withCalories   bool
	withVariety    bool
	categoryMax    map[domain.Category]float64
	calMin, calMax float64 // weekly totals; 0 max means unbounded
	// floorProducts lists the protein products carrying a minimum-quantity
	// floor, each summed over its stores.
	floorProducts []string
	floorQty      float64
	perItemMax    float64
}

// Optimize chooses quantities per (product, store) pair maximizing the
// weighted nutrition objective under budget, category, per-item and variety
// constraints. The verdict is always populated; a non-optimal basket never
// carries best-effort constraint violations.
func (o *Optimizer) Optimize(prices map[domain.PriceKey]domain.PriceObservation, req domain.PlanRequest) (domain.Basket, error) {
	tolerance := req.BudgetTolerance
	if tolerance <= 0 {
		tolerance = o.config.BudgetTolerance
	}
	varietyMin := req.VarietyMin
	if varietyMin <= 0 {
		varietyMin = o.config.MinProteinVariety
	}
	weights := domain.DefaultObjectiveWeights()
	if req.Weights != nil {
		weights = *req.Weights
	}

	budget, _ := req.Budget.Float64()
	if budget <= 0 {
		return domain.Basket{}, fmt.Errorf("%w: budget must be positive", domain.ErrInvalidRequest)
	}

	vars := o.buildVariables(prices, req, weights)
	if len(vars) == 0 {
		log.Printf("[optimizer] no usable prices for city=%s currency=%s", req.City, req.Currency)
		return domain.Basket{Verdict: domain.VerdictNoData, Currency: req.Currency, TotalCost: decimal.Zero}, nil
	}

	// All items individually exceed budget: nothing is purchasable at all.
	cheapest := math.Inf(1)
	for _, v := range vars {
		if pkg, _ := v.obs.EffectivePrice().Float64(); pkg < cheapest {
			cheapest = pkg
		}
	}
	if cheapest > budget*(1+tolerance) {
		return o.budgetTooLowBasket(req, decimal.NewFromFloat(cheapest),
			fmt.Sprintf("cheapest item costs %.2f, above budget %.2f", cheapest, budget)), nil
	}

	// Variety cannot possibly be met when the data lacks enough distinct
	// protein products; a solve would only say "infeasible" less precisely.
	floors := varietyFloors(vars, varietyMin)
	if len(floors) < varietyMin {
		return domain.Basket{
			Verdict:  domain.VerdictInfeasible,
			Currency: req.Currency, TotalCost: decimal.Zero,
			Diagnostic: &domain.Diagnostic{
				Binding: domain.BindingVariety,
				Message: fmt.Sprintf("only %d distinct protein products available, %d required", len(floors), varietyMin),
			},
		}, nil
	}

	m := model{
		vars:          vars,
		budget:        budget * (1 + tolerance),
		withBudget:    true,
		withCategory:  true,
		withVariety:   true,
		categoryMax:   o.config.CategoryMaxBase,
		floorProducts: floors,
		floorQty:      o.config.ProteinFloorBase,
		perItemMax:    o.config.MaxPerItemBase,
	}
	if req.CalorieBounds != nil {
		m.withCalories = true
		m.calMin = req.CalorieBounds.MinPerDay * 7
		m.calMax = req.CalorieBounds.MaxPerDay * 7
	}

	solution, err := solve(m)
	if err == nil {
		return o.extract(m, solution, req, budget, tolerance), nil
	}
	if !errors.Is(err, lp.ErrInfeasible) {
		return domain.Basket{}, fmt.Errorf("solver failure: %w", err)
	}

	return o.classifyInfeasible(m, req, budget, tolerance)
}

// buildVariables turns the price snapshot into the LP variable set, applying
// currency and dietary exclusion filters and joining nutrition data.
// Ordering is deterministic so repeated solves walk identical models.
func (o *Optimizer) buildVariables(prices map[domain.PriceKey]domain.PriceObservation, req domain.PlanRequest, weights domain.ObjectiveWeights) []variable {
	excludedCategories := make(map[domain.Category]bool)
	for _, c := range req.ExcludeCategories {
		excludedCategories[c] = true
	}
	excludedProducts := make(map[string]bool)
	for _, p := range req.ExcludeProducts {
		excludedProducts[strings.ToLower(strings.TrimSpace(p))] = true
	}

	vars := make([]variable, 0, len(prices))
	for key, obs := range prices {
		if !strings.EqualFold(obs.Currency, req.Currency) {
			continue
		}
		if excludedProducts[key.ProductName] {
			continue
		}
		product, ok := o.catalog.ProductByName(key.ProductName)
		if !ok {
			continue
		}
		if excludedCategories[product.Category] {
			continue
		}
		nutrition, ok := o.catalog.Nutrition(key.ProductName)
		if !ok {
			continue
		}
		perBase, _ := obs.EffectivePricePerBase().Float64()
		if perBase <= 0 {
			continue
		}
		vars = append(vars, variable{
			key:          key,
			obs:          obs,
			product:      product,
			nutrition:    nutrition,
			pricePerBase: perBase,
			objCoeff: weights.Protein*nutrition.Protein/100 +
				weights.Calories*nutrition.Calories/100 +
				weights.Fiber*nutrition.Fiber/100,
			calPerBase: nutrition.Calories / 100,
		})
	}

	sort.Slice(vars, func(a, b int) bool {
		if vars[a].key.ProductName != vars[b].key.ProductName {
			return vars[a].key.ProductName < vars[b].key.ProductName
		}
		return vars[a].key.Store < vars[b].key.Store
	})
	return vars
}

// varietyFloors picks the protein products that carry a minimum-quantity
// floor: the varietyMin products with the best objective return per currency
// unit at their cheapest store. Deterministic tie-break by name.
func varietyFloors(vars []variable, varietyMin int) []string {
	type candidate struct {
		name       string
		efficiency float64
	}
	best := make(map[string]float64)
	for _, v := range vars {
		if v.product.Category != domain.CategoryProtein {
			continue
		}
		eff := v.objCoeff / v.pricePerBase
		if cur, ok := best[v.key.ProductName]; !ok || eff > cur {
			best[v.key.ProductName] = eff
		}
	}

	candidates := make([]candidate, 0, len(best))
	for name, eff := range best {
		candidates = append(candidates, candidate{name, eff})
	}
	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].efficiency != candidates[b].efficiency {
			return candidates[a].efficiency > candidates[b].efficiency
		}
		return candidates[a].name < candidates[b].name
	})

	if len(candidates) > varietyMin {
		candidates = candidates[:varietyMin]
	}
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.name
	}
	return names
}

// solve converts the model to standard form (equality rows with slack and
// surplus columns) and runs the simplex method. Returns the variable values
// or lp.ErrInfeasible.
func solve(m model) ([]float64, error) {
	n := len(m.vars)

	type row struct {
		coeffs []float64
		rhs    float64
		geq    bool // true for >= rows (surplus column), false for <= (slack)
	}
	var rows []row

	if m.withBudget {
		coeffs := make([]float64, n)
		for i, v := range m.vars {
			coeffs[i] = v.pricePerBase
		}
		rows = append(rows, row{coeffs, m.budget, false})
	}

	// Per-item caps keep the model bounded even when budget is relaxed.
	for i := range m.vars {
		coeffs := make([]float64, n)
		coeffs[i] = 1
		rows = append(rows, row{coeffs, m.perItemMax, false})
	}

	if m.withCategory {
		byCategory := make(map[domain.Category][]int)
		for i, v := range m.vars {
			byCategory[v.product.Category] = append(byCategory[v.product.Category], i)
		}
		categories := make([]domain.Category, 0, len(byCategory))
		for c := range byCategory {
			categories = append(categories, c)
		}
		sort.Slice(categories, func(a, b int) bool { return categories[a] < categories[b] })
		for _, c := range categories {
			ceiling, ok := m.categoryMax[c]
			if !ok {
				continue
			}
			coeffs := make([]float64, n)
			for _, i := range byCategory[c] {
				coeffs[i] = 1
			}
			rows = append(rows, row{coeffs, ceiling, false})
		}
	}

	if m.withVariety {
		for _, name := range m.floorProducts {
			coeffs := make([]float64, n)
			for i, v := range m.vars {
				if v.key.ProductName == name {
					coeffs[i] = 1
				}
			}
			rows = append(rows, row{coeffs, m.floorQty, true})
		}
	}

	if m.withCalories {
		coeffs := make([]float64, n)
		for i, v := range m.vars {
			coeffs[i] = v.calPerBase
		}
		if m.calMin > 0 {
			rows = append(rows, row{coeffs, m.calMin, true})
		}
		if m.calMax > 0 {
			upper := make([]float64, n)
			copy(upper, coeffs)
			rows = append(rows, row{upper, m.calMax, false})
		}
	}

	// Standard form: one slack (or surplus) column per row.
	rowCount := len(rows)
	a := mat.NewDense(rowCount, n+rowCount, nil)
	b := make([]float64, rowCount)
	c := make([]float64, n+rowCount)
	for i, v := range m.vars {
		c[i] = -v.objCoeff // simplex minimizes
	}
	for j, r := range rows {
		for i, coeff := range r.coeffs {
			a.Set(j, i, coeff)
		}
		if r.geq {
			a.Set(j, n+j, -1)
		} else {
			a.Set(j, n+j, 1)
		}
		b[j] = r.rhs
	}

	_, x, err := lp.Simplex(c, a, b, solveTolerance, nil)
	if err != nil {
		return nil, err
	}
	return x[:n], nil
}

// feasible reports whether the model admits any assignment.
func feasible(m model) bool {
	_, err := solve(m)
	return err == nil
}

// classifyInfeasible runs the diagnostic relaxation passes: constraint
// classes are dropped one at a time and the model re-solved to name the
// binding class, and the minimum viable budget is recovered by binary
// search over the budget with the other constraints fixed.
func (o *Optimizer) classifyInfeasible(m model, req domain.PlanRequest, budget, tolerance float64) (domain.Basket, error) {
	basket := domain.Basket{Currency: req.Currency, TotalCost: decimal.Zero, Verdict: domain.VerdictInfeasible}

	budgetRelaxed := m
	budgetRelaxed.withBudget = false
	if !feasible(budgetRelaxed) {
		// Conflict among the non-budget constraints themselves.
		noCalories := m
		noCalories.withCalories = false
		if m.withCalories && feasible(noCalories) {
			basket.Diagnostic = &domain.Diagnostic{
				Binding: domain.BindingCalories,
				Message: "calorie bounds cannot be met alongside the other constraints",
			}
			return basket, nil
		}
		noCategory := m
		noCategory.withCategory = false
		if feasible(noCategory) {
			basket.Diagnostic = &domain.Diagnostic{
				Binding: domain.BindingCategory,
				Message: "per-category ceilings conflict with the other constraints",
			}
			return basket, nil
		}
		basket.Diagnostic = &domain.Diagnostic{
			Binding: domain.BindingVariety,
			Message: "protein variety minimum cannot be met with the available items",
		}
		return basket, nil
	}

	// Budget participates. Distinguish a plain budget-bound infeasibility
	// from budget_too_low: relax every non-budget upper constraint and see
	// whether anything fits under the budget at all.
	suggested := o.minimumViableBudget(m, tolerance)

	lowerOnly := m
	lowerOnly.withCategory = false
	lowerOnly.withCalories = false
	if !feasible(lowerOnly) {
		return o.budgetTooLowBasket(req, suggested,
			fmt.Sprintf("budget %.2f cannot cover the minimum basket; at least %s needed", budget, suggested.StringFixed(2))), nil
	}

	basket.Diagnostic = &domain.Diagnostic{
		Binding:         domain.BindingBudget,
		Message:         fmt.Sprintf("budget is binding; increasing it to %s would make the request feasible", suggested.StringFixed(2)),
		SuggestedBudget: suggested,
	}
	return basket, nil
}

func (o *Optimizer) budgetTooLowBasket(req domain.PlanRequest, suggested decimal.Decimal, message string) domain.Basket {
	return domain.Basket{
		Verdict:  domain.VerdictBudgetTooLow,
		Currency: req.Currency, TotalCost: decimal.Zero,
		Diagnostic: &domain.Diagnostic{
			Binding:         domain.BindingBudget,
			Message:         message,
			SuggestedBudget: suggested,
		},
	}
}

// minimumViableBudget binary-searches the smallest budget that makes the
// model feasible with every other constraint fixed.
func (o *Optimizer) minimumViableBudget(m model, tolerance float64) decimal.Decimal {
	relaxed := m
	relaxed.withBudget = false
	spend := maxSpend(relaxed)
	if spend == 0 {
		return decimal.Zero
	}

	lo, hi := 0.0, spend
	for i := 0; i < 40 && hi-lo > 0.005; i++ {
		mid := (lo + hi) / 2
		trial := m
		trial.budget = mid * (1 + tolerance)
		if feasible(trial) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return decimal.NewFromFloat(hi).RoundCeil(2)
}

// maxSpend bounds the binary search: the cost of some feasible assignment of
// the budget-relaxed model, or 0 when even that is infeasible.
func maxSpend(relaxed model) float64 {
	x, err := solve(relaxed)
	if err != nil {
		return 0
	}
	total := 0.0
	for i, v := range relaxed.vars {
		total += v.pricePerBase * x[i]
	}
	return total
}

// extract converts a solver solution into basket lines. Quantities round
// down to whole base units so rounding can never push the total past the
// budget ceiling.
func (o *Optimizer) extract(m model, x []float64, req domain.PlanRequest, budget, tolerance float64) domain.Basket {
	lines := make([]domain.BasketLine, 0, len(m.vars))
	total := decimal.Zero
	objective := 0.0

	for i, v := range m.vars {
		quantity := math.Floor(x[i])
		if quantity < minSelectedQuantity {
			continue
		}
		cost := v.obs.EffectivePricePerBase().Mul(decimal.NewFromFloat(quantity)).Round(2)
		total = total.Add(cost)
		objective += v.objCoeff * quantity

		lines = append(lines, domain.BasketLine{
			ProductName: v.key.ProductName,
			Category:    v.product.Category,
			Store:       v.key.Store,
			Quantity:    quantity,
			Unit:        v.obs.Unit,
			Cost:        cost,
			Confidence:  v.obs.Confidence,
			URL:         v.obs.URL,
			Nutrition: domain.NutrientTotals{
				Calories: v.nutrition.Calories * quantity / 100,
				Protein:  v.nutrition.Protein * quantity / 100,
				Carbs:    v.nutrition.Carbs * quantity / 100,
				Fat:      v.nutrition.Fat * quantity / 100,
				Fiber:    v.nutrition.Fiber * quantity / 100,
			},
		})
	}

	// Deterministic ordering; cost-equal alternatives order by confidence.
	sort.Slice(lines, func(a, b int) bool {
		if lines[a].ProductName != lines[b].ProductName {
			return lines[a].ProductName < lines[b].ProductName
		}
		if !lines[a].Cost.Equal(lines[b].Cost) {
			return lines[a].Cost.LessThan(lines[b].Cost)
		}
		if lines[a].Confidence != lines[b].Confidence {
			return lines[a].Confidence > lines[b].Confidence
		}
		return lines[a].Store < lines[b].Store
	})

	totalF, _ := total.Float64()
	return domain.Basket{
		Lines:             lines,
		TotalCost:         total,
		Currency:          req.Currency,
		ObjectiveValue:    objective,
		Verdict:           domain.VerdictOptimal,
		BudgetUtilization: totalF / budget * 100,
	}
}
