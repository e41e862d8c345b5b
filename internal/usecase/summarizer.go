package usecase

import (
	"github.com/mealcart/backend/internal/domain"
)

// basketDays is the planning horizon a basket is assumed to cover, with
// even distribution; day-level assignment is a downstream meal-synthesis
// concern.
const basketDays = 7.0

// proteinPerKgBodyweight is the documented protein target fallback when the
// request supplies a bodyweight but no explicit target.
const proteinPerKgBodyweight = 0.8

// SummarizerConfig carries the flat daily targets used when the request
// supplies nothing at all.
type SummarizerConfig struct {
	FlatProteinTargetG float64
	FlatCalorieTarget  float64
}

// Summarizer projects a basket into daily and weekly macro totals against
// targets.
type Summarizer struct {
	config SummarizerConfig
}

// NewSummarizer creates a summarizer with documented fallback targets.
func NewSummarizer(config SummarizerConfig) *Summarizer {
	if config.FlatProteinTargetG <= 0 {
		config.FlatProteinTargetG = 56
	}
	if config.FlatCalorieTarget <= 0 {
		config.FlatCalorieTarget = 2000
	}
	return &Summarizer{config: config}
}

// Summarize totals the basket's macros and reports daily and weekly figures
// plus percent-of-target per macro. Target precedence: explicit request
// target, then 0.8 g protein per kg bodyweight, then the flat default.
func (s *Summarizer) Summarize(basket domain.Basket, req domain.PlanRequest) domain.NutritionSummary {
	weekly := domain.NutrientTotals{}
	for _, line := range basket.Lines {
		weekly = weekly.Add(line.Nutrition)
	}
	daily := weekly.Scale(1 / basketDays)

	proteinTarget := req.ProteinTargetG
	if proteinTarget <= 0 && req.BodyweightKg > 0 {
		proteinTarget = proteinPerKgBodyweight * req.BodyweightKg
	}
	if proteinTarget <= 0 {
		proteinTarget = s.config.FlatProteinTargetG
	}

	calorieTarget := s.config.FlatCalorieTarget
	if req.CalorieBounds != nil && req.CalorieBounds.MinPerDay > 0 {
		calorieTarget = req.CalorieBounds.MinPerDay
	}

	targets := domain.NutrientTotals{
		Protein:  proteinTarget,
		Calories: calorieTarget,
	}

	return domain.NutritionSummary{
		Daily:   daily,
		Weekly:  weekly,
		Targets: targets,
		PercentOfTarget: domain.NutrientTotals{
			Protein:  percent(daily.Protein, targets.Protein),
			Calories: percent(daily.Calories, targets.Calories),
		},
	}
}

func percent(actual, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return actual / target * 100
}
