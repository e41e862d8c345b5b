package usecase

import (
	"context"
	"log"
	"time"

	"github.com/mealcart/backend/internal/domain"
)

// PlannerConfig holds configuration for the planning pipeline.
type PlannerConfig struct {
	// SolverTimeout is the wall-clock budget for one solve. Exceeding it is
	// a solver_timeout verdict, never infeasible.
	SolverTimeout time.Duration
}

// Planner runs the full pipeline: price snapshot -> optimizer -> shopping
// list assembly and nutrition summary. It owns the solver timeout and the
// relax-and-retry fallback policy.
type Planner struct {
	view       *PriceView
	optimizer  *Optimizer
	assembler  *Assembler
	summarizer *Summarizer
	timeout    time.Duration
}

// NewPlanner wires the pipeline stages together.
func NewPlanner(view *PriceView, optimizer *Optimizer, assembler *Assembler, summarizer *Summarizer, config PlannerConfig) *Planner {
	timeout := config.SolverTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Planner{
		view:       view,
		optimizer:  optimizer,
		assembler:  assembler,
		summarizer: summarizer,
		timeout:    timeout,
	}
}

// Plan produces the full result for one request. The optimizer-level
// verdict is surfaced verbatim; only internal solver failures come back as
// errors.
func (p *Planner) Plan(ctx context.Context, req domain.PlanRequest) (domain.PlanResult, error) {
	prices, err := p.view.Latest(ctx, req.City, 0)
	if err != nil {
		return domain.PlanResult{}, err
	}

	basket, err := p.solveWithTimeout(prices, req)
	if err != nil {
		return domain.PlanResult{}, err
	}

	// Timed-out solves may be retried once with the optional calorie
	// bounds dropped; a smaller constraint set is the documented fallback.
	if basket.Verdict == domain.VerdictSolverTimeout && req.CalorieBounds != nil {
		log.Printf("[planner] solver timeout for city=%s, retrying without calorie bounds", req.City)
		relaxed := req
		relaxed.CalorieBounds = nil
		basket, err = p.solveWithTimeout(prices, relaxed)
		if err != nil {
			return domain.PlanResult{}, err
		}
	}

	result := domain.PlanResult{Basket: basket}
	if basket.Verdict == domain.VerdictOptimal {
		list := p.assembler.Assemble(basket, prices)
		summary := p.summarizer.Summarize(basket, req)
		result.ShoppingList = &list
		result.Nutrition = &summary
	}
	return result, nil
}

type solveOutcome struct {
	basket domain.Basket
	err    error
}

// solveWithTimeout runs the CPU-bound solve on its own goroutine and
// abandons the result when the wall clock expires. No mid-solve
// cancellation: the goroutine finishes on its own and its result is
// discarded.
func (p *Planner) solveWithTimeout(prices map[domain.PriceKey]domain.PriceObservation, req domain.PlanRequest) (domain.Basket, error) {
	done := make(chan solveOutcome, 1)
	go func() {
		basket, err := p.optimizer.Optimize(prices, req)
		done <- solveOutcome{basket, err}
	}()

	select {
	case outcome := <-done:
		return outcome.basket, outcome.err
	case <-time.After(p.timeout):
		return domain.Basket{
			Verdict:  domain.VerdictSolverTimeout,
			Currency: req.Currency,
		}, nil
	}
}
