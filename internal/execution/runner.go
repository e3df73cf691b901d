package execution

import (
	"context"
	"time"

	"jtl/internal/config"
	"jtl/internal/domain"
)

// Progress receives live execution counts.
type Progress interface {
	Update(done, passed, failed, skipped int)
	Finish()
}

// Runner executes loaded test cases. Execution is sequential: every
// case body runs inside the shared single-threaded JS engine.
type Runner struct {
	config   *config.Config
	progress Progress
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{config: cfg}
}

// SetProgress sets the progress reporter for the runner
func (r *Runner) SetProgress(progress Progress) {
	r.progress = progress
}

// Execute runs the cases in order, honoring skip predicates (a skipped
// case is reported, never run) and recording per-case failures. With
// failFast set, execution stops after the first failure.
func (r *Runner) Execute(ctx context.Context, cases []domain.TestCase, failFast bool) ([]domain.CaseResult, time.Duration, error) {
	start := time.Now()
	runtime := r.config.Runtime()

	var results []domain.CaseResult
	var passed, failed, skipped int
	for _, tc := range cases {
		if err := ctx.Err(); err != nil {
			return results, time.Since(start), err
		}

		result := r.runCase(ctx, tc, runtime)
		results = append(results, result)
		switch result.Status {
		case domain.StatusPassed:
			passed++
		case domain.StatusFailed:
			failed++
		case domain.StatusSkipped:
			skipped++
		}
		if r.progress != nil {
			r.progress.Update(len(results), passed, failed, skipped)
		}
		if failFast && result.Status == domain.StatusFailed {
			break
		}
	}
	if r.progress != nil {
		r.progress.Finish()
	}
	return results, time.Since(start), nil
}

func (r *Runner) runCase(ctx context.Context, tc domain.TestCase, runtime map[string]interface{}) domain.CaseResult {
	result := domain.CaseResult{
		Name:     tc.Name,
		FileName: tc.FileName,
	}

	skip, err := tc.Skipped()
	if err != nil {
		result.Status = domain.StatusFailed
		result.Error = err
		return result
	}
	if skip {
		result.Status = domain.StatusSkipped
		return result
	}

	caseStart := time.Now()
	err = tc.Run(ctx, runtime)
	result.Duration = time.Since(caseStart)
	if err != nil {
		result.Status = domain.StatusFailed
		result.Error = err
		return result
	}
	result.Status = domain.StatusPassed
	return result
}
