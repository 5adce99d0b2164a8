package scenario

import (
	"context"
	"errors"
	"time"

	"github.com/ogero/tmdb-contract/internal/common"
	"github.com/ogero/tmdb-contract/internal/fixture"
	"github.com/ogero/tmdb-contract/pkg/imdb"
	"github.com/ogero/tmdb-contract/pkg/tmdb"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Outcome of a scenario run.
type Outcome string

const (
	Passed  Outcome = "passed"
	Failed  Outcome = "failed"
	Pending Outcome = "pending"
	Skipped Outcome = "skipped"
)

// Result of a scenario run.
type Result struct {
	Scenario string
	Outcome  Outcome
	Err      error
	Duration time.Duration
}

// Runner runs scenarios, each one after its own fixture.Setup.
type Runner struct {
	Client       tmdb.Client
	Credentials  fixture.Credentials
	LoginPolicy  fixture.LoginPolicy
	MovieID      int
	RatedMovieID int
	RatingValue  float64
	IMDB         imdb.IMDB
}

// Run runs a single scenario. Pending scenarios are reported without any call being made.
func (r *Runner) Run(ctx context.Context, s Scenario) Result {

	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("").Start(ctx, "scenario.Runner.Run")
	defer span.End()
	span.SetAttributes(attribute.String("scenario.name", s.Name))

	start := time.Now()
	result := r.run(ctx, s)
	result.Duration = time.Since(start)

	span.SetAttributes(attribute.String("scenario.outcome", string(result.Outcome)))
	common.ScenarioResultsTotalIncr(ctx, s.Name, string(result.Outcome))

	switch result.Outcome {
	case Failed:
		span.RecordError(result.Err)
		common.Log.ErrorContext(ctx, "Scenario failed", "scenario", s.Name, "err", result.Err, "duration", result.Duration)
	case Skipped:
		common.Log.WarnContext(ctx, "Scenario skipped", "scenario", s.Name, "err", result.Err)
	default:
		common.Log.InfoContext(ctx, "Scenario "+string(result.Outcome), "scenario", s.Name, "duration", result.Duration)
	}

	return result
}

func (r *Runner) run(ctx context.Context, s Scenario) Result {
	if s.Pending || s.Run == nil {
		return Result{Scenario: s.Name, Outcome: Pending}
	}

	session, err := fixture.Setup(ctx, r.Client, r.Credentials, r.LoginPolicy)
	if err != nil {
		return Result{Scenario: s.Name, Outcome: Failed, Err: err}
	}

	err = s.Run(ctx, Env{
		Client:       r.Client,
		Session:      session,
		MovieID:      r.MovieID,
		RatedMovieID: r.RatedMovieID,
		RatingValue:  r.RatingValue,
		IMDB:         r.IMDB,
	})
	switch {
	case err == nil:
		return Result{Scenario: s.Name, Outcome: Passed}
	case errors.Is(err, ErrSkipped):
		return Result{Scenario: s.Name, Outcome: Skipped, Err: err}
	default:
		return Result{Scenario: s.Name, Outcome: Failed, Err: err}
	}
}

// RunAll runs the scenarios in order and returns their results.
func (r *Runner) RunAll(ctx context.Context, scenarios []Scenario) []Result {
	results := make([]Result, 0, len(scenarios))
	for _, s := range scenarios {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Scenario: s.Name, Outcome: Skipped, Err: err})
			continue
		}
		results = append(results, r.Run(ctx, s))
	}
	return results
}

// AnyFailed reports whether at least one result failed.
func AnyFailed(results []Result) bool {
	for _, res := range results {
		if res.Outcome == Failed {
			return true
		}
	}
	return false
}
