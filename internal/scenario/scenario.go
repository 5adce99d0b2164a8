package scenario

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/ogero/tmdb-contract/internal/fixture"
	"github.com/ogero/tmdb-contract/pkg/imdb"
	"github.com/ogero/tmdb-contract/pkg/tmdb"
)

const (
	// InvalidAPIKeyMessage is the status_message TMDB returns for a missing or wrong api_key.
	InvalidAPIKeyMessage = "Invalid API key: You must be granted a valid key."
	// RatingUpdatedMessage is the status_message TMDB returns when an existing rating is replaced.
	RatingUpdatedMessage = "The item/record was updated successfully."
)

// ErrSkipped is returned by a scenario that cannot run with the given Env.
var ErrSkipped = errors.New("scenario skipped")

// Env is what a scenario runs against. It is built after a successful fixture.Setup and never modified.
type Env struct {
	Client  tmdb.Client
	Session fixture.Session
	// MovieID is looked up by the details scenarios.
	MovieID int
	// RatedMovieID and RatingValue are used by the rating scenarios.
	RatedMovieID int
	RatingValue  float64
	// IMDB is optional, scenarios needing it are skipped when nil.
	IMDB imdb.IMDB
}

// Scenario is a single contract check against the API.
type Scenario struct {
	Name        string
	Description string
	// Pending scenarios are declared without expectations and are never run.
	Pending bool
	// Optional scenarios only run when selected by name.
	Optional bool
	Run      func(ctx context.Context, env Env) error
}

// AssertionError reports a mismatch between the expected and the actual response.
type AssertionError struct {
	Scenario string
	Field    string
	Expected any
	Actual   any
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: %s: expected %v, got %v", e.Scenario, e.Field, e.Expected, e.Actual)
}

var registry = []Scenario{
	{
		Name:        "GetMovieDetails",
		Description: "GET movie details with a valid api key returns 200 and every documented field.",
		Run:         GetMovieDetails,
	},
	{
		Name:        "GetMovieDetailsInvalidKey",
		Description: "GET movie details with an empty api key returns 401 and the invalid key message.",
		Run:         GetMovieDetailsInvalidKey,
	},
	{
		Name:        "PostMovieRating",
		Description: "POST a rating with a valid session returns 201 and the record updated message.",
		Run:         PostMovieRating,
	},
	{
		Name:        "CrossReferenceIMDb",
		Description: "The movie imdb_id resolves to an IMDb title released the same year.",
		Optional:    true,
		Run:         CrossReferenceIMDb,
	},
	{
		Name:        "GetMovieDetailsNonexistentID",
		Description: "GET movie details of an id that does not exist.",
		Pending:     true,
	},
	{
		Name:        "GetMovieDetailsLocalized",
		Description: "GET movie details with a language parameter returns translated fields.",
		Pending:     true,
	},
	{
		Name:        "DeleteRating",
		Description: "DELETE the rating of a rated movie.",
		Pending:     true,
	},
	{
		Name:        "DeleteRatingNonexistentMovie",
		Description: "DELETE the rating of a movie that does not exist.",
		Pending:     true,
	},
	{
		Name:        "PostRatingNonexistentMovie",
		Description: "POST a rating to a movie that does not exist.",
		Pending:     true,
	},
	{
		Name:        "PostRatingInvalidValue",
		Description: "POST a rating value outside 0.5-10.0.",
		Pending:     true,
	},
	{
		Name:        "PostRatingGuestSession",
		Description: "POST a rating with a guest session.",
		Pending:     true,
	},
	{
		Name:        "UpdateRating",
		Description: "POST a second rating to a rated movie and read the new value back.",
		Pending:     true,
	},
	{
		Name:        "PostRatingExpiredSession",
		Description: "POST a rating with an expired session.",
		Pending:     true,
	},
}

// All returns every declared scenario, pending ones included, in declaration order.
func All() []Scenario {
	return slices.Clone(registry)
}

// Lookup finds a scenario by name.
func Lookup(name string) (Scenario, bool) {
	i := slices.IndexFunc(registry, func(s Scenario) bool { return s.Name == name })
	if i < 0 {
		return Scenario{}, false
	}
	return registry[i], true
}

// GetMovieDetails checks a details lookup with a valid key returns every field of the schema.
func GetMovieDetails(ctx context.Context, env Env) error {
	const name = "GetMovieDetails"

	details, err := env.Client.GetMovieDetails(ctx, env.Session.APIKey, env.MovieID)
	if err != nil {
		return statusMismatch(name, 200, err)
	}

	if details.ID != env.MovieID {
		return &AssertionError{Scenario: name, Field: "id", Expected: env.MovieID, Actual: details.ID}
	}
	if missing := details.MissingFields(); len(missing) > 0 {
		return &AssertionError{Scenario: name, Field: "missing fields", Expected: "none", Actual: missing}
	}

	return nil
}

// GetMovieDetailsInvalidKey checks a details lookup with an empty key is rejected.
func GetMovieDetailsInvalidKey(ctx context.Context, env Env) error {
	const name = "GetMovieDetailsInvalidKey"

	_, err := env.Client.GetMovieDetails(ctx, "", env.MovieID)
	if err == nil {
		return &AssertionError{Scenario: name, Field: "status", Expected: 401, Actual: 200}
	}

	var apiErr *tmdb.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %w", name, err)
	}
	if apiErr.HTTPStatus != 401 {
		return &AssertionError{Scenario: name, Field: "status", Expected: 401, Actual: apiErr.HTTPStatus}
	}
	if apiErr.Status.StatusMessage != InvalidAPIKeyMessage {
		return &AssertionError{Scenario: name, Field: "status_message", Expected: InvalidAPIKeyMessage, Actual: apiErr.Status.StatusMessage}
	}

	return nil
}

// PostMovieRating checks a rating posted with the fixture session is accepted.
func PostMovieRating(ctx context.Context, env Env) error {
	const name = "PostMovieRating"

	status, err := env.Client.RateMovie(ctx, env.Session.APIKey, env.RatedMovieID, env.RatingValue, env.Session.Auth())
	if err != nil {
		return statusMismatch(name, 201, err)
	}

	if status.StatusMessage != RatingUpdatedMessage {
		return &AssertionError{Scenario: name, Field: "status_message", Expected: RatingUpdatedMessage, Actual: status.StatusMessage}
	}

	return nil
}

// CrossReferenceIMDb checks the movie imdb_id points at an IMDb title of the same release year.
func CrossReferenceIMDb(ctx context.Context, env Env) error {
	const name = "CrossReferenceIMDb"

	if env.IMDB == nil {
		return fmt.Errorf("%s: no IMDb client: %w", name, ErrSkipped)
	}

	details, err := env.Client.GetMovieDetails(ctx, env.Session.APIKey, env.MovieID)
	if err != nil {
		return statusMismatch(name, 200, err)
	}
	if details.IMDbID == "" {
		return &AssertionError{Scenario: name, Field: "imdb_id", Expected: "non empty", Actual: `""`}
	}

	title, err := env.IMDB.GetTitle(ctx, details.IMDbID)
	if err != nil {
		return fmt.Errorf("%s: failed to imdb.IMDB.GetTitle: %w", name, err)
	}
	if year := details.ReleaseYear(); title.Year != year {
		return &AssertionError{Scenario: name, Field: "year", Expected: year, Actual: title.Year}
	}

	return nil
}

// statusMismatch turns an *tmdb.APIError into an AssertionError on the status code, other errors are wrapped.
func statusMismatch(name string, expected int, err error) error {
	var apiErr *tmdb.APIError
	if errors.As(err, &apiErr) {
		return &AssertionError{Scenario: name, Field: "status", Expected: expected, Actual: apiErr.HTTPStatus}
	}
	return fmt.Errorf("%s: %w", name, err)
}
