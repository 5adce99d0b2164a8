package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/ogero/tmdb-contract/internal/common"
	"github.com/ogero/tmdb-contract/internal/fixture"
	"github.com/ogero/tmdb-contract/pkg/tmdb"
)

// Config holds everything a contract run reads from the environment.
type Config struct {
	// BaseURL is the versioned root of the TMDB API.
	BaseURL string `env:"TMDB_BASE_URL" envDefault:"https://api.themoviedb.org/3"`
	// APIKey is the valid v3 API key. The live suite is skipped when it is empty.
	APIKey   string `env:"TMDB_API_KEY"`
	Username string `env:"TMDB_USERNAME"`
	Password string `env:"TMDB_PASSWORD"`
	// LoginPolicy is either "fail-fast" or "warn-only".
	LoginPolicy fixture.LoginPolicy `env:"TMDB_LOGIN_POLICY" envDefault:"fail-fast"`
	HTTPTimeout time.Duration       `env:"TMDB_HTTP_TIMEOUT" envDefault:"10s"`

	// MovieID is looked up by the details scenarios.
	MovieID int `env:"TMDB_MOVIE_ID" envDefault:"500"`
	// RatedMovieID receives the rating.
	RatedMovieID int     `env:"TMDB_RATED_MOVIE_ID" envDefault:"550"`
	RatingValue  float64 `env:"TMDB_RATING_VALUE" envDefault:"10"`
	// IMDbCrossCheck enables the scenario resolving the movie imdb_id against IMDb.
	IMDbCrossCheck bool `env:"TMDB_IMDB_CROSSCHECK" envDefault:"false"`

	ServiceName        string     `env:"SERVICE_NAME" envDefault:"tmdb-contract"`
	ServiceVersion     string     `env:"SERVICE_VERSION" envDefault:"dev"`
	ServiceEnvironment string     `env:"SERVICE_ENVIRONMENT" envDefault:"lcl"`
	LogLevel           slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	// OTelExporterEndpoint enables OTLP export of logs, traces and metrics when set.
	OTelExporterEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load reads the Config from the process environment.
func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadFrom reads the Config from the given variables instead of the process environment.
func LoadFrom(environment map[string]string) (*Config, error) {
	return load(env.Options{Environment: environment})
}

func load(opts env.Options) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return nil, fmt.Errorf("failed to env.ParseAsWithOptions: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the values that do not depend on the API key being present.
func (c *Config) Validate() error {
	var errs []error

	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid TMDB_BASE_URL %q", c.BaseURL))
	}
	if err := common.ValidateMovieID(c.MovieID); err != nil {
		errs = append(errs, fmt.Errorf("TMDB_MOVIE_ID: %w", err))
	}
	if err := common.ValidateMovieID(c.RatedMovieID); err != nil {
		errs = append(errs, fmt.Errorf("TMDB_RATED_MOVIE_ID: %w", err))
	}
	if err := common.ValidateRating(c.RatingValue); err != nil {
		errs = append(errs, fmt.Errorf("TMDB_RATING_VALUE: %w", err))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("TMDB_HTTP_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

// Credentials returns the fixture credentials.
func (c *Config) Credentials() fixture.Credentials {
	return fixture.Credentials{
		APIKey:   c.APIKey,
		Username: c.Username,
		Password: c.Password,
	}
}

// ClientOptions returns the tmdb.Client options derived from the config.
func (c *Config) ClientOptions() []tmdb.Option {
	return []tmdb.Option{
		tmdb.WithBaseURL(c.BaseURL),
		tmdb.WithTimeout(c.HTTPTimeout),
	}
}
