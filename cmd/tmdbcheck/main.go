package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/ogero/tmdb-contract/internal/common"
	"github.com/ogero/tmdb-contract/internal/config"
	"github.com/ogero/tmdb-contract/internal/scenario"
	"github.com/ogero/tmdb-contract/pkg/imdb"
	"github.com/ogero/tmdb-contract/pkg/tmdb"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		names    []string
		list     bool
		withIMDb bool
	)
	pflag.StringSliceVarP(&names, "scenario", "s", nil, "scenario to run, repeatable, all non optional scenarios when empty")
	pflag.BoolVarP(&list, "list", "l", false, "list scenarios and exit")
	pflag.BoolVar(&withIMDb, "imdb", false, "cross-check the movie against IMDb, overrides TMDB_IMDB_CROSSCHECK")
	pflag.Parse()

	if list {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, s := range scenario.All() {
			state := "ready"
			switch {
			case s.Pending:
				state = "pending"
			case s.Optional:
				state = "optional"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, state, s.Description)
		}
		_ = w.Flush()
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		return 2
	}
	if err := common.ValidateCredentials(cfg.APIKey, cfg.Username, cfg.Password); err != nil {
		fmt.Fprintln(os.Stderr, "Invalid credentials:", err)
		return 2
	}

	shutdownLogger, err := common.InitLogger(cfg.ServiceName, cfg.ServiceVersion, cfg.ServiceEnvironment, cfg.OTelExporterEndpoint, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to common.InitLogger:", err)
		return 2
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownLogger(ctx)
	}()

	if cfg.OTelExporterEndpoint != "" {
		shutdownInstrumentation, err := common.InitInstrumentation(cfg.ServiceName, cfg.ServiceVersion, cfg.ServiceEnvironment, cfg.OTelExporterEndpoint)
		if err != nil {
			common.Log.Error("Failed to common.InitInstrumentation", "err", err)
			return 2
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			shutdownInstrumentation(ctx)
		}()
	}

	scenarios, err := selectScenarios(names)
	if err != nil {
		common.Log.Error("Failed to select scenarios", "err", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := &scenario.Runner{
		Client: tmdb.NewClient(append(cfg.ClientOptions(),
			tmdb.WithLogger(common.Log),
			tmdb.WithObserver(func(ctx context.Context, endpoint string, statusCode int, _ error) {
				common.TMDBRequestsTotalIncr(ctx, endpoint, statusCode)
			}),
		)...),
		Credentials:  cfg.Credentials(),
		LoginPolicy:  cfg.LoginPolicy,
		MovieID:      cfg.MovieID,
		RatedMovieID: cfg.RatedMovieID,
		RatingValue:  cfg.RatingValue,
	}
	if withIMDb || cfg.IMDbCrossCheck {
		runner.IMDB = imdb.NewStalkrIMDB(cfg.HTTPTimeout)
		if len(names) == 0 {
			s, _ := scenario.Lookup("CrossReferenceIMDb")
			scenarios = append(scenarios, s)
		}
	}

	common.Log.Info("Running scenarios", "count", len(scenarios), "base_url", cfg.BaseURL, "login_policy", cfg.LoginPolicy)

	results := runner.RunAll(ctx, scenarios)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, res := range results {
		detail := ""
		if res.Err != nil {
			detail = res.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", res.Outcome, res.Scenario, res.Duration.Round(time.Millisecond), detail)
	}
	_ = w.Flush()

	if scenario.AnyFailed(results) {
		return 1
	}
	return 0
}

// selectScenarios resolves names, or returns every non optional scenario when names is empty.
func selectScenarios(names []string) ([]scenario.Scenario, error) {
	if len(names) == 0 {
		var selected []scenario.Scenario
		for _, s := range scenario.All() {
			if !s.Optional {
				selected = append(selected, s)
			}
		}
		return selected, nil
	}

	selected := make([]scenario.Scenario, 0, len(names))
	for _, name := range names {
		s, ok := scenario.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q", name)
		}
		selected = append(selected, s)
	}
	return selected, nil
}
