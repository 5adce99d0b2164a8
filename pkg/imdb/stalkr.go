package imdb

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/StalkR/imdb"
	"github.com/ogero/tmdb-contract/pkg/transport"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var titleIDRE = regexp.MustCompile(`^tt\d+$`)

type stalkrIMDB struct {
	httpClient *http.Client
	getTitle   func(c *http.Client, id string) (*imdb.Title, error)
}

// NewStalkrIMDB creates a new instance of the Stalkr implementation of the IMDB service.
func NewStalkrIMDB(timeout time.Duration) IMDB {

	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 10
	t.MaxConnsPerHost = 10
	t.MaxIdleConnsPerHost = 10

	rt := transport.NewModifyHeadersRoundTripper(t,
		transport.WithAcceptLanguage("en"), // avoid IP-based language detection
		transport.WithUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/107.0.0.0 Safari/537.36"),
	)

	return &stalkrIMDB{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: rt,
		},
		getTitle: imdb.NewTitle,
	}
}

// GetTitle gets a Title by its IMDb ID.
func (c *stalkrIMDB) GetTitle(ctx context.Context, imdbID string) (*Title, error) {

	_, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("").Start(ctx, "imdb.IMDB.GetTitle")
	defer span.End()
	span.SetAttributes(attribute.String("imdb.id", imdbID))

	if !titleIDRE.MatchString(imdbID) {
		return nil, fmt.Errorf("invalid IMDb title id %q", imdbID)
	}

	imdbResult, err := c.getTitle(c.httpClient, imdbID)
	if err != nil {
		return nil, fmt.Errorf("failed to stalkrIMDB.getTitle: %w", err)
	}

	return &Title{
		ID:   imdbResult.ID,
		Name: imdbResult.Name,
		Year: imdbResult.Year,
	}, nil
}
