package imdb

import "context"

// Title is the subset of an IMDb title page used to cross-check TMDB data.
type Title struct {
	ID   string
	Name string
	Year int
}

// IMDB defines the methods to interact with the IMDb service.
type IMDB interface {
	// GetTitle gets a Title by its IMDb ID, e.g. "tt0137523".
	GetTitle(ctx context.Context, imdbID string) (*Title, error)
}
