package tmdb

import (
	"fmt"
	"time"
)

// RequestToken is a short-lived credential exchanged for a session once validated with a login.
type RequestToken struct {
	Success   bool   `json:"success"`
	ExpiresAt string `json:"expires_at"`
	Token     string `json:"request_token"`
}

// Expiry parses ExpiresAt, TMDB formats it as "2006-01-02 15:04:05 UTC".
func (t *RequestToken) Expiry() (time.Time, error) {
	return time.Parse(expiryLayout, t.ExpiresAt)
}

// Session is an authenticated context required by mutating calls.
type Session struct {
	Success bool   `json:"success"`
	ID      string `json:"session_id"`
}

// GuestSession is a lower privilege session that can rate movies without a login.
type GuestSession struct {
	Success   bool   `json:"success"`
	ID        string `json:"guest_session_id"`
	ExpiresAt string `json:"expires_at"`
}

const expiryLayout = "2006-01-02 15:04:05 MST"

// Status is the envelope TMDB returns on errors and on mutating calls.
type Status struct {
	// HTTPStatus is the status code of the response that carried this envelope.
	HTTPStatus    int    `json:"-"`
	Success       bool   `json:"success"`
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// APIError is returned when TMDB answers with a status code other than the one the call expects.
type APIError struct {
	HTTPStatus int
	Status     Status
}

func (e *APIError) Error() string {
	if e.Status.StatusMessage == "" {
		return fmt.Sprintf("tmdb: unexpected status code %d", e.HTTPStatus)
	}
	return fmt.Sprintf("tmdb: unexpected status code %d: %d %s", e.HTTPStatus, e.Status.StatusCode, e.Status.StatusMessage)
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Collection struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
}

type ProductionCompany struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	LogoPath      string `json:"logo_path"`
	OriginCountry string `json:"origin_country"`
}

type ProductionCountry struct {
	ISO3166_1 string `json:"iso_3166_1"`
	Name      string `json:"name"`
}

type SpokenLanguage struct {
	ISO639_1    string `json:"iso_639_1"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name"`
}

// MovieDetails is the body of GET movie/{movie_id}.
type MovieDetails struct {
	Adult               bool                `json:"adult"`
	BackdropPath        string              `json:"backdrop_path"`
	BelongsToCollection *Collection         `json:"belongs_to_collection"`
	Budget              int64               `json:"budget"`
	Genres              []Genre             `json:"genres"`
	Homepage            string              `json:"homepage"`
	ID                  int                 `json:"id"`
	IMDbID              string              `json:"imdb_id"`
	OriginalLanguage    string              `json:"original_language"`
	OriginalTitle       string              `json:"original_title"`
	Overview            string              `json:"overview"`
	Popularity          float64             `json:"popularity"`
	PosterPath          string              `json:"poster_path"`
	ProductionCompanies []ProductionCompany `json:"production_companies"`
	ProductionCountries []ProductionCountry `json:"production_countries"`
	ReleaseDate         string              `json:"release_date"`
	Revenue             int64               `json:"revenue"`
	Runtime             int                 `json:"runtime"`
	SpokenLanguages     []SpokenLanguage    `json:"spoken_languages"`
	Status              string              `json:"status"`
	Tagline             string              `json:"tagline"`
	Title               string              `json:"title"`
	Video               bool                `json:"video"`
	VoteAverage         float64             `json:"vote_average"`
	VoteCount           int                 `json:"vote_count"`

	// keys holds the top level keys seen while decoding, nil for values not built by the client.
	keys map[string]struct{}
}

// MovieDetailsFields are the top level keys a movie details body must carry.
var MovieDetailsFields = []string{
	"adult",
	"backdrop_path",
	"belongs_to_collection",
	"budget",
	"genres",
	"homepage",
	"id",
	"imdb_id",
	"original_language",
	"original_title",
	"overview",
	"popularity",
	"poster_path",
	"production_companies",
	"production_countries",
	"release_date",
	"revenue",
	"runtime",
	"spoken_languages",
	"status",
	"tagline",
	"title",
	"video",
	"vote_average",
	"vote_count",
}

// MissingFields returns the MovieDetailsFields that were absent from the decoded body.
// A key present with a null value is not missing.
func (m *MovieDetails) MissingFields() []string {
	var missing []string
	for _, field := range MovieDetailsFields {
		if _, ok := m.keys[field]; !ok {
			missing = append(missing, field)
		}
	}
	return missing
}

// ReleaseYear returns the year part of ReleaseDate, or 0 when it is not a date.
func (m *MovieDetails) ReleaseYear() int {
	d, err := time.Parse(time.DateOnly, m.ReleaseDate)
	if err != nil {
		return 0
	}
	return d.Year()
}

type ratingRequest struct {
	Value float64 `json:"value"`
}

type loginRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	RequestToken string `json:"request_token"`
}

type sessionRequest struct {
	RequestToken string `json:"request_token"`
}
