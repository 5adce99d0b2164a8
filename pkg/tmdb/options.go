package tmdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// DefaultBaseURL is the versioned root of the TMDB v3 API.
const DefaultBaseURL = "https://api.themoviedb.org/3"

// UserAgent is sent on every request.
const UserAgent = "tmdb-contract/1.0 (+https://github.com/ogero/tmdb-contract)"

const defaultMaxBodySize = 1 << 20

// Observer is notified once per completed call with the endpoint name and the response status code.
// statusCode is 0 when no response was received.
type Observer func(ctx context.Context, endpoint string, statusCode int, err error)

type options struct {
	baseURL     string
	timeout     time.Duration
	logger      *slog.Logger
	observer    Observer
	maxBodySize int64
}

// Option configures a Client built by NewClient.
type Option func(*options)

// WithBaseURL overrides DefaultBaseURL, mostly for tests against a fake server.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithTimeout sets the http.Client timeout, 10 seconds by default.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithLogger logs every round trip, with credentials redacted, at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver registers a callback invoked after each call.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithMaxBodySize caps the bytes read from a response body.
func WithMaxBodySize(n int64) Option {
	return func(o *options) {
		o.maxBodySize = n
	}
}

// QueryOption adds optional query parameters to a read call.
type QueryOption func(q url.Values) error

// WithLanguage asks TMDB to localize translatable fields. tag must be a BCP 47 language tag such as "es-ES".
func WithLanguage(tag string) QueryOption {
	return func(q url.Values) error {
		t, err := language.Parse(tag)
		if err != nil {
			return fmt.Errorf("failed to language.Parse: %w", err)
		}
		q.Set("language", t.String())
		return nil
	}
}

// Auth selects the session a mutating call runs under. Exactly one of its fields must be set.
type Auth struct {
	SessionID      string
	GuestSessionID string
}

// SessionAuth authenticates a mutating call with a user session.
func SessionAuth(sessionID string) Auth {
	return Auth{SessionID: sessionID}
}

// GuestAuth authenticates a mutating call with a guest session.
func GuestAuth(guestSessionID string) Auth {
	return Auth{GuestSessionID: guestSessionID}
}

func (a Auth) apply(q url.Values) error {
	switch {
	case a.SessionID != "" && a.GuestSessionID != "":
		return errors.New("tmdb: both session_id and guest_session_id set")
	case a.SessionID != "":
		q.Set("session_id", a.SessionID)
	case a.GuestSessionID != "":
		q.Set("guest_session_id", a.GuestSessionID)
	default:
		return errors.New("tmdb: a session is required")
	}
	return nil
}
