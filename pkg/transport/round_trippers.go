package transport

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// ModifyHeadersOption is a function type used to modify HTTP headers in a request.
// It takes a function that sets a header key and value, allowing for flexible header modification.
type ModifyHeadersOption func(func(key string, value string))

type modifyHeadersRoundTripper struct {
	roundTripper http.RoundTripper
	options      []ModifyHeadersOption
}

// NewModifyHeadersRoundTripper will add headers to a request.
// The request is cloned first, a RoundTripper must not modify the caller's request.
func NewModifyHeadersRoundTripper(rt http.RoundTripper, opts ...ModifyHeadersOption) http.RoundTripper {
	return &modifyHeadersRoundTripper{roundTripper: rt, options: opts}
}

func (rt *modifyHeadersRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for _, opt := range rt.options {
		opt(req.Header.Set)
	}
	return rt.roundTripper.RoundTrip(req)
}

// WithUserAgent is a functional option to set the HTTP client user agent.
func WithUserAgent(userAgent string) ModifyHeadersOption {
	return func(f func(key string, value string)) {
		f("User-Agent", userAgent)
	}
}

// WithAcceptLanguage is a functional option to set the HTTP client accept language.
func WithAcceptLanguage(acceptLanguage string) ModifyHeadersOption {
	return func(f func(key string, value string)) {
		f("Accept-Language", acceptLanguage)
	}
}

// WithAccept is a functional option to set the media type the client expects back.
func WithAccept(mediaType string) ModifyHeadersOption {
	return func(f func(key string, value string)) {
		f("Accept", mediaType)
	}
}

// SensitiveQueryParams are replaced by RedactURL.
var SensitiveQueryParams = []string{"api_key", "session_id", "guest_session_id", "request_token", "password"}

// RedactURL returns u as a string with the values of SensitiveQueryParams masked.
func RedactURL(u *url.URL) string {
	q := u.Query()
	redacted := false
	for _, k := range SensitiveQueryParams {
		if q.Has(k) {
			q.Set(k, "REDACTED")
			redacted = true
		}
	}
	if !redacted {
		return u.String()
	}
	c := *u
	c.RawQuery = q.Encode()
	return c.String()
}

type loggingRoundTripper struct {
	roundTripper http.RoundTripper
	logger       *slog.Logger
}

// NewLoggingRoundTripper logs each round trip at debug level, and failures at warn level.
func NewLoggingRoundTripper(rt http.RoundTripper, logger *slog.Logger) http.RoundTripper {
	return &loggingRoundTripper{roundTripper: rt, logger: logger}
}

func (rt *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	start := time.Now()

	res, err := rt.roundTripper.RoundTrip(req)

	attrs := []any{
		"method", req.Method,
		"url", RedactURL(req.URL),
		"duration", time.Since(start),
	}
	if err != nil {
		rt.logger.WarnContext(ctx, "Failed to http.RoundTripper.RoundTrip", append(attrs, "err", err)...)
		return res, err
	}
	rt.logger.DebugContext(ctx, "HTTP round trip", append(attrs, "status", res.StatusCode)...)

	return res, nil
}
