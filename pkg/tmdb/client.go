package tmdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ogero/tmdb-contract/pkg/transport"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Client defines the TMDB v3 calls the contract suite exercises.
type Client interface {
	// CreateRequestToken mints a new, not yet validated, request token.
	CreateRequestToken(ctx context.Context, apiKey string) (*RequestToken, error)
	// ValidateWithLogin validates a request token with a username and password.
	ValidateWithLogin(ctx context.Context, apiKey, username, password, requestToken string) (*RequestToken, error)
	// CreateSession exchanges a validated request token for a session.
	CreateSession(ctx context.Context, apiKey, requestToken string) (*Session, error)
	// CreateGuestSession creates a guest session, no login involved.
	CreateGuestSession(ctx context.Context, apiKey string) (*GuestSession, error)
	// GetMovieDetails fetches the primary information about a movie.
	GetMovieDetails(ctx context.Context, apiKey string, movieID int, opts ...QueryOption) (*MovieDetails, error)
	// RateMovie creates or updates the rating of a movie.
	RateMovie(ctx context.Context, apiKey string, movieID int, value float64, auth Auth) (*Status, error)
	// DeleteRating removes the rating of a movie.
	DeleteRating(ctx context.Context, apiKey string, movieID int, auth Auth) (*Status, error)
}

// NewClient creates a new TMDB client.
func NewClient(opts ...Option) Client {
	o := options{
		baseURL:     DefaultBaseURL,
		timeout:     10 * time.Second,
		maxBodySize: defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(&o)
	}

	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 10
	t.MaxConnsPerHost = 10
	t.MaxIdleConnsPerHost = 10

	var rt http.RoundTripper = transport.NewModifyHeadersRoundTripper(t,
		transport.WithAccept("application/json"),
		transport.WithUserAgent(UserAgent),
	)
	if o.logger != nil {
		rt = transport.NewLoggingRoundTripper(rt, o.logger)
	}

	return &client{
		httpClient: &http.Client{
			Timeout:   o.timeout,
			Transport: otelhttp.NewTransport(rt),
		},
		baseURL:     o.baseURL,
		observer:    o.observer,
		maxBodySize: o.maxBodySize,
	}
}

type client struct {
	httpClient  *http.Client
	baseURL     string
	observer    Observer
	maxBodySize int64
}

// CreateRequestToken mints a new, not yet validated, request token.
func (c *client) CreateRequestToken(ctx context.Context, apiKey string) (*RequestToken, error) {

	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("").Start(ctx, "tmdb.Client.CreateRequestToken")
	defer span.End()

	token := &RequestToken{}
	_, err := c.do(ctx, "authentication.token.new", http.MethodGet, "/authentication/token/new", apiKeyQuery(apiKey), nil, http.StatusOK, token)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	return token, nil
}

// ValidateWithLogin validates a request token with a username and password.
// Credentials travel in the JSON body so they never end up in a URL.
func (c *client) ValidateWithLogin(ctx context.Context, apiKey, username, password, requestToken string) (*RequestToken, error) {

	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("").Start(ctx, "tmdb.Client.ValidateWithLogin")
	defer span.End()

	body := loginRequest{
		Username:     username,
		Password:     password,
		RequestToken: requestToken,
	}

	token := &RequestToken{}
	_, err := c.do(ctx, "authentication.token.validate_with_login", http.MethodPost, "/authentication/token/validate_with_login", apiKeyQuery(apiKey), body, http.StatusOK, token)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	return token, nil
}

// CreateSession exchanges a validated request token for a session.
func (c *client) CreateSession(ctx context.Context, apiKey, requestToken string) (*Session, error) {

	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("").Start(ctx, "tmdb.Client.CreateSession")
	defer span.End()

	session := &Session{}
	_, err := c.do(ctx, "authentication.session.new", http.MethodPost, "/authentication/session/new", apiKeyQuery(apiKey), sessionRequest{RequestToken: requestToken}, http.StatusOK, session)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	return session, nil
}

// CreateGuestSession creates a guest session, no login involved.
func (c *client) CreateGuestSession(ctx context.Context, apiKey string) (*GuestSession, error) {

	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("").Start(ctx, "tmdb.Client.CreateGuestSession")
	defer span.End()

	session := &GuestSession{}
	_, err := c.do(ctx, "authentication.guest_session.new", http.MethodGet, "/authentication/guest_session/new", apiKeyQuery(apiKey), nil, http.StatusOK, session)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	return session, nil
}

// GetMovieDetails fetches the primary information about a movie.
// The returned value remembers which top level keys the body carried, see MovieDetails.MissingFields.
func (c *client) GetMovieDetails(ctx context.Context, apiKey string, movieID int, opts ...QueryOption) (*MovieDetails, error) {

	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("").Start(ctx, "tmdb.Client.GetMovieDetails")
	defer span.End()
	span.SetAttributes(attribute.Int("tmdb.movie_id", movieID))

	q := apiKeyQuery(apiKey)
	for _, opt := range opts {
		if err := opt(q); err != nil {
			recordError(span, err)
			return nil, err
		}
	}

	details := &MovieDetails{}
	data, err := c.do(ctx, "movie.details", http.MethodGet, "/movie/"+strconv.Itoa(movieID), q, nil, http.StatusOK, details)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	keys := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &keys); err != nil {
		err = fmt.Errorf("failed to json.Unmarshal: %w", err)
		recordError(span, err)
		return nil, err
	}
	details.keys = make(map[string]struct{}, len(keys))
	for k := range keys {
		details.keys[k] = struct{}{}
	}

	return details, nil
}

// RateMovie creates or updates the rating of a movie. TMDB answers 201 in both cases.
func (c *client) RateMovie(ctx context.Context, apiKey string, movieID int, value float64, auth Auth) (*Status, error) {

	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("").Start(ctx, "tmdb.Client.RateMovie")
	defer span.End()
	span.SetAttributes(attribute.Int("tmdb.movie_id", movieID), attribute.Float64("tmdb.rating", value))

	q := apiKeyQuery(apiKey)
	if err := auth.apply(q); err != nil {
		recordError(span, err)
		return nil, err
	}

	status := &Status{}
	_, err := c.do(ctx, "movie.rating.add", http.MethodPost, "/movie/"+strconv.Itoa(movieID)+"/rating", q, ratingRequest{Value: value}, http.StatusCreated, status)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	status.HTTPStatus = http.StatusCreated

	return status, nil
}

// DeleteRating removes the rating of a movie.
func (c *client) DeleteRating(ctx context.Context, apiKey string, movieID int, auth Auth) (*Status, error) {

	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("").Start(ctx, "tmdb.Client.DeleteRating")
	defer span.End()
	span.SetAttributes(attribute.Int("tmdb.movie_id", movieID))

	q := apiKeyQuery(apiKey)
	if err := auth.apply(q); err != nil {
		recordError(span, err)
		return nil, err
	}

	status := &Status{}
	_, err := c.do(ctx, "movie.rating.delete", http.MethodDelete, "/movie/"+strconv.Itoa(movieID)+"/rating", q, nil, http.StatusOK, status)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	status.HTTPStatus = http.StatusOK

	return status, nil
}

// do issues a request and decodes a response carrying the expected status code into out.
// Any other status code is returned as an *APIError. The raw body is returned for callers needing more than out.
func (c *client) do(ctx context.Context, endpoint, method, path string, query url.Values, body any, expected int, out any) (data []byte, err error) {

	statusCode := 0
	defer func() {
		if c.observer != nil {
			c.observer(ctx, endpoint, statusCode, err)
		}
	}()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to json.Marshal: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to http.NewRequestWithContext: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json;charset=utf-8")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to http.Client.Do: %w", err)
	}
	defer res.Body.Close()
	statusCode = res.StatusCode

	data, err = io.ReadAll(limitReader(res.Body, c.maxBodySize, ErrResponseTooLarge))
	if err != nil {
		return nil, fmt.Errorf("failed to io.ReadAll: %w", err)
	}

	if res.StatusCode != expected {
		apiErr := &APIError{HTTPStatus: res.StatusCode}
		// Best effort, some gateways answer with HTML.
		if json.Unmarshal(data, &apiErr.Status) == nil {
			apiErr.Status.HTTPStatus = res.StatusCode
		}
		return data, apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return data, fmt.Errorf("failed to json.Unmarshal: %w", err)
	}

	return data, nil
}

func apiKeyQuery(apiKey string) url.Values {
	q := url.Values{}
	// Sent even when empty, TMDB answers 401 rather than 400 in that case.
	q.Set("api_key", apiKey)
	return q
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		span.SetAttributes(attribute.Int("http.response.status_code", apiErr.HTTPStatus))
	}
	span.SetStatus(codes.Error, err.Error())
}
