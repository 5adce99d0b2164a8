package transport_test

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"testing"

	"github.com/ogero/tmdb-contract/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

func TestModifyHeadersRoundTripper(t *testing.T) {
	mockRT := &mockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "TestAgent", req.Header.Get("User-Agent"))
			assert.Equal(t, "application/json", req.Header.Get("Accept"))
			assert.Equal(t, "en", req.Header.Get("Accept-Language"))
			return nil, nil
		},
	}

	rt := transport.NewModifyHeadersRoundTripper(mockRT,
		transport.WithUserAgent("TestAgent"),
		transport.WithAccept("application/json"),
		transport.WithAcceptLanguage("en"))

	req, err := http.NewRequest(http.MethodGet, "http://example.com", nil)
	require.NoError(t, err)

	_, _ = rt.RoundTrip(req)

	assert.Empty(t, req.Header.Get("User-Agent"), "caller request must not be modified")
}

func TestRedactURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no query", "https://api.themoviedb.org/3/movie/550", "https://api.themoviedb.org/3/movie/550"},
		{"api key", "https://api.themoviedb.org/3/movie/550?api_key=secret", "https://api.themoviedb.org/3/movie/550?api_key=REDACTED"},
		{"empty api key", "https://api.themoviedb.org/3/movie/550?api_key=", "https://api.themoviedb.org/3/movie/550?api_key=REDACTED"},
		{"session and language", "https://api.themoviedb.org/3/movie/550/rating?api_key=k&language=es-ES&session_id=s", "https://api.themoviedb.org/3/movie/550/rating?api_key=REDACTED&language=es-ES&session_id=REDACTED"},
		{"guest session", "https://api.themoviedb.org/3/movie/550/rating?guest_session_id=g", "https://api.themoviedb.org/3/movie/550/rating?guest_session_id=REDACTED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, transport.RedactURL(u))
		})
	}
}

func TestLoggingRoundTripper(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	t.Run("Success", func(t *testing.T) {
		buf.Reset()
		rt := transport.NewLoggingRoundTripper(&mockRoundTripper{
			RoundTripFunc: func(req *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusOK}, nil
			},
		}, logger)

		req, err := http.NewRequest(http.MethodGet, "https://api.themoviedb.org/3/movie/500?api_key=secret", nil)
		require.NoError(t, err)

		res, err := rt.RoundTrip(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)

		assert.Contains(t, buf.String(), "status=200")
		assert.Contains(t, buf.String(), "api_key=REDACTED")
		assert.NotContains(t, buf.String(), "secret")
	})

	t.Run("Failure", func(t *testing.T) {
		buf.Reset()
		rt := transport.NewLoggingRoundTripper(&mockRoundTripper{
			RoundTripFunc: func(req *http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
		}, logger)

		req, err := http.NewRequest(http.MethodGet, "https://api.themoviedb.org/3/movie/500", nil)
		require.NoError(t, err)

		_, err = rt.RoundTrip(req)
		require.Error(t, err)
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "connection refused")
	})
}
