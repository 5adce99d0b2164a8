package fixture_test

import (
	"context"
	"testing"

	"github.com/ogero/tmdb-contract/internal/fixture"
	"github.com/ogero/tmdb-contract/internal/tmdbfake"
	"github.com/ogero/tmdb-contract/pkg/tmdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	s := tmdbfake.New()
	defer s.Close()
	c := tmdb.NewClient(tmdb.WithBaseURL(s.URL))

	creds := fixture.Credentials{APIKey: tmdbfake.APIKey, Username: tmdbfake.Username, Password: tmdbfake.Password}

	session, err := fixture.Setup(context.Background(), c, creds, fixture.LoginFailFast)
	require.NoError(t, err)

	assert.Equal(t, tmdbfake.APIKey, session.APIKey)
	assert.NotEmpty(t, session.RequestToken)
	assert.NotEmpty(t, session.SessionID)
	assert.Equal(t, tmdb.SessionAuth(session.SessionID), session.Auth())

	assert.Equal(t, []string{
		"GET /authentication/token/new",
		"POST /authentication/token/validate_with_login",
		"POST /authentication/session/new",
	}, s.Requests())
}

func TestSetupEachCallIsIndependent(t *testing.T) {
	s := tmdbfake.New()
	defer s.Close()
	c := tmdb.NewClient(tmdb.WithBaseURL(s.URL))

	creds := fixture.Credentials{APIKey: tmdbfake.APIKey, Username: tmdbfake.Username, Password: tmdbfake.Password}

	first, err := fixture.Setup(context.Background(), c, creds, fixture.LoginFailFast)
	require.NoError(t, err)
	second, err := fixture.Setup(context.Background(), c, creds, fixture.LoginFailFast)
	require.NoError(t, err)

	assert.NotEqual(t, first.SessionID, second.SessionID)
	assert.NotEqual(t, first.RequestToken, second.RequestToken)
}

func TestSetupFailures(t *testing.T) {
	s := tmdbfake.New()
	defer s.Close()
	c := tmdb.NewClient(tmdb.WithBaseURL(s.URL))

	tests := []struct {
		name    string
		creds   fixture.Credentials
		policy  fixture.LoginPolicy
		wantErr error
	}{
		{
			name:    "Invalid API key",
			creds:   fixture.Credentials{APIKey: "", Username: tmdbfake.Username, Password: tmdbfake.Password},
			policy:  fixture.LoginFailFast,
			wantErr: fixture.ErrRequestToken,
		},
		{
			name:    "Wrong password fail fast",
			creds:   fixture.Credentials{APIKey: tmdbfake.APIKey, Username: tmdbfake.Username, Password: "wrong"},
			policy:  fixture.LoginFailFast,
			wantErr: fixture.ErrLogin,
		},
		{
			// The login failure is only logged, the session step then fails on the unvalidated token.
			name:    "Wrong password warn only",
			creds:   fixture.Credentials{APIKey: tmdbfake.APIKey, Username: tmdbfake.Username, Password: "wrong"},
			policy:  fixture.LoginWarnOnly,
			wantErr: fixture.ErrSession,
		},
		{
			name:    "Zero policy is fail fast",
			creds:   fixture.Credentials{APIKey: tmdbfake.APIKey, Username: "nobody", Password: tmdbfake.Password},
			wantErr: fixture.ErrLogin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := fixture.Setup(context.Background(), c, tt.creds, tt.policy)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, session)

			var apiErr *tmdb.APIError
			assert.ErrorAs(t, err, &apiErr)
		})
	}
}

// validatingClient lets the login step fail while the session step succeeds.
type validatingClient struct {
	tmdb.Client
}

func (c *validatingClient) ValidateWithLogin(ctx context.Context, apiKey, username, password, requestToken string) (*tmdb.RequestToken, error) {
	return nil, &tmdb.APIError{HTTPStatus: 503}
}

func (c *validatingClient) CreateSession(ctx context.Context, apiKey, requestToken string) (*tmdb.Session, error) {
	return &tmdb.Session{Success: true, ID: "session-" + requestToken}, nil
}

func TestSetupWarnOnlyContinues(t *testing.T) {
	s := tmdbfake.New()
	defer s.Close()
	c := &validatingClient{Client: tmdb.NewClient(tmdb.WithBaseURL(s.URL))}

	creds := fixture.Credentials{APIKey: tmdbfake.APIKey, Username: tmdbfake.Username, Password: tmdbfake.Password}

	session, err := fixture.Setup(context.Background(), c, creds, fixture.LoginWarnOnly)
	require.NoError(t, err)
	assert.Equal(t, "session-"+session.RequestToken, session.SessionID)

	_, err = fixture.Setup(context.Background(), c, creds, fixture.LoginFailFast)
	assert.ErrorIs(t, err, fixture.ErrLogin)
}

// emptyClient answers successfully but leaves out the token or the session id.
type emptyClient struct {
	tmdb.Client
	emptyToken bool
}

func (c *emptyClient) CreateRequestToken(ctx context.Context, apiKey string) (*tmdb.RequestToken, error) {
	if c.emptyToken {
		return &tmdb.RequestToken{Success: true}, nil
	}
	return &tmdb.RequestToken{Success: true, Token: "mockToken"}, nil
}

func (c *emptyClient) ValidateWithLogin(ctx context.Context, apiKey, username, password, requestToken string) (*tmdb.RequestToken, error) {
	return &tmdb.RequestToken{Success: true, Token: requestToken}, nil
}

func (c *emptyClient) CreateSession(ctx context.Context, apiKey, requestToken string) (*tmdb.Session, error) {
	return &tmdb.Session{Success: true}, nil
}

func TestSetupEmptyValues(t *testing.T) {
	creds := fixture.Credentials{APIKey: tmdbfake.APIKey, Username: tmdbfake.Username, Password: tmdbfake.Password}

	tests := []struct {
		name    string
		client  tmdb.Client
		wantErr error
		wantMsg string
	}{
		{"Empty request token", &emptyClient{emptyToken: true}, fixture.ErrRequestToken, "fixture: request token failed to generate: empty request_token"},
		{"Empty session id", &emptyClient{}, fixture.ErrSession, "fixture: session failed to create: empty session_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := fixture.Setup(context.Background(), tt.client, creds, fixture.LoginFailFast)
			require.ErrorIs(t, err, tt.wantErr)
			assert.EqualError(t, err, tt.wantMsg)
			assert.Zero(t, session)
		})
	}
}

func TestLoginPolicyUnmarshalText(t *testing.T) {
	tests := []struct {
		in      string
		want    fixture.LoginPolicy
		wantErr assert.ErrorAssertionFunc
	}{
		{"fail-fast", fixture.LoginFailFast, assert.NoError},
		{"warn-only", fixture.LoginWarnOnly, assert.NoError},
		{"", fixture.LoginFailFast, assert.NoError},
		{"ignore", "", assert.Error},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var p fixture.LoginPolicy
			err := p.UnmarshalText([]byte(tt.in))
			tt.wantErr(t, err)
			assert.Equal(t, tt.want, p)
		})
	}
}
