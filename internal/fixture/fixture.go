package fixture

import (
	"context"
	"errors"
	"fmt"

	"github.com/ogero/tmdb-contract/internal/common"
	"github.com/ogero/tmdb-contract/pkg/tmdb"
	"go.opentelemetry.io/otel/trace"
)

// LoginPolicy decides what Setup does when the request token cannot be validated with the login.
type LoginPolicy string

const (
	// LoginFailFast aborts Setup.
	LoginFailFast LoginPolicy = "fail-fast"
	// LoginWarnOnly logs a warning and still tries to create the session.
	LoginWarnOnly LoginPolicy = "warn-only"
)

// UnmarshalText implements encoding.TextUnmarshaler so the policy can be read from the environment.
func (p *LoginPolicy) UnmarshalText(text []byte) error {
	switch v := LoginPolicy(text); v {
	case LoginFailFast, LoginWarnOnly:
		*p = v
		return nil
	case "":
		*p = LoginFailFast
		return nil
	default:
		return fmt.Errorf("invalid login policy %q, expected %q or %q", v, LoginFailFast, LoginWarnOnly)
	}
}

// Credentials are the fixed values used to open a user session.
type Credentials struct {
	APIKey   string
	Username string
	Password string
}

// Session is the immutable result of Setup, handed to every scenario that needs to authenticate.
type Session struct {
	APIKey       string
	RequestToken string
	SessionID    string
}

// Auth returns the session as tmdb call authentication.
func (s Session) Auth() tmdb.Auth {
	return tmdb.SessionAuth(s.SessionID)
}

var (
	// ErrRequestToken wraps failures minting the request token.
	ErrRequestToken = errors.New("request token failed to generate")
	// ErrLogin wraps failures validating the request token with the login.
	ErrLogin = errors.New("request token failed to validate")
	// ErrSession wraps failures exchanging the request token for a session.
	ErrSession = errors.New("session failed to create")
)

// Setup runs the authentication handshake: request token, login validation, session.
func Setup(ctx context.Context, client tmdb.Client, creds Credentials, policy LoginPolicy) (Session, error) {

	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("").Start(ctx, "fixture.Setup")
	defer span.End()

	token, err := client.CreateRequestToken(ctx, creds.APIKey)
	if err != nil {
		return Session{}, fmt.Errorf("fixture: %w: %w", ErrRequestToken, err)
	}
	if token.Token == "" {
		return Session{}, fmt.Errorf("fixture: %w: empty request_token", ErrRequestToken)
	}

	_, err = client.ValidateWithLogin(ctx, creds.APIKey, creds.Username, creds.Password, token.Token)
	if err != nil {
		if policy != LoginWarnOnly {
			return Session{}, fmt.Errorf("fixture: %w: %w", ErrLogin, err)
		}
		common.Log.WarnContext(ctx, "Failed to tmdb.Client.ValidateWithLogin, continuing", "err", err, "policy", policy)
		span.RecordError(err)
	}

	session, err := client.CreateSession(ctx, creds.APIKey, token.Token)
	if err != nil {
		return Session{}, fmt.Errorf("fixture: %w: %w", ErrSession, err)
	}
	if session.ID == "" {
		return Session{}, fmt.Errorf("fixture: %w: empty session_id", ErrSession)
	}

	common.Log.DebugContext(ctx, "Session created")

	return Session{
		APIKey:       creds.APIKey,
		RequestToken: token.Token,
		SessionID:    session.ID,
	}, nil
}
