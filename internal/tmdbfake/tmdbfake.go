// Package tmdbfake serves the subset of the TMDB v3 API the contract suite consumes,
// so the client, the fixture and the scenarios can be tested without network access.
package tmdbfake

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ogero/tmdb-contract/internal/common"
	"github.com/ogero/tmdb-contract/pkg/tmdb"
	slogchi "github.com/samber/slog-chi"
)

// Canned TMDB status envelopes, codes and messages as documented by TMDB.
var (
	StatusSuccess          = tmdb.Status{Success: true, StatusCode: 1, StatusMessage: "Success."}
	StatusInvalidAPIKey    = tmdb.Status{StatusCode: 7, StatusMessage: "Invalid API key: You must be granted a valid key."}
	StatusAuthFailed       = tmdb.Status{StatusCode: 3, StatusMessage: "Authentication failed: You do not have permissions to access the service."}
	StatusNotFound         = tmdb.Status{StatusCode: 34, StatusMessage: "The resource you requested could not be found."}
	StatusUpdated          = tmdb.Status{Success: true, StatusCode: 12, StatusMessage: "The item/record was updated successfully."}
	StatusDeleted          = tmdb.Status{Success: true, StatusCode: 13, StatusMessage: "The item/record was deleted successfully."}
	StatusSessionDenied    = tmdb.Status{StatusCode: 17, StatusMessage: "Session denied."}
	StatusValueTooHigh     = tmdb.Status{StatusCode: 18, StatusMessage: "Value too high: Value must be less than, or equal to 10.0."}
	StatusValueTooLow      = tmdb.Status{StatusCode: 21, StatusMessage: "Value too low: Value must be greater than 0.0."}
	StatusValueInvalid     = tmdb.Status{StatusCode: 19, StatusMessage: "Value invalid: Values must be a multiple of 0.50."}
	StatusInvalidLogin     = tmdb.Status{StatusCode: 30, StatusMessage: "Invalid username and/or password: You did not provide a valid login."}
	StatusInvalidToken     = tmdb.Status{StatusCode: 33, StatusMessage: "Invalid request token: The request token is either expired or invalid."}
	StatusInvalidParameter = tmdb.Status{StatusCode: 22, StatusMessage: "Invalid parameters: Your request parameters are incorrect."}
)

// Server is a fake TMDB API listening on a local httptest server.
type Server struct {
	*httptest.Server

	apiKey   string
	username string
	password string

	mu            sync.Mutex
	movies        map[int]tmdb.MovieDetails
	tokens        map[string]bool // request token -> validated
	sessions      map[string]bool
	guestSessions map[string]bool
	ratings       map[int]float64 // the account's ratings
	guestRatings  map[string]map[int]float64
	requests      []string
}

// Option configures a Server.
type Option func(*Server)

// WithAccount sets the valid API key and login.
func WithAccount(apiKey, username, password string) Option {
	return func(s *Server) {
		s.apiKey = apiKey
		s.username = username
		s.password = password
	}
}

// WithMovie adds or replaces a movie.
func WithMovie(m tmdb.MovieDetails) Option {
	return func(s *Server) {
		s.movies[m.ID] = m
	}
}

// WithRating seeds a rating of the account, so the next rating of that movie is an update.
func WithRating(movieID int, value float64) Option {
	return func(s *Server) {
		s.ratings[movieID] = value
	}
}

// Default account values.
const (
	APIKey   = "fake-api-key"
	Username = "fake-user"
	Password = "fake-password"
)

// New starts a fake TMDB API serving FightClub and ReservoirDogs.
// The caller must Close it.
func New(opts ...Option) *Server {
	s := &Server{
		apiKey:        APIKey,
		username:      Username,
		password:      Password,
		movies:        map[int]tmdb.MovieDetails{FightClub.ID: FightClub, ReservoirDogs.ID: ReservoirDogs},
		tokens:        map[string]bool{},
		sessions:      map[string]bool{},
		guestSessions: map[string]bool{},
		ratings:       map[int]float64{},
		guestRatings:  map[string]map[int]float64{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Server = httptest.NewServer(s.router())

	return s
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(slogchi.New(common.Log))
	r.Use(s.recordRequest)
	r.Use(s.requireAPIKey)

	r.Get("/authentication/token/new", s.createRequestToken)
	r.Post("/authentication/token/validate_with_login", s.validateWithLogin)
	r.Post("/authentication/session/new", s.createSession)
	r.Get("/authentication/guest_session/new", s.createGuestSession)
	r.Get("/movie/{id}", s.movieDetails)
	r.Post("/movie/{id}/rating", s.rateMovie)
	r.Delete("/movie/{id}/rating", s.deleteRating)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusNotFound, StatusNotFound)
	})

	return r
}

// Requests returns "METHOD path" for every request received so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Rating returns the account rating of a movie.
func (s *Server) Rating(movieID int) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.ratings[movieID]
	return v, ok
}

// ExpireSessions invalidates every session handed out so far.
func (s *Server) ExpireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.sessions)
	clear(s.guestSessions)
}

func (s *Server) recordRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != s.apiKey {
			writeStatus(w, http.StatusUnauthorized, StatusInvalidAPIKey)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) createRequestToken(w http.ResponseWriter, r *http.Request) {
	token := randomHex()

	s.mu.Lock()
	s.tokens[token] = false
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, tmdb.RequestToken{
		Success:   true,
		ExpiresAt: time.Now().UTC().Add(time.Hour).Format("2006-01-02 15:04:05 UTC"),
		Token:     token,
	})
}

func (s *Server) validateWithLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username     string `json:"username"`
		Password     string `json:"password"`
		RequestToken string `json:"request_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeStatus(w, http.StatusBadRequest, StatusInvalidParameter)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tokens[body.RequestToken]; !ok {
		writeStatus(w, http.StatusUnauthorized, StatusInvalidToken)
		return
	}
	if body.Username != s.username || body.Password != s.password {
		writeStatus(w, http.StatusUnauthorized, StatusInvalidLogin)
		return
	}
	s.tokens[body.RequestToken] = true

	writeJSON(w, http.StatusOK, tmdb.RequestToken{
		Success:   true,
		ExpiresAt: time.Now().UTC().Add(time.Hour).Format("2006-01-02 15:04:05 UTC"),
		Token:     body.RequestToken,
	})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RequestToken string `json:"request_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeStatus(w, http.StatusBadRequest, StatusInvalidParameter)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	validated, ok := s.tokens[body.RequestToken]
	if !ok || !validated {
		writeStatus(w, http.StatusUnauthorized, StatusSessionDenied)
		return
	}
	// Request tokens are single use.
	delete(s.tokens, body.RequestToken)

	sessionID := randomHex()
	s.sessions[sessionID] = true

	writeJSON(w, http.StatusOK, tmdb.Session{Success: true, ID: sessionID})
}

func (s *Server) createGuestSession(w http.ResponseWriter, r *http.Request) {
	id := randomHex()

	s.mu.Lock()
	s.guestSessions[id] = true
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, tmdb.GuestSession{
		Success:   true,
		ID:        id,
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour).Format("2006-01-02 15:04:05 UTC"),
	})
}

func (s *Server) movieDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeStatus(w, http.StatusNotFound, StatusNotFound)
		return
	}

	s.mu.Lock()
	m, ok := s.movies[id]
	s.mu.Unlock()
	if !ok {
		writeStatus(w, http.StatusNotFound, StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, m)
}

func (s *Server) rateMovie(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ratings, status, ok := s.ratingsFor(r)
	if !ok {
		writeStatus(w, http.StatusUnauthorized, status)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if _, exists := s.movies[id]; err != nil || !exists {
		writeStatus(w, http.StatusNotFound, StatusNotFound)
		return
	}

	var body struct {
		Value float64 `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeStatus(w, http.StatusBadRequest, StatusInvalidParameter)
		return
	}
	if err := common.ValidateRating(body.Value); err != nil {
		switch {
		case body.Value > 10:
			writeStatus(w, http.StatusBadRequest, StatusValueTooHigh)
		case body.Value <= 0:
			writeStatus(w, http.StatusBadRequest, StatusValueTooLow)
		default:
			writeStatus(w, http.StatusBadRequest, StatusValueInvalid)
		}
		return
	}

	_, existed := ratings[id]
	ratings[id] = body.Value
	if existed {
		writeStatus(w, http.StatusCreated, StatusUpdated)
		return
	}
	writeStatus(w, http.StatusCreated, StatusSuccess)
}

func (s *Server) deleteRating(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ratings, status, ok := s.ratingsFor(r)
	if !ok {
		writeStatus(w, http.StatusUnauthorized, status)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if _, exists := s.movies[id]; err != nil || !exists {
		writeStatus(w, http.StatusNotFound, StatusNotFound)
		return
	}

	delete(ratings, id)
	writeStatus(w, http.StatusOK, StatusDeleted)
}

// ratingsFor resolves the ratings map the request session writes to. Callers hold s.mu.
func (s *Server) ratingsFor(r *http.Request) (map[int]float64, tmdb.Status, bool) {
	q := r.URL.Query()
	if id := q.Get("session_id"); id != "" {
		if !s.sessions[id] {
			return nil, StatusAuthFailed, false
		}
		return s.ratings, tmdb.Status{}, true
	}
	if id := q.Get("guest_session_id"); id != "" {
		if !s.guestSessions[id] {
			return nil, StatusAuthFailed, false
		}
		if s.guestRatings[id] == nil {
			s.guestRatings[id] = map[int]float64{}
		}
		return s.guestRatings[id], tmdb.Status{}, true
	}
	return nil, StatusAuthFailed, false
}

func writeStatus(w http.ResponseWriter, code int, status tmdb.Status) {
	writeJSON(w, code, status)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json;charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		common.Log.Error("Failed to json.Encoder.Encode", "err", err)
	}
}

func randomHex() string {
	b := make([]byte, 20)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
