package imdb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/StalkR/imdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStalkrIMDB_GetTitle(t *testing.T) {

	s := &stalkrIMDB{
		httpClient: &http.Client{},
		getTitle: func(c *http.Client, id string) (*imdb.Title, error) {
			if id == "tt0137523" {
				return &imdb.Title{
					ID:   "tt0137523",
					Name: "Fight Club",
					Year: 1999,
				}, nil
			}
			return nil, fmt.Errorf("expected id tt0137523, got %s", id)
		},
	}

	title, err := s.GetTitle(context.Background(), "tt0137523")
	require.NoError(t, err)

	assert.Equal(t, "tt0137523", title.ID)
	assert.Equal(t, "Fight Club", title.Name)
	assert.Equal(t, 1999, title.Year)

	_, err = s.GetTitle(context.Background(), "tt0105236")
	assert.Error(t, err)
}

func TestStalkrIMDB_GetTitleInvalidID(t *testing.T) {

	s := &stalkrIMDB{
		httpClient: &http.Client{},
		getTitle: func(c *http.Client, id string) (*imdb.Title, error) {
			t.Fatalf("unexpected lookup of %s", id)
			return nil, nil
		},
	}

	for _, id := range []string{"", "0137523", "tt", "ttabc"} {
		_, err := s.GetTitle(context.Background(), id)
		assert.Error(t, err, id)
	}
}

func TestNewStalkrIMDBHeaders(t *testing.T) {

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "en", r.Header.Get("Accept-Language"))
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewStalkrIMDB(time.Second).(*stalkrIMDB)
	assert.Equal(t, time.Second, s.httpClient.Timeout)

	res, err := s.httpClient.Get(srv.URL)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
