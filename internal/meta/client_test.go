package meta

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func metaServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/meta/movie/tt0468569.json", r.URL.Path)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchFirstSourceWins(t *testing.T) {
	first := metaServer(t, http.StatusOK, `{"meta":{"name":"The Dark Knight","poster":"https://img/p.jpg","imdbRating":"9.0"}}`)
	second := metaServer(t, http.StatusOK, `{"meta":{"name":"WRONG"}}`)

	c := NewClient(ClientOptions{BaseURLs: []string{first.URL, second.URL}}, nil, zap.NewNop())
	m := c.Fetch(context.Background(), "movie", "tt0468569")

	require.Equal(t, "The Dark Knight", m.Name)
	require.Equal(t, "https://img/p.jpg", m.Poster)
	require.Equal(t, Rating("9.0"), m.IMDbRating)
}

func TestFetchFallsBackOnFailure(t *testing.T) {
	failing := metaServer(t, http.StatusInternalServerError, "boom")
	working := metaServer(t, http.StatusOK, `{"meta":{"name":"The Dark Knight"}}`)

	c := NewClient(ClientOptions{BaseURLs: []string{failing.URL, working.URL}}, nil, zap.NewNop())
	m := c.Fetch(context.Background(), "movie", "tt0468569")

	require.Equal(t, "The Dark Knight", m.Name)
}

// A response without any useful field counts as a miss, not a result.
func TestFetchSkipsUselessResponses(t *testing.T) {
	useless := metaServer(t, http.StatusOK, `{"meta":{"releaseInfo":"2008"}}`)
	working := metaServer(t, http.StatusOK, `{"meta":{"title":"The Dark Knight"}}`)

	c := NewClient(ClientOptions{BaseURLs: []string{useless.URL, working.URL}}, nil, zap.NewNop())
	m := c.Fetch(context.Background(), "movie", "tt0468569")

	require.Equal(t, "The Dark Knight", m.DisplayName("tt0468569"))
}

// All sources dry must degrade to an empty result, never to an error or
// panic: callers fall back to the id as display name.
func TestFetchAllSourcesDry(t *testing.T) {
	failing := metaServer(t, http.StatusBadGateway, "")
	garbage := metaServer(t, http.StatusOK, "not json")

	c := NewClient(ClientOptions{BaseURLs: []string{failing.URL, garbage.URL}}, nil, zap.NewNop())
	m := c.Fetch(context.Background(), "movie", "tt0468569")

	require.Equal(t, Meta{}, m)
	require.Equal(t, "tt0468569", m.DisplayName("tt0468569"))
}

func TestFetchUsesCache(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		_, _ = w.Write([]byte(`{"meta":{"name":"The Dark Knight"}}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(ClientOptions{BaseURLs: []string{srv.URL}}, NewInMemoryCache(), zap.NewNop())
	for range 3 {
		m := c.Fetch(context.Background(), "movie", "tt0468569")
		require.Equal(t, "The Dark Knight", m.Name)
	}
	require.Equal(t, 1, requests)
}

func TestRatingAcceptsStringAndNumber(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected Rating
	}{
		{name: "string", body: `{"meta":{"name":"x","imdbRating":"9.0"}}`, expected: "9.0"},
		{name: "number", body: `{"meta":{"name":"x","imdbRating":9}}`, expected: "9"},
		{name: "null", body: `{"meta":{"name":"x","imdbRating":null}}`, expected: ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			srv := metaServer(t, http.StatusOK, test.body)
			c := NewClient(ClientOptions{BaseURLs: []string{srv.URL}}, nil, zap.NewNop())
			m := c.Fetch(context.Background(), "movie", "tt0468569")
			require.Equal(t, test.expected, m.IMDbRating)
		})
	}
}
