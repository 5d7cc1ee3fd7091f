package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	links []Link
	err   error
	delay time.Duration
}

func (s stubSearcher) Search(ctx context.Context, _ string) ([]Link, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.links, s.err
}

func TestWikipediaSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "query", r.URL.Query().Get("action"))
		assert.Equal(t, "cell biology", r.URL.Query().Get("srsearch"))
		_, _ = w.Write([]byte(`{"query":{"search":[{"title":"Cell biology"},{"title":"Cell (biology)"},{"title":"Mitosis"}]}}`))
	}))
	defer srv.Close()

	w := NewWikipedia(srv.URL+"/w/api.php", srv.Client())
	links, err := w.Search(context.Background(), " cell biology ")
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "Cell biology", links[0].Title)
	assert.Equal(t, srv.URL+"/wiki/Cell_biology", links[0].URL)
	assert.Equal(t, srv.URL+"/wiki/Cell_(biology)", links[1].URL)
}

func TestWikipediaSearchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewWikipedia(srv.URL, srv.Client()).Search(context.Background(), "algebra")
	assert.Error(t, err)
}

func TestWithFallback(t *testing.T) {
	want := []Link{{Title: "Algebra", URL: "https://en.wikipedia.org/wiki/Algebra"}}

	tests := []struct {
		name  string
		inner Searcher
		want  []Link
	}{
		{name: "passes results", inner: stubSearcher{links: want}, want: want},
		{name: "error becomes empty", inner: stubSearcher{err: errors.New("offline")}, want: []Link{}},
		{name: "timeout becomes empty", inner: stubSearcher{links: want, delay: time.Second}, want: []Link{}},
		{name: "nil inner", inner: nil, want: []Link{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithFallback(tt.inner, 30*time.Millisecond).Search(context.Background(), "algebra")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestYouTubeSearchLink(t *testing.T) {
	link := YouTubeSearchLink("photo synthesis")
	assert.Equal(t, "https://www.youtube.com/results?search_query=photo+synthesis", link.URL)
}
