package search

import (
	"context"
	"time"
)

type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Searcher finds reference links for a study topic.
type Searcher interface {
	Search(ctx context.Context, topic string) ([]Link, error)
}

type fallbackSearcher struct {
	inner   Searcher
	timeout time.Duration
}

// WithFallback bounds every call to inner by timeout and turns any failure
// into an empty result.
func WithFallback(inner Searcher, timeout time.Duration) Searcher {
	return &fallbackSearcher{inner: inner, timeout: timeout}
}

func (s *fallbackSearcher) Search(ctx context.Context, topic string) ([]Link, error) {
	if s.inner == nil {
		return []Link{}, nil
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	type result struct {
		links []Link
		err   error
	}
	done := make(chan result, 1)
	go func() {
		links, err := s.inner.Search(ctx, topic)
		done <- result{links: links, err: err}
	}()

	select {
	case <-ctx.Done():
		return []Link{}, nil
	case res := <-done:
		if res.err != nil || res.links == nil {
			return []Link{}, nil
		}
		return res.links, nil
	}
}
