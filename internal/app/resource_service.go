package app

import (
	"context"
	"fmt"
	"strings"

	"edumate/internal/search"
)

type ResourceSection struct {
	Heading string        `json:"heading"`
	Links   []search.Link `json:"links"`
	Note    string        `json:"note,omitempty"`
}

type ResourceService struct {
	searcher search.Searcher
}

// NewResourceService expects a searcher that already bounds its own latency,
// e.g. one wrapped with search.WithFallback.
func NewResourceService(searcher search.Searcher) *ResourceService {
	return &ResourceService{searcher: searcher}
}

// Curate returns article and video sections for topic ordered for style.
func (s *ResourceService) Curate(ctx context.Context, topic string, style LearningStyle) ([]ResourceSection, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrInvalidInput
	}
	videos := []search.Link{search.YouTubeSearchLink(topic)}

	if style == StyleAuditory {
		return []ResourceSection{
			{Heading: "YouTube Videos (for audio)", Links: videos},
			{Heading: "Podcasts", Links: []search.Link{}, Note: "Audio/podcast resources coming soon!"},
		}, nil
	}

	articles, err := s.articles(ctx, topic)
	if err != nil {
		return nil, err
	}

	switch style {
	case StyleVisual:
		return []ResourceSection{
			{Heading: "YouTube Videos (Visual)", Links: videos},
			{Heading: "Wikipedia Articles", Links: articles},
		}, nil
	case StyleKinesthetic:
		return []ResourceSection{
			{
				Heading: "Practical Activities (Kinesthetic)",
				Links:   []search.Link{},
				Note:    fmt.Sprintf("Try to find a hands-on project or experiment about %s.", topic),
			},
			{Heading: "Wikipedia Articles", Links: articles},
			{Heading: "YouTube Videos", Links: videos},
		}, nil
	default:
		return []ResourceSection{
			{Heading: "Wikipedia Articles (Reading/Writing)", Links: articles},
			{Heading: "YouTube Videos", Links: videos},
		}, nil
	}
}

func (s *ResourceService) articles(ctx context.Context, topic string) ([]search.Link, error) {
	if s.searcher == nil {
		return []search.Link{}, nil
	}
	links, err := s.searcher.Search(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("search resources failed: %w", err)
	}
	if links == nil {
		links = []search.Link{}
	}
	return links, nil
}
