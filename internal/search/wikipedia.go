package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const wikipediaMaxResults = 2

// Wikipedia queries the MediaWiki search API.
type Wikipedia struct {
	httpClient *http.Client
	endpoint   string
	articleURL string
}

// NewWikipedia builds a searcher against endpoint, e.g.
// https://en.wikipedia.org/w/api.php. Article links are derived from the
// endpoint host.
func NewWikipedia(endpoint string, httpClient *http.Client) *Wikipedia {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	articleURL := "https://en.wikipedia.org/wiki/"
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		articleURL = u.Scheme + "://" + u.Host + "/wiki/"
	}
	return &Wikipedia{
		httpClient: httpClient,
		endpoint:   endpoint,
		articleURL: articleURL,
	}
}

func (w *Wikipedia) Search(ctx context.Context, topic string) ([]Link, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return []Link{}, nil
	}

	q := url.Values{}
	q.Set("action", "query")
	q.Set("list", "search")
	q.Set("srsearch", topic)
	q.Set("srlimit", fmt.Sprint(wikipediaMaxResults))
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build wikipedia request failed: %w", err)
	}
	req.Header.Set("User-Agent", "edumate/1.0")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("wikipedia response status %d", resp.StatusCode)
	}

	var parsed struct {
		Query struct {
			Search []struct {
				Title string `json:"title"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse wikipedia json failed: %w", err)
	}

	links := make([]Link, 0, wikipediaMaxResults)
	for _, item := range parsed.Query.Search {
		if len(links) == wikipediaMaxResults {
			break
		}
		links = append(links, Link{
			Title: item.Title,
			URL:   w.articleURL + strings.ReplaceAll(item.Title, " ", "_"),
		})
	}
	return links, nil
}

// YouTubeSearchLink builds the YouTube results page link for topic.
func YouTubeSearchLink(topic string) Link {
	return Link{
		Title: "YouTube Search",
		URL:   "https://www.youtube.com/results?search_query=" + url.QueryEscape(strings.TrimSpace(topic)),
	}
}
