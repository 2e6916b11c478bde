package research

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
)

type TavilyConfig struct {
	APIKey     string        `envconfig:"API_KEY" split_words:"true"`
	BaseURL    string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.tavily.com"`
	Timeout    time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"20s"`
	MaxResults int           `envconfig:"MAX_RESULTS" split_words:"true" default:"5"`
}

// TavilyClient runs web searches used to locate a project's repository when
// the user query did not name one.
type TavilyClient struct {
	client     *resty.Client
	apiKey     string
	maxResults int
}

func NewTavilyClient(cfg TavilyConfig) *TavilyClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	return &TavilyClient{client: client, apiKey: strings.TrimSpace(cfg.APIKey), maxResults: maxResults}
}

type tavilySearchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type tavilySearchResponse struct {
	Results []struct {
		URL   string `json:"url"`
		Title string `json:"title"`
	} `json:"results"`
}

// Search returns whatever results the provider found. An empty slice with a
// nil error is a valid outcome meaning nothing matched.
func (t *TavilyClient) Search(ctx context.Context, query string) ([]contractx.SearchResult, error) {
	if t.apiKey == "" {
		return nil, fmt.Errorf("%w: search api key is missing", contractx.ErrRemote)
	}

	var payload tavilySearchResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(tavilySearchRequest{
			APIKey:     t.apiKey,
			Query:      query,
			MaxResults: t.maxResults,
		}).
		SetResult(&payload).
		Post("/search")
	if err != nil {
		return nil, fmt.Errorf("%w: search request: %v", contractx.ErrRemote, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: search status=%d", contractx.ErrRemote, resp.StatusCode())
	}

	results := make([]contractx.SearchResult, 0, len(payload.Results))
	for _, r := range payload.Results {
		if strings.TrimSpace(r.URL) == "" {
			continue
		}
		results = append(results, contractx.SearchResult{URL: r.URL, Title: r.Title})
	}
	return results, nil
}
