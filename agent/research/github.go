// Package research holds the evidence collectors. Each type wraps exactly one
// external data source and normalizes its response into the shared evidence
// shapes; partial-failure policy lives with the orchestrator, not here.
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

type GitHubConfig struct {
	Token   string        `envconfig:"TOKEN" split_words:"true"`
	BaseURL string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.github.com"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"15s"`
}

// GitHubClient fetches repository and owner metrics from the GitHub REST API.
type GitHubClient struct {
	client *resty.Client
}

func NewGitHubClient(cfg GitHubConfig) *GitHubClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/vnd.github+json")
	if token := strings.TrimSpace(cfg.Token); token != "" {
		client.SetHeader("Authorization", "Bearer "+token)
	}
	return &GitHubClient{client: client}
}

type githubRepoPayload struct {
	StargazersCount int `json:"stargazers_count"`
	ForksCount      int `json:"forks_count"`
	WatchersCount   int `json:"watchers_count"`
	OpenIssuesCount int `json:"open_issues_count"`
}

type githubUserPayload struct {
	Followers   int `json:"followers"`
	PublicRepos int `json:"public_repos"`
}

type githubUserRepoPayload struct {
	StargazersCount int `json:"stargazers_count"`
	ForksCount      int `json:"forks_count"`
}

func (g *GitHubClient) RepoMetrics(ctx context.Context, owner, repo string) (contractx.RepoMetrics, error) {
	var payload githubRepoPayload
	resp, err := g.client.R().
		SetContext(ctx).
		SetResult(&payload).
		Get(fmt.Sprintf("/repos/%s/%s", owner, repo))
	if err != nil {
		return contractx.RepoMetrics{}, fmt.Errorf("%w: fetch repo %s/%s: %v", contractx.ErrRemote, owner, repo, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return contractx.RepoMetrics{}, fmt.Errorf("%w: fetch repo %s/%s: status=%d", contractx.ErrRemote, owner, repo, resp.StatusCode())
	}

	return contractx.RepoMetrics{
		Stars:      payload.StargazersCount,
		Forks:      payload.ForksCount,
		Watchers:   payload.WatchersCount,
		OpenIssues: payload.OpenIssuesCount,
	}, nil
}

func (g *GitHubClient) OwnerMetrics(ctx context.Context, owner string) (contractx.OwnerMetrics, error) {
	var user githubUserPayload
	resp, err := g.client.R().
		SetContext(ctx).
		SetResult(&user).
		Get("/users/" + owner)
	if err != nil {
		return contractx.OwnerMetrics{}, fmt.Errorf("%w: fetch user %s: %v", contractx.ErrRemote, owner, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return contractx.OwnerMetrics{}, fmt.Errorf("%w: fetch user %s: status=%d", contractx.ErrRemote, owner, resp.StatusCode())
	}

	var repos []githubUserRepoPayload
	resp, err = g.client.R().
		SetContext(ctx).
		SetQueryParam("per_page", "100").
		SetResult(&repos).
		Get(fmt.Sprintf("/users/%s/repos", owner))
	if err != nil {
		return contractx.OwnerMetrics{}, fmt.Errorf("%w: fetch user repos %s: %v", contractx.ErrRemote, owner, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return contractx.OwnerMetrics{}, fmt.Errorf("%w: fetch user repos %s: status=%d", contractx.ErrRemote, owner, resp.StatusCode())
	}

	metrics := contractx.OwnerMetrics{
		Followers:   user.Followers,
		PublicRepos: user.PublicRepos,
		ReposCount:  len(repos),
	}
	for _, r := range repos {
		metrics.TotalStars += r.StargazersCount
		metrics.TotalForks += r.ForksCount
	}
	return metrics, nil
}
