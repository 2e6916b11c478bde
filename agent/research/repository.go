package research

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
)

// RepositoryAnalyzer turns a repository reference into repository evidence:
// parse, fetch metrics for repo and owner, then delegate the qualitative
// rating to the language-model collaborator. Any step's failure short-circuits
// so partial metrics are never paired with a missing rating.
type RepositoryAnalyzer struct {
	repos contractx.RepoClient
	rater contractx.Rater
}

func NewRepositoryAnalyzer(repos contractx.RepoClient, rater contractx.Rater) (*RepositoryAnalyzer, error) {
	if repos == nil {
		return nil, errors.New("repo client is required")
	}
	if rater == nil {
		return nil, errors.New("rater is required")
	}
	return &RepositoryAnalyzer{repos: repos, rater: rater}, nil
}

// ParseRepositoryRef splits a reference like "github.com/owner/repo" (with or
// without scheme) into owner and repo. Owner-only references are rejected as
// not analyzable.
func ParseRepositoryRef(ref string) (owner, repo string, err error) {
	trimmed := strings.TrimSpace(ref)
	trimmed = strings.TrimPrefix(trimmed, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	trimmed = strings.TrimPrefix(trimmed, "github.com/")
	trimmed = strings.Trim(trimmed, "/")
	if trimmed == "" {
		return "", "", fmt.Errorf("%w: empty reference", contractx.ErrValidation)
	}

	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q has no repository segment", contractx.ErrNotAnalyzable, ref)
	}
	return parts[0], parts[1], nil
}

func (a *RepositoryAnalyzer) Analyze(ctx context.Context, ref string) (contractx.RepositoryEvidence, error) {
	owner, repo, err := ParseRepositoryRef(ref)
	if err != nil {
		return contractx.RepositoryEvidence{}, err
	}

	metrics, err := a.repos.RepoMetrics(ctx, owner, repo)
	if err != nil {
		return contractx.RepositoryEvidence{}, err
	}
	author, err := a.repos.OwnerMetrics(ctx, owner)
	if err != nil {
		return contractx.RepositoryEvidence{}, err
	}

	rating, err := a.rater.RateRepository(ctx, metrics, author)
	if err != nil {
		return contractx.RepositoryEvidence{}, err
	}

	log.Debug().
		Str("ref", ref).
		Int("stars", metrics.Stars).
		Int("followers", author.Followers).
		Msg("repository evidence collected")

	return contractx.RepositoryEvidence{
		Ref:     ref,
		Owner:   owner,
		Repo:    repo,
		Metrics: metrics,
		Author:  author,
		Rating:  rating,
	}, nil
}
