package research

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
)

type fakeRepoClient struct {
	metrics contractx.RepoMetrics
	author  contractx.OwnerMetrics
	repoErr error
	userErr error
}

func (f fakeRepoClient) RepoMetrics(context.Context, string, string) (contractx.RepoMetrics, error) {
	return f.metrics, f.repoErr
}

func (f fakeRepoClient) OwnerMetrics(context.Context, string) (contractx.OwnerMetrics, error) {
	return f.author, f.userErr
}

type fakeRater struct {
	rating string
	err    error
	calls  int
}

func (f *fakeRater) RateRepository(context.Context, contractx.RepoMetrics, contractx.OwnerMetrics) (string, error) {
	f.calls++
	return f.rating, f.err
}

func TestParseRepositoryRef(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		ref       string
		wantOwner string
		wantRepo  string
		wantErr   error
	}{
		{name: "bare", ref: "github.com/acme/widget", wantOwner: "acme", wantRepo: "widget"},
		{name: "with scheme", ref: "https://github.com/acme/widget", wantOwner: "acme", wantRepo: "widget"},
		{name: "trailing slash", ref: "github.com/acme/widget/", wantOwner: "acme", wantRepo: "widget"},
		{name: "owner only", ref: "github.com/acme", wantErr: contractx.ErrNotAnalyzable},
		{name: "empty", ref: "  ", wantErr: contractx.ErrValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			owner, repo, err := ParseRepositoryRef(tc.ref)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRepositoryRef: %v", err)
			}
			if owner != tc.wantOwner || repo != tc.wantRepo {
				t.Errorf("got %s/%s, want %s/%s", owner, repo, tc.wantOwner, tc.wantRepo)
			}
		})
	}
}

func TestRepositoryAnalyzerAnalyze(t *testing.T) {
	t.Parallel()

	rater := &fakeRater{rating: "Strong and active project."}
	analyzer, err := NewRepositoryAnalyzer(fakeRepoClient{
		metrics: contractx.RepoMetrics{Stars: 10},
		author:  contractx.OwnerMetrics{Followers: 5},
	}, rater)
	if err != nil {
		t.Fatal(err)
	}

	ev, err := analyzer.Analyze(context.Background(), "github.com/acme/widget")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if ev.Owner != "acme" || ev.Repo != "widget" || ev.Metrics.Stars != 10 || ev.Rating != rater.rating {
		t.Errorf("unexpected evidence %+v", ev)
	}
}

func TestRepositoryAnalyzerShortCircuitsOnMetricsFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	rater := &fakeRater{rating: "unused"}
	analyzer, err := NewRepositoryAnalyzer(fakeRepoClient{repoErr: boom}, rater)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := analyzer.Analyze(context.Background(), "github.com/acme/widget"); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if rater.calls != 0 {
		t.Errorf("rater was called %d times after metrics failure", rater.calls)
	}
}
