package contract

import "context"

// RepoClient wraps the code-hosting API.
type RepoClient interface {
	RepoMetrics(ctx context.Context, owner, repo string) (RepoMetrics, error)
	OwnerMetrics(ctx context.Context, owner string) (OwnerMetrics, error)
}

// SourceFetcher wraps a block-explorer verified-source endpoint. A fetcher may
// internally fall back to a secondary provider before reporting failure.
type SourceFetcher interface {
	FetchSource(ctx context.Context, address string) (ContractSource, error)
}

// MarketClient wraps the market-data API.
type MarketClient interface {
	TokenDetails(ctx context.Context, address, platform string) (MarketEvidence, error)
}

// Searcher resolves a free-text query to candidate URLs. An empty result set
// is a valid, non-error outcome.
type Searcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// Rater produces a qualitative rating narrative from repository metrics.
type Rater interface {
	RateRepository(ctx context.Context, metrics RepoMetrics, author OwnerMetrics) (string, error)
}

// Auditor produces a consolidated security narrative for contract source.
type Auditor interface {
	AuditContract(ctx context.Context, name string, files []string) (string, error)
}

// Assessor turns collected evidence into a structured investment assessment.
// Implementations must always return a well-formed Assessment: when the
// generation call itself fails they return FailedAssessment, not an error.
type Assessor interface {
	Assess(ctx context.Context, input AssessmentInput) (Assessment, error)
}

// Answerer handles follow-up questions against prior conversation turns.
type Answerer interface {
	AnswerFollowup(ctx context.Context, history []Turn, question string) (string, error)
}

// Trader executes a token purchase for the given contract address and returns
// the collaborator's textual outcome.
type Trader interface {
	ExecuteTrade(ctx context.Context, address string) (string, error)
}

// Wallet is the on-chain account surface exposed to the trading agent's tools.
type Wallet interface {
	Details(ctx context.Context) (string, error)
	RequestFaucet(ctx context.Context) (string, error)
	SwapTokens(ctx context.Context, address string) (string, error)
}

// RepositoryAnalyzer combines reference parsing, metric collection, and rating
// into repository evidence.
type RepositoryAnalyzer interface {
	Analyze(ctx context.Context, ref string) (RepositoryEvidence, error)
}

// ContractAnalyzer combines source fetching, extraction, and security audit
// into contract evidence.
type ContractAnalyzer interface {
	Analyze(ctx context.Context, address string) (ContractEvidence, error)
}
