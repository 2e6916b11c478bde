package contract

import "time"

type InputKind string

const (
	InputRepository      InputKind = "repository"
	InputContractAddress InputKind = "contract_address"
	InputProjectName     InputKind = "project_name"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Classification is the classifier's verdict on a raw query. Value carries the
// matched substring verbatim for pattern hits, or the trimmed query for the
// project-name fallback.
type Classification struct {
	Kind       InputKind  `json:"kind"`
	Value      string     `json:"value"`
	Confidence Confidence `json:"confidence"`
}

type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

/* ------------------------------- Evidence -------------------------------- */

type RepoMetrics struct {
	Stars      int `json:"stars"`
	Forks      int `json:"forks"`
	Watchers   int `json:"watchers"`
	OpenIssues int `json:"open_issues"`
}

type OwnerMetrics struct {
	Followers   int `json:"followers"`
	PublicRepos int `json:"public_repos"`
	TotalStars  int `json:"total_stars"`
	TotalForks  int `json:"total_forks"`
	ReposCount  int `json:"repos_count"`
}

type RepositoryEvidence struct {
	Ref     string       `json:"ref"`
	Owner   string       `json:"owner"`
	Repo    string       `json:"repo"`
	Metrics RepoMetrics  `json:"metrics"`
	Author  OwnerMetrics `json:"author"`
	Rating  string       `json:"rating"`
}

// ContractSource is the raw verified-source bundle returned by an explorer.
// Files maps source path to file content; paths under vendored library
// prefixes are still present here and filtered later.
type ContractSource struct {
	ContractName string            `json:"contract_name"`
	Files        map[string]string `json:"files"`
}

type ContractEvidence struct {
	Source    []string `json:"source"`
	Narrative string   `json:"narrative"`
}

type Ticker struct {
	MarketName      string  `json:"market_name"`
	LastPriceUSD    float64 `json:"last_price_usd"`
	VolumeUSD       float64 `json:"volume_usd"`
	TradeURL        string  `json:"trade_url"`
	BidAskSpreadPct float64 `json:"bid_ask_spread_percentage"`
	TrustScore      string  `json:"trust_score"`
}

type MarketEvidence struct {
	ID              string  `json:"id"`
	Symbol          string  `json:"symbol"`
	Name            string  `json:"name"`
	ContractAddress string  `json:"contract_address"`
	Platform        string  `json:"platform"`
	PriceUSD        float64 `json:"current_price_usd"`
	MarketCapUSD    float64 `json:"market_cap_usd"`
	MarketCapRank   int     `json:"market_cap_rank"`
	TotalSupply     float64 `json:"total_supply"`
	MaxSupply       float64 `json:"max_supply"`
	Circulating     float64 `json:"circulating_supply"`
	High24hUSD      float64 `json:"high_24h_usd"`
	Low24hUSD       float64 `json:"low_24h_usd"`
	Change24hPct    float64 `json:"price_change_percentage_24h"`
	ATHUSD          float64 `json:"ath_usd"`
	ATHChangePct    float64 `json:"ath_change_percentage"`
	ATLUSD          float64 `json:"atl_usd"`
	ATLChangePct    float64 `json:"atl_change_percentage"`
	SentimentUpPct  float64 `json:"sentiment_votes_up_percentage"`
	SentimentDownPct float64 `json:"sentiment_votes_down_percentage"`
	WatchlistUsers  int     `json:"watchlist_portfolio_users"`
	Tickers         []Ticker `json:"tickers"`
	LastUpdated     string  `json:"last_updated"`
}

type SearchResult struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

/* ------------------------------ Assessment ------------------------------- */

const InsufficientData = "Not enough data"

type ScoreCard struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
	Error   string  `json:"error,omitempty"`
}

type Assessment struct {
	CodeActivity     ScoreCard `json:"code_activity"`
	ContractRisk     ScoreCard `json:"smart_contract_risk"`
	TokenPerformance ScoreCard `json:"token_performance"`
	SocialSentiment  ScoreCard `json:"social_sentiment"`
	RiskReward       float64   `json:"risk_reward_ratio"`
	Confidence       float64   `json:"confidence_score"`
	Recommendation   string    `json:"final_recommendation"`
	GeneratedAt      time.Time `json:"timestamp"`
}

// AssessmentInput carries whatever evidence is available. Nil pointers and an
// empty narrative mean the corresponding source produced nothing.
type AssessmentInput struct {
	Repository        *RepositoryEvidence `json:"repository,omitempty"`
	ContractNarrative string              `json:"contract_narrative,omitempty"`
	Market            *MarketEvidence     `json:"market,omitempty"`
}

// FailedAssessment is the canonical all-zero assessment emitted when the
// aggregation call itself fails. Every sub-score is zeroed and tagged so the
// caller always receives a well-formed object.
func FailedAssessment(now time.Time) Assessment {
	failed := ScoreCard{Rating: 0, Comment: "", Error: "Analysis failed"}
	return Assessment{
		CodeActivity:     failed,
		ContractRisk:     failed,
		TokenPerformance: failed,
		SocialSentiment:  failed,
		RiskReward:       0,
		Confidence:       0,
		Recommendation:   "Analysis failed due to error",
		GeneratedAt:      now.UTC(),
	}
}

/* -------------------------------- Trading -------------------------------- */

type TradeDecision string

const (
	TradeConfirmed TradeDecision = "confirmed"
	TradeDeclined  TradeDecision = "declined"
)

// TradeErrorPrefix distinguishes a failed trade outcome from a successful one.
const TradeErrorPrefix = "Trading error: "

type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}
