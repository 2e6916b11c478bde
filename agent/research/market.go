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

type CoinGeckoConfig struct {
	APIKey  string        `envconfig:"API_KEY" split_words:"true"`
	BaseURL string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.coingecko.com/api/v3"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"20s"`
}

// CoinGeckoClient looks up token market records by contract address.
type CoinGeckoClient struct {
	client *resty.Client
	apiKey string
}

func NewCoinGeckoClient(cfg CoinGeckoConfig) *CoinGeckoClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)
	return &CoinGeckoClient{client: client, apiKey: strings.TrimSpace(cfg.APIKey)}
}

type coinGeckoTokenPayload struct {
	ID         string `json:"id"`
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	MarketData struct {
		CurrentPrice        map[string]float64 `json:"current_price"`
		MarketCap           map[string]float64 `json:"market_cap"`
		MarketCapRank       int                `json:"market_cap_rank"`
		High24h             map[string]float64 `json:"high_24h"`
		Low24h              map[string]float64 `json:"low_24h"`
		PriceChangePct24h   float64            `json:"price_change_percentage_24h"`
		ATH                 map[string]float64 `json:"ath"`
		ATHChangePercentage map[string]float64 `json:"ath_change_percentage"`
		ATL                 map[string]float64 `json:"atl"`
		ATLChangePercentage map[string]float64 `json:"atl_change_percentage"`
		CirculatingSupply   float64            `json:"circulating_supply"`
		TotalSupply         float64            `json:"total_supply"`
		MaxSupply           float64            `json:"max_supply"`
	} `json:"market_data"`
	SentimentVotesUpPct   float64 `json:"sentiment_votes_up_percentage"`
	SentimentVotesDownPct float64 `json:"sentiment_votes_down_percentage"`
	WatchlistPortfolio    int     `json:"watchlist_portfolio_users"`
	LastUpdated           string  `json:"last_updated"`
	Tickers               []struct {
		Market struct {
			Name string `json:"name"`
		} `json:"market"`
		ConvertedLast   map[string]float64 `json:"converted_last"`
		ConvertedVolume map[string]float64 `json:"converted_volume"`
		BidAskSpreadPct float64            `json:"bid_ask_spread_percentage"`
		TrustScore      string             `json:"trust_score"`
		TradeURL        string             `json:"trade_url"`
	} `json:"tickers"`
}

func (c *CoinGeckoClient) TokenDetails(ctx context.Context, address, platform string) (contractx.MarketEvidence, error) {
	req := c.client.R().SetContext(ctx)
	if c.apiKey != "" {
		req.SetHeader("x-cg-demo-api-key", c.apiKey)
	}

	var payload coinGeckoTokenPayload
	resp, err := req.
		SetResult(&payload).
		Get(fmt.Sprintf("/coins/%s/contract/%s", platform, strings.ToLower(address)))
	if err != nil {
		return contractx.MarketEvidence{}, fmt.Errorf("%w: market request: %v", contractx.ErrRemote, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return contractx.MarketEvidence{}, fmt.Errorf("%w: market status=%d for %s", contractx.ErrRemote, resp.StatusCode(), address)
	}

	ev := contractx.MarketEvidence{
		ID:               payload.ID,
		Symbol:           payload.Symbol,
		Name:             payload.Name,
		ContractAddress:  strings.ToLower(address),
		Platform:         platform,
		PriceUSD:         payload.MarketData.CurrentPrice["usd"],
		MarketCapUSD:     payload.MarketData.MarketCap["usd"],
		MarketCapRank:    payload.MarketData.MarketCapRank,
		TotalSupply:      payload.MarketData.TotalSupply,
		MaxSupply:        payload.MarketData.MaxSupply,
		Circulating:      payload.MarketData.CirculatingSupply,
		High24hUSD:       payload.MarketData.High24h["usd"],
		Low24hUSD:        payload.MarketData.Low24h["usd"],
		Change24hPct:     payload.MarketData.PriceChangePct24h,
		ATHUSD:           payload.MarketData.ATH["usd"],
		ATHChangePct:     payload.MarketData.ATHChangePercentage["usd"],
		ATLUSD:           payload.MarketData.ATL["usd"],
		ATLChangePct:     payload.MarketData.ATLChangePercentage["usd"],
		SentimentUpPct:   payload.SentimentVotesUpPct,
		SentimentDownPct: payload.SentimentVotesDownPct,
		WatchlistUsers:   payload.WatchlistPortfolio,
		LastUpdated:      payload.LastUpdated,
	}
	for _, t := range payload.Tickers {
		ev.Tickers = append(ev.Tickers, contractx.Ticker{
			MarketName:      t.Market.Name,
			LastPriceUSD:    t.ConvertedLast["usd"],
			VolumeUSD:       t.ConvertedVolume["usd"],
			TradeURL:        t.TradeURL,
			BidAskSpreadPct: t.BidAskSpreadPct,
			TrustScore:      t.TrustScore,
		})
	}
	return ev, nil
}
