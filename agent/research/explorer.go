package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
)

type ExplorerConfig struct {
	APIKey  string        `envconfig:"API_KEY" split_words:"true"`
	BaseURL string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.basescan.org"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"20s"`
}

// BasescanClient fetches verified contract source from an Etherscan-style API.
type BasescanClient struct {
	client *resty.Client
	apiKey string
}

func NewBasescanClient(cfg ExplorerConfig) *BasescanClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)
	return &BasescanClient{client: client, apiKey: strings.TrimSpace(cfg.APIKey)}
}

type basescanEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  []struct {
		SourceCode   string `json:"SourceCode"`
		ContractName string `json:"ContractName"`
	} `json:"result"`
}

func (b *BasescanClient) FetchSource(ctx context.Context, address string) (contractx.ContractSource, error) {
	if b.apiKey == "" {
		return contractx.ContractSource{}, fmt.Errorf("%w: explorer api key is missing", contractx.ErrRemote)
	}

	var envelope basescanEnvelope
	resp, err := b.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"module":  "contract",
			"action":  "getsourcecode",
			"address": address,
			"apikey":  b.apiKey,
		}).
		SetResult(&envelope).
		Get("/api")
	if err != nil {
		return contractx.ContractSource{}, fmt.Errorf("%w: explorer request: %v", contractx.ErrRemote, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return contractx.ContractSource{}, fmt.Errorf("%w: explorer status=%d", contractx.ErrRemote, resp.StatusCode())
	}
	if envelope.Status != "1" || len(envelope.Result) == 0 {
		return contractx.ContractSource{}, fmt.Errorf("%w: explorer message=%s", contractx.ErrRemote, envelope.Message)
	}

	result := envelope.Result[0]
	files, err := decodeSourceBundle(result.SourceCode)
	if err != nil {
		return contractx.ContractSource{}, err
	}
	if len(files) == 0 {
		return contractx.ContractSource{}, fmt.Errorf("%w: contract %s is not verified", contractx.ErrRemote, address)
	}

	return contractx.ContractSource{
		ContractName: result.ContractName,
		Files:        files,
	}, nil
}

// decodeSourceBundle handles the three shapes Etherscan-style APIs return:
// a double-brace-wrapped standard-json bundle, a bare standard-json bundle,
// or a single flat Solidity file.
func decodeSourceBundle(raw string) (map[string]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	candidate := raw
	if strings.HasPrefix(candidate, "{{") && strings.HasSuffix(candidate, "}}") {
		candidate = candidate[1 : len(candidate)-1]
	}

	var bundle struct {
		Sources map[string]struct {
			Content string `json:"content"`
		} `json:"sources"`
	}
	if err := json.Unmarshal([]byte(candidate), &bundle); err == nil && len(bundle.Sources) > 0 {
		files := make(map[string]string, len(bundle.Sources))
		for path, src := range bundle.Sources {
			files[path] = src.Content
		}
		return files, nil
	}

	// Not a bundle: treat the raw payload as one flat file.
	return map[string]string{"contract.sol": raw}, nil
}

/* ------------------------------- Sourcify -------------------------------- */

type SourcifyConfig struct {
	BaseURL string        `envconfig:"BASE_URL" split_words:"true" default:"https://sourcify.dev/server"`
	ChainID int           `envconfig:"CHAIN_ID" split_words:"true" default:"8453"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"20s"`
}

// SourcifyClient is the secondary metadata provider consulted when the
// primary explorer fails.
type SourcifyClient struct {
	client  *resty.Client
	chainID int
}

func NewSourcifyClient(cfg SourcifyConfig) *SourcifyClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)
	return &SourcifyClient{client: client, chainID: cfg.ChainID}
}

type sourcifyFilesPayload struct {
	Files []struct {
		Name    string `json:"name"`
		Path    string `json:"path"`
		Content string `json:"content"`
	} `json:"files"`
}

func (s *SourcifyClient) FetchSource(ctx context.Context, address string) (contractx.ContractSource, error) {
	var payload sourcifyFilesPayload
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&payload).
		Get(fmt.Sprintf("/files/any/%s/%s", strconv.Itoa(s.chainID), address))
	if err != nil {
		return contractx.ContractSource{}, fmt.Errorf("%w: sourcify request: %v", contractx.ErrRemote, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return contractx.ContractSource{}, fmt.Errorf("%w: sourcify status=%d", contractx.ErrRemote, resp.StatusCode())
	}
	if len(payload.Files) == 0 {
		return contractx.ContractSource{}, fmt.Errorf("%w: sourcify has no files for %s", contractx.ErrRemote, address)
	}

	// The payload mixes Solidity sources with metadata files; only the
	// former belong in the audit input.
	files := make(map[string]string, len(payload.Files))
	name := ""
	for _, f := range payload.Files {
		if !strings.HasSuffix(f.Name, ".sol") {
			continue
		}
		path := f.Path
		if path == "" {
			path = f.Name
		}
		files[path] = f.Content
		if name == "" {
			name = strings.TrimSuffix(f.Name, ".sol")
		}
	}
	if len(files) == 0 {
		return contractx.ContractSource{}, fmt.Errorf("%w: sourcify has no solidity sources for %s", contractx.ErrRemote, address)
	}

	return contractx.ContractSource{ContractName: name, Files: files}, nil
}

/* ------------------------------- Fallback -------------------------------- */

// FallbackSourceFetcher consults the primary explorer first and retries
// against the secondary provider before reporting failure.
type FallbackSourceFetcher struct {
	primary   contractx.SourceFetcher
	secondary contractx.SourceFetcher
}

func NewFallbackSourceFetcher(primary, secondary contractx.SourceFetcher) (*FallbackSourceFetcher, error) {
	if primary == nil {
		return nil, errors.New("primary source fetcher is required")
	}
	return &FallbackSourceFetcher{primary: primary, secondary: secondary}, nil
}

func (f *FallbackSourceFetcher) FetchSource(ctx context.Context, address string) (contractx.ContractSource, error) {
	src, err := f.primary.FetchSource(ctx, address)
	if err == nil {
		return src, nil
	}
	if f.secondary == nil {
		return contractx.ContractSource{}, err
	}

	log.Debug().Err(err).Str("address", address).Msg("primary explorer failed, trying secondary")

	src, secondaryErr := f.secondary.FetchSource(ctx, address)
	if secondaryErr != nil {
		return contractx.ContractSource{}, fmt.Errorf("%w: primary: %v; secondary: %v", contractx.ErrRemote, err, secondaryErr)
	}
	return src, nil
}
