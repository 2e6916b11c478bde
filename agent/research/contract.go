package research

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
)

// vendoredPrefixes marks dependency source that carries no signal about the
// project's own code. Files under these paths are dropped before auditing.
var vendoredPrefixes = []string{
	"@openzeppelin",
	"@chainlink",
	"@uniswap",
	"node_modules",
	"lib/",
}

// ContractAnalyzer fetches verified source for an address and runs the
// security audit over the project-authored files.
type ContractAnalyzer struct {
	fetcher contractx.SourceFetcher
	auditor contractx.Auditor
}

func NewContractAnalyzer(fetcher contractx.SourceFetcher, auditor contractx.Auditor) (*ContractAnalyzer, error) {
	if fetcher == nil {
		return nil, errors.New("source fetcher is required")
	}
	if auditor == nil {
		return nil, errors.New("auditor is required")
	}
	return &ContractAnalyzer{fetcher: fetcher, auditor: auditor}, nil
}

func (a *ContractAnalyzer) Analyze(ctx context.Context, address string) (contractx.ContractEvidence, error) {
	src, err := a.fetcher.FetchSource(ctx, address)
	if err != nil {
		return contractx.ContractEvidence{}, err
	}

	name, files := ExtractMainContract(src)
	if len(files) == 0 {
		return contractx.ContractEvidence{}, fmt.Errorf("%w: no auditable source for %s", contractx.ErrRemote, address)
	}

	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	contents := make([]string, 0, len(paths))
	for _, path := range paths {
		contents = append(contents, files[path])
	}

	log.Debug().
		Str("address", address).
		Str("contract", name).
		Int("files", len(files)).
		Msg("auditing contract source")

	narrative, err := a.auditor.AuditContract(ctx, name, contents)
	if err != nil {
		return contractx.ContractEvidence{}, err
	}

	return contractx.ContractEvidence{
		Source:    paths,
		Narrative: narrative,
	}, nil
}

// ExtractMainContract drops vendored dependency files, then narrows the
// remainder to the files attributable to the named primary contract. Each
// filter falls back to its input set when it would remove everything, so the
// audit always has input.
func ExtractMainContract(src contractx.ContractSource) (string, map[string]string) {
	kept := make(map[string]string, len(src.Files))
	for path, content := range src.Files {
		if isVendoredPath(path) {
			continue
		}
		kept[path] = content
	}
	if len(kept) == 0 {
		kept = src.Files
	}

	if name := strings.TrimSpace(src.ContractName); name != "" {
		matched := make(map[string]string, len(kept))
		for path, content := range kept {
			if strings.Contains(path, name) {
				matched[path] = content
			}
		}
		if len(matched) > 0 {
			kept = matched
		}
	}
	return src.ContractName, kept
}

func isVendoredPath(path string) bool {
	normalized := strings.TrimLeft(path, "./")
	for _, prefix := range vendoredPrefixes {
		if strings.HasPrefix(normalized, prefix) || strings.Contains(normalized, "/"+prefix) {
			return true
		}
	}
	return false
}
