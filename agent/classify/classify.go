// Package classify assigns a raw user query one of three input categories and
// a canonical value. It never fails: inputs matching neither pattern degrade
// to a project-name guess with a lowered confidence tag, so downstream stages
// can decide whether to trust the value as a search seed.
package classify

import (
	"regexp"
	"strings"

	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
)

var (
	repoRefPattern = regexp.MustCompile(`github\.com/[\w-]+/[\w-]+`)
	addressPattern = regexp.MustCompile(`0x[a-fA-F0-9]{40}`)
)

// Classify inspects free-text input. A repository-reference match takes
// precedence over a contract-address match; the matched substring is returned
// verbatim. Anything else is treated as a project name.
func Classify(input string) contractx.Classification {
	trimmed := strings.TrimSpace(input)

	if m := repoRefPattern.FindString(trimmed); m != "" {
		return contractx.Classification{
			Kind:       contractx.InputRepository,
			Value:      m,
			Confidence: contractx.ConfidenceHigh,
		}
	}
	if m := addressPattern.FindString(trimmed); m != "" {
		return contractx.Classification{
			Kind:       contractx.InputContractAddress,
			Value:      m,
			Confidence: contractx.ConfidenceHigh,
		}
	}

	confidence := contractx.ConfidenceMedium
	if trimmed == "" {
		confidence = contractx.ConfidenceLow
	}
	return contractx.Classification{
		Kind:       contractx.InputProjectName,
		Value:      trimmed,
		Confidence: confidence,
	}
}
