package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/rate_repository.txt
	rateRepositoryRaw string

	//go:embed template/audit_chunk.txt
	auditChunkRaw string

	//go:embed template/audit_synthesis.txt
	auditSynthesisRaw string

	//go:embed template/assess.txt
	assessRaw string

	//go:embed template/followup.txt
	followupRaw string

	//go:embed template/trader.txt
	traderRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	RateRepository string
	AuditChunk     string
	AuditSynthesis string
	Assess         string
	Followup       string
	Trader         string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		RateRepository: strings.TrimSpace(rateRepositoryRaw),
		AuditChunk:     strings.TrimSpace(auditChunkRaw),
		AuditSynthesis: strings.TrimSpace(auditSynthesisRaw),
		Assess:         strings.TrimSpace(assessRaw),
		Followup:       strings.TrimSpace(followupRaw),
		Trader:         strings.TrimSpace(traderRaw),
	}
}
