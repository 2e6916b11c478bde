package orchestrator

import (
	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
	statex "github.com/pranshurastogi/CryptoSentinel/agent/state"
)

// nextStage is the total routing function: every possible state maps to
// exactly one stage, so re-entering with a partially executed state resumes
// at the first unfinished step. Rules are ordered; the first match wins.
func nextStage(s *statex.AnalysisState) statex.Stage {
	if s.Classification.Kind == "" {
		return statex.StageClassify
	}
	if s.TradeResult != "" {
		return statex.StageDone
	}

	if s.Assessment.Resolved() {
		if !s.Assessment.IsPresent() {
			return statex.StageDone
		}
		if !s.AssessmentComplete() {
			return statex.StageDone
		}
		switch s.TradeDecision {
		case "":
			return statex.StageAwaitTradeDecision
		case contractx.TradeConfirmed:
			return statex.StageTradeGate
		default:
			return statex.StageDone
		}
	}

	if shouldSearchRepository(s) {
		return statex.StageSearchRepository
	}
	if s.RepositoryRef != "" && !s.Repository.Resolved() {
		return statex.StageResearchRepository
	}
	if s.ContractAddress != "" && !s.Contract.Resolved() {
		return statex.StageResearchContract
	}
	if s.ContractAddress != "" && s.Contract.Resolved() && !s.Market.Resolved() {
		return statex.StageResearchMarket
	}
	return statex.StageAggregate
}

// Search runs at most once, only when no repository reference is known and
// the input kind makes a web lookup sensible. For a contract-address input
// the contract research runs first so the search happens with the audit
// already settled.
func shouldSearchRepository(s *statex.AnalysisState) bool {
	if s.RepositoryRef != "" || s.SearchAttempted || s.Repository.Resolved() {
		return false
	}
	switch s.Classification.Kind {
	case contractx.InputProjectName:
		return true
	case contractx.InputContractAddress:
		return s.Contract.Resolved()
	default:
		return false
	}
}
