package state

// Stage enumerates the orchestrator's positions. Transitions between stages
// are decided by a total routing function over the current AnalysisState, not
// by a static sequence.
type Stage string

const (
	StageClassify           Stage = "classify"
	StageSearchRepository   Stage = "search_repository"
	StageResearchRepository Stage = "research_repository"
	StageResearchContract   Stage = "research_contract"
	StageResearchMarket     Stage = "research_market"
	StageAggregate          Stage = "aggregate"
	StageAwaitTradeDecision Stage = "await_trade_decision"
	StageTradeGate          Stage = "trade_gate"
	StageDone               Stage = "done"
)

// Suspended reports whether the stage yields control back to the caller.
func (s Stage) Suspended() bool {
	return s == StageAwaitTradeDecision
}

func (s Stage) Terminal() bool {
	return s == StageDone
}
