package orchestrator

import (
	"testing"
	"time"

	"github.com/pranshurastogi/CryptoSentinel/agent/classify"
	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
	statex "github.com/pranshurastogi/CryptoSentinel/agent/state"
)

func classifiedState(t *testing.T, query string) *statex.AnalysisState {
	t.Helper()
	st := statex.NewAnalysisState("s1", query, time.Now())
	if err := st.SetClassification(classify.Classify(query)); err != nil {
		t.Fatalf("SetClassification: %v", err)
	}
	return st
}

func TestNextStageStartsWithClassify(t *testing.T) {
	t.Parallel()

	st := statex.NewAnalysisState("s1", "analyze github.com/acme/widget", time.Now())
	if got := nextStage(st); got != statex.StageClassify {
		t.Errorf("nextStage = %s", got)
	}
}

func TestNextStageRepositoryInput(t *testing.T) {
	t.Parallel()

	st := classifiedState(t, "analyze github.com/acme/widget")
	if got := nextStage(st); got != statex.StageResearchRepository {
		t.Fatalf("nextStage = %s, want research_repository", got)
	}

	st.Repository.SetPresent(contractx.RepositoryEvidence{Ref: "github.com/acme/widget"})
	if got := nextStage(st); got != statex.StageAggregate {
		t.Errorf("nextStage = %s, want aggregate", got)
	}
}

func TestNextStageContractInputOrdersContractBeforeSearch(t *testing.T) {
	t.Parallel()

	st := classifiedState(t, "check 0x1111111111111111111111111111111111111111")
	if got := nextStage(st); got != statex.StageResearchContract {
		t.Fatalf("nextStage = %s, want research_contract", got)
	}

	st.Contract.SetPresent(contractx.ContractEvidence{Narrative: "ok"})
	if got := nextStage(st); got != statex.StageSearchRepository {
		t.Fatalf("nextStage = %s, want search_repository", got)
	}

	// Search found nothing: market runs next, not search again.
	st.SearchAttempted = true
	if got := nextStage(st); got != statex.StageResearchMarket {
		t.Fatalf("nextStage = %s, want research_market", got)
	}

	st.Market.SetFailed("not listed")
	if got := nextStage(st); got != statex.StageAggregate {
		t.Errorf("nextStage = %s, want aggregate", got)
	}
}

func TestNextStageProjectNameInput(t *testing.T) {
	t.Parallel()

	st := classifiedState(t, "widget protocol")
	if got := nextStage(st); got != statex.StageSearchRepository {
		t.Fatalf("nextStage = %s, want search_repository", got)
	}

	// Search resolved a repository reference.
	st.SearchAttempted = true
	st.RepositoryRef = "github.com/acme/widget"
	if got := nextStage(st); got != statex.StageResearchRepository {
		t.Fatalf("nextStage = %s, want research_repository", got)
	}

	st.Repository.SetFailed("rate limited")
	if got := nextStage(st); got != statex.StageAggregate {
		t.Errorf("nextStage = %s, want aggregate", got)
	}
}

func TestNextStageFailedEvidenceIsNeverRefetched(t *testing.T) {
	t.Parallel()

	st := classifiedState(t, "analyze github.com/acme/widget")
	st.Repository.SetFailed("boom")
	if got := nextStage(st); got != statex.StageAggregate {
		t.Errorf("nextStage = %s, failed evidence should not re-run research", got)
	}
}

func TestNextStageAfterAssessment(t *testing.T) {
	t.Parallel()

	complete := func() *statex.AnalysisState {
		st := classifiedState(t, "check 0x1111111111111111111111111111111111111111")
		st.RepositoryRef = "github.com/acme/widget"
		st.Repository.SetPresent(contractx.RepositoryEvidence{})
		st.Contract.SetPresent(contractx.ContractEvidence{})
		st.Market.SetPresent(contractx.MarketEvidence{})
		st.Assessment.SetPresent(contractx.Assessment{Recommendation: "Consider."})
		return st
	}

	st := complete()
	if got := nextStage(st); got != statex.StageAwaitTradeDecision {
		t.Errorf("no decision: nextStage = %s, want await_trade_decision", got)
	}

	st = complete()
	st.TradeDecision = contractx.TradeConfirmed
	if got := nextStage(st); got != statex.StageTradeGate {
		t.Errorf("confirmed: nextStage = %s, want trade_gate", got)
	}

	st = complete()
	st.TradeDecision = contractx.TradeDeclined
	if got := nextStage(st); got != statex.StageDone {
		t.Errorf("declined: nextStage = %s, want done", got)
	}

	st = complete()
	st.TradeDecision = contractx.TradeConfirmed
	st.TradeResult = "tx=0x1"
	if got := nextStage(st); got != statex.StageDone {
		t.Errorf("trade done: nextStage = %s, want done", got)
	}
}

func TestNextStagePartialEvidenceSkipsTradePrompt(t *testing.T) {
	t.Parallel()

	st := classifiedState(t, "analyze github.com/acme/widget")
	st.Repository.SetPresent(contractx.RepositoryEvidence{})
	st.Assessment.SetPresent(contractx.Assessment{Recommendation: "Watch."})
	if got := nextStage(st); got != statex.StageDone {
		t.Errorf("nextStage = %s, partial evidence must not prompt for a trade", got)
	}
}
