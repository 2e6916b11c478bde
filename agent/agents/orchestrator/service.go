// Package orchestrator drives one analysis to its next resting point. Every
// run re-derives the position from state, executes stages until the workflow
// suspends or finishes, and records collector failures in the state instead
// of aborting.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pranshurastogi/CryptoSentinel/agent/classify"
	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
	statex "github.com/pranshurastogi/CryptoSentinel/agent/state"
)

// Each stage advances the state, so the loop terminates well before this
// bound; hitting it means a routing bug, not a long analysis.
const maxRunSteps = 16

type Deps struct {
	Repository contractx.RepositoryAnalyzer
	Contract   contractx.ContractAnalyzer
	Market     contractx.MarketClient
	Search     contractx.Searcher
	Assessor   contractx.Assessor
	Trader     contractx.Trader
}

type Config struct {
	// Platform is the asset platform passed to market lookups.
	Platform string
}

type Orchestrator struct {
	deps     Deps
	platform string
	now      func() time.Time
}

func New(deps Deps, cfg Config) (*Orchestrator, error) {
	if deps.Repository == nil {
		return nil, errors.New("repository analyzer is required")
	}
	if deps.Contract == nil {
		return nil, errors.New("contract analyzer is required")
	}
	if deps.Market == nil {
		return nil, errors.New("market client is required")
	}
	if deps.Search == nil {
		return nil, errors.New("searcher is required")
	}
	if deps.Assessor == nil {
		return nil, errors.New("assessor is required")
	}
	if deps.Trader == nil {
		return nil, errors.New("trader is required")
	}

	platform := strings.TrimSpace(cfg.Platform)
	if platform == "" {
		platform = "base"
	}

	return &Orchestrator{
		deps:     deps,
		platform: platform,
		now:      time.Now,
	}, nil
}

// Run advances the analysis until it suspends for a trade decision or
// reaches the terminal stage. It is safe to call again on the same state;
// finished work is never redone.
func (o *Orchestrator) Run(ctx context.Context, st *statex.AnalysisState) error {
	if err := st.Validate(); err != nil {
		return err
	}

	for step := 0; step < maxRunSteps; step++ {
		stage := nextStage(st)
		st.Stage = stage
		st.Touch(o.now())

		log.Debug().
			Str("session", st.SessionID).
			Str("stage", string(stage)).
			Msg("orchestrator stage")

		if stage.Suspended() || stage.Terminal() {
			return nil
		}

		if err := o.runStage(ctx, st, stage); err != nil {
			return err
		}
	}

	return fmt.Errorf("analysis did not settle within %d steps (stage=%s)", maxRunSteps, st.Stage)
}

func (o *Orchestrator) runStage(ctx context.Context, st *statex.AnalysisState, stage statex.Stage) error {
	switch stage {
	case statex.StageClassify:
		return o.classifyInput(st)
	case statex.StageSearchRepository:
		o.searchRepository(ctx, st)
		return nil
	case statex.StageResearchRepository:
		o.researchRepository(ctx, st)
		return nil
	case statex.StageResearchContract:
		o.researchContract(ctx, st)
		return nil
	case statex.StageResearchMarket:
		o.researchMarket(ctx, st)
		return nil
	case statex.StageAggregate:
		return o.aggregate(ctx, st)
	case statex.StageTradeGate:
		o.executeTrade(ctx, st)
		return nil
	default:
		return fmt.Errorf("unroutable stage=%s", stage)
	}
}

func (o *Orchestrator) classifyInput(st *statex.AnalysisState) error {
	c := classify.Classify(st.Query)
	if err := st.SetClassification(c); err != nil {
		return err
	}
	log.Info().
		Str("session", st.SessionID).
		Str("kind", string(c.Kind)).
		Str("confidence", string(c.Confidence)).
		Msg("query classified")
	return nil
}

// searchRepository tries to locate a repository for the project. Both a
// failed call and an empty result set leave repository evidence untouched;
// only the attempt flag is recorded so routing moves on.
func (o *Orchestrator) searchRepository(ctx context.Context, st *statex.AnalysisState) {
	st.SearchAttempted = true

	seed := st.ProjectName
	if seed == "" {
		seed = st.Query
	}
	query := fmt.Sprintf("%s github repository", seed)

	results, err := o.deps.Search.Search(ctx, query)
	if err != nil {
		log.Warn().Err(err).Str("session", st.SessionID).Msg("repository search failed")
		return
	}

	for _, r := range results {
		if c := classify.Classify(r.URL); c.Kind == contractx.InputRepository {
			st.RepositoryRef = c.Value
			log.Info().Str("session", st.SessionID).Str("ref", c.Value).Msg("repository located via search")
			return
		}
	}
	log.Info().Str("session", st.SessionID).Int("results", len(results)).Msg("search found no repository")
}

func (o *Orchestrator) researchRepository(ctx context.Context, st *statex.AnalysisState) {
	ev, err := o.deps.Repository.Analyze(ctx, st.RepositoryRef)
	if err != nil {
		log.Warn().Err(err).Str("session", st.SessionID).Str("ref", st.RepositoryRef).Msg("repository research failed")
		st.Repository.SetFailed(err.Error())
		return
	}
	st.Repository.SetPresent(ev)
}

func (o *Orchestrator) researchContract(ctx context.Context, st *statex.AnalysisState) {
	ev, err := o.deps.Contract.Analyze(ctx, st.ContractAddress)
	if err != nil {
		log.Warn().Err(err).Str("session", st.SessionID).Str("address", st.ContractAddress).Msg("contract research failed")
		st.Contract.SetFailed(err.Error())
		return
	}
	st.Contract.SetPresent(ev)
}

func (o *Orchestrator) researchMarket(ctx context.Context, st *statex.AnalysisState) {
	ev, err := o.deps.Market.TokenDetails(ctx, st.ContractAddress, o.platform)
	if err != nil {
		log.Warn().Err(err).Str("session", st.SessionID).Str("address", st.ContractAddress).Msg("market research failed")
		st.Market.SetFailed(err.Error())
		return
	}
	st.Market.SetPresent(ev)
}

func (o *Orchestrator) aggregate(ctx context.Context, st *statex.AnalysisState) error {
	input := contractx.AssessmentInput{}
	if st.Repository.IsPresent() {
		repo := st.Repository.Value
		input.Repository = &repo
	}
	if st.Contract.IsPresent() {
		input.ContractNarrative = st.Contract.Value.Narrative
	}
	if st.Market.IsPresent() {
		market := st.Market.Value
		input.Market = &market
	}

	assessment, err := o.deps.Assessor.Assess(ctx, input)
	if err != nil {
		return err
	}
	st.Assessment.SetPresent(assessment)
	return nil
}

// executeTrade writes exactly one trade result. Failures are folded into the
// result text so the session still closes.
func (o *Orchestrator) executeTrade(ctx context.Context, st *statex.AnalysisState) {
	if st.TradeResult != "" {
		return
	}

	result, err := o.deps.Trader.ExecuteTrade(ctx, st.ContractAddress)
	if err != nil {
		log.Error().Err(err).Str("session", st.SessionID).Msg("trade execution failed")
		st.TradeResult = contractx.TradeErrorPrefix + err.Error()
		return
	}
	st.TradeResult = result
}
