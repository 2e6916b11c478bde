package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/rs/zerolog/log"

	orchestratorx "github.com/pranshurastogi/CryptoSentinel/agent/agents/orchestrator"
	llmx "github.com/pranshurastogi/CryptoSentinel/agent/llm"
	promptx "github.com/pranshurastogi/CryptoSentinel/agent/prompt"
	"github.com/pranshurastogi/CryptoSentinel/agent/research"
	sessionx "github.com/pranshurastogi/CryptoSentinel/agent/session"
	statex "github.com/pranshurastogi/CryptoSentinel/agent/state"
	toolx "github.com/pranshurastogi/CryptoSentinel/agent/tool"
	configx "github.com/pranshurastogi/CryptoSentinel/pkg/config"
	"github.com/pranshurastogi/CryptoSentinel/pkg/httpapi"
	_ "github.com/pranshurastogi/CryptoSentinel/pkg/logger/autoload"
	openrouterx "github.com/pranshurastogi/CryptoSentinel/pkg/openrouter"
)

type AppConfig struct {
	// AssetPlatform is the chain identity used for market lookups.
	AssetPlatform string `envconfig:"ASSET_PLATFORM" split_words:"true" default:"base"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("")

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid llm configuration")
	}
	prompts := promptx.LoadPromptSet()

	rater := mustRater(ctx, *llmCfg, prompts)
	auditor := mustAuditor(ctx, *llmCfg, prompts)
	assessor := mustAssessor(ctx, *llmCfg, prompts)
	trader := mustTrader(ctx, *llmCfg, prompts)
	answerer := mustAnswerer(*llmCfg, prompts)

	github := research.NewGitHubClient(*configx.MustNew[research.GitHubConfig]("GITHUB"))
	basescan := research.NewBasescanClient(*configx.MustNew[research.ExplorerConfig]("BASESCAN"))
	sourcify := research.NewSourcifyClient(*configx.MustNew[research.SourcifyConfig]("SOURCIFY"))
	coingecko := research.NewCoinGeckoClient(*configx.MustNew[research.CoinGeckoConfig]("COINGECKO"))
	tavily := research.NewTavilyClient(*configx.MustNew[research.TavilyConfig]("TAVILY"))

	fetcher, err := research.NewFallbackSourceFetcher(basescan, sourcify)
	if err != nil {
		log.Fatal().Err(err).Msg("build source fetcher")
	}
	repoAnalyzer, err := research.NewRepositoryAnalyzer(github, rater)
	if err != nil {
		log.Fatal().Err(err).Msg("build repository analyzer")
	}
	contractAnalyzer, err := research.NewContractAnalyzer(fetcher, auditor)
	if err != nil {
		log.Fatal().Err(err).Msg("build contract analyzer")
	}

	orch, err := orchestratorx.New(orchestratorx.Deps{
		Repository: repoAnalyzer,
		Contract:   contractAnalyzer,
		Market:     coingecko,
		Search:     tavily,
		Assessor:   assessor,
		Trader:     trader,
	}, orchestratorx.Config{Platform: appCfg.AssetPlatform})
	if err != nil {
		log.Fatal().Err(err).Msg("build orchestrator")
	}

	facade, err := sessionx.New(orch, answerer, buildArchive(ctx))
	if err != nil {
		log.Fatal().Err(err).Msg("build session facade")
	}

	apiCfg := configx.MustNew[httpapi.Config]("API")
	server, err := httpapi.NewServer(*apiCfg, facade)
	if err != nil {
		log.Fatal().Err(err).Msg("build api server")
	}
	if err := server.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("start api server")
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown api server")
	}
	log.Info().Msg("shut down")
}

func mustRater(ctx context.Context, cfg llmx.Config, prompts promptx.PromptSet) *llmx.Rater {
	model := mustChatModel(ctx, cfg, llmx.RoleRater)
	rater, err := llmx.NewRater(ctx, model, prompts.RateRepository)
	if err != nil {
		log.Fatal().Err(err).Msg("build rater")
	}
	return rater
}

func mustAuditor(ctx context.Context, cfg llmx.Config, prompts promptx.PromptSet) *llmx.Auditor {
	model := mustChatModel(ctx, cfg, llmx.RoleAuditor)
	auditor, err := llmx.NewAuditor(ctx, model, prompts.AuditChunk, prompts.AuditSynthesis)
	if err != nil {
		log.Fatal().Err(err).Msg("build auditor")
	}
	return auditor
}

func mustAssessor(ctx context.Context, cfg llmx.Config, prompts promptx.PromptSet) *llmx.Assessor {
	model := mustChatModel(ctx, cfg, llmx.RoleAssessor)
	assessor, err := llmx.NewAssessor(ctx, model, prompts.Assess)
	if err != nil {
		log.Fatal().Err(err).Msg("build assessor")
	}
	return assessor
}

func mustTrader(ctx context.Context, cfg llmx.Config, prompts promptx.PromptSet) *llmx.Trader {
	model := mustChatModel(ctx, cfg, llmx.RoleTrader)
	trader, err := llmx.NewTrader(model, toolx.UnconfiguredWallet{}, prompts.Trader)
	if err != nil {
		log.Fatal().Err(err).Msg("build trader")
	}
	return trader
}

func mustAnswerer(cfg llmx.Config, prompts promptx.PromptSet) *llmx.FollowupAnswerer {
	orCfg := cfg.OpenRouterFor(llmx.RoleFollowup)
	client := openrouterx.NewClient(orCfg)
	if client == nil {
		log.Fatal().Msg("build followup client")
	}
	answerer, err := llmx.NewFollowupAnswerer(client, orCfg.Model, prompts.Followup)
	if err != nil {
		log.Fatal().Err(err).Msg("build followup answerer")
	}
	return answerer
}

func mustChatModel(ctx context.Context, cfg llmx.Config, role llmx.Role) einomodel.ToolCallingChatModel {
	orCfg := cfg.OpenRouterFor(role)
	model, err := orCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("role", string(role)).Msg("build chat model")
	}
	return model
}

// buildArchive wires the Postgres archive when a DSN is configured and falls
// back to a no-op recorder otherwise.
func buildArchive(ctx context.Context) statex.Archive {
	cfg, err := configx.New[statex.ArchiveConfig]("ARCHIVE")
	if err != nil {
		log.Info().Msg("archive not configured, assessments will not be persisted")
		return statex.NoopArchive{}
	}

	archive, err := statex.NewPostgresArchive(*cfg)
	if err != nil {
		log.Warn().Err(err).Msg("archive unavailable, continuing without persistence")
		return statex.NoopArchive{}
	}
	if err := archive.Init(ctx); err != nil {
		log.Warn().Err(err).Msg("archive init failed, continuing without persistence")
		return statex.NoopArchive{}
	}
	return archive
}
