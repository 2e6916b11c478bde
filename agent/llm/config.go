package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
	openrouterx "github.com/pranshurastogi/CryptoSentinel/pkg/openrouter"
)

// Role selects which model slot a component runs on. Each role can override
// the default model and temperature independently.
type Role string

const (
	RoleRater    Role = "rater"
	RoleAuditor  Role = "auditor"
	RoleAssessor Role = "assessor"
	RoleFollowup Role = "followup"
	RoleTrader   Role = "trader"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.3"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"60s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	RaterModel          string  `envconfig:"RATER_MODEL" split_words:"true"`
	AuditorModel        string  `envconfig:"AUDITOR_MODEL" split_words:"true"`
	AssessorModel       string  `envconfig:"ASSESSOR_MODEL" split_words:"true"`
	FollowupModel       string  `envconfig:"FOLLOWUP_MODEL" split_words:"true"`
	TraderModel         string  `envconfig:"TRADER_MODEL" split_words:"true"`
	RaterTemperature    float32 `envconfig:"RATER_TEMPERATURE" split_words:"true" default:"-1"`
	AuditorTemperature  float32 `envconfig:"AUDITOR_TEMPERATURE" split_words:"true" default:"-1"`
	AssessorTemperature float32 `envconfig:"ASSESSOR_TEMPERATURE" split_words:"true" default:"-1"`
	FollowupTemperature float32 `envconfig:"FOLLOWUP_TEMPERATURE" split_words:"true" default:"-1"`
	TraderTemperature   float32 `envconfig:"TRADER_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

func (c Config) OpenRouterFor(role Role) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	override := func(model string, temperature float32) {
		if v := strings.TrimSpace(model); v != "" {
			modelName = v
		}
		if temperature >= 0 {
			temp = temperature
		}
	}

	switch role {
	case RoleRater:
		override(c.RaterModel, c.RaterTemperature)
	case RoleAuditor:
		override(c.AuditorModel, c.AuditorTemperature)
	case RoleAssessor:
		override(c.AssessorModel, c.AssessorTemperature)
	case RoleFollowup:
		override(c.FollowupModel, c.FollowupTemperature)
	case RoleTrader:
		override(c.TraderModel, c.TraderTemperature)
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
