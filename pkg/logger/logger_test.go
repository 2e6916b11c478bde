package logx

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// These mutate the global logger, so no t.Parallel.

func TestInitDefaultsToInfo(t *testing.T) {
	Init()
	if got := log.Logger.GetLevel(); got != zerolog.InfoLevel {
		t.Errorf("level = %s, want info", got)
	}
}

func TestInitDebugLowersLevel(t *testing.T) {
	Init(Config{Debug: true})
	if got := log.Logger.GetLevel(); got != zerolog.DebugLevel {
		t.Errorf("level = %s, want debug", got)
	}
	Init()
}
