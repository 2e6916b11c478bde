// Package logx configures the process-wide zerolog logger. Production
// output is line-delimited JSON on stdout; the pretty console format is for
// local runs.
package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Debug        bool   `split_words:"true" default:"false"`
	PrettyFormat bool   `split_words:"true" default:"false"`
	Service      string `split_words:"true" default:"cryptosentinel"`
}

var DefaultConfig = &Config{
	Service: "cryptosentinel",
}

func safe(opts ...Config) *Config {
	if len(opts) == 0 {
		return DefaultConfig
	}
	return &opts[0]
}

// Init replaces the global logger. Every line carries the service name.
// Caller and stack reporting are enabled only in debug mode so production
// lines stay compact.
func Init(opts ...Config) {
	conf := safe(opts...)

	var writer io.Writer = os.Stdout
	if conf.PrettyFormat {
		writer = zerolog.NewConsoleWriter()
	}

	ctx := zerolog.New(writer).With().Timestamp()
	if conf.Service != "" {
		ctx = ctx.Str("service", conf.Service)
	}

	logger := ctx.Logger().Level(zerolog.InfoLevel)
	if conf.Debug {
		logger = logger.Level(zerolog.DebugLevel).With().Caller().Stack().Logger()
	}
	log.Logger = logger
}
