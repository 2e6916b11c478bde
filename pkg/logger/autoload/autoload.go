// Package autoload initializes the global logger from the environment as a
// side effect of being imported.
package autoload

import (
	configx "github.com/pranshurastogi/CryptoSentinel/pkg/config"
	logx "github.com/pranshurastogi/CryptoSentinel/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
