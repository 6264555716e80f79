// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	logger.Info("starting ledgerhub",
		zap.Int("throttle_max_failures", appCfg.ThrottleMaxFailures),
		zap.Duration("throttle_cooldown", appCfg.ThrottleCooldown),
		zap.Duration("token_ttl", appCfg.TokenTTL))
	return nil
}
