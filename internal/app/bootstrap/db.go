// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	userstore "github.com/dalemusser/ledgerhub/internal/app/store/users"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnsureSchema sets up indexes or schema as needed.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := userstore.New(deps.MongoDatabase).EnsureIndexes(ctx); err != nil {
		logger.Error("ensure user indexes failed", zap.Error(err))
		return err
	}
	return nil
}
