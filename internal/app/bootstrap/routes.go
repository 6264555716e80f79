// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authenticationfeature "github.com/dalemusser/ledgerhub/internal/app/features/authentication"
	bankingfeature "github.com/dalemusser/ledgerhub/internal/app/features/banking"
	healthfeature "github.com/dalemusser/ledgerhub/internal/app/features/health"
	usersfeature "github.com/dalemusser/ledgerhub/internal/app/features/users"
	ledgerstore "github.com/dalemusser/ledgerhub/internal/app/store/ledger"
	userstore "github.com/dalemusser/ledgerhub/internal/app/store/users"
	"github.com/dalemusser/ledgerhub/internal/app/system/auth"
	"github.com/dalemusser/ledgerhub/internal/app/system/throttle"
	"github.com/dalemusser/ledgerhub/internal/app/system/token"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. LedgerHub builds the stores,
// the login throttle, and the token manager here, then mounts feature
// routers for health, authentication, user management, and accounts.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	users := userstore.New(deps.MongoDatabase)
	ledger := ledgerstore.New(deps.MongoDatabase)

	tokens, err := token.NewManager(appCfg.TokenSecret, appCfg.TokenTTL, appCfg.TokenIssuer)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	tracker := throttle.New(appCfg.ThrottleMaxFailures, appCfg.ThrottleCooldown)
	authenticator := auth.New(users, tracker, tokens, logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	authHandler := authenticationfeature.NewHandler(authenticator, logger)
	r.Mount("/auth", authenticationfeature.Routes(authHandler))

	// User management
	usersHandler := usersfeature.NewHandler(users, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler))

	// Balances and transaction history
	bankingHandler := bankingfeature.NewHandler(ledger, logger)
	r.Mount("/accounts", bankingfeature.Routes(bankingHandler))

	return r, nil
}
