// internal/app/system/auth/authenticator.go
package auth

import (
	"context"
	"errors"
	"sync"

	userstore "github.com/dalemusser/ledgerhub/internal/app/store/users"
	"github.com/dalemusser/ledgerhub/internal/app/system/credentials"
	"github.com/dalemusser/ledgerhub/internal/app/system/normalize"
	"github.com/dalemusser/ledgerhub/internal/app/system/throttle"
	"github.com/dalemusser/ledgerhub/internal/app/system/token"
	"github.com/dalemusser/ledgerhub/internal/domain/models"
	"go.uber.org/zap"
)

var (
	// ErrInvalidCredentials is returned for unknown emails and wrong
	// passwords alike; callers must not distinguish the two.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrRateLimited is returned while the identity is inside its
	// failed-login cooldown.
	ErrRateLimited = errors.New("too many failed login attempts")
)

// UserSource is the read surface the authenticator needs from the user
// store.
type UserSource interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Session is the result of a successful login.
type Session struct {
	Token string
	User  *models.User
}

// Authenticator runs the login flow: throttle check, timing-uniform
// credential verification, then token issue. It also tracks which
// identities currently hold a session so logout can be idempotent.
type Authenticator struct {
	users    UserSource
	throttle *throttle.Tracker
	tokens   *token.Manager
	logger   *zap.Logger

	mu     sync.Mutex
	active map[string]struct{}
}

func New(users UserSource, tracker *throttle.Tracker, tokens *token.Manager, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		users:    users,
		throttle: tracker,
		tokens:   tokens,
		logger:   logger,
		active:   make(map[string]struct{}),
	}
}

// Authenticate verifies the email/password pair and returns a session
// holding the signed token and the authenticated user.
//
// The order of checks is fixed: a throttled identity is rejected before
// any credential work, so cooldown rejections cost nothing and extend
// nothing. Past the throttle, the request runs exactly one bcrypt
// comparison whether or not the email exists; unknown emails are
// verified against a decoy hash so response timing does not reveal
// which emails have accounts.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	identity := normalize.Email(email)

	if a.throttle.Blocked(identity) {
		a.logger.Warn("login rejected: identity in cooldown",
			zap.String("email", identity))
		return nil, ErrRateLimited
	}

	user, err := a.users.GetByEmail(ctx, identity)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		credentials.Verify(password, credentials.DecoyHash())
		a.recordFailure(identity)
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, err
	}

	if !credentials.Verify(password, user.PasswordHash) {
		a.recordFailure(identity)
		return nil, ErrInvalidCredentials
	}

	a.throttle.RecordSuccess(identity)

	tok, err := a.tokens.Issue(user.Email, user.ID.Hex())
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.active[identity] = struct{}{}
	a.mu.Unlock()

	a.logger.Info("login succeeded", zap.String("email", identity))
	return &Session{Token: tok, User: user}, nil
}

// Logout drops the session marker for the identity. It returns whether
// a session was actually active; a second logout is a no-op.
func (a *Authenticator) Logout(email string) bool {
	identity := normalize.Email(email)

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.active[identity]; !ok {
		return false
	}
	delete(a.active, identity)
	return true
}

// ParseToken validates a session token string and returns its claims.
func (a *Authenticator) ParseToken(tok string) (*token.Claims, error) {
	return a.tokens.Parse(tok)
}

func (a *Authenticator) recordFailure(identity string) {
	count := a.throttle.RecordFailure(identity)
	a.logger.Warn("login failed",
		zap.String("email", identity),
		zap.Int("consecutive_failures", count))
}
