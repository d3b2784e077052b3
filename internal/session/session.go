package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/httpapi"
	"storefront/internal/kvstore"
)

// State is the credential lifecycle of the client.
type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "ANONYMOUS"
	case Authenticating:
		return "AUTHENTICATING"
	case Authenticated:
		return "AUTHENTICATED"
	default:
		return "UNKNOWN"
	}
}

// Redirect tells the routing collaborator where to send the user and where
// to return after login.
type Redirect struct {
	To   string
	From string
}

// AuthEntryPoint is the route unauthenticated users are redirected to.
const AuthEntryPoint = "/auth"

// Store holds the authenticated identity derived from the persisted
// credential token. Identity and token are kept consistent: no identity is
// ever exposed without a token behind it.
type Store struct {
	api    *httpapi.Client
	kv     kvstore.Store
	logger *zap.Logger

	mu         sync.Mutex
	state      State
	user       domain.User
	remembered bool
}

// New creates a session store wired to the API client: rotated tokens are
// persisted, rejected credentials invalidate the session.
func New(api *httpapi.Client, kv kvstore.Store, logger *zap.Logger) *Store {
	s := &Store{
		api:    api,
		kv:     kv,
		logger: logger,
	}

	api.OnTokenRotated(s.persistRotatedToken)
	api.OnUnauthorized(s.invalidate)
	return s
}

// State returns the current credential lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the authenticated identity, if any. The token-presence
// check keeps an identity without a credential from counting as
// authenticated.
func (s *Store) Current() (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Authenticated || s.api.Token() == "" {
		return domain.User{}, false
	}
	return s.user, true
}

// Login submits credentials and, on success, installs the token and caches
// the identity. The token is only persisted across restarts when remember
// is set.
func (s *Store) Login(ctx context.Context, email, password string, remember bool) (domain.User, error) {
	s.setState(Authenticating)

	resp, err := s.api.Login(ctx, httpapi.LoginRequest{Email: email, Password: password})
	if err != nil {
		s.setState(Anonymous)
		return domain.User{}, fmt.Errorf("login failed: %w", err)
	}

	s.api.SetToken(resp.Token)

	s.mu.Lock()
	s.state = Authenticated
	s.user = resp.User()
	s.remembered = remember
	s.mu.Unlock()

	if remember {
		if err := s.persist(ctx, resp.Token, resp.User()); err != nil {
			s.logger.Warn("Failed to persist session", zap.Error(err))
		}
	}

	s.logger.Info("Logged in", zap.String("email", resp.Email))
	return resp.User(), nil
}

// Restore attempts a passive verify-on-start from the persisted token. A
// failure clears all persisted credential state and stays anonymous
// without surfacing an error to the user.
func (s *Store) Restore(ctx context.Context) bool {
	token, err := s.kv.Get(ctx, kvstore.KeyToken)
	if err != nil {
		if err != kvstore.ErrNotFound {
			s.logger.Warn("Failed to read persisted token", zap.Error(err))
		}
		return false
	}

	s.setState(Authenticating)
	s.api.SetToken(token)

	resp, err := s.api.Verify(ctx)
	if err != nil {
		s.logger.Debug("Session restore failed", zap.Error(err))
		s.clearPersisted(ctx)
		s.api.ClearToken()
		s.setState(Anonymous)
		return false
	}

	s.mu.Lock()
	s.state = Authenticated
	s.user = resp.User()
	s.remembered = true
	s.mu.Unlock()

	// Verify rotates the token; persist whatever the client holds now.
	if err := s.persist(ctx, s.api.Token(), resp.User()); err != nil {
		s.logger.Warn("Failed to persist refreshed session", zap.Error(err))
	}

	s.logger.Info("Session restored", zap.String("email", resp.Email))
	return true
}

// Logout clears the persisted token and identity, detaches the credential
// from outgoing requests and returns to Anonymous.
func (s *Store) Logout(ctx context.Context) {
	s.clearPersisted(ctx)
	s.api.ClearToken()

	s.mu.Lock()
	s.state = Anonymous
	s.user = domain.User{}
	s.remembered = false
	s.mu.Unlock()

	s.logger.Info("Logged out")
}

// RequireAuth is the protected-route check: it allows the navigation when
// an identity or token is present, otherwise it redirects to the
// authentication entry point preserving the original destination.
func (s *Store) RequireAuth(dest string) (bool, Redirect) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Authenticated && s.api.Token() != "" {
		return true, Redirect{}
	}
	return false, Redirect{To: AuthEntryPoint, From: dest}
}

// TokenExpiryHint decodes the held token's expiry claim for display
// purposes. The client holds no signing secret, so the claim is read
// unverified and must never gate anything security-relevant.
func (s *Store) TokenExpiryHint() (time.Time, bool) {
	token := s.api.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func (s *Store) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *Store) persist(ctx context.Context, token string, user domain.User) error {
	if err := s.kv.Set(ctx, kvstore.KeyToken, token); err != nil {
		return err
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode identity: %w", err)
	}
	return s.kv.Set(ctx, kvstore.KeyUser, string(raw))
}

func (s *Store) clearPersisted(ctx context.Context) {
	if err := s.kv.Delete(ctx, kvstore.KeyToken); err != nil {
		s.logger.Warn("Failed to clear persisted token", zap.Error(err))
	}
	if err := s.kv.Delete(ctx, kvstore.KeyUser); err != nil {
		s.logger.Warn("Failed to clear persisted identity", zap.Error(err))
	}
}

// persistRotatedToken keeps the stored credential in step with server-side
// rotation, but only for sessions the user chose to remember.
func (s *Store) persistRotatedToken(token string) {
	s.mu.Lock()
	remembered := s.remembered
	s.mu.Unlock()

	if !remembered {
		return
	}
	if err := s.kv.Set(context.Background(), kvstore.KeyToken, token); err != nil {
		s.logger.Warn("Failed to persist rotated token", zap.Error(err))
	}
}

// invalidate handles credential rejection: fatal to the current session,
// never retried.
func (s *Store) invalidate() {
	s.clearPersisted(context.Background())

	s.mu.Lock()
	s.state = Anonymous
	s.user = domain.User{}
	s.remembered = false
	s.mu.Unlock()

	s.logger.Info("Session invalidated by server")
}
