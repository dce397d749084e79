// Package session issues opaque bearer tokens for the mock email login.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/Zhima-Mochi/procurement-portal/internal/domain/identity"
	"github.com/Zhima-Mochi/procurement-portal/internal/observability"
	"github.com/Zhima-Mochi/procurement-portal/internal/observability/logctx"
	"github.com/google/uuid"
)

const componentSession = "session"

// Manager keeps live sessions in memory. Sessions do not survive a restart.
type Manager struct {
	mu       sync.RWMutex
	domain   string
	sessions map[string]identity.Identity
	log      observability.Logger
}

func NewManager(emailDomain string, logger observability.Logger) *Manager {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Manager{
		domain:   emailDomain,
		sessions: make(map[string]identity.Identity),
		log:      logger.With(observability.F("component", componentSession)),
	}
}

// Login accepts any non-empty password for an address in the configured domain.
func (m *Manager) Login(ctx context.Context, email, password string) (string, identity.Identity, error) {
	logger := logctx.FromOr(ctx, m.log)
	if strings.TrimSpace(password) == "" {
		logger.Warn("login_rejected", observability.F("reason", "PASSWORD_REQUIRED"))
		return "", identity.Identity{}, identity.ErrInvalidCredentials
	}
	id, err := identity.FromEmail(email, m.domain)
	if err != nil {
		logger.Warn("login_rejected", observability.F("reason", "EMAIL_DOMAIN"))
		return "", identity.Identity{}, err
	}

	token := uuid.NewString()
	m.mu.Lock()
	m.sessions[token] = id
	m.mu.Unlock()

	logger.Info("login_succeeded",
		observability.F("user_id", id.ID),
		observability.F("role", string(id.Role)),
	)
	return token, id, nil
}

// Resolve returns the identity bound to token.
func (m *Manager) Resolve(token string) (identity.Identity, error) {
	if token == "" {
		return identity.Identity{}, identity.ErrUnauthenticated
	}
	m.mu.RLock()
	id, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return identity.Identity{}, identity.ErrUnauthenticated
	}
	return id, nil
}

// Logout drops token. Unknown tokens are ignored.
func (m *Manager) Logout(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}
