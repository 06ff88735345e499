// Package auth tracks who is logged in on this client. The in-memory view
// updates first on every transition, then the durable copy, so the UI always
// reflects the latest decision even if the disk write fails.
package auth

import (
	"context"
	"fmt"
	"sync"

	"wormdetector/internal/common"
	"wormdetector/internal/web/session"
)

// Manager owns the current session. Safe for concurrent use.
type Manager struct {
	store *session.Store

	mu      sync.Mutex
	current *session.Session
	loaded  bool
}

func NewManager(store *session.Store) *Manager {
	return &Manager{store: store}
}

// CurrentUser returns the active session, or nil when logged out. The first
// call restores the session persisted by a previous run.
func (m *Manager) CurrentUser(ctx context.Context) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		sess, err := m.store.Load(ctx)
		if err != nil {
			return nil, err
		}
		m.current = sess
		m.loaded = true
	}

	return m.current, nil
}

// Login establishes a session for username. The memory state changes before
// the durable write; a write failure is reported but does not log the user
// back out.
func (m *Manager) Login(ctx context.Context, username string) error {
	if username == "" {
		return fmt.Errorf("%w: username must not be empty", common.ErrorValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sess := &session.Session{Username: username}
	m.current = sess
	m.loaded = true

	if err := m.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Logout drops the session. Logging out while logged out is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = nil
	m.loaded = true

	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
