// Package theme persists the UI color scheme choice.
package theme

import (
	"context"
	"sync"

	"wormdetector/internal/web/state"
)

const (
	Light = "light"
	Dark  = "dark"

	stateKey = "theme"
)

// Manager resolves and toggles the current theme. Unknown or missing stored
// values fall back to Light.
type Manager struct {
	kv state.Repository
	mu sync.Mutex
}

func NewManager(kv state.Repository) *Manager {
	return &Manager{kv: kv}
}

// Current returns the active theme. Errors reading state degrade to the
// default rather than failing a page render.
func (m *Manager) Current(ctx context.Context) string {
	raw, err := m.kv.Get(ctx, stateKey)
	if err != nil {
		return Light
	}
	if string(raw) == Dark {
		return Dark
	}
	return Light
}

// Toggle flips the theme and persists the result, returning the new value.
func (m *Manager) Toggle(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := Dark
	if m.Current(ctx) == Dark {
		next = Light
	}

	if err := m.kv.Set(ctx, stateKey, []byte(next)); err != nil {
		return "", err
	}
	return next, nil
}
