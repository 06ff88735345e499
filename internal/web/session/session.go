// Package session stores the logged-in user durably, so the UI stays
// authenticated across restarts until an explicit logout.
package session

import (
	"context"
	"encoding/json"

	"wormdetector/internal/web/state"
)

const stateKey = "session"

// Session identifies the logged-in user. There is no token: the backend keeps
// no session state, so the username is the whole record.
type Session struct {
	Username string `json:"username"`
}

// Store persists the session in the state repository.
type Store struct {
	kv state.Repository
}

func NewStore(kv state.Repository) *Store {
	return &Store{kv: kv}
}

// Load returns the stored session, or nil when no session exists. A value
// that cannot be decoded counts as no session.
func (s *Store) Load(ctx context.Context) (*Session, error) {
	raw, err := s.kv.Get(ctx, stateKey)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, nil
	}
	if sess.Username == "" {
		return nil, nil
	}
	return &sess, nil
}

// Save writes the session durably, replacing any previous one.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, stateKey, raw)
}

// Clear removes the stored session. Clearing an absent session is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, stateKey)
}
