package session

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"wormdetector/internal/web/state"
)

func setupKV(t *testing.T) state.Repository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE state (key TEXT PRIMARY KEY, value BLOB NOT NULL);`)
	require.NoError(t, err)
	return state.NewSQLiteRepository(db)
}

func TestLoad_NoSession_ReturnsNil(t *testing.T) {
	s := NewStore(setupKV(t))

	sess, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	s := NewStore(setupKV(t))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &Session{Username: "alice"}))

	sess, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "alice", sess.Username)
}

func TestLoad_SurvivesNewStoreOverSameDB(t *testing.T) {
	kv := setupKV(t)
	ctx := context.Background()

	require.NoError(t, NewStore(kv).Save(ctx, &Session{Username: "alice"}))

	// a fresh Store over the same storage still sees the session
	sess, err := NewStore(kv).Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "alice", sess.Username)
}

func TestLoad_MalformedValue_CountsAsNoSession(t *testing.T) {
	kv := setupKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "session", []byte("{not json")))

	sess, err := NewStore(kv).Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestLoad_EmptyUsername_CountsAsNoSession(t *testing.T) {
	kv := setupKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "session", []byte(`{"username":""}`)))

	sess, err := NewStore(kv).Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestClear_RemovesSession(t *testing.T) {
	s := NewStore(setupKV(t))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &Session{Username: "alice"}))
	require.NoError(t, s.Clear(ctx))

	sess, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)

	// clearing again is fine
	require.NoError(t, s.Clear(ctx))
}
