package users

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wormdetector/internal/common"
	"wormdetector/internal/server/models"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestCreate_ReturnsID(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("alice", "hash", "alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u-1"))

	repo := NewPostgresRepository(db)
	user, err := repo.Create(context.Background(), &models.User{
		Username:     "alice",
		PasswordHash: "hash",
		Email:        "alice@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByUsername_Found(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "email"}).
		AddRow("u-1", "alice", "hash", "alice@example.com")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, password_hash, email FROM users`)).
		WithArgs("alice").
		WillReturnRows(rows)

	repo := NewPostgresRepository(db)
	user, err := repo.GetByUsername(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByUsername_NotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, password_hash, email FROM users`)).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	repo := NewPostgresRepository(db)
	_, err := repo.GetByUsername(context.Background(), "ghost")

	assert.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
