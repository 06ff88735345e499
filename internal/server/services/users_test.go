package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"wormdetector/internal/common"
	"wormdetector/internal/dbx"
	"wormdetector/internal/server/models"
	"wormdetector/internal/server/repositories/predictions"
	"wormdetector/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	u.ID = "u-1"
	return u, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakePredictionsRepo struct {
	created []*models.Prediction

	createErr error

	listOut []*models.Prediction
	listErr error
}

func (f *fakePredictionsRepo) Create(ctx context.Context, p *models.Prediction) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, p)
	return nil
}

func (f *fakePredictionsRepo) ListAll(ctx context.Context) ([]*models.Prediction, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

type fakeRepoManager struct {
	users       users.Repository
	predictions predictions.Repository
}

func (f *fakeRepoManager) Users(db dbx.DBTX) users.Repository {
	return f.users
}

func (f *fakeRepoManager) Predictions(db dbx.DBTX) predictions.Repository {
	return f.predictions
}

func (f *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

// --- tests ---

func TestRegister_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{users: &fakeUsersRepo{getErr: common.ErrorNotFound}}
	s := NewUserService(db, rm)

	user, err := s.Register(context.Background(), "alice", "alice@example.com", "secret123")

	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_MissingFields(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := NewUserService(db, &fakeRepoManager{users: &fakeUsersRepo{}})

	for _, args := range [][3]string{
		{"", "a@b.c", "pw"},
		{"alice", "", "pw"},
		{"alice", "a@b.c", ""},
	} {
		_, err := s.Register(context.Background(), args[0], args[1], args[2])
		assert.ErrorIs(t, err, common.ErrorValidation)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{users: &fakeUsersRepo{getOut: &models.User{Username: "alice"}}}
	s := NewUserService(db, rm)

	_, err := s.Register(context.Background(), "alice", "alice@example.com", "secret123")

	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	rm := &fakeRepoManager{users: &fakeUsersRepo{getOut: &models.User{
		Username:     "alice",
		PasswordHash: string(hash),
	}}}
	s := NewUserService(db, rm)

	assert.NoError(t, s.Login(context.Background(), "alice", "secret123"))
}

func TestLogin_WrongPassword(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	rm := &fakeRepoManager{users: &fakeUsersRepo{getOut: &models.User{
		Username:     "alice",
		PasswordHash: string(hash),
	}}}
	s := NewUserService(db, rm)

	assert.ErrorIs(t, s.Login(context.Background(), "alice", "wrong"), common.ErrorUnauthorized)
}

func TestLogin_UnknownUser(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{users: &fakeUsersRepo{getErr: common.ErrorNotFound}}
	s := NewUserService(db, rm)

	assert.ErrorIs(t, s.Login(context.Background(), "ghost", "pw"), common.ErrorUnauthorized)
}
