package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"wormdetector/internal/common"
	"wormdetector/internal/dbx"
	"wormdetector/internal/server/models"
	"wormdetector/internal/server/repositories/repomanager"
)

// UserService implements signup and login against the users table.
// Passwords are stored as bcrypt hashes only.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewUserService(db *sql.DB, repomanager repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, repomanager: repomanager}
}

// Register creates a new account. Returns common.ErrorValidation when a
// required field is missing and common.ErrorAlreadyExists for a duplicate
// username. The existence check and the insert run in one transaction.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {

	if username == "" || email == "" || password == "" {
		return nil, common.ErrorValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("password hash error: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetByUsername(ctx, username)
		if err == nil {
			return common.ErrorAlreadyExists
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		user, err = repo.Create(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies the username/password pair. Both an unknown username and a
// wrong password map to common.ErrorUnauthorized so the response does not
// leak which part was wrong.
func (s *UserService) Login(ctx context.Context, username, password string) error {

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return common.ErrorUnauthorized
	}

	return nil
}
