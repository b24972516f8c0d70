// Package services contains the server-side business logic. This file
// implements UserService: registration, credential verification, and session
// token issuance.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/skorolevs/clipvault/internal/common"
	"github.com/skorolevs/clipvault/internal/logging"
	"github.com/skorolevs/clipvault/internal/server/auth"
	"github.com/skorolevs/clipvault/internal/server/config"
	"github.com/skorolevs/clipvault/internal/server/models"
	"github.com/skorolevs/clipvault/internal/server/repositories/repomanager"
)

// UserService provides authentication-related operations:
// - Register: create users with a bcrypt password hash
// - Verify: check an email/password pair against the stored hash
// - Login: verify credentials and mint a session token
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	logger                logging.Logger
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, l logging.Logger) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		logger:                l.With("module", "user_service"),
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates a new account. The plaintext password is hashed with
// bcrypt and discarded; a duplicate email yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email", common.ErrMissingField)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password", common.ErrMissingField)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{Email: email, PasswordHash: string(hash)}
	repo := s.repomanager.Users(s.db)

	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Verify checks the submitted email/password pair against the stored hash.
// Absent credentials are a caller error (common.ErrMissingField), reported
// before any lookup. An unknown email yields common.ErrNoSuchUser and a hash
// mismatch common.ErrInvalidCredentials; the HTTP boundary collapses both
// into one generic failure so user existence cannot be probed.
func (s *UserService) Verify(ctx context.Context, email, password string) (*models.Identity, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email", common.ErrMissingField)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password", common.ErrMissingField)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrNoSuchUser
		}
		return nil, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	return &models.Identity{UserID: user.ID, Email: user.Email}, nil
}

// Login verifies credentials and, on success, returns a signed session token
// carrying the user id as subject. Verification failures are logged with
// their internal reason.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	identity, err := s.Verify(ctx, email, password)
	if err != nil {
		if errors.Is(err, common.ErrNoSuchUser) || errors.Is(err, common.ErrInvalidCredentials) {
			s.logger.Warn(ctx, "authentication failed", "reason", err.Error())
		}
		return "", err
	}

	token, err := auth.Issue(identity, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}
