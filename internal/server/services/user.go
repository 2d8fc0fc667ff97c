// Package services contains server-side business logic. This file implements
// UserService: registration, login and the user directory operations exposed
// to clients and administrators.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/dmitrijs2005/usersvc/internal/logging"
	"github.com/dmitrijs2005/usersvc/internal/server/auth"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
	"github.com/dmitrijs2005/usersvc/internal/server/repositories/users"
	"github.com/google/uuid"
)

// EventRecorder receives the outcome of authentication events. The metrics
// collector implements it.
type EventRecorder interface {
	RecordAuthEvent(event, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordAuthEvent(string, string) {}

// UserServiceOption customises a UserService.
type UserServiceOption func(*UserService)

// WithEventRecorder plugs in a recorder for register/login outcomes.
func WithEventRecorder(r EventRecorder) UserServiceOption {
	return func(s *UserService) {
		s.events = r
	}
}

// UserService provides the account operations:
//   - Register: create an account and sign the caller in
//   - Login: check credentials and issue a token
//   - ListUsers, GetUser: read the directory
//   - AddUser, UpdateStatus: admin-only directory changes
type UserService struct {
	repo   users.Repository
	hasher *auth.PasswordHasher
	tokens *auth.TokenCodec
	logger logging.Logger
	events EventRecorder
}

// NewUserService wires the service to its directory and credential primitives.
func NewUserService(repo users.Repository, hasher *auth.PasswordHasher, tokens *auth.TokenCodec,
	logger logging.Logger, opts ...UserServiceOption) *UserService {
	s := &UserService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		logger: logger.With("module", "services.user"),
		events: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an active, non-admin account and returns it with a fresh
// token. A taken username or email yields common.ErrUserAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	user, err := s.createUser(ctx, username, email, password)
	if err != nil {
		s.events.RecordAuthEvent("register", outcomeOf(err))
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.events.RecordAuthEvent("register", "error")
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	s.events.RecordAuthEvent("register", "success")
	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, token, nil
}

// Login returns a token for the account owning email. Unknown emails and
// wrong passwords both yield common.ErrInvalidCredentials. Active and admin
// flags are checked by the gate on each request, not here.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		s.events.RecordAuthEvent("login", "invalid")
		return "", common.ErrInvalidPayload
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.VerifyMissing(password)
			s.events.RecordAuthEvent("login", "rejected")
			return "", common.ErrInvalidCredentials
		}
		s.events.RecordAuthEvent("login", "error")
		return "", fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.events.RecordAuthEvent("login", "rejected")
		return "", common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.events.RecordAuthEvent("login", "error")
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.events.RecordAuthEvent("login", "success")
	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return token, nil
}

// ListUsers returns every account in registration order.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return list, nil
}

// GetUser returns the account with the given id. Ids that are not UUIDs
// cannot exist and yield common.ErrorNotFound without touching storage.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// AddUser creates an account on behalf of an administrator. It follows the
// same validation as Register but issues no token.
func (s *UserService) AddUser(ctx context.Context, username, email, password string) (*models.User, error) {
	user, err := s.createUser(ctx, username, email, password)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "user added", "user_id", user.ID)
	return user, nil
}

// UpdateStatus changes the active and admin flags of an account.
func (s *UserService) UpdateStatus(ctx context.Context, id string, upd models.StatusUpdate) (*models.User, error) {
	if upd.Empty() {
		return nil, common.ErrInvalidPayload
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	user, err := s.repo.UpdateStatus(ctx, id, upd)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("update user status: %w", err)
	}

	s.logger.Info(ctx, "user status updated", "user_id", user.ID, "active", user.Active, "admin", user.Admin)
	return user, nil
}

// PromoteAdmin grants admin rights to the account owning email. It backs the
// bootstrap admin setting and is a no-op for accounts that are already admins.
func (s *UserService) PromoteAdmin(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user.Admin {
		return user, nil
	}

	yes := true
	return s.UpdateStatus(ctx, user.ID, models.StatusUpdate{Admin: &yes})
}

func (s *UserService) createUser(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, common.ErrInvalidPayload
	}

	if err := s.ensureAvailable(ctx, username, email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidPayload) {
			return nil, err
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Active:       true,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// ensureAvailable is the friendly pre-check; the storage unique constraints
// settle races between concurrent registrations.
func (s *UserService) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return common.ErrUserAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("lookup user: %w", err)
	}

	if _, err := s.repo.GetUserByUsername(ctx, username); err == nil {
		return common.ErrUserAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("lookup user: %w", err)
	}

	return nil
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, common.ErrInvalidPayload):
		return "invalid"
	case errors.Is(err, common.ErrUserAlreadyExists):
		return "duplicate"
	default:
		return "error"
	}
}
