package services

import (
	"context"
	"fmt"
	"time"

	"github.com/daftarhq/daftar/internal/apperrors"
	"github.com/daftarhq/daftar/internal/core/domain"
	portsrepo "github.com/daftarhq/daftar/internal/core/ports/repositories"
	portssvc "github.com/daftarhq/daftar/internal/core/ports/services"
	"github.com/daftarhq/daftar/internal/dto"
	"github.com/daftarhq/daftar/internal/middleware"
	"github.com/daftarhq/daftar/internal/utils"
	"github.com/google/uuid"
)

// userService manages local operator accounts.
type userService struct {
	store portsrepo.DocumentStore
}

// NewUserService creates a new user service.
func NewUserService(store portsrepo.DocumentStore) portssvc.UserSvcFacade {
	return &userService{store: store}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) allUsers(ctx context.Context) ([]domain.User, error) {
	docs, err := s.store.ScanKind(ctx, domain.KindUser)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(docs))
	for _, doc := range docs {
		var user domain.User
		if err := doc.DecodeBody(&user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// EnsureDefaultAdmin creates the initial admin user ("admin") if no user
// document exists yet.
func (s *userService) EnsureDefaultAdmin(ctx context.Context, password string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	users, err := s.allUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash default admin password: %w", err)
	}
	now := time.Now().UTC()
	user := domain.User{
		UserID:       "user_" + uuid.NewString(),
		Username:     "admin",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "system",
			LastUpdatedAt: now,
			LastUpdatedBy: "system",
		},
	}
	doc, err := domain.NewDocument(user.UserID, domain.KindUser, now, user)
	if err != nil {
		return err
	}
	if _, err := s.store.Create(ctx, doc); err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}
	logger.Info("Default admin user created", "username", user.Username)
	return nil
}

// Authenticate verifies credentials against the active user set.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	users, err := s.allUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		user := &users[i]
		if user.Username != username || !user.IsActive {
			continue
		}
		if !utils.CheckPasswordHash(password, user.PasswordHash) {
			break
		}
		return user, nil
	}
	return nil, apperrors.ErrUnauthorized
}

// CreateUser adds an operator account; admin only.
func (s *userService) CreateUser(ctx context.Context, actor domain.Actor, req dto.CreateUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	users, err := s.allUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, existing := range users {
		if existing.Username == req.Username {
			return nil, fmt.Errorf("username %s: %w", req.Username, apperrors.ErrDuplicate)
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	user := domain.User{
		UserID:       "user_" + uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	doc, err := domain.NewDocument(user.UserID, domain.KindUser, now, user)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	logger.Info("User created", "user_id", user.UserID, "role", string(user.Role))
	return &user, nil
}

// ListUsers returns every operator account; admin only.
func (s *userService) ListUsers(ctx context.Context, actor domain.Actor) ([]domain.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	return s.allUsers(ctx)
}

// DeactivateUser disables an operator account; admin only.
func (s *userService) DeactivateUser(ctx context.Context, actor domain.Actor, userID string) error {
	if !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}
	doc, err := s.store.Get(ctx, userID)
	if err != nil {
		return err
	}
	if doc.Deleted || doc.Kind != domain.KindUser {
		return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	var user domain.User
	if err := doc.DecodeBody(&user); err != nil {
		return err
	}
	if !user.IsActive {
		return nil
	}
	now := time.Now().UTC()
	user.IsActive = false
	user.LastUpdatedAt = now
	user.LastUpdatedBy = actor.UserID

	updated, err := domain.NewDocument(user.UserID, domain.KindUser, now, user)
	if err != nil {
		return err
	}
	if _, err := s.store.Put(ctx, updated); err != nil {
		return fmt.Errorf("deactivate user %s: %w", userID, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("User deactivated", "user_id", userID)
	return nil
}
