package services

import (
	"context"

	"github.com/daftarhq/daftar/internal/core/domain"
	"github.com/daftarhq/daftar/internal/dto"
)

// UserSvcFacade manages local operator accounts and authentication.
type UserSvcFacade interface {
	// EnsureDefaultAdmin creates the initial admin user if no user exists.
	EnsureDefaultAdmin(ctx context.Context, password string) error

	// Authenticate verifies username/password and returns the active user.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	CreateUser(ctx context.Context, actor domain.Actor, req dto.CreateUserRequest) (*domain.User, error)
	ListUsers(ctx context.Context, actor domain.Actor) ([]domain.User, error)
	DeactivateUser(ctx context.Context, actor domain.Actor, userID string) error
}

// DocumentSvcFacade exposes raw document administration. Delete is the only
// way an event document ever leaves the store and is restricted to admins.
type DocumentSvcFacade interface {
	GetDocument(ctx context.Context, id string) (*domain.Document, error)
	RemoveDocument(ctx context.Context, actor domain.Actor, id string) error
}
