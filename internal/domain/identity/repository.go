package identity

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/homebarber/internal/models"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

type Repository interface {
	// FindByEmail expects a normalised email and returns ErrNotFound when
	// there is no account.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	FindByID(ctx context.Context, id string) (*models.User, error)

	// CreateUser returns ErrEmailTaken on a duplicate email.
	CreateUser(ctx context.Context, u *models.User) error

	UpdateUser(ctx context.Context, u *models.User) error
}
