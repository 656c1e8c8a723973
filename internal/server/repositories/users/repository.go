// Package users persists user accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository stores and looks up users. Lookups return common.ErrorNotFound
// when no row matches; a duplicate name or email on Create returns
// common.ErrAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}
