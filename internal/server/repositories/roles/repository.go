// Package roles reads role reference data and links roles to users.
package roles

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type Repository interface {
	// GetByName returns common.ErrorNotFound for unknown names.
	GetByName(ctx context.Context, name string) (*models.Role, error)
	// ListAssignableNames returns every role name except Admin, sorted.
	ListAssignableNames(ctx context.Context) ([]string, error)
	// ListNamesByUser returns the names of the roles held by userID, sorted.
	ListNamesByUser(ctx context.Context, userID int64) ([]string, error)
	// AssignToUser links a role to a user; an existing link yields
	// common.ErrAlreadyExists.
	AssignToUser(ctx context.Context, link models.UserRole) error
}
