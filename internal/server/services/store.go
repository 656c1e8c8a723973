// Package services holds the credential-verification core: the store
// contract it depends on and the Authenticator built on top of it.
package services

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// CredentialStore is the persistence the Authenticator needs. Lookups of
// absent records return common.ErrorNotFound, duplicate inserts return
// common.ErrAlreadyExists, anything else is a *common.StoreError.
type CredentialStore interface {
	// FindUserByIdentifier matches identifier against name or email.
	FindUserByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	FindRoleByName(ctx context.Context, name string) (*models.Role, error)
	// ListAssignableRoleNames returns every role except Admin, sorted.
	ListAssignableRoleNames(ctx context.Context) ([]string, error)
	ListUserRoleNames(ctx context.Context, userID int64) ([]string, error)
	InsertUser(ctx context.Context, u *models.User) (int64, error)
	InsertUserRole(ctx context.Context, userID, roleID int64) error

	// WithinTx runs fn against a store bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, s CredentialStore) error) error
}
