// Package store implements services.CredentialStore over the SQL
// repositories.
package store

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
)

// SQLStore is a CredentialStore backed by *sql.DB. Inside WithinTx the
// callback receives a copy bound to the open transaction.
type SQLStore struct {
	db   *sql.DB
	conn dbx.DBTX
	rm   repomanager.RepositoryManager
	inTx bool
}

var _ services.CredentialStore = (*SQLStore)(nil)

func NewSQLStore(db *sql.DB, rm repomanager.RepositoryManager) *SQLStore {
	return &SQLStore{db: db, conn: db, rm: rm}
}

func (s *SQLStore) FindUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return s.rm.Users(s.conn).GetByIdentifier(ctx, identifier)
}

func (s *SQLStore) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.rm.Users(s.conn).GetByID(ctx, id)
}

func (s *SQLStore) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	return s.rm.Roles(s.conn).GetByName(ctx, name)
}

func (s *SQLStore) ListAssignableRoleNames(ctx context.Context) ([]string, error) {
	return s.rm.Roles(s.conn).ListAssignableNames(ctx)
}

func (s *SQLStore) ListUserRoleNames(ctx context.Context, userID int64) ([]string, error) {
	return s.rm.Roles(s.conn).ListNamesByUser(ctx, userID)
}

func (s *SQLStore) InsertUser(ctx context.Context, u *models.User) (int64, error) {
	created, err := s.rm.Users(s.conn).Create(ctx, u)
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (s *SQLStore) InsertUserRole(ctx context.Context, userID, roleID int64) error {
	return s.rm.Roles(s.conn).AssignToUser(ctx, models.UserRole{UserID: userID, RoleID: roleID})
}

// WithinTx opens a transaction unless one is already open, in which case fn
// joins it.
func (s *SQLStore) WithinTx(ctx context.Context, fn func(ctx context.Context, st services.CredentialStore) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &SQLStore{db: s.db, conn: tx, rm: s.rm, inTx: true})
	})
}
