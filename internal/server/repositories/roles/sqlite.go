package roles

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	role := &models.Role{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM roles WHERE name = ?`, name).
		Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, common.NewStoreError("find role by name", err)
	}
	return role, nil
}

func (r *SQLiteRepository) ListAssignableNames(ctx context.Context) ([]string, error) {
	return queryNames(ctx, r.db, "list assignable roles",
		`SELECT name FROM roles WHERE name <> ? ORDER BY name`, common.AdminRoleName)
}

func (r *SQLiteRepository) ListNamesByUser(ctx context.Context, userID int64) ([]string, error) {
	return queryNames(ctx, r.db, "list user roles", `
		SELECT r.name FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = ?
		ORDER BY r.name`, userID)
}

func (r *SQLiteRepository) AssignToUser(ctx context.Context, link models.UserRole) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO user_roles (user_id, role_id) VALUES (?, ?)`, link.UserID, link.RoleID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return common.NewStoreError("insert user role", err)
	}
	return nil
}
