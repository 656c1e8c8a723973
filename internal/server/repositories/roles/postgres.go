package roles

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	query :=
		`SELECT id, name FROM roles
		 WHERE name = $1
		 `

	role := &models.Role{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, common.NewStoreError("find role by name", err)
	}

	return role, nil
}

func (r *PostgresRepository) ListAssignableNames(ctx context.Context) ([]string, error) {
	query :=
		`SELECT name FROM roles
		 WHERE name <> $1
		 ORDER BY name
		 `

	return queryNames(ctx, r.db, "list assignable roles", query, common.AdminRoleName)
}

func (r *PostgresRepository) ListNamesByUser(ctx context.Context, userID int64) ([]string, error) {
	query :=
		`SELECT r.name FROM roles r
		 JOIN user_roles ur ON ur.role_id = r.id
		 WHERE ur.user_id = $1
		 ORDER BY r.name
		 `

	return queryNames(ctx, r.db, "list user roles", query, userID)
}

func (r *PostgresRepository) AssignToUser(ctx context.Context, link models.UserRole) error {
	query :=
		`INSERT INTO user_roles (user_id, role_id)
		 VALUES ($1, $2)
		 `

	if _, err := r.db.ExecContext(ctx, query, link.UserID, link.RoleID); err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return common.NewStoreError("insert user role", err)
	}

	return nil
}

// queryNames collects a single text column. The result is never nil.
func queryNames(ctx context.Context, db dbx.DBTX, op, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewStoreError(op, err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, common.NewStoreError(op, err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, common.NewStoreError(op, err)
	}

	return names, nil
}
