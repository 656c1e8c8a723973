package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// SQLiteRepository keeps created_at as unix seconds.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	var createdAt int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash, password_salt, password_scheme)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, created_at`,
		user.Name, user.Email, user.PasswordHash, user.PasswordSalt, user.PasswordScheme).
		Scan(&user.ID, &createdAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, common.NewStoreError("insert user", err)
	}

	user.CreatedAt = time.Unix(createdAt, 0).UTC()
	return user, nil
}

func (r *SQLiteRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, password_salt, password_scheme, created_at FROM users
		WHERE name = ? OR email = ?
		ORDER BY id
		LIMIT 1`, identifier, identifier)

	return r.scanOne(row, "find user by identifier")
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, password_salt, password_scheme, created_at FROM users
		WHERE id = ?`, id)

	return r.scanOne(row, "find user by id")
}

func (r *SQLiteRepository) scanOne(row *sql.Row, op string) (*models.User, error) {
	var createdAt int64
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Email,
		&user.PasswordHash, &user.PasswordSalt, &user.PasswordScheme, &createdAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, common.NewStoreError(op, err)
	}

	user.CreatedAt = time.Unix(createdAt, 0).UTC()
	return user, nil
}
