package users

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRepository_CreateAndFind(t *testing.T) {
	repo := NewSQLiteRepository(repotest.NewSQLite(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, newAlice())
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byName, err := repo.GetByIdentifier(ctx, "alice")
	require.NoError(t, err)
	byEmail, err := repo.GetByIdentifier(ctx, "alice@example.com")
	require.NoError(t, err)
	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)

	for _, u := range []*models.User{byName, byEmail, byID} {
		assert.Equal(t, created.ID, u.ID)
		assert.Equal(t, []byte("hash"), u.PasswordHash)
		assert.Equal(t, []byte("salt"), u.PasswordSalt)
	}
	assert.Equal(t, "hmac-sha512", byID.PasswordScheme)
}

func TestSQLiteRepository_NotFound(t *testing.T) {
	repo := NewSQLiteRepository(repotest.NewSQLite(t))

	_, err := repo.GetByIdentifier(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLiteRepository_DuplicateNameOrEmail(t *testing.T) {
	repo := NewSQLiteRepository(repotest.NewSQLite(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, newAlice())
	require.NoError(t, err)

	sameName := newAlice()
	sameName.Email = "other@example.com"
	_, err = repo.Create(ctx, sameName)
	assert.ErrorIs(t, err, common.ErrAlreadyExists)

	sameEmail := newAlice()
	sameEmail.Name = "alice2"
	_, err = repo.Create(ctx, sameEmail)
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}
