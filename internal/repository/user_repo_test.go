package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/centralms/lms-api/internal/models"
)

func TestUserRepositoryCreateRejectsDuplicateUsername(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewUserRepository(db)

	first := models.User{Username: "amy", Password: "pw", Role: models.RoleStudent}
	require.NoError(t, repo.Create(context.Background(), &first))

	duplicate := models.User{Username: "amy", Password: "other", Role: models.RoleTeacher}
	err := repo.Create(context.Background(), &duplicate)
	require.Error(t, err)
	require.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestUserRepositoryGetByCredentialsMatchesExactTriple(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewUserRepository(db)

	user := models.User{Username: "amy", Password: "secret", Role: models.RoleStudent}
	require.NoError(t, repo.Create(context.Background(), &user))

	found, err := repo.GetByCredentials(context.Background(), "amy", "secret", models.RoleStudent)
	require.NoError(t, err)
	require.Equal(t, user.ID, found.ID)

	_, err = repo.GetByCredentials(context.Background(), "amy", "secret", models.RoleTeacher)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound), "role mismatch must not authenticate")

	_, err = repo.GetByCredentials(context.Background(), "amy", "wrong", models.RoleStudent)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
