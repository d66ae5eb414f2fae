package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aula-labs/aula-api/internal/models"
)

func TestUserRepositoryAnonymizeAndRestore(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := models.User{
		FirstName: "Maya",
		LastName:  "Lindholm",
		Email:     "maya@example.com",
		Username:  "maya",
		Role:      "teacher",
		Status:    models.StatusActive,
	}
	require.NoError(t, repo.Create(ctx, &user))

	anonymized, err := repo.Anonymize(ctx, user.ID, "deleted-user-1@removed.invalid", "deleted-user-1")
	require.NoError(t, err)
	require.True(t, anonymized)

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusDeleted, stored.Status)
	require.Equal(t, "deleted-user-1@removed.invalid", stored.Email)
	require.Equal(t, "deleted-user-1", stored.Username)
	require.Equal(t, "maya@example.com", stored.BackupEmail)
	require.Equal(t, "maya", stored.BackupUsername)

	// Already deleted rows are not anonymized twice.
	anonymized, err = repo.Anonymize(ctx, user.ID, "other@removed.invalid", "other")
	require.NoError(t, err)
	require.False(t, anonymized)

	restored, err := repo.RestoreIdentity(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, restored)

	stored, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusActive, stored.Status)
	require.Equal(t, "maya@example.com", stored.Email)
	require.Equal(t, "maya", stored.Username)
	require.Empty(t, stored.BackupEmail)
	require.Empty(t, stored.BackupUsername)

	// Restoring an account that is no longer deleted is a no-op.
	restored, err = repo.RestoreIdentity(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, restored)
}

func TestUserRepositorySoftDeleteGuard(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := models.User{
		FirstName: "Jonas",
		Email:     "jonas@example.com",
		Username:  "jonas",
		Status:    models.StatusActive,
	}
	require.NoError(t, repo.Create(ctx, &user))

	deleted, err := repo.SoftDelete(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = repo.SoftDelete(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, deleted)

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusDeleted, stored.Status)
	require.Empty(t, stored.BackupEmail)
	require.Equal(t, "jonas@example.com", stored.Email)
}

func TestUnitRepositoryCascadeMarking(t *testing.T) {
	db := newTestDB(t)
	units := NewUnitRepository(db)
	ctx := context.Background()

	seed := []models.Unit{
		{CourseID: 7, Name: "Intro", Status: models.StatusActive},
		{CourseID: 7, Name: "Archive", Status: models.StatusDeleted},
		{CourseID: 7, Name: "Draft", Status: models.StatusDraft},
		{CourseID: 8, Name: "Other course", Status: models.StatusActive},
	}
	for i := range seed {
		require.NoError(t, units.Create(ctx, &seed[i]))
	}

	marked, err := units.MarkByCourse(ctx, 7, models.LiveStatuses(), models.StatusCourseDeleted)
	require.NoError(t, err)
	require.EqualValues(t, 2, marked)

	// Only rows carrying the cascade status come back.
	ids, err := units.ListIDsByCourseStatus(ctx, 7, []string{models.StatusCourseDeleted})
	require.NoError(t, err)
	require.ElementsMatch(t, []uint{seed[0].ID, seed[2].ID}, ids)

	// The independently deleted unit was untouched.
	archived, err := units.FindByID(ctx, seed[1].ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusDeleted, archived.Status)

	// So was the other course.
	other, err := units.FindByID(ctx, seed[3].ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusActive, other.Status)
}
