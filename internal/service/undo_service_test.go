package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/aula-labs/aula-api/internal/models"
)

func TestUndoCourseDeletionRestoresCascade(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	viewer := Viewer{ID: 1, Role: "admin"}

	course := models.Course{Name: "Advanced Go", Code: "GO301", Kind: models.CourseKindCourse, Status: models.StatusActive}
	require.NoError(t, s.db.Create(&course).Error)

	liveUnit := models.Unit{CourseID: course.ID, Name: "Concurrency", Status: models.StatusActive}
	require.NoError(t, s.db.Create(&liveUnit).Error)
	// Deleted before the course was; must stay deleted after the undo.
	deadUnit := models.Unit{CourseID: course.ID, Name: "Old material", Status: models.StatusDeleted}
	require.NoError(t, s.db.Create(&deadUnit).Error)

	session := models.SessionUser{UnitID: liveUnit.ID, UserID: 4, Status: models.StatusActive}
	require.NoError(t, s.db.Create(&session).Error)
	event := models.Event{UnitID: &liveUnit.ID, Title: "Live session", Status: models.StatusActive}
	require.NoError(t, s.db.Create(&event).Error)

	require.NoError(t, s.courses.Delete(ctx, course.ID, viewer))

	// Fresh dest per lookup: gorm keeps a populated primary key as a condition.
	var sweptUnit models.Unit
	require.NoError(t, s.db.First(&sweptUnit, liveUnit.ID).Error)
	require.Equal(t, models.StatusCourseDeleted, sweptUnit.Status)
	var untouchedUnit models.Unit
	require.NoError(t, s.db.First(&untouchedUnit, deadUnit.ID).Error)
	require.Equal(t, models.StatusDeleted, untouchedUnit.Status)

	entry := s.latestEntry(t, models.EventCourseDeletion)
	require.Equal(t, models.LogTypeDelete, entry.Type)
	require.False(t, entry.UnDelete)

	require.NoError(t, s.undo.Undo(ctx, entry.ID, viewer))

	var restoredCourse models.Course
	require.NoError(t, s.db.First(&restoredCourse, course.ID).Error)
	require.Equal(t, models.StatusActive, restoredCourse.Status)

	var restoredUnit models.Unit
	require.NoError(t, s.db.First(&restoredUnit, liveUnit.ID).Error)
	require.Equal(t, models.StatusActive, restoredUnit.Status)
	var stillDeadUnit models.Unit
	require.NoError(t, s.db.First(&stillDeadUnit, deadUnit.ID).Error)
	require.Equal(t, models.StatusDeleted, stillDeadUnit.Status)

	var restoredSession models.SessionUser
	require.NoError(t, s.db.First(&restoredSession, session.ID).Error)
	require.Equal(t, models.StatusActive, restoredSession.Status)

	var restoredEvent models.Event
	require.NoError(t, s.db.First(&restoredEvent, event.ID).Error)
	require.Equal(t, models.StatusActive, restoredEvent.Status)

	entry = s.latestEntry(t, models.EventCourseDeletion)
	require.True(t, entry.UnDelete)

	undelete := s.latestEntry(t, models.EventUndeleteCourse)
	require.Equal(t, models.LogTypeUndelete, undelete.Type)
}

func TestUndoIsIdempotent(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	viewer := Viewer{ID: 1, Role: "admin"}

	course := models.Course{Name: "History", Code: "H1", Status: models.StatusActive}
	require.NoError(t, s.db.Create(&course).Error)
	require.NoError(t, s.courses.Delete(ctx, course.ID, viewer))

	entry := s.latestEntry(t, models.EventCourseDeletion)
	require.NoError(t, s.undo.Undo(ctx, entry.ID, viewer))
	require.NoError(t, s.undo.Undo(ctx, entry.ID, viewer))

	require.EqualValues(t, 1, s.countEntries(t, models.EventUndeleteCourse))
}

func TestUndoSkipsWhenTargetStateChanged(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	viewer := Viewer{ID: 1, Role: "admin"}

	course := models.Course{Name: "Biology", Code: "B1", Status: models.StatusActive}
	require.NoError(t, s.db.Create(&course).Error)
	require.NoError(t, s.courses.Delete(ctx, course.ID, viewer))

	// Someone restored the course through another path before the undo ran.
	require.NoError(t, s.db.Model(&models.Course{}).Where("id = ?", course.ID).Update("status", models.StatusActive).Error)

	entry := s.latestEntry(t, models.EventCourseDeletion)
	require.NoError(t, s.undo.Undo(ctx, entry.ID, viewer))

	entry = s.latestEntry(t, models.EventCourseDeletion)
	require.False(t, entry.UnDelete)
	require.Zero(t, s.countEntries(t, models.EventUndeleteCourse))
}

func TestUndoUnknownEventIsNoOp(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	entry := models.LogEntry{Event: "LEGACY_PURGE", Type: models.LogTypeDelete, Data: datatypes.JSONMap{"course": 1}}
	require.NoError(t, s.db.Create(&entry).Error)

	require.NoError(t, s.undo.Undo(ctx, entry.ID, Viewer{ID: 1}))

	var stored models.LogEntry
	require.NoError(t, s.db.First(&stored, entry.ID).Error)
	require.False(t, stored.UnDelete)
}

func TestUndoMissingLogEntry(t *testing.T) {
	s := newTestStack(t)

	err := s.undo.Undo(context.Background(), 9999, Viewer{ID: 1})
	require.ErrorIs(t, err, ErrLogNotFound)
}

func TestUndoTargetGone(t *testing.T) {
	s := newTestStack(t)

	entry := models.LogEntry{Event: models.EventCourseDeletion, Type: models.LogTypeDelete, Data: datatypes.JSONMap{"course": 12345}}
	require.NoError(t, s.db.Create(&entry).Error)

	err := s.undo.Undo(context.Background(), entry.ID, Viewer{ID: 1})
	require.ErrorIs(t, err, ErrUndoTargetNotFound)
}

func TestUndoPermanentUserDeletionRestoresIdentity(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	viewer := Viewer{ID: 1, Role: "admin"}

	user := models.User{FirstName: "Noor", Email: "noor@example.com", Username: "noor", Status: models.StatusActive}
	require.NoError(t, s.db.Create(&user).Error)

	require.NoError(t, s.users.Delete(ctx, user.ID, true, viewer))

	var stored models.User
	require.NoError(t, s.db.First(&stored, user.ID).Error)
	require.Equal(t, models.StatusDeleted, stored.Status)
	require.NotEqual(t, "noor@example.com", stored.Email)
	require.Equal(t, "noor@example.com", stored.BackupEmail)

	entry := s.latestEntry(t, models.EventUserDeletion)
	require.NoError(t, s.undo.Undo(ctx, entry.ID, viewer))

	require.NoError(t, s.db.First(&stored, user.ID).Error)
	require.Equal(t, models.StatusActive, stored.Status)
	require.Equal(t, "noor@example.com", stored.Email)
	require.Equal(t, "noor", stored.Username)
	require.Empty(t, stored.BackupEmail)
}

func TestUndoGroupDeletionRestoresMembers(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	viewer := Viewer{ID: 1, Role: "teacher"}

	course := models.Course{Name: "Chemistry", Code: "C1", Status: models.StatusActive}
	require.NoError(t, s.db.Create(&course).Error)
	group := models.CourseGroup{CourseID: course.ID, Name: "Lab group A", Status: models.StatusActive}
	require.NoError(t, s.db.Create(&group).Error)

	members := []models.UserCourseGroup{
		{GroupID: group.ID, UserID: 4, Status: models.StatusActive},
		{GroupID: group.ID, UserID: 5, Status: models.StatusActive},
		// Removed from the group before the deletion; must stay removed.
		{GroupID: group.ID, UserID: 6, Status: models.StatusDeleted},
	}
	for i := range members {
		require.NoError(t, s.db.Create(&members[i]).Error)
	}

	require.NoError(t, s.groups.Delete(ctx, group.ID, viewer))

	count, err := s.groupRepo.CountMembers(ctx, group.ID, models.StatusGroupDeleted)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	entry := s.latestEntry(t, models.EventGroupUserDeletion)
	require.NoError(t, s.undo.Undo(ctx, entry.ID, viewer))

	count, err = s.groupRepo.CountMembers(ctx, group.ID, models.StatusActive)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	var removed models.UserCourseGroup
	require.NoError(t, s.db.First(&removed, members[2].ID).Error)
	require.Equal(t, models.StatusDeleted, removed.Status)
}

func TestUndoUnitDeletionKeepsCourseCascadeApart(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	viewer := Viewer{ID: 2, Role: "teacher"}

	course := models.Course{Name: "Physics", Code: "P1", Status: models.StatusActive}
	require.NoError(t, s.db.Create(&course).Error)
	unit := models.Unit{CourseID: course.ID, Name: "Mechanics", Status: models.StatusActive}
	require.NoError(t, s.db.Create(&unit).Error)
	session := models.SessionUser{UnitID: unit.ID, UserID: 9, Status: models.StatusActive}
	require.NoError(t, s.db.Create(&session).Error)

	require.NoError(t, s.units.Delete(ctx, unit.ID, viewer))

	var storedSession models.SessionUser
	require.NoError(t, s.db.First(&storedSession, session.ID).Error)
	require.Equal(t, models.StatusUnitDeleted, storedSession.Status)

	swept, err := s.sessionRepo.CountByUnit(ctx, unit.ID, models.StatusUnitDeleted)
	require.NoError(t, err)
	require.EqualValues(t, 1, swept)

	entry := s.latestEntry(t, models.EventUnitDeletion)
	require.NoError(t, s.undo.Undo(ctx, entry.ID, viewer))

	var storedUnit models.Unit
	require.NoError(t, s.db.First(&storedUnit, unit.ID).Error)
	require.Equal(t, models.StatusActive, storedUnit.Status)

	restored, err := s.sessionRepo.CountByUnit(ctx, unit.ID, models.StatusActive)
	require.NoError(t, err)
	require.EqualValues(t, 1, restored)
}
