package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aula-labs/aula-api/internal/dto"
	"github.com/aula-labs/aula-api/internal/models"
)

func TestCourseServiceCreateDefaultsToCourseKind(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	viewer := Viewer{ID: 1, Role: "admin"}

	created, err := s.courses.Create(ctx, viewer, dto.CourseCreateRequest{Name: "Databases", Code: "DB101"})
	require.NoError(t, err)
	require.Equal(t, models.CourseKindCourse, created.Kind)
	require.Equal(t, models.StatusActive, created.Status)

	require.EqualValues(t, 1, s.countEntries(t, models.EventCourseCreation))
}

func TestCourseServiceCreateIntakeLogsIntakeEvent(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	viewer := Viewer{ID: 1, Role: "admin"}

	_, err := s.courses.Create(ctx, viewer, dto.CourseCreateRequest{Name: "Spring 2026", Code: "DB101-S26", Kind: models.CourseKindIntake})
	require.NoError(t, err)

	require.EqualValues(t, 1, s.countEntries(t, models.EventIntakeCreation))
	require.Zero(t, s.countEntries(t, models.EventCourseCreation))
}

func TestCourseServiceDeleteCascadesAndLogs(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	viewer := Viewer{ID: 3, Role: "admin"}

	course := models.Course{Name: "Networks", Code: "N1", Status: models.StatusActive}
	require.NoError(t, s.db.Create(&course).Error)
	unit := models.Unit{CourseID: course.ID, Name: "Routing", Status: models.StatusActive}
	require.NoError(t, s.db.Create(&unit).Error)
	draft := models.Unit{CourseID: course.ID, Name: "Switching", Status: models.StatusDraft}
	require.NoError(t, s.db.Create(&draft).Error)
	session := models.SessionUser{UnitID: unit.ID, UserID: 8, Status: models.StatusActive}
	require.NoError(t, s.db.Create(&session).Error)

	require.NoError(t, s.courses.Delete(ctx, course.ID, viewer))

	var storedCourse models.Course
	require.NoError(t, s.db.First(&storedCourse, course.ID).Error)
	require.Equal(t, models.StatusDeleted, storedCourse.Status)

	// Fresh dest per lookup: gorm keeps a populated primary key as a condition.
	var storedUnit models.Unit
	require.NoError(t, s.db.First(&storedUnit, unit.ID).Error)
	require.Equal(t, models.StatusCourseDeleted, storedUnit.Status)
	var storedDraft models.Unit
	require.NoError(t, s.db.First(&storedDraft, draft.ID).Error)
	require.Equal(t, models.StatusCourseDeleted, storedDraft.Status)

	var storedSession models.SessionUser
	require.NoError(t, s.db.First(&storedSession, session.ID).Error)
	require.Equal(t, models.StatusCourseDeleted, storedSession.Status)

	entry := s.latestEntry(t, models.EventCourseDeletion)
	require.Equal(t, models.LogTypeDelete, entry.Type)
	id, ok := entry.Ref(models.RefCourse)
	require.True(t, ok)
	require.Equal(t, course.ID, id)

	// Deleting an already deleted course reports not found.
	require.ErrorIs(t, s.courses.Delete(ctx, course.ID, viewer), ErrCourseNotFound)
}

func TestCourseServiceDeleteIntakeLogsIntakeDeletion(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	viewer := Viewer{ID: 3, Role: "admin"}

	intake := models.Course{Name: "Fall 2026", Code: "N1-F26", Kind: models.CourseKindIntake, Status: models.StatusActive}
	require.NoError(t, s.db.Create(&intake).Error)

	require.NoError(t, s.courses.Delete(ctx, intake.ID, viewer))

	require.EqualValues(t, 1, s.countEntries(t, models.EventIntakeDeletion))
	require.Zero(t, s.countEntries(t, models.EventCourseDeletion))
}

func TestGroupServiceAddMemberRequiresActiveGroup(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	viewer := Viewer{ID: 2, Role: "teacher"}

	course := models.Course{Name: "Art", Code: "A1", Status: models.StatusActive}
	require.NoError(t, s.db.Create(&course).Error)
	group := models.CourseGroup{CourseID: course.ID, Name: "Atelier", Status: models.StatusDeleted}
	require.NoError(t, s.db.Create(&group).Error)

	err := s.groups.AddMember(ctx, group.ID, viewer, dto.GroupMemberRequest{UserID: 4})
	require.ErrorIs(t, err, ErrGroupNotFound)
}
