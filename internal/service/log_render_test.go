package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/aula-labs/aula-api/internal/models"
)

func TestTimeAgo(t *testing.T) {
	s := newTestStack(t)

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	s.renderer.now = func() time.Time { return now }

	cases := []struct {
		elapsed time.Duration
		want    string
	}{
		{30 * time.Second, "just now"},
		{90 * time.Second, "a minute ago"},
		{10 * time.Minute, "10 minutes ago"},
		{90 * time.Minute, "an hour ago"},
		{5 * time.Hour, "5 hours ago"},
		{30 * time.Hour, "a day ago"},
		{75 * time.Hour, "3 days ago"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, s.renderer.timeAgo(now.Add(-tc.elapsed)), "elapsed %s", tc.elapsed)
	}
}

func TestRenderCourseDeletionDescription(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	course := models.Course{Name: "Advanced Go", Code: "GO301", Status: models.StatusDeleted}
	require.NoError(t, s.db.Create(&course).Error)

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	s.renderer.now = func() time.Time { return now }

	actorID := uint(7)
	entry := models.LogEntry{
		ID:        1,
		Event:     models.EventCourseDeletion,
		Type:      models.LogTypeDelete,
		ActorID:   &actorID,
		Data:      datatypes.JSONMap{models.RefCourse: float64(course.ID)},
		CreatedAt: now.Add(-2 * time.Hour),
	}

	description, ok := s.renderer.Render(ctx, entry, Viewer{ID: 7})
	require.True(t, ok)
	require.Equal(t, "You deleted the course <strong>Advanced Go</strong> (GO301) - 2 hours ago", description)
}

func TestRenderActorVariants(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	actor := models.User{FirstName: "Sara", LastName: "Berg", Email: "sara@example.com", Username: "sara", Status: models.StatusActive}
	require.NoError(t, s.db.Create(&actor).Error)

	actorID := actor.ID
	entry := models.LogEntry{Event: models.EventUserLogin, Type: models.LogTypeCreate, ActorID: &actorID}

	// Another user sees the full name.
	description, ok := s.renderer.Render(ctx, entry, Viewer{ID: actor.ID + 1})
	require.True(t, ok)
	require.Contains(t, description, "Sara Berg logged in")

	// The actor sees "You".
	description, ok = s.renderer.Render(ctx, entry, Viewer{ID: actor.ID})
	require.True(t, ok)
	require.Contains(t, description, "You logged in")

	// No actor means the system acted.
	entry.ActorID = nil
	description, ok = s.renderer.Render(ctx, entry, Viewer{ID: actor.ID})
	require.True(t, ok)
	require.Contains(t, description, "The system logged in")

	// An actor who no longer resolves.
	missing := uint(9999)
	entry.ActorID = &missing
	description, ok = s.renderer.Render(ctx, entry, Viewer{ID: actor.ID})
	require.True(t, ok)
	require.Contains(t, description, "A removed user logged in")
}

func TestRenderUnknownEventHasNoTemplate(t *testing.T) {
	s := newTestStack(t)

	entry := models.LogEntry{Event: "LEGACY_EVENT", Type: models.LogTypeCreate}
	description, ok := s.renderer.Render(context.Background(), entry, Viewer{ID: 1})
	require.False(t, ok)
	require.Empty(t, description)
}

func TestRenderFallsBackWhenTargetMissing(t *testing.T) {
	s := newTestStack(t)

	entry := models.LogEntry{
		Event: models.EventCourseDeletion,
		Type:  models.LogTypeDelete,
		Data:  datatypes.JSONMap{models.RefCourse: float64(404)},
	}
	description, ok := s.renderer.Render(context.Background(), entry, Viewer{ID: 1})
	require.True(t, ok)
	require.Contains(t, description, "deleted a course")
}
