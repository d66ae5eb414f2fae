package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aula-labs/aula-api/internal/models"
	"github.com/aula-labs/aula-api/internal/observability"
	"github.com/aula-labs/aula-api/internal/repository"
)

// Viewer identifies the authenticated user a response is rendered for.
type Viewer struct {
	ID   uint
	Role string
}

type renderFunc func(ctx context.Context, entry models.LogEntry, viewer Viewer) string

// LogRenderer turns log entries into human-readable descriptions. Each event
// value has its own template; events without one render no description, which
// keeps old entries readable as the catalogue grows.
type LogRenderer struct {
	users         repository.UserRepository
	courses       repository.CourseRepository
	units         repository.UnitRepository
	groups        repository.GroupRepository
	discussions   repository.DiscussionRepository
	notifications repository.NotificationRepository
	events        repository.EventRepository
	logger        zerolog.Logger
	templates     map[string]renderFunc
	now           func() time.Time
}

// NewLogRenderer constructs a renderer with the full template catalogue.
func NewLogRenderer(
	users repository.UserRepository,
	courses repository.CourseRepository,
	units repository.UnitRepository,
	groups repository.GroupRepository,
	discussions repository.DiscussionRepository,
	notifications repository.NotificationRepository,
	events repository.EventRepository,
	logger zerolog.Logger,
) *LogRenderer {
	r := &LogRenderer{
		users:         users,
		courses:       courses,
		units:         units,
		groups:        groups,
		discussions:   discussions,
		notifications: notifications,
		events:        events,
		logger:        logger.With().Str("component", "log_renderer").Logger(),
		now:           time.Now,
	}

	r.templates = map[string]renderFunc{
		models.EventCourseCreation: r.courseTemplate("created", "course"),
		models.EventCourseUpdate:   r.courseTemplate("updated", "course"),
		models.EventCourseDeletion: r.courseTemplate("deleted", "course"),
		models.EventUndeleteCourse: r.courseTemplate("restored", "course"),
		models.EventIntakeCreation: r.courseTemplate("created", "intake"),
		models.EventIntakeDeletion: r.courseTemplate("deleted", "intake"),
		models.EventUndeleteIntake: r.courseTemplate("restored", "intake"),

		models.EventUnitCreation: r.unitTemplate("created"),
		models.EventUnitUpdate:   r.unitTemplate("updated"),
		models.EventUnitDeletion: r.unitTemplate("deleted"),
		models.EventUndeleteUnit: r.unitTemplate("restored"),

		models.EventUserCreation: r.userTemplate("created"),
		models.EventUserUpdate:   r.userTemplate("updated"),
		models.EventUserDeletion: r.userTemplate("deleted"),
		models.EventUndeleteUser: r.userTemplate("restored"),

		models.EventGroupCreation:      r.groupTemplate("created"),
		models.EventGroupUserAddition:  r.groupTemplate("added a member to"),
		models.EventGroupUserDeletion:  r.groupTemplate("deleted"),
		models.EventUndeleteGroup:      r.groupTemplate("restored"),
		models.EventDiscussionCreation: r.discussionTemplate("opened"),
		models.EventDiscussionDeletion: r.discussionTemplate("deleted"),
		models.EventUndeleteDiscussion: r.discussionTemplate("restored"),

		models.EventNotificationCreation: r.notificationTemplate("sent"),
		models.EventNotificationDeletion: r.notificationTemplate("deleted"),
		models.EventUndeleteNotification: r.notificationTemplate("restored"),

		models.EventEventCreation: r.eventTemplate("scheduled"),
		models.EventEventDeletion: r.eventTemplate("deleted"),
		models.EventUndeleteEvent: r.eventTemplate("restored"),

		models.EventSubmissionGraded: r.userTemplate("graded a submission for"),
		models.EventUserLogin:        r.plainTemplate("logged in"),
		models.EventUserImport:       r.plainTemplate("imported users"),
		models.EventUserExport:       r.plainTemplate("exported users"),
	}

	return r
}

// Render produces the description for an entry. The second return value
// reports whether the event had a template.
func (r *LogRenderer) Render(ctx context.Context, entry models.LogEntry, viewer Viewer) (string, bool) {
	template, ok := r.templates[entry.Event]
	if !ok {
		observability.UnknownRenders().Inc()
		r.logger.Debug().Str("event", entry.Event).Uint("log_id", entry.ID).Msg("no description template for event")
		return "", false
	}
	return template(ctx, entry, viewer), true
}

func (r *LogRenderer) courseTemplate(verb, noun string) renderFunc {
	return func(ctx context.Context, entry models.LogEntry, viewer Viewer) string {
		label := "a " + noun
		if id, ok := entry.Ref(models.RefCourse); ok {
			if course, err := r.courses.FindByID(ctx, id); err == nil {
				label = fmt.Sprintf("the %s <strong>%s</strong> (%s)", noun, course.Name, course.Code)
			}
		}
		return fmt.Sprintf("%s %s %s - %s", r.actorName(ctx, entry, viewer), verb, label, r.timeAgo(entry.CreatedAt))
	}
}

func (r *LogRenderer) unitTemplate(verb string) renderFunc {
	return func(ctx context.Context, entry models.LogEntry, viewer Viewer) string {
		label := "a unit"
		if id, ok := entry.Ref(models.RefUnit); ok {
			if unit, err := r.units.FindByID(ctx, id); err == nil {
				label = fmt.Sprintf("the unit <strong>%s</strong>", unit.Name)
			}
		}
		return fmt.Sprintf("%s %s %s - %s", r.actorName(ctx, entry, viewer), verb, label, r.timeAgo(entry.CreatedAt))
	}
}

func (r *LogRenderer) userTemplate(verb string) renderFunc {
	return func(ctx context.Context, entry models.LogEntry, viewer Viewer) string {
		label := "a user"
		if id, ok := entry.Ref(models.RefUser); ok {
			if user, err := r.users.FindByID(ctx, id); err == nil {
				label = fmt.Sprintf("the user <strong>%s</strong>", user.FullName())
			}
		}
		return fmt.Sprintf("%s %s %s - %s", r.actorName(ctx, entry, viewer), verb, label, r.timeAgo(entry.CreatedAt))
	}
}

func (r *LogRenderer) groupTemplate(verb string) renderFunc {
	return func(ctx context.Context, entry models.LogEntry, viewer Viewer) string {
		label := "a group"
		if id, ok := entry.Ref(models.RefGroup); ok {
			if group, err := r.groups.FindByID(ctx, id); err == nil {
				label = fmt.Sprintf("the group <strong>%s</strong>", group.Name)
			}
		}
		return fmt.Sprintf("%s %s %s - %s", r.actorName(ctx, entry, viewer), verb, label, r.timeAgo(entry.CreatedAt))
	}
}

func (r *LogRenderer) discussionTemplate(verb string) renderFunc {
	return func(ctx context.Context, entry models.LogEntry, viewer Viewer) string {
		label := "a discussion"
		if id, ok := entry.Ref(models.RefDiscussion); ok {
			if discussion, err := r.discussions.FindByID(ctx, id); err == nil {
				label = fmt.Sprintf("the discussion <strong>%s</strong>", discussion.Title)
			}
		}
		return fmt.Sprintf("%s %s %s - %s", r.actorName(ctx, entry, viewer), verb, label, r.timeAgo(entry.CreatedAt))
	}
}

func (r *LogRenderer) notificationTemplate(verb string) renderFunc {
	return func(ctx context.Context, entry models.LogEntry, viewer Viewer) string {
		label := "a notification"
		if id, ok := entry.Ref(models.RefNotification); ok {
			if notification, err := r.notifications.FindByID(ctx, id); err == nil {
				label = fmt.Sprintf("the notification <strong>%s</strong>", notification.Type)
			}
		}
		return fmt.Sprintf("%s %s %s - %s", r.actorName(ctx, entry, viewer), verb, label, r.timeAgo(entry.CreatedAt))
	}
}

func (r *LogRenderer) eventTemplate(verb string) renderFunc {
	return func(ctx context.Context, entry models.LogEntry, viewer Viewer) string {
		label := "an event"
		if id, ok := entry.Ref(models.RefEvent); ok {
			if event, err := r.events.FindByID(ctx, id); err == nil {
				label = fmt.Sprintf("the event <strong>%s</strong>", event.Title)
			}
		}
		return fmt.Sprintf("%s %s %s - %s", r.actorName(ctx, entry, viewer), verb, label, r.timeAgo(entry.CreatedAt))
	}
}

func (r *LogRenderer) plainTemplate(verb string) renderFunc {
	return func(ctx context.Context, entry models.LogEntry, viewer Viewer) string {
		return fmt.Sprintf("%s %s - %s", r.actorName(ctx, entry, viewer), verb, r.timeAgo(entry.CreatedAt))
	}
}

func (r *LogRenderer) actorName(ctx context.Context, entry models.LogEntry, viewer Viewer) string {
	if entry.ActorID == nil {
		return "The system"
	}
	if viewer.ID != 0 && viewer.ID == *entry.ActorID {
		return "You"
	}
	user, err := r.users.FindByID(ctx, *entry.ActorID)
	if err != nil {
		return "A removed user"
	}
	return user.FullName()
}

func (r *LogRenderer) timeAgo(t time.Time) string {
	elapsed := r.now().Sub(t)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < 2*time.Minute:
		return "a minute ago"
	case elapsed < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(elapsed.Minutes()))
	case elapsed < 2*time.Hour:
		return "an hour ago"
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(elapsed.Hours()))
	case elapsed < 48*time.Hour:
		return "a day ago"
	default:
		return fmt.Sprintf("%d days ago", int(elapsed.Hours()/24))
	}
}
