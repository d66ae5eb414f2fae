package service

import (
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aula-labs/aula-api/internal/models"
	"github.com/aula-labs/aula-api/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	// One connection keeps concurrent cascade writes from tripping over
	// sqlite's shared-cache table locks.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.LogEntry{},
		&models.User{},
		&models.Course{},
		&models.Unit{},
		&models.CourseGroup{},
		&models.UserCourseGroup{},
		&models.Event{},
		&models.UserEvent{},
		&models.SessionUser{},
		&models.Discussion{},
		&models.Notification{},
	))

	return db
}

// testStack wires the full service graph over one in-memory database, without
// cache or stream fan-out.
type testStack struct {
	db *gorm.DB

	logRepo          repository.LogRepository
	userRepo         repository.UserRepository
	courseRepo       repository.CourseRepository
	unitRepo         repository.UnitRepository
	groupRepo        repository.GroupRepository
	eventRepo        repository.EventRepository
	sessionRepo      repository.SessionRepository
	discussionRepo   repository.DiscussionRepository
	notificationRepo repository.NotificationRepository

	renderer *LogRenderer
	logs     LogService
	undo     UndoService
	courses  CourseService
	units    UnitService
	groups   GroupService
	users    UserService
	events   EventService
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	db := newTestDB(t)
	logger := zerolog.Nop()
	validate := validator.New(validator.WithRequiredStructEnabled())

	s := &testStack{
		db:               db,
		logRepo:          repository.NewLogRepository(db),
		userRepo:         repository.NewUserRepository(db),
		courseRepo:       repository.NewCourseRepository(db),
		unitRepo:         repository.NewUnitRepository(db),
		groupRepo:        repository.NewGroupRepository(db),
		eventRepo:        repository.NewEventRepository(db),
		sessionRepo:      repository.NewSessionRepository(db),
		discussionRepo:   repository.NewDiscussionRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
	}

	s.renderer = NewLogRenderer(s.userRepo, s.courseRepo, s.unitRepo, s.groupRepo, s.discussionRepo, s.notificationRepo, s.eventRepo, logger)
	s.logs = NewLogService(s.logRepo, s.renderer, nil, nil, 0, logger)
	s.undo = NewUndoService(s.logRepo, s.logs, s.userRepo, s.courseRepo, s.unitRepo, s.groupRepo, s.eventRepo, s.sessionRepo, s.discussionRepo, s.notificationRepo, logger)
	s.courses = NewCourseService(s.courseRepo, s.unitRepo, s.sessionRepo, s.eventRepo, s.logs, validate, logger)
	s.units = NewUnitService(s.unitRepo, s.courseRepo, s.sessionRepo, s.eventRepo, s.logs, validate, logger)
	s.groups = NewGroupService(s.groupRepo, s.courseRepo, s.logs, validate, logger)
	s.users = NewUserService(s.userRepo, s.logs, validate, logger)
	s.events = NewEventService(s.eventRepo, s.logs, validate, logger)

	return s
}

// latestEntry returns the newest log entry matching event.
func (s *testStack) latestEntry(t *testing.T, event string) models.LogEntry {
	t.Helper()

	var entry models.LogEntry
	require.NoError(t, s.db.Where("event = ?", event).Order("id DESC").First(&entry).Error)
	return entry
}

func (s *testStack) countEntries(t *testing.T, event string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, s.db.Model(&models.LogEntry{}).Where("event = ?", event).Count(&count).Error)
	return count
}
