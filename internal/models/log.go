package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Log entry types, the coarse category of a logged mutation.
const (
	LogTypeCreate   = "CREATE"
	LogTypeUpdate   = "UPDATE"
	LogTypeDelete   = "DELETE"
	LogTypeUndelete = "UNDELETE"
)

// Event catalogue. Every significant domain mutation is tagged with one of
// these values; the undo engine and the description templates dispatch on it.
const (
	EventUserCreation   = "USER_CREATION"
	EventUserUpdate     = "USER_UPDATE"
	EventUserDeletion   = "USER_DELETION"
	EventUndeleteUser   = "UNDELETE_USER"
	EventCourseCreation = "COURSE_CREATION"
	EventCourseUpdate   = "COURSE_UPDATE"
	EventCourseDeletion = "COURSE_DELETION"
	EventUndeleteCourse = "UNDELETE_COURSE"
	EventIntakeCreation = "INTAKE_CREATION"
	EventIntakeDeletion = "INTAKE_DELETION"
	EventUndeleteIntake = "UNDELETE_INTAKE"
	EventUnitCreation   = "UNIT_CREATION"
	EventUnitUpdate     = "UNIT_UPDATE"
	EventUnitDeletion   = "UNIT_DELETION"
	EventUndeleteUnit   = "UNDELETE_UNIT"
	EventGroupCreation  = "GROUP_CREATION"

	EventGroupUserAddition = "GROUP_USER_ADDITION"
	EventGroupUserDeletion = "GROUP_USER_DELETION"
	EventUndeleteGroup     = "UNDELETE_GROUP"

	EventDiscussionCreation   = "DISCUSSION_CREATION"
	EventDiscussionDeletion   = "DISCUSSION_DELETION"
	EventUndeleteDiscussion   = "UNDELETE_DISCUSSION"
	EventNotificationCreation = "NOTIFICATION_CREATION"
	EventNotificationDeletion = "NOTIFICATION_DELETION"
	EventUndeleteNotification = "UNDELETE_NOTIFICATION"

	EventEventCreation = "EVENT_CREATION"
	EventEventDeletion = "EVENT_DELETION"
	EventUndeleteEvent = "UNDELETE_EVENT"

	EventSubmissionGraded = "SUBMISSION_GRADED"
	EventUserLogin        = "USER_LOGIN"
	EventUserImport       = "USER_IMPORT"
	EventUserExport       = "USER_EXPORT"
)

// Keys used inside LogEntry.Data to reference related entities.
const (
	RefUser         = "user"
	RefCourse       = "course"
	RefUnit         = "unit"
	RefGroup        = "group"
	RefDiscussion   = "discussion"
	RefNotification = "notification"
	RefEvent        = "event"
)

// LogEntry is an append-only audit record of one domain mutation. After
// creation the only permitted change is flipping UnDelete from false to true,
// exactly once, when the deletion this entry records has been reversed.
type LogEntry struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	Event     string            `gorm:"size:64;not null;index" json:"event"`
	Type      string            `gorm:"size:16;not null;index" json:"type"`
	ActorID   *uint             `gorm:"index" json:"actor_id"`
	Data      datatypes.JSONMap `gorm:"type:json" json:"data"`
	UnDelete  bool              `gorm:"not null;default:false" json:"un_delete"`
	CreatedAt time.Time         `gorm:"index" json:"created_at"`
}

// Ref resolves an entity reference from the data bag. A bag read back from
// the database decodes numbers as json.Number, while a freshly recorded one
// still holds the original Go type, so all numeric encodings are accepted.
func (l LogEntry) Ref(key string) (uint, bool) {
	if l.Data == nil {
		return 0, false
	}
	switch v := l.Data[key].(type) {
	case json.Number:
		id, err := v.Int64()
		if err != nil || id < 0 {
			return 0, false
		}
		return uint(id), true
	case float64:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	case uint:
		return v, true
	default:
		return 0, false
	}
}
