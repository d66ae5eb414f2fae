package models

// Lifecycle statuses shared by every soft-deletable entity.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
	StatusDraft    = "DRAFT"
	StatusDeleted  = "DELETED"
)

// Cascade statuses mark rows that were deleted as a side effect of a parent
// deletion. Undo relies on them to tell cascade-origin deletions apart from
// direct ones: only rows still carrying the cascade status are restored.
const (
	StatusCourseDeleted = "COURSEDELETED"
	StatusUnitDeleted   = "UNITDELETED"
	StatusGroupDeleted  = "GROUPDELETED"
	StatusEventDeleted  = "EVENTDELETED"
)

// LiveStatuses lists the statuses a cascade delete sweeps into its cascade
// status. DELETED rows are never touched, so an independently deleted row
// survives a parent's delete/undo round trip unchanged.
func LiveStatuses() []string {
	return []string{StatusActive, StatusInactive, StatusDraft}
}
