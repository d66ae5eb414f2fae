package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/aula-labs/aula-api/internal/models"
)

// GroupRepository persists course groups and their membership rows.
type GroupRepository interface {
	Create(ctx context.Context, group *models.CourseGroup) error
	FindByID(ctx context.Context, id uint) (models.CourseGroup, error)
	SoftDelete(ctx context.Context, id uint) (bool, error)
	UpdateStatus(ctx context.Context, id uint, from, to string) (bool, error)
	AddMember(ctx context.Context, member *models.UserCourseGroup) error
	// MarkMembers moves all membership rows of a group from the given statuses
	// into to, returning the number of affected rows.
	MarkMembers(ctx context.Context, groupID uint, from []string, to string) (int64, error)
	CountMembers(ctx context.Context, groupID uint, status string) (int64, error)
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository constructs the group repository.
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *models.CourseGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepository) FindByID(ctx context.Context, id uint) (models.CourseGroup, error) {
	var group models.CourseGroup
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return models.CourseGroup{}, err
	}
	return group, nil
}

func (r *groupRepository) SoftDelete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.CourseGroup{}).
		Where("id = ? AND status <> ?", id, models.StatusDeleted).
		Update("status", models.StatusDeleted)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *groupRepository) UpdateStatus(ctx context.Context, id uint, from, to string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.CourseGroup{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *groupRepository) AddMember(ctx context.Context, member *models.UserCourseGroup) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *groupRepository) MarkMembers(ctx context.Context, groupID uint, from []string, to string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.UserCourseGroup{}).
		Where("group_id = ? AND status IN ?", groupID, from).
		Update("status", to)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *groupRepository) CountMembers(ctx context.Context, groupID uint, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserCourseGroup{}).
		Where("group_id = ? AND status = ?", groupID, status).
		Count(&count).Error
	return count, err
}
