package repository

import (
	"github.com/yukikurage/habitsync-api/internal/models"
	"gorm.io/gorm"
)

// GormActivityRepository is a GORM implementation of ActivityRepository
type GormActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &GormActivityRepository{db: db}
}

// FindByID finds an activity record by ID
func (r *GormActivityRepository) FindByID(id uint64) (*models.Activity, error) {
	var activity models.Activity
	if err := r.db.First(&activity, id).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

// ListByUser retrieves all activity records owned by a user, unordered
func (r *GormActivityRepository) ListByUser(userID uint64) ([]models.Activity, error) {
	var activities []models.Activity
	if err := r.db.Where("user_id = ?", userID).Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// ListPage retrieves one page of a user's activity history, newest first
func (r *GormActivityRepository) ListPage(userID uint64, limit, offset int) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Offset(offset).
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}

// CountByUser returns the number of activity records for a user
func (r *GormActivityRepository) CountByUser(userID uint64) (int64, error) {
	var total int64
	err := r.db.Model(&models.Activity{}).Where("user_id = ?", userID).Count(&total).Error
	return total, err
}
