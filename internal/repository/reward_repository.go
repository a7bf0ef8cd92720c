package repository

import (
	"github.com/yukikurage/habitsync-api/internal/models"
	"gorm.io/gorm"
)

// GormRewardRepository is a GORM implementation of RewardRepository
type GormRewardRepository struct {
	db *gorm.DB
}

// NewRewardRepository creates a new RewardRepository
func NewRewardRepository(db *gorm.DB) RewardRepository {
	return &GormRewardRepository{db: db}
}

// Create creates a new reward
func (r *GormRewardRepository) Create(reward *models.Reward) error {
	return r.db.Create(reward).Error
}

// FindByID finds a reward by ID
func (r *GormRewardRepository) FindByID(id uint64) (*models.Reward, error) {
	var reward models.Reward
	if err := r.db.First(&reward, id).Error; err != nil {
		return nil, err
	}
	return &reward, nil
}

// ListByUser retrieves all rewards owned by a user, unordered
func (r *GormRewardRepository) ListByUser(userID uint64) ([]models.Reward, error) {
	var rewards []models.Reward
	if err := r.db.Where("user_id = ?", userID).Find(&rewards).Error; err != nil {
		return nil, err
	}
	return rewards, nil
}

// Update updates a reward
func (r *GormRewardRepository) Update(reward *models.Reward) error {
	return r.db.Save(reward).Error
}

// Delete soft deletes a reward
func (r *GormRewardRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Reward{}, id).Error
}
