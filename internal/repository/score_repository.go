package repository

import (
	"errors"
	"time"

	"github.com/yukikurage/habitsync-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormScoreRepository is a GORM implementation of ScoreRepository
type GormScoreRepository struct {
	db *gorm.DB
}

// NewScoreRepository creates a new ScoreRepository
func NewScoreRepository(db *gorm.DB) ScoreRepository {
	return &GormScoreRepository{db: db}
}

// Find returns the score record for a user
func (r *GormScoreRepository) Find(userID uint64) (*models.UserScore, error) {
	var score models.UserScore
	if err := r.db.Where("user_id = ?", userID).First(&score).Error; err != nil {
		return nil, err
	}
	return &score, nil
}

// GetOrInit returns the score record, creating a zeroed one if missing
func (r *GormScoreRepository) GetOrInit(userID uint64) (*models.UserScore, error) {
	var score models.UserScore
	err := r.db.Where("user_id = ?", userID).First(&score).Error
	if err == nil {
		return &score, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	score = models.UserScore{
		UserID:      userID,
		LastUpdated: time.Now(),
	}
	if err := r.db.Create(&score).Error; err != nil {
		return nil, err
	}
	return &score, nil
}

// SumActivityPoints returns the signed sum of the user's activity deltas
func (r *GormScoreRepository) SumActivityPoints(userID uint64) (int, error) {
	var sum *int
	err := r.db.Model(&models.Activity{}).
		Where("user_id = ?", userID).
		Select("SUM(points_earned)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

// Adjust applies a bare score delta outside the activity ledger. This is the
// administrative escape hatch; normal mutations go through LedgerRepository.
func (r *GormScoreRepository) Adjust(userID uint64, delta int) (*models.UserScore, error) {
	var score models.UserScore
	err := r.db.Transaction(func(tx *gorm.DB) error {
		findErr := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).First(&score).Error
		if findErr != nil {
			if !errors.Is(findErr, gorm.ErrRecordNotFound) {
				return findErr
			}
			score = models.UserScore{
				UserID:       userID,
				CurrentScore: delta,
				LastUpdated:  time.Now(),
			}
			if delta > 0 {
				score.TotalEarned = delta
			}
			return tx.Create(&score).Error
		}

		score.CurrentScore += delta
		score.LastUpdated = time.Now()
		return tx.Save(&score).Error
	})
	if err != nil {
		return nil, err
	}
	return &score, nil
}
