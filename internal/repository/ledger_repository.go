package repository

import (
	"errors"
	"time"

	"github.com/yukikurage/habitsync-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrInsufficientScore is returned when a claim costs more than the
	// user's current score.
	ErrInsufficientScore = errors.New("ledger repository: insufficient score")
	// ErrNoScoreRecord is returned when a claim is attempted before the
	// score record exists.
	ErrNoScoreRecord = errors.New("ledger repository: score record missing")
)

// LedgerRepository executes the atomic multi-record score mutations. Every
// operation runs in a single database transaction with all reads completed
// before any write, so the score record and its activity ledger can never
// diverge partially. Rows that will be written are read with an update lock;
// two concurrent mutations against the same score serialize on that lock
// instead of both applying a delta to the same stale read.
type LedgerRepository interface {
	// CompleteTask appends a task_completed activity and applies the task's
	// point value to the user's score, seeding the score record if missing.
	CompleteTask(userID, taskID uint64) (*CompleteTaskResult, error)

	// ClaimReward marks a reward claimed, appends a reward_claimed activity
	// and deducts the cost from the user's score.
	ClaimReward(userID, rewardID uint64) (*ClaimRewardResult, error)

	// DeleteActivity removes an activity record and exactly reverses its
	// score delta, resetting the related task/reward flag when the record
	// still exists.
	DeleteActivity(userID, activityID uint64) (*DeleteActivityResult, error)
}

// CompleteTaskResult carries the records written by a completion.
type CompleteTaskResult struct {
	Task     models.Task
	Activity models.Activity
	Score    models.UserScore
}

// ClaimRewardResult carries the records written by a claim.
type ClaimRewardResult struct {
	Reward   models.Reward
	Activity models.Activity
	Score    models.UserScore
}

// DeleteActivityResult carries the reversal outcome. Task and Reward are nil
// unless the undo reset the related record's flag.
type DeleteActivityResult struct {
	Activity models.Activity
	Score    models.UserScore
	Task     *models.Task
	Reward   *models.Reward
}

// GormLedgerRepository is a GORM implementation of LedgerRepository
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &GormLedgerRepository{db: db}
}

// CompleteTask appends the activity and applies the point delta atomically.
func (r *GormLedgerRepository) CompleteTask(userID, taskID uint64) (*CompleteTaskResult, error) {
	var result CompleteTaskResult

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Reads first: task, then score, both locked for update.
		var task models.Task
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).First(&task, taskID).Error; err != nil {
			return err
		}

		var score models.UserScore
		scoreErr := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).First(&score).Error
		if scoreErr != nil && !errors.Is(scoreErr, gorm.ErrRecordNotFound) {
			return scoreErr
		}

		now := time.Now()

		if task.Type == models.TaskTypeAchievement {
			task.IsAchieved = true
			task.UpdatedAt = now
			if err := tx.Save(&task).Error; err != nil {
				return err
			}
		}

		activity := models.Activity{
			UserID:       userID,
			TaskName:     task.Name,
			PointsEarned: task.PointValue,
			Type:         models.ActivityTaskCompleted,
			Timestamp:    now,
			RelatedID:    &task.ID,
			Metadata: models.ActivityMetadata{
				TaskType: task.Type,
			},
		}
		if err := tx.Create(&activity).Error; err != nil {
			return err
		}

		if errors.Is(scoreErr, gorm.ErrRecordNotFound) {
			// First mutation for this user seeds the score record.
			score = models.UserScore{
				UserID:       userID,
				CurrentScore: task.PointValue,
				LastUpdated:  now,
			}
			if task.PointValue > 0 {
				score.TotalEarned = task.PointValue
				score.TasksCompleted = 1
			}
			if err := tx.Create(&score).Error; err != nil {
				return err
			}
		} else {
			score.CurrentScore += task.PointValue
			if task.PointValue > 0 {
				// Bad-habit completions are negative and do not count
				// toward earnings or the completion counter.
				score.TotalEarned += task.PointValue
				score.TasksCompleted++
			}
			score.LastUpdated = now
			if err := tx.Save(&score).Error; err != nil {
				return err
			}
		}

		result = CompleteTaskResult{Task: task, Activity: activity, Score: score}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ClaimReward deducts the cost and records the claim atomically.
func (r *GormLedgerRepository) ClaimReward(userID, rewardID uint64) (*ClaimRewardResult, error) {
	var result ClaimRewardResult

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var reward models.Reward
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).First(&reward, rewardID).Error; err != nil {
			return err
		}

		// The lock pins the balance the insufficiency check runs against
		// until commit, so two claims cannot both pass it on the same read.
		var score models.UserScore
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).First(&score).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoScoreRecord
			}
			return err
		}

		if score.CurrentScore < reward.PointCost {
			return ErrInsufficientScore
		}

		now := time.Now()
		previous := score.CurrentScore
		next := previous - reward.PointCost

		reward.IsClaimed = true
		reward.ClaimedAt = &now
		reward.UpdatedAt = now
		if err := tx.Save(&reward).Error; err != nil {
			return err
		}

		activity := models.Activity{
			UserID:        userID,
			TaskName:      reward.Name,
			PointsEarned:  -reward.PointCost,
			Type:          models.ActivityRewardClaimed,
			Timestamp:     now,
			RelatedID:     &reward.ID,
			PreviousScore: &previous,
			NewScore:      &next,
		}
		if err := tx.Create(&activity).Error; err != nil {
			return err
		}

		score.CurrentScore = next
		score.TotalSpent += reward.PointCost
		score.RewardsClaimed++
		score.LastUpdated = now
		if err := tx.Save(&score).Error; err != nil {
			return err
		}

		result = ClaimRewardResult{Reward: reward, Activity: activity, Score: score}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteActivity reverses a prior mutation. The score delta is always
// reversed exactly; the related task/reward flag reset is skipped without
// error when that record was deleted in the meantime.
func (r *GormLedgerRepository) DeleteActivity(userID, activityID uint64) (*DeleteActivityResult, error) {
	var result DeleteActivityResult

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var activity models.Activity
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).First(&activity, activityID).Error; err != nil {
			return err
		}

		var score models.UserScore
		scoreErr := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).First(&score).Error
		if scoreErr != nil && !errors.Is(scoreErr, gorm.ErrRecordNotFound) {
			return scoreErr
		}

		// Related record reads happen before any write. A missing record
		// makes the flag reset a no-op, never an error.
		var reward *models.Reward
		var task *models.Task
		if activity.RelatedID != nil {
			switch activity.Type {
			case models.ActivityRewardClaimed:
				var rw models.Reward
				err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					First(&rw, *activity.RelatedID).Error
				if err == nil {
					reward = &rw
				} else if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
			case models.ActivityTaskCompleted:
				var t models.Task
				err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					First(&t, *activity.RelatedID).Error
				if err == nil {
					task = &t
				} else if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
			}
		}

		now := time.Now()

		if err := tx.Delete(&models.Activity{}, activity.ID).Error; err != nil {
			return err
		}

		if reward != nil {
			reward.IsClaimed = false
			reward.ClaimedAt = nil
			reward.UpdatedAt = now
			if err := tx.Save(reward).Error; err != nil {
				return err
			}
		}

		if task != nil && task.Type == models.TaskTypeAchievement {
			task.IsAchieved = false
			task.UpdatedAt = now
			if err := tx.Save(task).Error; err != nil {
				return err
			}
		} else {
			task = nil
		}

		if scoreErr == nil {
			score.CurrentScore -= activity.PointsEarned
			if activity.Type == models.ActivityRewardClaimed {
				cost := -activity.PointsEarned
				score.TotalSpent = max(0, score.TotalSpent-cost)
				score.RewardsClaimed = max(0, score.RewardsClaimed-1)
			}
			score.LastUpdated = now
			if err := tx.Save(&score).Error; err != nil {
				return err
			}
		}

		result = DeleteActivityResult{
			Activity: activity,
			Score:    score,
			Task:     task,
			Reward:   reward,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
