package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/habitsync-api/internal/gateway"
	"github.com/yukikurage/habitsync-api/internal/models"
	"github.com/yukikurage/habitsync-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrActivityNotFound  = errors.New("activity record not found")
	ErrInsufficientScore = errors.New("not enough points to claim this reward")
	ErrNoScoreRecord     = errors.New("score record does not exist yet")
)

// LedgerService runs the transactional score mutations and publishes the
// resulting collection changes. All score writes flow through here (or
// through the documented AdjustScore escape hatch); nothing else may touch
// the score record.
type LedgerService struct {
	ledgerRepo repository.LedgerRepository
	scoreRepo  repository.ScoreRepository
	broker     gateway.Broker
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(ledgerRepo repository.LedgerRepository, scoreRepo repository.ScoreRepository, broker gateway.Broker) *LedgerService {
	return &LedgerService{
		ledgerRepo: ledgerRepo,
		scoreRepo:  scoreRepo,
		broker:     broker,
	}
}

// CompleteTask applies a task completion to the acting user's ledger.
// Completion is not idempotent: daily and bad-habit tasks are repeatable by
// design, and the UI gates repeat completion of achievement tasks on the
// task's isAchieved flag.
func (s *LedgerService) CompleteTask(ctx context.Context, userID, taskID uint64) (*repository.CompleteTaskResult, error) {
	result, err := s.ledgerRepo.CompleteTask(userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	changed := []gateway.Collection{gateway.CollectionActivities, gateway.CollectionScore}
	if result.Task.Type == models.TaskTypeAchievement {
		changed = append(changed, gateway.CollectionTasks)
	}
	publishChanges(ctx, s.broker, userID, changed...)

	return result, nil
}

// ClaimReward redeems a reward against the acting user's ledger.
func (s *LedgerService) ClaimReward(ctx context.Context, userID, rewardID uint64) (*repository.ClaimRewardResult, error) {
	result, err := s.ledgerRepo.ClaimReward(userID, rewardID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrRewardNotFound
		case errors.Is(err, repository.ErrInsufficientScore):
			return nil, ErrInsufficientScore
		case errors.Is(err, repository.ErrNoScoreRecord):
			return nil, ErrNoScoreRecord
		}
		return nil, fmt.Errorf("failed to claim reward: %w", err)
	}

	publishChanges(ctx, s.broker, userID,
		gateway.CollectionRewards, gateway.CollectionActivities, gateway.CollectionScore)

	return result, nil
}

// DeleteActivity undoes a prior completion or claim, restoring the score to
// its value before the original mutation.
func (s *LedgerService) DeleteActivity(ctx context.Context, userID, activityID uint64) (*repository.DeleteActivityResult, error) {
	result, err := s.ledgerRepo.DeleteActivity(userID, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to delete activity: %w", err)
	}

	changed := []gateway.Collection{gateway.CollectionActivities, gateway.CollectionScore}
	if result.Task != nil {
		changed = append(changed, gateway.CollectionTasks)
	}
	if result.Reward != nil {
		changed = append(changed, gateway.CollectionRewards)
	}
	publishChanges(ctx, s.broker, userID, changed...)

	return result, nil
}

// GetScore returns the user's score record, initializing it when missing.
func (s *LedgerService) GetScore(userID uint64) (*models.UserScore, error) {
	score, err := s.scoreRepo.GetOrInit(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load score: %w", err)
	}
	return score, nil
}

// ScoreAudit compares the score record against the signed sum of the
// activity ledger.
type ScoreAudit struct {
	Score        models.UserScore
	ActivitySum  int
	IsConsistent bool
}

// AuditScore verifies the ledger invariant for a user: the current score
// equals the sum of all activity point deltas, unless AdjustScore was used.
func (s *LedgerService) AuditScore(userID uint64) (*ScoreAudit, error) {
	score, err := s.scoreRepo.GetOrInit(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load score: %w", err)
	}

	sum, err := s.scoreRepo.SumActivityPoints(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum activity points: %w", err)
	}

	return &ScoreAudit{
		Score:        *score,
		ActivitySum:  sum,
		IsConsistent: score.CurrentScore == sum,
	}, nil
}

// AdjustScore applies a bare point delta outside the activity ledger. This
// is an administrative correction tool: it deliberately breaks the invariant
// that the score equals the activity sum, and leaves no activity record.
func (s *LedgerService) AdjustScore(ctx context.Context, userID uint64, delta int) (*models.UserScore, error) {
	score, err := s.scoreRepo.Adjust(userID, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust score: %w", err)
	}

	publishChanges(ctx, s.broker, userID, gateway.CollectionScore)
	return score, nil
}
