package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/habitsync-api/internal/gateway"
	"github.com/yukikurage/habitsync-api/internal/models"
	"github.com/yukikurage/habitsync-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrRewardNotFound     = errors.New("reward not found")
	ErrRewardNameRequired = errors.New("reward name is required")
	ErrInvalidPointCost   = errors.New("point cost must be positive")
	ErrNotRewardOwner     = errors.New("only the reward owner can perform this action")
)

// RewardService handles reward business logic
type RewardService struct {
	rewardRepo repository.RewardRepository
	broker     gateway.Broker
}

// NewRewardService creates a new RewardService
func NewRewardService(rewardRepo repository.RewardRepository, broker gateway.Broker) *RewardService {
	return &RewardService{
		rewardRepo: rewardRepo,
		broker:     broker,
	}
}

// CreateRewardInput represents input for creating a reward
type CreateRewardInput struct {
	UserID      uint64
	Name        string
	Description string
	PointCost   int
}

// UpdateRewardInput represents input for updating a reward
type UpdateRewardInput struct {
	Name        *string
	Description *string
	PointCost   *int
}

// CreateReward creates a new reward with validation
func (s *RewardService) CreateReward(ctx context.Context, input CreateRewardInput) (*models.Reward, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrRewardNameRequired
	}
	if input.PointCost <= 0 {
		return nil, ErrInvalidPointCost
	}

	reward := &models.Reward{
		UserID:      input.UserID,
		Name:        name,
		Description: input.Description,
		PointCost:   input.PointCost,
	}

	if err := s.rewardRepo.Create(reward); err != nil {
		return nil, fmt.Errorf("failed to create reward: %w", err)
	}

	publishChanges(ctx, s.broker, input.UserID, gateway.CollectionRewards)
	return reward, nil
}

// UpdateReward updates an existing reward owned by the actor
func (s *RewardService) UpdateReward(ctx context.Context, rewardID, actorID uint64, input UpdateRewardInput) (*models.Reward, error) {
	reward, err := s.findOwnedReward(rewardID, actorID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrRewardNameRequired
		}
		reward.Name = name
	}
	if input.Description != nil {
		reward.Description = *input.Description
	}
	if input.PointCost != nil {
		if *input.PointCost <= 0 {
			return nil, ErrInvalidPointCost
		}
		reward.PointCost = *input.PointCost
	}

	if err := s.rewardRepo.Update(reward); err != nil {
		return nil, fmt.Errorf("failed to update reward: %w", err)
	}

	publishChanges(ctx, s.broker, actorID, gateway.CollectionRewards)
	return reward, nil
}

// DeleteReward deletes a reward owned by the actor
func (s *RewardService) DeleteReward(ctx context.Context, rewardID, actorID uint64) error {
	reward, err := s.findOwnedReward(rewardID, actorID)
	if err != nil {
		return err
	}

	if err := s.rewardRepo.Delete(reward.ID); err != nil {
		return fmt.Errorf("failed to delete reward: %w", err)
	}

	publishChanges(ctx, s.broker, actorID, gateway.CollectionRewards)
	return nil
}

// GetReward returns a reward owned by the actor
func (s *RewardService) GetReward(rewardID, actorID uint64) (*models.Reward, error) {
	return s.findOwnedReward(rewardID, actorID)
}

func (s *RewardService) findOwnedReward(rewardID, actorID uint64) (*models.Reward, error) {
	reward, err := s.rewardRepo.FindByID(rewardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRewardNotFound
		}
		return nil, fmt.Errorf("failed to find reward: %w", err)
	}

	if reward.UserID != actorID {
		return nil, ErrNotRewardOwner
	}

	return reward, nil
}
