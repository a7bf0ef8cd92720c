package dto

import (
	"time"

	"github.com/yukikurage/habitsync-api/internal/models"
)

// RewardDTO represents a reward in API responses
type RewardDTO struct {
	ID          uint64     `json:"id"`
	UserID      uint64     `json:"userId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	PointCost   int        `json:"pointCost"`
	IsClaimed   bool       `json:"isClaimed"`
	ClaimedAt   *time.Time `json:"claimedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ToRewardDTO converts a Reward model to RewardDTO
func ToRewardDTO(reward models.Reward) RewardDTO {
	return RewardDTO{
		ID:          reward.ID,
		UserID:      reward.UserID,
		Name:        reward.Name,
		Description: reward.Description,
		PointCost:   reward.PointCost,
		IsClaimed:   reward.IsClaimed,
		ClaimedAt:   reward.ClaimedAt,
		CreatedAt:   reward.CreatedAt,
		UpdatedAt:   reward.UpdatedAt,
	}
}

// ToRewardDTOs converts a slice of Reward models
func ToRewardDTOs(rewards []models.Reward) []RewardDTO {
	dtos := make([]RewardDTO, len(rewards))
	for i, reward := range rewards {
		dtos[i] = ToRewardDTO(reward)
	}
	return dtos
}
