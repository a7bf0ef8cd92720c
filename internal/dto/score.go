package dto

import (
	"time"

	"github.com/yukikurage/habitsync-api/internal/models"
)

// ScoreDTO represents a user's score record in API responses
type ScoreDTO struct {
	UserID         uint64    `json:"userId"`
	CurrentScore   int       `json:"currentScore"`
	TotalEarned    int       `json:"totalEarned"`
	TotalSpent     int       `json:"totalSpent"`
	TasksCompleted int       `json:"tasksCompleted"`
	RewardsClaimed int       `json:"rewardsClaimed"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// ToScoreDTO converts a UserScore model to ScoreDTO
func ToScoreDTO(score models.UserScore) ScoreDTO {
	return ScoreDTO{
		UserID:         score.UserID,
		CurrentScore:   score.CurrentScore,
		TotalEarned:    score.TotalEarned,
		TotalSpent:     score.TotalSpent,
		TasksCompleted: score.TasksCompleted,
		RewardsClaimed: score.RewardsClaimed,
		LastUpdated:    score.LastUpdated,
	}
}
