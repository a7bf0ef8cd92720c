package dto

import (
	"time"

	"github.com/yukikurage/habitsync-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID         uint64          `json:"id"`
	UserID     uint64          `json:"userId"`
	Name       string          `json:"name"`
	Type       models.TaskType `json:"type"`
	PointValue int             `json:"pointValue"`
	IsAchieved bool            `json:"isAchieved"`
	IsActive   bool            `json:"isActive"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:         task.ID,
		UserID:     task.UserID,
		Name:       task.Name,
		Type:       task.Type,
		PointValue: task.PointValue,
		IsAchieved: task.IsAchieved,
		IsActive:   task.IsActive,
		CreatedAt:  task.CreatedAt,
		UpdatedAt:  task.UpdatedAt,
	}
}

// ToTaskDTOs converts a slice of Task models
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}
