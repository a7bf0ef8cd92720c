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
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskNameRequired  = errors.New("task name is required")
	ErrInvalidTaskType   = errors.New("invalid task type")
	ErrInvalidPointValue = errors.New("point value does not match task type")
	ErrNotTaskOwner      = errors.New("only the task owner can perform this action")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	broker   gateway.Broker
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, broker gateway.Broker) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		broker:   broker,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	UserID     uint64
	Name       string
	Type       models.TaskType
	PointValue int
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Name       *string
	PointValue *int
	IsActive   *bool
}

// CreateTask creates a new task with validation
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTaskNameRequired
	}
	if err := validatePointValue(input.Type, input.PointValue); err != nil {
		return nil, err
	}

	task := &models.Task{
		UserID:     input.UserID,
		Name:       name,
		Type:       input.Type,
		PointValue: input.PointValue,
		IsActive:   true,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	publishChanges(ctx, s.broker, input.UserID, gateway.CollectionTasks)
	return task, nil
}

// UpdateTask updates an existing task owned by the actor
func (s *TaskService) UpdateTask(ctx context.Context, taskID, actorID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findOwnedTask(taskID, actorID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrTaskNameRequired
		}
		task.Name = name
	}
	if input.PointValue != nil {
		if err := validatePointValue(task.Type, *input.PointValue); err != nil {
			return nil, err
		}
		task.PointValue = *input.PointValue
	}
	if input.IsActive != nil {
		task.IsActive = *input.IsActive
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	publishChanges(ctx, s.broker, actorID, gateway.CollectionTasks)
	return task, nil
}

// DeleteTask deletes a task owned by the actor. Activity records referencing
// the task keep their captured name and point delta.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, actorID uint64) error {
	task, err := s.findOwnedTask(taskID, actorID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	publishChanges(ctx, s.broker, actorID, gateway.CollectionTasks)
	return nil
}

// GetTask returns a task owned by the actor
func (s *TaskService) GetTask(taskID, actorID uint64) (*models.Task, error) {
	return s.findOwnedTask(taskID, actorID)
}

func (s *TaskService) findOwnedTask(taskID, actorID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.UserID != actorID {
		return nil, ErrNotTaskOwner
	}

	return task, nil
}

// validatePointValue enforces the sign convention per task type: daily and
// achievement tasks are worth positive points, bad habits negative.
func validatePointValue(taskType models.TaskType, pointValue int) error {
	switch taskType {
	case models.TaskTypeDaily, models.TaskTypeAchievement:
		if pointValue <= 0 {
			return ErrInvalidPointValue
		}
	case models.TaskTypeBadHabit:
		if pointValue >= 0 {
			return ErrInvalidPointValue
		}
	default:
		return ErrInvalidTaskType
	}
	return nil
}
