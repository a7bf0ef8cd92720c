package repository

import (
	"github.com/yukikurage/habitsync-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// ListByUser retrieves all tasks owned by a user, unordered
	ListByUser(userID uint64) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error
}

// RewardRepository defines the interface for reward data access
type RewardRepository interface {
	// Create creates a new reward
	Create(reward *models.Reward) error

	// FindByID finds a reward by ID
	FindByID(id uint64) (*models.Reward, error)

	// ListByUser retrieves all rewards owned by a user, unordered
	ListByUser(userID uint64) ([]models.Reward, error)

	// Update updates a reward
	Update(reward *models.Reward) error

	// Delete soft deletes a reward
	Delete(id uint64) error
}

// ActivityRepository defines the interface for activity record access.
// Activities are only created and deleted through LedgerRepository
// transactions; this interface is read-only.
type ActivityRepository interface {
	// FindByID finds an activity record by ID
	FindByID(id uint64) (*models.Activity, error)

	// ListByUser retrieves all activity records owned by a user, unordered
	ListByUser(userID uint64) ([]models.Activity, error)

	// ListPage retrieves one page of a user's activity history, newest first
	ListPage(userID uint64, limit, offset int) ([]models.Activity, error)

	// CountByUser returns the number of activity records for a user
	CountByUser(userID uint64) (int64, error)
}

// ScoreRepository defines the interface for the per-user score document
type ScoreRepository interface {
	// Find returns the score record for a user
	Find(userID uint64) (*models.UserScore, error)

	// GetOrInit returns the score record, creating a zeroed one if missing
	GetOrInit(userID uint64) (*models.UserScore, error)

	// SumActivityPoints returns the signed sum of the user's activity deltas
	SumActivityPoints(userID uint64) (int, error)

	// Adjust applies a bare score delta outside the activity ledger.
	// Administrative escape hatch only: it breaks the invariant that the
	// score equals the sum of activity deltas.
	Adjust(userID uint64, delta int) (*models.UserScore, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error
}

// PairingRepository defines the interface for invitations and partner links
type PairingRepository interface {
	// CreateInvitation creates a new pair invitation
	CreateInvitation(inv *models.PairInvitation) error

	// FindInvitation finds an invitation by ID
	FindInvitation(id uint64) (*models.PairInvitation, error)

	// ListPendingByEmail lists pending invitations addressed to an email
	ListPendingByEmail(email string) ([]models.PairInvitation, error)

	// Accept flips the invitation to accepted and writes both partner links
	// in a single transaction.
	Accept(inv *models.PairInvitation, userID, partnerID uint64) error

	// Reject flips the invitation to rejected
	Reject(inv *models.PairInvitation) error

	// FindPair returns the partner link for a user
	FindPair(userID uint64) (*models.UserPair, error)

	// DeletePair removes both directions of a partner link transactionally
	DeletePair(userID, partnerID uint64) error
}
