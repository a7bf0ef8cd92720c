package models

import (
	"time"

	"gorm.io/gorm"
)

type ActivityType string

const (
	ActivityTaskCompleted ActivityType = "task_completed"
	ActivityRewardClaimed ActivityType = "reward_claimed"
)

// ActivityMetadata carries auxiliary display data for an activity record.
type ActivityMetadata struct {
	TaskType       TaskType `json:"taskType,omitempty"`
	RewardCategory string   `json:"rewardCategory,omitempty"`
}

// Activity is a ledger entry pairing a point delta with its cause.
// TaskName is a display label captured at write time so history survives
// renames and deletions of the source record. The signed sum of PointsEarned
// over a user's activities equals that user's current score.
type Activity struct {
	ID            uint64           `gorm:"primarykey" json:"id"`
	UserID        uint64           `gorm:"not null;index" json:"userId"`
	TaskName      string           `gorm:"type:varchar(255);not null" json:"taskName"`
	PointsEarned  int              `gorm:"not null" json:"pointsEarned"`
	Type          ActivityType     `gorm:"type:varchar(20);not null" json:"type"`
	Timestamp     time.Time        `gorm:"not null" json:"timestamp"`
	RelatedID     *uint64          `json:"relatedId"`
	PreviousScore *int             `json:"previousScore,omitempty"`
	NewScore      *int             `json:"newScore,omitempty"`
	Metadata      ActivityMetadata `gorm:"serializer:json" json:"metadata"`
	DeletedAt     gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
