package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskType string

const (
	TaskTypeDaily       TaskType = "daily"
	TaskTypeAchievement TaskType = "achievement"
	TaskTypeBadHabit    TaskType = "bad_habit"
)

// Task is a repeatable or one-time action worth a signed point value.
// Daily and achievement tasks carry positive points, bad habits negative.
// IsAchieved is only meaningful for achievement tasks: it flips true when
// the task is completed and back to false only when the completion is undone.
type Task struct {
	ID         uint64         `gorm:"primarykey" json:"id"`
	UserID     uint64         `gorm:"not null;index" json:"userId"`
	Name       string         `gorm:"type:varchar(255);not null" json:"name"`
	Type       TaskType       `gorm:"type:varchar(20);not null;default:'daily'" json:"type"`
	PointValue int            `gorm:"not null" json:"pointValue"`
	IsAchieved bool           `gorm:"not null;default:false" json:"isAchieved"`
	IsActive   bool           `gorm:"not null;default:true" json:"isActive"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
