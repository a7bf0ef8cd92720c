package models

import (
	"time"

	"gorm.io/gorm"
)

// Reward is a self-defined redeemable item costing points. IsClaimed flips
// true through a claim transaction and back to false only through undo.
type Reward struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	UserID      uint64         `gorm:"not null;index" json:"userId"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	PointCost   int            `gorm:"not null" json:"pointCost"`
	IsClaimed   bool           `gorm:"not null;default:false" json:"isClaimed"`
	ClaimedAt   *time.Time     `json:"claimedAt"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
