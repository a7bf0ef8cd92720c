package models

import "time"

// UserScore is the per-user score ledger. It is only ever written by the
// ledger transactions (complete task, claim reward, undo) plus the
// administrative adjust escape hatch, which bypasses the activity ledger.
// CurrentScore may go negative; no floor is enforced.
type UserScore struct {
	UserID         uint64    `gorm:"primarykey" json:"userId"`
	CurrentScore   int       `gorm:"not null;default:0" json:"currentScore"`
	TotalEarned    int       `gorm:"not null;default:0" json:"totalEarned"`
	TotalSpent     int       `gorm:"not null;default:0" json:"totalSpent"`
	TasksCompleted int       `gorm:"not null;default:0" json:"tasksCompleted"`
	RewardsClaimed int       `gorm:"not null;default:0" json:"rewardsClaimed"`
	LastUpdated    time.Time `json:"lastUpdated"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
