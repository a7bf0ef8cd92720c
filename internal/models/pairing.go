package models

import (
	"time"

	"gorm.io/gorm"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

// PairInvitation is an invite from one user to another, addressed by email.
// Status moves pending -> accepted or pending -> rejected; both are terminal.
type PairInvitation struct {
	ID           uint64           `gorm:"primarykey" json:"id"`
	FromUserID   uint64           `gorm:"not null;index" json:"fromUserId"`
	FromUserName string           `gorm:"type:varchar(100)" json:"fromUserName"`
	ToEmail      string           `gorm:"type:varchar(255);not null;index" json:"toEmail"`
	Status       InvitationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	AcceptedAt   *time.Time       `json:"acceptedAt,omitempty"`
	RejectedAt   *time.Time       `json:"rejectedAt,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`
}

// UserPair is one direction of a symmetric partner link. Accepting an
// invitation writes both directions in a single transaction.
type UserPair struct {
	UserID    uint64    `gorm:"primarykey" json:"userId"`
	PartnerID uint64    `gorm:"not null" json:"partnerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
