package dto

import (
	"time"

	"github.com/yukikurage/habitsync-api/internal/models"
)

// InvitationDTO represents a pair invitation in API responses
type InvitationDTO struct {
	ID           uint64                  `json:"id"`
	FromUserID   uint64                  `json:"fromUserId"`
	FromUserName string                  `json:"fromUserName"`
	ToEmail      string                  `json:"toEmail"`
	Status       models.InvitationStatus `json:"status"`
	CreatedAt    time.Time               `json:"createdAt"`
	AcceptedAt   *time.Time              `json:"acceptedAt,omitempty"`
	RejectedAt   *time.Time              `json:"rejectedAt,omitempty"`
}

// PairDTO represents the caller's side of a partner link
type PairDTO struct {
	UserID    uint64    `json:"userId"`
	PartnerID uint64    `json:"partnerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToInvitationDTO converts a PairInvitation model to InvitationDTO
func ToInvitationDTO(invitation models.PairInvitation) InvitationDTO {
	return InvitationDTO{
		ID:           invitation.ID,
		FromUserID:   invitation.FromUserID,
		FromUserName: invitation.FromUserName,
		ToEmail:      invitation.ToEmail,
		Status:       invitation.Status,
		CreatedAt:    invitation.CreatedAt,
		AcceptedAt:   invitation.AcceptedAt,
		RejectedAt:   invitation.RejectedAt,
	}
}

// ToInvitationDTOs converts a slice of PairInvitation models
func ToInvitationDTOs(invitations []models.PairInvitation) []InvitationDTO {
	dtos := make([]InvitationDTO, len(invitations))
	for i, invitation := range invitations {
		dtos[i] = ToInvitationDTO(invitation)
	}
	return dtos
}

// ToPairDTO converts a UserPair model to PairDTO
func ToPairDTO(pair models.UserPair) PairDTO {
	return PairDTO{
		UserID:    pair.UserID,
		PartnerID: pair.PartnerID,
		CreatedAt: pair.CreatedAt,
	}
}
