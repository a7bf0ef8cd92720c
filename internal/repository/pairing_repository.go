package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/habitsync-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrUpdateInvitation is returned when flipping an invitation status fails
	// inside the accept transaction.
	ErrUpdateInvitation = errors.New("pairing repository: update invitation failed")
	// ErrWritePairLinks is returned when writing the partner links fails
	// inside the accept transaction.
	ErrWritePairLinks = errors.New("pairing repository: write pair links failed")
)

// GormPairingRepository is a GORM implementation of PairingRepository
type GormPairingRepository struct {
	db *gorm.DB
}

// NewPairingRepository creates a new PairingRepository
func NewPairingRepository(db *gorm.DB) PairingRepository {
	return &GormPairingRepository{db: db}
}

// CreateInvitation creates a new pair invitation
func (r *GormPairingRepository) CreateInvitation(inv *models.PairInvitation) error {
	return r.db.Create(inv).Error
}

// FindInvitation finds an invitation by ID
func (r *GormPairingRepository) FindInvitation(id uint64) (*models.PairInvitation, error) {
	var inv models.PairInvitation
	if err := r.db.First(&inv, id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListPendingByEmail lists pending invitations addressed to an email
func (r *GormPairingRepository) ListPendingByEmail(email string) ([]models.PairInvitation, error) {
	var invitations []models.PairInvitation
	err := r.db.
		Where("to_email = ? AND status = ?", email, models.InvitationPending).
		Find(&invitations).Error
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

// Accept flips the invitation to accepted and writes both directions of the
// partner link in one transaction. Links are upserted, so accepting while
// already paired replaces the previous link.
func (r *GormPairingRepository) Accept(inv *models.PairInvitation, userID, partnerID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		inv.Status = models.InvitationAccepted
		inv.AcceptedAt = &now
		inv.UpdatedAt = now
		if err := tx.Save(inv).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrUpdateInvitation, err)
		}

		pairs := []models.UserPair{
			{UserID: userID, PartnerID: partnerID},
			{UserID: partnerID, PartnerID: userID},
		}
		err := tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"partner_id", "updated_at"}),
			}).
			Create(&pairs).Error
		if err != nil {
			return fmt.Errorf("%w: %v", ErrWritePairLinks, err)
		}

		return nil
	})
}

// Reject flips the invitation to rejected
func (r *GormPairingRepository) Reject(inv *models.PairInvitation) error {
	now := time.Now()
	inv.Status = models.InvitationRejected
	inv.RejectedAt = &now
	inv.UpdatedAt = now
	return r.db.Save(inv).Error
}

// FindPair returns the partner link for a user
func (r *GormPairingRepository) FindPair(userID uint64) (*models.UserPair, error) {
	var pair models.UserPair
	if err := r.db.Where("user_id = ?", userID).First(&pair).Error; err != nil {
		return nil, err
	}
	return &pair, nil
}

// DeletePair removes both directions of a partner link transactionally
func (r *GormPairingRepository) DeletePair(userID, partnerID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserPair{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", partnerID).Delete(&models.UserPair{}).Error
	})
}
