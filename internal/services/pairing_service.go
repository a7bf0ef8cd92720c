package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/habitsync-api/internal/models"
	"github.com/yukikurage/habitsync-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvitationNotFound   = errors.New("invitation not found")
	ErrSelfInvitation       = errors.New("cannot invite yourself")
	ErrRecipientNotFound    = errors.New("no account registered under that email")
	ErrInvitationNotPending = errors.New("invitation is no longer pending")
	ErrNotInvitee           = errors.New("invitation is addressed to a different user")
	ErrNotPaired            = errors.New("user has no partner")
)

// PairingService handles invitation lifecycle and partner links. Pairing
// grants the partner a read-only view over the owner's data; it never
// touches tasks, rewards or activities.
type PairingService struct {
	pairingRepo repository.PairingRepository
	userRepo    repository.UserRepository
}

// NewPairingService creates a new PairingService
func NewPairingService(pairingRepo repository.PairingRepository, userRepo repository.UserRepository) *PairingService {
	return &PairingService{
		pairingRepo: pairingRepo,
		userRepo:    userRepo,
	}
}

// SendInvitationInput represents input for sending a pair invitation
type SendInvitationInput struct {
	FromUserID uint64
	ToEmail    string
}

// SendInvitation creates a pending invitation addressed to an email.
func (s *PairingService) SendInvitation(ctx context.Context, input SendInvitationInput) (*models.PairInvitation, error) {
	from, err := s.userRepo.FindByID(input.FromUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find sender: %w", err)
	}

	toEmail := strings.ToLower(strings.TrimSpace(input.ToEmail))
	if toEmail == "" {
		return nil, ErrEmailRequired
	}
	if strings.EqualFold(toEmail, from.Email) {
		return nil, ErrSelfInvitation
	}

	if _, err := s.userRepo.FindByEmail(toEmail); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("failed to check recipient: %w", err)
	}

	fromName := from.Username
	if fromName == "" {
		fromName = from.Email
	}

	invitation := &models.PairInvitation{
		FromUserID:   from.ID,
		FromUserName: fromName,
		ToEmail:      toEmail,
		Status:       models.InvitationPending,
	}

	if err := s.pairingRepo.CreateInvitation(invitation); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	return invitation, nil
}

// ListIncoming returns the pending invitations addressed to the user.
func (s *PairingService) ListIncoming(userID uint64) ([]models.PairInvitation, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	invitations, err := s.pairingRepo.ListPendingByEmail(strings.ToLower(user.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}

	return invitations, nil
}

// Accept flips a pending invitation to accepted and links both users.
// Accepting while already paired replaces the accepting user's link; the
// upsert keeps the outcome deterministic.
func (s *PairingService) Accept(ctx context.Context, invitationID, actorID uint64) (*models.PairInvitation, error) {
	invitation, err := s.findAddressedInvitation(invitationID, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.pairingRepo.Accept(invitation, actorID, invitation.FromUserID); err != nil {
		return nil, fmt.Errorf("failed to accept invitation: %w", err)
	}

	return invitation, nil
}

// Reject flips a pending invitation to rejected. No other state changes.
func (s *PairingService) Reject(ctx context.Context, invitationID, actorID uint64) (*models.PairInvitation, error) {
	invitation, err := s.findAddressedInvitation(invitationID, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.pairingRepo.Reject(invitation); err != nil {
		return nil, fmt.Errorf("failed to reject invitation: %w", err)
	}

	return invitation, nil
}

// GetPartner returns the user's partner link.
func (s *PairingService) GetPartner(userID uint64) (*models.UserPair, error) {
	pair, err := s.pairingRepo.FindPair(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotPaired
		}
		return nil, fmt.Errorf("failed to find pair: %w", err)
	}
	return pair, nil
}

// PartnerID returns the partner's user ID, or 0 when unpaired.
func (s *PairingService) PartnerID(userID uint64) (uint64, error) {
	pair, err := s.GetPartner(userID)
	if err != nil {
		if errors.Is(err, ErrNotPaired) {
			return 0, nil
		}
		return 0, err
	}
	return pair.PartnerID, nil
}

// Unpair removes both directions of the user's partner link.
func (s *PairingService) Unpair(ctx context.Context, userID uint64) error {
	pair, err := s.GetPartner(userID)
	if err != nil {
		return err
	}

	if err := s.pairingRepo.DeletePair(pair.UserID, pair.PartnerID); err != nil {
		return fmt.Errorf("failed to unpair: %w", err)
	}

	return nil
}

func (s *PairingService) findAddressedInvitation(invitationID, actorID uint64) (*models.PairInvitation, error) {
	invitation, err := s.pairingRepo.FindInvitation(invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}

	if invitation.Status != models.InvitationPending {
		return nil, ErrInvitationNotPending
	}

	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !strings.EqualFold(invitation.ToEmail, actor.Email) {
		return nil, ErrNotInvitee
	}

	return invitation, nil
}
