package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/habitsync-api/internal/dto"
	apierrors "github.com/yukikurage/habitsync-api/internal/errors"
	"github.com/yukikurage/habitsync-api/internal/middleware"
	"github.com/yukikurage/habitsync-api/internal/services"
)

// PairingHandler coordinates invitation and partner link endpoints.
type PairingHandler struct {
	pairingService *services.PairingService
	authService    *services.AuthService
}

// NewPairingHandler creates a new PairingHandler
func NewPairingHandler(pairingService *services.PairingService, authService *services.AuthService) *PairingHandler {
	return &PairingHandler{
		pairingService: pairingService,
		authService:    authService,
	}
}

// SendInvitation creates a pending invitation addressed to another user's
// email.
func (h *PairingHandler) SendInvitation(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type SendInvitationRequest struct {
		ToEmail string `json:"toEmail" binding:"required,email"`
	}

	var req SendInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	invitation, err := h.pairingService.SendInvitation(c.Request.Context(), services.SendInvitationInput{
		FromUserID: userID,
		ToEmail:    req.ToEmail,
	})
	if err != nil {
		respondPairingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToInvitationDTO(*invitation))
}

// ListInvitations returns the pending invitations addressed to the user.
func (h *PairingHandler) ListInvitations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	invitations, err := h.pairingService.ListIncoming(userID)
	if err != nil {
		respondPairingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invitations": dto.ToInvitationDTOs(invitations),
	})
}

// AcceptInvitation accepts a pending invitation and links both users.
func (h *PairingHandler) AcceptInvitation(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	invitationID, ok := parseIDParam(c)
	if !ok {
		return
	}

	invitation, err := h.pairingService.Accept(c.Request.Context(), invitationID, userID)
	if err != nil {
		respondPairingError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInvitationDTO(*invitation))
}

// RejectInvitation rejects a pending invitation. No pairing state changes.
func (h *PairingHandler) RejectInvitation(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	invitationID, ok := parseIDParam(c)
	if !ok {
		return
	}

	invitation, err := h.pairingService.Reject(c.Request.Context(), invitationID, userID)
	if err != nil {
		respondPairingError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInvitationDTO(*invitation))
}

// GetPartner returns the caller's partner link and the partner's profile.
func (h *PairingHandler) GetPartner(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	pair, err := h.pairingService.GetPartner(userID)
	if err != nil {
		respondPairingError(c, err)
		return
	}

	partner, err := h.authService.GetUser(pair.PartnerID)
	if err != nil {
		respondPairingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pair":    dto.ToPairDTO(*pair),
		"partner": dto.ToUserDTO(*partner),
	})
}

// Unpair removes the partner link in both directions.
func (h *PairingHandler) Unpair(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.pairingService.Unpair(c.Request.Context(), userID); err != nil {
		respondPairingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Unpaired successfully",
	})
}

func respondPairingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvitationNotFound),
		errors.Is(err, services.ErrNotPaired),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrRecipientNotFound),
		errors.Is(err, services.ErrSelfInvitation),
		errors.Is(err, services.ErrEmailRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvitationNotPending):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotInvitee):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
