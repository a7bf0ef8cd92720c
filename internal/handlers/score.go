package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/habitsync-api/internal/dto"
	apierrors "github.com/yukikurage/habitsync-api/internal/errors"
	"github.com/yukikurage/habitsync-api/internal/middleware"
	"github.com/yukikurage/habitsync-api/internal/services"
)

// ScoreHandler serves the score record, the ledger consistency audit and
// the administrative adjustment endpoint.
type ScoreHandler struct {
	ledgerService *services.LedgerService
}

// NewScoreHandler creates a new ScoreHandler
func NewScoreHandler(ledgerService *services.LedgerService) *ScoreHandler {
	return &ScoreHandler{
		ledgerService: ledgerService,
	}
}

// GetScore returns the user's score record, initializing it when missing.
func (h *ScoreHandler) GetScore(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	score, err := h.ledgerService.GetScore(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to load score")
		return
	}

	c.JSON(http.StatusOK, dto.ToScoreDTO(*score))
}

// AuditScore compares the score record against the signed sum of the
// activity ledger.
func (h *ScoreHandler) AuditScore(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	audit, err := h.ledgerService.AuditScore(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to audit score")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"score":        dto.ToScoreDTO(audit.Score),
		"activitySum":  audit.ActivitySum,
		"isConsistent": audit.IsConsistent,
	})
}

// AdjustScore applies a bare point delta outside the activity ledger. No
// activity record is written, so the audit will flag the difference.
func (h *ScoreHandler) AdjustScore(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type AdjustScoreRequest struct {
		Delta int `json:"delta" binding:"required"`
	}

	var req AdjustScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	score, err := h.ledgerService.AdjustScore(c.Request.Context(), userID, req.Delta)
	if err != nil {
		apierrors.InternalError(c, "Failed to adjust score")
		return
	}

	c.JSON(http.StatusOK, dto.ToScoreDTO(*score))
}
