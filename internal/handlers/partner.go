package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/habitsync-api/internal/dto"
	apierrors "github.com/yukikurage/habitsync-api/internal/errors"
	"github.com/yukikurage/habitsync-api/internal/gateway"
	"github.com/yukikurage/habitsync-api/internal/middleware"
)

// PartnerHandler serves the read-only views over the partner's collections.
// Routes are mounted behind RequirePartner, which resolves and stores the
// partner ID. No mutation endpoints exist for partner data.
type PartnerHandler struct {
	gateway *gateway.Gateway
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(gw *gateway.Gateway) *PartnerHandler {
	return &PartnerHandler{
		gateway: gw,
	}
}

// ListPartnerTasks returns the partner's tasks, newest first.
func (h *PartnerHandler) ListPartnerTasks(c *gin.Context) {
	partnerID, exists := middleware.GetPartnerID(c)
	if !exists {
		apierrors.NotFound(c, "No partner linked")
		return
	}

	tasks, err := h.gateway.GetTasks(partnerID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch partner tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks),
	})
}

// ListPartnerRewards returns the partner's rewards, newest first.
func (h *PartnerHandler) ListPartnerRewards(c *gin.Context) {
	partnerID, exists := middleware.GetPartnerID(c)
	if !exists {
		apierrors.NotFound(c, "No partner linked")
		return
	}

	rewards, err := h.gateway.GetRewards(partnerID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch partner rewards")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rewards": dto.ToRewardDTOs(rewards),
	})
}

// ListPartnerActivities returns the partner's recent activity, newest first.
func (h *PartnerHandler) ListPartnerActivities(c *gin.Context) {
	partnerID, exists := middleware.GetPartnerID(c)
	if !exists {
		apierrors.NotFound(c, "No partner linked")
		return
	}

	activities, err := h.gateway.GetActivities(partnerID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch partner activities")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activities": dto.ToActivityDTOs(activities),
	})
}

// GetPartnerScore returns the partner's score record.
func (h *PartnerHandler) GetPartnerScore(c *gin.Context) {
	partnerID, exists := middleware.GetPartnerID(c)
	if !exists {
		apierrors.NotFound(c, "No partner linked")
		return
	}

	score, err := h.gateway.GetScore(partnerID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch partner score")
		return
	}

	c.JSON(http.StatusOK, dto.ToScoreDTO(*score))
}
