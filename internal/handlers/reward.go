package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/habitsync-api/internal/dto"
	apierrors "github.com/yukikurage/habitsync-api/internal/errors"
	"github.com/yukikurage/habitsync-api/internal/gateway"
	"github.com/yukikurage/habitsync-api/internal/middleware"
	"github.com/yukikurage/habitsync-api/internal/services"
)

// RewardHandler coordinates reward CRUD and claim endpoints.
type RewardHandler struct {
	rewardService *services.RewardService
	ledgerService *services.LedgerService
	gateway       *gateway.Gateway
}

// NewRewardHandler creates a new RewardHandler
func NewRewardHandler(rewardService *services.RewardService, ledgerService *services.LedgerService, gw *gateway.Gateway) *RewardHandler {
	return &RewardHandler{
		rewardService: rewardService,
		ledgerService: ledgerService,
		gateway:       gw,
	}
}

// ListRewards returns the authenticated user's rewards, newest first.
func (h *RewardHandler) ListRewards(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	rewards, err := h.gateway.GetRewards(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch rewards")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rewards": dto.ToRewardDTOs(rewards),
	})
}

// GetReward returns one of the user's rewards by ID.
func (h *RewardHandler) GetReward(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	rewardID, ok := parseIDParam(c)
	if !ok {
		return
	}

	reward, err := h.rewardService.GetReward(rewardID, userID)
	if err != nil {
		respondRewardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRewardDTO(*reward))
}

// CreateReward creates a new reward for the authenticated user.
func (h *RewardHandler) CreateReward(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateRewardRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		PointCost   int    `json:"pointCost" binding:"required"`
	}

	var req CreateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	reward, err := h.rewardService.CreateReward(c.Request.Context(), services.CreateRewardInput{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		PointCost:   req.PointCost,
	})
	if err != nil {
		respondRewardError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRewardDTO(*reward))
}

// UpdateReward updates an existing reward. Only provided fields change.
func (h *RewardHandler) UpdateReward(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	rewardID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateRewardRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		PointCost   *int    `json:"pointCost"`
	}

	var req UpdateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	reward, err := h.rewardService.UpdateReward(c.Request.Context(), rewardID, userID, services.UpdateRewardInput{
		Name:        req.Name,
		Description: req.Description,
		PointCost:   req.PointCost,
	})
	if err != nil {
		respondRewardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRewardDTO(*reward))
}

// DeleteReward removes a reward. Existing activity records keep their
// captured name and point delta.
func (h *RewardHandler) DeleteReward(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	rewardID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.rewardService.DeleteReward(c.Request.Context(), rewardID, userID); err != nil {
		respondRewardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reward deleted successfully",
	})
}

// ClaimReward redeems a reward against the user's score and returns the
// resulting reward, activity record and score.
func (h *RewardHandler) ClaimReward(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	rewardID, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.ledgerService.ClaimReward(c.Request.Context(), userID, rewardID)
	if err != nil {
		respondRewardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reward":   dto.ToRewardDTO(result.Reward),
		"activity": dto.ToActivityDTO(result.Activity),
		"score":    dto.ToScoreDTO(result.Score),
	})
}

func respondRewardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRewardNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotRewardOwner):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrRewardNameRequired),
		errors.Is(err, services.ErrInvalidPointCost):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInsufficientScore):
		apierrors.InsufficientScore(c, err.Error())
	case errors.Is(err, services.ErrNoScoreRecord):
		apierrors.NoScoreRecord(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
