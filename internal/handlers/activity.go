package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/habitsync-api/internal/dto"
	apierrors "github.com/yukikurage/habitsync-api/internal/errors"
	"github.com/yukikurage/habitsync-api/internal/middleware"
	"github.com/yukikurage/habitsync-api/internal/repository"
	"github.com/yukikurage/habitsync-api/internal/services"
	"github.com/yukikurage/habitsync-api/internal/utils"
)

// ActivityHandler serves the activity ledger: paginated history reads and
// the undo endpoint.
type ActivityHandler struct {
	activityRepo  repository.ActivityRepository
	ledgerService *services.LedgerService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activityRepo repository.ActivityRepository, ledgerService *services.LedgerService) *ActivityHandler {
	return &ActivityHandler{
		activityRepo:  activityRepo,
		ledgerService: ledgerService,
	}
}

// ListActivities returns a page of the user's activity history, newest first.
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.PageFromQuery(c)

	total, err := h.activityRepo.CountByUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to count activities")
		return
	}

	activities, err := h.activityRepo.ListPage(userID, params.Limit, params.Offset())
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch activities")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activities": dto.ToActivityDTOs(activities),
		"pagination": utils.PageResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// DeleteActivity undoes the completion or claim behind an activity record.
// The score returns to its value before the original mutation.
func (h *ActivityHandler) DeleteActivity(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	activityID, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.ledgerService.DeleteActivity(c.Request.Context(), userID, activityID)
	if err != nil {
		respondActivityError(c, err)
		return
	}

	response := gin.H{
		"activity": dto.ToActivityDTO(result.Activity),
		"score":    dto.ToScoreDTO(result.Score),
	}
	if result.Task != nil {
		response["task"] = dto.ToTaskDTO(*result.Task)
	}
	if result.Reward != nil {
		response["reward"] = dto.ToRewardDTO(*result.Reward)
	}

	c.JSON(http.StatusOK, response)
}

func respondActivityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrActivityNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
