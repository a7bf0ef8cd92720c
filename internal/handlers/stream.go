package handlers

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/habitsync-api/internal/appstate"
	"github.com/yukikurage/habitsync-api/internal/dto"
	apierrors "github.com/yukikurage/habitsync-api/internal/errors"
	"github.com/yukikurage/habitsync-api/internal/gateway"
	"github.com/yukikurage/habitsync-api/internal/middleware"
	"github.com/yukikurage/habitsync-api/internal/models"
	"github.com/yukikurage/habitsync-api/internal/services"
)

// StreamHandler serves the live state stream over SSE. Each connection owns
// one reducer state folded in a single loop, fed by gateway subscriptions
// for the user and, when paired, the partner. Every frame carries the full
// state, so a missed event costs nothing once the next frame arrives.
type StreamHandler struct {
	gateway        *gateway.Gateway
	pairingService *services.PairingService
}

// NewStreamHandler creates a new StreamHandler
func NewStreamHandler(gw *gateway.Gateway, pairingService *services.PairingService) *StreamHandler {
	return &StreamHandler{
		gateway:        gw,
		pairingService: pairingService,
	}
}

// Stream opens the SSE connection. Optional query parameters tab and view
// seed the UI portion of the state.
func (h *StreamHandler) Stream(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	partnerID, err := h.pairingService.PartnerID(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to resolve partner")
		return
	}

	ctx := c.Request.Context()
	state := appstate.NewState(userID, partnerID)

	switch appstate.Tab(c.Query("tab")) {
	case appstate.TabRewards:
		state = appstate.Reduce(state, appstate.SetActiveTab{Tab: appstate.TabRewards})
	case appstate.TabActivity:
		state = appstate.Reduce(state, appstate.SetActiveTab{Tab: appstate.TabActivity})
	}
	if appstate.ViewTarget(c.Query("view")) == appstate.ViewOther && partnerID != 0 {
		state = appstate.Reduce(state, appstate.SetViewing{Target: appstate.ViewOther})
	}

	// Every collection starts loading; the initial snapshots clear the flags
	// one by one as they land.
	for _, collection := range []gateway.Collection{
		gateway.CollectionTasks,
		gateway.CollectionRewards,
		gateway.CollectionActivities,
		gateway.CollectionScore,
	} {
		state = appstate.Reduce(state, appstate.SetLoading{Collection: collection, Loading: true})
	}

	// Buffer holds the eight initial snapshots delivered synchronously
	// during subscription, before the stream loop starts draining.
	actions := make(chan appstate.Action, 64)
	push := func(action appstate.Action) {
		select {
		case actions <- action:
		case <-ctx.Done():
		}
	}

	var subs []gateway.Unsubscribe
	defer func() {
		for _, stop := range subs {
			stop()
		}
	}()

	if err := h.subscribeUser(ctx, userID, push, &subs); err != nil {
		apierrors.InternalError(c, "Failed to open stream")
		return
	}
	if partnerID != 0 {
		if err := h.subscribeUser(ctx, partnerID, push, &subs); err != nil {
			apierrors.InternalError(c, "Failed to open stream")
			return
		}
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case action := <-actions:
			state = appstate.Reduce(state, action)
			// Coalesce whatever else is already queued into the same frame.
			for {
				select {
				case next := <-actions:
					state = appstate.Reduce(state, next)
					continue
				default:
				}
				break
			}
			c.SSEvent("state", dto.ToStateDTO(state))
			return true
		}
	})
}

// subscribeUser opens the four collection subscriptions for one user and
// records the unsubscribe handles. Snapshot errors after the initial
// delivery surface as SnapshotFailed actions, not stream termination.
func (h *StreamHandler) subscribeUser(ctx context.Context, userID uint64, push func(appstate.Action), subs *[]gateway.Unsubscribe) error {
	fail := func(collection gateway.Collection) func(error) {
		return func(err error) {
			push(appstate.SnapshotFailed{
				UserID:     userID,
				Collection: collection,
				Message:    err.Error(),
			})
		}
	}

	unsubTasks, err := h.gateway.SubscribeTasks(ctx, userID, func(tasks []models.Task) {
		push(appstate.TasksSnapshot{UserID: userID, Tasks: tasks})
	}, fail(gateway.CollectionTasks))
	if err != nil {
		return err
	}
	*subs = append(*subs, unsubTasks)

	unsubRewards, err := h.gateway.SubscribeRewards(ctx, userID, func(rewards []models.Reward) {
		push(appstate.RewardsSnapshot{UserID: userID, Rewards: rewards})
	}, fail(gateway.CollectionRewards))
	if err != nil {
		return err
	}
	*subs = append(*subs, unsubRewards)

	unsubActivities, err := h.gateway.SubscribeActivities(ctx, userID, func(activities []models.Activity) {
		push(appstate.ActivitiesSnapshot{UserID: userID, Activities: activities})
	}, fail(gateway.CollectionActivities))
	if err != nil {
		return err
	}
	*subs = append(*subs, unsubActivities)

	unsubScore, err := h.gateway.SubscribeScore(ctx, userID, func(score models.UserScore) {
		push(appstate.ScoreSnapshot{UserID: userID, Score: score})
	}, fail(gateway.CollectionScore))
	if err != nil {
		return err
	}
	*subs = append(*subs, unsubScore)

	return nil
}
