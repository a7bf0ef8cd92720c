package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/habitsync-api/internal/constants"
	"github.com/yukikurage/habitsync-api/internal/dto"
	"github.com/yukikurage/habitsync-api/internal/gateway"
	"github.com/yukikurage/habitsync-api/internal/models"
	"github.com/yukikurage/habitsync-api/internal/repository"
	"github.com/yukikurage/habitsync-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// closeNotifyRecorder adds the CloseNotify method gin's Stream helper
// requires, which httptest.ResponseRecorder does not implement.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func newCloseNotifyRecorder() *closeNotifyRecorder {
	return &closeNotifyRecorder{httptest.NewRecorder(), make(chan bool, 1)}
}

func (r *closeNotifyRecorder) CloseNotify() <-chan bool { return r.closed }

type streamTestEnv struct {
	db      *gorm.DB
	handler *StreamHandler
}

func setupStreamTestEnv(t *testing.T) streamTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Reward{},
		&models.Activity{},
		&models.UserScore{},
		&models.PairInvitation{},
		&models.UserPair{},
	)
	require.NoError(t, err)

	broker := gateway.NewMemoryBroker()
	gw := gateway.New(
		repository.NewTaskRepository(db),
		repository.NewRewardRepository(db),
		repository.NewActivityRepository(db),
		repository.NewScoreRepository(db),
		broker,
	)
	pairingService := services.NewPairingService(
		repository.NewPairingRepository(db),
		repository.NewUserRepository(db),
	)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		broker.Close()
		sqlDB.Close()
	})

	return streamTestEnv{
		db:      db,
		handler: NewStreamHandler(gw, pairingService),
	}
}

// runStream serves one SSE connection until the request context expires and
// returns the last full-state frame it emitted.
func runStream(t *testing.T, env streamTestEnv, userID uint64, target string) dto.StateDTO {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	w := newCloseNotifyRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyUserID, userID)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil).WithContext(ctx)

	env.handler.Stream(c)

	var lastFrame string
	for _, line := range strings.Split(w.Body.String(), "\n") {
		if strings.HasPrefix(line, "data:") {
			lastFrame = strings.TrimPrefix(line, "data:")
		}
	}
	require.NotEmpty(t, lastFrame, "expected at least one state frame")

	var state dto.StateDTO
	require.NoError(t, json.Unmarshal([]byte(lastFrame), &state))
	return state
}

func TestStreamHandler_InitialSnapshotsClearLoading(t *testing.T) {
	env := setupStreamTestEnv(t)

	task := models.Task{
		UserID:     1,
		Name:       "Morning run",
		Type:       models.TaskTypeDaily,
		PointValue: 10,
		IsActive:   true,
	}
	require.NoError(t, env.db.Create(&task).Error)

	state := runStream(t, env, 1, "/api/stream")

	require.EqualValues(t, 1, state.CurrentUserID)
	require.Len(t, state.Current.Tasks, 1)
	require.Equal(t, "Morning run", state.Current.Tasks[0].Name)

	// All four collections were seeded as loading and every initial
	// snapshot has landed by the time a frame is written.
	require.False(t, state.Status.Tasks.Loading)
	require.False(t, state.Status.Rewards.Loading)
	require.False(t, state.Status.Activities.Loading)
	require.False(t, state.Status.Score.Loading)
	require.NotNil(t, state.Current.Score)
}

func TestStreamHandler_SeedsTabFromQuery(t *testing.T) {
	env := setupStreamTestEnv(t)

	state := runStream(t, env, 1, "/api/stream?tab=rewards")
	require.Equal(t, "rewards", string(state.ActiveTab))
}
