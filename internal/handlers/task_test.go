package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/habitsync-api/internal/constants"
	"github.com/yukikurage/habitsync-api/internal/database"
	"github.com/yukikurage/habitsync-api/internal/dto"
	"github.com/yukikurage/habitsync-api/internal/gateway"
	"github.com/yukikurage/habitsync-api/internal/models"
	"github.com/yukikurage/habitsync-api/internal/repository"
	"github.com/yukikurage/habitsync-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type taskTestEnv struct {
	db      *gorm.DB
	handler *TaskHandler
}

func setupTaskTestEnv(t *testing.T) taskTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Reward{},
		&models.Activity{},
		&models.UserScore{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	broker := gateway.NewMemoryBroker()
	taskRepo := repository.NewTaskRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	taskService := services.NewTaskService(taskRepo, broker)
	ledgerService := services.NewLedgerService(repository.NewLedgerRepository(db), scoreRepo, broker)
	gw := gateway.New(
		taskRepo,
		repository.NewRewardRepository(db),
		repository.NewActivityRepository(db),
		scoreRepo,
		broker,
	)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		broker.Close()
		sqlDB.Close()
	})

	return taskTestEnv{
		db:      db,
		handler: NewTaskHandler(taskService, ledgerService, gw),
	}
}

func authedJSONContext(t *testing.T, userID uint64, method string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyUserID, userID)

	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		c.Request = httptest.NewRequest(method, "/", bytes.NewReader(raw))
		c.Request.Header.Set("Content-Type", "application/json")
	} else {
		c.Request = httptest.NewRequest(method, "/", nil)
	}

	return c, w
}

func TestTaskHandler_CreateTask(t *testing.T) {
	env := setupTaskTestEnv(t)

	c, w := authedJSONContext(t, 1, http.MethodPost, map[string]any{
		"name":       "Morning run",
		"type":       "daily",
		"pointValue": 15,
	})

	env.handler.CreateTask(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Morning run", response.Name)
	require.Equal(t, models.TaskTypeDaily, response.Type)
	require.Equal(t, 15, response.PointValue)
	require.True(t, response.IsActive)
}

func TestTaskHandler_CreateTask_BadHabitSignConvention(t *testing.T) {
	env := setupTaskTestEnv(t)

	// Bad habits must carry a negative point value.
	c, w := authedJSONContext(t, 1, http.MethodPost, map[string]any{
		"name":       "Skipped workout",
		"type":       "bad_habit",
		"pointValue": 5,
	})

	env.handler.CreateTask(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	c, w = authedJSONContext(t, 1, http.MethodPost, map[string]any{
		"name":       "Skipped workout",
		"type":       "bad_habit",
		"pointValue": -5,
	})

	env.handler.CreateTask(c)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestTaskHandler_UpdateTask_OnlyOwner(t *testing.T) {
	env := setupTaskTestEnv(t)

	c, w := authedJSONContext(t, 1, http.MethodPost, map[string]any{
		"name":       "Stretching",
		"type":       "daily",
		"pointValue": 5,
	})
	env.handler.CreateTask(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	c, w = authedJSONContext(t, 2, http.MethodPatch, map[string]any{
		"name": "Hijacked",
	})
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(created.ID, 10)}}

	env.handler.UpdateTask(c)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestTaskHandler_CompleteTask(t *testing.T) {
	env := setupTaskTestEnv(t)

	c, w := authedJSONContext(t, 1, http.MethodPost, map[string]any{
		"name":       "Read a chapter",
		"type":       "daily",
		"pointValue": 20,
	})
	env.handler.CreateTask(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	c, w = authedJSONContext(t, 1, http.MethodPost, nil)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(created.ID, 10)}}

	env.handler.CompleteTask(c)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Task     dto.TaskDTO     `json:"task"`
		Activity dto.ActivityDTO `json:"activity"`
		Score    dto.ScoreDTO    `json:"score"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, created.ID, response.Task.ID)
	require.Equal(t, 20, response.Activity.PointsEarned)
	require.Equal(t, 20, response.Score.CurrentScore)
	require.Equal(t, 1, response.Score.TasksCompleted)
}

func TestTaskHandler_ListTasks_ScopedToUser(t *testing.T) {
	env := setupTaskTestEnv(t)

	for _, name := range []string{"first", "second"} {
		c, w := authedJSONContext(t, 1, http.MethodPost, map[string]any{
			"name":       name,
			"type":       "daily",
			"pointValue": 5,
		})
		env.handler.CreateTask(c)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	c, w := authedJSONContext(t, 1, http.MethodGet, nil)
	env.handler.ListTasks(c)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Tasks []dto.TaskDTO `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Tasks, 2)

	// Another user sees nothing.
	c, w = authedJSONContext(t, 2, http.MethodGet, nil)
	env.handler.ListTasks(c)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Empty(t, response.Tasks)
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	env := setupTaskTestEnv(t)

	c, w := authedJSONContext(t, 1, http.MethodPost, map[string]any{
		"name":       "Temporary",
		"type":       "daily",
		"pointValue": 5,
	})
	env.handler.CreateTask(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	c, w = authedJSONContext(t, 1, http.MethodDelete, nil)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(created.ID, 10)}}

	env.handler.DeleteTask(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = authedJSONContext(t, 1, http.MethodGet, nil)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(created.ID, 10)}}

	env.handler.GetTask(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
