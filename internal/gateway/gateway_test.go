package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/habitsync-api/internal/constants"
	"github.com/yukikurage/habitsync-api/internal/models"
	"github.com/yukikurage/habitsync-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type gatewayTestEnv struct {
	db      *gorm.DB
	broker  *MemoryBroker
	gateway *Gateway
}

func setupGatewayTestEnv(t *testing.T) gatewayTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Task{},
		&models.Reward{},
		&models.Activity{},
		&models.UserScore{},
	)
	require.NoError(t, err)

	broker := NewMemoryBroker()
	gw := New(
		repository.NewTaskRepository(db),
		repository.NewRewardRepository(db),
		repository.NewActivityRepository(db),
		repository.NewScoreRepository(db),
		broker,
	)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		broker.Close()
		sqlDB.Close()
	})

	return gatewayTestEnv{db: db, broker: broker, gateway: gw}
}

func (env gatewayTestEnv) createTask(t *testing.T, userID uint64, name string, createdAt time.Time) {
	t.Helper()
	task := models.Task{
		UserID:     userID,
		Name:       name,
		Type:       models.TaskTypeDaily,
		PointValue: 10,
		IsActive:   true,
	}
	task.CreatedAt = createdAt
	require.NoError(t, env.db.Create(&task).Error)
}

func waitSnapshot[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case snapshot := <-ch:
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		panic("unreachable")
	}
}

func requireNoSnapshot[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	select {
	case <-ch:
		t.Fatal("unexpected snapshot delivered")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestGateway_SubscribeTasks_InitialSnapshot(t *testing.T) {
	env := setupGatewayTestEnv(t)
	ctx := context.Background()

	base := time.Now()
	env.createTask(t, 1, "older", base.Add(-time.Hour))
	env.createTask(t, 1, "newer", base)

	snapshots := make(chan []models.Task, 4)
	unsub, err := env.gateway.SubscribeTasks(ctx, 1, func(tasks []models.Task) {
		snapshots <- tasks
	}, nil)
	require.NoError(t, err)
	defer unsub()

	tasks := waitSnapshot(t, snapshots)
	require.Len(t, tasks, 2)
	require.Equal(t, "newer", tasks[0].Name)
	require.Equal(t, "older", tasks[1].Name)
}

func TestGateway_PublishTriggersRefetch(t *testing.T) {
	env := setupGatewayTestEnv(t)
	ctx := context.Background()

	env.createTask(t, 1, "first", time.Now().Add(-time.Hour))

	snapshots := make(chan []models.Task, 4)
	unsub, err := env.gateway.SubscribeTasks(ctx, 1, func(tasks []models.Task) {
		snapshots <- tasks
	}, nil)
	require.NoError(t, err)
	defer unsub()

	initial := waitSnapshot(t, snapshots)
	require.Len(t, initial, 1)

	env.createTask(t, 1, "second", time.Now())
	require.NoError(t, env.broker.Publish(ctx, Event{UserID: 1, Collection: CollectionTasks}))

	updated := waitSnapshot(t, snapshots)
	require.Len(t, updated, 2)
	require.Equal(t, "second", updated[0].Name)
}

func TestGateway_NoCrossUserDelivery(t *testing.T) {
	env := setupGatewayTestEnv(t)
	ctx := context.Background()

	snapshots := make(chan []models.Task, 4)
	unsub, err := env.gateway.SubscribeTasks(ctx, 1, func(tasks []models.Task) {
		snapshots <- tasks
	}, nil)
	require.NoError(t, err)
	defer unsub()

	waitSnapshot(t, snapshots)

	// A change on another user's data must never reach this subscription.
	require.NoError(t, env.broker.Publish(ctx, Event{UserID: 2, Collection: CollectionTasks}))
	requireNoSnapshot(t, snapshots)
}

func TestGateway_CollectionFilter(t *testing.T) {
	env := setupGatewayTestEnv(t)
	ctx := context.Background()

	snapshots := make(chan []models.Task, 4)
	unsub, err := env.gateway.SubscribeTasks(ctx, 1, func(tasks []models.Task) {
		snapshots <- tasks
	}, nil)
	require.NoError(t, err)
	defer unsub()

	waitSnapshot(t, snapshots)

	require.NoError(t, env.broker.Publish(ctx, Event{UserID: 1, Collection: CollectionRewards}))
	requireNoSnapshot(t, snapshots)
}

func TestGateway_UnsubscribeStopsDelivery(t *testing.T) {
	env := setupGatewayTestEnv(t)
	ctx := context.Background()

	snapshots := make(chan []models.Task, 4)
	unsub, err := env.gateway.SubscribeTasks(ctx, 1, func(tasks []models.Task) {
		snapshots <- tasks
	}, nil)
	require.NoError(t, err)

	waitSnapshot(t, snapshots)
	unsub()

	require.NoError(t, env.broker.Publish(ctx, Event{UserID: 1, Collection: CollectionTasks}))
	requireNoSnapshot(t, snapshots)
}

func TestGateway_GetActivities_CappedAndSorted(t *testing.T) {
	env := setupGatewayTestEnv(t)

	base := time.Now()
	for i := 0; i < constants.DefaultActivityLimit+10; i++ {
		activity := models.Activity{
			UserID:       1,
			TaskName:     "task",
			PointsEarned: 1,
			Type:         models.ActivityTaskCompleted,
			Timestamp:    base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, env.db.Create(&activity).Error)
	}

	activities, err := env.gateway.GetActivities(1)
	require.NoError(t, err)
	require.Len(t, activities, constants.DefaultActivityLimit)

	for i := 1; i < len(activities); i++ {
		require.False(t, activities[i].Timestamp.After(activities[i-1].Timestamp),
			"activities must be newest first")
	}
}

func TestGateway_GetScore_InitializesMissingRecord(t *testing.T) {
	env := setupGatewayTestEnv(t)

	score, err := env.gateway.GetScore(42)
	require.NoError(t, err)
	require.EqualValues(t, 42, score.UserID)
	require.Zero(t, score.CurrentScore)
}
