package gateway

import (
	"context"
	"sort"

	"github.com/yukikurage/habitsync-api/internal/constants"
	"github.com/yukikurage/habitsync-api/internal/models"
	"github.com/yukikurage/habitsync-api/internal/repository"
)

// Unsubscribe releases a subscription. Every successful Subscribe* call
// must be paired with a call to it, or the broker leaks a live listener.
type Unsubscribe func()

// Gateway is the read and subscription surface over the per-user
// collections. Reads are fetched unordered from the store and sorted here
// by creation time descending, so no composite sort index is required.
// Subscriptions deliver an initial full snapshot immediately, then a fresh
// snapshot after every published change for that user and collection.
type Gateway struct {
	tasks      repository.TaskRepository
	rewards    repository.RewardRepository
	activities repository.ActivityRepository
	scores     repository.ScoreRepository
	broker     Broker
}

// New creates a new Gateway
func New(
	tasks repository.TaskRepository,
	rewards repository.RewardRepository,
	activities repository.ActivityRepository,
	scores repository.ScoreRepository,
	broker Broker,
) *Gateway {
	return &Gateway{
		tasks:      tasks,
		rewards:    rewards,
		activities: activities,
		scores:     scores,
		broker:     broker,
	}
}

// GetTasks returns a user's tasks, newest first.
func (g *Gateway) GetTasks(userID uint64) ([]models.Task, error) {
	tasks, err := g.tasks.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

// GetRewards returns a user's rewards, newest first.
func (g *Gateway) GetRewards(userID uint64) ([]models.Reward, error) {
	rewards, err := g.rewards.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	sort.Slice(rewards, func(i, j int) bool {
		return rewards[i].CreatedAt.After(rewards[j].CreatedAt)
	})
	return rewards, nil
}

// GetActivities returns a user's most recent activity records, newest
// first, capped at the default limit.
func (g *Gateway) GetActivities(userID uint64) ([]models.Activity, error) {
	activities, err := g.activities.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})
	if len(activities) > constants.DefaultActivityLimit {
		activities = activities[:constants.DefaultActivityLimit]
	}
	return activities, nil
}

// GetScore returns a user's score record, initializing it when missing.
func (g *Gateway) GetScore(userID uint64) (*models.UserScore, error) {
	return g.scores.GetOrInit(userID)
}

// SubscribeTasks streams task snapshots for one user.
func (g *Gateway) SubscribeTasks(ctx context.Context, userID uint64, onSnapshot func([]models.Task), onError func(error)) (Unsubscribe, error) {
	return g.subscribe(ctx, userID, CollectionTasks, func() error {
		tasks, err := g.GetTasks(userID)
		if err != nil {
			return err
		}
		onSnapshot(tasks)
		return nil
	}, onError)
}

// SubscribeRewards streams reward snapshots for one user.
func (g *Gateway) SubscribeRewards(ctx context.Context, userID uint64, onSnapshot func([]models.Reward), onError func(error)) (Unsubscribe, error) {
	return g.subscribe(ctx, userID, CollectionRewards, func() error {
		rewards, err := g.GetRewards(userID)
		if err != nil {
			return err
		}
		onSnapshot(rewards)
		return nil
	}, onError)
}

// SubscribeActivities streams activity snapshots for one user.
func (g *Gateway) SubscribeActivities(ctx context.Context, userID uint64, onSnapshot func([]models.Activity), onError func(error)) (Unsubscribe, error) {
	return g.subscribe(ctx, userID, CollectionActivities, func() error {
		activities, err := g.GetActivities(userID)
		if err != nil {
			return err
		}
		onSnapshot(activities)
		return nil
	}, onError)
}

// SubscribeScore streams score snapshots for one user.
func (g *Gateway) SubscribeScore(ctx context.Context, userID uint64, onSnapshot func(models.UserScore), onError func(error)) (Unsubscribe, error) {
	return g.subscribe(ctx, userID, CollectionScore, func() error {
		score, err := g.GetScore(userID)
		if err != nil {
			return err
		}
		onSnapshot(*score)
		return nil
	}, onError)
}

// subscribe delivers one snapshot synchronously, then re-delivers on every
// matching change event. Snapshot failures after the initial delivery are
// reported on the error side channel and never terminate the stream.
func (g *Gateway) subscribe(ctx context.Context, userID uint64, collection Collection, deliver func() error, onError func(error)) (Unsubscribe, error) {
	events, stop, err := g.broker.Subscribe(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := deliver(); err != nil {
		stop()
		return nil, err
	}

	go func() {
		for event := range events {
			if event.Collection != collection {
				continue
			}
			if err := deliver(); err != nil && onError != nil {
				onError(err)
			}
		}
	}()

	return Unsubscribe(stop), nil
}
