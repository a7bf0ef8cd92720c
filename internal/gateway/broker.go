package gateway

import "context"

// Collection names the per-user data sets a subscriber can observe.
type Collection string

const (
	CollectionTasks      Collection = "tasks"
	CollectionRewards    Collection = "rewards"
	CollectionActivities Collection = "activities"
	CollectionScore      Collection = "score"
)

// Event signals that a user's collection changed and should be re-read.
type Event struct {
	UserID     uint64
	Collection Collection
}

// Broker fans change events out to subscribers. It is injected wherever
// change notification is needed; there is no package-level registry.
type Broker interface {
	// Publish announces a change to everyone subscribed to the user.
	Publish(ctx context.Context, event Event) error

	// Subscribe returns a channel of change events for one user and a stop
	// function. The stop function must be called to release the
	// subscription; the channel is closed afterwards.
	Subscribe(ctx context.Context, userID uint64) (<-chan Event, func(), error)

	// Close releases all subscriptions.
	Close() error
}
