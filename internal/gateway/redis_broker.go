package gateway

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

const changeChannelPrefix = "habitsync:changes:"

// RedisBroker distributes change events over Redis pub/sub so that
// subscriptions held by one server instance observe mutations applied by
// another.
type RedisBroker struct {
	client *redis.Client
}

// NewRedisBroker creates a new RedisBroker
func NewRedisBroker(client *redis.Client) *RedisBroker {
	return &RedisBroker{client: client}
}

func changeChannel(userID uint64) string {
	return changeChannelPrefix + strconv.FormatUint(userID, 10)
}

// Publish announces a change on the user's pub/sub channel.
func (b *RedisBroker) Publish(ctx context.Context, event Event) error {
	return b.client.Publish(ctx, changeChannel(event.UserID), string(event.Collection)).Err()
}

// Subscribe returns a channel of change events for one user.
func (b *RedisBroker) Subscribe(ctx context.Context, userID uint64) (<-chan Event, func(), error) {
	pubsub := b.client.Subscribe(ctx, changeChannel(userID))

	// Wait for the subscription to be confirmed so no event published after
	// Subscribe returns is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to change channel: %w", err)
	}

	events := make(chan Event, subscriberBuffer)
	go func() {
		defer close(events)
		for msg := range pubsub.Channel() {
			userID, ok := parseChangeChannel(msg.Channel)
			if !ok {
				continue
			}
			select {
			case events <- Event{UserID: userID, Collection: Collection(msg.Payload)}:
			default:
			}
		}
	}()

	stop := func() {
		pubsub.Close()
	}

	return events, stop, nil
}

func parseChangeChannel(channel string) (uint64, bool) {
	raw, ok := strings.CutPrefix(channel, changeChannelPrefix)
	if !ok {
		return 0, false
	}
	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return userID, true
}

// Close releases the underlying Redis client.
func (b *RedisBroker) Close() error {
	return b.client.Close()
}
