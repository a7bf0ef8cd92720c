package services

import (
	"context"
	"log"

	"github.com/yukikurage/habitsync-api/internal/gateway"
)

// publishChanges notifies subscribers that the user's collections changed.
// Publishing is best-effort: a failed notification is logged but never fails
// the mutation that already committed.
func publishChanges(ctx context.Context, broker gateway.Broker, userID uint64, collections ...gateway.Collection) {
	if broker == nil {
		return
	}
	for _, collection := range collections {
		event := gateway.Event{UserID: userID, Collection: collection}
		if err := broker.Publish(ctx, event); err != nil {
			log.Printf("failed to publish %s change for user %d: %v", collection, userID, err)
		}
	}
}
