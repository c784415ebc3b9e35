package accesslog

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/shortling/shortling/internal/messaging"
	"go.uber.org/zap"
)

// NewConsumer creates a consumer that appends access events to the store.
// Failed writes are nacked for redelivery; the publishing side never waits on
// them.
func NewConsumer(subscriber message.Subscriber, store Store, logger *zap.Logger) *messaging.Consumer[AccessEvent] {
	return messaging.NewConsumer(subscriber, TopicLinkAccessed,
		func(ctx context.Context, event *AccessEvent) error {
			return store.SaveAccess(ctx, event)
		}, logger)
}
