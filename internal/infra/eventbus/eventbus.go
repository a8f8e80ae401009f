package eventbus

import (
	"context"

	"linker/internal/shortener/domain/event"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// LinkEventsTopic carries every short link event.
const LinkEventsTopic = "link.events"

const subscriberBuffer = 256

// EventBus is the in-process link event bus. Events published while nobody
// subscribes are dropped.
type EventBus struct {
	pubsub *gochannel.GoChannel
}

// NewEventBus creates an event bus backed by Go channels.
func NewEventBus(logger watermill.LoggerAdapter) *EventBus {
	return &EventBus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer:            subscriberBuffer,
			BlockPublishUntilSubscriberAck: false,
		}, logger),
	}
}

// Publish encodes e and publishes it on LinkEventsTopic.
func (b *EventBus) Publish(_ context.Context, e event.Event) error {
	msg, err := Encode(e)
	if err != nil {
		return err
	}
	return b.pubsub.Publish(LinkEventsTopic, msg)
}

// Subscriber exposes the bus for routers and tests.
func (b *EventBus) Subscriber() message.Subscriber {
	return b.pubsub
}

// Close stops delivery to all subscribers.
func (b *EventBus) Close() error {
	return b.pubsub.Close()
}
