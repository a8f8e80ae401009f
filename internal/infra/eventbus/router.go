package eventbus

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

const (
	handlerRetries       = 2
	handlerRetryInterval = 50 * time.Millisecond
)

// EventHandler consumes one kind of link event.
type EventHandler interface {
	// HandlerName must be unique within a router.
	HandlerName() string
	// EventName selects the events delivered to Handle.
	EventName() string
	Handle(ctx context.Context, envelope *Envelope) error
}

// Router delivers bus messages to event handlers. A failing handler is
// retried a few times, after which the message is logged and dropped.
type Router struct {
	router   *message.Router
	bus      *EventBus
	handlers []EventHandler
	logger   watermill.LoggerAdapter
}

// NewRouter creates a router reading from bus.
func NewRouter(bus *EventBus, logger watermill.LoggerAdapter) (*Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return nil, err
	}

	r := &Router{
		router: router,
		bus:    bus,
		logger: logger,
	}

	// Outermost first: drop after retries, and retry recovered panics too.
	router.AddMiddleware(
		r.dropFailed,
		middleware.Retry{
			MaxRetries:      handlerRetries,
			InitialInterval: handlerRetryInterval,
			MaxInterval:     time.Second,
			Multiplier:      2,
			Logger:          logger,
		}.Middleware,
		middleware.Recoverer,
	)

	return r, nil
}

// AddHandler subscribes handler to LinkEventsTopic. Call before Run.
func (r *Router) AddHandler(handler EventHandler) {
	r.handlers = append(r.handlers, handler)
	r.router.AddNoPublisherHandler(
		handler.HandlerName(),
		LinkEventsTopic,
		r.bus.Subscriber(),
		r.dispatch(handler),
	)
}

func (r *Router) dispatch(handler EventHandler) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		if EventName(msg) != handler.EventName() {
			return nil
		}

		envelope, err := Decode(msg)
		if err != nil {
			// Retrying cannot fix a malformed message.
			r.logger.Error("dropping undecodable message", err, watermill.LogFields{
				"handler": handler.HandlerName(),
			})
			return nil
		}

		return handler.Handle(msg.Context(), envelope)
	}
}

func (r *Router) dropFailed(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		produced, err := h(msg)
		if err != nil {
			r.logger.Error("event handler failed, dropping message", err, watermill.LogFields{
				"handler":    message.HandlerNameFromCtx(msg.Context()),
				"event_name": EventName(msg),
				"message_id": msg.UUID,
			})
			return nil, nil
		}
		return produced, nil
	}
}

// Run blocks until ctx is done or Close is called.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Handlers lists the registered handlers in registration order.
func (r *Router) Handlers() []EventHandler {
	return r.handlers
}

// Running is closed once every handler is subscribed.
func (r *Router) Running() chan struct{} {
	return r.router.Running()
}

// Close stops the router and waits for in-flight handlers.
func (r *Router) Close() error {
	return r.router.Close()
}
