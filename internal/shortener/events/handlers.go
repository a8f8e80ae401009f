package events

import (
	"context"
	"fmt"

	"linker/internal/infra/eventbus"
	"linker/internal/shortener/domain/event"

	"go.uber.org/zap"
)

var (
	_ eventbus.EventHandler = (*CreatedLogger)(nil)
	_ eventbus.EventHandler = (*ClickLogger)(nil)
)

// CreatedLogger writes an audit line for every new short link.
type CreatedLogger struct {
	logger *zap.Logger
}

// NewCreatedLogger creates a link.created handler.
func NewCreatedLogger(logger *zap.Logger) *CreatedLogger {
	return &CreatedLogger{logger: logger}
}

func (h *CreatedLogger) HandlerName() string { return "link_created_logger" }

func (h *CreatedLogger) EventName() string { return event.LinkCreatedName }

func (h *CreatedLogger) Handle(_ context.Context, envelope *eventbus.Envelope) error {
	var e event.LinkCreated
	if err := envelope.Decode(&e); err != nil {
		return fmt.Errorf("decode %s: %w", envelope.Name, err)
	}

	h.logger.Info("link created",
		zap.String("event_id", envelope.ID),
		zap.String("link_id", e.LinkID),
		zap.String("alias", e.Alias),
		zap.String("original_url", e.OriginalURL),
		zap.Bool("custom", e.Custom),
	)
	return nil
}

// ClickLogger enriches click events and writes them as structured log lines.
type ClickLogger struct {
	logger   *zap.Logger
	enricher *Enricher
}

// NewClickLogger creates a link.clicked handler.
func NewClickLogger(logger *zap.Logger, enricher *Enricher) *ClickLogger {
	return &ClickLogger{logger: logger, enricher: enricher}
}

func (h *ClickLogger) HandlerName() string { return "link_click_logger" }

func (h *ClickLogger) EventName() string { return event.LinkClickedName }

func (h *ClickLogger) Handle(_ context.Context, envelope *eventbus.Envelope) error {
	var e event.LinkClicked
	if err := envelope.Decode(&e); err != nil {
		return fmt.Errorf("decode %s: %w", envelope.Name, err)
	}

	details := h.enricher.Enrich(e.UserAgent, e.Referer, e.ClientIP)

	h.logger.Info("link clicked",
		zap.String("event_id", envelope.ID),
		zap.String("alias", e.Alias),
		zap.Time("clicked_at", e.ClickedAt),
		zap.Bool("recorded", e.Recorded),
		zap.String("device", details.Device),
		zap.String("browser", details.Browser),
		zap.String("os", details.OS),
		zap.String("source", details.Source),
		zap.String("country", details.Country),
	)
	return nil
}

// RegisterHandlers attaches the link event handlers to router.
func RegisterHandlers(router *eventbus.Router, logger *zap.Logger, enricher *Enricher) {
	router.AddHandler(NewCreatedLogger(logger))
	router.AddHandler(NewClickLogger(logger, enricher))
}
