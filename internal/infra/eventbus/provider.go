package eventbus

import (
	"linker/internal/shortener/usecase"

	"github.com/google/wire"
)

// ProviderSet provides the bus, its router and the service-facing publisher.
var ProviderSet = wire.NewSet(
	NewZapLoggerAdapter,
	NewEventBus,
	NewRouter,
	wire.Bind(new(usecase.EventPublisher), new(*EventBus)),
)

var _ usecase.EventPublisher = (*EventBus)(nil)
