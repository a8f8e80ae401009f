//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"linker/internal/app"
	"linker/internal/config"
	"linker/internal/infra/eventbus"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// initApp wires the linker application.
func initApp(*config.Config, *zap.Logger) (*app.App, func(), error) {
	panic(wire.Build(
		eventbus.ProviderSet,
		app.ProviderSet,
	))
}
