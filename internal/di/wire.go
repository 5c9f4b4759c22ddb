//go:build wireinject
// +build wireinject

package di

import (
	"VolDash/internal/usecase"
	"VolDash/pkg/config"
	"VolDash/pkg/server"

	"github.com/google/wire"
)

var dashboardSet = wire.NewSet(
	// Ambient
	ProvideLogger,
	ProvideMetrics,

	// Data
	ProvideTableStore,
	ProvideTables,

	// Use cases
	ProvideFilterIndex,
	ProvideSelectionResolver,
	ProvideChartBuilder,
	ProvideCache,
	ProvideDashboard,
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		dashboardSet,

		// Presentation
		ProvideImageRenderer,
		ProvideExporter,
		ProvideRateLimiter,
		ProvideHTTPHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}

// InitializeDashboard wires the dashboard use case alone, for CLI commands
// that need no HTTP server.
func InitializeDashboard(cfg *config.Config) (*usecase.Dashboard, error) {
	wire.Build(dashboardSet)
	return &usecase.Dashboard{}, nil
}
