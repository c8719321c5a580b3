//go:build wireinject
// +build wireinject

package di

import (
	"archivist/internal"
	"archivist/internal/controllers"
	"archivist/internal/providers"
	"archivist/internal/scheduler"
	"archivist/internal/services"
	"archivist/internal/storage"
	"archivist/internal/structures"

	wire "github.com/google/wire"
)

var serviceSet = wire.NewSet(
	providers.NewConfigProvider,
	providers.NewLogProvider,
	providers.NewMetricsProvider,
	storage.NewBackupCompressor,
	services.NewPersistenceService,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		serviceSet,
		providers.NewInstrumentedCacheProvider,
		scheduler.NewScheduler,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

func InitToolkit(cfg *structures.CliFlags) (*internal.Toolkit, error) {

	wire.Build(
		serviceSet,
		internal.NewToolkit,
	)

	return nil, nil
}
