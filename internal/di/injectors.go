//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"journald/internal"
	"journald/internal/controllers"
	"journald/internal/providers"
	"journald/internal/schedule"
	"journald/internal/schedule/interfaces"
	"journald/internal/services"
	"journald/internal/store"
	"journald/internal/structures"
)

var coreSet = wire.NewSet(
	providers.NewConfigProvider,
	providers.NewLogProvider,
	providers.NewMetricsProvider,
	providers.NewInstrumentedCacheProvider,
	providers.NewLLMProvider,
	providers.NewMailerProvider,
	store.NewSheetsClient,

	services.NewLocalUserStore,
	services.NewSummaryService,
	services.NewMailService,
	services.NewDigestService,
)

var schedulerSet = wire.NewSet(
	schedule.NewZstdCompressor,
	schedule.NewFileManager,
	schedule.NewScheduler,
	wire.Bind(new(interfaces.SchedulerInterface), new(*schedule.Scheduler)),
	wire.Bind(new(schedule.DigestRunnerInterface), new(*schedule.Scheduler)),
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		coreSet,
		schedulerSet,
		providers.NewTranscriber,
		services.NewBuiltinSource,
		services.NewDefaultAuthService,
		services.NewUserService,

		controllers.NewApiController,
		controllers.NewAuthController,
		controllers.NewMailController,
		controllers.NewDigestController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

func InitDigestRunner(cfg *structures.CliFlags) (schedule.DigestRunnerInterface, error) {

	wire.Build(
		coreSet,
		schedulerSet,
	)

	return nil, nil
}

func InitMailService(cfg *structures.CliFlags) (services.MailServiceInterface, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMailerProvider,
		services.NewMailService,
	)

	return nil, nil
}

func InitEntryStore(cfg *structures.CliFlags) (store.EntryStoreInterface, error) {

	wire.Build(
		providers.NewConfigProvider,
		store.NewSheetsClient,
	)

	return nil, nil
}
