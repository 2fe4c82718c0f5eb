package fx

import (
	"igdb-dashboard/internal/cache"
	"igdb-dashboard/internal/config"
	"igdb-dashboard/internal/database"
	"igdb-dashboard/internal/logger"
	"igdb-dashboard/internal/repository"
	"igdb-dashboard/internal/server"
	"igdb-dashboard/internal/service"
	"igdb-dashboard/internal/session"

	"go.uber.org/fx"
)

func ProvideFetcher(repo *repository.GameRepository) cache.Fetcher {
	return repo
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// warehouse access
	fx.Provide(repository.NewGameRepository),
	fx.Provide(ProvideFetcher),
	fx.Provide(cache.New),
	// sessions
	fx.Provide(session.NewRegistry),
	// svc
	fx.Provide(service.NewDashboardService),
	// server
	fx.Provide(server.NewDashboardServer),
)
