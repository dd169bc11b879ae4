//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/aqi-insight/internal/bootstrap"
	"github.com/yanqian/aqi-insight/internal/domain/dashboard"
	"github.com/yanqian/aqi-insight/internal/domain/health"
	"github.com/yanqian/aqi-insight/internal/domain/mobile"
	"github.com/yanqian/aqi-insight/internal/domain/policy"
	"github.com/yanqian/aqi-insight/internal/infra/backend"
	"github.com/yanqian/aqi-insight/internal/infra/config"
	"github.com/yanqian/aqi-insight/internal/infra/respcache"
	httpiface "github.com/yanqian/aqi-insight/internal/interface/http"
	"github.com/yanqian/aqi-insight/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideBackendClient,
		provideResponseStore,
		provideResolver,
		respcache.New,
		backend.NewAPI,
		mobile.NewService,
		dashboard.NewService,
		policy.NewService,
		health.NewService,
		wire.Bind(new(respcache.Fetcher), new(*backend.Client)),
		wire.Bind(new(backend.Reader), new(*respcache.Cache)),
		wire.Bind(new(mobile.Backend), new(*backend.API)),
		wire.Bind(new(dashboard.Backend), new(*backend.API)),
		wire.Bind(new(policy.Backend), new(*backend.API)),
		wire.Bind(new(health.Backend), new(*backend.API)),
		wire.Bind(new(httpiface.CacheAdmin), new(*respcache.Cache)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
