package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/aqi-insight/internal/domain/aqi"
	"github.com/yanqian/aqi-insight/internal/infra/backend"
	"github.com/yanqian/aqi-insight/internal/infra/config"
	"github.com/yanqian/aqi-insight/internal/infra/location"
	"github.com/yanqian/aqi-insight/internal/infra/respcache"
)

func provideBackendClient(cfg *config.Config, logger *slog.Logger) *backend.Client {
	return backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, logger)
}

func provideResolver(cfg *config.Config, logger *slog.Logger) *location.Resolver {
	fallback := aqi.NamedLocation{
		Name: cfg.Location.DefaultName,
		Coordinates: aqi.Coordinates{
			Latitude:  cfg.Location.DefaultLatitude,
			Longitude: cfg.Location.DefaultLongitude,
		},
	}
	return location.NewResolver(fallback, logger)
}

// provideResponseStore picks the cache store. Valkey problems degrade to the
// in-process store so the app still starts.
func provideResponseStore(cfg *config.Config, logger *slog.Logger) respcache.Store {
	if cfg.Cache.Driver != config.CacheDriverValkey {
		return respcache.NewMemoryStore()
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
		return respcache.NewMemoryStore()
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory store", "error", err)
		return respcache.NewMemoryStore()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory store", "error", err)
		client.Close()
		return respcache.NewMemoryStore()
	}
	store := respcache.NewValkeyStore(client, cfg.Cache.Valkey.Prefix)
	logger.Info("valkey response cache enabled", "addr", cfg.Cache.Valkey.Addr, "namespace", store.Namespace())
	return store
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Cache.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Cache.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Cache.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
