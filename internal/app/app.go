package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	httpserver "github.com/yungbote/travelplanner-backend/internal/http"
	"github.com/yungbote/travelplanner-backend/internal/observability"
	"github.com/yungbote/travelplanner-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Stores   Stores
	Services Services
	Server   *httpserver.Server

	otelShutdown func(context.Context) error
}

func New(ctx context.Context, log *logger.Logger) (*App, error) {
	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:      cfg.OtelEnabled,
		ServiceName:  cfg.ServiceName,
		Environment:  cfg.Environment,
		Endpoint:     cfg.OtelEndpoint,
		SamplerRatio: cfg.OtelSamplerRatio,
	})

	stores, err := wireStores(ctx, log, cfg)
	if err != nil {
		_ = otelShutdown(ctx)
		return nil, err
	}
	services := wireServices(log, cfg, stores)
	handlers := wireHandlers(services)
	middleware := wireMiddleware(log, cfg)
	server := httpserver.NewServer(routerConfig(log, cfg, handlers, middleware))

	return &App{
		Log:          log,
		Cfg:          cfg,
		Stores:       stores,
		Services:     services,
		Server:       server,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(a.Cfg.HTTPAddr)
}

// Close drains the HTTP server and releases the store, cache and tracer.
func (a *App) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var errs []error
	if a.Server != nil {
		errs = append(errs, a.Server.Shutdown(ctx))
	}
	errs = append(errs, a.Stores.Close())
	if a.otelShutdown != nil {
		errs = append(errs, a.otelShutdown(ctx))
	}
	a.Log.Sync()
	return errors.Join(errs...)
}
