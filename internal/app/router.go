package app

import (
	httpserver "github.com/yungbote/travelplanner-backend/internal/http"
	"github.com/yungbote/travelplanner-backend/internal/platform/logger"
)

func routerConfig(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) httpserver.RouterConfig {
	return httpserver.RouterConfig{
		Log:               log,
		AuthMiddleware:    middleware.Auth,
		CORSOrigins:       cfg.CORSOrigins,
		ServiceName:       cfg.ServiceName,
		Tracing:           cfg.OtelEnabled,
		HealthHandler:     handlers.Health,
		AttractionHandler: handlers.Attraction,
		ItineraryHandler:  handlers.Itinerary,
		SocialHandler:     handlers.Social,
	}
}
