package app

import (
	"github.com/yungbote/travelplanner-backend/internal/http/middleware"
	"github.com/yungbote/travelplanner-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *middleware.AuthMiddleware
}

// wireMiddleware leaves Auth nil when no signing secret is configured, which
// keeps mutating routes open.
func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	if cfg.JWTSecretKey == "" {
		log.Warn("JWT_SECRET_KEY not set; mutating routes are unauthenticated")
		return Middleware{}
	}
	return Middleware{Auth: middleware.NewAuthMiddleware(log, cfg.JWTSecretKey)}
}
