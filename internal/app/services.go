package app

import (
	"time"

	"github.com/yungbote/travelplanner-backend/internal/clients/openai"
	"github.com/yungbote/travelplanner-backend/internal/planner"
	"github.com/yungbote/travelplanner-backend/internal/platform/logger"
	"github.com/yungbote/travelplanner-backend/internal/services"
)

type Services struct {
	Catalog   services.CatalogService
	Itinerary services.ItineraryService
	Social    services.SocialService
}

func wireServices(log *logger.Logger, cfg Config, stores Stores) Services {
	log.Info("Wiring services...")
	backend := stores.Backend

	var (
		plan       planner.Planner
		summarizer services.Summarizer
	)
	if cfg.OpenAI.APIKey != "" {
		client, err := openai.NewClient(log, openai.Config{
			APIKey:     cfg.OpenAI.APIKey,
			BaseURL:    cfg.OpenAI.BaseURL,
			Model:      cfg.OpenAI.Model,
			Timeout:    time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second,
			MaxRetries: cfg.OpenAI.MaxRetries,
		})
		if err != nil {
			log.Warn("OpenAI client disabled; using round robin planner", "error", err)
		} else {
			plan = openai.NewPlanner(log, client)
			summarizer = openai.NewSummarizer(log, client)
		}
	}

	catalog := services.NewCatalogService(log, backend, summarizer)
	return Services{
		Catalog:   catalog,
		Itinerary: services.NewItineraryService(log, backend, catalog, plan),
		Social: services.NewSocialService(
			log,
			backend,
			backend.Likes(),
			backend.Follows(),
			stores.LikeCountCache,
			services.SelfEdgePolicy{
				AllowSelfLike:   cfg.AllowSelfLike,
				AllowSelfFollow: cfg.AllowSelfFollow,
			},
		),
	}
}
