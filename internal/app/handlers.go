package app

import (
	"github.com/yungbote/travelplanner-backend/internal/http/handlers"
)

type Handlers struct {
	Health     *handlers.HealthHandler
	Attraction *handlers.AttractionHandler
	Itinerary  *handlers.ItineraryHandler
	Social     *handlers.SocialHandler
}

func wireHandlers(services Services) Handlers {
	return Handlers{
		Health:     handlers.NewHealthHandler(),
		Attraction: handlers.NewAttractionHandler(services.Catalog),
		Itinerary:  handlers.NewItineraryHandler(services.Itinerary),
		Social:     handlers.NewSocialHandler(services.Social),
	}
}
