package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/travelplanner-backend/internal/http/handlers"
	httpMW "github.com/yungbote/travelplanner-backend/internal/http/middleware"
	"github.com/yungbote/travelplanner-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *httpMW.AuthMiddleware
	CORSOrigins    []string
	ServiceName    string
	Tracing        bool

	HealthHandler     *httpH.HealthHandler
	AttractionHandler *httpH.AttractionHandler
	ItineraryHandler  *httpH.ItineraryHandler
	SocialHandler     *httpH.SocialHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	protected := api.Group("/")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Attractions
	if cfg.AttractionHandler != nil {
		api.GET("/attractions", cfg.AttractionHandler.List)
		api.GET("/attractions/:id", cfg.AttractionHandler.Get)
	}

	// Itineraries
	if h := cfg.ItineraryHandler; h != nil {
		api.POST("/itinerary", h.Preview)
		api.GET("/users/:user_id/itineraries", h.ListByUser)
		api.GET("/itineraries/:id", h.Detail)
		api.GET("/itineraries/:id/plan", h.SavedPlan)
		api.GET("/itineraries/:id/items", h.ListItems)

		protected.POST("/users/:user_id/itineraries", h.Save)
		protected.DELETE("/itineraries/:id", h.Delete)
		protected.POST("/itineraries/:id/items", h.AddItem)
		protected.PATCH("/itineraries/:id/items", h.UpdatePositions)
		protected.DELETE("/itineraries/items/:item_id", h.DeleteItem)
	}

	// Users, posts, likes, follows
	if h := cfg.SocialHandler; h != nil {
		api.POST("/users", h.CreateUser)
		api.GET("/users/:user_id", h.GetUser)
		api.GET("/users/:user_id/following", h.ListFollowing)
		api.GET("/posts", h.ListPosts)
		api.GET("/posts/:post_id/comments", h.ListComments)
		api.GET("/posts/:post_id/likes", h.CountLikes)

		protected.POST("/posts", h.CreatePost)
		protected.POST("/posts/:post_id/comments", h.AddComment)
		protected.POST("/posts/:post_id/like", h.ToggleLike)
		protected.POST("/users/:user_id/follow/:target_user_id", h.ToggleFollow)
	}

	return r
}
