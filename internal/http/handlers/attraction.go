package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/travelplanner-backend/internal/http/response"
	"github.com/yungbote/travelplanner-backend/internal/services"
)

type AttractionHandler struct {
	catalog services.CatalogService
}

func NewAttractionHandler(catalog services.CatalogService) *AttractionHandler {
	return &AttractionHandler{catalog: catalog}
}

// GET /api/attractions?destination=&days=&preferences=
func (ah *AttractionHandler) List(c *gin.Context) {
	days := 0
	if raw := strings.TrimSpace(c.Query("days")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, err)
			return
		}
		days = n
	}
	rows, err := ah.catalog.Recommend(c.Request.Context(), c.Query("destination"), days, splitList(c.QueryArray("preferences")))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/attractions/:id
func (ah *AttractionHandler) Get(c *gin.Context) {
	detail, err := ah.catalog.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, detail)
}
