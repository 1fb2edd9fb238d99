package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/travelplanner-backend/internal/data/store"
	"github.com/yungbote/travelplanner-backend/internal/http/response"
	"github.com/yungbote/travelplanner-backend/internal/platform/ctxutil"
	"github.com/yungbote/travelplanner-backend/internal/services"
)

type ItineraryHandler struct {
	itineraries services.ItineraryService
}

func NewItineraryHandler(itineraries services.ItineraryService) *ItineraryHandler {
	return &ItineraryHandler{itineraries: itineraries}
}

// requireOwner rejects edits from an authenticated caller who did not save
// the itinerary. Without auth every caller may edit.
func (ih *ItineraryHandler) requireOwner(c *gin.Context, itineraryID string) error {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == "" {
		return nil
	}
	rec, err := ih.itineraries.SavedPlan(c.Request.Context(), itineraryID)
	if err != nil {
		return err
	}
	if rec.UserID != rd.UserID {
		return errNotOwner
	}
	return nil
}

type itineraryRequest struct {
	SelectedIDs []string `json:"selected_ids"`
	Days        int      `json:"days"`
	Preferences []string `json:"preferences"`
	Title       *string  `json:"title"`
}

// POST /api/itinerary
// body: { "selected_ids": [...], "days": 2, "preferences": [...] }
func (ih *ItineraryHandler) Preview(c *gin.Context) {
	var req itineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	d, err := ih.itineraries.Preview(c.Request.Context(), req.SelectedIDs, req.Days, req.Preferences)
	if err != nil {
		respondErr(c, err)
		return
	}
	snapshot, err := d.Snapshot()
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"itinerary": json.RawMessage(snapshot),
		"items":     d.Items,
		"outcome":   d.Outcome,
		"dropped":   d.Dropped,
	})
}

// POST /api/users/:user_id/itineraries
func (ih *ItineraryHandler) Save(c *gin.Context) {
	userID, err := actingUser(c, c.Param("user_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	var req itineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	saved, err := ih.itineraries.Save(c.Request.Context(), services.SaveItineraryInput{
		UserID:      userID,
		Title:       req.Title,
		SelectedIDs: req.SelectedIDs,
		Days:        req.Days,
		Preferences: req.Preferences,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondCreated(c, saved)
}

// GET /api/users/:user_id/itineraries
func (ih *ItineraryHandler) ListByUser(c *gin.Context) {
	recs, err := ih.itineraries.ListByUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, recs)
}

// GET /api/itineraries/:id
func (ih *ItineraryHandler) Detail(c *gin.Context) {
	detail, err := ih.itineraries.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, detail)
}

// GET /api/itineraries/:id/plan
func (ih *ItineraryHandler) SavedPlan(c *gin.Context) {
	rec, err := ih.itineraries.SavedPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, rec)
}

// DELETE /api/itineraries/:id
func (ih *ItineraryHandler) Delete(c *gin.Context) {
	if err := ih.requireOwner(c, c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.RespondOK(c, gin.H{"deleted": false})
			return
		}
		respondErr(c, err)
		return
	}
	ok, err := ih.itineraries.DeleteItinerary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": ok})
}

// GET /api/itineraries/:id/items
func (ih *ItineraryHandler) ListItems(c *gin.Context) {
	items, err := ih.itineraries.LiveItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, items)
}

// POST /api/itineraries/:id/items
// body: { "day": 1, "position": 0, "attraction_id": "..." }
func (ih *ItineraryHandler) AddItem(c *gin.Context) {
	var req struct {
		Day          int    `json:"day"`
		Position     int    `json:"position"`
		AttractionID string `json:"attraction_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := ih.requireOwner(c, c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	item, err := ih.itineraries.AddItem(c.Request.Context(), c.Param("id"), req.Day, req.Position, req.AttractionID)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondCreated(c, item)
}

// PATCH /api/itineraries/:id/items
// body: [ { "id": "...", "new_position": 2 }, ... ]
func (ih *ItineraryHandler) UpdatePositions(c *gin.Context) {
	var updates []store.PositionUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		badRequest(c, err)
		return
	}
	if err := ih.requireOwner(c, c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.RespondOK(c, gin.H{"updated": 0})
			return
		}
		respondErr(c, err)
		return
	}
	n, err := ih.itineraries.UpdatePositions(c.Request.Context(), c.Param("id"), updates)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"updated": n})
}

// DELETE /api/itineraries/items/:item_id
func (ih *ItineraryHandler) DeleteItem(c *gin.Context) {
	if ctxutil.GetRequestData(c.Request.Context()) != nil {
		item, err := ih.itineraries.GetItem(c.Request.Context(), c.Param("item_id"))
		if errors.Is(err, store.ErrNotFound) {
			response.RespondOK(c, gin.H{"deleted": false})
			return
		}
		if err == nil {
			err = ih.requireOwner(c, item.ItineraryID)
		}
		if err != nil {
			respondErr(c, err)
			return
		}
	}
	ok, err := ih.itineraries.DeleteItem(c.Request.Context(), c.Param("item_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": ok})
}
