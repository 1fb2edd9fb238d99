package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Itinerary is the saved record. It is written once; Snapshot keeps the plan
// exactly as it was at save time even after the live items are edited.
type Itinerary struct {
	ID          string                      `gorm:"primaryKey;column:id" json:"id"`
	UserID      string                      `gorm:"column:user_id;not null;index:idx_itinerary_user_created,priority:1" json:"user_id"`
	Title       *string                     `gorm:"column:title" json:"title"`
	SelectedIDs datatypes.JSONSlice[string] `gorm:"column:selected_ids;not null" json:"selected_ids"`
	Days        int                         `gorm:"column:days;not null" json:"days"`
	Preferences datatypes.JSONSlice[string] `gorm:"column:preferences;not null" json:"preferences"`
	Snapshot    datatypes.JSON              `gorm:"column:itinerary;type:json;not null" json:"itinerary"`
	CreatedAt   time.Time                   `gorm:"column:created_at;not null;index:idx_itinerary_user_created,priority:2" json:"created_at"`
}

func (Itinerary) TableName() string { return "itineraries" }

// ItineraryItem is one live stop. Items are ordered by (Day, Position, ID);
// positions are sort keys, not dense indexes, and may repeat or skip.
type ItineraryItem struct {
	ID           string     `gorm:"primaryKey;column:id" json:"id"`
	ItineraryID  string     `gorm:"column:itinerary_id;not null;index:idx_itinerary_item_order,priority:1" json:"itinerary_id"`
	Itinerary    *Itinerary `gorm:"constraint:OnDelete:CASCADE;foreignKey:ItineraryID;references:ID" json:"-"`
	Day          int        `gorm:"column:day;not null;index:idx_itinerary_item_order,priority:2" json:"day"`
	Position     int        `gorm:"column:position;not null;index:idx_itinerary_item_order,priority:3" json:"position"`
	AttractionID string     `gorm:"column:attraction_id;not null;index" json:"attraction_id"`
}

func (ItineraryItem) TableName() string { return "itinerary_items" }

// ItemLess reports whether a sorts before b in the live item order.
func ItemLess(a, b *ItineraryItem) bool {
	if a.Day != b.Day {
		return a.Day < b.Day
	}
	if a.Position != b.Position {
		return a.Position < b.Position
	}
	return a.ID < b.ID
}

// RecordLess orders saved records newest first, ties broken by id descending.
func RecordLess(a, b *Itinerary) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
