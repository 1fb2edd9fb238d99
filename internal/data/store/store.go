// Package store declares the storage contract shared by the file and the
// relational backend. Both must return identical shapes and orderings for
// identical inputs.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/travelplanner-backend/internal/domain"
	"github.com/yungbote/travelplanner-backend/internal/toggle"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidArgument = errors.New("invalid argument")
)

// NewID allocates a time-ordered id, so id order within a process matches
// insertion order. Item ties on (day, position) rely on this.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Clock returns the current instant; injectable for tests.
type Clock func() time.Time

func SystemClock() time.Time { return domain.Timestamp(time.Now()) }

type AttractionFilter struct {
	// Destination matches name or address, case-insensitively. Empty matches all.
	Destination string
}

type Catalog interface {
	GetAttraction(ctx context.Context, id string) (*domain.Attraction, error)
	ListAttractions(ctx context.Context, filter AttractionFilter) ([]*domain.Attraction, error)
	UpsertAttractions(ctx context.Context, rows []*domain.Attraction) error
}

type ItemDraft struct {
	Day          int
	Position     int
	AttractionID string
}

type SaveItinerary struct {
	UserID      string
	Title       *string
	SelectedIDs []string
	Days        int
	Preferences []string
	Snapshot    json.RawMessage
	Items       []ItemDraft
}

type PositionUpdate struct {
	ItemID      string `json:"id"`
	NewPosition int    `json:"new_position"`
}

type ItineraryStore interface {
	// Save writes the record and its items as one unit.
	Save(ctx context.Context, in SaveItinerary) (*domain.Itinerary, error)
	GetItinerary(ctx context.Context, id string) (*domain.Itinerary, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Itinerary, error)
	// DeleteItinerary removes the record and every item it owns.
	DeleteItinerary(ctx context.Context, id string) (bool, error)

	ListItems(ctx context.Context, itineraryID string) ([]*domain.ItineraryItem, error)
	GetItem(ctx context.Context, itemID string) (*domain.ItineraryItem, error)
	AddItem(ctx context.Context, itineraryID string, day, position int, attractionID string) (*domain.ItineraryItem, error)
	DeleteItem(ctx context.Context, itemID string) (bool, error)
	// UpdatePositions applies every update it can inside one lock or
	// transaction and returns how many matched. Unknown ids are skipped. A
	// non-empty itineraryID restricts matches to that itinerary's items.
	UpdatePositions(ctx context.Context, itineraryID string, updates []PositionUpdate) (int, error)
}

type SocialStore interface {
	CreateUser(ctx context.Context, username, nickname string) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CreatePost(ctx context.Context, userID, content string, images []string) (*domain.Post, error)
	GetPost(ctx context.Context, id string) (*domain.Post, error)
	ListPosts(ctx context.Context) ([]*domain.Post, error)
	AddComment(ctx context.Context, postID, userID, content string) (*domain.Comment, error)
	ListComments(ctx context.Context, postID string) ([]*domain.Comment, error)
}

// Backend is everything one storage implementation provides.
type Backend interface {
	Catalog
	ItineraryStore
	SocialStore
	Likes() toggle.EdgeSet[domain.Like]
	Follows() toggle.EdgeSet[domain.Follow]
	Close() error
}

// SnapshotJSON validates and compacts a plan snapshot. An empty snapshot is
// stored as an empty plan. The output is HTML-escaped the same way
// encoding/json escapes embedded raw values, so the bytes survive a file
// round trip unchanged.
func SnapshotJSON(raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 {
		return json.RawMessage("[]"), nil
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: snapshot is not valid JSON", ErrInvalidArgument)
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	var out bytes.Buffer
	json.HTMLEscape(&out, compact.Bytes())
	return json.RawMessage(out.Bytes()), nil
}
