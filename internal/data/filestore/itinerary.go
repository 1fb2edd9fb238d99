package filestore

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"github.com/yungbote/travelplanner-backend/internal/data/store"
	"github.com/yungbote/travelplanner-backend/internal/domain"
)

func (s *Store) Save(ctx context.Context, in store.SaveItinerary) (*domain.Itinerary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.UserID) == "" || in.Days < 1 {
		return nil, fmt.Errorf("%w: user id and days >= 1 required", store.ErrInvalidArgument)
	}
	snapshot, err := store.SnapshotJSON(in.Snapshot)
	if err != nil {
		return nil, err
	}
	rec := domain.Itinerary{
		ID:          store.NewID(),
		UserID:      in.UserID,
		Title:       in.Title,
		SelectedIDs: datatypes.NewJSONSlice(domain.StringSlice(in.SelectedIDs)),
		Days:        in.Days,
		Preferences: datatypes.NewJSONSlice(domain.StringSlice(in.Preferences)),
		Snapshot:    datatypes.JSON(snapshot),
		CreatedAt:   s.now(),
	}
	newItems := make([]domain.ItineraryItem, 0, len(in.Items))
	for _, d := range in.Items {
		newItems = append(newItems, domain.ItineraryItem{
			ID:           store.NewID(),
			ItineraryID:  rec.ID,
			Day:          d.Day,
			Position:     d.Position,
			AttractionID: d.AttractionID,
		})
	}

	s.itineraries.mu.Lock()
	defer s.itineraries.mu.Unlock()
	s.items.mu.Lock()
	defer s.items.mu.Unlock()

	recs, err := s.itineraries.load()
	if err != nil {
		return nil, err
	}
	items, err := s.items.load()
	if err != nil {
		return nil, err
	}

	// Items go first: a failed record write restores the previous items file.
	if len(newItems) > 0 {
		if err := s.items.write(append(items[:len(items):len(items)], newItems...)); err != nil {
			return nil, err
		}
	}
	if err := s.itineraries.write(append(recs, rec)); err != nil {
		if len(newItems) > 0 {
			if rbErr := s.items.write(items); rbErr != nil {
				s.log.Error("restore items after failed save", "itinerary_id", rec.ID, "error", rbErr)
			}
		}
		return nil, err
	}
	s.log.Debug("itinerary saved", "itinerary_id", rec.ID, "user_id", rec.UserID, "items", len(newItems))
	return &rec, nil
}

func (s *Store) GetItinerary(ctx context.Context, id string) (*domain.Itinerary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	recs, err := s.itineraries.snapshot()
	if err != nil {
		return nil, err
	}
	for i := range recs {
		if recs[i].ID == id {
			return &recs[i], nil
		}
	}
	return nil, fmt.Errorf("itinerary %q: %w", id, store.ErrNotFound)
}

func (s *Store) ListByUser(ctx context.Context, userID string) ([]*domain.Itinerary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	recs, err := s.itineraries.snapshot()
	if err != nil {
		return nil, err
	}
	out := []*domain.Itinerary{}
	for i := range recs {
		if recs[i].UserID == userID {
			out = append(out, &recs[i])
		}
	}
	store.SortRecords(out)
	return out, nil
}

func (s *Store) DeleteItinerary(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.itineraries.mu.Lock()
	defer s.itineraries.mu.Unlock()
	s.items.mu.Lock()
	defer s.items.mu.Unlock()

	recs, err := s.itineraries.load()
	if err != nil {
		return false, err
	}
	idx := -1
	for i := range recs {
		if recs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}
	items, err := s.items.load()
	if err != nil {
		return false, err
	}
	kept := make([]domain.ItineraryItem, 0, len(items))
	for _, it := range items {
		if it.ItineraryID != id {
			kept = append(kept, it)
		}
	}
	cascaded := len(kept) != len(items)
	if cascaded {
		if err := s.items.write(kept); err != nil {
			return false, err
		}
	}
	if err := s.itineraries.write(append(recs[:idx:idx], recs[idx+1:]...)); err != nil {
		if cascaded {
			if rbErr := s.items.write(items); rbErr != nil {
				s.log.Error("restore items after failed delete", "itinerary_id", id, "error", rbErr)
			}
		}
		return false, err
	}
	return true, nil
}

func (s *Store) ListItems(ctx context.Context, itineraryID string) ([]*domain.ItineraryItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items, err := s.items.snapshot()
	if err != nil {
		return nil, err
	}
	out := []*domain.ItineraryItem{}
	for i := range items {
		if items[i].ItineraryID == itineraryID {
			out = append(out, &items[i])
		}
	}
	store.SortItems(out)
	return out, nil
}

func (s *Store) AddItem(ctx context.Context, itineraryID string, day, position int, attractionID string) (*domain.ItineraryItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// The record lock is held for reading so a concurrent delete cannot
	// remove the itinerary between the check and the append.
	s.itineraries.mu.RLock()
	defer s.itineraries.mu.RUnlock()

	recs, err := s.itineraries.load()
	if err != nil {
		return nil, err
	}
	found := false
	for i := range recs {
		if recs[i].ID == itineraryID {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("itinerary %q: %w", itineraryID, store.ErrNotFound)
	}

	item := domain.ItineraryItem{
		ID:           store.NewID(),
		ItineraryID:  itineraryID,
		Day:          day,
		Position:     position,
		AttractionID: attractionID,
	}
	err = s.items.update(func(rows []domain.ItineraryItem) ([]domain.ItineraryItem, error) {
		return append(rows, item), nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetItem(ctx context.Context, itemID string) (*domain.ItineraryItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items, err := s.items.snapshot()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == itemID {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("itinerary item %q: %w", itemID, store.ErrNotFound)
}

func (s *Store) DeleteItem(ctx context.Context, itemID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	deleted := false
	err := s.items.update(func(rows []domain.ItineraryItem) ([]domain.ItineraryItem, error) {
		for i := range rows {
			if rows[i].ID == itemID {
				deleted = true
				return append(rows[:i:i], rows[i+1:]...), nil
			}
		}
		return nil, errSkipWrite
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *Store) UpdatePositions(ctx context.Context, itineraryID string, updates []store.PositionUpdate) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(updates) == 0 {
		return 0, nil
	}
	applied := 0
	err := s.items.update(func(rows []domain.ItineraryItem) ([]domain.ItineraryItem, error) {
		byID := make(map[string]int, len(rows))
		for i := range rows {
			byID[rows[i].ID] = i
		}
		for _, u := range updates {
			i, ok := byID[u.ItemID]
			if !ok || (itineraryID != "" && rows[i].ItineraryID != itineraryID) {
				continue
			}
			rows[i].Position = u.NewPosition
			applied++
		}
		if applied == 0 {
			return nil, errSkipWrite
		}
		return rows, nil
	})
	if err != nil {
		return 0, err
	}
	return applied, nil
}
