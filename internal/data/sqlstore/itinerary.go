package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/travelplanner-backend/internal/data/store"
	"github.com/yungbote/travelplanner-backend/internal/domain"
	"github.com/yungbote/travelplanner-backend/internal/platform/dbctx"
)

func (s *Store) Save(ctx context.Context, in store.SaveItinerary) (*domain.Itinerary, error) {
	if strings.TrimSpace(in.UserID) == "" || in.Days < 1 {
		return nil, fmt.Errorf("%w: user id and days >= 1 required", store.ErrInvalidArgument)
	}
	snapshot, err := store.SnapshotJSON(in.Snapshot)
	if err != nil {
		return nil, err
	}
	rec := &domain.Itinerary{
		ID:          store.NewID(),
		UserID:      in.UserID,
		Title:       in.Title,
		SelectedIDs: datatypes.NewJSONSlice(domain.StringSlice(in.SelectedIDs)),
		Days:        in.Days,
		Preferences: datatypes.NewJSONSlice(domain.StringSlice(in.Preferences)),
		Snapshot:    datatypes.JSON(snapshot),
		CreatedAt:   s.now(),
	}
	items := make([]*domain.ItineraryItem, 0, len(in.Items))
	for _, d := range in.Items {
		items = append(items, &domain.ItineraryItem{
			ID:           store.NewID(),
			ItineraryID:  rec.ID,
			Day:          d.Day,
			Position:     d.Position,
			AttractionID: d.AttractionID,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, "save itinerary")
	}
	s.log.Debug("itinerary saved", "itinerary_id", rec.ID, "user_id", rec.UserID, "items", len(items))
	return rec, nil
}

func (s *Store) GetItinerary(ctx context.Context, id string) (*domain.Itinerary, error) {
	var rec domain.Itinerary
	if err := (dbctx.Context{Ctx: ctx}).DB(s.db).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("itinerary %q", id))
	}
	return normalizeRecord(&rec), nil
}

func (s *Store) ListByUser(ctx context.Context, userID string) ([]*domain.Itinerary, error) {
	out := []*domain.Itinerary{}
	err := dbctx.Context{Ctx: ctx}.DB(s.db).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	for _, rec := range out {
		normalizeRecord(rec)
	}
	// SQLite compares timestamps as text.
	store.SortRecords(out)
	return out, nil
}

func (s *Store) DeleteItinerary(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("itinerary_id = ?", id).Delete(&domain.ItineraryItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Itinerary{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *Store) ListItems(ctx context.Context, itineraryID string) ([]*domain.ItineraryItem, error) {
	out := []*domain.ItineraryItem{}
	err := dbctx.Context{Ctx: ctx}.DB(s.db).
		Where("itinerary_id = ?", itineraryID).
		Order("day ASC, position ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) AddItem(ctx context.Context, itineraryID string, day, position int, attractionID string) (*domain.ItineraryItem, error) {
	item := &domain.ItineraryItem{
		ID:           store.NewID(),
		ItineraryID:  itineraryID,
		Day:          day,
		Position:     position,
		AttractionID: attractionID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.Itinerary{}).Where("id = ?", itineraryID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("itinerary %q: %w", itineraryID, store.ErrNotFound)
		}
		return tx.Create(item).Error
	})
	if err != nil {
		return nil, translate(err, "add item")
	}
	return item, nil
}

func (s *Store) GetItem(ctx context.Context, itemID string) (*domain.ItineraryItem, error) {
	var it domain.ItineraryItem
	if err := (dbctx.Context{Ctx: ctx}).DB(s.db).Where("id = ?", itemID).First(&it).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("itinerary item %q", itemID))
	}
	return &it, nil
}

func (s *Store) DeleteItem(ctx context.Context, itemID string) (bool, error) {
	res := dbctx.Context{Ctx: ctx}.DB(s.db).Where("id = ?", itemID).Delete(&domain.ItineraryItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) UpdatePositions(ctx context.Context, itineraryID string, updates []store.PositionUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	applied := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		applied = 0
		for _, u := range updates {
			q := tx.Model(&domain.ItineraryItem{}).Where("id = ?", u.ItemID)
			if itineraryID != "" {
				q = q.Where("itinerary_id = ?", itineraryID)
			}
			res := q.Update("position", u.NewPosition)
			if res.Error != nil {
				return res.Error
			}
			applied += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return applied, nil
}

func normalizeRecord(rec *domain.Itinerary) *domain.Itinerary {
	rec.CreatedAt = domain.Timestamp(rec.CreatedAt)
	rec.SelectedIDs = domain.StringSlice(rec.SelectedIDs)
	rec.Preferences = domain.StringSlice(rec.Preferences)
	if len(rec.Snapshot) == 0 {
		rec.Snapshot = datatypes.JSON("[]")
	}
	return rec
}
