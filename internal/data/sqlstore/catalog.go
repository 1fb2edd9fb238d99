package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm/clause"

	"github.com/yungbote/travelplanner-backend/internal/data/store"
	"github.com/yungbote/travelplanner-backend/internal/domain"
	"github.com/yungbote/travelplanner-backend/internal/platform/dbctx"
)

func (s *Store) GetAttraction(ctx context.Context, id string) (*domain.Attraction, error) {
	var a domain.Attraction
	if err := (dbctx.Context{Ctx: ctx}).DB(s.db).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("attraction %q", id))
	}
	return normalizeAttraction(&a), nil
}

// ListAttractions filters in memory so destination matching is byte-for-byte
// the same as the file backend regardless of database collation.
func (s *Store) ListAttractions(ctx context.Context, filter store.AttractionFilter) ([]*domain.Attraction, error) {
	var rows []*domain.Attraction
	if err := (dbctx.Context{Ctx: ctx}).DB(s.db).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Attraction, 0, len(rows))
	for _, a := range rows {
		if store.MatchesDestination(a, filter.Destination) {
			out = append(out, normalizeAttraction(a))
		}
	}
	store.SortAttractions(out)
	return out, nil
}

func (s *Store) UpsertAttractions(ctx context.Context, rows []*domain.Attraction) error {
	if len(rows) == 0 {
		return nil
	}
	for _, a := range rows {
		if a == nil || strings.TrimSpace(a.ID) == "" {
			return fmt.Errorf("%w: attraction id required", store.ErrInvalidArgument)
		}
	}
	// Last write wins for repeated ids, as in a sequential replace.
	byID := make(map[string]int, len(rows))
	batch := make([]*domain.Attraction, 0, len(rows))
	for _, a := range rows {
		cp := normalizeAttraction(a)
		if i, ok := byID[cp.ID]; ok {
			batch[i] = cp
			continue
		}
		byID[cp.ID] = len(batch)
		batch = append(batch, cp)
	}
	return dbctx.Context{Ctx: ctx}.DB(s.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&batch).Error
}

func normalizeAttraction(a *domain.Attraction) *domain.Attraction {
	cp := *a
	cp.Tags = domain.StringSlice(cp.Tags)
	cp.Images = domain.StringSlice(cp.Images)
	return &cp
}
