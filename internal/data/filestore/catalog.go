package filestore

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/travelplanner-backend/internal/data/store"
	"github.com/yungbote/travelplanner-backend/internal/domain"
)

func (s *Store) GetAttraction(ctx context.Context, id string) (*domain.Attraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.attractions.snapshot()
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].ID == id {
			return normalizeAttraction(&rows[i]), nil
		}
	}
	return nil, fmt.Errorf("attraction %q: %w", id, store.ErrNotFound)
}

func (s *Store) ListAttractions(ctx context.Context, filter store.AttractionFilter) ([]*domain.Attraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.attractions.snapshot()
	if err != nil {
		return nil, err
	}
	out := []*domain.Attraction{}
	for i := range rows {
		if store.MatchesDestination(&rows[i], filter.Destination) {
			out = append(out, normalizeAttraction(&rows[i]))
		}
	}
	store.SortAttractions(out)
	return out, nil
}

// UpsertAttractions replaces rows by id and appends new ones.
func (s *Store) UpsertAttractions(ctx context.Context, in []*domain.Attraction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, a := range in {
		if a == nil || strings.TrimSpace(a.ID) == "" {
			return fmt.Errorf("%w: attraction id required", store.ErrInvalidArgument)
		}
	}
	if len(in) == 0 {
		return nil
	}
	return s.attractions.update(func(rows []domain.Attraction) ([]domain.Attraction, error) {
		idx := make(map[string]int, len(rows))
		for i := range rows {
			idx[rows[i].ID] = i
		}
		for _, a := range in {
			row := *normalizeAttraction(a)
			if i, ok := idx[row.ID]; ok {
				rows[i] = row
				continue
			}
			idx[row.ID] = len(rows)
			rows = append(rows, row)
		}
		return rows, nil
	})
}

func normalizeAttraction(a *domain.Attraction) *domain.Attraction {
	cp := *a
	cp.Tags = domain.StringSlice(cp.Tags)
	cp.Images = domain.StringSlice(cp.Images)
	return &cp
}
