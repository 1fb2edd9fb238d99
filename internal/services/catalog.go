package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yungbote/travelplanner-backend/internal/data/store"
	"github.com/yungbote/travelplanner-backend/internal/domain"
	"github.com/yungbote/travelplanner-backend/internal/platform/logger"
)

// Summary is the review digest for one attraction.
type Summary struct {
	Pros        []string
	Cons        []string
	SourcePosts []string
}

// Summarizer derives pros and cons for an attraction, typically from an
// external model. It is optional.
type Summarizer interface {
	Summarize(ctx context.Context, a *domain.Attraction) (Summary, error)
}

type CatalogService interface {
	Recommend(ctx context.Context, destination string, days int, preferences []string) ([]*domain.Attraction, error)
	Get(ctx context.Context, id string) (*domain.Attraction, error)
	Detail(ctx context.Context, id string) (*domain.AttractionDetail, error)
	// Resolve returns the known attractions among ids, in ids order, skipping
	// unknown and repeated ids.
	Resolve(ctx context.Context, ids []string) ([]*domain.Attraction, error)
}

type catalogService struct {
	log        *logger.Logger
	catalog    store.Catalog
	summarizer Summarizer
}

func NewCatalogService(log *logger.Logger, catalog store.Catalog, summarizer Summarizer) CatalogService {
	if log == nil {
		log = logger.Nop()
	}
	return &catalogService{
		log:        log.With("service", "CatalogService"),
		catalog:    catalog,
		summarizer: summarizer,
	}
}

// Recommend lists the destination's attractions ranked by how many of the
// preference tags each carries. Equal scores keep catalog order.
func (cs *catalogService) Recommend(ctx context.Context, destination string, days int, preferences []string) ([]*domain.Attraction, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: days must not be negative", store.ErrInvalidArgument)
	}
	rows, err := cs.catalog.ListAttractions(ctx, store.AttractionFilter{Destination: destination})
	if err != nil {
		return nil, err
	}
	wanted := map[string]struct{}{}
	for _, p := range preferences {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			wanted[p] = struct{}{}
		}
	}
	if len(wanted) == 0 {
		return rows, nil
	}
	score := make(map[string]int, len(rows))
	for _, a := range rows {
		for _, tag := range a.Tags {
			if _, ok := wanted[strings.ToLower(strings.TrimSpace(tag))]; ok {
				score[a.ID]++
			}
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return score[rows[i].ID] > score[rows[j].ID] })
	cs.log.Debug("recommended", "destination", destination, "candidates", len(rows), "preferences", len(wanted))
	return rows, nil
}

func (cs *catalogService) Get(ctx context.Context, id string) (*domain.Attraction, error) {
	return cs.catalog.GetAttraction(ctx, id)
}

// Detail never fails because of the summarizer; without one, or when it
// errors, pros and cons are empty.
func (cs *catalogService) Detail(ctx context.Context, id string) (*domain.AttractionDetail, error) {
	a, err := cs.catalog.GetAttraction(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &domain.AttractionDetail{
		Attraction:  *a,
		Pros:        []string{},
		Cons:        []string{},
		SourcePosts: []string{},
	}
	if cs.summarizer == nil {
		return detail, nil
	}
	sum, err := cs.summarizer.Summarize(ctx, a)
	if err != nil {
		cs.log.Warn("summarizer failed; returning attraction without review summary", "attraction_id", id, "error", err)
		return detail, nil
	}
	detail.Pros = domain.StringSlice(sum.Pros)
	detail.Cons = domain.StringSlice(sum.Cons)
	detail.SourcePosts = domain.StringSlice(sum.SourcePosts)
	return detail, nil
}

func (cs *catalogService) Resolve(ctx context.Context, ids []string) ([]*domain.Attraction, error) {
	out := make([]*domain.Attraction, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		a, err := cs.catalog.GetAttraction(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			cs.log.Debug("selection references unknown attraction", "attraction_id", id)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
