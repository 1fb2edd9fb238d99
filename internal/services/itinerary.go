package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/travelplanner-backend/internal/data/store"
	"github.com/yungbote/travelplanner-backend/internal/domain"
	"github.com/yungbote/travelplanner-backend/internal/itinerary"
	"github.com/yungbote/travelplanner-backend/internal/observability"
	"github.com/yungbote/travelplanner-backend/internal/planner"
	"github.com/yungbote/travelplanner-backend/internal/platform/logger"
)

type SaveItineraryInput struct {
	UserID      string
	Title       *string
	SelectedIDs []string
	Days        int
	Preferences []string
}

type SavedItinerary struct {
	Record  *domain.Itinerary       `json:"record"`
	Items   []*domain.ItineraryItem `json:"items"`
	Outcome itinerary.Outcome       `json:"outcome"`
	Dropped int                     `json:"dropped"`
}

// ItineraryDetail shows the saved plan next to the live items. Diverged is
// true once the items no longer match what was saved.
type ItineraryDetail struct {
	Record   *domain.Itinerary       `json:"record"`
	Items    []*domain.ItineraryItem `json:"items"`
	Diverged bool                    `json:"diverged"`
}

type ItineraryService interface {
	// Preview builds a draft without saving anything.
	Preview(ctx context.Context, selection []string, days int, preferences []string) (*itinerary.Draft, error)
	Save(ctx context.Context, in SaveItineraryInput) (*SavedItinerary, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Itinerary, error)
	SavedPlan(ctx context.Context, itineraryID string) (*domain.Itinerary, error)
	LiveItems(ctx context.Context, itineraryID string) ([]*domain.ItineraryItem, error)
	Detail(ctx context.Context, itineraryID string) (*ItineraryDetail, error)
	DeleteItinerary(ctx context.Context, itineraryID string) (bool, error)

	AddItem(ctx context.Context, itineraryID string, day, position int, attractionID string) (*domain.ItineraryItem, error)
	GetItem(ctx context.Context, itemID string) (*domain.ItineraryItem, error)
	DeleteItem(ctx context.Context, itemID string) (bool, error)
	UpdatePositions(ctx context.Context, itineraryID string, updates []store.PositionUpdate) (int, error)
}

type itineraryService struct {
	log     *logger.Logger
	store   store.ItineraryStore
	catalog CatalogService
	planner planner.Planner
}

func NewItineraryService(log *logger.Logger, st store.ItineraryStore, catalog CatalogService, p planner.Planner) ItineraryService {
	if log == nil {
		log = logger.Nop()
	}
	if p == nil {
		p = planner.RoundRobin{}
	}
	return &itineraryService{
		log:     log.With("service", "ItineraryService"),
		store:   st,
		catalog: catalog,
		planner: p,
	}
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return observability.Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (is *itineraryService) Preview(ctx context.Context, selection []string, days int, preferences []string) (draft *itinerary.Draft, err error) {
	ctx, span := startSpan(ctx, "ItineraryService.Preview", attribute.Int("days", days), attribute.Int("selection", len(selection)))
	defer func() { endSpan(span, err) }()
	return is.draft(ctx, selection, days, preferences)
}

// draft resolves the selection against the catalog, asks the planner and
// normalizes whatever it returns. Planner errors are treated as malformed
// output, never as request failures.
func (is *itineraryService) draft(ctx context.Context, selection []string, days int, preferences []string) (*itinerary.Draft, error) {
	if days < 1 {
		return nil, fmt.Errorf("%w: days must be >= 1", store.ErrInvalidArgument)
	}
	resolved, err := is.catalog.Resolve(ctx, selection)
	if err != nil {
		return nil, err
	}
	if len(resolved) == 0 {
		return itinerary.Build(nil, days, nil)
	}
	ids := make([]string, 0, len(resolved))
	for _, a := range resolved {
		ids = append(ids, a.ID)
	}

	result, err := is.planner.Generate(ctx, resolved, days, preferences)
	if err != nil {
		is.log.Warn("planner failed; falling back to empty plan", "error", err, "days", days, "selection", len(ids))
		result = planner.Malformed{Reason: err.Error()}
	}
	d, err := itinerary.Build(ids, days, result)
	if err != nil {
		return nil, err
	}
	switch {
	case d.Outcome == itinerary.OutcomeMalformed:
		is.log.Warn("planner output unusable; plan is empty", "reason", d.Reason, "selection", len(ids))
	case d.Dropped > 0:
		is.log.Warn("planner entries dropped", "dropped", d.Dropped, "kept", len(d.Items), "days", days)
	}
	return d, nil
}

func (is *itineraryService) Save(ctx context.Context, in SaveItineraryInput) (out *SavedItinerary, err error) {
	ctx, span := startSpan(ctx, "ItineraryService.Save", attribute.Int("days", in.Days), attribute.Int("selection", len(in.SelectedIDs)))
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(in.UserID) == "" {
		return nil, fmt.Errorf("%w: user id required", store.ErrInvalidArgument)
	}
	d, err := is.draft(ctx, in.SelectedIDs, in.Days, in.Preferences)
	if err != nil {
		return nil, err
	}
	snapshot, err := d.Snapshot()
	if err != nil {
		return nil, err
	}
	rec, err := is.store.Save(ctx, store.SaveItinerary{
		UserID:      in.UserID,
		Title:       in.Title,
		SelectedIDs: in.SelectedIDs,
		Days:        in.Days,
		Preferences: in.Preferences,
		Snapshot:    snapshot,
		Items:       d.ItemDrafts(),
	})
	if err != nil {
		is.log.Error("save itinerary failed", "user_id", in.UserID, "error", err)
		return nil, err
	}
	items, err := is.store.ListItems(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("itinerary.id", rec.ID), attribute.String("draft.outcome", string(d.Outcome)))
	is.log.Info("itinerary saved", "itinerary_id", rec.ID, "user_id", in.UserID, "items", len(items), "outcome", d.Outcome)
	return &SavedItinerary{Record: rec, Items: items, Outcome: d.Outcome, Dropped: d.Dropped}, nil
}

func (is *itineraryService) ListByUser(ctx context.Context, userID string) ([]*domain.Itinerary, error) {
	return is.store.ListByUser(ctx, userID)
}

func (is *itineraryService) SavedPlan(ctx context.Context, itineraryID string) (*domain.Itinerary, error) {
	return is.store.GetItinerary(ctx, itineraryID)
}

// LiveItems lists the current items. An unknown itinerary has no items.
func (is *itineraryService) LiveItems(ctx context.Context, itineraryID string) ([]*domain.ItineraryItem, error) {
	return is.store.ListItems(ctx, itineraryID)
}

func (is *itineraryService) Detail(ctx context.Context, itineraryID string) (out *ItineraryDetail, err error) {
	ctx, span := startSpan(ctx, "ItineraryService.Detail", attribute.String("itinerary.id", itineraryID))
	defer func() { endSpan(span, err) }()

	var (
		rec   *domain.Itinerary
		items []*domain.ItineraryItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rec, err = is.store.GetItinerary(gctx, itineraryID)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = is.store.ListItems(gctx, itineraryID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ItineraryDetail{Record: rec, Items: items, Diverged: diverged(rec, items)}, nil
}

// diverged compares the saved plan, normalized the same way a save
// normalizes it, with the live items by (day, position, attraction).
func diverged(rec *domain.Itinerary, items []*domain.ItineraryItem) bool {
	var entries []planner.Entry
	if err := json.Unmarshal(rec.Snapshot, &entries); err != nil {
		return len(items) > 0
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.AttractionID)
	}
	days := rec.Days
	if days < 1 {
		days = 1
	}
	saved, err := itinerary.Build(ids, days, planner.Structured{Entries: entries})
	if err != nil {
		return true
	}
	if len(saved.Items) != len(items) {
		return true
	}
	for i, it := range items {
		s := saved.Items[i]
		if s.Day != it.Day || s.Position != it.Position || s.AttractionID != it.AttractionID {
			return true
		}
	}
	return false
}

func (is *itineraryService) DeleteItinerary(ctx context.Context, itineraryID string) (bool, error) {
	ok, err := is.store.DeleteItinerary(ctx, itineraryID)
	if err != nil {
		return false, err
	}
	is.log.Info("itinerary deleted", "itinerary_id", itineraryID, "deleted", ok)
	return ok, nil
}

// AddItem checks the day against the record and the attraction against the
// catalog, but not against the original selection.
func (is *itineraryService) AddItem(ctx context.Context, itineraryID string, day, position int, attractionID string) (*domain.ItineraryItem, error) {
	if position < 0 {
		return nil, fmt.Errorf("%w: position must be >= 0", store.ErrInvalidArgument)
	}
	rec, err := is.store.GetItinerary(ctx, itineraryID)
	if err != nil {
		return nil, err
	}
	if day < 1 || day > rec.Days {
		return nil, fmt.Errorf("%w: day must be in [1, %d]", store.ErrInvalidArgument, rec.Days)
	}
	if _, err := is.catalog.Get(ctx, attractionID); err != nil {
		return nil, err
	}
	item, err := is.store.AddItem(ctx, itineraryID, day, position, attractionID)
	if err != nil {
		return nil, err
	}
	is.log.Debug("item added", "itinerary_id", itineraryID, "item_id", item.ID, "day", day, "position", position)
	return item, nil
}

func (is *itineraryService) GetItem(ctx context.Context, itemID string) (*domain.ItineraryItem, error) {
	return is.store.GetItem(ctx, itemID)
}

func (is *itineraryService) DeleteItem(ctx context.Context, itemID string) (bool, error) {
	return is.store.DeleteItem(ctx, itemID)
}

// UpdatePositions skips negative positions up front; unknown ids and items
// of other itineraries are skipped by the store. Only applied updates count.
func (is *itineraryService) UpdatePositions(ctx context.Context, itineraryID string, updates []store.PositionUpdate) (int, error) {
	if strings.TrimSpace(itineraryID) == "" {
		return 0, fmt.Errorf("%w: itinerary id required", store.ErrInvalidArgument)
	}
	valid := make([]store.PositionUpdate, 0, len(updates))
	for _, u := range updates {
		if u.NewPosition < 0 || strings.TrimSpace(u.ItemID) == "" {
			continue
		}
		valid = append(valid, u)
	}
	applied, err := is.store.UpdatePositions(ctx, itineraryID, valid)
	if err != nil {
		return 0, err
	}
	if skipped := len(updates) - applied; skipped > 0 {
		is.log.Debug("position updates skipped", "itinerary_id", itineraryID, "requested", len(updates), "applied", applied, "skipped", skipped)
	}
	return applied, nil
}
