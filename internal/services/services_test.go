package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/yungbote/travelplanner-backend/internal/data/filestore"
	"github.com/yungbote/travelplanner-backend/internal/data/store"
	"github.com/yungbote/travelplanner-backend/internal/domain"
	"github.com/yungbote/travelplanner-backend/internal/itinerary"
	"github.com/yungbote/travelplanner-backend/internal/planner"
	"github.com/yungbote/travelplanner-backend/internal/platform/logger"
)

func newTestStore(t *testing.T) *filestore.Store {
	t.Helper()
	s, err := filestore.Open(t.TempDir(), filestore.Options{})
	if err != nil {
		t.Fatalf("filestore.Open: %v", err)
	}
	err = s.UpsertAttractions(context.Background(), []*domain.Attraction{
		{ID: "att-1", Name: "Eiffel Tower", Address: "Paris", Tags: []string{"view"}},
		{ID: "att-2", Name: "Louvre", Address: "Paris", Tags: []string{"art", "history"}},
		{ID: "att-3", Name: "Orsay", Address: "Paris", Tags: []string{"art"}},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s
}

type countingPlanner struct {
	mu     sync.Mutex
	calls  int
	result planner.Result
	err    error
}

func (p *countingPlanner) Generate(ctx context.Context, selection []*domain.Attraction, days int, prefs []string) (planner.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.result, p.err
}

func triples(items []*domain.ItineraryItem) string {
	out := ""
	for _, it := range items {
		out += fmt.Sprintf("(%d,%d,%s)", it.Day, it.Position, it.AttractionID)
	}
	return out
}

func newItineraryService(t *testing.T, p planner.Planner) (ItineraryService, *filestore.Store) {
	t.Helper()
	s := newTestStore(t)
	log := logger.Nop()
	return NewItineraryService(log, s, NewCatalogService(log, s, nil), p), s
}

func TestSaveDropsOutOfRangeDay(t *testing.T) {
	ctx := context.Background()
	p := &countingPlanner{result: planner.RawText{
		Text: `[{"day":1,"attraction_id":"att-1"},{"day":2,"attraction_id":"att-2"},{"day":3,"attraction_id":"att-1"}]`,
	}}
	svc, _ := newItineraryService(t, p)

	saved, err := svc.Save(ctx, SaveItineraryInput{UserID: "u1", SelectedIDs: []string{"att-1", "att-2"}, Days: 2})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got, want := triples(saved.Items), "(1,0,att-1)(2,0,att-2)"; got != want {
		t.Fatalf("items: want=%s got=%s", want, got)
	}
	if saved.Outcome != itinerary.OutcomeDecodedText || saved.Dropped != 1 {
		t.Fatalf("outcome: got=%s dropped=%d", saved.Outcome, saved.Dropped)
	}
	live, err := svc.LiveItems(ctx, saved.Record.ID)
	if err != nil {
		t.Fatalf("LiveItems: %v", err)
	}
	if got := triples(live); got != "(1,0,att-1)(2,0,att-2)" {
		t.Fatalf("live items: got=%s", got)
	}

	detail, err := svc.Detail(ctx, saved.Record.ID)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if detail.Diverged {
		t.Fatalf("fresh itinerary must not be diverged")
	}
	if _, err := svc.AddItem(ctx, saved.Record.ID, 2, 1, "att-3"); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	detail, err = svc.Detail(ctx, saved.Record.ID)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if !detail.Diverged || len(detail.Items) != 3 {
		t.Fatalf("after edit: want diverged with 3 items got diverged=%v items=%d", detail.Diverged, len(detail.Items))
	}
	plan, err := svc.SavedPlan(ctx, saved.Record.ID)
	if err != nil {
		t.Fatalf("SavedPlan: %v", err)
	}
	if string(plan.Snapshot) != string(saved.Record.Snapshot) {
		t.Fatalf("saved plan changed: want=%s got=%s", saved.Record.Snapshot, plan.Snapshot)
	}
}

func TestSaveFallsBackOnBadPlanner(t *testing.T) {
	cases := map[string]*countingPlanner{
		"malformed text": {result: planner.RawText{Text: "I could not plan this trip."}},
		"planner error":  {err: errors.New("upstream timeout")},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			svc, _ := newItineraryService(t, p)
			saved, err := svc.Save(context.Background(), SaveItineraryInput{UserID: "u1", SelectedIDs: []string{"att-1"}, Days: 1})
			if err != nil {
				t.Fatalf("Save: %v", err)
			}
			if saved.Outcome != itinerary.OutcomeMalformed || len(saved.Items) != 0 {
				t.Fatalf("fallback: outcome=%s items=%d", saved.Outcome, len(saved.Items))
			}
			if string(saved.Record.Snapshot) != "[]" {
				t.Fatalf("snapshot: want=[] got=%s", saved.Record.Snapshot)
			}
		})
	}
}

func TestSaveEmptySelectionSkipsPlanner(t *testing.T) {
	p := &countingPlanner{result: planner.Structured{}}
	svc, _ := newItineraryService(t, p)
	for _, sel := range [][]string{nil, {"unknown-1", "unknown-2"}} {
		saved, err := svc.Save(context.Background(), SaveItineraryInput{UserID: "u1", SelectedIDs: sel, Days: 2})
		if err != nil {
			t.Fatalf("Save(%v): %v", sel, err)
		}
		if saved.Outcome != itinerary.OutcomeEmptySelection || len(saved.Items) != 0 {
			t.Fatalf("Save(%v): outcome=%s items=%d", sel, saved.Outcome, len(saved.Items))
		}
	}
	if p.calls != 0 {
		t.Fatalf("planner calls: want=0 got=%d", p.calls)
	}
}

func TestSaveValidation(t *testing.T) {
	svc, _ := newItineraryService(t, nil)
	ctx := context.Background()
	if _, err := svc.Save(ctx, SaveItineraryInput{UserID: "", SelectedIDs: []string{"att-1"}, Days: 1}); !errors.Is(err, store.ErrInvalidArgument) {
		t.Fatalf("no user: want ErrInvalidArgument got=%v", err)
	}
	if _, err := svc.Save(ctx, SaveItineraryInput{UserID: "u1", SelectedIDs: []string{"att-1"}, Days: 0}); !errors.Is(err, store.ErrInvalidArgument) {
		t.Fatalf("days=0: want ErrInvalidArgument got=%v", err)
	}
}

func TestPreviewDoesNotSave(t *testing.T) {
	svc, s := newItineraryService(t, nil)
	ctx := context.Background()
	d, err := svc.Preview(ctx, []string{"att-1", "att-2", "att-3"}, 2, nil)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(d.Items) != 3 || d.Items[0].Day != 1 || d.Items[2].Day != 2 {
		t.Fatalf("preview items: got=%+v", d.Items)
	}
	recs, _ := s.ListByUser(ctx, "u1")
	if len(recs) != 0 {
		t.Fatalf("preview saved a record")
	}
}

func TestAddItemValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newItineraryService(t, nil)
	saved, err := svc.Save(ctx, SaveItineraryInput{UserID: "u1", SelectedIDs: []string{"att-1"}, Days: 2})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	id := saved.Record.ID

	cases := []struct {
		name     string
		itinID   string
		day, pos int
		att      string
		want     error
	}{
		{name: "negative position", itinID: id, day: 1, pos: -1, att: "att-2", want: store.ErrInvalidArgument},
		{name: "day zero", itinID: id, day: 0, pos: 0, att: "att-2", want: store.ErrInvalidArgument},
		{name: "day past end", itinID: id, day: 3, pos: 0, att: "att-2", want: store.ErrInvalidArgument},
		{name: "unknown attraction", itinID: id, day: 1, pos: 0, att: "att-404", want: store.ErrNotFound},
		{name: "unknown itinerary", itinID: "missing", day: 1, pos: 0, att: "att-2", want: store.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.AddItem(ctx, tc.itinID, tc.day, tc.pos, tc.att); !errors.Is(err, tc.want) {
				t.Fatalf("AddItem: want=%v got=%v", tc.want, err)
			}
		})
	}

	// Outside the original selection is allowed.
	if _, err := svc.AddItem(ctx, id, 2, 7, "att-3"); err != nil {
		t.Fatalf("AddItem(outside selection): %v", err)
	}
}

func TestUpdatePositionsScopedAndCounted(t *testing.T) {
	ctx := context.Background()
	svc, _ := newItineraryService(t, nil)
	a, _ := svc.Save(ctx, SaveItineraryInput{UserID: "u1", SelectedIDs: []string{"att-1", "att-2"}, Days: 1})
	b, _ := svc.Save(ctx, SaveItineraryInput{UserID: "u1", SelectedIDs: []string{"att-3"}, Days: 1})

	n, err := svc.UpdatePositions(ctx, a.Record.ID, []store.PositionUpdate{
		{ItemID: a.Items[0].ID, NewPosition: 2},
		{ItemID: "missing", NewPosition: 9},
		{ItemID: a.Items[1].ID, NewPosition: -3},
		{ItemID: b.Items[0].ID, NewPosition: 4},
	})
	if err != nil {
		t.Fatalf("UpdatePositions: %v", err)
	}
	if n != 1 {
		t.Fatalf("applied: want=1 got=%d", n)
	}
	items, _ := svc.LiveItems(ctx, a.Record.ID)
	if got := triples(items); got != "(1,1,att-2)(1,2,att-1)" {
		t.Fatalf("items: got=%s", got)
	}
	other, _ := svc.LiveItems(ctx, b.Record.ID)
	if other[0].Position != 0 {
		t.Fatalf("other itinerary moved: got=%d", other[0].Position)
	}
}

func TestDeleteItinerary(t *testing.T) {
	ctx := context.Background()
	svc, _ := newItineraryService(t, nil)
	saved, _ := svc.Save(ctx, SaveItineraryInput{UserID: "u1", SelectedIDs: []string{"att-1"}, Days: 1})
	ok, err := svc.DeleteItinerary(ctx, saved.Record.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteItinerary: want=true got=%v err=%v", ok, err)
	}
	if _, err := svc.Detail(ctx, saved.Record.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Detail(deleted): want ErrNotFound got=%v", err)
	}
	items, err := svc.LiveItems(ctx, saved.Record.ID)
	if err != nil || len(items) != 0 {
		t.Fatalf("LiveItems(deleted): want empty got=%d err=%v", len(items), err)
	}
}
