package storetest_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/yungbote/travelplanner-backend/internal/data/filestore"
	"github.com/yungbote/travelplanner-backend/internal/data/sqlstore"
	"github.com/yungbote/travelplanner-backend/internal/data/store"
	"github.com/yungbote/travelplanner-backend/internal/data/storetest"
	"github.com/yungbote/travelplanner-backend/internal/domain"
	"github.com/yungbote/travelplanner-backend/internal/toggle"
)

// script drives one backend through a fixed sequence and returns every
// observable result as JSON, with generated ids replaced by their ordinal.
func script(t *testing.T, b store.Backend) string {
	t.Helper()
	ctx := context.Background()
	ids := map[string]string{}
	alias := func(id string) string {
		if a, ok := ids[id]; ok {
			return a
		}
		a := "id-" + string(rune('a'+len(ids)))
		ids[id] = a
		return a
	}

	var out []any
	_ = b.UpsertAttractions(ctx, []*domain.Attraction{
		{ID: "att-2", Name: "Louvre", Address: "Paris", Tags: []string{"art"}},
		{ID: "att-1", Name: "Eiffel Tower", Address: "Paris"},
	})
	atts, _ := b.ListAttractions(ctx, store.AttractionFilter{Destination: "paris"})
	out = append(out, atts)

	title := "trip"
	rec, err := b.Save(ctx, store.SaveItinerary{
		UserID: "u1", Title: &title, Days: 2,
		SelectedIDs: []string{"att-1", "att-2"},
		Preferences: []string{"art"},
		Snapshot:    json.RawMessage(`[{"day":1,"attraction_id":"att-1","position":0,"why":"a & b"}]`),
		Items: []store.ItemDraft{
			{Day: 2, Position: 0, AttractionID: "att-2"},
			{Day: 1, Position: 0, AttractionID: "att-1"},
			{Day: 1, Position: 0, AttractionID: "att-2"},
		},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	items, _ := b.ListItems(ctx, rec.ID)
	n, _ := b.UpdatePositions(ctx, rec.ID, []store.PositionUpdate{
		{ItemID: items[0].ID, NewPosition: 5},
		{ItemID: "missing", NewPosition: 1},
	})
	out = append(out, n)
	items, _ = b.ListItems(ctx, rec.ID)
	got, _ := b.GetItinerary(ctx, rec.ID)
	recs, _ := b.ListByUser(ctx, "u1")

	likes := toggle.NewEngine(toggle.Likes, b.Likes(), nil)
	r1, _ := likes.Toggle(ctx, "u1", "p1")
	r2, _ := likes.Toggle(ctx, "u2", "p1")
	r3, _ := likes.Toggle(ctx, "u1", "p1")
	count, _ := likes.Count(ctx, "p1")
	out = append(out, r1, r2, r3, count)

	for _, it := range items {
		it.ID = alias(it.ID)
		it.ItineraryID = alias(it.ItineraryID)
	}
	got.ID = alias(got.ID)
	for _, r := range recs {
		r.ID = alias(r.ID)
	}
	out = append(out, items, got, recs)

	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(raw)
}

func TestBackendsAgree(t *testing.T) {
	start := time.Date(2026, 3, 4, 5, 6, 7, 123456000, time.UTC)

	fs, err := filestore.Open(t.TempDir(), filestore.Options{Now: storetest.NewClock(start, time.Second).Now})
	if err != nil {
		t.Fatalf("filestore.Open: %v", err)
	}
	ss, err := sqlstore.Open(sqlstore.Config{
		Driver: sqlstore.DriverSQLite,
		DSN:    "file:" + store.NewID() + "?mode=memory&cache=shared&_foreign_keys=on",
		Now:    storetest.NewClock(start, time.Second).Now,
	})
	if err != nil {
		t.Fatalf("sqlstore.Open: %v", err)
	}
	defer ss.Close()

	fromFile := script(t, fs)
	fromSQL := script(t, ss)
	if fromFile != fromSQL {
		t.Fatalf("backends disagree:\nfile=%s\nsql =%s", fromFile, fromSQL)
	}
}
