// Package storetest is the behavioural contract every store.Backend must
// pass. Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/travelplanner-backend/internal/data/store"
	"github.com/yungbote/travelplanner-backend/internal/domain"
	"github.com/yungbote/travelplanner-backend/internal/toggle"
)

// Factory returns a fresh, empty backend using now as its clock.
type Factory func(t *testing.T, now store.Clock) store.Backend

// Clock is a deterministic clock that advances by Step on every call.
type Clock struct {
	mu   sync.Mutex
	next time.Time
	Step time.Duration
}

func NewClock(start time.Time, step time.Duration) *Clock {
	return &Clock{next: start.UTC(), Step: step}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(c.Step)
	return t
}

var epoch = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func Run(t *testing.T, newBackend Factory) {
	t.Run("Catalog", func(t *testing.T) { testCatalog(t, newBackend) })
	t.Run("SaveAndRead", func(t *testing.T) { testSaveAndRead(t, newBackend) })
	t.Run("SaveRejectsBadInput", func(t *testing.T) { testSaveRejectsBadInput(t, newBackend) })
	t.Run("ListByUserOrder", func(t *testing.T) { testListByUserOrder(t, newBackend) })
	t.Run("ItemEdits", func(t *testing.T) { testItemEdits(t, newBackend) })
	t.Run("UpdatePositions", func(t *testing.T) { testUpdatePositions(t, newBackend) })
	t.Run("DuplicatePositionsStable", func(t *testing.T) { testDuplicatePositions(t, newBackend) })
	t.Run("SnapshotSurvivesEdits", func(t *testing.T) { testSnapshotSurvivesEdits(t, newBackend) })
	t.Run("DeleteItineraryCascades", func(t *testing.T) { testDeleteCascade(t, newBackend) })
	t.Run("Toggle", func(t *testing.T) { testToggle(t, newBackend) })
	t.Run("ConcurrentToggles", func(t *testing.T) { testConcurrentToggles(t, newBackend) })
	t.Run("Users", func(t *testing.T) { testUsers(t, newBackend) })
	t.Run("PostsAndComments", func(t *testing.T) { testPostsAndComments(t, newBackend) })
}

func open(t *testing.T, newBackend Factory) store.Backend {
	t.Helper()
	b := newBackend(t, NewClock(epoch, time.Second).Now)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func mustSave(t *testing.T, b store.Backend, in store.SaveItinerary) *domain.Itinerary {
	t.Helper()
	rec, err := b.Save(context.Background(), in)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	return rec
}

func itemTriples(items []*domain.ItineraryItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, fmt.Sprintf("(%d,%d,%s)", it.Day, it.Position, it.AttractionID))
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func testCatalog(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)

	err := b.UpsertAttractions(ctx, []*domain.Attraction{
		{ID: "att-3", Name: "Notre-Dame", Address: "6 Parvis Notre-Dame, Paris", Tags: []string{"history"}},
		{ID: "att-1", Name: "Eiffel Tower", Address: "Champ de Mars, Paris", Tags: []string{"landmark", "view"}},
		{ID: "att-2", Name: "Louvre", Address: "Rue de Rivoli, Paris"},
		{ID: "att-9", Name: "Senso-ji", Address: "Asakusa, Tokyo"},
	})
	if err != nil {
		t.Fatalf("UpsertAttractions: %v", err)
	}

	all, err := b.ListAttractions(ctx, store.AttractionFilter{})
	if err != nil {
		t.Fatalf("ListAttractions: %v", err)
	}
	var names []string
	for _, a := range all {
		names = append(names, a.Name)
	}
	want := []string{"Eiffel Tower", "Louvre", "Notre-Dame", "Senso-ji"}
	if !equalStrings(names, want) {
		t.Fatalf("ListAttractions order: want=%v got=%v", want, names)
	}
	if all[1].Tags == nil || len(all[1].Tags) != 0 {
		t.Fatalf("missing tags should list as empty: got=%#v", all[1].Tags)
	}

	paris, err := b.ListAttractions(ctx, store.AttractionFilter{Destination: "  PARIS "})
	if err != nil {
		t.Fatalf("ListAttractions(paris): %v", err)
	}
	if len(paris) != 3 {
		t.Fatalf("paris filter: want=3 got=%d", len(paris))
	}
	byName, err := b.ListAttractions(ctx, store.AttractionFilter{Destination: "senso"})
	if err != nil {
		t.Fatalf("ListAttractions(senso): %v", err)
	}
	if len(byName) != 1 || byName[0].ID != "att-9" {
		t.Fatalf("name filter: got=%v", byName)
	}
	none, err := b.ListAttractions(ctx, store.AttractionFilter{Destination: "lisbon"})
	if err != nil {
		t.Fatalf("ListAttractions(lisbon): %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Fatalf("no match: want empty slice got=%#v", none)
	}

	if err := b.UpsertAttractions(ctx, []*domain.Attraction{{ID: "att-2", Name: "Musee du Louvre", Address: "Paris"}}); err != nil {
		t.Fatalf("UpsertAttractions(replace): %v", err)
	}
	got, err := b.GetAttraction(ctx, "att-2")
	if err != nil {
		t.Fatalf("GetAttraction: %v", err)
	}
	if got.Name != "Musee du Louvre" {
		t.Fatalf("replace: want=%q got=%q", "Musee du Louvre", got.Name)
	}

	if _, err := b.GetAttraction(ctx, "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetAttraction(unknown): want ErrNotFound got=%v", err)
	}
	if err := b.UpsertAttractions(ctx, []*domain.Attraction{{Name: "no id"}}); !errors.Is(err, store.ErrInvalidArgument) {
		t.Fatalf("UpsertAttractions(no id): want ErrInvalidArgument got=%v", err)
	}
}

func testSaveAndRead(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)

	title := "Paris weekend"
	snapshot := json.RawMessage(`[ {"day":1, "attraction_id":"att-1", "position":0, "note":"<sunrise>"},
		{"day":2, "attraction_id":"att-2", "position":0} ]`)
	rec := mustSave(t, b, store.SaveItinerary{
		UserID:      "u1",
		Title:       &title,
		SelectedIDs: []string{"att-1", "att-2"},
		Days:        2,
		Snapshot:    snapshot,
		Items: []store.ItemDraft{
			{Day: 2, Position: 0, AttractionID: "att-2"},
			{Day: 1, Position: 0, AttractionID: "att-1"},
		},
	})
	if rec.ID == "" {
		t.Fatalf("Save: empty id")
	}
	if !rec.CreatedAt.Equal(epoch) {
		t.Fatalf("created_at: want=%v got=%v", epoch, rec.CreatedAt)
	}

	items, err := b.ListItems(ctx, rec.ID)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	want := []string{"(1,0,att-1)", "(2,0,att-2)"}
	if got := itemTriples(items); !equalStrings(got, want) {
		t.Fatalf("ListItems: want=%v got=%v", want, got)
	}
	for _, it := range items {
		if it.ItineraryID != rec.ID {
			t.Fatalf("item itinerary: want=%s got=%s", rec.ID, it.ItineraryID)
		}
	}

	got, err := b.GetItinerary(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetItinerary: %v", err)
	}
	wantSnap, _ := store.SnapshotJSON(snapshot)
	if string(got.Snapshot) != string(wantSnap) {
		t.Fatalf("snapshot: want=%s got=%s", wantSnap, got.Snapshot)
	}
	if got.Title == nil || *got.Title != title {
		t.Fatalf("title: want=%q got=%v", title, got.Title)
	}
	if got.Days != 2 || !equalStrings(got.SelectedIDs, []string{"att-1", "att-2"}) {
		t.Fatalf("record fields: got days=%d selected=%v", got.Days, got.SelectedIDs)
	}
	if got.Preferences == nil || len(got.Preferences) != 0 {
		t.Fatalf("preferences: want empty slice got=%#v", got.Preferences)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) || got.CreatedAt.Location() != time.UTC {
		t.Fatalf("created_at round trip: want=%v got=%v", rec.CreatedAt, got.CreatedAt)
	}

	empty := mustSave(t, b, store.SaveItinerary{UserID: "u1", Days: 1})
	got, err = b.GetItinerary(ctx, empty.ID)
	if err != nil {
		t.Fatalf("GetItinerary(empty): %v", err)
	}
	if string(got.Snapshot) != "[]" || got.Title != nil {
		t.Fatalf("empty record: snapshot=%s title=%v", got.Snapshot, got.Title)
	}

	if _, err := b.GetItinerary(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetItinerary(unknown): want ErrNotFound got=%v", err)
	}
	unknown, err := b.ListItems(ctx, "missing")
	if err != nil {
		t.Fatalf("ListItems(unknown): %v", err)
	}
	if unknown == nil || len(unknown) != 0 {
		t.Fatalf("ListItems(unknown): want empty slice got=%#v", unknown)
	}
}

func testSaveRejectsBadInput(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)

	cases := []store.SaveItinerary{
		{UserID: "", Days: 1},
		{UserID: "u1", Days: 0},
		{UserID: "u1", Days: 1, Snapshot: json.RawMessage(`{"broken"`)},
	}
	for i, in := range cases {
		if _, err := b.Save(ctx, in); !errors.Is(err, store.ErrInvalidArgument) {
			t.Fatalf("case %d: want ErrInvalidArgument got=%v", i, err)
		}
	}
	recs, err := b.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("rejected saves must not persist: got=%d", len(recs))
	}
}

func testListByUserOrder(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)

	first := mustSave(t, b, store.SaveItinerary{UserID: "u1", Days: 1})
	mustSave(t, b, store.SaveItinerary{UserID: "u2", Days: 1})
	third := mustSave(t, b, store.SaveItinerary{UserID: "u1", Days: 3})

	recs, err := b.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(recs) != 2 || recs[0].ID != third.ID || recs[1].ID != first.ID {
		t.Fatalf("ListByUser order: want=[%s %s] got=%v", third.ID, first.ID, recs)
	}
	none, err := b.ListByUser(ctx, "nobody")
	if err != nil {
		t.Fatalf("ListByUser(nobody): %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Fatalf("ListByUser(nobody): want empty slice got=%#v", none)
	}
}

func testItemEdits(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)

	if _, err := b.AddItem(ctx, "missing", 1, 0, "att-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("AddItem(unknown itinerary): want ErrNotFound got=%v", err)
	}

	rec := mustSave(t, b, store.SaveItinerary{
		UserID: "u1", Days: 2,
		Items: []store.ItemDraft{{Day: 1, Position: 0, AttractionID: "att-1"}},
	})
	added, err := b.AddItem(ctx, rec.ID, 1, 0, "att-7")
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if added.ItineraryID != rec.ID || added.AttractionID != "att-7" {
		t.Fatalf("AddItem: got=%+v", added)
	}
	got, err := b.GetItem(ctx, added.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.ItineraryID != rec.ID || got.Day != 1 || got.AttractionID != "att-7" {
		t.Fatalf("GetItem: got=%+v", got)
	}
	if _, err := b.GetItem(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetItem(unknown): want ErrNotFound got=%v", err)
	}
	items, err := b.ListItems(ctx, rec.ID)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	want := []string{"(1,0,att-1)", "(1,0,att-7)"}
	if got := itemTriples(items); !equalStrings(got, want) {
		t.Fatalf("after AddItem: want=%v got=%v", want, got)
	}

	ok, err := b.DeleteItem(ctx, added.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteItem: want=true got=%v err=%v", ok, err)
	}
	ok, err = b.DeleteItem(ctx, added.ID)
	if err != nil || ok {
		t.Fatalf("DeleteItem again: want=false got=%v err=%v", ok, err)
	}
	items, err = b.ListItems(ctx, rec.ID)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("after delete: want=1 got=%d", len(items))
	}
}

func testUpdatePositions(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)

	rec := mustSave(t, b, store.SaveItinerary{
		UserID: "u1", Days: 1,
		Items: []store.ItemDraft{
			{Day: 1, Position: 0, AttractionID: "att-a"},
			{Day: 1, Position: 1, AttractionID: "att-b"},
		},
	})
	other := mustSave(t, b, store.SaveItinerary{
		UserID: "u1", Days: 1,
		Items: []store.ItemDraft{{Day: 1, Position: 0, AttractionID: "att-z"}},
	})
	items, _ := b.ListItems(ctx, rec.ID)
	otherItems, _ := b.ListItems(ctx, other.ID)

	n, err := b.UpdatePositions(ctx, rec.ID, []store.PositionUpdate{
		{ItemID: items[0].ID, NewPosition: 2},
		{ItemID: "missing", NewPosition: 9},
	})
	if err != nil {
		t.Fatalf("UpdatePositions: %v", err)
	}
	if n != 1 {
		t.Fatalf("UpdatePositions applied: want=1 got=%d", n)
	}
	items, _ = b.ListItems(ctx, rec.ID)
	want := []string{"(1,1,att-b)", "(1,2,att-a)"}
	if got := itemTriples(items); !equalStrings(got, want) {
		t.Fatalf("after reorder: want=%v got=%v", want, got)
	}

	n, err = b.UpdatePositions(ctx, rec.ID, []store.PositionUpdate{{ItemID: otherItems[0].ID, NewPosition: 5}})
	if err != nil {
		t.Fatalf("UpdatePositions(foreign item): %v", err)
	}
	if n != 0 {
		t.Fatalf("foreign item must not match: got=%d", n)
	}
	otherItems, _ = b.ListItems(ctx, other.ID)
	if otherItems[0].Position != 0 {
		t.Fatalf("foreign item moved: got=%d", otherItems[0].Position)
	}

	n, err = b.UpdatePositions(ctx, rec.ID, nil)
	if err != nil || n != 0 {
		t.Fatalf("UpdatePositions(empty): want=0 got=%d err=%v", n, err)
	}
}

func testDuplicatePositions(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)

	rec := mustSave(t, b, store.SaveItinerary{
		UserID: "u1", Days: 1,
		Items: []store.ItemDraft{
			{Day: 1, Position: 3, AttractionID: "att-first"},
			{Day: 1, Position: 3, AttractionID: "att-second"},
			{Day: 1, Position: 3, AttractionID: "att-third"},
		},
	})
	want := []string{"(1,3,att-first)", "(1,3,att-second)", "(1,3,att-third)"}
	for i := 0; i < 3; i++ {
		items, err := b.ListItems(ctx, rec.ID)
		if err != nil {
			t.Fatalf("ListItems: %v", err)
		}
		if got := itemTriples(items); !equalStrings(got, want) {
			t.Fatalf("read %d: want=%v got=%v", i, want, got)
		}
	}
}

func testSnapshotSurvivesEdits(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)

	snapshot := json.RawMessage(`[{"day":1,"attraction_id":"att-1","position":0}]`)
	rec := mustSave(t, b, store.SaveItinerary{
		UserID: "u1", Days: 1, Snapshot: snapshot,
		Items: []store.ItemDraft{{Day: 1, Position: 0, AttractionID: "att-1"}},
	})
	items, _ := b.ListItems(ctx, rec.ID)
	if _, err := b.AddItem(ctx, rec.ID, 1, 1, "att-2"); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := b.UpdatePositions(ctx, rec.ID, []store.PositionUpdate{{ItemID: items[0].ID, NewPosition: 4}}); err != nil {
		t.Fatalf("UpdatePositions: %v", err)
	}
	if _, err := b.DeleteItem(ctx, items[0].ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	got, err := b.GetItinerary(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetItinerary: %v", err)
	}
	if string(got.Snapshot) != string(snapshot) {
		t.Fatalf("snapshot changed: want=%s got=%s", snapshot, got.Snapshot)
	}
}

func testDeleteCascade(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)

	rec := mustSave(t, b, store.SaveItinerary{
		UserID: "u1", Days: 2,
		Items: []store.ItemDraft{
			{Day: 1, Position: 0, AttractionID: "att-1"},
			{Day: 2, Position: 0, AttractionID: "att-2"},
		},
	})
	keep := mustSave(t, b, store.SaveItinerary{
		UserID: "u1", Days: 1,
		Items: []store.ItemDraft{{Day: 1, Position: 0, AttractionID: "att-3"}},
	})

	ok, err := b.DeleteItinerary(ctx, rec.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteItinerary: want=true got=%v err=%v", ok, err)
	}
	items, err := b.ListItems(ctx, rec.ID)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items survived delete: got=%d", len(items))
	}
	if _, err := b.GetItinerary(ctx, rec.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetItinerary(deleted): want ErrNotFound got=%v", err)
	}
	ok, err = b.DeleteItinerary(ctx, rec.ID)
	if err != nil || ok {
		t.Fatalf("DeleteItinerary again: want=false got=%v err=%v", ok, err)
	}
	kept, _ := b.ListItems(ctx, keep.ID)
	if len(kept) != 1 {
		t.Fatalf("other itinerary items: want=1 got=%d", len(kept))
	}
}

func testToggle(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)

	likes := toggle.NewEngine(toggle.Likes, b.Likes(), nil)
	follows := toggle.NewEngine(toggle.Follows, b.Follows(), nil)

	wantActions := []toggle.Action{"added", "removed", "added"}
	for i, want := range wantActions {
		res, err := likes.Toggle(ctx, "u1", "p1")
		if err != nil {
			t.Fatalf("like toggle %d: %v", i, err)
		}
		if res.Action != want {
			t.Fatalf("like toggle %d: want=%s got=%s", i, want, res.Action)
		}
	}
	if _, err := likes.Toggle(ctx, "u2", "p1"); err != nil {
		t.Fatalf("like toggle u2: %v", err)
	}
	n, err := likes.Count(ctx, "p1")
	if err != nil || n != 2 {
		t.Fatalf("like count: want=2 got=%d err=%v", n, err)
	}
	ok, err := likes.Exists(ctx, "u1", "p1")
	if err != nil || !ok {
		t.Fatalf("like exists: want=true got=%v err=%v", ok, err)
	}
	n, _ = likes.Count(ctx, "p-none")
	if n != 0 {
		t.Fatalf("count for unliked post: want=0 got=%d", n)
	}

	for _, target := range []string{"u3", "u2"} {
		res, err := follows.Toggle(ctx, "u1", target)
		if err != nil || res.Action != "followed" {
			t.Fatalf("follow %s: want=followed got=%s err=%v", target, res.Action, err)
		}
	}
	res, err := follows.Toggle(ctx, "u2", "u1")
	if err != nil || res.Action != "followed" {
		t.Fatalf("follow back: got=%s err=%v", res.Action, err)
	}
	following, err := follows.ListBySubject(ctx, "u1")
	if err != nil {
		t.Fatalf("ListBySubject: %v", err)
	}
	if len(following) != 2 || following[0].TargetUserID != "u2" || following[1].TargetUserID != "u3" {
		t.Fatalf("following: got=%v", following)
	}
	res, _ = follows.Toggle(ctx, "u1", "u3")
	if res.Action != "unfollowed" {
		t.Fatalf("unfollow: want=unfollowed got=%s", res.Action)
	}
	empty, err := follows.ListBySubject(ctx, "u9")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("ListBySubject(none): want empty slice got=%#v err=%v", empty, err)
	}
}

func testConcurrentToggles(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)
	likes := toggle.NewEngine(toggle.Likes, b.Likes(), nil)

	const users = 16
	var wg sync.WaitGroup
	errs := make(chan error, users*3)
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("u%02d", i)
			if _, err := likes.Toggle(ctx, user, "p-hot"); err != nil {
				errs <- err
			}
			// Two flips on a private key cancel out.
			for j := 0; j < 2; j++ {
				if _, err := likes.Toggle(ctx, user, "p-"+user); err != nil {
					errs <- err
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent toggle: %v", err)
	}

	n, err := likes.Count(ctx, "p-hot")
	if err != nil || n != users {
		t.Fatalf("hot count: want=%d got=%d err=%v", users, n, err)
	}
	for i := 0; i < users; i++ {
		user := fmt.Sprintf("u%02d", i)
		ok, err := likes.Exists(ctx, user, "p-"+user)
		if err != nil || ok {
			t.Fatalf("private key %s: want absent got=%v err=%v", user, ok, err)
		}
	}
}

func testUsers(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)

	u, err := b.CreateUser(ctx, "alice", "Alice")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := b.CreateUser(ctx, "alice", "Other"); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("CreateUser(duplicate): want ErrConflict got=%v", err)
	}
	if _, err := b.CreateUser(ctx, "  ", "Blank"); !errors.Is(err, store.ErrInvalidArgument) {
		t.Fatalf("CreateUser(blank): want ErrInvalidArgument got=%v", err)
	}
	got, err := b.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Username != "alice" || got.Nickname != "Alice" || got.Avatar != nil {
		t.Fatalf("GetUser: got=%+v", got)
	}
	if _, err := b.GetUser(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetUser(unknown): want ErrNotFound got=%v", err)
	}
}

func testPostsAndComments(t *testing.T, newBackend Factory) {
	ctx := context.Background()
	b := open(t, newBackend)

	older, err := b.CreatePost(ctx, "u1", "first", nil)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	newer, err := b.CreatePost(ctx, "u2", "second", []string{"a.jpg"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	posts, err := b.ListPosts(ctx)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != newer.ID || posts[1].ID != older.ID {
		t.Fatalf("ListPosts order: got=%v", posts)
	}
	if posts[1].Images == nil || len(posts[1].Images) != 0 {
		t.Fatalf("images: want empty slice got=%#v", posts[1].Images)
	}
	got, err := b.GetPost(ctx, newer.ID)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if got.UserID != "u2" || len(got.Images) != 1 || got.Images[0] != "a.jpg" {
		t.Fatalf("GetPost: got=%+v", got)
	}
	if _, err := b.GetPost(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetPost(unknown): want ErrNotFound got=%v", err)
	}

	c1, err := b.AddComment(ctx, older.ID, "u2", "nice")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	c2, err := b.AddComment(ctx, older.ID, "u1", "thanks")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if _, err := b.AddComment(ctx, "missing", "u1", "x"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("AddComment(unknown post): want ErrNotFound got=%v", err)
	}
	comments, err := b.ListComments(ctx, older.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(comments) != 2 || comments[0].ID != c1.ID || comments[1].ID != c2.ID {
		t.Fatalf("ListComments order: got=%v", comments)
	}
	none, err := b.ListComments(ctx, newer.ID)
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("ListComments(none): want empty slice got=%#v err=%v", none, err)
	}
}
