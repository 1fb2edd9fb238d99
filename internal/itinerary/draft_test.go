package itinerary

import (
	"errors"
	"fmt"
	"testing"

	"github.com/yungbote/travelplanner-backend/internal/data/store"
	"github.com/yungbote/travelplanner-backend/internal/planner"
)

func triples(items []DraftItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, fmt.Sprintf("(%d,%d,%s)", it.Day, it.Position, it.AttractionID))
	}
	return out
}

func assertItems(t *testing.T, got []DraftItem, want ...string) {
	t.Helper()
	g := triples(got)
	if len(g) != len(want) {
		t.Fatalf("items: want=%v got=%v", want, g)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("items: want=%v got=%v", want, g)
		}
	}
}

func intp(i int) *int { return &i }

func TestBuildDropsOutOfRangeDay(t *testing.T) {
	res := planner.Decode(`[{"day":1,"attraction_id":"att-1"},{"day":2,"attraction_id":"att-2"},{"day":3,"attraction_id":"att-1"}]`)
	d, err := Build([]string{"att-1", "att-2"}, 2, planner.RawText{Text: `[{"day":1,"attraction_id":"att-1"},{"day":2,"attraction_id":"att-2"},{"day":3,"attraction_id":"att-1"}]`})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	assertItems(t, d.Items, "(1,0,att-1)", "(2,0,att-2)")
	if d.Dropped != 1 || d.Outcome != OutcomeDecodedText {
		t.Fatalf("draft: want dropped=1 outcome=%s got dropped=%d outcome=%s", OutcomeDecodedText, d.Dropped, d.Outcome)
	}

	d, err = Build([]string{"att-1", "att-2"}, 2, res)
	if err != nil {
		t.Fatalf("Build(structured): %v", err)
	}
	assertItems(t, d.Items, "(1,0,att-1)", "(2,0,att-2)")
	if d.Outcome != OutcomeStructured {
		t.Fatalf("outcome: want=%s got=%s", OutcomeStructured, d.Outcome)
	}
}

func TestBuildSelectionContainment(t *testing.T) {
	res := planner.Structured{Entries: []planner.Entry{
		{Day: 1, AttractionID: "att-1"},
		{Day: 1, AttractionID: "att-intruder"},
		{Day: 1, AttractionID: "att-2"},
		{Day: 0, AttractionID: "att-2"},
	}}
	d, err := Build([]string{"att-1", "att-2"}, 1, res)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	assertItems(t, d.Items, "(1,0,att-1)", "(1,1,att-2)")
	if d.Dropped != 2 {
		t.Fatalf("dropped: want=2 got=%d", d.Dropped)
	}
	for _, it := range d.Items {
		if it.AttractionID != "att-1" && it.AttractionID != "att-2" {
			t.Fatalf("item outside selection: %+v", it)
		}
	}
}

func TestBuildExplicitPositions(t *testing.T) {
	res := planner.Structured{Entries: []planner.Entry{
		{Day: 1, AttractionID: "a", Position: intp(5)},
		{Day: 1, AttractionID: "b"},
		{Day: 1, AttractionID: "c", Position: intp(-1)},
		{Day: 2, AttractionID: "d", Position: intp(0)},
		{Day: 1, AttractionID: "e", Position: intp(1)},
	}}
	d, err := Build([]string{"a", "b", "c", "d", "e"}, 2, res)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// b is ordinal 1 and e claims 1 explicitly: duplicates keep planner order.
	assertItems(t, d.Items, "(1,1,b)", "(1,1,e)", "(1,2,c)", "(1,5,a)", "(2,0,d)")
}

func TestBuildEmptySelection(t *testing.T) {
	d, err := Build(nil, 3, planner.Structured{Entries: []planner.Entry{{Day: 1, AttractionID: "a"}}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if d.Outcome != OutcomeEmptySelection || len(d.Items) != 0 || d.Items == nil {
		t.Fatalf("empty selection: got=%+v", d)
	}
	snap, _ := d.Snapshot()
	if string(snap) != "[]" {
		t.Fatalf("snapshot: want=[] got=%s", snap)
	}
}

func TestBuildMalformedFallsBackToEmptyPlan(t *testing.T) {
	for name, res := range map[string]planner.Result{
		"bad text":  planner.RawText{Text: "sorry, I cannot help with that"},
		"malformed": planner.Malformed{Reason: "timeout"},
		"nil":       nil,
	} {
		t.Run(name, func(t *testing.T) {
			d, err := Build([]string{"att-1"}, 2, res)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if d.Outcome != OutcomeMalformed || len(d.Items) != 0 || d.Reason == "" {
				t.Fatalf("fallback: got=%+v", d)
			}
		})
	}
}

func TestBuildRejectsZeroDays(t *testing.T) {
	if _, err := Build([]string{"a"}, 0, planner.Structured{}); !errors.Is(err, store.ErrInvalidArgument) {
		t.Fatalf("days=0: want ErrInvalidArgument got=%v", err)
	}
}

func TestSnapshotKeepsExtrasAndPositions(t *testing.T) {
	res := planner.Decode(`[{"day":1,"attraction_id":"a","tip":"go early"},{"day":1,"attraction_id":"zzz"},{"day":1,"attraction_id":"b"}]`)
	d, err := Build([]string{"a", "b"}, 1, res)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	snap, err := d.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	want := `[{"attraction_id":"a","day":1,"position":0,"tip":"go early"},{"attraction_id":"b","day":1,"position":1}]`
	if string(snap) != want {
		t.Fatalf("snapshot: want=%s got=%s", want, snap)
	}
	drafts := d.ItemDrafts()
	if len(drafts) != 2 || drafts[1].AttractionID != "b" || drafts[1].Position != 1 {
		t.Fatalf("ItemDrafts: got=%+v", drafts)
	}
}
