package planner

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/yungbote/travelplanner-backend/internal/domain"
)

func TestDecode(t *testing.T) {
	cases := []struct {
		name       string
		text       string
		structured bool
		entries    int
	}{
		{name: "array", text: `[{"day":1,"attraction_id":"att-1"}]`, structured: true, entries: 1},
		{name: "fenced", text: "```json\n[{\"day\":1,\"attraction_id\":\"att-1\"},{\"day\":2,\"attraction_id\":\"att-2\"}]\n```", structured: true, entries: 2},
		{name: "bare fence", text: "```\n[]\n```", structured: true, entries: 0},
		{name: "object", text: `{"day":1}`},
		{name: "prose", text: "Here is your plan: day 1 Louvre"},
		{name: "empty", text: "   "},
		{name: "null", text: "null"},
		{name: "trailing", text: `[] []`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Decode(tc.text)
			s, ok := res.(Structured)
			if ok != tc.structured {
				t.Fatalf("structured: want=%v got=%T", tc.structured, res)
			}
			if ok && len(s.Entries) != tc.entries {
				t.Fatalf("entries: want=%d got=%d", tc.entries, len(s.Entries))
			}
			if !ok {
				if m, isMalformed := res.(Malformed); !isMalformed || m.Reason == "" {
					t.Fatalf("want Malformed with reason, got=%#v", res)
				}
			}
		})
	}
}

func TestEntryLenientDecode(t *testing.T) {
	var entries []Entry
	raw := `[
		{"day":"2","attraction_id":"att-1","position":3,"note":"sunset"},
		{"day":1.5,"attraction_id":"att-2"},
		{"attraction_id":7},
		"not an object"
	]`
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("entries: want=4 got=%d", len(entries))
	}
	e := entries[0]
	if e.Day != 2 || e.AttractionID != "att-1" || e.Position == nil || *e.Position != 3 {
		t.Fatalf("entry 0: got=%+v", e)
	}
	if string(e.Extra["note"]) != `"sunset"` {
		t.Fatalf("extra note: got=%s", e.Extra["note"])
	}
	if entries[1].Day != 0 {
		t.Fatalf("fractional day should decode to 0: got=%d", entries[1].Day)
	}
	if entries[2].AttractionID != "7" || entries[2].Day != 0 {
		t.Fatalf("entry 2: got=%+v", entries[2])
	}
	if entries[3].Day != 0 || entries[3].AttractionID != "" {
		t.Fatalf("non-object entry: got=%+v", entries[3])
	}
}

func TestEntryMarshalSortedKeys(t *testing.T) {
	pos := 1
	e := Entry{
		Day:          2,
		AttractionID: "att-1",
		Position:     &pos,
		Extra:        map[string]json.RawMessage{"zeta": json.RawMessage(`true`), "alpha": json.RawMessage(`"x"`)},
	}
	raw, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"alpha":"x","attraction_id":"att-1","day":2,"position":1,"zeta":true}`
	if string(raw) != want {
		t.Fatalf("Marshal: want=%s got=%s", want, raw)
	}

	raw, _ = json.Marshal(Entry{Day: 1, AttractionID: "att-2"})
	if want := `{"attraction_id":"att-2","day":1}`; string(raw) != want {
		t.Fatalf("Marshal without position: want=%s got=%s", want, raw)
	}
}

func TestRoundRobin(t *testing.T) {
	sel := []*domain.Attraction{
		{ID: "a", Name: "A"}, {ID: "b"}, nil, {ID: "c"},
	}
	res, err := RoundRobin{}.Generate(context.Background(), sel, 2, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	s := res.(Structured)
	var got []string
	for _, e := range s.Entries {
		got = append(got, e.AttractionID+":"+string(rune('0'+e.Day)))
	}
	want := []string{"a:1", "b:2", "c:1"}
	if len(got) != len(want) {
		t.Fatalf("entries: want=%v got=%v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entries: want=%v got=%v", want, got)
		}
	}
	if string(s.Entries[0].Extra["name"]) != `"A"` || s.Entries[1].Extra != nil {
		t.Fatalf("extras: got=%v / %v", s.Entries[0].Extra, s.Entries[1].Extra)
	}

	if _, err := (RoundRobin{}).Generate(context.Background(), sel, 0, nil); err == nil {
		t.Fatalf("Generate(days=0): want error")
	}
}
