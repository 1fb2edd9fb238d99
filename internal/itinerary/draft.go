// Package itinerary turns a planner result into the ordered items that get
// persisted for a selection.
package itinerary

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/yungbote/travelplanner-backend/internal/data/store"
	"github.com/yungbote/travelplanner-backend/internal/planner"
)

type Outcome string

const (
	OutcomeEmptySelection Outcome = "empty_selection"
	OutcomeStructured     Outcome = "structured"
	OutcomeDecodedText    Outcome = "decoded_text"
	// OutcomeMalformed means the planner output was unusable and the draft
	// is an empty plan even though the selection was not empty.
	OutcomeMalformed Outcome = "malformed_fallback"
)

type DraftItem struct {
	Day          int    `json:"day"`
	Position     int    `json:"position"`
	AttractionID string `json:"attraction_id"`
}

type Draft struct {
	Items   []DraftItem `json:"items"`
	Outcome Outcome     `json:"outcome"`
	// Dropped counts planner entries outside the selection or the day range.
	Dropped int `json:"dropped"`
	// Reason is set for OutcomeMalformed.
	Reason string `json:"reason,omitempty"`

	entries []planner.Entry
}

// Snapshot is the plan as kept: surviving entries with their assigned
// positions and any extra planner fields, or [] when nothing survived.
func (d *Draft) Snapshot() (json.RawMessage, error) {
	if len(d.entries) == 0 {
		return json.RawMessage("[]"), nil
	}
	raw, err := json.Marshal(d.entries)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return raw, nil
}

// ItemDrafts converts the draft for the store.
func (d *Draft) ItemDrafts() []store.ItemDraft {
	out := make([]store.ItemDraft, 0, len(d.Items))
	for _, it := range d.Items {
		out = append(out, store.ItemDraft{Day: it.Day, Position: it.Position, AttractionID: it.AttractionID})
	}
	return out
}

// Build keeps the planner entries whose attraction is in selection and whose
// day is in [1, days]. Positions the planner supplied (non-negative) are kept
// as-is; the rest get their ordinal among the kept entries of the same day.
// Items come out ordered by (day, position), stable on planner order.
func Build(selection []string, days int, result planner.Result) (*Draft, error) {
	if days < 1 {
		return nil, fmt.Errorf("%w: days must be >= 1, got %d", store.ErrInvalidArgument, days)
	}
	selected := make(map[string]struct{}, len(selection))
	for _, id := range selection {
		if id = strings.TrimSpace(id); id != "" {
			selected[id] = struct{}{}
		}
	}
	if len(selected) == 0 {
		return &Draft{Items: []DraftItem{}, Outcome: OutcomeEmptySelection}, nil
	}

	var entries []planner.Entry
	outcome := OutcomeStructured
	switch r := result.(type) {
	case planner.Structured:
		entries = r.Entries
	case *planner.Structured:
		if r != nil {
			entries = r.Entries
		}
	case planner.RawText:
		return fromDecoded(planner.Decode(r.Text), selected, days)
	case planner.Malformed:
		return malformed(r.Reason), nil
	case nil:
		return malformed("planner returned no result"), nil
	default:
		return malformed(fmt.Sprintf("unknown planner result %T", result)), nil
	}
	return keep(entries, selected, days, outcome), nil
}

func fromDecoded(decoded planner.Result, selected map[string]struct{}, days int) (*Draft, error) {
	switch r := decoded.(type) {
	case planner.Structured:
		return keep(r.Entries, selected, days, OutcomeDecodedText), nil
	case planner.Malformed:
		return malformed(r.Reason), nil
	default:
		return malformed(fmt.Sprintf("unexpected decode result %T", decoded)), nil
	}
}

func malformed(reason string) *Draft {
	return &Draft{Items: []DraftItem{}, Outcome: OutcomeMalformed, Reason: reason}
}

func keep(entries []planner.Entry, selected map[string]struct{}, days int, outcome Outcome) *Draft {
	d := &Draft{Items: []DraftItem{}, Outcome: outcome}
	nextOrdinal := map[int]int{}
	for _, e := range entries {
		if _, ok := selected[e.AttractionID]; !ok || e.Day < 1 || e.Day > days {
			d.Dropped++
			continue
		}
		pos := nextOrdinal[e.Day]
		nextOrdinal[e.Day]++
		if e.Position != nil && *e.Position >= 0 {
			pos = *e.Position
		}
		kept := e
		kept.Position = &pos
		d.entries = append(d.entries, kept)
		d.Items = append(d.Items, DraftItem{Day: e.Day, Position: pos, AttractionID: e.AttractionID})
	}
	sort.SliceStable(d.Items, func(i, j int) bool {
		if d.Items[i].Day != d.Items[j].Day {
			return d.Items[i].Day < d.Items[j].Day
		}
		return d.Items[i].Position < d.Items[j].Position
	})
	return d
}
