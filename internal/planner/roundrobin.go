package planner

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yungbote/travelplanner-backend/internal/domain"
)

// RoundRobin spreads the selection across the days in selection order. It is
// the planner used when no external one is configured.
type RoundRobin struct{}

func (RoundRobin) Generate(ctx context.Context, selection []*domain.Attraction, days int, _ []string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if days < 1 {
		return nil, fmt.Errorf("planner: days must be >= 1, got %d", days)
	}
	entries := make([]Entry, 0, len(selection))
	i := 0
	for _, a := range selection {
		if a == nil {
			continue
		}
		extra := map[string]json.RawMessage{}
		if name, err := json.Marshal(a.Name); err == nil && a.Name != "" {
			extra["name"] = name
		}
		if len(extra) == 0 {
			extra = nil
		}
		entries = append(entries, Entry{Day: i%days + 1, AttractionID: a.ID, Extra: extra})
		i++
	}
	return Structured{Entries: entries}, nil
}
