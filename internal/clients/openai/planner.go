package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/travelplanner-backend/internal/domain"
	"github.com/yungbote/travelplanner-backend/internal/planner"
	"github.com/yungbote/travelplanner-backend/internal/platform/logger"
)

const plannerSystemPrompt = `You plan multi-day city trips.
Return only a JSON array. Each element is an object with "day" (1-based integer),
"attraction_id" (one of the given ids), "position" (0-based order within the day)
and an optional short "note". Use every attraction at most once.`

// Planner asks the model for a plan and hands back its raw text. Decoding
// and validation happen downstream.
type Planner struct {
	log    *logger.Logger
	client Client
}

var _ planner.Planner = (*Planner)(nil)

func NewPlanner(log *logger.Logger, client Client) *Planner {
	return &Planner{log: log.With("planner", "OpenAIPlanner"), client: client}
}

func (p *Planner) Generate(ctx context.Context, selection []*domain.Attraction, days int, preferences []string) (planner.Result, error) {
	user, err := planPrompt(selection, days, preferences)
	if err != nil {
		return nil, err
	}
	text, err := p.client.GenerateText(ctx, plannerSystemPrompt, user)
	if err != nil {
		return nil, fmt.Errorf("openai plan: %w", err)
	}
	p.log.Debug("plan generated", "attractions", len(selection), "days", days, "bytes", len(text))
	return planner.RawText{Text: text}, nil
}

type promptAttraction struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Address string   `json:"address,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

func planPrompt(selection []*domain.Attraction, days int, preferences []string) (string, error) {
	rows := make([]promptAttraction, 0, len(selection))
	for _, a := range selection {
		if a == nil {
			continue
		}
		rows = append(rows, promptAttraction{ID: a.ID, Name: a.Name, Address: a.Address, Tags: a.Tags})
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Days: %d\n", days)
	if len(preferences) > 0 {
		fmt.Fprintf(&b, "Preferences: %s\n", strings.Join(preferences, ", "))
	}
	fmt.Fprintf(&b, "Attractions: %s\n", raw)
	return b.String(), nil
}
