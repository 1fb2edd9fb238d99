package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yungbote/travelplanner-backend/internal/domain"
	"github.com/yungbote/travelplanner-backend/internal/platform/logger"
	"github.com/yungbote/travelplanner-backend/internal/services"
)

const summarySystemPrompt = `You summarize what visitors say about a tourist attraction.
Give short pros and cons, at most five of each.`

var summarySchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"pros": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"cons": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	},
	"required":             []string{"pros", "cons"},
	"additionalProperties": false,
}

type Summarizer struct {
	log    *logger.Logger
	client Client
}

var _ services.Summarizer = (*Summarizer)(nil)

func NewSummarizer(log *logger.Logger, client Client) *Summarizer {
	return &Summarizer{log: log.With("summarizer", "OpenAISummarizer"), client: client}
}

func (s *Summarizer) Summarize(ctx context.Context, a *domain.Attraction) (services.Summary, error) {
	user := fmt.Sprintf("Attraction: %s\nAddress: %s\nDescription: %s", a.Name, a.Address, a.Description)
	raw, err := s.client.GenerateJSON(ctx, summarySystemPrompt, user, "attraction_summary", summarySchema)
	if err != nil {
		return services.Summary{}, fmt.Errorf("openai summarize: %w", err)
	}
	var out struct {
		Pros []string `json:"pros"`
		Cons []string `json:"cons"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return services.Summary{}, fmt.Errorf("decode summary: %w", err)
	}
	return services.Summary{Pros: out.Pros, Cons: out.Cons}, nil
}
