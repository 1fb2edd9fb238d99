// Package planner is the boundary to whatever produces a day-by-day plan for
// a selection of attractions. Planners are untrusted: their output is
// modelled as Structured, RawText or Malformed and the caller decides what
// survives.
package planner

import (
	"context"

	"github.com/yungbote/travelplanner-backend/internal/domain"
)

type Result interface {
	isResult()
}

// Structured is a plan that is already a list of entries.
type Structured struct {
	Entries []Entry
}

// RawText is a plan returned as text that should decode to a list of entries.
type RawText struct {
	Text string
}

// Malformed is a plan that could not be used at all.
type Malformed struct {
	Reason string
}

func (Structured) isResult() {}
func (RawText) isResult()    {}
func (Malformed) isResult()  {}

type Planner interface {
	Generate(ctx context.Context, selection []*domain.Attraction, days int, preferences []string) (Result, error)
}

// Func adapts a function to Planner.
type Func func(ctx context.Context, selection []*domain.Attraction, days int, preferences []string) (Result, error)

func (f Func) Generate(ctx context.Context, selection []*domain.Attraction, days int, preferences []string) (Result, error) {
	return f(ctx, selection, days, preferences)
}
