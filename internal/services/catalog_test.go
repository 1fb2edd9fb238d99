package services

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/travelplanner-backend/internal/data/store"
	"github.com/yungbote/travelplanner-backend/internal/domain"
	"github.com/yungbote/travelplanner-backend/internal/platform/logger"
)

type stubSummarizer struct {
	sum Summary
	err error
}

func (s stubSummarizer) Summarize(ctx context.Context, a *domain.Attraction) (Summary, error) {
	return s.sum, s.err
}

func ids(rows []*domain.Attraction) []string {
	out := make([]string, 0, len(rows))
	for _, a := range rows {
		out = append(out, a.ID)
	}
	return out
}

func TestRecommendRanksByPreferenceOverlap(t *testing.T) {
	s := newTestStore(t)
	cs := NewCatalogService(logger.Nop(), s, nil)
	ctx := context.Background()

	got, err := cs.Recommend(ctx, "paris", 2, []string{"Art", "history"})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	want := []string{"att-2", "att-3", "att-1"}
	if g := ids(got); len(g) != 3 || g[0] != want[0] || g[1] != want[1] || g[2] != want[2] {
		t.Fatalf("ranking: want=%v got=%v", want, g)
	}

	got, err = cs.Recommend(ctx, "paris", 2, nil)
	if err != nil {
		t.Fatalf("Recommend(no prefs): %v", err)
	}
	want = []string{"att-1", "att-2", "att-3"}
	if g := ids(got); g[0] != want[0] || g[1] != want[1] || g[2] != want[2] {
		t.Fatalf("catalog order: want=%v got=%v", want, g)
	}

	if _, err := cs.Recommend(ctx, "paris", -1, nil); !errors.Is(err, store.ErrInvalidArgument) {
		t.Fatalf("negative days: want ErrInvalidArgument got=%v", err)
	}
}

func TestDetail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	plain, err := NewCatalogService(logger.Nop(), s, nil).Detail(ctx, "att-1")
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if plain.Pros == nil || plain.Cons == nil || len(plain.Pros) != 0 {
		t.Fatalf("no summarizer: want empty lists got=%+v", plain)
	}

	withSum, err := NewCatalogService(logger.Nop(), s, stubSummarizer{sum: Summary{Pros: []string{"views"}, Cons: []string{"queues"}}}).Detail(ctx, "att-1")
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if len(withSum.Pros) != 1 || withSum.Cons[0] != "queues" || withSum.SourcePosts == nil {
		t.Fatalf("summarized: got=%+v", withSum)
	}

	failing, err := NewCatalogService(logger.Nop(), s, stubSummarizer{err: errors.New("quota")}).Detail(ctx, "att-1")
	if err != nil {
		t.Fatalf("Detail with failing summarizer: %v", err)
	}
	if failing.Name != "Eiffel Tower" || len(failing.Pros) != 0 {
		t.Fatalf("failing summarizer: got=%+v", failing)
	}

	if _, err := NewCatalogService(logger.Nop(), s, nil).Detail(ctx, "att-404"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Detail(unknown): want ErrNotFound got=%v", err)
	}
}

func TestResolveSkipsUnknownAndRepeats(t *testing.T) {
	s := newTestStore(t)
	cs := NewCatalogService(logger.Nop(), s, nil)
	got, err := cs.Resolve(context.Background(), []string{"att-3", "nope", "att-1", "att-3", " "})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if g := ids(got); len(g) != 2 || g[0] != "att-3" || g[1] != "att-1" {
		t.Fatalf("Resolve: got=%v", g)
	}
}
