package filestore

import (
	"context"

	"github.com/yungbote/travelplanner-backend/internal/toggle"
)

type edgeSet[E toggle.Edge] struct {
	rel  toggle.Relation[E]
	coll *collection[E]
}

// NewEdgeSet stores the relation's edges in <dir>/<rel.Collection>.json.
func NewEdgeSet[E toggle.Edge](s *Store, rel toggle.Relation[E]) toggle.EdgeSet[E] {
	return &edgeSet[E]{rel: rel, coll: newCollection[E](s, rel.Collection)}
}

func (e *edgeSet[E]) Flip(ctx context.Context, key toggle.Key) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	present := false
	err := e.coll.update(func(rows []E) ([]E, error) {
		for i, row := range rows {
			if toggle.KeyOf(row) == key {
				return append(rows[:i:i], rows[i+1:]...), nil
			}
		}
		present = true
		return append(rows, e.rel.New(key)), nil
	})
	if err != nil {
		return false, err
	}
	return present, nil
}

func (e *edgeSet[E]) Exists(ctx context.Context, key toggle.Key) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	rows, err := e.coll.snapshot()
	if err != nil {
		return false, err
	}
	for _, row := range rows {
		if toggle.KeyOf(row) == key {
			return true, nil
		}
	}
	return false, nil
}

func (e *edgeSet[E]) CountByObject(ctx context.Context, object string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	rows, err := e.coll.snapshot()
	if err != nil {
		return 0, err
	}
	var n int64
	for _, row := range rows {
		if toggle.KeyOf(row).Object == object {
			n++
		}
	}
	return n, nil
}

func (e *edgeSet[E]) ListBySubject(ctx context.Context, subject string) ([]E, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := e.coll.snapshot()
	if err != nil {
		return nil, err
	}
	out := []E{}
	for _, row := range rows {
		if toggle.KeyOf(row).Subject == subject {
			out = append(out, row)
		}
	}
	toggle.SortByObject(out)
	return out, nil
}
