package toggle

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/yungbote/travelplanner-backend/internal/domain"
)

type memSet[E Edge] struct {
	mu   sync.Mutex
	rel  Relation[E]
	rows map[Key]E
	err  error
}

func newMemSet[E Edge](rel Relation[E]) *memSet[E] {
	return &memSet[E]{rel: rel, rows: map[Key]E{}}
}

func (m *memSet[E]) Flip(ctx context.Context, key Key) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.rows[key]; ok {
		delete(m.rows, key)
		return false, nil
	}
	m.rows[key] = m.rel.New(key)
	return true, nil
}

func (m *memSet[E]) Exists(ctx context.Context, key Key) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[key]
	return ok, nil
}

func (m *memSet[E]) CountByObject(ctx context.Context, object string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k := range m.rows {
		if k.Object == object {
			n++
		}
	}
	return n, nil
}

func (m *memSet[E]) ListBySubject(ctx context.Context, subject string) ([]E, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []E{}
	for k, e := range m.rows {
		if k.Subject == subject {
			out = append(out, e)
		}
	}
	SortByObject(out)
	return out, nil
}

func TestToggleAlternates(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		run  func(ctx context.Context, subject, object string) (Result, error)
		want []Action
	}{
		{
			name: "like",
			run:  NewEngine(Likes, newMemSet(Likes), nil).Toggle,
			want: []Action{"added", "removed", "added", "removed"},
		},
		{
			name: "follow",
			run:  NewEngine(Follows, newMemSet(Follows), nil).Toggle,
			want: []Action{"followed", "unfollowed", "followed", "unfollowed"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for i, want := range tc.want {
				res, err := tc.run(ctx, "u1", "x1")
				if err != nil {
					t.Fatalf("toggle %d: %v", i, err)
				}
				if res.Action != want {
					t.Fatalf("toggle %d: want=%s got=%s", i, want, res.Action)
				}
				if res.Present != (i%2 == 0) {
					t.Fatalf("toggle %d: present want=%v got=%v", i, i%2 == 0, res.Present)
				}
			}
		})
	}
}

func TestCountAndList(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(Likes, newMemSet(Likes), nil)
	for _, k := range []Key{{"u1", "p2"}, {"u1", "p1"}, {"u2", "p1"}} {
		if _, err := e.Toggle(ctx, k.Subject, k.Object); err != nil {
			t.Fatalf("Toggle: %v", err)
		}
	}
	if n, _ := e.Count(ctx, "p1"); n != 2 {
		t.Fatalf("Count(p1): want=2 got=%d", n)
	}
	if n, _ := e.Count(ctx, ""); n != 0 {
		t.Fatalf("Count(blank): want=0 got=%d", n)
	}
	rows, err := e.ListBySubject(ctx, "u1")
	if err != nil {
		t.Fatalf("ListBySubject: %v", err)
	}
	if len(rows) != 2 || rows[0] != (domain.Like{UserID: "u1", PostID: "p1"}) {
		t.Fatalf("ListBySubject: got=%v", rows)
	}
	if ok, _ := e.Exists(ctx, "u2", "p1"); !ok {
		t.Fatalf("Exists: want=true")
	}
}

func TestToggleRejectsBlankKeys(t *testing.T) {
	e := NewEngine(Follows, newMemSet(Follows), nil)
	for _, k := range []Key{{"", "u2"}, {"u1", " "}} {
		if _, err := e.Toggle(context.Background(), k.Subject, k.Object); !errors.Is(err, ErrEmptyKey) {
			t.Fatalf("Toggle(%+v): want ErrEmptyKey got=%v", k, err)
		}
	}
}

func TestTogglePropagatesStoreError(t *testing.T) {
	set := newMemSet(Likes)
	set.err = errors.New("disk full")
	e := NewEngine(Likes, set, nil)
	if _, err := e.Toggle(context.Background(), "u1", "p1"); err == nil {
		t.Fatalf("Toggle: want error")
	}
}
