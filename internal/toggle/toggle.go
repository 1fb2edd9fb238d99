// Package toggle implements presence-set relations such as likes and follows.
// Each (subject, object) key is either absent or present; Toggle is the only
// transition and always flips it.
package toggle

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/yungbote/travelplanner-backend/internal/platform/logger"
)

var ErrEmptyKey = errors.New("toggle: subject and object are required")

type Key struct {
	Subject string
	Object  string
}

func (k Key) Valid() bool {
	return strings.TrimSpace(k.Subject) != "" && strings.TrimSpace(k.Object) != ""
}

// Edge is a persisted edge row. Its key is the entire state.
type Edge interface {
	EdgeKey() (subject, object string)
}

func KeyOf[E Edge](e E) Key {
	s, o := e.EdgeKey()
	return Key{Subject: s, Object: o}
}

// SortByObject orders edges by object id, the listing order of every backend.
func SortByObject[E Edge](rows []E) {
	sort.SliceStable(rows, func(i, j int) bool {
		return KeyOf(rows[i]).Object < KeyOf(rows[j]).Object
	})
}

type Action string

// Vocabulary names the two transitions at the boundary.
type Vocabulary struct {
	Added   Action
	Removed Action
}

// Relation describes how one edge type is stored. Collection is the file
// name for the file backend and the table name for the relational one.
type Relation[E Edge] struct {
	Name          string
	Collection    string
	SubjectColumn string
	ObjectColumn  string
	Vocabulary    Vocabulary
	New           func(Key) E
}

// EdgeSet is the storage side of a relation. Flip must be atomic per key:
// two sequential flips on the same key always end in the original state.
type EdgeSet[E Edge] interface {
	Flip(ctx context.Context, key Key) (present bool, err error)
	Exists(ctx context.Context, key Key) (bool, error)
	CountByObject(ctx context.Context, object string) (int64, error)
	ListBySubject(ctx context.Context, subject string) ([]E, error)
}

type Result struct {
	Action  Action `json:"result"`
	Present bool   `json:"-"`
}

type Engine[E Edge] struct {
	rel Relation[E]
	set EdgeSet[E]
	log *logger.Logger
}

func NewEngine[E Edge](rel Relation[E], set EdgeSet[E], baseLog *logger.Logger) *Engine[E] {
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	return &Engine[E]{rel: rel, set: set, log: baseLog.With("engine", "Toggle", "relation", rel.Name)}
}

func (e *Engine[E]) Relation() Relation[E] { return e.rel }

func (e *Engine[E]) Toggle(ctx context.Context, subject, object string) (Result, error) {
	key := Key{Subject: subject, Object: object}
	if !key.Valid() {
		return Result{}, ErrEmptyKey
	}
	present, err := e.set.Flip(ctx, key)
	if err != nil {
		e.log.Error("flip failed", "subject_id", subject, "object_id", object, "error", err)
		return Result{}, err
	}
	res := Result{Action: e.rel.Vocabulary.Removed, Present: false}
	if present {
		res = Result{Action: e.rel.Vocabulary.Added, Present: true}
	}
	e.log.Debug("toggled", "subject_id", subject, "object_id", object, "action", res.Action)
	return res, nil
}

func (e *Engine[E]) Exists(ctx context.Context, subject, object string) (bool, error) {
	key := Key{Subject: subject, Object: object}
	if !key.Valid() {
		return false, ErrEmptyKey
	}
	return e.set.Exists(ctx, key)
}

func (e *Engine[E]) Count(ctx context.Context, object string) (int64, error) {
	if strings.TrimSpace(object) == "" {
		return 0, nil
	}
	return e.set.CountByObject(ctx, object)
}

func (e *Engine[E]) ListBySubject(ctx context.Context, subject string) ([]E, error) {
	if strings.TrimSpace(subject) == "" {
		return []E{}, nil
	}
	return e.set.ListBySubject(ctx, subject)
}
