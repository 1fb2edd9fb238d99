package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/travelplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/travelplanner-backend/internal/toggle"
)

const maxFlipAttempts = 5

var errFlipRaced = errors.New("sqlstore: concurrent insert on flip")

type edgeSet[E toggle.Edge] struct {
	db  *gorm.DB
	rel toggle.Relation[E]
}

// NewEdgeSet stores the relation in the table named rel.Collection, keyed by
// the composite (subject, object) primary key.
func NewEdgeSet[E toggle.Edge](db *gorm.DB, rel toggle.Relation[E]) toggle.EdgeSet[E] {
	return &edgeSet[E]{db: db, rel: rel}
}

func (e *edgeSet[E]) keyWhere() string {
	return e.rel.SubjectColumn + " = ? AND " + e.rel.ObjectColumn + " = ?"
}

// Flip deletes the edge, or inserts it when nothing was deleted. An insert
// that hits an existing row lost a race with another flip and is retried,
// which then deletes.
func (e *edgeSet[E]) Flip(ctx context.Context, key toggle.Key) (bool, error) {
	for attempt := 0; attempt < maxFlipAttempts; attempt++ {
		present := false
		err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var zero E
			res := tx.Where(e.keyWhere(), key.Subject, key.Object).Delete(&zero)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				return nil
			}
			row := e.rel.New(key)
			res = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errFlipRaced
			}
			present = true
			return nil
		})
		if errors.Is(err, errFlipRaced) {
			continue
		}
		if err != nil {
			return false, err
		}
		return present, nil
	}
	return false, fmt.Errorf("%s flip: gave up after %d attempts", e.rel.Name, maxFlipAttempts)
}

func (e *edgeSet[E]) Exists(ctx context.Context, key toggle.Key) (bool, error) {
	var zero E
	var n int64
	err := dbctx.Context{Ctx: ctx}.DB(e.db).
		Model(&zero).
		Where(e.keyWhere(), key.Subject, key.Object).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (e *edgeSet[E]) CountByObject(ctx context.Context, object string) (int64, error) {
	var zero E
	var n int64
	err := dbctx.Context{Ctx: ctx}.DB(e.db).
		Model(&zero).
		Where(e.rel.ObjectColumn+" = ?", object).
		Count(&n).Error
	return n, err
}

func (e *edgeSet[E]) ListBySubject(ctx context.Context, subject string) ([]E, error) {
	out := []E{}
	err := dbctx.Context{Ctx: ctx}.DB(e.db).
		Where(e.rel.SubjectColumn+" = ?", subject).
		Order(e.rel.ObjectColumn + " ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	toggle.SortByObject(out)
	return out, nil
}
