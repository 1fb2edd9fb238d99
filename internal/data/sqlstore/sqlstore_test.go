package sqlstore

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/yungbote/travelplanner-backend/internal/data/store"
	"github.com/yungbote/travelplanner-backend/internal/data/storetest"
	"github.com/yungbote/travelplanner-backend/internal/domain"
	"github.com/yungbote/travelplanner-backend/internal/toggle"
)

func openSQLite(t *testing.T, now store.Clock) *Store {
	t.Helper()
	s, err := Open(Config{
		Driver: DriverSQLite,
		DSN:    "file:" + store.NewID() + "?mode=memory&cache=shared&_foreign_keys=on",
		Now:    now,
	})
	if err != nil {
		t.Fatalf("Open(sqlite): %v", err)
	}
	return s
}

func TestContractSQLite(t *testing.T) {
	storetest.Run(t, func(t *testing.T, now store.Clock) store.Backend {
		return openSQLite(t, now)
	})
}

func TestContractPostgres(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("set TEST_POSTGRES_DSN to run postgres store tests")
	}
	storetest.Run(t, func(t *testing.T, now store.Clock) store.Backend {
		s, err := Open(Config{Driver: DriverPostgres, DSN: dsn, Now: now})
		if err != nil {
			t.Fatalf("Open(postgres): %v", err)
		}
		if err := s.DB().Migrator().DropTable(
			&domain.ItineraryItem{}, &domain.Itinerary{},
			&domain.Like{}, &domain.Follow{},
			&domain.Comment{}, &domain.Post{}, &domain.User{},
			&domain.Attraction{},
		); err != nil {
			t.Fatalf("reset tables: %v", err)
		}
		if err := AutoMigrateAll(s.DB()); err != nil {
			t.Fatalf("migrate: %v", err)
		}
		return s
	})
}

func TestItemsReferenceItinerary(t *testing.T) {
	s := openSQLite(t, nil)
	defer s.Close()

	orphan := &domain.ItineraryItem{ID: store.NewID(), ItineraryID: "missing", Day: 1, AttractionID: "att-1"}
	if err := s.DB().Create(orphan).Error; err == nil {
		t.Fatalf("insert orphan item: want foreign key error")
	}
}

func TestFlipInsertsOnce(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t, nil)
	defer s.Close()

	key := toggle.Key{Subject: "u1", Object: "p1"}
	present, err := s.Likes().Flip(ctx, key)
	if err != nil || !present {
		t.Fatalf("first flip: want=true got=%v err=%v", present, err)
	}
	var n int64
	if err := s.DB().Model(&domain.Like{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("rows after flip: want=1 got=%d", n)
	}
	present, err = s.Likes().Flip(ctx, key)
	if err != nil || present {
		t.Fatalf("second flip: want=false got=%v err=%v", present, err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(Config{Driver: "oracle", DSN: "x"}); err == nil {
		t.Fatalf("Open(oracle): want error")
	}
	if _, err := Open(Config{Driver: DriverSQLite}); err == nil {
		t.Fatalf("Open(no dsn): want error")
	}
}

func TestTranslate(t *testing.T) {
	if err := translate(nil, "x"); err != nil {
		t.Fatalf("translate(nil): got=%v", err)
	}
	other := errors.New("boom")
	if err := translate(other, "x"); err != other {
		t.Fatalf("translate(other): want passthrough got=%v", err)
	}
}
