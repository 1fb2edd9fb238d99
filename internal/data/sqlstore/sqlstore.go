// Package sqlstore is the relational backend, on GORM with either SQLite or
// Postgres underneath. It returns the same shapes and orderings as the file
// backend for the same inputs.
package sqlstore

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/travelplanner-backend/internal/data/store"
	"github.com/yungbote/travelplanner-backend/internal/domain"
	"github.com/yungbote/travelplanner-backend/internal/platform/logger"
	"github.com/yungbote/travelplanner-backend/internal/toggle"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Driver string
	DSN    string
	Log    *logger.Logger
	Now    store.Clock
	// SQLLogLevel is passed to the GORM logger; silent when empty.
	SQLLogLevel string
}

type Store struct {
	db     *gorm.DB
	driver string
	log    *logger.Logger
	now    store.Clock

	likes   toggle.EdgeSet[domain.Like]
	follows toggle.EdgeSet[domain.Follow]
}

var _ store.Backend = (*Store)(nil)

// Open connects and migrates.
func Open(cfg Config) (*Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = DriverSQLite
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("sqlstore: dsn required")
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("sqlstore: unknown driver %q", cfg.Driver)
	}

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogLevel(cfg.SQLLogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLog,
		TranslateError: true,
		NowFunc:        func() time.Time { return domain.Timestamp(time.Now()) },
	})
	if err != nil {
		return nil, fmt.Errorf("sqlstore: connect %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlstore: sql handle: %w", err)
		}
		// One connection serializes writers and keeps the pragma in effect.
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("sqlstore: enable foreign keys: %w", err)
		}
	}

	return New(db, driver, cfg.Log, cfg.Now)
}

// New wraps an existing connection and migrates the schema.
func New(db *gorm.DB, driver string, baseLog *logger.Logger, now store.Clock) (*Store, error) {
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	if now == nil {
		now = store.SystemClock
	}
	if err := AutoMigrateAll(db); err != nil {
		return nil, fmt.Errorf("sqlstore: migrate: %w", err)
	}
	s := &Store{
		db:     db,
		driver: driver,
		log:    baseLog.With("store", "SQLStore", "driver", driver),
		now:    func() time.Time { return domain.Timestamp(now()) },
	}
	s.likes = NewEdgeSet(db, toggle.Likes)
	s.follows = NewEdgeSet(db, toggle.Follows)
	s.log.Info("sql store opened")
	return s, nil
}

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Attraction{},

		&domain.User{},
		&domain.Post{},
		&domain.Comment{},
		&domain.Like{},
		&domain.Follow{},

		&domain.Itinerary{},
		&domain.ItineraryItem{},
	)
}

func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Likes() toggle.EdgeSet[domain.Like] { return s.likes }

func (s *Store) Follows() toggle.EdgeSet[domain.Follow] { return s.follows }

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormLogLevel(level string) gormLogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "info":
		return gormLogger.Info
	case "warn":
		return gormLogger.Warn
	case "error":
		return gormLogger.Error
	default:
		return gormLogger.Silent
	}
}

// translate maps driver errors onto the store sentinels.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, store.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", what, store.ErrConflict)
	default:
		return err
	}
}
