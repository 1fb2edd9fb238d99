package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/travelplanner-backend/internal/platform/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TRAVEL_CONFIG_YAML", "")
	cfg, err := LoadConfig(logger.Nop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.StoreBackend != BackendFile || cfg.HTTPAddr != ":8080" {
		t.Fatalf("defaults: backend=%s addr=%s", cfg.StoreBackend, cfg.HTTPAddr)
	}
	if !cfg.AllowSelfLike || cfg.AllowSelfFollow {
		t.Fatalf("self edge defaults: like=%v follow=%v", cfg.AllowSelfLike, cfg.AllowSelfFollow)
	}
	if cfg.LikeCountTTL != 60*time.Second {
		t.Fatalf("ttl: want=60s got=%v", cfg.LikeCountTTL)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := "http_addr: \":9000\"\nstore_backend: sql\ndb_driver: postgres\npostgres:\n  host: db\n  user: travel\n  name: trips\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("TRAVEL_CONFIG_YAML", path)
	t.Setenv("HTTP_ADDR", ":9100")
	t.Setenv("POSTGRES_PASSWORD", "pw")
	t.Setenv("DB_DSN", "")

	cfg, err := LoadConfig(logger.Nop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.HTTPAddr != ":9100" {
		t.Fatalf("addr: want=:9100 got=%s", cfg.HTTPAddr)
	}
	want := "postgres://travel:pw@db:5432/trips?sslmode=disable"
	if cfg.DBDSN != want {
		t.Fatalf("dsn: want=%s got=%s", want, cfg.DBDSN)
	}
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	t.Setenv("TRAVEL_CONFIG_YAML", "")
	t.Setenv("STORE_BACKEND", "mongo")
	_, err := LoadConfig(logger.Nop())
	if err == nil || !strings.Contains(err.Error(), "STORE_BACKEND") {
		t.Fatalf("want STORE_BACKEND error, got %v", err)
	}
}
