package filestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yungbote/travelplanner-backend/internal/data/store"
	"github.com/yungbote/travelplanner-backend/internal/data/storetest"
	"github.com/yungbote/travelplanner-backend/internal/domain"
)

func TestContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T, now store.Clock) store.Backend {
		s, err := Open(t.TempDir(), Options{Now: now})
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		return s
	})
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(dir, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	rec, err := s.Save(ctx, store.SaveItinerary{
		UserID: "u1", Days: 1,
		Items: []store.ItemDraft{{Day: 1, Position: 0, AttractionID: "att-1"}},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.Likes().Flip(ctx, keyOf("u1", "p1")); err != nil {
		t.Fatalf("Flip: %v", err)
	}

	reopened, err := Open(dir, Options{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	items, err := reopened.ListItems(ctx, rec.ID)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 || items[0].AttractionID != "att-1" {
		t.Fatalf("items after reopen: got=%v", items)
	}
	n, err := reopened.Likes().CountByObject(ctx, "p1")
	if err != nil || n != 1 {
		t.Fatalf("likes after reopen: want=1 got=%d err=%v", n, err)
	}
}

func TestFilesAreJSONArrays(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := Open(dir, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.CreateUser(ctx, "alice", "Alice"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := s.Likes().Flip(ctx, keyOf("u1", "p1")); err != nil {
		t.Fatalf("Flip: %v", err)
	}
	if _, err := s.Likes().Flip(ctx, keyOf("u1", "p1")); err != nil {
		t.Fatalf("Flip: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "users.json"))
	if err != nil {
		t.Fatalf("read users: %v", err)
	}
	var users []domain.User
	if err := json.Unmarshal(raw, &users); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	if len(users) != 1 || users[0].Username != "alice" {
		t.Fatalf("users file: got=%s", raw)
	}

	raw, err = os.ReadFile(filepath.Join(dir, "likes.json"))
	if err != nil {
		t.Fatalf("read likes: %v", err)
	}
	if got := strings.TrimSpace(string(raw)); got != "[]" {
		t.Fatalf("likes file after two flips: want=[] got=%s", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestCorruptFileSurfacesError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "itineraries.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	s, err := Open(dir, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.ListByUser(context.Background(), "u1"); err == nil {
		t.Fatalf("ListByUser on corrupt file: want error")
	}
}

func TestOpenRequiresDir(t *testing.T) {
	if _, err := Open("", Options{}); err == nil {
		t.Fatalf("Open(\"\"): want error")
	}
}
