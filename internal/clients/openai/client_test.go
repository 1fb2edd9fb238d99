package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/travelplanner-backend/internal/domain"
	"github.com/yungbote/travelplanner-backend/internal/planner"
	"github.com/yungbote/travelplanner-backend/internal/platform/logger"
)

func outputText(text string) map[string]any {
	return map[string]any{
		"output": []any{map[string]any{
			"type":    "message",
			"role":    "assistant",
			"content": []any{map[string]any{"type": "output_text", "text": text}},
		}},
	}
}

func newTestClient(t *testing.T, h http.HandlerFunc) *client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(logger.Nop(), Config{APIKey: "k", BaseURL: srv.URL, MaxRetries: 2})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	cc := c.(*client)
	cc.backoff = time.Millisecond
	return cc
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(logger.Nop(), Config{}); err == nil {
		t.Fatalf("want error for missing key")
	}
}

func TestGenerateTextRetriesServerErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer k" {
			t.Errorf("auth header: got=%q", r.Header.Get("Authorization"))
		}
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(outputText("hello"))
	})
	got, err := c.GenerateText(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if n := atomic.LoadInt32(&calls); got != "hello" || n != 2 {
		t.Fatalf("want=hello after 2 calls, got=%q calls=%d", got, n)
	}
}

func TestGenerateTextDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	})
	if _, err := c.GenerateText(context.Background(), "sys", "user"); err == nil {
		t.Fatalf("want error")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("calls: want=1 got=%d", n)
	}
}

func TestPlannerReturnsRawText(t *testing.T) {
	plan := `[{"day":1,"attraction_id":"att-1","position":0}]`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req responsesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Input) != 2 || !strings.Contains(req.Input[1].Content, `"att-1"`) {
			t.Errorf("prompt missing attraction: %+v", req.Input)
		}
		_ = json.NewEncoder(w).Encode(outputText(plan))
	})
	p := NewPlanner(logger.Nop(), c)
	res, err := p.Generate(context.Background(), []*domain.Attraction{{ID: "att-1", Name: "Eiffel Tower"}}, 1, []string{"view"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	raw, ok := res.(planner.RawText)
	if !ok || raw.Text != plan {
		t.Fatalf("result: want RawText %s got %#v", plan, res)
	}
}

func TestSummarizer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(outputText(`{"pros":["views"],"cons":["queues"]}`))
	})
	s := NewSummarizer(logger.Nop(), c)
	sum, err := s.Summarize(context.Background(), &domain.Attraction{ID: "att-1", Name: "Eiffel Tower"})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(sum.Pros) != 1 || sum.Pros[0] != "views" || len(sum.Cons) != 1 {
		t.Fatalf("summary: got=%+v", sum)
	}
}
