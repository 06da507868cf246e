package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Output: &buf})
	log.With(String("component", "store")).Debug(context.Background(), "opened",
		Int("objects", 3), Float("radius", 5), Err(errors.New("boom")))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %q", buf.String())
	}
	if rec["msg"] != "opened" || rec["component"] != "store" || rec["objects"] != float64(3) || rec["error"] != "boom" {
		t.Errorf("record = %v", rec)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Output: &buf})
	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRequestID(t *testing.T) {
	ctx, id := EnsureRequestID(context.Background())
	if id == "" || RequestIDFromContext(ctx) != id {
		t.Fatalf("EnsureRequestID gave %q, context has %q", id, RequestIDFromContext(ctx))
	}
	if _, again := EnsureRequestID(ctx); again != id {
		t.Errorf("existing id replaced: %q != %q", again, id)
	}

	var buf bytes.Buffer
	ctx = ContextWithRequestID(context.Background(), "req-1")
	ctx, log := WithRequestLogger(ctx, New(Config{Output: &buf}))
	log.Info(ctx, "hello")
	if !strings.Contains(buf.String(), "request_id=req-1") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestNoop(t *testing.T) {
	log := Noop().With(String("k", "v"))
	log.Error(context.Background(), "dropped")
	_, l := WithRequestLogger(context.Background(), nil)
	l.Info(context.Background(), "dropped too")
}
