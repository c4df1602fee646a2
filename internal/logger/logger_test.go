package logger

import (
	"bytes"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestNew_FieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	e, err := New(Options{Service: "svc", Level: "debug", Out: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if e.Logger.GetLevel() != log.DebugLevel {
		t.Fatalf("level=%v; want debug", e.Logger.GetLevel())
	}
	if e.Data["service"] != "svc" {
		t.Fatalf("service field=%v", e.Data["service"])
	}
	if id, _ := e.Data["run_id"].(string); id == "" {
		t.Fatalf("run_id missing")
	}
	e.Debug("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("debug line not written: %q", buf.String())
	}
}

func TestNew_DistinctRunIDs(t *testing.T) {
	a, _ := New(Options{Out: &bytes.Buffer{}})
	b, _ := New(Options{Out: &bytes.Buffer{}})
	if a.Data["run_id"] == b.Data["run_id"] {
		t.Fatalf("expected distinct run ids, got %v twice", a.Data["run_id"])
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}

func TestDiscard(t *testing.T) {
	Discard().Info("dropped")
}
