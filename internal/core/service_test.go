package core

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"eventcore/pkg/domain"
)

type capturingAudit struct {
	entries []AuditEntry
}

func (c *capturingAudit) Record(_ context.Context, entry AuditEntry) {
	c.entries = append(c.entries, entry)
}

func TestAuditTrailRecordsOutcomes(t *testing.T) {
	audit := &capturingAudit{}
	s := newTestService(t, WithAuditRecorder(audit))

	if _, _, err := s.CreateCenter(context.Background(), adminActor(), CreateCenterArgs{ID: "c1", Name: "North"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.DeleteEvent(context.Background(), adminActor(), DeleteEventArgs{ID: "ghost"}); !domain.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}

	if len(audit.entries) != 2 {
		t.Fatalf("audit entries: %d", len(audit.entries))
	}
	success := audit.entries[0]
	if success.Operation != "centers.create" || success.Status != AuditStatusSuccess {
		t.Fatalf("success entry wrong: %+v", success)
	}
	if success.EntityID != "c1" || success.ActorID == "" {
		t.Fatalf("success entry missing identifiers: %+v", success)
	}
	if !success.OccurredAt.Equal(fixedNow) {
		t.Fatalf("entry must be stamped from the injected clock: %v", success.OccurredAt)
	}
	failure := audit.entries[1]
	if failure.Operation != "events.delete" || failure.Status != AuditStatusError || failure.Error == "" {
		t.Fatalf("failure entry wrong: %+v", failure)
	}
}

func TestExpvarMetricsRecorder(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	s := newTestService(t, WithMetricsRecorder(rec))

	if _, _, err := s.CreateCenter(context.Background(), adminActor(), CreateCenterArgs{ID: "c1", Name: "North"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.DeleteEvent(context.Background(), adminActor(), DeleteEventArgs{ID: "ghost"}); err == nil {
		t.Fatal("expected failure")
	}

	snap := rec.Snapshot()
	if snap.Results["centers.create"]["success"] != 1 {
		t.Fatalf("success counter: %+v", snap.Results)
	}
	if snap.Results["events.delete"]["error"] != 1 {
		t.Fatalf("error counter: %+v", snap.Results)
	}
	if rec.Name() == "" {
		t.Fatal("generated expvar name must be non-empty")
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	s := newTestService(t, WithMetricsRecorder(rec))

	if _, _, err := s.CreateCenter(context.Background(), adminActor(), CreateCenterArgs{ID: "c1", Name: "North"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if got := testutil.ToFloat64(rec.results.WithLabelValues("centers.create", "success")); got != 1 {
		t.Fatalf("result counter: %v", got)
	}

	// Registering into the same registry twice collides.
	if _, err := NewPrometheusMetricsRecorder(reg); err == nil {
		t.Fatal("duplicate registration must fail")
	}
}

func TestJSONTracerCapturesSpans(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	s := newTestService(t, WithTracer(tracer))

	if _, _, err := s.CreateCenter(context.Background(), adminActor(), CreateCenterArgs{ID: "c1", Name: "North"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.DeleteEvent(context.Background(), adminActor(), DeleteEventArgs{ID: "ghost"}); err == nil {
		t.Fatal("expected failure")
	}

	entries := tracer.Entries()
	if len(entries) != 2 {
		t.Fatalf("spans: %d", len(entries))
	}
	if entries[0].Operation != "centers.create" || entries[0].Status != "success" {
		t.Fatalf("first span wrong: %+v", entries[0])
	}
	if entries[1].Status != "error" || entries[1].Error == "" {
		t.Fatalf("second span wrong: %+v", entries[1])
	}
	if !strings.Contains(buf.String(), `"centers.create"`) {
		t.Fatal("span not serialized to the writer")
	}
}

func TestClockPropagatesToRowStamps(t *testing.T) {
	frozen := time.Date(2026, 7, 4, 12, 0, 0, 0, time.UTC)
	s := NewInMemoryService(nil, WithClock(ClockFunc(func() time.Time { return frozen })))

	created, _, err := s.CreateCenter(context.Background(), adminActor(), CreateCenterArgs{ID: "c1", Name: "North"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.CreatedAt.Equal(frozen) || !created.UpdatedAt.Equal(frozen) {
		t.Fatalf("row stamps not from injected clock: %+v", created.Base)
	}
}
