package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sportetl/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func readCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Counter.Write() error = %v", err)
	}
	return m.GetCounter().GetValue()
}

func readSummaryCount(t *testing.T, v *prometheus.SummaryVec, labels ...string) (uint64, float64) {
	t.Helper()
	m := &dto.Metric{}
	metric, ok := v.WithLabelValues(labels...).(prometheus.Metric)
	if !ok {
		t.Fatalf("SummaryVec.WithLabelValues(...) does not implement prometheus.Metric")
	}
	if err := metric.Write(m); err != nil {
		t.Fatalf("Summary.Write() error = %v", err)
	}
	return m.GetSummary().GetSampleCount(), m.GetSummary().GetSampleSum()
}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	if _, err := NewBackend("job", ""); err == nil {
		t.Fatalf("expected error for missing gateway URL")
	}

	b, err := NewBackend("", "http://pushgateway:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	if b.jobName != "sportetl" {
		t.Fatalf("default jobName=%q; want sportetl", b.jobName)
	}

	b, err = NewBackend("sport_stats", "http://pushgateway:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	if b.jobName != "sport_stats" || b.gatewayURL != "http://pushgateway:9091" {
		t.Fatalf("backend=%+v", b)
	}
}

func TestIncCounterRouting(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("sport_stats", "http://example.com")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}

	b.IncCounter(metrics.StageTotal, 1, metrics.Labels{"stage": "extract", "status": "success"})
	b.IncCounter(metrics.RecordsTotal, 5, metrics.Labels{"kind": metrics.KindParsed})
	b.IncCounter(metrics.BatchesTotal, 2, nil)
	b.IncCounter(metrics.BytesTotal, 512, nil)
	b.IncCounter("unknown_metric", 10, metrics.Labels{"foo": "bar"})

	if got := readCounterValue(t, b.stageCounter.WithLabelValues("extract", "success")); got != 1 {
		t.Fatalf("stage counter=%v; want 1", got)
	}
	if got := readCounterValue(t, b.recordCounter.WithLabelValues(metrics.KindParsed)); got != 5 {
		t.Fatalf("record counter=%v; want 5", got)
	}
	if got := readCounterValue(t, b.batchCounter); got != 2 {
		t.Fatalf("batch counter=%v; want 2", got)
	}
	if got := readCounterValue(t, b.bytesCounter); got != 512 {
		t.Fatalf("bytes counter=%v; want 512", got)
	}
}

func TestNilCollectorsAreSafe(t *testing.T) {
	t.Parallel()

	b := &Backend{}
	b.IncCounter(metrics.StageTotal, 1, metrics.Labels{"stage": "s", "status": "success"})
	b.IncCounter(metrics.RecordsTotal, 1, metrics.Labels{"kind": "parsed"})
	b.IncCounter(metrics.BatchesTotal, 1, nil)
	b.IncCounter(metrics.BytesTotal, 1, nil)
	b.ObserveHistogram(metrics.StageDuration, 1, nil)
}

func TestObserveHistogram(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("sport_stats", "http://example.com")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	b.ObserveHistogram(metrics.StageDuration, 1.5, metrics.Labels{"stage": "load", "status": "success"})
	b.ObserveHistogram("other_metric", 2.0, metrics.Labels{"stage": "load", "status": "success"})

	count, sum := readSummaryCount(t, b.stageDuration, "load", "success")
	if count != 1 || sum != 1.5 {
		t.Fatalf("summary count=%d sum=%v; want 1/1.5", count, sum)
	}
}

// TestFlush verifies that Flush sends the registry to the Pushgateway under
// the job grouping key.
func TestFlush(t *testing.T) {
	t.Parallel()

	type pushed struct {
		method string
		path   string
		body   int
	}
	reqCh := make(chan pushed, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		body, _ := io.ReadAll(r.Body)
		reqCh <- pushed{method: r.Method, path: r.URL.Path, body: len(body)}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	b, err := NewBackend("sport_stats", server.URL)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	b.IncCounter(metrics.StageTotal, 1, metrics.Labels{"stage": "extract", "status": "success"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	select {
	case got := <-reqCh:
		if got.method != http.MethodPut {
			t.Fatalf("method=%s; want PUT", got.method)
		}
		if !strings.Contains(got.path, "/job/sport_stats") {
			t.Fatalf("path=%q; want job grouping key", got.path)
		}
		if got.body == 0 {
			t.Fatalf("empty push body")
		}
	default:
		t.Fatalf("Flush did not reach the Pushgateway")
	}
}

func TestFlushErrorIncludesGateway(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	b, err := NewBackend("sport_stats", server.URL)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	err = b.Flush()
	if err == nil || !strings.Contains(err.Error(), server.URL) {
		t.Fatalf("expected error mentioning gateway, got %v", err)
	}
}
