// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from the pipeline stages.
//
// A global, pluggable backend defaults to a no-op implementation, so the
// Record* helpers are always safe to call even when no real backend is
// configured. Concrete systems live in subpackages (prompush, datadog) and are
// installed by the CLI with SetBackend.
package metrics

import "time"

// Metric names emitted by the Record* helpers.
const (
	StageTotal    = "sportetl_stage_total"
	StageDuration = "sportetl_stage_duration_seconds"
	RecordsTotal  = "sportetl_records_total"
	BatchesTotal  = "sportetl_batches_total"
	BytesTotal    = "sportetl_fetched_bytes_total"
)

// Record kinds passed to RecordRows.
const (
	KindParsed      = "parsed"
	KindImputed     = "imputed"
	KindDroppedNull = "dropped_null"
	KindDuplicates  = "duplicates"
	KindCleaned     = "cleaned"
	KindGroups      = "groups"
	KindInserted    = "inserted"
	KindSkipped     = "skipped"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Reset restores the no-op backend.
func Reset() { backend = nopBackend{} }

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStage counts one execution of a stage (extract, transform, load) and
// observes its duration, labelled by outcome.
func RecordStage(job, stage string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{
		"job":    job,
		"stage":  stage,
		"status": status,
	}
	backend.IncCounter(StageTotal, 1, lbls)
	backend.ObserveHistogram(StageDuration, d.Seconds(), lbls)
}

// RecordRows increments the record counter for kind. Non-positive deltas are
// ignored.
func RecordRows(job, kind string, delta int) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RecordsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordBatches increments the bulk insert batch counter.
func RecordBatches(job string, delta int) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(BatchesTotal, float64(delta), Labels{"job": job})
}

// RecordBytes counts bytes fetched by the extract stage.
func RecordBytes(job string, n int64) {
	if n <= 0 {
		return
	}
	backend.IncCounter(BytesTotal, float64(n), Labels{"job": job})
}
