package telemetry_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/jonesrussell/mail-triage/internal/telemetry"
)

// promauto registers on the global Prometheus registry and panics on a
// second registration, so all tests share a single provider. Counter
// assertions measure deltas for the same reason.
var sharedProvider = sync.OnceValue(telemetry.NewProvider)

func TestNewProvider_Wiring(t *testing.T) {
	p := sharedProvider()

	if p.Metrics == nil {
		t.Fatal("Metrics not initialized")
	}
	if p.Tracer == nil {
		t.Error("Tracer not initialized")
	}
	if p.Handler() == nil {
		t.Error("metrics handler not initialized")
	}
}

func TestProvider_Counters(t *testing.T) {
	p := sharedProvider()
	ctx := context.Background()

	t.Run("classification labeled by resolved bands", func(t *testing.T) {
		c := p.Metrics.EmailsClassified.WithLabelValues("critical", "technical")
		before := testutil.ToFloat64(c)

		p.RecordClassification(ctx, "critical", "technical", 12*time.Millisecond)

		if got := testutil.ToFloat64(c) - before; got != 1 {
			t.Errorf("EmailsClassified delta = %v, want 1", got)
		}
	})

	t.Run("failure labeled by error code", func(t *testing.T) {
		c := p.Metrics.ClassificationsFailed.WithLabelValues("internal")
		before := testutil.ToFloat64(c)

		p.RecordClassificationFailure(ctx, "internal")

		if got := testutil.ToFloat64(c) - before; got != 1 {
			t.Errorf("ClassificationsFailed delta = %v, want 1", got)
		}
	})

	t.Run("provider call maps success flag to outcome label", func(t *testing.T) {
		succeeded := p.Metrics.ProviderCalls.WithLabelValues("sentiment", "success")
		failed := p.Metrics.ProviderCalls.WithLabelValues("topic", "error")
		beforeOK := testutil.ToFloat64(succeeded)
		beforeFailed := testutil.ToFloat64(failed)

		p.RecordProviderCall(ctx, "sentiment", true, 20*time.Millisecond)
		p.RecordProviderCall(ctx, "topic", false, 5*time.Millisecond)

		if got := testutil.ToFloat64(succeeded) - beforeOK; got != 1 {
			t.Errorf("success outcome delta = %v, want 1", got)
		}
		if got := testutil.ToFloat64(failed) - beforeFailed; got != 1 {
			t.Errorf("error outcome delta = %v, want 1", got)
		}
	})

	t.Run("snapshot reload maps applied flag to outcome label", func(t *testing.T) {
		applied := p.Metrics.SnapshotReloads.WithLabelValues("applied")
		rejected := p.Metrics.SnapshotReloads.WithLabelValues("rejected")
		beforeApplied := testutil.ToFloat64(applied)
		beforeRejected := testutil.ToFloat64(rejected)

		p.RecordSnapshotReload(ctx, true)
		p.RecordSnapshotReload(ctx, false)

		if got := testutil.ToFloat64(applied) - beforeApplied; got != 1 {
			t.Errorf("applied outcome delta = %v, want 1", got)
		}
		if got := testutil.ToFloat64(rejected) - beforeRejected; got != 1 {
			t.Errorf("rejected outcome delta = %v, want 1", got)
		}
	})

	t.Run("escalation labeled by rule name", func(t *testing.T) {
		c := p.Metrics.EscalationsApplied.WithLabelValues("angry_billing")
		before := testutil.ToFloat64(c)

		p.RecordEscalation(ctx, "angry_billing")

		if got := testutil.ToFloat64(c) - before; got != 1 {
			t.Errorf("EscalationsApplied delta = %v, want 1", got)
		}
	})

	t.Run("zero signal and throttled totals", func(t *testing.T) {
		beforeZero := testutil.ToFloat64(p.Metrics.ZeroSignalTotal)
		beforeThrottled := testutil.ToFloat64(p.Metrics.RequestsThrottled)

		p.RecordZeroSignal(ctx)
		p.IncrementThrottled()

		if got := testutil.ToFloat64(p.Metrics.ZeroSignalTotal) - beforeZero; got != 1 {
			t.Errorf("ZeroSignalTotal delta = %v, want 1", got)
		}
		if got := testutil.ToFloat64(p.Metrics.RequestsThrottled) - beforeThrottled; got != 1 {
			t.Errorf("RequestsThrottled delta = %v, want 1", got)
		}
	})
}

// Histograms have no scalar to read back through testutil, so the recording
// paths are exercised for panics only.
func TestProvider_Histograms(t *testing.T) {
	p := sharedProvider()
	ctx := context.Background()

	p.RecordPatternMatch(ctx, 2*time.Millisecond, 3)
	p.RecordBatchSize(25)
	p.RecordClassification(ctx, "low", "general", 800*time.Microsecond)
}

func TestProvider_StartSpan(t *testing.T) {
	p := sharedProvider()

	parent := context.Background()
	ctx, span := p.StartSpan(parent, "classify_email")
	defer span.End()

	if span == nil {
		t.Fatal("StartSpan returned nil span")
	}
	if ctx == parent {
		t.Error("StartSpan must return a context carrying the span")
	}
}
