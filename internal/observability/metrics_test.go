package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/signalsfoundry/globe-renderer/core"
	"github.com/signalsfoundry/globe-renderer/model"
)

func TestObserveFrameRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewFrameCollector(reg)
	if err != nil {
		t.Fatalf("NewFrameCollector: %v", err)
	}

	collector.ObserveFrame(8*time.Millisecond, core.FrameReport{
		RegionsDrawn:     2,
		RegionsOccluded:  1,
		RodStubsDrawn:    3,
		ConnectionsDrawn: 1,
		PointsDrawn:      5,
		HoverEvents: []model.HoverEvent{
			{EntityID: "a", Hovering: true, Visible: true},
			{EntityID: "b", Hovering: false, Visible: true},
		},
		TappedIDs: []string{"a"},
	})

	if got := testutil.ToFloat64(collector.EntitiesDrawn.WithLabelValues("region")); got != 2 {
		t.Fatalf("globe_entities_drawn{kind=region} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.EntitiesDrawn.WithLabelValues("point")); got != 5 {
		t.Fatalf("globe_entities_drawn{kind=point} = %v, want 5", got)
	}
	if got := testutil.ToFloat64(collector.RingsOccluded); got != 1 {
		t.Fatalf("globe_regions_occluded_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.HoverEvents); got != 1 {
		t.Fatalf("globe_hover_hits_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.TapEvents); got != 1 {
		t.Fatalf("globe_tap_events_total = %v, want 1", got)
	}

	if count := histogramSampleCount(t, reg, "globe_frame_duration_seconds"); count != 1 {
		t.Fatalf("globe_frame_duration_seconds sample_count = %d, want 1", count)
	}
}

func TestGaugesTrackLatestFrame(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewFrameCollector(reg)
	if err != nil {
		t.Fatalf("NewFrameCollector: %v", err)
	}

	collector.ObserveFrame(time.Millisecond, core.FrameReport{PointsDrawn: 7})
	collector.ObserveFrame(time.Millisecond, core.FrameReport{PointsDrawn: 2})

	// Gauges hold the latest frame; counters accumulate.
	if got := testutil.ToFloat64(collector.EntitiesDrawn.WithLabelValues("point")); got != 2 {
		t.Fatalf("globe_entities_drawn{kind=point} = %v, want 2", got)
	}
	if count := histogramSampleCount(t, reg, "globe_frame_duration_seconds"); count != 2 {
		t.Fatalf("globe_frame_duration_seconds sample_count = %d, want 2", count)
	}
}

func TestMetricsHandlerExposesFrameMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewFrameCollector(reg)
	if err != nil {
		t.Fatalf("NewFrameCollector: %v", err)
	}
	collector.ObserveFrame(2*time.Millisecond, core.FrameReport{
		RegionsDrawn: 1,
		PointsDrawn:  4,
		TappedIDs:    []string{"x", "y"},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"globe_frame_duration_seconds",
		"globe_entities_drawn",
		"globe_regions_occluded_total",
		"globe_hover_hits_total",
		"globe_tap_events_total",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
}

func TestNewFrameCollectorTolerantOfReregistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewFrameCollector(reg); err != nil {
		t.Fatalf("first NewFrameCollector: %v", err)
	}
	second, err := NewFrameCollector(reg)
	if err != nil {
		t.Fatalf("second NewFrameCollector: %v", err)
	}

	// The rebuilt collector must observe into the metrics the registry
	// gathers, not into orphaned duplicates.
	second.ObserveFrame(5*time.Millisecond, core.FrameReport{
		PointsDrawn: 3,
		TappedIDs:   []string{"a"},
	})

	if count := histogramSampleCount(t, reg, "globe_frame_duration_seconds"); count != 1 {
		t.Fatalf("globe_frame_duration_seconds sample_count = %d, want 1", count)
	}
	if got := testutil.ToFloat64(second.EntitiesDrawn.WithLabelValues("point")); got != 3 {
		t.Fatalf("globe_entities_drawn{kind=point} = %v, want 3", got)
	}
	if got := testutil.ToFloat64(second.TapEvents); got != 1 {
		t.Fatalf("globe_tap_events_total = %v, want 1", got)
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string) uint64 {
	t.Helper()

	families, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		if c := sampleCount(mf.Metric); c > 0 {
			return c
		}
	}
	return 0
}

func sampleCount(metrics []*dto.Metric) uint64 {
	for _, m := range metrics {
		if m.GetHistogram() != nil {
			return m.GetHistogram().GetSampleCount()
		}
	}
	return 0
}
