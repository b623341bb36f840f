package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/signalsfoundry/globe-renderer/core"
)

// FrameCollector bundles Prometheus metrics for the render loop and
// provides an HTTP handler to expose them.
type FrameCollector struct {
	gatherer prometheus.Gatherer

	FrameDuration prometheus.Histogram
	EntitiesDrawn *prometheus.GaugeVec
	RingsOccluded prometheus.Counter
	HoverEvents   prometheus.Counter
	TapEvents     prometheus.Counter
}

// NewFrameCollector registers render-loop metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewFrameCollector(reg prometheus.Registerer) (*FrameCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	duration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "globe_frame_duration_seconds",
		Help:    "Duration of one geometric render pass.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	}), "globe_frame_duration_seconds")
	if err != nil {
		return nil, err
	}

	drawn, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "globe_entities_drawn",
		Help: "Entities drawn in the most recent frame, labeled by kind.",
	}, []string{"kind"}), "globe_entities_drawn")
	if err != nil {
		return nil, err
	}

	occluded, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "globe_regions_occluded_total",
		Help: "Region rings clipped away entirely because they faced the back hemisphere.",
	}), "globe_regions_occluded_total")
	if err != nil {
		return nil, err
	}

	hovers, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "globe_hover_hits_total",
		Help: "Hover hit-test matches across all frames.",
	}), "globe_hover_hits_total")
	if err != nil {
		return nil, err
	}

	taps, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "globe_tap_events_total",
		Help: "Entities resolved as clicked across all frames.",
	}), "globe_tap_events_total")
	if err != nil {
		return nil, err
	}

	return &FrameCollector{
		gatherer:      gatherer,
		FrameDuration: duration,
		EntitiesDrawn: drawn,
		RingsOccluded: occluded,
		HoverEvents:   hovers,
		TapEvents:     taps,
	}, nil
}

// ObserveFrame records the outcome of one render pass.
func (c *FrameCollector) ObserveFrame(elapsed time.Duration, report core.FrameReport) {
	c.FrameDuration.Observe(elapsed.Seconds())
	c.EntitiesDrawn.WithLabelValues("region").Set(float64(report.RegionsDrawn))
	c.EntitiesDrawn.WithLabelValues("rod_stub").Set(float64(report.RodStubsDrawn))
	c.EntitiesDrawn.WithLabelValues("connection").Set(float64(report.ConnectionsDrawn))
	c.EntitiesDrawn.WithLabelValues("point").Set(float64(report.PointsDrawn))
	c.RingsOccluded.Add(float64(report.RegionsOccluded))
	for _, ev := range report.HoverEvents {
		if ev.Hovering {
			c.HoverEvents.Inc()
		}
	}
	c.TapEvents.Add(float64(len(report.TappedIDs)))
}

// Handler returns an HTTP handler exposing the collector's metrics.
func (c *FrameCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// The register helpers tolerate duplicate registration so collectors can be
// rebuilt against the default registry in tests, returning the collector the
// registry already holds so observations keep flowing to the gathered metric.

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, fmt.Errorf("register %s: %w", name, err)
	}
	return h, nil
}

func registerGaugeVec(reg prometheus.Registerer, g *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, fmt.Errorf("register %s: %w", name, err)
	}
	return g, nil
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, fmt.Errorf("register %s: %w", name, err)
	}
	return c, nil
}
