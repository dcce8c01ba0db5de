package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all view metrics on a private prometheus registry
type Registry struct {
	// Frame Metrics
	FramesTotal   prometheus.Counter
	FrameDuration prometheus.Histogram

	// Scene Metrics
	SceneObjects   *prometheus.GaugeVec
	SyncOperations *prometheus.CounterVec

	// Interaction Metrics
	HitTests    *prometheus.CounterVec
	Transitions *prometheus.CounterVec
	Events      *prometheus.CounterVec

	// Store Metrics
	NCFGEntries prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initFrameMetrics()
	r.initSceneMetrics()
	r.initInteractionMetrics()
	return r
}

// Prometheus returns the underlying registry
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.registry
}

func (r *Registry) initFrameMetrics() {
	r.FramesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "gridscope_frames_total",
			Help: "Total number of frames processed",
		},
	)

	r.FrameDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gridscope_frame_duration_seconds",
			Help:    "Frame processing duration in seconds",
			Buckets: []float64{0.001, 0.002, 0.005, 0.01, 0.016, 0.033, 0.05, 0.1},
		},
	)
}

func (r *Registry) initSceneMetrics() {
	r.SceneObjects = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gridscope_scene_objects",
			Help: "Live scene objects by class",
		},
		[]string{"class"},
	)

	r.SyncOperations = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridscope_sync_operations_total",
			Help: "Scene synchronizer node operations",
		},
		[]string{"op"},
	)

	r.NCFGEntries = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "gridscope_ncfg_entries",
			Help: "Stored position configurations",
		},
	)
}

func (r *Registry) initInteractionMetrics() {
	r.HitTests = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridscope_hit_tests_total",
			Help: "Ray casts by candidate set and result",
		},
		[]string{"target", "result"},
	)

	r.Transitions = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridscope_interaction_transitions_total",
			Help: "Interaction state transitions",
		},
		[]string{"from", "to"},
	)

	r.Events = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridscope_events_total",
			Help: "Dispatched view events by type",
		},
		[]string{"type"},
	)
}
