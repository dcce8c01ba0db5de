package metrics

import (
	"time"

	"github.com/lixenwraith/gridscope/event"
)

// RecordFrame records one processed frame
func (r *Registry) RecordFrame(d time.Duration) {
	r.FramesTotal.Inc()
	r.FrameDuration.Observe(d.Seconds())
}

// RecordSync records node operations from one synchronizer pass
func (r *Registry) RecordSync(created, updated, removed int) {
	if created > 0 {
		r.SyncOperations.WithLabelValues("create").Add(float64(created))
	}
	if updated > 0 {
		r.SyncOperations.WithLabelValues("update").Add(float64(updated))
	}
	if removed > 0 {
		r.SyncOperations.WithLabelValues("remove").Add(float64(removed))
	}
}

// SetSceneObjects replaces per-class object gauges
func (r *Registry) SetSceneObjects(counts map[string]int) {
	for class, n := range counts {
		r.SceneObjects.WithLabelValues(class).Set(float64(n))
	}
}

func (r *Registry) SetNCFGEntries(n int) {
	r.NCFGEntries.Set(float64(n))
}

// ObserveHitTest implements the interaction observer
func (r *Registry) ObserveHitTest(target string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.HitTests.WithLabelValues(target, result).Inc()
}

// ObserveTransition implements the interaction observer
func (r *Registry) ObserveTransition(from, to string) {
	r.Transitions.WithLabelValues(from, to).Inc()
}

// HandleEvent counts dispatched events
func (r *Registry) HandleEvent(ev event.Event) {
	r.Events.WithLabelValues(ev.Type.String()).Inc()
}

// EventTypes subscribes to every view event
func (r *Registry) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventNodeSelected,
		event.EventPositionConfigure,
		event.EventDrillDownExit,
		event.EventFormDropped,
		event.EventFormRemoved,
		event.EventEnvironmentChanged,
		event.EventNCFGWritten,
		event.EventHoverChanged,
	}
}
