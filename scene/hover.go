package scene

import "github.com/signalsfoundry/globe-renderer/model"

// HoverTracker debounces the per-frame hover notifications the renderer
// emits: the renderer reports every point and connection every frame, but
// hosts usually only care about transitions. The tracker is host-side
// plumbing; the render pass itself stays stateless.
type HoverTracker struct {
	last map[string]bool
}

// NewHoverTracker constructs an empty tracker.
func NewHoverTracker() *HoverTracker {
	return &HoverTracker{last: make(map[string]bool)}
}

// Changed reports whether the event's hover state differs from the last
// frame, recording the new state.
func (t *HoverTracker) Changed(ev model.HoverEvent) bool {
	prev, seen := t.last[ev.EntityID]
	t.last[ev.EntityID] = ev.Hovering
	if !seen {
		// First sighting only counts as a change when already hovering.
		return ev.Hovering
	}
	return prev != ev.Hovering
}

// Forget drops the recorded state for an entity, typically after it is
// removed from the scene.
func (t *HoverTracker) Forget(id string) {
	delete(t.last, id)
}
