package operator

import "github.com/milk9111/stagecam/scene"

// EventType identifies operator notifications.
type EventType string

const (
	EventAttached          EventType = "operator_attached"
	EventDetached          EventType = "operator_detached"
	EventMotionPoint       EventType = "motion_point"
	EventMotionFinished    EventType = "motion_finished"
	EventMotionInterrupted EventType = "motion_interrupted"
)

// Event is a queued operator notification. Object and Checkpoint are set for
// the motion events that carry them.
type Event struct {
	Type       EventType
	Object     scene.ObjectID
	Checkpoint string
}

// Observer receives motion callbacks for a single follow request. Implement
// NoopObserver to pick only the calls you care about.
type Observer interface {
	// MotionPoint fires once per intermediate waypoint reached.
	MotionPoint(object scene.ObjectID, checkpoint string)
	// MotionFinished fires when the final waypoint is reached.
	MotionFinished(object scene.ObjectID, checkpoint string)
	// MotionInterrupted fires when the request is displaced by a new one
	// while more than one segment was still pending.
	MotionInterrupted()
}

// NoopObserver ignores every callback.
type NoopObserver struct{}

func (NoopObserver) MotionPoint(scene.ObjectID, string)    {}
func (NoopObserver) MotionFinished(scene.ObjectID, string) {}
func (NoopObserver) MotionInterrupted()                    {}

// EventQueue is a simple FIFO queue of operator notifications.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
