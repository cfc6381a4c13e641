package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// PathEventKind identifies movement and search notifications.
type PathEventKind string

const (
	PathEventFound        PathEventKind = "path_found"
	PathEventFailed       PathEventKind = "path_failed"
	PathEventFinished     PathEventKind = "path_finished"
	PathEventTileReached  PathEventKind = "tile_reached"
	PathEventMoveFinished PathEventKind = "move_finished"
)

// PathEventType is the Event.Type carried by PathEvent payloads.
const PathEventType = "path"

// PathEvent is emitted by the pathfinding and motion systems.
type PathEvent struct {
	Entity Entity
	Kind   PathEventKind
}

// EmitPath pushes a PathEvent for e.
func EmitPath(w *World, e Entity, kind PathEventKind) {
	w.Events().Push(Event{Type: PathEventType, Data: PathEvent{Entity: e, Kind: kind}})
}

// EventQueue is a simple FIFO queue.
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

// Items returns queued events without clearing them.
func (q *EventQueue) Items() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

// PathEvents returns the queued PathEvents in push order.
func (q *EventQueue) PathEvents() []PathEvent {
	if q == nil {
		return nil
	}
	var out []PathEvent
	for _, evt := range q.items {
		if pe, ok := evt.Data.(PathEvent); ok && evt.Type == PathEventType {
			out = append(out, pe)
		}
	}
	return out
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

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
