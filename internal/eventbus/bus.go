package eventbus

import (
	"context"
	"sync"

	"pkt.systems/jove/schema"
	"pkt.systems/pslog"
)

// EventType identifies the event payload.
type EventType string

const (
	// EventOutput signals that an execution's output blocks changed.
	EventOutput EventType = "output"
	// EventStatus signals an execution status transition.
	EventStatus EventType = "status"
)

// Event represents a UI-facing event emitted by the core service.
type Event struct {
	Type   EventType
	Output schema.OutputEvent
	Status schema.StatusEvent
}

// Bus fanouts events to per-execution subscribers.
type Bus struct {
	mu    sync.Mutex
	subs  map[schema.ExecutionID]map[chan Event]struct{}
	log   pslog.Logger
	depth int
}

// New constructs a Bus.
func New(logger pslog.Logger) *Bus {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Bus{
		subs:  make(map[schema.ExecutionID]map[chan Event]struct{}),
		log:   logger,
		depth: 256,
	}
}

// Subscribe registers a subscriber for one execution and returns a
// channel + cancel. An empty execution id subscribes to every execution.
func (b *Bus) Subscribe(id schema.ExecutionID) (<-chan Event, func()) {
	if b == nil {
		return nil, func() {}
	}
	ch := make(chan Event, b.depth)
	b.mu.Lock()
	execSubs := b.subs[id]
	if execSubs == nil {
		execSubs = make(map[chan Event]struct{})
		b.subs[id] = execSubs
	}
	execSubs[ch] = struct{}{}
	count := len(execSubs)
	b.mu.Unlock()
	if b.log != nil {
		b.log.With("execution", id).Debug("eventbus subscribe", "subs", count)
	}
	return ch, func() {
		b.mu.Lock()
		if subs := b.subs[id]; subs != nil {
			if _, registered := subs[ch]; registered {
				delete(subs, ch)
				// Closed under the lock so publish never sends on a
				// closed channel; also makes cancel idempotent.
				close(ch)
			}
			if len(subs) == 0 {
				delete(b.subs, id)
			}
		}
		b.mu.Unlock()
		if b.log != nil {
			b.log.With("execution", id).Debug("eventbus unsubscribe")
		}
	}
}

// OnOutput publishes an output event.
func (b *Bus) OnOutput(event schema.OutputEvent) {
	b.publish(event.ExecutionID, Event{Type: EventOutput, Output: event})
}

// OnStatus publishes a status event.
func (b *Bus) OnStatus(event schema.StatusEvent) {
	b.publish(event.ExecutionID, Event{Type: EventStatus, Status: event})
}

func (b *Bus) publish(id schema.ExecutionID, event Event) {
	if b == nil {
		return
	}
	// Sends are non-blocking, so they stay under the lock; that keeps a
	// concurrent cancel from closing a channel between snapshot and send.
	dropped := 0
	b.mu.Lock()
	for sub := range b.subs[id] {
		select {
		case sub <- event:
		default:
			dropped++
		}
	}
	if id != "" {
		for sub := range b.subs[""] {
			select {
			case sub <- event:
			default:
				dropped++
			}
		}
	}
	b.mu.Unlock()
	if dropped > 0 && b.log != nil {
		b.log.With("execution", id).Trace("eventbus dropped", "count", dropped)
	}
}
