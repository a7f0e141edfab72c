package core

import "pkt.systems/jove/schema"

// EventSink receives change notifications from the core service.
type EventSink interface {
	OnOutput(event schema.OutputEvent)
	OnStatus(event schema.StatusEvent)
}
