package core

import "pkt.systems/pslog"

// ServiceDeps carries the collaborators injected into NewService.
type ServiceDeps struct {
	Runner    Runner
	Renderer  Renderer
	EventSink EventSink
	Logger    pslog.Logger
}
