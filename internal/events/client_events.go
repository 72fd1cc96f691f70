package events

import (
	"github.com/sigflow/engine/internal/reclaim"
	"github.com/sigflow/engine/pkg/proto"
)

// RegisterClientEvent routes subsequent notifications/responses to a newly
// connected client. ClientID is opaque to the engine; the transport layer
// defines its shape.
type RegisterClientEvent struct {
	Base
	ClientID string
}

func (e *RegisterClientEvent) Prepare(ctx *PrepareContext) error { return nil }
func (e *RegisterClientEvent) Execute(offset int)                {}
func (e *RegisterClientEvent) PostProcess(n proto.Notifier, r *reclaim.Reclaimer) {
	statusPostProcess(n, e.ReqID, nil)
}

// UnregisterClientEvent removes a client's notification route.
type UnregisterClientEvent struct {
	Base
	ClientID string
}

func (e *UnregisterClientEvent) Prepare(ctx *PrepareContext) error { return nil }
func (e *UnregisterClientEvent) Execute(offset int)                {}
func (e *UnregisterClientEvent) PostProcess(n proto.Notifier, r *reclaim.Reclaimer) {
	statusPostProcess(n, e.ReqID, nil)
}

// PingEvent is a liveness probe: round-trips prepare/execute/post_process
// with no side effects beyond acknowledging the request.
type PingEvent struct {
	Base
}

func (e *PingEvent) Prepare(ctx *PrepareContext) error { return nil }
func (e *PingEvent) Execute(offset int)                {}
func (e *PingEvent) PostProcess(n proto.Notifier, r *reclaim.Reclaimer) {
	statusPostProcess(n, e.ReqID, nil)
}
