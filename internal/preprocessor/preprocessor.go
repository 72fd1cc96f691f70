// Package preprocessor implements the PreProcessor: the single thread that
// receives client commands, turns each into an Event, runs its prepare()
// (Store lookups, allocation, compilation — everything unsafe for the
// audio thread), stamps a delivery time, and pushes it to the EventQueue.
package preprocessor

import (
	"go.uber.org/zap"

	"github.com/sigflow/engine/internal/events"
	"github.com/sigflow/engine/internal/eventqueue"
	"github.com/sigflow/engine/pkg/proto"
	"github.com/sigflow/engine/pkg/sigerr"
	"github.com/sigflow/engine/pkg/thread"
)

// Clock is the minimal AudioBackend surface the PreProcessor needs to stamp
// a delivery time.
type Clock interface {
	CurrentFrame() uint64
}

// Config bounds the PreProcessor's push-retry and delivery-margin
// behavior.
type Config struct {
	// DeliveryMargin is added to the current frame when stamping an
	// event's target time, giving the Executor a chance to drain it
	// before its deadline passes.
	DeliveryMargin uint32
	// PushRetries bounds the number of immediate retries against a full
	// EventQueue before back-pressure is reported to the client.
	PushRetries int
}

const (
	defaultDeliveryMargin = 64
	defaultPushRetries    = 8
)

// PreProcessor serializes command handling: one command is fully prepared
// and enqueued before the next is looked at, so Store visibility across
// commands from the same client is synchronous without needing the
// blocking-flag handshake the audio-thread-mutation design would require.
type PreProcessor struct {
	ctx      *events.PrepareContext
	queue    *eventqueue.Queue
	clock    Clock
	notifier proto.Notifier
	cfg      Config
	logger   *zap.Logger
}

// New builds a PreProcessor. ctx is shared with no one else concurrently;
// the caller is responsible for routing exactly one goroutine's worth of
// Handle calls through it.
func New(ctx *events.PrepareContext, queue *eventqueue.Queue, clock Clock, notifier proto.Notifier, cfg Config, logger *zap.Logger) *PreProcessor {
	if cfg.DeliveryMargin == 0 {
		cfg.DeliveryMargin = defaultDeliveryMargin
	}
	if cfg.PushRetries <= 0 {
		cfg.PushRetries = defaultPushRetries
	}
	return &PreProcessor{ctx: ctx, queue: queue, clock: clock, notifier: notifier, cfg: cfg, logger: logger}
}

// Handle parses, prepares, stamps, and enqueues one client command. It
// reports failures at whichever stage they occur via the notifier's Status/
// Error paths rather than returning an error, matching the fire-and-notify
// shape of the wire protocol.
func (pp *PreProcessor) Handle(cmd proto.Command) {
	thread.AssertNotAudioThread("preprocessor.Handle")
	ev, err := events.FromCommand(cmd)
	if err != nil {
		pp.reportFailure(cmd.RequestID, err)
		return
	}

	if err := ev.Prepare(pp.ctx); err != nil {
		pp.reportFailure(cmd.RequestID, err)
		return
	}

	ev.SetTime(uint32(pp.clock.CurrentFrame()) + pp.cfg.DeliveryMargin)

	for attempt := 0; ; attempt++ {
		if pp.queue.Push(ev) {
			return
		}
		if attempt >= pp.cfg.PushRetries {
			pp.reportFailure(cmd.RequestID, sigerr.New(sigerr.KindQueueFull, cmd.Path, "event queue full"))
			if pp.logger != nil {
				pp.logger.Warn("dropping command, event queue full", zap.String("request_id", cmd.RequestID), zap.String("op", cmd.Op))
			}
			return
		}
	}
}

func (pp *PreProcessor) reportFailure(requestID string, err error) {
	if pp.notifier == nil {
		return
	}
	kind := sigerr.KindInternal.String()
	if se, ok := err.(*sigerr.Error); ok {
		kind = se.Kind.String()
	}
	pp.notifier.Status(proto.Status{RequestID: requestID, OK: false, Kind: kind, Message: err.Error()})
}
