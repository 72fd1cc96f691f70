// Package engine wires the Store, Catalog, Reclaimer, EventQueue,
// Executor, PreProcessor, and PostProcessor into the runnable unit a host
// embeds: Engine.
package engine

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sigflow/engine/internal/events"
	"github.com/sigflow/engine/internal/eventqueue"
	"github.com/sigflow/engine/internal/executor"
	"github.com/sigflow/engine/internal/postprocessor"
	"github.com/sigflow/engine/internal/preprocessor"
	"github.com/sigflow/engine/internal/reclaim"
	"github.com/sigflow/engine/internal/store"
	"github.com/sigflow/engine/pkg/audiobackend"
	"github.com/sigflow/engine/pkg/graph"
	"github.com/sigflow/engine/pkg/path"
	"github.com/sigflow/engine/pkg/plugin"
	"github.com/sigflow/engine/pkg/proto"
)

// Config bundles the engine's tunables: sample rate and block length of
// the audio format, the capacity of the event inbox, the event outbox and
// the Reclaimer ring, the Executor's
// per-period event budget, and the MainLoop's Reclaimer backstop interval.
type Config struct {
	SampleRate         float64
	BlockLength        int
	EventQueueCapacity int
	MinEventFrames     int
	ReclaimInterval    time.Duration
}

const (
	defaultEventQueueCapacity = 1024
	defaultReclaimInterval    = 50 * time.Millisecond
)

func (c Config) withDefaults() Config {
	if c.EventQueueCapacity <= 0 {
		c.EventQueueCapacity = defaultEventQueueCapacity
	}
	if c.ReclaimInterval <= 0 {
		c.ReclaimInterval = defaultReclaimInterval
	}
	return c
}

// Engine is the runnable unit: a root Graph plus every collaborator thread
// needed to mutate and execute it live. Host code constructs one Engine per
// AudioBackend, registers Plugins into Catalog, issues commands via Handle,
// and drives audio periods via Process.
type Engine struct {
	cfg Config

	Store   *store.Store
	Catalog *plugin.Catalog
	Root    *graph.Graph

	reclaimer *reclaim.Reclaimer
	inbox     *eventqueue.Queue
	outbox    *eventqueue.Queue
	wake      chan struct{}

	exec *executor.Executor
	pre  *preprocessor.PreProcessor
	post *postprocessor.PostProcessor

	logger *zap.Logger

	stopOnce sync.Once
	stop     chan struct{}
	wg       sync.WaitGroup
}

// New builds an Engine rooted at an empty, disabled Graph. backend supplies
// the audio format and period I/O; notifier receives client notifications
// emitted by post_process.
func New(cfg Config, backend audiobackend.AudioBackend, notifier proto.Notifier, logger *zap.Logger) *Engine {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	st := store.New()
	catalog := plugin.NewCatalog()
	root := graph.New("root", path.Root, 1)
	_ = st.Add(path.Root, store.ObjectRef{Graph: root})

	reclaimer := reclaim.New(cfg.EventQueueCapacity, logger.Named("reclaimer"))
	inbox := eventqueue.New(cfg.EventQueueCapacity)
	outbox := eventqueue.New(cfg.EventQueueCapacity)
	wake := make(chan struct{}, 1)

	exec := executor.New(root, backend, inbox, outbox, wake, executor.Config{MinEventFrames: cfg.MinEventFrames}, logger.Named("executor"))
	pre := preprocessor.New(
		&events.PrepareContext{Store: st, Catalog: catalog, SampleRate: cfg.SampleRate, BlockLength: cfg.BlockLength},
		inbox, backend, notifier, preprocessor.Config{}, logger.Named("preprocessor"),
	)
	post := postprocessor.New(outbox, notifier, reclaimer)

	return &Engine{
		cfg:       cfg,
		Store:     st,
		Catalog:   catalog,
		Root:      root,
		reclaimer: reclaimer,
		inbox:     inbox,
		outbox:    outbox,
		wake:      wake,
		exec:      exec,
		pre:       pre,
		post:      post,
		logger:    logger,
		stop:      make(chan struct{}),
	}
}

// Handle routes one client command through the PreProcessor.
func (e *Engine) Handle(cmd proto.Command) {
	e.pre.Handle(cmd)
}

// Process runs one audio period through the Executor. Call this from the
// AudioBackend's period callback.
func (e *Engine) Process(nframes int, periodStart uint64) {
	e.exec.Process(nframes, periodStart)
}

// Start launches the PostProcessor wake loop and the Reclaimer backstop
// ticker as background goroutines. Call Close to stop them.
func (e *Engine) Start() {
	e.wg.Add(2)
	go func() {
		defer e.wg.Done()
		e.post.Run(e.wake)
	}()
	go func() {
		defer e.wg.Done()
		ticker := time.NewTicker(e.cfg.ReclaimInterval)
		defer ticker.Stop()
		for {
			select {
			case <-e.stop:
				return
			case <-ticker.C:
				e.reclaimer.Drain()
			}
		}
	}()
}

// Close stops the background goroutines and flushes whatever the Reclaimer
// still holds. Safe to call more than once; only the first call stops the
// goroutines.
func (e *Engine) Close() {
	e.stopOnce.Do(func() {
		close(e.stop)
		close(e.wake)
	})
	e.wg.Wait()
	e.reclaimer.DrainAll()
}
