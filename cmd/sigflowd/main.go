// Command sigflowd is a thin demo harness: it wires a ticking fake
// AudioBackend and the in-memory demoplugins Catalog to an Engine, issues a
// handful of commands to build a small oscillator -> gain -> output graph,
// and drives it for a configurable number of periods, logging every
// notification. The real audio/MIDI I/O binding and wire protocol encoding
// stay external collaborators, out of scope for the engine itself.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sigflow/engine/internal/engine"
	"github.com/sigflow/engine/pkg/demoplugins"
	"github.com/sigflow/engine/pkg/util"
)

var (
	sampleRate  float64
	blockLength int
	periods     int
	periodDelay time.Duration
)

func main() {
	root := rootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sigflowd",
		Short: "sigflow engine demo harness",
		Long:  "Drives an in-process sigflow Engine against a fake AudioBackend and the bundled demo plugins.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context())
		},
	}
	cmd.Flags().Float64Var(&sampleRate, "sample-rate", 48000, "audio sample rate in Hz")
	cmd.Flags().IntVar(&blockLength, "block-length", 256, "frames per period")
	cmd.Flags().IntVar(&periods, "periods", 100, "number of periods to run before exiting")
	cmd.Flags().DurationVar(&periodDelay, "period-delay", 0, "pause between periods (0 runs as fast as possible)")
	return cmd
}

func runDemo(ctx context.Context) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	backend := demoplugins.NewTickerBackend(sampleRate, blockLength, 0, 1)
	notifier := newLogNotifier(logger)
	eng := engine.New(engine.Config{
		SampleRate:  sampleRate,
		BlockLength: blockLength,
	}, backend, notifier, logger)
	demoplugins.RegisterAll(eng.Catalog)
	eng.Start()
	defer eng.Close()

	for _, cmd := range buildGraphCommands() {
		eng.Handle(cmd)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return drivePeriods(gctx, eng, backend)
	})

	return g.Wait()
}

func drivePeriods(ctx context.Context, eng *engine.Engine, backend *demoplugins.TickerBackend) error {
	for i := 0; i < periods; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		frame := backend.CurrentFrame()
		eng.Process(blockLength, frame)
		backend.Tick()
		if i%20 == 0 {
			peak := backend.OutputPeak(0)
			fmt.Printf("period %d: output peak=%s\n", i, util.FormatParameterValueDB(float64(peak), 2))
		}
		if periodDelay > 0 {
			time.Sleep(periodDelay)
		}
	}
	return nil
}
