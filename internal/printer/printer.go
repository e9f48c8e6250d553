// Package printer implements the single exclusive rendering device
// (spec.md §4.C). Its Free/Printing flip is a lock-free CAS used as a
// lightweight mutex (spec.md §9 "printer as a critical section") so that
// submission never blocks on rendering; the blocking render itself runs on
// a background goroutine.
package printer

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/coolarec/spooling/internal/job"
	"github.com/coolarec/spooling/internal/logger"
	"github.com/coolarec/spooling/internal/metrics"
	"github.com/coolarec/spooling/internal/render"
)

// ErrBusy is returned by SubmitTask when the printer is already printing.
var ErrBusy = errors.New("printer busy")

const (
	stateFree int32 = iota
	statePrinting
)

// Printer represents the single physical printer. State is atomic: Free
// or Printing, plus a printed_count monotonic counter.
type Printer struct {
	state         atomic.Int32
	printedCount  atomic.Uint64
	renderer      render.Renderer
	renderLatency time.Duration
}

// New constructs a free Printer that renders via r, simulating an
// additional fixed latency on top of r.Render's own cost (spec.md §6:
// "Render latency is fixed (simulated, a few seconds)").
func New(r render.Renderer, renderLatency time.Duration) *Printer {
	return &Printer{renderer: r, renderLatency: renderLatency}
}

// IsFree reports whether the printer is currently idle.
func (p *Printer) IsFree() bool {
	return p.state.Load() == stateFree
}

// PrintedCount returns the number of jobs this printer has finished
// rendering (successfully or not).
func (p *Printer) PrintedCount() uint64 {
	return p.printedCount.Load()
}

// OnComplete is invoked with the final error (nil on success) once a job's
// render finishes, exactly once per accepted SubmitTask call. It lets the
// caller (pipeline stage 4 / the no-spool path) decide completion
// bookkeeping per spec.md §4.C ("the job's completion bookkeeping... is
// set by whoever owns the job at the moment of release").
type OnComplete func(j job.Job, err error)

// SubmitTask attempts an atomic Free->Printing compare-and-swap. If the
// printer was not Free, it returns ErrBusy and does not touch j. On
// acceptance, ownership of j is taken for the duration of an asynchronous
// render; done is called exactly once when the render completes (or fails)
// and the printer has been released back to Free.
func (p *Printer) SubmitTask(ctx context.Context, j job.Job, done OnComplete) error {
	if !p.state.CompareAndSwap(stateFree, statePrinting) {
		return ErrBusy
	}

	go p.renderAndRelease(ctx, j, done)
	return nil
}

func (p *Printer) renderAndRelease(ctx context.Context, j job.Job, done OnComplete) {
	log := logger.WithComponent("printer")
	start := time.Now()

	if p.renderLatency > 0 {
		select {
		case <-time.After(p.renderLatency):
		case <-ctx.Done():
		}
	}

	formatted := render.FormatLineNumbers(j.FileContent)
	err := p.renderer.Render(ctx, formatted, j.FileName)
	if err != nil {
		log.Error().Err(err).Uint64("job_id", j.JobID).Str("file_name", j.FileName).Msg("render failed")
	}

	metrics.PrinterRenderDuration.Observe(time.Since(start).Seconds())
	p.printedCount.Add(1)
	p.state.Store(stateFree)

	if done != nil {
		done(j, err)
	}
}
