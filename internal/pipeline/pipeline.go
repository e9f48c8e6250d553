// Package pipeline wires the bounded buffer/well containers, the printer,
// and the registry into the four perpetual stages described by spec.md
// §4.E, grounded on original_source/.../SPOOLing.rs's start_workers and on
// the teacher's internal/worker/worker.go long-running-goroutine idiom.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coolarec/spooling/internal/alerts"
	"github.com/coolarec/spooling/internal/archive"
	"github.com/coolarec/spooling/internal/buffer"
	"github.com/coolarec/spooling/internal/events"
	"github.com/coolarec/spooling/internal/job"
	"github.com/coolarec/spooling/internal/logger"
	"github.com/coolarec/spooling/internal/metrics"
	"github.com/coolarec/spooling/internal/printer"
	"github.com/coolarec/spooling/internal/registry"
	"github.com/coolarec/spooling/internal/well"
)

// ErrOverload is returned by Submit when the input buffer is full.
var ErrOverload = errors.New("input buffer full")

const node = "pipeline"

// Capacities bounds the four staging containers.
type Capacities struct {
	InputBuffer  int
	InputWell    int
	OutputWell   int
	OutputBuffer int
}

// Pipeline is the spool mode control path: submission enqueues into the
// input buffer, four dedicated goroutines carry each job through
// input well -> output well -> output buffer -> printer.
type Pipeline struct {
	inputBuf   *buffer.Buffer[job.Job]
	inputWell  *well.Well[job.Job]
	outputWell *well.Well[job.Job]
	outputBuf  *buffer.Buffer[job.Job]

	printer  *printer.Printer
	registry *registry.Registry
	archive  archive.Store
	events   *events.Pool
	reject   *alerts.RejectTracker
}

// New builds a Pipeline. Start must be called to launch its worker stages.
func New(caps Capacities, p *printer.Printer, reg *registry.Registry, store archive.Store, evtPool *events.Pool, reject *alerts.RejectTracker) *Pipeline {
	jobLess := func(a, b job.Job) bool { return a.Less(&b) }

	return &Pipeline{
		inputBuf:   buffer.New[job.Job](caps.InputBuffer),
		inputWell:  well.New[job.Job](caps.InputWell, jobLess),
		outputWell: well.New[job.Job](caps.OutputWell, jobLess),
		outputBuf:  buffer.New[job.Job](caps.OutputBuffer),
		printer:    p,
		registry:   reg,
		archive:    store,
		events:     evtPool,
		reject:     reject,
	}
}

// Start launches the four perpetual worker stages. They run for the
// lifetime of the process; there is no graceful stop (spec.md §5:
// "Stages run for the lifetime of the process").
func (p *Pipeline) Start() {
	go p.stage1Intake()
	go p.stage2FormatAndRoute()
	go p.stage3Dispatch()
	go p.stage4Print()
	go p.reportStats()
}

// Submit creates a Job from req and admits it to the pipeline. On
// rejection (input buffer full) the job is recorded SubmitFailed and
// ErrOverload is returned.
func (p *Pipeline) Submit(req job.Request) (*job.Job, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	j := job.New(req, time.Now().UTC())
	p.registry.Put(*j)
	p.emit(*j)
	metrics.JobsSubmittedTotal.Inc()
	if p.reject != nil {
		p.reject.RecordSubmit()
	}

	if !p.inputBuf.TryPush(*j) {
		j.Fail()
		p.registry.Put(*j)
		p.emit(*j)
		metrics.JobsFailedTotal.WithLabelValues("overload").Inc()
		if p.reject != nil {
			p.reject.RecordRejectAndCheck(context.Background())
		}
		return j, ErrOverload
	}

	return j, nil
}

func (p *Pipeline) emit(j job.Job) {
	if p.events != nil {
		p.events.Emit(job.NewEvent(j, node))
	}
}

func (p *Pipeline) stage1Intake() {
	for {
		j := p.inputBuf.Pop()
		p.inputWell.PushBlocking(j)
	}
}

func (p *Pipeline) stage2FormatAndRoute() {
	log := logger.WithComponent("pipeline_stage2")
	for {
		j := p.inputWell.PopBlocking()

		header := fmt.Sprintf("\\ team_name: %s\n\\ submit_time: %s\n\n",
			j.TeamName, j.SubmitTime.Format("2006/01/02 15:04:05"))
		j.FileContent = header + j.FileContent

		p.registry.Put(j)
		p.emit(j)
		log.Debug().Fields(j.LogFields()).Msg("formatted and routed")

		p.outputWell.PushBlocking(j)
	}
}

func (p *Pipeline) stage3Dispatch() {
	for {
		j := p.outputWell.PopBlocking()
		p.outputBuf.Push(j)
	}
}

func (p *Pipeline) stage4Print() {
	log := logger.WithComponent("pipeline_stage4")
	for {
		j := p.outputBuf.Pop()

		printing := j
		printing.StartPrinting()
		err := p.printer.SubmitTask(context.Background(), printing, p.onPrintComplete)
		if err != nil {
			log.Warn().Uint64("job_id", j.JobID).Err(err).Msg("printer rejected job")
			j.Fail()
			p.registry.Put(j)
			p.emit(j)
			metrics.JobsFailedTotal.WithLabelValues("busy").Inc()
			metrics.PrinterBusyRejectionsTotal.Inc()
		}
	}
}

// onPrintComplete is invoked by the printer once a job's render finishes.
// Per spec.md §9's resolved Open Question, completion is recorded here,
// after render return, not at printer-accept time.
func (p *Pipeline) onPrintComplete(j job.Job, renderErr error) {
	if renderErr != nil {
		j.Fail()
		p.registry.Put(j)
		p.emit(j)
		metrics.JobsFailedTotal.WithLabelValues("render_error").Inc()
		return
	}

	j.Complete()
	p.registry.Put(j)
	p.emit(j)
	metrics.JobsCompletedTotal.Inc()

	if p.archive != nil {
		if err := p.archive.Persist(context.Background(), j); err != nil {
			logger.WithComponent("pipeline").Warn().Err(err).Uint64("job_id", j.JobID).Msg("failed to persist completed job")
		}
	}
}

func (p *Pipeline) reportStats() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		metrics.BufferSize.WithLabelValues("input_buffer").Set(float64(p.inputBuf.Size()))
		metrics.BufferCapacity.WithLabelValues("input_buffer").Set(float64(p.inputBuf.Capacity()))
		metrics.BufferSize.WithLabelValues("output_buffer").Set(float64(p.outputBuf.Size()))
		metrics.BufferCapacity.WithLabelValues("output_buffer").Set(float64(p.outputBuf.Capacity()))
		metrics.WellSize.WithLabelValues("input_well").Set(float64(p.inputWell.Len()))
		metrics.WellCapacity.WithLabelValues("input_well").Set(float64(p.inputWell.Capacity()))
		metrics.WellSize.WithLabelValues("output_well").Set(float64(p.outputWell.Len()))
		metrics.WellCapacity.WithLabelValues("output_well").Set(float64(p.outputWell.Capacity()))
	}
}

// GetStatus reflects the printer's current state.
func (p *Pipeline) GetStatus() string {
	if p.printer.IsFree() {
		return "free"
	}
	return "printing"
}

// GetActiveJobIDs returns every job_id whose status is not SubmitFailed.
func (p *Pipeline) GetActiveJobIDs() []uint64 {
	active := p.registry.Filter(func(j job.Job) bool { return j.Status != job.SubmitFailed })
	ids := make([]uint64, 0, len(active))
	for _, j := range active {
		ids = append(ids, j.JobID)
	}
	return ids
}

// CountTasks returns (total_submitted, total_completed).
func (p *Pipeline) CountTasks() (submitted, completed uint64) {
	return job.Stats()
}

// GetJob returns a copy of the job with the given id.
func (p *Pipeline) GetJob(id uint64) (job.Job, error) {
	return p.registry.Get(id)
}

// GetAllJobs returns a snapshot of every job ever submitted.
func (p *Pipeline) GetAllJobs() []job.Job {
	return p.registry.Values()
}
