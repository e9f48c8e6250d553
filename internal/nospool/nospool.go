// Package nospool implements the no-spool control path (spec.md §4.F): a
// single-stage alternative that submits a job directly to the printer and
// fails fast if it is busy, with no buffers, wells, or priority ordering.
// Grounded on original_source/src/osim/NoSPOOLing.rs.
package nospool

import (
	"context"
	"errors"
	"time"

	"github.com/coolarec/spooling/internal/alerts"
	"github.com/coolarec/spooling/internal/archive"
	"github.com/coolarec/spooling/internal/events"
	"github.com/coolarec/spooling/internal/job"
	"github.com/coolarec/spooling/internal/logger"
	"github.com/coolarec/spooling/internal/metrics"
	"github.com/coolarec/spooling/internal/printer"
	"github.com/coolarec/spooling/internal/registry"
)

// ErrBusy is returned by Submit when the printer rejects the job.
var ErrBusy = errors.New("printer busy")

const node = "nospool"

// Direct is the no-spool submission facade.
type Direct struct {
	printer  *printer.Printer
	registry *registry.Registry
	archive  archive.Store
	events   *events.Pool
	reject   *alerts.RejectTracker
}

// New builds a Direct control path over an existing printer and registry.
func New(p *printer.Printer, reg *registry.Registry, store archive.Store, evtPool *events.Pool, reject *alerts.RejectTracker) *Direct {
	return &Direct{printer: p, registry: reg, archive: store, events: evtPool, reject: reject}
}

func (d *Direct) emit(j job.Job) {
	if d.events != nil {
		d.events.Emit(job.NewEvent(j, node))
	}
}

// Submit creates the job, records it Waiting, and offers it to the printer
// directly. If the printer accepts, Submit blocks until render completes
// and the job is marked Completed; per spec.md §9's resolved Open Question,
// a rejected offer overwrites the registry entry to SubmitFailed rather
// than retaining Waiting.
func (d *Direct) Submit(req job.Request) (*job.Job, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	j := job.New(req, time.Now().UTC())
	d.registry.Put(*j)
	d.emit(*j)
	metrics.JobsSubmittedTotal.Inc()
	if d.reject != nil {
		d.reject.RecordSubmit()
	}

	done := make(chan error, 1)
	printing := *j
	printing.StartPrinting()
	err := d.printer.SubmitTask(context.Background(), printing, func(finished job.Job, renderErr error) {
		if renderErr != nil {
			finished.Fail()
			d.registry.Put(finished)
			d.emit(finished)
			metrics.JobsFailedTotal.WithLabelValues("render_error").Inc()
			done <- renderErr
			return
		}
		finished.Complete()
		d.registry.Put(finished)
		d.emit(finished)
		metrics.JobsCompletedTotal.Inc()
		if d.archive != nil {
			if archErr := d.archive.Persist(context.Background(), finished); archErr != nil {
				logger.WithComponent("nospool").Warn().Err(archErr).Uint64("job_id", finished.JobID).Msg("failed to persist completed job")
			}
		}
		done <- nil
	})

	if err != nil {
		j.Fail()
		d.registry.Put(*j)
		d.emit(*j)
		metrics.JobsFailedTotal.WithLabelValues("busy").Inc()
		metrics.PrinterBusyRejectionsTotal.Inc()
		if d.reject != nil {
			d.reject.RecordRejectAndCheck(context.Background())
		}
		return j, ErrBusy
	}

	<-done
	final, getErr := d.registry.Get(j.JobID)
	if getErr == nil {
		*j = final
	}
	return j, nil
}

// GetStatus reflects the printer's current state.
func (d *Direct) GetStatus() string {
	if d.printer.IsFree() {
		return "free"
	}
	return "printing"
}

// GetActiveJobIDs returns every job_id whose status is not SubmitFailed.
func (d *Direct) GetActiveJobIDs() []uint64 {
	active := d.registry.Filter(func(j job.Job) bool { return j.Status != job.SubmitFailed })
	ids := make([]uint64, 0, len(active))
	for _, j := range active {
		ids = append(ids, j.JobID)
	}
	return ids
}

// CountTasks returns (total_submitted, total_completed).
func (d *Direct) CountTasks() (submitted, completed uint64) {
	return job.Stats()
}

// GetJob returns a copy of the job with the given id.
func (d *Direct) GetJob(id uint64) (job.Job, error) {
	return d.registry.Get(id)
}

// GetAllJobs returns a snapshot of every job ever submitted.
func (d *Direct) GetAllJobs() []job.Job {
	return d.registry.Values()
}
