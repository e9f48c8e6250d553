// Package registry implements the process-wide job_id -> Job mapping
// (spec.md §4.D): the source of truth for inspection. Grounded on the
// sibling example Guti2010-Proyecto-SO/internal/jobs/jobs.go's
// sync.RWMutex-guarded map with copy-out getters, adapted to the job
// model's whole-record-overwrite rule (no read-modify-write is exposed).
package registry

import (
	"errors"
	"sync"

	"github.com/coolarec/spooling/internal/job"
)

// ErrNotFound is returned by Get when no job with the given id exists.
var ErrNotFound = errors.New("job not found")

// Registry is a mutex-guarded map of job_id -> Job. All observations
// return value copies so callers never hold the lock while working with
// results.
type Registry struct {
	mu   sync.RWMutex
	jobs map[uint64]job.Job
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{jobs: make(map[uint64]job.Job)}
}

// Put inserts or overwrites the entry for j.JobID with a full snapshot.
func (r *Registry) Put(j job.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[j.JobID] = j
}

// Get returns a copy of the job with the given id.
func (r *Registry) Get(id uint64) (job.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return job.Job{}, ErrNotFound
	}
	return j, nil
}

// Values returns a snapshot slice of every job currently registered.
func (r *Registry) Values() []job.Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]job.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j)
	}
	return out
}

// Filter returns a snapshot slice of every job for which pred returns true.
func (r *Registry) Filter(pred func(job.Job) bool) []job.Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]job.Job, 0)
	for _, j := range r.jobs {
		if pred(j) {
			out = append(out, j)
		}
	}
	return out
}

// Len reports how many jobs are currently registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}
