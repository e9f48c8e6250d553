// Package facade unifies the spool and no-spool control paths behind one
// interface (spec.md §4.G), so internal/handlers never needs to know which
// mode is active.
package facade

import "github.com/coolarec/spooling/internal/job"

// Service is the mode-independent submission facade.
type Service interface {
	Submit(req job.Request) (*job.Job, error)
	GetStatus() string
	GetActiveJobIDs() []uint64
	CountTasks() (submitted, completed uint64)
	GetJob(id uint64) (job.Job, error)
	GetAllJobs() []job.Job
}
