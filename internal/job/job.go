// Package job defines the canonical print-job record, its status
// lifecycle, and the ordering used by the priority wells.
package job

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// Status is one of the four states a Job can occupy. Transitions are
// one-directional: Waiting -> Printing -> Completed, Waiting -> SubmitFailed,
// Printing -> SubmitFailed. Completed and SubmitFailed are terminal.
type Status string

const (
	Waiting      Status = "Waiting"
	Printing     Status = "Printing"
	Completed    Status = "Completed"
	SubmitFailed Status = "SubmitFailed"
)

var (
	ErrEmptyTeamName    = errors.New("team_name cannot be empty")
	ErrEmptyFileContent = errors.New("file_content cannot be empty")
)

// Job is a single print submission. Once assigned, JobID and FileName
// never change. FileContent may be rewritten in-pipeline (stage 2 prepends
// a header); every other identity field is immutable after creation.
type Job struct {
	JobID          uint64    `json:"job_id"`
	Priority       uint32    `json:"priority"`
	TeamName       string    `json:"team_name"`
	FileName       string    `json:"file_name"`
	ProblemName    string    `json:"problem_name"`
	SubmitTime     time.Time `json:"submit_time"`
	FileContent    string    `json:"file_content"`
	Color          bool      `json:"color"`
	Status         Status    `json:"status"`
	StartPrintTime time.Time `json:"start_print_time,omitempty"`
	EndPrintTime   time.Time `json:"end_print_time,omitempty"`
}

// idCounter and the process-wide submitted/completed counters. These are
// the spec's "two counters, total-submitted and total-completed", kept as
// package-level atomics per spec.md §9 ("Global counters... treat as part
// of module-level state with lifecycle init-at-startup").
var (
	idCounter       atomic.Uint64
	totalSubmitted  atomic.Uint64
	totalCompleted  atomic.Uint64
)

// Stats returns the current (total_submitted, total_completed) counters.
func Stats() (submitted, completed uint64) {
	return totalSubmitted.Load(), totalCompleted.Load()
}

// ResetStatsForTest resets the package-level counters and id sequence.
// It exists only to give tests a clean slate; production code never calls it.
func ResetStatsForTest() {
	idCounter.Store(0)
	totalSubmitted.Store(0)
	totalCompleted.Store(0)
}

// Request is the raw, not-yet-validated submission payload (the Go analogue
// of the original source's rawJob).
type Request struct {
	Priority    uint32
	TeamName    string
	FileContent string
	Color       bool
	ProblemName string
}

// New allocates a job_id, derives file_name, and returns a Job in the
// Waiting state. submitTime should already be UTC.
func New(req Request, submitTime time.Time) *Job {
	id := idCounter.Add(1) - 1
	totalSubmitted.Add(1)

	ts := submitTime.Format("20060102_150405")
	fileName := fmt.Sprintf("%s_%s_%d", req.TeamName, ts, id)

	return &Job{
		JobID:       id,
		Priority:    req.Priority,
		TeamName:    req.TeamName,
		FileName:    fileName,
		ProblemName: req.ProblemName,
		SubmitTime:  submitTime,
		FileContent: req.FileContent,
		Color:       req.Color,
		Status:      Waiting,
	}
}

// Validate checks the request for required fields before a Job is created.
func (r Request) Validate() error {
	if r.TeamName == "" {
		return ErrEmptyTeamName
	}
	if r.FileContent == "" {
		return ErrEmptyFileContent
	}
	return nil
}

// StartPrinting transitions Waiting -> Printing, recording StartPrintTime.
func (j *Job) StartPrinting() {
	j.Status = Printing
	j.StartPrintTime = time.Now().UTC()
}

// Complete transitions Printing -> Completed, recording EndPrintTime and
// bumping the completed counter. Calling Complete on an already-Completed
// job is a no-op (idempotent), matching the original's guard.
func (j *Job) Complete() {
	if j.Status != Completed {
		j.Status = Completed
		j.EndPrintTime = time.Now().UTC()
		totalCompleted.Add(1)
	}
}

// Fail transitions the job to SubmitFailed. Valid from Waiting or Printing.
func (j *Job) Fail() {
	j.Status = SubmitFailed
}

// LogFields returns the zerolog-friendly key/value pairs that pipeline
// stage 2 attaches to its debug log line for this job, the
// structured-logging analogue of the original source's Job::display().
func (j *Job) LogFields() map[string]any {
	return map[string]any{
		"job_id":    j.JobID,
		"priority":  j.Priority,
		"team_name": j.TeamName,
		"status":    string(j.Status),
	}
}

// Clone returns a value copy of the job. Job holds no pointers or slices,
// so the copy shares no mutable state with j.
func (j *Job) Clone() Job {
	return *j
}

// Less reports whether j sorts before other under the well's ordering:
// smaller priority first, ties broken by earlier submit_time.
func (j *Job) Less(other *Job) bool {
	if j.Priority != other.Priority {
		return j.Priority < other.Priority
	}
	return j.SubmitTime.Before(other.SubmitTime)
}
