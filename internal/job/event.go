package job

import "time"

// Event wraps a job snapshot with metadata for the optional Kafka sink,
// the Go analogue of the teacher's models.Envelope wrapping a LogEvent.
type Event struct {
	Job        Job       `json:"job"`
	Transition Status    `json:"transition"`
	EmittedAt  time.Time `json:"emitted_at"`
	Node       string    `json:"node"`
}

// NewEvent captures a snapshot of j at the moment of a status transition.
func NewEvent(j Job, node string) Event {
	return Event{
		Job:        j,
		Transition: j.Status,
		EmittedAt:  time.Now().UTC(),
		Node:       node,
	}
}
