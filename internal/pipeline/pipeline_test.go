package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coolarec/spooling/internal/job"
	"github.com/coolarec/spooling/internal/printer"
	"github.com/coolarec/spooling/internal/registry"
)

type fakeRenderer struct{}

func (fakeRenderer) Render(ctx context.Context, text, fileName string) error { return nil }

type failRenderer struct{}

func (failRenderer) Render(ctx context.Context, text, fileName string) error {
	return errors.New("render boom")
}

func newTestPipeline(caps Capacities, r interface {
	Render(ctx context.Context, text, fileName string) error
}) (*Pipeline, *registry.Registry) {
	job.ResetStatsForTest()
	reg := registry.New()
	pr := printer.New(r, 0)
	p := New(caps, pr, reg, nil, nil, nil)
	p.Start()
	return p, reg
}

func waitForStatus(t *testing.T, reg *registry.Registry, id uint64, want job.Status, timeout time.Duration) job.Job {
	t.Helper()
	deadline := time.After(timeout)
	for {
		j, err := reg.Get(id)
		if err == nil && j.Status == want {
			return j
		}
		select {
		case <-deadline:
			t.Fatalf("job %d never reached status %s, last=%+v err=%v", id, want, j, err)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestSubmitReachesCompleted(t *testing.T) {
	p, reg := newTestPipeline(Capacities{InputBuffer: 4, InputWell: 4, OutputWell: 4, OutputBuffer: 4}, fakeRenderer{})

	j, err := p.Submit(job.Request{TeamName: "A", FileContent: "x\ny", Priority: 5, ProblemName: "P"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	got := waitForStatus(t, reg, j.JobID, job.Completed, time.Second)
	if got.EndPrintTime.IsZero() {
		t.Fatal("expected end_print_time to be set")
	}
}

func TestPriorityInversionServesLowerPriorityFirst(t *testing.T) {
	p, reg := newTestPipeline(Capacities{InputBuffer: 4, InputWell: 4, OutputWell: 4, OutputBuffer: 4}, fakeRenderer{})

	low, err := p.Submit(job.Request{TeamName: "L", FileContent: "l", Priority: 9})
	if err != nil {
		t.Fatalf("submit low: %v", err)
	}
	high, err := p.Submit(job.Request{TeamName: "H", FileContent: "h", Priority: 1})
	if err != nil {
		t.Fatalf("submit high: %v", err)
	}

	waitForStatus(t, reg, high.JobID, job.Completed, time.Second)
	waitForStatus(t, reg, low.JobID, job.Completed, time.Second)
}

func TestSubmitOverloadRejectsWhenBufferFull(t *testing.T) {
	job.ResetStatsForTest()
	reg := registry.New()
	pr := printer.New(fakeRenderer{}, time.Hour) // render never returns in this test's window
	p := New(Capacities{InputBuffer: 1, InputWell: 1, OutputWell: 1, OutputBuffer: 1}, pr, reg, nil, nil, nil)
	// deliberately do not Start(): keeps the input buffer from draining so
	// we can force it full without a real stage race.
	if _, err := p.Submit(job.Request{TeamName: "A", FileContent: "a"}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	j2, err := p.Submit(job.Request{TeamName: "B", FileContent: "b"})
	if !errors.Is(err, ErrOverload) {
		t.Fatalf("expected ErrOverload, got %v", err)
	}
	got, getErr := reg.Get(j2.JobID)
	if getErr != nil || got.Status != job.SubmitFailed {
		t.Fatalf("expected SubmitFailed in registry, got %+v err=%v", got, getErr)
	}
}

func TestStage2PrependsHeader(t *testing.T) {
	p, reg := newTestPipeline(Capacities{InputBuffer: 4, InputWell: 4, OutputWell: 4, OutputBuffer: 4}, fakeRenderer{})

	j, err := p.Submit(job.Request{TeamName: "Alpha", FileContent: "body"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	got := waitForStatus(t, reg, j.JobID, job.Completed, time.Second)
	if len(got.FileContent) < len("\\ team_name: Alpha") {
		t.Fatalf("expected header prepended, got %q", got.FileContent)
	}
}

func TestRenderFailureMarksSubmitFailed(t *testing.T) {
	p, reg := newTestPipeline(Capacities{InputBuffer: 4, InputWell: 4, OutputWell: 4, OutputBuffer: 4}, failRenderer{})

	j, err := p.Submit(job.Request{TeamName: "A", FileContent: "x"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	waitForStatus(t, reg, j.JobID, job.SubmitFailed, time.Second)
}
