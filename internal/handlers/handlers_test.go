package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coolarec/spooling/internal/job"
)

type fakeService struct {
	submitJob *job.Job
	submitErr error
	status    string
	active    []uint64
	submitted uint64
	completed uint64
	jobs      map[uint64]job.Job
}

func (f *fakeService) Submit(req job.Request) (*job.Job, error) { return f.submitJob, f.submitErr }
func (f *fakeService) GetStatus() string                        { return f.status }
func (f *fakeService) GetActiveJobIDs() []uint64                { return f.active }
func (f *fakeService) CountTasks() (uint64, uint64)              { return f.submitted, f.completed }
func (f *fakeService) GetJob(id uint64) (job.Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return job.Job{}, errNotFound
	}
	return j, nil
}
func (f *fakeService) GetAllJobs() []job.Job {
	out := make([]job.Job, 0, len(f.jobs))
	for _, j := range f.jobs {
		out = append(out, j)
	}
	return out
}

var errNotFound = jobNotFoundErr{}

type jobNotFoundErr struct{}

func (jobNotFoundErr) Error() string { return "job not found" }

func TestPrintSuccess(t *testing.T) {
	svc := &fakeService{submitJob: &job.Job{JobID: 3}}
	h := New(svc, t.TempDir())

	body, _ := json.Marshal(printRequest{TeamName: "A", FileContent: "x", Priority: 1})
	req := httptest.NewRequest(http.MethodPost, "/print", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Print(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if env.Status != "success" {
		t.Fatalf("expected success, got %+v", env)
	}
}

func TestPrintOverloadReturns503(t *testing.T) {
	svc := &fakeService{submitJob: &job.Job{JobID: 4, Status: job.SubmitFailed}, submitErr: errOverload{}}
	h := New(svc, t.TempDir())

	body, _ := json.Marshal(printRequest{TeamName: "A", FileContent: "x"})
	req := httptest.NewRequest(http.MethodPost, "/print", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Print(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

type errOverload struct{}

func (errOverload) Error() string { return "input buffer full" }

func TestJobInfoNotFound(t *testing.T) {
	svc := &fakeService{jobs: map[uint64]job.Job{}}
	h := New(svc, t.TempDir())

	body, _ := json.Marshal(jobInfoRequest{ID: 99})
	req := httptest.NewRequest(http.MethodPost, "/get_job_info", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.JobInfo(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestJobInfoFormatsTimestamps(t *testing.T) {
	submitTime := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := &fakeService{jobs: map[uint64]job.Job{
		1: {JobID: 1, TeamName: "A", SubmitTime: submitTime, Status: job.Waiting},
	}}
	h := New(svc, t.TempDir())

	body, _ := json.Marshal(jobInfoRequest{ID: 1})
	req := httptest.NewRequest(http.MethodPost, "/get_job_info", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.JobInfo(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); !bytes.Contains([]byte(got), []byte("2026/01/02 03:04:05")) {
		t.Fatalf("expected formatted submit_time, got %s", got)
	}
}

func TestCountTask(t *testing.T) {
	svc := &fakeService{submitted: 5, completed: 2}
	h := New(svc, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/count_task", nil)
	rec := httptest.NewRecorder()

	h.CountTask(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestDownloadFileNotFound(t *testing.T) {
	svc := &fakeService{jobs: map[uint64]job.Job{1: {JobID: 1, FileName: "missing"}}}
	h := New(svc, t.TempDir())

	body, _ := json.Marshal(downloadRequest{ID: 1})
	req := httptest.NewRequest(http.MethodPost, "/download_file", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.DownloadFile(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
