package job

import (
	"testing"
	"time"
)

func TestNewDerivesFileName(t *testing.T) {
	ResetStatsForTest()
	defer ResetStatsForTest()

	submit := time.Date(2026, 7, 31, 10, 20, 30, 0, time.UTC)
	j := New(Request{Priority: 5, TeamName: "A", FileContent: "x\ny", Color: false, ProblemName: "P"}, submit)

	if j.JobID != 0 {
		t.Fatalf("expected job_id 0, got %d", j.JobID)
	}
	want := "A_20260731_102030_0"
	if j.FileName != want {
		t.Fatalf("file_name = %q, want %q", j.FileName, want)
	}
	if j.Status != Waiting {
		t.Fatalf("expected Waiting status, got %v", j.Status)
	}
}

func TestJobIDsAreMonotonicAndUnique(t *testing.T) {
	ResetStatsForTest()
	defer ResetStatsForTest()

	seen := map[uint64]bool{}
	for i := 0; i < 50; i++ {
		j := New(Request{TeamName: "T", FileContent: "x"}, time.Now().UTC())
		if seen[j.JobID] {
			t.Fatalf("duplicate job_id %d", j.JobID)
		}
		seen[j.JobID] = true
	}
}

func TestLessOrdersByPriorityThenSubmitTime(t *testing.T) {
	t0 := time.Now().UTC()
	t1 := t0.Add(time.Second)

	high := &Job{Priority: 1, SubmitTime: t1}
	low := &Job{Priority: 9, SubmitTime: t0}
	if !high.Less(low) {
		t.Fatalf("expected higher-priority (smaller value) job to sort first")
	}

	earlier := &Job{Priority: 3, SubmitTime: t0}
	later := &Job{Priority: 3, SubmitTime: t1}
	if !earlier.Less(later) {
		t.Fatalf("expected earlier submit_time to sort first on tie")
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	ResetStatsForTest()
	defer ResetStatsForTest()

	j := New(Request{TeamName: "T", FileContent: "x"}, time.Now().UTC())
	j.StartPrinting()
	j.Complete()
	_, completed := Stats()
	if completed != 1 {
		t.Fatalf("expected 1 completed, got %d", completed)
	}
	end := j.EndPrintTime
	j.Complete()
	_, completed = Stats()
	if completed != 1 {
		t.Fatalf("repeated Complete() incremented counter: got %d", completed)
	}
	if !j.EndPrintTime.Equal(end) {
		t.Fatalf("repeated Complete() changed end_print_time")
	}
}

func TestStatusMachineSideEffects(t *testing.T) {
	ResetStatsForTest()
	defer ResetStatsForTest()

	j := New(Request{TeamName: "T", FileContent: "x"}, time.Now().UTC())
	if !j.StartPrintTime.IsZero() {
		t.Fatalf("start_print_time should be zero before printing")
	}
	j.StartPrinting()
	if j.Status != Printing || j.StartPrintTime.IsZero() {
		t.Fatalf("StartPrinting did not set status/time correctly")
	}
	j.Fail()
	if j.Status != SubmitFailed {
		t.Fatalf("Fail did not set SubmitFailed")
	}
}

func TestRequestValidate(t *testing.T) {
	cases := []struct {
		name string
		req  Request
		ok   bool
	}{
		{"missing team", Request{FileContent: "x"}, false},
		{"missing content", Request{TeamName: "A"}, false},
		{"valid", Request{TeamName: "A", FileContent: "x"}, true},
	}
	for _, c := range cases {
		err := c.req.Validate()
		if (err == nil) != c.ok {
			t.Errorf("%s: Validate() err=%v, want ok=%v", c.name, err, c.ok)
		}
	}
}

func TestNormalizeTrimsFields(t *testing.T) {
	r := Request{TeamName: "  A  ", ProblemName: " P ", FileContent: "line\n\n"}
	r.Normalize()
	if r.TeamName != "A" || r.ProblemName != "P" {
		t.Fatalf("Normalize did not trim fields: %+v", r)
	}
	if r.FileContent != "line" {
		t.Fatalf("Normalize did not trim trailing newlines: %q", r.FileContent)
	}
}
