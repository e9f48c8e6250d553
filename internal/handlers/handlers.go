// Package handlers implements the HTTP-level submission/inspection surface
// (spec.md §6), grounded on the teacher's internal/handlers/ingest.go style:
// per-request structured logging keyed by X-Request-ID, content-type
// checks, and a uniform JSON error envelope.
package handlers

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/coolarec/spooling/internal/facade"
	"github.com/coolarec/spooling/internal/job"
	"github.com/coolarec/spooling/internal/logger"
)

const timeLayout = "2006/01/02 15:04:05"

// Handlers exposes the spool server's HTTP surface over a facade.Service.
type Handlers struct {
	svc       facade.Service
	outputDir string
}

// New builds a Handlers bound to svc, serving rendered documents out of
// outputDir (spec.md §6's filesystem contract: "./output/{file_name}.pdf").
func New(svc facade.Service, outputDir string) *Handlers {
	return &Handlers{svc: svc, outputDir: outputDir}
}

type envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logger.WithComponent("handlers").Error().Err(err).Msg("failed to encode response")
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, envelope{Status: "error", Message: message})
}

// jobView is a job rendered for HTTP consumers, with timestamps formatted
// per spec.md §6 ("YYYY/MM/DD HH:MM:SS").
type jobView struct {
	JobID          uint64 `json:"job_id"`
	Priority       uint32 `json:"priority"`
	TeamName       string `json:"team_name"`
	FileName       string `json:"file_name"`
	ProblemName    string `json:"problem_name"`
	SubmitTime     string `json:"submit_time"`
	FileContent    string `json:"file_content"`
	Color          bool   `json:"color"`
	Status         string `json:"status"`
	StartPrintTime string `json:"start_print_time,omitempty"`
	EndPrintTime   string `json:"end_print_time,omitempty"`
}

func toView(j job.Job) jobView {
	v := jobView{
		JobID:       j.JobID,
		Priority:    j.Priority,
		TeamName:    j.TeamName,
		FileName:    j.FileName,
		ProblemName: j.ProblemName,
		SubmitTime:  j.SubmitTime.Format(timeLayout),
		FileContent: j.FileContent,
		Color:       j.Color,
		Status:      string(j.Status),
	}
	if !j.StartPrintTime.IsZero() {
		v.StartPrintTime = j.StartPrintTime.Format(timeLayout)
	}
	if !j.EndPrintTime.IsZero() {
		v.EndPrintTime = j.EndPrintTime.Format(timeLayout)
	}
	return v
}

// printRequest is the POST /print body.
type printRequest struct {
	Priority    uint32 `json:"priority"`
	TeamName    string `json:"team_name"`
	FileContent string `json:"file_content"`
	Color       bool   `json:"color"`
	ProblemName string `json:"problem_name"`
}

// Print handles POST /print.
func (h *Handlers) Print(w http.ResponseWriter, r *http.Request) {
	log := logger.WithRequestID(r.Header.Get("X-Request-ID"))

	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req printRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("failed to decode print request")
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	j, err := h.svc.Submit(job.Request{
		Priority:    req.Priority,
		TeamName:    req.TeamName,
		FileContent: req.FileContent,
		Color:       req.Color,
		ProblemName: req.ProblemName,
	})
	if err != nil {
		if j == nil {
			log.Warn().Err(err).Msg("rejected invalid print request")
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Warn().Err(err).Uint64("job_id", j.JobID).Msg("print submission failed")
		h.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, envelope{Status: "success", Data: map[string]any{"job_id": j.JobID}})
}

// Status handles GET /status.
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, envelope{Status: "success", Data: h.svc.GetStatus()})
}

// ActiveIDs handles GET /get_active_id.
func (h *Handlers) ActiveIDs(w http.ResponseWriter, r *http.Request) {
	ids := h.svc.GetActiveJobIDs()
	h.writeJSON(w, http.StatusOK, envelope{Status: "success", Data: map[string]any{"active_job_ids": ids}})
}

// CountTask handles GET /count_task.
func (h *Handlers) CountTask(w http.ResponseWriter, r *http.Request) {
	submitted, completed := h.svc.CountTasks()
	h.writeJSON(w, http.StatusOK, envelope{Status: "success", Data: map[string]any{
		"all_task":       submitted,
		"completed_task": completed,
	}})
}

type jobInfoRequest struct {
	ID uint64 `json:"id"`
}

// JobInfo handles POST /get_job_info.
func (h *Handlers) JobInfo(w http.ResponseWriter, r *http.Request) {
	var req jobInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	j, err := h.svc.GetJob(req.ID)
	if err != nil {
		h.writeError(w, http.StatusNotFound, "job not found")
		return
	}

	h.writeJSON(w, http.StatusOK, envelope{Status: "success", Data: toView(j)})
}

// AllInfo handles GET /get_all_info.
func (h *Handlers) AllInfo(w http.ResponseWriter, r *http.Request) {
	jobs := h.svc.GetAllJobs()
	views := make([]jobView, 0, len(jobs))
	for _, j := range jobs {
		views = append(views, toView(j))
	}
	h.writeJSON(w, http.StatusOK, envelope{Status: "success", Data: views})
}

type downloadRequest struct {
	ID uint64 `json:"id"`
}

// DownloadFile handles POST /download_file.
func (h *Handlers) DownloadFile(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	j, err := h.svc.GetJob(req.ID)
	if err != nil {
		h.writeError(w, http.StatusNotFound, "job not found")
		return
	}

	path := filepath.Join(h.outputDir, j.FileName+".pdf")
	f, err := os.Open(path)
	if err != nil {
		h.writeError(w, http.StatusNotFound, "document not found")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+j.FileName+`.pdf"`)
	if _, err := io.Copy(w, f); err != nil {
		logger.WithComponent("handlers").Error().Err(err).Str("file_name", j.FileName).Msg("failed to stream document")
	}
}

// DownloadAll handles GET /download_all, streaming a zip archive of every
// Completed job's rendered PDF.
func (h *Handlers) DownloadAll(w http.ResponseWriter, r *http.Request) {
	jobs := h.svc.GetAllJobs()

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="all_jobs.zip"`)

	zw := zip.NewWriter(w)
	defer zw.Close()

	log := logger.WithComponent("handlers")
	for _, j := range jobs {
		if j.Status != job.Completed {
			continue
		}

		path := filepath.Join(h.outputDir, j.FileName+".pdf")
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				log.Warn().Err(err).Str("file_name", j.FileName).Msg("failed to read document for bulk download")
			}
			continue
		}

		entry, err := zw.Create(j.FileName + ".pdf")
		if err != nil {
			log.Warn().Err(err).Str("file_name", j.FileName).Msg("failed to add zip entry")
			continue
		}
		if _, err := entry.Write(data); err != nil {
			log.Warn().Err(err).Str("file_name", j.FileName).Msg("failed to write zip entry")
		}
	}
}
