// Package handler exposes statement extraction over HTTP: multipart upload,
// job polling, and export download.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/FACorreiaa/mpesa-statement-api/internal/domain/export"
	"github.com/FACorreiaa/mpesa-statement-api/internal/domain/jobs"
	"github.com/FACorreiaa/mpesa-statement-api/pkg/storage"
)

// maxUploadBytes bounds the multipart form size for statement uploads.
const maxUploadBytes = 32 << 20

// StatementHandler handles statement upload and job polling requests.
type StatementHandler struct {
	jobs   *jobs.Store
	files  storage.Storage
	logger *slog.Logger
}

// NewStatementHandler creates a new statement handler.
func NewStatementHandler(jobStore *jobs.Store, files storage.Storage, logger *slog.Logger) *StatementHandler {
	return &StatementHandler{
		jobs:   jobStore,
		files:  files,
		logger: logger,
	}
}

// RegisterRoutes sets up the HTTP routes.
func (h *StatementHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/statements", h.handleUpload)
	mux.HandleFunc("GET /api/statements/{id}", h.handleStatus)
	mux.HandleFunc("GET /api/statements/{id}/export", h.handleExport)
	mux.HandleFunc("GET /api/health", h.handleHealth)
}

// submitResponse mirrors the task-id contract statement clients already poll.
type submitResponse struct {
	TaskID string `json:"taskID"`
}

// statusResponse reports a job that has not produced transactions yet.
type statusResponse struct {
	Ready      bool   `json:"ready"`
	Successful bool   `json:"successful"`
	PagesDone  int    `json:"pages_done"`
	PagesTotal int    `json:"pages_total"`
	Error      string `json:"error,omitempty"`
}

func (h *StatementHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *StatementHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded, use form field 'file'")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, "only PDF statements are supported")
		return
	}

	password := r.FormValue("password")
	if password == "" {
		writeError(w, http.StatusBadRequest, "form field 'password' is required")
		return
	}

	info, err := h.files.Upload(r.Context(), header.Filename, "application/pdf", file)
	if err != nil {
		h.logger.Error("failed to store upload", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	path, err := h.files.Location(r.Context(), info.ID)
	if err != nil {
		h.logger.Error("failed to resolve upload path", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	jobID, err := h.jobs.Submit(path, password)
	if err != nil {
		if errors.Is(err, jobs.ErrQueueFull) {
			writeError(w, http.StatusServiceUnavailable, "extraction queue is full, retry later")
			return
		}
		h.logger.Error("failed to submit job", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to submit job")
		return
	}

	h.logger.Info("statement accepted",
		slog.String("job_id", jobID.String()),
		slog.String("filename", header.Filename),
		slog.Int64("size", info.Size),
	)
	writeJSON(w, http.StatusAccepted, submitResponse{TaskID: jobID.String()})
}

func (h *StatementHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := h.lookupJob(w, r)
	if !ok {
		return
	}

	switch job.Status {
	case jobs.StatusSucceeded:
		// The transaction list is the result; clients get it directly.
		writeJSON(w, http.StatusOK, job.Transactions)
	case jobs.StatusFailed:
		writeJSON(w, http.StatusOK, statusResponse{
			Ready:      true,
			Successful: false,
			PagesDone:  job.PagesDone,
			PagesTotal: job.PagesTotal,
			Error:      job.Error,
		})
	default:
		writeJSON(w, http.StatusOK, statusResponse{
			Ready:      false,
			Successful: false,
			PagesDone:  job.PagesDone,
			PagesTotal: job.PagesTotal,
		})
	}
}

func (h *StatementHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	job, ok := h.lookupJob(w, r)
	if !ok {
		return
	}

	if job.Status != jobs.StatusSucceeded {
		writeError(w, http.StatusConflict, "job has not produced transactions")
		return
	}

	format := export.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = export.FormatCSV
	}
	if format != export.FormatCSV && format != export.FormatXLSX {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "transactions."+string(format)))
	if err := export.Write(w, format, job.Transactions); err != nil {
		h.logger.Error("failed to export transactions",
			slog.String("job_id", job.ID.String()),
			slog.Any("error", err),
		)
	}
}

func (h *StatementHandler) lookupJob(w http.ResponseWriter, r *http.Request) (jobs.Job, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return jobs.Job{}, false
	}

	job, ok := h.jobs.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return jobs.Job{}, false
	}
	return job, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
