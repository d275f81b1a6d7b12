// Package handlers implements the budget health HTTP endpoints.
package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dvloznov/budget-health/internal/api/middleware"
	"github.com/dvloznov/budget-health/internal/domain"
	"github.com/dvloznov/budget-health/internal/gcs"
	"github.com/dvloznov/budget-health/internal/jobs"
	"github.com/dvloznov/budget-health/internal/pipeline"
	"github.com/dvloznov/budget-health/internal/validation"
)

// AnalysisHandler serves validation and analysis of uploaded spreadsheets.
type AnalysisHandler struct {
	deps      pipeline.Deps
	publisher jobs.Publisher
	maxBytes  int64
	log       zerolog.Logger
}

// NewAnalysisHandler creates a new analysis handler. publisher may be nil,
// in which case POST /api/analyses answers 503.
func NewAnalysisHandler(deps pipeline.Deps, publisher jobs.Publisher, maxBytes int64, log zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		deps:      deps,
		publisher: publisher,
		maxBytes:  maxBytes,
		log:       log,
	}
}

// Validate handles POST /api/validate
func (h *AnalysisHandler) Validate(w http.ResponseWriter, r *http.Request) {
	filename, data, err := readUpload(r, h.maxBytes)
	if err != nil {
		h.writeUploadError(w, r, err)
		return
	}

	res := validation.ValidateFile(filename, data)
	h.log.Info().
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Bool("valid", res.Valid).
		Int("diagnostics", len(res.Diagnostics)).
		Msg("Validated upload")

	middleware.WriteJSON(w, http.StatusOK, res)
}

// Analyze handles POST /api/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	req, err := h.analysisRequest(r)
	if err != nil {
		h.writeUploadError(w, r, err)
		return
	}

	report, res, err := pipeline.Analyze(r.Context(), h.deps, req)
	if err != nil {
		h.writeAnalysisError(w, r, err)
		return
	}
	if report == nil {
		middleware.WriteJSON(w, http.StatusUnprocessableEntity, res)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, report)
}

// Enqueue handles POST /api/analyses
func (h *AnalysisHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	if h.publisher == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Job queue not configured")
		return
	}

	req, err := h.analysisRequest(r)
	if err != nil {
		h.writeUploadError(w, r, err)
		return
	}

	// Reject what the pipeline would reject before taking a queue slot.
	if _, err := domain.ParseIncome(req.Income); err != nil {
		h.writeAnalysisError(w, r, err)
		return
	}
	if req.GCSURI != "" {
		if _, _, err := gcs.ParseURI(req.GCSURI); err != nil {
			h.writeAnalysisError(w, r, err)
			return
		}
	}
	if req.Currency != "" && h.deps.Currencies != nil {
		if _, ok := h.deps.Currencies.Symbol(req.Currency); !ok {
			h.writeAnalysisError(w, r, pipeline.ErrUnknownCurrency)
			return
		}
	}

	job := &jobs.AnalysisJob{
		Filename: req.Filename,
		Data:     req.Data,
		GCSURI:   req.GCSURI,
		Income:   req.Income,
		Currency: req.Currency,
	}
	if err := h.publisher.PublishAnalysis(r.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue analysis job")
		middleware.WriteError(w, http.StatusServiceUnavailable, "Failed to enqueue analysis")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Msg("Analysis job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id": job.JobID,
		"status": job.Status,
	})
}

// analysisRequest reads the form of an analysis request. A gs:// URI in
// "gcs_uri" may stand in for the uploaded file.
func (h *AnalysisHandler) analysisRequest(r *http.Request) (pipeline.Request, error) {
	filename, data, err := readUpload(r, h.maxBytes)
	req := pipeline.Request{
		Filename: filename,
		Data:     data,
		Income:   r.FormValue("income"),
		Currency: r.FormValue("currency"),
	}
	if errors.Is(err, errNoFile) {
		if uri := r.FormValue("gcs_uri"); uri != "" {
			req.GCSURI = uri
			return req, nil
		}
	}
	return req, err
}

func (h *AnalysisHandler) writeUploadError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errNoFile):
		middleware.WriteError(w, http.StatusBadRequest, "A file is required")
	case tooLarge(err):
		middleware.WriteError(w, http.StatusRequestEntityTooLarge, "File exceeds upload limit")
	default:
		h.log.Warn().
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Err(err).
			Msg("Failed to read upload")
		middleware.WriteError(w, http.StatusBadRequest, "Invalid upload")
	}
}

func (h *AnalysisHandler) writeAnalysisError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidIncome):
		middleware.WriteError(w, http.StatusBadRequest, "Income must be a positive number")
	case errors.Is(err, pipeline.ErrUnknownCurrency):
		middleware.WriteError(w, http.StatusBadRequest, "Unknown currency code")
	case errors.Is(err, pipeline.ErrFileTooLarge):
		middleware.WriteError(w, http.StatusRequestEntityTooLarge, "File exceeds upload limit")
	case errors.Is(err, pipeline.ErrNoSource):
		middleware.WriteError(w, http.StatusBadRequest, "A file is required")
	case errors.Is(err, gcs.ErrInvalidURI):
		middleware.WriteError(w, http.StatusBadRequest, "gcs_uri must look like gs://bucket/object")
	default:
		h.log.Error().
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Str("error_type", errorType(err)).
			Msg("Analysis failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Analysis failed")
	}
}
