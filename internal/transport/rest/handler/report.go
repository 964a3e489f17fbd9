package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"ventureshield/internal/model"
	"ventureshield/internal/service"
	"ventureshield/internal/transport/rest/middleware"
)

// SourceHeader tells clients which path produced a report
const SourceHeader = "X-Analysis-Source"

// ReportHandler handles scoring and analysis endpoints
type ReportHandler struct {
	analysisSvc  *service.AnalysisService
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(analysisSvc *service.AnalysisService, maxBodyBytes int64, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		analysisSvc:  analysisSvc,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// Analyze handles POST /v1/analyze
func (h *ReportHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	sub, ok := h.decodeSubmission(w, r)
	if !ok {
		return
	}

	result, source, err := h.analysisSvc.Analyze(r.Context(), sub)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.Header().Set(SourceHeader, string(source))
	writeJSON(w, http.StatusOK, result)
}

// PreScore handles POST /v1/prescore
func (h *ReportHandler) PreScore(w http.ResponseWriter, r *http.Request) {
	sub, ok := h.decodeSubmission(w, r)
	if !ok {
		return
	}

	pre, err := h.analysisSvc.PreScore(r.Context(), sub)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pre)
}

func (h *ReportHandler) decodeSubmission(w http.ResponseWriter, r *http.Request) (*model.Submission, bool) {
	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	var sub model.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		writeInvalid(w, []string{err.Error()})
		return nil, false
	}
	return &sub, true
}

func (h *ReportHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		writeInvalid(w, verr.Details)
		return
	}
	h.logger.ErrorContext(r.Context(), "analysis failed",
		"request_id", middleware.GetRequestID(r.Context()),
		"client_id", middleware.GetClientID(r.Context()),
		"error", err,
	)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
