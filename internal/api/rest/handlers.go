package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/advisorly/content-compliance-backend/internal/domain/compliance"
	domainerrors "github.com/advisorly/content-compliance-backend/internal/domain/errors"
	"github.com/advisorly/content-compliance-backend/internal/metrics"
	svccompliance "github.com/advisorly/content-compliance-backend/internal/service/compliance"
)

const maxBodySize = 1 << 20 // 1MB

// ComplianceService is the service surface the API depends on.
type ComplianceService interface {
	ValidateContent(ctx context.Context, content, advisorID string, meetingID *string) (*compliance.ContentValidation, error)
	QuickComplianceCheck(ctx context.Context, content string) (svccompliance.QuickCheckResult, error)
	GenerateComplianceDisclaimers(content string) []string
	GetValidation(ctx context.Context, id uuid.UUID) (*compliance.ContentValidation, error)
	ListValidations(ctx context.Context, advisorID string, limit, offset int) ([]*compliance.ContentValidation, error)
	ApproveValidation(ctx context.Context, id uuid.UUID, reviewer string) (*compliance.ContentValidation, error)
	RejectValidation(ctx context.Context, id uuid.UUID, reviewer string) (*compliance.ContentValidation, error)
}

// Handler serves the compliance HTTP API.
type Handler struct {
	service   ComplianceService
	validator *validator.Validate
	logger    *slog.Logger
	metrics   *metrics.Registry
	promReg   *prometheus.Registry
}

// NewHandler creates the API handler. metrics and promReg may be nil.
func NewHandler(service ComplianceService, logger *slog.Logger, m *metrics.Registry, promReg *prometheus.Registry) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
		logger:    logger,
		metrics:   m,
		promReg:   promReg,
	}
}

// Routes registers all API routes on a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/validations", h.handleValidateContent)
	mux.HandleFunc("POST /api/v1/validations/quick", h.handleQuickCheck)
	mux.HandleFunc("POST /api/v1/disclaimers", h.handleDisclaimers)
	mux.HandleFunc("GET /api/v1/validations/{id}", h.handleGetValidation)
	mux.HandleFunc("POST /api/v1/validations/{id}/review", h.handleReview)
	mux.HandleFunc("GET /api/v1/advisors/{id}/validations", h.handleListValidations)
	mux.HandleFunc("GET /health", h.handleHealth)

	if h.promReg != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(h.promReg, promhttp.HandlerOpts{}))
	}

	return mux
}

func (h *Handler) handleValidateContent(w http.ResponseWriter, r *http.Request) {
	var req ValidateContentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	validation, err := h.service.ValidateContent(r.Context(), req.Content, req.AdvisorID, req.MeetingID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, validation)
}

func (h *Handler) handleQuickCheck(w http.ResponseWriter, r *http.Request) {
	var req QuickCheckRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.QuickComplianceCheck(r.Context(), req.Content)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, result)
}

func (h *Handler) handleDisclaimers(w http.ResponseWriter, r *http.Request) {
	var req DisclaimersRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	disclaimers := h.service.GenerateComplianceDisclaimers(req.Content)
	h.writeJSON(w, r, http.StatusOK, DisclaimersResponse{Disclaimers: disclaimers})
}

func (h *Handler) handleGetValidation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}

	validation, err := h.service.GetValidation(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, validation)
}

func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req ReviewRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	var (
		validation *compliance.ContentValidation
		err        error
	)
	switch req.Decision {
	case "approve":
		validation, err = h.service.ApproveValidation(r.Context(), id, req.Reviewer)
	case "reject":
		validation, err = h.service.RejectValidation(r.Context(), id, req.Reviewer)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, validation)
}

func (h *Handler) handleListValidations(w http.ResponseWriter, r *http.Request) {
	advisorID := r.PathValue("id")
	if advisorID == "" {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "advisor id is required", nil)
		return
	}

	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	validations, err := h.service.ListValidations(r.Context(), advisorID, limit, offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, ListValidationsResponse{
		Validations: validations,
		Limit:       limit,
		Offset:      offset,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}

// decodeAndValidate reads the JSON body into dst and runs struct validation.
// On failure it writes the error response and returns false.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON", nil)
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		fields := make(map[string][]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = append(fields[fe.Field()], fe.Tag())
			}
		}
		h.writeErrorResponse(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "request validation failed", fields)
		return false
	}

	return true
}

func (h *Handler) pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "INVALID_ID", "path id must be a valid UUID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	envelope := ResponseEnvelope{
		Success: true,
		Data:    data,
		Meta: ResponseMeta{
			RequestID: requestIDFromContext(r.Context()),
			Timestamp: time.Now().UTC(),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP responses.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		h.writeErrorResponse(w, r, appErr.StatusCode, appErr.Code, appErr.Message, nil)
		return
	}

	h.logger.ErrorContext(r.Context(), "unhandled error", "error", err, "path", r.URL.Path)
	h.writeErrorResponse(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred", nil)
}

func (h *Handler) writeErrorResponse(w http.ResponseWriter, r *http.Request, status int, code, message string, fields map[string][]string) {
	envelope := ResponseEnvelope{
		Success: false,
		Error: &ErrorResponse{
			Code:    code,
			Message: message,
			Fields:  fields,
		},
		Meta: ResponseMeta{
			RequestID: requestIDFromContext(r.Context()),
			Timestamp: time.Now().UTC(),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to encode error response", "error", err)
	}
}
