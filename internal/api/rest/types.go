package rest

import (
	"time"

	"github.com/advisorly/content-compliance-backend/internal/domain/compliance"
)

// ValidateContentRequest is the body for POST /api/v1/validations.
type ValidateContentRequest struct {
	Content   string  `json:"content" validate:"required,max=10000"`
	AdvisorID string  `json:"advisor_id" validate:"required,max=128"`
	MeetingID *string `json:"meeting_id,omitempty" validate:"omitempty,max=128"`
}

// QuickCheckRequest is the body for POST /api/v1/validations/quick.
type QuickCheckRequest struct {
	Content string `json:"content" validate:"required,max=10000"`
}

// DisclaimersRequest is the body for POST /api/v1/disclaimers.
type DisclaimersRequest struct {
	Content string `json:"content" validate:"required,max=10000"`
}

// ReviewRequest is the body for POST /api/v1/validations/{id}/review.
type ReviewRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Reviewer string `json:"reviewer" validate:"required,max=128"`
}

// DisclaimersResponse wraps a disclaimer preview.
type DisclaimersResponse struct {
	Disclaimers []string `json:"disclaimers"`
}

// ListValidationsResponse pages an advisor's validations.
type ListValidationsResponse struct {
	Validations []*compliance.ContentValidation `json:"validations"`
	Limit       int                             `json:"limit"`
	Offset      int                             `json:"offset"`
}

// ResponseEnvelope wraps all API responses.
type ResponseEnvelope struct {
	Success bool           `json:"success"`
	Data    interface{}    `json:"data,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
	Meta    ResponseMeta   `json:"meta"`
}

// ResponseMeta carries per-response metadata.
type ResponseMeta struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse describes a failed request.
type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}
