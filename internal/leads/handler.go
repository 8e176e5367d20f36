package leads

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/wolfman30/realestate-site/pkg/logging"
)

// RetryMessage is the only failure text a visitor ever sees.
const RetryMessage = "Something went wrong. Please try again or email me directly."

// SuccessMessage confirms a captured lead.
const SuccessMessage = "Got it. I'll reach out shortly with next steps."

// InFlightMessage answers a resubmit while the first post is still running.
const InFlightMessage = "Still sending your message. One moment."

const maxBodyBytes = 64 << 10

// Handler handles HTTP requests for leads
type Handler struct {
	pipeline *Pipeline
	logger   *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(pipeline *Pipeline, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		pipeline: pipeline,
		logger:   logger,
	}
}

// SubmissionResponse is the JSON answer to a lead post.
type SubmissionResponse struct {
	State   State        `json:"state"`
	ID      string       `json:"id,omitempty"`
	Message string       `json:"message,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// ReadFormInput decodes a JSON or URL-encoded contact form body.
func ReadFormInput(r *http.Request) (FormInput, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var in FormInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return FormInput{}, err
		}
		return in, nil
	}
	if err := r.ParseForm(); err != nil {
		return FormInput{}, err
	}
	return FormInputFromValues(r.PostForm), nil
}

// CreateLead handles POST /api/leads requests
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	in, err := ReadFormInput(r)
	if err != nil {
		h.logger.Error("failed to decode request", "error", err)
		writeJSON(w, http.StatusBadRequest, SubmissionResponse{State: StateIdle, Message: "Invalid request body"})
		return
	}

	sub := h.pipeline.Submission(in.Token)
	outcome := h.pipeline.Process(r.Context(), sub, in)

	resp := SubmissionResponse{State: outcome.State}
	status := http.StatusCreated
	switch {
	case len(outcome.Errors) > 0:
		status = http.StatusBadRequest
		resp.Errors = outcome.Errors
	case errors.Is(outcome.Err, ErrSubmissionInFlight):
		status = http.StatusConflict
		resp.Message = InFlightMessage
	case errors.Is(outcome.Err, ErrSubmissionComplete):
		status = http.StatusOK
		resp.Message = SuccessMessage
	case errors.Is(outcome.Err, ErrSubmitFailed):
		status = http.StatusBadGateway
		resp.Message = RetryMessage
	case outcome.Err != nil:
		status = http.StatusInternalServerError
		resp.Message = RetryMessage
	default:
		resp.Message = SuccessMessage
		if outcome.Lead != nil {
			resp.ID = outcome.Lead.ID
		}
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
