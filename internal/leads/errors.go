package leads

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLead is returned when a lead fails validation.
	ErrInvalidLead = errors.New("leads: invalid lead")

	// ErrSubmitFailed is returned when the form backend could not be reached
	// or answered with a non-2xx status.
	ErrSubmitFailed = errors.New("leads: form submission failed")

	// ErrLogWriteFailed is returned when the backend accepted the lead but the
	// local lead log could not record it.
	ErrLogWriteFailed = errors.New("leads: lead log write failed")

	// ErrSubmissionInFlight is returned when a submission is already loading.
	ErrSubmissionInFlight = errors.New("leads: submission already in flight")

	// ErrSubmissionComplete is returned when a submission already succeeded.
	ErrSubmissionComplete = errors.New("leads: submission already completed")

	// ErrMissingEndpoint is returned when no form endpoint is configured.
	ErrMissingEndpoint = errors.New("leads: form endpoint is required")
)

// StatusError reports a non-2xx answer from the form backend.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("leads: form backend returned status %d", e.Code)
}
