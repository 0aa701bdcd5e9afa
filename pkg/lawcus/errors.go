package lawcus

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ethanbaker/lawcus-relay/pkg/tokens"
)

// ErrNoRefreshToken is returned when a refresh is requested without a
// refresh token. No upstream call is made in that case.
var ErrNoRefreshToken = fmt.Errorf("no refresh token available: %w", tokens.ErrMissingCredential)

// UpstreamError is a failed call to Lawcus, normalized to a status and message
type UpstreamError struct {
	Status  int
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lawcus responded %d: %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("lawcus responded %d: %s", e.Status, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// TransportError is a network level failure talking to the provider
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("lawcus request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// internalError wraps a non-HTTP failure in the generic 500 shape
func internalError(err error) *UpstreamError {
	return &UpstreamError{
		Status:  http.StatusInternalServerError,
		Message: http.StatusText(http.StatusInternalServerError),
		Err:     err,
	}
}

// StatusAndMessage maps any error from this package to the status and message
// the relay reports to its own callers
func StatusAndMessage(err error) (int, string) {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		status := upstream.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return status, upstream.Message
	}

	if errors.Is(err, tokens.ErrMissingCredential) {
		return http.StatusUnauthorized, err.Error()
	}

	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}
