package sdk

import (
	"encoding/json"
	"fmt"

	"github.com/ethanbaker/lawcus-relay/pkg/leads"
)

// DataResponse wraps an upstream body forwarded by the relay
type DataResponse struct {
	Code int             `json:"-"`    // HTTP status to respond with
	Data json.RawMessage `json:"data"` // Upstream body, verbatim
}

// AsGinResponse converts the DataResponse to a format suitable for Gin framework
func (r DataResponse) AsGinResponse() (int, any) {
	return r.Code, r
}

// NewDataResponse creates a response forwarding body with the upstream status
func NewDataResponse(code int, body json.RawMessage) DataResponse {
	return DataResponse{Code: code, Data: body}
}

// ErrorResponse is the uniform error shape of every relay route
type ErrorResponse struct {
	Status  int    `json:"status"`  // HTTP status code
	Message string `json:"message"` // Human-readable message
}

// AsGinResponse converts the ErrorResponse to a format suitable for Gin framework
func (r ErrorResponse) AsGinResponse() (int, any) {
	return r.Status, r
}

// Error makes ErrorResponse usable as an error on the client side
func (r ErrorResponse) Error() string {
	return fmt.Sprintf("relay responded %d: %s", r.Status, r.Message)
}

func NewErrorResponse(status int, message string) ErrorResponse {
	return ErrorResponse{Status: status, Message: message}
}

/** Requests */

// CreateLeadRequest represents the request body for POST /leads
type CreateLeadRequest struct {
	LeadData *leads.Record `json:"lead_data" binding:"required"`
}
