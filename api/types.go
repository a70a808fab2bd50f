// Package api - request and response types for the HTTP API.
package api

import (
	"encoding/json"

	"audit-quote/core/contact"
	"audit-quote/core/output"
	"audit-quote/core/quote"
)

// EstimateRequest is the input to POST /estimate. LinesOfCode accepts a JSON
// number or a numeric string, the way form fields arrive.
type EstimateRequest struct {
	LinesOfCode json.Number `json:"lines_of_code"`
	Complexity  string      `json:"complexity"`
	Scope       string      `json:"scope"`
}

// BatchProject is one entry of POST /estimate/batch
type BatchProject struct {
	Name string `json:"name"`
	EstimateRequest
}

// BatchRequest is the input to POST /estimate/batch
type BatchRequest struct {
	Projects []BatchProject `json:"projects"`
}

// QuoteResponse is a quote plus display helpers
type QuoteResponse struct {
	*quote.Result
	TotalPriceDisplay string `json:"total_price_display"`
}

// EstimateResponse is the output of POST /estimate
type EstimateResponse struct {
	RequestID string            `json:"request_id"`
	Quote     QuoteResponse     `json:"quote"`
	Metadata  *ResponseMetadata `json:"metadata"`
}

// BatchResponse is the output of POST /estimate/batch
type BatchResponse struct {
	RequestID string            `json:"request_id"`
	Items     []BatchItem       `json:"items"`
	Summary   output.Summary    `json:"summary"`
	Metadata  *ResponseMetadata `json:"metadata"`
}

// BatchItem is one named quote in a batch response
type BatchItem struct {
	Name  string        `json:"name"`
	Quote QuoteResponse `json:"quote"`
}

// ResponseMetadata contains execution metadata
type ResponseMetadata struct {
	InputHash  string `json:"input_hash"`
	Version    string `json:"version"`
	Timestamp  string `json:"timestamp"`
	DurationMs int64  `json:"duration_ms"`
}

// CatalogResponse is the output of GET /catalog
type CatalogResponse struct {
	Complexities       []quote.Option              `json:"complexities"`
	Scopes             []quote.Option              `json:"scopes"`
	Packages           []quote.Package             `json:"packages"`
	ProjectTypes       []contact.ProjectTypeOption `json:"project_types"`
	DefaultLinesOfCode int64                       `json:"default_lines_of_code"`
	PricePer100LOC     int64                       `json:"price_per_100_loc"`
}

// ContactResponse is the output of POST /contact
type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse is the error envelope for the quote endpoints
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Error codes
const (
	CodeInvalidJSON     = "INVALID_JSON"
	CodeValidationError = "VALIDATION_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
)

func newQuoteResponse(res *quote.Result) QuoteResponse {
	return QuoteResponse{
		Result:            res,
		TotalPriceDisplay: displayPrice(res.TotalPrice),
	}
}
