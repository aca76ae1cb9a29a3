package recommend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind is the closed set of client-facing failure categories.
type ErrorKind string

const (
	KindConfiguration             ErrorKind = "ConfigurationError"
	KindDataUnavailable           ErrorKind = "DataUnavailableError"
	KindNetwork                   ErrorKind = "NetworkError"
	KindUpstream                  ErrorKind = "UpstreamError"
	KindRateLimited               ErrorKind = "RateLimited"
	KindContentFiltered           ErrorKind = "ContentFiltered"
	KindMalformedUpstreamResponse ErrorKind = "MalformedUpstreamResponse"
	KindInvalidGeneratedContent   ErrorKind = "InvalidGeneratedContent"
	KindClientInput               ErrorKind = "ClientInputError"
	KindNotFound                  ErrorKind = "NotFound"
	KindInternal                  ErrorKind = "InternalError"
)

// Status returns the HTTP status for the kind.
func (k ErrorKind) Status() int {
	switch k {
	case KindNetwork:
		return http.StatusServiceUnavailable
	case KindUpstream:
		return http.StatusBadGateway
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindClientInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ClassifiedError is the caller-safe form of any failure. Message and Details
// are returned to the client; Diagnostic and RawPayload are only logged.
type ClassifiedError struct {
	Kind       ErrorKind
	HTTPStatus int
	Message    string
	Details    string
	Diagnostic string
	RawPayload string
}

func (e ClassifiedError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.HTTPStatus, e.Message)
}

var (
	// ErrRouteNotFound marks a request for an unknown method/path.
	ErrRouteNotFound = errors.New("route not found")
	// ErrEmptyQuery is returned when the search query is missing or blank.
	ErrEmptyQuery = &InputError{Message: "Missing or empty query parameter."}
)

// InputError reports invalid caller input. Message is client-safe.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return "invalid input: " + e.Message }

// UpstreamRejectedError is a non-2xx reply from the generative service.
type UpstreamRejectedError struct {
	Status int
	Body   []byte
}

func (e *UpstreamRejectedError) Error() string {
	return fmt.Sprintf("generative service returned status %d", e.Status)
}

// EnvelopeParseError means the reply body was not a JSON envelope.
type EnvelopeParseError struct {
	Body []byte
	Err  error
}

func (e *EnvelopeParseError) Error() string {
	return fmt.Sprintf("parse generative service envelope: %v", e.Err)
}

func (e *EnvelopeParseError) Unwrap() error { return e.Err }

// UpstreamReportedError is an error object carried inside a 2xx envelope.
type UpstreamReportedError struct {
	Code    int
	Status  string
	Message string
}

func (e *UpstreamReportedError) Error() string {
	return fmt.Sprintf("generative service reported error code=%d status=%s: %s", e.Code, e.Status, e.Message)
}

// NoCandidatesError means the envelope held no candidates, typically because
// a content policy blocked the prompt.
type NoCandidatesError struct {
	BlockReason   string
	SafetyRatings json.RawMessage
}

func (e *NoCandidatesError) Error() string {
	if e.BlockReason != "" {
		return "generative service returned no candidates: block reason " + e.BlockReason
	}
	return "generative service returned no candidates"
}

// MalformedEnvelopeError means the envelope parsed but had no generated text.
type MalformedEnvelopeError struct {
	Reason string
	Body   []byte
}

func (e *MalformedEnvelopeError) Error() string {
	return "unexpected generative service envelope: " + e.Reason
}

// InvalidGeneratedJSONError means the generated text was not JSON after fence stripping.
type InvalidGeneratedJSONError struct {
	OriginalText string
	Err          error
}

func (e *InvalidGeneratedJSONError) Error() string {
	return fmt.Sprintf("generated text is not valid JSON: %v", e.Err)
}

func (e *InvalidGeneratedJSONError) Unwrap() error { return e.Err }

// SchemaError means the generated JSON did not have the recommendation set shape.
type SchemaError struct {
	Reason string
	Value  json.RawMessage
}

func (e *SchemaError) Error() string {
	return "generated JSON does not match schema: " + e.Reason
}
