package recommend

import (
	"errors"
	"fmt"
	"net/http"

	"service-advisor/internal/catalog"
	"service-advisor/internal/llm"
)

const maxRawPayload = 4096

// Classify maps any pipeline failure to exactly one ErrorKind. Unknown errors
// become InternalError; nothing escapes unclassified.
func Classify(err error) ClassifiedError {
	if err == nil {
		return newClassified(KindInternal, "An internal server error occurred.", "", "nil error classified", "")
	}

	var (
		classified *ClassifiedError
		byValue    ClassifiedError
		input      *InputError
		transport  *llm.TransportError
		rejected   *UpstreamRejectedError
		reported   *UpstreamReportedError
		noCand     *NoCandidatesError
		envParse   *EnvelopeParseError
		malformed  *MalformedEnvelopeError
		badJSON    *InvalidGeneratedJSONError
		schema     *SchemaError
	)

	switch {
	case errors.As(err, &classified):
		return *classified
	case errors.As(err, &byValue):
		return byValue
	case errors.Is(err, ErrRouteNotFound):
		return newClassified(KindNotFound, "Not Found", "", err.Error(), "")
	case errors.As(err, &input):
		return newClassified(KindClientInput, "Invalid client request.", input.Message, err.Error(), "")
	case errors.Is(err, llm.ErrNotConfigured):
		return newClassified(KindConfiguration, "Server configuration error.", "", err.Error(), "")
	case errors.Is(err, catalog.ErrDataUnavailable):
		return newClassified(KindDataUnavailable, "Server configuration error.", "", err.Error(), "")
	case errors.As(err, &transport):
		diag := err.Error()
		if transport.Timeout() {
			diag = "timeout: " + diag
		}
		return newClassified(KindNetwork, "Could not connect to the AI service due to a network issue.", "", diag, "")
	case errors.As(err, &rejected):
		if rejected.Status == http.StatusTooManyRequests {
			return newClassified(KindRateLimited, "The AI service is rate limiting requests. Please try again later.", "", err.Error(), string(rejected.Body))
		}
		return newClassified(KindUpstream, "Failed to communicate with the underlying AI service.", "", err.Error(), string(rejected.Body))
	case errors.As(err, &reported):
		return newClassified(KindUpstream, "Failed to communicate with the underlying AI service.", "", err.Error(), "")
	case errors.As(err, &noCand):
		return newClassified(KindContentFiltered, "The AI service returned no valid content, possibly due to safety filters or prompt issues.", "", err.Error(), string(noCand.SafetyRatings))
	case errors.As(err, &envParse):
		return newClassified(KindMalformedUpstreamResponse, "Received a malformed response from the AI service.", "", err.Error(), string(envParse.Body))
	case errors.As(err, &malformed):
		return newClassified(KindMalformedUpstreamResponse, "Received a malformed response from the AI service.", "", err.Error(), string(malformed.Body))
	case errors.As(err, &badJSON):
		return newClassified(KindInvalidGeneratedContent, "The AI service returned data in an unexpected format.", "", err.Error(), badJSON.OriginalText)
	case errors.As(err, &schema):
		return newClassified(KindInvalidGeneratedContent, "The AI service returned data in an unexpected format.", "", err.Error(), string(schema.Value))
	default:
		return newClassified(KindInternal, "An internal server error occurred.", "", fmt.Sprintf("%T: %v", err, err), "")
	}
}

func newClassified(kind ErrorKind, message, details, diagnostic, raw string) ClassifiedError {
	return ClassifiedError{
		Kind:       kind,
		HTTPStatus: kind.Status(),
		Message:    message,
		Details:    details,
		Diagnostic: diagnostic,
		RawPayload: truncate(raw, maxRawPayload),
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "...(truncated)"
}
