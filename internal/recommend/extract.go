package recommend

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"service-advisor/internal/llm"
)

const fence = "```"

type envelope struct {
	Candidates     []candidate     `json:"candidates"`
	PromptFeedback *promptFeedback `json:"promptFeedback"`
	Error          json.RawMessage `json:"error"`
}

type candidate struct {
	Content *struct {
		Parts []struct {
			Text *string `json:"text"`
		} `json:"parts"`
	} `json:"content"`
	FinishReason string `json:"finishReason"`
}

type promptFeedback struct {
	BlockReason   string          `json:"blockReason"`
	SafetyRatings json.RawMessage `json:"safetyRatings"`
}

type envelopeError struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Extract unwraps a generative service reply into a validated
// RecommendationSet. Each step fails fast with its own error type.
func Extract(resp llm.RawResponse) (RecommendationSet, error) {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return RecommendationSet{}, &UpstreamRejectedError{Status: resp.StatusCode, Body: resp.Body}
	}

	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return RecommendationSet{}, &EnvelopeParseError{Body: resp.Body, Err: err}
	}
	if !isJSONObject(resp.Body) {
		return RecommendationSet{}, &EnvelopeParseError{Body: resp.Body, Err: errors.New("envelope is not a JSON object")}
	}

	if reported := reportedError(env.Error); reported != nil {
		return RecommendationSet{}, reported
	}

	if len(env.Candidates) == 0 {
		noCandidates := &NoCandidatesError{}
		if env.PromptFeedback != nil {
			noCandidates.BlockReason = env.PromptFeedback.BlockReason
			noCandidates.SafetyRatings = env.PromptFeedback.SafetyRatings
		}
		return RecommendationSet{}, noCandidates
	}

	text, ok := firstText(env.Candidates[0])
	if !ok {
		return RecommendationSet{}, &MalformedEnvelopeError{Reason: "first candidate has no text part", Body: resp.Body}
	}

	stripped := StripFences(text)
	if !json.Valid([]byte(stripped)) {
		var probe any
		err := json.Unmarshal([]byte(stripped), &probe)
		return RecommendationSet{}, &InvalidGeneratedJSONError{OriginalText: text, Err: err}
	}

	return Validate(json.RawMessage(stripped))
}

func reportedError(raw json.RawMessage) *UpstreamReportedError {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	var parsed envelopeError
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return &UpstreamReportedError{Message: string(trimmed)}
	}
	return &UpstreamReportedError{Code: parsed.Code, Status: parsed.Status, Message: parsed.Message}
}

func isJSONObject(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func firstText(c candidate) (string, bool) {
	if c.Content == nil || len(c.Content.Parts) == 0 || c.Content.Parts[0].Text == nil {
		return "", false
	}
	text := *c.Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}

// StripFences removes one leading code fence (bare or with a language label
// such as "json") and one trailing fence, then trims whitespace. Text between
// the fences is not modified.
func StripFences(text string) string {
	out := strings.TrimSpace(text)
	if strings.HasPrefix(out, fence) {
		out = out[len(fence):]
		out = out[fenceLabelLen(out):]
		if strings.HasSuffix(out, fence) {
			out = out[:len(out)-len(fence)]
		}
	}
	return strings.TrimSpace(out)
}

// fenceLabelLen returns the length of a language label directly after an
// opening fence. "json" is always a label; other words only count when the
// line ends right after them.
func fenceLabelLen(s string) int {
	if len(s) >= 4 && strings.EqualFold(s[:4], "json") && (len(s) == 4 || !isLabelByte(s[4])) {
		return 4
	}
	n := 0
	for n < len(s) && isLabelByte(s[n]) {
		n++
	}
	if n == 0 {
		return 0
	}
	if n == len(s) || s[n] == '\n' || s[n] == '\r' {
		return n
	}
	return 0
}

func isLabelByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_' || b == '-' || b == '+'
}
