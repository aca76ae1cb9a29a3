package recommend

import (
	"encoding/json"
	"time"

	"service-advisor/internal/llm"
)

// ServiceRecord is a catalog entry as it appears in the service catalog.
type ServiceRecord struct {
	Title       string  `json:"Title"`
	Provider    string  `json:"Provider"`
	Description string  `json:"Description"`
	Category    string  `json:"Category"`
	SubCategory string  `json:"SubCategory"`
	Rating      float64 `json:"Rating"`
	RatingCount int     `json:"RatingCount"`
	DistanceKm  float64 `json:"DistanceKm"`
	ClosesAt    string  `json:"ClosesAt"`
	Price       string  `json:"Price"`
	ImageUrl    string  `json:"ImageUrl"`
}

// Recommendation is a ServiceRecord chosen by the generative service, with a
// short localized Reason. The object is re-emitted exactly as generated; the
// typed fields are a best-effort view of it.
type Recommendation struct {
	ServiceRecord
	Reason string `json:"Reason"`

	raw json.RawMessage
}

// MarshalJSON emits the generated object byte for byte when available.
func (r Recommendation) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	type plain struct {
		ServiceRecord
		Reason string `json:"Reason"`
	}
	return json.Marshal(plain{ServiceRecord: r.ServiceRecord, Reason: r.Reason})
}

// RecommendationSet is the only accepted shape of a successful result. An
// empty Recommendations slice is valid and serializes as [].
type RecommendationSet struct {
	Recommendations []Recommendation `json:"recommendations"`
}

// Operation names one of the two request routes.
type Operation string

const (
	OperationRecommend Operation = "recommend"
	OperationSearch    Operation = "search"
)

// Request is a per-call pipeline input. Each variant selects its own prompt.
type Request interface {
	Operation() Operation
	Prompt(b llm.PromptBuilder) string
}

// RecommendRequest drives recommendations from the user's transactions.
type RecommendRequest struct {
	Transactions string
	Services     string
}

func (RecommendRequest) Operation() Operation { return OperationRecommend }

func (r RecommendRequest) Prompt(b llm.PromptBuilder) string {
	return b.Recommend(r.Transactions, r.Services)
}

// SearchRequest drives recommendations from a free-text query.
type SearchRequest struct {
	Query    string
	Services string
}

func (SearchRequest) Operation() Operation { return OperationSearch }

func (r SearchRequest) Prompt(b llm.PromptBuilder) string {
	return b.Search(r.Query, r.Services)
}

// Outcome is the audit record of one finished pipeline run. It never holds
// the recommendations themselves.
type Outcome struct {
	ID                  string    `json:"id"`
	RequestID           string    `json:"requestId"`
	Operation           Operation `json:"operation"`
	Kind                string    `json:"kind"`
	HTTPStatus          int       `json:"httpStatus"`
	RecommendationCount int       `json:"recommendationCount"`
	DurationMs          float64   `json:"durationMs"`
	Model               string    `json:"model"`
	CreatedAt           time.Time `json:"createdAt"`
}

// OutcomeSuccess is the Kind recorded for runs that returned a RecommendationSet.
const OutcomeSuccess = "Success"
