package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"service-advisor/internal/llm"
	"service-advisor/internal/shared/telemetry"
)

// DataSource supplies the raw transaction history and service catalog documents.
type DataSource interface {
	Transactions(ctx context.Context) (string, error)
	Services(ctx context.Context) (string, error)
}

// Service runs the prompt -> generate -> extract pipeline for both operations.
type Service struct {
	LLM            llm.Client
	Data           DataSource
	Prompts        llm.PromptBuilder
	Outcomes       OutcomeRepo
	Model          string
	MaxQueryLength int
}

// Recommend runs the transaction-driven pipeline.
func (s *Service) Recommend(ctx context.Context) (RecommendationSet, error) {
	if !llm.Configured(s.LLM) {
		return RecommendationSet{}, llm.ErrNotConfigured
	}
	transactions, err := s.Data.Transactions(ctx)
	if err != nil {
		return RecommendationSet{}, err
	}
	services, err := s.Data.Services(ctx)
	if err != nil {
		return RecommendationSet{}, err
	}
	return s.Run(ctx, RecommendRequest{Transactions: transactions, Services: services})
}

// Search validates the query and runs the query-driven pipeline. Input errors
// are reported before any configuration or data problem.
func (s *Service) Search(ctx context.Context, query string) (RecommendationSet, error) {
	query, err := s.normalizeQuery(query)
	if err != nil {
		return RecommendationSet{}, err
	}
	if !llm.Configured(s.LLM) {
		return RecommendationSet{}, llm.ErrNotConfigured
	}
	services, err := s.Data.Services(ctx)
	if err != nil {
		return RecommendationSet{}, err
	}
	return s.Run(ctx, SearchRequest{Query: query, Services: services})
}

// Run renders the request's prompt, performs exactly one outbound call and
// extracts the RecommendationSet from the reply.
func (s *Service) Run(ctx context.Context, req Request) (RecommendationSet, error) {
	if !llm.Configured(s.LLM) {
		return RecommendationSet{}, llm.ErrNotConfigured
	}
	prompt := req.Prompt(s.Prompts)
	resp, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		return RecommendationSet{}, err
	}
	return Extract(resp)
}

func (s *Service) normalizeQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}
	if s.MaxQueryLength > 0 && utf8.RuneCountInString(query) > s.MaxQueryLength {
		return "", &InputError{Message: fmt.Sprintf("Query parameter exceeds %d characters.", s.MaxQueryLength)}
	}
	return query, nil
}

// RecordOutcome stores an audit record for a finished run. Failures are
// logged and otherwise ignored.
func (s *Service) RecordOutcome(ctx context.Context, requestID string, op Operation, set RecommendationSet, classified *ClassifiedError, elapsed time.Duration) {
	if s.Outcomes == nil {
		return
	}
	outcome := Outcome{
		ID:                  uuid.NewString(),
		RequestID:           requestID,
		Operation:           op,
		Kind:                OutcomeSuccess,
		HTTPStatus:          200,
		RecommendationCount: len(set.Recommendations),
		DurationMs:          float64(elapsed.Microseconds()) / 1000.0,
		Model:               s.Model,
		CreatedAt:           time.Now().UTC(),
	}
	if classified != nil {
		outcome.Kind = string(classified.Kind)
		outcome.HTTPStatus = classified.HTTPStatus
		outcome.RecommendationCount = 0
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Outcomes.Record(ctx, outcome); err != nil {
		telemetry.Warn("outcome.record_failed", map[string]any{
			"request_id": requestID,
			"operation":  string(op),
			"error":      err.Error(),
		})
	}
}
