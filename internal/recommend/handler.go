package recommend

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"service-advisor/internal/shared/metrics"
	"service-advisor/internal/shared/server/middleware"
	"service-advisor/internal/shared/server/respond"
	"service-advisor/internal/shared/telemetry"
)

// Handler wires HTTP handlers to the recommendation service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the two pipeline routes to the router group.
func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.GET("/recommend", h.recommend)
	rg.GET("/search", h.search)
}

func (h *Handler) recommend(c *gin.Context) {
	h.serve(c, OperationRecommend, nil, func(ctx context.Context) (RecommendationSet, error) {
		return h.Svc.Recommend(ctx)
	})
}

func (h *Handler) search(c *gin.Context) {
	query := c.Query("query")
	h.serve(c, OperationSearch, map[string]any{"query": query}, func(ctx context.Context) (RecommendationSet, error) {
		return h.Svc.Search(ctx, query)
	})
}

func (h *Handler) serve(c *gin.Context, op Operation, fields map[string]any, run func(ctx context.Context) (RecommendationSet, error)) {
	reqID := middleware.RequestIDFromContext(c)
	c.Set(middleware.OperationKey, string(op))
	telemetry.Info("pipeline.received", withFields(fields, map[string]any{
		"request_id": reqID,
		"operation":  string(op),
	}))
	metrics.IncPipelineStarted()

	start := time.Now()
	set, err := run(c.Request.Context())
	elapsed := time.Since(start)

	if err != nil {
		classified := Classify(err)
		metrics.IncPipelineFailed(string(classified.Kind))
		h.Svc.RecordOutcome(c.Request.Context(), reqID, op, RecommendationSet{}, &classified, elapsed)
		WriteError(c, classified, map[string]any{"operation": string(op)})
		return
	}

	metrics.IncPipelineSucceeded()
	h.Svc.RecordOutcome(c.Request.Context(), reqID, op, set, nil, elapsed)
	telemetry.Info("pipeline.succeeded", withFields(fields, map[string]any{
		"request_id":           reqID,
		"operation":            string(op),
		"recommendation_count": len(set.Recommendations),
		"duration_ms":          float64(elapsed.Microseconds()) / 1000.0,
	}))
	respond.OK(c, set)
}

// NotFound answers every request that matches no route.
func NotFound(c *gin.Context) {
	WriteError(c, Classify(ErrRouteNotFound), nil)
}

// WriteError renders a ClassifiedError as the client error envelope and logs
// its diagnostics.
func WriteError(c *gin.Context, classified ClassifiedError, fields map[string]any) {
	diag := withFields(fields, map[string]any{"detail": classified.Diagnostic})
	if classified.RawPayload != "" {
		diag["raw_payload"] = classified.RawPayload
	}
	respond.Error(c, classified.HTTPStatus, string(classified.Kind), classified.Message, classified.Details, diag)
}

func withFields(base, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
