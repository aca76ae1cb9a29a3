package recommend

import (
	"context"
	"database/sql"
)

// PGRepo implements OutcomeRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Record inserts an outcome row.
func (r *PGRepo) Record(ctx context.Context, outcome Outcome) error {
	const query = `
INSERT INTO outcomes (
    id,
    request_id,
    operation,
    outcome_kind,
    http_status,
    recommendation_count,
    duration_ms,
    model,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var requestID sql.NullString
	if outcome.RequestID != "" {
		requestID = sql.NullString{String: outcome.RequestID, Valid: true}
	}
	var model sql.NullString
	if outcome.Model != "" {
		model = sql.NullString{String: outcome.Model, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		outcome.ID,
		requestID,
		string(outcome.Operation),
		outcome.Kind,
		outcome.HTTPStatus,
		outcome.RecommendationCount,
		outcome.DurationMs,
		model,
		outcome.CreatedAt,
	)
	return err
}

// Recent returns the newest outcomes first.
func (r *PGRepo) Recent(ctx context.Context, limit int) ([]Outcome, error) {
	const query = `
SELECT id, request_id, operation, outcome_kind, http_status, recommendation_count, duration_ms, model, created_at
FROM outcomes
ORDER BY created_at DESC
LIMIT $1`

	rows, err := r.DB.QueryContext(ctx, query, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Outcome
	for rows.Next() {
		var (
			o         Outcome
			requestID sql.NullString
			model     sql.NullString
			operation string
		)
		if err := rows.Scan(&o.ID, &requestID, &operation, &o.Kind, &o.HTTPStatus, &o.RecommendationCount, &o.DurationMs, &model, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.RequestID = requestID.String
		o.Model = model.String
		o.Operation = Operation(operation)
		out = append(out, o)
	}
	return out, rows.Err()
}
