package recommend

import "context"

// OutcomeRepo persists audit records of finished pipeline runs.
type OutcomeRepo interface {
	Record(ctx context.Context, outcome Outcome) error
	Recent(ctx context.Context, limit int) ([]Outcome, error)
}

const defaultRecentLimit = 20

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultRecentLimit
	}
	if limit > 500 {
		return 500
	}
	return limit
}
