package recommend

import (
	"context"
	"sync"
)

// MemoryRepo keeps outcomes in memory and is safe for concurrent use. Only the
// most recent records up to capacity are retained.
type MemoryRepo struct {
	mu       sync.RWMutex
	outcomes []Outcome
	capacity int
}

// NewMemoryRepo constructs a MemoryRepo holding at most capacity records.
func NewMemoryRepo(capacity int) *MemoryRepo {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemoryRepo{capacity: capacity}
}

// Record stores the outcome, evicting the oldest one when full.
func (r *MemoryRepo) Record(ctx context.Context, outcome Outcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
	if over := len(r.outcomes) - r.capacity; over > 0 {
		r.outcomes = append([]Outcome(nil), r.outcomes[over:]...)
	}
	return nil
}

// Recent returns up to limit outcomes, newest first.
func (r *MemoryRepo) Recent(ctx context.Context, limit int) ([]Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit = normalizeLimit(limit)
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Outcome, 0, min(limit, len(r.outcomes)))
	for i := len(r.outcomes) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.outcomes[i])
	}
	return out, nil
}
