package health

import (
	"context"
	"time"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	DB Pinger
}

// NewService constructs a new health service. db may be nil when outcomes are
// kept in memory.
func NewService(db Pinger) *Service {
	return &Service{DB: db}
}

// Status reports whether the process can serve requests. An unreachable audit
// store is reported but does not fail the check, since audit writes never
// affect responses.
func (s *Service) Status(ctx context.Context) map[string]any {
	out := map[string]any{"ok": true}
	if s == nil || s.DB == nil {
		return out
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		out["audit_store"] = "unreachable"
	} else {
		out["audit_store"] = "ok"
	}
	return out
}
