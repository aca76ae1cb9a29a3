package recommend

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoRecordInsertsOutcome(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	outcome := Outcome{
		ID:                  "outcome-1",
		RequestID:           "req-1",
		Operation:           OperationSearch,
		Kind:                string(KindRateLimited),
		HTTPStatus:          429,
		RecommendationCount: 0,
		DurationMs:          12.5,
		Model:               "gemini-2.0-flash",
		CreatedAt:           time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO outcomes").
		WithArgs(
			outcome.ID,
			sql.NullString{String: "req-1", Valid: true},
			"search",
			"RateLimited",
			429,
			0,
			12.5,
			sql.NullString{String: "gemini-2.0-flash", Valid: true},
			outcome.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Record(context.Background(), outcome); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoRecentScansRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "request_id", "operation", "outcome_kind", "http_status", "recommendation_count", "duration_ms", "model", "created_at"}).
		AddRow("o-2", nil, "recommend", "Success", 200, 3, 850.25, "gemini-2.0-flash", created).
		AddRow("o-1", "req-1", "search", "ClientInputError", 400, 0, 0.4, nil, created.Add(-time.Minute))

	mock.ExpectQuery("SELECT id, request_id, operation").
		WithArgs(defaultRecentLimit).
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	got, err := repo.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(got))
	}
	if got[0].ID != "o-2" || got[0].RequestID != "" || got[0].Operation != OperationRecommend || got[0].RecommendationCount != 3 {
		t.Fatalf("unexpected first outcome: %+v", got[0])
	}
	if got[1].Model != "" || got[1].Kind != "ClientInputError" || got[1].HTTPStatus != 400 {
		t.Fatalf("unexpected second outcome: %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestMemoryRepoEvictsOldest(t *testing.T) {
	repo := NewMemoryRepo(2)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		if err := repo.Record(ctx, Outcome{ID: id}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	got, err := repo.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "b" {
		t.Fatalf("unexpected outcomes: %+v", got)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := repo.Record(cancelled, Outcome{ID: "d"}); err == nil {
		t.Fatalf("expected context error")
	}
}
