package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/entity"
)

func scanQualificationInto(id, owner uuid.UUID, name string, score int, created time.Time) func(dest ...any) error {
	return func(dest ...any) error {
		*dest[0].(*uuid.UUID) = id
		*dest[1].(*uuid.UUID) = owner
		*dest[2].(*string) = name
		*dest[3].(*string) = "Transportation"
		*dest[4].(*string) = "51-200"
		*dest[5].(*string) = "$10M-$50M"
		*dest[6].(**string) = nil
		*dest[7].(*string) = "Legacy dispatch software"
		*dest[8].(*int) = score
		*dest[9].(*string) = "Strong fit"
		*dest[10].(*[]string) = []string{"Growing fleet"}
		*dest[11].(*[]string) = nil
		*dest[12].(**string) = nil
		*dest[13].(*time.Time) = created
		return nil
	}
}

func TestPGXQualificationsRepository_Create(t *testing.T) {
	var captured []any
	repo := &PGXQualificationsRepository{pool: &stubPool{
		execFunc: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			if !strings.Contains(query, "INSERT INTO qualifications") {
				t.Errorf("unexpected query: %s", query)
			}
			captured = args
			return pgconn.NewCommandTag("INSERT 0 1"), nil
		},
	}}

	q := &entity.Qualification{
		ID:                 uuid.New(),
		UserID:             uuid.New(),
		CompanyName:        "Acme Logistics",
		QualificationScore: 82,
		CreatedAt:          time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(captured) != 14 {
		t.Fatalf("expected 14 args, got %d", len(captured))
	}
	if insights, ok := captured[10].([]string); !ok || insights == nil {
		t.Fatalf("expected nil insights to be stored as an empty array, got %#v", captured[10])
	}

	if err := repo.Create(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil qualification")
	}
}

func TestPGXQualificationsRepository_ListByUser(t *testing.T) {
	owner := uuid.New()
	newer := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	repo := &PGXQualificationsRepository{pool: &stubPool{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			if !strings.Contains(query, "WHERE user_id = $1") || !strings.Contains(query, "ORDER BY created_at DESC, id DESC") {
				t.Errorf("unexpected query: %s", query)
			}
			if args[0].(uuid.UUID) != owner {
				t.Errorf("expected owner argument")
			}
			return &stubRows{scans: []func(dest ...any) error{
				scanQualificationInto(uuid.New(), owner, "Acme", 82, newer),
				scanQualificationInto(uuid.New(), owner, "Globex", 40, older),
			}}, nil
		},
	}}

	records, err := repo.ListByUser(context.Background(), owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 || records[0].CompanyName != "Acme" || records[1].CompanyName != "Globex" {
		t.Fatalf("unexpected records: %+v", records)
	}
	if records[0].QualificationRecommendations == nil {
		t.Fatalf("expected empty recommendations slice, got nil")
	}
}

func TestPGXQualificationsRepository_ListByUserEmpty(t *testing.T) {
	repo := &PGXQualificationsRepository{pool: &stubPool{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			return &stubRows{}, nil
		},
	}}

	records, err := repo.ListByUser(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", records)
	}
}

func TestPGXQualificationsRepository_GetForUser(t *testing.T) {
	id, owner := uuid.New(), uuid.New()
	repo := &PGXQualificationsRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			if !strings.Contains(query, "WHERE id = $1 AND user_id = $2") {
				t.Errorf("expected owner scoped lookup, got %s", query)
			}
			return &stubRow{scan: scanQualificationInto(id, owner, "Acme", 82, time.Now())}
		},
	}}

	q, err := repo.GetForUser(context.Background(), id, owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.ID != id || q.UserID != owner {
		t.Fatalf("unexpected record: %+v", q)
	}

	repo.pool = &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}
	if _, err := repo.GetForUser(context.Background(), id, uuid.New()); !errors.Is(err, ErrQualificationNotFound) {
		t.Fatalf("expected ErrQualificationNotFound, got %v", err)
	}
}

func TestPGXQualificationsRepository_DeleteForUser(t *testing.T) {
	repo := &PGXQualificationsRepository{pool: &stubPool{
		execFunc: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			if query != `DELETE FROM qualifications WHERE id = $1 AND user_id = $2` {
				t.Errorf("unexpected query: %s", query)
			}
			return pgconn.NewCommandTag("DELETE 1"), nil
		},
	}}

	if err := repo.DeleteForUser(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo.pool = &stubPool{
		execFunc: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("DELETE 0"), nil
		},
	}
	if err := repo.DeleteForUser(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, ErrQualificationNotFound) {
		t.Fatalf("expected ErrQualificationNotFound, got %v", err)
	}

	repo.pool = &stubPool{
		execFunc: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, errors.New("connection refused")
		},
	}
	if err := repo.DeleteForUser(context.Background(), uuid.New(), uuid.New()); err == nil || errors.Is(err, ErrQualificationNotFound) {
		t.Fatalf("expected wrapped driver error, got %v", err)
	}
}
