package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/entity"
)

// ErrQualificationNotFound covers both missing rows and rows owned by another user.
var ErrQualificationNotFound = errors.New("qualification not found")

const qualificationColumns = `id, user_id, company_name, industry, employee_count, annual_revenue, website, challenges,
        qualification_score, qualification_summary, qualification_insights, qualification_recommendations,
        key_need, created_at`

// QualificationsRepository persists qualification records. Every read and delete is
// scoped to the owning user.
type QualificationsRepository interface {
	Create(ctx context.Context, q *entity.Qualification) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Qualification, error)
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*entity.Qualification, error)
	DeleteForUser(ctx context.Context, id, userID uuid.UUID) error
}

// PGXQualificationsRepository implements QualificationsRepository using pgx.
type PGXQualificationsRepository struct {
	pool pgxPool
}

// NewPGXQualificationsRepository wires a pgx backed repository.
func NewPGXQualificationsRepository(pool *pgxpool.Pool) *PGXQualificationsRepository {
	return &PGXQualificationsRepository{pool: pool}
}

// Create inserts a new record. Records are never updated afterwards.
func (r *PGXQualificationsRepository) Create(ctx context.Context, q *entity.Qualification) error {
	if q == nil {
		return errors.New("qualification must not be nil")
	}

	insights := nonNilStrings(q.QualificationInsights)
	recommendations := nonNilStrings(q.QualificationRecommendations)

	_, err := r.pool.Exec(ctx, `
        INSERT INTO qualifications (`+qualificationColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
    `,
		q.ID,
		q.UserID,
		q.CompanyName,
		q.Industry,
		q.EmployeeCount,
		q.AnnualRevenue,
		q.Website,
		q.Challenges,
		q.QualificationScore,
		q.QualificationSummary,
		insights,
		recommendations,
		q.KeyNeed,
		q.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert qualification: %w", err)
	}
	return nil
}

// ListByUser returns the user's records, newest first.
func (r *PGXQualificationsRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Qualification, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT `+qualificationColumns+`
        FROM qualifications
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("list qualifications: %w", err)
	}
	defer rows.Close()

	records := make([]entity.Qualification, 0)
	for rows.Next() {
		q, err := scanQualification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan qualification row: %w", err)
		}
		records = append(records, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate qualifications: %w", err)
	}
	return records, nil
}

// GetForUser loads a single record owned by userID.
func (r *PGXQualificationsRepository) GetForUser(ctx context.Context, id, userID uuid.UUID) (*entity.Qualification, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT `+qualificationColumns+`
        FROM qualifications
        WHERE id = $1 AND user_id = $2
    `, id, userID)

	q, err := scanQualification(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQualificationNotFound
		}
		return nil, fmt.Errorf("query qualification: %w", err)
	}
	return q, nil
}

// DeleteForUser removes a record in one owner-scoped statement.
func (r *PGXQualificationsRepository) DeleteForUser(ctx context.Context, id, userID uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM qualifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete qualification: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrQualificationNotFound
	}
	return nil
}

func scanQualification(row pgx.Row) (*entity.Qualification, error) {
	var q entity.Qualification
	if err := row.Scan(
		&q.ID,
		&q.UserID,
		&q.CompanyName,
		&q.Industry,
		&q.EmployeeCount,
		&q.AnnualRevenue,
		&q.Website,
		&q.Challenges,
		&q.QualificationScore,
		&q.QualificationSummary,
		&q.QualificationInsights,
		&q.QualificationRecommendations,
		&q.KeyNeed,
		&q.CreatedAt,
	); err != nil {
		return nil, err
	}
	q.QualificationInsights = nonNilStrings(q.QualificationInsights)
	q.QualificationRecommendations = nonNilStrings(q.QualificationRecommendations)
	return &q, nil
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
