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

// ErrProfileNotFound indicates the user has not stored a business profile.
var ErrProfileNotFound = errors.New("business profile not found")

const profileColumns = `user_id, company_name, industry, employee_count, annual_revenue, services, generation_api_key, updated_at`

// ProfilesRepository stores one business profile per user.
type ProfilesRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*entity.BusinessProfile, error)
	Upsert(ctx context.Context, profile *entity.BusinessProfile) error
}

// PGXProfilesRepository implements ProfilesRepository using pgx.
type PGXProfilesRepository struct {
	pool pgxPool
}

// NewPGXProfilesRepository wires a pgx backed repository.
func NewPGXProfilesRepository(pool *pgxpool.Pool) *PGXProfilesRepository {
	return &PGXProfilesRepository{pool: pool}
}

// Get loads the profile of userID.
func (r *PGXProfilesRepository) Get(ctx context.Context, userID uuid.UUID) (*entity.BusinessProfile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM business_profiles WHERE user_id = $1`, userID)

	var p entity.BusinessProfile
	if err := row.Scan(&p.UserID, &p.CompanyName, &p.Industry, &p.EmployeeCount, &p.AnnualRevenue, &p.Services, &p.GenerationAPIKey, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("query business profile: %w", err)
	}
	return &p, nil
}

// Upsert creates or replaces the profile and refreshes UpdatedAt from the database.
// A nil GenerationAPIKey keeps the stored key.
func (r *PGXProfilesRepository) Upsert(ctx context.Context, profile *entity.BusinessProfile) error {
	if profile == nil {
		return errors.New("profile must not be nil")
	}

	row := r.pool.QueryRow(ctx, `
        INSERT INTO business_profiles (user_id, company_name, industry, employee_count, annual_revenue, services, generation_api_key)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (user_id) DO UPDATE SET
            company_name = EXCLUDED.company_name,
            industry = EXCLUDED.industry,
            employee_count = EXCLUDED.employee_count,
            annual_revenue = EXCLUDED.annual_revenue,
            services = EXCLUDED.services,
            generation_api_key = COALESCE(EXCLUDED.generation_api_key, business_profiles.generation_api_key),
            updated_at = NOW()
        RETURNING generation_api_key, updated_at
    `,
		profile.UserID,
		profile.CompanyName,
		profile.Industry,
		profile.EmployeeCount,
		profile.AnnualRevenue,
		profile.Services,
		profile.GenerationAPIKey,
	)

	if err := row.Scan(&profile.GenerationAPIKey, &profile.UpdatedAt); err != nil {
		return fmt.Errorf("upsert business profile: %w", err)
	}
	return nil
}
