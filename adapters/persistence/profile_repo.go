package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/khoahotran/career-planner/internal/domain/profile"
	"github.com/khoahotran/career-planner/pkg/apperror"
	"github.com/khoahotran/career-planner/pkg/logger"
)

type postgresProfileRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProfileRepo(db *pgxpool.Pool, logger logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, logger: logger}
}

func (r *postgresProfileRepo) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*profile.Profile, error) {
	query := `
		SELECT owner_id, phone, current_position, years_of_experience, current_salary,
		       desired_salary, location, linkedin_url, github_url, portfolio_url, updated_at
		FROM profiles WHERE owner_id = $1
	`
	p := &profile.Profile{}
	err := r.db.QueryRow(ctx, query, ownerID).Scan(
		&p.OwnerID, &p.Phone, &p.CurrentPosition, &p.YearsOfExperience, &p.CurrentSalary,
		&p.DesiredSalary, &p.Location, &p.LinkedinURL, &p.GithubURL, &p.PortfolioURL, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("profile", ownerID.String())
		}
		return nil, apperror.NewInternal("failed to scan profile row", err)
	}
	return p, nil
}

func (r *postgresProfileRepo) Upsert(ctx context.Context, p *profile.Profile) error {
	query := `
		INSERT INTO profiles (owner_id, phone, current_position, years_of_experience, current_salary,
		                      desired_salary, location, linkedin_url, github_url, portfolio_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (owner_id) DO UPDATE SET
			phone = EXCLUDED.phone,
			current_position = EXCLUDED.current_position,
			years_of_experience = EXCLUDED.years_of_experience,
			current_salary = EXCLUDED.current_salary,
			desired_salary = EXCLUDED.desired_salary,
			location = EXCLUDED.location,
			linkedin_url = EXCLUDED.linkedin_url,
			github_url = EXCLUDED.github_url,
			portfolio_url = EXCLUDED.portfolio_url,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.Exec(ctx, query,
		p.OwnerID, p.Phone, p.CurrentPosition, p.YearsOfExperience, p.CurrentSalary,
		p.DesiredSalary, p.Location, p.LinkedinURL, p.GithubURL, p.PortfolioURL, p.UpdatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to upsert profile", err)
	}
	return nil
}
