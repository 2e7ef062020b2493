package persistence

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/khoahotran/career-planner/internal/domain/experience"
	"github.com/khoahotran/career-planner/pkg/apperror"
	"github.com/khoahotran/career-planner/pkg/logger"
)

type postgresExperienceRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresExperienceRepo(db *pgxpool.Pool, logger logger.Logger) experience.Repository {
	return &postgresExperienceRepo{db: db, logger: logger}
}

const experienceColumns = "id, owner_id, company, position, start_date, end_date, is_current, description, achievements, created_at, updated_at"

func scanExperience(row pgx.Row, identifier string) (*experience.Experience, error) {
	we := &experience.Experience{}
	err := row.Scan(
		&we.ID, &we.OwnerID, &we.Company, &we.Position, &we.StartDate, &we.EndDate,
		&we.IsCurrent, &we.Description, &we.Achievements, &we.CreatedAt, &we.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("work experience", identifier)
		}
		return nil, apperror.NewInternal("failed to scan work experience row", err)
	}
	return we, nil
}

func scanExperiences(rows pgx.Rows) ([]*experience.Experience, error) {
	defer rows.Close()
	items := make([]*experience.Experience, 0)
	for rows.Next() {
		we, err := scanExperience(rows, "")
		if err != nil {
			return nil, err
		}
		items = append(items, we)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating work experience rows", err)
	}
	return items, nil
}

func (r *postgresExperienceRepo) Save(ctx context.Context, we *experience.Experience) error {
	query := `
		INSERT INTO work_experience (id, owner_id, company, position, start_date, end_date, is_current, description, achievements, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		we.ID, we.OwnerID, we.Company, we.Position, we.StartDate, we.EndDate,
		we.IsCurrent, we.Description, we.Achievements, we.CreatedAt, we.UpdatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to save work experience", err)
	}
	return nil
}

func (r *postgresExperienceRepo) Update(ctx context.Context, we *experience.Experience) error {
	query := `
		UPDATE work_experience SET
			company = $2, position = $3, start_date = $4, end_date = $5,
			is_current = $6, description = $7, achievements = $8, updated_at = NOW()
		WHERE id = $1 AND owner_id = $9
	`
	cmdTag, err := r.db.Exec(ctx, query,
		we.ID, we.Company, we.Position, we.StartDate, we.EndDate,
		we.IsCurrent, we.Description, we.Achievements, we.OwnerID,
	)
	if err != nil {
		return apperror.NewInternal("failed to update work experience", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("work experience", we.ID.String())
	}
	return nil
}

func (r *postgresExperienceRepo) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	query := `DELETE FROM work_experience WHERE id = $1 AND owner_id = $2`
	cmdTag, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return apperror.NewInternal("failed to delete work experience", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("work experience", id.String())
	}
	return nil
}

func (r *postgresExperienceRepo) FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*experience.Experience, error) {
	query := `SELECT ` + experienceColumns + ` FROM work_experience WHERE id = $1 AND owner_id = $2`
	return scanExperience(r.db.QueryRow(ctx, query, id, ownerID), id.String())
}

func (r *postgresExperienceRepo) FindByKey(ctx context.Context, ownerID uuid.UUID, company, position string) (*experience.Experience, error) {
	query := `
		SELECT ` + experienceColumns + ` FROM work_experience
		WHERE owner_id = $1 AND LOWER(company) = LOWER($2) AND LOWER(position) = LOWER($3)
	`
	return scanExperience(r.db.QueryRow(ctx, query, ownerID, company, position), position)
}

func (r *postgresExperienceRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*experience.Experience, error) {
	builder := psql.Select(experienceColumns).
		From("work_experience").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("start_date DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list work experience query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query work experience by owner", err)
	}
	return scanExperiences(rows)
}
