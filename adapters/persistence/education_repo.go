package persistence

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/khoahotran/career-planner/internal/domain/education"
	"github.com/khoahotran/career-planner/pkg/apperror"
	"github.com/khoahotran/career-planner/pkg/logger"
)

type postgresEducationRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresEducationRepo(db *pgxpool.Pool, logger logger.Logger) education.Repository {
	return &postgresEducationRepo{db: db, logger: logger}
}

const educationColumns = "id, owner_id, institution, degree, field_of_study, start_date, end_date, gpa, created_at, updated_at"

func scanEducation(row pgx.Row, identifier string) (*education.Education, error) {
	e := &education.Education{}
	err := row.Scan(
		&e.ID, &e.OwnerID, &e.Institution, &e.Degree, &e.FieldOfStudy,
		&e.StartDate, &e.EndDate, &e.GPA, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("education record", identifier)
		}
		return nil, apperror.NewInternal("failed to scan education row", err)
	}
	return e, nil
}

func scanEducations(rows pgx.Rows) ([]*education.Education, error) {
	defer rows.Close()
	items := make([]*education.Education, 0)
	for rows.Next() {
		e, err := scanEducation(rows, "")
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating education rows", err)
	}
	return items, nil
}

func (r *postgresEducationRepo) Save(ctx context.Context, e *education.Education) error {
	query := `
		INSERT INTO education (id, owner_id, institution, degree, field_of_study, start_date, end_date, gpa, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		e.ID, e.OwnerID, e.Institution, e.Degree, e.FieldOfStudy,
		e.StartDate, e.EndDate, e.GPA, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to save education record", err)
	}
	return nil
}

func (r *postgresEducationRepo) Update(ctx context.Context, e *education.Education) error {
	query := `
		UPDATE education SET
			institution = $2, degree = $3, field_of_study = $4,
			start_date = $5, end_date = $6, gpa = $7, updated_at = NOW()
		WHERE id = $1 AND owner_id = $8
	`
	cmdTag, err := r.db.Exec(ctx, query,
		e.ID, e.Institution, e.Degree, e.FieldOfStudy, e.StartDate, e.EndDate, e.GPA, e.OwnerID,
	)
	if err != nil {
		return apperror.NewInternal("failed to update education record", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("education record", e.ID.String())
	}
	return nil
}

func (r *postgresEducationRepo) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	query := `DELETE FROM education WHERE id = $1 AND owner_id = $2`
	cmdTag, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return apperror.NewInternal("failed to delete education record", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("education record", id.String())
	}
	return nil
}

func (r *postgresEducationRepo) FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*education.Education, error) {
	query := `SELECT ` + educationColumns + ` FROM education WHERE id = $1 AND owner_id = $2`
	return scanEducation(r.db.QueryRow(ctx, query, id, ownerID), id.String())
}

func (r *postgresEducationRepo) FindByKey(ctx context.Context, ownerID uuid.UUID, institution, degree string, startDate time.Time) (*education.Education, error) {
	query := `
		SELECT ` + educationColumns + ` FROM education
		WHERE owner_id = $1 AND LOWER(institution) = LOWER($2) AND LOWER(degree) = LOWER($3) AND start_date = $4
	`
	return scanEducation(r.db.QueryRow(ctx, query, ownerID, institution, degree, startDate), institution)
}

func (r *postgresEducationRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*education.Education, error) {
	builder := psql.Select(educationColumns).
		From("education").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("start_date DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list education query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query education by owner", err)
	}
	return scanEducations(rows)
}
