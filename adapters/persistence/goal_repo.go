package persistence

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/khoahotran/career-planner/internal/domain/goal"
	"github.com/khoahotran/career-planner/pkg/apperror"
	"github.com/khoahotran/career-planner/pkg/logger"
)

type postgresGoalRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresGoalRepo(db *pgxpool.Pool, logger logger.Logger) goal.Repository {
	return &postgresGoalRepo{db: db, logger: logger}
}

const goalColumns = "id, owner_id, title, description, target_date, priority, status, created_at, updated_at"

func scanGoal(row pgx.Row, identifier string) (*goal.Goal, error) {
	g := &goal.Goal{}
	err := row.Scan(
		&g.ID, &g.OwnerID, &g.Title, &g.Description, &g.TargetDate,
		&g.Priority, &g.Status, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("career goal", identifier)
		}
		return nil, apperror.NewInternal("failed to scan career goal row", err)
	}
	return g, nil
}

func scanGoals(rows pgx.Rows) ([]*goal.Goal, error) {
	defer rows.Close()
	items := make([]*goal.Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows, "")
		if err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating career goal rows", err)
	}
	return items, nil
}

func (r *postgresGoalRepo) Save(ctx context.Context, g *goal.Goal) error {
	query := `
		INSERT INTO career_goals (id, owner_id, title, description, target_date, priority, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		g.ID, g.OwnerID, g.Title, g.Description, g.TargetDate,
		g.Priority, g.Status, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to save career goal", err)
	}
	return nil
}

func (r *postgresGoalRepo) Update(ctx context.Context, g *goal.Goal) error {
	query := `
		UPDATE career_goals SET
			title = $2, description = $3, target_date = $4,
			priority = $5, status = $6, updated_at = NOW()
		WHERE id = $1 AND owner_id = $7
	`
	cmdTag, err := r.db.Exec(ctx, query,
		g.ID, g.Title, g.Description, g.TargetDate, g.Priority, g.Status, g.OwnerID,
	)
	if err != nil {
		return apperror.NewInternal("failed to update career goal", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("career goal", g.ID.String())
	}
	return nil
}

func (r *postgresGoalRepo) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	query := `DELETE FROM career_goals WHERE id = $1 AND owner_id = $2`
	cmdTag, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return apperror.NewInternal("failed to delete career goal", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("career goal", id.String())
	}
	return nil
}

func (r *postgresGoalRepo) FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM career_goals WHERE id = $1 AND owner_id = $2`
	return scanGoal(r.db.QueryRow(ctx, query, id, ownerID), id.String())
}

func (r *postgresGoalRepo) FindByTitle(ctx context.Context, ownerID uuid.UUID, title string) (*goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM career_goals WHERE owner_id = $1 AND LOWER(title) = LOWER($2)`
	return scanGoal(r.db.QueryRow(ctx, query, ownerID, title), title)
}

func (r *postgresGoalRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, status string, limit, offset int) ([]*goal.Goal, error) {
	builder := psql.Select(goalColumns).
		From("career_goals").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	if status != "" {
		builder = builder.Where(sq.Eq{"status": status})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list career goals query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query career goals by owner", err)
	}
	return scanGoals(rows)
}
