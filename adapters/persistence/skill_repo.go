package persistence

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/khoahotran/career-planner/internal/domain/skill"
	"github.com/khoahotran/career-planner/pkg/apperror"
	"github.com/khoahotran/career-planner/pkg/logger"
)

type postgresSkillRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresSkillRepo(db *pgxpool.Pool, logger logger.Logger) skill.Repository {
	return &postgresSkillRepo{db: db, logger: logger}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const skillColumns = "id, owner_id, skill_name, category, proficiency_level, years_of_experience, created_at, updated_at"

func scanSkill(row pgx.Row, identifier string) (*skill.Skill, error) {
	s := &skill.Skill{}
	err := row.Scan(
		&s.ID, &s.OwnerID, &s.SkillName, &s.Category,
		&s.ProficiencyLevel, &s.YearsOfExperience, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("skill", identifier)
		}
		return nil, apperror.NewInternal("failed to scan skill row", err)
	}
	return s, nil
}

func scanSkills(rows pgx.Rows) ([]*skill.Skill, error) {
	defer rows.Close()
	items := make([]*skill.Skill, 0)
	for rows.Next() {
		s, err := scanSkill(rows, "")
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating skill rows", err)
	}
	return items, nil
}

func (r *postgresSkillRepo) Save(ctx context.Context, s *skill.Skill) error {
	query := `
		INSERT INTO user_skills (id, owner_id, skill_name, category, proficiency_level, years_of_experience, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		s.ID, s.OwnerID, s.SkillName, s.Category,
		s.ProficiencyLevel, s.YearsOfExperience, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to save skill", err)
	}
	return nil
}

func (r *postgresSkillRepo) Update(ctx context.Context, s *skill.Skill) error {
	query := `
		UPDATE user_skills SET
			skill_name = $2, category = $3, proficiency_level = $4,
			years_of_experience = $5, updated_at = NOW()
		WHERE id = $1 AND owner_id = $6
	`
	cmdTag, err := r.db.Exec(ctx, query,
		s.ID, s.SkillName, s.Category, s.ProficiencyLevel, s.YearsOfExperience, s.OwnerID,
	)
	if err != nil {
		return apperror.NewInternal("failed to update skill", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("skill", s.ID.String())
	}
	return nil
}

func (r *postgresSkillRepo) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	query := `DELETE FROM user_skills WHERE id = $1 AND owner_id = $2`
	cmdTag, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return apperror.NewInternal("failed to delete skill", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("skill", id.String())
	}
	return nil
}

func (r *postgresSkillRepo) FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*skill.Skill, error) {
	query := `SELECT ` + skillColumns + ` FROM user_skills WHERE id = $1 AND owner_id = $2`
	return scanSkill(r.db.QueryRow(ctx, query, id, ownerID), id.String())
}

func (r *postgresSkillRepo) FindByName(ctx context.Context, ownerID uuid.UUID, skillName string) (*skill.Skill, error) {
	query := `SELECT ` + skillColumns + ` FROM user_skills WHERE owner_id = $1 AND LOWER(skill_name) = LOWER($2)`
	return scanSkill(r.db.QueryRow(ctx, query, ownerID, skillName), skillName)
}

func (r *postgresSkillRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, category string, limit, offset int) ([]*skill.Skill, error) {
	builder := psql.Select(skillColumns).
		From("user_skills").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("proficiency_level DESC", "skill_name ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	if category != "" {
		builder = builder.Where(sq.Eq{"category": category})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list skills query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query skills by owner", err)
	}
	return scanSkills(rows)
}
