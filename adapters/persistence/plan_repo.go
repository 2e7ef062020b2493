package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/khoahotran/career-planner/internal/domain/plan"
	"github.com/khoahotran/career-planner/pkg/apperror"
	"github.com/khoahotran/career-planner/pkg/logger"
	"go.uber.org/zap"
)

type postgresPlanRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresPlanRepo(db *pgxpool.Pool, logger logger.Logger) plan.Repository {
	return &postgresPlanRepo{db: db, logger: logger}
}

func (r *postgresPlanRepo) SavePlan(ctx context.Context, p *plan.CareerPlan) error {
	blockersBytes, err := json.Marshal(p.Blockers)
	if err != nil {
		return apperror.NewInternal("failed to marshal plan blockers", err)
	}
	milestonesBytes, err := json.Marshal(p.Milestones)
	if err != nil {
		return apperror.NewInternal("failed to marshal plan milestones", err)
	}
	weeklyBytes, err := json.Marshal(p.WeeklyPlans)
	if err != nil {
		return apperror.NewInternal("failed to marshal weekly plans", err)
	}

	query := `
		INSERT INTO career_plans (id, owner_id, goal_id, plan_description, blockers, milestones, weekly_plans, response_file, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.db.Exec(ctx, query,
		p.ID, p.OwnerID, p.GoalID, p.PlanDescription,
		blockersBytes, milestonesBytes, weeklyBytes, p.ResponseFile, p.CreatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to save career plan", err)
	}
	return nil
}

func (r *postgresPlanRepo) scanPlan(row pgx.Row, identifier string) (*plan.CareerPlan, error) {
	p := &plan.CareerPlan{}
	var blockersBytes, milestonesBytes, weeklyBytes []byte

	err := row.Scan(
		&p.ID, &p.OwnerID, &p.GoalID, &p.PlanDescription,
		&blockersBytes, &milestonesBytes, &weeklyBytes, &p.ResponseFile, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("career plan", identifier)
		}
		return nil, apperror.NewInternal("failed to scan career plan row", err)
	}

	if err := json.Unmarshal(blockersBytes, &p.Blockers); err != nil {
		r.logger.Warn("Failed to unmarshal plan blockers", zap.String("plan_id", p.ID.String()), zap.Error(err))
	}
	if err := json.Unmarshal(milestonesBytes, &p.Milestones); err != nil {
		r.logger.Warn("Failed to unmarshal plan milestones", zap.String("plan_id", p.ID.String()), zap.Error(err))
	}
	if err := json.Unmarshal(weeklyBytes, &p.WeeklyPlans); err != nil {
		r.logger.Warn("Failed to unmarshal weekly plans", zap.String("plan_id", p.ID.String()), zap.Error(err))
	}
	return p, nil
}

const planColumns = "id, owner_id, goal_id, plan_description, blockers, milestones, weekly_plans, response_file, created_at"

func (r *postgresPlanRepo) FindPlanByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*plan.CareerPlan, error) {
	query := `SELECT ` + planColumns + ` FROM career_plans WHERE id = $1 AND owner_id = $2`
	return r.scanPlan(r.db.QueryRow(ctx, query, id, ownerID), id.String())
}

func (r *postgresPlanRepo) ListPlansByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*plan.CareerPlan, error) {
	query := `SELECT ` + planColumns + ` FROM career_plans WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, apperror.NewInternal("failed to query career plans by owner", err)
	}
	defer rows.Close()

	plans := make([]*plan.CareerPlan, 0)
	for rows.Next() {
		p, err := r.scanPlan(rows, "")
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating career plan rows", err)
	}
	return plans, nil
}

func (r *postgresPlanRepo) SaveRequestLog(ctx context.Context, reqLog *plan.AIRequestLog) error {
	query := `
		INSERT INTO ai_request_logs (id, owner_id, goal_id, model, prompt_tokens, output_tokens, duration_ms, succeeded, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		reqLog.ID, reqLog.OwnerID, reqLog.GoalID, reqLog.Model, reqLog.PromptTokens,
		reqLog.OutputTokens, reqLog.DurationMS, reqLog.Succeeded, reqLog.ErrorMessage, reqLog.CreatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to save AI request log", err)
	}
	return nil
}

func (r *postgresPlanRepo) SaveExecutions(ctx context.Context, executions []*plan.PlanExecution) error {
	if len(executions) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO plan_executions (id, plan_id, week_number, focus_areas, tasks, is_completed, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, ex := range executions {
		focusBytes, err := json.Marshal(ex.FocusAreas)
		if err != nil {
			return apperror.NewInternal("failed to marshal focus areas", err)
		}
		batch.Queue(query, ex.ID, ex.PlanID, ex.WeekNumber, focusBytes, ex.Tasks, ex.IsCompleted, ex.CompletedAt)
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()
	for range executions {
		if _, err := br.Exec(); err != nil {
			return apperror.NewInternal("failed to save plan executions", err)
		}
	}
	return nil
}

func (r *postgresPlanRepo) ListExecutionsByPlan(ctx context.Context, planID uuid.UUID) ([]*plan.PlanExecution, error) {
	query := `
		SELECT id, plan_id, week_number, focus_areas, tasks, is_completed, completed_at
		FROM plan_executions WHERE plan_id = $1 ORDER BY week_number ASC
	`
	rows, err := r.db.Query(ctx, query, planID)
	if err != nil {
		return nil, apperror.NewInternal("failed to query plan executions", err)
	}
	defer rows.Close()

	executions := make([]*plan.PlanExecution, 0)
	for rows.Next() {
		ex := &plan.PlanExecution{}
		var focusBytes []byte
		err := rows.Scan(&ex.ID, &ex.PlanID, &ex.WeekNumber, &focusBytes, &ex.Tasks, &ex.IsCompleted, &ex.CompletedAt)
		if err != nil {
			return nil, apperror.NewInternal("failed to scan plan execution row", err)
		}
		if err := json.Unmarshal(focusBytes, &ex.FocusAreas); err != nil {
			r.logger.Warn("Failed to unmarshal focus areas", zap.String("execution_id", ex.ID.String()), zap.Error(err))
		}
		executions = append(executions, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating plan execution rows", err)
	}
	return executions, nil
}

func (r *postgresPlanRepo) CompleteExecution(ctx context.Context, id uuid.UUID, completedAt time.Time) error {
	query := `UPDATE plan_executions SET is_completed = TRUE, completed_at = $2 WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, id, completedAt)
	if err != nil {
		return apperror.NewInternal("failed to complete plan execution", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("plan execution", id.String())
	}
	return nil
}
