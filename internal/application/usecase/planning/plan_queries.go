package planning

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/career-planner/internal/domain/plan"
	"github.com/khoahotran/career-planner/pkg/logger"
)

type PlanQueryUseCase struct {
	planRepo plan.Repository
	logger   logger.Logger
}

func NewPlanQueryUseCase(repo plan.Repository, log logger.Logger) *PlanQueryUseCase {
	return &PlanQueryUseCase{planRepo: repo, logger: log}
}

func (uc *PlanQueryUseCase) ExecuteGet(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*plan.CareerPlan, error) {
	return uc.planRepo.FindPlanByID(ctx, id, ownerID)
}

func (uc *PlanQueryUseCase) ExecuteList(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*plan.CareerPlan, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return uc.planRepo.ListPlansByOwner(ctx, ownerID, limit, offset)
}

func (uc *PlanQueryUseCase) ExecuteListExecutions(ctx context.Context, planID uuid.UUID, ownerID uuid.UUID) ([]*plan.PlanExecution, error) {
	// ownership check first, executions carry no owner column
	if _, err := uc.planRepo.FindPlanByID(ctx, planID, ownerID); err != nil {
		return nil, err
	}
	return uc.planRepo.ListExecutionsByPlan(ctx, planID)
}

func (uc *PlanQueryUseCase) ExecuteCompleteWeek(ctx context.Context, planID uuid.UUID, ownerID uuid.UUID, executionID uuid.UUID) error {
	if _, err := uc.planRepo.FindPlanByID(ctx, planID, ownerID); err != nil {
		return err
	}
	return uc.planRepo.CompleteExecution(ctx, executionID, time.Now().UTC())
}

// ExpandPlanUseCase turns a generated plan's weekly entries into
// execution rows. The worker runs it when a plan.generated event
// arrives.
type ExpandPlanUseCase struct {
	planRepo plan.Repository
	logger   logger.Logger
}

func NewExpandPlanUseCase(repo plan.Repository, log logger.Logger) *ExpandPlanUseCase {
	return &ExpandPlanUseCase{planRepo: repo, logger: log}
}

func (uc *ExpandPlanUseCase) Execute(ctx context.Context, planID uuid.UUID, ownerID uuid.UUID) error {
	p, err := uc.planRepo.FindPlanByID(ctx, planID, ownerID)
	if err != nil {
		return err
	}

	executions := make([]*plan.PlanExecution, 0, len(p.WeeklyPlans))
	for _, wp := range p.WeeklyPlans {
		executions = append(executions, &plan.PlanExecution{
			ID:         uuid.New(),
			PlanID:     p.ID,
			WeekNumber: wp.WeekNumber,
			FocusAreas: wp.FocusAreas,
			Tasks:      wp.Tasks,
		})
	}
	return uc.planRepo.SaveExecutions(ctx, executions)
}
