package plan

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Milestone struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	TargetQuarter  int    `json:"target_quarter"`
	SuccessMetrics string `json:"success_metrics"`
}

type WeeklyPlan struct {
	WeekNumber int      `json:"week_number"`
	FocusAreas []string `json:"focus_areas"`
	Tasks      string   `json:"tasks"`
}

type CareerPlan struct {
	ID              uuid.UUID    `json:"id"`
	OwnerID         uuid.UUID    `json:"owner_id"`
	GoalID          uuid.UUID    `json:"goal_id"`
	PlanDescription string       `json:"plan_description"`
	Blockers        []string     `json:"blockers"`
	Milestones      []Milestone  `json:"milestones"`
	WeeklyPlans     []WeeklyPlan `json:"weekly_plans"`
	ResponseFile    string       `json:"response_file"`
	CreatedAt       time.Time    `json:"created_at"`
}

// PlanExecution is one actionable week expanded from a plan's
// weekly_plans entries, tracked separately so weeks can be
// completed one at a time.
type PlanExecution struct {
	ID          uuid.UUID  `json:"id"`
	PlanID      uuid.UUID  `json:"plan_id"`
	WeekNumber  int        `json:"week_number"`
	FocusAreas  []string   `json:"focus_areas"`
	Tasks       string     `json:"tasks"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at"`
}

type AIRequestLog struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	GoalID       uuid.UUID `json:"goal_id"`
	Model        string    `json:"model"`
	PromptTokens int       `json:"prompt_tokens"`
	OutputTokens int       `json:"output_tokens"`
	DurationMS   int64     `json:"duration_ms"`
	Succeeded    bool      `json:"succeeded"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	MilestoneCount  = 4
	WeeklyPlanCount = 12
	MaxFocusAreas   = 5
)

var (
	ErrPlanNotFound      = errors.New("career plan not found")
	ErrMilestoneCount    = errors.New("plan must contain exactly 4 milestones")
	ErrWeeklyPlanCount   = errors.New("plan must contain exactly 12 weekly plans")
	ErrTooManyFocusAreas = errors.New("a weekly plan may list at most 5 focus areas")
)

func (p *CareerPlan) Validate() error {
	if p.PlanDescription == "" {
		return errors.New("plan_description is required")
	}
	if len(p.Milestones) != MilestoneCount {
		return ErrMilestoneCount
	}
	if len(p.WeeklyPlans) != WeeklyPlanCount {
		return ErrWeeklyPlanCount
	}
	for _, wp := range p.WeeklyPlans {
		if len(wp.FocusAreas) > MaxFocusAreas {
			return ErrTooManyFocusAreas
		}
	}
	return nil
}

type Repository interface {
	SavePlan(ctx context.Context, p *CareerPlan) error
	FindPlanByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*CareerPlan, error)
	ListPlansByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*CareerPlan, error)
	SaveRequestLog(ctx context.Context, log *AIRequestLog) error
	SaveExecutions(ctx context.Context, executions []*PlanExecution) error
	ListExecutionsByPlan(ctx context.Context, planID uuid.UUID) ([]*PlanExecution, error)
	CompleteExecution(ctx context.Context, id uuid.UUID, completedAt time.Time) error
}
