package planning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/career-planner/adapters/event"
	"github.com/khoahotran/career-planner/internal/application/service"
	"github.com/khoahotran/career-planner/internal/domain/experience"
	"github.com/khoahotran/career-planner/internal/domain/goal"
	"github.com/khoahotran/career-planner/internal/domain/plan"
	"github.com/khoahotran/career-planner/internal/domain/profile"
	"github.com/khoahotran/career-planner/internal/domain/skill"
	"github.com/khoahotran/career-planner/pkg/apperror"
	"github.com/khoahotran/career-planner/pkg/logger"
)

type stubGoalRepo struct {
	goal *goal.Goal
}

func (r *stubGoalRepo) Save(ctx context.Context, g *goal.Goal) error   { return nil }
func (r *stubGoalRepo) Update(ctx context.Context, g *goal.Goal) error { return nil }
func (r *stubGoalRepo) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	return nil
}
func (r *stubGoalRepo) FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*goal.Goal, error) {
	if r.goal != nil && r.goal.ID == id {
		return r.goal, nil
	}
	return nil, apperror.NewNotFound("career goal", id.String())
}
func (r *stubGoalRepo) FindByTitle(ctx context.Context, ownerID uuid.UUID, title string) (*goal.Goal, error) {
	return nil, apperror.NewNotFound("career goal", title)
}
func (r *stubGoalRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, status string, limit, offset int) ([]*goal.Goal, error) {
	return nil, nil
}

type stubSkillRepo struct{}

func (r *stubSkillRepo) Save(ctx context.Context, s *skill.Skill) error   { return nil }
func (r *stubSkillRepo) Update(ctx context.Context, s *skill.Skill) error { return nil }
func (r *stubSkillRepo) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	return nil
}
func (r *stubSkillRepo) FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*skill.Skill, error) {
	return nil, apperror.NewNotFound("skill", id.String())
}
func (r *stubSkillRepo) FindByName(ctx context.Context, ownerID uuid.UUID, name string) (*skill.Skill, error) {
	return nil, apperror.NewNotFound("skill", name)
}
func (r *stubSkillRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, category string, limit, offset int) ([]*skill.Skill, error) {
	return []*skill.Skill{{SkillName: "Go", Category: "technical", ProficiencyLevel: 4, YearsOfExperience: 3}}, nil
}

type stubExpRepo struct{}

func (r *stubExpRepo) Save(ctx context.Context, we *experience.Experience) error   { return nil }
func (r *stubExpRepo) Update(ctx context.Context, we *experience.Experience) error { return nil }
func (r *stubExpRepo) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	return nil
}
func (r *stubExpRepo) FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*experience.Experience, error) {
	return nil, apperror.NewNotFound("work experience", id.String())
}
func (r *stubExpRepo) FindByKey(ctx context.Context, ownerID uuid.UUID, company, position string) (*experience.Experience, error) {
	return nil, apperror.NewNotFound("work experience", position)
}
func (r *stubExpRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*experience.Experience, error) {
	return nil, nil
}

type stubProfileRepo struct{}

func (r *stubProfileRepo) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*profile.Profile, error) {
	return nil, apperror.NewNotFound("profile", ownerID.String())
}
func (r *stubProfileRepo) Upsert(ctx context.Context, p *profile.Profile) error { return nil }

type memPlanRepo struct {
	plans      map[uuid.UUID]*plan.CareerPlan
	logs       []*plan.AIRequestLog
	executions []*plan.PlanExecution
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{plans: make(map[uuid.UUID]*plan.CareerPlan)}
}

func (r *memPlanRepo) SavePlan(ctx context.Context, p *plan.CareerPlan) error {
	r.plans[p.ID] = p
	return nil
}
func (r *memPlanRepo) FindPlanByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*plan.CareerPlan, error) {
	if p, ok := r.plans[id]; ok && p.OwnerID == ownerID {
		return p, nil
	}
	return nil, apperror.NewNotFound("career plan", id.String())
}
func (r *memPlanRepo) ListPlansByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*plan.CareerPlan, error) {
	return nil, nil
}
func (r *memPlanRepo) SaveRequestLog(ctx context.Context, log *plan.AIRequestLog) error {
	r.logs = append(r.logs, log)
	return nil
}
func (r *memPlanRepo) SaveExecutions(ctx context.Context, executions []*plan.PlanExecution) error {
	r.executions = append(r.executions, executions...)
	return nil
}
func (r *memPlanRepo) ListExecutionsByPlan(ctx context.Context, planID uuid.UUID) ([]*plan.PlanExecution, error) {
	return r.executions, nil
}
func (r *memPlanRepo) CompleteExecution(ctx context.Context, id uuid.UUID, completedAt time.Time) error {
	return nil
}

type stubLLM struct {
	response string
	err      error
	prompt   string
}

func (l *stubLLM) GeneratePlanResponse(ctx context.Context, prompt string) (string, service.CompletionUsage, error) {
	l.prompt = prompt
	return l.response, service.CompletionUsage{PromptTokens: 120, OutputTokens: 800}, l.err
}

func (l *stubLLM) Model() string { return "gpt-4o-mini" }

type nopStore struct{}

func (nopStore) WriteJSON(ctx context.Context, fileName string, payload any) (string, error) {
	return fileName, nil
}
func (nopStore) WriteCSV(ctx context.Context, fileName string, header []string, rows [][]string) (string, error) {
	return fileName, nil
}
func (nopStore) WriteExcel(ctx context.Context, fileName string, sheet string, header []string, rows [][]string) (string, error) {
	return fileName, nil
}

func validPlanJSON(goalID uuid.UUID) string {
	milestones := make([]plan.Milestone, 4)
	for i := range milestones {
		milestones[i] = plan.Milestone{Title: fmt.Sprintf("Milestone %d", i+1), TargetQuarter: i + 1}
	}
	weeks := make([]plan.WeeklyPlan, 12)
	for i := range weeks {
		weeks[i] = plan.WeeklyPlan{WeekNumber: i + 1, FocusAreas: []string{"practice"}, Tasks: "do the work"}
	}
	doc := map[string]any{
		"goal_id":          goalID.String(),
		"plan_description": "A twelve week ramp.",
		"blockers":         []string{"time"},
		"milestones":       milestones,
		"weekly_plans":     weeks,
	}
	data, _ := json.Marshal(doc)
	return string(data)
}

func testPlanKafkaClient() *event.KafkaProducerClient {
	return &event.KafkaProducerClient{
		ImportEventsWriter: &kafka.Writer{Addr: kafka.TCP("localhost:1"), Topic: event.TopicImportEvents},
		PlanEventsWriter:   &kafka.Writer{Addr: kafka.TCP("localhost:1"), Topic: event.TopicPlanEvents},
	}
}

func newTestUseCase(g *goal.Goal, llm *stubLLM, planRepo *memPlanRepo) *GeneratePlanUseCase {
	return NewGeneratePlanUseCase(
		&stubGoalRepo{goal: g},
		&stubSkillRepo{},
		&stubExpRepo{},
		&stubProfileRepo{},
		planRepo,
		llm,
		nopStore{},
		testPlanKafkaClient(),
		5*time.Second,
		logger.NewNopLogger(),
	)
}

func testGoal(ownerID uuid.UUID) *goal.Goal {
	return &goal.Goal{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		Title:    "Become a staff engineer",
		Priority: goal.PriorityHigh,
		Status:   goal.StatusInProgress,
	}
}

func TestGeneratePlan_Success(t *testing.T) {
	ownerID := uuid.New()
	g := testGoal(ownerID)
	llm := &stubLLM{response: validPlanJSON(g.ID)}
	planRepo := newMemPlanRepo()
	uc := newTestUseCase(g, llm, planRepo)

	p, err := uc.Execute(context.Background(), GeneratePlanInput{OwnerID: ownerID, GoalID: g.ID})
	require.NoError(t, err)

	assert.Len(t, p.Milestones, 4)
	assert.Len(t, p.WeeklyPlans, 12)
	assert.Contains(t, p.ResponseFile, "career_plan_response_"+ownerID.String())
	assert.Len(t, planRepo.plans, 1)

	require.Len(t, planRepo.logs, 1)
	assert.True(t, planRepo.logs[0].Succeeded)
	assert.Equal(t, 120, planRepo.logs[0].PromptTokens)

	// the prompt carries the owner's context
	assert.Contains(t, llm.prompt, "Become a staff engineer")
	assert.Contains(t, llm.prompt, "Go (technical")
}

func TestGeneratePlan_FencedResponse(t *testing.T) {
	ownerID := uuid.New()
	g := testGoal(ownerID)
	llm := &stubLLM{response: "```json\n" + validPlanJSON(g.ID) + "\n```"}
	uc := newTestUseCase(g, llm, newMemPlanRepo())

	_, err := uc.Execute(context.Background(), GeneratePlanInput{OwnerID: ownerID, GoalID: g.ID})
	assert.NoError(t, err)
}

func TestGeneratePlan_MissingKeyRejected(t *testing.T) {
	ownerID := uuid.New()
	g := testGoal(ownerID)
	bad := strings.Replace(validPlanJSON(g.ID), `"blockers"`, `"obstacles"`, 1)
	planRepo := newMemPlanRepo()
	uc := newTestUseCase(g, &stubLLM{response: bad}, planRepo)

	_, err := uc.Execute(context.Background(), GeneratePlanInput{OwnerID: ownerID, GoalID: g.ID})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrSchema))
	assert.Contains(t, err.Error(), "blockers")

	// nothing persisted, failure logged
	assert.Empty(t, planRepo.plans)
	require.Len(t, planRepo.logs, 1)
	assert.False(t, planRepo.logs[0].Succeeded)
}

func TestGeneratePlan_WrongMilestoneCount(t *testing.T) {
	ownerID := uuid.New()
	g := testGoal(ownerID)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(validPlanJSON(g.ID)), &doc))
	doc["milestones"] = doc["milestones"].([]any)[:2]
	data, _ := json.Marshal(doc)

	planRepo := newMemPlanRepo()
	uc := newTestUseCase(g, &stubLLM{response: string(data)}, planRepo)

	_, err := uc.Execute(context.Background(), GeneratePlanInput{OwnerID: ownerID, GoalID: g.ID})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrSchema))
	assert.Empty(t, planRepo.plans)
}

func TestGeneratePlan_LLMFailureLogged(t *testing.T) {
	ownerID := uuid.New()
	g := testGoal(ownerID)
	planRepo := newMemPlanRepo()
	uc := newTestUseCase(g, &stubLLM{err: errors.New("model overloaded")}, planRepo)

	_, err := uc.Execute(context.Background(), GeneratePlanInput{OwnerID: ownerID, GoalID: g.ID})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrInternal))

	require.Len(t, planRepo.logs, 1)
	assert.False(t, planRepo.logs[0].Succeeded)
	assert.Contains(t, planRepo.logs[0].ErrorMessage, "model overloaded")
}

func TestGeneratePlan_UnknownGoal(t *testing.T) {
	ownerID := uuid.New()
	uc := newTestUseCase(testGoal(ownerID), &stubLLM{}, newMemPlanRepo())

	_, err := uc.Execute(context.Background(), GeneratePlanInput{OwnerID: ownerID, GoalID: uuid.New()})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestExpandPlan_CreatesTwelveExecutions(t *testing.T) {
	ownerID := uuid.New()
	planRepo := newMemPlanRepo()

	weeks := make([]plan.WeeklyPlan, 12)
	for i := range weeks {
		weeks[i] = plan.WeeklyPlan{WeekNumber: i + 1, FocusAreas: []string{"study"}, Tasks: "read"}
	}
	p := &plan.CareerPlan{ID: uuid.New(), OwnerID: ownerID, WeeklyPlans: weeks}
	require.NoError(t, planRepo.SavePlan(context.Background(), p))

	uc := NewExpandPlanUseCase(planRepo, logger.NewNopLogger())
	require.NoError(t, uc.Execute(context.Background(), p.ID, ownerID))

	require.Len(t, planRepo.executions, 12)
	assert.Equal(t, 1, planRepo.executions[0].WeekNumber)
	assert.False(t, planRepo.executions[0].IsCompleted)
}
