package planning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

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

var tracer = otel.Tracer("planning_usecase")

type GeneratePlanUseCase struct {
	goalRepo    goal.Repository
	skillRepo   skill.Repository
	expRepo     experience.Repository
	profileRepo profile.Repository
	planRepo    plan.Repository
	llm         service.LLMService
	respStore   service.ResponseStore
	kafkaClient *event.KafkaProducerClient
	llmTimeout  time.Duration
	logger      logger.Logger
}

func NewGeneratePlanUseCase(
	gRepo goal.Repository,
	sRepo skill.Repository,
	weRepo experience.Repository,
	pRepo profile.Repository,
	planRepo plan.Repository,
	llm service.LLMService,
	respStore service.ResponseStore,
	kClient *event.KafkaProducerClient,
	llmTimeout time.Duration,
	log logger.Logger,
) *GeneratePlanUseCase {
	return &GeneratePlanUseCase{
		goalRepo:    gRepo,
		skillRepo:   sRepo,
		expRepo:     weRepo,
		profileRepo: pRepo,
		planRepo:    planRepo,
		llm:         llm,
		respStore:   respStore,
		kafkaClient: kClient,
		llmTimeout:  llmTimeout,
		logger:      log,
	}
}

type GeneratePlanInput struct {
	OwnerID uuid.UUID
	GoalID  uuid.UUID
}

// planResponse mirrors the JSON document the model is instructed to
// return. goal_id is echoed back so a response for the wrong goal can
// be rejected.
type planResponse struct {
	GoalID          string            `json:"goal_id"`
	PlanDescription string            `json:"plan_description"`
	Blockers        []string          `json:"blockers"`
	Milestones      []plan.Milestone  `json:"milestones"`
	WeeklyPlans     []plan.WeeklyPlan `json:"weekly_plans"`
}

var requiredPlanKeys = []string{"goal_id", "plan_description", "blockers", "milestones", "weekly_plans"}

func (uc *GeneratePlanUseCase) Execute(ctx context.Context, input GeneratePlanInput) (*plan.CareerPlan, error) {
	ctx, span := tracer.Start(ctx, "GeneratePlan")
	defer span.End()
	span.SetAttributes(attribute.String("goal_id", input.GoalID.String()))

	g, err := uc.goalRepo.FindByID(ctx, input.GoalID, input.OwnerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	prompt, err := uc.buildPrompt(ctx, input.OwnerID, g)
	if err != nil {
		return nil, err
	}

	llmCtx, cancel := context.WithTimeout(ctx, uc.llmTimeout)
	defer cancel()

	started := time.Now()
	raw, usage, err := uc.llm.GeneratePlanResponse(llmCtx, prompt)
	elapsed := time.Since(started)

	reqLog := &plan.AIRequestLog{
		ID:           uuid.New(),
		OwnerID:      input.OwnerID,
		GoalID:       input.GoalID,
		Model:        uc.llm.Model(),
		PromptTokens: usage.PromptTokens,
		OutputTokens: usage.OutputTokens,
		DurationMS:   elapsed.Milliseconds(),
		Succeeded:    err == nil,
		CreatedAt:    time.Now().UTC(),
	}
	if err != nil {
		reqLog.ErrorMessage = err.Error()
		uc.saveRequestLog(ctx, reqLog)
		span.RecordError(err)
		return nil, apperror.NewInternal("career plan generation failed", err)
	}

	parsed, err := parsePlanResponse(raw)
	if err != nil {
		reqLog.Succeeded = false
		reqLog.ErrorMessage = err.Error()
		uc.saveRequestLog(ctx, reqLog)
		span.RecordError(err)
		return nil, err
	}

	newPlan := &plan.CareerPlan{
		ID:              uuid.New(),
		OwnerID:         input.OwnerID,
		GoalID:          input.GoalID,
		PlanDescription: parsed.PlanDescription,
		Blockers:        parsed.Blockers,
		Milestones:      parsed.Milestones,
		WeeklyPlans:     parsed.WeeklyPlans,
		CreatedAt:       time.Now().UTC(),
	}
	if err := newPlan.Validate(); err != nil {
		reqLog.Succeeded = false
		reqLog.ErrorMessage = err.Error()
		uc.saveRequestLog(ctx, reqLog)
		return nil, apperror.NewSchema("model returned a malformed career plan", err)
	}

	fileName := fmt.Sprintf("career_plan_response_%s_%s_%s.json",
		input.OwnerID.String(), input.GoalID.String(), time.Now().UTC().Format("20060102_150405"))
	written, err := uc.respStore.WriteJSON(ctx, fileName, newPlan)
	if err != nil {
		uc.logger.Error("Failed to write career plan response file", err, zap.String("plan_id", newPlan.ID.String()))
	} else {
		newPlan.ResponseFile = written
	}

	if err := uc.planRepo.SavePlan(ctx, newPlan); err != nil {
		return nil, err
	}
	uc.saveRequestLog(ctx, reqLog)

	go func() {
		err := uc.kafkaClient.PublishPlanEvent(context.Background(), event.PlanEventPayload{
			EventType:  event.PlanEventTypeGenerated,
			PlanID:     newPlan.ID,
			OwnerID:    input.OwnerID,
			GoalID:     input.GoalID,
			OccurredAt: time.Now().UTC(),
		})
		if err != nil {
			uc.logger.Error("Failed to publish Kafka plan event", err, zap.String("plan_id", newPlan.ID.String()))
		}
	}()

	return newPlan, nil
}

func (uc *GeneratePlanUseCase) saveRequestLog(ctx context.Context, reqLog *plan.AIRequestLog) {
	if err := uc.planRepo.SaveRequestLog(ctx, reqLog); err != nil {
		uc.logger.Error("Failed to save AI request log", err, zap.String("goal_id", reqLog.GoalID.String()))
	}
}

func (uc *GeneratePlanUseCase) buildPrompt(ctx context.Context, ownerID uuid.UUID, g *goal.Goal) (string, error) {
	skills, err := uc.skillRepo.ListByOwner(ctx, ownerID, "", 100, 0)
	if err != nil {
		return "", err
	}
	experiences, err := uc.expRepo.ListByOwner(ctx, ownerID, 100, 0)
	if err != nil {
		return "", err
	}
	p, err := uc.profileRepo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			return "", err
		}
		p = nil
	}

	var b strings.Builder
	b.WriteString("You are a career coach. Build a 12-week career plan for the goal below.\n\n")

	b.WriteString("--- Goal ---\n")
	fmt.Fprintf(&b, "Title: %s\n", g.Title)
	if g.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", g.Description)
	}
	if g.TargetDate != nil {
		fmt.Fprintf(&b, "Target date: %s\n", g.TargetDate.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "Priority: %s\n\n", g.Priority)

	if p != nil {
		b.WriteString("--- Profile ---\n")
		if p.CurrentPosition != "" {
			fmt.Fprintf(&b, "Current position: %s\n", p.CurrentPosition)
		}
		fmt.Fprintf(&b, "Years of experience: %d\n", p.YearsOfExperience)
		if p.Location != "" {
			fmt.Fprintf(&b, "Location: %s\n", p.Location)
		}
		b.WriteString("\n")
	}

	if len(skills) > 0 {
		b.WriteString("--- Skills ---\n")
		for _, s := range skills {
			fmt.Fprintf(&b, "- %s (%s, level %d/5, %d years)\n", s.SkillName, s.Category, s.ProficiencyLevel, s.YearsOfExperience)
		}
		b.WriteString("\n")
	}

	if len(experiences) > 0 {
		b.WriteString("--- Work experience ---\n")
		for _, we := range experiences {
			end := "present"
			if we.EndDate != nil {
				end = we.EndDate.Format("2006-01-02")
			}
			fmt.Fprintf(&b, "- %s at %s (%s to %s)\n", we.Position, we.Company, we.StartDate.Format("2006-01-02"), end)
		}
		b.WriteString("\n")
	}

	b.WriteString("--- Output format ---\n")
	b.WriteString("Respond with a single JSON object and nothing else. Required keys:\n")
	fmt.Fprintf(&b, `{
  "goal_id": "%s",
  "plan_description": "...",
  "blockers": ["..."],
  "milestones": [{"title": "...", "description": "...", "target_quarter": 1, "success_metrics": "..."}],
  "weekly_plans": [{"week_number": 1, "focus_areas": ["..."], "tasks": "..."}]
}`, g.ID.String())
	b.WriteString("\nThe milestones array must contain exactly 4 entries, weekly_plans exactly 12, and each focus_areas list at most 5 entries.")

	return b.String(), nil
}

// parsePlanResponse decodes the model output, tolerating a fenced
// ```json block around the document.
func parsePlanResponse(raw string) (*planResponse, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &keys); err != nil {
		return nil, apperror.NewSchema("model response is not a JSON object", err)
	}
	var missing []string
	for _, k := range requiredPlanKeys {
		if _, ok := keys[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, apperror.NewSchema("model response is missing keys: "+strings.Join(missing, ", "), nil)
	}

	var parsed planResponse
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, apperror.NewSchema("model response fields have unexpected types", err)
	}
	return &parsed, nil
}
