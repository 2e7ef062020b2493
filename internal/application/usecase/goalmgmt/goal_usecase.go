package goalmgmt

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/career-planner/internal/domain/goal"
	"github.com/khoahotran/career-planner/pkg/apperror"
	"github.com/khoahotran/career-planner/pkg/logger"
)

type GoalUseCase struct {
	goalRepo goal.Repository
	logger   logger.Logger
}

func NewGoalUseCase(repo goal.Repository, log logger.Logger) *GoalUseCase {
	return &GoalUseCase{goalRepo: repo, logger: log}
}

type GoalInput struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	Description string
	TargetDate  *time.Time
	Priority    string
	Status      string
}

func (uc *GoalUseCase) ExecuteCreate(ctx context.Context, input GoalInput) (*goal.Goal, error) {
	if input.Priority == "" {
		input.Priority = goal.PriorityMedium
	}
	if input.Status == "" {
		input.Status = goal.StatusNotStarted
	}

	now := time.Now().UTC()
	g := &goal.Goal{
		ID:          uuid.New(),
		OwnerID:     input.OwnerID,
		Title:       input.Title,
		Description: input.Description,
		TargetDate:  input.TargetDate,
		Priority:    input.Priority,
		Status:      input.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := g.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("validation failed", err)
	}

	existing, err := uc.goalRepo.FindByTitle(ctx, input.OwnerID, input.Title)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflict("career goal", "title", input.Title)
	}

	if err := uc.goalRepo.Save(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (uc *GoalUseCase) ExecuteUpdate(ctx context.Context, input GoalInput) (*goal.Goal, error) {
	existing, err := uc.goalRepo.FindByID(ctx, input.ID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	existing.Title = input.Title
	existing.Description = input.Description
	existing.TargetDate = input.TargetDate
	if input.Priority != "" {
		existing.Priority = input.Priority
	}
	if input.Status != "" {
		existing.Status = input.Status
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := existing.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("validation failed", err)
	}
	if err := uc.goalRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (uc *GoalUseCase) ExecuteGet(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*goal.Goal, error) {
	return uc.goalRepo.FindByID(ctx, id, ownerID)
}

func (uc *GoalUseCase) ExecuteList(ctx context.Context, ownerID uuid.UUID, status string, limit, offset int) ([]*goal.Goal, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return uc.goalRepo.ListByOwner(ctx, ownerID, status, limit, offset)
}

func (uc *GoalUseCase) ExecuteDelete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	return uc.goalRepo.Delete(ctx, id, ownerID)
}
