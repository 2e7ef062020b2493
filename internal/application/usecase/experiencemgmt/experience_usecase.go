package experiencemgmt

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/career-planner/internal/domain/experience"
	"github.com/khoahotran/career-planner/pkg/apperror"
	"github.com/khoahotran/career-planner/pkg/logger"
)

type ExperienceUseCase struct {
	expRepo experience.Repository
	logger  logger.Logger
}

func NewExperienceUseCase(repo experience.Repository, log logger.Logger) *ExperienceUseCase {
	return &ExperienceUseCase{expRepo: repo, logger: log}
}

type ExperienceInput struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Company      string
	Position     string
	StartDate    time.Time
	EndDate      *time.Time
	IsCurrent    bool
	Description  string
	Achievements string
}

func (uc *ExperienceUseCase) ExecuteCreate(ctx context.Context, input ExperienceInput) (*experience.Experience, error) {
	now := time.Now().UTC()
	we := &experience.Experience{
		ID:           uuid.New(),
		OwnerID:      input.OwnerID,
		Company:      input.Company,
		Position:     input.Position,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		IsCurrent:    input.IsCurrent,
		Description:  input.Description,
		Achievements: input.Achievements,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := we.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("validation failed", err)
	}

	existing, err := uc.expRepo.FindByKey(ctx, input.OwnerID, input.Company, input.Position)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflict("work experience", "position", input.Position)
	}

	if err := uc.expRepo.Save(ctx, we); err != nil {
		return nil, err
	}
	return we, nil
}

func (uc *ExperienceUseCase) ExecuteUpdate(ctx context.Context, input ExperienceInput) (*experience.Experience, error) {
	existing, err := uc.expRepo.FindByID(ctx, input.ID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	existing.Company = input.Company
	existing.Position = input.Position
	existing.StartDate = input.StartDate
	existing.EndDate = input.EndDate
	existing.IsCurrent = input.IsCurrent
	existing.Description = input.Description
	existing.Achievements = input.Achievements
	existing.UpdatedAt = time.Now().UTC()

	if err := existing.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("validation failed", err)
	}
	if err := uc.expRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (uc *ExperienceUseCase) ExecuteGet(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*experience.Experience, error) {
	return uc.expRepo.FindByID(ctx, id, ownerID)
}

func (uc *ExperienceUseCase) ExecuteList(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*experience.Experience, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return uc.expRepo.ListByOwner(ctx, ownerID, limit, offset)
}

func (uc *ExperienceUseCase) ExecuteDelete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	return uc.expRepo.Delete(ctx, id, ownerID)
}
