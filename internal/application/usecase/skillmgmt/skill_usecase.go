package skillmgmt

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/career-planner/internal/domain/skill"
	"github.com/khoahotran/career-planner/pkg/apperror"
	"github.com/khoahotran/career-planner/pkg/logger"
)

type SkillUseCase struct {
	skillRepo skill.Repository
	logger    logger.Logger
}

func NewSkillUseCase(repo skill.Repository, log logger.Logger) *SkillUseCase {
	return &SkillUseCase{skillRepo: repo, logger: log}
}

type CreateSkillInput struct {
	OwnerID           uuid.UUID
	SkillName         string
	Category          string
	ProficiencyLevel  int
	YearsOfExperience int
}

func (uc *SkillUseCase) ExecuteCreate(ctx context.Context, input CreateSkillInput) (*skill.Skill, error) {
	now := time.Now().UTC()
	s := &skill.Skill{
		ID:                uuid.New(),
		OwnerID:           input.OwnerID,
		SkillName:         input.SkillName,
		Category:          input.Category,
		ProficiencyLevel:  input.ProficiencyLevel,
		YearsOfExperience: input.YearsOfExperience,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("validation failed", err)
	}

	existing, err := uc.skillRepo.FindByName(ctx, input.OwnerID, input.SkillName)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflict("skill", "skill_name", input.SkillName)
	}

	if err := uc.skillRepo.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

type UpdateSkillInput struct {
	ID                uuid.UUID
	OwnerID           uuid.UUID
	SkillName         string
	Category          string
	ProficiencyLevel  int
	YearsOfExperience int
}

func (uc *SkillUseCase) ExecuteUpdate(ctx context.Context, input UpdateSkillInput) (*skill.Skill, error) {
	existing, err := uc.skillRepo.FindByID(ctx, input.ID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	existing.SkillName = input.SkillName
	existing.Category = input.Category
	existing.ProficiencyLevel = input.ProficiencyLevel
	existing.YearsOfExperience = input.YearsOfExperience
	existing.UpdatedAt = time.Now().UTC()

	if err := existing.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("validation failed", err)
	}
	if err := uc.skillRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (uc *SkillUseCase) ExecuteGet(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*skill.Skill, error) {
	return uc.skillRepo.FindByID(ctx, id, ownerID)
}

func (uc *SkillUseCase) ExecuteList(ctx context.Context, ownerID uuid.UUID, category string, limit, offset int) ([]*skill.Skill, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return uc.skillRepo.ListByOwner(ctx, ownerID, category, limit, offset)
}

func (uc *SkillUseCase) ExecuteDelete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	return uc.skillRepo.Delete(ctx, id, ownerID)
}
