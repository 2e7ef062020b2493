package educationmgmt

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/career-planner/internal/domain/education"
	"github.com/khoahotran/career-planner/pkg/apperror"
	"github.com/khoahotran/career-planner/pkg/logger"
)

type EducationUseCase struct {
	eduRepo education.Repository
	logger  logger.Logger
}

func NewEducationUseCase(repo education.Repository, log logger.Logger) *EducationUseCase {
	return &EducationUseCase{eduRepo: repo, logger: log}
}

type CreateEducationInput struct {
	OwnerID      uuid.UUID
	Institution  string
	Degree       string
	FieldOfStudy string
	StartDate    time.Time
	EndDate      *time.Time
	GPA          *float64
}

func (uc *EducationUseCase) ExecuteCreate(ctx context.Context, input CreateEducationInput) (*education.Education, error) {
	now := time.Now().UTC()
	e := &education.Education{
		ID:           uuid.New(),
		OwnerID:      input.OwnerID,
		Institution:  input.Institution,
		Degree:       input.Degree,
		FieldOfStudy: input.FieldOfStudy,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		GPA:          input.GPA,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := e.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("validation failed", err)
	}

	existing, err := uc.eduRepo.FindByKey(ctx, input.OwnerID, input.Institution, input.Degree, input.StartDate)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflict("education record", "institution", input.Institution)
	}

	if err := uc.eduRepo.Save(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

type UpdateEducationInput struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Institution  string
	Degree       string
	FieldOfStudy string
	StartDate    time.Time
	EndDate      *time.Time
	GPA          *float64
}

func (uc *EducationUseCase) ExecuteUpdate(ctx context.Context, input UpdateEducationInput) (*education.Education, error) {
	existing, err := uc.eduRepo.FindByID(ctx, input.ID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	existing.Institution = input.Institution
	existing.Degree = input.Degree
	existing.FieldOfStudy = input.FieldOfStudy
	existing.StartDate = input.StartDate
	existing.EndDate = input.EndDate
	existing.GPA = input.GPA
	existing.UpdatedAt = time.Now().UTC()

	if err := existing.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("validation failed", err)
	}
	if err := uc.eduRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (uc *EducationUseCase) ExecuteGet(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*education.Education, error) {
	return uc.eduRepo.FindByID(ctx, id, ownerID)
}

func (uc *EducationUseCase) ExecuteList(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*education.Education, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return uc.eduRepo.ListByOwner(ctx, ownerID, limit, offset)
}

func (uc *EducationUseCase) ExecuteDelete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	return uc.eduRepo.Delete(ctx, id, ownerID)
}
