package importing

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/khoahotran/career-planner/internal/domain/importrec"
	"github.com/khoahotran/career-planner/pkg/apperror"
	"github.com/khoahotran/career-planner/pkg/logger"
)

type ListImportsUseCase struct {
	importRepo importrec.Repository
	logger     logger.Logger
}

func NewListImportsUseCase(repo importrec.Repository, log logger.Logger) *ListImportsUseCase {
	return &ListImportsUseCase{importRepo: repo, logger: log}
}

type ListImportsInput struct {
	OwnerID    uuid.UUID
	ImportType importrec.ImportType
	Limit      int
	Offset     int
}

type ImportHistoryEntry struct {
	Job    *importrec.ImportJob    `json:"job"`
	Result *importrec.ImportResult `json:"result,omitempty"`
}

func (uc *ListImportsUseCase) Execute(ctx context.Context, input ListImportsInput) ([]ImportHistoryEntry, error) {
	if input.ImportType != "" && !input.ImportType.Valid() {
		return nil, apperror.NewInvalidInput("unknown import_type filter", nil)
	}
	if input.Limit <= 0 || input.Limit > 100 {
		input.Limit = 20
	}

	jobs, err := uc.importRepo.ListJobsByOwner(ctx, input.OwnerID, input.ImportType, input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	entries := make([]ImportHistoryEntry, 0, len(jobs))
	for _, job := range jobs {
		entry := ImportHistoryEntry{Job: job}
		result, err := uc.importRepo.FindResultByJobID(ctx, job.ID)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		entry.Result = result
		entries = append(entries, entry)
	}
	return entries, nil
}

type GetImportUseCase struct {
	importRepo importrec.Repository
}

func NewGetImportUseCase(repo importrec.Repository) *GetImportUseCase {
	return &GetImportUseCase{importRepo: repo}
}

func (uc *GetImportUseCase) Execute(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*ImportHistoryEntry, error) {
	job, err := uc.importRepo.FindJobByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	result, err := uc.importRepo.FindResultByJobID(ctx, job.ID)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	return &ImportHistoryEntry{Job: job, Result: result}, nil
}
