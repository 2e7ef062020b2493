package importing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/career-planner/adapters/event"
	"github.com/khoahotran/career-planner/adapters/fileformat"
	"github.com/khoahotran/career-planner/internal/application/service"
	"github.com/khoahotran/career-planner/internal/domain/education"
	"github.com/khoahotran/career-planner/internal/domain/experience"
	"github.com/khoahotran/career-planner/internal/domain/goal"
	"github.com/khoahotran/career-planner/internal/domain/importrec"
	"github.com/khoahotran/career-planner/internal/domain/profile"
	"github.com/khoahotran/career-planner/internal/domain/skill"
	"github.com/khoahotran/career-planner/pkg/apperror"
	"github.com/khoahotran/career-planner/pkg/logger"
)

var tracer = otel.Tracer("import_usecase")

type RunImportUseCase struct {
	skillRepo     skill.Repository
	eduRepo       education.Repository
	expRepo       experience.Repository
	goalRepo      goal.Repository
	profileRepo   profile.Repository
	importRepo    importrec.Repository
	respStore     service.ResponseStore
	uploader      service.Uploader
	kafkaClient   *event.KafkaProducerClient
	offsiteFolder string
	logger        logger.Logger
}

func NewRunImportUseCase(
	sRepo skill.Repository,
	eRepo education.Repository,
	weRepo experience.Repository,
	gRepo goal.Repository,
	pRepo profile.Repository,
	iRepo importrec.Repository,
	respStore service.ResponseStore,
	uploader service.Uploader,
	kClient *event.KafkaProducerClient,
	offsiteFolder string,
	log logger.Logger,
) *RunImportUseCase {
	return &RunImportUseCase{
		skillRepo:     sRepo,
		eduRepo:       eRepo,
		expRepo:       weRepo,
		goalRepo:      gRepo,
		profileRepo:   pRepo,
		importRepo:    iRepo,
		respStore:     respStore,
		uploader:      uploader,
		kafkaClient:   kClient,
		offsiteFolder: offsiteFolder,
		logger:        log,
	}
}

type RunImportInput struct {
	OwnerID    uuid.UUID
	ImportType importrec.ImportType
	FileType   importrec.FileType
	FileName   string
	SkipErrors bool
	Overwrite  bool
	File       io.Reader
}

type RunImportOutput struct {
	JobID          uuid.UUID            `json:"job_id"`
	ImportType     importrec.ImportType `json:"import_type"`
	FileName       string               `json:"file_name"`
	Success        bool                 `json:"success"`
	Outcome        importrec.Outcome    `json:"outcome"`
	ProcessedCount int                  `json:"processed"`
	SkippedCount   int                  `json:"skipped"`
	ErrorCount     int                  `json:"error_count"`
	Errors         []importrec.RowError `json:"errors"`
	ResponseFile   string               `json:"file_path"`
	CreatedAt      time.Time            `json:"created_at"`
}

func (uc *RunImportUseCase) Execute(ctx context.Context, input RunImportInput) (*RunImportOutput, error) {
	ctx, span := tracer.Start(ctx, "RunImport")
	defer span.End()
	span.SetAttributes(
		attribute.String("import_type", string(input.ImportType)),
		attribute.String("file_type", string(input.FileType)),
	)

	if !input.ImportType.Valid() {
		return nil, apperror.NewInvalidInput("import_type must be one of skills, education, experience, goals, profile", nil)
	}
	if !input.FileType.Valid() {
		return nil, apperror.NewUnsupportedFormat("file_type must be one of csv, excel, json", nil)
	}

	reader, err := fileformat.NewReader(input.FileType)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &importrec.ImportJob{
		ID:         uuid.New(),
		OwnerID:    input.OwnerID,
		ImportType: input.ImportType,
		FileType:   input.FileType,
		FileName:   input.FileName,
		Status:     importrec.StatusPending,
		SkipErrors: input.SkipErrors,
		Overwrite:  input.Overwrite,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.importRepo.SaveJob(ctx, job); err != nil {
		return nil, err
	}

	if err := uc.importRepo.UpdateJobStatus(ctx, job.ID, importrec.StatusValidating); err != nil {
		return nil, err
	}

	rows, err := reader.Parse(input.File)
	if err != nil {
		uc.failJob(ctx, job.ID)
		span.RecordError(err)
		return nil, err
	}

	summary := uc.executeByType(ctx, input, rows)

	outcome := importrec.OutcomeSuccess
	status := importrec.StatusCompleted
	if summary.Aborted {
		outcome = importrec.OutcomeAborted
		status = importrec.StatusFailed
	}
	if err := uc.importRepo.UpdateJobStatus(ctx, job.ID, status); err != nil {
		uc.logger.Error("Failed to update import job status", err, zap.String("job_id", job.ID.String()))
	}

	output := &RunImportOutput{
		JobID:          job.ID,
		ImportType:     input.ImportType,
		FileName:       input.FileName,
		Success:        outcome == importrec.OutcomeSuccess,
		Outcome:        outcome,
		ProcessedCount: summary.Processed,
		SkippedCount:   summary.Skipped,
		ErrorCount:     summary.ErrorCount,
		Errors:         summary.RowErrors,
		CreatedAt:      now,
	}
	if output.Errors == nil {
		output.Errors = []importrec.RowError{}
	}

	responseFile := fmt.Sprintf("bulk_import_response_%s_%s_%s.json",
		input.OwnerID.String(), input.ImportType, now.Format("20060102_150405"))
	written, err := uc.respStore.WriteJSON(ctx, responseFile, output)
	if err != nil {
		uc.logger.Error("Failed to write import response file", err, zap.String("job_id", job.ID.String()))
	} else {
		output.ResponseFile = written
		uc.copyOffsite(written, output)
	}

	result := &importrec.ImportResult{
		ID:             uuid.New(),
		JobID:          job.ID,
		Outcome:        outcome,
		ProcessedCount: summary.Processed,
		SkippedCount:   summary.Skipped,
		ErrorCount:     summary.ErrorCount,
		RowErrors:      output.Errors,
		ResponseFile:   output.ResponseFile,
		CreatedAt:      time.Now().UTC(),
	}
	if err := uc.importRepo.SaveResult(ctx, result); err != nil {
		uc.logger.Error("Failed to save import result", err, zap.String("job_id", job.ID.String()))
		return nil, err
	}

	go func() {
		eventType := event.ImportEventTypeCompleted
		if summary.Aborted {
			eventType = event.ImportEventTypeFailed
		}
		err := uc.kafkaClient.PublishImportEvent(context.Background(), event.ImportEventPayload{
			EventType:      eventType,
			JobID:          job.ID,
			OwnerID:        input.OwnerID,
			ImportType:     string(input.ImportType),
			Outcome:        string(outcome),
			ProcessedCount: summary.Processed,
			SkippedCount:   summary.Skipped,
			ErrorCount:     summary.ErrorCount,
			OccurredAt:     time.Now().UTC(),
		})
		if err != nil {
			uc.logger.Error("Failed to publish Kafka import event", err, zap.String("job_id", job.ID.String()))
		}
	}()

	return output, nil
}

func (uc *RunImportUseCase) failJob(ctx context.Context, jobID uuid.UUID) {
	if err := uc.importRepo.UpdateJobStatus(ctx, jobID, importrec.StatusFailed); err != nil {
		uc.logger.Error("Failed to mark import job as failed", err, zap.String("job_id", jobID.String()))
	}
}

func (uc *RunImportUseCase) executeByType(ctx context.Context, input RunImportInput, rows []fileformat.Row) Summary {
	switch input.ImportType {
	case importrec.TypeSkills:
		return executeRows(ctx, rows, mapSkillRow, uc.applySkill(input.OwnerID, input.Overwrite), input.SkipErrors)
	case importrec.TypeEducation:
		return executeRows(ctx, rows, mapEducationRow, uc.applyEducation(input.OwnerID, input.Overwrite), input.SkipErrors)
	case importrec.TypeExperience:
		return executeRows(ctx, rows, mapExperienceRow, uc.applyExperience(input.OwnerID, input.Overwrite), input.SkipErrors)
	case importrec.TypeGoals:
		return executeRows(ctx, rows, mapGoalRow, uc.applyGoal(input.OwnerID, input.Overwrite), input.SkipErrors)
	case importrec.TypeProfile:
		return executeRows(ctx, rows, mapProfileRow, uc.applyProfile(input.OwnerID), input.SkipErrors)
	}
	return Summary{}
}

func (uc *RunImportUseCase) applySkill(ownerID uuid.UUID, overwrite bool) applyFunc[*skill.Skill] {
	return func(ctx context.Context, s *skill.Skill) error {
		existing, err := uc.skillRepo.FindByName(ctx, ownerID, s.SkillName)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		now := time.Now().UTC()
		s.OwnerID = ownerID
		s.UpdatedAt = now
		if existing != nil {
			if !overwrite {
				return &duplicateKeyError{field: "skill_name"}
			}
			s.ID = existing.ID
			s.CreatedAt = existing.CreatedAt
			return uc.skillRepo.Update(ctx, s)
		}
		s.ID = uuid.New()
		s.CreatedAt = now
		return uc.skillRepo.Save(ctx, s)
	}
}

func (uc *RunImportUseCase) applyEducation(ownerID uuid.UUID, overwrite bool) applyFunc[*education.Education] {
	return func(ctx context.Context, e *education.Education) error {
		existing, err := uc.eduRepo.FindByKey(ctx, ownerID, e.Institution, e.Degree, e.StartDate)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		now := time.Now().UTC()
		e.OwnerID = ownerID
		e.UpdatedAt = now
		if existing != nil {
			if !overwrite {
				return &duplicateKeyError{field: "institution"}
			}
			e.ID = existing.ID
			e.CreatedAt = existing.CreatedAt
			return uc.eduRepo.Update(ctx, e)
		}
		e.ID = uuid.New()
		e.CreatedAt = now
		return uc.eduRepo.Save(ctx, e)
	}
}

func (uc *RunImportUseCase) applyExperience(ownerID uuid.UUID, overwrite bool) applyFunc[*experience.Experience] {
	return func(ctx context.Context, we *experience.Experience) error {
		existing, err := uc.expRepo.FindByKey(ctx, ownerID, we.Company, we.Position)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		now := time.Now().UTC()
		we.OwnerID = ownerID
		we.UpdatedAt = now
		if existing != nil {
			if !overwrite {
				return &duplicateKeyError{field: "company"}
			}
			we.ID = existing.ID
			we.CreatedAt = existing.CreatedAt
			return uc.expRepo.Update(ctx, we)
		}
		we.ID = uuid.New()
		we.CreatedAt = now
		return uc.expRepo.Save(ctx, we)
	}
}

func (uc *RunImportUseCase) applyGoal(ownerID uuid.UUID, overwrite bool) applyFunc[*goal.Goal] {
	return func(ctx context.Context, g *goal.Goal) error {
		existing, err := uc.goalRepo.FindByTitle(ctx, ownerID, g.Title)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		now := time.Now().UTC()
		g.OwnerID = ownerID
		g.UpdatedAt = now
		if existing != nil {
			if !overwrite {
				return &duplicateKeyError{field: "title"}
			}
			g.ID = existing.ID
			g.CreatedAt = existing.CreatedAt
			return uc.goalRepo.Update(ctx, g)
		}
		g.ID = uuid.New()
		g.CreatedAt = now
		return uc.goalRepo.Save(ctx, g)
	}
}

// applyProfile always upserts: the profile is a singleton per owner,
// so an import row replaces whatever is there.
func (uc *RunImportUseCase) applyProfile(ownerID uuid.UUID) applyFunc[*profile.Profile] {
	return func(ctx context.Context, p *profile.Profile) error {
		p.OwnerID = ownerID
		p.UpdatedAt = time.Now().UTC()
		return uc.profileRepo.Upsert(ctx, p)
	}
}

func (uc *RunImportUseCase) copyOffsite(filePath string, payload any) {
	if uc.uploader == nil {
		return
	}
	go func() {
		data, err := json.Marshal(payload)
		if err != nil {
			uc.logger.Error("Failed to marshal response for offsite copy", err)
			return
		}
		publicID := fmt.Sprintf("%s/%s", uc.offsiteFolder, filepath.Base(filePath))
		if _, err := uc.uploader.Upload(context.Background(), bytes.NewReader(data), uc.offsiteFolder, publicID); err != nil {
			uc.logger.Error("Failed to upload response copy to Cloudinary", err, zap.String("file", filePath))
		}
	}()
}
