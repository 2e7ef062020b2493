package importing

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/career-planner/adapters/event"
	"github.com/khoahotran/career-planner/internal/domain/importrec"
	"github.com/khoahotran/career-planner/internal/domain/skill"
	"github.com/khoahotran/career-planner/pkg/apperror"
	"github.com/khoahotran/career-planner/pkg/logger"
)

type memSkillRepo struct {
	mu     sync.Mutex
	skills map[string]*skill.Skill
}

func newMemSkillRepo() *memSkillRepo {
	return &memSkillRepo{skills: make(map[string]*skill.Skill)}
}

func (r *memSkillRepo) Save(ctx context.Context, s *skill.Skill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.skills[strings.ToLower(s.SkillName)] = &cp
	return nil
}

func (r *memSkillRepo) Update(ctx context.Context, s *skill.Skill) error {
	return r.Save(ctx, s)
}

func (r *memSkillRepo) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	return nil
}

func (r *memSkillRepo) FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*skill.Skill, error) {
	return nil, apperror.NewNotFound("skill", id.String())
}

func (r *memSkillRepo) FindByName(ctx context.Context, ownerID uuid.UUID, skillName string) (*skill.Skill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.skills[strings.ToLower(skillName)]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, apperror.NewNotFound("skill", skillName)
}

func (r *memSkillRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, category string, limit, offset int) ([]*skill.Skill, error) {
	return nil, nil
}

type memImportRepo struct {
	mu      sync.Mutex
	jobs    map[uuid.UUID]*importrec.ImportJob
	results map[uuid.UUID]*importrec.ImportResult
}

func newMemImportRepo() *memImportRepo {
	return &memImportRepo{
		jobs:    make(map[uuid.UUID]*importrec.ImportJob),
		results: make(map[uuid.UUID]*importrec.ImportResult),
	}
}

func (r *memImportRepo) SaveJob(ctx context.Context, job *importrec.ImportJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *memImportRepo) UpdateJobStatus(ctx context.Context, id uuid.UUID, status importrec.JobStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return apperror.NewNotFound("import job", id.String())
	}
	job.Status = status
	job.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memImportRepo) FindJobByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*importrec.ImportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok && job.OwnerID == ownerID {
		cp := *job
		return &cp, nil
	}
	return nil, apperror.NewNotFound("import job", id.String())
}

func (r *memImportRepo) ListJobsByOwner(ctx context.Context, ownerID uuid.UUID, importType importrec.ImportType, limit, offset int) ([]*importrec.ImportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*importrec.ImportJob
	for _, job := range r.jobs {
		if job.OwnerID == ownerID && (importType == "" || job.ImportType == importType) {
			cp := *job
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memImportRepo) SaveResult(ctx context.Context, result *importrec.ImportResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *result
	r.results[result.JobID] = &cp
	return nil
}

func (r *memImportRepo) FindResultByJobID(ctx context.Context, jobID uuid.UUID) (*importrec.ImportResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res, ok := r.results[jobID]; ok {
		cp := *res
		return &cp, nil
	}
	return nil, apperror.NewNotFound("import result", jobID.String())
}

type memRespStore struct {
	mu    sync.Mutex
	files map[string]any
}

func newMemRespStore() *memRespStore {
	return &memRespStore{files: make(map[string]any)}
}

func (s *memRespStore) WriteJSON(ctx context.Context, fileName string, payload any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[fileName] = payload
	return fileName, nil
}

func (s *memRespStore) WriteCSV(ctx context.Context, fileName string, header []string, rows [][]string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[fileName] = rows
	return fileName, nil
}

func (s *memRespStore) WriteExcel(ctx context.Context, fileName string, sheet string, header []string, rows [][]string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[fileName] = rows
	return fileName, nil
}

func testKafkaClient() *event.KafkaProducerClient {
	return &event.KafkaProducerClient{
		ImportEventsWriter: &kafka.Writer{Addr: kafka.TCP("localhost:1"), Topic: event.TopicImportEvents},
		PlanEventsWriter:   &kafka.Writer{Addr: kafka.TCP("localhost:1"), Topic: event.TopicPlanEvents},
	}
}

func newImportUseCase(skillRepo *memSkillRepo, importRepo *memImportRepo, store *memRespStore) *RunImportUseCase {
	return NewRunImportUseCase(
		skillRepo, nil, nil, nil, nil,
		importRepo, store, nil, testKafkaClient(), "backups/responses",
		logger.NewNopLogger(),
	)
}

func TestRunImport_SkillsCSV_Success(t *testing.T) {
	skillRepo := newMemSkillRepo()
	importRepo := newMemImportRepo()
	store := newMemRespStore()
	uc := newImportUseCase(skillRepo, importRepo, store)

	csv := "skill_name,category,proficiency_level,years_of_experience\n" +
		"Go,technical,4,3\n" +
		"Kafka,tool,3,2\n"

	ownerID := uuid.New()
	out, err := uc.Execute(context.Background(), RunImportInput{
		OwnerID:    ownerID,
		ImportType: importrec.TypeSkills,
		FileType:   importrec.FileCSV,
		FileName:   "skills.csv",
		SkipErrors: true,
		File:       strings.NewReader(csv),
	})
	require.NoError(t, err)

	assert.Equal(t, importrec.OutcomeSuccess, out.Outcome)
	assert.Equal(t, 2, out.ProcessedCount)
	assert.Equal(t, 0, out.ErrorCount)
	assert.Contains(t, out.ResponseFile, "bulk_import_response_"+ownerID.String()+"_skills_")

	job, err := importRepo.FindJobByID(context.Background(), out.JobID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, importrec.StatusCompleted, job.Status)

	_, ok := store.files[out.ResponseFile]
	assert.True(t, ok)
}

func TestRunImport_SkipErrorsRecordsRowErrors(t *testing.T) {
	uc := newImportUseCase(newMemSkillRepo(), newMemImportRepo(), newMemRespStore())

	csv := "skill_name,category,proficiency_level\n" +
		"Go,technical,4\n" +
		",technical,4\n" +
		"SQL,technical,9\n"

	out, err := uc.Execute(context.Background(), RunImportInput{
		OwnerID:    uuid.New(),
		ImportType: importrec.TypeSkills,
		FileType:   importrec.FileCSV,
		FileName:   "skills.csv",
		SkipErrors: true,
		File:       strings.NewReader(csv),
	})
	require.NoError(t, err)

	assert.Equal(t, importrec.OutcomeSuccess, out.Outcome)
	assert.Equal(t, 1, out.ProcessedCount)
	assert.Equal(t, 2, out.SkippedCount)
	assert.Equal(t, 2, out.ErrorCount)
	require.Len(t, out.Errors, 2)
	assert.Equal(t, 2, out.Errors[0].RowIndex)
	assert.Equal(t, 3, out.Errors[1].RowIndex)
}

func TestRunImport_FailFastAbortsButKeepsCommittedRows(t *testing.T) {
	skillRepo := newMemSkillRepo()
	importRepo := newMemImportRepo()
	uc := newImportUseCase(skillRepo, importRepo, newMemRespStore())

	csv := "skill_name,category,proficiency_level\n" +
		"Go,technical,4\n" +
		"Bad,wizardry,4\n" +
		"SQL,technical,3\n"

	ownerID := uuid.New()
	out, err := uc.Execute(context.Background(), RunImportInput{
		OwnerID:    ownerID,
		ImportType: importrec.TypeSkills,
		FileType:   importrec.FileCSV,
		FileName:   "skills.csv",
		SkipErrors: false,
		File:       strings.NewReader(csv),
	})
	require.NoError(t, err)

	assert.Equal(t, importrec.OutcomeAborted, out.Outcome)
	assert.Equal(t, 1, out.ProcessedCount)

	// the first row stays committed
	_, err = skillRepo.FindByName(context.Background(), ownerID, "Go")
	assert.NoError(t, err)
	// the row after the failure was never reached
	_, err = skillRepo.FindByName(context.Background(), ownerID, "SQL")
	assert.Error(t, err)

	job, err := importRepo.FindJobByID(context.Background(), out.JobID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, importrec.StatusFailed, job.Status)
}

func TestRunImport_OverwriteReplacesExisting(t *testing.T) {
	skillRepo := newMemSkillRepo()
	uc := newImportUseCase(skillRepo, newMemImportRepo(), newMemRespStore())

	ownerID := uuid.New()
	existing := &skill.Skill{
		ID:               uuid.New(),
		OwnerID:          ownerID,
		SkillName:        "Go",
		Category:         skill.CategoryTechnical,
		ProficiencyLevel: 2,
	}
	require.NoError(t, skillRepo.Save(context.Background(), existing))

	csv := "skill_name,category,proficiency_level\nGo,technical,5\n"

	out, err := uc.Execute(context.Background(), RunImportInput{
		OwnerID:    ownerID,
		ImportType: importrec.TypeSkills,
		FileType:   importrec.FileCSV,
		FileName:   "skills.csv",
		Overwrite:  true,
		File:       strings.NewReader(csv),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.ProcessedCount)

	updated, err := skillRepo.FindByName(context.Background(), ownerID, "Go")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, updated.ID)
	assert.Equal(t, 5, updated.ProficiencyLevel)
}

func TestRunImport_DuplicateRejectedWithoutOverwrite(t *testing.T) {
	skillRepo := newMemSkillRepo()
	uc := newImportUseCase(skillRepo, newMemImportRepo(), newMemRespStore())

	ownerID := uuid.New()
	require.NoError(t, skillRepo.Save(context.Background(), &skill.Skill{
		ID:               uuid.New(),
		OwnerID:          ownerID,
		SkillName:        "Go",
		Category:         skill.CategoryTechnical,
		ProficiencyLevel: 2,
	}))

	csv := "skill_name,category,proficiency_level\nGo,technical,5\n"

	out, err := uc.Execute(context.Background(), RunImportInput{
		OwnerID:    ownerID,
		ImportType: importrec.TypeSkills,
		FileType:   importrec.FileCSV,
		FileName:   "skills.csv",
		SkipErrors: true,
		File:       strings.NewReader(csv),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, out.ProcessedCount)
	assert.Equal(t, 1, out.SkippedCount)
	assert.Equal(t, 1, out.ErrorCount)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "skill_name", out.Errors[0].Field)
	assert.Equal(t, "duplicate", out.Errors[0].Message)

	kept, err := skillRepo.FindByName(context.Background(), ownerID, "Go")
	require.NoError(t, err)
	assert.Equal(t, 2, kept.ProficiencyLevel)
}

func TestRunImport_DuplicateAbortsWhenErrorsNotSkipped(t *testing.T) {
	skillRepo := newMemSkillRepo()
	uc := newImportUseCase(skillRepo, newMemImportRepo(), newMemRespStore())

	csv := "skill_name,category,proficiency_level,years_of_experience\n" +
		"Python,language,4,3\n" +
		"JavaScript,language,3,2\n"

	ownerID := uuid.New()
	first, err := uc.Execute(context.Background(), RunImportInput{
		OwnerID:    ownerID,
		ImportType: importrec.TypeSkills,
		FileType:   importrec.FileCSV,
		FileName:   "skills.csv",
		File:       strings.NewReader(csv),
	})
	require.NoError(t, err)
	assert.Equal(t, importrec.OutcomeSuccess, first.Outcome)
	assert.Equal(t, 2, first.ProcessedCount)
	assert.Equal(t, 0, first.ErrorCount)

	second, err := uc.Execute(context.Background(), RunImportInput{
		OwnerID:    ownerID,
		ImportType: importrec.TypeSkills,
		FileType:   importrec.FileCSV,
		FileName:   "skills.csv",
		File:       strings.NewReader(csv),
	})
	require.NoError(t, err)
	assert.False(t, second.Success)
	assert.Equal(t, importrec.OutcomeAborted, second.Outcome)
	assert.Equal(t, 0, second.ProcessedCount)
	assert.Equal(t, 1, second.ErrorCount)
	require.Len(t, second.Errors, 1)
	assert.Equal(t, 1, second.Errors[0].RowIndex)
	assert.Equal(t, "skill_name", second.Errors[0].Field)
	assert.Equal(t, "duplicate", second.Errors[0].Message)
}

func TestRunImport_UnparseableFileFailsJob(t *testing.T) {
	importRepo := newMemImportRepo()
	uc := newImportUseCase(newMemSkillRepo(), importRepo, newMemRespStore())

	_, err := uc.Execute(context.Background(), RunImportInput{
		OwnerID:    uuid.New(),
		ImportType: importrec.TypeSkills,
		FileType:   importrec.FileJSON,
		FileName:   "skills.json",
		File:       strings.NewReader("{{{not json"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrUnsupportedFormat))

	for _, job := range importRepo.jobs {
		assert.Equal(t, importrec.StatusFailed, job.Status)
	}
}

func TestRunImport_RejectsUnknownTypes(t *testing.T) {
	uc := newImportUseCase(newMemSkillRepo(), newMemImportRepo(), newMemRespStore())

	_, err := uc.Execute(context.Background(), RunImportInput{
		OwnerID:    uuid.New(),
		ImportType: "hobbies",
		FileType:   importrec.FileCSV,
		File:       strings.NewReader(""),
	})
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))

	_, err = uc.Execute(context.Background(), RunImportInput{
		OwnerID:    uuid.New(),
		ImportType: importrec.TypeSkills,
		FileType:   "xml",
		File:       strings.NewReader(""),
	})
	assert.True(t, errors.Is(err, apperror.ErrUnsupportedFormat))
}
