package export

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/career-planner/internal/domain/skill"
	"github.com/khoahotran/career-planner/pkg/apperror"
	"github.com/khoahotran/career-planner/pkg/logger"
)

type stubSkillRepo struct {
	items []*skill.Skill
}

func (r *stubSkillRepo) Save(ctx context.Context, s *skill.Skill) error   { return nil }
func (r *stubSkillRepo) Update(ctx context.Context, s *skill.Skill) error { return nil }
func (r *stubSkillRepo) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	return nil
}
func (r *stubSkillRepo) FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*skill.Skill, error) {
	return nil, apperror.NewNotFound("skill", id.String())
}
func (r *stubSkillRepo) FindByName(ctx context.Context, ownerID uuid.UUID, skillName string) (*skill.Skill, error) {
	return nil, apperror.NewNotFound("skill", skillName)
}
func (r *stubSkillRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, category string, limit, offset int) ([]*skill.Skill, error) {
	return r.items, nil
}

type captureStore struct {
	lastName   string
	lastHeader []string
	lastRows   [][]string
	lastJSON   any
}

func (s *captureStore) WriteJSON(ctx context.Context, fileName string, payload any) (string, error) {
	s.lastName, s.lastJSON = fileName, payload
	return fileName, nil
}

func (s *captureStore) WriteCSV(ctx context.Context, fileName string, header []string, rows [][]string) (string, error) {
	s.lastName, s.lastHeader, s.lastRows = fileName, header, rows
	return fileName, nil
}

func (s *captureStore) WriteExcel(ctx context.Context, fileName string, sheet string, header []string, rows [][]string) (string, error) {
	s.lastName, s.lastHeader, s.lastRows = fileName, header, rows
	return fileName, nil
}

func newExportUseCase(repo skill.Repository, store *captureStore) *ExportUseCase {
	return NewExportUseCase(repo, nil, nil, nil, nil, nil, store, logger.NewNopLogger())
}

func TestExport_SkillsCSV(t *testing.T) {
	repo := &stubSkillRepo{items: []*skill.Skill{
		{SkillName: "Go", Category: "technical", ProficiencyLevel: 4, YearsOfExperience: 3},
		{SkillName: "Kafka", Category: "tool", ProficiencyLevel: 3, YearsOfExperience: 2},
	}}
	store := &captureStore{}
	uc := newExportUseCase(repo, store)

	ownerID := uuid.New()
	out, err := uc.Execute(context.Background(), ExportInput{
		OwnerID:  ownerID,
		Resource: ResourceSkills,
		Format:   FormatCSV,
	})
	require.NoError(t, err)

	pattern := regexp.MustCompile(`^user_skills_` + ownerID.String() + `_\d{8}_\d{6}\.csv$`)
	assert.True(t, pattern.MatchString(out.FileName), out.FileName)
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, FormatCSV, out.Format)

	assert.Equal(t, []string{"skill_name", "category", "proficiency_level", "years_of_experience"}, store.lastHeader)
	require.Len(t, store.lastRows, 2)
	assert.Equal(t, []string{"Go", "technical", "4", "3"}, store.lastRows[0])
}

func TestExport_SkillsJSON(t *testing.T) {
	repo := &stubSkillRepo{items: []*skill.Skill{{SkillName: "Go", Category: "technical", ProficiencyLevel: 4}}}
	store := &captureStore{}
	uc := newExportUseCase(repo, store)

	out, err := uc.Execute(context.Background(), ExportInput{
		OwnerID:  uuid.New(),
		Resource: ResourceSkills,
		Format:   FormatJSON,
	})
	require.NoError(t, err)
	assert.Contains(t, out.FileName, ".json")

	items, ok := store.lastJSON.([]*skill.Skill)
	require.True(t, ok)
	assert.Equal(t, "Go", items[0].SkillName)
}

func TestExport_ExcelExtension(t *testing.T) {
	store := &captureStore{}
	uc := newExportUseCase(&stubSkillRepo{}, store)

	out, err := uc.Execute(context.Background(), ExportInput{
		OwnerID:  uuid.New(),
		Resource: ResourceSkills,
		Format:   FormatExcel,
	})
	require.NoError(t, err)
	assert.Regexp(t, `\.xlsx$`, out.FileName)
}

func TestExport_UnknownResourceAndFormat(t *testing.T) {
	uc := newExportUseCase(&stubSkillRepo{}, &captureStore{})

	_, err := uc.Execute(context.Background(), ExportInput{
		OwnerID:  uuid.New(),
		Resource: "hobbies",
		Format:   FormatJSON,
	})
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))

	_, err = uc.Execute(context.Background(), ExportInput{
		OwnerID:  uuid.New(),
		Resource: ResourceSkills,
		Format:   "xml",
	})
	assert.True(t, errors.Is(err, apperror.ErrUnsupportedFormat))
}

func TestExport_CombinedIsJSONOnly(t *testing.T) {
	uc := newExportUseCase(&stubSkillRepo{}, &captureStore{})

	_, err := uc.Execute(context.Background(), ExportInput{
		OwnerID:  uuid.New(),
		Resource: ResourceAll,
		Format:   FormatCSV,
	})
	assert.True(t, errors.Is(err, apperror.ErrUnsupportedFormat))
}
