package export

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

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

type Resource string

const (
	ResourceProfile    Resource = "profile"
	ResourceSkills     Resource = "skills"
	ResourceEducation  Resource = "education"
	ResourceExperience Resource = "experience"
	ResourceGoals      Resource = "goals"
	ResourceImports    Resource = "imports"
	ResourceAll        Resource = "all"
)

type Format string

const (
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
)

const timestampLayout = "20060102_150405"

// filePrefixes maps each exportable resource to the prefix used in the
// generated file name.
var filePrefixes = map[Resource]string{
	ResourceProfile:    "user_profile",
	ResourceSkills:     "user_skills",
	ResourceEducation:  "education",
	ResourceExperience: "work_experience",
	ResourceGoals:      "career_goals",
	ResourceImports:    "import_history",
	ResourceAll:        "all_user_data",
}

const listBatch = 1000

type ExportUseCase struct {
	skillRepo   skill.Repository
	eduRepo     education.Repository
	expRepo     experience.Repository
	goalRepo    goal.Repository
	profileRepo profile.Repository
	importRepo  importrec.Repository
	respStore   service.ResponseStore
	logger      logger.Logger
}

func NewExportUseCase(
	sRepo skill.Repository,
	eRepo education.Repository,
	weRepo experience.Repository,
	gRepo goal.Repository,
	pRepo profile.Repository,
	iRepo importrec.Repository,
	respStore service.ResponseStore,
	log logger.Logger,
) *ExportUseCase {
	return &ExportUseCase{
		skillRepo:   sRepo,
		eduRepo:     eRepo,
		expRepo:     weRepo,
		goalRepo:    gRepo,
		profileRepo: pRepo,
		importRepo:  iRepo,
		respStore:   respStore,
		logger:      log,
	}
}

type ExportInput struct {
	OwnerID  uuid.UUID
	Resource Resource
	Format   Format
}

type ExportOutput struct {
	FileName    string         `json:"file_name"`
	Format      Format         `json:"format"`
	Count       int            `json:"count"`
	DataSummary map[string]int `json:"data_summary,omitempty"`
}

func (uc *ExportUseCase) Execute(ctx context.Context, input ExportInput) (*ExportOutput, error) {
	prefix, ok := filePrefixes[input.Resource]
	if !ok {
		return nil, apperror.NewInvalidInput("unknown export resource", nil)
	}

	var ext string
	switch input.Format {
	case FormatJSON:
		ext = "json"
	case FormatCSV:
		ext = "csv"
	case FormatExcel:
		ext = "xlsx"
	default:
		return nil, apperror.NewUnsupportedFormat("format must be one of json, csv, excel", nil)
	}

	fileName := fmt.Sprintf("%s_%s_%s.%s",
		prefix, input.OwnerID.String(), time.Now().UTC().Format(timestampLayout), ext)

	if input.Resource == ResourceAll {
		return uc.exportAll(ctx, input, fileName)
	}

	payload, header, rows, err := uc.collect(ctx, input.OwnerID, input.Resource)
	if err != nil {
		return nil, err
	}

	written, err := uc.write(ctx, input.Format, fileName, string(input.Resource), payload, header, rows)
	if err != nil {
		return nil, err
	}
	return &ExportOutput{FileName: written, Format: input.Format, Count: len(rows)}, nil
}

func (uc *ExportUseCase) write(ctx context.Context, format Format, fileName, sheet string, payload any, header []string, rows [][]string) (string, error) {
	switch format {
	case FormatJSON:
		return uc.respStore.WriteJSON(ctx, fileName, payload)
	case FormatCSV:
		return uc.respStore.WriteCSV(ctx, fileName, header, rows)
	default:
		return uc.respStore.WriteExcel(ctx, fileName, sheet, header, rows)
	}
}

// exportAll bundles every resource into one JSON document. Tabular
// formats cannot hold heterogeneous resources in one table, so the
// combined export is JSON only.
func (uc *ExportUseCase) exportAll(ctx context.Context, input ExportInput, fileName string) (*ExportOutput, error) {
	if input.Format != FormatJSON {
		return nil, apperror.NewUnsupportedFormat("the combined export supports JSON only", nil)
	}

	bundle := make(map[string]any)
	summary := make(map[string]int)
	for _, res := range []Resource{ResourceProfile, ResourceSkills, ResourceEducation, ResourceExperience, ResourceGoals, ResourceImports} {
		payload, _, rows, err := uc.collect(ctx, input.OwnerID, res)
		if err != nil {
			return nil, err
		}
		bundle[string(res)] = payload
		summary[string(res)] = len(rows)
	}
	bundle["exported_at"] = time.Now().UTC()

	written, err := uc.respStore.WriteJSON(ctx, fileName, bundle)
	if err != nil {
		return nil, err
	}
	return &ExportOutput{FileName: written, Format: input.Format, DataSummary: summary}, nil
}

func (uc *ExportUseCase) collect(ctx context.Context, ownerID uuid.UUID, res Resource) (payload any, header []string, rows [][]string, err error) {
	switch res {
	case ResourceProfile:
		p, err := uc.profileRepo.GetByOwnerID(ctx, ownerID)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return nil, profileHeader, nil, nil
			}
			return nil, nil, nil, err
		}
		return p, profileHeader, profileRows(p), nil

	case ResourceSkills:
		items, err := uc.skillRepo.ListByOwner(ctx, ownerID, "", listBatch, 0)
		if err != nil {
			return nil, nil, nil, err
		}
		return items, skillHeader, skillRows(items), nil

	case ResourceEducation:
		items, err := uc.eduRepo.ListByOwner(ctx, ownerID, listBatch, 0)
		if err != nil {
			return nil, nil, nil, err
		}
		return items, educationHeader, educationRows(items), nil

	case ResourceExperience:
		items, err := uc.expRepo.ListByOwner(ctx, ownerID, listBatch, 0)
		if err != nil {
			return nil, nil, nil, err
		}
		return items, experienceHeader, experienceRows(items), nil

	case ResourceGoals:
		items, err := uc.goalRepo.ListByOwner(ctx, ownerID, "", listBatch, 0)
		if err != nil {
			return nil, nil, nil, err
		}
		return items, goalHeader, goalRows(items), nil

	case ResourceImports:
		jobs, err := uc.importRepo.ListJobsByOwner(ctx, ownerID, "", listBatch, 0)
		if err != nil {
			return nil, nil, nil, err
		}
		return jobs, importHeader, importRows(jobs), nil
	}
	return nil, nil, nil, apperror.NewInvalidInput("unknown export resource", nil)
}

var (
	profileHeader    = []string{"phone", "current_position", "years_of_experience", "current_salary", "desired_salary", "location", "linkedin_url", "github_url", "portfolio_url"}
	skillHeader      = []string{"skill_name", "category", "proficiency_level", "years_of_experience"}
	educationHeader  = []string{"institution", "degree", "field_of_study", "start_date", "end_date", "gpa"}
	experienceHeader = []string{"company", "position", "start_date", "end_date", "is_current", "description", "achievements"}
	goalHeader       = []string{"title", "description", "target_date", "priority", "status"}
	importHeader     = []string{"id", "import_type", "file_type", "file_name", "status", "created_at"}
)

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

func formatFloatPtr(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func profileRows(p *profile.Profile) [][]string {
	return [][]string{{
		p.Phone, p.CurrentPosition, strconv.Itoa(p.YearsOfExperience),
		formatFloatPtr(p.CurrentSalary), formatFloatPtr(p.DesiredSalary),
		p.Location, p.LinkedinURL, p.GithubURL, p.PortfolioURL,
	}}
}

func skillRows(items []*skill.Skill) [][]string {
	rows := make([][]string, 0, len(items))
	for _, s := range items {
		rows = append(rows, []string{
			s.SkillName, s.Category,
			strconv.Itoa(s.ProficiencyLevel), strconv.Itoa(s.YearsOfExperience),
		})
	}
	return rows
}

func educationRows(items []*education.Education) [][]string {
	rows := make([][]string, 0, len(items))
	for _, e := range items {
		rows = append(rows, []string{
			e.Institution, e.Degree, e.FieldOfStudy,
			formatDate(e.StartDate), formatDatePtr(e.EndDate), formatFloatPtr(e.GPA),
		})
	}
	return rows
}

func experienceRows(items []*experience.Experience) [][]string {
	rows := make([][]string, 0, len(items))
	for _, we := range items {
		rows = append(rows, []string{
			we.Company, we.Position,
			formatDate(we.StartDate), formatDatePtr(we.EndDate),
			strconv.FormatBool(we.IsCurrent), we.Description, we.Achievements,
		})
	}
	return rows
}

func goalRows(items []*goal.Goal) [][]string {
	rows := make([][]string, 0, len(items))
	for _, g := range items {
		rows = append(rows, []string{
			g.Title, g.Description, formatDatePtr(g.TargetDate), g.Priority, g.Status,
		})
	}
	return rows
}

func importRows(jobs []*importrec.ImportJob) [][]string {
	rows := make([][]string, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, []string{
			j.ID.String(), string(j.ImportType), string(j.FileType),
			j.FileName, string(j.Status), j.CreatedAt.Format(time.RFC3339),
		})
	}
	return rows
}
