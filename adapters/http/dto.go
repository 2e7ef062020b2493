package http

import (
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/career-planner/internal/domain/education"
	"github.com/khoahotran/career-planner/internal/domain/experience"
	"github.com/khoahotran/career-planner/internal/domain/goal"
	"github.com/khoahotran/career-planner/internal/domain/importrec"
	"github.com/khoahotran/career-planner/internal/domain/plan"
	"github.com/khoahotran/career-planner/internal/domain/profile"
	"github.com/khoahotran/career-planner/internal/domain/skill"
	"github.com/khoahotran/career-planner/pkg/apperror"
)

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

// --- Auth ---

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// --- Skills ---

type CreateOrUpdateSkillRequest struct {
	SkillName         string `json:"skill_name" binding:"required"`
	Category          string `json:"category" binding:"required"`
	ProficiencyLevel  int    `json:"proficiency_level" binding:"required"`
	YearsOfExperience int    `json:"years_of_experience"`
}

type SkillDTO struct {
	ID                uuid.UUID `json:"id"`
	SkillName         string    `json:"skill_name"`
	Category          string    `json:"category"`
	ProficiencyLevel  int       `json:"proficiency_level"`
	YearsOfExperience int       `json:"years_of_experience"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func ToSkillDTO(s *skill.Skill) SkillDTO {
	return SkillDTO{
		ID:                s.ID,
		SkillName:         s.SkillName,
		Category:          s.Category,
		ProficiencyLevel:  s.ProficiencyLevel,
		YearsOfExperience: s.YearsOfExperience,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// --- Education ---

type CreateOrUpdateEducationRequest struct {
	Institution  string   `json:"institution" binding:"required"`
	Degree       string   `json:"degree" binding:"required"`
	FieldOfStudy string   `json:"field_of_study"`
	StartDate    string   `json:"start_date" binding:"required"`
	EndDate      string   `json:"end_date"`
	GPA          *float64 `json:"gpa"`
}

func (r *CreateOrUpdateEducationRequest) Dates() (time.Time, *time.Time, error) {
	start, err := parseDate(r.StartDate)
	if err != nil {
		return time.Time{}, nil, apperror.NewInvalidInput("start_date must be an ISO date (YYYY-MM-DD)", err)
	}
	end, err := parseOptionalDate(r.EndDate)
	if err != nil {
		return time.Time{}, nil, apperror.NewInvalidInput("end_date must be an ISO date (YYYY-MM-DD)", err)
	}
	return start, end, nil
}

type EducationDTO struct {
	ID           uuid.UUID `json:"id"`
	Institution  string    `json:"institution"`
	Degree       string    `json:"degree"`
	FieldOfStudy string    `json:"field_of_study"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date,omitempty"`
	GPA          *float64  `json:"gpa,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func ToEducationDTO(e *education.Education) EducationDTO {
	return EducationDTO{
		ID:           e.ID,
		Institution:  e.Institution,
		Degree:       e.Degree,
		FieldOfStudy: e.FieldOfStudy,
		StartDate:    e.StartDate.Format(dateLayout),
		EndDate:      formatOptionalDate(e.EndDate),
		GPA:          e.GPA,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// --- Work experience ---

type CreateOrUpdateExperienceRequest struct {
	Company      string `json:"company" binding:"required"`
	Position     string `json:"position" binding:"required"`
	StartDate    string `json:"start_date" binding:"required"`
	EndDate      string `json:"end_date"`
	IsCurrent    bool   `json:"is_current"`
	Description  string `json:"description"`
	Achievements string `json:"achievements"`
}

func (r *CreateOrUpdateExperienceRequest) Dates() (time.Time, *time.Time, error) {
	start, err := parseDate(r.StartDate)
	if err != nil {
		return time.Time{}, nil, apperror.NewInvalidInput("start_date must be an ISO date (YYYY-MM-DD)", err)
	}
	end, err := parseOptionalDate(r.EndDate)
	if err != nil {
		return time.Time{}, nil, apperror.NewInvalidInput("end_date must be an ISO date (YYYY-MM-DD)", err)
	}
	return start, end, nil
}

type ExperienceDTO struct {
	ID           uuid.UUID `json:"id"`
	Company      string    `json:"company"`
	Position     string    `json:"position"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date,omitempty"`
	IsCurrent    bool      `json:"is_current"`
	Description  string    `json:"description"`
	Achievements string    `json:"achievements"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func ToExperienceDTO(we *experience.Experience) ExperienceDTO {
	return ExperienceDTO{
		ID:           we.ID,
		Company:      we.Company,
		Position:     we.Position,
		StartDate:    we.StartDate.Format(dateLayout),
		EndDate:      formatOptionalDate(we.EndDate),
		IsCurrent:    we.IsCurrent,
		Description:  we.Description,
		Achievements: we.Achievements,
		CreatedAt:    we.CreatedAt,
		UpdatedAt:    we.UpdatedAt,
	}
}

// --- Career goals ---

type CreateOrUpdateGoalRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	TargetDate  string `json:"target_date"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
}

type GoalDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TargetDate  string    `json:"target_date,omitempty"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToGoalDTO(g *goal.Goal) GoalDTO {
	return GoalDTO{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		TargetDate:  formatOptionalDate(g.TargetDate),
		Priority:    g.Priority,
		Status:      g.Status,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

// --- Profile ---

type UpdateProfileRequest struct {
	Phone             string   `json:"phone"`
	CurrentPosition   string   `json:"current_position"`
	YearsOfExperience int      `json:"years_of_experience"`
	CurrentSalary     *float64 `json:"current_salary"`
	DesiredSalary     *float64 `json:"desired_salary"`
	Location          string   `json:"location"`
	LinkedinURL       string   `json:"linkedin_url"`
	GithubURL         string   `json:"github_url"`
	PortfolioURL      string   `json:"portfolio_url"`
}

type ProfileDTO struct {
	OwnerID           uuid.UUID `json:"owner_id"`
	Phone             string    `json:"phone"`
	CurrentPosition   string    `json:"current_position"`
	YearsOfExperience int       `json:"years_of_experience"`
	CurrentSalary     *float64  `json:"current_salary,omitempty"`
	DesiredSalary     *float64  `json:"desired_salary,omitempty"`
	Location          string    `json:"location"`
	LinkedinURL       string    `json:"linkedin_url"`
	GithubURL         string    `json:"github_url"`
	PortfolioURL      string    `json:"portfolio_url"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func ToProfileDTO(p *profile.Profile) ProfileDTO {
	return ProfileDTO{
		OwnerID:           p.OwnerID,
		Phone:             p.Phone,
		CurrentPosition:   p.CurrentPosition,
		YearsOfExperience: p.YearsOfExperience,
		CurrentSalary:     p.CurrentSalary,
		DesiredSalary:     p.DesiredSalary,
		Location:          p.Location,
		LinkedinURL:       p.LinkedinURL,
		GithubURL:         p.GithubURL,
		PortfolioURL:      p.PortfolioURL,
		UpdatedAt:         p.UpdatedAt,
	}
}

// --- Imports ---

type ImportJobDTO struct {
	ID         uuid.UUID `json:"id"`
	ImportType string    `json:"import_type"`
	FileType   string    `json:"file_type"`
	FileName   string    `json:"file_name"`
	Status     string    `json:"status"`
	SkipErrors bool      `json:"skip_errors"`
	Overwrite  bool      `json:"overwrite"`
	CreatedAt  time.Time `json:"created_at"`
}

type ImportResultDTO struct {
	Outcome        string               `json:"outcome"`
	ProcessedCount int                  `json:"processed_count"`
	SkippedCount   int                  `json:"skipped_count"`
	ErrorCount     int                  `json:"error_count"`
	Errors         []importrec.RowError `json:"errors"`
	ResponseFile   string               `json:"output_file_path"`
}

type ImportHistoryDTO struct {
	Job    ImportJobDTO     `json:"job"`
	Result *ImportResultDTO `json:"result,omitempty"`
}

func ToImportJobDTO(job *importrec.ImportJob) ImportJobDTO {
	return ImportJobDTO{
		ID:         job.ID,
		ImportType: string(job.ImportType),
		FileType:   string(job.FileType),
		FileName:   job.FileName,
		Status:     string(job.Status),
		SkipErrors: job.SkipErrors,
		Overwrite:  job.Overwrite,
		CreatedAt:  job.CreatedAt,
	}
}

func ToImportResultDTO(result *importrec.ImportResult) *ImportResultDTO {
	if result == nil {
		return nil
	}
	errs := result.RowErrors
	if errs == nil {
		errs = []importrec.RowError{}
	}
	return &ImportResultDTO{
		Outcome:        string(result.Outcome),
		ProcessedCount: result.ProcessedCount,
		SkippedCount:   result.SkippedCount,
		ErrorCount:     result.ErrorCount,
		Errors:         errs,
		ResponseFile:   result.ResponseFile,
	}
}

// --- Career plans ---

type GeneratePlanRequest struct {
	GoalID uuid.UUID `json:"goal_id" binding:"required"`
}

type PlanDTO struct {
	ID              uuid.UUID         `json:"id"`
	GoalID          uuid.UUID         `json:"goal_id"`
	PlanDescription string            `json:"plan_description"`
	Blockers        []string          `json:"blockers"`
	Milestones      []plan.Milestone  `json:"milestones"`
	WeeklyPlans     []plan.WeeklyPlan `json:"weekly_plans"`
	ResponseFile    string            `json:"response_file"`
	CreatedAt       time.Time         `json:"created_at"`
}

func ToPlanDTO(p *plan.CareerPlan) PlanDTO {
	return PlanDTO{
		ID:              p.ID,
		GoalID:          p.GoalID,
		PlanDescription: p.PlanDescription,
		Blockers:        p.Blockers,
		Milestones:      p.Milestones,
		WeeklyPlans:     p.WeeklyPlans,
		ResponseFile:    p.ResponseFile,
		CreatedAt:       p.CreatedAt,
	}
}

type PlanExecutionDTO struct {
	ID          uuid.UUID  `json:"id"`
	WeekNumber  int        `json:"week_number"`
	FocusAreas  []string   `json:"focus_areas"`
	Tasks       string     `json:"tasks"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func ToPlanExecutionDTO(ex *plan.PlanExecution) PlanExecutionDTO {
	return PlanExecutionDTO{
		ID:          ex.ID,
		WeekNumber:  ex.WeekNumber,
		FocusAreas:  ex.FocusAreas,
		Tasks:       ex.Tasks,
		IsCompleted: ex.IsCompleted,
		CompletedAt: ex.CompletedAt,
	}
}
