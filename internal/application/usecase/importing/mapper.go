package importing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/khoahotran/career-planner/adapters/fileformat"
	"github.com/khoahotran/career-planner/internal/domain/education"
	"github.com/khoahotran/career-planner/internal/domain/experience"
	"github.com/khoahotran/career-planner/internal/domain/goal"
	"github.com/khoahotran/career-planner/internal/domain/importrec"
	"github.com/khoahotran/career-planner/internal/domain/profile"
	"github.com/khoahotran/career-planner/internal/domain/skill"
)

const dateLayout = "2006-01-02"

// fields wraps one parsed row and accumulates field-level errors while
// the mapper pulls typed values out of it. CSV and Excel deliver every
// value as a string; JSON delivers native types, so every accessor
// coerces from both.
type fields struct {
	rowIndex int
	values   map[string]any
	errs     []importrec.RowError
}

func newFields(row fileformat.Row) *fields {
	return &fields{rowIndex: row.Index, values: row.Values}
}

func (f *fields) fail(field, msg string) {
	f.errs = append(f.errs, importrec.RowError{RowIndex: f.rowIndex, Field: field, Message: msg})
}

func (f *fields) raw(name string) (any, bool) {
	v, ok := f.values[name]
	if !ok || v == nil {
		return nil, false
	}
	if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
		return nil, false
	}
	return v, true
}

func coerceString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := coerceString(item)
			if !ok {
				return "", false
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, "\n"), true
	}
	return "", false
}

func (f *fields) str(name string) string {
	v, ok := f.raw(name)
	if !ok {
		return ""
	}
	s, ok := coerceString(v)
	if !ok {
		f.fail(name, "value must be text")
		return ""
	}
	return s
}

func (f *fields) requiredStr(name string) string {
	v, ok := f.raw(name)
	if !ok {
		f.fail(name, "field is required")
		return ""
	}
	s, ok := coerceString(v)
	if !ok || s == "" {
		f.fail(name, "field is required")
		return ""
	}
	return s
}

func (f *fields) intVal(name string, required bool) int {
	v, ok := f.raw(name)
	if !ok {
		if required {
			f.fail(name, "field is required")
		}
		return 0
	}
	switch t := v.(type) {
	case float64:
		if t != float64(int(t)) {
			f.fail(name, "value must be a whole number")
			return 0
		}
		return int(t)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			f.fail(name, "value must be a whole number")
			return 0
		}
		return n
	}
	f.fail(name, "value must be a whole number")
	return 0
}

func (f *fields) intRange(name string, required bool, lo, hi int) int {
	before := len(f.errs)
	n := f.intVal(name, required)
	if len(f.errs) > before {
		return 0
	}
	if _, ok := f.raw(name); !ok {
		return 0
	}
	if n < lo || n > hi {
		f.fail(name, fmt.Sprintf("value must be between %d and %d", lo, hi))
		return 0
	}
	return n
}

func (f *fields) nonNegativeInt(name string) int {
	before := len(f.errs)
	n := f.intVal(name, false)
	if len(f.errs) == before && n < 0 {
		f.fail(name, "value must not be negative")
		return 0
	}
	return n
}

func (f *fields) nonNegativeFloat(name string) *float64 {
	v, ok := f.floatVal(name)
	if !ok {
		return nil
	}
	if v < 0 {
		f.fail(name, "value must not be negative")
		return nil
	}
	return &v
}

func (f *fields) floatVal(name string) (float64, bool) {
	v, ok := f.raw(name)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			f.fail(name, "value must be a number")
			return 0, false
		}
		return n, true
	}
	f.fail(name, "value must be a number")
	return 0, false
}

func (f *fields) boolVal(name string) bool {
	v, ok := f.raw(name)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "1":
			return true
		case "false", "no", "0":
			return false
		}
	}
	f.fail(name, "value must be true or false")
	return false
}

func (f *fields) dateVal(name string, required bool) *time.Time {
	v, ok := f.raw(name)
	if !ok {
		if required {
			f.fail(name, "field is required")
		}
		return nil
	}
	s, ok := coerceString(v)
	if !ok {
		f.fail(name, "value must be an ISO date (YYYY-MM-DD)")
		return nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		if d, err = time.Parse(time.RFC3339, s); err != nil {
			f.fail(name, "value must be an ISO date (YYYY-MM-DD)")
			return nil
		}
	}
	return &d
}

func (f *fields) enum(name string, required bool, allowed ...string) string {
	v, ok := f.raw(name)
	if !ok {
		if required {
			f.fail(name, "field is required")
		}
		return ""
	}
	s, _ := coerceString(v)
	s = strings.ToLower(s)
	for _, a := range allowed {
		if s == a {
			return s
		}
	}
	f.fail(name, fmt.Sprintf("value must be one of: %s", strings.Join(allowed, ", ")))
	return ""
}

func mapSkillRow(row fileformat.Row) (*skill.Skill, []importrec.RowError) {
	f := newFields(row)
	s := &skill.Skill{
		SkillName: f.requiredStr("skill_name"),
		Category: f.enum("category", true,
			skill.CategoryTechnical, skill.CategorySoft, skill.CategoryLanguage,
			skill.CategoryFramework, skill.CategoryTool, skill.CategoryCertification),
		ProficiencyLevel:  f.intRange("proficiency_level", true, 1, 5),
		YearsOfExperience: f.nonNegativeInt("years_of_experience"),
	}
	return s, f.errs
}

func mapEducationRow(row fileformat.Row) (*education.Education, []importrec.RowError) {
	f := newFields(row)
	e := &education.Education{
		Institution:  f.requiredStr("institution"),
		Degree:       f.requiredStr("degree"),
		FieldOfStudy: f.str("field_of_study"),
		EndDate:      f.dateVal("end_date", false),
	}
	if start := f.dateVal("start_date", true); start != nil {
		e.StartDate = *start
	}
	if gpa, ok := f.floatVal("gpa"); ok {
		if gpa < 0 || gpa > 4.0 {
			f.fail("gpa", "value must be between 0.0 and 4.0")
		} else {
			e.GPA = &gpa
		}
	}
	if e.EndDate != nil && !e.StartDate.IsZero() && e.EndDate.Before(e.StartDate) {
		f.fail("end_date", "must not be before start_date")
	}
	return e, f.errs
}

func mapExperienceRow(row fileformat.Row) (*experience.Experience, []importrec.RowError) {
	f := newFields(row)
	we := &experience.Experience{
		Company:      f.requiredStr("company"),
		Position:     f.requiredStr("position"),
		IsCurrent:    f.boolVal("is_current"),
		Description:  f.str("description"),
		Achievements: f.str("achievements"),
		EndDate:      f.dateVal("end_date", false),
	}
	if start := f.dateVal("start_date", true); start != nil {
		we.StartDate = *start
	}
	if !we.IsCurrent && we.EndDate == nil {
		f.fail("end_date", "field is required unless is_current is true")
	}
	if we.EndDate != nil && !we.StartDate.IsZero() && we.EndDate.Before(we.StartDate) {
		f.fail("end_date", "must not be before start_date")
	}
	return we, f.errs
}

func mapGoalRow(row fileformat.Row) (*goal.Goal, []importrec.RowError) {
	f := newFields(row)
	g := &goal.Goal{
		Title:       f.requiredStr("title"),
		Description: f.str("description"),
		TargetDate:  f.dateVal("target_date", false),
		Priority: f.enum("priority", false,
			goal.PriorityLow, goal.PriorityMedium, goal.PriorityHigh, goal.PriorityCritical),
		Status: f.enum("status", false,
			goal.StatusNotStarted, goal.StatusInProgress, goal.StatusCompleted, goal.StatusOnHold),
	}
	if g.Priority == "" {
		g.Priority = goal.PriorityMedium
	}
	if g.Status == "" {
		g.Status = goal.StatusNotStarted
	}
	return g, f.errs
}

func mapProfileRow(row fileformat.Row) (*profile.Profile, []importrec.RowError) {
	f := newFields(row)
	p := &profile.Profile{
		Phone:             f.str("phone"),
		CurrentPosition:   f.str("current_position"),
		YearsOfExperience: f.nonNegativeInt("years_of_experience"),
		Location:          f.str("location"),
		LinkedinURL:       f.str("linkedin_url"),
		GithubURL:         f.str("github_url"),
		PortfolioURL:      f.str("portfolio_url"),
	}
	p.CurrentSalary = f.nonNegativeFloat("current_salary")
	p.DesiredSalary = f.nonNegativeFloat("desired_salary")
	return p, f.errs
}
