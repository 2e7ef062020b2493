package importing

import (
	"testing"

	"github.com/khoahotran/career-planner/adapters/fileformat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(values map[string]any) fileformat.Row {
	return fileformat.Row{Index: 1, Values: values}
}

func TestMapSkillRow(t *testing.T) {
	s, errs := mapSkillRow(row(map[string]any{
		"skill_name":          "Go",
		"category":            "technical",
		"proficiency_level":   "4",
		"years_of_experience": "3",
	}))
	require.Empty(t, errs)
	assert.Equal(t, "Go", s.SkillName)
	assert.Equal(t, 4, s.ProficiencyLevel)
	assert.Equal(t, 3, s.YearsOfExperience)
}

func TestMapSkillRow_JSONNumbers(t *testing.T) {
	s, errs := mapSkillRow(row(map[string]any{
		"skill_name":        "Kubernetes",
		"category":          "tool",
		"proficiency_level": float64(5),
	}))
	require.Empty(t, errs)
	assert.Equal(t, 5, s.ProficiencyLevel)
	assert.Equal(t, 0, s.YearsOfExperience)
}

func TestMapSkillRow_Errors(t *testing.T) {
	_, errs := mapSkillRow(row(map[string]any{
		"category":          "wizardry",
		"proficiency_level": "not a number",
	}))
	require.Len(t, errs, 3)

	fields := make(map[string]bool)
	for _, e := range errs {
		fields[e.Field] = true
		assert.Equal(t, 1, e.RowIndex)
	}
	assert.True(t, fields["skill_name"])
	assert.True(t, fields["category"])
	assert.True(t, fields["proficiency_level"])
}

func TestMapSkillRow_ProficiencyOutOfRange(t *testing.T) {
	_, errs := mapSkillRow(row(map[string]any{
		"skill_name":        "Go",
		"category":          "technical",
		"proficiency_level": "9",
	}))
	require.Len(t, errs, 1)
	assert.Equal(t, "proficiency_level", errs[0].Field)
	assert.Contains(t, errs[0].Message, "between 1 and 5")
}

func TestMapSkillRow_CollectsAllRangeErrors(t *testing.T) {
	_, errs := mapSkillRow(row(map[string]any{
		"skill_name":          "Go",
		"category":            "technical",
		"proficiency_level":   "7",
		"years_of_experience": "-2",
	}))
	require.Len(t, errs, 2)
	assert.Equal(t, "proficiency_level", errs[0].Field)
	assert.Equal(t, "years_of_experience", errs[1].Field)
}

func TestMapEducationRow(t *testing.T) {
	e, errs := mapEducationRow(row(map[string]any{
		"institution":    "HUST",
		"degree":         "BSc",
		"field_of_study": "Computer Science",
		"start_date":     "2015-09-01",
		"end_date":       "2019-06-30",
		"gpa":            "3.6",
	}))
	require.Empty(t, errs)
	assert.Equal(t, 2015, e.StartDate.Year())
	require.NotNil(t, e.GPA)
	assert.InDelta(t, 3.6, *e.GPA, 0.001)
}

func TestMapEducationRow_BadDateAndGPA(t *testing.T) {
	// both failing fields are reported, not just the first
	_, errs := mapEducationRow(row(map[string]any{
		"institution": "HUST",
		"degree":      "BSc",
		"start_date":  "09/01/2015",
		"gpa":         "5.5",
	}))
	require.Len(t, errs, 2)
	assert.Equal(t, "start_date", errs[0].Field)
	assert.Equal(t, "gpa", errs[1].Field)

	_, errs = mapEducationRow(row(map[string]any{
		"institution": "HUST",
		"degree":      "BSc",
		"start_date":  "2015-09-01",
		"gpa":         "5.5",
	}))
	require.Len(t, errs, 1)
	assert.Equal(t, "gpa", errs[0].Field)
	assert.Contains(t, errs[0].Message, "between 0.0 and 4.0")
}

func TestMapExperienceRow_CurrentPosition(t *testing.T) {
	we, errs := mapExperienceRow(row(map[string]any{
		"company":    "Acme",
		"position":   "Engineer",
		"start_date": "2022-01-10",
		"is_current": "yes",
	}))
	require.Empty(t, errs)
	assert.True(t, we.IsCurrent)
	assert.Nil(t, we.EndDate)
}

func TestMapExperienceRow_EndDateRequiredWhenNotCurrent(t *testing.T) {
	_, errs := mapExperienceRow(row(map[string]any{
		"company":    "Acme",
		"position":   "Engineer",
		"start_date": "2022-01-10",
		"is_current": "false",
	}))
	require.Len(t, errs, 1)
	assert.Equal(t, "end_date", errs[0].Field)
}

func TestMapExperienceRow_AchievementsList(t *testing.T) {
	we, errs := mapExperienceRow(row(map[string]any{
		"company":      "Acme",
		"position":     "Engineer",
		"start_date":   "2020-01-10",
		"end_date":     "2021-01-10",
		"achievements": []any{"shipped v1", "led migration"},
	}))
	require.Empty(t, errs)
	assert.Equal(t, "shipped v1\nled migration", we.Achievements)
}

func TestMapGoalRow_Defaults(t *testing.T) {
	g, errs := mapGoalRow(row(map[string]any{
		"title": "Become a staff engineer",
	}))
	require.Empty(t, errs)
	assert.Equal(t, "medium", g.Priority)
	assert.Equal(t, "not_started", g.Status)
}

func TestMapGoalRow_InvalidEnum(t *testing.T) {
	_, errs := mapGoalRow(row(map[string]any{
		"title":    "Become a staff engineer",
		"priority": "urgent",
	}))
	require.Len(t, errs, 1)
	assert.Equal(t, "priority", errs[0].Field)
}

func TestMapProfileRow(t *testing.T) {
	p, errs := mapProfileRow(row(map[string]any{
		"phone":               "+84123456789",
		"current_position":    "Backend Engineer",
		"years_of_experience": float64(6),
		"desired_salary":      "95000",
		"location":            "Hanoi",
	}))
	require.Empty(t, errs)
	assert.Equal(t, 6, p.YearsOfExperience)
	require.NotNil(t, p.DesiredSalary)
	assert.InDelta(t, 95000, *p.DesiredSalary, 0.001)
	assert.Nil(t, p.CurrentSalary)
}

func TestMapProfileRow_NegativeSalary(t *testing.T) {
	_, errs := mapProfileRow(row(map[string]any{
		"desired_salary": "-100",
	}))
	require.Len(t, errs, 1)
	assert.Equal(t, "desired_salary", errs[0].Field)
	assert.Contains(t, errs[0].Message, "must not be negative")
}
