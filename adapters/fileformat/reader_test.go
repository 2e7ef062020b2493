package fileformat

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/khoahotran/career-planner/internal/domain/importrec"
	"github.com/khoahotran/career-planner/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestNewReader(t *testing.T) {
	for _, ft := range []importrec.FileType{importrec.FileCSV, importrec.FileExcel, importrec.FileJSON} {
		r, err := NewReader(ft)
		assert.NoError(t, err)
		assert.NotNil(t, r)
	}

	_, err := NewReader(importrec.FileType("xml"))
	assert.True(t, errors.Is(err, apperror.ErrUnsupportedFormat))
}

func TestCSVReader_Parse(t *testing.T) {
	input := "Skill_Name,Category,Proficiency_Level\nGo,technical,4\nSQL,technical,3\n"

	rows, err := (&CSVReader{}).Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, "Go", rows[0].Values["skill_name"])
	assert.Equal(t, "4", rows[0].Values["proficiency_level"])
	assert.Equal(t, 2, rows[1].Index)
	assert.Equal(t, "SQL", rows[1].Values["skill_name"])
}

func TestCSVReader_Parse_RaggedRows(t *testing.T) {
	input := "skill_name,category\nGo,technical,extra\nSQL\n"

	rows, err := (&CSVReader{}).Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "technical", rows[0].Values["category"])
	_, ok := rows[1].Values["category"]
	assert.False(t, ok)
}

func TestCSVReader_Parse_Empty(t *testing.T) {
	_, err := (&CSVReader{}).Parse(strings.NewReader(""))
	assert.True(t, errors.Is(err, apperror.ErrSchema))
}

func TestJSONReader_Parse_Array(t *testing.T) {
	input := `[{"skill_name": "Go", "proficiency_level": 4}, {"skill_name": "SQL"}]`

	rows, err := (&JSONReader{}).Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, "Go", rows[0].Values["skill_name"])
	assert.Equal(t, float64(4), rows[0].Values["proficiency_level"])
}

func TestJSONReader_Parse_SingleObjectRejected(t *testing.T) {
	input := `{"phone": "+84123456789", "location": "Hanoi"}`

	_, err := (&JSONReader{}).Parse(strings.NewReader(input))
	assert.True(t, errors.Is(err, apperror.ErrSchema))
}

func TestJSONReader_Parse_Invalid(t *testing.T) {
	// valid JSON with the wrong top-level shape
	_, err := (&JSONReader{}).Parse(strings.NewReader(`"just a string"`))
	assert.True(t, errors.Is(err, apperror.ErrSchema))

	_, err = (&JSONReader{}).Parse(strings.NewReader(`[1, 2, 3]`))
	assert.True(t, errors.Is(err, apperror.ErrSchema))
}

func TestJSONReader_Parse_UnparseableContent(t *testing.T) {
	_, err := (&JSONReader{}).Parse(strings.NewReader(`{{{not json`))
	assert.True(t, errors.Is(err, apperror.ErrUnsupportedFormat))

	_, err = (&JSONReader{}).Parse(strings.NewReader(`skill_name,category`))
	assert.True(t, errors.Is(err, apperror.ErrUnsupportedFormat))
}

func TestExcelReader_Parse(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]string{"Institution", "Degree", "Start_Date"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]string{"HUST", "BSc", "2015-09-01"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]string{"NUS", "MSc", "2019-08-01"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := (&ExcelReader{}).Parse(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "HUST", rows[0].Values["institution"])
	assert.Equal(t, "MSc", rows[1].Values["degree"])
	assert.Equal(t, 2, rows[1].Index)
}

func TestExcelReader_Parse_NotAWorkbook(t *testing.T) {
	_, err := (&ExcelReader{}).Parse(strings.NewReader("plain text"))
	assert.True(t, errors.Is(err, apperror.ErrUnsupportedFormat))
}
