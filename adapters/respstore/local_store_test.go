package respstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/khoahotran/career-planner/pkg/apperror"
	"github.com/khoahotran/career-planner/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestStore(t *testing.T) (*LocalStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewLocalStore(dir, logger.NewNopLogger())
	require.NoError(t, err)
	return store, dir
}

func TestLocalStore_WriteJSON(t *testing.T) {
	store, dir := newTestStore(t)

	path, err := store.WriteJSON(context.Background(), "bulk_import_response_x.json", map[string]any{
		"processed": 3,
	})
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path), path)
	assert.Equal(t, filepath.Join(dir, "bulk_import_response_x.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(3), decoded["processed"])
}

func TestLocalStore_WriteCSV(t *testing.T) {
	store, dir := newTestStore(t)

	path, err := store.WriteCSV(context.Background(), "user_skills_export.csv",
		[]string{"skill_name", "category"},
		[][]string{{"Go", "technical"}, {"SQL", "technical"}},
	)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "user_skills_export.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "skill_name,category\nGo,technical\nSQL,technical\n", string(data))
}

func TestLocalStore_WriteExcel(t *testing.T) {
	store, dir := newTestStore(t)

	path, err := store.WriteExcel(context.Background(), "education_export.xlsx", "Education",
		[]string{"institution", "degree"},
		[][]string{{"HUST", "BSc"}},
	)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "education_export.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Education")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"institution", "degree"}, rows[0])
	assert.Equal(t, []string{"HUST", "BSc"}, rows[1])
}

func TestLocalStore_OpenMissingFile(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Open("no_such_file.json")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestLocalStore_OpenStripsPathComponents(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.WriteJSON(context.Background(), "ok.json", map[string]string{"a": "b"})
	require.NoError(t, err)

	f, err := store.Open("../../ok.json")
	require.NoError(t, err)
	f.Close()
}
