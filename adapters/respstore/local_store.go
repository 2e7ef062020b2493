package respstore

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/khoahotran/career-planner/internal/application/service"
	"github.com/khoahotran/career-planner/pkg/apperror"
	"github.com/khoahotran/career-planner/pkg/logger"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// LocalStore writes response and export files under a single download
// directory. File names carry the full context (resource, owner,
// timestamp), so there are no subdirectories per owner. Writers return
// the absolute path of the written file.
type LocalStore struct {
	dir    string
	logger logger.Logger
}

func NewLocalStore(dir string, log logger.Logger) (*LocalStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve download directory %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create download directory %s: %w", abs, err)
	}
	return &LocalStore{dir: abs, logger: log}, nil
}

var _ service.ResponseStore = (*LocalStore)(nil)

func (s *LocalStore) WriteJSON(ctx context.Context, fileName string, payload any) (string, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", apperror.NewStorage("cannot marshal payload for "+fileName, err)
	}
	path := filepath.Join(s.dir, fileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", apperror.NewStorage("cannot write "+fileName, err)
	}
	s.logger.Debug("Wrote JSON file", zap.String("path", path))
	return path, nil
}

func (s *LocalStore) WriteCSV(ctx context.Context, fileName string, header []string, rows [][]string) (string, error) {
	path := filepath.Join(s.dir, fileName)
	f, err := os.Create(path)
	if err != nil {
		return "", apperror.NewStorage("cannot create "+fileName, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", apperror.NewStorage("cannot write CSV header to "+fileName, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return "", apperror.NewStorage("cannot write CSV rows to "+fileName, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", apperror.NewStorage("cannot flush CSV to "+fileName, err)
	}
	s.logger.Debug("Wrote CSV file", zap.String("path", path))
	return path, nil
}

func (s *LocalStore) WriteExcel(ctx context.Context, fileName string, sheet string, header []string, rows [][]string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if sheet != "" && sheet != defaultSheet {
		f.SetSheetName(defaultSheet, sheet)
	} else {
		sheet = defaultSheet
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return "", apperror.NewStorage("cannot write Excel header to "+fileName, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", apperror.NewStorage("cannot address Excel row in "+fileName, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return "", apperror.NewStorage("cannot write Excel row to "+fileName, err)
		}
	}

	path := filepath.Join(s.dir, fileName)
	if err := f.SaveAs(path); err != nil {
		return "", apperror.NewStorage("cannot save "+fileName, err)
	}
	s.logger.Debug("Wrote Excel file", zap.String("path", path))
	return path, nil
}

// Open returns a handle for streaming a previously written file back to
// a client.
func (s *LocalStore) Open(fileName string) (*os.File, error) {
	clean := filepath.Base(fileName)
	f, err := os.Open(filepath.Join(s.dir, clean))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperror.NewNotFound("file", clean)
		}
		return nil, apperror.NewStorage("cannot open "+clean, err)
	}
	return f, nil
}
