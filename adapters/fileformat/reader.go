package fileformat

import (
	"io"

	"github.com/khoahotran/career-planner/internal/domain/importrec"
	"github.com/khoahotran/career-planner/pkg/apperror"
)

// Row is one data row of an uploaded file. Index is 1-based and counts
// data rows only; a CSV or Excel header row is never a data row.
type Row struct {
	Index  int
	Values map[string]any
}

type Reader interface {
	Parse(r io.Reader) ([]Row, error)
}

func NewReader(fileType importrec.FileType) (Reader, error) {
	switch fileType {
	case importrec.FileCSV:
		return &CSVReader{}, nil
	case importrec.FileExcel:
		return &ExcelReader{}, nil
	case importrec.FileJSON:
		return &JSONReader{}, nil
	default:
		return nil, apperror.NewUnsupportedFormat("file_type must be one of csv, excel, json", nil)
	}
}
