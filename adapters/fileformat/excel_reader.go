package fileformat

import (
	"io"
	"strings"

	"github.com/khoahotran/career-planner/pkg/apperror"
	"github.com/xuri/excelize/v2"
)

type ExcelReader struct{}

// Parse reads the first sheet of an xlsx workbook. The first row is the
// header; trailing empty cells excelize omits are treated as absent fields.
func (er *ExcelReader) Parse(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperror.NewUnsupportedFormat("cannot open Excel workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperror.NewSchema("Excel workbook has no sheets", nil)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperror.NewUnsupportedFormat("cannot read Excel rows", err)
	}
	if len(records) == 0 {
		return nil, apperror.NewSchema("Excel sheet has no header row", nil)
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]Row, 0, len(records)-1)
	for i, record := range records[1:] {
		values := make(map[string]any, len(header))
		for j, cell := range record {
			if j >= len(header) || header[j] == "" {
				continue
			}
			values[header[j]] = strings.TrimSpace(cell)
		}
		rows = append(rows, Row{Index: i + 1, Values: values})
	}
	return rows, nil
}
