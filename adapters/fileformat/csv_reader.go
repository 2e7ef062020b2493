package fileformat

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/khoahotran/career-planner/pkg/apperror"
)

type CSVReader struct{}

func (cr *CSVReader) Parse(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperror.NewUnsupportedFormat("cannot parse CSV content", err)
	}
	if len(records) == 0 {
		return nil, apperror.NewSchema("CSV file has no header row", nil)
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]Row, 0, len(records)-1)
	for i, record := range records[1:] {
		values := make(map[string]any, len(header))
		for j, field := range record {
			if j >= len(header) || header[j] == "" {
				continue
			}
			values[header[j]] = strings.TrimSpace(field)
		}
		rows = append(rows, Row{Index: i + 1, Values: values})
	}
	return rows, nil
}
