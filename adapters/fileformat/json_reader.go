package fileformat

import (
	"encoding/json"
	"io"

	"github.com/khoahotran/career-planner/pkg/apperror"
)

type JSONReader struct{}

// Parse requires a top-level array of objects. Content that is not
// JSON at all is an unsupported-format error; valid JSON with the
// wrong shape (a single object, a scalar) is a schema error. A
// one-record import is an array of length one.
func (jr *JSONReader) Parse(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperror.NewUnsupportedFormat("cannot read JSON content", err)
	}
	if !json.Valid(data) {
		return nil, apperror.NewUnsupportedFormat("content is not valid JSON", nil)
	}

	var objects []map[string]any
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil, apperror.NewSchema("JSON body must be an array of objects", err)
	}

	rows := make([]Row, 0, len(objects))
	for i, obj := range objects {
		if obj == nil {
			return nil, apperror.NewSchema("JSON array elements must be objects", nil)
		}
		rows = append(rows, Row{Index: i + 1, Values: obj})
	}
	return rows, nil
}
