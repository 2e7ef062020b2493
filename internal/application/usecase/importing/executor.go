package importing

import (
	"context"
	"errors"

	"github.com/khoahotran/career-planner/adapters/fileformat"
	"github.com/khoahotran/career-planner/internal/domain/importrec"
)

// duplicateKeyError names the uniqueness-key field whose value already
// exists for the owner while overwrite_existing is false.
type duplicateKeyError struct {
	field string
}

func (e *duplicateKeyError) Error() string {
	return e.field + ": duplicate"
}

// Summary accumulates per-row outcomes of one import run. ErrorCount
// counts failed rows, not individual field errors; a row skipped under
// skip_errors counts in both Skipped and ErrorCount.
type Summary struct {
	Processed  int
	Skipped    int
	ErrorCount int
	RowErrors  []importrec.RowError
	Aborted    bool
}

type mapFunc[T any] func(fileformat.Row) (T, []importrec.RowError)

type applyFunc[T any] func(ctx context.Context, item T) error

func rowErrorFor(index int, err error) importrec.RowError {
	var dup *duplicateKeyError
	if errors.As(err, &dup) {
		return importrec.RowError{RowIndex: index, Field: dup.field, Message: "duplicate"}
	}
	return importrec.RowError{RowIndex: index, Message: err.Error()}
}

// executeRows runs the map-then-apply pipeline over every data row.
// Each row is written independently, so rows committed before a
// fail-fast abort stay committed.
func executeRows[T any](ctx context.Context, rows []fileformat.Row, mapRow mapFunc[T], apply applyFunc[T], skipErrors bool) Summary {
	var s Summary
	for _, row := range rows {
		item, errs := mapRow(row)
		if len(errs) == 0 {
			if err := apply(ctx, item); err != nil {
				errs = []importrec.RowError{rowErrorFor(row.Index, err)}
			}
		}
		if len(errs) > 0 {
			s.ErrorCount++
			s.RowErrors = append(s.RowErrors, errs...)
			if !skipErrors {
				s.Aborted = true
				return s
			}
			s.Skipped++
			continue
		}
		s.Processed++
	}
	return s
}
