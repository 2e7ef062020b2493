package persistence

import (
	"context"
	"encoding/json"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/khoahotran/career-planner/internal/domain/importrec"
	"github.com/khoahotran/career-planner/pkg/apperror"
	"github.com/khoahotran/career-planner/pkg/logger"
	"go.uber.org/zap"
)

type postgresImportRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresImportRepo(db *pgxpool.Pool, logger logger.Logger) importrec.Repository {
	return &postgresImportRepo{db: db, logger: logger}
}

const importJobColumns = "id, owner_id, import_type, file_type, file_name, status, skip_errors, overwrite, created_at, updated_at"

func scanImportJob(row pgx.Row, identifier string) (*importrec.ImportJob, error) {
	job := &importrec.ImportJob{}
	err := row.Scan(
		&job.ID, &job.OwnerID, &job.ImportType, &job.FileType, &job.FileName,
		&job.Status, &job.SkipErrors, &job.Overwrite, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("import job", identifier)
		}
		return nil, apperror.NewInternal("failed to scan import job row", err)
	}
	return job, nil
}

func (r *postgresImportRepo) SaveJob(ctx context.Context, job *importrec.ImportJob) error {
	query := `
		INSERT INTO import_jobs (id, owner_id, import_type, file_type, file_name, status, skip_errors, overwrite, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		job.ID, job.OwnerID, job.ImportType, job.FileType, job.FileName,
		job.Status, job.SkipErrors, job.Overwrite, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to save import job", err)
	}
	return nil
}

func (r *postgresImportRepo) UpdateJobStatus(ctx context.Context, id uuid.UUID, status importrec.JobStatus) error {
	query := `UPDATE import_jobs SET status = $2, updated_at = NOW() WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return apperror.NewInternal("failed to update import job status", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("import job", id.String())
	}
	return nil
}

func (r *postgresImportRepo) FindJobByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*importrec.ImportJob, error) {
	query := `SELECT ` + importJobColumns + ` FROM import_jobs WHERE id = $1 AND owner_id = $2`
	return scanImportJob(r.db.QueryRow(ctx, query, id, ownerID), id.String())
}

func (r *postgresImportRepo) ListJobsByOwner(ctx context.Context, ownerID uuid.UUID, importType importrec.ImportType, limit, offset int) ([]*importrec.ImportJob, error) {
	builder := psql.Select(importJobColumns).
		From("import_jobs").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	if importType != "" {
		builder = builder.Where(sq.Eq{"import_type": importType})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list import jobs query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query import jobs by owner", err)
	}
	defer rows.Close()

	jobs := make([]*importrec.ImportJob, 0)
	for rows.Next() {
		job, err := scanImportJob(rows, "")
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating import job rows", err)
	}
	return jobs, nil
}

func (r *postgresImportRepo) SaveResult(ctx context.Context, result *importrec.ImportResult) error {
	rowErrorsBytes, err := json.Marshal(result.RowErrors)
	if err != nil {
		return apperror.NewInternal("failed to marshal row errors", err)
	}
	query := `
		INSERT INTO import_results (id, job_id, outcome, processed_count, skipped_count, error_count, row_errors, response_file, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.db.Exec(ctx, query,
		result.ID, result.JobID, result.Outcome, result.ProcessedCount,
		result.SkippedCount, result.ErrorCount, rowErrorsBytes, result.ResponseFile, result.CreatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to save import result", err)
	}
	return nil
}

func (r *postgresImportRepo) FindResultByJobID(ctx context.Context, jobID uuid.UUID) (*importrec.ImportResult, error) {
	query := `
		SELECT id, job_id, outcome, processed_count, skipped_count, error_count, row_errors, response_file, created_at
		FROM import_results WHERE job_id = $1
	`
	result := &importrec.ImportResult{}
	var rowErrorsBytes []byte
	err := r.db.QueryRow(ctx, query, jobID).Scan(
		&result.ID, &result.JobID, &result.Outcome, &result.ProcessedCount,
		&result.SkippedCount, &result.ErrorCount, &rowErrorsBytes, &result.ResponseFile, &result.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("import result", jobID.String())
		}
		return nil, apperror.NewInternal("failed to scan import result row", err)
	}

	if err := json.Unmarshal(rowErrorsBytes, &result.RowErrors); err != nil {
		r.logger.Warn("Failed to unmarshal import row errors", zap.String("job_id", jobID.String()), zap.Error(err))
		result.RowErrors = []importrec.RowError{}
	}
	return result, nil
}
