package importrec

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type ImportType string

const (
	TypeSkills     ImportType = "skills"
	TypeEducation  ImportType = "education"
	TypeExperience ImportType = "experience"
	TypeGoals      ImportType = "goals"
	TypeProfile    ImportType = "profile"
)

func (t ImportType) Valid() bool {
	switch t {
	case TypeSkills, TypeEducation, TypeExperience, TypeGoals, TypeProfile:
		return true
	}
	return false
}

type FileType string

const (
	FileCSV   FileType = "csv"
	FileExcel FileType = "excel"
	FileJSON  FileType = "json"
)

func (t FileType) Valid() bool {
	switch t {
	case FileCSV, FileExcel, FileJSON:
		return true
	}
	return false
}

type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusValidating JobStatus = "validating"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeAborted Outcome = "aborted"
)

// RowError records one failed data row. Row indexes are 1-based and
// count data rows only, never a header row.
type RowError struct {
	RowIndex int    `json:"row_index"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
}

type ImportJob struct {
	ID         uuid.UUID  `json:"id"`
	OwnerID    uuid.UUID  `json:"owner_id"`
	ImportType ImportType `json:"import_type"`
	FileType   FileType   `json:"file_type"`
	FileName   string     `json:"file_name"`
	Status     JobStatus  `json:"status"`
	SkipErrors bool       `json:"skip_errors"`
	Overwrite  bool       `json:"overwrite"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type ImportResult struct {
	ID             uuid.UUID  `json:"id"`
	JobID          uuid.UUID  `json:"job_id"`
	Outcome        Outcome    `json:"outcome"`
	ProcessedCount int        `json:"processed_count"`
	SkippedCount   int        `json:"skipped_count"`
	ErrorCount     int        `json:"error_count"`
	RowErrors      []RowError `json:"row_errors"`
	ResponseFile   string     `json:"response_file"`
	CreatedAt      time.Time  `json:"created_at"`
}

var ErrImportJobNotFound = errors.New("import job not found")

type Repository interface {
	SaveJob(ctx context.Context, job *ImportJob) error
	UpdateJobStatus(ctx context.Context, id uuid.UUID, status JobStatus) error
	FindJobByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*ImportJob, error)
	ListJobsByOwner(ctx context.Context, ownerID uuid.UUID, importType ImportType, limit, offset int) ([]*ImportJob, error)
	SaveResult(ctx context.Context, result *ImportResult) error
	FindResultByJobID(ctx context.Context, jobID uuid.UUID) (*ImportResult, error)
}
