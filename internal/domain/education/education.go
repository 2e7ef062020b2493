package education

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Education struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	Institution  string     `json:"institution"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"field_of_study"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	GPA          *float64   `json:"gpa"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

var (
	ErrEducationNotFound = errors.New("education record not found")
	ErrInvalidGPA        = errors.New("gpa must be between 0.0 and 4.0")
)

func (e *Education) Validate() error {
	if e.Institution == "" {
		return errors.New("institution is required")
	}
	if e.Degree == "" {
		return errors.New("degree is required")
	}
	if e.StartDate.IsZero() {
		return errors.New("start_date is required")
	}
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		return errors.New("end_date must not be before start_date")
	}
	if e.GPA != nil && (*e.GPA < 0 || *e.GPA > 4.0) {
		return ErrInvalidGPA
	}
	return nil
}

type Repository interface {
	Save(ctx context.Context, e *Education) error
	Update(ctx context.Context, e *Education) error
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*Education, error)
	FindByKey(ctx context.Context, ownerID uuid.UUID, institution, degree string, startDate time.Time) (*Education, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Education, error)
}
