package experience

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Experience struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	Company      string     `json:"company"`
	Position     string     `json:"position"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	IsCurrent    bool       `json:"is_current"`
	Description  string     `json:"description"`
	Achievements string     `json:"achievements"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

var ErrExperienceNotFound = errors.New("work experience not found")

func (we *Experience) Validate() error {
	if we.Company == "" {
		return errors.New("company is required")
	}
	if we.Position == "" {
		return errors.New("position is required")
	}
	if we.StartDate.IsZero() {
		return errors.New("start_date is required")
	}
	if !we.IsCurrent && we.EndDate == nil {
		return errors.New("end_date is required unless the position is current")
	}
	if we.EndDate != nil && we.EndDate.Before(we.StartDate) {
		return errors.New("end_date must not be before start_date")
	}
	return nil
}

type Repository interface {
	Save(ctx context.Context, we *Experience) error
	Update(ctx context.Context, we *Experience) error
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*Experience, error)
	FindByKey(ctx context.Context, ownerID uuid.UUID, company, position string) (*Experience, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Experience, error)
}
