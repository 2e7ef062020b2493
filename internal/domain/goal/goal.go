package goal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusOnHold     = "on_hold"
)

type Goal struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TargetDate  *time.Time `json:"target_date"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

var (
	ErrGoalNotFound    = errors.New("career goal not found")
	ErrInvalidPriority = errors.New("invalid goal priority")
	ErrInvalidStatus   = errors.New("invalid goal status")
)

func (g *Goal) Validate() error {
	if g.Title == "" {
		return errors.New("title is required")
	}
	switch g.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:

	default:
		return ErrInvalidPriority
	}
	switch g.Status {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusOnHold:

	default:
		return ErrInvalidStatus
	}
	return nil
}

type Repository interface {
	Save(ctx context.Context, g *Goal) error
	Update(ctx context.Context, g *Goal) error
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*Goal, error)
	FindByTitle(ctx context.Context, ownerID uuid.UUID, title string) (*Goal, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, status string, limit, offset int) ([]*Goal, error)
}
