package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	OwnerID           uuid.UUID `json:"owner_id"`
	Phone             string    `json:"phone"`
	CurrentPosition   string    `json:"current_position"`
	YearsOfExperience int       `json:"years_of_experience"`
	CurrentSalary     *float64  `json:"current_salary"`
	DesiredSalary     *float64  `json:"desired_salary"`
	Location          string    `json:"location"`
	LinkedinURL       string    `json:"linkedin_url"`
	GithubURL         string    `json:"github_url"`
	PortfolioURL      string    `json:"portfolio_url"`
	UpdatedAt         time.Time `json:"updated_at"`
}

var ErrProfileNotFound = errors.New("profile not found")

func (p *Profile) Validate() error {
	if p.YearsOfExperience < 0 {
		return errors.New("years_of_experience must not be negative")
	}
	if p.CurrentSalary != nil && *p.CurrentSalary < 0 {
		return errors.New("current_salary must not be negative")
	}
	if p.DesiredSalary != nil && *p.DesiredSalary < 0 {
		return errors.New("desired_salary must not be negative")
	}
	return nil
}

type Repository interface {
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*Profile, error)
	Upsert(ctx context.Context, p *Profile) error
}
