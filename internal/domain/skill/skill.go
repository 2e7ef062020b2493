package skill

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	CategoryTechnical     = "technical"
	CategorySoft          = "soft"
	CategoryLanguage      = "language"
	CategoryFramework     = "framework"
	CategoryTool          = "tool"
	CategoryCertification = "certification"
)

type Skill struct {
	ID                uuid.UUID `json:"id"`
	OwnerID           uuid.UUID `json:"owner_id"`
	SkillName         string    `json:"skill_name"`
	Category          string    `json:"category"`
	ProficiencyLevel  int       `json:"proficiency_level"`
	YearsOfExperience int       `json:"years_of_experience"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

var (
	ErrSkillNotFound      = errors.New("skill not found")
	ErrInvalidCategory    = errors.New("invalid skill category")
	ErrInvalidProficiency = errors.New("proficiency level must be between 1 and 5")
)

func (s *Skill) Validate() error {
	if s.SkillName == "" {
		return errors.New("skill_name is required")
	}
	switch s.Category {
	case CategoryTechnical, CategorySoft, CategoryLanguage, CategoryFramework, CategoryTool, CategoryCertification:

	default:
		return ErrInvalidCategory
	}
	if s.ProficiencyLevel < 1 || s.ProficiencyLevel > 5 {
		return ErrInvalidProficiency
	}
	if s.YearsOfExperience < 0 {
		return errors.New("years_of_experience must not be negative")
	}
	return nil
}

type Repository interface {
	Save(ctx context.Context, s *Skill) error
	Update(ctx context.Context, s *Skill) error
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*Skill, error)
	FindByName(ctx context.Context, ownerID uuid.UUID, skillName string) (*Skill, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, category string, limit, offset int) ([]*Skill, error)
}
