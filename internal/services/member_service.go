package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/pm-assistant-api/internal/models"
	"github.com/yukikurage/pm-assistant-api/internal/repository"
	"github.com/yukikurage/pm-assistant-api/internal/validation"
)

var (
	ErrMemberNotFound    = errors.New("member not found")
	ErrMemberEmailTaken  = errors.New("member email already exists")
	ErrMemberHasTimeLogs = errors.New("member has logged time and cannot be deleted")
)

// MemberService handles member business logic
type MemberService struct {
	members repository.MemberRepository
}

// NewMemberService creates a new MemberService
func NewMemberService(members repository.MemberRepository) *MemberService {
	return &MemberService{members: members}
}

// CreateMemberInput represents input for creating a member
type CreateMemberInput struct {
	Name                string   `json:"name" validate:"required,max=100"`
	Email               string   `json:"email" validate:"required,email"`
	Role                string   `json:"role" validate:"required,max=100"`
	Skills              []string `json:"skills" validate:"dive,required"`
	ExperienceYears     int      `json:"experience_years" validate:"gte=0"`
	AvailabilityPercent *float64 `json:"availability_percent" validate:"omitnil,gte=0,lte=100"`
}

// UpdateMemberInput represents a partial member update
type UpdateMemberInput struct {
	Name                *string   `json:"name" validate:"omitnil,min=1,max=100"`
	Email               *string   `json:"email" validate:"omitnil,email"`
	Role                *string   `json:"role" validate:"omitnil,min=1,max=100"`
	Skills              *[]string `json:"skills" validate:"omitnil,dive,required"`
	ExperienceYears     *int      `json:"experience_years" validate:"omitnil,gte=0"`
	AvailabilityPercent *float64  `json:"availability_percent" validate:"omitnil,gte=0,lte=100"`
}

// Create validates and stores a new member
func (s *MemberService) Create(ctx context.Context, input CreateMemberInput) (*models.Member, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, input.Email, ""); err != nil {
		return nil, err
	}

	availability := models.DefaultAvailabilityPercent
	if input.AvailabilityPercent != nil {
		availability = *input.AvailabilityPercent
	}

	member := &models.Member{
		Name:                input.Name,
		Email:               input.Email,
		Role:                input.Role,
		Skills:              uniqueStrings(input.Skills),
		ExperienceYears:     input.ExperienceYears,
		AvailabilityPercent: availability,
	}
	if err := s.members.Create(ctx, member); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrMemberEmailTaken
		}
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	return member, nil
}

// Get returns a member by ID
func (s *MemberService) Get(ctx context.Context, id string) (*models.Member, error) {
	if err := checkID("id", id); err != nil {
		return nil, err
	}
	member, err := s.members.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, ErrMemberNotFound, id)
	}
	return member, nil
}

// List returns one page of members ordered by name
func (s *MemberService) List(ctx context.Context, page, pageSize int) ([]models.Member, int64, error) {
	members, total, err := s.members.List(ctx, repository.MemberFilter{Page: page, PageSize: pageSize})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	return members, total, nil
}

// Update applies the provided fields to an existing member
func (s *MemberService) Update(ctx context.Context, id string, input UpdateMemberInput) (*models.Member, error) {
	input.Name = trimmed(input.Name)
	input.Role = trimmed(input.Role)
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		input.Email = &email
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	member, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		member.Name = *input.Name
	}
	if input.Email != nil {
		if *input.Email != member.Email {
			if err := s.ensureEmailFree(ctx, *input.Email, member.ID); err != nil {
				return nil, err
			}
		}
		member.Email = *input.Email
	}
	if input.Role != nil {
		member.Role = *input.Role
	}
	if input.Skills != nil {
		member.Skills = uniqueStrings(*input.Skills)
	}
	if input.ExperienceYears != nil {
		member.ExperienceYears = *input.ExperienceYears
	}
	if input.AvailabilityPercent != nil {
		member.AvailabilityPercent = *input.AvailabilityPercent
	}

	if err := s.members.Update(ctx, member); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrMemberEmailTaken
		}
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	return member, nil
}

// Delete removes a member that has no logged time
func (s *MemberService) Delete(ctx context.Context, id string) error {
	if err := checkID("id", id); err != nil {
		return err
	}

	if err := s.members.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("%w: %s", ErrMemberNotFound, id)
		case errors.Is(err, repository.ErrInUse):
			return fmt.Errorf("%w: %s", ErrMemberHasTimeLogs, id)
		}
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return nil
}

func (s *MemberService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.members.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check email: %w", err)
	case existing.ID != selfID:
		return ErrMemberEmailTaken
	default:
		return nil
	}
}
