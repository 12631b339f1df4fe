package service

import (
	"context"
	"errors"
	"fmt"

	"schoolapi/internal/model"
	"schoolapi/internal/repository"
)

var ErrInvalidSchool = errors.New("invalid school")

// SchoolService defines the use cases for handling schools.
type SchoolService interface {
	// List returns every school.
	List(ctx context.Context) ([]model.School, error)

	// Get returns a single school by its ID.
	Get(ctx context.Context, id int64) (*model.School, error)

	// Create validates the payload and stores a new school.
	Create(ctx context.Context, in model.CreateSchool) (*model.School, error)

	// Delete removes a school by ID and reports the number of rows removed.
	Delete(ctx context.Context, id int64) (int64, error)
}

type schoolService struct {
	repo repository.SchoolRepository
}

// NewSchoolService constructs a new SchoolService.
func NewSchoolService(repo repository.SchoolRepository) SchoolService {
	return &schoolService{repo: repo}
}

func (s *schoolService) List(ctx context.Context) ([]model.School, error) {
	return s.repo.List(ctx)
}

func (s *schoolService) Get(ctx context.Context, id int64) (*model.School, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *schoolService) Create(ctx context.Context, in model.CreateSchool) (*model.School, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchool, err)
	}
	return s.repo.Create(ctx, in)
}

// Delete passes the row count through untouched; deleting a missing id yields 0.
func (s *schoolService) Delete(ctx context.Context, id int64) (int64, error) {
	return s.repo.Delete(ctx, id)
}
